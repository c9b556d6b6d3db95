// internal/app/system/ledger/middleware.go
package ledger

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	ledgerstore "github.com/dalemusser/stratacms/internal/app/store/ledger"
	"github.com/dalemusser/stratacms/internal/app/system/network"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ctxKey is the context key type for ledger data.
type ctxKey int

const ctxKeyEntry ctxKey = iota

// Config holds configuration for the ledger middleware.
type Config struct {
	// Store is the ledger store for persisting entries.
	Store *ledgerstore.Store

	// Logger for logging persistence failures.
	Logger *zap.Logger

	// MaxBodyPreview is the maximum number of characters kept from the request body.
	// Set to 0 to disable body capture.
	MaxBodyPreview int

	// HeadersToCapture lists header names to record. Authorization is always redacted.
	HeadersToCapture []string

	// ExcludePaths is a list of path prefixes that are never recorded.
	ExcludePaths []string

	// OnlyErrors records only requests whose response status is >= 400.
	OnlyErrors bool
}

// DefaultConfig returns a Config that records failed API requests.
func DefaultConfig(store *ledgerstore.Store, logger *zap.Logger) Config {
	return Config{
		Store:          store,
		Logger:         logger,
		MaxBodyPreview: 500,
		HeadersToCapture: []string{
			"Content-Type",
			"User-Agent",
			"X-Request-ID",
		},
		ExcludePaths: []string{
			"/health",
			"/ready",
			"/readyz",
			"/livez",
		},
		OnlyErrors: true,
	}
}

// Middleware returns HTTP middleware that records requests to the ledger.
// Every request gets an X-Request-ID response header whether or not it is stored.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if excluded(cfg.ExcludePaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			entry := &ledgerstore.Entry{
				RequestID:       uuid.NewString(),
				ClientRequestID: r.Header.Get("X-Request-ID"),
				Method:          r.Method,
				Path:            r.URL.Path,
				Query:           r.URL.RawQuery,
				Headers:         captureHeaders(r.Header, cfg.HeadersToCapture),
				RemoteIP:        network.ClientIP(r),
				ActorType:       "anonymous",
				StartedAt:       time.Now(),
			}
			entry.RequestBodySize, entry.RequestBodyPreview = previewBody(r, cfg.MaxBodyPreview)
			w.Header().Set("X-Request-ID", entry.RequestID)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKeyEntry, entry)))

			entry.CompletedAt = time.Now()
			entry.DurationMs = float64(entry.CompletedAt.Sub(entry.StartedAt).Microseconds()) / 1000.0
			entry.StatusCode = rec.status
			entry.ResponseSize = rec.written
			if rec.status >= http.StatusBadRequest && entry.ErrorClass == "" {
				entry.ErrorClass = classify(rec.status)
			}
			if cfg.OnlyErrors && rec.status < http.StatusBadRequest {
				return
			}
			go persist(cfg, *entry)
		})
	}
}

func excluded(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// captureHeaders copies the named headers, redacting Authorization.
func captureHeaders(h http.Header, names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		v := h.Get(name)
		switch {
		case v == "":
		case strings.EqualFold(name, "Authorization"):
			out[name] = "[redacted]"
		default:
			out[name] = v
		}
	}
	return out
}

// previewBody reads the request body, restores it for the handler and
// returns its size with at most max characters of it.
func previewBody(r *http.Request, max int) (int64, string) {
	if max <= 0 || r.Body == nil || r.ContentLength <= 0 {
		return 0, ""
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return 0, ""
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) > max {
		return int64(len(body)), string(body[:max]) + "..."
	}
	return int64(len(body)), string(body)
}

// persist runs off the request path with its own deadline.
func persist(cfg Config, entry ledgerstore.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cfg.Store.Create(ctx, entry); err != nil {
		cfg.Logger.Error("failed to store ledger entry",
			zap.String("request_id", entry.RequestID),
			zap.Error(err))
	}
}

func classify(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return "validation"
	case status == http.StatusUnauthorized:
		return "auth"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= 500:
		return "internal"
	default:
		return "client_error"
	}
}

// statusRecorder captures the status code and bytes written.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	written     int64
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func entryFrom(ctx context.Context) (*ledgerstore.Entry, bool) {
	entry, ok := ctx.Value(ctxKeyEntry).(*ledgerstore.Entry)
	return entry, ok
}

// SetActor records the authenticated caller on the ledger entry.
func SetActor(ctx context.Context, id, role string) {
	if entry, ok := entryFrom(ctx); ok {
		entry.ActorType = "token"
		entry.ActorID = id
		entry.ActorRole = role
	}
}

// SetErrorClass sets the error class for the ledger entry.
func SetErrorClass(ctx context.Context, class string) {
	if entry, ok := entryFrom(ctx); ok {
		entry.ErrorClass = class
	}
}

// SetErrorMessage sets the error message for the ledger entry.
func SetErrorMessage(ctx context.Context, message string) {
	if entry, ok := entryFrom(ctx); ok {
		entry.ErrorMessage = message
	}
}

// GetErrorMessage returns the error message from context.
func GetErrorMessage(ctx context.Context) string {
	if entry, ok := entryFrom(ctx); ok {
		return entry.ErrorMessage
	}
	return ""
}

// RequestID returns the generated request id, or "" outside the middleware.
func RequestID(ctx context.Context) string {
	if entry, ok := entryFrom(ctx); ok {
		return entry.RequestID
	}
	return ""
}
