// Package apistats counts requests per feature module in time buckets.
package apistats

import (
	"context"
	"net/http"
	"time"

	apistatsstore "github.com/dalemusser/stratacms/internal/app/store/apistats"
	"go.uber.org/zap"
)

// DefaultBucket is the bucket width used when none is configured.
const DefaultBucket = time.Hour

// Recorder writes request statistics asynchronously. A nil *Recorder records
// nothing.
type Recorder struct {
	store  *apistatsstore.Store
	logger *zap.Logger
	bucket time.Duration
	now    func() time.Time
}

// NewRecorder creates a Recorder with the given bucket width.
func NewRecorder(store *apistatsstore.Store, logger *zap.Logger, bucket time.Duration) *Recorder {
	if bucket <= 0 {
		bucket = DefaultBucket
	}
	return &Recorder{store: store, logger: logger, bucket: bucket, now: time.Now}
}

// Bucket returns the bucket width.
func (rec *Recorder) Bucket() time.Duration {
	return rec.bucket
}

// Record stores one request without blocking the caller.
func (rec *Recorder) Record(module string, durationMs int64, isError bool) {
	at := rec.now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rec.store.Record(ctx, module, rec.bucket, at, durationMs, isError); err != nil {
			rec.logger.Error("failed to record API stats",
				zap.String("module", module),
				zap.Error(err),
			)
		}
	}()
}

// Middleware records every request under module.
func (rec *Recorder) Middleware(module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			rec.Record(module, time.Since(start).Milliseconds(), wrapped.status >= http.StatusBadRequest)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader {
		sw.status = code
		sw.wroteHeader = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true
	return sw.ResponseWriter.Write(b)
}

// Flush implements http.Flusher.
func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
