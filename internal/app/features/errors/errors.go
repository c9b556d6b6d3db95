// Package errors provides the JSON fallbacks for unmatched routes and
// panics, plus a request-scoped error logger.
package errors

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the request path and method.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.LogWithFields(r, msg, err)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}, fields...)
	e.logger.Error(msg, all...)
}

// Handler serves the API's fallback responses.
type Handler struct {
	log *ErrorLogger
}

// NewHandler creates a new error Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{log: NewErrorLogger(logger)}
}

// NotFound answers requests that matched no route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, r, "Route not found")
}

// MethodNotAllowed answers requests whose path exists under another method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Fail(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}

// Recoverer turns a panic in next into a logged 500 envelope.
// http.ErrAbortHandler is re-panicked so the server can abort the response.
func (h *Handler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.log.LogWithFields(r, "panic serving request", fmt.Errorf("%v", rec),
				zap.ByteString("stack", debug.Stack()))
			jsonutil.Fail(w, r, http.StatusInternalServerError, "Server error")
		}()
		next.ServeHTTP(w, r)
	})
}
