// Package health reports whether the API and its backends are reachable.
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is an optional backend checked by the full health report.
type Pinger interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// Handler provides health check endpoints.
type Handler struct {
	mongo  *mongo.Client
	cache  Pinger
	logger *zap.Logger
}

// NewHandler creates a health Handler. cache may be nil.
func NewHandler(client *mongo.Client, cache Pinger, logger *zap.Logger) *Handler {
	return &Handler{mongo: client, cache: cache, logger: logger}
}

// Report is the body of GET /health.
type Report struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Routes mounts /health, /health/ready and /health/live.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	r.Get("/ready", h.Ready)
	r.Get("/live", h.Live)
	return r
}

// MountProbes adds the root level /ready, /readyz and /livez probe endpoints.
func MountProbes(r chi.Router, h *Handler) {
	r.Get("/ready", h.Ready)
	r.Get("/readyz", h.Ready)
	r.Get("/livez", h.Live)
}

func (h *Handler) pingMongo(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	return h.mongo.Ping(ctx, readpref.Primary())
}

// Check reports MongoDB and, when configured, the response cache. A
// cache outage only degrades the report; MongoDB being down fails it.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	rep := Report{Status: "ok", Services: map[string]string{}}
	status := http.StatusOK

	if err := h.pingMongo(r.Context()); err != nil {
		h.logger.Warn("health: mongodb ping failed", zap.Error(err))
		rep.Status = "unavailable"
		rep.Services["mongodb"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		rep.Services["mongodb"] = "ok"
	}

	switch {
	case h.cache == nil || !h.cache.Enabled():
		rep.Services["cache"] = "disabled"
	default:
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
		err := h.cache.Ping(ctx)
		cancel()
		if err != nil {
			h.logger.Warn("health: cache ping failed", zap.Error(err))
			rep.Services["cache"] = "unavailable"
			if rep.Status == "ok" {
				rep.Status = "degraded"
			}
		} else {
			rep.Services["cache"] = "ok"
		}
	}

	writeJSON(w, status, rep)
}

// Ready fails while MongoDB is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.pingMongo(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live always succeeds while the process is serving.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
