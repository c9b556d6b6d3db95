// Package apistatsfeature reports request counts per module to admins.
package apistatsfeature

import (
	"net/http"
	"time"

	apistatsstore "github.com/dalemusser/stratacms/internal/app/store/apistats"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/listquery"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	defaultHours = 24
	maxHours     = 24 * 90
)

// Handler serves API statistics.
type Handler struct {
	store  *apistatsstore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new API stats handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{store: apistatsstore.New(db), logger: logger, now: time.Now}
}

// window reads ?hours=N, clamped to [1, maxHours].
func (h *Handler) window(r *http.Request) (time.Time, time.Time) {
	hours := listquery.Int(r, "hours")
	if hours <= 0 {
		hours = defaultHours
	}
	if hours > maxHours {
		hours = maxHours
	}
	end := h.now().UTC()
	return end.Add(-time.Duration(hours) * time.Hour), end
}

// Summary handles GET /admin/stats.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "apistats.summary")
	defer cancel()

	start, end := h.window(r)
	sums, err := h.store.Summaries(ctx, start, end)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "summarize api stats", err)
		return
	}
	jsonutil.OK(w, "API statistics retrieved successfully", map[string]any{
		"from":    start,
		"to":      end,
		"modules": sums,
	})
}

// Module handles GET /admin/stats/{module}, the raw buckets.
func (h *Handler) Module(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "apistats.module")
	defer cancel()

	module := chi.URLParam(r, "module")
	start, end := h.window(r)
	buckets, err := h.store.Range(ctx, module, start, end)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "list api stats", err)
		return
	}
	jsonutil.OK(w, "API statistics retrieved successfully", map[string]any{
		"module":  module,
		"buckets": buckets,
	})
}
