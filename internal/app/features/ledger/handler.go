// Package ledgerfeature exposes the API error ledger to admins.
package ledgerfeature

import (
	"errors"
	"net/http"
	"strings"
	"time"

	ledgerstore "github.com/dalemusser/stratacms/internal/app/store/ledger"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/listquery"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Handler serves ledger entries.
type Handler struct {
	store  *ledgerstore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new ledger handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{store: ledgerstore.New(db), logger: logger, now: time.Now}
}

// List handles GET /admin/ledger.
//
// Query: method, path (prefix), errorClass, statusMin, sinceHours, limit.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "ledger.list")
	defer cancel()

	f := ledgerstore.ListFilter{
		Method:     strings.ToUpper(listquery.String(r, "method")),
		PathPrefix: listquery.String(r, "path"),
		ErrorClass: listquery.String(r, "errorClass"),
		StatusMin:  int(listquery.Int(r, "statusMin")),
	}
	if hours := listquery.Int(r, "sinceHours"); hours > 0 {
		since := h.now().UTC().Add(-time.Duration(hours) * time.Hour)
		f.Since = &since
	}
	limit := listquery.Int(r, "limit")
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	entries, err := h.store.List(ctx, f, limit)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "list ledger", err)
		return
	}
	jsonutil.OK(w, "Ledger entries retrieved successfully", map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// Get handles GET /admin/ledger/{requestId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "ledger.get")
	defer cancel()

	e, err := h.store.ByRequestID(ctx, chi.URLParam(r, "requestId"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, r, "Ledger entry not found")
		return
	}
	if err != nil {
		jsonutil.Error(w, r, h.logger, "get ledger entry", err)
		return
	}
	jsonutil.OK(w, "Ledger entry retrieved successfully", e)
}

// Purge handles DELETE /admin/ledger?olderThanDays=N.
func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "ledger.purge")
	defer cancel()

	days := listquery.Int(r, "olderThanDays")
	if days <= 0 {
		jsonutil.BadRequest(w, r, "olderThanDays must be a positive number")
		return
	}
	cutoff := h.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	deleted, err := h.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "purge ledger", err)
		return
	}
	h.logger.Info("ledger purged", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	jsonutil.OK(w, "Ledger entries deleted successfully", map[string]int64{"deleted": deleted})
}
