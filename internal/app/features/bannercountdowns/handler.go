// Package bannercountdowns serves time-limited promotional banners. A
// countdown stops being shown publicly once its end date passes, so the
// public endpoint is never cached.
package bannercountdowns

import (
	"errors"
	"net/http"
	"strings"
	"time"

	countdownstore "github.com/dalemusser/stratacms/internal/app/store/bannercountdowns"
	"github.com/dalemusser/stratacms/internal/app/system/inputval"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/listquery"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgNotFound = "Banner countdown not found"

// Handler handles banner countdown requests.
type Handler struct {
	store  *countdownstore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new banner countdown handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		store:  countdownstore.New(db),
		logger: logger,
		now:    time.Now,
	}
}

type countdownInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	EndDate     *string `json:"endDate"`
	ButtonText  *string `json:"buttonText"`
	ButtonLink  *string `json:"buttonLink"`
	IsActive    *bool   `json:"isActive"`
	Order       *int    `json:"order"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, r, msgNotFound)
		return
	}
	jsonutil.Error(w, r, h.logger, op, err)
}

// Active handles GET /banner-countdowns/active. Data is {bannerCountdown: null}
// when nothing is running.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercountdowns.active")
	defer cancel()

	bc, err := h.store.Active(ctx, h.now().UTC())
	if err != nil {
		h.fail(w, r, "get active banner countdown", err)
		return
	}
	jsonutil.OK(w, "Active banner countdown retrieved successfully", map[string]any{"bannerCountdown": bc})
}

// List handles GET /banner-countdowns.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "bannercountdowns.list")
	defer cancel()

	items, pg, err := h.store.List(ctx, countdownstore.ListFilter{
		IsActive: listquery.Bool(r, "isActive"),
		Sort:     listquery.String(r, "sort"),
		Page:     listquery.Page(r, listquery.DefaultLimit),
	})
	if err != nil {
		h.fail(w, r, "list banner countdowns", err)
		return
	}
	jsonutil.OK(w, "Banner countdowns retrieved successfully", map[string]any{
		"bannerCountdowns": items,
		"pagination":       pg,
	})
}

// Get handles GET /banner-countdowns/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "get banner countdown", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercountdowns.get")
	defer cancel()

	bc, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, "get banner countdown", err)
		return
	}
	jsonutil.OK(w, "Banner countdown retrieved successfully", map[string]any{"bannerCountdown": bc})
}

// Create handles POST /banner-countdowns.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in countdownInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode banner countdown", err)
		return
	}
	if str(in.Title) == "" || str(in.Image) == "" || str(in.EndDate) == "" {
		jsonutil.BadRequest(w, r, "Title, image, and end date are required")
		return
	}
	endDate, err := parseEndDate(*in.EndDate, h.now())
	if err != nil {
		jsonutil.Error(w, r, h.logger, "validate banner countdown", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercountdowns.create")
	defer cancel()

	order := 0
	if in.Order != nil {
		order = *in.Order
	}
	bc, err := h.store.Create(ctx, countdownstore.CreateInput{
		Title:       str(in.Title),
		Description: str(in.Description),
		Image:       str(in.Image),
		EndDate:     endDate,
		ButtonText:  str(in.ButtonText),
		ButtonLink:  str(in.ButtonLink),
		IsActive:    in.IsActive,
		Order:       order,
	})
	if err != nil {
		h.fail(w, r, "create banner countdown", err)
		return
	}

	h.logger.Debug("banner countdown created",
		zap.String("id", bc.ID.Hex()),
		zap.Time("end_date", bc.EndDate),
	)
	jsonutil.Created(w, "Banner countdown created successfully", map[string]any{"bannerCountdown": bc})
}

// Update handles PUT /banner-countdowns/{id}. A supplied end date is
// re-validated against the current time.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "update banner countdown", err)
		return
	}
	var in countdownInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode banner countdown", err)
		return
	}
	if inputval.Cleared(in.Title, in.Image, in.EndDate) {
		jsonutil.BadRequest(w, r, "Title, image, and end date are required")
		return
	}

	upd := countdownstore.UpdateInput{
		Title:       trimmed(in.Title),
		Description: trimmed(in.Description),
		Image:       trimmed(in.Image),
		ButtonText:  trimmed(in.ButtonText),
		ButtonLink:  trimmed(in.ButtonLink),
		IsActive:    in.IsActive,
		Order:       in.Order,
	}
	if in.EndDate != nil {
		endDate, err := parseEndDate(*in.EndDate, h.now())
		if err != nil {
			jsonutil.Error(w, r, h.logger, "validate banner countdown", err)
			return
		}
		upd.EndDate = &endDate
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercountdowns.update")
	defer cancel()

	bc, err := h.store.Update(ctx, id, upd)
	if err != nil {
		h.fail(w, r, "update banner countdown", err)
		return
	}
	jsonutil.OK(w, "Banner countdown updated successfully", map[string]any{"bannerCountdown": bc})
}

// Delete handles DELETE /banner-countdowns/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "delete banner countdown", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercountdowns.delete")
	defer cancel()

	if err := h.store.Delete(ctx, id); err != nil {
		h.fail(w, r, "delete banner countdown", err)
		return
	}
	jsonutil.OK(w, "Banner countdown deleted successfully", nil)
}

// ToggleStatus handles PATCH /banner-countdowns/{id}/toggle-status.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "toggle banner countdown", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercountdowns.toggle")
	defer cancel()

	bc, err := h.store.ToggleStatus(ctx, id)
	if err != nil {
		h.fail(w, r, "toggle banner countdown", err)
		return
	}
	jsonutil.OK(w, "Banner countdown status updated successfully", map[string]any{"bannerCountdown": bc})
}
