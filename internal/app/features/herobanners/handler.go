// Package herobanners serves the homepage slideshow.
//
// Banners are stored in one canonical form. Requests may use the legacy
// aliases title, modelImage, button1Text and button1Link; responses carry
// both spellings.
package herobanners

import (
	"context"
	"errors"
	"net/http"

	herobannerstore "github.com/dalemusser/stratacms/internal/app/store/herobanners"
	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/listquery"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/dalemusser/stratacms/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgNotFound = "Hero banner not found"

// Handler handles hero banner requests.
type Handler struct {
	db     *mongo.Database
	store  *herobannerstore.Store
	logger *zap.Logger
}

// NewHandler creates a new hero banner handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		db:     db,
		store:  herobannerstore.New(db),
		logger: logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, r, msgNotFound)
		return
	}
	jsonutil.Error(w, r, h.logger, op, err)
}

func actorID(r *http.Request) string {
	if c, ok := auth.CurrentClaims(r); ok {
		return c.UserID
	}
	return ""
}

// Active handles GET /hero-banners. Data is the array of active slides.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "herobanners.active")
	defer cancel()

	items, err := h.store.Active(ctx)
	if err != nil {
		h.fail(w, r, "list active hero banners", err)
		return
	}
	jsonutil.OK(w, "Hero banners retrieved successfully", views(items))
}

// All handles GET /hero-banners/admin/all.
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "herobanners.all")
	defer cancel()

	items, pg, err := h.store.List(ctx, herobannerstore.ListFilter{
		IsActive: listquery.Bool(r, "isActive"),
		Sort:     listquery.String(r, "sort"),
		Page:     listquery.Page(r, listquery.DefaultLimit),
	})
	if err != nil {
		h.fail(w, r, "list hero banners", err)
		return
	}
	jsonutil.OK(w, "All hero banners retrieved successfully", map[string]any{
		"heroBanners": views(items),
		"pagination":  pg,
	})
}

// Get handles GET /hero-banners/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "get hero banner", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "herobanners.get")
	defer cancel()

	hb, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, "get hero banner", err)
		return
	}
	jsonutil.OK(w, "Hero banner retrieved successfully", view(hb))
}

// Create handles POST /hero-banners.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in heroInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode hero banner", err)
		return
	}
	hb := in.model(actorID(r))
	if hb.ImgSrc == "" || hb.Heading == "" {
		jsonutil.BadRequest(w, r, "Image and heading are required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "herobanners.create")
	defer cancel()

	created, err := h.store.Create(ctx, hb)
	if err != nil {
		h.fail(w, r, "create hero banner", err)
		return
	}
	h.logger.Debug("hero banner created",
		zap.String("id", created.ID.Hex()),
		zap.String("created_by", created.CreatedBy),
	)
	jsonutil.Created(w, "Hero banner created successfully", view(created))
}

// Update handles PUT /hero-banners/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "update hero banner", err)
		return
	}
	var in heroInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode hero banner", err)
		return
	}
	if in.clearsRequired() {
		jsonutil.BadRequest(w, r, "Image and heading are required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "herobanners.update")
	defer cancel()

	hb, err := h.store.Update(ctx, id, in.update(actorID(r)))
	if err != nil {
		h.fail(w, r, "update hero banner", err)
		return
	}
	jsonutil.OK(w, "Hero banner updated successfully", view(hb))
}

// Delete handles DELETE /hero-banners/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "delete hero banner", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "herobanners.delete")
	defer cancel()

	if err := h.store.Delete(ctx, id); err != nil {
		h.fail(w, r, "delete hero banner", err)
		return
	}
	jsonutil.OK(w, "Hero banner deleted successfully", nil)
}

// ToggleStatus handles PATCH /hero-banners/{id}/toggle-status.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "toggle hero banner", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "herobanners.toggle")
	defer cancel()

	hb, err := h.store.ToggleStatus(ctx, id)
	if err != nil {
		h.fail(w, r, "toggle hero banner", err)
		return
	}
	jsonutil.OK(w, "Hero banner status updated successfully", view(hb))
}

type orderInput struct {
	Banners []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	} `json:"banners"`
}

// Reorder handles PUT /hero-banners/admin/order with {banners:[{id,order}]}.
// Entries with unknown or malformed ids are skipped.
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var in orderInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode hero banner order", err)
		return
	}
	if in.Banners == nil {
		jsonutil.BadRequest(w, r, "Banners array is required")
		return
	}

	updates := make([]herobannerstore.OrderUpdate, 0, len(in.Banners))
	for _, b := range in.Banners {
		id, err := storeutil.ParseID(b.ID)
		if err != nil {
			continue
		}
		updates = append(updates, herobannerstore.OrderUpdate{ID: id, Order: b.Order})
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "herobanners.reorder")
	defer cancel()

	// All or nothing where the deployment supports transactions.
	var matched int64
	err := txn.Run(ctx, h.db, h.logger, func(ctx context.Context) error {
		n, err := h.store.Reorder(ctx, updates)
		matched = n
		return err
	})
	if err != nil {
		h.fail(w, r, "reorder hero banners", err)
		return
	}
	h.logger.Debug("hero banners reordered",
		zap.Int("requested", len(in.Banners)),
		zap.Int64("matched", matched),
	)
	jsonutil.OK(w, "Banner order updated successfully", nil)
}
