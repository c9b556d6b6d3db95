// Package bannercollections serves the promotional banner tiles shown in the
// storefront collection grid.
//
// Endpoints:
//   - GET    /banner-collections/active             - active tiles in display order (public)
//   - GET    /banner-collections                    - paginated admin listing
//   - GET    /banner-collections/{id}               - one tile
//   - POST   /banner-collections                    - create
//   - PUT    /banner-collections/{id}               - partial update
//   - DELETE /banner-collections/{id}               - delete
//   - PATCH  /banner-collections/{id}/toggle-status - flip isActive
package bannercollections

import (
	"errors"
	"net/http"
	"strings"

	bannercollectionstore "github.com/dalemusser/stratacms/internal/app/store/bannercollections"
	"github.com/dalemusser/stratacms/internal/app/system/inputval"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/listquery"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgNotFound = "Banner collection not found"

// Handler handles banner collection requests.
type Handler struct {
	store  *bannercollectionstore.Store
	logger *zap.Logger
}

// NewHandler creates a new banner collection handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		store:  bannercollectionstore.New(db),
		logger: logger,
	}
}

type bannerInput struct {
	Image       *string `json:"image"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ButtonText  *string `json:"buttonText"`
	ButtonLink  *string `json:"buttonLink"`
	Style       *string `json:"style"`
	IsActive    *bool   `json:"isActive"`
	Order       *int    `json:"order"`
}

type styleRule struct {
	Style string `validate:"bannerstyle" label:"Style"`
}

func (in bannerInput) validate() error {
	if in.Style == nil {
		return nil
	}
	return inputval.Check(styleRule{Style: *in.Style})
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

// fail reports err, mapping unknown ids to the module's not-found message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, r, msgNotFound)
		return
	}
	jsonutil.Error(w, r, h.logger, op, err)
}

// Active handles GET /banner-collections/active.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercollections.active")
	defer cancel()

	items, err := h.store.Active(ctx)
	if err != nil {
		h.fail(w, r, "list active banner collections", err)
		return
	}
	jsonutil.OK(w, "Active banner collections retrieved successfully", map[string]any{
		"bannerCollections": items,
	})
}

// List handles GET /banner-collections.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "bannercollections.list")
	defer cancel()

	items, pg, err := h.store.List(ctx, bannercollectionstore.ListFilter{
		IsActive: listquery.Bool(r, "isActive"),
		Sort:     listquery.String(r, "sort"),
		Page:     listquery.Page(r, listquery.DefaultLimit),
	})
	if err != nil {
		h.fail(w, r, "list banner collections", err)
		return
	}
	jsonutil.OK(w, "Banner collections retrieved successfully", map[string]any{
		"bannerCollections": items,
		"pagination":        pg,
	})
}

// Get handles GET /banner-collections/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "get banner collection", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercollections.get")
	defer cancel()

	bc, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, "get banner collection", err)
		return
	}
	jsonutil.OK(w, "Banner collection retrieved successfully", map[string]any{"bannerCollection": bc})
}

// Create handles POST /banner-collections.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in bannerInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode banner collection", err)
		return
	}
	if str(in.Image) == "" || str(in.Title) == "" {
		jsonutil.BadRequest(w, r, "Image and title are required")
		return
	}
	if err := in.validate(); err != nil {
		jsonutil.Error(w, r, h.logger, "validate banner collection", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercollections.create")
	defer cancel()

	order := 0
	if in.Order != nil {
		order = *in.Order
	}
	bc, err := h.store.Create(ctx, bannercollectionstore.CreateInput{
		Image:       str(in.Image),
		Title:       str(in.Title),
		Description: str(in.Description),
		ButtonText:  str(in.ButtonText),
		ButtonLink:  str(in.ButtonLink),
		Style:       str(in.Style),
		IsActive:    in.IsActive,
		Order:       order,
	})
	if err != nil {
		h.fail(w, r, "create banner collection", err)
		return
	}

	h.logger.Debug("banner collection created", zap.String("id", bc.ID.Hex()), zap.Int("order", bc.Order))
	jsonutil.Created(w, "Banner collection created successfully", map[string]any{"bannerCollection": bc})
}

// Update handles PUT /banner-collections/{id}. Only fields present in the body change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "update banner collection", err)
		return
	}
	var in bannerInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode banner collection", err)
		return
	}
	if inputval.Cleared(in.Image, in.Title) {
		jsonutil.BadRequest(w, r, "Image and title are required")
		return
	}
	if err := in.validate(); err != nil {
		jsonutil.Error(w, r, h.logger, "validate banner collection", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercollections.update")
	defer cancel()

	bc, err := h.store.Update(ctx, id, bannercollectionstore.UpdateInput{
		Image:       trimmed(in.Image),
		Title:       trimmed(in.Title),
		Description: trimmed(in.Description),
		ButtonText:  trimmed(in.ButtonText),
		ButtonLink:  trimmed(in.ButtonLink),
		Style:       in.Style,
		IsActive:    in.IsActive,
		Order:       in.Order,
	})
	if err != nil {
		h.fail(w, r, "update banner collection", err)
		return
	}
	jsonutil.OK(w, "Banner collection updated successfully", map[string]any{"bannerCollection": bc})
}

// Delete handles DELETE /banner-collections/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "delete banner collection", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercollections.delete")
	defer cancel()

	if err := h.store.Delete(ctx, id); err != nil {
		h.fail(w, r, "delete banner collection", err)
		return
	}
	h.logger.Debug("banner collection deleted", zap.String("id", id.Hex()))
	jsonutil.OK(w, "Banner collection deleted successfully", nil)
}

// ToggleStatus handles PATCH /banner-collections/{id}/toggle-status.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "toggle banner collection", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "bannercollections.toggle")
	defer cancel()

	bc, err := h.store.ToggleStatus(ctx, id)
	if err != nil {
		h.fail(w, r, "toggle banner collection", err)
		return
	}
	jsonutil.OK(w, "Banner collection status updated successfully", map[string]any{"bannerCollection": bc})
}
