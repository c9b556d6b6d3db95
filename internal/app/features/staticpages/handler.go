// Package staticpages serves informational pages such as shipping, returns
// and privacy policy. The footer links to privacy and terms pages by type.
package staticpages

import (
	"errors"
	"net/http"
	"strings"

	staticpagestore "github.com/dalemusser/stratacms/internal/app/store/staticpages"
	"github.com/dalemusser/stratacms/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratacms/internal/app/system/inputval"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/listquery"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgNotFound = "Page not found"
	msgRequired = "Title, slug, and content are required"
)

// Handler handles static page requests.
type Handler struct {
	store  *staticpagestore.Store
	logger *zap.Logger
}

// NewHandler creates a new static page handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		store:  staticpagestore.New(db),
		logger: logger,
	}
}

type pageInput struct {
	Title           *string `json:"title"`
	Slug            *string `json:"slug"`
	Content         *string `json:"content"`
	PageType        *string `json:"pageType"`
	IsActive        *bool   `json:"isActive"`
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
}

type pageTypeRule struct {
	PageType string `validate:"pagetype" label:"Page type"`
}

func (in pageInput) validate() error {
	if in.PageType == nil {
		return nil
	}
	return inputval.Check(pageTypeRule{PageType: strings.TrimSpace(*in.PageType)})
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
	s := strings.TrimSpace(*p)
	return &s
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, r, msgNotFound)
		return
	}
	jsonutil.Error(w, r, h.logger, op, err)
}

// List handles GET /static-pages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "staticpages.list")
	defer cancel()

	pages, pg, err := h.store.List(ctx, staticpagestore.ListFilter{
		Search:   listquery.String(r, "search"),
		PageType: listquery.String(r, "pageType"),
		IsActive: listquery.Bool(r, "isActive"),
		Page:     listquery.Page(r, listquery.DefaultLimit),
	})
	if err != nil {
		h.fail(w, r, "list static pages", err)
		return
	}
	jsonutil.OK(w, "Static pages retrieved successfully", map[string]any{
		"pages":      pages,
		"pagination": pg,
	})
}

// Active handles GET /static-pages/active. Only title, slug and page type
// are returned.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "staticpages.active")
	defer cancel()

	pages, err := h.store.ActiveLinks(ctx)
	if err != nil {
		h.fail(w, r, "list active static pages", err)
		return
	}
	jsonutil.OK(w, "Active static pages retrieved successfully", map[string]any{"pages": pages})
}

// GetBySlug handles GET /static-pages/slug/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "staticpages.slug")
	defer cancel()

	page, err := h.store.GetBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, "get static page by slug", err)
		return
	}
	jsonutil.OK(w, "Static page retrieved successfully", map[string]any{"page": page})
}

// Get handles GET /static-pages/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "get static page", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "staticpages.get")
	defer cancel()

	page, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, "get static page", err)
		return
	}
	jsonutil.OK(w, "Static page retrieved successfully", map[string]any{"page": page})
}

// CheckSlug handles GET /static-pages/check-slug.
func (h *Handler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	raw := listquery.String(r, "slug")
	if raw == "" {
		jsonutil.BadRequest(w, r, "Slug is required")
		return
	}
	slug := normalize.Slugify(raw)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "staticpages.checkslug")
	defer cancel()

	taken, err := h.store.SlugTaken(ctx, slug, listquery.OptionalID(r, "pageId"))
	if err != nil {
		h.fail(w, r, "check static page slug", err)
		return
	}
	msg := "Slug is available"
	if taken {
		msg = "Slug is already taken"
	}
	jsonutil.OK(w, msg, map[string]any{"available": !taken, "slug": slug})
}

// Create handles POST /static-pages.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in pageInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode static page", err)
		return
	}
	content := htmlsanitize.Sanitize(str(in.Content))
	if str(in.Title) == "" || str(in.Slug) == "" || htmlsanitize.IsBlank(content) {
		jsonutil.BadRequest(w, r, msgRequired)
		return
	}
	if err := in.validate(); err != nil {
		jsonutil.Error(w, r, h.logger, "validate static page", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "staticpages.create")
	defer cancel()

	page, err := h.store.Create(ctx, staticpagestore.CreateInput{
		Title:           str(in.Title),
		Slug:            str(in.Slug),
		Content:         content,
		PageType:        str(in.PageType),
		IsActive:        in.IsActive,
		MetaTitle:       str(in.MetaTitle),
		MetaDescription: str(in.MetaDescription),
	})
	if err != nil {
		h.fail(w, r, "create static page", err)
		return
	}
	h.logger.Info("static page created",
		zap.String("id", page.ID.Hex()),
		zap.String("slug", page.Slug),
	)
	jsonutil.Created(w, "Static page created successfully", map[string]any{"page": page})
}

// Update handles PATCH /static-pages/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "update static page", err)
		return
	}
	var in pageInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode static page", err)
		return
	}
	var content *string
	if in.Content != nil {
		c := htmlsanitize.Sanitize(*in.Content)
		content = &c
	}
	if inputval.Cleared(in.Title, in.Slug) || (content != nil && htmlsanitize.IsBlank(*content)) {
		jsonutil.BadRequest(w, r, msgRequired)
		return
	}
	if err := in.validate(); err != nil {
		jsonutil.Error(w, r, h.logger, "validate static page", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "staticpages.update")
	defer cancel()

	page, err := h.store.Update(ctx, id, staticpagestore.UpdateInput{
		Title:           trimmed(in.Title),
		Slug:            trimmed(in.Slug),
		Content:         content,
		PageType:        trimmed(in.PageType),
		IsActive:        in.IsActive,
		MetaTitle:       trimmed(in.MetaTitle),
		MetaDescription: trimmed(in.MetaDescription),
	})
	if err != nil {
		h.fail(w, r, "update static page", err)
		return
	}
	jsonutil.OK(w, "Static page updated successfully", map[string]any{"page": page})
}

// Delete handles DELETE /static-pages/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "delete static page", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "staticpages.delete")
	defer cancel()

	if err := h.store.Delete(ctx, id); err != nil {
		h.fail(w, r, "delete static page", err)
		return
	}
	h.logger.Info("static page deleted", zap.String("id", id.Hex()))
	jsonutil.OK(w, "Static page deleted successfully", nil)
}
