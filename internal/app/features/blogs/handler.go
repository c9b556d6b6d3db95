// Package blogs serves blog posts.
//
// Public endpoints:
//
//	GET /blogs/latest?limit=3&random=true
//	GET /blogs/slug/{slug}
//	GET /blogs/check-slug?slug=&blogId=
//
// Everything else is admin only. Post content is sanitized before it is
// stored.
package blogs

import (
	"errors"
	"net/http"
	"strings"
	"time"

	blogstore "github.com/dalemusser/stratacms/internal/app/store/blogs"
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
	msgNotFound = "Blog not found"
	msgRequired = "Title, description, content, and image are required"
	msgBadDate  = "Invalid publish date"
)

// Handler handles blog requests.
type Handler struct {
	store  *blogstore.Store
	logger *zap.Logger
}

// NewHandler creates a new blog handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		store:  blogstore.New(db),
		logger: logger,
	}
}

type blogInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Content         *string `json:"content"`
	Image           *string `json:"image"`
	Author          *string `json:"author"`
	Slug            *string `json:"slug"`
	IsActive        *bool   `json:"isActive"`
	PublishedAt     *string `json:"publishedAt"`
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// trimmed returns a trimmed copy of p, or nil.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

var publishLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// publishedAt parses the optional publish date. Dates without a zone are UTC.
func publishedAt(p *string) (*time.Time, bool) {
	raw := str(p)
	if raw == "" {
		return nil, true
	}
	for _, layout := range publishLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, r, msgNotFound)
		return
	}
	jsonutil.Error(w, r, h.logger, op, err)
}

// List handles GET /blogs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "blogs.list")
	defer cancel()

	items, pg, err := h.store.List(ctx, blogstore.ListFilter{
		IsActive: listquery.Bool(r, "isActive"),
		Search:   listquery.String(r, "search"),
		Sort:     listquery.String(r, "sort"),
		Page:     listquery.Page(r, listquery.DefaultLimit),
	})
	if err != nil {
		h.fail(w, r, "list blogs", err)
		return
	}
	jsonutil.OK(w, "Blogs retrieved successfully", map[string]any{
		"blogs":      items,
		"pagination": pg,
	})
}

// Latest handles GET /blogs/latest.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.latest")
	defer cancel()

	random := listquery.String(r, "random") == "true"
	items, err := h.store.Latest(ctx, listquery.Int(r, "limit"), random)
	if err != nil {
		h.fail(w, r, "latest blogs", err)
		return
	}
	if random {
		// A fresh sample per request; the response cache skips no-store.
		w.Header().Set("Cache-Control", "no-store")
	}
	jsonutil.OK(w, "Latest blogs retrieved successfully", map[string]any{"blogs": items})
}

// Get handles GET /blogs/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "get blog", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.get")
	defer cancel()

	b, err := h.store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, r, "get blog", err)
		return
	}
	jsonutil.OK(w, "Blog retrieved successfully", map[string]any{"blog": b})
}

// GetBySlug handles GET /blogs/slug/{slug}. Inactive posts are not found.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.slug")
	defer cancel()

	b, err := h.store.GetBySlug(ctx, strings.TrimSpace(chi.URLParam(r, "slug")))
	if err != nil {
		h.fail(w, r, "get blog by slug", err)
		return
	}
	jsonutil.OK(w, "Blog retrieved successfully", map[string]any{"blog": b})
}

// CheckSlug handles GET /blogs/check-slug. The slug is normalized before
// the lookup and the normalized form is returned.
func (h *Handler) CheckSlug(w http.ResponseWriter, r *http.Request) {
	raw := listquery.String(r, "slug")
	if raw == "" {
		jsonutil.BadRequest(w, r, "Slug is required")
		return
	}
	slug := normalize.Slugify(raw)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.checkslug")
	defer cancel()

	taken, err := h.store.SlugTaken(ctx, slug, listquery.OptionalID(r, "blogId"))
	if err != nil {
		h.fail(w, r, "check blog slug", err)
		return
	}
	msg := "Slug is available"
	if taken {
		msg = "Slug is already taken"
	}
	jsonutil.OK(w, msg, map[string]any{"available": !taken, "slug": slug})
}

// Create handles POST /blogs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in blogInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode blog", err)
		return
	}
	content := htmlsanitize.Sanitize(str(in.Content))
	if str(in.Title) == "" || str(in.Description) == "" || str(in.Image) == "" || htmlsanitize.IsBlank(content) {
		jsonutil.BadRequest(w, r, msgRequired)
		return
	}
	published, ok := publishedAt(in.PublishedAt)
	if !ok {
		jsonutil.BadRequest(w, r, msgBadDate)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.create")
	defer cancel()

	b, err := h.store.Create(ctx, blogstore.CreateInput{
		Title:           str(in.Title),
		Description:     str(in.Description),
		Content:         content,
		Image:           str(in.Image),
		Author:          str(in.Author),
		Slug:            str(in.Slug),
		IsActive:        in.IsActive,
		PublishedAt:     published,
		MetaTitle:       str(in.MetaTitle),
		MetaDescription: str(in.MetaDescription),
	})
	if err != nil {
		h.fail(w, r, "create blog", err)
		return
	}
	h.logger.Info("blog created",
		zap.String("id", b.ID.Hex()),
		zap.String("slug", b.Slug),
	)
	jsonutil.Created(w, "Blog created successfully", map[string]any{"blog": b})
}

// Update handles PATCH /blogs/{id}. Changing the title without a slug
// regenerates the slug.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "update blog", err)
		return
	}
	var in blogInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode blog", err)
		return
	}
	published, ok := publishedAt(in.PublishedAt)
	if !ok {
		jsonutil.BadRequest(w, r, msgBadDate)
		return
	}
	var content *string
	if in.Content != nil {
		c := htmlsanitize.Sanitize(*in.Content)
		content = &c
	}
	if inputval.Cleared(in.Title, in.Description, in.Image) || (content != nil && htmlsanitize.IsBlank(*content)) {
		jsonutil.BadRequest(w, r, msgRequired)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.update")
	defer cancel()

	b, err := h.store.Update(ctx, id, blogstore.UpdateInput{
		Title:           trimmed(in.Title),
		Description:     trimmed(in.Description),
		Content:         content,
		Image:           trimmed(in.Image),
		Author:          trimmed(in.Author),
		Slug:            trimmed(in.Slug),
		IsActive:        in.IsActive,
		PublishedAt:     published,
		MetaTitle:       trimmed(in.MetaTitle),
		MetaDescription: trimmed(in.MetaDescription),
	})
	if err != nil {
		h.fail(w, r, "update blog", err)
		return
	}
	jsonutil.OK(w, "Blog updated successfully", map[string]any{"blog": b})
}

// Delete handles DELETE /blogs/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "delete blog", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.delete")
	defer cancel()

	if err := h.store.Delete(ctx, id); err != nil {
		h.fail(w, r, "delete blog", err)
		return
	}
	h.logger.Info("blog deleted", zap.String("id", id.Hex()))
	jsonutil.OK(w, "Blog deleted successfully", nil)
}

// ToggleStatus handles PATCH /blogs/{id}/toggle-status.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "toggle blog", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogs.toggle")
	defer cancel()

	b, err := h.store.ToggleStatus(ctx, id)
	if err != nil {
		h.fail(w, r, "toggle blog", err)
		return
	}
	jsonutil.OK(w, "Blog status updated successfully", map[string]any{"blog": b})
}
