package blogs

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/go-chi/chi/v5"
)

// CacheModule namespaces this feature's cached responses.
const CacheModule = "blogs"

// Routes returns a router with the blog endpoints. The latest listing is
// cached unless a random sample is requested; slug lookups and slug checks
// are not.
func Routes(h *Handler, v *auth.Verifier, cache *respcache.Cache) http.Handler {
	r := chi.NewRouter()

	r.With(cache.Middleware(CacheModule)).Get("/latest", h.Latest)
	r.Get("/slug/{slug}", h.GetBySlug)
	r.Get("/check-slug", h.CheckSlug)

	r.With(v.RequireAdmin).Get("/", h.List)
	r.With(v.RequireAdmin).Get("/{id}", h.Get)

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireToken, v.RequireAdmin)
		ar.Use(cache.InvalidateOnWrite(CacheModule))

		ar.Post("/", h.Create)
		ar.Patch("/{id}", h.Update)
		ar.Delete("/{id}", h.Delete)
		ar.Patch("/{id}/toggle-status", h.ToggleStatus)
	})

	return r
}
