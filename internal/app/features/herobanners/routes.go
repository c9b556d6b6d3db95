package herobanners

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/go-chi/chi/v5"
)

// CacheModule namespaces this feature's cached responses.
const CacheModule = "hero-banners"

// Routes returns a router with the hero banner endpoints. Only the public
// slideshow listing is cached.
func Routes(h *Handler, v *auth.Verifier, cache *respcache.Cache) http.Handler {
	r := chi.NewRouter()

	r.With(cache.Middleware(CacheModule)).Get("/", h.Active)

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireToken, v.RequireAdmin)
		ar.Use(cache.InvalidateOnWrite(CacheModule))

		ar.Get("/admin/all", h.All)
		ar.Put("/admin/order", h.Reorder)
		ar.Get("/{id}", h.Get)
		ar.Post("/", h.Create)
		ar.Put("/{id}", h.Update)
		ar.Delete("/{id}", h.Delete)
		ar.Patch("/{id}/toggle-status", h.ToggleStatus)
	})

	return r
}
