package staticpages

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/go-chi/chi/v5"
)

// CacheModule namespaces this feature's cached responses.
const CacheModule = "static-pages"

// Routes returns a router with the static page endpoints.
//
// The footer resolves its privacy and terms links from these pages, so
// writes purge footerModule as well as this module.
func Routes(h *Handler, v *auth.Verifier, cache *respcache.Cache, footerModule string) http.Handler {
	r := chi.NewRouter()

	r.With(cache.Middleware(CacheModule)).Get("/active", h.Active)
	r.Get("/slug/{slug}", h.GetBySlug)

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireAdmin)
		ar.Use(cache.InvalidateOnWrite(CacheModule))
		ar.Use(cache.InvalidateOnWrite(footerModule))

		ar.Get("/", h.List)
		ar.Get("/check-slug", h.CheckSlug)
		ar.Get("/{id}", h.Get)
		ar.Post("/", h.Create)
		ar.Patch("/{id}", h.Update)
		ar.Delete("/{id}", h.Delete)
	})

	return r
}
