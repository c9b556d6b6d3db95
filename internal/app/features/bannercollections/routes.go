package bannercollections

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/go-chi/chi/v5"
)

// CacheModule namespaces this feature's cached responses.
const CacheModule = "banner-collections"

// Routes returns a router with the banner collection endpoints.
//
// When mounted at /banner-collections the public /active listing is served
// through the response cache; every admin write purges it.
func Routes(h *Handler, v *auth.Verifier, cache *respcache.Cache) http.Handler {
	r := chi.NewRouter()

	r.With(cache.Middleware(CacheModule)).Get("/active", h.Active)

	r.With(v.RequireAdmin).Get("/", h.List)

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireToken, v.RequireAdmin)
		ar.Use(cache.InvalidateOnWrite(CacheModule))

		ar.Get("/{id}", h.Get)
		ar.Post("/", h.Create)
		ar.Put("/{id}", h.Update)
		ar.Delete("/{id}", h.Delete)
		ar.Patch("/{id}/toggle-status", h.ToggleStatus)
	})

	return r
}
