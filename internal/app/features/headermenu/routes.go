package headermenu

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/go-chi/chi/v5"
)

// CacheModule namespaces this feature's cached responses.
const CacheModule = "header-menu"

// Routes returns a router with the header menu endpoints.
func Routes(h *Handler, v *auth.Verifier, cache *respcache.Cache) http.Handler {
	r := chi.NewRouter()

	r.With(cache.Middleware(CacheModule)).Get("/", h.Public)

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireAdmin)
		ar.Use(cache.InvalidateOnWrite(CacheModule))

		ar.Get("/admin", h.Admin)
		ar.Put("/admin", h.Update)
		ar.Put("/admin/order", h.UpdateOrder)
	})

	return r
}
