package bannercountdowns

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the banner countdown endpoints.
func Routes(h *Handler, v *auth.Verifier) http.Handler {
	r := chi.NewRouter()

	r.Get("/active", h.Active)
	r.With(v.RequireAdmin).Get("/", h.List)

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireToken, v.RequireAdmin)

		ar.Get("/{id}", h.Get)
		ar.Post("/", h.Create)
		ar.Put("/{id}", h.Update)
		ar.Delete("/{id}", h.Delete)
		ar.Patch("/{id}/toggle-status", h.ToggleStatus)
	})

	return r
}
