package blogcomments

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the comment endpoints. Nothing here is
// cached; moderation changes must show up immediately.
func Routes(h *Handler, v *auth.Verifier) http.Handler {
	r := chi.NewRouter()

	r.Get("/blog/{blogId}", h.ForBlog)
	r.Post("/", h.Create)

	r.Group(func(ar chi.Router) {
		ar.Use(v.RequireAdmin)

		ar.Get("/", h.List)
		ar.Patch("/{id}/toggle-approval", h.ToggleApproval)
		ar.Delete("/{id}", h.Delete)
	})

	return r
}
