package ledgerfeature

import (
	"net/http"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin-only ledger endpoints.
func Routes(h *Handler, v *auth.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(v.RequireAdmin)

	r.Get("/", h.List)
	r.Delete("/", h.Purge)
	r.Get("/{requestId}", h.Get)

	return r
}
