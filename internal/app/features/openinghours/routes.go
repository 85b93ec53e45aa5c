// internal/app/features/openinghours/routes.go
package openinghours

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the opening hours subrouter. Reading is public;
// writing requires admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleGet)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.HandleUpsertDay)
		pr.Post("/closed-days", h.HandleAddClosedDay)
		pr.Delete("/closed-days/{date}", h.HandleRemoveClosedDay)
	})

	return r
}
