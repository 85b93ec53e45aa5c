// internal/app/features/jobs/routes.go
package jobs

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the jobs subrouter. Postings are public reads; all
// changes require admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Get("/{jobID}", h.HandleGet)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.HandleCreate)
		pr.Post("/{jobID}/active", h.HandleSetActive)
		pr.Delete("/{jobID}", h.HandleDelete)
	})

	return r
}
