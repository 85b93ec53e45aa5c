// internal/app/features/trainings/routes.go
package trainings

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the trainings subrouter. Everything requires a
// session; the participant list needs supervisor or admin, and CRUD
// needs admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/{trainingID}/interest", h.HandleInterest)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("supervisor", "admin"))
		pr.Get("/{trainingID}/interested", h.HandleListInterested)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{trainingID}", h.HandleDelete)
	})

	return r
}
