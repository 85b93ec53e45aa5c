// internal/app/features/surveys/routes.go
package surveys

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the surveys subrouter. Everything requires a session;
// creating and closing surveys requires admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleListActive)
	r.Post("/{surveyID}/answer", h.HandleAnswer)
	r.Get("/{surveyID}/results", h.HandleResults)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.HandleCreate)
		pr.Post("/{surveyID}/close", h.HandleClose)
	})

	return r
}
