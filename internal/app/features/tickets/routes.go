// internal/app/features/tickets/routes.go
package tickets

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the tickets subrouter. Everything requires a session;
// the overview of all tickets requires admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/me", h.HandleListMine)
	r.Post("/", h.HandleUpload)
	r.Get("/{ticketID}/download", h.HandleDownload)
	r.Delete("/{ticketID}", h.HandleDelete)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/all", h.HandleListAll)
	})

	return r
}
