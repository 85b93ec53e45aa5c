// internal/app/features/contacts/routes.go
package contacts

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the contacts subrouter. Reading is public; changes
// require admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)
	r.Get("/category/{category}", h.HandleListByCategory)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.HandleCreate)
		pr.Put("/{contactID}", h.HandleUpdate)
		pr.Delete("/{contactID}", h.HandleDelete)
	})

	return r
}
