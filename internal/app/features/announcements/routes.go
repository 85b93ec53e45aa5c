// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the announcements subrouter. The feed is public;
// writing requires admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleList)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{announcementID}", h.HandleDelete)
	})

	return r
}
