// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the attendance subrouter. Everything requires a
// session; the roster additionally requires supervisor or admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Post("/", h.HandleUpsert)
	r.Get("/me", h.HandleListMine)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("supervisor", "admin"))
		pr.Get("/all", h.HandleListAll)
	})

	return r
}
