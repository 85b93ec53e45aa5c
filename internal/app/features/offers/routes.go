// internal/app/features/offers/routes.go
package offers

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the offers subrouter. Everything requires a session;
// creating and deleting offers requires admin.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Get("/category/{category}", h.HandleListByCategory)
	r.Post("/{offerID}/favorite", h.HandleFavorite)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole("admin"))
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{offerID}", h.HandleDelete)
	})

	return r
}
