// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the auth subrouter. Login endpoints are public; the
// rest requires a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.HandleLogin)
	r.Post("/login-pin", h.HandleLoginPIN)

	r.Group(func(pr chi.Router) {
		pr.Use(h.SessionMgr.RequireSignedIn)
		pr.Post("/logout", h.HandleLogout)
		pr.Get("/me", h.HandleMe)
	})

	return r
}
