// internal/app/features/documents/routes.go
package documents

import (
	"github.com/go-chi/chi/v5"

	"github.com/careware/hausportal/internal/app/system/auth"
)

// Routes returns the documents subrouter. All routes are owner-scoped
// behind a session.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/me", h.HandleListMine)
	r.Post("/", h.HandleUpload)
	r.Get("/{documentID}/download", h.HandleDownload)
	r.Delete("/{documentID}", h.HandleDelete)

	return r
}
