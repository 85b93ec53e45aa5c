// internal/app/features/auth/session.go
package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	sysauth "github.com/careware/hausportal/internal/app/system/auth"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
)

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/logout                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleLogout deletes the server-side session and expires the cookie.
// Logging out an already-dead session still succeeds.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.SessionMgr.Token(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		if err := h.Sessions.DeleteByToken(ctx, token); err != nil {
			h.Log.Warn("failed to delete session record on logout", zap.Error(err))
		}
	}

	if err := h.SessionMgr.Clear(w, r); err != nil {
		h.Log.Error("failed to clear session cookie", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Logout-Fehler")
		return
	}

	respond.Success(w, "Erfolgreich abgemeldet")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/auth/me                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleMe returns the signed-in user. The signed-in gate runs before
// this, so a missing user here cannot happen in the mounted router.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := sysauth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"user": payloadFor(u)})
}
