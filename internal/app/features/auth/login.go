// internal/app/features/auth/login.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/users"
	sysauth "github.com/careware/hausportal/internal/app/system/auth"
	"github.com/careware/hausportal/internal/app/system/authutil"
	"github.com/careware/hausportal/internal/app/system/device"
	"github.com/careware/hausportal/internal/app/system/metrics"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// msgInvalidCredentials is deliberately the same for an unknown
// principal and a wrong secret, so login cannot be used to probe which
// accounts exist.
const msgInvalidCredentials = "Ungültige Anmeldedaten"

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/login-pin                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type pinLoginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

func (h *Handler) HandleLoginPIN(w http.ResponseWriter, r *http.Request) {
	var req pinLoginRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		respond.Error(w, http.StatusBadRequest, "Benutzername ist erforderlich")
		return
	}
	// Format is checked before any lookup; a malformed PIN is a client
	// bug, not a failed credential.
	if err := authutil.ValidatePIN(strings.TrimSpace(req.PIN)); err != nil {
		respond.Error(w, http.StatusBadRequest, "PIN muss aus 4 Ziffern bestehen")
		return
	}

	if ok, msg := h.Limits.Check(r, req.Username); !ok {
		metrics.Logins.WithLabelValues("pin", "limited").Inc()
		respond.Error(w, http.StatusTooManyRequests, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, users.ErrNotFound) {
		metrics.Logins.WithLabelValues("pin", "denied").Inc()
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.loginError(w, "pin", err)
		return
	}
	if !authutil.CheckPIN(strings.TrimSpace(req.PIN), user.PINHash) {
		metrics.Logins.WithLabelValues("pin", "denied").Inc()
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	h.completeLogin(ctx, w, r, user, "pin", req.Username)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/auth/login                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type passwordLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req passwordLoginRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "E-Mail und Passwort sind erforderlich")
		return
	}

	if ok, msg := h.Limits.Check(r, req.Email); !ok {
		metrics.Logins.WithLabelValues("password", "limited").Inc()
		respond.Error(w, http.StatusTooManyRequests, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, users.ErrNotFound) {
		metrics.Logins.WithLabelValues("password", "denied").Inc()
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.loginError(w, "password", err)
		return
	}
	if !authutil.CheckPassword(req.Password, user.PasswordHash) {
		metrics.Logins.WithLabelValues("password", "denied").Inc()
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	h.completeLogin(ctx, w, r, user, "password", req.Email)
}

// completeLogin runs the steps shared by both login variants: the
// active check, the server-side session record and the cookie.
// account is the identifier the client logged in with, used to clear
// its failed-attempt counter.
func (h *Handler) completeLogin(ctx context.Context, w http.ResponseWriter, r *http.Request, user models.User, method, account string) {
	// A deactivated account answers exactly like a missing one, so
	// login cannot confirm the account exists or that the credentials
	// were right.
	if !user.Active {
		metrics.Logins.WithLabelValues(method, "denied").Inc()
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	deviceLabel := device.DisplayName(r.UserAgent())
	sess, err := h.Sessions.Create(ctx, user.ID, deviceLabel, h.SessionMgr.MaxAge())
	if err != nil {
		h.loginError(w, method, err)
		return
	}

	if err := h.SessionMgr.Establish(w, r, sess.Token); err != nil {
		h.loginError(w, method, err)
		return
	}

	h.Limits.ResetAccount(account)
	metrics.Logins.WithLabelValues(method, "ok").Inc()
	h.Log.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("method", method),
		zap.String("device", deviceLabel))

	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Willkommen " + user.FirstName + "!",
		"user": payloadFor(&sysauth.SessionUser{
			ID:       user.ID.Hex(),
			Username: user.Username,
			Name:     user.DisplayName(),
			Email:    user.Email,
			Role:     user.Role,
		}),
	})
}

func (h *Handler) loginError(w http.ResponseWriter, method string, err error) {
	metrics.Logins.WithLabelValues(method, "error").Inc()
	h.Log.Error("login failed", zap.String("method", method), zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, "Fehler beim Login")
}
