// internal/app/features/auth/handler.go
package auth

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	sessionstore "github.com/careware/hausportal/internal/app/store/sessions"
	"github.com/careware/hausportal/internal/app/store/users"
	sysauth "github.com/careware/hausportal/internal/app/system/auth"
	"github.com/careware/hausportal/internal/app/system/ratelimit"
)

// Handler owns the login, logout and me endpoints.
type Handler struct {
	Users      *users.Store
	Sessions   *sessionstore.Store
	SessionMgr *sysauth.SessionManager
	Limits     *ratelimit.LoginLimiter
	Log        *zap.Logger
}

// NewHandler constructs an auth Handler.
func NewHandler(db *mongo.Database, sessionMgr *sysauth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users.New(db),
		Sessions:   sessionstore.New(db),
		SessionMgr: sessionMgr,
		Limits:     ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

// sessionUserPayload is the user object returned by login and me.
type sessionUserPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func payloadFor(u *sysauth.SessionUser) sessionUserPayload {
	return sessionUserPayload{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
	}
}
