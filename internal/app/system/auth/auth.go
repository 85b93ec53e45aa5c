// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session user & context plumbing                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the resolved identity injected into r.Context() by
// LoadSessionUser. ID is the user's ObjectID hex.
type SessionUser struct {
	ID       string
	Username string
	Name     string
	Email    string
	Role     string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a SessionUser into the request context. Test use only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token resolution                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenResolver turns an opaque session token into the user it belongs
// to. Implementations return (nil, nil) for unknown or expired tokens.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*SessionUser, error)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

const tokenKey = "session_token"

// SessionManager owns the session cookie. The cookie carries only an
// opaque token; the user record behind it lives in the database and is
// looked up by the configured TokenResolver on each request.
type SessionManager struct {
	store    *sessions.CookieStore
	name     string
	maxAge   time.Duration
	resolver TokenResolver
	log      *zap.Logger
}

// NewSessionManager builds a SessionManager around a cookie store.
//
// In production (secure=true) cookies are Secure with SameSite=None so
// they survive cross-site HTTPS use. In local dev over http://localhost
// use secure=false so the browser accepts them.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("max_age", maxAge))

	return &SessionManager{store: store, name: name, maxAge: maxAge, log: logger}, nil
}

// SetResolver wires the database-backed token resolver. Must be called
// before the router starts serving; requests before that see no user.
func (sm *SessionManager) SetResolver(res TokenResolver) { sm.resolver = res }

// MaxAge returns the configured session lifetime.
func (sm *SessionManager) MaxAge() time.Duration { return sm.maxAge }

// Establish stores the session token in the cookie.
func (sm *SessionManager) Establish(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// Clear expires the session cookie.
func (sm *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

// Token returns the session token from the cookie, if any.
func (sm *SessionManager) Token(r *http.Request) (string, bool) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return "", false
	}
	token, ok := sess.Values[tokenKey].(string)
	return token, ok && token != ""
}

// LoadSessionUser resolves the cookie token to a user and injects it
// into context. Unknown or expired tokens simply produce no user; the
// gate middlewares below decide what that means per route.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := sm.Token(r)
		if !ok || sm.resolver == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		u, err := sm.resolver.Resolve(ctx, token)
		if err != nil {
			sm.log.Warn("session resolve failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures there is a user with one of the allowed roles in
// context. Missing user → 401, wrong role → 403. Role comparison is
// case-insensitive.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				respond.Error(w, http.StatusForbidden, "Keine Berechtigung")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
