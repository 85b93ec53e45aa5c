// internal/app/store/sessions/resolver.go
package sessions

import (
	"context"
	"errors"

	"github.com/careware/hausportal/internal/app/store/users"
	"github.com/careware/hausportal/internal/app/system/auth"
)

// Resolver turns session tokens into SessionUsers for the auth
// middleware. Deactivated users resolve to nothing, so flipping the
// active flag locks an account out on the next request.
type Resolver struct {
	sessions *Store
	users    *users.Store
}

// NewResolver wires the session and user stores together.
func NewResolver(sessions *Store, userStore *users.Store) *Resolver {
	return &Resolver{sessions: sessions, users: userStore}
}

// Resolve implements auth.TokenResolver. Unknown, expired, or orphaned
// tokens return (nil, nil); only infrastructure failures surface as
// errors.
func (r *Resolver) Resolve(ctx context.Context, token string) (*auth.SessionUser, error) {
	sess, err := r.sessions.GetByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u, err := r.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, nil
	}

	return &auth.SessionUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Name:     u.DisplayName(),
		Email:    u.Email,
		Role:     u.Role,
	}, nil
}
