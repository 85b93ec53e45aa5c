// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/careware/hausportal/internal/domain/models"
)

// ErrNotFound means no session matched the token.
var ErrNotFound = errors.New("session not found")

// Store manages server-side login sessions. The TTL index on
// expires_at handles expiry; GetByToken double-checks anyway because
// Mongo's TTL sweep only runs about once a minute.
type Store struct {
	c *mongo.Collection
}

// New creates a new sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sessions")}
}

// Create mints a fresh session for the user and returns it. The token
// is an opaque UUID; everything the request pipeline needs later is
// looked up through it.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, device string, ttl time.Duration) (models.Session, error) {
	now := time.Now().UTC()
	sess := models.Session{
		ID:        primitive.NewObjectID(),
		Token:     uuid.New().String(),
		UserID:    userID,
		Device:    device,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}

// GetByToken retrieves a live session by its token. Expired sessions
// are treated as missing.
func (s *Store) GetByToken(ctx context.Context, token string) (models.Session, error) {
	var sess models.Session
	err := s.c.FindOne(ctx, bson.M{"token": token}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	if sess.Expired(time.Now().UTC()) {
		return models.Session{}, ErrNotFound
	}
	return sess, nil
}

// DeleteByToken removes a session. Deleting an unknown token is not an
// error; logout is idempotent.
func (s *Store) DeleteByToken(ctx context.Context, token string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"token": token})
	return err
}

// DeleteByUser removes all of a user's sessions, e.g. after the
// account is deactivated.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByUser returns a user's live sessions, for the device overview.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Session, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.Session
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
