// internal/app/store/tickets/store.go
package tickets

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/domain/models"
)

// ErrNotFound means no ticket matched. Ownership misses report the
// same error as true misses so callers cannot probe other users' IDs.
var ErrNotFound = errors.New("ticket not found")

// Store manages monthly ticket metadata. The blob itself lives in the
// storage backend; FilePath connects the two.
type Store struct {
	c *mongo.Collection
}

// New creates a new tickets Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tickets")}
}

// Create inserts ticket metadata.
func (s *Store) Create(ctx context.Context, t *models.Ticket) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.UploadedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, t)
	return err
}

// GetOwned retrieves a ticket that belongs to the given user.
func (s *Store) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (models.Ticket, error) {
	var t models.Ticket
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Ticket{}, ErrNotFound
	}
	return t, err
}

// GetByID retrieves a ticket regardless of owner (admin views).
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Ticket, error) {
	var t models.Ticket
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Ticket{}, ErrNotFound
	}
	return t, err
}

// ListByUser returns a user's tickets, newest period first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Ticket, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "year", Value: -1},
		{Key: "month", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tickets []models.Ticket
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListAll returns every ticket, newest period first (admin overview).
func (s *Store) ListAll(ctx context.Context) ([]models.Ticket, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "year", Value: -1},
		{Key: "month", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tickets []models.Ticket
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// DeleteOwned removes a ticket's metadata if it belongs to the user.
func (s *Store) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
