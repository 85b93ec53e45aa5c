// internal/app/store/documents/store.go
package documents

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

// ErrNotFound means no document matched. Ownership misses report the
// same error as true misses so callers cannot probe other users' IDs.
var ErrNotFound = errors.New("document not found")

// Store manages personal document metadata.
type Store struct {
	c *mongo.Collection
}

// New creates a new documents Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

// Create inserts document metadata.
func (s *Store) Create(ctx context.Context, d *models.Document) error {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	d.UploadedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, d)
	return err
}

// GetOwned retrieves a document that belongs to the given user.
func (s *Store) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (models.Document, error) {
	var d models.Document
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Document{}, ErrNotFound
	}
	return d, err
}

// ListByUser returns a user's documents, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteOwned removes a document's metadata if it belongs to the user.
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
