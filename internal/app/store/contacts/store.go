// internal/app/store/contacts/store.go
package contacts

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

// ErrNotFound means no contact matched.
var ErrNotFound = errors.New("contact not found")

// Store manages the staff contact directory.
type Store struct {
	c *mongo.Collection
}

// New creates a new contacts Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contacts")}
}

// Create inserts a contact.
func (s *Store) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	contact.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, contact)
	return err
}

// Update replaces a contact's editable fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, contact models.Contact) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       contact.Name,
		"role":       contact.Role,
		"phone":      contact.Phone,
		"email":      contact.Email,
		"category":   contact.Category,
		"sort_order": contact.SortOrder,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a contact.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCategory returns one category's contacts in display order.
func (s *Store) ListByCategory(ctx context.Context, category string) ([]models.Contact, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// List returns all contacts grouped by category, in display order.
func (s *Store) List(ctx context.Context) ([]models.Contact, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "category", Value: 1},
		{Key: "sort_order", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var contacts []models.Contact
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}
