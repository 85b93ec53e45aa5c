// internal/app/store/attendance/store.go
package attendance

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/app/store/upsert"
	"github.com/careware/hausportal/internal/domain/models"
)

// Store manages attendance records.
type Store struct {
	c *mongo.Collection
}

// New creates a new attendance Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// Upsert records a user's status for a date. Repeating the call for
// the same (user, date) updates the existing record; the unique index
// guarantees at most one record per pair.
func (s *Store) Upsert(ctx context.Context, userID primitive.ObjectID, date, status, notes string) (created bool, err error) {
	now := time.Now().UTC()
	doc := models.AttendanceRecord{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Date:      date,
		Status:    status,
		Notes:     notes,
		UpdatedAt: now,
	}
	key := bson.M{"user_id": userID, "date": date}
	update := bson.M{"status": status, "notes": notes, "updated_at": now}

	return upsert.Do(ctx, s.c, key, doc, update)
}

// ListByUser returns a user's records, newest date first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.AttendanceRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll returns every record, newest date first, for the roster view.
func (s *Store) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.AttendanceRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByDate returns all records for one date.
func (s *Store) ListByDate(ctx context.Context, date string) ([]models.AttendanceRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.AttendanceRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
