// internal/app/store/openinghours/store.go
package openinghours

import (
	"context"
	"errors"
	"sort"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/app/store/upsert"
	"github.com/careware/hausportal/internal/domain/models"
)

// ErrDuplicateClosedDay means the date already has a closure entry.
var ErrDuplicateClosedDay = errors.New("closed day already exists for this date")

// Store manages the regular schedule and exceptional closures.
type Store struct {
	hours  *mongo.Collection
	closed *mongo.Collection
}

// New creates a new openinghours Store.
func New(db *mongo.Database) *Store {
	return &Store{
		hours:  db.Collection("opening_hours"),
		closed: db.Collection("closed_days"),
	}
}

// UpsertDay writes the schedule for one weekday, last write wins.
func (s *Store) UpsertDay(ctx context.Context, oh models.OpeningHours) (created bool, err error) {
	now := time.Now().UTC()
	oh.ID = primitive.NewObjectID()
	oh.UpdatedAt = now

	key := bson.M{"day_of_week": oh.DayOfWeek}
	update := bson.M{
		"open_time":  oh.OpenTime,
		"close_time": oh.CloseTime,
		"closed":     oh.Closed,
		"updated_at": now,
	}
	return upsert.Do(ctx, s.hours, key, oh, update)
}

// ListWeek returns the schedule in weekday order.
func (s *Store) ListWeek(ctx context.Context) ([]models.OpeningHours, error) {
	cur, err := s.hours.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var hours []models.OpeningHours
	if err := cur.All(ctx, &hours); err != nil {
		return nil, err
	}

	sort.Slice(hours, func(i, j int) bool {
		return models.WeekdayIndex(hours[i].DayOfWeek) < models.WeekdayIndex(hours[j].DayOfWeek)
	})
	return hours, nil
}

// AddClosedDay records an exceptional closure. A second entry for the
// same date is rejected.
func (s *Store) AddClosedDay(ctx context.Context, date, reason string) error {
	day := models.ClosedDay{
		ID:        primitive.NewObjectID(),
		Date:      date,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.closed.InsertOne(ctx, day)
	if wafflemongo.IsDup(err) {
		return ErrDuplicateClosedDay
	}
	return err
}

// RemoveClosedDay deletes a closure entry; unknown dates are a no-op.
func (s *Store) RemoveClosedDay(ctx context.Context, date string) error {
	_, err := s.closed.DeleteOne(ctx, bson.M{"date": date})
	return err
}

// ListClosedDays returns upcoming closures from the given date on,
// soonest first.
func (s *Store) ListClosedDays(ctx context.Context, from string) ([]models.ClosedDay, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := s.closed.Find(ctx, bson.M{"date": bson.M{"$gte": from}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var days []models.ClosedDay
	if err := cur.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}
