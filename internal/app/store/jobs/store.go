// internal/app/store/jobs/store.go
package jobs

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

// ErrNotFound means no job matched.
var ErrNotFound = errors.New("job not found")

// Store manages internal job postings.
type Store struct {
	c *mongo.Collection
}

// New creates a new jobs Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("jobs")}
}

// Create inserts a job posting.
func (s *Store) Create(ctx context.Context, job *models.Job) error {
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	job.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, job)
	return err
}

// ListActive returns active postings, newest first.
func (s *Store) ListActive(ctx context.Context) ([]models.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var jobs []models.Job
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetActive retrieves one active posting. Closed postings report
// ErrNotFound, same as true misses.
func (s *Store) GetActive(ctx context.Context, id primitive.ObjectID) (models.Job, error) {
	var job models.Job
	err := s.c.FindOne(ctx, bson.M{"_id": id, "active": true}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Job{}, ErrNotFound
	}
	return job, err
}

// SetActive opens or closes a posting.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a posting.
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
