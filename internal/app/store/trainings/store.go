// internal/app/store/trainings/store.go
package trainings

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/app/store/toggleset"
	"github.com/careware/hausportal/internal/domain/models"
)

// ErrNotFound means no training matched.
var ErrNotFound = errors.New("training not found")

// Store manages trainings and per-user interest registrations.
type Store struct {
	trainings *mongo.Collection
	interests *mongo.Collection
}

// New creates a new trainings Store.
func New(db *mongo.Database) *Store {
	return &Store{
		trainings: db.Collection("trainings"),
		interests: db.Collection("training_interests"),
	}
}

// Create inserts a training.
func (s *Store) Create(ctx context.Context, training *models.Training) error {
	if training.ID.IsZero() {
		training.ID = primitive.NewObjectID()
	}
	training.CreatedAt = time.Now().UTC()
	_, err := s.trainings.InsertOne(ctx, training)
	return err
}

// GetByID retrieves one training.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Training, error) {
	var training models.Training
	err := s.trainings.FindOne(ctx, bson.M{"_id": id}).Decode(&training)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Training{}, ErrNotFound
	}
	return training, err
}

// ListActive returns active trainings, nearest date first.
func (s *Store) ListActive(ctx context.Context) ([]models.Training, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := s.trainings.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []models.Training
	if err := cur.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a training and its interest registrations.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.trainings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = s.interests.DeleteMany(ctx, bson.M{"training_id": id})
	return err
}

/*──────────────────────────── interests ───────────────────────────*/

// AddInterest registers a user's interest; repeats are a no-op.
// The training must exist.
func (s *Store) AddInterest(ctx context.Context, userID, trainingID primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, trainingID); err != nil {
		return err
	}
	return toggleset.Add(ctx, s.interests, models.TrainingInterest{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		TrainingID: trainingID,
		CreatedAt:  time.Now().UTC(),
	})
}

// RemoveInterest withdraws interest; withdrawing twice is a no-op.
func (s *Store) RemoveInterest(ctx context.Context, userID, trainingID primitive.ObjectID) error {
	return toggleset.Remove(ctx, s.interests, bson.M{"user_id": userID, "training_id": trainingID})
}

// InterestSet returns the IDs of the trainings the user registered for.
func (s *Store) InterestSet(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	return toggleset.IDSet(ctx, s.interests, bson.M{"user_id": userID}, "training_id")
}

// CountInterested returns how many users registered interest in a training.
func (s *Store) CountInterested(ctx context.Context, trainingID primitive.ObjectID) (int64, error) {
	return s.interests.CountDocuments(ctx, bson.M{"training_id": trainingID})
}

// ListInterestedUserIDs returns the user IDs registered for a training.
func (s *Store) ListInterestedUserIDs(ctx context.Context, trainingID primitive.ObjectID) ([]primitive.ObjectID, error) {
	set, err := toggleset.IDSet(ctx, s.interests, bson.M{"training_id": trainingID}, "user_id")
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}
