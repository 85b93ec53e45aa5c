// internal/app/store/surveys/store.go
package surveys

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/domain/models"
)

var (
	// ErrAlreadyAnswered means the user has a vote on this survey.
	ErrAlreadyAnswered = errors.New("user already answered this survey")
	// ErrUnknownOption means the option number does not exist on the survey.
	ErrUnknownOption = errors.New("unknown survey option")
	// ErrNotFound means no survey matched.
	ErrNotFound = errors.New("survey not found")
)

// Store manages surveys, their options, and the vote registry.
type Store struct {
	surveys *mongo.Collection
	options *mongo.Collection
	answers *mongo.Collection
}

// New creates a new surveys Store.
func New(db *mongo.Database) *Store {
	return &Store{
		surveys: db.Collection("surveys"),
		options: db.Collection("survey_options"),
		answers: db.Collection("survey_answers"),
	}
}

// Create inserts a survey together with its options, numbered 1..n in
// the order given.
func (s *Store) Create(ctx context.Context, title, description string, createdBy primitive.ObjectID, optionTexts []string) (models.Survey, error) {
	now := time.Now().UTC()
	survey := models.Survey{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Active:      true,
		CreatedBy:   createdBy,
		CreatedAt:   now,
	}
	if _, err := s.surveys.InsertOne(ctx, survey); err != nil {
		return models.Survey{}, err
	}

	docs := make([]any, 0, len(optionTexts))
	for i, text := range optionTexts {
		docs = append(docs, models.SurveyOption{
			ID:           primitive.NewObjectID(),
			SurveyID:     survey.ID,
			OptionNumber: i + 1,
			OptionText:   text,
		})
	}
	if len(docs) > 0 {
		if _, err := s.options.InsertMany(ctx, docs); err != nil {
			return models.Survey{}, err
		}
	}
	return survey, nil
}

// GetByID retrieves one survey.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Survey, error) {
	var survey models.Survey
	err := s.surveys.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Survey{}, ErrNotFound
	}
	return survey, err
}

// ListActive returns active surveys, newest first.
func (s *Store) ListActive(ctx context.Context) ([]models.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.surveys.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var surveys []models.Survey
	if err := cur.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

// SetActive closes or reopens a survey.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.surveys.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": active}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOptions returns a survey's options in display order.
func (s *Store) ListOptions(ctx context.Context, surveyID primitive.ObjectID) ([]models.SurveyOption, error) {
	opts := options.Find().SetSort(bson.D{{Key: "option_number", Value: 1}})
	cur, err := s.options.Find(ctx, bson.M{"survey_id": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []models.SurveyOption
	if err := cur.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CastVote registers one user's vote. The first vote wins: a repeat
// vote trips the unique (survey_id, user_id) index and comes back as
// ErrAlreadyAnswered, regardless of which option it names.
func (s *Store) CastVote(ctx context.Context, surveyID, userID primitive.ObjectID, optionNumber int) error {
	n, err := s.options.CountDocuments(ctx, bson.M{"survey_id": surveyID, "option_number": optionNumber})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUnknownOption
	}

	answer := models.SurveyAnswer{
		ID:           primitive.NewObjectID(),
		SurveyID:     surveyID,
		UserID:       userID,
		OptionNumber: optionNumber,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = s.answers.InsertOne(ctx, answer)
	if wafflemongo.IsDup(err) {
		return ErrAlreadyAnswered
	}
	return err
}

// HasAnswered reports whether the user already voted on the survey.
func (s *Store) HasAnswered(ctx context.Context, surveyID, userID primitive.ObjectID) (bool, error) {
	n, err := s.answers.CountDocuments(ctx, bson.M{"survey_id": surveyID, "user_id": userID})
	return n > 0, err
}

// TallyEntry is one option's result line.
type TallyEntry struct {
	OptionNumber int    `json:"optionNumber"`
	OptionText   string `json:"optionText"`
	Count        int64  `json:"count"`
}

// Tally counts votes per option, in option order. Options nobody chose
// appear with a zero count so the result always covers every option.
func (s *Store) Tally(ctx context.Context, surveyID primitive.ObjectID) ([]TallyEntry, error) {
	opts, err := s.ListOptions(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64, len(opts))
	cur, err := s.answers.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"survey_id": surveyID}}},
		{{Key: "$group", Value: bson.M{"_id": "$option_number", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			OptionNumber int   `bson:"_id"`
			N            int64 `bson:"n"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.OptionNumber] = row.N
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	tally := make([]TallyEntry, 0, len(opts))
	for _, opt := range opts {
		tally = append(tally, TallyEntry{
			OptionNumber: opt.OptionNumber,
			OptionText:   opt.OptionText,
			Count:        counts[opt.OptionNumber],
		})
	}
	return tally, nil
}
