// internal/domain/models/survey.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Survey is a single-question poll. Options live in survey_options and
// answers in survey_answers; an answer is immutable once cast.
type Survey struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	CreatedBy   primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// SurveyOption is one choice of a survey. OptionNumber is 1-based and
// defines the display and tally order.
type SurveyOption struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID     primitive.ObjectID `bson:"survey_id" json:"surveyId"`
	OptionNumber int                `bson:"option_number" json:"optionNumber"`
	OptionText   string             `bson:"option_text" json:"optionText"`
}

// SurveyAnswer is one user's vote. Unique per (survey_id, user_id).
type SurveyAnswer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurveyID     primitive.ObjectID `bson:"survey_id" json:"surveyId"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	OptionNumber int                `bson:"option_number" json:"optionNumber"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}
