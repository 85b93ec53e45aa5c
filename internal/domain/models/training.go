// internal/domain/models/training.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Training is an internal training or course users can register
// interest in.
type Training struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Date        string             `bson:"date,omitempty" json:"date,omitempty"` // YYYY-MM-DD
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// TrainingInterest records a user's interest in a training. Unique per
// (user_id, training_id).
type TrainingInterest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	TrainingID primitive.ObjectID `bson:"training_id" json:"trainingId"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
