// internal/domain/models/openinghours.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OpeningHours is the regular schedule for one weekday. One record
// exists per day_of_week.
type OpeningHours struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayOfWeek string             `bson:"day_of_week" json:"dayOfWeek"`
	OpenTime  string             `bson:"open_time,omitempty" json:"openTime,omitempty"`   // HH:MM
	CloseTime string             `bson:"close_time,omitempty" json:"closeTime,omitempty"` // HH:MM
	Closed    bool               `bson:"closed" json:"closed"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ClosedDay is an exceptional closure on a concrete date (holidays,
// facility events). Unique per date.
type ClosedDay struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date      string             `bson:"date" json:"date"` // YYYY-MM-DD
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
