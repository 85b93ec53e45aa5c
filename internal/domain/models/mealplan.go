// internal/domain/models/mealplan.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealPlan is the menu for one weekday. day_of_week is the primary
// upsert key; date optionally pins the entry to a concrete calendar
// day (YYYY-MM-DD) and is unique when present.
type MealPlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayOfWeek  string             `bson:"day_of_week" json:"dayOfWeek"`
	MainCourse string             `bson:"main_course" json:"mainCourse"`
	SideDish   string             `bson:"side_dish,omitempty" json:"sideDish,omitempty"`
	Dessert    string             `bson:"dessert,omitempty" json:"dessert,omitempty"`
	Date       string             `bson:"date,omitempty" json:"date,omitempty"` // YYYY-MM-DD
	UpdatedBy  string             `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}
