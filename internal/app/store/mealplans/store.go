// internal/app/store/mealplans/store.go
package mealplans

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/careware/hausportal/internal/app/store/upsert"
	"github.com/careware/hausportal/internal/domain/models"
)

// Store manages the weekly meal plan.
type Store struct {
	c *mongo.Collection
}

// New creates a new mealplans Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meal_plans")}
}

// Upsert writes the menu for a weekday. The weekday is the idempotency
// key; a payload carrying a date matches on that too, so a menu stored
// for the same date under another weekday is moved, not duplicated.
// Last write wins either way.
func (s *Store) Upsert(ctx context.Context, plan models.MealPlan) (created bool, err error) {
	now := time.Now().UTC()
	plan.ID = primitive.NewObjectID()
	plan.UpdatedAt = now

	key := bson.M{"day_of_week": plan.DayOfWeek}
	update := bson.M{
		"main_course": plan.MainCourse,
		"side_dish":   plan.SideDish,
		"dessert":     plan.Dessert,
		"updated_by":  plan.UpdatedBy,
		"updated_at":  now,
	}
	if plan.Date != "" {
		// The date carries its own unique index, so the insert can
		// trip on either key; the update has to match on either too.
		key = bson.M{"$or": []bson.M{
			{"day_of_week": plan.DayOfWeek},
			{"date": plan.Date},
		}}
		update["day_of_week"] = plan.DayOfWeek
		update["date"] = plan.Date
	}

	return upsert.Do(ctx, s.c, key, plan, update)
}

// ListWeek returns the plan in weekday order (Monday first). Days
// without an entry are simply absent.
func (s *Store) ListWeek(ctx context.Context) ([]models.MealPlan, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var plans []models.MealPlan
	if err := cur.All(ctx, &plans); err != nil {
		return nil, err
	}

	sort.Slice(plans, func(i, j int) bool {
		return models.WeekdayIndex(plans[i].DayOfWeek) < models.WeekdayIndex(plans[j].DayOfWeek)
	})
	return plans, nil
}

// GetByDay returns the plan for one weekday.
func (s *Store) GetByDay(ctx context.Context, dayOfWeek string) (models.MealPlan, error) {
	var plan models.MealPlan
	err := s.c.FindOne(ctx, bson.M{"day_of_week": dayOfWeek}).Decode(&plan)
	return plan, err
}
