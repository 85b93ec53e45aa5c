// internal/app/features/mealplans/handler.go
package mealplans

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/mealplans"
	"github.com/careware/hausportal/internal/app/store/upsert"
	"github.com/careware/hausportal/internal/app/system/authz"
	"github.com/careware/hausportal/internal/app/system/metrics"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the meal plan endpoints.
type Handler struct {
	Store *mealplans.Store
	Log   *zap.Logger
}

// NewHandler constructs a mealplans Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: mealplans.New(db), Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/meal-plans                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleListWeek(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	plans, err := h.Store.ListWeek(ctx)
	if err != nil {
		h.Log.Error("meal plan list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen des Speiseplans")
		return
	}
	if plans == nil {
		plans = []models.MealPlan{}
	}
	respond.JSON(w, http.StatusOK, plans)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/meal-plans               (admin)                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type upsertRequest struct {
	DayOfWeek  string `json:"day_of_week"`
	MainCourse string `json:"main_course"`
	SideDish   string `json:"side_dish"`
	Dessert    string `json:"dessert"`
	Date       string `json:"date"`
}

// HandleUpsert writes the menu for one weekday. Posting the same day
// again replaces the menu.
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	var req upsertRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	req.DayOfWeek = strings.ToLower(strings.TrimSpace(req.DayOfWeek))
	if !models.IsValidWeekday(req.DayOfWeek) {
		respond.Error(w, http.StatusBadRequest, "Ungültiger Wochentag")
		return
	}
	if strings.TrimSpace(req.MainCourse) == "" {
		respond.Error(w, http.StatusBadRequest, "Hauptgericht ist erforderlich")
		return
	}
	if req.Date != "" {
		if _, err := time.Parse(models.AttendanceDateLayout, req.Date); err != nil {
			respond.Error(w, http.StatusBadRequest, "Ungültiges Datum")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Store.Upsert(ctx, models.MealPlan{
		DayOfWeek:  req.DayOfWeek,
		MainCourse: strings.TrimSpace(req.MainCourse),
		SideDish:   strings.TrimSpace(req.SideDish),
		Dessert:    strings.TrimSpace(req.Dessert),
		Date:       req.Date,
		UpdatedBy:  userID.Hex(),
	})
	if errors.Is(err, upsert.ErrConflict) {
		metrics.Upserts.WithLabelValues("meal_plans", "conflict").Inc()
		respond.Error(w, http.StatusConflict, "Konflikt beim Speichern, bitte erneut versuchen")
		return
	}
	if err != nil {
		h.Log.Error("meal plan upsert failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Speichern")
		return
	}

	if created {
		metrics.Upserts.WithLabelValues("meal_plans", "created").Inc()
	} else {
		metrics.Upserts.WithLabelValues("meal_plans", "updated").Inc()
	}
	respond.Success(w, "Speiseplan gespeichert")
}
