// internal/app/features/trainings/handler.go
package trainings

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/trainings"
	"github.com/careware/hausportal/internal/app/store/users"
	"github.com/careware/hausportal/internal/app/system/authz"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the trainings endpoints.
type Handler struct {
	Store *trainings.Store
	Users *users.Store
	Log   *zap.Logger
}

// NewHandler constructs a trainings Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Store: trainings.New(db),
		Users: users.New(db),
		Log:   logger,
	}
}

func trainingIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "trainingID"))
	return id, err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/trainings                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// trainingView is a training plus the caller's registration flag.
type trainingView struct {
	models.Training
	UserInterested bool `json:"userInterested"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.ListActive(ctx)
	if err != nil {
		h.Log.Error("training list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Fortbildungen")
		return
	}
	interests, err := h.Store.InterestSet(ctx, userID)
	if err != nil {
		h.Log.Error("interest set failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Fortbildungen")
		return
	}

	views := make([]trainingView, 0, len(list))
	for _, training := range list {
		_, interested := interests[training.ID]
		views = append(views, trainingView{Training: training, UserInterested: interested})
	}
	respond.JSON(w, http.StatusOK, views)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/trainings/{trainingID}/interest                                   |
*─────────────────────────────────────────────────────────────────────────────*/

type interestRequest struct {
	Interested bool `json:"interested"`
}

// HandleInterest registers or withdraws the caller's interest. Both
// directions are idempotent.
func (h *Handler) HandleInterest(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	trainingID, ok := trainingIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	var req interestRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var err error
	if req.Interested {
		err = h.Store.AddInterest(ctx, userID, trainingID)
	} else {
		err = h.Store.RemoveInterest(ctx, userID, trainingID)
	}
	if errors.Is(err, trainings.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Fortbildung nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("interest toggle failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Speichern")
		return
	}

	if req.Interested {
		respond.Success(w, "Interesse vermerkt")
	} else {
		respond.Success(w, "Interesse zurückgezogen")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/trainings/{trainingID}/interested     (supervisor/admin)           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleListInterested returns who registered for a training, for
// planning the session.
func (h *Handler) HandleListInterested(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := trainingIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Store.GetByID(ctx, trainingID); err != nil {
		if errors.Is(err, trainings.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Fortbildung nicht gefunden")
			return
		}
		h.Log.Error("training lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen")
		return
	}

	ids, err := h.Store.ListInterestedUserIDs(ctx, trainingID)
	if err != nil {
		h.Log.Error("interested list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen")
		return
	}
	usersByID, err := h.Users.GetManyByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("interested user lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen")
		return
	}

	type participant struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	}
	participants := make([]participant, 0, len(ids))
	for _, id := range ids {
		if u, found := usersByID[id]; found {
			participants = append(participants, participant{Username: u.Username, Name: u.DisplayName()})
		}
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"count":        len(participants),
		"participants": participants,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin CRUD                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respond.Error(w, http.StatusBadRequest, "Titel ist erforderlich")
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

	training := models.Training{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date,
		Location:    strings.TrimSpace(req.Location),
		Active:      true,
	}
	if err := h.Store.Create(ctx, &training); err != nil {
		h.Log.Error("training create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Erstellen")
		return
	}
	respond.Created(w, "Fortbildung erstellt")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := trainingIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Store.Delete(ctx, trainingID)
	if errors.Is(err, trainings.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Fortbildung nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("training delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Fortbildung gelöscht")
}
