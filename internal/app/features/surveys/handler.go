// internal/app/features/surveys/handler.go
package surveys

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/surveys"
	"github.com/careware/hausportal/internal/app/system/authz"
	"github.com/careware/hausportal/internal/app/system/metrics"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the survey endpoints.
type Handler struct {
	Store *surveys.Store
	Log   *zap.Logger
}

// NewHandler constructs a surveys Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: surveys.New(db), Log: logger}
}

func surveyIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "surveyID"))
	return id, err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/surveys                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// surveyView is a survey plus its options and the caller's vote state.
type surveyView struct {
	models.Survey
	Options     []models.SurveyOption `json:"options"`
	HasAnswered bool                  `json:"hasAnswered"`
}

// HandleListActive returns active surveys with options, flagging the
// ones the caller already voted on.
func (h *Handler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.ListActive(ctx)
	if err != nil {
		h.Log.Error("survey list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Umfragen")
		return
	}

	views := make([]surveyView, 0, len(list))
	for _, survey := range list {
		opts, err := h.Store.ListOptions(ctx, survey.ID)
		if err != nil {
			h.Log.Error("survey options failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Umfragen")
			return
		}
		answered, err := h.Store.HasAnswered(ctx, survey.ID, userID)
		if err != nil {
			h.Log.Error("survey answer check failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Umfragen")
			return
		}
		if opts == nil {
			opts = []models.SurveyOption{}
		}
		views = append(views, surveyView{Survey: survey, Options: opts, HasAnswered: answered})
	}
	respond.JSON(w, http.StatusOK, views)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/surveys/{surveyID}/answer                                         |
*─────────────────────────────────────────────────────────────────────────────*/

type answerRequest struct {
	OptionNumber int `json:"optionNumber"`
}

// HandleAnswer registers the caller's vote. Votes are final; a second
// vote is rejected no matter which option it names.
func (h *Handler) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	surveyID, ok := surveyIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	var req answerRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if req.OptionNumber < 1 {
		respond.Error(w, http.StatusBadRequest, "Ungültige Antwortoption")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	survey, err := h.Store.GetByID(ctx, surveyID)
	if errors.Is(err, surveys.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Umfrage nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("survey lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abstimmen")
		return
	}
	if !survey.Active {
		respond.Error(w, http.StatusBadRequest, "Umfrage ist beendet")
		return
	}

	err = h.Store.CastVote(ctx, surveyID, userID, req.OptionNumber)
	switch {
	case errors.Is(err, surveys.ErrUnknownOption):
		respond.Error(w, http.StatusBadRequest, "Ungültige Antwortoption")
	case errors.Is(err, surveys.ErrAlreadyAnswered):
		metrics.DuplicateVotes.Inc()
		respond.Error(w, http.StatusConflict, "Sie haben bereits abgestimmt")
	case err != nil:
		h.Log.Error("cast vote failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abstimmen")
	default:
		respond.Success(w, "Antwort gespeichert")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/surveys/{surveyID}/results                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	survey, err := h.Store.GetByID(ctx, surveyID)
	if errors.Is(err, surveys.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Umfrage nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("survey lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Ergebnisse")
		return
	}

	tally, err := h.Store.Tally(ctx, surveyID)
	if err != nil {
		h.Log.Error("survey tally failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Ergebnisse")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"survey":  survey,
		"results": tally,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/surveys                  (admin)                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	var req createRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "Titel ist erforderlich")
		return
	}
	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	if len(options) < 2 {
		respond.Error(w, http.StatusBadRequest, "Mindestens zwei Antwortoptionen sind erforderlich")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	survey, err := h.Store.Create(ctx, req.Title, strings.TrimSpace(req.Description), userID, options)
	if err != nil {
		h.Log.Error("survey create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Erstellen")
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"message":  "Umfrage erstellt",
		"surveyId": survey.ID.Hex(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/surveys/{surveyID}/close             (admin)                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := surveyIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Store.SetActive(ctx, surveyID, false)
	if errors.Is(err, surveys.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Umfrage nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("survey close failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Beenden")
		return
	}
	respond.Success(w, "Umfrage beendet")
}
