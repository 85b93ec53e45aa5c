// internal/app/features/jobs/handler.go
package jobs

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/jobs"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the job posting endpoints. Postings are readable
// without a session so they can be shared outside the house.
type Handler struct {
	Store *jobs.Store
	Log   *zap.Logger
}

// NewHandler constructs a jobs Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: jobs.New(db), Log: logger}
}

func jobIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "jobID"))
	return id, err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/jobs                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.ListActive(ctx)
	if err != nil {
		h.Log.Error("job list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Jobs")
		return
	}
	if list == nil {
		list = []models.Job{}
	}
	respond.JSON(w, http.StatusOK, list)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/jobs/{jobID}                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleGet returns one posting. Closed postings are indistinguishable
// from missing ones.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	job, err := h.Store.GetActive(ctx, jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Job nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("job lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen des Jobs")
		return
	}
	respond.JSON(w, http.StatusOK, job)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin CRUD                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Area         string `json:"area"`
	HoursPerWeek int    `json:"hoursPerWeek"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		respond.Error(w, http.StatusBadRequest, "Titel und Beschreibung erforderlich")
		return
	}
	if req.HoursPerWeek < 0 || req.HoursPerWeek > 60 {
		respond.Error(w, http.StatusBadRequest, "Ungültige Wochenstunden")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	job := models.Job{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Area:         strings.TrimSpace(req.Area),
		HoursPerWeek: req.HoursPerWeek,
		Active:       true,
	}
	if err := h.Store.Create(ctx, &job); err != nil {
		h.Log.Error("job create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Erstellen")
		return
	}
	respond.Created(w, "Job-Angebot erstellt")
}

type activeRequest struct {
	Active bool `json:"active"`
}

// HandleSetActive opens or closes a posting without deleting it.
func (h *Handler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}
	var req activeRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Store.SetActive(ctx, jobID, req.Active)
	if errors.Is(err, jobs.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Job nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("job update failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Speichern")
		return
	}
	respond.Success(w, "Job-Angebot aktualisiert")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Store.Delete(ctx, jobID)
	if errors.Is(err, jobs.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Job nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("job delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Job-Angebot gelöscht")
}
