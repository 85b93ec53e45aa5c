// internal/app/features/openinghours/handler.go
package openinghours

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/openinghours"
	"github.com/careware/hausportal/internal/app/store/upsert"
	"github.com/careware/hausportal/internal/app/system/metrics"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

const timeLayout = "15:04"

// Handler owns the opening hours endpoints.
type Handler struct {
	Store *openinghours.Store
	Log   *zap.Logger
}

// NewHandler constructs an openinghours Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: openinghours.New(db), Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/opening-hours                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleGet returns the weekly schedule plus upcoming closures.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	hours, err := h.Store.ListWeek(ctx)
	if err != nil {
		h.Log.Error("opening hours list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Öffnungszeiten")
		return
	}
	today := time.Now().UTC().Format(models.AttendanceDateLayout)
	closedDays, err := h.Store.ListClosedDays(ctx, today)
	if err != nil {
		h.Log.Error("closed days list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Öffnungszeiten")
		return
	}

	if hours == nil {
		hours = []models.OpeningHours{}
	}
	if closedDays == nil {
		closedDays = []models.ClosedDay{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"hours":      hours,
		"closedDays": closedDays,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/opening-hours            (admin)                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type upsertDayRequest struct {
	DayOfWeek string `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	Closed    bool   `json:"closed"`
}

// HandleUpsertDay writes the schedule for one weekday. A day marked
// closed needs no times; an open day needs both.
func (h *Handler) HandleUpsertDay(w http.ResponseWriter, r *http.Request) {
	var req upsertDayRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	req.DayOfWeek = strings.ToLower(strings.TrimSpace(req.DayOfWeek))
	if !models.IsValidWeekday(req.DayOfWeek) {
		respond.Error(w, http.StatusBadRequest, "Ungültiger Wochentag")
		return
	}
	if !req.Closed {
		if !validTime(req.OpenTime) || !validTime(req.CloseTime) {
			respond.Error(w, http.StatusBadRequest, "Öffnungs- und Schließzeit müssen im Format HH:MM angegeben werden")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Store.UpsertDay(ctx, models.OpeningHours{
		DayOfWeek: req.DayOfWeek,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
		Closed:    req.Closed,
	})
	if errors.Is(err, upsert.ErrConflict) {
		metrics.Upserts.WithLabelValues("opening_hours", "conflict").Inc()
		respond.Error(w, http.StatusConflict, "Konflikt beim Speichern, bitte erneut versuchen")
		return
	}
	if err != nil {
		h.Log.Error("opening hours upsert failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Aktualisieren")
		return
	}

	if created {
		metrics.Upserts.WithLabelValues("opening_hours", "created").Inc()
	} else {
		metrics.Upserts.WithLabelValues("opening_hours", "updated").Inc()
	}
	respond.Success(w, "Öffnungszeiten aktualisiert")
}

func validTime(v string) bool {
	_, err := time.Parse(timeLayout, v)
	return err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/opening-hours/closed-days            (admin)                      |
*─────────────────────────────────────────────────────────────────────────────*/

type closedDayRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

func (h *Handler) HandleAddClosedDay(w http.ResponseWriter, r *http.Request) {
	var req closedDayRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	req.Date = strings.TrimSpace(req.Date)
	if _, err := time.Parse(models.AttendanceDateLayout, req.Date); err != nil {
		respond.Error(w, http.StatusBadRequest, "Ungültiges Datum")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Store.AddClosedDay(ctx, req.Date, strings.TrimSpace(req.Reason))
	if errors.Is(err, openinghours.ErrDuplicateClosedDay) {
		respond.Error(w, http.StatusConflict, "Für dieses Datum existiert bereits ein Eintrag")
		return
	}
	if err != nil {
		h.Log.Error("add closed day failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Speichern")
		return
	}
	respond.Created(w, "Schließtag gespeichert")
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /api/opening-hours/closed-days/{date}   (admin)                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleRemoveClosedDay deletes a closure entry. Removing a date that
// has none succeeds; the end state is the same.
func (h *Handler) HandleRemoveClosedDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse(models.AttendanceDateLayout, date); err != nil {
		respond.Error(w, http.StatusBadRequest, "Ungültiges Datum")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Store.RemoveClosedDay(ctx, date); err != nil {
		h.Log.Error("remove closed day failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Schließtag entfernt")
}
