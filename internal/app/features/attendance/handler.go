// internal/app/features/attendance/handler.go
package attendance

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/attendance"
	"github.com/careware/hausportal/internal/app/store/upsert"
	"github.com/careware/hausportal/internal/app/store/users"
	"github.com/careware/hausportal/internal/app/system/authz"
	"github.com/careware/hausportal/internal/app/system/metrics"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the attendance endpoints.
type Handler struct {
	Store *attendance.Store
	Users *users.Store
	Log   *zap.Logger
}

// NewHandler constructs an attendance Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Store: attendance.New(db),
		Users: users.New(db),
		Log:   logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/attendance                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type upsertRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// HandleUpsert records the signed-in user's status for a date. Posting
// the same date again overwrites status and notes.
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

	req.Date = strings.TrimSpace(req.Date)
	req.Status = strings.TrimSpace(req.Status)
	if req.Date == "" || req.Status == "" {
		respond.Error(w, http.StatusBadRequest, "Datum und Status sind erforderlich")
		return
	}
	if _, err := time.Parse(models.AttendanceDateLayout, req.Date); err != nil {
		respond.Error(w, http.StatusBadRequest, "Ungültiges Datum")
		return
	}
	if !models.IsValidAttendanceStatus(req.Status) {
		respond.Error(w, http.StatusBadRequest, "Ungültiger Status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Store.Upsert(ctx, userID, req.Date, req.Status, req.Notes)
	if errors.Is(err, upsert.ErrConflict) {
		metrics.Upserts.WithLabelValues("attendance", "conflict").Inc()
		respond.Error(w, http.StatusConflict, "Konflikt beim Speichern, bitte erneut versuchen")
		return
	}
	if err != nil {
		h.Log.Error("attendance upsert failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Eintragen")
		return
	}

	if created {
		metrics.Upserts.WithLabelValues("attendance", "created").Inc()
	} else {
		metrics.Upserts.WithLabelValues("attendance", "updated").Inc()
	}
	respond.Success(w, "Anwesenheit eingetragen")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/attendance/me                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	records, err := h.Store.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("attendance list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Anwesenheit")
		return
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	respond.JSON(w, http.StatusOK, records)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/attendance/all            (supervisor/admin)                       |
*─────────────────────────────────────────────────────────────────────────────*/

// rosterEntry is an attendance record joined with the user behind it.
type rosterEntry struct {
	models.AttendanceRecord
	Username string `json:"username"`
	Name     string `json:"name"`
}

// HandleListAll returns the roster, optionally filtered to one date via
// ?date=YYYY-MM-DD.
func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		records []models.AttendanceRecord
		err     error
	)
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		if _, perr := time.Parse(models.AttendanceDateLayout, date); perr != nil {
			respond.Error(w, http.StatusBadRequest, "Ungültiges Datum")
			return
		}
		records, err = h.Store.ListByDate(ctx, date)
	} else {
		records, err = h.Store.ListAll(ctx)
	}
	if err != nil {
		h.Log.Error("attendance roster failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Anwesenheit")
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(records))
	seen := make(map[primitive.ObjectID]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.UserID]; !dup {
			seen[rec.UserID] = struct{}{}
			userIDs = append(userIDs, rec.UserID)
		}
	}

	usersByID, err := h.Users.GetManyByIDs(ctx, userIDs)
	if err != nil {
		h.Log.Error("attendance roster user lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Anwesenheit")
		return
	}

	roster := make([]rosterEntry, 0, len(records))
	for _, rec := range records {
		entry := rosterEntry{AttendanceRecord: rec}
		if u, found := usersByID[rec.UserID]; found {
			entry.Username = u.Username
			entry.Name = u.DisplayName()
		}
		roster = append(roster, entry)
	}
	respond.JSON(w, http.StatusOK, roster)
}
