// internal/app/features/announcements/handler.go
package announcements

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/announcements"
	"github.com/careware/hausportal/internal/app/system/htmlsanitize"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// defaultListLimit caps the announcement feed when the client gives no
// limit of its own.
const defaultListLimit = 50

// Handler owns the announcement endpoints. Announcements are readable
// without a session so the info board in the foyer can show them.
type Handler struct {
	Store *announcements.Store
	Log   *zap.Logger
}

// NewHandler constructs an announcements Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: announcements.New(db), Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/announcements?limit=                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 200 {
			respond.Error(w, http.StatusBadRequest, "Ungültiges Limit")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.List(ctx, limit)
	if err != nil {
		h.Log.Error("announcement list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Meldungen")
		return
	}
	if list == nil {
		list = []models.Announcement{}
	}
	respond.JSON(w, http.StatusOK, list)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/announcements      (admin)                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Title               string `json:"title"`
	Content             string `json:"content"`
	EasyLanguageContent string `json:"easyLanguageContent"`
	IsImportant         bool   `json:"isImportant"`
}

// HandleCreate stores a new announcement. Both content fields pass
// through the HTML sanitizer; when no easy-language rendition is
// given, the regular content doubles as one.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		respond.Error(w, http.StatusBadRequest, "Titel und Inhalt erforderlich")
		return
	}

	content := htmlsanitize.Sanitize(req.Content)
	easy := htmlsanitize.Sanitize(req.EasyLanguageContent)
	if strings.TrimSpace(easy) == "" {
		easy = content
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a := models.Announcement{
		Title:               strings.TrimSpace(req.Title),
		Content:             content,
		EasyLanguageContent: easy,
		IsImportant:         req.IsImportant,
	}
	if err := h.Store.Create(ctx, &a); err != nil {
		h.Log.Error("announcement create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Erstellen")
		return
	}
	respond.Created(w, "Meldung erstellt")
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /api/announcements/{announcementID}      (admin)                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "announcementID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Store.Delete(ctx, id)
	if errors.Is(err, announcements.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Meldung nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("announcement delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Meldung gelöscht")
}
