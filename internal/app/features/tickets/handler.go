// internal/app/features/tickets/handler.go
package tickets

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/tickets"
	"github.com/careware/hausportal/internal/app/store/users"
	"github.com/careware/hausportal/internal/app/system/authz"
	"github.com/careware/hausportal/internal/app/system/limits"
	"github.com/careware/hausportal/internal/app/system/metrics"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/app/uploads"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the monthly ticket endpoints: upload, listing, download
// and deletion. Tickets are strictly owner-scoped except for the admin
// overview.
type Handler struct {
	Store   *tickets.Store
	Users   *users.Store
	Uploads *uploads.Manager
	Blobs   uploads.BlobStore
	Log     *zap.Logger
}

// NewHandler constructs a tickets Handler on top of the given blob
// storage backend.
func NewHandler(db *mongo.Database, blobs uploads.BlobStore, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   tickets.New(db),
		Users:   users.New(db),
		Uploads: uploads.NewManager(blobs, logger),
		Blobs:   blobs,
		Log:     logger,
	}
}

func ticketIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "ticketID"))
	return id, err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/tickets/me                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("ticket list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Fahrkarten")
		return
	}
	if list == nil {
		list = []models.Ticket{}
	}
	respond.JSON(w, http.StatusOK, list)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/tickets        (multipart: file, month, year)                     |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpload stores a monthly ticket. The file's content type is
// sniffed server-side; a failed metadata insert removes the blob again
// so the upload either fully exists or not at all.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	if err := r.ParseMultipartForm(limits.MaxUploadFormSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "Ungültige Anfrage")
		return
	}

	month, err := strconv.Atoi(r.FormValue("month"))
	if err != nil || month < 1 || month > 12 {
		respond.Error(w, http.StatusBadRequest, "Ungültiger Monat")
		return
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil || year < 2000 || year > 2100 {
		respond.Error(w, http.StatusBadRequest, "Ungültiges Jahr")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Keine Datei hochgeladen")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fileName := uploads.SanitizeFilename(header.Filename)
	_, err = h.Uploads.Store(ctx, "tickets", userID, file, header.Size,
		func(ctx context.Context, path, contentType string) error {
			return h.Store.Create(ctx, &models.Ticket{
				UserID:   userID,
				FilePath: path,
				FileName: fileName,
				Month:    month,
				Year:     year,
			})
		})
	switch {
	case errors.Is(err, uploads.ErrTooLarge):
		metrics.Uploads.WithLabelValues("tickets", "rejected").Inc()
		respond.Error(w, http.StatusBadRequest, "Datei ist zu groß (max. 5 MB)")
		return
	case errors.Is(err, uploads.ErrUnsupportedType):
		metrics.Uploads.WithLabelValues("tickets", "rejected").Inc()
		respond.Error(w, http.StatusBadRequest, "Nur PDF und Bilder (JPG, PNG) erlaubt")
		return
	case err != nil:
		metrics.Uploads.WithLabelValues("tickets", "failed").Inc()
		h.Log.Error("ticket upload failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Hochladen")
		return
	}

	metrics.Uploads.WithLabelValues("tickets", "ok").Inc()
	respond.Success(w, "Fahrkarte hochgeladen")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/tickets/{ticketID}/download                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDownload serves the ticket blob. Owners get their own tickets;
// admins can fetch any. Local storage serves the file directly, other
// backends get a short-lived signed URL.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	ticketID, ok := ticketIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var ticket models.Ticket
	var err error
	if role == "admin" {
		ticket, err = h.Store.GetByID(ctx, ticketID)
	} else {
		ticket, err = h.Store.GetOwned(ctx, ticketID, userID)
	}
	if errors.Is(err, tickets.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Fahrkarte nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("ticket lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen")
		return
	}

	serveBlob(w, r, h.Blobs, ticket.FilePath, ticket.FileName, h.Log)
}

// serveBlob streams a stored file to the client. Downloads must never
// be cached: the blob behind a path can be replaced.
func serveBlob(w http.ResponseWriter, r *http.Request, blobs uploads.BlobStore, path, filename string, log *zap.Logger) {
	if filename == "" {
		filename = "download"
	}
	contentDisposition := "attachment; filename=\"" + filename + "\""

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	if localStorage, ok := blobs.(*storage.Local); ok {
		fullPath, err := localStorage.GetFullPath(path)
		if err != nil {
			log.Error("error getting file path", zap.Error(err), zap.String("path", path))
			respond.Error(w, http.StatusInternalServerError, "Datei konnte nicht gefunden werden")
			return
		}
		w.Header().Set("Content-Disposition", contentDisposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	signedURL, err := blobs.PresignedURL(r.Context(), path, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		log.Error("error generating signed URL", zap.Error(err), zap.String("path", path))
		respond.Error(w, http.StatusInternalServerError, "Download konnte nicht erstellt werden")
		return
	}
	http.Redirect(w, r, signedURL, http.StatusFound)
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /api/tickets/{ticketID}                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes the caller's ticket. An ownership miss answers
// 404, identical to a true miss.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	ticketID, ok := ticketIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ticket, err := h.Store.GetOwned(ctx, ticketID, userID)
	if errors.Is(err, tickets.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Fahrkarte nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("ticket lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}

	err = h.Uploads.Remove(ctx, ticket.FilePath, func(ctx context.Context) error {
		return h.Store.DeleteOwned(ctx, ticketID, userID)
	})
	if errors.Is(err, tickets.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Fahrkarte nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("ticket delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Fahrkarte gelöscht")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/tickets/all     (admin)                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// ticketView is a ticket plus its owner's display data for the admin
// overview.
type ticketView struct {
	models.Ticket
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Store.ListAll(ctx)
	if err != nil {
		h.Log.Error("ticket list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Fahrkarten")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(list))
	seen := make(map[primitive.ObjectID]struct{}, len(list))
	for _, t := range list {
		if _, dup := seen[t.UserID]; !dup {
			seen[t.UserID] = struct{}{}
			ids = append(ids, t.UserID)
		}
	}
	usersByID, err := h.Users.GetManyByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("ticket owner lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Fahrkarten")
		return
	}

	views := make([]ticketView, 0, len(list))
	for _, t := range list {
		view := ticketView{Ticket: t}
		if u, found := usersByID[t.UserID]; found {
			view.Username = u.Username
			view.Name = u.DisplayName()
		}
		views = append(views, view)
	}
	respond.JSON(w, http.StatusOK, views)
}
