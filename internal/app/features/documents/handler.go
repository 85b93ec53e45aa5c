// internal/app/features/documents/handler.go
package documents

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/documents"
	"github.com/careware/hausportal/internal/app/system/authz"
	"github.com/careware/hausportal/internal/app/system/limits"
	"github.com/careware/hausportal/internal/app/system/metrics"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/app/uploads"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the personal document endpoints. Documents are visible
// to their owner only; there is no admin overview.
type Handler struct {
	Store   *documents.Store
	Uploads *uploads.Manager
	Blobs   uploads.BlobStore
	Log     *zap.Logger
}

// NewHandler constructs a documents Handler on top of the given blob
// storage backend.
func NewHandler(db *mongo.Database, blobs uploads.BlobStore, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   documents.New(db),
		Uploads: uploads.NewManager(blobs, logger),
		Blobs:   blobs,
		Log:     logger,
	}
}

func documentIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "documentID"))
	return id, err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/documents/me                                                       |
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
		h.Log.Error("document list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Dokumente")
		return
	}
	if list == nil {
		list = []models.Document{}
	}
	respond.JSON(w, http.StatusOK, list)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/documents      (multipart: file, doc_type)                        |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpload stores a personal document. The document type is
// validated before the blob is touched, so a bad type never leaves a
// stray file behind.
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

	docType := r.FormValue("doc_type")
	if !models.IsValidDocType(docType) {
		respond.Error(w, http.StatusBadRequest, "Ungültiger Dokumenttyp")
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
	_, err = h.Uploads.Store(ctx, "documents", userID, file, header.Size,
		func(ctx context.Context, path, contentType string) error {
			return h.Store.Create(ctx, &models.Document{
				UserID:   userID,
				FilePath: path,
				FileName: fileName,
				DocType:  docType,
			})
		})
	switch {
	case errors.Is(err, uploads.ErrTooLarge):
		metrics.Uploads.WithLabelValues("documents", "rejected").Inc()
		respond.Error(w, http.StatusBadRequest, "Datei ist zu groß (max. 5 MB)")
		return
	case errors.Is(err, uploads.ErrUnsupportedType):
		metrics.Uploads.WithLabelValues("documents", "rejected").Inc()
		respond.Error(w, http.StatusBadRequest, "Nur PDF und Bilder (JPG, PNG) erlaubt")
		return
	case err != nil:
		metrics.Uploads.WithLabelValues("documents", "failed").Inc()
		h.Log.Error("document upload failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Hochladen")
		return
	}

	metrics.Uploads.WithLabelValues("documents", "ok").Inc()
	respond.Success(w, "Dokument hochgeladen")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/documents/{documentID}/download                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	documentID, ok := documentIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, err := h.Store.GetOwned(ctx, documentID, userID)
	if errors.Is(err, documents.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Dokument nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("document lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen")
		return
	}

	serveBlob(w, r, h.Blobs, doc.FilePath, doc.FileName, h.Log)
}

// serveBlob streams a stored file to the client, never cached.
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
| DELETE /api/documents/{documentID}                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes the caller's document. An ownership miss
// answers 404, identical to a true miss.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	documentID, ok := documentIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, err := h.Store.GetOwned(ctx, documentID, userID)
	if errors.Is(err, documents.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Dokument nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("document lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}

	err = h.Uploads.Remove(ctx, doc.FilePath, func(ctx context.Context) error {
		return h.Store.DeleteOwned(ctx, documentID, userID)
	})
	if errors.Is(err, documents.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Dokument nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("document delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Dokument gelöscht")
}
