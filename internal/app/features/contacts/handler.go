// internal/app/features/contacts/handler.go
package contacts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/contacts"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the contact directory endpoints.
type Handler struct {
	Store *contacts.Store
	Log   *zap.Logger
}

// NewHandler constructs a contacts Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: contacts.New(db), Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/contacts                                                           |
| GET /api/contacts/category/{category}                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.List(ctx)
	if err != nil {
		h.Log.Error("contact list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Kontakte")
		return
	}
	if list == nil {
		list = []models.Contact{}
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Store.ListByCategory(ctx, category)
	if err != nil {
		h.Log.Error("contact list by category failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Kontakte")
		return
	}
	if list == nil {
		list = []models.Contact{}
	}
	respond.JSON(w, http.StatusOK, list)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin CRUD                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type contactRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Category  string `json:"category"`
	SortOrder int    `json:"sortOrder"`
}

func (req *contactRequest) validate() (models.Contact, string) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Contact{}, "Name ist erforderlich"
	}
	if strings.TrimSpace(req.Category) == "" {
		return models.Contact{}, "Kategorie ist erforderlich"
	}
	return models.Contact{
		Name:      name,
		Role:      strings.TrimSpace(req.Role),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Category:  strings.TrimSpace(req.Category),
		SortOrder: req.SortOrder,
	}, ""
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	contact, msg := req.validate()
	if msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Store.Create(ctx, &contact); err != nil {
		h.Log.Error("contact create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Erstellen")
		return
	}
	respond.Created(w, "Kontakt erstellt")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "contactID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	var req contactRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	contact, msg := req.validate()
	if msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Store.Update(ctx, id, contact)
	if errors.Is(err, contacts.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Kontakt nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("contact update failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Aktualisieren")
		return
	}
	respond.Success(w, "Kontakt aktualisiert")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "contactID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err = h.Store.Delete(ctx, id)
	if errors.Is(err, contacts.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Kontakt nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("contact delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Kontakt gelöscht")
}
