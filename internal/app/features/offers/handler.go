// internal/app/features/offers/handler.go
package offers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/offers"
	"github.com/careware/hausportal/internal/app/system/authz"
	"github.com/careware/hausportal/internal/app/system/respond"
	"github.com/careware/hausportal/internal/app/system/timeouts"
	"github.com/careware/hausportal/internal/domain/models"
)

// Handler owns the offers endpoints.
type Handler struct {
	Store *offers.Store
	Log   *zap.Logger
}

// NewHandler constructs an offers Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: offers.New(db), Log: logger}
}

func offerIDParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "offerID"))
	return id, err == nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/offers                                                             |
| GET /api/offers/category/{category}                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// offerView is an offer plus the caller's favorite flag.
type offerView struct {
	models.Offer
	IsFavorite bool `json:"isFavorite"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.listOffers(w, r, "")
}

func (h *Handler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	h.listOffers(w, r, chi.URLParam(r, "category"))
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request, category string) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		list []models.Offer
		err  error
	)
	if category == "" {
		list, err = h.Store.ListActive(ctx)
	} else {
		list, err = h.Store.ListActiveByCategory(ctx, category)
	}
	if err != nil {
		h.Log.Error("offer list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Angebote")
		return
	}

	favorites, err := h.Store.FavoriteSet(ctx, userID)
	if err != nil {
		h.Log.Error("favorite set failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Abrufen der Angebote")
		return
	}

	views := make([]offerView, 0, len(list))
	for _, offer := range list {
		_, fav := favorites[offer.ID]
		views = append(views, offerView{Offer: offer, IsFavorite: fav})
	}
	respond.JSON(w, http.StatusOK, views)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/offers/{offerID}/favorite                                         |
*─────────────────────────────────────────────────────────────────────────────*/

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// HandleFavorite sets or clears the caller's favorite mark. Both
// directions are idempotent; repeating a request changes nothing.
func (h *Handler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Nicht angemeldet")
		return
	}
	offerID, ok := offerIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	var req favoriteRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var err error
	if req.Favorite {
		err = h.Store.AddFavorite(ctx, userID, offerID)
	} else {
		err = h.Store.RemoveFavorite(ctx, userID, offerID)
	}
	if errors.Is(err, offers.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Angebot nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("favorite toggle failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Speichern")
		return
	}

	if req.Favorite {
		respond.Success(w, "Als Favorit gespeichert")
	} else {
		respond.Success(w, "Favorit entfernt")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin CRUD                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	offer := models.Offer{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Active:      true,
	}
	if err := h.Store.Create(ctx, &offer); err != nil {
		h.Log.Error("offer create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Erstellen")
		return
	}
	respond.Created(w, "Angebot erstellt")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	offerID, ok := offerIDParam(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Ungültige ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Store.Delete(ctx, offerID)
	if errors.Is(err, offers.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "Angebot nicht gefunden")
		return
	}
	if err != nil {
		h.Log.Error("offer delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "Fehler beim Löschen")
		return
	}
	respond.Success(w, "Angebot gelöscht")
}
