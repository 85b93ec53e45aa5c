// internal/app/store/offers/store.go
package offers

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/app/store/toggleset"
	"github.com/careware/hausportal/internal/domain/models"
)

// ErrNotFound means no offer matched.
var ErrNotFound = errors.New("offer not found")

// Store manages offers and per-user favorites.
type Store struct {
	offers    *mongo.Collection
	favorites *mongo.Collection
}

// New creates a new offers Store.
func New(db *mongo.Database) *Store {
	return &Store{
		offers:    db.Collection("offers"),
		favorites: db.Collection("favorites"),
	}
}

// Create inserts an offer.
func (s *Store) Create(ctx context.Context, offer *models.Offer) error {
	if offer.ID.IsZero() {
		offer.ID = primitive.NewObjectID()
	}
	offer.CreatedAt = time.Now().UTC()
	_, err := s.offers.InsertOne(ctx, offer)
	return err
}

// GetByID retrieves one offer.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Offer, error) {
	var offer models.Offer
	err := s.offers.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Offer{}, ErrNotFound
	}
	return offer, err
}

// ListActive returns active offers, newest first.
func (s *Store) ListActive(ctx context.Context) ([]models.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.offers.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []models.Offer
	if err := cur.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListActiveByCategory returns one category's active offers, newest first.
func (s *Store) ListActiveByCategory(ctx context.Context, category string) ([]models.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.offers.Find(ctx, bson.M{"active": true, "category": category}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var result []models.Offer
	if err := cur.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes an offer and everyone's favorites pointing at it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.offers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	_, err = s.favorites.DeleteMany(ctx, bson.M{"offer_id": id})
	return err
}

/*──────────────────────────── favorites ───────────────────────────*/

// AddFavorite marks an offer as a favorite; repeats are a no-op.
// The offer must exist.
func (s *Store) AddFavorite(ctx context.Context, userID, offerID primitive.ObjectID) error {
	if _, err := s.GetByID(ctx, offerID); err != nil {
		return err
	}
	return toggleset.Add(ctx, s.favorites, models.Favorite{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		OfferID:   offerID,
		CreatedAt: time.Now().UTC(),
	})
}

// RemoveFavorite unmarks an offer; removing a non-favorite is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, userID, offerID primitive.ObjectID) error {
	return toggleset.Remove(ctx, s.favorites, bson.M{"user_id": userID, "offer_id": offerID})
}

// FavoriteSet returns the IDs of the offers the user has favorited.
func (s *Store) FavoriteSet(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	return toggleset.IDSet(ctx, s.favorites, bson.M{"user_id": userID}, "offer_id")
}
