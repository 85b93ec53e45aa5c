// internal/app/store/offers/store_test.go
package offers_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/careware/hausportal/internal/app/store/offers"
	"github.com/careware/hausportal/internal/domain/models"
	"github.com/careware/hausportal/internal/testutil"
)

func setup(t *testing.T) *offers.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("favorites").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "offer_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_favorites_user_offer"),
	})
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	return offers.New(db)
}

func TestFavoriteToggle_Idempotent(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	offer := &models.Offer{Title: "Yoga am Mittwoch", Active: true}
	if err := store.Create(ctx, offer); err != nil {
		t.Fatalf("Create: %v", err)
	}
	userID := primitive.NewObjectID()

	// Adding twice leaves exactly one membership.
	if err := store.AddFavorite(ctx, userID, offer.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := store.AddFavorite(ctx, userID, offer.ID); err != nil {
		t.Fatalf("repeat AddFavorite: %v", err)
	}

	set, err := store.FavoriteSet(ctx, userID)
	if err != nil {
		t.Fatalf("FavoriteSet: %v", err)
	}
	if len(set) != 1 {
		t.Errorf("expected 1 favorite, got %d", len(set))
	}
	if _, ok := set[offer.ID]; !ok {
		t.Error("expected offer in favorite set")
	}

	// Removing twice is also fine.
	if err := store.RemoveFavorite(ctx, userID, offer.ID); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if err := store.RemoveFavorite(ctx, userID, offer.ID); err != nil {
		t.Fatalf("repeat RemoveFavorite: %v", err)
	}

	set, err = store.FavoriteSet(ctx, userID)
	if err != nil {
		t.Fatalf("FavoriteSet: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("expected empty favorite set, got %d", len(set))
	}
}

func TestAddFavorite_UnknownOffer(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.AddFavorite(ctx, primitive.NewObjectID(), primitive.NewObjectID())
	if err != offers.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_CleansUpFavorites(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	offer := &models.Offer{Title: "Kochkurs", Active: true}
	if err := store.Create(ctx, offer); err != nil {
		t.Fatalf("Create: %v", err)
	}
	userID := primitive.NewObjectID()
	if err := store.AddFavorite(ctx, userID, offer.ID); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	if err := store.Delete(ctx, offer.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	set, err := store.FavoriteSet(ctx, userID)
	if err != nil {
		t.Fatalf("FavoriteSet: %v", err)
	}
	if len(set) != 0 {
		t.Error("expected favorites to be removed with the offer")
	}
}
