// internal/domain/models/offer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer is an internal offer (activities, services) users can favorite.
type Offer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// Favorite marks an offer as favorited by a user. Unique per
// (user_id, offer_id); adding twice is a no-op.
type Favorite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	OfferID   primitive.ObjectID `bson:"offer_id" json:"offerId"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}
