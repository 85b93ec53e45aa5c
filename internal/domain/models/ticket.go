// internal/domain/models/ticket.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket is an uploaded monthly transit ticket. The metadata record is
// the source of truth; FilePath points at the blob in storage.
type Ticket struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	FilePath   string             `bson:"file_path" json:"-"`
	FileName   string             `bson:"file_name" json:"fileName"`
	Month      int                `bson:"month" json:"month"`
	Year       int                `bson:"year" json:"year"`
	UploadedAt time.Time          `bson:"uploaded_at" json:"uploadedAt"`
}
