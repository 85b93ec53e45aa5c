// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is a portal-wide notice. Content and
// EasyLanguageContent hold sanitized HTML; EasyLanguageContent is the
// simplified-language rendition shown when accessibility settings ask
// for it.
type Announcement struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title               string             `bson:"title" json:"title"`
	Content             string             `bson:"content" json:"content"`
	EasyLanguageContent string             `bson:"easy_language_content,omitempty" json:"easyLanguageContent,omitempty"`
	IsImportant         bool               `bson:"is_important" json:"isImportant"`
	CreatedAt           time.Time          `bson:"created_at" json:"createdAt"`
}
