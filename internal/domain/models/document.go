// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document types.
const (
	DocTypeResume      = "resume"
	DocTypeCertificate = "certificate"
	DocTypeReference   = "reference"
	DocTypeOther       = "other"
)

// IsValidDocType reports whether docType is a known document type.
func IsValidDocType(docType string) bool {
	switch docType {
	case DocTypeResume, DocTypeCertificate, DocTypeReference, DocTypeOther:
		return true
	}
	return false
}

// Document is a personal document uploaded by a user (resume,
// certificate, reference).
type Document struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	FilePath   string             `bson:"file_path" json:"-"`
	FileName   string             `bson:"file_name" json:"fileName"`
	DocType    string             `bson:"doc_type" json:"docType"`
	UploadedAt time.Time          `bson:"uploaded_at" json:"uploadedAt"`
}
