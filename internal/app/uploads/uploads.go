// internal/app/uploads/uploads.go
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxFileSize is the per-file upload limit.
const MaxFileSize = 5 << 20 // 5 MiB

var (
	// ErrTooLarge means the file exceeds MaxFileSize.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType means the sniffed content type is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// allowedTypes maps permitted (sniffed) content types to the extension
// used in the stored path. What the client claims is ignored; the
// first 512 bytes decide.
var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// BlobStore is the slice of the storage backend the manager and the
// download handlers need. The waffle storage backends satisfy it.
type BlobStore interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	PresignedURL(ctx context.Context, path string, opts *storage.PresignOptions) (string, error)
}

// Manager runs the upload lifecycle: validate, store the blob, insert
// metadata, and compensate when the metadata write fails. Metadata
// writes are supplied by the caller so the manager stays
// collection-agnostic.
type Manager struct {
	store BlobStore
	log   *zap.Logger
}

// NewManager creates an upload Manager.
func NewManager(store BlobStore, logger *zap.Logger) *Manager {
	return &Manager{store: store, log: logger}
}

// InsertMetaFunc writes the metadata record for a stored blob.
type InsertMetaFunc func(ctx context.Context, path, contentType string) error

// Store validates and stores an upload, then runs insertMeta. If the
// metadata insert fails the stored blob is deleted again so no
// orphaned file survives the failed operation. Returns the storage
// path on success.
func (m *Manager) Store(ctx context.Context, category string, ownerID primitive.ObjectID, file io.ReadSeeker, size int64, insertMeta InsertMetaFunc) (string, error) {
	if size > MaxFileSize {
		return "", ErrTooLarge
	}

	contentType, err := sniffContentType(file)
	if err != nil {
		return "", err
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	path := fmt.Sprintf("%s/%s_%s%s", category, ownerID.Hex(), uuid.New().String()[:8], ext)

	opts := &storage.PutOptions{ContentType: contentType}
	if err := m.store.Put(ctx, path, file, opts); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	if err := insertMeta(ctx, path, contentType); err != nil {
		// Metadata is the source of truth; without it the blob must go.
		if delErr := m.store.Delete(ctx, path); delErr != nil {
			m.log.Warn("failed to delete blob after metadata insert failed",
				zap.String("path", path),
				zap.Error(delErr))
		}
		return "", err
	}

	return path, nil
}

// DeleteMetaFunc removes the metadata record for a stored blob.
type DeleteMetaFunc func(ctx context.Context) error

// Remove deletes an upload, metadata first. A failing blob delete is
// logged but not reported: once the metadata is gone the upload no
// longer exists as far as users are concerned, and a leftover blob is
// an operational cleanup problem, not a request failure.
func (m *Manager) Remove(ctx context.Context, path string, deleteMeta DeleteMetaFunc) error {
	if err := deleteMeta(ctx); err != nil {
		return err
	}

	if err := m.store.Delete(ctx, path); err != nil {
		m.log.Warn("failed to delete blob from storage",
			zap.String("path", path),
			zap.Error(err))
	}
	return nil
}

// SanitizeFilename tidies a client-supplied name for display and
// storage in metadata. Path components and unusual characters are
// stripped.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 || strings.Trim(string(result), "._") == "" {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}

// sniffContentType reads the first 512 bytes to detect the content
// type, then rewinds the reader for the actual upload.
func sniffContentType(file io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return detectType(buf[:n]), nil
}

// detectType wraps http.DetectContentType minus its charset suffix.
func detectType(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
