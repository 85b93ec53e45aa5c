// internal/app/uploads/uploads_test.go
package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memStore is an in-memory BlobStore for exercising the lifecycle
// without a filesystem.
type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	failDelete bool
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (m *memStore) Put(_ context.Context, path string, r io.Reader, _ *storage.PutOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[path] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, path string) error {
	if m.failDelete {
		return errors.New("delete failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, path)
	return nil
}

func (m *memStore) PresignedURL(_ context.Context, path string, _ *storage.PresignOptions) (string, error) {
	return "https://blobs.test/" + path, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

// pdfBytes is a minimal PDF header that the sniffer recognizes.
var pdfBytes = []byte("%PDF-1.4\n%äöü\n1 0 obj\n<<>>\nendobj\n")

// pngBytes is a PNG signature plus padding.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func noopInsert(context.Context, string, string) error { return nil }

func TestStore_AcceptsPDF(t *testing.T) {
	ms := newMemStore()
	mgr := NewManager(ms, zap.NewNop())
	owner := primitive.NewObjectID()

	path, err := mgr.Store(context.Background(), "tickets", owner,
		bytes.NewReader(pdfBytes), int64(len(pdfBytes)), noopInsert)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(path, "tickets/"+owner.Hex()+"_") {
		t.Errorf("path = %q, want tickets/<owner>_<suffix>", path)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("path = %q, want .pdf extension", path)
	}
	if ms.count() != 1 {
		t.Errorf("expected 1 stored blob, got %d", ms.count())
	}
}

func TestStore_ExtensionFollowsSniffedType(t *testing.T) {
	ms := newMemStore()
	mgr := NewManager(ms, zap.NewNop())

	// PNG content; whatever name the client used is irrelevant.
	path, err := mgr.Store(context.Background(), "documents", primitive.NewObjectID(),
		bytes.NewReader(pngBytes), int64(len(pngBytes)), noopInsert)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("path = %q, want .png extension from sniffed type", path)
	}
}

func TestStore_RejectsTooLarge(t *testing.T) {
	ms := newMemStore()
	mgr := NewManager(ms, zap.NewNop())

	_, err := mgr.Store(context.Background(), "tickets", primitive.NewObjectID(),
		bytes.NewReader(pdfBytes), MaxFileSize+1, noopInsert)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if ms.count() != 0 {
		t.Error("expected no blob stored for oversized upload")
	}
}

func TestStore_RejectsUnsupportedType(t *testing.T) {
	ms := newMemStore()
	mgr := NewManager(ms, zap.NewNop())

	exe := append([]byte("MZ"), make([]byte, 64)...)
	_, err := mgr.Store(context.Background(), "tickets", primitive.NewObjectID(),
		bytes.NewReader(exe), int64(len(exe)), noopInsert)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
	if ms.count() != 0 {
		t.Error("expected no blob stored for rejected type")
	}
}

func TestStore_CompensatesWhenMetadataFails(t *testing.T) {
	ms := newMemStore()
	mgr := NewManager(ms, zap.NewNop())

	insertErr := errors.New("insert failed")
	_, err := mgr.Store(context.Background(), "tickets", primitive.NewObjectID(),
		bytes.NewReader(pdfBytes), int64(len(pdfBytes)),
		func(context.Context, string, string) error { return insertErr })
	if !errors.Is(err, insertErr) {
		t.Fatalf("expected metadata error to surface, got %v", err)
	}
	if ms.count() != 0 {
		t.Error("expected compensating delete to remove the blob")
	}
}

func TestRemove_MetadataFirst(t *testing.T) {
	ms := newMemStore()
	mgr := NewManager(ms, zap.NewNop())

	path, err := mgr.Store(context.Background(), "documents", primitive.NewObjectID(),
		bytes.NewReader(pdfBytes), int64(len(pdfBytes)), noopInsert)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	// Failing metadata delete aborts before the blob is touched.
	metaErr := errors.New("meta delete failed")
	err = mgr.Remove(context.Background(), path, func(context.Context) error { return metaErr })
	if !errors.Is(err, metaErr) {
		t.Fatalf("expected metadata error to surface, got %v", err)
	}
	if ms.count() != 1 {
		t.Error("expected blob to survive a failed metadata delete")
	}

	// Successful metadata delete removes the blob too.
	if err := mgr.Remove(context.Background(), path, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ms.count() != 0 {
		t.Error("expected blob to be gone after Remove")
	}
}

func TestRemove_BlobDeleteFailureIsNotAnError(t *testing.T) {
	ms := newMemStore()
	mgr := NewManager(ms, zap.NewNop())

	path, err := mgr.Store(context.Background(), "documents", primitive.NewObjectID(),
		bytes.NewReader(pdfBytes), int64(len(pdfBytes)), noopInsert)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	ms.failDelete = true
	if err := mgr.Remove(context.Background(), path, func(context.Context) error { return nil }); err != nil {
		t.Errorf("expected Remove to succeed despite blob delete failure, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Monatskarte August.pdf", "Monatskarte_August.pdf"},
		{"../../etc/passwd", "passwd"},
		{"größe.png", "gr____e.png"},
		{"", "file"},
		{"...", "file"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
