package documents_test

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/features/documents"
	"github.com/careware/hausportal/internal/testutil"
)

type blobFake struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newBlobFake() *blobFake {
	return &blobFake{blobs: map[string][]byte{}}
}

func (b *blobFake) Put(_ context.Context, path string, r io.Reader, _ *storage.PutOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[path] = data
	return nil
}

func (b *blobFake) Delete(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.blobs, path)
	return nil
}

func (b *blobFake) PresignedURL(_ context.Context, path string, _ *storage.PresignOptions) (string, error) {
	return "https://blobs.test/" + path, nil
}

func (b *blobFake) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blobs)
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

func uploadDocument(h *documents.Handler, user testutil.TestUser, docType, filename string, content []byte) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	req := testutil.NewMultipartRequest("POST", "/api/documents",
		map[string]string{"doc_type": docType}, "file", filename, content)
	h.HandleUpload(rec, testutil.WithUser(req, user))
	return rec
}

func listMine(t *testing.T, h *documents.Handler, user testutil.TestUser) []struct {
	ID      string `json:"id"`
	DocType string `json:"docType"`
} {
	t.Helper()
	rec := testutil.NewRecorder()
	h.HandleListMine(rec, testutil.NewAuthenticatedRequest("GET", "/api/documents/me", user))
	rec.AssertStatus(t, 200)

	var list []struct {
		ID      string `json:"id"`
		DocType string `json:"docType"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse documents: %v", err)
	}
	return list
}

func TestUpload_StoresWithDocType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	blobs := newBlobFake()
	h := documents.NewHandler(db, blobs, zap.NewNop())
	user := testutil.EmployeeUser()

	rec := uploadDocument(h, user, "certificate", "Zertifikat.pdf", pdfBytes)
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Dokument hochgeladen")

	list := listMine(t, h, user)
	if len(list) != 1 || list[0].DocType != "certificate" {
		t.Fatalf("unexpected document listing: %+v", list)
	}
	if blobs.count() != 1 {
		t.Errorf("expected 1 stored blob, got %d", blobs.count())
	}
}

func TestUpload_RejectsUnknownDocType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	blobs := newBlobFake()
	h := documents.NewHandler(db, blobs, zap.NewNop())

	rec := uploadDocument(h, testutil.EmployeeUser(), "diploma", "datei.pdf", pdfBytes)
	rec.AssertStatus(t, 400)
	rec.AssertContains(t, "Ungültiger Dokumenttyp")

	// The type check runs before the blob is stored.
	if blobs.count() != 0 {
		t.Error("expected no blob for rejected doc type")
	}
}

func TestUpload_RejectsUnsupportedFileType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := documents.NewHandler(db, newBlobFake(), zap.NewNop())

	exe := append([]byte("MZ"), make([]byte, 64)...)
	rec := uploadDocument(h, testutil.EmployeeUser(), "other", "datei.exe", exe)
	rec.AssertStatus(t, 400)
}

func TestDeleteAndDownload_OwnerScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	blobs := newBlobFake()
	h := documents.NewHandler(db, blobs, zap.NewNop())
	owner := testutil.EmployeeUser()
	other := testutil.EmployeeUser()

	uploadDocument(h, owner, "resume", "Lebenslauf.pdf", pdfBytes).AssertStatus(t, 200)
	id := listMine(t, h, owner)[0].ID

	// Admins have no special access to personal documents either.
	foreignDownload := testutil.NewRecorder()
	h.HandleDownload(foreignDownload, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(
		"GET", "/api/documents/"+id+"/download", testutil.AdminUser()), "documentID", id))
	foreignDownload.AssertStatus(t, 404)

	download := testutil.NewRecorder()
	h.HandleDownload(download, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(
		"GET", "/api/documents/"+id+"/download", owner), "documentID", id))
	download.AssertStatus(t, 302)

	foreignDelete := testutil.NewRecorder()
	h.HandleDelete(foreignDelete, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(
		"DELETE", "/api/documents/"+id, other), "documentID", id))
	foreignDelete.AssertStatus(t, 404)

	del := testutil.NewRecorder()
	h.HandleDelete(del, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(
		"DELETE", "/api/documents/"+id, owner), "documentID", id))
	del.AssertStatus(t, 200)
	del.AssertContains(t, "Dokument gelöscht")

	if blobs.count() != 0 {
		t.Errorf("expected blob to be removed with the document, got %d", blobs.count())
	}
}
