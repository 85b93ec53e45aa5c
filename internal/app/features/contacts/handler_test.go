package contacts_test

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/features/contacts"
	"github.com/careware/hausportal/internal/testutil"
)

func TestCreateListAndFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := contacts.NewHandler(db, zap.NewNop())

	for _, body := range []string{
		`{"name":"Frau Weber","role":"Pflegedienstleitung","category":"pflege","sortOrder":1}`,
		`{"name":"Herr Kraus","role":"Hausmeister","category":"technik","sortOrder":1}`,
		`{"name":"Frau Albrecht","role":"Pflege","category":"pflege","sortOrder":2}`,
	} {
		rec := testutil.NewRecorder()
		h.HandleCreate(rec, testutil.NewJSONRequest("POST", "/api/contacts", body))
		rec.AssertStatus(t, 201)
	}

	all := testutil.NewRecorder()
	h.HandleList(all, testutil.NewRequest("GET", "/api/contacts"))
	all.AssertStatus(t, 200)

	var list []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(all.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse contacts: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 contacts, got %d", len(list))
	}
	// Sorted by category, then sort order.
	if list[0].Name != "Frau Weber" || list[1].Name != "Frau Albrecht" {
		t.Errorf("unexpected order: %+v", list)
	}

	filtered := testutil.NewRecorder()
	h.HandleListByCategory(filtered, testutil.WithChiURLParam(
		testutil.NewRequest("GET", "/api/contacts/category/technik"), "category", "technik"))
	filtered.AssertStatus(t, 200)
	filtered.AssertContains(t, "Herr Kraus")

	var technik []struct{}
	if err := json.Unmarshal(filtered.Body.Bytes(), &technik); err != nil {
		t.Fatalf("failed to parse filtered contacts: %v", err)
	}
	if len(technik) != 1 {
		t.Errorf("expected 1 technik contact, got %d", len(technik))
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := contacts.NewHandler(db, zap.NewNop())

	missingName := testutil.NewRecorder()
	h.HandleCreate(missingName, testutil.NewJSONRequest("POST", "/api/contacts",
		`{"category":"pflege"}`))
	missingName.AssertStatus(t, 400)
	missingName.AssertContains(t, "Name ist erforderlich")

	missingCategory := testutil.NewRecorder()
	h.HandleCreate(missingCategory, testutil.NewJSONRequest("POST", "/api/contacts",
		`{"name":"Frau Weber"}`))
	missingCategory.AssertStatus(t, 400)
	missingCategory.AssertContains(t, "Kategorie ist erforderlich")
}

func TestUpdateAndDelete_UnknownID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := contacts.NewHandler(db, zap.NewNop())
	unknown := primitive.NewObjectID().Hex()

	upd := testutil.NewRecorder()
	h.HandleUpdate(upd, testutil.WithChiURLParam(
		testutil.NewJSONRequest("PUT", "/api/contacts/"+unknown,
			`{"name":"Neu","category":"pflege"}`), "contactID", unknown))
	upd.AssertStatus(t, 404)
	upd.AssertContains(t, "Kontakt nicht gefunden")

	del := testutil.NewRecorder()
	h.HandleDelete(del, testutil.WithChiURLParam(
		testutil.NewRequest("DELETE", "/api/contacts/"+unknown), "contactID", unknown))
	del.AssertStatus(t, 404)

	badID := testutil.NewRecorder()
	h.HandleDelete(badID, testutil.WithChiURLParam(
		testutil.NewRequest("DELETE", "/api/contacts/nope"), "contactID", "nope"))
	badID.AssertStatus(t, 400)
	badID.AssertContains(t, "Ungültige ID")
}
