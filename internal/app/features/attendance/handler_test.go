package attendance_test

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/features/attendance"
	"github.com/careware/hausportal/internal/testutil"
)

func TestHandleUpsert_CreateThenUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := attendance.NewHandler(db, zap.NewNop())
	user := testutil.EmployeeUser()

	first := testutil.NewRecorder()
	h.HandleUpsert(first, testutil.WithUser(
		testutil.NewJSONRequest("POST", "/api/attendance",
			`{"date":"2026-08-27","status":"present"}`), user))
	first.AssertStatus(t, 200)
	first.AssertContains(t, "Anwesenheit eingetragen")

	second := testutil.NewRecorder()
	h.HandleUpsert(second, testutil.WithUser(
		testutil.NewJSONRequest("POST", "/api/attendance",
			`{"date":"2026-08-27","status":"sick","notes":"Erkältung"}`), user))
	second.AssertStatus(t, 200)

	mine := testutil.NewRecorder()
	h.HandleListMine(mine, testutil.NewAuthenticatedRequest("GET", "/api/attendance/me", user))
	mine.AssertStatus(t, 200)

	var records []struct {
		Date   string `json:"date"`
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.Unmarshal(mine.Body.Bytes(), &records); err != nil {
		t.Fatalf("failed to parse records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record after repeated upsert, got %d", len(records))
	}
	if records[0].Status != "sick" || records[0].Notes != "Erkältung" {
		t.Errorf("record not updated: %+v", records[0])
	}
}

func TestHandleUpsert_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := attendance.NewHandler(db, zap.NewNop())
	user := testutil.EmployeeUser()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing date", `{"status":"present"}`, "Datum und Status sind erforderlich"},
		{"missing status", `{"date":"2026-08-27"}`, "Datum und Status sind erforderlich"},
		{"bad date", `{"date":"27.08.2026","status":"present"}`, "Ungültiges Datum"},
		{"bad status", `{"date":"2026-08-27","status":"party"}`, "Ungültiger Status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleUpsert(rec, testutil.WithUser(
				testutil.NewJSONRequest("POST", "/api/attendance", tc.body), user))
			rec.AssertStatus(t, 400)
			rec.AssertContains(t, tc.want)
		})
	}
}

func TestHandleListMine_EmptyIsJSONArray(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := attendance.NewHandler(db, zap.NewNop())

	rec := testutil.NewRecorder()
	h.HandleListMine(rec, testutil.NewAuthenticatedRequest("GET", "/api/attendance/me", testutil.EmployeeUser()))
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "[]")
}

func TestHandleListAll_RosterIncludesNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := attendance.NewHandler(db, zap.NewNop())
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dbUser := fix.CreateEmployee(ctx, "marta")
	asMarta := testutil.TestUser{
		ID:       dbUser.ID.Hex(),
		Username: dbUser.Username,
		Name:     dbUser.DisplayName(),
		Email:    dbUser.Email,
		Role:     dbUser.Role,
	}

	post := testutil.NewRecorder()
	h.HandleUpsert(post, testutil.WithUser(
		testutil.NewJSONRequest("POST", "/api/attendance",
			`{"date":"2026-08-27","status":"present"}`), asMarta))
	post.AssertStatus(t, 200)

	rec := testutil.NewRecorder()
	h.HandleListAll(rec, testutil.NewAuthenticatedRequest(
		"GET", "/api/attendance/all?date=2026-08-27", testutil.SupervisorUser()))
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"username":"marta"`)
	rec.AssertContains(t, `"status":"present"`)
}

func TestHandleListAll_RejectsBadDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := attendance.NewHandler(db, zap.NewNop())

	rec := testutil.NewRecorder()
	h.HandleListAll(rec, testutil.NewAuthenticatedRequest(
		"GET", "/api/attendance/all?date=gestern", testutil.SupervisorUser()))
	rec.AssertStatus(t, 400)
	rec.AssertContains(t, "Ungültiges Datum")
}
