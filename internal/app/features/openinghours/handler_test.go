package openinghours_test

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/features/openinghours"
	"github.com/careware/hausportal/internal/testutil"
)

func TestHandleUpsertDay_CreateAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := openinghours.NewHandler(db, zap.NewNop())

	first := testutil.NewRecorder()
	h.HandleUpsertDay(first, testutil.NewJSONRequest("POST", "/api/opening-hours",
		`{"day_of_week":"monday","open_time":"08:00","close_time":"17:00"}`))
	first.AssertStatus(t, 200)
	first.AssertContains(t, "Öffnungszeiten aktualisiert")

	second := testutil.NewRecorder()
	h.HandleUpsertDay(second, testutil.NewJSONRequest("POST", "/api/opening-hours",
		`{"day_of_week":"monday","closed":true}`))
	second.AssertStatus(t, 200)

	get := testutil.NewRecorder()
	h.HandleGet(get, testutil.NewRequest("GET", "/api/opening-hours"))
	get.AssertStatus(t, 200)

	var resp struct {
		Hours []struct {
			DayOfWeek string `json:"dayOfWeek"`
			Closed    bool   `json:"closed"`
		} `json:"hours"`
	}
	if err := json.Unmarshal(get.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Hours) != 1 {
		t.Fatalf("expected 1 schedule entry, got %d", len(resp.Hours))
	}
	if !resp.Hours[0].Closed {
		t.Errorf("monday not updated to closed: %+v", resp.Hours[0])
	}
}

func TestHandleUpsertDay_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := openinghours.NewHandler(db, zap.NewNop())

	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad weekday", `{"day_of_week":"someday","open_time":"08:00","close_time":"17:00"}`, "Ungültiger Wochentag"},
		{"missing times", `{"day_of_week":"tuesday"}`, "Format HH:MM"},
		{"bad time", `{"day_of_week":"tuesday","open_time":"8 Uhr","close_time":"17:00"}`, "Format HH:MM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleUpsertDay(rec, testutil.NewJSONRequest("POST", "/api/opening-hours", tc.body))
			rec.AssertStatus(t, 400)
			rec.AssertContains(t, tc.want)
		})
	}
}

func TestClosedDays_AddDuplicateRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := openinghours.NewHandler(db, zap.NewNop())

	// The duplicate check relies on the unique index on date.
	ensureClosedDayIndex(t, db)

	// Use a future date so the GET listing includes it.
	date := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
	body := `{"date":"` + date + `","reason":"Betriebsausflug"}`

	add := testutil.NewRecorder()
	h.HandleAddClosedDay(add, testutil.NewJSONRequest("POST", "/api/opening-hours/closed-days", body))
	add.AssertStatus(t, 201)

	dup := testutil.NewRecorder()
	h.HandleAddClosedDay(dup, testutil.NewJSONRequest("POST", "/api/opening-hours/closed-days", body))
	dup.AssertStatus(t, 409)
	dup.AssertContains(t, "existiert bereits")

	del := testutil.NewRecorder()
	h.HandleRemoveClosedDay(del, testutil.WithChiURLParam(
		testutil.NewRequest("DELETE", "/api/opening-hours/closed-days/"+date), "date", date))
	del.AssertStatus(t, 200)

	// Removing again is still fine.
	again := testutil.NewRecorder()
	h.HandleRemoveClosedDay(again, testutil.WithChiURLParam(
		testutil.NewRequest("DELETE", "/api/opening-hours/closed-days/"+date), "date", date))
	again.AssertStatus(t, 200)
}

func ensureClosedDayIndex(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("closed_days").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_closeddays_date"),
	})
	if err != nil {
		t.Fatalf("failed to create closed_days index: %v", err)
	}
}
