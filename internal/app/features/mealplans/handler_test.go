package mealplans_test

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/features/mealplans"
	"github.com/careware/hausportal/internal/testutil"
)

func TestHandleUpsert_ReplacesSameDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := mealplans.NewHandler(db, zap.NewNop())
	admin := testutil.AdminUser()

	first := testutil.NewRecorder()
	h.HandleUpsert(first, testutil.WithUser(
		testutil.NewJSONRequest("POST", "/api/meal-plans",
			`{"day_of_week":"monday","main_course":"Linsensuppe","side_dish":"Brot"}`), admin))
	first.AssertStatus(t, 200)
	first.AssertContains(t, "Speiseplan gespeichert")

	second := testutil.NewRecorder()
	h.HandleUpsert(second, testutil.WithUser(
		testutil.NewJSONRequest("POST", "/api/meal-plans",
			`{"day_of_week":"monday","main_course":"Spaghetti","dessert":"Pudding"}`), admin))
	second.AssertStatus(t, 200)

	list := testutil.NewRecorder()
	h.HandleListWeek(list, testutil.NewRequest("GET", "/api/meal-plans"))
	list.AssertStatus(t, 200)

	var plans []struct {
		DayOfWeek  string `json:"dayOfWeek"`
		MainCourse string `json:"mainCourse"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &plans); err != nil {
		t.Fatalf("failed to parse plans: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 plan for monday, got %d", len(plans))
	}
	if plans[0].MainCourse != "Spaghetti" {
		t.Errorf("main course not replaced: %+v", plans[0])
	}
}

func TestHandleUpsert_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := mealplans.NewHandler(db, zap.NewNop())
	admin := testutil.AdminUser()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad weekday", `{"day_of_week":"caturday","main_course":"Fisch"}`, "Ungültiger Wochentag"},
		{"missing main course", `{"day_of_week":"friday"}`, "Hauptgericht ist erforderlich"},
		{"bad date", `{"day_of_week":"friday","main_course":"Fisch","date":"irgendwann"}`, "Ungültiges Datum"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleUpsert(rec, testutil.WithUser(
				testutil.NewJSONRequest("POST", "/api/meal-plans", tc.body), admin))
			rec.AssertStatus(t, 400)
			rec.AssertContains(t, tc.want)
		})
	}
}

func TestHandleListWeek_SortsMondayFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := mealplans.NewHandler(db, zap.NewNop())
	admin := testutil.AdminUser()

	for _, body := range []string{
		`{"day_of_week":"friday","main_course":"Fisch"}`,
		`{"day_of_week":"monday","main_course":"Suppe"}`,
		`{"day_of_week":"wednesday","main_course":"Auflauf"}`,
	} {
		rec := testutil.NewRecorder()
		h.HandleUpsert(rec, testutil.WithUser(
			testutil.NewJSONRequest("POST", "/api/meal-plans", body), admin))
		rec.AssertStatus(t, 200)
	}

	list := testutil.NewRecorder()
	h.HandleListWeek(list, testutil.NewRequest("GET", "/api/meal-plans"))
	list.AssertStatus(t, 200)

	var plans []struct {
		DayOfWeek string `json:"dayOfWeek"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &plans); err != nil {
		t.Fatalf("failed to parse plans: %v", err)
	}
	want := []string{"monday", "wednesday", "friday"}
	if len(plans) != len(want) {
		t.Fatalf("expected %d plans, got %d", len(want), len(plans))
	}
	for i, day := range want {
		if plans[i].DayOfWeek != day {
			t.Errorf("position %d: got %q, want %q", i, plans[i].DayOfWeek, day)
		}
	}
}
