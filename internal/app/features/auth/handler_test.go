package auth_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/features/auth"
	sysauth "github.com/careware/hausportal/internal/app/system/auth"
	"github.com/careware/hausportal/internal/testutil"
)

func newTestHandler(t *testing.T) (*auth.Handler, *testutil.Fixtures) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	sm, err := sysauth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "hausportal_session", "",
		time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return auth.NewHandler(db, sm, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestHandleLoginPIN_Success(t *testing.T) {
	h, fix := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fix.CreateUserWithCredentials(ctx, "anna", "employee", "1234", "geheim99")

	req := testutil.NewJSONRequest("POST", "/api/auth/login-pin",
		`{"username":"anna","pin":"1234"}`)
	rec := testutil.NewRecorder()
	h.HandleLoginPIN(rec, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"success":true`)
	rec.AssertContains(t, "Willkommen")
	rec.AssertContains(t, `"username":"anna"`)

	if cookies := rec.Result().Cookies(); len(cookies) == 0 {
		t.Error("expected a session cookie on successful login")
	}

	count, err := fix.DB().Collection("sessions").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 session record, got %d", count)
	}
}

func TestHandleLoginPIN_BadFormat(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, pin := range []string{"", "12", "12345", "12a4"} {
		req := testutil.NewJSONRequest("POST", "/api/auth/login-pin",
			`{"username":"anna","pin":"`+pin+`"}`)
		rec := testutil.NewRecorder()
		h.HandleLoginPIN(rec, req)

		rec.AssertStatus(t, 400)
		rec.AssertContains(t, "PIN muss aus 4 Ziffern bestehen")
	}
}

func TestHandleLoginPIN_UnknownAndWrongAreIdentical(t *testing.T) {
	h, fix := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fix.CreateUserWithCredentials(ctx, "anna", "employee", "1234", "geheim99")

	unknown := testutil.NewRecorder()
	h.HandleLoginPIN(unknown, testutil.NewJSONRequest("POST", "/api/auth/login-pin",
		`{"username":"nobody","pin":"1234"}`))

	wrongPIN := testutil.NewRecorder()
	h.HandleLoginPIN(wrongPIN, testutil.NewJSONRequest("POST", "/api/auth/login-pin",
		`{"username":"anna","pin":"9999"}`))

	unknown.AssertStatus(t, 401)
	wrongPIN.AssertStatus(t, 401)
	if unknown.Body.String() != wrongPIN.Body.String() {
		t.Errorf("unknown-user and wrong-PIN responses differ: %q vs %q",
			unknown.Body.String(), wrongPIN.Body.String())
	}
	unknown.AssertContains(t, "Ungültige Anmeldedaten")
}

func TestHandleLogin_Success(t *testing.T) {
	h, fix := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fix.CreateUserWithCredentials(ctx, "bernd", "supervisor", "1234", "geheim99")

	req := testutil.NewJSONRequest("POST", "/api/auth/login",
		`{"email":"bernd@test.example","password":"geheim99"}`)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"role":"supervisor"`)
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	h, fix := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fix.CreateUserWithCredentials(ctx, "bernd", "employee", "1234", "geheim99")

	req := testutil.NewJSONRequest("POST", "/api/auth/login",
		`{"email":"bernd@test.example","password":"falsch"}`)
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, req)

	rec.AssertStatus(t, 401)
	rec.AssertContains(t, "Ungültige Anmeldedaten")
}

func TestHandleLoginPIN_InactiveLooksLikeUnknown(t *testing.T) {
	h, fix := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fix.CreateUserWithCredentials(ctx, "clara", "employee", "1234", "geheim99")
	if err := fix.DB().Collection("users").FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"active": false}}).Err(); err != nil {
		t.Fatalf("deactivate user: %v", err)
	}

	// Correct credentials on a deactivated account must answer exactly
	// like an unknown user, or login would confirm the account exists.
	inactive := testutil.NewRecorder()
	h.HandleLoginPIN(inactive, testutil.NewJSONRequest("POST", "/api/auth/login-pin",
		`{"username":"clara","pin":"1234"}`))

	unknown := testutil.NewRecorder()
	h.HandleLoginPIN(unknown, testutil.NewJSONRequest("POST", "/api/auth/login-pin",
		`{"username":"nobody","pin":"1234"}`))

	inactive.AssertStatus(t, 401)
	if inactive.Body.String() != unknown.Body.String() {
		t.Errorf("inactive and unknown-user responses differ: %q vs %q",
			inactive.Body.String(), unknown.Body.String())
	}

	if cookies := inactive.Result().Cookies(); len(cookies) != 0 {
		t.Error("expected no session cookie for a deactivated account")
	}
}

func TestHandleLogout_WithoutSessionStillSucceeds(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.HandleLogout(rec, testutil.NewRequest("POST", "/api/auth/logout"))

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Erfolgreich abgemeldet")
}

func TestHandleMe(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.HandleMe(rec, testutil.NewAuthenticatedRequest("GET", "/api/auth/me", testutil.EmployeeUser()))
	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"username":"testemployee"`)

	anon := testutil.NewRecorder()
	h.HandleMe(anon, testutil.NewRequest("GET", "/api/auth/me"))
	anon.AssertStatus(t, 401)
	anon.AssertContains(t, "Nicht angemeldet")
}

func TestHandleLoginPIN_AccountLockout(t *testing.T) {
	h, fix := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fix.CreateUserWithCredentials(ctx, "anna", "employee", "1234", "geheim99")

	for i := 0; i < 5; i++ {
		rec := testutil.NewRecorder()
		h.HandleLoginPIN(rec, testutil.NewJSONRequest("POST", "/api/auth/login-pin",
			`{"username":"anna","pin":"9999"}`))
		rec.AssertStatus(t, 401)
	}

	// Even the correct PIN is refused once the account is throttled.
	rec := testutil.NewRecorder()
	h.HandleLoginPIN(rec, testutil.NewJSONRequest("POST", "/api/auth/login-pin",
		`{"username":"anna","pin":"1234"}`))
	rec.AssertStatus(t, 429)
	rec.AssertContains(t, "Zu viele Anmeldeversuche")
}
