package bootstrap

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/system/authutil"
	"github.com/careware/hausportal/internal/domain/models"
	"github.com/careware/hausportal/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestSeedAdmin_CreatesOnEmptyDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{HausportalMongoDatabase: db}
	cfg := AppConfig{
		AdminUsername: "Hausleitung",
		AdminEmail:    "leitung@haus.example",
		AdminPassword: "S1cheres-Passwort",
		AdminPIN:      "4711",
	}

	if err := seedAdmin(ctx, deps, cfg, testLogger()); err != nil {
		t.Fatalf("seedAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"username": "hausleitung"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find seeded admin: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
	if !user.Active {
		t.Error("expected seeded admin to be active")
	}
	if !authutil.CheckPassword("S1cheres-Passwort", user.PasswordHash) {
		t.Error("expected seeded password hash to verify")
	}
	if !authutil.CheckPIN("4711", user.PINHash) {
		t.Error("expected seeded PIN hash to verify")
	}
}

func TestSeedAdmin_SkipsWhenUsersExist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fix := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fix.CreateEmployee(ctx, "marta")

	deps := DBDeps{HausportalMongoDatabase: db}
	cfg := AppConfig{AdminUsername: "admin", AdminPassword: "S1cheres-Passwort"}

	if err := seedAdmin(ctx, deps, cfg, testLogger()); err != nil {
		t.Fatalf("seedAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		t.Fatalf("count admins: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no admin to be seeded, found %d", n)
	}
}

func TestSeedAdmin_SkipsWithoutPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{HausportalMongoDatabase: db}

	if err := seedAdmin(ctx, deps, AppConfig{AdminUsername: "admin"}, testLogger()); err != nil {
		t.Fatalf("seedAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no users, found %d", n)
	}
}

func TestSeedOpeningHours(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{HausportalMongoDatabase: db}

	if err := seedOpeningHours(ctx, deps, testLogger()); err != nil {
		t.Fatalf("seedOpeningHours failed: %v", err)
	}

	var days []models.OpeningHours
	cur, err := db.Collection("opening_hours").Find(ctx, bson.M{})
	if err != nil {
		t.Fatalf("find opening hours: %v", err)
	}
	if err := cur.All(ctx, &days); err != nil {
		t.Fatalf("decode opening hours: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("expected 7 seeded days, got %d", len(days))
	}
	for _, day := range days {
		weekend := day.DayOfWeek == "saturday" || day.DayOfWeek == "sunday"
		if weekend && !day.Closed {
			t.Errorf("expected %s to be closed", day.DayOfWeek)
		}
		if !weekend && day.OpenTime != "08:00" {
			t.Errorf("expected %s to open at 08:00, got %q", day.DayOfWeek, day.OpenTime)
		}
	}

	// Idempotent: a second run leaves the schedule alone.
	if err := seedOpeningHours(ctx, deps, testLogger()); err != nil {
		t.Fatalf("second seedOpeningHours failed: %v", err)
	}
	n, err := db.Collection("opening_hours").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count opening hours: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7 days after re-seed, got %d", n)
	}
}

func TestSeedContacts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{HausportalMongoDatabase: db}

	if err := seedContacts(ctx, deps, testLogger()); err != nil {
		t.Fatalf("seedContacts failed: %v", err)
	}

	n, err := db.Collection("contacts").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count contacts: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 seeded contacts, got %d", n)
	}

	// A populated directory is left alone.
	if err := seedContacts(ctx, deps, testLogger()); err != nil {
		t.Fatalf("second seedContacts failed: %v", err)
	}
	n, err = db.Collection("contacts").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count contacts: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 contacts after re-seed, got %d", n)
	}
}
