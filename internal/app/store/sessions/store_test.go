// internal/app/store/sessions/store_test.go
package sessions_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/careware/hausportal/internal/app/store/sessions"
	"github.com/careware/hausportal/internal/app/store/users"
	"github.com/careware/hausportal/internal/testutil"
)

func TestCreateAndGetByToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := sessions.New(db)
	userID := primitive.NewObjectID()

	sess, err := store.Create(ctx, userID, "Chrome on Windows", 24*time.Hour)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("expected a non-empty token")
	}

	got, err := store.GetByToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.UserID != userID {
		t.Errorf("UserID = %s, want %s", got.UserID.Hex(), userID.Hex())
	}
	if got.Device != "Chrome on Windows" {
		t.Errorf("Device = %q", got.Device)
	}
}

func TestGetByToken_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := sessions.New(db)
	sess, err := store.Create(ctx, primitive.NewObjectID(), "", -time.Minute)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.GetByToken(ctx, sess.Token); err != sessions.ErrNotFound {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestDeleteByToken_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := sessions.New(db)
	sess, err := store.Create(ctx, primitive.NewObjectID(), "", time.Hour)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.DeleteByToken(ctx, sess.Token); err != nil {
		t.Fatalf("DeleteByToken: %v", err)
	}
	// Second delete of the same token is still fine.
	if err := store.DeleteByToken(ctx, sess.Token); err != nil {
		t.Fatalf("repeat DeleteByToken: %v", err)
	}

	if _, err := store.GetByToken(ctx, sess.Token); err != sessions.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestResolver(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	sessStore := sessions.New(db)
	userStore := users.New(db)
	resolver := sessions.NewResolver(sessStore, userStore)

	t.Run("valid token resolves to user", func(t *testing.T) {
		u := f.CreateEmployee(ctx, "resolver1")
		sess, err := sessStore.Create(ctx, u.ID, "", time.Hour)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		su, err := resolver.Resolve(ctx, sess.Token)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if su == nil {
			t.Fatal("expected a session user")
		}
		if su.ID != u.ID.Hex() {
			t.Errorf("ID = %s, want %s", su.ID, u.ID.Hex())
		}
		if su.Role != "employee" {
			t.Errorf("Role = %q, want employee", su.Role)
		}
	})

	t.Run("unknown token resolves to nothing", func(t *testing.T) {
		su, err := resolver.Resolve(ctx, "no-such-token")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if su != nil {
			t.Error("expected nil user for unknown token")
		}
	})

	t.Run("inactive user resolves to nothing", func(t *testing.T) {
		u := f.CreateInactiveUser(ctx, "resolver2")
		sess, err := sessStore.Create(ctx, u.ID, "", time.Hour)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		su, err := resolver.Resolve(ctx, sess.Token)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if su != nil {
			t.Error("expected nil user for inactive account")
		}
	})
}
