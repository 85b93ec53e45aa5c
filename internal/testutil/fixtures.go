// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/careware/hausportal/internal/app/system/authutil"
	"github.com/careware/hausportal/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, username, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  strings.ToLower(username),
		Email:     strings.ToLower(username) + "@test.example",
		FirstName: "Test",
		LastName:  username,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateUserWithCredentials creates an active user with a bcrypt PIN
// and password, for exercising the login endpoints.
func (f *Fixtures) CreateUserWithCredentials(ctx context.Context, username, role, pin, password string) models.User {
	f.t.Helper()

	pinHash, err := authutil.HashPIN(pin)
	if err != nil {
		f.t.Fatalf("failed to hash test PIN: %v", err)
	}
	passwordHash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	user := f.CreateUser(ctx, username, role)
	user.PINHash = pinHash
	user.PasswordHash = passwordHash

	_, err = f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"pin_hash":      pinHash,
			"password_hash": passwordHash,
		}},
	)
	if err != nil {
		f.t.Fatalf("failed to set test credentials: %v", err)
	}
	return user
}

// CreateEmployee creates an active employee user.
func (f *Fixtures) CreateEmployee(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleEmployee)
}

// CreateSupervisor creates an active supervisor user.
func (f *Fixtures) CreateSupervisor(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleSupervisor)
}

// CreateAdmin creates an active admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleAdmin)
}

// CreateInactiveUser creates a deactivated employee user.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, username string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  strings.ToLower(username),
		Email:     strings.ToLower(username) + "@test.example",
		FirstName: "Test",
		LastName:  username,
		Role:      models.RoleEmployee,
		Active:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create inactive test user: %v", err)
	}
	return user
}

// CreateSurvey creates an active survey with the given option texts.
// Options are numbered 1..n in the order given.
func (f *Fixtures) CreateSurvey(ctx context.Context, title string, optionTexts ...string) models.Survey {
	f.t.Helper()

	now := time.Now().UTC()
	survey := models.Survey{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Active:    true,
		CreatedAt: now,
	}
	if _, err := f.db.Collection("surveys").InsertOne(ctx, survey); err != nil {
		f.t.Fatalf("failed to create test survey: %v", err)
	}

	for i, text := range optionTexts {
		opt := models.SurveyOption{
			ID:           primitive.NewObjectID(),
			SurveyID:     survey.ID,
			OptionNumber: i + 1,
			OptionText:   text,
		}
		if _, err := f.db.Collection("survey_options").InsertOne(ctx, opt); err != nil {
			f.t.Fatalf("failed to create test survey option: %v", err)
		}
	}
	return survey
}

// CreateOffer creates an active offer.
func (f *Fixtures) CreateOffer(ctx context.Context, title string) models.Offer {
	f.t.Helper()

	offer := models.Offer{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("offers").InsertOne(ctx, offer); err != nil {
		f.t.Fatalf("failed to create test offer: %v", err)
	}
	return offer
}

// CreateTraining creates an active training.
func (f *Fixtures) CreateTraining(ctx context.Context, title string) models.Training {
	f.t.Helper()

	training := models.Training{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("trainings").InsertOne(ctx, training); err != nil {
		f.t.Fatalf("failed to create test training: %v", err)
	}
	return training
}
