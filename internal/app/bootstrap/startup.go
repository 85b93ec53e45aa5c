// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/careware/hausportal/internal/app/store/contacts"
	"github.com/careware/hausportal/internal/app/store/openinghours"
	"github.com/careware/hausportal/internal/app/store/users"
	"github.com/careware/hausportal/internal/app/system/authutil"
	"github.com/careware/hausportal/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// The portal seeds a first admin account on an empty user collection
// and fills in a default weekly schedule so the public endpoints have
// something to show.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := seedAdmin(ctx, deps, appCfg, logger); err != nil {
		return err
	}
	if err := seedOpeningHours(ctx, deps, logger); err != nil {
		return err
	}
	return seedContacts(ctx, deps, logger)
}

// seedAdmin creates the configured admin account when no users exist
// yet. Without it a fresh install has no way to log in.
func seedAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	store := users.New(deps.HausportalMongoDatabase)

	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	if appCfg.AdminPassword == "" {
		logger.Warn("no users exist and admin_password is unset; skipping admin seed")
		return nil
	}
	if err := authutil.ValidatePassword(appCfg.AdminPassword); err != nil {
		return fmt.Errorf("admin_password: %w", err)
	}

	hash, err := authutil.HashPassword(appCfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username:     appCfg.AdminUsername,
		Email:        appCfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if appCfg.AdminPIN != "" {
		if err := authutil.ValidatePIN(appCfg.AdminPIN); err != nil {
			return fmt.Errorf("admin_pin: %w", err)
		}
		pinHash, err := authutil.HashPIN(appCfg.AdminPIN)
		if err != nil {
			return fmt.Errorf("hash admin pin: %w", err)
		}
		admin.PINHash = pinHash
	}
	if err := store.Create(ctx, &admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	logger.Info("seeded initial admin account",
		zap.String("username", admin.Username))
	return nil
}

// seedOpeningHours writes a default weekly schedule (weekdays open
// 8:00-18:00, weekend closed) when none has been configured yet.
func seedOpeningHours(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	store := openinghours.New(deps.HausportalMongoDatabase)

	existing, err := store.ListWeek(ctx)
	if err != nil {
		return fmt.Errorf("list opening hours: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, day := range models.Weekdays {
		oh := models.OpeningHours{DayOfWeek: day}
		switch day {
		case "saturday", "sunday":
			oh.Closed = true
		default:
			oh.OpenTime = "08:00"
			oh.CloseTime = "18:00"
		}
		if _, err := store.UpsertDay(ctx, oh); err != nil {
			return fmt.Errorf("seed opening hours for %s: %w", day, err)
		}
	}

	logger.Info("seeded default opening hours")
	return nil
}

// seedContacts fills the contact directory with placeholder entries on
// a fresh install, one per activity category, so the public endpoint
// is not empty before an admin maintains the real directory.
func seedContacts(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	store := contacts.New(deps.HausportalMongoDatabase)

	existing, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []models.Contact{
		{Name: "Frau Schmidt", Phone: "030-12345-100", Category: "Sport", SortOrder: 1},
		{Name: "Herr Müller", Phone: "030-12345-101", Category: "Kultur", SortOrder: 2},
		{Name: "Frau Weber", Phone: "030-12345-102", Category: "Freizeit", SortOrder: 3},
	}
	for i := range defaults {
		if err := store.Create(ctx, &defaults[i]); err != nil {
			return fmt.Errorf("seed contact %s: %w", defaults[i].Name, err)
		}
	}

	logger.Info("seeded default contacts", zap.Int("count", len(defaults)))
	return nil
}
