// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	announcementsfeature "github.com/careware/hausportal/internal/app/features/announcements"
	attendancefeature "github.com/careware/hausportal/internal/app/features/attendance"
	authfeature "github.com/careware/hausportal/internal/app/features/auth"
	contactsfeature "github.com/careware/hausportal/internal/app/features/contacts"
	documentsfeature "github.com/careware/hausportal/internal/app/features/documents"
	healthfeature "github.com/careware/hausportal/internal/app/features/health"
	jobsfeature "github.com/careware/hausportal/internal/app/features/jobs"
	mealplansfeature "github.com/careware/hausportal/internal/app/features/mealplans"
	openinghoursfeature "github.com/careware/hausportal/internal/app/features/openinghours"
	offersfeature "github.com/careware/hausportal/internal/app/features/offers"
	surveysfeature "github.com/careware/hausportal/internal/app/features/surveys"
	ticketsfeature "github.com/careware/hausportal/internal/app/features/tickets"
	trainingsfeature "github.com/careware/hausportal/internal/app/features/trainings"
	sessionstore "github.com/careware/hausportal/internal/app/store/sessions"
	userstore "github.com/careware/hausportal/internal/app/store/users"
	"github.com/careware/hausportal/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. It creates the session
// manager, wires the database-backed token resolver, opens the local
// blob storage, and mounts every feature router under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies in prod, or whenever explicitly configured.
	secure := appCfg.SecureCookies || coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName,
		appCfg.CookieDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.HausportalMongoDatabase

	// Resolve cookie tokens against the sessions collection on each
	// request, so deactivating a user or deleting a session takes
	// effect immediately.
	sessionMgr.SetResolver(sessionstore.NewResolver(sessionstore.New(db), userstore.New(db)))

	// Blob storage for ticket and document uploads.
	blobs, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("local storage init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.HausportalMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Authentication
	authHandler := authfeature.NewHandler(db, sessionMgr, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	// Public info surfaces (reads are open; writes gated per feature)
	announcementsHandler := announcementsfeature.NewHandler(db, logger)
	r.Mount("/api/announcements", announcementsfeature.Routes(announcementsHandler, sessionMgr))

	mealplansHandler := mealplansfeature.NewHandler(db, logger)
	r.Mount("/api/meal-plans", mealplansfeature.Routes(mealplansHandler, sessionMgr))

	openinghoursHandler := openinghoursfeature.NewHandler(db, logger)
	r.Mount("/api/opening-hours", openinghoursfeature.Routes(openinghoursHandler, sessionMgr))

	contactsHandler := contactsfeature.NewHandler(db, logger)
	r.Mount("/api/contacts", contactsfeature.Routes(contactsHandler, sessionMgr))

	jobsHandler := jobsfeature.NewHandler(db, logger)
	r.Mount("/api/jobs", jobsfeature.Routes(jobsHandler, sessionMgr))

	// Employee features behind a session
	attendanceHandler := attendancefeature.NewHandler(db, logger)
	r.Mount("/api/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))

	surveysHandler := surveysfeature.NewHandler(db, logger)
	r.Mount("/api/surveys", surveysfeature.Routes(surveysHandler, sessionMgr))

	offersHandler := offersfeature.NewHandler(db, logger)
	r.Mount("/api/offers", offersfeature.Routes(offersHandler, sessionMgr))

	trainingsHandler := trainingsfeature.NewHandler(db, logger)
	r.Mount("/api/trainings", trainingsfeature.Routes(trainingsHandler, sessionMgr))

	// Uploads
	ticketsHandler := ticketsfeature.NewHandler(db, blobs, logger)
	r.Mount("/api/tickets", ticketsfeature.Routes(ticketsHandler, sessionMgr))

	documentsHandler := documentsfeature.NewHandler(db, blobs, logger)
	r.Mount("/api/documents", documentsfeature.Routes(documentsHandler, sessionMgr))

	return r, nil
}
