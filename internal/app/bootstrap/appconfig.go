// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to the portal lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: hausportal-session)
	CookieDomain  string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session lifetime; the DB record and the cookie expire together
	SecureCookies bool          // Force Secure cookies even outside prod

	// File storage for ticket and document uploads
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files

	// First-run admin account, created only when the users collection
	// is empty. Leave the password blank to skip seeding.
	AdminUsername string
	AdminEmail    string
	AdminPassword string
	AdminPIN      string // Optional 4-digit PIN for the seeded admin
}
