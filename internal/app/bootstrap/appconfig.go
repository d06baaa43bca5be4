// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for GameSphere.
//
// Values come from GAMESPHERE_* environment variables, configuration files,
// or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// the framework-level settings (ports, TLS, logging, CORS).
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token signing and the token cookie
	JWTSecret    string // HS256 key; random per process in dev when blank
	JWTExpiry    time.Duration
	JWTIssuer    string
	CookieName   string
	CookieDomain string // blank means current host

	// Global per-IP limit on /api requests
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Login attempt limits
	LoginLimitIP          int
	LoginLimitIPWindow    time.Duration
	LoginLimitEmail       int
	LoginLimitEmailWindow time.Duration

	// Database operation timeouts (zero keeps the package default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Audit logging: "all", "db", "log" or "off" per category
	AuditLogAuth string
	AuditLogGame string

	// Audit events older than AuditRetention are pruned every
	// AuditRetentionInterval. Zero retention keeps everything.
	AuditRetention         time.Duration
	AuditRetentionInterval time.Duration

	// AdminEmail names an account promoted to admin on startup.
	AdminEmail string

	// SeedDemoData inserts sample users and a game into an empty database.
	SeedDemoData bool
}
