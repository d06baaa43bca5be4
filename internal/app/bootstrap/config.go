// internal/app/bootstrap/config.go
package bootstrap

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"github.com/suraj4124/gamesphere/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// minProdSecretLen is the shortest JWT secret accepted in prod.
const minProdSecretLen = 32

// appConfigKeys defines the configuration keys for GameSphere.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: GAMESPHERE_MONGO_URI, GAMESPHERE_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "gamesphere", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "", Desc: "HS256 token signing secret (required in prod, at least 32 bytes)"},
	{Name: "jwt_expiry", Default: "120h", Desc: "Token lifetime (e.g. 120h, 30m)"},
	{Name: "jwt_issuer", Default: "gamesphere", Desc: "Token issuer claim"},
	{Name: "cookie_name", Default: "token", Desc: "Name of the httpOnly token cookie"},
	{Name: "cookie_domain", Default: "", Desc: "Token cookie domain (blank means current host)"},

	{Name: "rate_limit_requests", Default: 100, Desc: "API requests allowed per IP per window"},
	{Name: "rate_limit_window", Default: "10m", Desc: "API rate limit window"},
	{Name: "login_limit_ip", Default: 10, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_limit_ip_window", Default: "1m", Desc: "Per-IP login window"},
	{Name: "login_limit_email", Default: 5, Desc: "Login attempts allowed per email per window"},
	{Name: "login_limit_email_window", Default: "5m", Desc: "Per-email login window"},

	{Name: "timeout_short", Default: "", Desc: "Timeout for single-document DB operations"},
	{Name: "timeout_medium", Default: "", Desc: "Timeout for DB list queries"},
	{Name: "timeout_long", Default: "", Desc: "Timeout for multi-collection DB operations"},

	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_game", Default: "all", Desc: "Game event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "Delete audit events older than this (0 keeps them forever)"},
	{Name: "audit_retention_interval", Default: "1h", Desc: "How often old audit events are pruned"},

	{Name: "admin_email", Default: "", Desc: "Email of an account to promote to admin on startup"},
	{Name: "seed_demo_data", Default: false, Desc: "Insert demo users and a game when the database is empty"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges, with precedence
// flags > env > files > defaults:
//   - .env files
//   - config.yaml/json/toml files
//   - environment variables (WAFFLE_* for core, GAMESPHERE_* for app)
//   - command-line flags
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "GAMESPHERE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		JWTExpiry:    appValues.Duration("jwt_expiry", 120*time.Hour),
		JWTIssuer:    appValues.String("jwt_issuer"),
		CookieName:   appValues.String("cookie_name"),
		CookieDomain: appValues.String("cookie_domain"),

		RateLimitRequests: appValues.Int("rate_limit_requests"),
		RateLimitWindow:   appValues.Duration("rate_limit_window", 10*time.Minute),

		LoginLimitIP:          appValues.Int("login_limit_ip"),
		LoginLimitIPWindow:    appValues.Duration("login_limit_ip_window", time.Minute),
		LoginLimitEmail:       appValues.Int("login_limit_email"),
		LoginLimitEmailWindow: appValues.Duration("login_limit_email_window", 5*time.Minute),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		AuditLogAuth: appValues.String("audit_log_auth"),
		AuditLogGame: appValues.String("audit_log_game"),

		AuditRetention:         appValues.Duration("audit_retention", 90*24*time.Hour),
		AuditRetentionInterval: appValues.Duration("audit_retention_interval", time.Hour),

		AdminEmail:   appValues.String("admin_email"),
		SeedDemoData: appValues.Bool("seed_demo_data"),
	}

	// A blank secret is only tolerated outside prod: use a random one so
	// dev servers work out of the box. Tokens then die with the process.
	if appCfg.JWTSecret == "" && coreCfg.Env != "prod" {
		key := securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, AppConfig{}, errors.New("generate dev jwt secret")
		}
		appCfg.JWTSecret = hex.EncodeToString(key)
		logger.Warn("jwt_secret not set; using a random key (tokens will not survive a restart)")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before connecting, token settings must be
// usable, and prod refuses a weak signing secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}

	if coreCfg.Env == "prod" && len(appCfg.JWTSecret) < minProdSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d bytes in prod", minProdSecretLen)
	}
	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret must be set")
	}
	if appCfg.JWTExpiry <= 0 {
		return errors.New("jwt_expiry must be positive")
	}

	if appCfg.RateLimitRequests < 1 || appCfg.RateLimitWindow <= 0 {
		return errors.New("rate_limit_requests and rate_limit_window must be positive")
	}
	if appCfg.LoginLimitIP < 1 || appCfg.LoginLimitEmail < 1 ||
		appCfg.LoginLimitIPWindow <= 0 || appCfg.LoginLimitEmailWindow <= 0 {
		return errors.New("login limits and windows must be positive")
	}

	if appCfg.AuditRetention < 0 || (appCfg.AuditRetention > 0 && appCfg.AuditRetentionInterval <= 0) {
		return errors.New("audit_retention must not be negative and needs a positive audit_retention_interval")
	}

	for key, mode := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_game": appCfg.AuditLogGame} {
		switch mode {
		case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, mode)
		}
	}

	return nil
}
