// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"sync"

	"github.com/dalemusser/waffle/config"
	wafflemw "github.com/dalemusser/waffle/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	auditfeature "github.com/suraj4124/gamesphere/internal/app/features/auditlog"
	authfeature "github.com/suraj4124/gamesphere/internal/app/features/auth"
	errorsfeature "github.com/suraj4124/gamesphere/internal/app/features/errors"
	gamesfeature "github.com/suraj4124/gamesphere/internal/app/features/games"
	healthfeature "github.com/suraj4124/gamesphere/internal/app/features/health"
	profilefeature "github.com/suraj4124/gamesphere/internal/app/features/profile"
	"github.com/suraj4124/gamesphere/internal/app/store/audit"
	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/auditlog"
	"github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// stoppers holds the background workers started during boot so Shutdown
// can end them.
var (
	stoppersMu sync.Mutex
	stoppers   []interface{ Stop() }
)

func registerStoppers(s ...interface{ Stop() }) {
	stoppersMu.Lock()
	defer stoppersMu.Unlock()
	stoppers = append(stoppers, s...)
}

func stopBackground() {
	stoppersMu.Lock()
	defer stoppersMu.Unlock()
	for _, s := range stoppers {
		s.Stop()
	}
	stoppers = nil
}

// BuildHandler constructs the root HTTP handler for GameSphere.
//
// Every request passes through request ids, panic recovery, security
// headers, CORS (when enable_cors is set) and the token middleware, which puts the signed-in user (if any) in the context. The
// JSON API lives under /api behind a per-IP rate limit; /health is outside
// it so load balancers are never throttled.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	authMgr, err := auth.NewManager(auth.Config{
		Secret:       []byte(appCfg.JWTSecret),
		Issuer:       appCfg.JWTIssuer,
		Expiry:       appCfg.JWTExpiry,
		CookieName:   appCfg.CookieName,
		CookieDomain: appCfg.CookieDomain,
		Secure:       coreCfg.Env == "prod",
	}, logger)
	if err != nil {
		logger.Error("auth manager init failed", zap.Error(err))
		return nil, err
	}

	// Fetch the user on every request so role changes take effect at once.
	authMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := errorsfeature.NewErrorLogger(logger)
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth: appCfg.AuditLogAuth,
		Game: appCfg.AuditLogGame,
	})

	apiLimiter := ratelimit.New(appCfg.RateLimitRequests, appCfg.RateLimitWindow)
	loginLimiter := ratelimit.NewLoginLimiter(
		appCfg.LoginLimitIP, appCfg.LoginLimitIPWindow,
		appCfg.LoginLimitEmail, appCfg.LoginLimitEmailWindow,
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(wafflemw.SecurityHeadersFromConfig(coreCfg))
	r.Use(wafflemw.CORSFromConfig(coreCfg))
	r.Use(authMgr.LoadUser)

	r.NotFound(errorsfeature.RouteNotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		api.Use(apiLimiter.Middleware)

		authHandler := authfeature.NewHandler(db, authMgr, errLog, auditLogger, loginLimiter, logger)
		api.Mount("/auth", authfeature.Routes(authHandler, authMgr))

		profileHandler := profilefeature.NewHandler(db, errLog, auditLogger, logger)
		api.Mount("/users", profilefeature.Routes(profileHandler, authMgr))

		gamesHandler := gamesfeature.NewHandler(db, errLog, auditLogger, logger)
		api.Mount("/games", gamesfeature.Routes(gamesHandler, authMgr))

		auditHandler := auditfeature.NewHandler(db, errLog, logger)
		api.Mount("/audit", auditfeature.Routes(auditHandler, authMgr))
	})

	return r, nil
}
