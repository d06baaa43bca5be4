// internal/app/features/auth/handler.go
package auth

import (
	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	"github.com/suraj4124/gamesphere/internal/app/system/auditlog"
	sysauth "github.com/suraj4124/gamesphere/internal/app/system/auth"
	"github.com/suraj4124/gamesphere/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// bcryptCost is the work factor for stored password hashes.
const bcryptCost = 10

// Accepted password lengths in bytes. bcrypt cannot hash more than 72.
const (
	minPasswordLen = 6
	maxPasswordLen = 72
)

type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	AuthMgr      *sysauth.Manager
	AuditLog     *auditlog.Logger
	LoginLimiter *ratelimit.LoginLimiter
}

func NewHandler(
	db *mongo.Database,
	authMgr *sysauth.Manager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	loginLimiter *ratelimit.LoginLimiter,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		ErrLog:       errLog,
		AuthMgr:      authMgr,
		AuditLog:     audit,
		LoginLimiter: loginLimiter,
	}
}
