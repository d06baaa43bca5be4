// internal/app/features/games/handler.go
package games

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	"github.com/suraj4124/gamesphere/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the game catalog and the join workflow.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
	}
}

const msgGameNotFound = "Game not found"

// idParam reads an ObjectID URL parameter. A malformed id is reported as
// not found, the same as an absent one.
func idParam(w http.ResponseWriter, r *http.Request, name, notFound string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		uierrors.NotFound(w, notFound)
		return primitive.NilObjectID, false
	}
	return oid, true
}
