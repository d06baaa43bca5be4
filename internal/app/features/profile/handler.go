// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/auditlog"
	"github.com/suraj4124/gamesphere/internal/app/system/authz"
	"github.com/suraj4124/gamesphere/internal/app/system/htmlsanitize"
	"github.com/suraj4124/gamesphere/internal/app/system/inputval"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/normalize"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog, AuditLog: audit}
}

// updateInput is the PUT body. Only these fields are read; anything else in
// the body is ignored.
type updateInput struct {
	Sports     *[]string `json:"sports"`
	SkillLevel *string   `json:"skillLevel"`
	Location   *string   `json:"location"`
}

// ServeMe handles GET /api/users/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w, "Not authorized to access this route")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load user", err, "")
		return
	}
	jsonresp.OK(w, http.StatusOK, u)
}

// HandleUpdate handles PUT /api/users/me.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w, "Not authorized to access this route")
		return
	}

	var in updateInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "profile: decode body", err, "Invalid JSON body.")
		return
	}

	upd := userstore.ProfileUpdate{Sports: in.Sports}
	if in.SkillLevel != nil {
		lvl := normalize.SkillLevel(*in.SkillLevel)
		var v inputval.Result
		v.OneOf("skillLevel", "Skill level", lvl, models.SkillBeginner, models.SkillIntermediate, models.SkillPro)
		if v.HasErrors() {
			uierrors.BadRequest(w, v.First())
			return
		}
		upd.SkillLevel = &lvl
	}
	if in.Location != nil {
		loc := htmlsanitize.Text(*in.Location)
		upd.Location = &loc
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := userstore.New(h.DB).UpdateProfile(ctx, uid, upd)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: update", err, "")
		return
	}

	h.AuditLog.ProfileUpdated(ctx, r, uid)
	jsonresp.OK(w, http.StatusOK, u)
}
