// internal/app/features/games/update.go
package games

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	"github.com/suraj4124/gamesphere/internal/app/system/authz"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadManaged loads the game named by the id URL parameter and checks the
// caller may manage it. It writes the error response itself and reports
// false when the caller should stop.
func (h *Handler) loadManaged(ctx context.Context, w http.ResponseWriter, r *http.Request, action string) (*models.Game, primitive.ObjectID, bool) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w, "Not authorized to access this route")
		return nil, uid, false
	}
	id, ok := idParam(w, r, "id", msgGameNotFound)
	if !ok {
		return nil, uid, false
	}

	g, err := gamestore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, gamestore.ErrNotFound) {
		uierrors.NotFound(w, msgGameNotFound)
		return nil, uid, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: load for "+action, err, "")
		return nil, uid, false
	}
	if !authz.CanManageGame(r, *g) {
		uierrors.Forbidden(w, "User "+uid.Hex()+" is not authorized to "+action+" this game")
		return nil, uid, false
	}
	return g, uid, true
}

// HandleUpdate handles PUT /api/games/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, uid, ok := h.loadManaged(ctx, w, r, "update")
	if !ok {
		return
	}

	var in gameInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "games: decode update", err, "Invalid JSON body.")
		return
	}
	upd, v := in.toUpdate(false)
	if v.HasErrors() {
		uierrors.BadRequest(w, v.First())
		return
	}

	updated, err := gamestore.New(h.DB).Update(ctx, g.ID, upd)
	switch {
	case errors.Is(err, gamestore.ErrNotFound):
		uierrors.NotFound(w, msgGameNotFound)
		return
	case errors.Is(err, gamestore.ErrBelowRoster):
		uierrors.BadRequest(w, "Max players cannot be less than the current number of players")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "games: update", err, "")
		return
	}

	h.AuditLog.GameUpdated(ctx, r, uid, g.ID, strings.Join(upd.Fields(), ","))
	h.writeGame(ctx, w, r, http.StatusOK, *updated)
}
