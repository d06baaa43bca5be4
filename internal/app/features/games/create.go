// internal/app/features/games/create.go
package games

import (
	"context"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	"github.com/suraj4124/gamesphere/internal/app/system/authz"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /api/games. The caller becomes the organizer.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w, "Not authorized to access this route")
		return
	}
	if !authz.CanCreateGames(r) {
		uierrors.Forbidden(w, "User role "+role+" is not authorized to access this route")
		return
	}

	var in gameInput
	if err := jsonresp.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "games: decode create", err, "Invalid JSON body.")
		return
	}
	upd, v := in.toUpdate(true)
	if v.HasErrors() {
		uierrors.BadRequest(w, v.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := gamestore.New(h.DB).Create(ctx, newGame(upd, uid))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: create", err, "")
		return
	}

	h.AuditLog.GameCreated(ctx, r, uid, g.ID, g.Sport, g.MaxPlayers)
	h.Log.Info("game created",
		zap.String("game_id", g.ID.Hex()),
		zap.String("organizer_id", uid.Hex()),
		zap.String("sport", g.Sport))

	h.writeGame(ctx, w, r, http.StatusCreated, g)
}
