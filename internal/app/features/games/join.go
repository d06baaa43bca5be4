// internal/app/features/games/join.go
package games

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	joinrequeststore "github.com/suraj4124/gamesphere/internal/app/store/joinrequests"
	"github.com/suraj4124/gamesphere/internal/app/system/authz"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// joinErrorMessage maps the join sentinels to client messages. ok is false
// for errors that are not the client's fault.
func joinErrorMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, gamestore.ErrGameFull):
		return "Game is full", true
	case errors.Is(err, gamestore.ErrAlreadyJoined):
		return "You have already joined this game", true
	case errors.Is(err, joinrequeststore.ErrAlreadyRequested):
		return "You already have a pending request", true
	}
	return "", false
}

// HandleJoin handles POST /api/games/{id}/join.
//
// Games that require approval get a pending join request (202); others
// add the caller to the roster straight away.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w, "Not authorized to access this route")
		return
	}
	id, ok := idParam(w, r, "id", msgGameNotFound)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	games := gamestore.New(h.DB)
	g, err := games.GetByID(ctx, id)
	if errors.Is(err, gamestore.ErrNotFound) {
		uierrors.NotFound(w, msgGameNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: load for join", err, "")
		return
	}
	if err := gamestore.JoinRejection(*g, uid); err != nil {
		msg, _ := joinErrorMessage(err)
		uierrors.BadRequest(w, msg)
		return
	}

	if g.RequiresApproval {
		jr, err := joinrequeststore.New(h.DB).Create(ctx, *g, uid)
		if err != nil {
			if msg, ok := joinErrorMessage(err); ok {
				uierrors.BadRequest(w, msg)
				return
			}
			h.ErrLog.LogServerError(w, r, "games: create join request", err, "")
			return
		}
		h.AuditLog.JoinRequested(ctx, r, uid, g.ID, jr.ID)
		jsonresp.OK(w, http.StatusAccepted, jr)
		return
	}

	joined, err := games.Join(ctx, g.ID, uid)
	if err != nil {
		if errors.Is(err, gamestore.ErrNotFound) {
			uierrors.NotFound(w, msgGameNotFound)
			return
		}
		if msg, ok := joinErrorMessage(err); ok {
			uierrors.BadRequest(w, msg)
			return
		}
		h.ErrLog.LogServerError(w, r, "games: join", err, "")
		return
	}

	h.AuditLog.GameJoined(ctx, r, uid, joined.ID, uid, len(joined.Players))
	h.Log.Debug("player joined game",
		zap.String("game_id", joined.ID.Hex()),
		zap.String("user_id", uid.Hex()),
		zap.Int("roster", len(joined.Players)))

	h.writeGame(ctx, w, r, http.StatusOK, *joined)
}
