// internal/app/features/games/delete.go
package games

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	joinrequeststore "github.com/suraj4124/gamesphere/internal/app/store/joinrequests"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"github.com/suraj4124/gamesphere/internal/app/system/txn"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /api/games/{id}. The game's join requests
// go with it.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete game")
	defer cancel()

	g, uid, ok := h.loadManaged(ctx, w, r, "delete")
	if !ok {
		return
	}

	var removed int64
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		n, err := joinrequeststore.New(h.DB).DeleteByGame(ctx, g.ID)
		if err != nil {
			return err
		}
		removed = n
		return gamestore.New(h.DB).Delete(ctx, g.ID)
	})
	if errors.Is(err, gamestore.ErrNotFound) {
		uierrors.NotFound(w, msgGameNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: delete", err, "")
		return
	}

	h.AuditLog.GameDeleted(ctx, r, uid, g.ID)
	h.Log.Info("game deleted",
		zap.String("game_id", g.ID.Hex()),
		zap.Int64("join_requests_removed", removed))

	jsonresp.OK(w, http.StatusOK, struct{}{})
}
