// internal/app/features/games/get.go
package games

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	"github.com/suraj4124/gamesphere/internal/app/store/queries/gamerosters"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"github.com/suraj4124/gamesphere/internal/domain/models"
)

// ServeGet handles GET /api/games/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", msgGameNotFound)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := gamestore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, gamestore.ErrNotFound) {
		uierrors.NotFound(w, msgGameNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: get", err, "")
		return
	}
	h.writeGame(ctx, w, r, http.StatusOK, *g)
}

// writeGame populates g and writes it as the response data.
func (h *Handler) writeGame(ctx context.Context, w http.ResponseWriter, r *http.Request, status int, g models.Game) {
	view, err := gamerosters.Game(ctx, h.DB, g)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: populate", err, "")
		return
	}
	jsonresp.OK(w, status, view)
}
