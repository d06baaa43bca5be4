// internal/app/features/games/list.go
package games

import (
	"context"
	"net/http"

	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	"github.com/suraj4124/gamesphere/internal/app/store/queries/gamerosters"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/paging"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
)

// listResponse is the envelope for GET /api/games. It carries paging
// metadata next to the data.
type listResponse struct {
	Success    bool                   `json:"success"`
	Count      int                    `json:"count"`
	Total      int64                  `json:"total"`
	Pagination paging.Pagination      `json:"pagination"`
	Data       []gamerosters.GameView `json:"data"`
}

// ServeList handles GET /api/games.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q)
	if err != nil {
		jsonresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sortSpec, err := parseSort(q.Get("sort"))
	if err != nil {
		jsonresp.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := gamestore.New(h.DB)
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: count", err, "")
		return
	}
	list, err := store.List(ctx, filter, sortSpec, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: list", err, "")
		return
	}
	views, err := gamerosters.Games(ctx, h.DB, list)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: populate", err, "")
		return
	}

	jsonresp.Write(w, http.StatusOK, listResponse{
		Success:    true,
		Count:      len(views),
		Total:      total,
		Pagination: paging.Links(page, total),
		Data:       views,
	})
}
