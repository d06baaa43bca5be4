// internal/app/features/games/requests.go
package games

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/suraj4124/gamesphere/internal/app/features/errors"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	joinrequeststore "github.com/suraj4124/gamesphere/internal/app/store/joinrequests"
	"github.com/suraj4124/gamesphere/internal/app/store/queries/gamerosters"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/normalize"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"github.com/suraj4124/gamesphere/internal/app/system/txn"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.uber.org/zap"
)

const msgRequestNotFound = "Join request not found"

// approveResponse is returned when a request is approved: the decided
// request and the game with its new roster.
type approveResponse struct {
	Request gamerosters.RequestView `json:"request"`
	Game    gamerosters.GameView    `json:"game"`
}

// ServeRequests handles GET /api/games/{id}/requests[?status=...].
func (h *Handler) ServeRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, _, ok := h.loadManaged(ctx, w, r, "view requests for")
	if !ok {
		return
	}

	status := normalize.Role(r.URL.Query().Get("status"))
	switch status {
	case "", models.JoinPending, models.JoinApproved, models.JoinRejected:
	default:
		uierrors.BadRequest(w, "Status must be one of: pending, approved, rejected.")
		return
	}

	reqs, err := joinrequeststore.New(h.DB).ListByGame(ctx, g.ID, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: list requests", err, "")
		return
	}
	views, err := gamerosters.Requests(ctx, h.DB, reqs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: populate requests", err, "")
		return
	}
	jsonresp.OK(w, http.StatusOK, views)
}

// HandleApprove handles POST /api/games/{id}/requests/{requestID}/approve.
// The request is claimed as approved first, then the requester joins under
// the usual capacity rules; if the join fails the request is reopened so it
// stays pending. On a replica set both steps share one transaction.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "approve join request")
	defer cancel()

	g, uid, ok := h.loadManaged(ctx, w, r, "approve requests for")
	if !ok {
		return
	}
	reqID, ok := idParam(w, r, "requestID", msgRequestNotFound)
	if !ok {
		return
	}

	var (
		decided *models.JoinRequest
		joined  *models.Game
	)
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		reqs := joinrequeststore.New(h.DB)
		var err error
		// Decide is conditional on pending, so only one approver gets past it.
		if decided, err = reqs.Decide(ctx, g.ID, reqID, uid, models.JoinApproved); err != nil {
			return err
		}
		joined, err = gamestore.New(h.DB).Join(ctx, g.ID, decided.UserID)
		if err != nil {
			if rerr := reqs.Reopen(ctx, g.ID, reqID); rerr != nil {
				h.Log.Error("reopen join request after failed join",
					zap.String("request_id", reqID.Hex()), zap.Error(rerr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		h.writeDecisionError(w, r, err)
		return
	}

	h.AuditLog.JoinRequestDecided(ctx, r, uid, g.ID, decided.UserID, decided.ID, true)
	h.AuditLog.GameJoined(ctx, r, uid, g.ID, decided.UserID, len(joined.Players))

	rv, err := gamerosters.Requests(ctx, h.DB, []models.JoinRequest{*decided})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: populate request", err, "")
		return
	}
	gv, err := gamerosters.Game(ctx, h.DB, *joined)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: populate", err, "")
		return
	}
	jsonresp.OK(w, http.StatusOK, approveResponse{Request: rv[0], Game: gv})
}

// HandleReject handles POST /api/games/{id}/requests/{requestID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, uid, ok := h.loadManaged(ctx, w, r, "reject requests for")
	if !ok {
		return
	}
	reqID, ok := idParam(w, r, "requestID", msgRequestNotFound)
	if !ok {
		return
	}

	decided, err := joinrequeststore.New(h.DB).Decide(ctx, g.ID, reqID, uid, models.JoinRejected)
	if err != nil {
		h.writeDecisionError(w, r, err)
		return
	}
	h.AuditLog.JoinRequestDecided(ctx, r, uid, g.ID, decided.UserID, decided.ID, false)

	rv, err := gamerosters.Requests(ctx, h.DB, []models.JoinRequest{*decided})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "games: populate request", err, "")
		return
	}
	jsonresp.OK(w, http.StatusOK, rv[0])
}

func (h *Handler) writeDecisionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, joinrequeststore.ErrNotFound):
		uierrors.NotFound(w, msgRequestNotFound)
	case errors.Is(err, gamestore.ErrNotFound):
		uierrors.NotFound(w, msgGameNotFound)
	case errors.Is(err, joinrequeststore.ErrNotPending):
		uierrors.BadRequest(w, "This request has already been decided")
	default:
		if msg, ok := joinErrorMessage(err); ok {
			uierrors.BadRequest(w, msg)
			return
		}
		h.ErrLog.LogServerError(w, r, "games: decide request", err, "")
	}
}
