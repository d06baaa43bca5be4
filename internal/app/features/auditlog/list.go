// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/suraj4124/gamesphere/internal/app/store/audit"
	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/jsonresp"
	"github.com/suraj4124/gamesphere/internal/app/system/paging"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// item is one audit event as returned to the client, with user names
// resolved where the account still exists.
type item struct {
	ID            string            `json:"_id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	User          string            `json:"user,omitempty"`
	UserName      string            `json:"userName,omitempty"`
	Actor         string            `json:"actor,omitempty"`
	ActorName     string            `json:"actorName,omitempty"`
	Game          string            `json:"game,omitempty"`
	IP            string            `json:"ip"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Success    bool              `json:"success"`
	Count      int               `json:"count"`
	Total      int64             `json:"total"`
	Pagination paging.Pagination `json:"pagination"`
	Data       []item            `json:"data"`
}

var categories = map[string]bool{
	audit.CategoryAuth: true,
	audit.CategoryGame: true,
}

// parseQuery builds a store filter from category, event_type, user, game
// and since (YYYY-MM-DD or RFC 3339). The returned string is a client
// error message.
func parseQuery(r *http.Request, page paging.Page) (audit.QueryFilter, string) {
	f := audit.QueryFilter{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
		Limit:     int64(page.Limit),
		Offset:    page.Skip(),
	}
	if f.Category != "" && !categories[f.Category] {
		return f, "Invalid category"
	}
	if s := query.Get(r, "user"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, "Invalid user id"
		}
		f.UserID = &id
	}
	if s := query.Get(r, "game"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, "Invalid game id"
		}
		f.GameID = &id
	}
	if s := query.Get(r, "since"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			if t, err = time.Parse(time.RFC3339, s); err != nil {
				return f, "Invalid since date"
			}
		}
		t = t.UTC()
		f.Since = &t
	}
	return f, ""
}

// ServeList handles GET /api/audit.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)
	filter, msg := parseQuery(r, page)
	if msg != "" {
		jsonresp.Error(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	store := audit.New(h.DB)
	events, err := store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit: query", err, "")
		return
	}
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit: count", err, "")
		return
	}

	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			seen[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			seen[*e.UserID] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	names, err := userstore.New(h.DB).SummariesByIDs(ctx, ids)
	if err != nil {
		// Names are decoration; the ids are still returned.
		h.Log.Warn("failed to resolve user names for audit log", zap.Error(err))
	}

	items := make([]item, 0, len(events))
	for _, e := range events {
		it := item{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.UserID != nil {
			it.User = e.UserID.Hex()
			it.UserName = names[*e.UserID].Name
		}
		if e.ActorID != nil {
			it.Actor = e.ActorID.Hex()
			it.ActorName = names[*e.ActorID].Name
		}
		if e.GameID != nil {
			it.Game = e.GameID.Hex()
		}
		items = append(items, it)
	}

	jsonresp.Write(w, http.StatusOK, listResponse{
		Success:    true,
		Count:      len(items),
		Total:      total,
		Pagination: paging.Links(page, total),
		Data:       items,
	})
}
