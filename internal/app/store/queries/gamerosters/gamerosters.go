// Package gamerosters joins games and join requests with the users they
// reference, producing the shapes the API returns.
package gamerosters

import (
	"context"
	"time"

	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GameView is a game with its organizer and roster populated and its
// derived status.
type GameView struct {
	ID               primitive.ObjectID  `json:"_id"`
	Sport            string              `json:"sport"`
	Organizer        *userstore.Summary  `json:"organizer"`
	Date             time.Time           `json:"date"`
	Location         string              `json:"location"`
	SkillLevel       string              `json:"skillLevel"`
	MaxPlayers       int                 `json:"maxPlayers"`
	Players          []userstore.Summary `json:"players"`
	EntryFee         float64             `json:"entryFee"`
	Description      string              `json:"description"`
	RequiresApproval bool                `json:"requiresApproval"`
	Status           string              `json:"status"`
	SpotsLeft        int                 `json:"spotsLeft"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// RequestView is a join request with its requester populated.
type RequestView struct {
	models.JoinRequest
	Requester *userstore.Summary `json:"requester"`
}

func organizerSummary(s userstore.Summary) *userstore.Summary {
	return &userstore.Summary{ID: s.ID, Name: s.Name, Email: s.Email}
}

func playerSummary(s userstore.Summary) userstore.Summary {
	sports := s.Sports
	if sports == nil {
		sports = []string{}
	}
	return userstore.Summary{ID: s.ID, Name: s.Name, SkillLevel: s.SkillLevel, Sports: sports}
}

// Games populates organizers and players for games with one user lookup.
// Roster order is preserved; a player whose user record is missing is
// returned with only its id.
func Games(ctx context.Context, db *mongo.Database, games []models.Game) ([]GameView, error) {
	seen := map[primitive.ObjectID]struct{}{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, g := range games {
		add(g.OrganizerID)
		for _, p := range g.Players {
			add(p)
		}
	}

	users, err := userstore.New(db).SummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]GameView, 0, len(games))
	for _, g := range games {
		v := GameView{
			ID:               g.ID,
			Sport:            g.Sport,
			Date:             g.Date,
			Location:         g.Location,
			SkillLevel:       g.SkillLevel,
			MaxPlayers:       g.MaxPlayers,
			Players:          make([]userstore.Summary, 0, len(g.Players)),
			EntryFee:         g.EntryFee,
			Description:      g.Description,
			RequiresApproval: g.RequiresApproval,
			Status:           g.Status(),
			SpotsLeft:        g.SpotsLeft(),
			CreatedAt:        g.CreatedAt,
			UpdatedAt:        g.UpdatedAt,
		}
		if u, ok := users[g.OrganizerID]; ok {
			v.Organizer = organizerSummary(u)
		} else {
			v.Organizer = &userstore.Summary{ID: g.OrganizerID}
		}
		for _, p := range g.Players {
			u, ok := users[p]
			if !ok {
				u = userstore.Summary{ID: p}
			}
			v.Players = append(v.Players, playerSummary(u))
		}
		out = append(out, v)
	}
	return out, nil
}

// Game populates a single game.
func Game(ctx context.Context, db *mongo.Database, g models.Game) (GameView, error) {
	views, err := Games(ctx, db, []models.Game{g})
	if err != nil {
		return GameView{}, err
	}
	return views[0], nil
}

// Requests populates the requester of each join request.
func Requests(ctx context.Context, db *mongo.Database, reqs []models.JoinRequest) ([]RequestView, error) {
	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.UserID)
	}
	users, err := userstore.New(db).SummariesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		v := RequestView{JoinRequest: r}
		if u, ok := users[r.UserID]; ok {
			s := playerSummary(u)
			s.Email = u.Email
			v.Requester = &s
		}
		out = append(out, v)
	}
	return out, nil
}
