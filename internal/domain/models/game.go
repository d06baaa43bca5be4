// internal/domain/models/game.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sports a game can be scheduled for.
var Sports = []string{"Football", "Basketball", "Tennis", "Cricket"}

// Derived game statuses.
const (
	GameStatusOpen = "open"
	GameStatusFull = "full"
)

// Game is a single scheduled match.
//
// Status is not stored; it is derived from Players and MaxPlayers so the
// two can never disagree.
type Game struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	Sport            string               `bson:"sport"`
	OrganizerID      primitive.ObjectID   `bson:"organizer_id"`
	Date             time.Time            `bson:"date"`
	Location         string               `bson:"location"`
	LocationCI       string               `bson:"location_ci"`
	SkillLevel       string               `bson:"skill_level"`
	MaxPlayers       int                  `bson:"max_players"`
	Players          []primitive.ObjectID `bson:"players"`
	EntryFee         float64              `bson:"entry_fee"`
	Description      string               `bson:"description"`
	RequiresApproval bool                 `bson:"requires_approval"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// IsFull reports whether the game has reached capacity.
func (g Game) IsFull() bool {
	return len(g.Players) >= g.MaxPlayers
}

// Status returns "full" when the game is at capacity, otherwise "open".
func (g Game) Status() string {
	if g.IsFull() {
		return GameStatusFull
	}
	return GameStatusOpen
}

// SpotsLeft is the number of players that can still join (never negative).
func (g Game) SpotsLeft() int {
	n := g.MaxPlayers - len(g.Players)
	if n < 0 {
		return 0
	}
	return n
}

// HasPlayer reports whether userID is in the roster.
func (g Game) HasPlayer(userID primitive.ObjectID) bool {
	for _, p := range g.Players {
		if p == userID {
			return true
		}
	}
	return false
}
