// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join request states.
const (
	JoinPending  = "pending"
	JoinApproved = "approved"
	JoinRejected = "rejected"
)

// JoinRequest is a player's request to join a game that requires organizer
// approval. There is at most one per (game, user).
type JoinRequest struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	GameID      primitive.ObjectID  `bson:"game_id" json:"game"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"user"`
	OrganizerID primitive.ObjectID  `bson:"organizer_id" json:"organizer"`
	Status      string              `bson:"status" json:"status"` // pending | approved | rejected
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	DecidedAt   *time.Time          `bson:"decided_at,omitempty" json:"decidedAt,omitempty"`
	DecidedBy   *primitive.ObjectID `bson:"decided_by,omitempty" json:"decidedBy,omitempty"`
}
