// internal/app/store/joinrequests/joinrequeststore.go
package joinrequeststore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("join request not found")
	// ErrAlreadyRequested is returned when the user already has a request
	// for the game.
	ErrAlreadyRequested = errors.New("you already have a pending request")
	// ErrNotPending is returned when deciding a request that was already
	// approved or rejected.
	ErrNotPending = errors.New("join request has already been decided")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("join_requests")}
}

// Create inserts a pending request for userID on g. The unique
// (game_id, user_id) index turns a second request into ErrAlreadyRequested.
func (s *Store) Create(ctx context.Context, g models.Game, userID primitive.ObjectID) (models.JoinRequest, error) {
	jr := models.JoinRequest{
		ID:          primitive.NewObjectID(),
		GameID:      g.ID,
		UserID:      userID,
		OrganizerID: g.OrganizerID,
		Status:      models.JoinPending,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, jr); err != nil {
		if wafflemongo.IsDup(err) {
			return models.JoinRequest{}, ErrAlreadyRequested
		}
		return models.JoinRequest{}, fmt.Errorf("insert join request: %w", err)
	}
	return jr, nil
}

// Get loads a request belonging to gameID. Returns ErrNotFound if absent
// or attached to another game.
func (s *Store) Get(ctx context.Context, gameID, id primitive.ObjectID) (*models.JoinRequest, error) {
	var jr models.JoinRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "game_id": gameID}).Decode(&jr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &jr, nil
}

// ListByGame returns the game's requests, oldest first. An empty status
// lists all of them.
func (s *Store) ListByGame(ctx context.Context, gameID primitive.ObjectID, status string) ([]models.JoinRequest, error) {
	filter := bson.M{"game_id": gameID}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.JoinRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decide moves a pending request to status (approved or rejected).
// Returns ErrNotFound or ErrNotPending when it cannot.
func (s *Store) Decide(ctx context.Context, gameID, id, actorID primitive.ObjectID, status string) (*models.JoinRequest, error) {
	if status != models.JoinApproved && status != models.JoinRejected {
		return nil, fmt.Errorf("invalid decision %q", status)
	}
	now := time.Now().UTC()

	var jr models.JoinRequest
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "game_id": gameID, "status": models.JoinPending},
		bson.M{"$set": bson.M{"status": status, "decided_at": now, "decided_by": actorID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&jr)
	if err == nil {
		return &jr, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("decide join request: %w", err)
	}
	if _, gerr := s.Get(ctx, gameID, id); gerr != nil {
		return nil, gerr
	}
	return nil, ErrNotPending
}

// Reopen returns an approved request to pending and clears its decision.
// It undoes an approval whose join did not go through.
func (s *Store) Reopen(ctx context.Context, gameID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "game_id": gameID, "status": models.JoinApproved},
		bson.M{
			"$set":   bson.M{"status": models.JoinPending},
			"$unset": bson.M{"decided_at": "", "decided_by": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("reopen join request: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByGame removes every request for a game.
func (s *Store) DeleteByGame(ctx context.Context, gameID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"game_id": gameID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
