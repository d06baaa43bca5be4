// internal/app/store/games/gamestore.go
package gamestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/suraj4124/gamesphere/internal/app/system/paging"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("game not found")
	ErrGameFull      = errors.New("game is full")
	ErrAlreadyJoined = errors.New("already joined this game")
	// ErrBelowRoster is returned when an update would set max_players
	// below the number of players already in the game.
	ErrBelowRoster = errors.New("max players cannot be less than current player count")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("games")}
}

// Create inserts g with a fresh id, an empty roster and timestamps.
func (s *Store) Create(ctx context.Context, g models.Game) (models.Game, error) {
	g.ID = primitive.NewObjectID()
	g.LocationCI = text.Fold(g.Location)
	g.Players = []primitive.ObjectID{}
	if g.SkillLevel == "" {
		g.SkillLevel = models.SkillAllLevels
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return g, nil
}

// GetByID loads a game. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error) {
	var g models.Game
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Update holds the editable fields of a game. Nil fields are unchanged.
// Organizer and roster are never editable.
type Update struct {
	Sport            *string
	Date             *time.Time
	Location         *string
	SkillLevel       *string
	MaxPlayers       *int
	EntryFee         *float64
	Description      *string
	RequiresApproval *bool
}

// Fields lists the names of the fields set in u.
func (u Update) Fields() []string {
	var f []string
	add := func(set bool, name string) {
		if set {
			f = append(f, name)
		}
	}
	add(u.Sport != nil, "sport")
	add(u.Date != nil, "date")
	add(u.Location != nil, "location")
	add(u.SkillLevel != nil, "skillLevel")
	add(u.MaxPlayers != nil, "maxPlayers")
	add(u.EntryFee != nil, "entryFee")
	add(u.Description != nil, "description")
	add(u.RequiresApproval != nil, "requiresApproval")
	return f
}

// Update applies upd and returns the updated game. A new MaxPlayers is
// applied only if the current roster still fits, checked in the same
// write; otherwise ErrBelowRoster.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Game, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Sport != nil {
		set["sport"] = *upd.Sport
	}
	if upd.Date != nil {
		set["date"] = upd.Date.UTC()
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
		set["location_ci"] = text.Fold(*upd.Location)
	}
	if upd.SkillLevel != nil {
		set["skill_level"] = *upd.SkillLevel
	}
	if upd.EntryFee != nil {
		set["entry_fee"] = *upd.EntryFee
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.RequiresApproval != nil {
		set["requires_approval"] = *upd.RequiresApproval
	}

	filter := bson.M{"_id": id}
	if upd.MaxPlayers != nil {
		set["max_players"] = *upd.MaxPlayers
		filter["$expr"] = bson.M{"$lte": bson.A{bson.M{"$size": "$players"}, *upd.MaxPlayers}}
	}

	var g models.Game
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&g)
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update game: %w", err)
	}
	if _, gerr := s.GetByID(ctx, id); gerr != nil {
		return nil, gerr
	}
	return nil, ErrBelowRoster
}

// Delete removes a game. Returns ErrNotFound if absent.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of games matching filter in sort order.
func (s *Store) List(ctx context.Context, filter bson.M, sort bson.D, page paging.Page) ([]models.Game, error) {
	find := options.Find().SetSort(sort)
	page.ApplyToFind(find)

	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, fmt.Errorf("find games: %w", err)
	}
	defer cur.Close(ctx)

	games := []models.Game{}
	if err := cur.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return games, nil
}

// Count returns the number of games matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Join appends userID to the game's roster in a single conditional write:
// the update matches only while the user is absent and the roster is below
// capacity, so concurrent joins can never oversell a game. When nothing
// matches, the game is re-read to report ErrNotFound, ErrGameFull or
// ErrAlreadyJoined.
func (s *Store) Join(ctx context.Context, gameID, userID primitive.ObjectID) (*models.Game, error) {
	filter := bson.M{
		"_id":     gameID,
		"players": bson.M{"$ne": userID},
		"$expr":   bson.M{"$lt": bson.A{bson.M{"$size": "$players"}, "$max_players"}},
	}

	// The re-read can race with a capacity edit that makes room again;
	// try the write once more in that case.
	for attempt := 0; attempt < 2; attempt++ {
		update := bson.M{
			"$push": bson.M{"players": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		}
		var g models.Game
		err := s.c.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&g)
		if err == nil {
			return &g, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("join game: %w", err)
		}

		cur, gerr := s.GetByID(ctx, gameID)
		if gerr != nil {
			return nil, gerr
		}
		if rerr := JoinRejection(*cur, userID); rerr != nil {
			return nil, rerr
		}
	}
	return nil, ErrGameFull
}

// JoinRejection reports why userID cannot join g, or nil if they can.
// Capacity is checked before membership.
func JoinRejection(g models.Game, userID primitive.ObjectID) error {
	if g.IsFull() {
		return ErrGameFull
	}
	if g.HasPlayer(userID) {
		return ErrAlreadyJoined
	}
	return nil
}
