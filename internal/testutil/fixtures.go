package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// Fixtures inserts test data directly into a test database.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with TestPassword as their password.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Sports:       []string{},
		SkillLevel:   models.SkillBeginner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateOrganizer inserts an organizer.
func (f *Fixtures) CreateOrganizer(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleOrganizer)
}

// CreatePlayer inserts a player.
func (f *Fixtures) CreatePlayer(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RolePlayer)
}

// GameOption customises a fixture game.
type GameOption func(*models.Game)

// WithSport sets the game's sport.
func WithSport(s string) GameOption { return func(g *models.Game) { g.Sport = s } }

// WithSkill sets the game's skill level.
func WithSkill(s string) GameOption { return func(g *models.Game) { g.SkillLevel = s } }

// WithLocation sets the game's location.
func WithLocation(s string) GameOption {
	return func(g *models.Game) { g.Location, g.LocationCI = s, text.Fold(s) }
}

// WithPlayers sets the game's roster.
func WithPlayers(ids ...primitive.ObjectID) GameOption {
	return func(g *models.Game) { g.Players = ids }
}

// WithApproval marks the game as requiring organizer approval.
func WithApproval() GameOption { return func(g *models.Game) { g.RequiresApproval = true } }

// WithEntryFee sets the entry fee.
func WithEntryFee(fee float64) GameOption { return func(g *models.Game) { g.EntryFee = fee } }

// CreateGame inserts a Football game a week out, owned by organizerID.
func (f *Fixtures) CreateGame(ctx context.Context, organizerID primitive.ObjectID, maxPlayers int, opts ...GameOption) models.Game {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Game{
		ID:          primitive.NewObjectID(),
		Sport:       "Football",
		OrganizerID: organizerID,
		Date:        now.Add(7 * 24 * time.Hour).Truncate(time.Millisecond),
		Location:    "Central Park",
		LocationCI:  text.Fold("Central Park"),
		SkillLevel:  models.SkillAllLevels,
		MaxPlayers:  maxPlayers,
		Players:     []primitive.ObjectID{},
		Description: "Friendly pickup game",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&g)
	}
	if _, err := f.db.Collection("games").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test game: %v", err)
	}
	return g
}

// CreateJoinRequest inserts a pending join request for userID on g.
func (f *Fixtures) CreateJoinRequest(ctx context.Context, g models.Game, userID primitive.ObjectID) models.JoinRequest {
	f.t.Helper()

	jr := models.JoinRequest{
		ID:          primitive.NewObjectID(),
		GameID:      g.ID,
		UserID:      userID,
		OrganizerID: g.OrganizerID,
		Status:      models.JoinPending,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("join_requests").InsertOne(ctx, jr); err != nil {
		f.t.Fatalf("failed to create test join request: %v", err)
	}
	return jr
}
