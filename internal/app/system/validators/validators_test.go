package validators_test

import (
	"testing"
	"time"

	"github.com/suraj4124/gamesphere/internal/app/system/validators"
	"github.com/suraj4124/gamesphere/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "games", "join_requests", "audit_events"} {
		if !have[want] {
			t.Errorf("collection %q not created", want)
		}
	}
}

func TestGamesValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	base := func() bson.M {
		return bson.M{
			"sport":        "Tennis",
			"organizer_id": primitive.NewObjectID(),
			"date":         time.Now().UTC(),
			"location":     "Court 3",
			"skill_level":  "All Levels",
			"max_players":  2,
			"players":      bson.A{},
			"entry_fee":    0.0,
			"description":  "Doubles",
		}
	}

	if _, err := db.Collection("games").InsertOne(ctx, base()); err != nil {
		t.Fatalf("valid game rejected: %v", err)
	}

	over := base()
	over["players"] = bson.A{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	if _, err := db.Collection("games").InsertOne(ctx, over); err == nil {
		t.Error("expected roster larger than max_players to be rejected")
	}

	badSport := base()
	badSport["sport"] = "Curling"
	if _, err := db.Collection("games").InsertOne(ctx, badSport); err == nil {
		t.Error("expected unknown sport to be rejected")
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("users").InsertOne(ctx, bson.M{
		"name":          "Ada",
		"email":         "ada@example.com",
		"password_hash": "x",
		"role":          "superuser",
	})
	if err == nil {
		t.Error("expected unknown role to be rejected")
	}
}
