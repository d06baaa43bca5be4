package audit_test

import (
	"testing"
	"time"

	"github.com/suraj4124/gamesphere/internal/app/store/audit"
	"github.com/suraj4124/gamesphere/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_LogAndQueryByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID, Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestStore_QueryByGameAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gameID := primitive.NewObjectID()
	otherGame := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Minute)

	for i, ev := range []audit.Event{
		{Category: audit.CategoryGame, EventType: audit.EventGameCreated, GameID: &gameID, Success: true},
		{Category: audit.CategoryGame, EventType: audit.EventGameJoined, GameID: &gameID, Success: true},
		{Category: audit.CategoryGame, EventType: audit.EventGameJoined, GameID: &otherGame, Success: true},
	} {
		ev.Timestamp = base.Add(time.Duration(i) * time.Second)
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	events, err := store.Query(ctx, audit.QueryFilter{GameID: &gameID, Limit: 10})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType != audit.EventGameJoined {
		t.Errorf("newest event = %q, want %q", events[0].EventType, audit.EventGameJoined)
	}

	n, err := store.Count(ctx, audit.QueryFilter{EventType: audit.EventGameJoined})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count(joined) = %d, want 2", n)
	}
}
