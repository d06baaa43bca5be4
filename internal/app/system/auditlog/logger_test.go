package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/suraj4124/gamesphere/internal/app/store/audit"
	"github.com/suraj4124/gamesphere/internal/app/system/auditlog"
	"github.com/suraj4124/gamesphere/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/api/auth/login", nil)

	// must not panic
	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "a@example.com")
	logger.Logout(ctx, req, "")
}

func TestLogger_ModeLog_WritesZapOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.ModeLog, Game: auditlog.ModeOff})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.2, 10.0.0.1")
	logger.LoginFailedUserNotFound(ctx, req, "ghost@example.com")
	logger.GameDeleted(ctx, req, primitive.NewObjectID(), primitive.NewObjectID())

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry (game category is off), got %d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Errorf("failed login should log at warn, got %v", e.Level)
	}
	fields := e.ContextMap()
	if fields["event_type"] != audit.EventLoginFailedUserNotFound {
		t.Errorf("event_type = %v", fields["event_type"])
	}
	if fields["ip"] != "198.51.100.2" {
		t.Errorf("ip = %v, want first forwarded address", fields["ip"])
	}
}

func TestLogger_ModeDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeDB, Game: auditlog.ModeDB})
	req := httptest.NewRequest("POST", "/api/games/x/join", nil)

	actor := primitive.NewObjectID()
	game := primitive.NewObjectID()
	logger.GameJoined(ctx, req, actor, game, actor, 3)

	events, err := store.Query(ctx, audit.QueryFilter{GameID: &game, Limit: 10})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details["roster_size"] != "3" {
		t.Errorf("roster_size = %q", events[0].Details["roster_size"])
	}
	if events[0].UserID == nil || *events[0].UserID != actor {
		t.Error("expected user_id to be the joining player")
	}
}

func TestLogger_ModeOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeOff, Game: auditlog.ModeOff})
	userID := primitive.NewObjectID()
	logger.Registered(ctx, httptest.NewRequest("POST", "/api/auth/register", nil), userID, "player")

	n, err := store.Count(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no events when mode is off, got %d", n)
	}
}
