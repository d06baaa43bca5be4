// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/suraj4124/gamesphere/internal/app/store/audit"
	"github.com/suraj4124/gamesphere/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config fields.
const (
	ModeAll = "all" // MongoDB and zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config selects where each event category is recorded.
type Config struct {
	Auth string
	Game string
}

// Logger records audit events to MongoDB and/or zap according to Config.
// A nil *Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.GameID != nil {
		fields = append(fields, zap.String("game_id", event.GameID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the mode configured for its category.
// Unknown categories are recorded everywhere.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	mode := ModeAll
	switch event.Category {
	case audit.CategoryAuth:
		mode = l.config.Auth
	case audit.CategoryGame:
		mode = l.config.Game
	}

	switch mode {
	case ModeOff:
		return
	case ModeAll, ModeLog:
		l.logToZap(event)
	}

	if (mode == ModeAll || mode == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	e.IP = ratelimit.ClientIP(r)
	e.UserAgent = r.UserAgent()
	return e
}

// --- Authentication events ---

// Registered records a new account.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, role string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"role": role},
	}))
}

// LoginSuccess records a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}

// LoginFailedUserNotFound records a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"email": email},
	}))
}

// LoginFailedWrongPassword records a login with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		Success:       false,
		FailureReason: "wrong password",
		Details:       map[string]string{"email": email},
	}))
}

// LoginFailedRateLimit records a login rejected by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		Success:       false,
		FailureReason: "rate limit exceeded",
		Details:       map[string]string{"email": email},
	}))
}

// Logout records a logout. userID may be empty for anonymous callers.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	e := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Success:   true,
	}
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		e.UserID = &oid
	}
	l.Log(ctx, fromRequest(r, e))
}

// ProfileUpdated records a profile change.
func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventProfileUpdated,
		UserID:    &userID,
		Success:   true,
	}))
}

// PasswordChanged records a signed-in password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &userID,
		Success:   true,
	}))
}

// --- Game events ---

func (l *Logger) game(ctx context.Context, r *http.Request, eventType string, actorID, gameID primitive.ObjectID, userID *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryGame,
		EventType: eventType,
		ActorID:   &actorID,
		GameID:    &gameID,
		UserID:    userID,
		Success:   true,
		Details:   details,
	}))
}

// GameCreated records a new game.
func (l *Logger) GameCreated(ctx context.Context, r *http.Request, actorID, gameID primitive.ObjectID, sport string, maxPlayers int) {
	l.game(ctx, r, audit.EventGameCreated, actorID, gameID, nil, map[string]string{
		"sport":       sport,
		"max_players": strconv.Itoa(maxPlayers),
	})
}

// GameUpdated records an edit. fields lists the changed fields.
func (l *Logger) GameUpdated(ctx context.Context, r *http.Request, actorID, gameID primitive.ObjectID, fields string) {
	l.game(ctx, r, audit.EventGameUpdated, actorID, gameID, nil, map[string]string{"fields_changed": fields})
}

// GameDeleted records a deletion.
func (l *Logger) GameDeleted(ctx context.Context, r *http.Request, actorID, gameID primitive.ObjectID) {
	l.game(ctx, r, audit.EventGameDeleted, actorID, gameID, nil, nil)
}

// GameJoined records a player added to a roster.
func (l *Logger) GameJoined(ctx context.Context, r *http.Request, actorID, gameID, playerID primitive.ObjectID, rosterSize int) {
	l.game(ctx, r, audit.EventGameJoined, actorID, gameID, &playerID, map[string]string{
		"roster_size": strconv.Itoa(rosterSize),
	})
}

// JoinRequested records a pending join request.
func (l *Logger) JoinRequested(ctx context.Context, r *http.Request, userID, gameID, requestID primitive.ObjectID) {
	l.game(ctx, r, audit.EventJoinRequested, userID, gameID, &userID, map[string]string{"request_id": requestID.Hex()})
}

// JoinRequestDecided records an approval or rejection.
func (l *Logger) JoinRequestDecided(ctx context.Context, r *http.Request, actorID, gameID, requesterID, requestID primitive.ObjectID, approved bool) {
	eventType := audit.EventJoinRequestRejected
	if approved {
		eventType = audit.EventJoinRequestApproved
	}
	l.game(ctx, r, eventType, actorID, gameID, &requesterID, map[string]string{"request_id": requestID.Hex()})
}
