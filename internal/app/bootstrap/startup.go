// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/suraj4124/gamesphere/internal/app/store/audit"
	gamestore "github.com/suraj4124/gamesphere/internal/app/store/games"
	userstore "github.com/suraj4124/gamesphere/internal/app/store/users"
	"github.com/suraj4124/gamesphere/internal/app/system/normalize"
	"github.com/suraj4124/gamesphere/internal/app/system/timeouts"
	"github.com/suraj4124/gamesphere/internal/app/system/workers"
	"github.com/suraj4124/gamesphere/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// demoPassword is the password of the seeded demo accounts.
const demoPassword = "gamesphere123"

// Startup applies configured timeouts, promotes the admin account, seeds
// demo data when asked to and starts the audit retention worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}
	if appCfg.SeedDemoData {
		if err := seedDemoData(ctx, deps, logger); err != nil {
			return err
		}
	}

	if appCfg.AuditRetention > 0 {
		w := workers.NewAuditRetention(audit.New(deps.MongoDatabase), logger,
			appCfg.AuditRetentionInterval, appCfg.AuditRetention)
		w.Start()
		registerStoppers(w)
	}
	return nil
}

// ensureAdmin promotes the account registered under email to admin. Admin
// cannot be chosen at registration, so this is the only way to get one.
// A missing account is not an error: it is promoted on the first start
// after it registers.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	email = normalize.Email(email)

	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		logger.Warn("admin_email has no account yet; register it and restart to promote",
			zap.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up admin account: %w", err)
	}
	if u.Role == models.RoleAdmin {
		return nil
	}
	if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	logger.Info("promoted account to admin",
		zap.String("email", email),
		zap.String("previous_role", u.Role))
	return nil
}

// seedDemoData inserts an organizer, a player and one game the player has
// joined. It does nothing unless the users collection is empty.
func seedDemoData(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		logger.Debug("database not empty; skipping demo seed", zap.Int64("users", n))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	org, err := users.Create(ctx, models.User{
		Name:         "Demo Organizer",
		Email:        "organizer@gamesphere.dev",
		PasswordHash: string(hash),
		Role:         models.RoleOrganizer,
		Sports:       []string{"Football", "Basketball"},
		SkillLevel:   models.SkillIntermediate,
		Location:     "Central Park",
	})
	if err != nil {
		return fmt.Errorf("seed organizer: %w", err)
	}
	player, err := users.Create(ctx, models.User{
		Name:         "Demo Player",
		Email:        "player@gamesphere.dev",
		PasswordHash: string(hash),
		Role:         models.RolePlayer,
		Sports:       []string{"Football"},
		SkillLevel:   models.SkillBeginner,
		Location:     "Brooklyn",
	})
	if err != nil {
		return fmt.Errorf("seed player: %w", err)
	}

	games := gamestore.New(deps.MongoDatabase)
	g, err := games.Create(ctx, models.Game{
		Sport:       "Football",
		OrganizerID: org.ID,
		Date:        time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour),
		Location:    "Central Park",
		SkillLevel:  models.SkillAllLevels,
		MaxPlayers:  10,
		Description: "Friendly 5-a-side. Bring water.",
	})
	if err != nil {
		return fmt.Errorf("seed game: %w", err)
	}
	if _, err := games.Join(ctx, g.ID, player.ID); err != nil {
		return fmt.Errorf("seed join: %w", err)
	}

	logger.Info("seeded demo data",
		zap.String("organizer", org.Email),
		zap.String("player", player.Email),
		zap.String("game_id", g.ID.Hex()))
	return nil
}
