package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/spendwise-backend/pkg/config"
	"github.com/angelmondragon/spendwise-backend/pkg/db"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
)

// shouldAutoRun is true for dev deployments with the flag set and for embedded sqlite databases,
// which have no separate migrate job.
func shouldAutoRun(cfg *config.Config) bool {
	if cfg.DB.IsSQLite() {
		return true
	}
	return cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}

// AutoRun validates the migrations directory and applies pending migrations when shouldAutoRun allows it.
func AutoRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !shouldAutoRun(cfg) {
		return nil
	}
	if err := ValidateDir(DefaultDir); err != nil {
		return fmt.Errorf("validating migrations: %w", err)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "driver": cfg.DB.Driver})
	logg.Info(ctx, "applying pending migrations")
	if err := Run(ctx, sqlDB, cfg.DB.Driver, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "migrations applied")
	return nil
}
