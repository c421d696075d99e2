package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/spendwise-backend/pkg/config"
	"github.com/angelmondragon/spendwise-backend/pkg/db"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"github.com/angelmondragon/spendwise-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

// gooseCommands are forwarded to goose unchanged.
var gooseCommands = map[string]bool{
	"up":     true,
	"down":   true,
	"redo":   true,
	"reset":  true,
	"status": true,
}

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "up|down|redo|reset|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "spendwise-migrate"})

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "spendwise-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"dir":    *dir,
		"driver": cfg.DB.Driver,
	})

	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail("create migration: %v", err)
		}
		logg.Info(ctx, "migration created")
		fmt.Println(path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail("validate migrations: %v", err)
		}
		logg.Info(ctx, "migrations valid")
		return
	}

	if *cmd != "version" && !gooseCommands[*cmd] {
		fail("unknown -cmd value: %s", *cmd)
	}
	if *cmd == "version" && *version == "" {
		fail("missing -version for version command")
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	if *cmd == "version" {
		err = migrate.MigrateToVersion(ctx, sqlDB, cfg.DB.Driver, *dir, *version)
	} else {
		err = migrate.Run(ctx, sqlDB, cfg.DB.Driver, *dir, *cmd)
	}
	if err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration finished")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
