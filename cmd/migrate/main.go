package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/yigit/coursewish/internal/app/migrations"
	"github.com/yigit/coursewish/internal/bootstrap"
	"github.com/yigit/coursewish/internal/pkg/logger"
	"github.com/yigit/coursewish/internal/seed"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default $CONFIG_PATH or configs/config.yaml)")
	withSeed := flag.Bool("seed", false, "create the demo data after migrating")
	status := flag.Bool("status", false, "only list the applied schema versions")
	flag.Parse()

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize")
		os.Exit(1)
	}

	seeding := *withSeed || cfg.Seed.Enabled
	if seeding && !*status && cfg.Seed.DemoPassword == "" {
		lgr.Error().Msg("Seeding requires seed.demo_password (SEED_DEMO_PASSWORD)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	database, err := bootstrap.ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		os.Exit(1)
	}
	defer database.Close()

	migrator := migrations.NewMigrator(database.Pool, lgr)

	if *status {
		versions, err := migrator.AppliedVersions(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to read applied migrations")
			database.Close()
			os.Exit(1)
		}
		lgr.Info().Strs("versions", versions).Msg("Applied schema versions")
		return
	}

	if err := bootstrap.RunMigrations(ctx, migrator, lgr); err != nil {
		database.Close()
		os.Exit(1)
	}

	if seeding {
		if err := seed.Run(ctx, database.Pool, cfg.Seed.DemoPassword, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data")
			database.Close()
			os.Exit(1)
		}
	}
}
