package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/coursewish/internal/app/controllers"
	appMigrations "github.com/yigit/coursewish/internal/app/migrations"
	appRepos "github.com/yigit/coursewish/internal/app/repositories"
	appRoutes "github.com/yigit/coursewish/internal/app/routes"
	"github.com/yigit/coursewish/internal/config"
	"github.com/yigit/coursewish/internal/db"
	appMiddleware "github.com/yigit/coursewish/internal/middleware"
	"github.com/yigit/coursewish/internal/pkg/logger"
	"github.com/yigit/coursewish/internal/seed"
)

// DefaultConfigPath is used when no config path is given
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB               *db.PostgresDB
	Migrator         *appMigrations.Migrator
	Repos            *appRepos.Repositories
	HealthController *appControllers.HealthController
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = config.GetEnv("CONFIG_PATH", DefaultConfigPath)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool described by cfg.
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Bool("echo", cfg.Database.Echo).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, db.OptionsFromConfig(cfg, lgr))
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, migrator *appMigrations.Migrator, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := migrator.Migrate(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SetupDatabase connects, migrates and, when enabled, seeds the demo data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, *appMigrations.Migrator, error) {
	database, err := ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, nil, err
	}

	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := RunMigrations(ctx, migrator, lgr); err != nil {
		database.Close()
		return nil, nil, err
	}

	if cfg.Seed.Enabled {
		seedCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := seed.Run(seedCtx, database.Pool, cfg.Seed.DemoPassword, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, rolled back; proceeding anyway...")
		}
	}

	return database, migrator, nil
}

// BuildDependencies initializes repositories and controllers.
func BuildDependencies(database *db.PostgresDB, migrator *appMigrations.Migrator, lgr zerolog.Logger) *Dependencies {
	return &Dependencies{
		DB:               database,
		Migrator:         migrator,
		Repos:            appRepos.NewRepositories(database.Pool),
		HealthController: appControllers.NewHealthController(database, migrator, lgr),
		Logger:           lgr,
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case strings.EqualFold(cfg.Server.Mode, "test"):
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("ginMode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router, deps.HealthController)

	return router
}
