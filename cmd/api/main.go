package main

import (
	"flag"
	"os"

	"github.com/yigit/coursewish/internal/pkg/logger"
	"github.com/yigit/coursewish/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default $CONFIG_PATH or configs/config.yaml)")
	flag.Parse()

	// NewServer orchestrates config, logger, database, migrations, seed and router
	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
