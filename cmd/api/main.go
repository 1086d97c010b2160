package main

import (
	"os"

	"github.com/yigit/qpidash/internal/pkg/logger"
	"github.com/yigit/qpidash/internal/server"
)

// @title QPI Dashboard API
// @version 1.0
// @description Grade index dashboard: per-session grade entry, cumulative QPI and target projections
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token returned by POST /sessions

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup functions already logged the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
