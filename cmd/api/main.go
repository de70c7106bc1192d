package main

import (
	"os"

	"github.com/yigit/uniportal/internal/pkg/logger" // Still needed for initial error logging
	"github.com/yigit/uniportal/internal/server"
)

func main() {
	// NewServer orchestrates LoadConfigAndSetupLogger, BuildDependencies, SetupRouter
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run the server (this blocks until shutdown signal)
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
