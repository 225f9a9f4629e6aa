package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/openmfg/openmfg/cmd/openmfg/commands"
	"github.com/openmfg/openmfg/pkg/telemetry"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cfg := telemetry.DefaultConfig().Logging
	cfg.Output = "stderr"
	cfg.EnableCaller = false
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	logger, err := telemetry.NewLogger(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to configure logging")
		os.Exit(1)
	}
	log.Logger = logger.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}
