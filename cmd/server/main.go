// Package main implements the entry point for the Synapse session engine,
// which orchestrates study sessions: curated knowledge-base lookups, remote
// package generation, the per-account session state machine and the
// entitlement ledger behind it.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/platform/logger"
)

func main() {
	// A missing .env is fine; the environment may carry everything.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging and wires the
// application components.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"generation_provider", cfg.Generation.Provider,
		"database_configured", cfg.Database.URL != "")

	return newApplication(ctx, cfg, log)
}
