package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/chridipi/synapse-engine/internal/config"
	"github.com/chridipi/synapse-engine/internal/events"
	"github.com/chridipi/synapse-engine/internal/generation"
	"github.com/chridipi/synapse-engine/internal/knowledge"
	"github.com/chridipi/synapse-engine/internal/ledger"
	"github.com/chridipi/synapse-engine/internal/pipeline"
	"github.com/chridipi/synapse-engine/internal/platform/gemini"
	"github.com/chridipi/synapse-engine/internal/platform/openrouter"
	"github.com/chridipi/synapse-engine/internal/platform/postgres"
	"github.com/chridipi/synapse-engine/internal/platform/youtube"
	"github.com/chridipi/synapse-engine/internal/redact"
	"github.com/chridipi/synapse-engine/internal/service/identity"
	"github.com/chridipi/synapse-engine/internal/service/payment"
	"github.com/chridipi/synapse-engine/internal/session"
	"github.com/chridipi/synapse-engine/internal/store"
)

// application holds the wired components of the session engine.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory entitlement store is selected.
	db *sql.DB

	entitlementStore store.EntitlementStore
	ledger           *ledger.Service
	eventEmitter     events.EventEmitter
	pipeline         *pipeline.Pipeline
	sessions         *session.Manager
	identityResolver identity.Resolver

	// paymentClient is nil when no payment credential is configured; the
	// payments endpoint then answers 502.
	paymentClient payment.Provisioner
}

// newApplication creates an application with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
	}

	var err error
	app.identityResolver, err = identity.NewResolver(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize identity resolver: %w", err)
	}

	if err := app.setupEntitlementStore(ctx); err != nil {
		return nil, err
	}

	app.ledger = ledger.NewService(log, app.entitlementStore, ledger.WithDB(app.db))

	app.eventEmitter = events.NewInMemoryEventEmitter(log)
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(events.NewLoggingHandler(log))
	}

	generator := app.setupGenerator(ctx)
	locator := app.setupMediaLocator(ctx)
	app.pipeline = pipeline.New(log, generator, locator, knowledge.NewResolver(log))

	app.sessions = session.NewManager(log, app.pipeline, app.ledger, app.eventEmitter,
		session.TimingsFromConfig(cfg.Session))

	app.setupPaymentClient()

	log.Info("Application initialized successfully",
		"generation_enabled", app.pipeline.GenerationEnabled(),
		"payments_enabled", app.paymentClient != nil)
	return app, nil
}

// setupEntitlementStore opens the database when a URL is configured, runs the
// embedded migrations and selects the postgres store. Without a URL the
// in-memory store backs the ledger.
func (app *application) setupEntitlementStore(ctx context.Context) error {
	if app.config.Database.URL == "" {
		app.logger.Info("No database configured, using in-memory entitlement store")
		app.entitlementStore = store.NewMemoryEntitlementStore()
		return nil
	}

	db, err := sql.Open("pgx", app.config.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %s", redact.Error(err))
	}

	if err := runMigrations(db, app.logger); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.db = db
	app.entitlementStore = postgres.NewPostgresEntitlementStore(db)
	app.logger.Info("Database connection established")
	return nil
}

// setupGenerator builds the configured generation provider. A missing
// credential disables remote generation instead of failing startup: the
// pipeline then serves every session from the knowledge base.
func (app *application) setupGenerator(ctx context.Context) generation.Generator {
	var (
		gen generation.Generator
		err error
	)

	switch app.config.Generation.Provider {
	case "openrouter":
		var g *openrouter.Generator
		g, err = openrouter.NewGenerator(app.logger, app.config.Generation)
		if err == nil {
			gen = g
		}
	case "gemini":
		var g *gemini.Generator
		g, err = gemini.NewGenerator(ctx, app.logger, app.config.Generation)
		if err == nil {
			gen = g
		}
	case "none":
		app.logger.Info("Remote generation disabled by configuration")
		return nil
	}

	if err != nil {
		if errors.Is(err, generation.ErrNoCredential) {
			app.logger.Warn("No generation credential configured, serving knowledge-base content only",
				"provider", app.config.Generation.Provider)
		} else {
			app.logger.Error("Failed to initialize generation provider, serving knowledge-base content only",
				"provider", app.config.Generation.Provider,
				"error", redact.Error(err))
		}
		return nil
	}
	return gen
}

// setupMediaLocator builds the YouTube locator when an API key is present.
// Media enrichment is optional; sessions fall back to the stock reference.
func (app *application) setupMediaLocator(ctx context.Context) generation.MediaLocator {
	if app.config.Generation.YouTubeAPIKey == "" {
		return nil
	}

	locator, err := youtube.NewMediaLocator(ctx, app.logger, app.config.Generation.YouTubeAPIKey)
	if err != nil {
		app.logger.Warn("Failed to initialize media locator, sessions use the fallback reference",
			"error", redact.Error(err))
		return nil
	}
	return locator
}

func (app *application) setupPaymentClient() {
	client, err := payment.NewClient(app.logger, app.config.Payment)
	if err != nil {
		if errors.Is(err, payment.ErrNoCredential) {
			app.logger.Info("No payment credential configured, payments endpoint disabled")
		} else {
			app.logger.Warn("Failed to initialize payment client, payments endpoint disabled",
				"error", redact.Error(err))
		}
		return
	}
	app.paymentClient = client
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases held resources on shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
