package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chridipi/synapse-engine/internal/api"
	apiMiddleware "github.com/chridipi/synapse-engine/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	sessionHandler := api.NewSessionHandler(app.logger, app.sessions, app.ledger)
	accountHandler := api.NewAccountHandler(app.logger, app.ledger, app.sessions, app.eventEmitter)
	paymentHandler := api.NewPaymentHandler(app.logger, app.paymentClient)
	identityMiddleware := apiMiddleware.NewIdentityMiddleware(app.identityResolver)

	r.Route("/api", func(r chi.Router) {
		// Every API route carries a resolved identity; unauthenticated
		// callers flow through as guests and the session gate decides.
		r.Use(identityMiddleware.Resolve)

		r.Post("/sessions", sessionHandler.Submit)
		r.Get("/sessions/current", sessionHandler.Current)
		r.Post("/sessions/answer", sessionHandler.Answer)
		r.Post("/sessions/reset", sessionHandler.Reset)

		r.Get("/account", accountHandler.Get)
		r.Post("/account/upgrade", accountHandler.Upgrade)
		r.Post("/account/signout", accountHandler.SignOut)

		r.Post("/payments/session", paymentHandler.CreateSession)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
