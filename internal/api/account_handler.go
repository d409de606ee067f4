package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/chridipi/synapse-engine/internal/api/shared"
	"github.com/chridipi/synapse-engine/internal/events"
	"github.com/chridipi/synapse-engine/internal/ledger"
	"github.com/chridipi/synapse-engine/internal/session"
)

// AccountHandler serves the entitlement account surface.
type AccountHandler struct {
	logger   *slog.Logger
	ledger   *ledger.Service
	sessions *session.Manager
	emitter  events.EventEmitter
}

// NewAccountHandler creates an AccountHandler with the given dependencies.
func NewAccountHandler(logger *slog.Logger, ledgerSvc *ledger.Service, sessions *session.Manager, emitter events.EventEmitter) *AccountHandler {
	return &AccountHandler{
		logger:   logger.With(slog.String("component", "account_handler")),
		ledger:   ledgerSvc,
		sessions: sessions,
		emitter:  emitter,
	}
}

// Get handles GET /api/account. It also applies the daily credit reset so a
// returning account sees a fresh balance without a separate call.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	h.ledger.ResetDailyCreditsIfNewDay(r.Context(), id.AccountID, id.Tier)
	shared.RespondWithJSON(w, r, http.StatusOK, AccountResponse{
		Entitlement: h.ledger.Snapshot(r.Context(), id.AccountID, id.Tier),
	})
}

// Upgrade handles POST /api/account/upgrade. The upgrade is optimistic: the
// front-end calls it after the payment provider confirms the charge.
func (h *AccountHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	ent := h.ledger.Upgrade(r.Context(), id.AccountID)
	h.emit(r.Context(), events.TypeAccountUpgraded, id.AccountID)
	h.logger.Info("account upgraded", slog.String("account_id", id.AccountID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AccountResponse{Entitlement: ent})
}

// SignOut handles POST /api/account/signout. Any in-flight session is
// discarded along with the cached entitlement.
func (h *AccountHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	h.sessions.Discard(r.Context(), id.AccountID)
	h.ledger.SignOut(r.Context(), id.AccountID)
	h.emit(r.Context(), events.TypeAccountSignedOut, id.AccountID)
	w.WriteHeader(http.StatusNoContent)
}

// emit publishes an account lifecycle event; emission failures are logged and
// dropped.
func (h *AccountHandler) emit(ctx context.Context, eventType string, accountID uuid.UUID) {
	if h.emitter == nil {
		return
	}
	event, err := events.NewSessionEvent(eventType, accountID, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to build account event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if err := h.emitter.EmitEvent(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "Failed to emit account event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}
