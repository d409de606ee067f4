package api

import (
	"log/slog"
	"net/http"

	"github.com/chridipi/synapse-engine/internal/api/shared"
	"github.com/chridipi/synapse-engine/internal/ledger"
	"github.com/chridipi/synapse-engine/internal/service/identity"
	"github.com/chridipi/synapse-engine/internal/session"
)

// SessionHandler serves the session lifecycle: topic submission, snapshot
// polling, quiz answers and reset.
type SessionHandler struct {
	logger   *slog.Logger
	sessions *session.Manager
	ledger   *ledger.Service
}

// NewSessionHandler creates a SessionHandler with the given dependencies.
func NewSessionHandler(logger *slog.Logger, sessions *session.Manager, ledgerSvc *ledger.Service) *SessionHandler {
	return &SessionHandler{
		logger:   logger.With(slog.String("component", "session_handler")),
		sessions: sessions,
		ledger:   ledgerSvc,
	}
}

// callerIdentity pulls the resolved identity from the request context. The
// identity middleware guarantees one is present on every /api route.
func callerIdentity(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := shared.GetIdentity(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Caller identity missing")
		return identity.Identity{}, false
	}
	return id, true
}

// Submit handles POST /api/sessions.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req SubmitSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Topic cannot be empty")
		return
	}

	result, err := h.sessions.Submit(r.Context(), id.AccountID, req.Topic, id.Tier)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if !result.Accepted {
		// Gate rejection is a control-flow outcome for the front-end, not an
		// error: 200 with the prompt to surface.
		shared.RespondWithJSON(w, r, http.StatusOK, SubmitSessionResponse{
			Accepted: false,
			Prompt:   result.Prompt,
		})
		return
	}

	snapshot := h.sessions.Snapshot(id.AccountID)
	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitSessionResponse{
		Accepted: true,
		Session:  &snapshot,
	})
}

// Current handles GET /api/sessions/current.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.sessions.Snapshot(id.AccountID))
}

// Answer handles POST /api/sessions/answer.
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	machine, ok := h.sessions.Lookup(id.AccountID)
	if !ok {
		HandleServiceError(w, r, session.ErrNoDashboard)
		return
	}

	outcome, err := machine.Answer(r.Context(), req.OptionIndex)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Outcome:     outcome,
		Entitlement: h.ledger.Snapshot(r.Context(), id.AccountID, id.Tier),
	})
}

// Reset handles POST /api/sessions/reset.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	if machine, ok := h.sessions.Lookup(id.AccountID); ok {
		machine.Reset(r.Context())
		shared.RespondWithJSON(w, r, http.StatusOK, machine.Snapshot())
		return
	}

	// No machine to reset: the account already reads as a fresh INPUT state.
	shared.RespondWithJSON(w, r, http.StatusOK, h.sessions.Snapshot(id.AccountID))
}
