package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/events"
	"github.com/chridipi/synapse-engine/internal/ledger"
	"github.com/chridipi/synapse-engine/internal/pipeline"
)

// Manager owns the per-account session machines, creating them lazily on
// first access.
type Manager struct {
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	ledger   *ledger.Service
	emitter  events.EventEmitter
	timings  Timings

	mu       sync.Mutex
	machines map[uuid.UUID]*Machine
}

// NewManager creates a session manager.
func NewManager(
	logger *slog.Logger,
	p *pipeline.Pipeline,
	led *ledger.Service,
	emitter events.EventEmitter,
	timings Timings,
) *Manager {
	return &Manager{
		logger:   logger,
		pipeline: p,
		ledger:   led,
		emitter:  emitter,
		timings:  timings,
		machines: make(map[uuid.UUID]*Machine),
	}
}

// Machine returns the session machine for the account, creating it in the
// INPUT state on first access.
func (mgr *Manager) Machine(accountID uuid.UUID) *Machine {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	if m, ok := mgr.machines[accountID]; ok {
		return m
	}

	m := NewMachine(mgr.logger, mgr.pipeline, mgr.ledger, mgr.emitter, accountID, mgr.timings)
	mgr.machines[accountID] = m
	return m
}

// Lookup returns the machine for the account when one exists. Read paths go
// through it so anonymous polling never materializes machines.
func (mgr *Manager) Lookup(accountID uuid.UUID) (*Machine, bool) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	m, ok := mgr.machines[accountID]
	return m, ok
}

// Snapshot returns the observable session state for the account without
// creating a machine. Accounts that never submitted read as a fresh INPUT
// state.
func (mgr *Manager) Snapshot(accountID uuid.UUID) Snapshot {
	if m, ok := mgr.Lookup(accountID); ok {
		return m.Snapshot()
	}
	return Snapshot{State: StateInput, LastOutcome: OutcomeNone}
}

// Submit routes a topic submission to the account's machine. The machine is
// created only when the caller can hold a session at all: guests are turned
// away at the gate before any per-account state exists for them.
func (mgr *Manager) Submit(ctx context.Context, accountID uuid.UUID, topic string, tierHint domain.Tier) (SubmitResult, error) {
	if strings.TrimSpace(topic) == "" {
		return SubmitResult{}, domain.ErrEmptyTopic
	}

	ent := mgr.ledger.Snapshot(ctx, accountID, tierHint)
	if ent.Tier == domain.TierGuest {
		return SubmitResult{Prompt: PromptSignIn}, nil
	}

	return mgr.Machine(accountID).Submit(ctx, topic, tierHint)
}

// Discard resets and forgets the account's machine. Used on sign-out so the
// next access starts from a fresh INPUT state.
func (mgr *Manager) Discard(ctx context.Context, accountID uuid.UUID) {
	mgr.mu.Lock()
	m, ok := mgr.machines[accountID]
	delete(mgr.machines, accountID)
	mgr.mu.Unlock()

	if ok {
		m.Reset(ctx)
	}
}
