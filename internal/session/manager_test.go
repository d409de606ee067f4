package session_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/events"
	"github.com/chridipi/synapse-engine/internal/knowledge"
	"github.com/chridipi/synapse-engine/internal/ledger"
	"github.com/chridipi/synapse-engine/internal/pipeline"
	"github.com/chridipi/synapse-engine/internal/session"
	"github.com/chridipi/synapse-engine/internal/store"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()

	log := testLogger()
	led := ledger.NewService(log, store.NewMemoryEntitlementStore())
	p := pipeline.New(log, fixtureGenerator{}, nil, knowledge.NewResolver(log))
	return session.NewManager(log, p, led, events.NewInMemoryEventEmitter(log), fastTimings())
}

func TestManagerReturnsSameMachinePerAccount(t *testing.T) {
	t.Parallel()

	mgr := newManager(t)
	accountID := uuid.New()

	assert.Same(t, mgr.Machine(accountID), mgr.Machine(accountID))
	assert.NotSame(t, mgr.Machine(accountID), mgr.Machine(uuid.New()))
}

func TestManagerReadPathsDoNotMaterialize(t *testing.T) {
	t.Parallel()

	mgr := newManager(t)
	accountID := uuid.New()

	snap := mgr.Snapshot(accountID)
	assert.Equal(t, session.StateInput, snap.State)
	assert.Equal(t, session.OutcomeNone, snap.LastOutcome)

	_, ok := mgr.Lookup(accountID)
	assert.False(t, ok, "polling an unknown account must not create a machine")
}

func TestManagerSubmitRejectsGuestWithoutMachine(t *testing.T) {
	t.Parallel()

	mgr := newManager(t)
	accountID := uuid.New()

	res, err := mgr.Submit(context.Background(), accountID, "fotosintesi", domain.TierGuest)
	require.NoError(t, err)

	assert.False(t, res.Accepted)
	assert.Equal(t, session.PromptSignIn, res.Prompt)

	_, ok := mgr.Lookup(accountID)
	assert.False(t, ok, "a gate-rejected guest leaves no machine behind")
}

func TestManagerSubmitCreatesMachineOnAcceptance(t *testing.T) {
	t.Parallel()

	mgr := newManager(t)
	accountID := uuid.New()

	res, err := mgr.Submit(context.Background(), accountID, "fotosintesi", domain.TierPaid)
	require.NoError(t, err)
	require.True(t, res.Accepted)

	m, ok := mgr.Lookup(accountID)
	require.True(t, ok)
	assert.Equal(t, session.StateProcessing, m.Snapshot().State)
}

func TestManagerSubmitEmptyTopic(t *testing.T) {
	t.Parallel()

	mgr := newManager(t)
	accountID := uuid.New()

	_, err := mgr.Submit(context.Background(), accountID, "   ", domain.TierPaid)
	assert.ErrorIs(t, err, domain.ErrEmptyTopic)

	_, ok := mgr.Lookup(accountID)
	assert.False(t, ok)
}

func TestManagerDiscard(t *testing.T) {
	t.Parallel()

	mgr := newManager(t)
	accountID := uuid.New()
	ctx := context.Background()

	m := mgr.Machine(accountID)
	res, err := m.Submit(ctx, "fisica", domain.TierPaid)
	require.NoError(t, err)
	require.True(t, res.Accepted)

	mgr.Discard(ctx, accountID)

	fresh := mgr.Machine(accountID)
	assert.NotSame(t, m, fresh, "discard forgets the old machine")
	assert.Equal(t, session.StateInput, fresh.Snapshot().State)
	assert.Equal(t, session.StateInput, m.Snapshot().State, "the old machine was reset")
}
