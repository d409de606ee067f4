package shared

import (
	"context"
	"testing"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/service/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = SetTraceID(ctx)
	traceID := GetTraceID(ctx)
	require.NotEmpty(t, traceID)
	assert.Len(t, traceID, TraceIDLength*2)

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other, "trace IDs must be unique per request")
}

func TestIdentityRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, ok := GetIdentity(ctx)
	assert.False(t, ok)

	want := identity.Identity{
		AccountID: uuid.New(),
		Email:     "student@example.com",
		Tier:      domain.TierFree,
	}
	got, ok := GetIdentity(WithIdentity(ctx, want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
