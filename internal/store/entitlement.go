package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/chridipi/synapse-engine/internal/domain"
)

// EntitlementRecord is the persisted form of an account's entitlement: the
// domain state plus the daily-reset watermark and bookkeeping timestamps.
type EntitlementRecord struct {
	AccountID   uuid.UUID
	Entitlement domain.Entitlement

	// LastReset is the day (UTC, truncated to midnight) the daily credits
	// were last replenished. A record whose LastReset precedes today is due
	// for a reset.
	LastReset time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntitlementStore defines the interface for entitlement persistence.
type EntitlementStore interface {
	// Get retrieves the entitlement record for an account.
	// Returns ErrEntitlementNotFound if no record exists.
	Get(ctx context.Context, accountID uuid.UUID) (*EntitlementRecord, error)

	// Save upserts the entitlement record for rec.AccountID.
	// Returns ErrInvalidEntity wrapping the domain validation error if the
	// entitlement state is invalid.
	Save(ctx context.Context, rec *EntitlementRecord) error

	// Delete removes the entitlement record for an account, reverting it to
	// defaults on next access. Returns ErrEntitlementNotFound if no record
	// exists.
	Delete(ctx context.Context, accountID uuid.UUID) error

	// WithTx returns a new EntitlementStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) EntitlementStore
}
