package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/platform/logger"
	"github.com/chridipi/synapse-engine/internal/store"
)

// PostgresEntitlementStore implements the store.EntitlementStore interface
// using PostgreSQL.
type PostgresEntitlementStore struct {
	db store.DBTX
}

var _ store.EntitlementStore = (*PostgresEntitlementStore)(nil)

// NewPostgresEntitlementStore creates a new PostgresEntitlementStore.
func NewPostgresEntitlementStore(db store.DBTX) *PostgresEntitlementStore {
	return &PostgresEntitlementStore{
		db: db,
	}
}

// Get retrieves the entitlement record for an account.
// Returns store.ErrEntitlementNotFound if no record exists.
func (s *PostgresEntitlementStore) Get(ctx context.Context, accountID uuid.UUID) (*store.EntitlementRecord, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT account_id, tier, daily_credits, xp, study_hours, streak_days,
		       last_reset, created_at, updated_at
		FROM entitlements
		WHERE account_id = $1
	`

	var (
		rec  store.EntitlementRecord
		tier string
	)
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&rec.AccountID,
		&tier,
		&rec.Entitlement.DailyCredits,
		&rec.Entitlement.XP,
		&rec.Entitlement.StudyHours,
		&rec.Entitlement.StreakDays,
		&rec.LastReset,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(MapError(err)) {
			return nil, store.ErrEntitlementNotFound
		}
		log.Error("failed to get entitlement",
			"account_id", accountID,
			"error", err)
		return nil, fmt.Errorf("failed to get entitlement: %w", MapError(err))
	}

	rec.Entitlement.Tier = domain.Tier(tier)
	return &rec, nil
}

// Save upserts the entitlement record keyed by account ID.
func (s *PostgresEntitlementStore) Save(ctx context.Context, rec *store.EntitlementRecord) error {
	log := logger.FromContext(ctx)

	if err := rec.Entitlement.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO entitlements (account_id, tier, daily_credits, xp, study_hours, streak_days,
		                          last_reset, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (account_id) DO UPDATE SET
			tier = EXCLUDED.tier,
			daily_credits = EXCLUDED.daily_credits,
			xp = EXCLUDED.xp,
			study_hours = EXCLUDED.study_hours,
			streak_days = EXCLUDED.streak_days,
			last_reset = EXCLUDED.last_reset,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		rec.AccountID,
		string(rec.Entitlement.Tier),
		rec.Entitlement.DailyCredits,
		rec.Entitlement.XP,
		rec.Entitlement.StudyHours,
		rec.Entitlement.StreakDays,
		rec.LastReset,
		now,
	)
	if err != nil {
		log.Error("failed to save entitlement",
			"account_id", rec.AccountID,
			"error", err)
		return fmt.Errorf("failed to save entitlement: %w", MapError(err))
	}

	return nil
}

// Delete removes the entitlement record for an account.
// Returns store.ErrEntitlementNotFound if no record exists.
func (s *PostgresEntitlementStore) Delete(ctx context.Context, accountID uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM entitlements WHERE account_id = $1`, accountID)
	if err != nil {
		log.Error("failed to delete entitlement",
			"account_id", accountID,
			"error", err)
		return fmt.Errorf("failed to delete entitlement: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "entitlement"); err != nil {
		return store.ErrEntitlementNotFound
	}

	return nil
}

// WithTx returns a new PostgresEntitlementStore that uses the provided
// transaction for all operations.
func (s *PostgresEntitlementStore) WithTx(tx *sql.Tx) store.EntitlementStore {
	return &PostgresEntitlementStore{
		db: tx,
	}
}
