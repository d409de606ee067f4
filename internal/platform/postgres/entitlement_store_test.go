package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/store"
)

func newMockStore(t *testing.T) (*PostgresEntitlementStore, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	return NewPostgresEntitlementStore(db), mock, func() { _ = db.Close() }
}

func entitlementRows(accountID uuid.UUID, tier string, credits, xp int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"account_id", "tier", "daily_credits", "xp", "study_hours", "streak_days",
		"last_reset", "created_at", "updated_at",
	}).AddRow(accountID, tier, credits, xp, 0, 0, now.Truncate(24*time.Hour), now, now)
}

func TestEntitlementStoreGet(t *testing.T) {
	t.Run("existing record", func(t *testing.T) {
		s, mock, cleanup := newMockStore(t)
		defer cleanup()

		accountID := uuid.New()
		mock.ExpectQuery(`SELECT .+ FROM entitlements`).
			WithArgs(accountID).
			WillReturnRows(entitlementRows(accountID, "FREE", 3, 800))

		rec, err := s.Get(context.Background(), accountID)

		require.NoError(t, err)
		assert.Equal(t, accountID, rec.AccountID)
		assert.Equal(t, domain.TierFree, rec.Entitlement.Tier)
		assert.Equal(t, 3, rec.Entitlement.DailyCredits)
		assert.Equal(t, 800, rec.Entitlement.XP)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		s, mock, cleanup := newMockStore(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .+ FROM entitlements`).
			WillReturnError(sql.ErrNoRows)

		_, err := s.Get(context.Background(), uuid.New())

		assert.ErrorIs(t, err, store.ErrEntitlementNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		s, mock, cleanup := newMockStore(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .+ FROM entitlements`).
			WillReturnError(errors.New("connection reset"))

		_, err := s.Get(context.Background(), uuid.New())

		require.Error(t, err)
		assert.NotErrorIs(t, err, store.ErrEntitlementNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntitlementStoreSave(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		s, mock, cleanup := newMockStore(t)
		defer cleanup()

		rec := &store.EntitlementRecord{
			AccountID:   uuid.New(),
			Entitlement: domain.DefaultEntitlement(),
			LastReset:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		}

		mock.ExpectExec(`INSERT INTO entitlements`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Save(context.Background(), rec))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid entitlement rejected before query", func(t *testing.T) {
		s, mock, cleanup := newMockStore(t)
		defer cleanup()

		rec := &store.EntitlementRecord{
			AccountID: uuid.New(),
			Entitlement: domain.Entitlement{
				Tier:         domain.Tier("PLATINUM"),
				DailyCredits: 5,
			},
		}

		err := s.Save(context.Background(), rec)

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet(), "no query should run for an invalid record")
	})
}

func TestEntitlementStoreDelete(t *testing.T) {
	t.Run("existing record", func(t *testing.T) {
		s, mock, cleanup := newMockStore(t)
		defer cleanup()

		accountID := uuid.New()
		mock.ExpectExec(`DELETE FROM entitlements`).
			WithArgs(accountID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Delete(context.Background(), accountID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		s, mock, cleanup := newMockStore(t)
		defer cleanup()

		mock.ExpectExec(`DELETE FROM entitlements`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Delete(context.Background(), uuid.New())

		assert.ErrorIs(t, err, store.ErrEntitlementNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntitlementStoreWithTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	txStore := NewPostgresEntitlementStore(db).WithTx(tx)
	assert.NotNil(t, txStore)
	assert.NotSame(t, txStore, NewPostgresEntitlementStore(db))
}
