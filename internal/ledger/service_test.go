package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/ledger"
	"github.com/chridipi/synapse-engine/internal/platform/postgres"
	"github.com/chridipi/synapse-engine/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, opts ...ledger.Option) (*ledger.Service, *store.MemoryEntitlementStore) {
	t.Helper()
	entStore := store.NewMemoryEntitlementStore()
	return ledger.NewService(testLogger(), entStore, opts...), entStore
}

func TestSnapshotDefaults(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	accountID := uuid.New()

	ent := svc.Snapshot(context.Background(), accountID, domain.TierFree)

	assert.Equal(t, domain.TierFree, ent.Tier)
	assert.Equal(t, domain.DefaultDailyCredits, ent.DailyCredits)
	assert.Zero(t, ent.XP)
}

func TestSnapshotPersistsFirstSight(t *testing.T) {
	t.Parallel()

	svc, entStore := newService(t)
	accountID := uuid.New()

	svc.Snapshot(context.Background(), accountID, domain.TierFree)

	rec, err := entStore.Get(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, domain.TierFree, rec.Entitlement.Tier)
}

func TestSnapshotGuestStaysTransient(t *testing.T) {
	t.Parallel()

	svc, entStore := newService(t)
	accountID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ent := svc.Snapshot(ctx, accountID, domain.TierGuest)
		assert.Equal(t, domain.TierGuest, ent.Tier)
	}

	_, err := entStore.Get(ctx, accountID)
	assert.ErrorIs(t, err, store.ErrEntitlementNotFound,
		"anonymous reads must not persist default records")
}

func TestConsumeCredit(t *testing.T) {
	t.Parallel()

	t.Run("metered account counts down to zero", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		accountID := uuid.New()
		ctx := context.Background()

		for want := domain.DefaultDailyCredits - 1; want >= 0; want-- {
			remaining, err := svc.ConsumeCredit(ctx, accountID, domain.TierFree)
			require.NoError(t, err)
			assert.Equal(t, want, remaining)
		}

		_, err := svc.ConsumeCredit(ctx, accountID, domain.TierFree)
		assert.ErrorIs(t, err, ledger.ErrNoCredits)
	})

	t.Run("paid account is unmetered", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		accountID := uuid.New()
		ctx := context.Background()

		for i := 0; i < 20; i++ {
			_, err := svc.ConsumeCredit(ctx, accountID, domain.TierPaid)
			require.NoError(t, err)
		}

		ent := svc.Snapshot(ctx, accountID, domain.TierPaid)
		assert.Equal(t, domain.DefaultDailyCredits, ent.DailyCredits, "unmetered consumption must not touch the balance")
	})
}

func TestResetDailyCredits(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: day}
	svc, _ := newService(t, ledger.WithClock(clock.Now))
	accountID := uuid.New()
	ctx := context.Background()

	for i := 0; i < domain.DefaultDailyCredits; i++ {
		_, err := svc.ConsumeCredit(ctx, accountID, domain.TierFree)
		require.NoError(t, err)
	}

	// Same day: no replenishment.
	svc.ResetDailyCreditsIfNewDay(ctx, accountID, domain.TierFree)
	_, err := svc.ConsumeCredit(ctx, accountID, domain.TierFree)
	assert.ErrorIs(t, err, ledger.ErrNoCredits)

	// Next day: full balance again.
	clock.now = day.Add(24 * time.Hour)
	svc.ResetDailyCreditsIfNewDay(ctx, accountID, domain.TierFree)
	ent := svc.Snapshot(ctx, accountID, domain.TierFree)
	assert.Equal(t, domain.DefaultDailyCredits, ent.DailyCredits)

	// Idempotent within the new day.
	svc.ResetDailyCreditsIfNewDay(ctx, accountID, domain.TierFree)
	assert.Equal(t, domain.DefaultDailyCredits, svc.Snapshot(ctx, accountID, domain.TierFree).DailyCredits)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestAwardXP(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	accountID := uuid.New()
	ctx := context.Background()

	svc.AwardXP(ctx, accountID, domain.TierFree, domain.XPPerCorrectAnswer)
	svc.AwardXP(ctx, accountID, domain.TierFree, domain.XPPerCorrectAnswer)
	svc.AwardXP(ctx, accountID, domain.TierFree, -50)

	assert.Equal(t, 2*domain.XPPerCorrectAnswer, svc.Snapshot(ctx, accountID, domain.TierFree).XP)
}

func TestAddStudyHours(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	accountID := uuid.New()
	ctx := context.Background()

	svc.AddStudyHours(ctx, accountID, domain.TierFree, 1.5)
	svc.AddStudyHours(ctx, accountID, domain.TierFree, 0)

	assert.InDelta(t, 1.5, svc.Snapshot(ctx, accountID, domain.TierFree).StudyHours, 1e-9)
}

func TestUpgrade(t *testing.T) {
	t.Parallel()

	svc, entStore := newService(t)
	accountID := uuid.New()
	ctx := context.Background()

	ent := svc.Upgrade(ctx, accountID)
	assert.Equal(t, domain.TierPaid, ent.Tier)

	rec, err := entStore.Get(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, domain.TierPaid, rec.Entitlement.Tier)

	// A later FREE hint must not demote the account.
	assert.Equal(t, domain.TierPaid, svc.Snapshot(ctx, accountID, domain.TierFree).Tier)
}

func TestUpgradeTransactionalMergesPersistedCounters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	accountID := uuid.New()
	svc := ledger.NewService(testLogger(), postgres.NewPostgresEntitlementStore(db), ledger.WithDB(db))

	now := time.Now().UTC()
	columns := []string{
		"account_id", "tier", "daily_credits", "xp", "study_hours", "streak_days",
		"last_reset", "created_at", "updated_at",
	}

	// First sight loads and persists the default record outside the
	// transaction.
	mock.ExpectQuery(`SELECT .+ FROM entitlements`).
		WithArgs(accountID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO entitlements`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The upgrade itself re-reads and saves inside one transaction; another
	// replica already persisted 800 XP for this account.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM entitlements`).
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(accountID, "FREE", 3, 800, 0, 0, now.Truncate(24*time.Hour), now, now))
	mock.ExpectExec(`INSERT INTO entitlements`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ent := svc.Upgrade(context.Background(), accountID)

	assert.Equal(t, domain.TierPaid, ent.Tier)
	assert.Equal(t, 800, ent.XP, "counters persisted elsewhere survive the tier change")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTierHintRaisesGuest(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	accountID := uuid.New()
	ctx := context.Background()

	assert.Equal(t, domain.TierGuest, svc.Snapshot(ctx, accountID, domain.TierGuest).Tier)
	assert.Equal(t, domain.TierFree, svc.Snapshot(ctx, accountID, domain.TierFree).Tier)
	assert.Equal(t, domain.TierPaid, svc.Snapshot(ctx, accountID, domain.TierPaid).Tier)
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	svc, entStore := newService(t)
	accountID := uuid.New()
	ctx := context.Background()

	svc.AwardXP(ctx, accountID, domain.TierFree, 600)
	svc.SignOut(ctx, accountID)

	_, err := entStore.Get(ctx, accountID)
	assert.ErrorIs(t, err, store.ErrEntitlementNotFound)

	ent := svc.Snapshot(ctx, accountID, domain.TierFree)
	assert.Zero(t, ent.XP, "state starts from defaults after sign-out")

	// Signing out an unknown account is a no-op.
	svc.SignOut(ctx, uuid.New())
}

func TestPersistFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	svc := ledger.NewService(testLogger(), &failingStore{})
	accountID := uuid.New()
	ctx := context.Background()

	svc.AwardXP(ctx, accountID, domain.TierFree, 200)
	assert.Equal(t, 200, svc.Snapshot(ctx, accountID, domain.TierFree).XP,
		"in-memory state stays authoritative when the store is down")
}

// failingStore errors on every operation.
type failingStore struct{}

func (f *failingStore) Get(ctx context.Context, accountID uuid.UUID) (*store.EntitlementRecord, error) {
	return nil, errors.New("store unavailable")
}

func (f *failingStore) Save(ctx context.Context, rec *store.EntitlementRecord) error {
	return errors.New("store unavailable")
}

func (f *failingStore) Delete(ctx context.Context, accountID uuid.UUID) error {
	return errors.New("store unavailable")
}

func (f *failingStore) WithTx(tx *sql.Tx) store.EntitlementStore { return f }
