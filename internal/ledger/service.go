package ledger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chridipi/synapse-engine/internal/domain"
	"github.com/chridipi/synapse-engine/internal/store"
)

// ErrNoCredits is returned by ConsumeCredit when a metered account has
// exhausted its daily balance.
var ErrNoCredits = errors.New("daily credit balance exhausted")

// Service is the entitlement ledger. It caches records in memory for the
// lifetime of the process and writes every mutation through to the store.
type Service struct {
	logger *slog.Logger
	store  store.EntitlementStore
	now    func() time.Time

	// db, when set, enables transactional writes for multi-statement
	// mutations. Nil with the in-memory store.
	db *sql.DB

	mu    sync.Mutex
	cache map[uuid.UUID]*store.EntitlementRecord
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithClock overrides the time source. Tests use it to cross day boundaries
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDB provides the database handle backing the entitlement store, enabling
// transactional writes for mutations that read and write in one step. A nil
// handle keeps plain write-through persistence.
func WithDB(db *sql.DB) Option {
	return func(s *Service) { s.db = db }
}

// NewService creates a ledger backed by the given entitlement store.
func NewService(logger *slog.Logger, entStore store.EntitlementStore, opts ...Option) *Service {
	s := &Service{
		logger: logger.With(slog.String("component", "entitlement_ledger")),
		store:  entStore,
		now:    time.Now,
		cache:  make(map[uuid.UUID]*store.EntitlementRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current entitlement for the account, creating a
// default record on first sight. The tier hint carries what the identity
// layer knows about the caller (guest, authenticated, privileged) and only
// ever raises the stored tier, never lowers it.
func (s *Service) Snapshot(ctx context.Context, accountID uuid.UUID, hint domain.Tier) domain.Entitlement {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.resolve(ctx, accountID, hint)
	return rec.Entitlement
}

// ConsumeCredit decrements the daily balance of a metered account and
// returns the remaining credits. Unmetered tiers pass through untouched.
// Returns ErrNoCredits when the balance is already zero.
func (s *Service) ConsumeCredit(ctx context.Context, accountID uuid.UUID, hint domain.Tier) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.resolve(ctx, accountID, hint)
	if !rec.Entitlement.Tier.Metered() {
		return rec.Entitlement.DailyCredits, nil
	}

	if rec.Entitlement.DailyCredits <= 0 {
		return 0, ErrNoCredits
	}

	rec.Entitlement.DailyCredits--
	s.persist(ctx, rec)
	return rec.Entitlement.DailyCredits, nil
}

// ResetDailyCreditsIfNewDay restores the default credit balance of a metered
// account when the stored watermark precedes the current day. The operation
// is idempotent within a day.
func (s *Service) ResetDailyCreditsIfNewDay(ctx context.Context, accountID uuid.UUID, hint domain.Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.resolve(ctx, accountID, hint)
	today := s.today()
	if !rec.LastReset.Before(today) {
		return
	}

	rec.LastReset = today
	if rec.Entitlement.Tier.Metered() {
		rec.Entitlement.DailyCredits = domain.DefaultDailyCredits
		s.logger.InfoContext(ctx, "Daily credits replenished",
			slog.String("account_id", accountID.String()))
	}
	s.persist(ctx, rec)
}

// AwardXP adds experience points to the account. Negative awards are ignored.
func (s *Service) AwardXP(ctx context.Context, accountID uuid.UUID, hint domain.Tier, points int) {
	if points <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.resolve(ctx, accountID, hint)
	rec.Entitlement.XP += points
	s.persist(ctx, rec)
}

// AddStudyHours adds to the cumulative study-hours counter shown on the
// account dashboard.
func (s *Service) AddStudyHours(ctx context.Context, accountID uuid.UUID, hint domain.Tier, hours float64) {
	if hours <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.resolve(ctx, accountID, hint)
	rec.Entitlement.StudyHours += hours
	s.persist(ctx, rec)
}

// Upgrade raises the account to the paid tier. When backed by SQL, the write
// runs in a transaction that first merges counters persisted by other
// replicas, so XP recorded elsewhere since this process cached the record is
// not clobbered by the tier change.
func (s *Service) Upgrade(ctx context.Context, accountID uuid.UUID) domain.Entitlement {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.resolve(ctx, accountID, domain.TierFree)
	rec.Entitlement.Tier = domain.TierPaid

	if s.db == nil {
		s.persist(ctx, rec)
	} else if err := s.persistUpgradeTx(ctx, rec); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist upgrade",
			slog.String("account_id", accountID.String()),
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "Account upgraded to paid tier",
		slog.String("account_id", accountID.String()))
	return rec.Entitlement
}

// persistUpgradeTx saves the upgraded record inside a transaction, folding in
// any higher counters already persisted for the account.
func (s *Service) persistUpgradeTx(ctx context.Context, rec *store.EntitlementRecord) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.store.WithTx(tx)

		stored, err := txStore.Get(ctx, rec.AccountID)
		switch {
		case err == nil:
			if stored.Entitlement.XP > rec.Entitlement.XP {
				rec.Entitlement.XP = stored.Entitlement.XP
			}
			if stored.Entitlement.StudyHours > rec.Entitlement.StudyHours {
				rec.Entitlement.StudyHours = stored.Entitlement.StudyHours
			}
		case !store.IsNotFoundError(err):
			return err
		}

		return txStore.Save(ctx, rec)
	})
}

// SignOut discards the account's runtime and persisted entitlement state.
// The next access starts from defaults again.
func (s *Service) SignOut(ctx context.Context, accountID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, accountID)
	if err := s.store.Delete(ctx, accountID); err != nil && !store.IsNotFoundError(err) {
		s.logger.WarnContext(ctx, "Failed to delete entitlement record",
			slog.String("account_id", accountID.String()),
			slog.String("error", err.Error()))
	}
}

// resolve returns the cached record for the account, loading it from the
// store or creating a default on first sight. Defaults that resolve to the
// guest tier are returned without being cached or persisted. Callers hold
// s.mu.
func (s *Service) resolve(ctx context.Context, accountID uuid.UUID, hint domain.Tier) *store.EntitlementRecord {
	if rec, ok := s.cache[accountID]; ok {
		s.applyHint(ctx, rec, hint)
		return rec
	}

	rec, err := s.store.Get(ctx, accountID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.WarnContext(ctx, "Failed to load entitlement record, starting from defaults",
				slog.String("account_id", accountID.String()),
				slog.String("error", err.Error()))
		}
		ent := domain.DefaultEntitlement()
		if hint.Valid() {
			ent.Tier = hint
		}
		rec = &store.EntitlementRecord{
			AccountID:   accountID,
			Entitlement: ent,
			LastReset:   s.today(),
		}
		// First-sight guests stay transient. Anonymous callers mint a fresh
		// account per request, so caching or persisting their default records
		// would grow without bound.
		if ent.Tier == domain.TierGuest {
			return rec
		}
		s.persist(ctx, rec)
	} else {
		s.applyHint(ctx, rec, hint)
	}

	s.cache[accountID] = rec
	return rec
}

// applyHint raises the stored tier when the identity layer reports a higher
// one. A hint never demotes: a paid account stays paid even if the token
// carries no tier claim.
func (s *Service) applyHint(ctx context.Context, rec *store.EntitlementRecord, hint domain.Tier) {
	if !hint.Valid() || rec.Entitlement.Tier == domain.TierPaid || hint == rec.Entitlement.Tier {
		return
	}
	if hint == domain.TierPaid || (hint == domain.TierFree && rec.Entitlement.Tier == domain.TierGuest) {
		rec.Entitlement.Tier = hint
		s.persist(ctx, rec)
	}
}

// persist writes the record through to the store. Failures are logged and
// swallowed: the in-memory state remains authoritative for this process.
func (s *Service) persist(ctx context.Context, rec *store.EntitlementRecord) {
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist entitlement record",
			slog.String("account_id", rec.AccountID.String()),
			slog.String("error", err.Error()))
	}
}

// today returns the current day truncated to UTC midnight, the granularity
// of the daily-reset watermark.
func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
