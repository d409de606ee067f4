package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryEntitlementStore is an in-process EntitlementStore used when no
// database is configured and by tests. It is safe for concurrent use.
type MemoryEntitlementStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]EntitlementRecord
}

var _ EntitlementStore = (*MemoryEntitlementStore)(nil)

// NewMemoryEntitlementStore creates an empty in-memory store.
func NewMemoryEntitlementStore() *MemoryEntitlementStore {
	return &MemoryEntitlementStore{
		records: make(map[uuid.UUID]EntitlementRecord),
	}
}

// Get retrieves a copy of the record for the account.
func (s *MemoryEntitlementStore) Get(ctx context.Context, accountID uuid.UUID) (*EntitlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[accountID]
	if !ok {
		return nil, ErrEntitlementNotFound
	}
	return &rec, nil
}

// Save upserts the record after validating the entitlement state.
func (s *MemoryEntitlementStore) Save(ctx context.Context, rec *EntitlementRecord) error {
	if err := rec.Entitlement.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *rec
	stored.UpdatedAt = now
	if existing, ok := s.records[rec.AccountID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	s.records[rec.AccountID] = stored
	return nil
}

// Delete removes the record for the account.
func (s *MemoryEntitlementStore) Delete(ctx context.Context, accountID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[accountID]; !ok {
		return ErrEntitlementNotFound
	}
	delete(s.records, accountID)
	return nil
}

// WithTx returns the store unchanged: the in-memory store has no
// transactions, and each operation is atomic on its own.
func (s *MemoryEntitlementStore) WithTx(tx *sql.Tx) EntitlementStore {
	return s
}
