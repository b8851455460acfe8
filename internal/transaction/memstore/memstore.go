// Package memstore keeps transactions in process memory. It backs the
// "memory" store driver and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

type Store struct {
	mu   sync.RWMutex
	txs  map[uuid.UUID]transaction.Transaction
	used map[uuid.UUID]struct{}
	now  func() time.Time
}

func New() *Store {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Store {
	return &Store{
		txs:  make(map[uuid.UUID]transaction.Transaction),
		used: make(map[uuid.UUID]struct{}),
		now:  now,
	}
}

func (s *Store) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insert(tx, s.now().UTC())

	return nil
}

// CreateTransactions inserts txs under a single lock, so readers see all of
// them or none. Each gets a distinct creation time to keep their order.
func (s *Store) CreateTransactions(_ context.Context, txs []*transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for i, tx := range txs {
		s.insert(tx, now.Add(time.Duration(i)*time.Microsecond))
	}

	return nil
}

func (s *Store) insert(tx *transaction.Transaction, now time.Time) {
	id := uuid.New()
	for _, taken := s.used[id]; taken; _, taken = s.used[id] {
		id = uuid.New()
	}

	tx.ID = id
	tx.CreatedAt = now
	tx.UpdatedAt = now

	s.txs[id] = *tx
	s.used[id] = struct{}{}
}

func (s *Store) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.txs[tx.ID]
	if !ok {
		return transaction.ErrNotFound
	}

	now := s.now().UTC()
	if !now.After(existing.UpdatedAt) {
		now = existing.UpdatedAt.Add(time.Microsecond)
	}

	existing.Amount = tx.Amount
	existing.Date = tx.Date
	existing.Description = tx.Description
	existing.Type = tx.Type
	existing.UpdatedAt = now
	s.txs[tx.ID] = existing

	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = now

	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[id]; !ok {
		return transaction.ErrNotFound
	}

	delete(s.txs, id)

	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]*transaction.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		txs = append(txs, &tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date)
		}

		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})

	return txs, nil
}
