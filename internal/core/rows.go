package core

import (
	"context"
	"sync"
)

// RowStore holds each table's ordered row sequence, keyed by
// "schema.table".
type RowStore interface {
	// Load returns the table's rows in insertion order. A missing key
	// yields an empty sequence, never an error. Callers must treat the
	// returned rows as read-only.
	Load(ctx context.Context, key string) ([]Row, error)

	// Replace atomically swaps the table's entire row sequence. There
	// is no partial-row update; a reader never observes a half-replaced
	// sequence.
	Replace(ctx context.Context, key string, rows []Row) error

	// Keys returns all table keys in storage order.
	Keys(ctx context.Context) ([]string, error)
}

// MemoryRowStore is the in-memory RowStore. Each Replace installs a
// fresh slice under the write lock, so readers holding a previously
// loaded slice keep a consistent snapshot and new readers observe the
// swap in full. Replace on one table is linearizable with respect to
// every Load issued after it returns.
type MemoryRowStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
	order  []string // key insertion order, for Keys
}

// NewMemoryRowStore returns an empty store.
func NewMemoryRowStore() *MemoryRowStore {
	return &MemoryRowStore{tables: make(map[string][]Row)}
}

// Load returns the current snapshot for key, or an empty sequence.
func (s *MemoryRowStore) Load(_ context.Context, key string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables[key], nil
}

// Replace swaps the entire row sequence for key. The input slice is
// copied so later caller mutations cannot alias stored state.
func (s *MemoryRowStore) Replace(_ context.Context, key string, rows []Row) error {
	fresh := make([]Row, len(rows))
	copy(fresh, rows)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tables[key]; !exists {
		s.order = append(s.order, key)
	}
	s.tables[key] = fresh
	return nil
}

// Keys returns the table keys in the order tables were first created.
func (s *MemoryRowStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}
