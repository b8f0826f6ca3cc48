// Package memory provides in-memory adapter implementations, mostly for
// tests and single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Store implements ports.RecordStore with a mutex-guarded map.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.Record
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*domain.Record),
	}
}

// Save persists the record for a call ID.
func (s *Store) Save(ctx context.Context, callID string, rec *domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[callID] = rec
	return nil
}

// Load retrieves the record for a call ID.
func (s *Store) Load(ctx context.Context, callID string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[callID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return rec, nil
}

// List returns the stored call IDs in deterministic order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the record for a call ID.
func (s *Store) Delete(ctx context.Context, callID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, callID)
	return nil
}
