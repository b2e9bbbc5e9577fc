package ledger

import (
	"context"
	"sync"
)

// MemoryStore keeps records in memory. For tests and local dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	records []*Record
	failErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailWith makes every subsequent Append return err.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Append stores one record.
func (s *MemoryStore) Append(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of the stored records.
func (s *MemoryStore) Records() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]*Record, len(s.records))
	copy(records, s.records)
	return records
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
