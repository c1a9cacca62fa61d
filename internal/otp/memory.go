package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps pending codes in process memory. Expired entries are
// dropped lazily on access.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Record)}
}

func storeKey(purpose Purpose, key string) string {
	return string(purpose) + ":" + key
}

// Put stores a record, overwriting any pending one for the same key.
func (s *MemoryStore) Put(_ context.Context, purpose Purpose, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[storeKey(purpose, key)] = rec
	return nil
}

// Get returns the pending record, if any. Entries past a grace window beyond
// their expiry are dropped; entries within it are returned so the consumer
// can report expiry (and clean up) itself.
func (s *MemoryStore) Get(_ context.Context, purpose Purpose, key string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := storeKey(purpose, key)
	rec, ok := s.items[k]
	if !ok {
		return Record{}, false, nil
	}
	if time.Now().After(rec.ExpiresAt.Add(time.Hour)) {
		delete(s.items, k)
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Delete removes the pending record.
func (s *MemoryStore) Delete(_ context.Context, purpose Purpose, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, storeKey(purpose, key))
	return nil
}
