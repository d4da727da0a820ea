package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count     int
	first     time.Time
	expiresAt time.Time
}

// MemoryStore is the in-process fallback attempt store.  Entries expire
// lazily on access; there is no background sweeper because the key space
// (one entry per failing client) stays small.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) (int, time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return 0, time.Time{}, false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return 0, time.Time{}, false, nil
	}
	return e.count, e.first, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, count int, first time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{count: count, first: first, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
