package registry

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store for tests and single-instance
// deployments. Counters do not survive a restart, which re-opens the
// window the counter exists to close; use the Redis store in production.
type MemoryStore struct {
	mu       sync.Mutex
	versions map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{versions: make(map[string]int64)}
}

func (s *MemoryStore) Increment(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[userID]++
	return s.versions[userID], nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.versions[userID]
	if !ok {
		return 0, ErrNotFound
	}
	return v, nil
}
