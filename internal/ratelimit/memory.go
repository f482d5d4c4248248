package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in a mutex-guarded map. Records are created
// lazily on first hit and removed by Sweep once expired; an expired record
// that is hit before the sweep is reused in place.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window

	// now is swappable in tests to step across window boundaries.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *MemoryStore) Check(_ context.Context, key string, limit int, windowSize time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		s.windows[key] = &window{count: 1, resetAt: now.Add(windowSize)}
		return Result{Allowed: true, Remaining: limit - 1, ResetIn: windowSize}, nil
	}

	if w.count >= limit {
		return Result{Allowed: false, Remaining: 0, ResetIn: w.resetAt.Sub(now)}, nil
	}

	w.count++
	return Result{Allowed: true, Remaining: limit - w.count, ResetIn: w.resetAt.Sub(now)}, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of live records, expired or not. Test hook.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
