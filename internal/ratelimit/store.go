// internal/ratelimit/store.go
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of consuming one slot in a fixed window.
type Decision struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Store tracks fixed request windows. Implementations must be safe for
// concurrent use. The in-memory store is the single-instance default; the
// Redis store externalizes state for multi-instance deployments without
// changing the contract.
type Store interface {
	// Take consumes one slot in the window identified by key. A fresh
	// window is created when absent or expired; a window at its limit
	// denies without extending resetAt.
	Take(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

type windowState struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in a mutex-guarded map.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*windowState
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*windowState),
		now:     time.Now,
	}
}

func (s *MemoryStore) Take(_ context.Context, key string, limit int, window time.Duration) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &windowState{count: 1, resetAt: now.Add(window)}
		s.windows[key] = w
		return Decision{Allowed: true, Remaining: limit - 1, Limit: limit, ResetAt: w.resetAt}, nil
	}

	if w.count < limit {
		w.count++
		return Decision{Allowed: true, Remaining: limit - w.count, Limit: limit, ResetAt: w.resetAt}, nil
	}

	// Exhausted: deny without touching count or resetAt.
	return Decision{Allowed: false, Remaining: 0, Limit: limit, ResetAt: w.resetAt}, nil
}

// SetNow overrides the clock for tests.
func (s *MemoryStore) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
