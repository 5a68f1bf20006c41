// internal/cooldown/store.go
package cooldown

import (
	"context"
	"sync"
	"time"
)

// Store persists one cooldown deadline per provider. Implementations must
// be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, provider string) (time.Time, bool, error)
	Set(ctx context.Context, provider string, until time.Time) error
}

// MemoryStore is the single-instance default: a mutex-guarded map.
type MemoryStore struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{deadlines: make(map[string]time.Time)}
}

func (s *MemoryStore) Get(_ context.Context, provider string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.deadlines[provider]
	return until, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, provider string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines[provider] = until
	return nil
}
