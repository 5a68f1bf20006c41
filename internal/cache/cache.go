// internal/cache/cache.go

// Package cache provides short-lived caching of serialized suggestion
// responses keyed by a request fingerprint.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/metrics"
)

// Store is the backing storage for cached payloads.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Fingerprint identifies a cacheable request. Coordinates are rounded to
// three decimals (roughly 110m) so nearby requests share an entry, and
// mood is lowercased.
func Fingerprint(tenantID string, lat, lng float64, mood string) string {
	return fmt.Sprintf("suggest:%s:%.3f:%.3f:%s", tenantID, lat, lng, strings.ToLower(strings.TrimSpace(mood)))
}

// ResponseCache wraps a Store with hit/miss accounting and the
// compute-on-miss flow.
type ResponseCache struct {
	store Store
	ttl   time.Duration
	log   logger.Logger
}

func New(store Store, ttl time.Duration, log logger.Logger) *ResponseCache {
	return &ResponseCache{store: store, ttl: ttl, log: log}
}

// GetOrCompute returns the cached payload for key, or invokes compute,
// stores the result, and returns it. Repeated hits within the TTL return
// byte-identical payloads. Store failures degrade to compute-only.
func (c *ResponseCache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	payload, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache read failed, computing fresh response", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	if found {
		metrics.CacheHits.Inc()
		return payload, true, nil
	}
	metrics.CacheMisses.Inc()

	payload, err = compute(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.log.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return payload, false, nil
}

// ==========================
// In-memory store
// ==========================

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
	ttl      time.Duration
}

// MemoryStore keeps entries in a map, checks staleness lazily on read,
// and runs a periodic sweep so idle entries do not accumulate.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.now().Sub(entry.storedAt) >= entry.ttl {
		delete(s.entries, key)
		metrics.CacheEvictions.Inc()
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{payload: payload, storedAt: s.now(), ttl: ttl}
	return nil
}

// StartSweeper evicts expired entries every interval until Stop is called.
func (s *MemoryStore) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.done:
				return
			}
		}
	}()
}

func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.Sub(entry.storedAt) >= entry.ttl {
			delete(s.entries, key)
			metrics.CacheEvictions.Inc()
		}
	}
}

// SetNow overrides the clock for tests.
func (s *MemoryStore) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
