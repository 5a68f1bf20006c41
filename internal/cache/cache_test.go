// internal/cache/cache_test.go

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestion-engine/internal/common/logger"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		tenantID string
		lat, lng float64
		mood     string
		expected string
	}{
		{
			name:     "coordinates rounded to three decimals",
			tenantID: "tenant-1", lat: 40.712845, lng: -74.006012, mood: "social",
			expected: "suggest:tenant-1:40.713:-74.006:social",
		},
		{
			name:     "mood lowercased and trimmed",
			tenantID: "tenant-1", lat: 40.713, lng: -74.006, mood: "  SoCiAl  ",
			expected: "suggest:tenant-1:40.713:-74.006:social",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fingerprint(tt.tenantID, tt.lat, tt.lng, tt.mood))
		})
	}

	// Nearby requests collide on purpose; different tenants never do.
	assert.Equal(t,
		Fingerprint("tenant-1", 40.7128, -74.0060, "social"),
		Fingerprint("tenant-1", 40.71284, -74.00601, "SOCIAL"))
	assert.NotEqual(t,
		Fingerprint("tenant-1", 40.7128, -74.0060, "social"),
		Fingerprint("tenant-2", 40.7128, -74.0060, "social"))
}

func TestGetOrComputeSingleCompute(t *testing.T) {
	store := NewMemoryStore()
	c := New(store, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	computes := 0
	compute := func(context.Context) ([]byte, error) {
		computes++
		return []byte(`{"aiCards":[]}`), nil
	}

	first, cached, err := c.GetOrCompute(ctx, "suggest:tenant-1:40.713:-74.006:social", compute)
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := c.GetOrCompute(ctx, "suggest:tenant-1:40.713:-74.006:social", compute)
	require.NoError(t, err)
	assert.True(t, cached)

	assert.Equal(t, 1, computes)
	assert.Equal(t, first, second, "cached payload must be byte-identical")
}

func TestGetOrComputeTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return now })

	c := New(store, 5*time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	computes := 0
	compute := func(context.Context) ([]byte, error) {
		computes++
		return []byte("payload"), nil
	}

	_, _, err := c.GetOrCompute(ctx, "key", compute)
	require.NoError(t, err)

	now = now.Add(4 * time.Minute)
	_, cached, err := c.GetOrCompute(ctx, "key", compute)
	require.NoError(t, err)
	assert.True(t, cached)

	// Past the TTL the entry is stale and recomputed.
	now = now.Add(2 * time.Minute)
	_, cached, err = c.GetOrCompute(ctx, "key", compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, computes)
}

func TestGetOrComputeComputeFailure(t *testing.T) {
	c := New(NewMemoryStore(), time.Minute, logger.NewTestLogger(t))

	_, _, err := c.GetOrCompute(context.Background(), "key", func(context.Context) ([]byte, error) {
		return nil, assert.AnError
	})
	require.Error(t, err)

	// Failures are never cached.
	_, cached, err := c.GetOrCompute(context.Background(), "key", func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "stale", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "fresh", []byte("b"), time.Hour))

	now = now.Add(2 * time.Minute)
	store.sweep()

	store.mu.Lock()
	_, staleThere := store.entries["stale"]
	_, freshThere := store.entries["fresh"]
	store.mu.Unlock()

	assert.False(t, staleThere)
	assert.True(t, freshThere)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(client)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "key", []byte("payload"), time.Minute))

	payload, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("payload"), payload)

	mr.FastForward(2 * time.Minute)

	_, found, err = store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}
