// internal/cooldown/registry_test.go

package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestion-engine/internal/common/logger"
)

func TestCooldownLifecycle(t *testing.T) {
	store := NewMemoryStore()
	registry := NewRegistry(store, 10*time.Minute, logger.NewTestLogger(t))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.SetNow(func() time.Time { return now })
	ctx := context.Background()

	assert.False(t, registry.IsCoolingDown(ctx, "primary"))

	registry.Trigger(ctx, "primary")
	assert.True(t, registry.IsCoolingDown(ctx, "primary"))
	assert.False(t, registry.IsCoolingDown(ctx, "secondary"))

	// Just short of the deadline: still cooling down.
	now = now.Add(10*time.Minute - time.Second)
	assert.True(t, registry.IsCoolingDown(ctx, "primary"))

	// Past the deadline the cooldown clears by time alone.
	now = now.Add(2 * time.Second)
	assert.False(t, registry.IsCoolingDown(ctx, "primary"))
}

func TestCooldownRetriggerIsFixedNotCumulative(t *testing.T) {
	store := NewMemoryStore()
	registry := NewRegistry(store, 10*time.Minute, logger.NewTestLogger(t))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.SetNow(func() time.Time { return now })
	ctx := context.Background()

	registry.Trigger(ctx, "primary")
	now = now.Add(5 * time.Minute)
	registry.Trigger(ctx, "primary")

	// Deadline is 10 minutes from the second trigger, not 20 from the first.
	until, ok, err := store.Get(ctx, "primary")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now.Add(10*time.Minute), until)
}

func TestCooldownReadIsPure(t *testing.T) {
	store := NewMemoryStore()
	registry := NewRegistry(store, 10*time.Minute, logger.NewTestLogger(t))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.SetNow(func() time.Time { return now })
	ctx := context.Background()

	registry.Trigger(ctx, "primary")
	deadline, _, err := store.Get(ctx, "primary")
	require.NoError(t, err)

	// Repeated reads never move the deadline.
	for i := 0; i < 5; i++ {
		registry.IsCoolingDown(ctx, "primary")
	}
	after, _, err := store.Get(ctx, "primary")
	require.NoError(t, err)
	assert.Equal(t, deadline, after)
}

func TestCooldownDefaultDuration(t *testing.T) {
	store := NewMemoryStore()
	registry := NewRegistry(store, 0, logger.NewTestLogger(t))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	registry.SetNow(func() time.Time { return now })
	ctx := context.Background()

	registry.Trigger(ctx, "primary")
	until, ok, err := store.Get(ctx, "primary")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now.Add(DefaultDuration), until)
}

type failingCooldownStore struct{}

func (failingCooldownStore) Get(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, assert.AnError
}
func (failingCooldownStore) Set(context.Context, string, time.Time) error {
	return assert.AnError
}

func TestCooldownFailSafe(t *testing.T) {
	registry := NewRegistry(failingCooldownStore{}, 10*time.Minute, logger.NewTestLogger(t))

	// A broken store must never block generation.
	assert.False(t, registry.IsCoolingDown(context.Background(), "primary"))
}
