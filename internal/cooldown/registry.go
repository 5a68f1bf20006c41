// internal/cooldown/registry.go
package cooldown

import (
	"context"
	"time"

	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/metrics"
)

// DefaultDuration is used when configuration does not override it.
const DefaultDuration = 10 * time.Minute

// Registry tracks a cooldown deadline per downstream provider. A cooldown
// clears only by time elapsing; there is no explicit reset.
type Registry struct {
	store    Store
	duration time.Duration
	now      func() time.Time
	log      logger.Logger
}

func NewRegistry(store Store, duration time.Duration, log logger.Logger) *Registry {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Registry{
		store:    store,
		duration: duration,
		now:      time.Now,
		log:      log.With(map[string]interface{}{"component": "cooldown-registry"}),
	}
}

// Trigger unconditionally sets the deadline to now + the fixed duration.
// A second trigger while already cooling down extends to the same fixed
// duration from the new trigger time; there is no exponential backoff.
func (r *Registry) Trigger(ctx context.Context, provider string) {
	until := r.now().Add(r.duration)
	if err := r.store.Set(ctx, provider, until); err != nil {
		r.log.WithError(err).Warn("failed to persist cooldown", map[string]interface{}{
			"provider": provider,
		})
		return
	}

	metrics.ProviderCooldowns.WithLabelValues(provider).Inc()
	r.log.Warn("provider cooldown triggered", map[string]interface{}{
		"provider":      provider,
		"cooldownUntil": until.UTC().Format(time.RFC3339),
	})
}

// IsCoolingDown is a pure time comparison; it never mutates the record, so
// read-only callers cannot race each other.
func (r *Registry) IsCoolingDown(ctx context.Context, provider string) bool {
	until, ok, err := r.store.Get(ctx, provider)
	if err != nil {
		r.log.WithError(err).Warn("failed to read cooldown, assuming none", map[string]interface{}{
			"provider": provider,
		})
		return false
	}
	return ok && r.now().Before(until)
}

// SetNow overrides the clock for tests.
func (r *Registry) SetNow(now func() time.Time) {
	r.now = now
}
