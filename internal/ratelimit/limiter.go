// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"suggestion-engine/internal/common/config"
	"suggestion-engine/internal/common/logger"
	"suggestion-engine/internal/common/metrics"
)

// Operations with independently configured quotas.
const (
	OperationGeneral      = "general"
	OperationAIGeneration = "ai_generation"
)

// Result reports the limiter's verdict. Callers translate a denial into a
// 429 with Retry-After = ResetAt - now.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	Operation string
}

// Limiter enforces per-tenant, per-operation fixed windows. Each check
// consumes quota, so callers must check exactly once per logical request.
type Limiter struct {
	store   Store
	tenants config.TenantsConfig
	log     logger.Logger
}

func NewLimiter(store Store, tenants config.TenantsConfig, log logger.Logger) *Limiter {
	return &Limiter{
		store:   store,
		tenants: tenants,
		log:     log.With(map[string]interface{}{"component": "rate-limiter"}),
	}
}

// Check admits the request only when both the minute and the hour window
// admit it. A denial carries the denying window's limit and reset time.
// Store failures fail open with a warning; quota protection must not take
// the service down with it.
func (l *Limiter) Check(ctx context.Context, tenantID, operation string) Result {
	limits := l.tenants.LimitsFor(tenantID)

	var perMinute, perHour int
	switch operation {
	case OperationAIGeneration:
		perMinute, perHour = limits.AIPerMinute, limits.AIPerHour
	default:
		perMinute, perHour = limits.RequestsPerMinute, limits.RequestsPerHour
	}

	minute, err := l.store.Take(ctx, windowKey(tenantID, operation, "minute"), perMinute, time.Minute)
	if err != nil {
		l.log.WithError(err).Warn("rate limit store unavailable, failing open", map[string]interface{}{
			"tenantId":  tenantID,
			"operation": operation,
		})
		return Result{Allowed: true, Limit: perMinute, Remaining: perMinute, ResetAt: time.Now().Add(time.Minute), Operation: operation}
	}
	if !minute.Allowed {
		metrics.RateLimitRejections.WithLabelValues(operation).Inc()
		return resultFrom(minute, operation)
	}

	hour, err := l.store.Take(ctx, windowKey(tenantID, operation, "hour"), perHour, time.Hour)
	if err != nil {
		l.log.WithError(err).Warn("rate limit store unavailable, failing open", map[string]interface{}{
			"tenantId":  tenantID,
			"operation": operation,
		})
		return resultFrom(minute, operation)
	}
	if !hour.Allowed {
		metrics.RateLimitRejections.WithLabelValues(operation).Inc()
		return resultFrom(hour, operation)
	}

	// Both admitted: report the tighter window.
	if hour.Remaining < minute.Remaining {
		return resultFrom(hour, operation)
	}
	return resultFrom(minute, operation)
}

func resultFrom(d Decision, operation string) Result {
	return Result{
		Allowed:   d.Allowed,
		Limit:     d.Limit,
		Remaining: d.Remaining,
		ResetAt:   d.ResetAt,
		Operation: operation,
	}
}

func windowKey(tenantID, operation, window string) string {
	return fmt.Sprintf("ratelimit:%s:%s:%s", tenantID, operation, window)
}
