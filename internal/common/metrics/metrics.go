// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_requests_total",
			Help: "Total number of suggestion requests by outcome",
		},
		[]string{"status"},
	)

	SuggestionRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "suggestion_request_duration_seconds",
			Help: "Duration of suggestion request handling in seconds",
		},
		[]string{"status"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"operation"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of fresh response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of response cache misses or stale reads",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_evictions_total",
			Help: "Total number of entries removed by the cache sweeper",
		},
	)

	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_calls_total",
			Help: "Total number of completion provider invocations by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ProviderCooldowns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_cooldowns_total",
			Help: "Total number of cooldowns triggered per provider",
		},
		[]string{"provider"},
	)

	SourceFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_source_failures_total",
			Help: "Total number of failed geo/event/weather source fetches",
		},
		[]string{"source"},
	)
)
