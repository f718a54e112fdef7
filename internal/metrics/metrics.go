// Package metrics exposes Prometheus instrumentation for provider
// orchestration. Registration is opt-in: callers that never call Init get
// no-op recording.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerInvocationsTotal *prometheus.CounterVec
	invocationDuration       *prometheus.HistogramVec
	cacheHitsTotal           prometheus.Counter

	metricsOnce sync.Once
)

// Init registers all Prometheus metrics. Safe to call more than once.
func Init() {
	metricsOnce.Do(func() {
		providerInvocationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedauth_provider_invocations_total",
				Help: "Total number of credential provider invocations",
			},
			[]string{"provider", "outcome"},
		)

		invocationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "feedauth_provider_invocation_duration_seconds",
				Help:    "Duration of credential provider invocations in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 30, 120, 600},
			},
			[]string{"provider"},
		)

		cacheHitsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "feedauth_credential_cache_hits_total",
				Help: "Total number of credential requests served from the result cache",
			},
		)
	})
}

// RecordInvocation records one completed provider invocation.
func RecordInvocation(provider, outcome string, duration time.Duration) {
	if providerInvocationsTotal == nil {
		return
	}
	providerInvocationsTotal.WithLabelValues(provider, outcome).Inc()
	invocationDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordCacheHit records one credential request answered from the cache.
func RecordCacheHit() {
	if cacheHitsTotal == nil {
		return
	}
	cacheHitsTotal.Inc()
}
