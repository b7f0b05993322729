package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardano_explorer",
			Name:      "upstream_requests_total",
			Help:      "Upstream calls by provider, leg and HTTP status (0 for transport failures).",
		},
		[]string{"provider", "leg", "status"},
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cardano_explorer",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream call latency by provider and leg.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "leg"},
	)

	Aggregations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardano_explorer",
			Name:      "aggregations_total",
			Help:      "Asset aggregation requests by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	EnrichmentFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cardano_explorer",
			Name:      "enrichment_failures_total",
			Help:      "Swallowed metadata, pricing and auto-save failures.",
		},
		[]string{"stage"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cardano_explorer",
			Name:      "rate_limited_requests_total",
			Help:      "Inbound requests rejected by the rate limiter.",
		},
	)

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequests, UpstreamLatency, Aggregations, EnrichmentFailures, RateLimited)
	})
}

// ObserveUpstream records one upstream call
func ObserveUpstream(provider, leg string, status int, started time.Time) {
	UpstreamRequests.WithLabelValues(provider, leg, strconv.Itoa(status)).Inc()
	UpstreamLatency.WithLabelValues(provider, leg).Observe(time.Since(started).Seconds())
}
