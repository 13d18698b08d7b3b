package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	RecommendationsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratesense_recommendations_computed_total",
		Help: "Recommendations produced by the engine, by adjustment type",
	}, []string{"type"})

	PrecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ratesense_precompute_duration_seconds",
		Help:    "Wall time of full precompute runs",
		Buckets: prometheus.DefBuckets,
	})

	DecisionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratesense_decisions_recorded_total",
		Help: "Operator decisions recorded, by verdict",
	}, []string{"decision"})

	RatePushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratesense_rate_pushes_total",
		Help: "Rate updates pushed to the channel manager",
	}, []string{"status"})

	// Infrastructure metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratesense_http_requests_total",
		Help: "HTTP requests served, by route and status",
	}, []string{"method", "path", "status"})

	PMSRequestFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratesense_pms_request_failures_total",
		Help: "Failed requests against the PMS APIs",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratesense_cache_hits_total",
		Help: "History cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratesense_cache_misses_total",
		Help: "History cache misses",
	})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ratesense_database_latency_seconds",
		Help:    "Latency of history page queries",
		Buckets: prometheus.DefBuckets,
	})
)
