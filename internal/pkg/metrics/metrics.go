package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuildsTotal counts builder results by strategy and outcome
	// (complete, forced, partial).
	BuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autobuild",
		Name:      "builds_total",
		Help:      "Configuration builder results by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	// RetryAttempts records how many allocate/fetch/build cycles a resolve took.
	RetryAttempts = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "autobuild",
		Name:      "retry_attempts",
		Help:      "Attempts used by the budget retry controller per resolve.",
		Buckets:   []float64{1, 2, 3, 4, 5, 10, 20, 30},
	}, []string{"strategy"})

	// PoolCacheLookups counts range query cache hits and misses.
	PoolCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autobuild",
		Name:      "pool_cache_lookups_total",
		Help:      "Candidate pool range-query cache lookups.",
	}, []string{"result"})

	// EdgeCacheLookups counts compatibility edge cache hits and misses.
	EdgeCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autobuild",
		Name:      "edge_cache_lookups_total",
		Help:      "Compatibility edge cache lookups.",
	}, []string{"result"})

	// ConfigurationsEmitted counts distinct configurations produced by the diversifier.
	ConfigurationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autobuild",
		Name:      "configurations_emitted_total",
		Help:      "Distinct complete configurations produced per strategy.",
	}, []string{"strategy"})

	// ActiveSessions tracks the number of requester sessions held in memory.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "autobuild",
		Name:      "active_sessions",
		Help:      "Requester sessions currently held by the session store.",
	})

	// ResolveDuration measures whole resolve requests.
	ResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "autobuild",
		Name:      "resolve_duration_seconds",
		Help:      "Wall time of resolve requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})
)
