package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Outcome of each catalog refresh run: success, no_data, fetch_error, save_error
	RefreshRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "youth_policy_refresh_runs_total",
		Help: "Total number of youth policy refresh runs by result",
	}, []string{"result"})

	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "youth_policy_refresh_duration_seconds",
		Help:    "Duration of a full youth policy refresh",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	// Rows touched by reconciliation, labelled insert, update or delete
	ReconcileChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "youth_policy_reconcile_changes_total",
		Help: "Policies inserted, updated or deleted by reconciliation",
	}, []string{"op"})

	PageRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "youth_policy_page_retries_total",
		Help: "Retried youth policy page requests",
	})

	// hit, miss, corrupt or error
	HotCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hot_policy_cache_requests_total",
		Help: "Hot policy cache lookups by result",
	}, []string{"result"})

	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "policy_recommend_latency_seconds",
		Help:    "Latency of composing policy recommendations",
		Buckets: prometheus.DefBuckets,
	})
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RefreshRuns,
			RefreshDuration,
			ReconcileChanges,
			PageRetries,
			HotCacheRequests,
			RecommendLatency,
		)
	})
}
