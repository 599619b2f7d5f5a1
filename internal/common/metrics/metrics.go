// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PersonasComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_personas_computed_total",
			Help: "Total number of persona results computed, by winning persona",
		},
		[]string{"persona"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of quiz submissions, by outcome",
		},
		[]string{"status"},
	)

	MottoResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_motto_responses_total",
			Help: "Mottos served, by kind and source (ai, cache, fallback)",
		},
		[]string{"kind", "source"},
	)

	MottoDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_motto_duration_seconds",
			Help:    "Duration of motto generation including fallbacks",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	AnswerStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answer_store_operations_total",
			Help: "Answer store operations, by operation and outcome",
		},
		[]string{"op", "status"},
	)

	CountCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_count_cache_lookups_total",
			Help: "Submission count cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
