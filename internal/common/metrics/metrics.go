package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CollectionActionsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collection_actions_emitted_total",
			Help: "Total number of collection actions produced by the matcher",
		},
	)

	CollectionActionsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_actions_sent_total",
			Help: "Total number of collection messages successfully dispatched",
		},
		[]string{"channel"},
	)

	CollectionActionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collection_actions_failed_total",
			Help: "Total number of collection dispatch failures",
		},
		[]string{"channel"},
	)

	CollectionDuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collection_duplicates_skipped_total",
			Help: "Actions skipped because the dispatch ledger already recorded a send",
		},
	)

	CollectionBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "collection_batch_duration_seconds",
			Help: "Duration of a full collection batch run in seconds",
		},
	)

	ScoreCalculations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_calculations_total",
			Help: "Total number of client score calculations",
		},
	)
)
