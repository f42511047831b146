package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncRuns counts collection runs by outcome
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_sync_runs_total",
			Help: "Total number of synchronization runs",
		},
		[]string{"status"},
	)

	// RepoSyncFailures counts repositories whose reconciliation failed
	RepoSyncFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_repo_sync_failures_total",
			Help: "Total number of per-repository synchronization failures",
		},
	)

	// ActivityDaysStored counts daily activity aggregates written to the store
	ActivityDaysStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_activity_days_stored_total",
			Help: "Total number of daily activity records inserted",
		},
	)
)
