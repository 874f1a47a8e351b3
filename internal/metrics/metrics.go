// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArchiveCycles counts per-group archive cycle runs by outcome
	// (archived, partial, not_attempted).
	ArchiveCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_archive_cycles_total",
		Help: "Per-group archive cycle runs by outcome.",
	}, []string{"outcome"})

	// ArchiveCycleDuration tracks how long one group's archive cycle takes.
	ArchiveCycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_archive_cycle_duration_seconds",
		Help:    "Duration of one group's archive cycle.",
		Buckets: prometheus.DefBuckets,
	})

	// SettledDebts counts closeDebt operations that reached the ledger.
	SettledDebts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_settled_debts_total",
		Help: "Settled-debt entries appended to the ledger.",
	})

	// ExpiredCategories counts temporary categories purged by the expiry sweep.
	ExpiredCategories = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_expired_categories_total",
		Help: "Temporary categories purged after their event end date.",
	})
)
