// Package metrics holds the Prometheus collectors for the simulation service.
//
// Collectors are package-level and registered once on the metrics server's
// registry via MustRegister.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "khetscore"

var (
	// SeasonsScored counts scored seasons by weather shock ("None" when no shock fired).
	SeasonsScored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seasons_scored_total",
			Help:      "Total number of seasons scored, by weather shock",
		},
		[]string{"shock"},
	)

	// SessionsCompleted counts sessions that reached the third season's likelihood submission.
	SessionsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Total number of completed three-season sessions",
		},
	)

	// ValidationErrors counts rejected inputs by kind.
	ValidationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Total number of rejected inputs, by kind",
		},
		[]string{"kind"},
	)

	// PersistenceErrors counts store failures by operation.
	PersistenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_errors_total",
			Help:      "Total number of store failures, by operation",
		},
		[]string{"op"},
	)

	// SimulationsSaved counts simulations written to the store.
	SimulationsSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_saved_total",
			Help:      "Total number of saved simulations",
		},
	)

	// ActiveSessions tracks in-memory sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of in-memory simulation sessions",
		},
	)
)

// Collectors returns every collector defined in this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		SeasonsScored,
		SessionsCompleted,
		ValidationErrors,
		PersistenceErrors,
		SimulationsSaved,
		ActiveSessions,
		HTTPRequests,
		HTTPDuration,
	}
}

// MustRegister registers every collector on r.
func MustRegister(r prometheus.Registerer) {
	r.MustRegister(Collectors()...)
}
