package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	OpenSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chargehub_open_sessions",
		Help: "Number of charging sessions not yet in a terminal state",
	})

	EnergyDeliveredWh = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chargehub_energy_delivered_wh_total",
		Help: "Total energy delivered across completed sessions, in Wh",
	})

	StationsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chargehub_stations_registered_total",
		Help: "Total stations added to the registry",
	})

	// Infrastructure metrics
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chargehub_operations_total",
		Help: "Core operations served, by operation and outcome",
	}, []string{"operation", "outcome"})

	JournalWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chargehub_journal_writes_total",
		Help: "Event records appended to the journal, by subject",
	}, []string{"subject"})
)
