// Package metrics defines the Prometheus instruments for the Caravan
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caravan_lookups_total",
			Help: "Total number of resolver lookups",
		},
		[]string{"family", "outcome"}, // outcome: hit, miss, malformed
	)

	EntitiesLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "caravan_entities_loaded",
			Help: "Number of entities in the current registry snapshot",
		},
		[]string{"family"},
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caravan_records_skipped_total",
			Help: "Total number of raw records skipped for validation failures",
		},
		[]string{"family"},
	)

	DatasetReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caravan_dataset_reloads_total",
			Help: "Total number of successful dataset reloads",
		},
	)

	DatasetReloadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "caravan_dataset_reload_failures_total",
			Help: "Total number of failed dataset reloads",
		},
	)

	OperationsFolded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "caravan_transport_operations_folded",
			Help: "Transport operation records shadowed by a later record with the same vehicle key in the current snapshot",
		},
	)
)

// OutcomeFor maps a lookup error to the metrics outcome label.
const (
	OutcomeHit       = "hit"
	OutcomeMiss      = "miss"
	OutcomeMalformed = "malformed"
)
