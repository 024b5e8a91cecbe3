package v1

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the collectors of the v1 API.
var Metrics = []prometheus.Collector{
	documentWrites,
	subscribers,
}

var documentWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "budgetmaster",
		Name:      "ledger_document_writes_total",
		Help:      "How many ledger documents were written, partitioned by operation.",
	},
	[]string{"operation"},
)

var subscribers = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "budgetmaster",
		Name:      "ledger_event_subscribers",
		Help:      "Number of open ledger event streams.",
	},
)
