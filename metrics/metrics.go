// Package metrics exposes Prometheus instrumentation for the ledger service.
// Collectors are registered on the default registry via promauto and served
// at /metrics by the API router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsPosted counts successfully posted repair transactions.
	TransactionsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_posted_total",
		Help: "Repair transactions posted to the ledger.",
	})

	// PaymentsRecorded counts successfully recorded supplier payments.
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_supplier_payments_recorded_total",
		Help: "Supplier payments recorded and allocated.",
	})

	// CollectionsCleared counts privileged clears, by collection.
	CollectionsCleared = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_collections_cleared_total",
		Help: "Privileged clears of a ledger collection.",
	}, []string{"collection"})

	// ValidationFailures counts requests rejected at the validation boundary.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_validation_failures_total",
		Help: "Requests rejected before any mutation.",
	}, []string{"operation"})

	// EventSubscribers tracks currently connected event-stream observers.
	EventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ledger_event_subscribers",
		Help: "Currently subscribed event-stream observers.",
	})

	// EventsPublished counts events delivered to a subscriber channel.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_events_published_total",
		Help: "Events delivered to subscriber buffers, by kind.",
	}, []string{"kind"})

	// EventsDropped counts events dropped because a subscriber was slow.
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_events_dropped_total",
		Help: "Events dropped on full subscriber buffers, by kind.",
	}, []string{"kind"})
)
