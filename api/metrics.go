package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests labeled by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	entriesPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entries_placed_total",
			Help: "Total number of entries accepted onto boards",
		},
	)
	boardsSettledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "boards_settled_total",
			Help: "Total number of boards settled",
		},
	)
	balanceChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balance_changes_total",
			Help: "Total number of balance changes labeled by ledger reason",
		},
		[]string{"reason"},
	)
)

// CountEntryPlaced increments the placed-entries counter. Registered as an
// event bus consumer in cmd/run.go.
func CountEntryPlaced() {
	entriesPlacedTotal.Inc()
}

// CountBoardSettled increments the settled-boards counter
func CountBoardSettled() {
	boardsSettledTotal.Inc()
}

// CountBalanceChange increments the balance-change counter for a reason
func CountBalanceChange(reason string) {
	balanceChangesTotal.WithLabelValues(reason).Inc()
}
