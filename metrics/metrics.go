// Package metrics provides Prometheus metrics for ops-hub.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ops-hub/internal/domain"
)

var (
	// WellsTotal tracks the number of monitored wells.
	WellsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "opshub",
			Name:      "wells_total",
			Help:      "Number of monitored wells",
		},
	)

	// WellsDown tracks the number of wells currently down.
	WellsDown = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "opshub",
			Name:      "wells_down",
			Help:      "Number of wells currently down",
		},
	)

	// TicketsTotal tracks the number of work tickets in view.
	TicketsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "opshub",
			Name:      "tickets_total",
			Help:      "Number of work tickets in the dashboard window",
		},
	)

	// InvoicesTotal tracks the number of invoices in view.
	InvoicesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "opshub",
			Name:      "invoices_total",
			Help:      "Number of invoices in the dashboard window",
		},
	)

	// InvoicesOpen tracks the number of open invoices.
	InvoicesOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "opshub",
			Name:      "invoices_open",
			Help:      "Number of open invoices",
		},
	)

	// SignInsTotal counts sign-in attempts by outcome.
	SignInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opshub",
			Name:      "sign_ins_total",
			Help:      "Total number of sign-in attempts",
		},
		[]string{"status"},
	)
)

// RecordDashboard publishes the dashboard counters. Wire it as the
// HomeDashboard update observer.
func RecordDashboard(summary domain.DashboardSummary) {
	WellsTotal.Set(float64(summary.WellCount))
	WellsDown.Set(float64(summary.DownCount))
	TicketsTotal.Set(float64(summary.TicketCount))
	InvoicesTotal.Set(float64(summary.InvoiceCount))
	InvoicesOpen.Set(float64(summary.OpenInvoices))
}

// RecordSignIn records a sign-in attempt outcome.
func RecordSignIn(status string) {
	SignInsTotal.WithLabelValues(status).Inc()
}
