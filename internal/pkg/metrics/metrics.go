// Package metrics holds the Prometheus instruments for the booking engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	BookingsTotal             *prometheus.CounterVec
	SlotsGenerated            prometheus.Counter
	PostCommitInconsistencies prometheus.Counter
	CalendarSyncFailures      prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drivebook",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome (committed, conflict, cooldown, insufficient_credit, validation, error).",
		}, []string{"outcome"}),
		SlotsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drivebook",
			Name:      "slots_generated_total",
			Help:      "Candidate start times emitted by availability queries.",
		}),
		PostCommitInconsistencies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drivebook",
			Name:      "post_commit_inconsistencies_total",
			Help:      "Bookings whose credit deduction failed after the reservation committed.",
		}),
		CalendarSyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drivebook",
			Name:      "calendar_sync_failures_total",
			Help:      "Post-booking external calendar pushes that failed.",
		}),
	}
	reg.MustRegister(m.BookingsTotal, m.SlotsGenerated, m.PostCommitInconsistencies, m.CalendarSyncFailures)
	return m
}
