package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsRejected prometheus.Counter
	DegradedChecks   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "loandesk_ratelimit_rejected_total",
			Help: "Total requests rejected by the API rate limiter",
		}),
		DegradedChecks: factory.NewCounter(prometheus.CounterOpts{
			Name: "loandesk_ratelimit_degraded_checks_total",
			Help: "Rate limit checks answered by the in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementRejected() {
	if m != nil {
		m.RequestsRejected.Inc()
	}
}

func (m *Metrics) IncrementDegraded() {
	if m != nil {
		m.DegradedChecks.Inc()
	}
}
