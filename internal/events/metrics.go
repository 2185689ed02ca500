package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts event deliveries.
type Metrics struct {
	Published       prometheus.Counter
	PublishFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "loandesk_events_published_total",
			Help: "Loan events acknowledged by the broker",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "loandesk_events_publish_failures_total",
			Help: "Loan events the broker rejected or that timed out",
		}),
	}
}

func (m *Metrics) IncPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) IncPublishFailures() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}
