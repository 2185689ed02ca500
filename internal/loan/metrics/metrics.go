package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the loan lifecycle.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "loandesk_loan_applications_total",
			Help: "Total loan applications submitted",
		}),
	}
}

// IncrementApplications records one submitted application.
func (m *Metrics) IncrementApplications() {
	if m != nil {
		m.ApplicationsSubmitted.Inc()
	}
}
