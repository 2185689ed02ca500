package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds transport-level Prometheus metrics shared by all routes.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers the HTTP metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loandesk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status_code"}),
	}
}

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(method, route, statusCode string, d time.Duration) {
	if m != nil {
		m.HTTPRequestDuration.WithLabelValues(method, route, statusCode).Observe(d.Seconds())
	}
}
