package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics provides observability for the decision module.
type Metrics struct {
	// Decision outcomes by status (cache hits are not counted)
	DecisionOutcome *prometheus.CounterVec

	// Cache lookups by result
	CacheLookups *prometheus.CounterVec

	// Evaluation latency on the miss path
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance with all decision metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecisionOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loandesk_loan_decisions_total",
			Help: "Total loan decisions computed, by status",
		}, []string{"status"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loandesk_decision_cache_lookups_total",
			Help: "Decision cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss", "error"

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loandesk_decision_evaluate_duration_seconds",
			Help:    "Duration of decision evaluation including the applicant fetch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementOutcome records a computed decision.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(status).Inc()
	}
}

// IncrementCacheLookup records the result of a cache read.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveEvaluateLatency records the evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
