package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Submissions      *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	Curations        prometheus.Counter
	SelfService      *prometheus.CounterVec
	ThrottledClients prometheus.Counter
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aiddesk_submissions_total",
			Help: "Requests submitted, by category",
		}, []string{"category"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aiddesk_transitions_total",
			Help: "Successful status transitions",
		}, []string{"from", "to"}),
		Curations: f.NewCounter(prometheus.CounterOpts{
			Name: "aiddesk_curations_total",
			Help: "Successful curation writes",
		}),
		SelfService: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aiddesk_self_service_total",
			Help: "Self-service operations by operation and outcome",
		}, []string{"op", "outcome"}),
		ThrottledClients: f.NewCounter(prometheus.CounterOpts{
			Name: "aiddesk_self_service_throttled_total",
			Help: "Self-service attempts rejected by the limiter",
		}),
	}
}

func (m *Metrics) IncSubmission(category string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(category).Inc()
}

func (m *Metrics) IncTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncCuration() {
	if m == nil {
		return
	}
	m.Curations.Inc()
}

// IncSelfService counts a lookup or delete with its outcome label.
func (m *Metrics) IncSelfService(op, outcome string) {
	if m == nil {
		return
	}
	m.SelfService.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) IncThrottled() {
	if m == nil {
		return
	}
	m.ThrottledClients.Inc()
}
