package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	ScoresRecorded   prometheus.Counter
	AlertsCreated    *prometheus.CounterVec
	ReportsGenerated prometheus.Counter
}

// New creates a new Metrics instance with all compliance module metrics registered.
func New() *Metrics {
	return &Metrics{
		ScoresRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_compliance_scores_recorded_total",
			Help: "Total compliance scores recorded",
		}),
		AlertsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_compliance_alerts_created_total",
			Help: "Total compliance alerts created by severity",
		}, []string{"severity"}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_compliance_reports_generated_total",
			Help: "Total compliance reports generated",
		}),
	}
}

// IncrementScoresRecorded records a stored compliance score.
func (m *Metrics) IncrementScoresRecorded() {
	if m != nil {
		m.ScoresRecorded.Inc()
	}
}

// IncrementAlertsCreated records a created alert by severity.
func (m *Metrics) IncrementAlertsCreated(severity string) {
	if m != nil {
		m.AlertsCreated.WithLabelValues(severity).Inc()
	}
}

// IncrementReportsGenerated records a generated report.
func (m *Metrics) IncrementReportsGenerated() {
	if m != nil {
		m.ReportsGenerated.Inc()
	}
}
