package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the failure detection module itself.
type Metrics struct {
	FailuresDetected *prometheus.CounterVec
	AlertsTriggered  *prometheus.CounterVec
	AlertsResolved   prometheus.Counter
	IncidentsCreated prometheus.Counter
	SimulationsRun   *prometheus.CounterVec
}

// New creates a new Metrics instance with all module metrics registered.
func New() *Metrics {
	return &Metrics{
		FailuresDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_failure_detections_total",
			Help: "Total failures detected by type and component",
		}, []string{"failure_type", "component"}),
		AlertsTriggered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_failure_alerts_triggered_total",
			Help: "Total alerts triggered by severity",
		}, []string{"severity"}),
		AlertsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_failure_alerts_resolved_total",
			Help: "Total alerts resolved",
		}),
		IncidentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_failure_incidents_created_total",
			Help: "Total incidents opened",
		}),
		SimulationsRun: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_failure_simulations_total",
			Help: "Total failure simulations run by type",
		}, []string{"simulation_type"}),
	}
}

// IncrementFailuresDetected records a detected failure.
func (m *Metrics) IncrementFailuresDetected(failureType, component string) {
	if m != nil {
		m.FailuresDetected.WithLabelValues(failureType, component).Inc()
	}
}

// IncrementAlertsTriggered records a triggered alert.
func (m *Metrics) IncrementAlertsTriggered(severity string) {
	if m != nil {
		m.AlertsTriggered.WithLabelValues(severity).Inc()
	}
}

// IncrementAlertsResolved records a resolved alert.
func (m *Metrics) IncrementAlertsResolved() {
	if m != nil {
		m.AlertsResolved.Inc()
	}
}

// IncrementIncidentsCreated records an opened incident.
func (m *Metrics) IncrementIncidentsCreated() {
	if m != nil {
		m.IncidentsCreated.Inc()
	}
}

// IncrementSimulationsRun records a failure simulation.
func (m *Metrics) IncrementSimulationsRun(simulationType string) {
	if m != nil {
		m.SimulationsRun.WithLabelValues(simulationType).Inc()
	}
}
