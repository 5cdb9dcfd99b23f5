package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the narrative explainability module.
type Metrics struct {
	ReplaysCreated        prometheus.Counter
	ExplanationsGenerated *prometheus.CounterVec
	AlignmentsAssessed    prometheus.Counter
	AuditsRecorded        *prometheus.CounterVec
}

// New creates a new Metrics instance with all module metrics registered.
func New() *Metrics {
	return &Metrics{
		ReplaysCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_narrative_replays_created_total",
			Help: "Total session replays created",
		}),
		ExplanationsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_narrative_explanations_generated_total",
			Help: "Total narrative explanations generated by type and style",
		}, []string{"explanation_type", "style"}),
		AlignmentsAssessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_narrative_alignments_assessed_total",
			Help: "Total ethical alignment assessments run",
		}),
		AuditsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_narrative_audits_recorded_total",
			Help: "Total audit trails recorded by compliance status",
		}, []string{"compliance_status"}),
	}
}

// IncrementReplaysCreated records a created session replay.
func (m *Metrics) IncrementReplaysCreated() {
	if m != nil {
		m.ReplaysCreated.Inc()
	}
}

// IncrementExplanationsGenerated records a generated explanation.
func (m *Metrics) IncrementExplanationsGenerated(explanationType, style string) {
	if m != nil {
		m.ExplanationsGenerated.WithLabelValues(explanationType, style).Inc()
	}
}

// IncrementAlignmentsAssessed records a completed alignment assessment.
func (m *Metrics) IncrementAlignmentsAssessed() {
	if m != nil {
		m.AlignmentsAssessed.Inc()
	}
}

// IncrementAuditsRecorded records a stored audit trail.
func (m *Metrics) IncrementAuditsRecorded(status string) {
	if m != nil {
		m.AuditsRecorded.WithLabelValues(status).Inc()
	}
}
