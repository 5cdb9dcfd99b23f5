package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the LLM observability module itself.
type Metrics struct {
	InteractionsAnalyzed prometheus.Counter
	RisksDetected        *prometheus.CounterVec
	QualityAssessments   *prometheus.CounterVec
	ModelComparisons     prometheus.Counter
}

// New creates a new Metrics instance with all module metrics registered.
func New() *Metrics {
	return &Metrics{
		InteractionsAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_llm_interactions_analyzed_total",
			Help: "Total LLM interactions recorded and analyzed",
		}),
		RisksDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_llm_risks_detected_total",
			Help: "Total risks detected by type and severity",
		}, []string{"risk_type", "severity"}),
		QualityAssessments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_llm_quality_assessments_total",
			Help: "Total quality assessments by method",
		}, []string{"method"}),
		ModelComparisons: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_llm_model_comparisons_total",
			Help: "Total model comparisons run",
		}),
	}
}

// IncrementInteractionsAnalyzed records an analyzed interaction.
func (m *Metrics) IncrementInteractionsAnalyzed() {
	if m != nil {
		m.InteractionsAnalyzed.Inc()
	}
}

// IncrementRisksDetected records a detected risk.
func (m *Metrics) IncrementRisksDetected(riskType, severity string) {
	if m != nil {
		m.RisksDetected.WithLabelValues(riskType, severity).Inc()
	}
}

// IncrementQualityAssessments records a completed quality assessment.
func (m *Metrics) IncrementQualityAssessments(method string) {
	if m != nil {
		m.QualityAssessments.WithLabelValues(method).Inc()
	}
}

// IncrementModelComparisons records a model comparison run.
func (m *Metrics) IncrementModelComparisons() {
	if m != nil {
		m.ModelComparisons.Inc()
	}
}
