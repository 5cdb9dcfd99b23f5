package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/internal/failure/models"
)

func TestDetectModelDegradation(t *testing.T) {
	f := DetectModelDegradation(
		map[string]float64{"accuracy": 0.75, "f1_score": 0.72},
		map[string]float64{"accuracy": 0.92, "f1_score": 0.89},
	)
	require.NotNil(t, f)

	// accuracy drop 0.17/0.92 + f1 drop 0.17/0.89.
	assert.InDelta(t, 0.3758, f.SeverityScore, 0.001)
	assert.Equal(t, models.FailureModelDegradation, f.FailureType)
	assert.Equal(t, "Model performance degraded by 37.6%", f.FailureDescription)
	assert.Equal(t, []string{"accuracy", "f1_score"}, f.AffectedMetrics)
	assert.Equal(t, "model", f.AffectedComponent)
	assert.InDelta(t, 0.85, f.ConfidenceLevel, 0.0001)
	assert.InDelta(t, 0.92, f.BaselineValues["accuracy"], 0.0001)
	assert.Len(t, f.MitigationSuggestions, 3)
}

func TestDetectModelDegradationBelowThreshold(t *testing.T) {
	f := DetectModelDegradation(
		map[string]float64{"accuracy": 0.90},
		map[string]float64{"accuracy": 0.92},
	)
	assert.Nil(t, f)
}

func TestDetectModelDegradationIgnoresUnknownMetrics(t *testing.T) {
	f := DetectModelDegradation(
		map[string]float64{"latency": 0.1, "accuracy": 0.90},
		map[string]float64{"latency": 0.9, "accuracy": 0.92},
	)
	assert.Nil(t, f)
}

func TestDetectLatencySpike(t *testing.T) {
	f := DetectLatencySpike(4.5, 1.2)
	require.NotNil(t, f)

	// Ratio 3.75, severity (3.75-1)/3.
	assert.InDelta(t, 0.9167, f.SeverityScore, 0.001)
	assert.Equal(t, models.FailureLatencySpike, f.FailureType)
	assert.Equal(t, "Response time increased by 275.0%", f.FailureDescription)
	assert.InDelta(t, 275.0, f.DeviationPercentage, 0.001)
	assert.Equal(t, "api", f.AffectedComponent)

	assert.Nil(t, DetectLatencySpike(2.4, 1.2), "exactly double is not a spike")
	assert.Nil(t, DetectLatencySpike(1.0, 0))
}

func TestDetectErrorRateIncrease(t *testing.T) {
	f := DetectErrorRateIncrease(0.08, 0.01)
	require.NotNil(t, f)

	assert.InDelta(t, 0.35, f.SeverityScore, 0.001)
	assert.Equal(t, "Error rate increased by 7.0 percentage points", f.FailureDescription)
	assert.Equal(t, []string{"error_rate"}, f.AffectedMetrics)

	assert.Nil(t, DetectErrorRateIncrease(0.06, 0.01), "exactly at threshold does not fire")
}

func TestDetectBiasDrift(t *testing.T) {
	f := DetectBiasDrift(
		map[string]float64{"gender": 0.35, "race": 0.12},
		map[string]float64{"gender": 0.15, "race": 0.10},
	)
	require.NotNil(t, f)

	assert.InDelta(t, 0.6667, f.SeverityScore, 0.001)
	assert.Equal(t, "Bias drift detected in categories: gender", f.FailureDescription)
	assert.Equal(t, []string{"gender"}, f.AffectedMetrics)
	assert.InDelta(t, 20.0, f.DeviationPercentage, 0.001)
}

func TestDetectBiasDriftSortedCategories(t *testing.T) {
	f := DetectBiasDrift(
		map[string]float64{"gender": 0.5, "age": 0.4},
		map[string]float64{"gender": 0.1, "age": 0.1},
	)
	require.NotNil(t, f)

	assert.Equal(t, "Bias drift detected in categories: age, gender", f.FailureDescription)
	assert.InDelta(t, 1.0, f.SeverityScore, 0.001)
}

func TestDetectBiasDriftStable(t *testing.T) {
	f := DetectBiasDrift(
		map[string]float64{"gender": 0.16},
		map[string]float64{"gender": 0.15},
	)
	assert.Nil(t, f)
}
