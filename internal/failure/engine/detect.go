// Package engine implements the failure detection heuristics: threshold
// detectors for model degradation, latency spikes, error-rate increases and
// bias drift, plus alert derivation, system health scoring and notification
// rendering.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"zenthera/internal/failure/models"
)

// Detection thresholds.
const (
	degradationThreshold = 0.1
	latencySpikeRatio    = 2.0
	errorRateDelta       = 0.05
	biasDriftThreshold   = 0.1
)

// degradationKeyMetrics are the performance metrics inspected for model
// degradation, in reporting order.
var degradationKeyMetrics = []string{
	"quality_score", "accuracy", "f1_score", "precision", "recall",
}

// DetectModelDegradation compares current model metrics against a baseline
// and returns a failure candidate when the summed relative degradation
// across key metrics exceeds the threshold. The returned detection carries
// no identity or timestamp; the caller fills those in.
func DetectModelDegradation(current, baseline map[string]float64) *models.FailureDetection {
	var (
		degradation    float64
		affected       []string
		currentValues  = map[string]float64{}
		baselineValues = map[string]float64{}
	)

	for _, metric := range degradationKeyMetrics {
		currentVal, okCurrent := current[metric]
		baselineVal, okBaseline := baseline[metric]
		if !okCurrent || !okBaseline || baselineVal <= 0 {
			continue
		}
		drop := (baselineVal - currentVal) / baselineVal
		if drop > degradationThreshold {
			degradation += drop
			affected = append(affected, metric)
			currentValues[metric] = currentVal
			baselineValues[metric] = baselineVal
		}
	}

	if degradation <= degradationThreshold {
		return nil
	}

	return &models.FailureDetection{
		FailureType:         models.FailureModelDegradation,
		DetectionMethod:     "threshold",
		AffectedComponent:   "model",
		ComponentID:         "model_001",
		SeverityScore:       min(degradation, 1.0),
		ConfidenceLevel:     0.85,
		FailureDescription:  fmt.Sprintf("Model performance degraded by %.1f%%", degradation*100),
		RootCauseAnalysis:   "Potential data drift or model staleness detected",
		ImpactAssessment:    "Reduced model accuracy may affect user experience",
		AffectedMetrics:     affected,
		BaselineValues:      baselineValues,
		CurrentValues:       currentValues,
		DeviationPercentage: degradation * 100,
		DetectionRules:      []string{"model_degradation_threshold"},
		MitigationSuggestions: []string{
			"Retrain model with recent data",
			"Investigate data quality issues",
			"Consider model rollback if degradation is severe",
		},
	}
}

// DetectLatencySpike fires when current latency exceeds twice the baseline.
func DetectLatencySpike(currentLatency, baselineLatency float64) *models.FailureDetection {
	if baselineLatency <= 0 {
		return nil
	}
	ratio := currentLatency / baselineLatency
	if ratio <= latencySpikeRatio {
		return nil
	}

	return &models.FailureDetection{
		FailureType:         models.FailureLatencySpike,
		DetectionMethod:     "threshold",
		AffectedComponent:   "api",
		ComponentID:         "api_001",
		SeverityScore:       min((ratio-1.0)/3.0, 1.0),
		ConfidenceLevel:     0.9,
		FailureDescription:  fmt.Sprintf("Response time increased by %.1f%%", (ratio-1)*100),
		RootCauseAnalysis:   "Possible resource contention or downstream service issues",
		ImpactAssessment:    "Users experiencing slower response times",
		AffectedMetrics:     []string{"response_time"},
		BaselineValues:      map[string]float64{"response_time": baselineLatency},
		CurrentValues:       map[string]float64{"response_time": currentLatency},
		DeviationPercentage: (ratio - 1) * 100,
		DetectionRules:      []string{"latency_spike_threshold"},
		MitigationSuggestions: []string{
			"Check resource utilization",
			"Investigate downstream dependencies",
			"Consider scaling resources",
			"Review recent deployments",
		},
	}
}

// DetectErrorRateIncrease fires when the error rate rises more than five
// percentage points above the baseline.
func DetectErrorRateIncrease(currentRate, baselineRate float64) *models.FailureDetection {
	increase := currentRate - baselineRate
	if increase <= errorRateDelta {
		return nil
	}

	return &models.FailureDetection{
		FailureType:         models.FailureErrorRateIncrease,
		DetectionMethod:     "threshold",
		AffectedComponent:   "api",
		ComponentID:         "api_001",
		SeverityScore:       min(increase/0.2, 1.0),
		ConfidenceLevel:     0.88,
		FailureDescription:  fmt.Sprintf("Error rate increased by %.1f percentage points", increase*100),
		RootCauseAnalysis:   "Possible service instability or input validation issues",
		ImpactAssessment:    "Increased failure rate affecting user requests",
		AffectedMetrics:     []string{"error_rate"},
		BaselineValues:      map[string]float64{"error_rate": baselineRate},
		CurrentValues:       map[string]float64{"error_rate": currentRate},
		DeviationPercentage: increase * 100,
		DetectionRules:      []string{"error_rate_threshold"},
		MitigationSuggestions: []string{
			"Review error logs for patterns",
			"Check input validation logic",
			"Investigate service dependencies",
			"Consider circuit breaker activation",
		},
	}
}

// DetectBiasDrift fires when any bias category drifts more than the
// threshold from its baseline. Categories are reported in sorted order so
// the description is stable.
func DetectBiasDrift(currentScores, baselineScores map[string]float64) *models.FailureDetection {
	var (
		maxDrift       float64
		affected       []string
		currentValues  = map[string]float64{}
		baselineValues = map[string]float64{}
	)

	categories := make([]string, 0, len(currentScores))
	for category := range currentScores {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		baselineScore, ok := baselineScores[category]
		if !ok {
			continue
		}
		drift := currentScores[category] - baselineScore
		if drift < 0 {
			drift = -drift
		}
		if drift > biasDriftThreshold {
			if drift > maxDrift {
				maxDrift = drift
			}
			affected = append(affected, category)
			currentValues[category] = currentScores[category]
			baselineValues[category] = baselineScore
		}
	}

	if maxDrift <= biasDriftThreshold {
		return nil
	}

	return &models.FailureDetection{
		FailureType:         models.FailureBiasDrift,
		DetectionMethod:     "threshold",
		AffectedComponent:   "model",
		ComponentID:         "model_001",
		SeverityScore:       min(maxDrift/0.3, 1.0),
		ConfidenceLevel:     0.82,
		FailureDescription:  "Bias drift detected in categories: " + strings.Join(affected, ", "),
		RootCauseAnalysis:   "Model bias patterns have shifted from baseline",
		ImpactAssessment:    "Potential fairness issues in model outputs",
		AffectedMetrics:     affected,
		BaselineValues:      baselineValues,
		CurrentValues:       currentValues,
		DeviationPercentage: maxDrift * 100,
		DetectionRules:      []string{"bias_drift_threshold"},
		MitigationSuggestions: []string{
			"Review training data for bias",
			"Implement bias correction techniques",
			"Audit recent model changes",
			"Consider bias-aware retraining",
		},
	}
}
