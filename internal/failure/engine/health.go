package engine

import (
	"time"

	"zenthera/internal/failure/models"
)

// Baseline component health scores, before recent-failure penalties.
var componentBaselines = map[string]struct {
	score     float64
	component string
}{
	"models":       {0.9, "model"},
	"apis":         {0.95, "api"},
	"pipelines":    {0.88, "pipeline"},
	"integrations": {0.92, "integration"},
}

// CalculateSystemHealth scores overall system health from the current alert,
// incident and failure state plus observed performance metrics. The returned
// snapshot carries no identity; the caller fills it in.
func CalculateSystemHealth(now time.Time, alerts []*models.Alert, incidents []*models.Incident,
	failures []*models.FailureDetection, perf map[string]float64) *models.SystemHealth {

	var active, critical int
	for _, a := range alerts {
		if !a.Active() {
			continue
		}
		active++
		if a.Severity == models.SeverityCritical {
			critical++
		}
	}

	var openIncidents int
	for _, i := range incidents {
		if i.Open() {
			openIncidents++
		}
	}

	var recent []*models.FailureDetection
	for _, f := range failures {
		if now.Sub(f.DetectedAt) < time.Hour {
			recent = append(recent, f)
		}
	}

	score := 1.0
	score -= float64(critical) * 0.2
	score -= float64(active) * 0.05
	score -= float64(openIncidents) * 0.15
	score -= float64(len(recent)) * 0.03

	errorRate, hasErrorRate := perf["error_rate"]
	if hasErrorRate {
		score -= errorRate * 0.5
	}
	if rt, ok := perf["response_time"]; ok && rt > 2.0 {
		score -= 0.1
	}
	score = clamp01(score)

	componentHealth := make(map[string]float64, len(componentBaselines))
	for name, baseline := range componentBaselines {
		h := baseline.score
		for _, f := range recent {
			if f.AffectedComponent == baseline.component {
				h -= 0.1
			}
		}
		componentHealth[name] = clamp01(h)
	}

	errorTrend := "stable"
	if perfOr(perf, "error_rate", 0) < 0.01 {
		errorTrend = "improving"
	}

	return &models.SystemHealth{
		Timestamp:              now,
		OverallHealthScore:     score,
		ComponentHealth:        componentHealth,
		ActiveAlerts:           active,
		CriticalAlerts:         critical,
		OpenIncidents:          openIncidents,
		RecentFailures:         len(recent),
		MeanResponseTime:       perfOr(perf, "response_time", 1.2),
		P95ResponseTime:        perfOr(perf, "p95_response_time", 2.1),
		ErrorRatePercentage:    perfOr(perf, "error_rate", 0.005) * 100,
		ThroughputRPM:          perfOr(perf, "throughput", 150.0),
		AvailabilityPercentage: 99.5 - float64(critical)*0.5,
		ResourceUtilization: map[string]float64{
			"cpu":     65.0,
			"memory":  72.0,
			"disk":    45.0,
			"network": 38.0,
		},
		TrendAnalysis: map[string]string{
			"response_time": "stable",
			"error_rate":    errorTrend,
			"throughput":    "stable",
			"quality_score": "improving",
		},
	}
}

// HealthStatusLabel buckets a health score into an operator-facing label.
func HealthStatusLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "healthy"
	case score >= 0.6:
		return "degraded"
	default:
		return "unhealthy"
	}
}

func perfOr(perf map[string]float64, key string, def float64) float64 {
	if v, ok := perf[key]; ok {
		return v
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
