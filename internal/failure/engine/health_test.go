package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/internal/failure/models"
)

func TestCalculateSystemHealthQuietSystem(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	h := CalculateSystemHealth(now, nil, nil, nil, map[string]float64{})
	require.NotNil(t, h)

	assert.InDelta(t, 1.0, h.OverallHealthScore, 0.0001)
	assert.Zero(t, h.ActiveAlerts)
	assert.InDelta(t, 99.5, h.AvailabilityPercentage, 0.0001)
	assert.InDelta(t, 1.2, h.MeanResponseTime, 0.0001)
	assert.InDelta(t, 2.1, h.P95ResponseTime, 0.0001)
	assert.InDelta(t, 0.5, h.ErrorRatePercentage, 0.0001)
	assert.InDelta(t, 150.0, h.ThroughputRPM, 0.0001)
	assert.InDelta(t, 0.9, h.ComponentHealth["models"], 0.0001)
	assert.InDelta(t, 0.95, h.ComponentHealth["apis"], 0.0001)
	assert.Equal(t, "improving", h.TrendAnalysis["error_rate"])
	assert.InDelta(t, 65.0, h.ResourceUtilization["cpu"], 0.0001)
}

func TestCalculateSystemHealthUnderLoad(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	alerts := []*models.Alert{
		{Severity: models.SeverityCritical, Status: models.AlertOpen},
		{Severity: models.SeverityHigh, Status: models.AlertOpen},
		// Not active, must not count.
		{Severity: models.SeverityHigh, Status: models.AlertInvestigating},
	}
	incidents := []*models.Incident{
		{Status: models.IncidentInvestigating},
		{Status: models.IncidentResolved},
	}
	failures := []*models.FailureDetection{
		{AffectedComponent: "model", DetectedAt: now.Add(-30 * time.Minute)},
		{AffectedComponent: "api", DetectedAt: now.Add(-15 * time.Minute)},
		// Outside the one-hour window.
		{AffectedComponent: "model", DetectedAt: now.Add(-2 * time.Hour)},
	}
	perf := map[string]float64{"response_time": 2.1, "error_rate": 0.023}

	h := CalculateSystemHealth(now, alerts, incidents, failures, perf)

	// 1.0 - 0.2 - 2*0.05 - 0.15 - 2*0.03 - 0.0115 - 0.1.
	assert.InDelta(t, 0.3785, h.OverallHealthScore, 0.0001)
	assert.Equal(t, 2, h.ActiveAlerts)
	assert.Equal(t, 1, h.CriticalAlerts)
	assert.Equal(t, 1, h.OpenIncidents)
	assert.Equal(t, 2, h.RecentFailures)
	assert.InDelta(t, 0.8, h.ComponentHealth["models"], 0.0001)
	assert.InDelta(t, 0.85, h.ComponentHealth["apis"], 0.0001)
	assert.InDelta(t, 0.88, h.ComponentHealth["pipelines"], 0.0001)
	assert.InDelta(t, 99.0, h.AvailabilityPercentage, 0.0001)
	assert.InDelta(t, 2.3, h.ErrorRatePercentage, 0.0001)
	assert.Equal(t, "stable", h.TrendAnalysis["error_rate"])
}

func TestCalculateSystemHealthClampsAtZero(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	var alerts []*models.Alert
	for i := 0; i < 6; i++ {
		alerts = append(alerts, &models.Alert{Severity: models.SeverityCritical, Status: models.AlertOpen})
	}
	h := CalculateSystemHealth(now, alerts, nil, nil, nil)
	assert.Zero(t, h.OverallHealthScore)
}

func TestHealthStatusLabel(t *testing.T) {
	assert.Equal(t, "healthy", HealthStatusLabel(0.8))
	assert.Equal(t, "degraded", HealthStatusLabel(0.65))
	assert.Equal(t, "unhealthy", HealthStatusLabel(0.3))
}
