package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/internal/failure/models"
)

func sampleFailure(score float64) *models.FailureDetection {
	return &models.FailureDetection{
		ID:                 "failure_x",
		OrganizationID:     "org_demo",
		FailureType:        models.FailureModelDegradation,
		DetectedAt:         time.Date(2026, 8, 25, 11, 30, 0, 0, time.UTC),
		AffectedComponent:  "model",
		ComponentID:        "model_001",
		SeverityScore:      score,
		FailureDescription: "Model accuracy dropped sharply",
		AffectedMetrics:    []string{"accuracy", "f1_score"},
	}
}

func TestAlertFromFailure(t *testing.T) {
	alert := AlertFromFailure(sampleFailure(0.75), nil)
	require.NotNil(t, alert)

	assert.Equal(t, models.SeverityHigh, alert.Severity)
	assert.Equal(t, models.AlertOpen, alert.Status)
	assert.Equal(t, "Model Degradation Detected", alert.AlertTitle)
	assert.Contains(t, alert.AlertDescription, "Model accuracy dropped sharply")
	assert.Contains(t, alert.AlertDescription, "Affected Component: model")
	assert.Contains(t, alert.AlertDescription, "Severity Score: 0.75")
	assert.Equal(t, "failure", alert.AlertType)
	assert.Equal(t, "failure_x", alert.SourceFailureID)
	assert.Equal(t, "accuracy", alert.SourceMetric)
	assert.Equal(t, "system", alert.TriggeredBy)
	assert.True(t, alert.AcknowledgmentRequired)
	assert.Equal(t, []models.NotificationChannel{models.ChannelEmail, models.ChannelDashboard}, alert.NotificationChannels)
	assert.Equal(t, []string{"model_degradation", "model"}, alert.Tags)
}

func TestAlertFromFailureSeverityBands(t *testing.T) {
	assert.Equal(t, models.SeverityCritical, AlertFromFailure(sampleFailure(0.85), nil).Severity)
	assert.Equal(t, models.SeverityMedium, AlertFromFailure(sampleFailure(0.55), nil).Severity)

	low := AlertFromFailure(sampleFailure(0.3), nil)
	assert.Equal(t, models.SeverityLow, low.Severity)
	assert.False(t, low.AcknowledgmentRequired)
}

func TestAlertPriority(t *testing.T) {
	openCritical := &models.Alert{Severity: models.SeverityCritical, Status: models.AlertOpen, AcknowledgmentRequired: true}
	assert.Equal(t, 1, AlertPriority(openCritical))

	openHigh := &models.Alert{Severity: models.SeverityHigh, Status: models.AlertOpen, AcknowledgmentRequired: true}
	assert.Equal(t, 1, AlertPriority(openHigh))

	ackedHigh := &models.Alert{Severity: models.SeverityHigh, Status: models.AlertAcknowledged, AcknowledgmentRequired: true}
	assert.Equal(t, 2, AlertPriority(ackedHigh))

	escalatedLow := &models.Alert{Severity: models.SeverityLow, Status: models.AlertAcknowledged, EscalationLevel: 2}
	assert.Equal(t, 2, AlertPriority(escalatedLow))

	info := &models.Alert{Severity: models.SeverityInfo, Status: models.AlertAcknowledged}
	assert.Equal(t, 5, AlertPriority(info))
}

func TestFailureDisplayName(t *testing.T) {
	assert.Equal(t, "Model Degradation", FailureDisplayName(models.FailureModelDegradation))
	assert.Equal(t, "Data Pipeline Failure", FailureDisplayName(models.FailureDataPipelineFailure))
}
