package engine

import (
	"fmt"
	"strings"

	"zenthera/internal/failure/models"
)

// AlertFromFailure derives an operator alert from a detected failure.
// Severity follows the failure's severity score; critical and high alerts
// require acknowledgment. The returned alert carries no ID; the caller
// fills it in.
func AlertFromFailure(f *models.FailureDetection, channels []models.NotificationChannel) *models.Alert {
	if len(channels) == 0 {
		channels = []models.NotificationChannel{models.ChannelEmail, models.ChannelDashboard}
	}

	severity := severityFromScore(f.SeverityScore)

	var sourceMetric string
	if len(f.AffectedMetrics) > 0 {
		sourceMetric = f.AffectedMetrics[0]
	}

	return &models.Alert{
		OrganizationID: f.OrganizationID,
		AlertType:      "failure",
		Severity:       severity,
		Status:         models.AlertOpen,
		AlertTitle:     FailureDisplayName(f.FailureType) + " Detected",
		AlertDescription: fmt.Sprintf("%s\n\nAffected Component: %s\nSeverity Score: %.2f",
			f.FailureDescription, f.AffectedComponent, f.SeverityScore),
		SourceComponent:        f.AffectedComponent,
		SourceMetric:           sourceMetric,
		SourceFailureID:        f.ID,
		TriggeredAt:            f.DetectedAt,
		TriggeredBy:            "system",
		AcknowledgmentRequired: severity == models.SeverityCritical || severity == models.SeverityHigh,
		NotificationChannels:   channels,
		Tags:                   []string{string(f.FailureType), f.AffectedComponent},
	}
}

func severityFromScore(score float64) models.Severity {
	switch {
	case score >= 0.8:
		return models.SeverityCritical
	case score >= 0.6:
		return models.SeverityHigh
	case score >= 0.4:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// AlertPriority ranks an alert from 1 (most urgent) to 5. Escalation and an
// unacknowledged required acknowledgment both pull the priority up.
func AlertPriority(a *models.Alert) int {
	priority := 3
	switch a.Severity {
	case models.SeverityCritical:
		priority = 1
	case models.SeverityHigh:
		priority = 2
	case models.SeverityMedium:
		priority = 3
	case models.SeverityLow:
		priority = 4
	case models.SeverityInfo:
		priority = 5
	}

	priority = max(1, priority-a.EscalationLevel)

	if a.Status == models.AlertOpen && a.AcknowledgmentRequired {
		priority = max(1, priority-1)
	}
	return priority
}

// FailureDisplayName renders a failure type as a human-readable title,
// e.g. "model_degradation" becomes "Model Degradation".
func FailureDisplayName(t models.FailureType) string {
	words := strings.Fields(strings.ReplaceAll(string(t), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
