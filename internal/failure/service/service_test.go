package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/internal/failure/models"
	"zenthera/internal/failure/store"
	dErrors "zenthera/pkg/domain-errors"
	"zenthera/pkg/requestcontext"
)

var testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	st := store.NewInMemory()
	store.SeedDemoData(st, "org_demo", testNow)
	svc := New(st, slog.Default(), nil)
	ctx := requestcontext.WithTime(context.Background(), testNow)
	return svc, ctx
}

func TestGetDashboardSeeded(t *testing.T) {
	svc, ctx := newTestService(t)

	dash, err := svc.GetDashboard(ctx, "org_demo", "24h")
	require.NoError(t, err)

	assert.Equal(t, 2, dash.Overview.TotalFailuresDetected)
	assert.Equal(t, 3, dash.Overview.TotalAlertsGenerated)
	assert.Equal(t, 1, dash.Overview.TotalIncidentsCreated)
	assert.Equal(t, 2, dash.Overview.OpenAlerts)
	assert.Equal(t, 1, dash.Overview.CriticalAlerts)
	assert.Zero(t, dash.Overview.AcknowledgedAlerts)
	assert.Equal(t, 1, dash.Overview.OpenIncidents)
	assert.InDelta(t, 0.3785, dash.Overview.SystemHealthScore, 0.0001)
	assert.InDelta(t, 99.0, dash.Overview.AvailabilityPercentage, 0.0001)
	assert.InDelta(t, 2.1, dash.Overview.MeanResponseTime, 0.0001)

	assert.Equal(t, 1, dash.FailureTypes["model_degradation"])
	assert.Equal(t, 1, dash.FailureTypes["latency_spike"])
	assert.InDelta(t, 0.8, dash.ComponentHealth["models"], 0.0001)

	// Two failure entries and two alert entries, newest first.
	require.Len(t, dash.RecentActivity, 4)
	assert.Equal(t, "alert_triggered", dash.RecentActivity[0].Type)
	assert.Equal(t, "Critical Error Rate Spike", dash.RecentActivity[0].Description)
	assert.Equal(t, "critical", dash.RecentActivity[0].Severity)

	require.NotNil(t, dash.SystemHealth)
	assert.Equal(t, "24h", dash.TimeRange)
	assert.Equal(t, testNow, dash.LastUpdated)
}

func TestGetDashboardUnknownRangeFallsBackTo30d(t *testing.T) {
	svc, ctx := newTestService(t)

	dash, err := svc.GetDashboard(ctx, "org_demo", "whenever")
	require.NoError(t, err)
	assert.Equal(t, "30d", dash.TimeRange)
}

func TestListFailuresMinSeverity(t *testing.T) {
	svc, ctx := newTestService(t)

	page, err := svc.ListFailures(ctx, FailureQuery{OrganizationID: "org_demo", MinSeverity: 0.7})
	require.NoError(t, err)

	require.Len(t, page.Failures, 1)
	assert.Equal(t, "failure_001", page.Failures[0].ID)
	assert.Equal(t, 1, page.Summary.TotalFailures)
	assert.Len(t, page.Summary.ByType, len(models.FailureTypes))
	assert.Equal(t, 1, page.Summary.ByType["model_degradation"])
	assert.Zero(t, page.Summary.ByType["latency_spike"])
	assert.Equal(t, 1, page.Summary.ByComponent["model"])
	assert.Zero(t, page.Summary.ByComponent["api"])
	assert.False(t, page.Pagination.HasMore)
}

func TestReportFailureAutoAlert(t *testing.T) {
	svc, ctx := newTestService(t)

	report, err := svc.ReportFailure(ctx, FailureInput{
		OrganizationID:     "org_demo",
		FailureType:        models.FailureSafetyViolation,
		AffectedComponent:  "model",
		ComponentID:        "moderation-1",
		SeverityScore:      0.9,
		FailureDescription: "Unsafe output reached a user",
	})
	require.NoError(t, err)

	assert.Equal(t, "Failure detected and alert created", report.Message)
	assert.Equal(t, "manual", report.Failure.DetectionMethod)
	assert.InDelta(t, 0.8, report.Failure.ConfidenceLevel, 0.0001)
	assert.Equal(t, testNow, report.Failure.DetectedAt)

	require.NotNil(t, report.AlertCreated)
	assert.Equal(t, models.SeverityCritical, report.AlertCreated.Severity)
	assert.Equal(t, "Safety Violation Detected", report.AlertCreated.AlertTitle)
	assert.Equal(t, report.Failure.ID, report.AlertCreated.SourceFailureID)
}

func TestReportFailureLowSeverity(t *testing.T) {
	svc, ctx := newTestService(t)

	report, err := svc.ReportFailure(ctx, FailureInput{
		OrganizationID:     "org_demo",
		FailureType:        models.FailureQualityDrop,
		AffectedComponent:  "model",
		ComponentID:        "summarizer-1",
		SeverityScore:      0.3,
		FailureDescription: "Minor quality dip on long prompts",
	})
	require.NoError(t, err)

	assert.Nil(t, report.AlertCreated)
	assert.Equal(t, "Failure detected (no alert created due to low severity)", report.Message)
}

func TestReportFailureValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.ReportFailure(ctx, FailureInput{
		OrganizationID:     "org_demo",
		AffectedComponent:  "model",
		ComponentID:        "m-1",
		SeverityScore:      0.5,
		FailureDescription: "missing type",
	})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	assert.Contains(t, err.Error(), "failure_type")
}

func TestListAlertsEnriched(t *testing.T) {
	svc, ctx := newTestService(t)

	page, err := svc.ListAlerts(ctx, AlertQuery{OrganizationID: "org_demo"})
	require.NoError(t, err)
	require.Len(t, page.Alerts, 3)

	// Newest first: alert_003 triggered five minutes ago.
	newest := page.Alerts[0]
	assert.Equal(t, "alert_003", newest.ID)
	assert.InDelta(t, 5.0, newest.AgeMinutes, 0.01)
	assert.Equal(t, 1, newest.Priority)
	assert.Nil(t, newest.RelatedFailure)

	var alert1 *EnrichedAlert
	for i := range page.Alerts {
		if page.Alerts[i].ID == "alert_001" {
			alert1 = &page.Alerts[i]
		}
	}
	require.NotNil(t, alert1)
	require.NotNil(t, alert1.RelatedFailure)
	assert.Equal(t, models.FailureModelDegradation, alert1.RelatedFailure.Type)
	assert.InDelta(t, 0.75, alert1.RelatedFailure.SeverityScore, 0.0001)
	assert.InDelta(t, 30.0, alert1.AgeMinutes, 0.01)
	assert.Equal(t, 2, alert1.Priority)

	assert.Equal(t, 1, page.Summary.BySeverity["critical"])
	assert.Equal(t, 2, page.Summary.BySeverity["high"])
	assert.Equal(t, 2, page.Summary.ByStatus["open"])
	assert.Equal(t, 1, page.Summary.ByStatus["investigating"])
	assert.Equal(t, 2, page.Summary.RequiresAcknowledgment)
}

func TestListAlertsSeverityFilter(t *testing.T) {
	svc, ctx := newTestService(t)

	page, err := svc.ListAlerts(ctx, AlertQuery{
		OrganizationID: "org_demo",
		Severity:       models.SeverityCritical,
	})
	require.NoError(t, err)
	require.Len(t, page.Alerts, 1)
	assert.Equal(t, "alert_003", page.Alerts[0].ID)
}

func TestAcknowledgeAlertLifecycle(t *testing.T) {
	svc, ctx := newTestService(t)

	update, err := svc.AcknowledgeAlert(ctx, "alert_002", AcknowledgeInput{
		AcknowledgedBy: "oncall",
		Notes:          "looking into it",
	})
	require.NoError(t, err)

	assert.Equal(t, models.AlertAcknowledged, update.Alert.Status)
	assert.Equal(t, "oncall", update.Alert.AcknowledgedBy)
	require.NotNil(t, update.Alert.AcknowledgedAt)
	assert.Equal(t, testNow, *update.Alert.AcknowledgedAt)
	require.Len(t, update.Alert.NotificationHistory, 1)
	assert.Equal(t, "acknowledged", update.Alert.NotificationHistory[0].Action)
	assert.Equal(t, "looking into it", update.Alert.NotificationHistory[0].Notes)
	assert.Equal(t, "Alert acknowledged successfully", update.Message)

	_, err = svc.AcknowledgeAlert(ctx, "alert_002", AcknowledgeInput{})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidState))

	_, err = svc.AcknowledgeAlert(ctx, "missing", AcknowledgeInput{})
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestAcknowledgeAlertDefaultsActor(t *testing.T) {
	svc, ctx := newTestService(t)

	update, err := svc.AcknowledgeAlert(ctx, "alert_003", AcknowledgeInput{})
	require.NoError(t, err)
	assert.Equal(t, "unknown", update.Alert.AcknowledgedBy)
}

func TestResolveAlertLifecycle(t *testing.T) {
	svc, ctx := newTestService(t)

	update, err := svc.ResolveAlert(ctx, "alert_003", ResolveInput{
		ResolvedBy:      "oncall",
		ResolutionNotes: "rolled back the deploy",
	})
	require.NoError(t, err)

	assert.Equal(t, models.AlertResolved, update.Alert.Status)
	assert.Equal(t, "rolled back the deploy", update.Alert.ResolutionNotes)
	require.Len(t, update.Alert.NotificationHistory, 1)
	assert.Equal(t, "resolved", update.Alert.NotificationHistory[0].Action)
	assert.Equal(t, "Alert resolved successfully", update.Message)

	_, err = svc.ResolveAlert(ctx, "alert_003", ResolveInput{})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidState))
	assert.Contains(t, err.Error(), "already resolved")
}

func TestListIncidentsSummary(t *testing.T) {
	svc, ctx := newTestService(t)

	page, err := svc.ListIncidents(ctx, IncidentQuery{OrganizationID: "org_demo"})
	require.NoError(t, err)

	require.Len(t, page.Incidents, 1)
	assert.Equal(t, 1, page.Summary.TotalIncidents)
	assert.Len(t, page.Summary.ByStatus, len(models.IncidentStatuses))
	assert.Equal(t, 1, page.Summary.ByStatus["investigating"])
	assert.Equal(t, 1, page.Summary.BySeverity["high"])
	assert.Equal(t, 1, page.Summary.OpenIncidents)
}

func TestCreateIncidentDefaults(t *testing.T) {
	svc, ctx := newTestService(t)

	result, err := svc.CreateIncident(ctx, IncidentInput{
		OrganizationID:      "org_demo",
		IncidentTitle:       "API gateway outage",
		IncidentDescription: "Gateway returning 502 for 20% of traffic",
		Severity:            models.SeverityCritical,
		CreatedBy:           "user_004",
	})
	require.NoError(t, err)

	assert.Equal(t, models.IncidentDetected, result.Incident.Status)
	assert.Equal(t, 3, result.Incident.Priority)
	require.Len(t, result.Incident.Timeline, 1)
	assert.Equal(t, "Incident created", result.Incident.Timeline[0].Event)
	assert.Equal(t, "user_004", result.Incident.Timeline[0].Actor)
	assert.Equal(t, "Incident created successfully", result.Message)
}

func TestCreateIncidentValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.CreateIncident(ctx, IncidentInput{
		OrganizationID: "org_demo",
		Severity:       models.SeverityHigh,
		CreatedBy:      "user_004",
	})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	assert.Contains(t, err.Error(), "incident_title")
}

func TestListRulesSummary(t *testing.T) {
	svc, ctx := newTestService(t)

	page, err := svc.ListRules(ctx, RuleQuery{OrganizationID: "org_demo"})
	require.NoError(t, err)

	require.Len(t, page.MonitoringRules, 2)
	assert.Equal(t, 2, page.Summary.TotalRules)
	assert.Equal(t, 2, page.Summary.ActiveRules)
	assert.Equal(t, 1, page.Summary.ByComponent["model"])
	assert.Equal(t, 1, page.Summary.ByComponent["api"])
	assert.Zero(t, page.Summary.ByComponent["pipeline"])
	assert.Len(t, page.Summary.ByMetric, len(models.MonitoringMetrics))
	assert.Equal(t, 1, page.Summary.ByMetric["quality_score"])
	assert.Equal(t, 1, page.Summary.ByMetric["response_time"])
}

func TestCreateRuleDefaults(t *testing.T) {
	svc, ctx := newTestService(t)

	result, err := svc.CreateRule(ctx, RuleInput{
		OrganizationID: "org_demo",
		RuleName:       "Throughput floor",
		MetricName:     models.MetricThroughput,
		ComponentType:  "api",
		ThresholdType:  "static",
		ThresholdValue: 100,
	})
	require.NoError(t, err)

	rule := result.MonitoringRule
	assert.Equal(t, ">", rule.ThresholdOperator)
	assert.Equal(t, 24, rule.BaselinePeriodHours)
	assert.Equal(t, 5, rule.EvaluationWindowMinutes)
	assert.InDelta(t, 0.8, rule.SensitivityLevel, 0.0001)
	assert.Equal(t, 3, rule.MinDataPoints)
	assert.Equal(t, models.FailurePerformanceAnomaly, rule.FailureType)
	assert.Equal(t, models.SeverityMedium, rule.AlertSeverity)
	assert.Equal(t, []models.NotificationChannel{models.ChannelEmail}, rule.NotificationChannels)
	assert.Equal(t, 60, rule.SuppressionDurationMinutes)
	assert.True(t, rule.IsActive)
	assert.Equal(t, "system", rule.CreatedBy)
	assert.Equal(t, "Monitoring rule created successfully", result.Message)
}

func TestCreateRuleValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.CreateRule(ctx, RuleInput{
		OrganizationID: "org_demo",
		RuleName:       "Bad metric",
		MetricName:     "warp_factor",
		ComponentType:  "api",
	})
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	assert.Contains(t, err.Error(), "metric_name")
}

func TestSystemHealthSeeded(t *testing.T) {
	svc, ctx := newTestService(t)

	report, err := svc.SystemHealth(ctx, "org_demo")
	require.NoError(t, err)

	assert.Equal(t, "health_001", report.SystemHealth.ID)
	assert.Equal(t, "unhealthy", report.HealthStatus.Overall)
	assert.Equal(t, "healthy", report.HealthStatus.Components["models"])
	assert.Equal(t, "healthy", report.HealthStatus.Components["pipelines"])
}

func TestSystemHealthComputedWhenMissing(t *testing.T) {
	svc, ctx := newTestService(t)

	report, err := svc.SystemHealth(ctx, "org_fresh")
	require.NoError(t, err)

	// No alerts or incidents, default performance metrics.
	assert.InDelta(t, 0.9925, report.SystemHealth.OverallHealthScore, 0.0001)
	assert.Equal(t, "healthy", report.HealthStatus.Overall)
	assert.InDelta(t, 1.5, report.SystemHealth.ErrorRatePercentage, 0.0001)

	// The computed snapshot is stored for subsequent history queries.
	history, err := svc.SystemHealthHistory(ctx, "org_fresh", 24)
	require.NoError(t, err)
	assert.Equal(t, 1, history.DataPoints)
}

func TestSystemHealthHistory(t *testing.T) {
	svc, ctx := newTestService(t)

	history, err := svc.SystemHealthHistory(ctx, "org_demo", 0)
	require.NoError(t, err)

	assert.Equal(t, 24, history.TimeRangeHours)
	assert.Equal(t, 1, history.DataPoints)
	require.Len(t, history.HealthHistory, 1)
	assert.Equal(t, "health_001", history.HealthHistory[0].ID)
}

func TestSimulateFailure(t *testing.T) {
	svc, ctx := newTestService(t)

	result, err := svc.SimulateFailure(ctx, "org_demo", "model_degradation")
	require.NoError(t, err)

	require.NotNil(t, result.Failure)
	assert.InDelta(t, 0.3758, result.Failure.SeverityScore, 0.001)
	assert.Equal(t, "org_demo", result.Failure.OrganizationID)
	assert.Equal(t, testNow, result.Failure.DetectedAt)
	require.NotNil(t, result.Alert)
	assert.Equal(t, models.SeverityLow, result.Alert.Severity)
	assert.Equal(t, "Successfully simulated model_degradation", result.Message)

	spike, err := svc.SimulateFailure(ctx, "org_demo", "latency_spike")
	require.NoError(t, err)
	assert.Equal(t, models.SeverityCritical, spike.Alert.Severity)

	_, err = svc.SimulateFailure(ctx, "org_demo", "gamma_burst")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestSimulateFailureDefaultsType(t *testing.T) {
	svc, ctx := newTestService(t)

	result, err := svc.SimulateFailure(ctx, "org_demo", "")
	require.NoError(t, err)
	assert.Equal(t, "model_degradation", result.SimulationType)
}

func TestPreviewNotification(t *testing.T) {
	svc, ctx := newTestService(t)

	preview, err := svc.PreviewNotification(ctx, "template_001", "alert_003")
	require.NoError(t, err)

	assert.Equal(t, models.ChannelEmail, preview.Channel)
	assert.Equal(t, "🚨 CRITICAL ALERT: Critical Error Rate Spike", preview.Rendered.Subject)
	assert.Contains(t, preview.Rendered.Body, "Severity: CRITICAL")
	assert.Contains(t, preview.Rendered.Body, "Component: api")
	assert.Contains(t, preview.Rendered.Body, "Alert ID: alert_003")

	_, err = svc.PreviewNotification(ctx, "missing", "alert_003")
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))

	_, err = svc.PreviewNotification(ctx, "template_001", "missing")
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestListTemplates(t *testing.T) {
	svc, ctx := newTestService(t)

	page, err := svc.ListTemplates(ctx, TemplateQuery{OrganizationID: "org_demo", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, page.Templates, 1)
	assert.Equal(t, "Critical Alert Email", page.Templates[0].TemplateName)
}
