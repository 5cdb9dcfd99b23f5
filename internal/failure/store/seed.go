package store

import (
	"context"
	"time"

	"zenthera/internal/failure/engine"
	"zenthera/internal/failure/models"
)

const criticalAlertEmailBody = `CRITICAL ALERT NOTIFICATION

Alert: {alert_title}
Severity: {severity}
Component: {component}
Triggered: {triggered_at}

Description:
{alert_description}

Alert ID: {alert_id}
Organization: {organization}

Please acknowledge this alert immediately and begin investigation.

ZenThera AI Ethics Platform`

// SeedDemoData loads the demo organization's sample failures, alerts,
// incident, monitoring rules, health snapshot and notification template,
// anchored to the given reference time.
func SeedDemoData(s *InMemory, orgID string, now time.Time) {
	ctx := context.Background()

	failure1 := &models.FailureDetection{
		ID:                    "failure_001",
		OrganizationID:        orgID,
		FailureType:           models.FailureModelDegradation,
		DetectedAt:            now.Add(-30 * time.Minute),
		DetectionMethod:       "threshold",
		AffectedComponent:     "model",
		ComponentID:           "gpt-4-model",
		SeverityScore:         0.75,
		ConfidenceLevel:       0.88,
		FailureDescription:    "Model accuracy dropped by 15% compared to baseline",
		RootCauseAnalysis:     "Potential data drift detected in recent inputs",
		ImpactAssessment:      "Reduced model accuracy affecting user experience",
		AffectedMetrics:       []string{"accuracy", "f1_score"},
		BaselineValues:        map[string]float64{"accuracy": 0.92, "f1_score": 0.89},
		CurrentValues:         map[string]float64{"accuracy": 0.78, "f1_score": 0.76},
		DeviationPercentage:   15.2,
		DetectionRules:        []string{"model_degradation_threshold"},
		MitigationSuggestions: []string{
			"Retrain model with recent data",
			"Investigate data quality issues",
			"Consider model rollback if degradation is severe",
		},
	}
	_ = s.CreateFailure(ctx, failure1)

	failure2 := &models.FailureDetection{
		ID:                    "failure_002",
		OrganizationID:        orgID,
		FailureType:           models.FailureLatencySpike,
		DetectedAt:            now.Add(-15 * time.Minute),
		DetectionMethod:       "anomaly_detection",
		AffectedComponent:     "api",
		ComponentID:           "api-gateway",
		SeverityScore:         0.65,
		ConfidenceLevel:       0.92,
		FailureDescription:    "Response time increased by 180% in the last 10 minutes",
		RootCauseAnalysis:     "Possible resource contention or downstream service issues",
		ImpactAssessment:      "Users experiencing slower response times",
		AffectedMetrics:       []string{"response_time"},
		BaselineValues:        map[string]float64{"response_time": 1.2},
		CurrentValues:         map[string]float64{"response_time": 3.4},
		DeviationPercentage:   183.3,
		DetectionRules:        []string{"latency_spike_anomaly"},
		MitigationSuggestions: []string{
			"Check resource utilization",
			"Investigate downstream dependencies",
			"Consider scaling resources",
		},
	}
	_ = s.CreateFailure(ctx, failure2)

	ackAt := now.Add(-20 * time.Minute)
	alert1 := engine.AlertFromFailure(failure1, nil)
	alert1.ID = "alert_001"
	alert1.AcknowledgedAt = &ackAt
	alert1.AcknowledgedBy = "user_001"
	alert1.Status = models.AlertInvestigating
	_ = s.CreateAlert(ctx, alert1)

	alert2 := engine.AlertFromFailure(failure2, nil)
	alert2.ID = "alert_002"
	_ = s.CreateAlert(ctx, alert2)

	alert3 := &models.Alert{
		ID:                     "alert_003",
		OrganizationID:         orgID,
		AlertType:              "threshold",
		Severity:               models.SeverityCritical,
		Status:                 models.AlertOpen,
		AlertTitle:             "Critical Error Rate Spike",
		AlertDescription:       "Error rate exceeded 5% threshold - immediate attention required",
		SourceComponent:        "api",
		SourceMetric:           "error_rate",
		TriggeredAt:            now.Add(-5 * time.Minute),
		TriggeredBy:            "monitoring_rule_003",
		AcknowledgmentRequired: true,
		NotificationChannels: []models.NotificationChannel{
			models.ChannelEmail, models.ChannelSlack, models.ChannelPagerDuty,
		},
		Tags: []string{"critical", "error_rate", "api"},
	}
	_ = s.CreateAlert(ctx, alert3)

	estResolution := now.Add(2 * time.Hour)
	incident1 := &models.Incident{
		ID:                  "incident_001",
		OrganizationID:      orgID,
		IncidentTitle:       "Model Performance Degradation",
		IncidentDescription: "Significant drop in model accuracy affecting multiple services",
		Status:              models.IncidentInvestigating,
		Severity:            models.SeverityHigh,
		Priority:            2,
		CreatedAt:           now.Add(-25 * time.Minute),
		CreatedBy:           "user_001",
		AssignedTo:          "user_002",
		IncidentCommander:   "user_003",
		AffectedServices:    []string{"recommendation_service", "content_moderation"},
		AffectedUsers:       1500,
		BusinessImpact:      "Reduced recommendation quality and content moderation accuracy",
		RelatedAlerts:       []string{alert1.ID},
		RelatedFailures:     []string{failure1.ID},
		Timeline: []models.TimelineEntry{
			{
				Timestamp:   now.Add(-25 * time.Minute),
				Event:       "Incident created",
				Description: "Model degradation detected and incident opened",
				Actor:       "system",
			},
			{
				Timestamp:   now.Add(-20 * time.Minute),
				Event:       "Alert acknowledged",
				Description: "Alert acknowledged by on-call engineer",
				Actor:       "user_001",
			},
			{
				Timestamp:   now.Add(-15 * time.Minute),
				Event:       "Investigation started",
				Description: "Root cause analysis initiated",
				Actor:       "user_002",
			},
		},
		ResolutionSteps: []string{
			"Analyze recent data patterns",
			"Check model training pipeline",
			"Prepare model rollback if necessary",
		},
		EstimatedResolution: &estResolution,
	}
	_ = s.CreateIncident(ctx, incident1)

	rule1 := &models.MonitoringRule{
		ID:                      "rule_001",
		OrganizationID:          orgID,
		RuleName:                "Model Accuracy Threshold",
		RuleDescription:         "Alert when model accuracy drops below 85%",
		MetricName:              models.MetricQualityScore,
		ComponentType:           "model",
		ComponentFilter:         map[string]string{"model_type": "classification"},
		ThresholdType:           "static",
		ThresholdValue:          0.85,
		ThresholdOperator:       "<",
		BaselinePeriodHours:     24,
		EvaluationWindowMinutes: 15,
		SensitivityLevel:        0.8,
		MinDataPoints:           3,
		FailureType:             models.FailureModelDegradation,
		AlertSeverity:           models.SeverityHigh,
		NotificationChannels: []models.NotificationChannel{
			models.ChannelEmail, models.ChannelSlack,
		},
		SuppressionDurationMinutes: 60,
		IsActive:                   true,
		CreatedAt:                  now.Add(-2 * time.Hour),
		CreatedBy:                  "system",
		TriggerCount:               3,
		FalsePositiveCount:         1,
	}
	_ = s.CreateRule(ctx, rule1)

	rule2 := &models.MonitoringRule{
		ID:                         "rule_002",
		OrganizationID:             orgID,
		RuleName:                   "Response Time Anomaly",
		RuleDescription:            "Detect unusual spikes in response time",
		MetricName:                 models.MetricResponseTime,
		ComponentType:              "api",
		ComponentFilter:            map[string]string{"service": "main_api"},
		ThresholdType:              "anomaly",
		ThresholdOperator:          ">",
		BaselinePeriodHours:        168,
		EvaluationWindowMinutes:    5,
		SensitivityLevel:           0.9,
		MinDataPoints:              3,
		FailureType:                models.FailureLatencySpike,
		AlertSeverity:              models.SeverityMedium,
		NotificationChannels:       []models.NotificationChannel{models.ChannelEmail},
		SuppressionDurationMinutes: 60,
		IsActive:                   true,
		CreatedAt:                  now.Add(-time.Hour),
		CreatedBy:                  "system",
		TriggerCount:               1,
	}
	_ = s.CreateRule(ctx, rule2)

	health := engine.CalculateSystemHealth(now,
		[]*models.Alert{alert1, alert2, alert3},
		[]*models.Incident{incident1},
		[]*models.FailureDetection{failure1, failure2},
		map[string]float64{
			"response_time":     2.1,
			"error_rate":        0.023,
			"throughput":        145.0,
			"quality_score":     0.82,
			"p95_response_time": 3.8,
		})
	health.ID = "health_001"
	health.OrganizationID = orgID
	_ = s.CreateHealth(ctx, health)

	template1 := &models.NotificationTemplate{
		ID:              "template_001",
		OrganizationID:  orgID,
		TemplateName:    "Critical Alert Email",
		Channel:         models.ChannelEmail,
		SubjectTemplate: "🚨 CRITICAL ALERT: {alert_title}",
		BodyTemplate:    criticalAlertEmailBody,
		Variables: []string{
			"alert_title", "severity", "component", "triggered_at",
			"alert_description", "alert_id", "organization",
		},
		FormattingRules: map[string]any{"max_subject_length": 100},
		IsActive:        true,
		CreatedAt:       now.Add(-24 * time.Hour),
		CreatedBy:       "system",
		UsageCount:      15,
	}
	_ = s.CreateTemplate(ctx, template1)
}
