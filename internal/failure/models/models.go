// Package models defines the entities of the failure detection module:
// detected failures, alerts, incidents, monitoring rules, system health
// snapshots and notification templates.
package models

import (
	"fmt"
	"time"
)

// FailureType classifies a detected failure.
type FailureType string

const (
	FailureModelDegradation    FailureType = "model_degradation"
	FailurePerformanceAnomaly  FailureType = "performance_anomaly"
	FailureQualityDrop         FailureType = "quality_drop"
	FailureLatencySpike        FailureType = "latency_spike"
	FailureErrorRateIncrease   FailureType = "error_rate_increase"
	FailureBiasDrift           FailureType = "bias_drift"
	FailureSafetyViolation     FailureType = "safety_violation"
	FailureComplianceBreach    FailureType = "compliance_breach"
	FailureResourceExhaustion  FailureType = "resource_exhaustion"
	FailureIntegrationFailure  FailureType = "integration_failure"
	FailureDataPipelineFailure FailureType = "data_pipeline_failure"
	FailureSecurityIncident    FailureType = "security_incident"
)

// FailureTypes lists every known failure type, in reporting order.
var FailureTypes = []FailureType{
	FailureModelDegradation, FailurePerformanceAnomaly, FailureQualityDrop,
	FailureLatencySpike, FailureErrorRateIncrease, FailureBiasDrift,
	FailureSafetyViolation, FailureComplianceBreach, FailureResourceExhaustion,
	FailureIntegrationFailure, FailureDataPipelineFailure, FailureSecurityIncident,
}

// Valid reports whether t is a known failure type.
func (t FailureType) Valid() bool {
	for _, known := range FailureTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Severity grades alerts and incidents.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Severities lists every severity, most urgent first.
var Severities = []Severity{
	SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo,
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// AlertStatus tracks an alert through its lifecycle.
type AlertStatus string

const (
	AlertOpen          AlertStatus = "open"
	AlertAcknowledged  AlertStatus = "acknowledged"
	AlertInvestigating AlertStatus = "investigating"
	AlertResolved      AlertStatus = "resolved"
	AlertClosed        AlertStatus = "closed"
	AlertSuppressed    AlertStatus = "suppressed"
)

// AlertStatuses lists every alert status, in lifecycle order.
var AlertStatuses = []AlertStatus{
	AlertOpen, AlertAcknowledged, AlertInvestigating,
	AlertResolved, AlertClosed, AlertSuppressed,
}

// IncidentStatus tracks an incident through its lifecycle.
type IncidentStatus string

const (
	IncidentDetected      IncidentStatus = "detected"
	IncidentTriaging      IncidentStatus = "triaging"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentMitigating    IncidentStatus = "mitigating"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentPostMortem    IncidentStatus = "post_mortem"
	IncidentClosed        IncidentStatus = "closed"
)

// IncidentStatuses lists every incident status, in lifecycle order.
var IncidentStatuses = []IncidentStatus{
	IncidentDetected, IncidentTriaging, IncidentInvestigating,
	IncidentMitigating, IncidentResolved, IncidentPostMortem, IncidentClosed,
}

// MonitoringMetric names a metric a monitoring rule can watch.
type MonitoringMetric string

const (
	MetricResponseTime     MonitoringMetric = "response_time"
	MetricErrorRate        MonitoringMetric = "error_rate"
	MetricThroughput       MonitoringMetric = "throughput"
	MetricQualityScore     MonitoringMetric = "quality_score"
	MetricBiasScore        MonitoringMetric = "bias_score"
	MetricSafetyScore      MonitoringMetric = "safety_score"
	MetricComplianceScore  MonitoringMetric = "compliance_score"
	MetricResourceUsage    MonitoringMetric = "resource_usage"
	MetricUserSatisfaction MonitoringMetric = "user_satisfaction"
	MetricModelConfidence  MonitoringMetric = "model_confidence"
)

// MonitoringMetrics lists every metric, in reporting order.
var MonitoringMetrics = []MonitoringMetric{
	MetricResponseTime, MetricErrorRate, MetricThroughput,
	MetricQualityScore, MetricBiasScore, MetricSafetyScore,
	MetricComplianceScore, MetricResourceUsage,
	MetricUserSatisfaction, MetricModelConfidence,
}

// Valid reports whether m is a known monitoring metric.
func (m MonitoringMetric) Valid() bool {
	for _, known := range MonitoringMetrics {
		if m == known {
			return true
		}
	}
	return false
}

// NotificationChannel names a delivery channel for alert notifications.
type NotificationChannel string

const (
	ChannelEmail     NotificationChannel = "email"
	ChannelSlack     NotificationChannel = "slack"
	ChannelTeams     NotificationChannel = "teams"
	ChannelWebhook   NotificationChannel = "webhook"
	ChannelSMS       NotificationChannel = "sms"
	ChannelPagerDuty NotificationChannel = "pagerduty"
	ChannelDashboard NotificationChannel = "dashboard"
)

// FailureDetection is one detected failure in a monitored AI system.
type FailureDetection struct {
	ID                    string             `json:"id"`
	OrganizationID        string             `json:"organization_id"`
	FailureType           FailureType        `json:"failure_type"`
	DetectedAt            time.Time          `json:"detected_at"`
	DetectionMethod       string             `json:"detection_method"`
	AffectedComponent     string             `json:"affected_component"`
	ComponentID           string             `json:"component_id"`
	SeverityScore         float64            `json:"severity_score"`
	ConfidenceLevel       float64            `json:"confidence_level"`
	FailureDescription    string             `json:"failure_description"`
	RootCauseAnalysis     string             `json:"root_cause_analysis,omitempty"`
	ImpactAssessment      string             `json:"impact_assessment,omitempty"`
	AffectedMetrics       []string           `json:"affected_metrics,omitempty"`
	BaselineValues        map[string]float64 `json:"baseline_values,omitempty"`
	CurrentValues         map[string]float64 `json:"current_values,omitempty"`
	DeviationPercentage   float64            `json:"deviation_percentage"`
	DetectionRules        []string           `json:"detection_rules,omitempty"`
	MitigationSuggestions []string           `json:"mitigation_suggestions,omitempty"`
	Metadata              map[string]any     `json:"metadata,omitempty"`
}

// Validate checks the fields a caller must supply when reporting a failure.
func (f *FailureDetection) Validate() error {
	switch {
	case f.OrganizationID == "":
		return fmt.Errorf("organization_id is required")
	case f.FailureType == "":
		return fmt.Errorf("failure_type is required")
	case !f.FailureType.Valid():
		return fmt.Errorf("unknown failure_type %q", f.FailureType)
	case f.AffectedComponent == "":
		return fmt.Errorf("affected_component is required")
	case f.ComponentID == "":
		return fmt.Errorf("component_id is required")
	case f.FailureDescription == "":
		return fmt.Errorf("failure_description is required")
	case f.SeverityScore < 0 || f.SeverityScore > 1:
		return fmt.Errorf("severity_score must be between 0 and 1")
	}
	return nil
}

// NotificationEntry records one action taken on an alert.
type NotificationEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
}

// Alert is a triggered notification requiring operator attention.
type Alert struct {
	ID                     string                `json:"id"`
	OrganizationID         string                `json:"organization_id"`
	AlertType              string                `json:"alert_type"`
	Severity               Severity              `json:"severity"`
	Status                 AlertStatus           `json:"status"`
	AlertTitle             string                `json:"alert_title"`
	AlertDescription       string                `json:"alert_description"`
	SourceComponent        string                `json:"source_component"`
	SourceMetric           string                `json:"source_metric,omitempty"`
	SourceFailureID        string                `json:"source_failure_id,omitempty"`
	TriggeredAt            time.Time             `json:"triggered_at"`
	TriggeredBy            string                `json:"triggered_by"`
	AcknowledgedAt         *time.Time            `json:"acknowledged_at,omitempty"`
	AcknowledgedBy         string                `json:"acknowledged_by,omitempty"`
	ResolvedAt             *time.Time            `json:"resolved_at,omitempty"`
	ResolvedBy             string                `json:"resolved_by,omitempty"`
	ResolutionNotes        string                `json:"resolution_notes,omitempty"`
	EscalationLevel        int                   `json:"escalation_level"`
	AcknowledgmentRequired bool                  `json:"acknowledgment_required"`
	NotificationChannels   []NotificationChannel `json:"notification_channels,omitempty"`
	NotificationHistory    []NotificationEntry   `json:"notification_history,omitempty"`
	Tags                   []string              `json:"tags,omitempty"`
	Metadata               map[string]any        `json:"metadata,omitempty"`
}

// Active reports whether the alert still demands attention.
func (a *Alert) Active() bool {
	return a.Status == AlertOpen || a.Status == AlertAcknowledged
}

// TimelineEntry records one event in an incident's history.
type TimelineEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Event       string    `json:"event"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
}

// Incident is a tracked operational incident, usually opened from alerts.
type Incident struct {
	ID                  string          `json:"id"`
	OrganizationID      string          `json:"organization_id"`
	IncidentTitle       string          `json:"incident_title"`
	IncidentDescription string          `json:"incident_description"`
	Status              IncidentStatus  `json:"status"`
	Severity            Severity        `json:"severity"`
	Priority            int             `json:"priority"`
	CreatedAt           time.Time       `json:"created_at"`
	CreatedBy           string          `json:"created_by"`
	AssignedTo          string          `json:"assigned_to,omitempty"`
	IncidentCommander   string          `json:"incident_commander,omitempty"`
	AffectedServices    []string        `json:"affected_services,omitempty"`
	AffectedUsers       int             `json:"affected_users"`
	BusinessImpact      string          `json:"business_impact,omitempty"`
	RelatedAlerts       []string        `json:"related_alerts,omitempty"`
	RelatedFailures     []string        `json:"related_failures,omitempty"`
	Timeline            []TimelineEntry `json:"timeline,omitempty"`
	ResolutionSteps     []string        `json:"resolution_steps,omitempty"`
	EstimatedResolution *time.Time      `json:"estimated_resolution,omitempty"`
	ResolvedAt          *time.Time      `json:"resolved_at,omitempty"`
	Metadata            map[string]any  `json:"metadata,omitempty"`
}

// Open reports whether the incident is still being worked.
func (i *Incident) Open() bool {
	return i.Status != IncidentResolved && i.Status != IncidentClosed
}

// Validate checks the fields a caller must supply when opening an incident.
func (i *Incident) Validate() error {
	switch {
	case i.OrganizationID == "":
		return fmt.Errorf("organization_id is required")
	case i.IncidentTitle == "":
		return fmt.Errorf("incident_title is required")
	case i.IncidentDescription == "":
		return fmt.Errorf("incident_description is required")
	case i.Severity == "":
		return fmt.Errorf("severity is required")
	case !i.Severity.Valid():
		return fmt.Errorf("unknown severity %q", i.Severity)
	case i.CreatedBy == "":
		return fmt.Errorf("created_by is required")
	}
	return nil
}

// MonitoringRule configures automated detection against one metric.
type MonitoringRule struct {
	ID                         string                `json:"id"`
	OrganizationID             string                `json:"organization_id"`
	RuleName                   string                `json:"rule_name"`
	RuleDescription            string                `json:"rule_description,omitempty"`
	MetricName                 MonitoringMetric      `json:"metric_name"`
	ComponentType              string                `json:"component_type"`
	ComponentFilter            map[string]string     `json:"component_filter,omitempty"`
	ThresholdType              string                `json:"threshold_type"`
	ThresholdValue             float64               `json:"threshold_value"`
	ThresholdOperator          string                `json:"threshold_operator"`
	BaselinePeriodHours        int                   `json:"baseline_period_hours"`
	EvaluationWindowMinutes    int                   `json:"evaluation_window_minutes"`
	SensitivityLevel           float64               `json:"sensitivity_level"`
	MinDataPoints              int                   `json:"min_data_points"`
	FailureType                FailureType           `json:"failure_type"`
	AlertSeverity              Severity              `json:"alert_severity"`
	NotificationChannels       []NotificationChannel `json:"notification_channels,omitempty"`
	SuppressionDurationMinutes int                   `json:"suppression_duration_minutes"`
	IsActive                   bool                  `json:"is_active"`
	CreatedAt                  time.Time             `json:"created_at"`
	CreatedBy                  string                `json:"created_by"`
	LastTriggered              *time.Time            `json:"last_triggered,omitempty"`
	TriggerCount               int                   `json:"trigger_count"`
	FalsePositiveCount         int                   `json:"false_positive_count"`
	Metadata                   map[string]any        `json:"metadata,omitempty"`
}

// Validate checks the fields a caller must supply when creating a rule.
func (r *MonitoringRule) Validate() error {
	switch {
	case r.OrganizationID == "":
		return fmt.Errorf("organization_id is required")
	case r.RuleName == "":
		return fmt.Errorf("rule_name is required")
	case r.MetricName == "":
		return fmt.Errorf("metric_name is required")
	case !r.MetricName.Valid():
		return fmt.Errorf("unknown metric_name %q", r.MetricName)
	case r.ComponentType == "":
		return fmt.Errorf("component_type is required")
	}
	return nil
}

// SystemHealth is one point-in-time snapshot of overall system health.
type SystemHealth struct {
	ID                     string             `json:"id"`
	OrganizationID         string             `json:"organization_id"`
	Timestamp              time.Time          `json:"timestamp"`
	OverallHealthScore     float64            `json:"overall_health_score"`
	ComponentHealth        map[string]float64 `json:"component_health"`
	ActiveAlerts           int                `json:"active_alerts"`
	CriticalAlerts         int                `json:"critical_alerts"`
	OpenIncidents          int                `json:"open_incidents"`
	RecentFailures         int                `json:"recent_failures"`
	MeanResponseTime       float64            `json:"mean_response_time"`
	P95ResponseTime        float64            `json:"p95_response_time"`
	ErrorRatePercentage    float64            `json:"error_rate_percentage"`
	ThroughputRPM          float64            `json:"throughput_rpm"`
	AvailabilityPercentage float64            `json:"availability_percentage"`
	ResourceUtilization    map[string]float64 `json:"resource_utilization"`
	TrendAnalysis          map[string]string  `json:"trend_analysis"`
	Metadata               map[string]any     `json:"metadata,omitempty"`
}

// NotificationTemplate renders alert notifications for one channel.
type NotificationTemplate struct {
	ID              string              `json:"id"`
	OrganizationID  string              `json:"organization_id"`
	TemplateName    string              `json:"template_name"`
	Channel         NotificationChannel `json:"channel"`
	SubjectTemplate string              `json:"subject_template"`
	BodyTemplate    string              `json:"body_template"`
	Variables       []string            `json:"variables,omitempty"`
	FormattingRules map[string]any      `json:"formatting_rules,omitempty"`
	IsActive        bool                `json:"is_active"`
	CreatedAt       time.Time           `json:"created_at"`
	CreatedBy       string              `json:"created_by,omitempty"`
	UsageCount      int                 `json:"usage_count"`
}
