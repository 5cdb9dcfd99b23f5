// Package service implements the failure detection use cases: failure
// reporting with automatic alerting, the alert lifecycle, incident tracking,
// monitoring rules, system health scoring and failure simulation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"zenthera/internal/failure/engine"
	"zenthera/internal/failure/metrics"
	"zenthera/internal/failure/models"
	"zenthera/internal/failure/store"
	dErrors "zenthera/pkg/domain-errors"
	"zenthera/pkg/platform/sentinel"
	"zenthera/pkg/requestcontext"
)

// Store is the persistence surface the failure detection service needs.
type Store interface {
	CreateFailure(ctx context.Context, f *models.FailureDetection) error
	GetFailure(ctx context.Context, id string) (*models.FailureDetection, error)
	ListFailures(ctx context.Context, filter store.FailureFilter) ([]*models.FailureDetection, error)
	CreateAlert(ctx context.Context, a *models.Alert) error
	GetAlert(ctx context.Context, id string) (*models.Alert, error)
	UpdateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context, filter store.AlertFilter) ([]*models.Alert, error)
	CreateIncident(ctx context.Context, i *models.Incident) error
	ListIncidents(ctx context.Context, filter store.IncidentFilter) ([]*models.Incident, error)
	CreateRule(ctx context.Context, r *models.MonitoringRule) error
	ListRules(ctx context.Context, filter store.RuleFilter) ([]*models.MonitoringRule, error)
	CreateHealth(ctx context.Context, h *models.SystemHealth) error
	LatestHealth(ctx context.Context, orgID string) (*models.SystemHealth, error)
	HealthSince(ctx context.Context, orgID string, since time.Time) ([]*models.SystemHealth, error)
	CreateTemplate(ctx context.Context, t *models.NotificationTemplate) error
	GetTemplate(ctx context.Context, id string) (*models.NotificationTemplate, error)
	ListTemplates(ctx context.Context, filter store.TemplateFilter) ([]*models.NotificationTemplate, error)
}

// Service coordinates failure detection operations over the store.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a failure detection Service.
func New(st Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, logger: logger, metrics: m}
}

// DashboardOverview holds the headline dashboard numbers.
type DashboardOverview struct {
	TotalFailuresDetected  int     `json:"total_failures_detected"`
	TotalAlertsGenerated   int     `json:"total_alerts_generated"`
	TotalIncidentsCreated  int     `json:"total_incidents_created"`
	OpenAlerts             int     `json:"open_alerts"`
	CriticalAlerts         int     `json:"critical_alerts"`
	AcknowledgedAlerts     int     `json:"acknowledged_alerts"`
	OpenIncidents          int     `json:"open_incidents"`
	SystemHealthScore      float64 `json:"system_health_score"`
	AvailabilityPercentage float64 `json:"availability_percentage"`
	MeanResponseTime       float64 `json:"mean_response_time"`
}

// ActivityEntry is one row in the dashboard's recent activity feed.
type ActivityEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
}

// Dashboard is the failure detection dashboard payload.
type Dashboard struct {
	Overview        DashboardOverview    `json:"overview"`
	FailureTypes    map[string]int       `json:"failure_types"`
	ComponentHealth map[string]float64   `json:"component_health"`
	RecentActivity  []ActivityEntry      `json:"recent_activity"`
	SystemHealth    *models.SystemHealth `json:"system_health"`
	TimeRange       string               `json:"time_range"`
	LastUpdated     time.Time            `json:"last_updated"`
}

// GetDashboard aggregates failures, alerts, incidents and the latest health
// snapshot over the requested time window.
func (s *Service) GetDashboard(ctx context.Context, orgID, timeRange string) (*Dashboard, error) {
	now := requestcontext.Now(ctx)
	since, label := timeWindow(timeRange, now)

	failures, err := s.store.ListFailures(ctx, store.FailureFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list failures", err)
	}
	alerts, err := s.store.ListAlerts(ctx, store.AlertFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list alerts", err)
	}
	incidents, err := s.store.ListIncidents(ctx, store.IncidentFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list incidents", err)
	}

	latestHealth, err := s.store.LatestHealth(ctx, orgID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load system health", err)
	}

	overview := DashboardOverview{
		TotalFailuresDetected:  len(failures),
		TotalAlertsGenerated:   len(alerts),
		TotalIncidentsCreated:  len(incidents),
		SystemHealthScore:      0.85,
		AvailabilityPercentage: 99.5,
		MeanResponseTime:       1.2,
	}
	for _, a := range alerts {
		if a.Status == models.AlertOpen {
			overview.OpenAlerts++
		}
		if a.Status == models.AlertAcknowledged {
			overview.AcknowledgedAlerts++
		}
		if a.Severity == models.SeverityCritical {
			overview.CriticalAlerts++
		}
	}
	for _, i := range incidents {
		if i.Open() {
			overview.OpenIncidents++
		}
	}

	componentHealth := map[string]float64{}
	if latestHealth != nil {
		overview.SystemHealthScore = latestHealth.OverallHealthScore
		overview.AvailabilityPercentage = latestHealth.AvailabilityPercentage
		overview.MeanResponseTime = latestHealth.MeanResponseTime
		componentHealth = latestHealth.ComponentHealth
	}

	failureTypes := map[string]int{}
	for _, f := range failures {
		failureTypes[string(f.FailureType)]++
	}

	// Lists come back newest first, so the head is the recent slice.
	var activity []ActivityEntry
	for _, f := range topN(failures, 3) {
		severity := "medium"
		if f.SeverityScore > 0.7 {
			severity = "high"
		}
		activity = append(activity, ActivityEntry{
			Timestamp:   f.DetectedAt,
			Type:        "failure_detected",
			Description: engine.FailureDisplayName(f.FailureType) + " detected in " + f.AffectedComponent,
			Severity:    severity,
		})
	}
	for _, a := range topN(alerts, 2) {
		activity = append(activity, ActivityEntry{
			Timestamp:   a.TriggeredAt,
			Type:        "alert_triggered",
			Description: a.AlertTitle,
			Severity:    string(a.Severity),
		})
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].Timestamp.After(activity[j].Timestamp) })

	return &Dashboard{
		Overview:        overview,
		FailureTypes:    failureTypes,
		ComponentHealth: componentHealth,
		RecentActivity:  topN(activity, 10),
		SystemHealth:    latestHealth,
		TimeRange:       label,
		LastUpdated:     now,
	}, nil
}

// FailureQuery narrows and pages ListFailures.
type FailureQuery struct {
	OrganizationID string
	FailureType    models.FailureType
	Component      string
	MinSeverity    float64
	Limit          int
	Offset         int
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	TotalCount int  `json:"total_count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
}

// FailureSummary aggregates a filtered failure set.
type FailureSummary struct {
	TotalFailures int            `json:"total_failures"`
	ByType        map[string]int `json:"by_type"`
	ByComponent   map[string]int `json:"by_component"`
}

// FailurePage is one page of failures plus summary counts.
type FailurePage struct {
	Failures   []*models.FailureDetection `json:"failures"`
	Pagination Pagination                 `json:"pagination"`
	Summary    FailureSummary             `json:"summary"`
}

// ListFailures returns detected failures, newest first, with type and
// component breakdowns over the whole filtered set.
func (s *Service) ListFailures(ctx context.Context, q FailureQuery) (*FailurePage, error) {
	filtered, err := s.store.ListFailures(ctx, store.FailureFilter{
		OrganizationID: q.OrganizationID,
		FailureType:    q.FailureType,
		Component:      q.Component,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list failures", err)
	}
	if q.MinSeverity > 0 {
		kept := filtered[:0]
		for _, f := range filtered {
			if f.SeverityScore >= q.MinSeverity {
				kept = append(kept, f)
			}
		}
		filtered = kept
	}

	summary := FailureSummary{
		TotalFailures: len(filtered),
		ByType:        map[string]int{},
		ByComponent: map[string]int{
			"model": 0, "api": 0, "pipeline": 0, "integration": 0,
		},
	}
	for _, t := range models.FailureTypes {
		summary.ByType[string(t)] = 0
	}
	for _, f := range filtered {
		summary.ByType[string(f.FailureType)]++
		if _, tracked := summary.ByComponent[f.AffectedComponent]; tracked {
			summary.ByComponent[f.AffectedComponent]++
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	page := paginate(filtered, q.Offset, limit)

	return &FailurePage{
		Failures: page,
		Pagination: Pagination{
			TotalCount: len(filtered),
			Limit:      limit,
			Offset:     q.Offset,
			HasMore:    q.Offset+limit < len(filtered),
		},
		Summary: summary,
	}, nil
}

// FailureInput is the payload for reporting a failure.
type FailureInput struct {
	OrganizationID        string             `json:"organization_id"`
	FailureType           models.FailureType `json:"failure_type"`
	DetectionMethod       string             `json:"detection_method"`
	AffectedComponent     string             `json:"affected_component"`
	ComponentID           string             `json:"component_id"`
	SeverityScore         float64            `json:"severity_score"`
	ConfidenceLevel       float64            `json:"confidence_level"`
	FailureDescription    string             `json:"failure_description"`
	RootCauseAnalysis     string             `json:"root_cause_analysis"`
	ImpactAssessment      string             `json:"impact_assessment"`
	AffectedMetrics       []string           `json:"affected_metrics"`
	BaselineValues        map[string]float64 `json:"baseline_values"`
	CurrentValues         map[string]float64 `json:"current_values"`
	DeviationPercentage   float64            `json:"deviation_percentage"`
	DetectionRules        []string           `json:"detection_rules"`
	MitigationSuggestions []string           `json:"mitigation_suggestions"`
	Metadata              map[string]any     `json:"metadata"`
}

// FailureReport is the result of reporting a failure: the stored record plus
// the automatically created alert, when severity warranted one.
type FailureReport struct {
	Failure      *models.FailureDetection `json:"failure"`
	AlertCreated *models.Alert            `json:"alert_created"`
	Message      string                   `json:"message"`
}

// autoAlertSeverity is the severity score at or above which a reported
// failure also triggers an alert.
const autoAlertSeverity = 0.5

// ReportFailure records a manually reported failure and raises an alert when
// its severity score reaches the auto-alert threshold.
func (s *Service) ReportFailure(ctx context.Context, in FailureInput) (*FailureReport, error) {
	failure := &models.FailureDetection{
		ID:                    uuid.NewString(),
		OrganizationID:        in.OrganizationID,
		FailureType:           in.FailureType,
		DetectedAt:            requestcontext.Now(ctx),
		DetectionMethod:       orDefault(in.DetectionMethod, "manual"),
		AffectedComponent:     in.AffectedComponent,
		ComponentID:           in.ComponentID,
		SeverityScore:         in.SeverityScore,
		ConfidenceLevel:       in.ConfidenceLevel,
		FailureDescription:    in.FailureDescription,
		RootCauseAnalysis:     in.RootCauseAnalysis,
		ImpactAssessment:      in.ImpactAssessment,
		AffectedMetrics:       in.AffectedMetrics,
		BaselineValues:        in.BaselineValues,
		CurrentValues:         in.CurrentValues,
		DeviationPercentage:   in.DeviationPercentage,
		DetectionRules:        in.DetectionRules,
		MitigationSuggestions: in.MitigationSuggestions,
		Metadata:              in.Metadata,
	}
	if failure.ConfidenceLevel == 0 {
		failure.ConfidenceLevel = 0.8
	}
	if err := failure.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid failure", err)
	}

	if err := s.store.CreateFailure(ctx, failure); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store failure", err)
	}
	s.metrics.IncrementFailuresDetected(string(failure.FailureType), failure.AffectedComponent)

	if failure.SeverityScore < autoAlertSeverity {
		return &FailureReport{
			Failure: failure,
			Message: "Failure detected (no alert created due to low severity)",
		}, nil
	}

	alert := engine.AlertFromFailure(failure, nil)
	alert.ID = uuid.NewString()
	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store alert", err)
	}
	s.metrics.IncrementAlertsTriggered(string(alert.Severity))

	return &FailureReport{
		Failure:      failure,
		AlertCreated: alert,
		Message:      "Failure detected and alert created",
	}, nil
}

// AlertQuery narrows and pages ListAlerts.
type AlertQuery struct {
	OrganizationID string
	Severity       models.Severity
	Status         models.AlertStatus
	Component      string
	Limit          int
	Offset         int
}

// RelatedFailure is the failure context attached to an enriched alert.
type RelatedFailure struct {
	ID              string             `json:"id"`
	Type            models.FailureType `json:"type"`
	SeverityScore   float64            `json:"severity_score"`
	AffectedMetrics []string           `json:"affected_metrics"`
}

// EnrichedAlert is an alert annotated with its source failure, age and
// computed priority.
type EnrichedAlert struct {
	*models.Alert
	RelatedFailure *RelatedFailure `json:"related_failure,omitempty"`
	AgeMinutes     float64         `json:"age_minutes"`
	Priority       int             `json:"priority"`
}

// AlertSummary aggregates a filtered alert set.
type AlertSummary struct {
	TotalAlerts            int            `json:"total_alerts"`
	BySeverity             map[string]int `json:"by_severity"`
	ByStatus               map[string]int `json:"by_status"`
	RequiresAcknowledgment int            `json:"requires_acknowledgment"`
}

// AlertPage is one page of enriched alerts plus summary counts.
type AlertPage struct {
	Alerts     []EnrichedAlert `json:"alerts"`
	Pagination Pagination      `json:"pagination"`
	Summary    AlertSummary    `json:"summary"`
}

// ListAlerts returns alerts, newest first, each enriched with the source
// failure, its age in minutes and a computed priority.
func (s *Service) ListAlerts(ctx context.Context, q AlertQuery) (*AlertPage, error) {
	filtered, err := s.store.ListAlerts(ctx, store.AlertFilter{
		OrganizationID: q.OrganizationID,
		Severity:       q.Severity,
		Status:         q.Status,
		Component:      q.Component,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list alerts", err)
	}

	summary := AlertSummary{
		TotalAlerts: len(filtered),
		BySeverity:  map[string]int{},
		ByStatus:    map[string]int{},
	}
	for _, sev := range models.Severities {
		summary.BySeverity[string(sev)] = 0
	}
	for _, st := range models.AlertStatuses {
		summary.ByStatus[string(st)] = 0
	}
	for _, a := range filtered {
		summary.BySeverity[string(a.Severity)]++
		summary.ByStatus[string(a.Status)]++
		if a.AcknowledgmentRequired && a.Status == models.AlertOpen {
			summary.RequiresAcknowledgment++
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	now := requestcontext.Now(ctx)

	page := paginate(filtered, q.Offset, limit)
	enriched := make([]EnrichedAlert, 0, len(page))
	for _, a := range page {
		e := EnrichedAlert{
			Alert:      a,
			AgeMinutes: now.Sub(a.TriggeredAt).Minutes(),
			Priority:   engine.AlertPriority(a),
		}
		if a.SourceFailureID != "" {
			if f, err := s.store.GetFailure(ctx, a.SourceFailureID); err == nil {
				e.RelatedFailure = &RelatedFailure{
					ID:              f.ID,
					Type:            f.FailureType,
					SeverityScore:   f.SeverityScore,
					AffectedMetrics: f.AffectedMetrics,
				}
			}
		}
		enriched = append(enriched, e)
	}

	return &AlertPage{
		Alerts: enriched,
		Pagination: Pagination{
			TotalCount: len(filtered),
			Limit:      limit,
			Offset:     q.Offset,
			HasMore:    q.Offset+limit < len(filtered),
		},
		Summary: summary,
	}, nil
}

// AlertUpdate is the result of an alert lifecycle transition.
type AlertUpdate struct {
	Alert   *models.Alert `json:"alert"`
	Message string        `json:"message"`
}

// AcknowledgeInput is the payload for acknowledging an alert.
type AcknowledgeInput struct {
	AcknowledgedBy string `json:"acknowledged_by"`
	Notes          string `json:"notes"`
}

// AcknowledgeAlert moves an open alert to acknowledged and records the actor
// in the notification history.
func (s *Service) AcknowledgeAlert(ctx context.Context, alertID string, in AcknowledgeInput) (*AlertUpdate, error) {
	alert, err := s.store.GetAlert(ctx, alertID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "alert %s not found", alertID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load alert", err)
	}
	if alert.Status != models.AlertOpen {
		return nil, dErrors.New(dErrors.CodeInvalidState, "alert is not in open status")
	}

	now := requestcontext.Now(ctx)
	alert.Status = models.AlertAcknowledged
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = orDefault(in.AcknowledgedBy, "unknown")
	alert.NotificationHistory = append(alert.NotificationHistory, models.NotificationEntry{
		Timestamp: now,
		Action:    "acknowledged",
		Actor:     alert.AcknowledgedBy,
		Notes:     in.Notes,
	})

	if err := s.store.UpdateAlert(ctx, alert); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "update alert", err)
	}
	return &AlertUpdate{Alert: alert, Message: "Alert acknowledged successfully"}, nil
}

// ResolveInput is the payload for resolving an alert.
type ResolveInput struct {
	ResolvedBy      string `json:"resolved_by"`
	ResolutionNotes string `json:"resolution_notes"`
}

// ResolveAlert moves an unresolved alert to resolved and records the actor
// and notes in the notification history.
func (s *Service) ResolveAlert(ctx context.Context, alertID string, in ResolveInput) (*AlertUpdate, error) {
	alert, err := s.store.GetAlert(ctx, alertID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "alert %s not found", alertID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load alert", err)
	}
	if alert.Status == models.AlertResolved || alert.Status == models.AlertClosed {
		return nil, dErrors.New(dErrors.CodeInvalidState, "alert is already resolved")
	}

	now := requestcontext.Now(ctx)
	alert.Status = models.AlertResolved
	alert.ResolvedAt = &now
	alert.ResolvedBy = orDefault(in.ResolvedBy, "unknown")
	alert.ResolutionNotes = in.ResolutionNotes
	alert.NotificationHistory = append(alert.NotificationHistory, models.NotificationEntry{
		Timestamp: now,
		Action:    "resolved",
		Actor:     alert.ResolvedBy,
		Notes:     alert.ResolutionNotes,
	})

	if err := s.store.UpdateAlert(ctx, alert); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "update alert", err)
	}
	s.metrics.IncrementAlertsResolved()
	return &AlertUpdate{Alert: alert, Message: "Alert resolved successfully"}, nil
}

// IncidentQuery narrows ListIncidents.
type IncidentQuery struct {
	OrganizationID string
	Status         models.IncidentStatus
	Severity       models.Severity
	Limit          int
}

// IncidentSummary aggregates a filtered incident set.
type IncidentSummary struct {
	TotalIncidents int            `json:"total_incidents"`
	ByStatus       map[string]int `json:"by_status"`
	BySeverity     map[string]int `json:"by_severity"`
	OpenIncidents  int            `json:"open_incidents"`
}

// IncidentPage is a limited incident list plus summary counts.
type IncidentPage struct {
	Incidents []*models.Incident `json:"incidents"`
	Summary   IncidentSummary    `json:"summary"`
}

// ListIncidents returns incidents, newest first, with status and severity
// breakdowns over the whole filtered set.
func (s *Service) ListIncidents(ctx context.Context, q IncidentQuery) (*IncidentPage, error) {
	filtered, err := s.store.ListIncidents(ctx, store.IncidentFilter{
		OrganizationID: q.OrganizationID,
		Status:         q.Status,
		Severity:       q.Severity,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list incidents", err)
	}

	summary := IncidentSummary{
		TotalIncidents: len(filtered),
		ByStatus:       map[string]int{},
		BySeverity:     map[string]int{},
	}
	for _, st := range models.IncidentStatuses {
		summary.ByStatus[string(st)] = 0
	}
	for _, sev := range models.Severities {
		summary.BySeverity[string(sev)] = 0
	}
	for _, i := range filtered {
		summary.ByStatus[string(i.Status)]++
		summary.BySeverity[string(i.Severity)]++
		if i.Open() {
			summary.OpenIncidents++
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	return &IncidentPage{Incidents: topN(filtered, limit), Summary: summary}, nil
}

// IncidentInput is the payload for opening an incident.
type IncidentInput struct {
	OrganizationID      string          `json:"organization_id"`
	IncidentTitle       string          `json:"incident_title"`
	IncidentDescription string          `json:"incident_description"`
	Severity            models.Severity `json:"severity"`
	Priority            int             `json:"priority"`
	CreatedBy           string          `json:"created_by"`
	AssignedTo          string          `json:"assigned_to"`
	IncidentCommander   string          `json:"incident_commander"`
	AffectedServices    []string        `json:"affected_services"`
	AffectedUsers       int             `json:"affected_users"`
	BusinessImpact      string          `json:"business_impact"`
	RelatedAlerts       []string        `json:"related_alerts"`
	RelatedFailures     []string        `json:"related_failures"`
	EstimatedResolution *time.Time      `json:"estimated_resolution"`
}

// IncidentResult is the created incident plus a confirmation message.
type IncidentResult struct {
	Incident *models.Incident `json:"incident"`
	Message  string           `json:"message"`
}

// CreateIncident opens a new incident in detected status with an initial
// timeline entry.
func (s *Service) CreateIncident(ctx context.Context, in IncidentInput) (*IncidentResult, error) {
	now := requestcontext.Now(ctx)
	incident := &models.Incident{
		ID:                  uuid.NewString(),
		OrganizationID:      in.OrganizationID,
		IncidentTitle:       in.IncidentTitle,
		IncidentDescription: in.IncidentDescription,
		Status:              models.IncidentDetected,
		Severity:            in.Severity,
		Priority:            in.Priority,
		CreatedAt:           now,
		CreatedBy:           in.CreatedBy,
		AssignedTo:          in.AssignedTo,
		IncidentCommander:   in.IncidentCommander,
		AffectedServices:    in.AffectedServices,
		AffectedUsers:       in.AffectedUsers,
		BusinessImpact:      in.BusinessImpact,
		RelatedAlerts:       in.RelatedAlerts,
		RelatedFailures:     in.RelatedFailures,
		EstimatedResolution: in.EstimatedResolution,
	}
	if incident.Priority == 0 {
		incident.Priority = 3
	}
	if err := incident.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid incident", err)
	}

	incident.Timeline = append(incident.Timeline, models.TimelineEntry{
		Timestamp:   now,
		Event:       "Incident created",
		Description: "Incident opened and initial assessment started",
		Actor:       incident.CreatedBy,
	})

	if err := s.store.CreateIncident(ctx, incident); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store incident", err)
	}
	s.metrics.IncrementIncidentsCreated()

	return &IncidentResult{Incident: incident, Message: "Incident created successfully"}, nil
}

// RuleQuery narrows ListRules.
type RuleQuery struct {
	OrganizationID string
	IsActive       *bool
	ComponentType  string
}

// RuleSummary aggregates a filtered rule set.
type RuleSummary struct {
	TotalRules  int            `json:"total_rules"`
	ActiveRules int            `json:"active_rules"`
	ByComponent map[string]int `json:"by_component"`
	ByMetric    map[string]int `json:"by_metric"`
}

// RulePage is the monitoring rule list plus summary counts.
type RulePage struct {
	MonitoringRules []*models.MonitoringRule `json:"monitoring_rules"`
	Summary         RuleSummary              `json:"summary"`
}

// ListRules returns monitoring rules, newest first, with component and
// metric breakdowns.
func (s *Service) ListRules(ctx context.Context, q RuleQuery) (*RulePage, error) {
	filtered, err := s.store.ListRules(ctx, store.RuleFilter{
		OrganizationID: q.OrganizationID,
		IsActive:       q.IsActive,
		ComponentType:  q.ComponentType,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list rules", err)
	}

	summary := RuleSummary{
		TotalRules:  len(filtered),
		ByComponent: map[string]int{"model": 0, "api": 0, "pipeline": 0},
		ByMetric:    map[string]int{},
	}
	for _, m := range models.MonitoringMetrics {
		summary.ByMetric[string(m)] = 0
	}
	for _, r := range filtered {
		if r.IsActive {
			summary.ActiveRules++
		}
		if _, tracked := summary.ByComponent[r.ComponentType]; tracked {
			summary.ByComponent[r.ComponentType]++
		}
		summary.ByMetric[string(r.MetricName)]++
	}

	return &RulePage{MonitoringRules: filtered, Summary: summary}, nil
}

// RuleInput is the payload for creating a monitoring rule.
type RuleInput struct {
	OrganizationID          string                       `json:"organization_id"`
	RuleName                string                       `json:"rule_name"`
	RuleDescription         string                       `json:"rule_description"`
	IsActive                *bool                        `json:"is_active"`
	MetricName              models.MonitoringMetric      `json:"metric_name"`
	ComponentType           string                       `json:"component_type"`
	ComponentFilter         map[string]string            `json:"component_filter"`
	ThresholdType           string                       `json:"threshold_type"`
	ThresholdValue          float64                      `json:"threshold_value"`
	ThresholdOperator       string                       `json:"threshold_operator"`
	BaselinePeriodHours     int                          `json:"baseline_period_hours"`
	EvaluationWindowMinutes int                          `json:"evaluation_window_minutes"`
	SensitivityLevel        float64                      `json:"sensitivity_level"`
	MinDataPoints           int                          `json:"min_data_points"`
	FailureType             models.FailureType           `json:"failure_type"`
	AlertSeverity           models.Severity              `json:"alert_severity"`
	NotificationChannels    []models.NotificationChannel `json:"notification_channels"`
	SuppressionDuration     int                          `json:"suppression_duration_minutes"`
	CreatedBy               string                       `json:"created_by"`
}

// RuleResult is the created rule plus a confirmation message.
type RuleResult struct {
	MonitoringRule *models.MonitoringRule `json:"monitoring_rule"`
	Message        string                 `json:"message"`
}

// CreateRule stores a new monitoring rule, filling sensible defaults for
// everything the caller leaves out.
func (s *Service) CreateRule(ctx context.Context, in RuleInput) (*RuleResult, error) {
	rule := &models.MonitoringRule{
		ID:                         uuid.NewString(),
		OrganizationID:             in.OrganizationID,
		RuleName:                   in.RuleName,
		RuleDescription:            in.RuleDescription,
		MetricName:                 in.MetricName,
		ComponentType:              in.ComponentType,
		ComponentFilter:            in.ComponentFilter,
		ThresholdType:              in.ThresholdType,
		ThresholdValue:             in.ThresholdValue,
		ThresholdOperator:          orDefault(in.ThresholdOperator, ">"),
		BaselinePeriodHours:        orDefaultInt(in.BaselinePeriodHours, 24),
		EvaluationWindowMinutes:    orDefaultInt(in.EvaluationWindowMinutes, 5),
		SensitivityLevel:           in.SensitivityLevel,
		MinDataPoints:              orDefaultInt(in.MinDataPoints, 3),
		FailureType:                in.FailureType,
		AlertSeverity:              in.AlertSeverity,
		NotificationChannels:       in.NotificationChannels,
		SuppressionDurationMinutes: orDefaultInt(in.SuppressionDuration, 60),
		IsActive:                   in.IsActive == nil || *in.IsActive,
		CreatedAt:                  requestcontext.Now(ctx),
		CreatedBy:                  orDefault(in.CreatedBy, "system"),
	}
	if rule.SensitivityLevel == 0 {
		rule.SensitivityLevel = 0.8
	}
	if rule.FailureType == "" {
		rule.FailureType = models.FailurePerformanceAnomaly
	}
	if rule.AlertSeverity == "" {
		rule.AlertSeverity = models.SeverityMedium
	}
	if len(rule.NotificationChannels) == 0 {
		rule.NotificationChannels = []models.NotificationChannel{models.ChannelEmail}
	}
	if err := rule.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid monitoring rule", err)
	}

	if err := s.store.CreateRule(ctx, rule); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store rule", err)
	}
	return &RuleResult{MonitoringRule: rule, Message: "Monitoring rule created successfully"}, nil
}

// HealthStatus buckets the health scores into operator-facing labels.
type HealthStatus struct {
	Overall    string            `json:"overall"`
	Components map[string]string `json:"components"`
}

// HealthReport is the current system health plus derived status labels.
type HealthReport struct {
	SystemHealth *models.SystemHealth `json:"system_health"`
	HealthStatus HealthStatus         `json:"health_status"`
}

// SystemHealth returns the latest health snapshot for the organization,
// computing and storing a fresh one when none exists yet.
func (s *Service) SystemHealth(ctx context.Context, orgID string) (*HealthReport, error) {
	health, err := s.store.LatestHealth(ctx, orgID)
	if errors.Is(err, sentinel.ErrNotFound) {
		health, err = s.computeHealth(ctx, orgID)
	}
	if err != nil {
		return nil, err
	}

	components := make(map[string]string, len(health.ComponentHealth))
	for component, score := range health.ComponentHealth {
		components[component] = engine.HealthStatusLabel(score)
	}

	return &HealthReport{
		SystemHealth: health,
		HealthStatus: HealthStatus{
			Overall:    engine.HealthStatusLabel(health.OverallHealthScore),
			Components: components,
		},
	}, nil
}

func (s *Service) computeHealth(ctx context.Context, orgID string) (*models.SystemHealth, error) {
	now := requestcontext.Now(ctx)

	alerts, err := s.store.ListAlerts(ctx, store.AlertFilter{OrganizationID: orgID})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list alerts", err)
	}
	incidents, err := s.store.ListIncidents(ctx, store.IncidentFilter{OrganizationID: orgID})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list incidents", err)
	}
	failures, err := s.store.ListFailures(ctx, store.FailureFilter{OrganizationID: orgID})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list failures", err)
	}

	health := engine.CalculateSystemHealth(now, alerts, incidents, failures, map[string]float64{
		"response_time": 1.2,
		"error_rate":    0.015,
		"throughput":    150.0,
		"quality_score": 0.85,
	})
	health.ID = uuid.NewString()
	health.OrganizationID = orgID

	if err := s.store.CreateHealth(ctx, health); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store system health", err)
	}
	return health, nil
}

// HealthHistory is the health snapshot series for a trailing window.
type HealthHistory struct {
	HealthHistory  []*models.SystemHealth `json:"health_history"`
	TimeRangeHours int                    `json:"time_range_hours"`
	DataPoints     int                    `json:"data_points"`
}

// SystemHealthHistory returns health snapshots from the trailing window,
// oldest first.
func (s *Service) SystemHealthHistory(ctx context.Context, orgID string, hours int) (*HealthHistory, error) {
	if hours <= 0 {
		hours = 24
	}
	since := requestcontext.Now(ctx).Add(-time.Duration(hours) * time.Hour)

	records, err := s.store.HealthSince(ctx, orgID, since)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list system health", err)
	}
	return &HealthHistory{
		HealthHistory:  records,
		TimeRangeHours: hours,
		DataPoints:     len(records),
	}, nil
}

// SimulationResult is the outcome of a failure simulation run.
type SimulationResult struct {
	SimulationType string                   `json:"simulation_type"`
	Failure        *models.FailureDetection `json:"failure"`
	Alert          *models.Alert            `json:"alert,omitempty"`
	Message        string                   `json:"message"`
}

// SimulateFailure runs one of the canned detection scenarios, storing the
// resulting failure and alert when the detector fires.
func (s *Service) SimulateFailure(ctx context.Context, orgID, simulationType string) (*SimulationResult, error) {
	if simulationType == "" {
		simulationType = "model_degradation"
	}

	var failure *models.FailureDetection
	switch simulationType {
	case "model_degradation":
		failure = engine.DetectModelDegradation(
			map[string]float64{"accuracy": 0.75, "f1_score": 0.72},
			map[string]float64{"accuracy": 0.92, "f1_score": 0.89},
		)
	case "latency_spike":
		failure = engine.DetectLatencySpike(4.5, 1.2)
	case "error_rate_increase":
		failure = engine.DetectErrorRateIncrease(0.08, 0.01)
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown simulation type")
	}
	s.metrics.IncrementSimulationsRun(simulationType)

	if failure == nil {
		return &SimulationResult{
			SimulationType: simulationType,
			Message:        "Simulation ran but no failure detected for " + simulationType,
		}, nil
	}

	failure.ID = uuid.NewString()
	failure.OrganizationID = orgID
	failure.DetectedAt = requestcontext.Now(ctx)
	if err := s.store.CreateFailure(ctx, failure); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store failure", err)
	}
	s.metrics.IncrementFailuresDetected(string(failure.FailureType), failure.AffectedComponent)

	alert := engine.AlertFromFailure(failure, nil)
	alert.ID = uuid.NewString()
	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "store alert", err)
	}
	s.metrics.IncrementAlertsTriggered(string(alert.Severity))

	return &SimulationResult{
		SimulationType: simulationType,
		Failure:        failure,
		Alert:          alert,
		Message:        "Successfully simulated " + simulationType,
	}, nil
}

// TemplateQuery narrows ListTemplates.
type TemplateQuery struct {
	OrganizationID string
	Channel        models.NotificationChannel
	ActiveOnly     bool
}

// TemplatePage is the notification template list.
type TemplatePage struct {
	Templates  []*models.NotificationTemplate `json:"templates"`
	TotalCount int                            `json:"total_count"`
}

// ListTemplates returns notification templates, most used first.
func (s *Service) ListTemplates(ctx context.Context, q TemplateQuery) (*TemplatePage, error) {
	templates, err := s.store.ListTemplates(ctx, store.TemplateFilter{
		OrganizationID: q.OrganizationID,
		Channel:        q.Channel,
		ActiveOnly:     q.ActiveOnly,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list templates", err)
	}
	return &TemplatePage{Templates: templates, TotalCount: len(templates)}, nil
}

// NotificationPreview is a notification template rendered against an alert.
type NotificationPreview struct {
	TemplateID string                      `json:"template_id"`
	AlertID    string                      `json:"alert_id"`
	Channel    models.NotificationChannel  `json:"channel"`
	Rendered   engine.RenderedNotification `json:"rendered"`
}

// PreviewNotification renders a notification template against an existing
// alert without sending anything.
func (s *Service) PreviewNotification(ctx context.Context, templateID, alertID string) (*NotificationPreview, error) {
	tpl, err := s.store.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "template %s not found", templateID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load template", err)
	}
	alert, err := s.store.GetAlert(ctx, alertID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "alert %s not found", alertID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load alert", err)
	}

	return &NotificationPreview{
		TemplateID: tpl.ID,
		AlertID:    alert.ID,
		Channel:    tpl.Channel,
		Rendered:   engine.FormatAlertNotification(alert, tpl),
	}, nil
}

func timeWindow(timeRange string, now time.Time) (time.Time, string) {
	switch strings.TrimSpace(timeRange) {
	case "1h":
		return now.Add(-time.Hour), "1h"
	case "", "24h":
		return now.AddDate(0, 0, -1), "24h"
	case "7d":
		return now.AddDate(0, 0, -7), "7d"
	default:
		return now.AddDate(0, 0, -30), "30d"
	}
}

func topN[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
