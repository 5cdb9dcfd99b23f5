// Package service implements compliance scoring use cases: recording scores,
// deriving automatic alerts, and generating period reports.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"zenthera/internal/compliance/metrics"
	"zenthera/internal/compliance/models"
	"zenthera/internal/compliance/store"
	dErrors "zenthera/pkg/domain-errors"
	"zenthera/pkg/platform/sentinel"
	"zenthera/pkg/requestcontext"
)

// Store is the persistence surface the compliance service needs.
type Store interface {
	CreateScore(ctx context.Context, score *models.Score) error
	LatestScore(ctx context.Context, orgID string) (*models.Score, error)
	ScoresSince(ctx context.Context, orgID string, since, until time.Time) ([]*models.Score, error)
	CreateAlert(ctx context.Context, alert *models.Alert) error
	ListAlerts(ctx context.Context, filter store.AlertFilter) ([]*models.Alert, error)
	AlertsBetween(ctx context.Context, orgID string, since, until time.Time) ([]*models.Alert, error)
	UpdateAlert(ctx context.Context, id string, mutate func(*models.Alert) error) (*models.Alert, error)
	CreateReport(ctx context.Context, report *models.Report) error
	ListReports(ctx context.Context, filter store.ReportFilter) ([]*models.Report, error)
}

// Service coordinates compliance operations over the store.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a compliance Service.
func New(st Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, logger: logger, metrics: m}
}

// ScoreInput carries a new assessment for one AI system.
type ScoreInput struct {
	OrganizationID    string  `json:"organization_id"`
	SystemName        string  `json:"system_name"`
	BiasScore         float64 `json:"bias_score"`
	TransparencyScore float64 `json:"transparency_score"`
	LogsScore         float64 `json:"logs_score"`
	EnergyScore       float64 `json:"energy_score"`
}

// ScoreResult is a recorded score plus the alerts it triggered.
type ScoreResult struct {
	Score           *models.Score   `json:"score"`
	TriggeredAlerts []*models.Alert `json:"triggered_alerts"`
}

// RecordScore validates and stores an assessment, then creates the automatic
// alerts its thresholds trigger.
func (s *Service) RecordScore(ctx context.Context, in ScoreInput) (*ScoreResult, error) {
	now := requestcontext.Now(ctx)

	score, err := models.NewScore(in.OrganizationID, in.SystemName,
		in.BiasScore, in.TransparencyScore, in.LogsScore, in.EnergyScore, now)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, err.Error(), err)
	}

	if err := s.store.CreateScore(ctx, score); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store score", err)
	}
	s.metrics.IncrementScoresRecorded()

	alerts := models.AlertsFromScore(score, now)
	for _, a := range alerts {
		if err := s.store.CreateAlert(ctx, a); err != nil {
			s.logger.ErrorContext(ctx, "failed to store auto-generated alert",
				"request_id", requestcontext.RequestID(ctx),
				"alert_type", a.AlertType,
				"error", err.Error(),
			)
			continue
		}
		s.metrics.IncrementAlertsCreated(string(a.Severity))
	}

	return &ScoreResult{Score: score, TriggeredAlerts: alerts}, nil
}

// LatestScore returns the most recent score for an organization.
func (s *Service) LatestScore(ctx context.Context, orgID string) (*models.Score, error) {
	if orgID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization_id is required")
	}
	score, err := s.store.LatestScore(ctx, orgID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "no compliance score found for organization %s", orgID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load score", err)
	}
	return score, nil
}

// TrendPoint is one historical score sample for the dashboard trend chart.
type TrendPoint struct {
	Date              string  `json:"date"`
	OverallScore      float64 `json:"overall_score"`
	BiasScore         float64 `json:"bias_score"`
	TransparencyScore float64 `json:"transparency_score"`
	LogsScore         float64 `json:"logs_score"`
	EnergyScore       float64 `json:"energy_score"`
}

// AlertSummary aggregates active alerts for the dashboard.
type AlertSummary struct {
	TotalActive int                     `json:"total_active"`
	BySeverity  map[models.Severity]int `json:"by_severity"`
}

// Dashboard is the compliance dashboard payload.
type Dashboard struct {
	OrganizationID string        `json:"organization_id"`
	CurrentScore   *models.Score `json:"current_score"`
	AlertSummary   AlertSummary  `json:"alert_summary"`
	TrendData      []TrendPoint  `json:"trend_data"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// GetDashboard assembles the latest score, active alert counts and a 30-day
// score trend. A missing score is not an error; the dashboard renders empty.
func (s *Service) GetDashboard(ctx context.Context, orgID string) (*Dashboard, error) {
	now := requestcontext.Now(ctx)

	current, err := s.store.LatestScore(ctx, orgID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load current score", err)
	}

	active, err := s.store.ListAlerts(ctx, store.AlertFilter{
		OrganizationID: orgID,
		Status:         models.AlertActive,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load alerts", err)
	}

	bySeverity := map[models.Severity]int{
		models.SeverityCritical: 0,
		models.SeverityHigh:     0,
		models.SeverityMedium:   0,
		models.SeverityLow:      0,
	}
	for _, a := range active {
		bySeverity[a.Severity]++
	}

	history, err := s.store.ScoresSince(ctx, orgID, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load score history", err)
	}
	trend := make([]TrendPoint, 0, len(history))
	for _, h := range history {
		trend = append(trend, TrendPoint{
			Date:              h.CreatedAt.Format("2006-01-02"),
			OverallScore:      h.OverallScore,
			BiasScore:         h.BiasScore,
			TransparencyScore: h.TransparencyScore,
			LogsScore:         h.LogsScore,
			EnergyScore:       h.EnergyScore,
		})
	}

	return &Dashboard{
		OrganizationID: orgID,
		CurrentScore:   current,
		AlertSummary:   AlertSummary{TotalActive: len(active), BySeverity: bySeverity},
		TrendData:      trend,
		LastUpdated:    now,
	}, nil
}

// AlertInput carries a manually reported alert.
type AlertInput struct {
	OrganizationID string          `json:"organization_id"`
	SystemName     string          `json:"system_name"`
	AlertType      string          `json:"alert_type"`
	Severity       models.Severity `json:"severity"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
}

// CreateAlert stores a manually reported alert.
func (s *Service) CreateAlert(ctx context.Context, in AlertInput) (*models.Alert, error) {
	alert, err := models.NewAlert(in.OrganizationID, in.SystemName, in.AlertType,
		in.Title, in.Severity, in.Description, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, err.Error(), err)
	}
	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store alert", err)
	}
	s.metrics.IncrementAlertsCreated(string(alert.Severity))
	return alert, nil
}

// ListAlerts returns alerts matching the filter.
func (s *Service) ListAlerts(ctx context.Context, filter store.AlertFilter) ([]*models.Alert, error) {
	alerts, err := s.store.ListAlerts(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list alerts", err)
	}
	return alerts, nil
}

// AlertUpdate carries the mutable alert fields.
type AlertUpdate struct {
	Status     models.AlertStatus `json:"status"`
	Severity   models.Severity    `json:"severity"`
	ResolvedBy string             `json:"resolved_by"`
}

// UpdateAlert changes an alert's status or severity. Resolving records who
// resolved it and when.
func (s *Service) UpdateAlert(ctx context.Context, id string, upd AlertUpdate) (*models.Alert, error) {
	now := requestcontext.Now(ctx)

	alert, err := s.store.UpdateAlert(ctx, id, func(a *models.Alert) error {
		if upd.Status != "" {
			switch upd.Status {
			case models.AlertActive, models.AlertResolved, models.AlertIgnored:
			default:
				return dErrors.Newf(dErrors.CodeBadRequest, "unknown alert status %q", upd.Status)
			}
			if upd.Status == models.AlertResolved {
				a.Resolve(upd.ResolvedBy, now)
			} else {
				a.Status = upd.Status
			}
		}
		if upd.Severity != "" {
			a.Severity = upd.Severity
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "alert %s not found", id)
		}
		var de *dErrors.Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to update alert", err)
	}
	return alert, nil
}

// ReportInput requests a report over a period.
type ReportInput struct {
	OrganizationID string `json:"organization_id"`
	ReportType     string `json:"report_type"`
	Title          string `json:"title"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
}

// GenerateReport builds and stores a compliance report for the period,
// summarizing score statistics and alert distribution.
func (s *Service) GenerateReport(ctx context.Context, in ReportInput) (*models.Report, error) {
	if in.OrganizationID == "" || in.ReportType == "" || in.PeriodStart == "" || in.PeriodEnd == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization_id, report_type, period_start and period_end are required")
	}
	start, err := time.Parse(time.RFC3339, in.PeriodStart)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "period_start must be RFC 3339", err)
	}
	end, err := time.Parse(time.RFC3339, in.PeriodEnd)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "period_end must be RFC 3339", err)
	}
	if end.Before(start) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "period_end must be after period_start")
	}

	scores, err := s.store.ScoresSince(ctx, in.OrganizationID, start, end)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load scores for period", err)
	}
	alerts, err := s.store.AlertsBetween(ctx, in.OrganizationID, start, end)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load alerts for period", err)
	}

	stats := buildStatistics(scores, alerts)
	title := in.Title
	if title == "" {
		title = fmt.Sprintf("%s Compliance Report", strings.ToUpper(in.ReportType))
	}

	report := &models.Report{
		ID:              uuid.NewString(),
		OrganizationID:  in.OrganizationID,
		ReportType:      in.ReportType,
		Title:           title,
		PeriodStart:     start,
		PeriodEnd:       end,
		Summary:         buildSummary(start, end, stats),
		Findings:        buildFindings(stats),
		Recommendations: buildRecommendations(stats),
		Statistics:      stats,
		Status:          models.ReportFinal,
		GeneratedBy:     "system",
		CreatedAt:       requestcontext.Now(ctx),
	}

	if err := s.store.CreateReport(ctx, report); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store report", err)
	}
	s.metrics.IncrementReportsGenerated()
	return report, nil
}

// ListReports returns reports matching the filter.
func (s *Service) ListReports(ctx context.Context, filter store.ReportFilter) ([]*models.Report, error) {
	reports, err := s.store.ListReports(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to list reports", err)
	}
	return reports, nil
}

func buildStatistics(scores []*models.Score, alerts []*models.Alert) models.ReportStatistics {
	stats := models.ReportStatistics{
		TotalAssessments: len(scores),
		TotalAlerts:      len(alerts),
		AlertBreakdown: map[models.Severity]int{
			models.SeverityCritical: 0,
			models.SeverityHigh:     0,
			models.SeverityMedium:   0,
			models.SeverityLow:      0,
		},
	}

	systems := map[string]struct{}{}
	for i, sc := range scores {
		stats.AverageScore += sc.OverallScore
		if i == 0 || sc.OverallScore < stats.MinimumScore {
			stats.MinimumScore = sc.OverallScore
		}
		if sc.OverallScore > stats.MaximumScore {
			stats.MaximumScore = sc.OverallScore
		}
		systems[sc.SystemName] = struct{}{}
	}
	if len(scores) > 0 {
		stats.AverageScore /= float64(len(scores))
	}
	stats.SystemsMonitored = len(systems)

	for _, a := range alerts {
		stats.AlertBreakdown[a.Severity]++
	}
	return stats
}

func buildSummary(start, end time.Time, stats models.ReportStatistics) string {
	return fmt.Sprintf(
		"During the period from %s to %s, the organization maintained an average compliance score of %.1f%% "+
			"(minimum %.1f%%, maximum %.1f%%) across %d assessments. %d alerts were generated.",
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		stats.AverageScore, stats.MinimumScore, stats.MaximumScore,
		stats.TotalAssessments, stats.TotalAlerts)
}

func buildFindings(stats models.ReportStatistics) string {
	performance := "Critical"
	switch {
	case stats.AverageScore >= 80:
		performance = "Good"
	case stats.AverageScore >= 60:
		performance = "Needs Improvement"
	}
	return fmt.Sprintf(
		"Compliance performance: %s. Alert distribution: %d critical, %d high, %d medium, %d low. Systems monitored: %d.",
		performance,
		stats.AlertBreakdown[models.SeverityCritical],
		stats.AlertBreakdown[models.SeverityHigh],
		stats.AlertBreakdown[models.SeverityMedium],
		stats.AlertBreakdown[models.SeverityLow],
		stats.SystemsMonitored)
}

func buildRecommendations(stats models.ReportStatistics) string {
	if stats.AverageScore >= 80 {
		return "Maintain current practices. Monitor for any degradation. Continue regular assessment of AI systems."
	}
	return "Improve compliance processes. Address critical alerts immediately. Increase monitoring frequency for underperforming systems."
}
