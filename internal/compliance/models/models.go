// Package models defines the compliance scoring domain: per-system scores,
// threshold alerts and periodic reports.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RiskLevel classifies an overall score band.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"    // overall >= 80
	RiskMedium RiskLevel = "medium" // overall >= 60
	RiskHigh   RiskLevel = "high"   // below 60
)

// Severity grades an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// AlertStatus is the alert lifecycle state.
type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertResolved AlertStatus = "resolved"
	AlertIgnored  AlertStatus = "ignored"
)

// Alert types produced by threshold checks.
const (
	AlertTypeLowScore           = "low_compliance_score"
	AlertTypeBiasViolation      = "bias_violation"
	AlertTypeTransparencyIssue  = "transparency_issue"
	AlertTypeLoggingDeficiency  = "logging_deficiency"
	AlertTypeEnergyInefficiency = "energy_inefficiency"
)

// Score is one compliance assessment of an AI system. Sub-scores are 0-100;
// the overall score is their mean and drives the risk level.
type Score struct {
	ID                string    `json:"id"`
	OrganizationID    string    `json:"organization_id"`
	SystemName        string    `json:"system_name"`
	BiasScore         float64   `json:"bias_score"`
	TransparencyScore float64   `json:"transparency_score"`
	LogsScore         float64   `json:"logs_score"`
	EnergyScore       float64   `json:"energy_score"`
	OverallScore      float64   `json:"overall_score"`
	RiskLevel         RiskLevel `json:"risk_level"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewScore validates inputs and builds a Score with the overall score and
// risk level derived.
func NewScore(orgID, systemName string, bias, transparency, logs, energy float64, now time.Time) (*Score, error) {
	if orgID == "" {
		return nil, fmt.Errorf("organization_id is required")
	}
	if systemName == "" {
		return nil, fmt.Errorf("system_name is required")
	}
	for name, v := range map[string]float64{
		"bias_score":         bias,
		"transparency_score": transparency,
		"logs_score":         logs,
		"energy_score":       energy,
	} {
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("%s must be between 0 and 100", name)
		}
	}

	s := &Score{
		ID:                uuid.NewString(),
		OrganizationID:    orgID,
		SystemName:        systemName,
		BiasScore:         bias,
		TransparencyScore: transparency,
		LogsScore:         logs,
		EnergyScore:       energy,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.Recalculate()
	return s, nil
}

// Recalculate recomputes the overall score and risk level from the sub-scores.
func (s *Score) Recalculate() {
	s.OverallScore = (s.BiasScore + s.TransparencyScore + s.LogsScore + s.EnergyScore) / 4
	switch {
	case s.OverallScore >= 80:
		s.RiskLevel = RiskLow
	case s.OverallScore >= 60:
		s.RiskLevel = RiskMedium
	default:
		s.RiskLevel = RiskHigh
	}
}

// Alert flags a compliance deviation for one system.
type Alert struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id"`
	SystemName     string      `json:"system_name"`
	AlertType      string      `json:"alert_type"`
	Severity       Severity    `json:"severity"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Status         AlertStatus `json:"status"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
	ResolvedBy     string      `json:"resolved_by,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewAlert validates required fields and builds an active Alert.
func NewAlert(orgID, systemName, alertType, title string, severity Severity, description string, now time.Time) (*Alert, error) {
	if orgID == "" || systemName == "" || alertType == "" || title == "" {
		return nil, fmt.Errorf("organization_id, system_name, alert_type and title are required")
	}
	if severity == "" {
		severity = SeverityMedium
	}
	return &Alert{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		SystemName:     systemName,
		AlertType:      alertType,
		Severity:       severity,
		Title:          title,
		Description:    description,
		Status:         AlertActive,
		CreatedAt:      now,
	}, nil
}

// Resolve marks the alert resolved, recording who and when.
func (a *Alert) Resolve(by string, at time.Time) {
	if by == "" {
		by = "system"
	}
	a.Status = AlertResolved
	a.ResolvedAt = &at
	a.ResolvedBy = by
}

// AlertsFromScore derives the automatic alerts a freshly recorded score
// triggers: a low-overall alert below 60 and per-metric alerts below 50.
func AlertsFromScore(s *Score, now time.Time) []*Alert {
	var alerts []*Alert

	if s.OverallScore < 60 {
		severity := SeverityHigh
		if s.OverallScore < 40 {
			severity = SeverityCritical
		}
		a, _ := NewAlert(s.OrganizationID, s.SystemName, AlertTypeLowScore,
			fmt.Sprintf("Low Compliance Score: %.1f%%", s.OverallScore), severity,
			fmt.Sprintf("System %s has a compliance score of %.1f%%, which is below the acceptable threshold.", s.SystemName, s.OverallScore),
			now)
		alerts = append(alerts, a)
	}

	metrics := []struct {
		value     float64
		alertType string
		title     string
		label     string
	}{
		{s.BiasScore, AlertTypeBiasViolation, "High Bias Risk", "Bias score"},
		{s.TransparencyScore, AlertTypeTransparencyIssue, "Low Transparency", "Transparency score"},
		{s.LogsScore, AlertTypeLoggingDeficiency, "Inadequate Logging", "Logs score"},
		{s.EnergyScore, AlertTypeEnergyInefficiency, "High Energy Consumption", "Energy score"},
	}
	for _, m := range metrics {
		if m.value >= 50 {
			continue
		}
		severity := SeverityMedium
		if m.value < 30 {
			severity = SeverityHigh
		}
		a, _ := NewAlert(s.OrganizationID, s.SystemName, m.alertType,
			fmt.Sprintf("%s: %.1f%%", m.title, m.value), severity,
			fmt.Sprintf("%s is %.1f%%, indicating potential compliance issues.", m.label, m.value),
			now)
		alerts = append(alerts, a)
	}

	return alerts
}

// ReportStatus is the report lifecycle state.
type ReportStatus string

const (
	ReportDraft    ReportStatus = "draft"
	ReportFinal    ReportStatus = "final"
	ReportArchived ReportStatus = "archived"
)

// ReportStatistics summarizes a reporting period.
type ReportStatistics struct {
	AverageScore     float64          `json:"average_score"`
	MinimumScore     float64          `json:"minimum_score"`
	MaximumScore     float64          `json:"maximum_score"`
	TotalAssessments int              `json:"total_assessments"`
	TotalAlerts      int              `json:"total_alerts"`
	AlertBreakdown   map[Severity]int `json:"alert_breakdown"`
	SystemsMonitored int              `json:"systems_monitored"`
}

// Report is a generated compliance report over a period.
type Report struct {
	ID              string           `json:"id"`
	OrganizationID  string           `json:"organization_id"`
	ReportType      string           `json:"report_type"`
	Title           string           `json:"title"`
	PeriodStart     time.Time        `json:"period_start"`
	PeriodEnd       time.Time        `json:"period_end"`
	Summary         string           `json:"summary"`
	Findings        string           `json:"findings"`
	Recommendations string           `json:"recommendations"`
	Statistics      ReportStatistics `json:"statistics"`
	Status          ReportStatus     `json:"status"`
	GeneratedBy     string           `json:"generated_by"`
	CreatedAt       time.Time        `json:"created_at"`
}
