// Package models defines the regulatory tracking domain: regulations, change
// alerts, compliance templates and monitoring configurations.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImpactLevel grades how strongly a regulatory change affects operations.
type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "low"
	ImpactMedium   ImpactLevel = "medium"
	ImpactHigh     ImpactLevel = "high"
	ImpactCritical ImpactLevel = "critical"
)

// rank orders impact levels for threshold comparisons; higher is more severe.
func (l ImpactLevel) rank() int {
	switch l {
	case ImpactLow:
		return 0
	case ImpactMedium:
		return 1
	case ImpactHigh:
		return 2
	case ImpactCritical:
		return 3
	}
	return -1
}

// Valid reports whether the impact level is one of the known values.
func (l ImpactLevel) Valid() bool { return l.rank() >= 0 }

// AtLeast reports whether l meets or exceeds the threshold.
func (l ImpactLevel) AtLeast(threshold ImpactLevel) bool {
	return l.rank() >= threshold.rank()
}

// Alert types for regulatory changes.
const (
	AlertTypeNewRegulation = "new_regulation"
	AlertTypeAmendment     = "amendment"
	AlertTypeDeadline      = "deadline"
	AlertTypeClarification = "clarification"
)

// AlertStatus is the regulatory alert lifecycle state.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
	AlertDismissed    AlertStatus = "dismissed"
)

// Regulation is a tracked regulatory document.
type Regulation struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	RegulationType   string      `json:"regulation_type"` // ai_act, gdpr, iso_standard, nist_framework
	Source           string      `json:"source"`          // eur_lex, iso_org, nist_gov
	Version          string      `json:"version"`
	EffectiveDate    time.Time   `json:"effective_date"`
	Content          string      `json:"content"`
	URL              string      `json:"url,omitempty"`
	Jurisdiction     string      `json:"jurisdiction"`
	Status           string      `json:"status"` // active, draft, superseded
	ChangeSummary    string      `json:"change_summary"`
	ImpactLevel      ImpactLevel `json:"impact_level"`
	AffectedArticles []string    `json:"affected_articles"`
	Keywords         []string    `json:"keywords"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Alert tracks a regulatory change that stakeholders must review.
// Priority 1 is most urgent; it derives from impact level and alert type.
type Alert struct {
	ID              string      `json:"id"`
	RegulationID    string      `json:"regulation_id"`
	AlertType       string      `json:"alert_type"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ImpactLevel     ImpactLevel `json:"impact_level"`
	AffectedSystems []string    `json:"affected_systems"`
	Status          AlertStatus `json:"status"`
	Priority        int         `json:"priority"`
	Deadline        *time.Time  `json:"deadline,omitempty"`
	ActionRequired  bool        `json:"action_required"`
	AcknowledgedBy  []string    `json:"acknowledged_by"`
	ResolvedBy      string      `json:"resolved_by,omitempty"`
	ResolutionNotes string      `json:"resolution_notes"`
	CreatedAt       time.Time   `json:"created_at"`
}

// NewAlert validates required fields and builds an active alert with its
// priority computed.
func NewAlert(regulationID, alertType, title, description string, impact ImpactLevel, affectedSystems []string, now time.Time) (*Alert, error) {
	if regulationID == "" || alertType == "" || title == "" || description == "" {
		return nil, fmt.Errorf("regulation_id, alert_type, title, description and impact_level are required")
	}
	if !impact.Valid() {
		return nil, fmt.Errorf("impact_level must be one of low, medium, high, critical")
	}

	a := &Alert{
		ID:              uuid.NewString(),
		RegulationID:    regulationID,
		AlertType:       alertType,
		Title:           title,
		Description:     description,
		ImpactLevel:     impact,
		AffectedSystems: affectedSystems,
		Status:          AlertActive,
		ActionRequired:  true,
		AcknowledgedBy:  []string{},
		CreatedAt:       now,
	}
	a.Priority = a.calculatePriority()
	return a, nil
}

// calculatePriority maps impact to a base priority (critical=1 .. low=4) and
// shifts it by alert type: deadlines are more urgent, clarifications less.
func (a *Alert) calculatePriority() int {
	base := 3
	switch a.ImpactLevel {
	case ImpactCritical:
		base = 1
	case ImpactHigh:
		base = 2
	case ImpactMedium:
		base = 3
	case ImpactLow:
		base = 4
	}

	modifier := 0
	switch a.AlertType {
	case AlertTypeDeadline:
		modifier = -1
	case AlertTypeClarification:
		modifier = 1
	}

	if p := base + modifier; p > 1 {
		return p
	}
	return 1
}

// Acknowledge records a user's acknowledgement. Repeat acknowledgements by
// the same user are ignored.
func (a *Alert) Acknowledge(userID, notes string) {
	already := false
	for _, u := range a.AcknowledgedBy {
		if u == userID {
			already = true
			break
		}
	}
	if !already {
		a.AcknowledgedBy = append(a.AcknowledgedBy, userID)
		if a.Status == AlertActive {
			a.Status = AlertAcknowledged
		}
	}
	if notes != "" {
		a.ResolutionNotes += fmt.Sprintf("\nAcknowledged by %s: %s", userID, notes)
	}
}

// Resolve closes the alert and clears the action-required flag.
func (a *Alert) Resolve(userID, notes string) {
	a.Status = AlertResolved
	a.ResolvedBy = userID
	a.ResolutionNotes += fmt.Sprintf("\nResolved by %s: %s", userID, notes)
	a.ActionRequired = false
}

// TemplateSection groups fields in a compliance template.
type TemplateSection struct {
	Title  string          `json:"title"`
	Fields []TemplateField `json:"fields"`
}

// TemplateField is one input a template asks for.
type TemplateField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"` // text, textarea, select, checkbox
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// Template is a pre-built compliance checklist or assessment.
type Template struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	RegulationType string            `json:"regulation_type"`
	TemplateType   string            `json:"template_type"` // checklist, assessment, report, policy
	Sections       []TemplateSection `json:"sections"`
	Description    string            `json:"description"`
	Version        string            `json:"version"`
	Author         string            `json:"author"`
	Tags           []string          `json:"tags"`
	UsageCount     int               `json:"usage_count"`
	IsActive       bool              `json:"is_active"`
	RequiredFields []string          `json:"required_fields"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ValidationResult reports how complete and valid a filled template is.
type ValidationResult struct {
	IsValid              bool     `json:"is_valid"`
	Errors               []string `json:"errors"`
	Warnings             []string `json:"warnings"`
	CompletionPercentage float64  `json:"completion_percentage"`
}

// ValidateContent checks user-provided answers against the template's
// required fields and computes completion over all declared fields.
func (t *Template) ValidateContent(userContent map[string]any) ValidationResult {
	result := ValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	var missing []string
	for _, field := range t.RequiredFields {
		v, ok := userContent[field]
		if !ok || v == nil || v == "" || v == false {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		result.IsValid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Missing required fields: %s", joinFields(missing)))
	}

	total := 0
	for _, section := range t.Sections {
		total += len(section.Fields)
	}
	completed := 0
	for _, v := range userContent {
		if v != nil && v != "" && v != false {
			completed++
		}
	}
	if total > 0 {
		result.CompletionPercentage = float64(completed) / float64(total) * 100
	}
	return result
}

func joinFields(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}

// Monitor configures which regulations an organization watches.
type Monitor struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	RegulationTypes       []string    `json:"regulation_types"`
	Sources               []string    `json:"sources"`
	Keywords              []string    `json:"keywords"`
	OrganizationID        string      `json:"organization_id"`
	IsActive              bool        `json:"is_active"`
	CheckFrequency        string      `json:"check_frequency"` // hourly, daily, weekly
	LastCheck             *time.Time  `json:"last_check,omitempty"`
	NextCheck             *time.Time  `json:"next_check,omitempty"`
	NotificationChannels  []string    `json:"notification_channels"`
	NotificationThreshold ImpactLevel `json:"notification_threshold"`
	Recipients            []string    `json:"recipients"`
	TotalChecks           int         `json:"total_checks"`
	AlertsGenerated       int         `json:"alerts_generated"`
	LastAlertDate         *time.Time  `json:"last_alert_date,omitempty"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// NewMonitor validates required fields and builds an active daily monitor
// with email notification defaults.
func NewMonitor(name string, regulationTypes, sources, keywords []string, orgID string, now time.Time) (*Monitor, error) {
	if name == "" || orgID == "" {
		return nil, fmt.Errorf("name and organization_id are required")
	}
	if len(regulationTypes) == 0 || len(sources) == 0 {
		return nil, fmt.Errorf("regulation_types and sources are required")
	}
	return &Monitor{
		ID:                    uuid.NewString(),
		Name:                  name,
		RegulationTypes:       regulationTypes,
		Sources:               sources,
		Keywords:              keywords,
		OrganizationID:        orgID,
		IsActive:              true,
		CheckFrequency:        "daily",
		NotificationChannels:  []string{"email"},
		NotificationThreshold: ImpactMedium,
		Recipients:            []string{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// ShouldGenerateAlert reports whether a change at the given impact level
// meets the monitor's notification threshold.
func (m *Monitor) ShouldGenerateAlert(impact ImpactLevel) bool {
	return impact.AtLeast(m.NotificationThreshold)
}

// RecordCheck updates monitoring statistics after a sync run.
func (m *Monitor) RecordCheck(alertsGenerated int, at time.Time) {
	m.TotalChecks++
	m.LastCheck = &at
	if alertsGenerated > 0 {
		m.AlertsGenerated += alertsGenerated
		m.LastAlertDate = &at
	}
}
