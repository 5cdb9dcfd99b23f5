package engine

import (
	"strings"
	"time"

	"zenthera/internal/failure/models"
)

// RenderedNotification is a notification template with all alert variables
// substituted.
type RenderedNotification struct {
	Subject       string            `json:"subject"`
	Body          string            `json:"body"`
	VariablesUsed map[string]string `json:"variables_used"`
}

// FormatAlertNotification substitutes {variable} placeholders in the
// template's subject and body with values drawn from the alert.
func FormatAlertNotification(alert *models.Alert, tpl *models.NotificationTemplate) RenderedNotification {
	variables := map[string]string{
		"alert_title":       alert.AlertTitle,
		"alert_description": alert.AlertDescription,
		"severity":          strings.ToUpper(string(alert.Severity)),
		"component":         alert.SourceComponent,
		"triggered_at":      alert.TriggeredAt.Format("2006-01-02 15:04:05 UTC"),
		"alert_id":          alert.ID,
		"organization":      alert.OrganizationID,
	}

	subject := tpl.SubjectTemplate
	body := tpl.BodyTemplate
	for name, value := range variables {
		placeholder := "{" + name + "}"
		subject = strings.ReplaceAll(subject, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
	}

	return RenderedNotification{Subject: subject, Body: body, VariablesUsed: variables}
}

// SentNotification is the shape of a previously delivered notification used
// for suppression checks.
type SentNotification struct {
	SentAt          time.Time
	AlertType       string
	SourceComponent string
}

// ShouldSuppressNotification reports whether a notification for the alert
// should be held back because a similar one went out within the suppression
// window.
func ShouldSuppressNotification(now time.Time, alert *models.Alert,
	recent []SentNotification, suppressionMinutes int) bool {

	windowStart := now.Add(-time.Duration(suppressionMinutes) * time.Minute)
	for _, n := range recent {
		if n.SentAt.After(windowStart) &&
			n.AlertType == alert.AlertType &&
			n.SourceComponent == alert.SourceComponent {
			return true
		}
	}
	return false
}
