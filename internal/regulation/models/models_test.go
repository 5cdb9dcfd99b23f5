package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func TestAlertPriority(t *testing.T) {
	cases := []struct {
		name      string
		impact    ImpactLevel
		alertType string
		want      int
	}{
		{"critical amendment", ImpactCritical, AlertTypeAmendment, 1},
		{"critical deadline clamps at 1", ImpactCritical, AlertTypeDeadline, 1},
		{"high deadline promoted", ImpactHigh, AlertTypeDeadline, 1},
		{"high new regulation", ImpactHigh, AlertTypeNewRegulation, 2},
		{"medium clarification demoted", ImpactMedium, AlertTypeClarification, 4},
		{"low clarification", ImpactLow, AlertTypeClarification, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := NewAlert("reg-1", tc.alertType, "t", "d", tc.impact, nil, testNow)
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.Priority)
		})
	}
}

func TestAlertLifecycle(t *testing.T) {
	a, err := NewAlert("reg-1", AlertTypeAmendment, "t", "d", ImpactHigh, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, AlertActive, a.Status)
	assert.True(t, a.ActionRequired)

	a.Acknowledge("alice", "reviewing")
	assert.Equal(t, AlertAcknowledged, a.Status)
	assert.Equal(t, []string{"alice"}, a.AcknowledgedBy)
	assert.Contains(t, a.ResolutionNotes, "Acknowledged by alice: reviewing")

	// Repeat acknowledgement by the same user does not duplicate.
	a.Acknowledge("alice", "")
	assert.Equal(t, []string{"alice"}, a.AcknowledgedBy)

	a.Resolve("bob", "mitigated")
	assert.Equal(t, AlertResolved, a.Status)
	assert.Equal(t, "bob", a.ResolvedBy)
	assert.False(t, a.ActionRequired)
	assert.Contains(t, a.ResolutionNotes, "Resolved by bob: mitigated")
}

func TestNewAlertValidation(t *testing.T) {
	_, err := NewAlert("", AlertTypeAmendment, "t", "d", ImpactHigh, nil, testNow)
	assert.Error(t, err)

	_, err = NewAlert("reg-1", AlertTypeAmendment, "t", "d", "extreme", nil, testNow)
	assert.Error(t, err)
}

func testTemplate() *Template {
	return &Template{
		RequiredFields: []string{"system_name", "risk_assessment"},
		Sections: []TemplateSection{
			{Title: "A", Fields: []TemplateField{
				{Name: "system_name", Required: true},
				{Name: "intended_purpose"},
			}},
			{Title: "B", Fields: []TemplateField{
				{Name: "risk_assessment", Required: true},
				{Name: "monitoring_plan"},
			}},
		},
	}
}

func TestValidateContent(t *testing.T) {
	tpl := testTemplate()

	t.Run("complete content", func(t *testing.T) {
		result := tpl.ValidateContent(map[string]any{
			"system_name":      "chatbot",
			"intended_purpose": "support",
			"risk_assessment":  "done",
			"monitoring_plan":  "quarterly",
		})
		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.InDelta(t, 100, result.CompletionPercentage, 0.001)
	})

	t.Run("missing required fields", func(t *testing.T) {
		result := tpl.ValidateContent(map[string]any{
			"system_name": "chatbot",
		})
		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "risk_assessment")
		assert.InDelta(t, 25, result.CompletionPercentage, 0.001)
	})

	t.Run("empty values count as missing", func(t *testing.T) {
		result := tpl.ValidateContent(map[string]any{
			"system_name":     "",
			"risk_assessment": "done",
		})
		assert.False(t, result.IsValid)
		assert.Contains(t, result.Errors[0], "system_name")
	})
}

func TestMonitorThreshold(t *testing.T) {
	m, err := NewMonitor("ai-watch", []string{"ai_act"}, []string{"eur_lex"}, nil, "org-a", testNow)
	require.NoError(t, err)
	assert.Equal(t, ImpactMedium, m.NotificationThreshold)

	assert.False(t, m.ShouldGenerateAlert(ImpactLow))
	assert.True(t, m.ShouldGenerateAlert(ImpactMedium))
	assert.True(t, m.ShouldGenerateAlert(ImpactCritical))

	m.NotificationThreshold = ImpactCritical
	assert.False(t, m.ShouldGenerateAlert(ImpactHigh))
	assert.True(t, m.ShouldGenerateAlert(ImpactCritical))
}

func TestMonitorRecordCheck(t *testing.T) {
	m, err := NewMonitor("ai-watch", []string{"ai_act"}, []string{"eur_lex"}, nil, "org-a", testNow)
	require.NoError(t, err)

	m.RecordCheck(0, testNow)
	assert.Equal(t, 1, m.TotalChecks)
	assert.Equal(t, 0, m.AlertsGenerated)
	assert.Nil(t, m.LastAlertDate)

	later := testNow.Add(time.Hour)
	m.RecordCheck(2, later)
	assert.Equal(t, 2, m.TotalChecks)
	assert.Equal(t, 2, m.AlertsGenerated)
	require.NotNil(t, m.LastAlertDate)
	assert.True(t, m.LastAlertDate.Equal(later))
}
