package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/internal/compliance/models"
	"zenthera/internal/compliance/store"
	dErrors "zenthera/pkg/domain-errors"
	"zenthera/pkg/requestcontext"
)

func newTestService() (*Service, *store.InMemory, context.Context, time.Time) {
	st := store.NewInMemory()
	svc := New(st, slog.Default(), nil)
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	return svc, st, ctx, now
}

func TestRecordScoreAutoAlerts(t *testing.T) {
	t.Run("healthy score triggers nothing", func(t *testing.T) {
		svc, _, ctx, _ := newTestService()
		result, err := svc.RecordScore(ctx, ScoreInput{
			OrganizationID: "org-a", SystemName: "chatbot",
			BiasScore: 85, TransparencyScore: 90, LogsScore: 80, EnergyScore: 75,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RiskLow, result.Score.RiskLevel)
		assert.Empty(t, result.TriggeredAlerts)
	})

	t.Run("critical overall plus per-metric alerts", func(t *testing.T) {
		svc, st, ctx, _ := newTestService()
		result, err := svc.RecordScore(ctx, ScoreInput{
			OrganizationID: "org-a", SystemName: "chatbot",
			BiasScore: 25, TransparencyScore: 45, LogsScore: 40, EnergyScore: 40,
		})
		require.NoError(t, err)
		// overall 37.5: one critical low-score alert plus four metric alerts.
		assert.Equal(t, models.RiskHigh, result.Score.RiskLevel)
		require.Len(t, result.TriggeredAlerts, 5)
		assert.Equal(t, models.AlertTypeLowScore, result.TriggeredAlerts[0].AlertType)
		assert.Equal(t, models.SeverityCritical, result.TriggeredAlerts[0].Severity)

		bySeverity := map[models.Severity]int{}
		for _, a := range result.TriggeredAlerts {
			bySeverity[a.Severity]++
		}
		// bias 25 -> high, the three 40-45 metrics -> medium.
		assert.Equal(t, 1, bySeverity[models.SeverityHigh])
		assert.Equal(t, 3, bySeverity[models.SeverityMedium])

		stored, err := st.ListAlerts(ctx, store.AlertFilter{OrganizationID: "org-a"})
		require.NoError(t, err)
		assert.Len(t, stored, 5)
	})

	t.Run("validation failures are bad requests", func(t *testing.T) {
		svc, _, ctx, _ := newTestService()
		_, err := svc.RecordScore(ctx, ScoreInput{SystemName: "chatbot"})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

		_, err = svc.RecordScore(ctx, ScoreInput{
			OrganizationID: "org-a", SystemName: "chatbot", BiasScore: 120,
		})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})
}

func TestGetDashboard(t *testing.T) {
	svc, _, ctx, now := newTestService()

	// Older score inside the 30-day window, then the current one.
	oldCtx := requestcontext.WithTime(context.Background(), now.AddDate(0, 0, -7))
	_, err := svc.RecordScore(oldCtx, ScoreInput{
		OrganizationID: "org-a", SystemName: "chatbot",
		BiasScore: 55, TransparencyScore: 60, LogsScore: 70, EnergyScore: 45,
	})
	require.NoError(t, err)

	_, err = svc.RecordScore(ctx, ScoreInput{
		OrganizationID: "org-a", SystemName: "chatbot",
		BiasScore: 70, TransparencyScore: 75, LogsScore: 80, EnergyScore: 65,
	})
	require.NoError(t, err)

	dash, err := svc.GetDashboard(ctx, "org-a")
	require.NoError(t, err)

	require.NotNil(t, dash.CurrentScore)
	assert.InDelta(t, 72.5, dash.CurrentScore.OverallScore, 0.001)
	assert.Len(t, dash.TrendData, 2)
	// The older score was below the metric thresholds, so alerts exist.
	assert.Greater(t, dash.AlertSummary.TotalActive, 0)
	assert.Equal(t, dash.AlertSummary.TotalActive,
		dash.AlertSummary.BySeverity[models.SeverityCritical]+
			dash.AlertSummary.BySeverity[models.SeverityHigh]+
			dash.AlertSummary.BySeverity[models.SeverityMedium]+
			dash.AlertSummary.BySeverity[models.SeverityLow])
}

func TestGetDashboardEmptyOrg(t *testing.T) {
	svc, _, ctx, _ := newTestService()
	dash, err := svc.GetDashboard(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, dash.CurrentScore)
	assert.Zero(t, dash.AlertSummary.TotalActive)
	assert.Empty(t, dash.TrendData)
}

func TestUpdateAlert(t *testing.T) {
	svc, _, ctx, now := newTestService()

	alert, err := svc.CreateAlert(ctx, AlertInput{
		OrganizationID: "org-a", SystemName: "chatbot",
		AlertType: "bias_violation", Title: "High bias",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityMedium, alert.Severity)

	t.Run("resolving stamps resolver and time", func(t *testing.T) {
		updated, err := svc.UpdateAlert(ctx, alert.ID, AlertUpdate{
			Status: models.AlertResolved, ResolvedBy: "compliance-officer",
		})
		require.NoError(t, err)
		assert.Equal(t, models.AlertResolved, updated.Status)
		assert.Equal(t, "compliance-officer", updated.ResolvedBy)
		require.NotNil(t, updated.ResolvedAt)
		assert.True(t, updated.ResolvedAt.Equal(now))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.UpdateAlert(ctx, alert.ID, AlertUpdate{Status: "snoozed"})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("missing alert is not found", func(t *testing.T) {
		_, err := svc.UpdateAlert(ctx, "missing", AlertUpdate{Status: models.AlertIgnored})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func TestGenerateReport(t *testing.T) {
	svc, _, ctx, now := newTestService()

	for i, overall := range []float64{50, 70, 90} {
		at := requestcontext.WithTime(context.Background(), now.AddDate(0, 0, -i-1))
		_, err := svc.RecordScore(at, ScoreInput{
			OrganizationID: "org-a", SystemName: "chatbot",
			BiasScore: overall, TransparencyScore: overall, LogsScore: overall, EnergyScore: overall,
		})
		require.NoError(t, err)
	}

	report, err := svc.GenerateReport(ctx, ReportInput{
		OrganizationID: "org-a",
		ReportType:     "ai_act",
		PeriodStart:    now.AddDate(0, 0, -10).Format(time.RFC3339),
		PeriodEnd:      now.Format(time.RFC3339),
	})
	require.NoError(t, err)

	assert.Equal(t, "AI_ACT Compliance Report", report.Title)
	assert.Equal(t, models.ReportFinal, report.Status)
	assert.Equal(t, 3, report.Statistics.TotalAssessments)
	assert.InDelta(t, 70, report.Statistics.AverageScore, 0.001)
	assert.InDelta(t, 50, report.Statistics.MinimumScore, 0.001)
	assert.InDelta(t, 90, report.Statistics.MaximumScore, 0.001)
	assert.Equal(t, 1, report.Statistics.SystemsMonitored)
	assert.NotEmpty(t, report.Summary)
	assert.NotEmpty(t, report.Findings)
	assert.NotEmpty(t, report.Recommendations)

	t.Run("invalid period rejected", func(t *testing.T) {
		_, err := svc.GenerateReport(ctx, ReportInput{
			OrganizationID: "org-a", ReportType: "ai_act",
			PeriodStart: now.Format(time.RFC3339),
			PeriodEnd:   now.AddDate(0, 0, -1).Format(time.RFC3339),
		})
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})
}
