package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zenthera/internal/compliance/models"
	"zenthera/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
}

func (s *InMemorySuite) mustScore(orgID string, overallTarget float64, at time.Time) *models.Score {
	score, err := models.NewScore(orgID, "sys", overallTarget, overallTarget, overallTarget, overallTarget, at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateScore(s.ctx, score))
	return score
}

func (s *InMemorySuite) TestLatestScore() {
	s.Run("not found when empty", func() {
		_, err := s.store.LatestScore(s.ctx, "org-a")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns most recently updated", func() {
		s.mustScore("org-a", 50, s.now.Add(-2*time.Hour))
		want := s.mustScore("org-a", 90, s.now)
		s.mustScore("org-b", 70, s.now.Add(time.Hour))

		got, err := s.store.LatestScore(s.ctx, "org-a")
		s.Require().NoError(err)
		s.Equal(want.ID, got.ID)
		s.InDelta(90, got.OverallScore, 0.001)
	})
}

func (s *InMemorySuite) TestScoresSince() {
	s.mustScore("org-a", 40, s.now.AddDate(0, 0, -40))
	inWindow := s.mustScore("org-a", 60, s.now.AddDate(0, 0, -10))
	latest := s.mustScore("org-a", 80, s.now)

	scores, err := s.store.ScoresSince(s.ctx, "org-a", s.now.AddDate(0, 0, -30), s.now)
	s.Require().NoError(err)
	s.Require().Len(scores, 2)
	// Oldest first for trend rendering.
	s.Equal(inWindow.ID, scores[0].ID)
	s.Equal(latest.ID, scores[1].ID)
}

func (s *InMemorySuite) TestListAlertsFilters() {
	mk := func(severity models.Severity, status models.AlertStatus, at time.Time) *models.Alert {
		a, err := models.NewAlert("org-a", "sys", "bias_violation", "t", severity, "", at)
		s.Require().NoError(err)
		a.Status = status
		s.Require().NoError(s.store.CreateAlert(s.ctx, a))
		return a
	}

	older := mk(models.SeverityHigh, models.AlertActive, s.now.Add(-time.Hour))
	newer := mk(models.SeverityHigh, models.AlertActive, s.now)
	mk(models.SeverityLow, models.AlertResolved, s.now)

	s.Run("severity and status filters", func() {
		alerts, err := s.store.ListAlerts(s.ctx, AlertFilter{
			OrganizationID: "org-a",
			Status:         models.AlertActive,
			Severity:       models.SeverityHigh,
		})
		s.Require().NoError(err)
		s.Require().Len(alerts, 2)
		// Newest first.
		s.Equal(newer.ID, alerts[0].ID)
		s.Equal(older.ID, alerts[1].ID)
	})

	s.Run("limit applies after sorting", func() {
		alerts, err := s.store.ListAlerts(s.ctx, AlertFilter{OrganizationID: "org-a", Limit: 1})
		s.Require().NoError(err)
		s.Require().Len(alerts, 1)
		s.Equal(newer.ID, alerts[0].ID)
	})
}

func (s *InMemorySuite) TestUpdateAlert() {
	a, err := models.NewAlert("org-a", "sys", "bias_violation", "t", models.SeverityHigh, "", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateAlert(s.ctx, a))

	s.Run("mutates under lock and returns copy", func() {
		updated, err := s.store.UpdateAlert(s.ctx, a.ID, func(al *models.Alert) error {
			al.Resolve("auditor", s.now)
			return nil
		})
		s.Require().NoError(err)
		s.Equal(models.AlertResolved, updated.Status)
		s.Equal("auditor", updated.ResolvedBy)

		stored, err := s.store.ListAlerts(s.ctx, AlertFilter{Status: models.AlertResolved})
		s.Require().NoError(err)
		s.Len(stored, 1)
	})

	s.Run("unknown id", func() {
		_, err := s.store.UpdateAlert(s.ctx, "missing", func(*models.Alert) error { return nil })
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
