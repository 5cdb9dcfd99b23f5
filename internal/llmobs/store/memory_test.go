package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zenthera/internal/llmobs/models"
	"zenthera/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
}

func (s *InMemorySuite) seedInteraction(id, org, model string, age time.Duration) *models.Interaction {
	in := &models.Interaction{
		ID:             id,
		SessionID:      "sess-1",
		OrganizationID: org,
		ModelName:      model,
		Prompt:         "p",
		Response:       "r",
		Timestamp:      s.now.Add(-age),
	}
	s.Require().NoError(s.store.CreateInteraction(s.ctx, in))
	return in
}

func (s *InMemorySuite) TestListInteractionsFiltersAndOrder() {
	s.seedInteraction("a", "org-1", "gpt-4", time.Hour)
	s.seedInteraction("b", "org-1", "gpt-4", 10*time.Minute)
	s.seedInteraction("c", "org-1", "claude-3", 30*time.Minute)
	s.seedInteraction("d", "org-2", "gpt-4", time.Minute)

	all, err := s.store.ListInteractions(s.ctx, InteractionFilter{OrganizationID: "org-1"})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	// Newest first.
	s.Equal("b", all[0].ID)
	s.Equal("a", all[2].ID)

	byModel, err := s.store.ListInteractions(s.ctx, InteractionFilter{OrganizationID: "org-1", ModelName: "claude-3"})
	s.Require().NoError(err)
	s.Require().Len(byModel, 1)
	s.Equal("c", byModel[0].ID)

	recent, err := s.store.ListInteractions(s.ctx, InteractionFilter{
		OrganizationID: "org-1",
		Since:          s.now.Add(-20 * time.Minute),
	})
	s.Require().NoError(err)
	s.Len(recent, 1)
}

func (s *InMemorySuite) TestGetInteractionNotFound() {
	_, err := s.store.GetInteraction(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestCreateInteractionConflict() {
	s.seedInteraction("a", "org-1", "gpt-4", time.Hour)
	err := s.store.CreateInteraction(s.ctx, &models.Interaction{ID: "a"})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemorySuite) TestRisksByInteraction() {
	s.seedInteraction("a", "org-1", "gpt-4", time.Hour)
	for i, rt := range []models.RiskType{models.RiskToxicity, models.RiskBias} {
		s.Require().NoError(s.store.CreateRisk(s.ctx, &models.RiskDetection{
			ID:             string(rt),
			InteractionID:  "a",
			SessionID:      "sess-1",
			OrganizationID: "org-1",
			RiskType:       rt,
			Severity:       models.SeverityHigh,
			DetectedAt:     s.now.Add(time.Duration(i) * time.Minute),
		}))
	}

	risks, err := s.store.RisksByInteraction(s.ctx, "a")
	s.Require().NoError(err)
	s.Require().Len(risks, 2)
	s.Equal(models.RiskToxicity, risks[0].RiskType)

	none, err := s.store.RisksByInteraction(s.ctx, "b")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *InMemorySuite) TestListRisksSeverityFilter() {
	s.Require().NoError(s.store.CreateRisk(s.ctx, &models.RiskDetection{
		ID: "r1", OrganizationID: "org-1", RiskType: models.RiskToxicity,
		Severity: models.SeverityCritical, DetectedAt: s.now,
	}))
	s.Require().NoError(s.store.CreateRisk(s.ctx, &models.RiskDetection{
		ID: "r2", OrganizationID: "org-1", RiskType: models.RiskBias,
		Severity: models.SeverityMedium, DetectedAt: s.now,
	}))

	critical, err := s.store.ListRisks(s.ctx, RiskFilter{OrganizationID: "org-1", Severity: models.SeverityCritical})
	s.Require().NoError(err)
	s.Require().Len(critical, 1)
	s.Equal(models.RiskToxicity, critical[0].RiskType)
}

func (s *InMemorySuite) TestListAlertsStatus() {
	ack := s.now.Add(-time.Hour)
	resolved := s.now.Add(-30 * time.Minute)
	alerts := []*models.Alert{
		{ID: "a1", OrganizationID: "org-1", Severity: models.SeverityHigh, TriggeredAt: s.now.Add(-3 * time.Hour)},
		{ID: "a2", OrganizationID: "org-1", Severity: models.SeverityLow, TriggeredAt: s.now.Add(-2 * time.Hour), AcknowledgedAt: &ack},
		{ID: "a3", OrganizationID: "org-1", Severity: models.SeverityHigh, TriggeredAt: s.now.Add(-time.Hour), AcknowledgedAt: &ack, ResolvedAt: &resolved},
	}
	for _, a := range alerts {
		s.Require().NoError(s.store.CreateAlert(s.ctx, a))
	}

	active, err := s.store.ListAlerts(s.ctx, AlertFilter{OrganizationID: "org-1", Status: "active"})
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("a1", active[0].ID)

	acked, err := s.store.ListAlerts(s.ctx, AlertFilter{OrganizationID: "org-1", Status: "acknowledged"})
	s.Require().NoError(err)
	s.Require().Len(acked, 1)
	s.Equal("a2", acked[0].ID)
}

func (s *InMemorySuite) TestSeedDemoData() {
	SeedDemoData(s.store, "org_demo", s.now)

	session, err := s.store.GetSession(s.ctx, "session_001")
	s.Require().NoError(err)
	s.Equal("gpt-4", session.ModelName)

	interactions, err := s.store.InteractionsBySession(s.ctx, "session_001")
	s.Require().NoError(err)
	s.Require().Len(interactions, 4)
	// Oldest first.
	s.Equal("interaction_001", interactions[0].ID)

	risks, err := s.store.ListRisks(s.ctx, RiskFilter{OrganizationID: "org_demo"})
	s.Require().NoError(err)
	s.Len(risks, 3)
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}
