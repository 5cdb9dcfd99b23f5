package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zenthera/internal/narrative/models"
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

func (s *InMemorySuite) seedReplay(id, org string, age time.Duration, tags ...string) *models.SessionReplay {
	r := &models.SessionReplay{
		ID:             id,
		SessionID:      "sess-" + id,
		OrganizationID: org,
		CreatedAt:      s.now.Add(-age),
		CreatedBy:      "user-1",
		ReplayName:     "replay " + id,
		Tags:           tags,
	}
	s.Require().NoError(s.store.CreateReplay(s.ctx, r))
	return r
}

func (s *InMemorySuite) TestListReplaysFiltersAndOrder() {
	s.seedReplay("a", "org-1", time.Hour, "privacy")
	s.seedReplay("b", "org-1", 10*time.Minute, "bias", "review")
	s.seedReplay("c", "org-2", time.Minute, "privacy")

	all, err := s.store.ListReplays(s.ctx, ReplayFilter{OrganizationID: "org-1"})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	// Newest first.
	s.Equal("b", all[0].ID)
	s.Equal("a", all[1].ID)

	tagged, err := s.store.ListReplays(s.ctx, ReplayFilter{
		OrganizationID: "org-1",
		Tags:           []string{"privacy", "missing"},
	})
	s.Require().NoError(err)
	s.Require().Len(tagged, 1)
	s.Equal("a", tagged[0].ID)

	bySession, err := s.store.ListReplays(s.ctx, ReplayFilter{SessionID: "sess-c"})
	s.Require().NoError(err)
	s.Len(bySession, 1)
}

func (s *InMemorySuite) TestGetReplayNotFound() {
	_, err := s.store.GetReplay(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestCreateReplayConflict() {
	s.seedReplay("a", "org-1", time.Hour)
	err := s.store.CreateReplay(s.ctx, &models.SessionReplay{ID: "a"})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemorySuite) TestEventsByReplaySequenceOrder() {
	s.seedReplay("a", "org-1", time.Hour)
	for i, seq := range []int{3, 1, 2} {
		s.Require().NoError(s.store.CreateEvent(s.ctx, &models.ReplayEvent{
			ID:             "ev-" + string(rune('a'+i)),
			ReplayID:       "a",
			OrganizationID: "org-1",
			EventType:      models.EventUserInput,
			SequenceNumber: seq,
		}))
	}

	events, err := s.store.EventsByReplay(s.ctx, "a")
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal(1, events[0].SequenceNumber)
	s.Equal(3, events[2].SequenceNumber)
}

func (s *InMemorySuite) TestListExplanationsFilters() {
	for i, spec := range []struct {
		explanationType models.ExplanationType
		style           models.NarrativeStyle
		target          string
	}{
		{models.ExplanationRisk, models.StyleExecutive, "risk-1"},
		{models.ExplanationRisk, models.StyleTechnical, "risk-2"},
		{models.ExplanationEthicalAnalysis, models.StyleExecutive, "interaction-1"},
	} {
		s.Require().NoError(s.store.CreateExplanation(s.ctx, &models.NarrativeExplanation{
			ID:              "ex-" + string(rune('a'+i)),
			OrganizationID:  "org-1",
			ExplanationType: spec.explanationType,
			NarrativeStyle:  spec.style,
			TargetEntityID:  spec.target,
			GeneratedAt:     s.now.Add(-time.Duration(i) * time.Minute),
		}))
	}

	risks, err := s.store.ListExplanations(s.ctx, ExplanationFilter{
		OrganizationID:  "org-1",
		ExplanationType: models.ExplanationRisk,
	})
	s.Require().NoError(err)
	s.Require().Len(risks, 2)
	// Newest first.
	s.Equal("ex-a", risks[0].ID)

	executive, err := s.store.ListExplanations(s.ctx, ExplanationFilter{
		OrganizationID: "org-1",
		NarrativeStyle: models.StyleExecutive,
	})
	s.Require().NoError(err)
	s.Len(executive, 2)

	byTarget, err := s.store.ListExplanations(s.ctx, ExplanationFilter{TargetEntityID: "risk-2"})
	s.Require().NoError(err)
	s.Len(byTarget, 1)

	recent, err := s.store.ListExplanations(s.ctx, ExplanationFilter{
		OrganizationID: "org-1",
		Since:          s.now.Add(-90 * time.Second),
	})
	s.Require().NoError(err)
	s.Len(recent, 2)
}

func (s *InMemorySuite) TestListAuditsFilters() {
	for i, spec := range []struct {
		auditType, status, risk string
	}{
		{"privacy_incident", "non_compliant", "critical"},
		{"session", "compliant", "low"},
	} {
		s.Require().NoError(s.store.CreateAudit(s.ctx, &models.AuditTrail{
			ID:               "audit-" + string(rune('a'+i)),
			OrganizationID:   "org-1",
			AuditType:        spec.auditType,
			ComplianceStatus: spec.status,
			RiskLevel:        spec.risk,
			AuditTimestamp:   s.now.Add(-time.Duration(i) * time.Hour),
		}))
	}

	critical, err := s.store.ListAudits(s.ctx, AuditFilter{OrganizationID: "org-1", RiskLevel: "critical"})
	s.Require().NoError(err)
	s.Require().Len(critical, 1)
	s.Equal("privacy_incident", critical[0].AuditType)

	compliant, err := s.store.ListAudits(s.ctx, AuditFilter{OrganizationID: "org-1", ComplianceStatus: "compliant"})
	s.Require().NoError(err)
	s.Len(compliant, 1)
}

func (s *InMemorySuite) TestListTemplatesActiveAndUsageOrder() {
	for i, spec := range []struct {
		usage  int
		active bool
	}{
		{5, true},
		{20, true},
		{100, false},
	} {
		s.Require().NoError(s.store.CreateTemplate(s.ctx, &models.ExplanationTemplate{
			ID:              "tpl-" + string(rune('a'+i)),
			OrganizationID:  "org-1",
			ExplanationType: models.ExplanationRisk,
			NarrativeStyle:  models.StyleExecutive,
			IsActive:        spec.active,
			UsageCount:      spec.usage,
		}))
	}

	active, err := s.store.ListTemplates(s.ctx, TemplateFilter{OrganizationID: "org-1", ActiveOnly: true})
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	// Most used first.
	s.Equal("tpl-b", active[0].ID)
	s.Equal("tpl-a", active[1].ID)
}

func (s *InMemorySuite) TestSeedDemoData() {
	SeedDemoData(s.store, "org_demo", s.now)

	replays, err := s.store.ListReplays(s.ctx, ReplayFilter{OrganizationID: "org_demo"})
	s.Require().NoError(err)
	s.Require().Len(replays, 1)
	s.Equal("Customer Support Session - Privacy Concern", replays[0].ReplayName)

	events, err := s.store.EventsByReplay(s.ctx, "replay_001")
	s.Require().NoError(err)
	s.Require().Len(events, 5)
	s.Equal(models.EventUserInput, events[0].EventType)
	s.Equal(models.EventHumanReview, events[4].EventType)
	s.Equal("interaction_001", events[0].RelatedInteractionID)
	s.Empty(events[2].RelatedInteractionID)

	alignments, err := s.store.ListAlignments(s.ctx, AlignmentFilter{OrganizationID: "org_demo"})
	s.Require().NoError(err)
	s.Require().Len(alignments, 1)
	s.InDelta(0.23, alignments[0].OverallAlignmentScore, 0.001)
	s.True(alignments[0].RequiresHumanReview)

	audits, err := s.store.ListAudits(s.ctx, AuditFilter{OrganizationID: "org_demo"})
	s.Require().NoError(err)
	s.Require().Len(audits, 1)
	s.Len(audits[0].Findings, 2)
	s.Len(audits[0].ActionItems, 2)

	templates, err := s.store.ListTemplates(s.ctx, TemplateFilter{OrganizationID: "org_demo", ActiveOnly: true})
	s.Require().NoError(err)
	s.Len(templates, 1)
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}
