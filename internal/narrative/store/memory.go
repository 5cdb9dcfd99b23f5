// Package store provides the in-memory persistence for the narrative
// explainability module.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"zenthera/internal/narrative/models"
	"zenthera/pkg/platform/sentinel"
)

// InMemory stores session replays, replay events, explanations, ethical
// alignments, audit trails and templates behind a single lock. Reads return
// defensive copies.
type InMemory struct {
	mu           sync.RWMutex
	replays      map[string]*models.SessionReplay
	events       map[string]*models.ReplayEvent
	explanations map[string]*models.NarrativeExplanation
	alignments   map[string]*models.EthicalAlignment
	audits       map[string]*models.AuditTrail
	templates    map[string]*models.ExplanationTemplate
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		replays:      map[string]*models.SessionReplay{},
		events:       map[string]*models.ReplayEvent{},
		explanations: map[string]*models.NarrativeExplanation{},
		alignments:   map[string]*models.EthicalAlignment{},
		audits:       map[string]*models.AuditTrail{},
		templates:    map[string]*models.ExplanationTemplate{},
	}
}

// CreateReplay stores a session replay.
func (s *InMemory) CreateReplay(_ context.Context, r *models.SessionReplay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.replays[r.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *r
	s.replays[r.ID] = &cp
	return nil
}

// GetReplay returns one replay by ID.
func (s *InMemory) GetReplay(_ context.Context, id string) (*models.SessionReplay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.replays[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// ReplayFilter narrows ListReplays. Tags match if the replay carries any of
// the requested tags.
type ReplayFilter struct {
	OrganizationID string
	SessionID      string
	Tags           []string
}

// ListReplays returns matching replays, newest first.
func (s *InMemory) ListReplays(_ context.Context, filter ReplayFilter) ([]*models.SessionReplay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SessionReplay
	for _, r := range s.replays {
		if filter.OrganizationID != "" && r.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.SessionID != "" && r.SessionID != filter.SessionID {
			continue
		}
		if len(filter.Tags) > 0 && !hasAnyTag(r.Tags, filter.Tags) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// CreateEvent stores a replay event.
func (s *InMemory) CreateEvent(_ context.Context, e *models.ReplayEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *e
	s.events[e.ID] = &cp
	return nil
}

// EventsByReplay returns a replay's events ordered by sequence number.
func (s *InMemory) EventsByReplay(_ context.Context, replayID string) ([]*models.ReplayEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ReplayEvent
	for _, e := range s.events {
		if e.ReplayID != replayID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

// CountEventsByReplay returns the stored event count per replay for an
// organization.
func (s *InMemory) CountEventsByReplay(_ context.Context, orgID string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int{}
	for _, e := range s.events {
		if e.OrganizationID != orgID {
			continue
		}
		counts[e.ReplayID]++
	}
	return counts, nil
}

// CreateExplanation stores a narrative explanation.
func (s *InMemory) CreateExplanation(_ context.Context, e *models.NarrativeExplanation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.explanations[e.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *e
	s.explanations[e.ID] = &cp
	return nil
}

// ExplanationFilter narrows ListExplanations.
type ExplanationFilter struct {
	OrganizationID  string
	ExplanationType models.ExplanationType
	NarrativeStyle  models.NarrativeStyle
	TargetEntityID  string
	Since           time.Time
}

// ListExplanations returns matching explanations, newest first.
func (s *InMemory) ListExplanations(_ context.Context, filter ExplanationFilter) ([]*models.NarrativeExplanation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.NarrativeExplanation
	for _, e := range s.explanations {
		if filter.OrganizationID != "" && e.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.ExplanationType != "" && e.ExplanationType != filter.ExplanationType {
			continue
		}
		if filter.NarrativeStyle != "" && e.NarrativeStyle != filter.NarrativeStyle {
			continue
		}
		if filter.TargetEntityID != "" && e.TargetEntityID != filter.TargetEntityID {
			continue
		}
		if !filter.Since.IsZero() && e.GeneratedAt.Before(filter.Since) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	return out, nil
}

// CreateAlignment stores an ethical alignment assessment.
func (s *InMemory) CreateAlignment(_ context.Context, a *models.EthicalAlignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alignments[a.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *a
	s.alignments[a.ID] = &cp
	return nil
}

// AlignmentFilter narrows ListAlignments.
type AlignmentFilter struct {
	OrganizationID string
	TargetEntityID string
	Since          time.Time
}

// ListAlignments returns matching assessments, newest first.
func (s *InMemory) ListAlignments(_ context.Context, filter AlignmentFilter) ([]*models.EthicalAlignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.EthicalAlignment
	for _, a := range s.alignments {
		if filter.OrganizationID != "" && a.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.TargetEntityID != "" && a.TargetEntityID != filter.TargetEntityID {
			continue
		}
		if !filter.Since.IsZero() && a.AssessmentTimestamp.Before(filter.Since) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AssessmentTimestamp.After(out[j].AssessmentTimestamp)
	})
	return out, nil
}

// CreateAudit stores an audit trail.
func (s *InMemory) CreateAudit(_ context.Context, a *models.AuditTrail) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[a.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *a
	s.audits[a.ID] = &cp
	return nil
}

// AuditFilter narrows ListAudits.
type AuditFilter struct {
	OrganizationID   string
	AuditType        string
	ComplianceStatus string
	RiskLevel        string
	Since            time.Time
}

// ListAudits returns matching audit trails, newest first.
func (s *InMemory) ListAudits(_ context.Context, filter AuditFilter) ([]*models.AuditTrail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.AuditTrail
	for _, a := range s.audits {
		if filter.OrganizationID != "" && a.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.AuditType != "" && a.AuditType != filter.AuditType {
			continue
		}
		if filter.ComplianceStatus != "" && a.ComplianceStatus != filter.ComplianceStatus {
			continue
		}
		if filter.RiskLevel != "" && a.RiskLevel != filter.RiskLevel {
			continue
		}
		if !filter.Since.IsZero() && a.AuditTimestamp.Before(filter.Since) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AuditTimestamp.After(out[j].AuditTimestamp) })
	return out, nil
}

// CreateTemplate stores an explanation template.
func (s *InMemory) CreateTemplate(_ context.Context, t *models.ExplanationTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[t.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *t
	s.templates[t.ID] = &cp
	return nil
}

// TemplateFilter narrows ListTemplates.
type TemplateFilter struct {
	OrganizationID  string
	ExplanationType models.ExplanationType
	NarrativeStyle  models.NarrativeStyle
	ActiveOnly      bool
}

// ListTemplates returns matching templates, most used first.
func (s *InMemory) ListTemplates(_ context.Context, filter TemplateFilter) ([]*models.ExplanationTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.ExplanationTemplate
	for _, t := range s.templates {
		if filter.OrganizationID != "" && t.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.ExplanationType != "" && t.ExplanationType != filter.ExplanationType {
			continue
		}
		if filter.NarrativeStyle != "" && t.NarrativeStyle != filter.NarrativeStyle {
			continue
		}
		if filter.ActiveOnly && !t.IsActive {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UsageCount > out[j].UsageCount })
	return out, nil
}
