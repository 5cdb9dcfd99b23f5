// Package store provides the in-memory persistence for the LLM
// observability module.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"zenthera/internal/llmobs/models"
	"zenthera/pkg/platform/sentinel"
)

// InMemory stores sessions, interactions, risks, assessments, comparisons
// and alerts behind a single lock. Reads return defensive copies.
type InMemory struct {
	mu           sync.RWMutex
	sessions     map[string]*models.Session
	interactions map[string]*models.Interaction
	risks        map[string]*models.RiskDetection
	assessments  map[string]*models.QualityAssessment
	comparisons  map[string]*models.ModelComparison
	alerts       map[string]*models.Alert
}

// NewInMemory creates an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		sessions:     map[string]*models.Session{},
		interactions: map[string]*models.Interaction{},
		risks:        map[string]*models.RiskDetection{},
		assessments:  map[string]*models.QualityAssessment{},
		comparisons:  map[string]*models.ModelComparison{},
		alerts:       map[string]*models.Alert{},
	}
}

// CreateSession stores a session.
func (s *InMemory) CreateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

// GetSession returns one session by ID.
func (s *InMemory) GetSession(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *session
	return &cp, nil
}

// CountSessions returns the number of sessions for an organization.
func (s *InMemory) CountSessions(_ context.Context, orgID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, session := range s.sessions {
		if session.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

// CreateInteraction stores an interaction.
func (s *InMemory) CreateInteraction(_ context.Context, in *models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.interactions[in.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *in
	s.interactions[in.ID] = &cp
	return nil
}

// GetInteraction returns one interaction by ID.
func (s *InMemory) GetInteraction(_ context.Context, id string) (*models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.interactions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *in
	return &cp, nil
}

// InteractionFilter narrows ListInteractions.
type InteractionFilter struct {
	OrganizationID string
	SessionID      string
	ModelName      string
	Since          time.Time
}

// ListInteractions returns matching interactions, newest first.
func (s *InMemory) ListInteractions(_ context.Context, filter InteractionFilter) ([]*models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Interaction
	for _, in := range s.interactions {
		if filter.OrganizationID != "" && in.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.SessionID != "" && in.SessionID != filter.SessionID {
			continue
		}
		if filter.ModelName != "" && in.ModelName != filter.ModelName {
			continue
		}
		if !filter.Since.IsZero() && in.Timestamp.Before(filter.Since) {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// InteractionsBySession returns a session's interactions, oldest first.
func (s *InMemory) InteractionsBySession(_ context.Context, sessionID string) ([]*models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Interaction
	for _, in := range s.interactions {
		if in.SessionID != sessionID {
			continue
		}
		cp := *in
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// CreateRisk stores a risk detection.
func (s *InMemory) CreateRisk(_ context.Context, risk *models.RiskDetection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.risks[risk.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *risk
	s.risks[risk.ID] = &cp
	return nil
}

// RiskFilter narrows ListRisks.
type RiskFilter struct {
	OrganizationID string
	RiskType       models.RiskType
	Severity       models.Severity
	SessionID      string
	Since          time.Time
}

// ListRisks returns matching risk detections, newest first.
func (s *InMemory) ListRisks(_ context.Context, filter RiskFilter) ([]*models.RiskDetection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.RiskDetection
	for _, risk := range s.risks {
		if filter.OrganizationID != "" && risk.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.RiskType != "" && risk.RiskType != filter.RiskType {
			continue
		}
		if filter.Severity != "" && risk.Severity != filter.Severity {
			continue
		}
		if filter.SessionID != "" && risk.SessionID != filter.SessionID {
			continue
		}
		if !filter.Since.IsZero() && risk.DetectedAt.Before(filter.Since) {
			continue
		}
		cp := *risk
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetectedAt.After(out[j].DetectedAt) })
	return out, nil
}

// RisksByInteraction returns the risks detected on one interaction.
func (s *InMemory) RisksByInteraction(_ context.Context, interactionID string) ([]*models.RiskDetection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.RiskDetection
	for _, risk := range s.risks {
		if risk.InteractionID != interactionID {
			continue
		}
		cp := *risk
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetectedAt.Before(out[j].DetectedAt) })
	return out, nil
}

// CreateAssessment stores a quality assessment.
func (s *InMemory) CreateAssessment(_ context.Context, a *models.QualityAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assessments[a.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *a
	s.assessments[a.ID] = &cp
	return nil
}

// AssessmentsBySession returns a session's quality assessments, oldest first.
func (s *InMemory) AssessmentsBySession(_ context.Context, sessionID string) ([]*models.QualityAssessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.QualityAssessment
	for _, a := range s.assessments {
		if a.SessionID != sessionID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AssessmentTimestamp.Before(out[j].AssessmentTimestamp)
	})
	return out, nil
}

// CreateComparison stores a model comparison record.
func (s *InMemory) CreateComparison(_ context.Context, c *models.ModelComparison) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comparisons[c.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *c
	s.comparisons[c.ID] = &cp
	return nil
}

// CreateAlert stores an alert.
func (s *InMemory) CreateAlert(_ context.Context, a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[a.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *a
	s.alerts[a.ID] = &cp
	return nil
}

// AlertFilter narrows ListAlerts. Status matches the derived lifecycle
// state (active, acknowledged, resolved).
type AlertFilter struct {
	OrganizationID string
	Severity       models.Severity
	Status         string
	Since          time.Time
}

// ListAlerts returns matching alerts, newest first.
func (s *InMemory) ListAlerts(_ context.Context, filter AlertFilter) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Alert
	for _, a := range s.alerts {
		if filter.OrganizationID != "" && a.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		if filter.Status != "" && a.Status() != filter.Status {
			continue
		}
		if !filter.Since.IsZero() && a.TriggeredAt.Before(filter.Since) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TriggeredAt.After(out[j].TriggeredAt) })
	return out, nil
}
