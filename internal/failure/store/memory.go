// Package store holds the in-memory persistence for the failure detection
// module: failures, alerts, incidents, monitoring rules, health snapshots
// and notification templates.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"zenthera/internal/failure/models"
	"zenthera/pkg/platform/sentinel"
)

// FailureFilter narrows ListFailures.
type FailureFilter struct {
	OrganizationID string
	FailureType    models.FailureType
	Component      string
	Since          time.Time
}

// AlertFilter narrows ListAlerts.
type AlertFilter struct {
	OrganizationID string
	Severity       models.Severity
	Status         models.AlertStatus
	Component      string
	Since          time.Time
}

// IncidentFilter narrows ListIncidents.
type IncidentFilter struct {
	OrganizationID string
	Status         models.IncidentStatus
	Severity       models.Severity
	Since          time.Time
}

// RuleFilter narrows ListRules.
type RuleFilter struct {
	OrganizationID string
	IsActive       *bool
	ComponentType  string
}

// TemplateFilter narrows ListTemplates.
type TemplateFilter struct {
	OrganizationID string
	Channel        models.NotificationChannel
	ActiveOnly     bool
}

// InMemory keeps all failure detection state in process memory.
type InMemory struct {
	mu        sync.RWMutex
	failures  map[string]*models.FailureDetection
	alerts    map[string]*models.Alert
	incidents map[string]*models.Incident
	rules     map[string]*models.MonitoringRule
	health    map[string]*models.SystemHealth
	templates map[string]*models.NotificationTemplate
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		failures:  make(map[string]*models.FailureDetection),
		alerts:    make(map[string]*models.Alert),
		incidents: make(map[string]*models.Incident),
		rules:     make(map[string]*models.MonitoringRule),
		health:    make(map[string]*models.SystemHealth),
		templates: make(map[string]*models.NotificationTemplate),
	}
}

func (s *InMemory) CreateFailure(_ context.Context, f *models.FailureDetection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.failures[f.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *f
	s.failures[f.ID] = &cp
	return nil
}

func (s *InMemory) GetFailure(_ context.Context, id string) (*models.FailureDetection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.failures[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *InMemory) ListFailures(_ context.Context, filter FailureFilter) ([]*models.FailureDetection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.FailureDetection
	for _, f := range s.failures {
		if filter.OrganizationID != "" && f.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.FailureType != "" && f.FailureType != filter.FailureType {
			continue
		}
		if filter.Component != "" && f.AffectedComponent != filter.Component {
			continue
		}
		if !filter.Since.IsZero() && f.DetectedAt.Before(filter.Since) {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DetectedAt.After(out[j].DetectedAt) })
	return out, nil
}

func (s *InMemory) CreateAlert(_ context.Context, a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.alerts[a.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *a
	s.alerts[a.ID] = &cp
	return nil
}

func (s *InMemory) GetAlert(_ context.Context, id string) (*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// UpdateAlert replaces a stored alert wholesale.
func (s *InMemory) UpdateAlert(_ context.Context, a *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.alerts[a.ID]; !exists {
		return sentinel.ErrNotFound
	}
	cp := *a
	s.alerts[a.ID] = &cp
	return nil
}

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
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Component != "" && a.SourceComponent != filter.Component {
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

func (s *InMemory) CreateIncident(_ context.Context, i *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.incidents[i.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *i
	s.incidents[i.ID] = &cp
	return nil
}

func (s *InMemory) ListIncidents(_ context.Context, filter IncidentFilter) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Incident
	for _, i := range s.incidents {
		if filter.OrganizationID != "" && i.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && i.Severity != filter.Severity {
			continue
		}
		if !filter.Since.IsZero() && i.CreatedAt.Before(filter.Since) {
			continue
		}
		cp := *i
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) CreateRule(_ context.Context, r *models.MonitoringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[r.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *r
	s.rules[r.ID] = &cp
	return nil
}

func (s *InMemory) ListRules(_ context.Context, filter RuleFilter) ([]*models.MonitoringRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.MonitoringRule
	for _, r := range s.rules {
		if filter.OrganizationID != "" && r.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.IsActive != nil && r.IsActive != *filter.IsActive {
			continue
		}
		if filter.ComponentType != "" && r.ComponentType != filter.ComponentType {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) CreateHealth(_ context.Context, h *models.SystemHealth) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.health[h.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *h
	s.health[h.ID] = &cp
	return nil
}

// LatestHealth returns the most recent health snapshot for the organization.
func (s *InMemory) LatestHealth(_ context.Context, orgID string) (*models.SystemHealth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.SystemHealth
	for _, h := range s.health {
		if h.OrganizationID != orgID {
			continue
		}
		if latest == nil || h.Timestamp.After(latest.Timestamp) {
			latest = h
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// HealthSince returns health snapshots at or after the cutoff, oldest first.
func (s *InMemory) HealthSince(_ context.Context, orgID string, since time.Time) ([]*models.SystemHealth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.SystemHealth
	for _, h := range s.health {
		if h.OrganizationID != orgID || h.Timestamp.Before(since) {
			continue
		}
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *InMemory) CreateTemplate(_ context.Context, t *models.NotificationTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[t.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *t
	s.templates[t.ID] = &cp
	return nil
}

func (s *InMemory) GetTemplate(_ context.Context, id string) (*models.NotificationTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *InMemory) ListTemplates(_ context.Context, filter TemplateFilter) ([]*models.NotificationTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.NotificationTemplate
	for _, t := range s.templates {
		if filter.OrganizationID != "" && t.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Channel != "" && t.Channel != filter.Channel {
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
