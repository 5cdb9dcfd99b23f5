// Package store provides the in-memory persistence for regulations, alerts,
// templates and monitors.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"zenthera/internal/regulation/models"
	"zenthera/pkg/platform/sentinel"
)

// RegulationFilter narrows ListRegulations results. Search matches title or
// content, case-insensitive.
type RegulationFilter struct {
	Type         string
	Status       string
	Jurisdiction string
	Search       string
}

// AlertFilter narrows ListAlerts results.
type AlertFilter struct {
	Status       models.AlertStatus
	ImpactLevel  models.ImpactLevel
	AlertType    string
	RegulationID string
}

// TemplateFilter narrows ListTemplates results.
type TemplateFilter struct {
	RegulationType string
	TemplateType   string
	ActiveOnly     bool
}

// MonitorFilter narrows ListMonitors results.
type MonitorFilter struct {
	OrganizationID string
	ActiveOnly     bool
}

// InMemory holds all regulation aggregates behind one RWMutex.
type InMemory struct {
	mu          sync.RWMutex
	regulations map[string]*models.Regulation
	alerts      map[string]*models.Alert
	templates   map[string]*models.Template
	monitors    map[string]*models.Monitor
}

// NewInMemory creates an empty in-memory regulation store.
func NewInMemory() *InMemory {
	return &InMemory{
		regulations: make(map[string]*models.Regulation),
		alerts:      make(map[string]*models.Alert),
		templates:   make(map[string]*models.Template),
		monitors:    make(map[string]*models.Monitor),
	}
}

// CreateRegulation stores a regulation.
func (s *InMemory) CreateRegulation(ctx context.Context, reg *models.Regulation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.regulations[reg.ID]; exists {
		return sentinel.ErrConflict
	}
	s.regulations[reg.ID] = reg
	return nil
}

// GetRegulation returns one regulation by ID.
func (s *InMemory) GetRegulation(ctx context.Context, id string) (*models.Regulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.regulations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *reg
	return &cp, nil
}

// FirstRegulationID returns the oldest stored regulation's ID, used by the
// simulated sync to attach its sample alert.
func (s *InMemory) FirstRegulationID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var first *models.Regulation
	for _, reg := range s.regulations {
		if first == nil || reg.CreatedAt.Before(first.CreatedAt) {
			first = reg
		}
	}
	if first == nil {
		return "", sentinel.ErrNotFound
	}
	return first.ID, nil
}

// ListRegulations returns regulations matching the filter, newest first.
func (s *InMemory) ListRegulations(ctx context.Context, filter RegulationFilter) ([]*models.Regulation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var out []*models.Regulation
	for _, reg := range s.regulations {
		if filter.Type != "" && reg.RegulationType != filter.Type {
			continue
		}
		if filter.Status != "" && reg.Status != filter.Status {
			continue
		}
		if filter.Jurisdiction != "" && reg.Jurisdiction != filter.Jurisdiction {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(reg.Title), search) &&
			!strings.Contains(strings.ToLower(reg.Content), search) {
			continue
		}
		cp := *reg
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CountRegulationsByType returns regulation counts keyed by type.
func (s *InMemory) CountRegulationsByType(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, reg := range s.regulations {
		counts[reg.RegulationType]++
	}
	return counts, nil
}

// CreateAlert stores an alert.
func (s *InMemory) CreateAlert(ctx context.Context, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[alert.ID] = alert
	return nil
}

// CountAlerts returns the number of stored alerts regardless of status.
func (s *InMemory) CountAlerts(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts), nil
}

// ListAlerts returns alerts matching the filter, most urgent first
// (ascending priority, then newest).
func (s *InMemory) ListAlerts(ctx context.Context, filter AlertFilter) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Alert
	for _, a := range s.alerts {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.ImpactLevel != "" && a.ImpactLevel != filter.ImpactLevel {
			continue
		}
		if filter.AlertType != "" && a.AlertType != filter.AlertType {
			continue
		}
		if filter.RegulationID != "" && a.RegulationID != filter.RegulationID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AlertsSince returns alerts created at or after the cutoff, newest first.
func (s *InMemory) AlertsSince(ctx context.Context, cutoff time.Time) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Alert
	for _, a := range s.alerts {
		if a.CreatedAt.Before(cutoff) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateAlert applies mutate to the stored alert under the write lock.
func (s *InMemory) UpdateAlert(ctx context.Context, id string, mutate func(*models.Alert) error) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := mutate(a); err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

// CreateTemplate stores a template.
func (s *InMemory) CreateTemplate(ctx context.Context, tpl *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tpl.ID] = tpl
	return nil
}

// GetTemplate returns one template by ID, incrementing its usage counter.
func (s *InMemory) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, ok := s.templates[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	tpl.UsageCount++
	cp := *tpl
	return &cp, nil
}

// PeekTemplate returns one template by ID without touching usage statistics.
func (s *InMemory) PeekTemplate(ctx context.Context, id string) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.templates[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *tpl
	return &cp, nil
}

// ListTemplates returns templates matching the filter, most used first, then
// by name.
func (s *InMemory) ListTemplates(ctx context.Context, filter TemplateFilter) ([]*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Template
	for _, tpl := range s.templates {
		if filter.RegulationType != "" && tpl.RegulationType != filter.RegulationType {
			continue
		}
		if filter.TemplateType != "" && tpl.TemplateType != filter.TemplateType {
			continue
		}
		if filter.ActiveOnly && !tpl.IsActive {
			continue
		}
		cp := *tpl
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageCount != out[j].UsageCount {
			return out[i].UsageCount > out[j].UsageCount
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// CreateMonitor stores a monitor.
func (s *InMemory) CreateMonitor(ctx context.Context, m *models.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitors[m.ID] = m
	return nil
}

// ListMonitors returns monitors matching the filter.
func (s *InMemory) ListMonitors(ctx context.Context, filter MonitorFilter) ([]*models.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Monitor
	for _, m := range s.monitors {
		if filter.OrganizationID != "" && m.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.ActiveOnly && !m.IsActive {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// CountActiveMonitors returns the number of active monitors.
func (s *InMemory) CountActiveMonitors(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.monitors {
		if m.IsActive {
			count++
		}
	}
	return count, nil
}
