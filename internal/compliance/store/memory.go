// Package store provides the in-memory persistence for compliance scores,
// alerts and reports.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"zenthera/internal/compliance/models"
	"zenthera/pkg/platform/sentinel"
)

// AlertFilter narrows ListAlerts results. Zero values match everything.
type AlertFilter struct {
	OrganizationID string
	Status         models.AlertStatus
	Severity       models.Severity
	Limit          int
}

// ReportFilter narrows ListReports results.
type ReportFilter struct {
	OrganizationID string
	ReportType     string
	Limit          int
}

// InMemory holds all compliance aggregates behind one RWMutex. Records are
// never deleted; updates mutate in place under the lock.
type InMemory struct {
	mu      sync.RWMutex
	scores  []*models.Score
	alerts  []*models.Alert
	reports []*models.Report
}

// NewInMemory creates an empty in-memory compliance store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// CreateScore appends a score record.
func (s *InMemory) CreateScore(ctx context.Context, score *models.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, score)
	return nil
}

// LatestScore returns the most recently updated score for an organization.
func (s *InMemory) LatestScore(ctx context.Context, orgID string) (*models.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Score
	for _, sc := range s.scores {
		if sc.OrganizationID != orgID {
			continue
		}
		if latest == nil || sc.UpdatedAt.After(latest.UpdatedAt) {
			latest = sc
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// ScoresSince returns an organization's scores created in [since, until],
// oldest first.
func (s *InMemory) ScoresSince(ctx context.Context, orgID string, since, until time.Time) ([]*models.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Score
	for _, sc := range s.scores {
		if sc.OrganizationID != orgID {
			continue
		}
		if sc.CreatedAt.Before(since) || sc.CreatedAt.After(until) {
			continue
		}
		cp := *sc
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// CreateAlert appends an alert record.
func (s *InMemory) CreateAlert(ctx context.Context, alert *models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return nil
}

// ListAlerts returns alerts matching the filter, newest first.
func (s *InMemory) ListAlerts(ctx context.Context, filter AlertFilter) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Alert
	for _, a := range s.alerts {
		if filter.OrganizationID != "" && a.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// AlertsBetween returns an organization's alerts created in [since, until].
func (s *InMemory) AlertsBetween(ctx context.Context, orgID string, since, until time.Time) ([]*models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Alert
	for _, a := range s.alerts {
		if a.OrganizationID != orgID {
			continue
		}
		if a.CreatedAt.Before(since) || a.CreatedAt.After(until) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// UpdateAlert applies mutate to the stored alert under the write lock.
// Validation inside mutate runs against current state.
func (s *InMemory) UpdateAlert(ctx context.Context, id string, mutate func(*models.Alert) error) (*models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.alerts {
		if a.ID != id {
			continue
		}
		if err := mutate(a); err != nil {
			return nil, err
		}
		cp := *a
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// CreateReport appends a report record.
func (s *InMemory) CreateReport(ctx context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// ListReports returns reports matching the filter, newest first.
func (s *InMemory) ListReports(ctx context.Context, filter ReportFilter) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Report
	for _, r := range s.reports {
		if filter.OrganizationID != "" && r.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.ReportType != "" && r.ReportType != filter.ReportType {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
