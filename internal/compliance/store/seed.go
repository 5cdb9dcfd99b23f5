package store

import (
	"context"
	"time"

	"zenthera/internal/compliance/models"
)

// SeedDemoData populates the store with a short scoring history for the demo
// organization so the dashboard renders a trend out of the box.
func SeedDemoData(s *InMemory, orgID string, now time.Time) {
	ctx := context.Background()

	history := []struct {
		daysAgo                        int
		bias, transparency, logs, energy float64
	}{
		{21, 68.0, 74.5, 81.0, 59.0},
		{14, 71.5, 76.0, 83.5, 61.0},
		{7, 73.0, 79.5, 85.0, 63.5},
		{0, 75.5, 82.0, 88.0, 66.0},
	}

	for _, h := range history {
		at := now.AddDate(0, 0, -h.daysAgo)
		score, err := models.NewScore(orgID, "customer-support-assistant",
			h.bias, h.transparency, h.logs, h.energy, at)
		if err != nil {
			continue
		}
		_ = s.CreateScore(ctx, score)
	}

	alert, err := models.NewAlert(orgID, "customer-support-assistant",
		models.AlertTypeEnergyInefficiency, "High Energy Consumption: 66.0%",
		models.SeverityMedium,
		"Energy score is 66.0%, trending below the organization target of 70%.",
		now.Add(-2*time.Hour))
	if err == nil {
		_ = s.CreateAlert(ctx, alert)
	}
}
