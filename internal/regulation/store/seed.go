package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"zenthera/internal/regulation/models"
)

// SeedReferenceData loads the reference regulations and templates the demo
// ships with: the AI Act, the GDPR and an AI Act assessment template.
func SeedReferenceData(s *InMemory, now time.Time) {
	ctx := context.Background()

	aiAct := &models.Regulation{
		ID:             uuid.NewString(),
		Title:          "Regulation (EU) 2024/1689 - Artificial Intelligence Act",
		RegulationType: "ai_act",
		Source:         "eur_lex",
		Version:        "2024.1",
		EffectiveDate:  time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
		Content:        "The AI Act establishes harmonized rules for artificial intelligence...",
		URL:            "https://eur-lex.europa.eu/eli/reg/2024/1689/oj",
		Jurisdiction:   "EU",
		Status:         "active",
		ImpactLevel:    models.ImpactCritical,
		Keywords:       []string{"artificial intelligence", "high-risk AI", "prohibited practices", "transparency"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_ = s.CreateRegulation(ctx, aiAct)

	gdpr := &models.Regulation{
		ID:             uuid.NewString(),
		Title:          "General Data Protection Regulation (GDPR)",
		RegulationType: "gdpr",
		Source:         "eur_lex",
		Version:        "2016.679",
		EffectiveDate:  time.Date(2018, 5, 25, 0, 0, 0, 0, time.UTC),
		Content:        "This Regulation lays down rules relating to the protection of natural persons...",
		URL:            "https://eur-lex.europa.eu/eli/reg/2016/679/oj",
		Jurisdiction:   "EU",
		Status:         "active",
		ImpactLevel:    models.ImpactHigh,
		Keywords:       []string{"personal data", "data protection", "consent", "privacy"},
		CreatedAt:      now.Add(time.Millisecond),
		UpdatedAt:      now.Add(time.Millisecond),
	}
	_ = s.CreateRegulation(ctx, gdpr)

	assessment := &models.Template{
		ID:             uuid.NewString(),
		Name:           "AI Act High-Risk System Assessment",
		RegulationType: "ai_act",
		TemplateType:   "assessment",
		Description:    "Comprehensive assessment template for AI systems under the EU AI Act",
		Version:        "1.0",
		Author:         "ZenThera AI Ethics Platform",
		Tags:           []string{"ai_act", "risk_assessment", "high_risk", "compliance"},
		IsActive:       true,
		RequiredFields: []string{"system_name", "intended_purpose", "prohibited_practices", "training_data", "risk_assessment"},
		Sections: []models.TemplateSection{
			{
				Title: "System Classification",
				Fields: []models.TemplateField{
					{Name: "system_name", Type: "text", Required: true},
					{Name: "intended_purpose", Type: "textarea", Required: true},
					{Name: "risk_category", Type: "select", Options: []string{"High-risk", "Limited risk", "Minimal risk"}},
					{Name: "prohibited_practices", Type: "checkbox", Required: true},
				},
			},
			{
				Title: "Technical Documentation",
				Fields: []models.TemplateField{
					{Name: "training_data", Type: "textarea", Required: true},
					{Name: "model_architecture", Type: "textarea", Required: true},
					{Name: "performance_metrics", Type: "textarea", Required: true},
				},
			},
			{
				Title: "Risk Management",
				Fields: []models.TemplateField{
					{Name: "risk_assessment", Type: "textarea", Required: true},
					{Name: "mitigation_measures", Type: "textarea", Required: true},
					{Name: "monitoring_plan", Type: "textarea", Required: true},
				},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = s.CreateTemplate(ctx, assessment)
}
