package store

import (
	"context"
	"time"

	"zenthera/internal/narrative/models"
)

// SeedDemoData loads one demo replay of the privacy-leak support session with
// its event timeline, the executive explanation of the leak, a failing
// ethical assessment and the resulting incident audit.
func SeedDemoData(s *InMemory, orgID string, now time.Time) {
	ctx := context.Background()

	sessionStart := now.Add(-2 * time.Hour)
	replay := &models.SessionReplay{
		ID:                   "replay_001",
		SessionID:            "session_001",
		OrganizationID:       orgID,
		CreatedAt:            now.Add(-time.Hour),
		CreatedBy:            "user_001",
		ReplayName:           "Customer Support Session - Privacy Concern",
		Description:          "Replay of session where privacy leak occurred",
		SessionStart:         sessionStart,
		SessionEnd:           now.Add(-90 * time.Minute),
		TotalEvents:          8,
		TotalDurationSeconds: 1800,
		Participants:         []string{"user_001", "system"},
		ModelsUsed:           []string{"gpt-4"},
		Tags:                 []string{"privacy", "customer-support", "high-risk"},
	}
	_ = s.CreateReplay(ctx, replay)

	events := []struct {
		eventType models.ReplayEventType
		actorType string
		data      map[string]any
	}{
		{
			eventType: models.EventUserInput,
			actorType: "user",
			data:      map[string]any{"prompt": "What's my account balance?"},
		},
		{
			eventType: models.EventModelResponse,
			actorType: "model",
			data: map[string]any{
				"response":   "Your account balance is $2,450.67. Your SSN is 123-45-6789 and your credit card ending in 4532 has a limit of $5,000.",
				"latency_ms": 1500,
			},
		},
		{
			eventType: models.EventRiskDetection,
			actorType: "system",
			data: map[string]any{
				"risk_type":    "privacy_leak",
				"risk_score":   0.95,
				"detected_pii": []string{"ssn", "credit_card"},
			},
		},
		{
			eventType: models.EventSystemIntervention,
			actorType: "system",
			data:      map[string]any{"action": "response_blocked"},
		},
		{
			eventType: models.EventHumanReview,
			actorType: "human_reviewer",
			data:      map[string]any{"outcome": "confirmed_violation"},
		},
	}

	for i, e := range events {
		event := &models.ReplayEvent{
			ID:             seedEventID(i),
			ReplayID:       replay.ID,
			SessionID:      replay.SessionID,
			OrganizationID: orgID,
			EventType:      e.eventType,
			Timestamp:      sessionStart.Add(time.Duration(i*5) * time.Minute),
			SequenceNumber: i + 1,
			EventData:      e.data,
			ActorID:        seedActorID(i),
			ActorType:      e.actorType,
			DurationMS:     float64(2000 + i*500),
		}
		if i < 2 {
			event.RelatedInteractionID = seedInteractionID(i)
		}
		_ = s.CreateEvent(ctx, event)
	}

	explanation := &models.NarrativeExplanation{
		ID:               "explanation_001",
		OrganizationID:   orgID,
		ExplanationType:  models.ExplanationRisk,
		TargetEntityID:   "risk_004",
		TargetEntityType: "risk",
		NarrativeStyle:   models.StyleExecutive,
		Title:            "Privacy Leak Detection: Executive Summary",
		Summary:          "AI system exposed customer SSN and credit card details during a balance inquiry",
		DetailedExplanation: "During a routine account balance inquiry, the AI model included the customer's " +
			"Social Security Number and credit card details in its response. The privacy detection engine " +
			"flagged the response with a 0.95 risk score and the delivery was blocked before reaching the user.",
		KeyFactors: []string{
			"Customer data present in model context",
			"No output redaction applied",
			"Automated detection triggered response block",
		},
		EvidencePoints: []map[string]any{
			{"type": "ssn_exposure", "value": "123-45-6789", "location": "response_body"},
			{"type": "credit_card_exposure", "value": "ending in 4532", "location": "response_body"},
		},
		ConfidenceLevel:  0.98,
		GeneratedAt:      now.Add(-30 * time.Minute),
		GeneratedBy:      "system",
		GenerationMethod: "automated",
		IsApproved:       true,
	}
	_ = s.CreateExplanation(ctx, explanation)

	alignment := &models.EthicalAlignment{
		ID:                    "alignment_001",
		OrganizationID:        orgID,
		TargetEntityID:        "interaction_004",
		TargetEntityType:      "interaction",
		AssessmentTimestamp:   now.Add(-25 * time.Minute),
		AssessorID:            "system",
		OverallAlignmentScore: 0.23,
		CategoryScores: map[models.AlignmentCategory]float64{
			models.CategoryBeneficence:    0.6,
			models.CategoryNonMaleficence: 0.1,
			models.CategoryAutonomy:       0.7,
			models.CategoryJustice:        0.5,
			models.CategoryTransparency:   0.3,
			models.CategoryAccountability: 0.2,
			models.CategoryPrivacy:        0.0,
			models.CategoryHumanDignity:   0.4,
		},
		AlignmentAnalysis: "Poor ethical alignment. Significant improvements needed across multiple categories.",
		Strengths:         []string{},
		Concerns: []string{
			"Low non maleficence score (0.10)",
			"Low transparency score (0.30)",
			"Low accountability score (0.20)",
			"Low privacy score (0.00)",
			"Low human dignity score (0.40)",
		},
		Recommendations: []string{
			"Improve non maleficence practices",
			"Improve transparency practices",
			"Improve accountability practices",
			"Improve privacy practices",
			"Improve human dignity practices",
		},
		ComplianceNotes:     "GDPR Article 32 violation - inadequate security measures",
		RequiresHumanReview: true,
		ReviewPriority:      "critical",
	}
	_ = s.CreateAlignment(ctx, alignment)

	followUp := now.Add(7 * 24 * time.Hour)
	audit := &models.AuditTrail{
		ID:               "audit_001",
		OrganizationID:   orgID,
		AuditType:        "privacy_incident",
		TargetEntityID:   "session_001",
		TargetEntityType: "session",
		AuditTimestamp:   now.Add(-15 * time.Minute),
		AuditorID:        "auditor_001",
		AuditScope:       []string{"data_handling", "output_filtering", "incident_response"},
		Findings: []models.AuditFinding{
			{
				FindingID:   "F001",
				Category:    "data_protection",
				Severity:    "critical",
				Description: "Customer PII exposed in model output without redaction",
				Evidence:    "SSN 123-45-6789 present in response to balance inquiry",
			},
			{
				FindingID:   "F002",
				Category:    "access_control",
				Severity:    "high",
				Description: "Model context contained unredacted customer records",
				Evidence:    "Credit card details available to generation pipeline",
			},
		},
		ComplianceStatus: "non_compliant",
		RiskLevel:        "critical",
		Recommendations: []string{
			"Deploy output PII redaction before response delivery",
			"Strip sensitive fields from model context",
			"Notify affected customer per breach policy",
			"Schedule follow-up audit of data handling controls",
		},
		ActionItems: []models.ActionItem{
			{
				ItemID:      "A001",
				Description: "Enable PII redaction filter on all customer-facing models",
				AssignedTo:  "platform_team",
				DueDate:     now.Add(3 * 24 * time.Hour).Format("2006-01-02"),
				Priority:    "critical",
				Status:      "pending",
			},
			{
				ItemID:      "A002",
				Description: "Complete breach notification and customer remediation",
				AssignedTo:  "compliance_team",
				DueDate:     now.Add(7 * 24 * time.Hour).Format("2006-01-02"),
				Priority:    "high",
				Status:      "pending",
			},
		},
		FollowUpRequired: true,
		FollowUpDate:     &followUp,
		AuditReport:      "Privacy incident audit of session_001: customer PII reached the model output layer unredacted. Containment worked, prevention did not.",
	}
	_ = s.CreateAudit(ctx, audit)

	template := &models.ExplanationTemplate{
		ID:              "template_001",
		OrganizationID:  orgID,
		TemplateName:    "Executive Risk Briefing",
		ExplanationType: models.ExplanationRisk,
		NarrativeStyle:  models.StyleExecutive,
		TemplateContent: "Risk Alert: {risk_type} detected with {confidence} confidence. Recommended review within {timeline}.",
		Variables:       []string{"risk_type", "confidence", "timeline"},
		UsageContext:    "Management notifications for high-severity detections",
		CreatedBy:       "admin_001",
		CreatedAt:       now.Add(-30 * 24 * time.Hour),
		LastModified:    now.Add(-7 * 24 * time.Hour),
		IsActive:        true,
		UsageCount:      15,
	}
	_ = s.CreateTemplate(ctx, template)
}

func seedEventID(i int) string {
	return []string{"event_001", "event_002", "event_003", "event_004", "event_005"}[i]
}

func seedActorID(i int) string {
	return []string{"actor_1", "actor_2", "actor_3", "actor_4", "actor_5"}[i]
}

func seedInteractionID(i int) string {
	return []string{"interaction_001", "interaction_002"}[i]
}
