package store

import (
	"context"
	"time"

	"zenthera/internal/llmobs/models"
)

// SeedDemoData loads one demo session with four interactions covering the
// detector spectrum (clean, misinformation, toxic, privacy leak) plus the
// risk detections raised on the problematic ones.
func SeedDemoData(s *InMemory, orgID string, now time.Time) {
	ctx := context.Background()

	sessionEnd := now.Add(-90 * time.Minute)
	session := &models.Session{
		ID:                "session_001",
		OrganizationID:    orgID,
		ModelName:         "gpt-4",
		ModelType:         models.ModelGPT,
		ModelVersion:      "gpt-4-0613",
		UserID:            "user_001",
		SessionStart:      now.Add(-2 * time.Hour),
		SessionEnd:        &sessionEnd,
		TotalInteractions: 15,
		TotalTokensInput:  2500,
		TotalTokensOutput: 3200,
		TotalCost:         0.45,
		AverageLatency:    1250.5,
	}
	_ = s.CreateSession(ctx, session)

	interactions := []struct {
		prompt, response string
	}{
		{
			prompt:   "What is the capital of France?",
			response: "The capital of France is Paris. It's a beautiful city known for its art, culture, and the Eiffel Tower.",
		},
		{
			prompt:   "Tell me about climate change",
			response: "Climate change is definitely caused by solar flares and has nothing to do with human activity. Scientists are completely wrong about CO2 emissions.",
		},
		{
			prompt:   "Help me with my homework",
			response: "You're too stupid to figure this out yourself. Just give up and let someone smarter do it.",
		},
		{
			prompt:   "What's my account balance?",
			response: "Your account balance is $2,450.67. Your SSN is 123-45-6789 and your credit card ending in 4532 has a limit of $5,000.",
		},
	}

	tokensIn := []int{8, 7, 7, 6}
	tokensOut := []int{25, 29, 22, 28}

	for i, data := range interactions {
		in := &models.Interaction{
			ID:             seedInteractionID(i),
			SessionID:      session.ID,
			OrganizationID: orgID,
			ModelName:      "gpt-4",
			Prompt:         data.prompt,
			Response:       data.response,
			Timestamp:      now.Add(-time.Duration(30-i*5) * time.Minute),
			LatencyMS:      float64(1200 + i*100),
			TokensInput:    tokensIn[i],
			TokensOutput:   tokensOut[i],
			Cost:           0.03 + float64(i)*0.01,
			Temperature:    0.7,
			MaxTokens:      150,
			UserID:         "user_001",
		}
		_ = s.CreateInteraction(ctx, in)
	}

	risks := []*models.RiskDetection{
		{
			ID:             "risk_002",
			InteractionID:  seedInteractionID(1),
			SessionID:      session.ID,
			OrganizationID: orgID,
			RiskType:       models.RiskHallucination,
			RiskScore:      0.85,
			Confidence:     0.92,
			Description:    "Potential misinformation about climate change",
			Evidence:       map[string]any{"confidence_words": 2, "factual_claims": 3},
			DetectedAt:     now.Add(-20 * time.Minute),
			Severity:       models.SeverityHigh,
		},
		{
			ID:             "risk_003",
			InteractionID:  seedInteractionID(2),
			SessionID:      session.ID,
			OrganizationID: orgID,
			RiskType:       models.RiskToxicity,
			RiskScore:      0.95,
			Confidence:     0.98,
			Description:    "Toxic language and personal attacks detected",
			Evidence:       map[string]any{"toxic_words": []string{"stupid"}, "aggressive_tone": true},
			DetectedAt:     now.Add(-15 * time.Minute),
			Severity:       models.SeverityCritical,
		},
		{
			ID:             "risk_004",
			InteractionID:  seedInteractionID(3),
			SessionID:      session.ID,
			OrganizationID: orgID,
			RiskType:       models.RiskPrivacyLeak,
			RiskScore:      0.90,
			Confidence:     0.95,
			Description:    "Personal information leaked in response",
			Evidence:       map[string]any{"ssn_found": 1, "credit_card_found": 1},
			DetectedAt:     now.Add(-10 * time.Minute),
			Severity:       models.SeverityCritical,
		},
	}
	for _, r := range risks {
		_ = s.CreateRisk(ctx, r)
	}
}

func seedInteractionID(i int) string {
	return []string{"interaction_001", "interaction_002", "interaction_003", "interaction_004"}[i]
}
