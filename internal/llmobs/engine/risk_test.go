package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHallucination(t *testing.T) {
	t.Run("clean factual response", func(t *testing.T) {
		result := DetectHallucination(
			"What is the capital of France?",
			"The capital of France is Paris. It's a beautiful city known for its art, culture, and the Eiffel Tower.",
		)
		assert.Zero(t, result.RiskScore)
		assert.Empty(t, result.Indicators)
	})

	t.Run("overconfident contradiction", func(t *testing.T) {
		result := DetectHallucination(
			"Tell me about climate change",
			"Climate change is definitely caused by solar flares and has nothing to do with human activity. Scientists are completely wrong about CO2 emissions.",
		)
		// Overconfident wording plus the contradiction heuristic.
		assert.InDelta(t, 0.4, result.RiskScore, 0.001)
		assert.Equal(t, 1, result.Evidence["confidence_words"])
		assert.Len(t, result.Indicators, 2)
	})

	t.Run("uncontextualized dates", func(t *testing.T) {
		result := DetectHallucination(
			"When was the company founded?",
			"The company was founded in 1987 and went public on 12/4/1999",
		)
		assert.InDelta(t, 0.2, result.RiskScore, 0.001)
		dates, ok := result.Evidence["dates_mentioned"].([]string)
		require.True(t, ok)
		assert.Contains(t, dates, "1987")
	})
}

func TestDetectBias(t *testing.T) {
	t.Run("neutral response", func(t *testing.T) {
		result := DetectBias("Describe the team", "The team works on data pipelines.")
		assert.Zero(t, result.RiskScore)
	})

	t.Run("gendered generalizations", func(t *testing.T) {
		result := DetectBias(
			"What are people like?",
			"Women are always emotional. Men are never practical. All of them are typical and usually predictable.",
		)
		// "women are" and "men are" phrases plus five generalizing words.
		assert.InDelta(t, 0.9, result.RiskScore, 0.001)
		assert.Equal(t, 5, result.Evidence["stereotype_words"])
	})
}

func TestDetectToxicity(t *testing.T) {
	t.Run("single toxic word", func(t *testing.T) {
		result := DetectToxicity(
			"Help me with my homework",
			"You're too stupid to figure this out yourself. Just give up and let someone smarter do it.",
		)
		assert.InDelta(t, 0.3, result.RiskScore, 0.001)
		assert.Equal(t, 1, result.Evidence["toxic_word_count"])
	})

	t.Run("toxic word with aggressive tone", func(t *testing.T) {
		result := DetectToxicity("Why did it fail?", "You are such an idiot, shut up.")
		// "idiot" plus two aggressive phrases.
		assert.InDelta(t, 0.7, result.RiskScore, 0.001)
	})

	t.Run("risk score caps at one", func(t *testing.T) {
		result := DetectToxicity("", "I hate this stupid idiot, they should die in violence.")
		assert.InDelta(t, 1.0, result.RiskScore, 0.001)
		assert.Greater(t, result.Confidence, 1.0)
	})
}

func TestDetectPrivacyLeak(t *testing.T) {
	t.Run("ssn in response", func(t *testing.T) {
		result := DetectPrivacyLeak(
			"What's my account balance?",
			"Your account balance is $2,450.67. Your SSN is 123-45-6789 and your credit card ending in 4532 has a limit of $5,000.",
		)
		assert.InDelta(t, 0.8, result.RiskScore, 0.001)
		leaked, ok := result.Evidence["leaked_data_types"].([]string)
		require.True(t, ok)
		assert.Equal(t, []string{"ssn"}, leaked)
	})

	t.Run("email and phone", func(t *testing.T) {
		result := DetectPrivacyLeak(
			"How do I reach support?",
			"Contact jane.doe@example.com or call 555-123-4567 directly.",
		)
		assert.InDelta(t, 0.8, result.RiskScore, 0.001)
		assert.Equal(t, 0, result.Evidence["ssns_found"])
	})

	t.Run("clean response", func(t *testing.T) {
		result := DetectPrivacyLeak("What's the weather?", "It is sunny and warm today.")
		assert.Zero(t, result.RiskScore)
	})
}

func TestDetectAllOrder(t *testing.T) {
	results := DetectAll("prompt", "response")
	require.Len(t, results, 4)
	assert.Equal(t, "hallucination", string(results[0].RiskType))
	assert.Equal(t, "privacy_leak", string(results[3].RiskType))
}
