// Package engine holds the pure analysis functions of the LLM observability
// module: risk detectors over prompt/response pairs and quality scoring.
//
// The detectors are keyword and pattern heuristics. They are deterministic
// and side-effect free so they can be unit tested against fixed texts.
package engine

import (
	"fmt"
	"regexp"
	"strings"

	"zenthera/internal/llmobs/models"
)

var (
	dateRe       = regexp.MustCompile(`\b\d{4}\b|\b\d{1,2}/\d{1,2}/\d{4}\b`)
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe      = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	creditCardRe = regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)
	ssnRe        = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

// RiskResult is the outcome of one detector run.
type RiskResult struct {
	RiskType   models.RiskType `json:"risk_type"`
	RiskScore  float64         `json:"risk_score"`
	Confidence float64         `json:"confidence"`
	Indicators []string        `json:"indicators"`
	Evidence   map[string]any  `json:"evidence"`
}

// DetectHallucination flags overconfident phrasing, uncontextualized dates
// and simple internal contradictions.
func DetectHallucination(prompt, response string) RiskResult {
	lower := strings.ToLower(response)
	var indicators []string
	confidence := 0.0

	confidenceWords := 0
	for _, w := range strings.Fields(lower) {
		switch w {
		case "definitely", "certainly", "absolutely":
			confidenceWords++
		}
	}
	if strings.Contains(lower, "definitely") || strings.Contains(lower, "certainly") || strings.Contains(lower, "absolutely") {
		indicators = append(indicators, "Overconfident statements without verification")
		confidence += 0.3
	}

	dates := dateRe.FindAllString(response, -1)
	if len(dates) > 0 {
		indicators = append(indicators, "Specific dates mentioned without context")
		confidence += 0.2
	}

	if len(strings.Split(response, ".")) > 2 &&
		strings.Contains(response, "not") && strings.Contains(response, "is") {
		indicators = append(indicators, "Potential internal contradictions")
		confidence += 0.1
	}

	return RiskResult{
		RiskType:   models.RiskHallucination,
		RiskScore:  min(confidence, 1.0),
		Confidence: confidence,
		Indicators: indicators,
		Evidence: map[string]any{
			"response_length":  len(response),
			"confidence_words": confidenceWords,
			"dates_mentioned":  dates,
		},
	}
}

var genderBiasedPhrases = []string{
	"he should", "she should", "men are", "women are", "boys are", "girls are",
}

var stereotypeWords = []string{"all", "always", "never", "typical", "usually"}

// DetectBias flags gendered prescriptions and heavy generalizing language.
func DetectBias(prompt, response string) RiskResult {
	lower := strings.ToLower(response)
	var indicators []string
	confidence := 0.0

	for _, phrase := range genderBiasedPhrases {
		if strings.Contains(lower, phrase) {
			indicators = append(indicators, fmt.Sprintf("Potential gender bias: %q", phrase))
			confidence += 0.2
		}
	}

	stereotypeCount := 0
	for _, w := range stereotypeWords {
		if strings.Contains(lower, w) {
			stereotypeCount++
		}
	}
	if stereotypeCount > 2 {
		indicators = append(indicators, "High use of generalizing language")
		confidence += 0.1 * float64(stereotypeCount)
	}

	return RiskResult{
		RiskType:   models.RiskBias,
		RiskScore:  min(confidence, 1.0),
		Confidence: confidence,
		Indicators: indicators,
		Evidence: map[string]any{
			"stereotype_words": stereotypeCount,
			"response_length":  len(response),
		},
	}
}

var toxicWords = []string{
	"hate", "stupid", "idiot", "kill", "die", "murder", "violence",
	"racist", "sexist", "discrimination", "harassment",
}

var aggressivePhrases = []string{"you are", "you're so", "shut up", "go away"}

// DetectToxicity flags toxic vocabulary and aggressive tone.
func DetectToxicity(prompt, response string) RiskResult {
	lower := strings.ToLower(response)
	var indicators []string
	var found []string
	confidence := 0.0

	for _, w := range toxicWords {
		if strings.Contains(lower, w) {
			found = append(found, w)
			indicators = append(indicators, fmt.Sprintf("Toxic language detected: %q", w))
			confidence += 0.3
		}
	}
	for _, phrase := range aggressivePhrases {
		if strings.Contains(lower, phrase) {
			indicators = append(indicators, fmt.Sprintf("Aggressive tone: %q", phrase))
			confidence += 0.2
		}
	}

	return RiskResult{
		RiskType:   models.RiskToxicity,
		RiskScore:  min(confidence, 1.0),
		Confidence: confidence,
		Indicators: indicators,
		Evidence: map[string]any{
			"toxic_word_count": len(found),
			"toxic_words":      found,
			"response_length":  len(response),
		},
	}
}

// DetectPrivacyLeak flags emails, phone numbers, credit card numbers and
// SSNs appearing in the response text.
func DetectPrivacyLeak(prompt, response string) RiskResult {
	var indicators []string
	var leakedTypes []string
	confidence := 0.0

	emails := emailRe.FindAllString(response, -1)
	if len(emails) > 0 {
		indicators = append(indicators, fmt.Sprintf("Email addresses detected: %d", len(emails)))
		leakedTypes = append(leakedTypes, "email")
		confidence += 0.4
	}
	phones := phoneRe.FindAllString(response, -1)
	if len(phones) > 0 {
		indicators = append(indicators, fmt.Sprintf("Phone numbers detected: %d", len(phones)))
		leakedTypes = append(leakedTypes, "phone")
		confidence += 0.4
	}
	cards := creditCardRe.FindAllString(response, -1)
	if len(cards) > 0 {
		indicators = append(indicators, fmt.Sprintf("Credit card patterns detected: %d", len(cards)))
		leakedTypes = append(leakedTypes, "credit_card")
		confidence += 0.6
	}
	ssns := ssnRe.FindAllString(response, -1)
	if len(ssns) > 0 {
		indicators = append(indicators, fmt.Sprintf("SSN patterns detected: %d", len(ssns)))
		leakedTypes = append(leakedTypes, "ssn")
		confidence += 0.8
	}

	return RiskResult{
		RiskType:   models.RiskPrivacyLeak,
		RiskScore:  min(confidence, 1.0),
		Confidence: confidence,
		Indicators: indicators,
		Evidence: map[string]any{
			"leaked_data_types":  leakedTypes,
			"emails_found":       emails,
			"phones_found":       phones,
			"credit_cards_found": len(cards),
			"ssns_found":         len(ssns),
		},
	}
}

// DetectAll runs every detector over the pair, in reporting order.
func DetectAll(prompt, response string) []RiskResult {
	return []RiskResult{
		DetectHallucination(prompt, response),
		DetectBias(prompt, response),
		DetectToxicity(prompt, response),
		DetectPrivacyLeak(prompt, response),
	}
}
