package engine

import (
	"strings"

	"zenthera/internal/llmobs/models"
)

// Fixed baselines for metrics that need external services to score properly.
const (
	factualityBaseline = 0.8
	creativityBaseline = 0.7
)

var (
	directAnswerWords = []string{"answer", "solution", "result", "conclusion"}
	transitionWords   = []string{"however", "therefore", "furthermore", "additionally", "consequently", "meanwhile"}
	logicalConnectors = []string{"because", "since", "as a result", "due to", "leads to", "causes"}
	questionWords     = []string{"what", "how", "why", "when", "where", "who"}
)

// AssessRelevance scores word overlap between prompt and response, with a
// boost when the response addresses the prompt directly.
func AssessRelevance(prompt, response string) float64 {
	promptWords := wordSet(prompt)
	if len(promptWords) == 0 {
		return 0.0
	}
	responseWords := wordSet(response)

	overlap := 0
	for w := range promptWords {
		if _, ok := responseWords[w]; ok {
			overlap++
		}
	}
	score := min(float64(overlap)/float64(len(promptWords)), 1.0)

	lower := strings.ToLower(response)
	for _, w := range directAnswerWords {
		if strings.Contains(lower, w) {
			score = min(score+0.2, 1.0)
			break
		}
	}
	return score
}

// AssessCoherence scores logical flow from transition words and connectors.
func AssessCoherence(response string) float64 {
	sentences := strings.Split(response, ".")
	if len(sentences) < 2 {
		return 0.5
	}

	transitions, connectors := 0, 0
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		for _, w := range transitionWords {
			if strings.Contains(lower, w) {
				transitions++
			}
		}
		for _, w := range logicalConnectors {
			if strings.Contains(lower, w) {
				connectors++
			}
		}
	}

	score := 0.5
	score += min(float64(transitions)*0.1, 0.3)
	score += min(float64(connectors)*0.1, 0.2)
	return min(score, 1.0)
}

// AssessCompleteness scores whether a response covers the question asked.
// Non-questions are assumed complete; questions are scored by length.
func AssessCompleteness(prompt, response string) float64 {
	lower := strings.ToLower(prompt)
	questions := 0
	for _, w := range questionWords {
		if strings.Contains(lower, w) {
			questions++
		}
	}
	if questions == 0 {
		return 0.8
	}

	switch length := len(strings.Fields(response)); {
	case length < 10:
		return 0.3
	case length < 50:
		return 0.6
	default:
		return 0.9
	}
}

// AssessClarity averages a sentence-length score and a vocabulary
// complexity score.
func AssessClarity(response string) float64 {
	words := strings.Fields(response)
	sentences := strings.Split(response, ".")
	if len(words) == 0 || len(sentences) == 0 {
		return 0.0
	}

	avgSentenceLength := float64(len(words)) / float64(len(sentences))
	var lengthScore float64
	switch {
	case avgSentenceLength >= 10 && avgSentenceLength <= 25:
		lengthScore = 1.0
	case (avgSentenceLength >= 5 && avgSentenceLength < 10) ||
		(avgSentenceLength > 25 && avgSentenceLength <= 35):
		lengthScore = 0.7
	default:
		lengthScore = 0.4
	}

	complexWords := 0
	for _, w := range words {
		if len(w) > 8 {
			complexWords++
		}
	}
	complexityRatio := float64(complexWords) / float64(len(words))
	complexityScore := 1.0 - min(complexityRatio*2, 0.5)

	return (lengthScore + complexityScore) / 2
}

// AssessQuality runs the automated quality metrics over one interaction and
// returns the per-metric scores plus their mean.
func AssessQuality(prompt, response string) (map[models.QualityMetric]float64, float64) {
	scores := map[models.QualityMetric]float64{
		models.MetricRelevance:    AssessRelevance(prompt, response),
		models.MetricCoherence:    AssessCoherence(response),
		models.MetricCompleteness: AssessCompleteness(prompt, response),
		models.MetricClarity:      AssessClarity(response),
		models.MetricFactuality:   factualityBaseline,
		models.MetricCreativity:   creativityBaseline,
	}

	total := 0.0
	for _, v := range scores {
		total += v
	}
	return scores, total / float64(len(scores))
}

func wordSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}
