package engine

import (
	"fmt"
	"sort"
	"strings"

	"zenthera/internal/narrative/models"
)

// RiskContext carries the risk data a risk explanation is generated from.
type RiskContext struct {
	RiskType   string         `json:"risk_type"`
	RiskScore  float64        `json:"risk_score"`
	Confidence float64        `json:"confidence"`
	Evidence   map[string]any `json:"evidence"`
}

// AlignmentContext carries the assessment data an ethical analysis is
// generated from.
type AlignmentContext struct {
	OverallScore   float64                              `json:"overall_alignment_score"`
	CategoryScores map[models.AlignmentCategory]float64 `json:"category_scores"`
	Strengths      []string                             `json:"strengths"`
	Concerns       []string                             `json:"concerns"`
}

// GenerateDecisionExplanation writes the decision-process narrative for an
// interaction in the requested style. Unknown styles fall back to the
// regulatory register.
func GenerateDecisionExplanation(in InteractionContext, style models.NarrativeStyle) string {
	topic := extractTopic(in.Prompt)
	promptWords := len(strings.Fields(in.Prompt))
	responseWords := len(strings.Fields(in.Response))
	modelName := in.ModelName
	if modelName == "" {
		modelName = "AI Model"
	}

	switch style {
	case models.StyleTechnical:
		return strings.TrimSpace(fmt.Sprintf(`
**Technical Decision Analysis for %s**

**Input Processing:**
The model received a prompt of %d words requesting information about %s. The input was processed through the model's attention mechanisms, with key tokens being weighted based on semantic relevance.

**Response Generation:**
The model generated a %d-word response in %.0fms, utilizing its trained parameters to construct a contextually appropriate answer. The generation process involved:

1. **Context Understanding**: Analysis of the prompt's intent and required information type
2. **Knowledge Retrieval**: Accessing relevant information from training data
3. **Response Synthesis**: Constructing a coherent response that addresses the query
4. **Quality Assurance**: Internal consistency checks and relevance validation

**Decision Factors:**
- Prompt clarity and specificity
- Available knowledge in training data
- Response length optimization
- Contextual appropriateness`,
			modelName, promptWords, topic, responseWords, in.LatencyMS))

	case models.StyleExecutive:
		return strings.TrimSpace(fmt.Sprintf(`
**Executive Summary: AI Decision Process**

**Situation:** User requested information about %s

**Action:** %s processed the request and provided a comprehensive response in %.1f seconds

**Result:** Generated %d-word response addressing the user's query

**Business Impact:**
- Fast response time ensures good user experience
- Comprehensive answer demonstrates model capability
- Automated handling reduces operational costs

**Key Metrics:**
- Response Time: %.0fms
- Content Quality: High relevance to user query
- Efficiency: Automated processing without human intervention`,
			topic, modelName, in.LatencyMS/1000, responseWords, in.LatencyMS))

	case models.StyleUserFriendly:
		return strings.TrimSpace(fmt.Sprintf(`
**How Your AI Assistant Made This Decision**

When you asked about %s, here's what happened behind the scenes:

**Understanding Your Question:**
Your AI assistant carefully read your question and identified that you were looking for information about %s. It analyzed the key words and context to understand exactly what you needed.

**Finding the Right Information:**
The AI searched through its knowledge base to find the most relevant and accurate information to answer your question. It considered multiple sources and perspectives to give you a well-rounded response.

**Crafting the Response:**
Your assistant then organized the information in a clear, helpful way, making sure to address your specific question while providing useful context and details.

**Quality Check:**
Before responding, the AI performed a quick quality check to ensure the answer was relevant, accurate, and helpful for your needs.

The whole process took just %.1f seconds, allowing you to get the information you needed quickly and efficiently.`,
			topic, topic, in.LatencyMS/1000))

	default:
		return strings.TrimSpace(fmt.Sprintf(`
**Regulatory Compliance Analysis: AI Decision Process**

**Process Documentation:**
This analysis documents the decision-making process of %s for regulatory compliance and audit purposes.

**Input Validation:**
- Prompt content reviewed for compliance with usage policies
- No sensitive or prohibited content detected
- Input classified as standard information request

**Processing Methodology:**
- Standard transformer-based language model processing
- No special handling or exceptions required
- Processing time: %.0fms (within acceptable performance parameters)

**Output Validation:**
- Response content reviewed for accuracy and appropriateness
- No regulatory concerns identified
- Output meets quality and safety standards

**Compliance Notes:**
- Process follows established AI governance protocols
- All interactions logged for audit purposes
- No human intervention required for this standard request

**Audit Trail:**
- Timestamp: %s
- Model Version: %s
- Processing Duration: %.0fms
- Compliance Status: Approved`,
			modelName, in.LatencyMS, orNA(in.Timestamp), modelName, in.LatencyMS))
	}
}

// GenerateRiskExplanation writes the narrative for a detected risk in the
// requested style. Unknown styles fall back to the user-friendly register.
func GenerateRiskExplanation(risk RiskContext, style models.NarrativeStyle) string {
	riskType := risk.RiskType
	if riskType == "" {
		riskType = "unknown"
	}
	riskName := titleCase(strings.ReplaceAll(riskType, "_", " "))

	switch style {
	case models.StyleTechnical:
		return strings.TrimSpace(fmt.Sprintf(`
**Risk Detection Analysis: %s**

**Detection Summary:**
Our risk detection algorithm identified a %s risk with a score of %.2f (confidence: %.2f). This indicates a %s level concern that requires attention.

**Technical Details:**
- **Algorithm Used**: %s Detection Engine v2.0
- **Risk Score**: %.3f (0.0 = no risk, 1.0 = maximum risk)
- **Confidence Level**: %.3f (algorithm certainty in detection)
- **Detection Method**: Pattern matching and semantic analysis

**Evidence Analysis:**
%s

**Recommended Actions:**
1. Review the flagged content for accuracy of detection
2. Implement appropriate mitigation measures if confirmed
3. Update training data to prevent similar occurrences
4. Monitor for patterns in similar interactions`,
			riskName, riskType, risk.RiskScore, risk.Confidence,
			RiskSeverityText(risk.RiskScore), riskName,
			risk.RiskScore, risk.Confidence, formatEvidence(risk.Evidence)))

	case models.StyleExecutive:
		return strings.TrimSpace(fmt.Sprintf(`
**Risk Alert: %s Detected**

**Executive Summary:**
Our AI monitoring system has detected a potential %s issue that requires management attention.

**Risk Level:** %s
**Confidence:** %.0f%% certain

**Business Impact:**
- Potential compliance or reputation risk
- May require immediate review and action
- Could affect user trust and satisfaction

**Immediate Actions Required:**
1. Assign responsible team member for review
2. Implement temporary safeguards if necessary
3. Investigate root cause and prevention measures
4. Update risk management protocols as needed

**Timeline:** Recommend review within %s`,
			riskName, riskType, titleCase(RiskSeverityText(risk.RiskScore)),
			risk.Confidence*100, ReviewTimeline(risk.RiskScore)))

	default:
		return strings.TrimSpace(fmt.Sprintf(`
**Safety Notice: Content Review Required**

We've detected something in this conversation that needs a closer look to ensure everything meets our safety and quality standards.

**What We Found:**
Our safety systems identified potential %s content that might not align with our community guidelines.

**What This Means:**
- This is an automated detection, not a final determination
- A human reviewer will take a look to confirm
- Your conversation is temporarily flagged for review
- This helps us maintain a safe and helpful environment

**What Happens Next:**
1. Our team will review the content within 24 hours
2. If it's a false alarm, the flag will be removed
3. If there is an issue, we'll provide guidance on next steps
4. You'll be notified of the outcome

**Questions?** Contact our support team if you have concerns about this review.`,
			strings.ReplaceAll(riskType, "_", " ")))
	}
}

// GenerateEthicalAnalysis writes the narrative for an ethical alignment
// assessment in the requested style. Unknown styles fall back to the
// user-friendly register.
func GenerateEthicalAnalysis(ctx AlignmentContext, style models.NarrativeStyle) string {
	switch style {
	case models.StyleTechnical:
		return strings.TrimSpace(fmt.Sprintf(`
**Ethical Alignment Analysis**

**Overall Assessment:**
The interaction achieved an ethical alignment score of %.2f/1.0, indicating %s alignment with established ethical principles.

**Category Breakdown:**
%s

**Strengths Identified:**
%s

**Areas of Concern:**
%s

**Ethical Framework Applied:**
This analysis follows the IEEE Standards for Ethical AI Design and incorporates principles from the EU Ethics Guidelines for Trustworthy AI.

**Methodology:**
- Automated ethical reasoning algorithms
- Multi-dimensional principle assessment
- Contextual appropriateness evaluation
- Stakeholder impact analysis`,
			ctx.OverallScore, AlignmentLevelText(ctx.OverallScore),
			formatCategoryScores(ctx.CategoryScores),
			formatList(ctx.Strengths, "- "), formatList(ctx.Concerns, "- ")))

	case models.StyleRegulatory:
		status := "REQUIRES REVIEW"
		if ctx.OverallScore >= 0.7 {
			status = "COMPLIANT"
		}
		return strings.TrimSpace(fmt.Sprintf(`
**Ethical Compliance Assessment Report**

**Regulatory Framework:** EU AI Act Article 4 - Ethical AI Requirements

**Compliance Score:** %.2f/1.0

**Assessment Criteria:**
This evaluation assesses compliance with mandatory ethical requirements for AI systems as defined in current regulatory frameworks.

**Detailed Findings:**
%s

**Compliance Status:** %s

**Regulatory Notes:**
- Assessment conducted using approved ethical evaluation frameworks
- All findings documented for audit purposes
- Recommendations align with regulatory best practices

**Action Items:**
%s

**Certification:** This assessment meets regulatory requirements for AI ethics evaluation.`,
			ctx.OverallScore, formatCategoryScores(ctx.CategoryScores),
			status, formatList(ctx.Concerns, "- Address: ")))

	default:
		return strings.TrimSpace(fmt.Sprintf(`
**How Ethical Is This AI Interaction?**

**Overall Rating:** %s (%.1f/1.0)

**What We Evaluated:**
We checked this AI interaction against important ethical principles to make sure it's helpful, safe, and fair.

**What's Going Well:**
%s

**Areas for Improvement:**
%s

**Why This Matters:**
Ethical AI helps ensure that artificial intelligence serves everyone fairly and safely. These evaluations help us continuously improve our AI systems.

**Your Role:**
If you notice anything concerning in AI interactions, please let us know. Your feedback helps make AI better for everyone.`,
			StarRating(ctx.OverallScore), ctx.OverallScore,
			formatList(ctx.Strengths, "+ "), formatList(ctx.Concerns, "! ")))
	}
}

// RiskSeverityText converts a risk score to its severity band.
func RiskSeverityText(score float64) string {
	switch {
	case score >= 0.8:
		return "critical"
	case score >= 0.6:
		return "high"
	case score >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// AlignmentLevelText converts an alignment score to its level band.
func AlignmentLevelText(score float64) string {
	switch {
	case score >= 0.9:
		return "excellent"
	case score >= 0.7:
		return "good"
	case score >= 0.5:
		return "moderate"
	default:
		return "poor"
	}
}

// ReviewTimeline returns the recommended review window for a risk score.
func ReviewTimeline(score float64) string {
	switch {
	case score >= 0.8:
		return "1 hour"
	case score >= 0.6:
		return "4 hours"
	case score >= 0.4:
		return "24 hours"
	default:
		return "72 hours"
	}
}

// StarRating renders a score as a five-star rating.
func StarRating(score float64) string {
	stars := int(score * 5)
	if stars > 5 {
		stars = 5
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

func extractTopic(prompt string) string {
	words := strings.Fields(strings.ToLower(prompt))
	if len(words) > 3 {
		return strings.Join(words[:3], " ") + "..."
	}
	if len(prompt) > 50 {
		return prompt[:50] + "..."
	}
	return prompt
}

func formatEvidence(evidence map[string]any) string {
	if len(evidence) == 0 {
		return "No specific evidence details available."
	}
	keys := make([]string, 0, len(evidence))
	for k := range evidence {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("- **%s**: %v", titleCase(strings.ReplaceAll(k, "_", " ")), evidence[k]))
	}
	return strings.Join(lines, "\n")
}

func formatCategoryScores(scores map[models.AlignmentCategory]float64) string {
	if len(scores) == 0 {
		return "No category scores available."
	}
	lines := make([]string, 0, len(scores))
	for _, category := range models.AlignmentCategories {
		score, ok := scores[category]
		if !ok {
			continue
		}
		name := titleCase(strings.ReplaceAll(string(category), "_", " "))
		lines = append(lines, fmt.Sprintf("- **%s**: %.2f/1.0", name, score))
	}
	return strings.Join(lines, "\n")
}

func formatList(items []string, prefix string) string {
	if len(items) == 0 {
		return "None identified."
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, prefix+item)
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
