// Package models defines the entities of the LLM observability module:
// sessions, interactions, detected risks, quality assessments, model
// comparisons and alerts.
package models

import (
	"fmt"
	"time"
)

// ModelType identifies an LLM family.
type ModelType string

const (
	ModelGPT    ModelType = "gpt"
	ModelClaude ModelType = "claude"
	ModelLlama  ModelType = "llama"
	ModelGemini ModelType = "gemini"
	ModelCustom ModelType = "custom"
)

// RiskType classifies a detected risk in an LLM output.
type RiskType string

const (
	RiskHallucination   RiskType = "hallucination"
	RiskBias            RiskType = "bias"
	RiskToxicity        RiskType = "toxicity"
	RiskPrivacyLeak     RiskType = "privacy_leak"
	RiskMisinformation  RiskType = "misinformation"
	RiskPromptInjection RiskType = "prompt_injection"
	RiskJailbreak       RiskType = "jailbreak"
	RiskCopyright       RiskType = "copyright"
)

// RiskTypes lists every known risk type, in reporting order.
var RiskTypes = []RiskType{
	RiskHallucination, RiskBias, RiskToxicity, RiskPrivacyLeak,
	RiskMisinformation, RiskPromptInjection, RiskJailbreak, RiskCopyright,
}

// QualityMetric names one dimension of response quality.
type QualityMetric string

const (
	MetricRelevance    QualityMetric = "relevance"
	MetricCoherence    QualityMetric = "coherence"
	MetricFactuality   QualityMetric = "factuality"
	MetricCompleteness QualityMetric = "completeness"
	MetricClarity      QualityMetric = "clarity"
	MetricCreativity   QualityMetric = "creativity"
)

// Valid reports whether m is a known quality metric.
func (m QualityMetric) Valid() bool {
	switch m {
	case MetricRelevance, MetricCoherence, MetricFactuality,
		MetricCompleteness, MetricClarity, MetricCreativity:
		return true
	}
	return false
}

// Severity grades risks and alerts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Session groups the interactions of one user with one model.
type Session struct {
	ID                string         `json:"id"`
	OrganizationID    string         `json:"organization_id"`
	ModelName         string         `json:"model_name"`
	ModelType         ModelType      `json:"model_type"`
	ModelVersion      string         `json:"model_version"`
	UserID            string         `json:"user_id,omitempty"`
	SessionStart      time.Time      `json:"session_start"`
	SessionEnd        *time.Time     `json:"session_end,omitempty"`
	TotalInteractions int            `json:"total_interactions"`
	TotalTokensInput  int            `json:"total_tokens_input"`
	TotalTokensOutput int            `json:"total_tokens_output"`
	TotalCost         float64        `json:"total_cost"`
	AverageLatency    float64        `json:"average_latency"`
	Metadata          map[string]any `json:"session_metadata,omitempty"`
}

// Interaction is a single prompt/response exchange with a model.
type Interaction struct {
	ID             string         `json:"id"`
	SessionID      string         `json:"session_id"`
	OrganizationID string         `json:"organization_id"`
	ModelName      string         `json:"model_name"`
	Prompt         string         `json:"prompt"`
	Response       string         `json:"response"`
	Timestamp      time.Time      `json:"timestamp"`
	LatencyMS      float64        `json:"latency_ms"`
	TokensInput    int            `json:"tokens_input"`
	TokensOutput   int            `json:"tokens_output"`
	Cost           float64        `json:"cost"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	UserID         string         `json:"user_id,omitempty"`
	Metadata       map[string]any `json:"interaction_metadata,omitempty"`
}

// Validate checks the fields a caller must supply.
func (i *Interaction) Validate() error {
	switch {
	case i.OrganizationID == "":
		return fmt.Errorf("organization_id is required")
	case i.ModelName == "":
		return fmt.Errorf("model_name is required")
	case i.Prompt == "":
		return fmt.Errorf("prompt is required")
	case i.Response == "":
		return fmt.Errorf("response is required")
	}
	return nil
}

// RiskDetection records one risk found in an interaction.
type RiskDetection struct {
	ID              string         `json:"id"`
	InteractionID   string         `json:"interaction_id"`
	SessionID       string         `json:"session_id"`
	OrganizationID  string         `json:"organization_id"`
	RiskType        RiskType       `json:"risk_type"`
	RiskScore       float64        `json:"risk_score"`
	Confidence      float64        `json:"confidence"`
	Description     string         `json:"description"`
	Evidence        map[string]any `json:"evidence"`
	DetectedAt      time.Time      `json:"detected_at"`
	Severity        Severity       `json:"severity"`
	FalsePositive   bool           `json:"false_positive"`
	ReviewedBy      string         `json:"reviewed_by,omitempty"`
	ReviewTimestamp *time.Time     `json:"review_timestamp,omitempty"`
}

// HighSeverity reports whether the detection is high or critical.
func (r *RiskDetection) HighSeverity() bool {
	return r.Severity == SeverityHigh || r.Severity == SeverityCritical
}

// QualityAssessment scores one interaction across the quality metrics.
type QualityAssessment struct {
	ID                     string                    `json:"id"`
	InteractionID          string                    `json:"interaction_id"`
	SessionID              string                    `json:"session_id"`
	OrganizationID         string                    `json:"organization_id"`
	OverallScore           float64                   `json:"overall_score"`
	MetricScores           map[QualityMetric]float64 `json:"metric_scores"`
	AssessmentMethod       string                    `json:"assessment_method"` // automated, human, hybrid
	AssessorID             string                    `json:"assessor_id"`
	AssessmentTimestamp    time.Time                 `json:"assessment_timestamp"`
	FeedbackProvided       bool                      `json:"feedback_provided"`
	ImprovementSuggestions []string                  `json:"improvement_suggestions,omitempty"`
}

// ModelComparison is a stored head-to-head comparison between models.
type ModelComparison struct {
	ID                    string         `json:"id"`
	OrganizationID        string         `json:"organization_id"`
	ComparisonName        string         `json:"comparison_name"`
	ModelsCompared        []string       `json:"models_compared"`
	ComparisonPeriodStart time.Time      `json:"comparison_period_start"`
	ComparisonPeriodEnd   time.Time      `json:"comparison_period_end"`
	ComparisonMetrics     map[string]any `json:"comparison_metrics"`
	WinnerModel           string         `json:"winner_model"`
	WinnerCriteria        []string       `json:"winner_criteria"`
	DetailedAnalysis      map[string]any `json:"detailed_analysis"`
	CreatedBy             string         `json:"created_by"`
	CreatedAt             time.Time      `json:"created_at"`
}

// Alert is an observability alert raised on monitored LLM traffic.
type Alert struct {
	ID             string         `json:"id"`
	OrganizationID string         `json:"organization_id"`
	AlertType      string         `json:"alert_type"`
	Severity       Severity       `json:"severity"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	TriggeredAt    time.Time      `json:"triggered_at"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time     `json:"resolved_at,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Status derives the alert lifecycle state from its timestamps.
func (a *Alert) Status() string {
	switch {
	case a.ResolvedAt != nil:
		return "resolved"
	case a.AcknowledgedAt != nil:
		return "acknowledged"
	default:
		return "active"
	}
}
