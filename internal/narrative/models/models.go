// Package models defines the entities of the narrative explainability
// module: session replays, replay events, narrative explanations, ethical
// alignment assessments, audit trails and explanation templates.
package models

import (
	"fmt"
	"time"
)

// ExplanationType classifies a generated explanation.
type ExplanationType string

const (
	ExplanationDecisionRationale    ExplanationType = "decision_rationale"
	ExplanationEthicalAnalysis      ExplanationType = "ethical_analysis"
	ExplanationRisk                 ExplanationType = "risk_explanation"
	ExplanationQualityBreakdown     ExplanationType = "quality_breakdown"
	ExplanationComplianceAssessment ExplanationType = "compliance_assessment"
	ExplanationBiasAnalysis         ExplanationType = "bias_analysis"
	ExplanationSafetyEvaluation     ExplanationType = "safety_evaluation"
)

// ExplanationTypes lists every explanation type, in reporting order.
var ExplanationTypes = []ExplanationType{
	ExplanationDecisionRationale, ExplanationEthicalAnalysis, ExplanationRisk,
	ExplanationQualityBreakdown, ExplanationComplianceAssessment,
	ExplanationBiasAnalysis, ExplanationSafetyEvaluation,
}

// Valid reports whether t is a known explanation type.
func (t ExplanationType) Valid() bool {
	for _, known := range ExplanationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// AlignmentCategory names one ethical principle scored by the alignment
// engine.
type AlignmentCategory string

const (
	CategoryBeneficence    AlignmentCategory = "beneficence"
	CategoryNonMaleficence AlignmentCategory = "non_maleficence"
	CategoryAutonomy       AlignmentCategory = "autonomy"
	CategoryJustice        AlignmentCategory = "justice"
	CategoryTransparency   AlignmentCategory = "transparency"
	CategoryAccountability AlignmentCategory = "accountability"
	CategoryPrivacy        AlignmentCategory = "privacy"
	CategoryHumanDignity   AlignmentCategory = "human_dignity"
)

// AlignmentCategories lists every category, in assessment order.
var AlignmentCategories = []AlignmentCategory{
	CategoryBeneficence, CategoryNonMaleficence, CategoryAutonomy,
	CategoryJustice, CategoryTransparency, CategoryAccountability,
	CategoryPrivacy, CategoryHumanDignity,
}

// ReplayEventType classifies one event in a session replay.
type ReplayEventType string

const (
	EventUserInput          ReplayEventType = "user_input"
	EventModelResponse      ReplayEventType = "model_response"
	EventRiskDetection      ReplayEventType = "risk_detection"
	EventQualityAssessment  ReplayEventType = "quality_assessment"
	EventSystemIntervention ReplayEventType = "system_intervention"
	EventHumanReview        ReplayEventType = "human_review"
	EventComplianceCheck    ReplayEventType = "compliance_check"
	EventEthicalEvaluation  ReplayEventType = "ethical_evaluation"
)

// NarrativeStyle selects the audience register of a generated explanation.
type NarrativeStyle string

const (
	StyleTechnical    NarrativeStyle = "technical"
	StyleExecutive    NarrativeStyle = "executive"
	StyleRegulatory   NarrativeStyle = "regulatory"
	StyleUserFriendly NarrativeStyle = "user_friendly"
	StyleAudit        NarrativeStyle = "audit"
)

// NarrativeStyles lists every style, in reporting order.
var NarrativeStyles = []NarrativeStyle{
	StyleTechnical, StyleExecutive, StyleRegulatory, StyleUserFriendly, StyleAudit,
}

// Valid reports whether s is a known narrative style.
func (s NarrativeStyle) Valid() bool {
	for _, known := range NarrativeStyles {
		if s == known {
			return true
		}
	}
	return false
}

// SessionReplay is the recorded replay of one LLM session.
type SessionReplay struct {
	ID                   string         `json:"id"`
	SessionID            string         `json:"session_id"`
	OrganizationID       string         `json:"organization_id"`
	CreatedAt            time.Time      `json:"created_at"`
	CreatedBy            string         `json:"created_by"`
	ReplayName           string         `json:"replay_name"`
	Description          string         `json:"description"`
	SessionStart         time.Time      `json:"session_start"`
	SessionEnd           time.Time      `json:"session_end"`
	TotalEvents          int            `json:"total_events"`
	TotalDurationSeconds float64        `json:"total_duration_seconds"`
	Participants         []string       `json:"participants"`
	ModelsUsed           []string       `json:"models_used"`
	Metadata             map[string]any `json:"replay_metadata,omitempty"`
	Tags                 []string       `json:"tags"`
	IsArchived           bool           `json:"is_archived"`
	RetentionUntil       *time.Time     `json:"retention_until,omitempty"`
}

// Validate checks the fields a caller must supply.
func (r *SessionReplay) Validate() error {
	switch {
	case r.SessionID == "":
		return fmt.Errorf("session_id is required")
	case r.OrganizationID == "":
		return fmt.Errorf("organization_id is required")
	case r.CreatedBy == "":
		return fmt.Errorf("created_by is required")
	case r.ReplayName == "":
		return fmt.Errorf("replay_name is required")
	case r.SessionEnd.Before(r.SessionStart):
		return fmt.Errorf("session_end must be after session_start")
	}
	return nil
}

// ReplayEvent is one timestamped step in a session replay.
type ReplayEvent struct {
	ID                   string          `json:"id"`
	ReplayID             string          `json:"replay_id"`
	SessionID            string          `json:"session_id"`
	OrganizationID       string          `json:"organization_id"`
	EventType            ReplayEventType `json:"event_type"`
	Timestamp            time.Time       `json:"timestamp"`
	SequenceNumber       int             `json:"sequence_number"`
	EventData            map[string]any  `json:"event_data"`
	ActorID              string          `json:"actor_id,omitempty"`
	ActorType            string          `json:"actor_type"` // user, system, model, human_reviewer
	DurationMS           float64         `json:"duration_ms,omitempty"`
	RelatedInteractionID string          `json:"related_interaction_id,omitempty"`
	RelatedRiskID        string          `json:"related_risk_id,omitempty"`
	Metadata             map[string]any  `json:"event_metadata,omitempty"`
}

// NarrativeExplanation is a generated prose explanation of an AI decision,
// risk or assessment.
type NarrativeExplanation struct {
	ID                  string           `json:"id"`
	OrganizationID      string           `json:"organization_id"`
	ExplanationType     ExplanationType  `json:"explanation_type"`
	TargetEntityID      string           `json:"target_entity_id"`
	TargetEntityType    string           `json:"target_entity_type"` // interaction, session, risk, decision
	NarrativeStyle      NarrativeStyle   `json:"narrative_style"`
	Title               string           `json:"title"`
	Summary             string           `json:"summary"`
	DetailedExplanation string           `json:"detailed_explanation"`
	KeyFactors          []string         `json:"key_factors"`
	EvidencePoints      []map[string]any `json:"evidence_points"`
	ConfidenceLevel     float64          `json:"confidence_level"`
	GeneratedAt         time.Time        `json:"generated_at"`
	GeneratedBy         string           `json:"generated_by"`
	GenerationMethod    string           `json:"generation_method"` // automated, human, hybrid
	ReviewedBy          string           `json:"reviewed_by,omitempty"`
	ReviewedAt          *time.Time       `json:"reviewed_at,omitempty"`
	IsApproved          bool             `json:"is_approved"`
	Metadata            map[string]any   `json:"explanation_metadata,omitempty"`
}

// EthicalAlignment scores one interaction against the ethical principles.
type EthicalAlignment struct {
	ID                    string                        `json:"id"`
	OrganizationID        string                        `json:"organization_id"`
	TargetEntityID        string                        `json:"target_entity_id"`
	TargetEntityType      string                        `json:"target_entity_type"`
	AssessmentTimestamp   time.Time                     `json:"assessment_timestamp"`
	AssessorID            string                        `json:"assessor_id"`
	OverallAlignmentScore float64                       `json:"overall_alignment_score"`
	CategoryScores        map[AlignmentCategory]float64 `json:"category_scores"`
	AlignmentAnalysis     string                        `json:"alignment_analysis"`
	Strengths             []string                      `json:"strengths"`
	Concerns              []string                      `json:"concerns"`
	Recommendations       []string                      `json:"recommendations"`
	ComplianceNotes       string                        `json:"compliance_notes"`
	RequiresHumanReview   bool                          `json:"requires_human_review"`
	ReviewPriority        string                        `json:"review_priority"` // low, medium, high, critical
	Metadata              map[string]any                `json:"assessment_metadata,omitempty"`
}

// AuditFinding is one finding inside an audit trail.
type AuditFinding struct {
	FindingID   string `json:"finding_id"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
}

// ActionItem is one remediation task attached to an audit trail.
type ActionItem struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description"`
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      string `json:"status,omitempty"`
}

// AuditTrail records one governance audit of a session, decision or risk.
type AuditTrail struct {
	ID                  string         `json:"id"`
	OrganizationID      string         `json:"organization_id"`
	AuditType           string         `json:"audit_type"` // session, decision, risk, compliance
	TargetEntityID      string         `json:"target_entity_id"`
	TargetEntityType    string         `json:"target_entity_type"`
	AuditTimestamp      time.Time      `json:"audit_timestamp"`
	AuditorID           string         `json:"auditor_id"`
	AuditScope          []string       `json:"audit_scope"`
	Findings            []AuditFinding `json:"findings"`
	ComplianceStatus    string         `json:"compliance_status"` // compliant, non_compliant, needs_review
	RiskLevel           string         `json:"risk_level"`        // low, medium, high, critical
	Recommendations     []string       `json:"recommendations"`
	ActionItems         []ActionItem   `json:"action_items"`
	FollowUpRequired    bool           `json:"follow_up_required"`
	FollowUpDate        *time.Time     `json:"follow_up_date,omitempty"`
	AuditReport         string         `json:"audit_report"`
	SupportingDocuments []string       `json:"supporting_documents,omitempty"`
	Metadata            map[string]any `json:"audit_metadata,omitempty"`
}

// Validate checks the fields a caller must supply.
func (a *AuditTrail) Validate() error {
	switch {
	case a.OrganizationID == "":
		return fmt.Errorf("organization_id is required")
	case a.AuditType == "":
		return fmt.Errorf("audit_type is required")
	case a.TargetEntityID == "":
		return fmt.Errorf("target_entity_id is required")
	case a.AuditorID == "":
		return fmt.Errorf("auditor_id is required")
	case a.ComplianceStatus == "":
		return fmt.Errorf("compliance_status is required")
	case a.RiskLevel == "":
		return fmt.Errorf("risk_level is required")
	}
	return nil
}

// ExplanationTemplate is a reusable template for generating explanations.
type ExplanationTemplate struct {
	ID              string          `json:"id"`
	OrganizationID  string          `json:"organization_id"`
	TemplateName    string          `json:"template_name"`
	ExplanationType ExplanationType `json:"explanation_type"`
	NarrativeStyle  NarrativeStyle  `json:"narrative_style"`
	TemplateContent string          `json:"template_content"`
	Variables       []string        `json:"variables"`
	UsageContext    string          `json:"usage_context"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	LastModified    time.Time       `json:"last_modified"`
	IsActive        bool            `json:"is_active"`
	UsageCount      int             `json:"usage_count"`
	Metadata        map[string]any  `json:"template_metadata,omitempty"`
}
