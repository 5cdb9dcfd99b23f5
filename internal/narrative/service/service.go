// Package service implements the narrative explainability use cases:
// session replays, generated explanations, ethical alignment assessments and
// governance audit trails.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"zenthera/internal/narrative/engine"
	"zenthera/internal/narrative/metrics"
	"zenthera/internal/narrative/models"
	"zenthera/internal/narrative/store"
	dErrors "zenthera/pkg/domain-errors"
	"zenthera/pkg/platform/sentinel"
	"zenthera/pkg/requestcontext"
)

// Store is the persistence surface the narrative service needs.
type Store interface {
	CreateReplay(ctx context.Context, r *models.SessionReplay) error
	GetReplay(ctx context.Context, id string) (*models.SessionReplay, error)
	ListReplays(ctx context.Context, filter store.ReplayFilter) ([]*models.SessionReplay, error)
	CreateEvent(ctx context.Context, e *models.ReplayEvent) error
	EventsByReplay(ctx context.Context, replayID string) ([]*models.ReplayEvent, error)
	CreateExplanation(ctx context.Context, e *models.NarrativeExplanation) error
	ListExplanations(ctx context.Context, filter store.ExplanationFilter) ([]*models.NarrativeExplanation, error)
	CreateAlignment(ctx context.Context, a *models.EthicalAlignment) error
	ListAlignments(ctx context.Context, filter store.AlignmentFilter) ([]*models.EthicalAlignment, error)
	CreateAudit(ctx context.Context, a *models.AuditTrail) error
	ListAudits(ctx context.Context, filter store.AuditFilter) ([]*models.AuditTrail, error)
	CreateTemplate(ctx context.Context, t *models.ExplanationTemplate) error
	ListTemplates(ctx context.Context, filter store.TemplateFilter) ([]*models.ExplanationTemplate, error)
}

// Service coordinates narrative explainability operations over the store.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a narrative Service.
func New(st Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, logger: logger, metrics: m}
}

// DashboardOverview holds the headline dashboard numbers.
type DashboardOverview struct {
	TotalSessionReplays        int     `json:"total_session_replays"`
	TotalExplanationsGenerated int     `json:"total_explanations_generated"`
	TotalEthicalAssessments    int     `json:"total_ethical_assessments"`
	TotalAuditTrails           int     `json:"total_audit_trails"`
	AverageEthicalAlignment    float64 `json:"average_ethical_alignment"`
	HighRiskInteractions       int     `json:"high_risk_interactions"`
	CriticalAuditFindings      int     `json:"critical_audit_findings"`
	PendingActionItems         int     `json:"pending_action_items"`
}

// Dashboard is the narrative dashboard payload.
type Dashboard struct {
	Overview         DashboardOverview              `json:"overview"`
	ExplanationTypes map[models.ExplanationType]int `json:"explanation_types"`
	RecentReplays    []*models.SessionReplay        `json:"recent_replays"`
	RecentAlignments []*models.EthicalAlignment     `json:"recent_alignments"`
	TimeRange        string                         `json:"time_range"`
	LastUpdated      time.Time                      `json:"last_updated"`
}

// GetDashboard aggregates replay, explanation, alignment and audit data.
// Replays are not windowed; the activity counters are.
func (s *Service) GetDashboard(ctx context.Context, orgID, timeRange string) (*Dashboard, error) {
	now := requestcontext.Now(ctx)
	since, timeRange := timeWindow(timeRange, now)

	replays, err := s.store.ListReplays(ctx, store.ReplayFilter{OrganizationID: orgID})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load replays", err)
	}
	explanations, err := s.store.ListExplanations(ctx, store.ExplanationFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load explanations", err)
	}
	alignments, err := s.store.ListAlignments(ctx, store.AlignmentFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load alignments", err)
	}
	audits, err := s.store.ListAudits(ctx, store.AuditFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load audits", err)
	}

	explanationTypes := map[models.ExplanationType]int{}
	for _, e := range explanations {
		explanationTypes[e.ExplanationType]++
	}

	var totalAlignment float64
	highRisk := 0
	for _, a := range alignments {
		totalAlignment += a.OverallAlignmentScore
		if a.OverallAlignmentScore < 0.5 {
			highRisk++
		}
	}
	avgAlignment := 0.0
	if len(alignments) > 0 {
		avgAlignment = totalAlignment / float64(len(alignments))
	}

	criticalFindings := 0
	pendingItems := 0
	for _, a := range audits {
		if a.RiskLevel == "critical" {
			criticalFindings++
		}
		for _, item := range a.ActionItems {
			if item.Status == "" || item.Status == "pending" {
				pendingItems++
			}
		}
	}

	return &Dashboard{
		Overview: DashboardOverview{
			TotalSessionReplays:        len(replays),
			TotalExplanationsGenerated: len(explanations),
			TotalEthicalAssessments:    len(alignments),
			TotalAuditTrails:           len(audits),
			AverageEthicalAlignment:    round3(avgAlignment),
			HighRiskInteractions:       highRisk,
			CriticalAuditFindings:      criticalFindings,
			PendingActionItems:         pendingItems,
		},
		ExplanationTypes: explanationTypes,
		RecentReplays:    topN(replays, 5),
		RecentAlignments: topN(alignments, 5),
		TimeRange:        timeRange,
		LastUpdated:      now,
	}, nil
}

// ReplayQuery filters the replay list.
type ReplayQuery struct {
	OrganizationID string
	SessionID      string
	Tags           []string
	Limit          int
	Offset         int
}

// EnrichedReplay is a replay plus its stored event and explanation counts.
type EnrichedReplay struct {
	*models.SessionReplay
	EventCount       int      `json:"event_count"`
	EventTypes       []string `json:"event_types"`
	ExplanationCount int      `json:"explanation_count"`
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	TotalCount int  `json:"total_count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
}

// ReplayPage is one page of enriched replays.
type ReplayPage struct {
	Replays    []*EnrichedReplay `json:"replays"`
	Pagination Pagination        `json:"pagination"`
}

// ListReplays returns the organization's replays, newest first, enriched
// with their event timeline shape.
func (s *Service) ListReplays(ctx context.Context, q ReplayQuery) (*ReplayPage, error) {
	replays, err := s.store.ListReplays(ctx, store.ReplayFilter{
		OrganizationID: q.OrganizationID,
		SessionID:      q.SessionID,
		Tags:           q.Tags,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load replays", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	total := len(replays)
	page := paginate(replays, q.Offset, limit)

	enriched := make([]*EnrichedReplay, 0, len(page))
	for _, r := range page {
		events, err := s.store.EventsByReplay(ctx, r.ID)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load replay events", err)
		}
		explanations, err := s.store.ListExplanations(ctx, store.ExplanationFilter{
			OrganizationID: q.OrganizationID,
			TargetEntityID: r.SessionID,
		})
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load explanations", err)
		}
		enriched = append(enriched, &EnrichedReplay{
			SessionReplay:    r,
			EventCount:       len(events),
			EventTypes:       uniqueEventTypes(events),
			ExplanationCount: len(explanations),
		})
	}

	return &ReplayPage{
		Replays: enriched,
		Pagination: Pagination{
			TotalCount: total,
			Limit:      limit,
			Offset:     q.Offset,
			HasMore:    q.Offset+limit < total,
		},
	}, nil
}

// ReplayInput carries the fields for creating a session replay.
type ReplayInput struct {
	SessionID      string         `json:"session_id"`
	OrganizationID string         `json:"organization_id"`
	CreatedBy      string         `json:"created_by"`
	ReplayName     string         `json:"replay_name"`
	Description    string         `json:"description"`
	SessionStart   time.Time      `json:"session_start"`
	SessionEnd     time.Time      `json:"session_end"`
	Participants   []string       `json:"participants"`
	ModelsUsed     []string       `json:"models_used"`
	Tags           []string       `json:"tags"`
	Metadata       map[string]any `json:"replay_metadata"`
}

// CreateReplay stores a new session replay. The client that recorded the
// replay is captured from the request's User-Agent when present.
func (s *Service) CreateReplay(ctx context.Context, in ReplayInput) (*models.SessionReplay, error) {
	now := requestcontext.Now(ctx)

	start, end := in.SessionStart, in.SessionEnd
	if start.IsZero() {
		start = now
	}
	if end.IsZero() {
		end = start
	}

	metadata := in.Metadata
	if rawUA := requestcontext.UserAgent(ctx); rawUA != "" {
		ua := useragent.New(rawUA)
		browser, version := ua.Browser()
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata["captured_client"] = map[string]any{
			"browser":         browser,
			"browser_version": version,
			"os":              ua.OS(),
			"mobile":          ua.Mobile(),
		}
	}

	replay := &models.SessionReplay{
		ID:                   uuid.NewString(),
		SessionID:            in.SessionID,
		OrganizationID:       in.OrganizationID,
		CreatedAt:            now,
		CreatedBy:            in.CreatedBy,
		ReplayName:           in.ReplayName,
		Description:          in.Description,
		SessionStart:         start,
		SessionEnd:           end,
		TotalDurationSeconds: end.Sub(start).Seconds(),
		Participants:         in.Participants,
		ModelsUsed:           in.ModelsUsed,
		Metadata:             metadata,
		Tags:                 in.Tags,
	}
	if err := replay.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid replay", err)
	}
	if err := s.store.CreateReplay(ctx, replay); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store replay", err)
	}
	s.metrics.IncrementReplaysCreated()
	return replay, nil
}

// TimedEvent is a replay event plus the gap to its predecessor.
type TimedEvent struct {
	*models.ReplayEvent
	TimeSincePrevious float64 `json:"time_since_previous"`
}

// EventTimeline is the ordered event list of one replay.
type EventTimeline struct {
	ReplayID    string        `json:"replay_id"`
	Events      []*TimedEvent `json:"events"`
	TotalEvents int           `json:"total_events"`
	EventTypes  []string      `json:"event_types"`
}

// ReplayEvents returns a replay's events in sequence order, each annotated
// with the seconds elapsed since the previous event.
func (s *Service) ReplayEvents(ctx context.Context, replayID string) (*EventTimeline, error) {
	if _, err := s.store.GetReplay(ctx, replayID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "replay %s not found", replayID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load replay", err)
	}

	events, err := s.store.EventsByReplay(ctx, replayID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load replay events", err)
	}

	timed := make([]*TimedEvent, 0, len(events))
	for i, e := range events {
		gap := 0.0
		if i > 0 {
			gap = e.Timestamp.Sub(events[i-1].Timestamp).Seconds()
		}
		timed = append(timed, &TimedEvent{ReplayEvent: e, TimeSincePrevious: gap})
	}

	return &EventTimeline{
		ReplayID:    replayID,
		Events:      timed,
		TotalEvents: len(events),
		EventTypes:  uniqueEventTypes(events),
	}, nil
}

// ExplanationQuery filters the explanation list.
type ExplanationQuery struct {
	OrganizationID  string
	ExplanationType models.ExplanationType
	NarrativeStyle  models.NarrativeStyle
	TargetEntityID  string
	Limit           int
	Offset          int
}

// ExplanationSummary breaks the full filtered set down by type and style.
type ExplanationSummary struct {
	ByType  map[models.ExplanationType]int `json:"by_type"`
	ByStyle map[models.NarrativeStyle]int  `json:"by_style"`
}

// ExplanationPage is one page of explanations plus the full-set summary.
type ExplanationPage struct {
	Explanations []*models.NarrativeExplanation `json:"explanations"`
	Pagination   Pagination                     `json:"pagination"`
	Summary      ExplanationSummary             `json:"summary"`
}

// ListExplanations returns matching explanations, newest first.
func (s *Service) ListExplanations(ctx context.Context, q ExplanationQuery) (*ExplanationPage, error) {
	explanations, err := s.store.ListExplanations(ctx, store.ExplanationFilter{
		OrganizationID:  q.OrganizationID,
		ExplanationType: q.ExplanationType,
		NarrativeStyle:  q.NarrativeStyle,
		TargetEntityID:  q.TargetEntityID,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load explanations", err)
	}

	summary := ExplanationSummary{
		ByType:  map[models.ExplanationType]int{},
		ByStyle: map[models.NarrativeStyle]int{},
	}
	for _, t := range models.ExplanationTypes {
		summary.ByType[t] = 0
	}
	for _, st := range models.NarrativeStyles {
		summary.ByStyle[st] = 0
	}
	for _, e := range explanations {
		summary.ByType[e.ExplanationType]++
		summary.ByStyle[e.NarrativeStyle]++
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	total := len(explanations)

	return &ExplanationPage{
		Explanations: paginate(explanations, q.Offset, limit),
		Pagination: Pagination{
			TotalCount: total,
			Limit:      limit,
			Offset:     q.Offset,
			HasMore:    q.Offset+limit < total,
		},
		Summary: summary,
	}, nil
}

// ExplanationInput carries the fields for generating an explanation.
type ExplanationInput struct {
	OrganizationID   string                    `json:"organization_id"`
	ExplanationType  models.ExplanationType    `json:"explanation_type"`
	TargetEntityID   string                    `json:"target_entity_id"`
	TargetEntityType string                    `json:"target_entity_type"`
	NarrativeStyle   models.NarrativeStyle     `json:"narrative_style"`
	ConfidenceLevel  float64                   `json:"confidence_level"`
	GeneratedBy      string                    `json:"generated_by"`
	GenerationMethod string                    `json:"generation_method"`
	Interaction      engine.InteractionContext `json:"interaction_data"`
	Risk             engine.RiskContext        `json:"risk_data"`
	Alignment        engine.AlignmentContext   `json:"alignment_data"`
}

func (in *ExplanationInput) validate() error {
	switch {
	case in.OrganizationID == "":
		return dErrors.New(dErrors.CodeBadRequest, "organization_id is required")
	case in.TargetEntityID == "":
		return dErrors.New(dErrors.CodeBadRequest, "target_entity_id is required")
	case !in.ExplanationType.Valid():
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown explanation_type %q", in.ExplanationType)
	case in.NarrativeStyle != "" && !in.NarrativeStyle.Valid():
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown narrative_style %q", in.NarrativeStyle)
	}
	return nil
}

// GenerateExplanation produces and stores a narrative explanation for the
// target entity.
func (s *Service) GenerateExplanation(ctx context.Context, in ExplanationInput) (*models.NarrativeExplanation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	style := in.NarrativeStyle
	if style == "" {
		style = models.StyleUserFriendly
	}

	explanation := &models.NarrativeExplanation{
		ID:               uuid.NewString(),
		OrganizationID:   in.OrganizationID,
		ExplanationType:  in.ExplanationType,
		TargetEntityID:   in.TargetEntityID,
		TargetEntityType: orDefault(in.TargetEntityType, "interaction"),
		NarrativeStyle:   style,
		ConfidenceLevel:  in.ConfidenceLevel,
		GeneratedAt:      requestcontext.Now(ctx),
		GeneratedBy:      orDefault(in.GeneratedBy, "system"),
		GenerationMethod: orDefault(in.GenerationMethod, "automated"),
	}
	if explanation.ConfidenceLevel == 0 {
		explanation.ConfidenceLevel = 0.8
	}

	switch in.ExplanationType {
	case models.ExplanationDecisionRationale:
		explanation.Title = fmt.Sprintf("Decision Analysis: %s", orDefault(in.Interaction.ModelName, "AI Model"))
		explanation.Summary = "Analysis of AI decision-making process and rationale"
		explanation.DetailedExplanation = engine.GenerateDecisionExplanation(in.Interaction, style)
		explanation.KeyFactors = []string{"Input analysis", "Knowledge retrieval", "Response generation", "Quality assurance"}
	case models.ExplanationRisk:
		riskName := displayName(orDefault(in.Risk.RiskType, "unknown"))
		explanation.Title = fmt.Sprintf("Risk Analysis: %s", riskName)
		explanation.Summary = fmt.Sprintf("Analysis of detected %s risk and recommended mitigations", strings.ToLower(riskName))
		explanation.DetailedExplanation = engine.GenerateRiskExplanation(in.Risk, style)
		explanation.KeyFactors = []string{"Risk detection", "Evidence analysis", "Severity assessment", "Mitigation recommendations"}
	case models.ExplanationEthicalAnalysis:
		explanation.Title = "Ethical Alignment Assessment"
		explanation.Summary = "Assessment of ethical alignment across core principles"
		explanation.DetailedExplanation = engine.GenerateEthicalAnalysis(in.Alignment, style)
		explanation.KeyFactors = []string{"Ethical principles", "Alignment scoring", "Strengths identification", "Improvement areas"}
	default:
		explanation.Title = fmt.Sprintf("%s Explanation", displayName(string(in.ExplanationType)))
		explanation.Summary = fmt.Sprintf("Automated %s explanation for %s", strings.ReplaceAll(string(in.ExplanationType), "_", " "), in.TargetEntityID)
		explanation.DetailedExplanation = fmt.Sprintf(
			"An automated %s narrative was requested for %s %s. Detailed generation for this explanation type uses the generic narrative pipeline.",
			strings.ReplaceAll(string(in.ExplanationType), "_", " "), explanation.TargetEntityType, in.TargetEntityID)
		explanation.KeyFactors = []string{"Automated analysis", "Entity context", "Narrative generation"}
	}

	if err := s.store.CreateExplanation(ctx, explanation); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store explanation", err)
	}
	s.metrics.IncrementExplanationsGenerated(string(explanation.ExplanationType), string(style))
	return explanation, nil
}

// AlignmentQuery filters the alignment assessment list. Score bounds are
// inclusive.
type AlignmentQuery struct {
	OrganizationID string
	TargetEntityID string
	MinScore       *float64
	MaxScore       *float64
	Limit          int
}

// AlignmentSummary aggregates the full filtered assessment set.
type AlignmentSummary struct {
	TotalAssessments      int                                  `json:"total_assessments"`
	AverageAlignmentScore float64                              `json:"average_alignment_score"`
	CategoryAverages      map[models.AlignmentCategory]float64 `json:"category_averages"`
	HighRiskCount         int                                  `json:"high_risk_count"`
	RequiresReviewCount   int                                  `json:"requires_review_count"`
}

// AlignmentPage is the assessment list plus its summary.
type AlignmentPage struct {
	Assessments []*models.EthicalAlignment `json:"assessments"`
	Summary     AlignmentSummary           `json:"summary"`
}

// ListAlignments returns matching assessments, newest first. The summary
// covers the full filtered set; the limit trims the returned list only.
func (s *Service) ListAlignments(ctx context.Context, q AlignmentQuery) (*AlignmentPage, error) {
	all, err := s.store.ListAlignments(ctx, store.AlignmentFilter{
		OrganizationID: q.OrganizationID,
		TargetEntityID: q.TargetEntityID,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load alignments", err)
	}

	var filtered []*models.EthicalAlignment
	for _, a := range all {
		if q.MinScore != nil && a.OverallAlignmentScore < *q.MinScore {
			continue
		}
		if q.MaxScore != nil && a.OverallAlignmentScore > *q.MaxScore {
			continue
		}
		filtered = append(filtered, a)
	}

	summary := AlignmentSummary{
		TotalAssessments: len(filtered),
		CategoryAverages: map[models.AlignmentCategory]float64{},
	}
	var total float64
	categoryTotals := map[models.AlignmentCategory]float64{}
	categoryCounts := map[models.AlignmentCategory]int{}
	for _, a := range filtered {
		total += a.OverallAlignmentScore
		if a.OverallAlignmentScore < 0.5 {
			summary.HighRiskCount++
		}
		if a.RequiresHumanReview {
			summary.RequiresReviewCount++
		}
		for category, score := range a.CategoryScores {
			categoryTotals[category] += score
			categoryCounts[category]++
		}
	}
	if len(filtered) > 0 {
		summary.AverageAlignmentScore = round3(total / float64(len(filtered)))
	}
	for category, sum := range categoryTotals {
		summary.CategoryAverages[category] = round3(sum / float64(categoryCounts[category]))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return &AlignmentPage{Assessments: filtered, Summary: summary}, nil
}

// AssessInput carries the fields for running an alignment assessment.
type AssessInput struct {
	OrganizationID   string                    `json:"organization_id"`
	TargetEntityID   string                    `json:"target_entity_id"`
	TargetEntityType string                    `json:"target_entity_type"`
	AssessorID       string                    `json:"assessor_id"`
	ComplianceNotes  string                    `json:"compliance_notes"`
	Interaction      engine.InteractionContext `json:"interaction_data"`
	Metadata         map[string]any            `json:"assessment_metadata"`
}

// AssessmentSummary is the headline view of one assessment.
type AssessmentSummary struct {
	OverallScore    float64                  `json:"overall_score"`
	HighestCategory models.AlignmentCategory `json:"highest_category"`
	LowestCategory  models.AlignmentCategory `json:"lowest_category"`
	RequiresReview  bool                     `json:"requires_review"`
	ReviewPriority  string                   `json:"review_priority"`
}

// AssessmentResult is the stored assessment plus its summary.
type AssessmentResult struct {
	Alignment *models.EthicalAlignment `json:"alignment"`
	Summary   AssessmentSummary        `json:"assessment_summary"`
}

// AssessAlignment scores the interaction against the ethical principles and
// stores the assessment.
func (s *Service) AssessAlignment(ctx context.Context, in AssessInput) (*AssessmentResult, error) {
	switch {
	case in.OrganizationID == "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization_id is required")
	case in.TargetEntityID == "":
		return nil, dErrors.New(dErrors.CodeBadRequest, "target_entity_id is required")
	}

	scores, overall := engine.AssessAlignment(in.Interaction)

	var strengths, concerns, recommendations []string
	requiresReview := overall < 0.6
	for _, category := range models.AlignmentCategories {
		score := scores[category]
		name := strings.ReplaceAll(string(category), "_", " ")
		if score >= 0.8 {
			strengths = append(strengths, fmt.Sprintf("Strong %s alignment", name))
		}
		if score < 0.5 {
			concerns = append(concerns, fmt.Sprintf("Low %s score (%.2f)", name, score))
			recommendations = append(recommendations, fmt.Sprintf("Improve %s practices", name))
		}
		if score < 0.3 {
			requiresReview = true
		}
	}

	alignment := &models.EthicalAlignment{
		ID:                    uuid.NewString(),
		OrganizationID:        in.OrganizationID,
		TargetEntityID:        in.TargetEntityID,
		TargetEntityType:      orDefault(in.TargetEntityType, "interaction"),
		AssessmentTimestamp:   requestcontext.Now(ctx),
		AssessorID:            orDefault(in.AssessorID, "system"),
		OverallAlignmentScore: overall,
		CategoryScores:        scores,
		AlignmentAnalysis:     alignmentAnalysis(overall),
		Strengths:             strengths,
		Concerns:              concerns,
		Recommendations:       recommendations,
		ComplianceNotes:       in.ComplianceNotes,
		RequiresHumanReview:   requiresReview,
		ReviewPriority:        reviewPriority(overall),
		Metadata:              in.Metadata,
	}
	if err := s.store.CreateAlignment(ctx, alignment); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store alignment", err)
	}
	s.metrics.IncrementAlignmentsAssessed()

	highest, lowest := extremeCategories(scores)
	return &AssessmentResult{
		Alignment: alignment,
		Summary: AssessmentSummary{
			OverallScore:    round3(overall),
			HighestCategory: highest,
			LowestCategory:  lowest,
			RequiresReview:  requiresReview,
			ReviewPriority:  alignment.ReviewPriority,
		},
	}, nil
}

func alignmentAnalysis(overall float64) string {
	switch {
	case overall >= 0.8:
		return "Excellent ethical alignment across most categories. Minor improvements may be beneficial."
	case overall >= 0.6:
		return "Good ethical alignment with some areas for improvement identified."
	case overall >= 0.4:
		return "Moderate ethical alignment. Several areas require attention and improvement."
	default:
		return "Poor ethical alignment. Significant improvements needed across multiple categories."
	}
}

func reviewPriority(overall float64) string {
	switch {
	case overall < 0.3:
		return "critical"
	case overall < 0.5:
		return "high"
	case overall < 0.7:
		return "medium"
	default:
		return "low"
	}
}

// extremeCategories returns the best and worst scored categories, resolving
// ties by assessment order.
func extremeCategories(scores map[models.AlignmentCategory]float64) (models.AlignmentCategory, models.AlignmentCategory) {
	var highest, lowest models.AlignmentCategory
	for _, category := range models.AlignmentCategories {
		score, ok := scores[category]
		if !ok {
			continue
		}
		if highest == "" || score > scores[highest] {
			highest = category
		}
		if lowest == "" || score < scores[lowest] {
			lowest = category
		}
	}
	return highest, lowest
}

// AuditQuery filters the audit trail list.
type AuditQuery struct {
	OrganizationID   string
	AuditType        string
	ComplianceStatus string
	RiskLevel        string
	Limit            int
}

// AuditSummary aggregates the full filtered audit set.
type AuditSummary struct {
	TotalAudits      int            `json:"total_audits"`
	ByStatus         map[string]int `json:"by_status"`
	ByRiskLevel      map[string]int `json:"by_risk_level"`
	PendingFollowUps int            `json:"pending_follow_ups"`
}

// AuditPage is the audit trail list plus its summary.
type AuditPage struct {
	AuditTrails []*models.AuditTrail `json:"audit_trails"`
	Summary     AuditSummary         `json:"summary"`
}

// ListAudits returns matching audit trails, newest first.
func (s *Service) ListAudits(ctx context.Context, q AuditQuery) (*AuditPage, error) {
	audits, err := s.store.ListAudits(ctx, store.AuditFilter{
		OrganizationID:   q.OrganizationID,
		AuditType:        q.AuditType,
		ComplianceStatus: q.ComplianceStatus,
		RiskLevel:        q.RiskLevel,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load audits", err)
	}

	summary := AuditSummary{
		TotalAudits: len(audits),
		ByStatus:    map[string]int{"compliant": 0, "non_compliant": 0, "needs_review": 0},
		ByRiskLevel: map[string]int{"low": 0, "medium": 0, "high": 0, "critical": 0},
	}
	for _, a := range audits {
		summary.ByStatus[a.ComplianceStatus]++
		summary.ByRiskLevel[a.RiskLevel]++
		if a.FollowUpRequired {
			summary.PendingFollowUps++
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(audits) > limit {
		audits = audits[:limit]
	}

	return &AuditPage{AuditTrails: audits, Summary: summary}, nil
}

// AuditInput carries the fields for recording an audit trail.
type AuditInput struct {
	OrganizationID   string                `json:"organization_id"`
	AuditType        string                `json:"audit_type"`
	TargetEntityID   string                `json:"target_entity_id"`
	TargetEntityType string                `json:"target_entity_type"`
	AuditorID        string                `json:"auditor_id"`
	AuditScope       []string              `json:"audit_scope"`
	Findings         []models.AuditFinding `json:"findings"`
	ComplianceStatus string                `json:"compliance_status"`
	RiskLevel        string                `json:"risk_level"`
	Recommendations  []string              `json:"recommendations"`
	ActionItems      []models.ActionItem   `json:"action_items"`
	FollowUpRequired bool                  `json:"follow_up_required"`
	FollowUpDate     *time.Time            `json:"follow_up_date"`
	AuditReport      string                `json:"audit_report"`
	Metadata         map[string]any        `json:"audit_metadata"`
}

// CreateAudit records a governance audit trail.
func (s *Service) CreateAudit(ctx context.Context, in AuditInput) (*models.AuditTrail, error) {
	audit := &models.AuditTrail{
		ID:               uuid.NewString(),
		OrganizationID:   in.OrganizationID,
		AuditType:        in.AuditType,
		TargetEntityID:   in.TargetEntityID,
		TargetEntityType: orDefault(in.TargetEntityType, "session"),
		AuditTimestamp:   requestcontext.Now(ctx),
		AuditorID:        in.AuditorID,
		AuditScope:       in.AuditScope,
		Findings:         in.Findings,
		ComplianceStatus: in.ComplianceStatus,
		RiskLevel:        in.RiskLevel,
		Recommendations:  in.Recommendations,
		ActionItems:      in.ActionItems,
		FollowUpRequired: in.FollowUpRequired,
		FollowUpDate:     in.FollowUpDate,
		AuditReport:      in.AuditReport,
		Metadata:         in.Metadata,
	}
	if err := audit.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "invalid audit trail", err)
	}
	if err := s.store.CreateAudit(ctx, audit); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store audit trail", err)
	}
	s.metrics.IncrementAuditsRecorded(audit.ComplianceStatus)
	return audit, nil
}

// TemplateQuery filters the template list. Only active templates are
// returned.
type TemplateQuery struct {
	OrganizationID  string
	ExplanationType models.ExplanationType
	NarrativeStyle  models.NarrativeStyle
}

// TemplateSummary breaks the template set down by type and style.
type TemplateSummary struct {
	ByType  map[models.ExplanationType]int `json:"by_type"`
	ByStyle map[models.NarrativeStyle]int  `json:"by_style"`
}

// TemplatePage is the template list plus its summary.
type TemplatePage struct {
	Templates []*models.ExplanationTemplate `json:"templates"`
	Summary   TemplateSummary               `json:"summary"`
}

// ListTemplates returns the organization's active templates, most used first.
func (s *Service) ListTemplates(ctx context.Context, q TemplateQuery) (*TemplatePage, error) {
	templates, err := s.store.ListTemplates(ctx, store.TemplateFilter{
		OrganizationID:  q.OrganizationID,
		ExplanationType: q.ExplanationType,
		NarrativeStyle:  q.NarrativeStyle,
		ActiveOnly:      true,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load templates", err)
	}

	summary := TemplateSummary{
		ByType:  map[models.ExplanationType]int{},
		ByStyle: map[models.NarrativeStyle]int{},
	}
	for _, t := range templates {
		summary.ByType[t.ExplanationType]++
		summary.ByStyle[t.NarrativeStyle]++
	}

	return &TemplatePage{Templates: templates, Summary: summary}, nil
}

// ReplayExport is a replay packaged for download.
type ReplayExport struct {
	ReplayMetadata  *models.SessionReplay  `json:"replay_metadata"`
	Events          []*models.ReplayEvent  `json:"events"`
	ExportTimestamp time.Time              `json:"export_timestamp"`
	ExportFormat    string                 `json:"export_format"`
}

// ExportReplay packages a replay and its full event timeline.
func (s *Service) ExportReplay(ctx context.Context, replayID string) (*ReplayExport, error) {
	replay, err := s.store.GetReplay(ctx, replayID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "replay %s not found", replayID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load replay", err)
	}
	events, err := s.store.EventsByReplay(ctx, replayID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load replay events", err)
	}

	return &ReplayExport{
		ReplayMetadata:  replay,
		Events:          events,
		ExportTimestamp: requestcontext.Now(ctx),
		ExportFormat:    "zenthera_replay_v1.0",
	}, nil
}

// timeWindow converts a dashboard range name to its start time. Unknown
// ranges fall back to 30 days.
func timeWindow(timeRange string, now time.Time) (time.Time, string) {
	switch strings.TrimSpace(timeRange) {
	case "1h":
		return now.Add(-time.Hour), "1h"
	case "", "24h":
		return now.AddDate(0, 0, -1), "24h"
	case "7d":
		return now.AddDate(0, 0, -7), "7d"
	default:
		return now.AddDate(0, 0, -30), "30d"
	}
}

func uniqueEventTypes(events []*models.ReplayEvent) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range events {
		t := string(e.EventType)
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func displayName(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func topN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
