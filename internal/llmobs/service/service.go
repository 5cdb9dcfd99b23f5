// Package service implements the LLM observability use cases: recording and
// analyzing interactions, aggregating risk and performance views, comparing
// models and assessing response quality.
package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"zenthera/internal/llmobs/engine"
	"zenthera/internal/llmobs/metrics"
	"zenthera/internal/llmobs/models"
	"zenthera/internal/llmobs/store"
	dErrors "zenthera/pkg/domain-errors"
	"zenthera/pkg/platform/sentinel"
	"zenthera/pkg/requestcontext"
)

// Store is the persistence surface the observability service needs.
type Store interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	CountSessions(ctx context.Context, orgID string) (int, error)
	CreateInteraction(ctx context.Context, in *models.Interaction) error
	GetInteraction(ctx context.Context, id string) (*models.Interaction, error)
	ListInteractions(ctx context.Context, filter store.InteractionFilter) ([]*models.Interaction, error)
	InteractionsBySession(ctx context.Context, sessionID string) ([]*models.Interaction, error)
	CreateRisk(ctx context.Context, risk *models.RiskDetection) error
	ListRisks(ctx context.Context, filter store.RiskFilter) ([]*models.RiskDetection, error)
	RisksByInteraction(ctx context.Context, interactionID string) ([]*models.RiskDetection, error)
	CreateAssessment(ctx context.Context, a *models.QualityAssessment) error
	AssessmentsBySession(ctx context.Context, sessionID string) ([]*models.QualityAssessment, error)
	CreateComparison(ctx context.Context, c *models.ModelComparison) error
	CreateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context, filter store.AlertFilter) ([]*models.Alert, error)
}

// Detection thresholds: a detector result below its threshold is noise and
// is not persisted.
const (
	hallucinationThreshold = 0.3
	biasThreshold          = 0.3
	toxicityThreshold      = 0.2
	privacyThreshold       = 0.1
)

// Placeholder until assessments feed the dashboard aggregate directly.
const dashboardQualityBaseline = 0.78

// Service coordinates LLM observability operations over the store.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates an observability Service.
func New(st Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: st, logger: logger, metrics: m}
}

// DashboardOverview holds the headline dashboard numbers.
type DashboardOverview struct {
	TotalInteractions    int     `json:"total_interactions"`
	TotalSessions        int     `json:"total_sessions"`
	TotalTokensProcessed int     `json:"total_tokens_processed"`
	TotalCost            float64 `json:"total_cost"`
	AverageLatencyMS     float64 `json:"average_latency_ms"`
	HighRiskInteractions int     `json:"high_risk_interactions"`
	RiskDetectionRate    float64 `json:"risk_detection_rate"`
	AverageQualityScore  float64 `json:"average_quality_score"`
	ActiveAlerts         int     `json:"active_alerts"`
}

// Dashboard is the observability dashboard payload.
type Dashboard struct {
	Overview         DashboardOverview       `json:"overview"`
	ModelUsage       map[string]int          `json:"model_usage"`
	RiskDistribution map[models.RiskType]int `json:"risk_distribution"`
	RecentAlerts     []*models.Alert         `json:"recent_alerts"`
	TimeRange        string                  `json:"time_range"`
	LastUpdated      time.Time               `json:"last_updated"`
}

// GetDashboard aggregates interaction, risk and alert data for the window.
func (s *Service) GetDashboard(ctx context.Context, orgID, timeRange string) (*Dashboard, error) {
	now := requestcontext.Now(ctx)
	since, timeRange := timeWindow(timeRange, now)

	interactions, err := s.store.ListInteractions(ctx, store.InteractionFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interactions", err)
	}
	risks, err := s.store.ListRisks(ctx, store.RiskFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load risks", err)
	}
	alerts, err := s.store.ListAlerts(ctx, store.AlertFilter{OrganizationID: orgID, Since: since})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load alerts", err)
	}
	sessions, err := s.store.CountSessions(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to count sessions", err)
	}

	var totalTokens int
	var totalCost, totalLatency float64
	modelUsage := map[string]int{}
	for _, in := range interactions {
		totalTokens += in.TokensInput + in.TokensOutput
		totalCost += in.Cost
		totalLatency += in.LatencyMS
		modelUsage[in.ModelName]++
	}
	avgLatency := 0.0
	if len(interactions) > 0 {
		avgLatency = totalLatency / float64(len(interactions))
	}

	highRisk := 0
	riskDistribution := map[models.RiskType]int{}
	for _, r := range risks {
		if r.HighSeverity() {
			highRisk++
		}
		riskDistribution[r.RiskType]++
	}
	riskRate := 0.0
	if len(interactions) > 0 {
		riskRate = float64(len(risks)) / float64(len(interactions)) * 100
	}

	active := 0
	for _, a := range alerts {
		if a.ResolvedAt == nil {
			active++
		}
	}
	recent := alerts
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return &Dashboard{
		Overview: DashboardOverview{
			TotalInteractions:    len(interactions),
			TotalSessions:        sessions,
			TotalTokensProcessed: totalTokens,
			TotalCost:            round2(totalCost),
			AverageLatencyMS:     round2(avgLatency),
			HighRiskInteractions: highRisk,
			RiskDetectionRate:    round2(riskRate),
			AverageQualityScore:  dashboardQualityBaseline,
			ActiveAlerts:         active,
		},
		ModelUsage:       modelUsage,
		RiskDistribution: riskDistribution,
		RecentAlerts:     recent,
		TimeRange:        timeRange,
		LastUpdated:      now,
	}, nil
}

// InteractionQuery filters the interaction list.
type InteractionQuery struct {
	OrganizationID string
	SessionID      string
	ModelName      string
	RiskLevel      string
	Limit          int
	Offset         int
}

// EnrichedInteraction is an interaction plus its detected risks and a
// quality score.
type EnrichedInteraction struct {
	*models.Interaction
	Risks        []*models.RiskDetection `json:"risks"`
	RiskCount    int                     `json:"risk_count"`
	MaxRiskScore float64                 `json:"max_risk_score"`
	QualityScore float64                 `json:"quality_score"`
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	TotalCount int  `json:"total_count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
}

// InteractionPage is one page of enriched interactions.
type InteractionPage struct {
	Interactions []*EnrichedInteraction `json:"interactions"`
	Pagination   Pagination             `json:"pagination"`
}

// ListInteractions returns interactions enriched with risk data, newest
// first, paginated. The risk_level filter keeps low-risk interactions out
// of the high/critical views and vice versa.
func (s *Service) ListInteractions(ctx context.Context, q InteractionQuery) (*InteractionPage, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	interactions, err := s.store.ListInteractions(ctx, store.InteractionFilter{
		OrganizationID: q.OrganizationID,
		SessionID:      q.SessionID,
		ModelName:      q.ModelName,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interactions", err)
	}

	var filtered []*models.Interaction
	for _, in := range interactions {
		if q.RiskLevel != "" {
			risks, err := s.store.RisksByInteraction(ctx, in.ID)
			if err != nil {
				return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interaction risks", err)
			}
			if !matchesRiskLevel(q.RiskLevel, risks) {
				continue
			}
		}
		filtered = append(filtered, in)
	}

	total := len(filtered)
	page := paginate(filtered, q.Offset, q.Limit)

	enriched := make([]*EnrichedInteraction, 0, len(page))
	for _, in := range page {
		risks, err := s.store.RisksByInteraction(ctx, in.ID)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interaction risks", err)
		}
		maxScore := 0.0
		for _, r := range risks {
			maxScore = max(maxScore, r.RiskScore)
		}
		if risks == nil {
			risks = []*models.RiskDetection{}
		}
		enriched = append(enriched, &EnrichedInteraction{
			Interaction:  in,
			Risks:        risks,
			RiskCount:    len(risks),
			MaxRiskScore: maxScore,
			QualityScore: simulatedQuality(in.ID),
		})
	}

	return &InteractionPage{
		Interactions: enriched,
		Pagination: Pagination{
			TotalCount: total,
			Limit:      q.Limit,
			Offset:     q.Offset,
			HasMore:    q.Offset+q.Limit < total,
		},
	}, nil
}

func matchesRiskLevel(level string, risks []*models.RiskDetection) bool {
	switch level {
	case "low":
		for _, r := range risks {
			if r.HighSeverity() {
				return false
			}
		}
		return true
	case "high", "critical":
		for _, r := range risks {
			if string(r.Severity) == level {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// InteractionInput carries a new interaction to record and analyze.
type InteractionInput struct {
	SessionID      string  `json:"session_id"`
	OrganizationID string  `json:"organization_id"`
	ModelName      string  `json:"model_name"`
	Prompt         string  `json:"prompt"`
	Response       string  `json:"response"`
	LatencyMS      float64 `json:"latency_ms"`
	TokensInput    int     `json:"tokens_input"`
	TokensOutput   int     `json:"tokens_output"`
	Cost           float64 `json:"cost"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
	UserID         string  `json:"user_id"`
}

// AnalysisSummary condenses one analysis run.
type AnalysisSummary struct {
	TotalRisks     int     `json:"total_risks"`
	MaxRiskScore   float64 `json:"max_risk_score"`
	OverallQuality float64 `json:"overall_quality"`
	RequiresReview bool    `json:"requires_review"`
}

// AnalysisResult is a recorded interaction plus everything the analysis
// derived from it.
type AnalysisResult struct {
	Interaction       *models.Interaction       `json:"interaction"`
	RisksDetected     []*models.RiskDetection   `json:"risks_detected"`
	QualityAssessment *models.QualityAssessment `json:"quality_assessment"`
	AnalysisSummary   AnalysisSummary           `json:"analysis_summary"`
}

// AnalyzeInteraction stores a new interaction, runs every risk detector and
// the automated quality metrics over it, and persists what they find.
func (s *Service) AnalyzeInteraction(ctx context.Context, in InteractionInput) (*AnalysisResult, error) {
	now := requestcontext.Now(ctx)

	interaction := &models.Interaction{
		ID:             uuid.NewString(),
		SessionID:      in.SessionID,
		OrganizationID: in.OrganizationID,
		ModelName:      in.ModelName,
		Prompt:         in.Prompt,
		Response:       in.Response,
		Timestamp:      now,
		LatencyMS:      in.LatencyMS,
		TokensInput:    in.TokensInput,
		TokensOutput:   in.TokensOutput,
		Cost:           in.Cost,
		Temperature:    in.Temperature,
		MaxTokens:      in.MaxTokens,
		UserID:         in.UserID,
	}
	if interaction.SessionID == "" {
		interaction.SessionID = uuid.NewString()
	}
	if interaction.TokensInput == 0 {
		interaction.TokensInput = estimateTokens(in.Prompt)
	}
	if interaction.TokensOutput == 0 {
		interaction.TokensOutput = estimateTokens(in.Response)
	}
	if interaction.Cost == 0 {
		interaction.Cost = 0.03
	}
	if interaction.Temperature == 0 {
		interaction.Temperature = 0.7
	}
	if interaction.MaxTokens == 0 {
		interaction.MaxTokens = 150
	}
	if err := interaction.Validate(); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, err.Error(), err)
	}

	if err := s.store.CreateInteraction(ctx, interaction); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store interaction", err)
	}
	s.metrics.IncrementInteractionsAnalyzed()

	var detected []*models.RiskDetection
	for _, result := range engine.DetectAll(in.Prompt, in.Response) {
		severity, keep := classify(result)
		if !keep {
			continue
		}
		risk := &models.RiskDetection{
			ID:             uuid.NewString(),
			InteractionID:  interaction.ID,
			SessionID:      interaction.SessionID,
			OrganizationID: interaction.OrganizationID,
			RiskType:       result.RiskType,
			RiskScore:      result.RiskScore,
			Confidence:     result.Confidence,
			Description:    riskDescription(result.RiskType),
			Evidence:       result.Evidence,
			DetectedAt:     now,
			Severity:       severity,
		}
		if err := s.store.CreateRisk(ctx, risk); err != nil {
			s.logger.ErrorContext(ctx, "failed to store risk detection",
				"request_id", requestcontext.RequestID(ctx),
				"risk_type", risk.RiskType,
				"error", err.Error(),
			)
			continue
		}
		s.metrics.IncrementRisksDetected(string(risk.RiskType), string(risk.Severity))
		detected = append(detected, risk)
	}

	scores, overall := engine.AssessQuality(in.Prompt, in.Response)
	assessment := &models.QualityAssessment{
		ID:                  uuid.NewString(),
		InteractionID:       interaction.ID,
		SessionID:           interaction.SessionID,
		OrganizationID:      interaction.OrganizationID,
		OverallScore:        overall,
		MetricScores:        scores,
		AssessmentMethod:    "automated",
		AssessorID:          "system",
		AssessmentTimestamp: now,
	}
	if err := s.store.CreateAssessment(ctx, assessment); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store quality assessment", err)
	}
	s.metrics.IncrementQualityAssessments("automated")

	maxScore := 0.0
	for _, r := range detected {
		maxScore = max(maxScore, r.RiskScore)
	}
	if detected == nil {
		detected = []*models.RiskDetection{}
	}

	return &AnalysisResult{
		Interaction:       interaction,
		RisksDetected:     detected,
		QualityAssessment: assessment,
		AnalysisSummary: AnalysisSummary{
			TotalRisks:     len(detected),
			MaxRiskScore:   maxScore,
			OverallQuality: round3(overall),
			RequiresReview: len(detected) > 0 || overall < 0.6,
		},
	}, nil
}

// classify maps a detector result to a persisted severity, or drops it when
// it is below the detector's threshold.
func classify(result engine.RiskResult) (models.Severity, bool) {
	score := result.RiskScore
	switch result.RiskType {
	case models.RiskHallucination:
		if score <= hallucinationThreshold {
			return "", false
		}
		return gradedSeverity(score, 0.7, models.SeverityHigh, models.SeverityMedium), true
	case models.RiskBias:
		if score <= biasThreshold {
			return "", false
		}
		return gradedSeverity(score, 0.7, models.SeverityHigh, models.SeverityMedium), true
	case models.RiskToxicity:
		if score <= toxicityThreshold {
			return "", false
		}
		return gradedSeverity(score, 0.8, models.SeverityCritical, models.SeverityHigh), true
	case models.RiskPrivacyLeak:
		if score <= privacyThreshold {
			return "", false
		}
		return gradedSeverity(score, 0.6, models.SeverityCritical, models.SeverityHigh), true
	}
	return "", false
}

func gradedSeverity(score, cutoff float64, above, below models.Severity) models.Severity {
	if score > cutoff {
		return above
	}
	return below
}

func riskDescription(t models.RiskType) string {
	switch t {
	case models.RiskHallucination:
		return "Potential hallucination detected"
	case models.RiskBias:
		return "Potential bias detected"
	case models.RiskToxicity:
		return "Toxic content detected"
	case models.RiskPrivacyLeak:
		return "Privacy leak detected"
	default:
		return fmt.Sprintf("%s risk detected", t)
	}
}

// RiskQuery filters the risk list.
type RiskQuery struct {
	OrganizationID string
	RiskType       models.RiskType
	Severity       models.Severity
	SessionID      string
	Limit          int
	Offset         int
}

// RiskSummary aggregates the filtered risk set.
type RiskSummary struct {
	TotalRisks int                     `json:"total_risks"`
	BySeverity map[models.Severity]int `json:"by_severity"`
	ByType     map[models.RiskType]int `json:"by_type"`
}

// RiskPage is one page of risk detections plus aggregates over the whole
// filtered set.
type RiskPage struct {
	Risks      []*models.RiskDetection `json:"risks"`
	Pagination Pagination              `json:"pagination"`
	Summary    RiskSummary             `json:"summary"`
}

// ListRisks returns detected risks, newest first, paginated and summarized.
func (s *Service) ListRisks(ctx context.Context, q RiskQuery) (*RiskPage, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	risks, err := s.store.ListRisks(ctx, store.RiskFilter{
		OrganizationID: q.OrganizationID,
		RiskType:       q.RiskType,
		Severity:       q.Severity,
		SessionID:      q.SessionID,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load risks", err)
	}

	summary := RiskSummary{
		TotalRisks: len(risks),
		BySeverity: map[models.Severity]int{
			models.SeverityCritical: 0,
			models.SeverityHigh:     0,
			models.SeverityMedium:   0,
			models.SeverityLow:      0,
		},
		ByType: map[models.RiskType]int{},
	}
	for _, t := range models.RiskTypes {
		summary.ByType[t] = 0
	}
	for _, r := range risks {
		summary.BySeverity[r.Severity]++
		summary.ByType[r.RiskType]++
	}

	page := paginate(risks, q.Offset, q.Limit)
	if page == nil {
		page = []*models.RiskDetection{}
	}

	return &RiskPage{
		Risks: page,
		Pagination: Pagination{
			TotalCount: len(risks),
			Limit:      q.Limit,
			Offset:     q.Offset,
			HasMore:    q.Offset+q.Limit < len(risks),
		},
		Summary: summary,
	}, nil
}

// ModelStats holds the per-model performance numbers.
type ModelStats struct {
	TotalInteractions   int     `json:"total_interactions"`
	TotalCost           float64 `json:"total_cost"`
	TotalTokens         int     `json:"total_tokens"`
	AverageLatency      float64 `json:"average_latency"`
	P95Latency          float64 `json:"p95_latency"`
	P99Latency          float64 `json:"p99_latency"`
	CostPerToken        float64 `json:"cost_per_token"`
	CostPerInteraction  float64 `json:"cost_per_interaction"`
	ThroughputPerSecond float64 `json:"throughput_per_second"`
}

// OverallStats aggregates every model in the window.
type OverallStats struct {
	TotalInteractions int     `json:"total_interactions"`
	TotalCost         float64 `json:"total_cost"`
	TotalTokens       int     `json:"total_tokens"`
	AverageLatency    float64 `json:"average_latency"`
	P95Latency        float64 `json:"p95_latency"`
	P99Latency        float64 `json:"p99_latency"`
}

// PerformanceReport is the /performance payload.
type PerformanceReport struct {
	TimeRange      string                `json:"time_range"`
	PeriodStart    time.Time             `json:"period_start"`
	PeriodEnd      time.Time             `json:"period_end"`
	OverallMetrics OverallStats          `json:"overall_metrics"`
	ModelMetrics   map[string]ModelStats `json:"model_metrics"`
}

// Performance computes latency, cost and throughput statistics per model
// over the window. Returns nil when the window holds no interactions.
func (s *Service) Performance(ctx context.Context, orgID, modelName, timeRange string) (*PerformanceReport, error) {
	now := requestcontext.Now(ctx)
	since, timeRange := timeWindow(timeRange, now)

	interactions, err := s.store.ListInteractions(ctx, store.InteractionFilter{
		OrganizationID: orgID,
		ModelName:      modelName,
		Since:          since,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interactions", err)
	}
	if len(interactions) == 0 {
		return nil, nil
	}

	var latencies []float64
	var totalCost float64
	var totalTokens int
	byModel := map[string][]*models.Interaction{}
	for _, in := range interactions {
		latencies = append(latencies, in.LatencyMS)
		totalCost += in.Cost
		totalTokens += in.TokensInput + in.TokensOutput
		byModel[in.ModelName] = append(byModel[in.ModelName], in)
	}

	windowSeconds := now.Sub(since).Seconds()
	modelMetrics := map[string]ModelStats{}
	for model, ins := range byModel {
		var modelLatencies []float64
		var cost float64
		var tokens int
		for _, in := range ins {
			modelLatencies = append(modelLatencies, in.LatencyMS)
			cost += in.Cost
			tokens += in.TokensInput + in.TokensOutput
		}
		stats := ModelStats{
			TotalInteractions:  len(ins),
			TotalCost:          round2(cost),
			TotalTokens:        tokens,
			AverageLatency:     round2(mean(modelLatencies)),
			P95Latency:         round2(percentile(modelLatencies, 95)),
			P99Latency:         round2(percentile(modelLatencies, 99)),
			CostPerInteraction: round4(cost / float64(len(ins))),
		}
		if tokens > 0 {
			stats.CostPerToken = round6(cost / float64(tokens))
		}
		if windowSeconds > 0 {
			stats.ThroughputPerSecond = round4(float64(len(ins)) / windowSeconds)
		}
		modelMetrics[model] = stats
	}

	return &PerformanceReport{
		TimeRange:   timeRange,
		PeriodStart: since,
		PeriodEnd:   now,
		OverallMetrics: OverallStats{
			TotalInteractions: len(interactions),
			TotalCost:         round2(totalCost),
			TotalTokens:       totalTokens,
			AverageLatency:    round2(mean(latencies)),
			P95Latency:        round2(percentile(latencies, 95)),
			P99Latency:        round2(percentile(latencies, 99)),
		},
		ModelMetrics: modelMetrics,
	}, nil
}

// CompareInput requests a head-to-head model comparison.
type CompareInput struct {
	OrganizationID string   `json:"organization_id"`
	Models         []string `json:"models"`
	Criteria       []string `json:"criteria"`
	TimeRange      string   `json:"time_range"`
}

// ModelComparisonStats holds one model's side of a comparison.
type ModelComparisonStats struct {
	InteractionsCount int     `json:"interactions_count"`
	AverageLatency    float64 `json:"average_latency"`
	AverageCost       float64 `json:"average_cost"`
	AverageQuality    float64 `json:"average_quality"`
	RiskRate          float64 `json:"risk_rate"`
	TotalCost         float64 `json:"total_cost"`
	P95Latency        float64 `json:"p95_latency"`
}

// ComparisonSummary condenses a comparison run.
type ComparisonSummary struct {
	OverallWinner   string            `json:"overall_winner,omitempty"`
	CriteriaWinners map[string]string `json:"criteria_winners"`
	ModelsAnalyzed  int               `json:"models_analyzed"`
}

// ComparisonResult is a stored comparison plus its summary.
type ComparisonResult struct {
	Comparison *models.ModelComparison `json:"comparison"`
	Summary    ComparisonSummary       `json:"summary"`
}

// CompareModels scores the requested models against each other over the
// window and stores the comparison record. A model wins a criterion by
// having the best average; the overall winner takes the most criteria.
func (s *Service) CompareModels(ctx context.Context, in CompareInput) (*ComparisonResult, error) {
	if in.OrganizationID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization_id is required")
	}
	if len(in.Models) < 2 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least two models are required")
	}
	criteria := in.Criteria
	if len(criteria) == 0 {
		criteria = []string{"latency", "cost", "quality"}
	}

	now := requestcontext.Now(ctx)
	timeRange := in.TimeRange
	if timeRange == "" {
		timeRange = "7d"
	}
	since, timeRange := timeWindow(timeRange, now)

	stats := map[string]ModelComparisonStats{}
	comparisonMetrics := map[string]any{}
	var analyzed []string
	for _, model := range in.Models {
		interactions, err := s.store.ListInteractions(ctx, store.InteractionFilter{
			OrganizationID: in.OrganizationID,
			ModelName:      model,
			Since:          since,
		})
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interactions", err)
		}
		if len(interactions) == 0 {
			comparisonMetrics[model] = map[string]any{"error": "No data available"}
			continue
		}

		var latencies, costs, qualities []float64
		riskCount := 0
		for _, i := range interactions {
			latencies = append(latencies, i.LatencyMS)
			costs = append(costs, i.Cost)
			qualities = append(qualities, simulatedQuality(i.ID))
			risks, err := s.store.RisksByInteraction(ctx, i.ID)
			if err != nil {
				return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interaction risks", err)
			}
			riskCount += len(risks)
		}

		ms := ModelComparisonStats{
			InteractionsCount: len(interactions),
			AverageLatency:    round2(mean(latencies)),
			AverageCost:       round4(mean(costs)),
			AverageQuality:    round3(mean(qualities)),
			RiskRate:          round2(float64(riskCount) / float64(len(interactions)) * 100),
			TotalCost:         round2(sum(costs)),
			P95Latency:        round2(percentile(latencies, 95)),
		}
		stats[model] = ms
		comparisonMetrics[model] = ms
		analyzed = append(analyzed, model)
	}

	winners := map[string]string{}
	for _, criterion := range criteria {
		switch criterion {
		case "latency":
			winners["latency"] = bestModel(analyzed, func(m string) float64 { return -stats[m].AverageLatency })
		case "cost":
			winners["cost"] = bestModel(analyzed, func(m string) float64 { return -stats[m].AverageCost })
		case "quality":
			winners["quality"] = bestModel(analyzed, func(m string) float64 { return stats[m].AverageQuality })
		}
	}

	modelScores := map[string]int{}
	for _, model := range analyzed {
		for _, winner := range winners {
			if winner == model {
				modelScores[model]++
			}
		}
	}
	overallWinner := ""
	for _, model := range analyzed {
		if overallWinner == "" || modelScores[model] > modelScores[overallWinner] {
			overallWinner = model
		}
	}

	winnerCriteria := make([]string, 0, len(winners))
	for _, criterion := range criteria {
		if w, ok := winners[criterion]; ok && w != "" {
			winnerCriteria = append(winnerCriteria, criterion)
		}
	}

	winnerModel := overallWinner
	if winnerModel == "" {
		winnerModel = "No clear winner"
	}
	comparison := &models.ModelComparison{
		ID:                    uuid.NewString(),
		OrganizationID:        in.OrganizationID,
		ComparisonName:        fmt.Sprintf("Model Comparison %s", now.Format("2006-01-02 15:04")),
		ModelsCompared:        in.Models,
		ComparisonPeriodStart: since,
		ComparisonPeriodEnd:   now,
		ComparisonMetrics:     comparisonMetrics,
		WinnerModel:           winnerModel,
		WinnerCriteria:        winnerCriteria,
		DetailedAnalysis: map[string]any{
			"criteria_winners":    winners,
			"model_scores":        modelScores,
			"comparison_criteria": criteria,
		},
		CreatedBy: "system",
		CreatedAt: now,
	}
	if err := s.store.CreateComparison(ctx, comparison); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store comparison", err)
	}
	s.metrics.IncrementModelComparisons()

	return &ComparisonResult{
		Comparison: comparison,
		Summary: ComparisonSummary{
			OverallWinner:   overallWinner,
			CriteriaWinners: winners,
			ModelsAnalyzed:  len(analyzed),
		},
	}, nil
}

func bestModel(candidates []string, score func(string) float64) string {
	best := ""
	for _, m := range candidates {
		if best == "" || score(m) > score(best) {
			best = m
		}
	}
	return best
}

// AlertQuery filters the alert list.
type AlertQuery struct {
	OrganizationID string
	Severity       models.Severity
	Status         string
	Limit          int
}

// AlertList is the alert listing payload.
type AlertList struct {
	Alerts  []*models.Alert `json:"alerts"`
	Summary struct {
		TotalAlerts int                     `json:"total_alerts"`
		BySeverity  map[models.Severity]int `json:"by_severity"`
	} `json:"summary"`
}

// ListAlerts returns alerts matching the filter, newest first.
func (s *Service) ListAlerts(ctx context.Context, q AlertQuery) (*AlertList, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Status == "" {
		q.Status = "active"
	}

	alerts, err := s.store.ListAlerts(ctx, store.AlertFilter{
		OrganizationID: q.OrganizationID,
		Severity:       q.Severity,
		Status:         q.Status,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load alerts", err)
	}

	out := &AlertList{}
	out.Summary.TotalAlerts = len(alerts)
	out.Summary.BySeverity = map[models.Severity]int{
		models.SeverityCritical: 0,
		models.SeverityHigh:     0,
		models.SeverityMedium:   0,
		models.SeverityLow:      0,
	}
	for _, a := range alerts {
		out.Summary.BySeverity[a.Severity]++
	}
	if len(alerts) > q.Limit {
		alerts = alerts[:q.Limit]
	}
	out.Alerts = alerts
	return out, nil
}

// QualityInput carries a human quality assessment.
type QualityInput struct {
	InteractionID          string             `json:"interaction_id"`
	AssessorID             string             `json:"assessor_id"`
	MetricScores           map[string]float64 `json:"metric_scores"`
	FeedbackProvided       bool               `json:"feedback_provided"`
	ImprovementSuggestions []string           `json:"improvement_suggestions"`
}

// AssessQuality stores a human quality assessment for an interaction.
// Unknown metric names are ignored.
func (s *Service) AssessQuality(ctx context.Context, in QualityInput) (*models.QualityAssessment, error) {
	if in.InteractionID == "" || in.AssessorID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "interaction_id and assessor_id are required")
	}

	interaction, err := s.store.GetInteraction(ctx, in.InteractionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "interaction %s not found", in.InteractionID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interaction", err)
	}

	scores := map[models.QualityMetric]float64{}
	for name, score := range in.MetricScores {
		metric := models.QualityMetric(name)
		if !metric.Valid() {
			continue
		}
		scores[metric] = score
	}
	overall := 0.0
	if len(scores) > 0 {
		for _, v := range scores {
			overall += v
		}
		overall /= float64(len(scores))
	}

	assessment := &models.QualityAssessment{
		ID:                     uuid.NewString(),
		InteractionID:          in.InteractionID,
		SessionID:              interaction.SessionID,
		OrganizationID:         interaction.OrganizationID,
		OverallScore:           overall,
		MetricScores:           scores,
		AssessmentMethod:       "human",
		AssessorID:             in.AssessorID,
		AssessmentTimestamp:    requestcontext.Now(ctx),
		FeedbackProvided:       in.FeedbackProvided,
		ImprovementSuggestions: in.ImprovementSuggestions,
	}
	if err := s.store.CreateAssessment(ctx, assessment); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to store assessment", err)
	}
	s.metrics.IncrementQualityAssessments("human")
	return assessment, nil
}

// SessionStatistics aggregates one session's traffic.
type SessionStatistics struct {
	TotalInteractions int     `json:"total_interactions"`
	TotalTokens       int     `json:"total_tokens"`
	TotalCost         float64 `json:"total_cost"`
	AverageLatency    float64 `json:"average_latency"`
	AverageQuality    float64 `json:"average_quality"`
	RiskCount         int     `json:"risk_count"`
	HighRiskCount     int     `json:"high_risk_count"`
}

// SessionDetail is the full view of one session.
type SessionDetail struct {
	Session            *models.Session             `json:"session"`
	Interactions       []*models.Interaction       `json:"interactions"`
	Risks              []*models.RiskDetection     `json:"risks"`
	QualityAssessments []*models.QualityAssessment `json:"quality_assessments"`
	Statistics         SessionStatistics           `json:"statistics"`
}

// SessionDetails returns a session with its interactions (oldest first),
// risks, quality assessments and aggregate statistics.
func (s *Service) SessionDetails(ctx context.Context, sessionID string) (*SessionDetail, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "session %s not found", sessionID)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load session", err)
	}

	interactions, err := s.store.InteractionsBySession(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load interactions", err)
	}
	risks, err := s.store.ListRisks(ctx, store.RiskFilter{SessionID: sessionID})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load risks", err)
	}
	assessments, err := s.store.AssessmentsBySession(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load assessments", err)
	}

	stats := SessionStatistics{
		TotalInteractions: len(interactions),
		RiskCount:         len(risks),
	}
	var latencies, qualities []float64
	for _, in := range interactions {
		stats.TotalTokens += in.TokensInput + in.TokensOutput
		stats.TotalCost += in.Cost
		latencies = append(latencies, in.LatencyMS)
	}
	for _, q := range assessments {
		qualities = append(qualities, q.OverallScore)
	}
	for _, r := range risks {
		if r.HighSeverity() {
			stats.HighRiskCount++
		}
	}
	stats.TotalCost = round2(stats.TotalCost)
	stats.AverageLatency = round2(mean(latencies))
	stats.AverageQuality = round3(mean(qualities))

	return &SessionDetail{
		Session:            session,
		Interactions:       interactions,
		Risks:              risks,
		QualityAssessments: assessments,
		Statistics:         stats,
	}, nil
}

// timeWindow converts a dashboard range name to its start time. Unknown
// names fall back to 30 days.
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

// simulatedQuality derives a stable pseudo-score for an interaction that
// has no stored assessment. Stands in for a scoring backend.
func simulatedQuality(interactionID string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(interactionID))
	return 0.75 + float64(h.Sum32()%25)/100
}

func estimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * 1.3)
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// percentile interpolates linearly between the closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }
