// Package handler exposes the LLM observability module over HTTP under
// /api/llm.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	llmModel "zenthera/internal/llmobs/models"
	"zenthera/internal/llmobs/service"
	"zenthera/internal/platform/metrics"
	"zenthera/internal/platform/middleware"
	"zenthera/internal/transport/http/shared"
	dErrors "zenthera/pkg/domain-errors"
)

// Service defines the interface for LLM observability operations.
type Service interface {
	GetDashboard(ctx context.Context, orgID, timeRange string) (*service.Dashboard, error)
	ListInteractions(ctx context.Context, q service.InteractionQuery) (*service.InteractionPage, error)
	AnalyzeInteraction(ctx context.Context, in service.InteractionInput) (*service.AnalysisResult, error)
	ListRisks(ctx context.Context, q service.RiskQuery) (*service.RiskPage, error)
	Performance(ctx context.Context, orgID, modelName, timeRange string) (*service.PerformanceReport, error)
	CompareModels(ctx context.Context, in service.CompareInput) (*service.ComparisonResult, error)
	ListAlerts(ctx context.Context, q service.AlertQuery) (*service.AlertList, error)
	AssessQuality(ctx context.Context, in service.QualityInput) (*llmModel.QualityAssessment, error)
	SessionDetails(ctx context.Context, sessionID string) (*service.SessionDetail, error)
}

// Handler handles LLM observability endpoints.
type Handler struct {
	logger     *slog.Logger
	llm        Service
	metrics    *metrics.Metrics
	defaultOrg string
}

// New creates a new observability Handler.
func New(llm Service, logger *slog.Logger, m *metrics.Metrics, defaultOrg string) *Handler {
	return &Handler{
		logger:     logger,
		llm:        llm,
		metrics:    m,
		defaultOrg: defaultOrg,
	}
}

// Register registers the observability routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger, h.metrics))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Get("/dashboard", h.handleDashboard)
	router.Get("/interactions", h.handleListInteractions)
	router.Post("/interactions", h.handleAnalyzeInteraction)
	router.Get("/risks", h.handleListRisks)
	router.Get("/performance", h.handlePerformance)
	router.Post("/models/compare", h.handleCompareModels)
	router.Get("/alerts", h.handleListAlerts)
	router.Post("/quality/assess", h.handleAssessQuality)
	router.Get("/sessions/{sessionID}", h.handleSessionDetails)

	r.Mount("/api/llm", router)
}

func (h *Handler) orgID(r *http.Request) string {
	if org := r.URL.Query().Get("organization_id"); org != "" {
		return org
	}
	return h.defaultOrg
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dashboard, err := h.llm.GetDashboard(ctx, h.orgID(r), r.URL.Query().Get("time_range"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load llm dashboard",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, dashboard)
}

func (h *Handler) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.llm.ListInteractions(ctx, service.InteractionQuery{
		OrganizationID: h.orgID(r),
		SessionID:      q.Get("session_id"),
		ModelName:      q.Get("model_name"),
		RiskLevel:      q.Get("risk_level"),
		Limit:          parseInt(q.Get("limit"), 50),
		Offset:         parseInt(q.Get("offset"), 0),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list interactions",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleAnalyzeInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.InteractionInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.llm.AnalyzeInteraction(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to analyze interaction",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, result)
}

func (h *Handler) handleListRisks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.llm.ListRisks(ctx, service.RiskQuery{
		OrganizationID: h.orgID(r),
		RiskType:       llmModel.RiskType(q.Get("risk_type")),
		Severity:       llmModel.Severity(q.Get("severity")),
		SessionID:      q.Get("session_id"),
		Limit:          parseInt(q.Get("limit"), 50),
		Offset:         parseInt(q.Get("offset"), 0),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list risks",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handlePerformance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	report, err := h.llm.Performance(ctx, h.orgID(r), q.Get("model_name"), q.Get("time_range"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute performance metrics",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	if report == nil {
		shared.WriteData(w, http.StatusOK, map[string]any{
			"message": "No data available for the specified criteria",
		})
		return
	}
	shared.WriteData(w, http.StatusOK, report)
}

func (h *Handler) handleCompareModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.CompareInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.llm.CompareModels(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to compare models",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, result)
}

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	alerts, err := h.llm.ListAlerts(ctx, service.AlertQuery{
		OrganizationID: h.orgID(r),
		Severity:       llmModel.Severity(q.Get("severity")),
		Status:         q.Get("status"),
		Limit:          parseInt(q.Get("limit"), 50),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list llm alerts",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, alerts)
}

func (h *Handler) handleAssessQuality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.QualityInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	assessment, err := h.llm.AssessQuality(ctx, in)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to store quality assessment",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{
		"assessment": assessment,
		"message":    "Quality assessment completed successfully",
	})
}

func (h *Handler) handleSessionDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	detail, err := h.llm.SessionDetails(ctx, sessionID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to load session details",
				"request_id", middleware.GetRequestID(ctx),
				"session_id", sessionID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, detail)
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
