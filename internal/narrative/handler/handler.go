// Package handler exposes the narrative explainability module over HTTP
// under /api/narrative.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	narrativeModel "zenthera/internal/narrative/models"
	"zenthera/internal/narrative/service"
	"zenthera/internal/platform/metrics"
	"zenthera/internal/platform/middleware"
	"zenthera/internal/transport/http/shared"
	dErrors "zenthera/pkg/domain-errors"
)

// Service defines the interface for narrative explainability operations.
type Service interface {
	GetDashboard(ctx context.Context, orgID, timeRange string) (*service.Dashboard, error)
	ListReplays(ctx context.Context, q service.ReplayQuery) (*service.ReplayPage, error)
	CreateReplay(ctx context.Context, in service.ReplayInput) (*narrativeModel.SessionReplay, error)
	ReplayEvents(ctx context.Context, replayID string) (*service.EventTimeline, error)
	ListExplanations(ctx context.Context, q service.ExplanationQuery) (*service.ExplanationPage, error)
	GenerateExplanation(ctx context.Context, in service.ExplanationInput) (*narrativeModel.NarrativeExplanation, error)
	ListAlignments(ctx context.Context, q service.AlignmentQuery) (*service.AlignmentPage, error)
	AssessAlignment(ctx context.Context, in service.AssessInput) (*service.AssessmentResult, error)
	ListAudits(ctx context.Context, q service.AuditQuery) (*service.AuditPage, error)
	CreateAudit(ctx context.Context, in service.AuditInput) (*narrativeModel.AuditTrail, error)
	ListTemplates(ctx context.Context, q service.TemplateQuery) (*service.TemplatePage, error)
	ExportReplay(ctx context.Context, replayID string) (*service.ReplayExport, error)
}

// Handler handles narrative explainability endpoints.
type Handler struct {
	logger     *slog.Logger
	narrative  Service
	metrics    *metrics.Metrics
	defaultOrg string
}

// New creates a new narrative Handler.
func New(narrative Service, logger *slog.Logger, m *metrics.Metrics, defaultOrg string) *Handler {
	return &Handler{
		logger:     logger,
		narrative:  narrative,
		metrics:    m,
		defaultOrg: defaultOrg,
	}
}

// Register registers the narrative routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger, h.metrics))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Get("/dashboard", h.handleDashboard)
	router.Get("/replays", h.handleListReplays)
	router.Post("/replays", h.handleCreateReplay)
	router.Get("/replays/{replayID}/events", h.handleReplayEvents)
	router.Get("/explanations", h.handleListExplanations)
	router.Post("/explanations", h.handleGenerateExplanation)
	router.Get("/ethical-alignment", h.handleListAlignments)
	router.Post("/ethical-alignment", h.handleAssessAlignment)
	router.Get("/audit-trails", h.handleListAudits)
	router.Post("/audit-trails", h.handleCreateAudit)
	router.Get("/templates", h.handleListTemplates)
	router.Get("/replay/{replayID}/export", h.handleExportReplay)

	r.Mount("/api/narrative", router)
}

func (h *Handler) orgID(r *http.Request) string {
	if org := r.URL.Query().Get("organization_id"); org != "" {
		return org
	}
	return h.defaultOrg
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dashboard, err := h.narrative.GetDashboard(ctx, h.orgID(r), r.URL.Query().Get("time_range"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load narrative dashboard",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, dashboard)
}

func (h *Handler) handleListReplays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.narrative.ListReplays(ctx, service.ReplayQuery{
		OrganizationID: h.orgID(r),
		SessionID:      q.Get("session_id"),
		Tags:           splitCSV(q.Get("tags")),
		Limit:          parseInt(q.Get("limit"), 20),
		Offset:         parseInt(q.Get("offset"), 0),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list replays",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleCreateReplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.ReplayInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	replay, err := h.narrative.CreateReplay(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to create replay",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{
		"replay":  replay,
		"message": "Session replay created successfully",
	})
}

func (h *Handler) handleReplayEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	replayID := chi.URLParam(r, "replayID")

	timeline, err := h.narrative.ReplayEvents(ctx, replayID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to load replay events",
				"request_id", middleware.GetRequestID(ctx),
				"replay_id", replayID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, timeline)
}

func (h *Handler) handleListExplanations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.narrative.ListExplanations(ctx, service.ExplanationQuery{
		OrganizationID:  h.orgID(r),
		ExplanationType: narrativeModel.ExplanationType(q.Get("explanation_type")),
		NarrativeStyle:  narrativeModel.NarrativeStyle(q.Get("narrative_style")),
		TargetEntityID:  q.Get("target_entity_id"),
		Limit:           parseInt(q.Get("limit"), 20),
		Offset:          parseInt(q.Get("offset"), 0),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list explanations",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleGenerateExplanation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.ExplanationInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	explanation, err := h.narrative.GenerateExplanation(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to generate explanation",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{
		"explanation": explanation,
		"message":     "Narrative explanation generated successfully",
	})
}

func (h *Handler) handleListAlignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.narrative.ListAlignments(ctx, service.AlignmentQuery{
		OrganizationID: h.orgID(r),
		TargetEntityID: q.Get("target_entity_id"),
		MinScore:       parseFloat(q.Get("min_score")),
		MaxScore:       parseFloat(q.Get("max_score")),
		Limit:          parseInt(q.Get("limit"), 50),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list alignments",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleAssessAlignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.AssessInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.narrative.AssessAlignment(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to assess alignment",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{
		"alignment":          result.Alignment,
		"assessment_summary": result.Summary,
		"message":            "Ethical alignment assessment completed",
	})
}

func (h *Handler) handleListAudits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.narrative.ListAudits(ctx, service.AuditQuery{
		OrganizationID:   h.orgID(r),
		AuditType:        q.Get("audit_type"),
		ComplianceStatus: q.Get("compliance_status"),
		RiskLevel:        q.Get("risk_level"),
		Limit:            parseInt(q.Get("limit"), 50),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit trails",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleCreateAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.AuditInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	audit, err := h.narrative.CreateAudit(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to create audit trail",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{
		"audit_trail": audit,
		"message":     "Audit trail created successfully",
	})
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.narrative.ListTemplates(ctx, service.TemplateQuery{
		OrganizationID:  h.orgID(r),
		ExplanationType: narrativeModel.ExplanationType(q.Get("explanation_type")),
		NarrativeStyle:  narrativeModel.NarrativeStyle(q.Get("narrative_style")),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list templates",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleExportReplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	replayID := chi.URLParam(r, "replayID")

	export, err := h.narrative.ExportReplay(ctx, replayID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to export replay",
				"request_id", middleware.GetRequestID(ctx),
				"replay_id", replayID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, export)
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

func parseFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
