// Package handler exposes the failure detection module over HTTP under
// /api/failure.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	failureModel "zenthera/internal/failure/models"
	"zenthera/internal/failure/service"
	"zenthera/internal/platform/metrics"
	"zenthera/internal/platform/middleware"
	"zenthera/internal/transport/http/shared"
	dErrors "zenthera/pkg/domain-errors"
)

// Service defines the interface for failure detection operations.
type Service interface {
	GetDashboard(ctx context.Context, orgID, timeRange string) (*service.Dashboard, error)
	ListFailures(ctx context.Context, q service.FailureQuery) (*service.FailurePage, error)
	ReportFailure(ctx context.Context, in service.FailureInput) (*service.FailureReport, error)
	ListAlerts(ctx context.Context, q service.AlertQuery) (*service.AlertPage, error)
	AcknowledgeAlert(ctx context.Context, alertID string, in service.AcknowledgeInput) (*service.AlertUpdate, error)
	ResolveAlert(ctx context.Context, alertID string, in service.ResolveInput) (*service.AlertUpdate, error)
	ListIncidents(ctx context.Context, q service.IncidentQuery) (*service.IncidentPage, error)
	CreateIncident(ctx context.Context, in service.IncidentInput) (*service.IncidentResult, error)
	ListRules(ctx context.Context, q service.RuleQuery) (*service.RulePage, error)
	CreateRule(ctx context.Context, in service.RuleInput) (*service.RuleResult, error)
	SystemHealth(ctx context.Context, orgID string) (*service.HealthReport, error)
	SystemHealthHistory(ctx context.Context, orgID string, hours int) (*service.HealthHistory, error)
	SimulateFailure(ctx context.Context, orgID, simulationType string) (*service.SimulationResult, error)
	ListTemplates(ctx context.Context, q service.TemplateQuery) (*service.TemplatePage, error)
	PreviewNotification(ctx context.Context, templateID, alertID string) (*service.NotificationPreview, error)
}

// Handler handles failure detection endpoints.
type Handler struct {
	logger     *slog.Logger
	failure    Service
	metrics    *metrics.Metrics
	defaultOrg string
}

// New creates a new failure detection Handler.
func New(failure Service, logger *slog.Logger, m *metrics.Metrics, defaultOrg string) *Handler {
	return &Handler{
		logger:     logger,
		failure:    failure,
		metrics:    m,
		defaultOrg: defaultOrg,
	}
}

// Register registers the failure detection routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger, h.metrics))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Get("/dashboard", h.handleDashboard)
	router.Get("/failures", h.handleListFailures)
	router.Post("/failures", h.handleReportFailure)
	router.Get("/alerts", h.handleListAlerts)
	router.Post("/alerts/{alertID}/acknowledge", h.handleAcknowledgeAlert)
	router.Post("/alerts/{alertID}/resolve", h.handleResolveAlert)
	router.Get("/incidents", h.handleListIncidents)
	router.Post("/incidents", h.handleCreateIncident)
	router.Get("/monitoring-rules", h.handleListRules)
	router.Post("/monitoring-rules", h.handleCreateRule)
	router.Get("/system-health", h.handleSystemHealth)
	router.Get("/system-health/history", h.handleHealthHistory)
	router.Post("/simulate-failure", h.handleSimulateFailure)
	router.Get("/notification-templates", h.handleListTemplates)
	router.Post("/notification-templates/{templateID}/preview", h.handlePreviewNotification)

	r.Mount("/api/failure", router)
}

func (h *Handler) orgID(r *http.Request) string {
	if org := r.URL.Query().Get("organization_id"); org != "" {
		return org
	}
	return h.defaultOrg
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dashboard, err := h.failure.GetDashboard(ctx, h.orgID(r), r.URL.Query().Get("time_range"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load failure dashboard",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, dashboard)
}

func (h *Handler) handleListFailures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.failure.ListFailures(ctx, service.FailureQuery{
		OrganizationID: h.orgID(r),
		FailureType:    failureModel.FailureType(q.Get("failure_type")),
		Component:      q.Get("component"),
		MinSeverity:    parseFloat(q.Get("min_severity"), 0),
		Limit:          parseInt(q.Get("limit"), 50),
		Offset:         parseInt(q.Get("offset"), 0),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list failures",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleReportFailure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.FailureInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	report, err := h.failure.ReportFailure(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to report failure",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, report)
}

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.failure.ListAlerts(ctx, service.AlertQuery{
		OrganizationID: h.orgID(r),
		Severity:       failureModel.Severity(q.Get("severity")),
		Status:         failureModel.AlertStatus(q.Get("status")),
		Component:      q.Get("component"),
		Limit:          parseInt(q.Get("limit"), 50),
		Offset:         parseInt(q.Get("offset"), 0),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list alerts",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alertID := chi.URLParam(r, "alertID")

	var in service.AcknowledgeInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	update, err := h.failure.AcknowledgeAlert(ctx, alertID, in)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to acknowledge alert",
				"request_id", middleware.GetRequestID(ctx),
				"alert_id", alertID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, update)
}

func (h *Handler) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alertID := chi.URLParam(r, "alertID")

	var in service.ResolveInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	update, err := h.failure.ResolveAlert(ctx, alertID, in)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to resolve alert",
				"request_id", middleware.GetRequestID(ctx),
				"alert_id", alertID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, update)
}

func (h *Handler) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.failure.ListIncidents(ctx, service.IncidentQuery{
		OrganizationID: h.orgID(r),
		Status:         failureModel.IncidentStatus(q.Get("status")),
		Severity:       failureModel.Severity(q.Get("severity")),
		Limit:          parseInt(q.Get("limit"), 50),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list incidents",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.IncidentInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.failure.CreateIncident(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to create incident",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, result)
}

func (h *Handler) handleListRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.failure.ListRules(ctx, service.RuleQuery{
		OrganizationID: h.orgID(r),
		IsActive:       parseBool(q.Get("is_active")),
		ComponentType:  q.Get("component_type"),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list monitoring rules",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.RuleInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.failure.CreateRule(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to create monitoring rule",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, result)
}

func (h *Handler) handleSystemHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.failure.SystemHealth(ctx, h.orgID(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load system health",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, report)
}

func (h *Handler) handleHealthHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	history, err := h.failure.SystemHealthHistory(ctx, h.orgID(r), parseInt(r.URL.Query().Get("hours"), 24))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load system health history",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, history)
}

func (h *Handler) handleSimulateFailure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in struct {
		OrganizationID string `json:"organization_id"`
		SimulationType string `json:"simulation_type"`
	}
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}
	if in.OrganizationID == "" {
		in.OrganizationID = h.defaultOrg
	}

	result, err := h.failure.SimulateFailure(ctx, in.OrganizationID, in.SimulationType)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to simulate failure",
				"request_id", middleware.GetRequestID(ctx),
				"simulation_type", in.SimulationType,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, result)
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, err := h.failure.ListTemplates(ctx, service.TemplateQuery{
		OrganizationID: h.orgID(r),
		Channel:        failureModel.NotificationChannel(q.Get("channel")),
		ActiveOnly:     q.Get("is_active") == "true",
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notification templates",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, page)
}

func (h *Handler) handlePreviewNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	templateID := chi.URLParam(r, "templateID")

	var in struct {
		AlertID string `json:"alert_id"`
	}
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	preview, err := h.failure.PreviewNotification(ctx, templateID, in.AlertID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to preview notification",
				"request_id", middleware.GetRequestID(ctx),
				"template_id", templateID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, preview)
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

func parseFloat(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func parseBool(raw string) *bool {
	if raw == "" {
		return nil
	}
	v := raw == "true"
	return &v
}
