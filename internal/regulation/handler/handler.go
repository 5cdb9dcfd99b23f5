// Package handler exposes the regulation module over HTTP under /api/regulation.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"zenthera/internal/platform/metrics"
	"zenthera/internal/platform/middleware"
	regulationModel "zenthera/internal/regulation/models"
	"zenthera/internal/regulation/service"
	"zenthera/internal/regulation/store"
	"zenthera/internal/transport/http/shared"
	dErrors "zenthera/pkg/domain-errors"
)

// Service defines the interface for regulation operations.
type Service interface {
	GetDashboard(ctx context.Context) (*service.Dashboard, error)
	ListRegulations(ctx context.Context, filter store.RegulationFilter) ([]*regulationModel.Regulation, error)
	GetRegulation(ctx context.Context, id string) (*service.RegulationDetail, error)
	ListAlerts(ctx context.Context, filter store.AlertFilter) (*service.AlertList, error)
	CreateAlert(ctx context.Context, in service.AlertInput) (*regulationModel.Alert, error)
	AcknowledgeAlert(ctx context.Context, id, userID, notes string) (*regulationModel.Alert, error)
	ResolveAlert(ctx context.Context, id, userID, notes string) (*regulationModel.Alert, error)
	ListTemplates(ctx context.Context, filter store.TemplateFilter) ([]*regulationModel.Template, error)
	GetTemplate(ctx context.Context, id string) (*regulationModel.Template, error)
	ValidateTemplateContent(ctx context.Context, id string, content map[string]any) (*regulationModel.ValidationResult, error)
	ListMonitors(ctx context.Context, filter store.MonitorFilter) ([]*regulationModel.Monitor, error)
	CreateMonitor(ctx context.Context, in service.MonitorInput) (*regulationModel.Monitor, error)
	SyncEurLex(ctx context.Context) (*service.SyncResult, error)
}

// Handler handles regulation endpoints.
type Handler struct {
	logger     *slog.Logger
	regulation Service
	metrics    *metrics.Metrics
}

// New creates a new regulation Handler.
func New(regulation Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, regulation: regulation, metrics: m}
}

// Register registers the regulation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger, h.metrics))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Get("/dashboard", h.handleDashboard)
	router.Get("/regulations", h.handleListRegulations)
	router.Get("/regulations/{regulationID}", h.handleGetRegulation)
	router.Get("/alerts", h.handleListAlerts)
	router.Post("/alerts", h.handleCreateAlert)
	router.Put("/alerts/{alertID}/acknowledge", h.handleAcknowledgeAlert)
	router.Put("/alerts/{alertID}/resolve", h.handleResolveAlert)
	router.Get("/templates", h.handleListTemplates)
	router.Get("/templates/{templateID}", h.handleGetTemplate)
	router.Post("/templates/{templateID}/validate", h.handleValidateTemplate)
	router.Get("/monitors", h.handleListMonitors)
	router.Post("/monitors", h.handleCreateMonitor)
	router.Post("/sync/eur-lex", h.handleSyncEurLex)

	r.Mount("/api/regulation", router)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dashboard, err := h.regulation.GetDashboard(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load regulation dashboard",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, dashboard)
}

func (h *Handler) handleListRegulations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	regs, err := h.regulation.ListRegulations(ctx, store.RegulationFilter{
		Type:         q.Get("type"),
		Status:       q.Get("status"),
		Jurisdiction: q.Get("jurisdiction"),
		Search:       q.Get("search"),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list regulations",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{
		"regulations": regs,
		"total":       len(regs),
	})
}

func (h *Handler) handleGetRegulation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "regulationID")

	detail, err := h.regulation.GetRegulation(ctx, id)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to load regulation",
				"request_id", middleware.GetRequestID(ctx),
				"regulation_id", id,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, detail)
}

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	list, err := h.regulation.ListAlerts(ctx, store.AlertFilter{
		Status:       regulationModel.AlertStatus(q.Get("status")),
		ImpactLevel:  regulationModel.ImpactLevel(q.Get("impact_level")),
		AlertType:    q.Get("type"),
		RegulationID: q.Get("regulation_id"),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list regulatory alerts",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, list)
}

func (h *Handler) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.AlertInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	alert, err := h.regulation.CreateAlert(ctx, in)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create regulatory alert",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{"alert": alert})
}

// alertActionRequest carries the actor and notes for acknowledge/resolve.
type alertActionRequest struct {
	UserID string `json:"user_id"`
	Notes  string `json:"notes"`
}

func (h *Handler) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "alertID")

	var req alertActionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	alert, err := h.regulation.AcknowledgeAlert(ctx, id, req.UserID, req.Notes)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to acknowledge alert",
				"request_id", middleware.GetRequestID(ctx),
				"alert_id", id,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{"alert": alert})
}

func (h *Handler) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "alertID")

	var req alertActionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	alert, err := h.regulation.ResolveAlert(ctx, id, req.UserID, req.Notes)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to resolve alert",
				"request_id", middleware.GetRequestID(ctx),
				"alert_id", id,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{"alert": alert})
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	templates, err := h.regulation.ListTemplates(ctx, store.TemplateFilter{
		RegulationType: q.Get("regulation_type"),
		TemplateType:   q.Get("template_type"),
		ActiveOnly:     q.Get("active_only") != "false",
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list templates",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{
		"templates": templates,
		"total":     len(templates),
	})
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "templateID")

	tpl, err := h.regulation.GetTemplate(ctx, id)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to load template",
				"request_id", middleware.GetRequestID(ctx),
				"template_id", id,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{"template": tpl})
}

func (h *Handler) handleValidateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "templateID")

	var req struct {
		Content map[string]any `json:"content"`
	}
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.regulation.ValidateTemplateContent(ctx, id, req.Content)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to validate template content",
				"request_id", middleware.GetRequestID(ctx),
				"template_id", id,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, result)
}

func (h *Handler) handleListMonitors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	monitors, err := h.regulation.ListMonitors(ctx, store.MonitorFilter{
		OrganizationID: q.Get("organization_id"),
		ActiveOnly:     q.Get("active_only") != "false",
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list monitors",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{
		"monitors": monitors,
		"total":    len(monitors),
	})
}

func (h *Handler) handleCreateMonitor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.MonitorInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	monitor, err := h.regulation.CreateMonitor(ctx, in)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to create monitor",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{"monitor": monitor})
}

func (h *Handler) handleSyncEurLex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.regulation.SyncEurLex(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "eur-lex sync failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, result)
}
