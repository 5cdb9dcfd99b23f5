// Package handler exposes the compliance module over HTTP under /api/compliance.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	complianceModel "zenthera/internal/compliance/models"
	"zenthera/internal/compliance/service"
	"zenthera/internal/compliance/store"
	"zenthera/internal/platform/metrics"
	"zenthera/internal/platform/middleware"
	"zenthera/internal/transport/http/shared"
	dErrors "zenthera/pkg/domain-errors"
)

// Service defines the interface for compliance operations.
type Service interface {
	GetDashboard(ctx context.Context, orgID string) (*service.Dashboard, error)
	LatestScore(ctx context.Context, orgID string) (*complianceModel.Score, error)
	RecordScore(ctx context.Context, in service.ScoreInput) (*service.ScoreResult, error)
	ListAlerts(ctx context.Context, filter store.AlertFilter) ([]*complianceModel.Alert, error)
	CreateAlert(ctx context.Context, in service.AlertInput) (*complianceModel.Alert, error)
	UpdateAlert(ctx context.Context, id string, upd service.AlertUpdate) (*complianceModel.Alert, error)
	ListReports(ctx context.Context, filter store.ReportFilter) ([]*complianceModel.Report, error)
	GenerateReport(ctx context.Context, in service.ReportInput) (*complianceModel.Report, error)
}

// Handler handles compliance endpoints.
type Handler struct {
	logger     *slog.Logger
	compliance Service
	metrics    *metrics.Metrics
	defaultOrg string
}

// New creates a new compliance Handler.
func New(compliance Service, logger *slog.Logger, m *metrics.Metrics, defaultOrg string) *Handler {
	return &Handler{
		logger:     logger,
		compliance: compliance,
		metrics:    m,
		defaultOrg: defaultOrg,
	}
}

// Register registers the compliance routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger, h.metrics))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.LatencyMiddleware(h.metrics))

	router.Get("/dashboard", h.handleDashboard)
	router.Get("/score/{orgID}", h.handleGetScore)
	router.Post("/score", h.handleCreateScore)
	router.Get("/alerts", h.handleListAlerts)
	router.Post("/alerts", h.handleCreateAlert)
	router.Put("/alerts/{alertID}", h.handleUpdateAlert)
	router.Get("/reports", h.handleListReports)
	router.Post("/reports/generate", h.handleGenerateReport)

	r.Mount("/api/compliance", router)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orgID := r.URL.Query().Get("org_id")
	if orgID == "" {
		orgID = h.defaultOrg
	}

	dashboard, err := h.compliance.GetDashboard(ctx, orgID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load compliance dashboard",
			"request_id", middleware.GetRequestID(ctx),
			"org_id", orgID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, dashboard)
}

func (h *Handler) handleGetScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID := chi.URLParam(r, "orgID")

	score, err := h.compliance.LatestScore(ctx, orgID)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load compliance score",
				"request_id", middleware.GetRequestID(ctx),
				"org_id", orgID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{"score": score})
}

func (h *Handler) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.ScoreInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.compliance.RecordScore(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to record compliance score",
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

	filter := store.AlertFilter{
		OrganizationID: q.Get("org_id"),
		Severity:       complianceModel.Severity(q.Get("severity")),
		Status:         complianceModel.AlertStatus(q.Get("status")),
		Limit:          parseLimit(q.Get("limit"), 50),
	}
	// Active alerts are the default view, matching the dashboard.
	if q.Get("status") == "" {
		filter.Status = complianceModel.AlertActive
	}

	alerts, err := h.compliance.ListAlerts(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list compliance alerts",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

func (h *Handler) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.AlertInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	alert, err := h.compliance.CreateAlert(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to create compliance alert",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{"alert": alert})
}

func (h *Handler) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	alertID := chi.URLParam(r, "alertID")

	var upd service.AlertUpdate
	if err := shared.DecodeJSON(r, &upd); err != nil {
		shared.WriteError(w, err)
		return
	}

	alert, err := h.compliance.UpdateAlert(ctx, alertID, upd)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to update compliance alert",
				"request_id", middleware.GetRequestID(ctx),
				"alert_id", alertID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{"alert": alert})
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	reports, err := h.compliance.ListReports(ctx, store.ReportFilter{
		OrganizationID: q.Get("org_id"),
		ReportType:     q.Get("type"),
		Limit:          parseLimit(q.Get("limit"), 20),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list compliance reports",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusOK, map[string]any{
		"reports": reports,
		"total":   len(reports),
	})
}

func (h *Handler) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in service.ReportInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}

	report, err := h.compliance.GenerateReport(ctx, in)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.ErrorContext(ctx, "failed to generate compliance report",
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteData(w, http.StatusCreated, map[string]any{"report": report})
}

func parseLimit(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
