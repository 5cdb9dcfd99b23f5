package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler serves the HTML pages and the service-level JSON endpoints.
type Handler struct {
	logger *slog.Logger
}

// New creates a web Handler.
func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register registers the page and service routes on the root router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleDashboard)
	r.Get("/features", h.handleFeaturesPage)
	r.Get("/api/health", h.handleHealth)
	r.Get("/api/features", h.handleFeatures)
}

type dashboardData struct {
	ServiceName    string
	ServiceVersion string
	OverallScore   float64
	Frameworks     []FrameworkScore
	Features       []Feature
	ActiveFeatures int
	TotalFeatures  int
	ActivePercent  int
	TotalEndpoints int
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	active := activeFeatures()
	data := dashboardData{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		OverallScore:   overallComplianceScore,
		Frameworks:     frameworkScores,
		Features:       featureCatalog,
		ActiveFeatures: active,
		TotalFeatures:  len(featureCatalog),
		ActivePercent:  (active*100 + len(featureCatalog)/2) / len(featureCatalog),
		TotalEndpoints: totalEndpoints(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard page", "error", err.Error())
	}
}

func (h *Handler) handleFeaturesPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := featuresTemplate.Execute(w, struct{ Features []Feature }{featureCatalog})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render features page", "error", err.Error())
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":   "healthy",
		"service":  ServiceName,
		"version":  ServiceVersion,
		"features": featureNames(),
	})
}

func (h *Handler) handleFeatures(w http.ResponseWriter, _ *http.Request) {
	features := make(map[string]Feature, len(featureCatalog))
	for i, f := range featureCatalog {
		features[strconv.Itoa(i+1)] = f
	}
	writeJSON(w, map[string]any{
		"features":        features,
		"total_features":  len(featureCatalog),
		"active_features": activeFeatures(),
		"total_endpoints": totalEndpoints(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
