package handler

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmModel "zenthera/internal/llmobs/models"
	"zenthera/internal/llmobs/service"
	"zenthera/internal/llmobs/store"
	"zenthera/pkg/testutil"
)

func newLLMRouter(t *testing.T) chi.Router {
	t.Helper()
	st := store.NewInMemory()
	store.SeedDemoData(st, "org_demo", time.Now().UTC())
	svc := service.New(st, slog.Default(), nil)
	h := New(svc, slog.Default(), nil, "org_demo")

	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestDashboard(t *testing.T) {
	router := newLLMRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/llm/dashboard"))
	testutil.AssertStatusOK(t, rr)

	dash := testutil.UnmarshalData[service.Dashboard](t, rr)
	assert.Equal(t, 4, dash.Overview.TotalInteractions)
	assert.Equal(t, 1, dash.Overview.TotalSessions)
	assert.Equal(t, 3, dash.Overview.HighRiskInteractions)
	assert.Equal(t, "24h", dash.TimeRange)
	assert.Equal(t, 4, dash.ModelUsage["gpt-4"])
}

func TestAnalyzeInteractionEndpoint(t *testing.T) {
	router := newLLMRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/llm/interactions", map[string]any{
		"organization_id": "org_demo",
		"model_name":      "gpt-4",
		"prompt":          "Help me with my homework",
		"response":        "You're too stupid to figure this out yourself.",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	result := testutil.UnmarshalData[service.AnalysisResult](t, rr)
	require.Len(t, result.RisksDetected, 1)
	assert.Equal(t, llmModel.RiskToxicity, result.RisksDetected[0].RiskType)
	assert.True(t, result.AnalysisSummary.RequiresReview)
	assert.NotEmpty(t, result.Interaction.ID)
}

func TestAnalyzeInteractionMissingFields(t *testing.T) {
	router := newLLMRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/llm/interactions", map[string]any{
		"model_name": "gpt-4",
		"prompt":     "p",
	})
	rr := testutil.DoRequest(router, req)
	msg := testutil.AssertErrorEnvelope(t, rr, http.StatusBadRequest)
	assert.Contains(t, msg, "required")
}

func TestListInteractionsCriticalOnly(t *testing.T) {
	router := newLLMRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/llm/interactions?risk_level=critical"))
	testutil.AssertStatusOK(t, rr)

	page := testutil.UnmarshalData[service.InteractionPage](t, rr)
	assert.Equal(t, 2, page.Pagination.TotalCount)
	for _, in := range page.Interactions {
		assert.NotZero(t, in.RiskCount)
	}
}

func TestListRisksEndpoint(t *testing.T) {
	router := newLLMRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/llm/risks?severity=critical"))
	testutil.AssertStatusOK(t, rr)

	page := testutil.UnmarshalData[service.RiskPage](t, rr)
	assert.Len(t, page.Risks, 2)
	assert.Equal(t, 2, page.Summary.TotalRisks)
	assert.Equal(t, 2, page.Summary.BySeverity[llmModel.SeverityCritical])
}

func TestPerformanceEndpoint(t *testing.T) {
	router := newLLMRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/llm/performance"))
	testutil.AssertStatusOK(t, rr)

	report := testutil.UnmarshalData[service.PerformanceReport](t, rr)
	assert.Equal(t, 4, report.OverallMetrics.TotalInteractions)
	require.Contains(t, report.ModelMetrics, "gpt-4")
	assert.InDelta(t, 1350, report.ModelMetrics["gpt-4"].AverageLatency, 0.001)
}

func TestPerformanceNoData(t *testing.T) {
	router := newLLMRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/llm/performance?organization_id=empty-org"))
	testutil.AssertStatusOK(t, rr)

	payload := testutil.UnmarshalData[map[string]any](t, rr)
	assert.Contains(t, (*payload)["message"], "No data available")
}

func TestCompareModelsEndpoint(t *testing.T) {
	router := newLLMRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/llm/models/compare", map[string]any{
		"organization_id": "org_demo",
		"models":          []string{"gpt-4", "claude-3"},
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	result := testutil.UnmarshalData[service.ComparisonResult](t, rr)
	// Only gpt-4 has traffic in the seed.
	assert.Equal(t, 1, result.Summary.ModelsAnalyzed)
	assert.Equal(t, "gpt-4", result.Summary.OverallWinner)

	bad := testutil.NewJSONRequest(t, http.MethodPost, "/api/llm/models/compare", map[string]any{
		"models": []string{"gpt-4", "claude-3"},
	})
	rr = testutil.DoRequest(router, bad)
	testutil.AssertErrorEnvelope(t, rr, http.StatusBadRequest)
}

func TestAssessQualityEndpoint(t *testing.T) {
	router := newLLMRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/llm/quality/assess", map[string]any{
		"interaction_id": "interaction_001",
		"assessor_id":    "reviewer-1",
		"metric_scores":  map[string]float64{"relevance": 0.9, "clarity": 0.7},
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	payload := testutil.UnmarshalData[struct {
		Assessment llmModel.QualityAssessment `json:"assessment"`
	}](t, rr)
	assert.Equal(t, "human", payload.Assessment.AssessmentMethod)
	assert.InDelta(t, 0.8, payload.Assessment.OverallScore, 0.001)

	missing := testutil.NewJSONRequest(t, http.MethodPost, "/api/llm/quality/assess", map[string]any{
		"interaction_id": "missing",
		"assessor_id":    "reviewer-1",
	})
	rr = testutil.DoRequest(router, missing)
	testutil.AssertErrorEnvelope(t, rr, http.StatusNotFound)
}

func TestSessionDetailsEndpoint(t *testing.T) {
	router := newLLMRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/llm/sessions/session_001"))
	testutil.AssertStatusOK(t, rr)

	detail := testutil.UnmarshalData[service.SessionDetail](t, rr)
	assert.Equal(t, "session_001", detail.Session.ID)
	assert.Len(t, detail.Interactions, 4)
	assert.Equal(t, 3, detail.Statistics.RiskCount)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/llm/sessions/missing"))
	testutil.AssertErrorEnvelope(t, rr, http.StatusNotFound)
}
