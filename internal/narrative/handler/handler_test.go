package handler

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/internal/narrative/service"
	"zenthera/internal/narrative/store"
	"zenthera/pkg/testutil"
)

func newNarrativeRouter(t *testing.T) chi.Router {
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
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/dashboard"))
	testutil.AssertStatusOK(t, rr)

	dash := testutil.UnmarshalData[service.Dashboard](t, rr)
	assert.Equal(t, 1, dash.Overview.TotalSessionReplays)
	assert.Equal(t, 1, dash.Overview.TotalAuditTrails)
	assert.Equal(t, 2, dash.Overview.PendingActionItems)
	assert.Equal(t, "24h", dash.TimeRange)
}

func TestListReplaysEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/replays?tags=privacy"))
	testutil.AssertStatusOK(t, rr)

	page := testutil.UnmarshalData[service.ReplayPage](t, rr)
	require.Len(t, page.Replays, 1)
	assert.Equal(t, 5, page.Replays[0].EventCount)
	assert.Equal(t, 1, page.Pagination.TotalCount)
}

func TestCreateReplayEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/narrative/replays", map[string]any{
		"session_id":      "session_042",
		"organization_id": "org_demo",
		"created_by":      "user_001",
		"replay_name":     "Follow-up session",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	payload := testutil.UnmarshalData[map[string]any](t, rr)
	assert.Equal(t, "Session replay created successfully", (*payload)["message"])

	missing := testutil.NewJSONRequest(t, http.MethodPost, "/api/narrative/replays", map[string]any{
		"organization_id": "org_demo",
	})
	rr = testutil.DoRequest(router, missing)
	msg := testutil.AssertErrorEnvelope(t, rr, http.StatusBadRequest)
	assert.Contains(t, msg, "required")
}

func TestReplayEventsEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/replays/replay_001/events"))
	testutil.AssertStatusOK(t, rr)

	timeline := testutil.UnmarshalData[service.EventTimeline](t, rr)
	assert.Equal(t, 5, timeline.TotalEvents)
	assert.Equal(t, "replay_001", timeline.ReplayID)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/replays/missing/events"))
	testutil.AssertErrorEnvelope(t, rr, http.StatusNotFound)
}

func TestListExplanationsEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/explanations?explanation_type=risk_explanation"))
	testutil.AssertStatusOK(t, rr)

	page := testutil.UnmarshalData[service.ExplanationPage](t, rr)
	require.Len(t, page.Explanations, 1)
	assert.Equal(t, "Privacy Leak Detection: Executive Summary", page.Explanations[0].Title)
}

func TestGenerateExplanationEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/narrative/explanations", map[string]any{
		"organization_id":  "org_demo",
		"explanation_type": "decision_rationale",
		"target_entity_id": "interaction_001",
		"narrative_style":  "executive",
		"interaction_data": map[string]any{
			"prompt":     "What is the capital of France?",
			"response":   "The capital of France is Paris.",
			"model_name": "gpt-4",
			"latency_ms": 1200,
		},
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	payload := testutil.UnmarshalData[map[string]any](t, rr)
	assert.Equal(t, "Narrative explanation generated successfully", (*payload)["message"])

	bad := testutil.NewJSONRequest(t, http.MethodPost, "/api/narrative/explanations", map[string]any{
		"organization_id":  "org_demo",
		"explanation_type": "bogus",
		"target_entity_id": "interaction_001",
	})
	rr = testutil.DoRequest(router, bad)
	testutil.AssertErrorEnvelope(t, rr, http.StatusBadRequest)
}

func TestListAlignmentsEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/ethical-alignment"))
	testutil.AssertStatusOK(t, rr)

	page := testutil.UnmarshalData[service.AlignmentPage](t, rr)
	assert.Equal(t, 1, page.Summary.TotalAssessments)
	assert.Equal(t, 1, page.Summary.HighRiskCount)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/ethical-alignment?min_score=0.5"))
	testutil.AssertStatusOK(t, rr)
	page = testutil.UnmarshalData[service.AlignmentPage](t, rr)
	assert.Zero(t, page.Summary.TotalAssessments)
}

func TestAssessAlignmentEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/narrative/ethical-alignment", map[string]any{
		"organization_id":  "org_demo",
		"target_entity_id": "interaction_042",
		"interaction_data": map[string]any{
			"prompt":     "How do I plan my week?",
			"response":   "I can help you solve this. You could consider several options, and it's up to you to decide.",
			"model_name": "gpt-4",
		},
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	payload := testutil.UnmarshalData[struct {
		Summary service.AssessmentSummary `json:"assessment_summary"`
		Message string                    `json:"message"`
	}](t, rr)
	assert.InDelta(t, 0.9, payload.Summary.OverallScore, 0.001)
	assert.Equal(t, "Ethical alignment assessment completed", payload.Message)

	missing := testutil.NewJSONRequest(t, http.MethodPost, "/api/narrative/ethical-alignment", map[string]any{
		"organization_id": "org_demo",
	})
	rr = testutil.DoRequest(router, missing)
	testutil.AssertErrorEnvelope(t, rr, http.StatusBadRequest)
}

func TestAuditTrailsEndpoints(t *testing.T) {
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/audit-trails?risk_level=critical"))
	testutil.AssertStatusOK(t, rr)

	page := testutil.UnmarshalData[service.AuditPage](t, rr)
	require.Len(t, page.AuditTrails, 1)
	assert.Equal(t, 1, page.Summary.ByRiskLevel["critical"])

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/narrative/audit-trails", map[string]any{
		"organization_id":   "org_demo",
		"audit_type":        "compliance",
		"target_entity_id":  "session_042",
		"auditor_id":        "auditor_001",
		"compliance_status": "needs_review",
		"risk_level":        "medium",
	})
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	payload := testutil.UnmarshalData[map[string]any](t, rr)
	assert.Equal(t, "Audit trail created successfully", (*payload)["message"])
}

func TestListTemplatesEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/templates"))
	testutil.AssertStatusOK(t, rr)

	page := testutil.UnmarshalData[service.TemplatePage](t, rr)
	require.Len(t, page.Templates, 1)
	assert.Equal(t, "Executive Risk Briefing", page.Templates[0].TemplateName)
}

func TestExportReplayEndpoint(t *testing.T) {
	router := newNarrativeRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/replay/replay_001/export"))
	testutil.AssertStatusOK(t, rr)

	export := testutil.UnmarshalData[service.ReplayExport](t, rr)
	assert.Equal(t, "zenthera_replay_v1.0", export.ExportFormat)
	assert.Len(t, export.Events, 5)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/narrative/replay/missing/export"))
	testutil.AssertErrorEnvelope(t, rr, http.StatusNotFound)
}
