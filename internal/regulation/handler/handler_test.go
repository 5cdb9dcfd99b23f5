package handler

import (
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/internal/regulation/models"
	"zenthera/internal/regulation/service"
	"zenthera/internal/regulation/store"
	"zenthera/pkg/testutil"
)

func newRegulationRouter(t *testing.T) (chi.Router, *store.InMemory) {
	t.Helper()
	st := store.NewInMemory()
	store.SeedReferenceData(st, time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	svc := service.New(st, slog.Default())
	h := New(svc, slog.Default(), nil)

	r := chi.NewRouter()
	h.Register(r)
	return r, st
}

func TestDashboardSeeded(t *testing.T) {
	router, _ := newRegulationRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/regulation/dashboard"))
	testutil.AssertStatusOK(t, rr)

	dash := testutil.UnmarshalData[service.Dashboard](t, rr)
	assert.Equal(t, 2, dash.Summary.TotalRegulations)
	assert.Equal(t, 1, dash.RegulationBreakdown["ai_act"])
	assert.Equal(t, 1, dash.RegulationBreakdown["gdpr"])
	assert.InDelta(t, 78.5, dash.ComplianceStatus.AIActReady, 0.001)
	assert.InDelta(t, 92.3, dash.ComplianceStatus.GDPRCompliant, 0.001)
	assert.InDelta(t, 78.5*0.6+92.3*0.4, dash.ComplianceStatus.OverallScore, 0.001)
}

func TestListRegulationsSearch(t *testing.T) {
	router, _ := newRegulationRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/regulation/regulations?search=artificial"))
	testutil.AssertStatusOK(t, rr)

	payload := testutil.UnmarshalData[struct {
		Regulations []models.Regulation `json:"regulations"`
		Total       int                 `json:"total"`
	}](t, rr)
	require.Equal(t, 1, payload.Total)
	assert.Equal(t, "ai_act", payload.Regulations[0].RegulationType)
}

func TestRegulationDetailNotFound(t *testing.T) {
	router, _ := newRegulationRouter(t)
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/regulation/regulations/missing"))
	testutil.AssertErrorEnvelope(t, rr, http.StatusNotFound)
}

func TestAlertFlow(t *testing.T) {
	router, st := newRegulationRouter(t)

	regs, err := st.ListRegulations(testutil.NewRequest(t, http.MethodGet, "/").Context(), store.RegulationFilter{Type: "ai_act"})
	require.NoError(t, err)
	require.Len(t, regs, 1)

	create := testutil.NewJSONRequest(t, http.MethodPost, "/api/regulation/alerts", map[string]any{
		"regulation_id": regs[0].ID,
		"alert_type":    "deadline",
		"title":         "High-risk registration deadline",
		"description":   "Registration of high-risk systems is due.",
		"impact_level":  "high",
		"deadline":      "2026-09-30T00:00:00Z",
	})
	rr := testutil.DoRequest(router, create)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalData[struct {
		Alert models.Alert `json:"alert"`
	}](t, rr)
	// high impact + deadline modifier.
	assert.Equal(t, 1, created.Alert.Priority)
	require.NotNil(t, created.Alert.Deadline)

	ack := testutil.NewJSONRequest(t, http.MethodPut,
		"/api/regulation/alerts/"+created.Alert.ID+"/acknowledge",
		map[string]any{"user_id": "alice", "notes": "on it"})
	rr = testutil.DoRequest(router, ack)
	testutil.AssertStatusOK(t, rr)
	acked := testutil.UnmarshalData[struct {
		Alert models.Alert `json:"alert"`
	}](t, rr)
	assert.Equal(t, models.AlertAcknowledged, acked.Alert.Status)
	assert.Contains(t, acked.Alert.AcknowledgedBy, "alice")

	resolve := testutil.NewJSONRequest(t, http.MethodPut,
		"/api/regulation/alerts/"+created.Alert.ID+"/resolve",
		map[string]any{"user_id": "bob", "notes": "registered"})
	rr = testutil.DoRequest(router, resolve)
	testutil.AssertStatusOK(t, rr)
	resolved := testutil.UnmarshalData[struct {
		Alert models.Alert `json:"alert"`
	}](t, rr)
	assert.Equal(t, models.AlertResolved, resolved.Alert.Status)
	assert.False(t, resolved.Alert.ActionRequired)

	list := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/regulation/alerts"))
	testutil.AssertStatusOK(t, list)
	alerts := testutil.UnmarshalData[service.AlertList](t, list)
	assert.Equal(t, 1, alerts.Total)
	assert.Equal(t, 0, alerts.Summary.Active)
	assert.Equal(t, 1, alerts.Summary.HighPriority)
}

func TestCreateAlertMissingRegulation(t *testing.T) {
	router, _ := newRegulationRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/regulation/alerts", map[string]any{
		"regulation_id": "missing",
		"alert_type":    "amendment",
		"title":         "t",
		"description":   "d",
		"impact_level":  "medium",
	})
	rr := testutil.DoRequest(router, req)
	testutil.AssertErrorEnvelope(t, rr, http.StatusNotFound)
}

func TestTemplateUsageAndValidation(t *testing.T) {
	router, st := newRegulationRouter(t)

	list := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/regulation/templates"))
	testutil.AssertStatusOK(t, list)
	templates := testutil.UnmarshalData[struct {
		Templates []models.Template `json:"templates"`
	}](t, list)
	require.Len(t, templates.Templates, 1)
	tplID := templates.Templates[0].ID

	get := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/regulation/templates/"+tplID))
	testutil.AssertStatusOK(t, get)
	fetched := testutil.UnmarshalData[struct {
		Template models.Template `json:"template"`
	}](t, get)
	assert.Equal(t, 1, fetched.Template.UsageCount)

	stored, err := st.PeekTemplate(testutil.NewRequest(t, http.MethodGet, "/").Context(), tplID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsageCount)

	validate := testutil.NewJSONRequest(t, http.MethodPost,
		"/api/regulation/templates/"+tplID+"/validate",
		map[string]any{"content": map[string]any{
			"system_name":      "triage-assistant",
			"intended_purpose": "hospital triage",
		}})
	rr := testutil.DoRequest(router, validate)
	testutil.AssertStatusOK(t, rr)
	result := testutil.UnmarshalData[models.ValidationResult](t, rr)
	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "prohibited_practices")
	// 2 of 10 declared fields filled.
	assert.InDelta(t, 20, result.CompletionPercentage, 0.001)
}

func TestMonitorEndpoints(t *testing.T) {
	router, _ := newRegulationRouter(t)

	create := testutil.NewJSONRequest(t, http.MethodPost, "/api/regulation/monitors", map[string]any{
		"name":                   "AI Act watch",
		"regulation_types":       []string{"ai_act"},
		"sources":                []string{"eur_lex"},
		"organization_id":        "org-a",
		"notification_threshold": "high",
	})
	rr := testutil.DoRequest(router, create)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalData[struct {
		Monitor models.Monitor `json:"monitor"`
	}](t, rr)
	assert.True(t, created.Monitor.IsActive)
	assert.Equal(t, models.ImpactHigh, created.Monitor.NotificationThreshold)

	list := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/regulation/monitors?organization_id=org-a"))
	testutil.AssertStatusOK(t, list)
	monitors := testutil.UnmarshalData[struct {
		Monitors []models.Monitor `json:"monitors"`
		Total    int              `json:"total"`
	}](t, list)
	assert.Equal(t, 1, monitors.Total)
}

func TestSyncEurLex(t *testing.T) {
	router, _ := newRegulationRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/regulation/sync/eur-lex", nil))
	testutil.AssertStatusOK(t, rr)
	result := testutil.UnmarshalData[service.SyncResult](t, rr)
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, 15, result.DocumentsChecked)
	require.NotNil(t, result.SampleAlert)
	assert.Equal(t, models.AlertTypeAmendment, result.SampleAlert.AlertType)

	// Sync stops generating sample alerts once five alerts exist.
	for i := 0; i < 6; i++ {
		rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/regulation/sync/eur-lex", nil))
		testutil.AssertStatusOK(t, rr)
	}
	final := testutil.UnmarshalData[service.SyncResult](t, rr)
	assert.Equal(t, 0, final.AlertsGenerated)
	assert.Nil(t, final.SampleAlert)
}
