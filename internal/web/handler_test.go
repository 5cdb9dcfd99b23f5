package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenthera/pkg/testutil"
)

func newWebRouter(t *testing.T) chi.Router {
	t.Helper()
	r := chi.NewRouter()
	New(slog.Default()).Register(r)
	return r
}

func TestDashboardPage(t *testing.T) {
	router := newWebRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	body := rr.Body.String()
	assert.Contains(t, body, "AI Compliance Dashboard")
	assert.Contains(t, body, "72.9%")
	assert.Contains(t, body, "EU AI Act")
	assert.Contains(t, body, "89.2%")
	assert.Contains(t, body, "5/7 Features Active")
}

func TestFeaturesPage(t *testing.T) {
	router := newWebRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/features"))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, "Regulation Sync Module")
	assert.Contains(t, body, "Synthetic Testing Sandbox")
	assert.Contains(t, body, "Narrative Explainability &amp; Replay")
}

func TestHealthEndpoint(t *testing.T) {
	router := newWebRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/health"))
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Status   string   `json:"status"`
		Service  string   `json:"service"`
		Version  string   `json:"version"`
		Features []string `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, "healthy", payload.Status)
	assert.Equal(t, "ZenThera AI Ethics Platform", payload.Service)
	assert.Equal(t, "1.0.0", payload.Version)
	assert.Len(t, payload.Features, 7)
}

func TestFeaturesEndpoint(t *testing.T) {
	router := newWebRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/features"))
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Features       map[string]Feature `json:"features"`
		TotalFeatures  int                `json:"total_features"`
		ActiveFeatures int                `json:"active_features"`
		TotalEndpoints int                `json:"total_endpoints"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	assert.Equal(t, 7, payload.TotalFeatures)
	assert.Equal(t, 5, payload.ActiveFeatures)
	require.Contains(t, payload.Features, "1")
	assert.Equal(t, "ZenThera Compliance Grid (ZCG)", payload.Features["1"].Name)
	assert.True(t, strings.HasPrefix(payload.Features["2"].Name, "Regulation"))
	assert.Equal(t, payload.TotalEndpoints, 8+13+9+12+15)
}
