// Package web serves the HTML dashboard pages and the service-level health
// and feature-catalog JSON endpoints.
package web

// ServiceName is the public name reported by the health endpoint.
const ServiceName = "ZenThera AI Ethics Platform"

// ServiceVersion is the reported platform version.
const ServiceVersion = "1.0.0"

// Feature is one entry in the platform feature catalog.
type Feature struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Endpoints   int    `json:"endpoints"`
	Description string `json:"description"`
}

// FrameworkScore is one compliance framework's current standing.
type FrameworkScore struct {
	Name   string
	Score  float64
	Status string
}

// featureCatalog lists every platform feature in presentation order. Endpoint
// counts track the routes each module actually registers.
var featureCatalog = []Feature{
	{
		Name:        "ZenThera Compliance Grid (ZCG)",
		Status:      "active",
		Endpoints:   8,
		Description: "Central compliance dashboard with metrics, alerts and automated reporting",
	},
	{
		Name:        "Regulation Sync Module",
		Status:      "active",
		Endpoints:   13,
		Description: "Automated monitoring of AI regulations (AI Act, GDPR) with intelligent alerts",
	},
	{
		Name:        "LLM Observability Engine",
		Status:      "active",
		Endpoints:   9,
		Description: "Advanced LLM monitoring with risk detection and performance analysis",
	},
	{
		Name:        "Narrative Explainability & Replay",
		Status:      "active",
		Endpoints:   12,
		Description: "Session replay and narrative explanations for audit purposes",
	},
	{
		Name:        "Failure Detection & Alert System",
		Status:      "active",
		Endpoints:   15,
		Description: "Advanced failure detection with real-time alerts",
	},
	{
		Name:        "Bias & Dataset Tracker",
		Status:      "planned",
		Endpoints:   0,
		Description: "Bias tracking and mitigation in datasets and models",
	},
	{
		Name:        "Synthetic Testing Sandbox",
		Status:      "planned",
		Endpoints:   0,
		Description: "Synthetic testing environment for regulatory validation",
	},
}

// overallComplianceScore and frameworkScores back the dashboard page.
const overallComplianceScore = 72.9

var frameworkScores = []FrameworkScore{
	{Name: "EU AI Act", Score: 68.5, Status: "needs_attention"},
	{Name: "GDPR", Score: 89.2, Status: "compliant"},
	{Name: "ISO 27001", Score: 71.8, Status: "needs_attention"},
	{Name: "SOC2", Score: 62.1, Status: "needs_attention"},
}

func activeFeatures() int {
	n := 0
	for _, f := range featureCatalog {
		if f.Status == "active" {
			n++
		}
	}
	return n
}

func totalEndpoints() int {
	n := 0
	for _, f := range featureCatalog {
		n += f.Endpoints
	}
	return n
}

func featureNames() []string {
	names := make([]string, 0, len(featureCatalog))
	for _, f := range featureCatalog {
		names = append(names, f.Name)
	}
	return names
}
