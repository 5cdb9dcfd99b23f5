package config

import "os"

// Server captures process level configuration.
type Server struct {
	Addr         string
	DefaultOrgID string
	SeedDemoData bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ZENTHERA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	orgID := os.Getenv("ZENTHERA_DEFAULT_ORG")
	if orgID == "" {
		orgID = "org_demo"
	}

	// Demo data is seeded unless explicitly disabled.
	seed := os.Getenv("ZENTHERA_SEED_DEMO") != "false"

	return Server{
		Addr:         addr,
		DefaultOrgID: orgID,
		SeedDemoData: seed,
	}
}
