// Package httptransport assembles the public HTTP router from the feature
// handlers. It stays a thin layer: every route, middleware chain and payload
// decision lives with the feature that owns it.
package httptransport

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar is implemented by every feature handler that attaches routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter mounts the given feature handlers plus the prometheus scrape
// endpoint.
func NewRouter(handlers ...Registrar) chi.Router {
	r := chi.NewRouter()
	for _, h := range handlers {
		h.Register(r)
	}
	r.Handle("/metrics", promhttp.Handler())
	return r
}
