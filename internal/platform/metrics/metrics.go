package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Feature modules register
// their own metrics in their metrics packages.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	PanicsTotal  prometheus.Counter
}

// New creates and registers all process-wide Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zenthera_http_requests_total",
			Help: "Total HTTP requests by method, route and status class",
		}, []string{"method", "route", "status"}),

		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zenthera_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		PanicsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zenthera_http_panics_recovered_total",
			Help: "Total panics recovered by the HTTP recovery middleware",
		}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, status).Inc()
		m.HTTPLatency.WithLabelValues(method, route).Observe(d.Seconds())
	}
}

// IncrementPanics records a recovered panic.
func (m *Metrics) IncrementPanics() {
	if m != nil {
		m.PanicsTotal.Inc()
	}
}
