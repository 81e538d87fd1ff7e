package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MetricsHandler exposes the Prometheus scrape endpoint
type MetricsHandler struct {
	prometheus http.Handler
}

// NewMetricsHandler creates a metrics handler around the Prometheus
// handler produced during OTel initialization.
func NewMetricsHandler(prometheus http.Handler) *MetricsHandler {
	return &MetricsHandler{prometheus: prometheus}
}

// Routes returns the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetMetrics)
	return r
}

// GetMetrics handles GET /metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.Error(w, "metrics not initialized", http.StatusServiceUnavailable)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}
