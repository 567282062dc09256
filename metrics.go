package fiberswaggerui

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors updated by the documentation handlers
type Metrics struct {
	ViewerLoads       prometheus.Counter
	DiscoveryRequests prometheus.Counter
	DocumentRequests  *prometheus.CounterVec
	gatherer          prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		ViewerLoads:       prometheus.NewCounter(prometheus.CounterOpts{Name: "swaggerui_viewer_loads_total", Help: "Viewer pages served"}),
		DiscoveryRequests: prometheus.NewCounter(prometheus.CounterOpts{Name: "swaggerui_discovery_requests_total", Help: "Discovery documents served"}),
		DocumentRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "swaggerui_document_requests_total", Help: "API documents served"}, []string{"group", "format"}),
		gatherer:          reg,
	}
	reg.MustRegister(m.ViewerLoads, m.DiscoveryRequests, m.DocumentRequests)
	return m
}

// Handler exposes the collectors in the Prometheus text format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

func (m *Metrics) viewerLoaded() {
	if m != nil {
		m.ViewerLoads.Inc()
	}
}

func (m *Metrics) discoveryServed() {
	if m != nil {
		m.DiscoveryRequests.Inc()
	}
}

func (m *Metrics) documentServed(group, format string) {
	if m != nil {
		m.DocumentRequests.WithLabelValues(group, format).Inc()
	}
}
