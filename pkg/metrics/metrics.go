// Package metrics exposes Prometheus instrumentation for the dump pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service metrics on a private registry so tests can
// create independent instances.
type Collector struct {
	registry *prometheus.Registry

	dumpsTotal      *prometheus.CounterVec
	bytesWritten    prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with all service metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Collector{registry: registry}

	c.dumpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jsondump",
			Name:      "dumps_total",
			Help:      "Total number of dump requests by outcome",
		},
		[]string{"outcome"},
	)

	c.bytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jsondump",
			Name:      "bytes_written_total",
			Help:      "Total payload bytes committed to storage",
		},
	)

	c.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jsondump",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(c.dumpsTotal, c.bytesWritten, c.requestDuration)

	return c
}

// RecordDump counts one dump request outcome and, on success, the bytes
// committed.
func (c *Collector) RecordDump(outcome string, bytes int64) {
	c.dumpsTotal.WithLabelValues(outcome).Inc()
	if bytes > 0 {
		c.bytesWritten.Add(float64(bytes))
	}
}

// ObserveRequest records the duration of one HTTP request.
func (c *Collector) ObserveRequest(method, path string, seconds float64) {
	c.requestDuration.WithLabelValues(method, path).Observe(seconds)
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
