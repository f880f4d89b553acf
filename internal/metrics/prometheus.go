// SPDX-License-Identifier: MIT
//
// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the trim service. Collectors are
// registered on a private registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	// Trim metrics
	TrimsTotal      *prometheus.CounterVec // by result: ok, invalid_window, empty_signal, decode_error
	TrimDuration    prometheus.Histogram
	TrimOutputBytes prometheus.Histogram
	TrimmedSeconds  prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Event transport
	EventClients prometheus.Gauge
}

// NewMetrics creates and registers all metrics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		TrimsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audiotrim_trims_total",
			Help: "Total number of trim operations by result",
		}, []string{"result"}),
		TrimDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audiotrim_trim_duration_seconds",
			Help:    "Wall time spent decoding, trimming and encoding a request",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
		TrimOutputBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audiotrim_trim_output_bytes",
			Help:    "Size of encoded trim outputs in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB to ~256MiB
		}),
		TrimmedSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audiotrim_trimmed_audio_seconds",
			Help:    "Length of trimmed audio in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17 minutes
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audiotrim_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audiotrim_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),

		EventClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "audiotrim_event_clients",
			Help: "Current number of connected event stream clients",
		}),
	}
}

// RecordTrim records the outcome of one trim request.
func (m *Metrics) RecordTrim(result string, seconds float64, outputBytes int, audioSeconds float64) {
	m.TrimsTotal.WithLabelValues(result).Inc()
	m.TrimDuration.Observe(seconds)
	if result == "ok" {
		m.TrimOutputBytes.Observe(float64(outputBytes))
		m.TrimmedSeconds.Observe(audioSeconds)
	}
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, status string, seconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
