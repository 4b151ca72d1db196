// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// History metrics
	OrdersListed   prometheus.Counter
	OrderFetches   *prometheus.CounterVec
	CacheLookups   *prometheus.CounterVec
	ArchivedOrders prometheus.Counter

	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	ProductsRanked   prometheus.Histogram

	// Upstream API metrics
	APICallLatency *prometheus.HistogramVec
	APICallErrors  *prometheus.CounterVec

	// Tool metrics
	ToolInvocations *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "grocery_report"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		OrdersListed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "orders_listed_total",
			Help:      "Total number of order summaries returned by history listings",
		}),
		OrderFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "order_fetch_total",
			Help:      "Total number of order detail fetches by result",
		}, []string{"result"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "cache_lookups_total",
			Help:      "Total number of order detail cache lookups by result",
		}, []string{"result"}),
		ArchivedOrders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "archived_orders_total",
			Help:      "Total number of order details written to the archive",
		}),

		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "frequency",
			Name:      "analyses_total",
			Help:      "Total number of frequency analyses by outcome",
		}, []string{"outcome"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "frequency",
			Name:      "analysis_duration_seconds",
			Help:      "Frequency analysis duration in seconds, fetches included",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		ProductsRanked: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "frequency",
			Name:      "distinct_products",
			Help:      "Distinct products seen per analysis",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),

		APICallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "call_latency_seconds",
			Help:      "Grocery API call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		APICallErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "call_errors_total",
			Help:      "Total number of failed grocery API calls",
		}, []string{"endpoint"}),

		ToolInvocations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tools",
			Name:      "invocations_total",
			Help:      "Total number of tool invocations by tool and status",
		}, []string{"tool", "status"}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordOrdersListed adds n listed order summaries.
func (m *Metrics) RecordOrdersListed(n int) {
	if m == nil {
		return
	}
	m.OrdersListed.Add(float64(n))
}

// RecordOrderFetch records one order detail fetch ("ok", "failed", "not_found", ...).
func (m *Metrics) RecordOrderFetch(result string) {
	if m == nil {
		return
	}
	m.OrderFetches.WithLabelValues(result).Inc()
}

// RecordCacheLookup records a cache "hit", "miss" or "error".
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// RecordArchived increments the archived orders counter.
func (m *Metrics) RecordArchived() {
	if m == nil {
		return
	}
	m.ArchivedOrders.Inc()
}

// RecordAnalysis records a finished analysis.
func (m *Metrics) RecordAnalysis(outcome string, durationSeconds float64, distinctProducts int) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(durationSeconds)
	m.ProductsRanked.Observe(float64(distinctProducts))
}

// RecordAPICall records upstream API call latency and failure.
func (m *Metrics) RecordAPICall(endpoint string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.APICallLatency.WithLabelValues(endpoint).Observe(seconds)
	if err != nil {
		m.APICallErrors.WithLabelValues(endpoint).Inc()
	}
}

// RecordToolInvocation records a tool call with status "ok" or "error".
func (m *Metrics) RecordToolInvocation(tool, status string) {
	if m == nil {
		return
	}
	m.ToolInvocations.WithLabelValues(tool, status).Inc()
}
