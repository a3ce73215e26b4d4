// Package metrics defines the Prometheus metric collectors used by the
// indexing pipeline and the webhook endpoint, and exposes an HTTP handler for
// scraping. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for eddy.
type Metrics struct {
	DocumentsAnalyzedTotal  prometheus.Counter
	ExtractionFailuresTotal prometheus.Counter
	ChunksSubmittedTotal    prometheus.Counter
	DocumentsTruncatedTotal prometheus.Counter
	KeywordsPerDocument     prometheus.Histogram
	IndexRunsTotal          *prometheus.CounterVec
	PersistDuration         prometheus.Histogram
	KeywordAppendsTotal     prometheus.Counter
	WebhookRequestsTotal    *prometheus.CounterVec
	WebhookRequestDuration  *prometheus.HistogramVec
}

// New creates all collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsAnalyzedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "eddy_documents_analyzed_total",
				Help: "Documents whose keywords were extracted successfully.",
			},
		),
		ExtractionFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "eddy_extraction_failures_total",
				Help: "Documents whose keyword extraction failed.",
			},
		),
		ChunksSubmittedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "eddy_chunks_submitted_total",
				Help: "Text chunks submitted to the phrase-extraction service.",
			},
		),
		DocumentsTruncatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "eddy_documents_truncated_total",
				Help: "Documents longer than the per-call budget whose tail was discarded.",
			},
		),
		KeywordsPerDocument: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eddy_keywords_per_document",
				Help:    "Keywords surviving the confidence filter per document.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		IndexRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eddy_index_runs_total",
				Help: "Index runs by outcome (success, extraction, store, encoding, ...).",
			},
			[]string{"status"},
		),
		PersistDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eddy_persist_duration_seconds",
				Help:    "Latency of the atomic reverse-map commit.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		KeywordAppendsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "eddy_keyword_appends_total",
				Help: "Document paths appended to keyword lists in committed runs.",
			},
		),
		WebhookRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eddy_webhook_requests_total",
				Help: "Webhook HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		WebhookRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eddy_webhook_request_duration_seconds",
				Help:    "Webhook HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(
		m.DocumentsAnalyzedTotal,
		m.ExtractionFailuresTotal,
		m.ChunksSubmittedTotal,
		m.DocumentsTruncatedTotal,
		m.KeywordsPerDocument,
		m.IndexRunsTotal,
		m.PersistDuration,
		m.KeywordAppendsTotal,
		m.WebhookRequestsTotal,
		m.WebhookRequestDuration,
	)

	return m
}

// ObserveDocument records one successfully analysed document.
func (m *Metrics) ObserveDocument(chunks int, truncated bool, keywords int) {
	if m == nil {
		return
	}
	m.DocumentsAnalyzedTotal.Inc()
	m.ChunksSubmittedTotal.Add(float64(chunks))
	if truncated {
		m.DocumentsTruncatedTotal.Inc()
	}
	m.KeywordsPerDocument.Observe(float64(keywords))
}

// ObserveExtractionFailure records one failed document.
func (m *Metrics) ObserveExtractionFailure() {
	if m == nil {
		return
	}
	m.ExtractionFailuresTotal.Inc()
}

// ObserveRun records the outcome of an index run.
func (m *Metrics) ObserveRun(status string, appends int) {
	if m == nil {
		return
	}
	m.IndexRunsTotal.WithLabelValues(status).Inc()
	m.KeywordAppendsTotal.Add(float64(appends))
}

// ObservePersist records the latency of a commit.
func (m *Metrics) ObservePersist(seconds float64) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(seconds)
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
