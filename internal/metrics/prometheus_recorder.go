package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry         *prom.Registry
	documentDuration *prom.HistogramVec
	buildDuration    prom.Histogram
	snippets         *prom.CounterVec
	diagnostics      *prom.CounterVec
	buildOutcome     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the build metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.documentDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "snipdoc",
		Name:      "document_duration_seconds",
		Help:      "Duration of individual document conversions",
		Buckets:   prom.DefBuckets,
	}, []string{"document"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "snipdoc",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.snippets = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "snipdoc",
		Name:      "snippets_processed_total",
		Help:      "Snippets processed, by kind",
	}, []string{"kind"})
	pr.diagnostics = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "snipdoc",
		Name:      "diagnostics_total",
		Help:      "Diagnostics surfaced, by severity",
	}, []string{"severity"})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "snipdoc",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	reg.MustRegister(pr.documentDuration, pr.buildDuration, pr.snippets, pr.diagnostics, pr.buildOutcome)
	return pr
}

func (pr *PrometheusRecorder) ObserveDocumentDuration(doc string, d time.Duration) {
	pr.documentDuration.WithLabelValues(doc).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	pr.buildDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncSnippetProcessed(kind string) {
	pr.snippets.WithLabelValues(kind).Inc()
}

func (pr *PrometheusRecorder) IncDiagnostic(severity string) {
	pr.diagnostics.WithLabelValues(severity).Inc()
}

func (pr *PrometheusRecorder) IncBuildOutcome(outcome string) {
	pr.buildOutcome.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry for the preview server's /metrics endpoint.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
