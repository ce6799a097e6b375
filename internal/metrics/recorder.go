// Package metrics provides observability hooks for snipdoc builds.
//
// Components receive a Recorder through dependency injection and default
// to NoopRecorder, so metrics cost nothing unless a real implementation
// (PrometheusRecorder) is injected — the preview server does this when
// metrics are enabled.
package metrics

import "time"

// Recorder defines the build observability hooks. All methods must be
// cheap no-ops in the default implementation.
type Recorder interface {
	ObserveDocumentDuration(doc string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncSnippetProcessed(kind string) // kind: block|inline|output
	IncDiagnostic(severity string)
	IncBuildOutcome(outcome string) // outcome: success|failed
}

// NoopRecorder is a Recorder that does nothing (default when metrics are
// not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)            {}
func (NoopRecorder) IncSnippetProcessed(string)                    {}
func (NoopRecorder) IncDiagnostic(string)                          {}
func (NoopRecorder) IncBuildOutcome(string)                        {}
