package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveDocumentDuration("doc.html", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncSnippetProcessed("block")
	r.IncDiagnostic("error")
	r.IncBuildOutcome("success")
}

func TestPrometheusRecorder_CountsAppearInExposition(t *testing.T) {
	reg := prom.NewRegistry()
	var r Recorder = NewPrometheusRecorder(reg)

	r.IncSnippetProcessed("block")
	r.IncSnippetProcessed("block")
	r.IncDiagnostic("warning")
	r.ObserveBuildDuration(250 * time.Millisecond)
	r.IncBuildOutcome("success")

	srv := httptest.NewServer(r.(*PrometheusRecorder).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	require.Contains(t, text, `snipdoc_snippets_processed_total{kind="block"} 2`)
	require.Contains(t, text, `snipdoc_diagnostics_total{severity="warning"} 1`)
	require.Contains(t, text, `snipdoc_build_outcomes_total{outcome="success"} 1`)
}
