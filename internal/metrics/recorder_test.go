package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("members", time.Second)
	r.ObserveResolveDuration(time.Second)
	r.IncStageResult("members", ResultSuccess)
	r.AddStageItems("members", 1, 2)
	r.AddDiagnostics("ambiguity", 3)
	r.SetGraphSize("compounds", 4)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("inheritance", 150*time.Millisecond)
	pr.ObserveResolveDuration(500 * time.Millisecond)
	pr.IncStageResult("inheritance", ResultSuccess)
	pr.IncStageResult("inheritance", ResultWarning)
	pr.AddStageItems("inheritance", 4, 1)
	pr.AddDiagnostics("ambiguity", 2)
	pr.AddDiagnostics("rejection", 0)
	pr.SetGraphSize("compounds", 12)

	assert.Equal(t, 1.0, testutil.ToFloat64(pr.stageResults.WithLabelValues("inheritance", "warning")))
	assert.Equal(t, 4.0, testutil.ToFloat64(pr.stageItems.WithLabelValues("inheritance", "resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.stageItems.WithLabelValues("inheritance", "unresolved")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.diagnostics.WithLabelValues("ambiguity")))
	assert.Equal(t, 12.0, testutil.ToFloat64(pr.graphSize.WithLabelValues("compounds")))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	t.Run("Textfile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "symgraph.prom")
		require.NoError(t, pr.WriteTextfile(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "symgraph_graph_entities")
	})

	t.Run("Nil receiver", func(t *testing.T) {
		var nilRec *PrometheusRecorder
		nilRec.IncStageResult("x", ResultFatal)
	})
}
