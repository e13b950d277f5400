package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObservePhaseDuration("load", 150*time.Millisecond)
	pr.IncParsed(KindPage)
	pr.IncParsed(KindPage)
	pr.IncParsed(KindIndex)
	pr.IncExported(KindPage)
	pr.IncAssetsCopied()
	pr.IncBuildOutcome(OutcomeSuccess)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.parsed.WithLabelValues(KindPage)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.parsed.WithLabelValues(KindIndex)))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.assets))

	mfs, err := pr.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(OutcomeFailed)
	name := filepath.Join(t.TempDir(), "quire.prom")
	require.NoError(t, pr.WriteTextfile(name))

	b, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(b), `quire_build_outcomes_total{outcome="failed"} 1`)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObservePhaseDuration("export", time.Second)
	r.IncParsed(KindIndex)
	r.IncExported(KindIndex)
	r.IncAssetsCopied()
	r.IncBuildOutcome(OutcomeSuccess)
}
