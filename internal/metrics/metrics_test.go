package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/liquidationLevels", "200", 120*time.Millisecond)
	m.ObserveRequest("/liquidationLevels", "200", 80*time.Millisecond)
	m.ObserveRequest("/catalog", "error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("/liquidationLevels", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("/catalog", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.APILatency))
}

func TestObserveStep(t *testing.T) {
	m := New()
	m.ObserveStep("download", true, time.Second)
	m.ObserveStep("generate", false, 2*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepRuns.WithLabelValues("download", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepRuns.WithLabelValues("generate", "error")))
}

func TestSurveyAndSnapshots(t *testing.T) {
	m := New()
	m.ObserveSurveyFailure("heatmap")
	m.ObserveSnapshot()
	m.ObserveSnapshot()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SurveyFailures.WithLabelValues("heatmap")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnapshotsStored))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveSnapshot()

	path := filepath.Join(t.TempDir(), "hyblock.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hyblock_sdk_snapshots_stored_total 1"), string(data))

	assert.NoError(t, m.WriteTextfile(""))
}
