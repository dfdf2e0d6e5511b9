package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Register(t *testing.T) {
	m := New()
	registry := prometheus.NewRegistry()
	assert.NoError(t, m.Register(registry))
	// registering the same collectors twice fails
	assert.Error(t, m.Register(registry))
}

func TestMetrics_Counters(t *testing.T) {
	m := New()
	registry := prometheus.NewRegistry()
	assert.NoError(t, m.Register(registry))

	m.RunFinished("COMPLETED")
	m.RunFinished("COMPLETED")
	m.RunFinished("FAILED")
	m.StageRetried("analysis")
	m.ObserveStage("analysis", 120*time.Millisecond, true)
	m.ObserveStage("deployment", 80*time.Millisecond, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageRetries.WithLabelValues("analysis")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stageDuration, "cascade_stage_duration_seconds"))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NoError(t, m.Register(prometheus.NewRegistry()))
	m.RunFinished("COMPLETED")
	m.ObserveStage("analysis", time.Second, true)
	m.StageRetried("analysis")
}
