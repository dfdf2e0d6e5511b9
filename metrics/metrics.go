// Package metrics exposes Prometheus collectors for the orchestration
// engine: terminal run counts, per-stage durations and retry totals. A nil
// *Metrics is valid and records nothing, so instrumentation stays optional.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine collectors.
type Metrics struct {
	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stageRetries  *prometheus.CounterVec
}

// New creates the collector set; call Register to attach it to a registry.
func New() *Metrics {
	return &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_runs_total",
				Help: "Total runs by terminal status",
			},
			[]string{"status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "cascade_stage_duration_seconds",
				Help: "Stage execution duration including retries",
			},
			[]string{"stage", "outcome"},
		),
		stageRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_stage_retries_total",
				Help: "Total retry attempts per stage",
			},
			[]string{"stage"},
		),
	}
}

// Register attaches all collectors to the supplied registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if m == nil || reg == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{m.runsTotal, m.stageDuration, m.stageRetries} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RunFinished records a run reaching the given terminal status.
func (m *Metrics) RunFinished(status string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
}

// ObserveStage records the total duration of a stage execution.
func (m *Metrics) ObserveStage(stage string, d time.Duration, success bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.stageDuration.WithLabelValues(stage, outcome).Observe(d.Seconds())
}

// StageRetried counts one retry attempt of a stage.
func (m *Metrics) StageRetried(stage string) {
	if m == nil {
		return
	}
	m.stageRetries.WithLabelValues(stage).Inc()
}
