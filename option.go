package cascade

import (
	"log/slog"

	"github.com/universalpress/cascade/metrics"
	"github.com/universalpress/cascade/reasoning"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/runtime/executor"
	"github.com/universalpress/cascade/service/dao"
	"github.com/universalpress/cascade/stage"
	"github.com/universalpress/cascade/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the engine service.
type Option func(s *Service)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithReasoner installs the external reasoning capability used by stage
// implementations; absent, the built-in stages rely on their heuristics.
func WithReasoner(r reasoning.Reasoner) Option {
	return func(s *Service) { s.reasoner = r }
}

// WithClassifier replaces the default transient/fatal failure classifier.
func WithClassifier(c executor.Classifier) Option {
	return func(s *Service) { s.classifier = c }
}

// WithSnapshotStore sets the status-snapshot store (memory, fs or redis).
func WithSnapshotStore(store dao.Service[string, execution.Snapshot]) Option {
	return func(s *Service) { s.store = store }
}

// WithMetrics attaches a Prometheus collector set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithStage overrides the implementation bound to a stage kind.
func WithStage(kind stage.Kind, impl stage.Stage) Option {
	return func(s *Service) { s.stages[kind] = impl }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. Safe to call multiple times – the first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry with a custom span exporter
// (OTLP, Jaeger, Zipkin, in-memory for tests).
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
