package cascade

import (
	"log/slog"
	"time"

	"github.com/universalpress/cascade/internal/logging"
	"github.com/universalpress/cascade/metrics"
	"github.com/universalpress/cascade/reasoning"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/runtime/executor"
	"github.com/universalpress/cascade/runtime/orchestrator"
	"github.com/universalpress/cascade/service/dao"
	"github.com/universalpress/cascade/service/dao/snapshot/memory"
	"github.com/universalpress/cascade/service/status"
	sanalysis "github.com/universalpress/cascade/service/stage/analysis"
	scompliance "github.com/universalpress/cascade/service/stage/compliance"
	sdeployment "github.com/universalpress/cascade/service/stage/deployment"
	sreporting "github.com/universalpress/cascade/service/stage/reporting"
	srouting "github.com/universalpress/cascade/service/stage/routing"
	stargeting "github.com/universalpress/cascade/service/stage/targeting"
	"github.com/universalpress/cascade/stage"
)

// Service assembles the distribution engine: the stage registry with its
// built-in implementations, the resilient runtime, the orchestrator and the
// status registry.
type Service struct {
	config     *Config
	logger     *slog.Logger
	reasoner   reasoning.Reasoner
	classifier executor.Classifier
	metrics    *metrics.Metrics
	store      dao.Service[string, execution.Snapshot]
	stages     map[stage.Kind]stage.Stage

	registry *stage.Registry
	runtime  *Runtime
}

// New creates the engine. Without options it runs the built-in rule-based
// stages over a bounded in-memory status store.
func New(options ...Option) *Service {
	s := &Service{
		config: DefaultConfig(),
		stages: map[stage.Kind]stage.Stage{},
	}
	s.init(options)
	return s
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	s.registry = stage.NewRegistry()
	for kind, impl := range s.builtins() {
		_ = s.registry.Register(kind, impl)
	}
	for kind, impl := range s.stages {
		_ = s.registry.Register(kind, impl)
	}

	exec := executor.New(s.registry,
		executor.Config{
			MaxRetries:      s.config.MaxRetries,
			RetryBaseDelay:  s.config.RetryBaseDelay.Std(),
			RetryBackoffCap: s.config.RetryBackoffCap.Std(),
			StageTimeout:    s.config.StageTimeout.Std(),
		},
		executor.WithLogger(s.logger),
		executor.WithReasoner(s.reasoner),
		executor.WithClassifier(s.classifier),
		executor.WithMetrics(s.metrics),
	)

	statusRegistry := status.New(s.store, s.logger)

	orch := orchestrator.New(exec, statusRegistry,
		orchestrator.Config{
			EnableParallelTargeting: s.config.EnableParallelTargeting,
			DefaultTargetCount:      s.config.DefaultTargetCount,
		},
		orchestrator.WithLogger(s.logger),
		orchestrator.WithMetrics(s.metrics),
	)

	s.runtime = &Runtime{orchestrator: orch, status: statusRegistry}
}

func (s *Service) ensureBaseSetup() {
	if s.logger == nil {
		s.logger = logging.New(slog.LevelInfo)
	}
	if s.store == nil {
		s.store = memory.New(memory.Config{
			MaxEntries:  s.config.Registry.MaxEntries,
			TerminalTTL: time.Duration(s.config.Registry.TerminalTTL),
		})
	}
}

func (s *Service) builtins() map[stage.Kind]stage.Stage {
	return map[stage.Kind]stage.Stage{
		stage.KindAnalysis:   sanalysis.New(),
		stage.KindCompliance: scompliance.New(),
		stage.KindRouting:    srouting.New(),
		stage.KindTargeting:  stargeting.New(),
		stage.KindDeployment: sdeployment.New(),
		stage.KindReporting:  sreporting.New(),
	}
}

// Runtime returns the execution surface of the engine.
func (s *Service) Runtime() *Runtime { return s.runtime }

// Registry exposes the stage registry for embedding applications.
func (s *Service) Registry() *stage.Registry { return s.registry }
