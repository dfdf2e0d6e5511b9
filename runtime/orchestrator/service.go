// Package orchestrator drives a distribution request through the six-stage
// pipeline: analysis, compliance, routing, the targeting/deployment-prep
// fan-out, deployment and reporting. It owns the run state machine and
// publishes an immutable snapshot to the status registry on every transition.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/universalpress/cascade/internal/logging"
	"github.com/universalpress/cascade/metrics"
	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/progress"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/runtime/executor"
	"github.com/universalpress/cascade/service/status"
	"github.com/universalpress/cascade/stage"
	"github.com/universalpress/cascade/tracing"
)

var (
	// ErrComplianceBlocked marks a run stopped by compliance policy. This is
	// a business outcome, not an engine defect.
	ErrComplianceBlocked = errors.New("blocked by compliance policy")

	// ErrCancelled marks a run stopped by a cancellation request.
	ErrCancelled = errors.New("run cancelled")

	// ErrRunNotFound is returned by Cancel for an unknown or finished run.
	ErrRunNotFound = errors.New("run not found")
)

// Config controls orchestration behaviour.
type Config struct {
	// EnableParallelTargeting runs journalist targeting concurrently with
	// deployment preparation; when false the two run sequentially.
	EnableParallelTargeting bool

	// DefaultTargetCount caps the journalist target list when the request
	// does not specify one.
	DefaultTargetCount int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{EnableParallelTargeting: true, DefaultTargetCount: 10}
}

// Option customises the orchestrator.
type Option func(*Service)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches the Prometheus collector set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service orchestrates distribution runs.
type Service struct {
	executor *executor.Service
	registry *status.Registry
	config   Config
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// active runs by ID, for cooperative cancellation
	runs sync.Map
}

// New creates an orchestrator over the resilient runtime and status registry.
func New(exec *executor.Service, registry *status.Registry, config Config, opts ...Option) *Service {
	if config.DefaultTargetCount <= 0 {
		config.DefaultTargetCount = 10
	}
	s := &Service{
		executor: exec,
		registry: registry,
		config:   config,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute drives the request through the pipeline until a terminal state and
// returns the final snapshot. The snapshot is always non-nil; the error is
// nil only when the run COMPLETED (possibly with warnings).
func (s *Service) Execute(ctx context.Context, req *model.Request) (*execution.Snapshot, error) {
	run := execution.NewRun(req)
	s.runs.Store(run.ID, run)
	defer s.runs.Delete(run.ID)

	ctx, span := tracing.StartSpan(ctx, "run", "SERVER")
	span.WithAttributes(map[string]string{"runID": run.ID})
	var finalErr error
	defer func() { tracing.EndSpan(span, finalErr) }()

	ctx, _ = progress.WithNewTracker(ctx, run.ID, nil)
	progress.UpdateCtx(ctx, progress.Delta{Total: len(stage.Kinds())})

	s.publish(ctx, run)

	if err := req.Validate(); err != nil {
		run.AddError(err.Error())
		finalErr = err
		return s.fail(ctx, run, execution.ReasonValidationFailed), finalErr
	}

	s.logger.Info("run started",
		slog.String("runID", run.ID),
		slog.String("headline", req.Headline))

	// Analysis
	out, err := s.runStage(ctx, run, execution.StateAnalyzing, stage.KindAnalysis, &model.AnalysisInput{
		Headline:   req.Headline,
		Content:    req.Content,
		Summary:    req.Summary,
		Industries: req.Industries,
		Audiences:  req.Audiences,
	})
	if err != nil {
		return s.finishError(ctx, run, err, &finalErr)
	}
	run.Analysis = out.(*model.Analysis)

	// Compliance
	out, err = s.runStage(ctx, run, execution.StateCheckingCompliance, stage.KindCompliance, &model.ComplianceInput{
		Analysis:     run.Analysis,
		Requirements: req.Requirements,
		Channels:     req.Channels,
	})
	if err != nil {
		return s.finishError(ctx, run, err, &finalErr)
	}
	run.Compliance = out.(*model.ComplianceReport)

	if !run.Compliance.CanProceed {
		for _, issue := range run.Compliance.CriticalIssues() {
			run.AddError(fmt.Sprintf("%s: %s", issue.Requirement, issue.Detail))
		}
		finalErr = fmt.Errorf("%w: %d critical issue(s)", ErrComplianceBlocked, len(run.Compliance.CriticalIssues()))
		return s.fail(ctx, run, execution.ReasonComplianceBlocked), finalErr
	}

	// Routing
	out, err = s.runStage(ctx, run, execution.StateRouting, stage.KindRouting, &model.RoutingInput{
		Analysis:     run.Analysis,
		Compliance:   run.Compliance,
		Budget:       req.Budget,
		Urgency:      req.EffectiveUrgency(),
		Forced:       req.Channels,
		Requirements: req.Requirements,
	})
	if err != nil {
		return s.finishError(ctx, run, err, &finalErr)
	}
	run.Mix = out.(*model.ChannelMix)

	// Targeting fan-out with deployment preparation
	deployInput, err := s.prepare(ctx, run, req)
	if err != nil {
		return s.finishError(ctx, run, err, &finalErr)
	}

	// Deployment
	out, err = s.runStage(ctx, run, execution.StateDeploying, stage.KindDeployment, deployInput)
	if err != nil {
		return s.finishError(ctx, run, err, &finalErr)
	}
	run.Outcome = out.(*model.DeploymentOutcome)

	switch run.Outcome.Overall {
	case model.OutcomeFailed:
		run.AddError("all channel deployments failed: " + run.Outcome.ErrorSummary)
		finalErr = fmt.Errorf("deployment failed on every channel: %s", run.Outcome.ErrorSummary)
		return s.fail(ctx, run, execution.ReasonStageFailed), finalErr
	case model.OutcomePartial:
		run.AddWarning("partial deployment: " + run.Outcome.ErrorSummary)
	}

	// Reporting degrades to a warning; the content is already live.
	out, err = s.runStage(ctx, run, execution.StateReporting, stage.KindReporting, &model.ReportingInput{
		Mix:     run.Mix,
		Outcome: run.Outcome,
		Spend:   run.Mix.TotalBudget,
	})
	if err != nil {
		if s.cancelled(ctx, run) {
			finalErr = ErrCancelled
			return s.cancel(ctx, run), finalErr
		}
		run.AddWarning("reporting failed: " + err.Error())
	} else {
		run.Report = out.(*model.Report)
	}

	run.SetState(execution.StateCompleted)
	s.publish(ctx, run)
	s.metrics.RunFinished(string(execution.StateCompleted))
	s.logger.Info("run completed",
		slog.String("runID", run.ID),
		slog.Int("warnings", len(run.Snapshot().Warnings)))
	return run.Snapshot(), nil
}

// Cancel requests cooperative cancellation of an active run; the run stops at
// the next stage boundary.
func (s *Service) Cancel(runID string) error {
	v, ok := s.runs.Load(runID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	v.(*execution.Run).RequestCancel()
	return nil
}

// Status returns the latest published snapshot for the run.
func (s *Service) Status(ctx context.Context, runID string) (*execution.Snapshot, error) {
	return s.registry.Get(ctx, runID)
}

// prepare runs the targeting/deployment-preparation fan-out and assembles the
// deployment input. Targeting failure is a degradation, not a run failure.
func (s *Service) prepare(ctx context.Context, run *execution.Run, req *model.Request) (*model.DeploymentInput, error) {
	needTargeting := run.Mix.Has(model.ChannelJournalistOutreach)

	input := &model.DeploymentInput{
		Headline:    req.Headline,
		Content:     req.Content,
		MediaURL:    req.MediaURL,
		Mix:         run.Mix,
		Disclaimers: run.Compliance.Disclaimers,
	}

	if !needTargeting {
		if err := s.checkCancel(ctx, run); err != nil {
			return nil, err
		}
		s.transition(ctx, run, execution.StatePreparingDeployment)
		return input, nil
	}

	targetingInput := &model.TargetingInput{
		Analysis:   run.Analysis,
		Budget:     run.Mix.BudgetFor(model.ChannelJournalistOutreach),
		MaxTargets: s.config.DefaultTargetCount,
	}

	if !s.config.EnableParallelTargeting {
		out, err := s.runStage(ctx, run, execution.StateTargeting, stage.KindTargeting, targetingInput)
		if err != nil {
			if s.cancelled(ctx, run) {
				return nil, err
			}
			run.AddWarning("journalist targeting failed: " + err.Error())
		} else {
			run.Targets = out.(*model.TargetList)
			input.Targets = run.Targets
		}
		if err := s.checkCancel(ctx, run); err != nil {
			return nil, err
		}
		s.transition(ctx, run, execution.StatePreparingDeployment)
		return input, nil
	}

	if err := s.checkCancel(ctx, run); err != nil {
		return nil, err
	}
	s.transition(ctx, run, execution.StateTargeting)

	var (
		targets      *model.TargetList
		targetingErr error
		wg           sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, entry, err := s.executor.Execute(ctx, stage.KindTargeting, targetingInput)
		run.AddEntry(entry)
		if err != nil {
			targetingErr = err
			return
		}
		targets = out.(*model.TargetList)
	}()

	s.transition(ctx, run, execution.StatePreparingDeployment)

	wg.Wait()

	if err := s.checkCancel(ctx, run); err != nil {
		return nil, err
	}
	if targetingErr != nil {
		run.AddWarning("journalist targeting failed: " + targetingErr.Error())
	} else {
		run.Targets = targets
		input.Targets = targets
	}
	return input, nil
}

// runStage transitions the run state, publishes the snapshot and invokes the
// stage through the resilient runtime, recording its log entry.
func (s *Service) runStage(ctx context.Context, run *execution.Run, state execution.State, kind stage.Kind, input interface{}) (interface{}, error) {
	if err := s.checkCancel(ctx, run); err != nil {
		return nil, err
	}
	s.transition(ctx, run, state)
	out, entry, err := s.executor.Execute(ctx, kind, input)
	run.AddEntry(entry)
	return out, err
}

func (s *Service) transition(ctx context.Context, run *execution.Run, state execution.State) {
	run.SetState(state)
	s.publish(ctx, run)
}

func (s *Service) publish(ctx context.Context, run *execution.Run) {
	if s.registry == nil {
		return
	}
	if err := s.registry.Publish(ctx, run.Snapshot()); err != nil {
		s.logger.Warn("status publish failed",
			slog.String("runID", run.ID),
			slog.Any("error", err))
	}
}

// checkCancel honours cancellation at a stage boundary.
func (s *Service) checkCancel(ctx context.Context, run *execution.Run) error {
	if run.CancelRequested() || ctx.Err() != nil {
		return ErrCancelled
	}
	return nil
}

// cancelled reports whether the run stopped because of cancellation rather
// than a stage failure.
func (s *Service) cancelled(ctx context.Context, run *execution.Run) bool {
	return run.CancelRequested() || ctx.Err() != nil
}

// finishError routes a stage failure to its terminal state: cancellation
// yields CANCELLED, anything else FAILED.
func (s *Service) finishError(ctx context.Context, run *execution.Run, err error, finalErr *error) (*execution.Snapshot, error) {
	if errors.Is(err, ErrCancelled) || s.cancelled(ctx, run) {
		*finalErr = ErrCancelled
		return s.cancel(ctx, run), *finalErr
	}
	run.AddError(err.Error())
	*finalErr = err
	return s.fail(ctx, run, execution.ReasonStageFailed), err
}

func (s *Service) fail(ctx context.Context, run *execution.Run, reason string) *execution.Snapshot {
	run.SetFailureReason(reason)
	run.SetState(execution.StateFailed)
	s.publish(ctx, run)
	s.metrics.RunFinished(string(execution.StateFailed))
	s.logger.Error("run failed",
		slog.String("runID", run.ID),
		slog.String("reason", reason))
	return run.Snapshot()
}

func (s *Service) cancel(ctx context.Context, run *execution.Run) *execution.Snapshot {
	run.SetFailureReason(execution.ReasonCancelled)
	run.SetState(execution.StateCancelled)
	s.publish(ctx, run)
	s.metrics.RunFinished(string(execution.StateCancelled))
	s.logger.Info("run cancelled", slog.String("runID", run.ID))
	return run.Snapshot()
}
