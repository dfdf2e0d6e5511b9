// Package executor implements the resilient runtime: it invokes one stage at
// a time under a per-stage timeout, retries transient failures with capped
// exponential backoff and guarantees the execution-log entry is closed on
// every exit path.
package executor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/universalpress/cascade/internal/logging"
	"github.com/universalpress/cascade/metrics"
	"github.com/universalpress/cascade/progress"
	"github.com/universalpress/cascade/reasoning"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/stage"
	"github.com/universalpress/cascade/tracing"
)

// Config controls the retry and timeout behaviour of stage invocations.
type Config struct {
	// MaxRetries is the total attempt budget per stage invocation. A value
	// of 3 means: first attempt plus up to two retries.
	MaxRetries int

	// RetryBaseDelay is the backoff before the first retry; each subsequent
	// retry doubles it up to RetryBackoffCap.
	RetryBaseDelay  time.Duration
	RetryBackoffCap time.Duration

	// StageTimeout bounds a single attempt; a deadline hit counts as a
	// failed transient attempt.
	StageTimeout time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		RetryBaseDelay:  100 * time.Millisecond,
		RetryBackoffCap: 5 * time.Second,
		StageTimeout:    60 * time.Second,
	}
}

func (c *Config) normalize() {
	if c.MaxRetries < 1 {
		c.MaxRetries = 1
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 100 * time.Millisecond
	}
	if c.RetryBackoffCap < c.RetryBaseDelay {
		c.RetryBackoffCap = c.RetryBaseDelay
	}
}

// Classifier decides whether an attempt failure is transient (retry) or
// fatal (abort).
type Classifier func(error) bool

// Option customises the runtime.
type Option func(*Service)

// WithClassifier replaces the default transient/fatal classifier.
func WithClassifier(c Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classify = c
		}
	}
}

// WithReasoner installs the external reasoning capability; a session bound to
// the stage's execution-log entry is placed in the context of every attempt.
func WithReasoner(r reasoning.Reasoner) Option {
	return func(s *Service) { s.reasoner = r }
}

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

// Service executes stages from a registry with retry, timeout and telemetry.
type Service struct {
	registry *stage.Registry
	config   Config
	classify Classifier
	reasoner reasoning.Reasoner
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a resilient runtime over the supplied stage registry.
func New(registry *stage.Registry, config Config, opts ...Option) *Service {
	config.normalize()
	s := &Service{
		registry: registry,
		config:   config,
		classify: stage.IsTransient,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the stage bound to kind with the configured retry budget. It
// always returns the opened execution-log entry, closed, regardless of
// outcome. On success the returned value is the stage's typed output pointer.
func (s *Service) Execute(ctx context.Context, kind stage.Kind, input interface{}) (out interface{}, entry *execution.Entry, err error) {
	entry = execution.NewEntry(kind)
	started := entry.StartedAt

	ctx, span := tracing.StartSpan(ctx, "stage."+string(kind), "INTERNAL")
	span.WithAttributes(map[string]string{"stage": string(kind)})

	defer func() {
		entry.Close(err)
		tracing.EndSpan(span, err)
		s.metrics.ObserveStage(string(kind), time.Since(started), err == nil)
	}()

	ctx = reasoning.WithSession(ctx, reasoning.NewSession(s.reasoner, entry))

	progress.UpdateCtx(ctx, progress.Delta{Running: 1})
	defer progress.UpdateCtx(ctx, progress.Delta{Running: -1})

	var lastErr error
	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		entry.SetAttempts(attempt)

		if ctx.Err() != nil {
			err = ctx.Err()
			return nil, entry, err
		}

		out, lastErr = s.attempt(ctx, kind, input)
		if lastErr == nil {
			progress.UpdateCtx(ctx, progress.Delta{Completed: 1})
			return out, entry, nil
		}

		if !s.classify(lastErr) {
			s.logger.Error("stage failed",
				slog.String("stage", string(kind)),
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
			err = lastErr
			return nil, entry, err
		}

		s.logger.Warn("stage attempt failed",
			slog.String("stage", string(kind)),
			slog.Int("attempt", attempt),
			slog.Int("budget", s.config.MaxRetries),
			slog.Any("error", lastErr))

		if attempt == s.config.MaxRetries {
			break
		}

		s.metrics.StageRetried(string(kind))
		progress.UpdateCtx(ctx, progress.Delta{Retried: 1})

		if waitErr := s.backoff(ctx, attempt); waitErr != nil {
			err = waitErr
			return nil, entry, err
		}
	}

	progress.UpdateCtx(ctx, progress.Delta{Failed: 1})
	err = &stage.ExhaustedError{Kind: kind, Attempts: s.config.MaxRetries, Err: lastErr}
	return nil, entry, err
}

// attempt runs a single invocation under the per-stage timeout. A deadline
// hit surfaces as a transient failure so that the retry budget applies.
func (s *Service) attempt(ctx context.Context, kind stage.Kind, input interface{}) (interface{}, error) {
	attemptCtx := ctx
	cancel := func() {}
	if s.config.StageTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, s.config.StageTimeout)
	}
	defer cancel()

	out, err := s.registry.Invoke(attemptCtx, kind, input)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, stage.Transientf(kind, "attempt timed out after %s: %w", s.config.StageTimeout, err)
	}
	return out, err
}

// backoff sleeps base<<attempt-1 capped at RetryBackoffCap, honouring context
// cancellation.
func (s *Service) backoff(ctx context.Context, attempt int) error {
	delay := s.config.RetryBaseDelay << (attempt - 1)
	if delay > s.config.RetryBackoffCap || delay <= 0 {
		delay = s.config.RetryBackoffCap
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
