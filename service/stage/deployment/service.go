// Package deployment implements the built-in deployment stage: one deployer
// per channel, executed concurrently over the routed allocations, with the
// per-channel results aggregated into success, partial or failed. A deployer
// failure degrades its channel only; the aggregate decides the stage outcome.
package deployment

import (
	"context"
	"fmt"
	"sync"

	"github.com/universalpress/cascade/internal/clock"
	"github.com/universalpress/cascade/internal/idgen"
	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/stage"
)

// Deployer publishes content to a single channel. Implementations must be
// safe for concurrent use; the stage runs one goroutine per allocation.
type Deployer interface {
	Deploy(ctx context.Context, input *model.DeploymentInput, budget float64) (model.ChannelOutcome, error)
}

// DeployerFunc adapts a function to the Deployer interface.
type DeployerFunc func(ctx context.Context, input *model.DeploymentInput, budget float64) (model.ChannelOutcome, error)

func (f DeployerFunc) Deploy(ctx context.Context, input *model.DeploymentInput, budget float64) (model.ChannelOutcome, error) {
	return f(ctx, input, budget)
}

// Option customises the deployment stage.
type Option func(*Service)

// WithDeployer replaces the deployer for one channel; used to plug real
// channel integrations or test failures.
func WithDeployer(ch model.Channel, d Deployer) Option {
	return func(s *Service) { s.deployers[ch] = d }
}

// Service is the built-in deployment stage.
type Service struct {
	deployers map[model.Channel]Deployer
}

// New creates the deployment stage with simulated deployers for every
// channel.
func New(opts ...Option) *Service {
	s := &Service{deployers: map[model.Channel]Deployer{
		model.ChannelNewswire:           DeployerFunc(deployNewswire),
		model.ChannelJournalistOutreach: DeployerFunc(deployJournalistOutreach),
		model.ChannelSocialMedia:        DeployerFunc(deploySocialMedia),
		model.ChannelOwnedMedia:         DeployerFunc(deployOwnedMedia),
		model.ChannelPaidMedia:          DeployerFunc(deployPaidMedia),
		model.ChannelSEO:                DeployerFunc(deploySEO),
		model.ChannelCommunity:          DeployerFunc(deployCommunity),
	}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ stage.Stage = (*Service)(nil)

// Process implements stage.Stage.
func (s *Service) Process(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*model.DeploymentInput)
	if !ok {
		return stage.NewInvalidInputError(in)
	}
	output, ok := out.(*model.DeploymentOutcome)
	if !ok {
		return stage.NewInvalidOutputError(out)
	}
	return s.Deploy(ctx, input, output)
}

// Deploy executes every routed channel concurrently and aggregates the
// results.
func (s *Service) Deploy(ctx context.Context, input *model.DeploymentInput, output *model.DeploymentOutcome) error {
	if input.Mix == nil || len(input.Mix.Allocations) == 0 {
		return stage.Fatalf(stage.KindDeployment, "missing channel mix")
	}

	outcomes := make([]model.ChannelOutcome, len(input.Mix.Allocations))
	var wg sync.WaitGroup
	for i, alloc := range input.Mix.Allocations {
		wg.Add(1)
		go func(i int, alloc model.Allocation) {
			defer wg.Done()
			outcomes[i] = s.deployChannel(ctx, alloc, input)
		}(i, alloc)
	}
	wg.Wait()

	output.Channels = outcomes
	output.DeployedAt = clock.Now()
	output.Aggregate()
	return nil
}

// deployChannel runs one deployer, converting its error into a failed
// channel outcome.
func (s *Service) deployChannel(ctx context.Context, alloc model.Allocation, input *model.DeploymentInput) model.ChannelOutcome {
	deployer, ok := s.deployers[alloc.Channel]
	if !ok {
		return failedOutcome(alloc.Channel, fmt.Sprintf("no deployer for channel %s", alloc.Channel))
	}
	outcome, err := deployer.Deploy(ctx, input, alloc.Budget)
	if err != nil {
		return failedOutcome(alloc.Channel, err.Error())
	}
	outcome.Channel = alloc.Channel
	if outcome.DeployedAt.IsZero() {
		outcome.DeployedAt = clock.Now()
	}
	return outcome
}

func failedOutcome(ch model.Channel, msg string) model.ChannelOutcome {
	return model.ChannelOutcome{
		Channel:    ch,
		Status:     model.OutcomeFailed,
		Error:      msg,
		DeployedAt: clock.Now(),
	}
}

// ----------------------------------------------------------------------------
// Simulated channel deployers. Production deployments swap these for real
// integrations via WithDeployer.
// ----------------------------------------------------------------------------

func deployNewswire(_ context.Context, _ *model.DeploymentInput, budget float64) (model.ChannelOutcome, error) {
	id := "NW-" + idgen.New()
	return model.ChannelOutcome{
		Status:       model.OutcomeSuccess,
		SubmissionID: id,
		URL:          "https://prweb.com/releases/" + id,
		Reach:        int(budget * 100),
	}, nil
}

func deployJournalistOutreach(_ context.Context, input *model.DeploymentInput, _ float64) (model.ChannelOutcome, error) {
	if input.Targets == nil || len(input.Targets.Targets) == 0 {
		return model.ChannelOutcome{}, fmt.Errorf("no journalist targets provided")
	}
	return model.ChannelOutcome{
		Status:       model.OutcomeSuccess,
		SubmissionID: "JO-" + idgen.New(),
		Reach:        len(input.Targets.Targets) * 1000,
	}, nil
}

func deploySocialMedia(_ context.Context, _ *model.DeploymentInput, _ float64) (model.ChannelOutcome, error) {
	id := "SM-" + idgen.New()
	return model.ChannelOutcome{
		Status:       model.OutcomeSuccess,
		SubmissionID: id,
		URL:          "https://twitter.com/post/" + id,
		Reach:        10000,
	}, nil
}

func deployOwnedMedia(_ context.Context, _ *model.DeploymentInput, _ float64) (model.ChannelOutcome, error) {
	id := "OM-" + idgen.New()
	return model.ChannelOutcome{
		Status:       model.OutcomeSuccess,
		SubmissionID: id,
		URL:          "https://company.com/blog/" + id,
		Reach:        5000,
	}, nil
}

func deployPaidMedia(_ context.Context, _ *model.DeploymentInput, budget float64) (model.ChannelOutcome, error) {
	return model.ChannelOutcome{
		Status:       model.OutcomeSuccess,
		SubmissionID: "PD-" + idgen.New(),
		Reach:        int(budget * 100),
	}, nil
}

func deploySEO(_ context.Context, _ *model.DeploymentInput, budget float64) (model.ChannelOutcome, error) {
	return model.ChannelOutcome{
		Status:       model.OutcomeSuccess,
		SubmissionID: "SEO-" + idgen.New(),
		Reach:        int(budget * 200),
	}, nil
}

func deployCommunity(_ context.Context, _ *model.DeploymentInput, _ float64) (model.ChannelOutcome, error) {
	id := "COMM-" + idgen.New()
	return model.ChannelOutcome{
		Status:       model.OutcomeSuccess,
		SubmissionID: id,
		URL:          "https://reddit.com/r/technology/" + id,
		Reach:        8000,
	}, nil
}
