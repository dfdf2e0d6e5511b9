// Package reporting implements the built-in reporting stage: derives media
// pickups, reach and ROI attribution from the deployment outcome and the
// routed projections.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/stage"
)

// outlet pool used to attribute simulated pickups.
var pickupOutlets = []struct {
	name      string
	reach     int
	sentiment string
}{
	{"TechCrunch", 500000, "positive"},
	{"The Verge", 400000, "positive"},
	{"Bloomberg", 1000000, "neutral"},
	{"Reuters", 800000, "neutral"},
	{"Forbes", 600000, "positive"},
	{"Business Insider", 450000, "positive"},
	{"CNBC", 700000, "neutral"},
	{"Wired", 300000, "positive"},
	{"ZDNet", 250000, "neutral"},
	{"VentureBeat", 200000, "positive"},
}

const (
	pickupValue   = 1500.0
	backlinkValue = 50.0
)

// Service is the built-in reporting stage.
type Service struct{}

// New creates the reporting stage.
func New() *Service { return &Service{} }

var _ stage.Stage = (*Service)(nil)

// Process implements stage.Stage.
func (s *Service) Process(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*model.ReportingInput)
	if !ok {
		return stage.NewInvalidInputError(in)
	}
	output, ok := out.(*model.Report)
	if !ok {
		return stage.NewInvalidOutputError(out)
	}
	return s.Report(ctx, input, output)
}

// Report derives the performance report from the deployment outcome.
func (s *Service) Report(_ context.Context, input *model.ReportingInput, output *model.Report) error {
	if input.Outcome == nil {
		return stage.Fatalf(stage.KindReporting, "missing deployment outcome")
	}

	// Pickup count scales with expected pickups, one outlet per pickup.
	pickupCount := 0
	if input.Mix != nil {
		pickupCount = input.Mix.ExpectedPickups
	}
	if pickupCount > len(pickupOutlets) {
		pickupCount = len(pickupOutlets)
	}
	if pickupCount == 0 && input.Outcome.Succeeded > 0 {
		pickupCount = input.Outcome.Succeeded
		if pickupCount > len(pickupOutlets) {
			pickupCount = len(pickupOutlets)
		}
	}

	for i := 0; i < pickupCount; i++ {
		o := pickupOutlets[i]
		output.Pickups = append(output.Pickups, model.Pickup{
			Outlet:    o.name,
			URL:       fmt.Sprintf("https://%s.com/article-%d", strings.ReplaceAll(strings.ToLower(o.name), " ", ""), i),
			Reach:     o.reach,
			Sentiment: o.sentiment,
		})
		output.TotalReach += o.reach
	}
	output.TotalPickups = len(output.Pickups)
	output.TotalBacklinks = output.TotalPickups * 8
	output.TotalReach += input.Outcome.InitialReach

	output.SocialShares = output.TotalReach / 100
	output.WebsiteTraffic = output.TotalReach / 50

	output.Spend = input.Spend
	output.EstimatedValue = float64(output.TotalPickups)*pickupValue + float64(output.TotalBacklinks)*backlinkValue
	if output.Spend > 0 {
		output.ROIPercent = (output.EstimatedValue - output.Spend) / output.Spend * 100
	}
	if output.TotalPickups > 0 {
		output.CostPerPickup = output.Spend / float64(output.TotalPickups)
	}

	output.TopChannels = topChannels(input.Outcome)
	output.Insights = []string{
		fmt.Sprintf("Achieved %d media pickups across top-tier outlets", output.TotalPickups),
		fmt.Sprintf("ROI of %.1f%% against a spend of $%.0f", output.ROIPercent, output.Spend),
	}
	output.Recommendations = recommendations(output)
	return nil
}

// topChannels lists the channels that actually delivered, highest reach
// first.
func topChannels(outcome *model.DeploymentOutcome) []model.Channel {
	successes := make([]model.ChannelOutcome, 0, len(outcome.Channels))
	for _, ch := range outcome.Channels {
		if ch.Status == model.OutcomeSuccess {
			successes = append(successes, ch)
		}
	}
	sort.Slice(successes, func(i, j int) bool { return successes[i].Reach > successes[j].Reach })
	var out []model.Channel
	for _, ch := range successes {
		out = append(out, ch.Channel)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func recommendations(report *model.Report) []string {
	out := []string{
		"Increase budget for channels showing strong ROI",
		"Test additional distribution windows for engagement optimization",
	}
	if len(report.TopChannels) > 0 {
		out = append([]string{fmt.Sprintf("Continue prioritizing %s for maximum reach", report.TopChannels[0])}, out...)
	}
	return out
}
