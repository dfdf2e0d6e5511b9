// Package routing implements the built-in channel-routing stage: scores each
// distribution channel for the analysed content, honours compliance required
// and forbidden channels plus any forced selection, allocates the budget and
// projects reach, pickups and ROI.
package routing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/stage"
)

// performance is the per-channel historical performance profile.
type performance struct {
	baseCost       float64
	reachPerDollar float64
	pickupRate     float64
	roiMultiplier  float64
	// industries with a fit bonus; empty means all fit
	industries   []model.Industry
	urgencyBonus map[model.Urgency]float64
}

var channelPerformance = map[model.Channel]performance{
	model.ChannelNewswire: {
		baseCost: 500, reachPerDollar: 200, pickupRate: 0.15, roiMultiplier: 4.5,
		industries:   []model.Industry{model.IndustryTechnology, model.IndustryFinance},
		urgencyBonus: map[model.Urgency]float64{model.UrgencyImmediate: 1.3, model.UrgencyUrgent: 1.2},
	},
	model.ChannelJournalistOutreach: {
		baseCost: 300, reachPerDollar: 150, pickupRate: 0.25, roiMultiplier: 5.0,
		urgencyBonus: map[model.Urgency]float64{model.UrgencyImmediate: 1.1},
	},
	model.ChannelSocialMedia: {
		baseCost: 0, reachPerDollar: 500, pickupRate: 0.05, roiMultiplier: 3.0,
		industries:   []model.Industry{model.IndustryTechnology, model.IndustryRetail},
		urgencyBonus: map[model.Urgency]float64{model.UrgencyImmediate: 1.5, model.UrgencyUrgent: 1.3},
	},
	model.ChannelOwnedMedia: {
		baseCost: 0, reachPerDollar: 300, pickupRate: 0.02, roiMultiplier: 2.0,
	},
	model.ChannelPaidMedia: {
		baseCost: 1000, reachPerDollar: 100, pickupRate: 0.08, roiMultiplier: 3.5,
		industries:   []model.Industry{model.IndustryRetail, model.IndustryFinance},
		urgencyBonus: map[model.Urgency]float64{model.UrgencyImmediate: 1.2},
	},
	model.ChannelSEO: {
		baseCost: 200, reachPerDollar: 400, pickupRate: 0.10, roiMultiplier: 6.0,
	},
	model.ChannelCommunity: {
		baseCost: 0, reachPerDollar: 250, pickupRate: 0.12, roiMultiplier: 4.0,
		industries:   []model.Industry{model.IndustryTechnology},
		urgencyBonus: map[model.Urgency]float64{model.UrgencyImmediate: 1.4},
	},
}

const avgPickupValue = 1500.0

// Service is the built-in routing stage.
type Service struct{}

// New creates the routing stage.
func New() *Service { return &Service{} }

var _ stage.Stage = (*Service)(nil)

// Process implements stage.Stage.
func (s *Service) Process(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*model.RoutingInput)
	if !ok {
		return stage.NewInvalidInputError(in)
	}
	output, ok := out.(*model.ChannelMix)
	if !ok {
		return stage.NewInvalidOutputError(out)
	}
	return s.Route(ctx, input, output)
}

// Route selects channels and allocates the budget.
func (s *Service) Route(_ context.Context, input *model.RoutingInput, output *model.ChannelMix) error {
	if input.Analysis == nil {
		return stage.Fatalf(stage.KindRouting, "missing content analysis")
	}

	candidates := s.candidates(input)
	if len(candidates) == 0 {
		return stage.Fatalf(stage.KindRouting, "no eligible channel after compliance filtering")
	}

	scores := scoreChannels(candidates, input)
	output.Allocations = allocate(scores, input.Budget)
	output.TotalBudget = 0
	for _, a := range output.Allocations {
		output.TotalBudget += a.Budget
		output.ExpectedReach += a.ExpectedReach
		output.ExpectedPickups += a.ExpectedPickups
	}
	output.ExpectedBacklinks = output.ExpectedPickups * 8
	if output.TotalBudget > 0 {
		estimated := float64(output.ExpectedPickups) * avgPickupValue
		output.ExpectedROI = (estimated - output.TotalBudget) / output.TotalBudget * 100
	}
	output.Timing = timing(output.Allocations, input.Urgency)
	output.RiskFactors = risks(output.Allocations, input.Analysis)
	output.Confidence = confidence(output.Allocations, input.Analysis)
	output.Strategy = strategy(output, input)
	return nil
}

// candidates applies forced channels and compliance required/forbidden
// constraints.
func (s *Service) candidates(input *model.RoutingInput) []model.Channel {
	var base []model.Channel
	if len(input.Forced) > 0 {
		base = append(base, input.Forced...)
	} else {
		for ch := range channelPerformance {
			base = append(base, ch)
		}
		sort.Slice(base, func(i, j int) bool { return base[i] < base[j] })
	}

	var forbidden, required []model.Channel
	if input.Compliance != nil {
		forbidden = input.Compliance.ForbiddenChannels
		required = input.Compliance.RequiredChannels
	}

	var out []model.Channel
	for _, ch := range base {
		if containsChannel(forbidden, ch) {
			continue
		}
		out = append(out, ch)
	}
	for _, ch := range required {
		if !containsChannel(out, ch) && !containsChannel(forbidden, ch) {
			out = append(out, ch)
		}
	}
	return out
}

type scoredChannel struct {
	channel model.Channel
	score   float64
	perf    performance
}

func scoreChannels(channels []model.Channel, input *model.RoutingInput) []scoredChannel {
	var scores []scoredChannel
	for _, ch := range channels {
		perf, ok := channelPerformance[ch]
		if !ok {
			continue
		}
		score := 0.5

		if len(perf.industries) == 0 || containsIndustry(perf.industries, input.Analysis.PrimaryIndustry) {
			score += 0.2
		}
		if mult := perf.urgencyBonus[input.Urgency]; mult > 1.0 {
			score += 0.1 * (mult - 1.0)
		}
		if input.Analysis.Newsworthiness > 0.7 &&
			(ch == model.ChannelNewswire || ch == model.ChannelJournalistOutreach) {
			score += 0.15
		}
		if input.Analysis.ViralPotential > 0.7 &&
			(ch == model.ChannelSocialMedia || ch == model.ChannelCommunity) {
			score += 0.15
		}
		if perf.baseCost == 0 {
			score += 0.1
		} else if perf.baseCost < input.Budget*0.3 {
			score += 0.05
		}
		if score > 1.0 {
			score = 1.0
		}
		scores = append(scores, scoredChannel{channel: ch, score: score, perf: perf})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].channel < scores[j].channel
	})
	return scores
}

// allocate spends the budget on the top three scored channels; free channels
// always ride along.
func allocate(scores []scoredChannel, totalBudget float64) []model.Allocation {
	var allocations []model.Allocation
	remaining := totalBudget

	for _, sc := range scores {
		if len(allocations) == 3 {
			break
		}
		var budget float64
		if sc.perf.baseCost > 0 {
			if remaining <= 0 {
				continue
			}
			budget = sc.perf.baseCost + remaining*0.3
			if budget > remaining {
				budget = remaining
			}
		}

		expectedReach := 10000
		if budget > 0 {
			expectedReach = int(budget * sc.perf.reachPerDollar)
		}
		allocations = append(allocations, model.Allocation{
			Channel:         sc.channel,
			Budget:          budget,
			ExpectedReach:   expectedReach,
			ExpectedPickups: int(float64(expectedReach) * sc.perf.pickupRate),
			ExpectedROI:     sc.perf.roiMultiplier * 100,
			Rationale:       fmt.Sprintf("score %.2f: %s recommended", sc.score, sc.channel),
		})
		remaining -= budget
	}
	return allocations
}

func timing(allocations []model.Allocation, urgency model.Urgency) map[model.Channel]string {
	out := map[model.Channel]string{}
	if urgency == model.UrgencyImmediate || urgency == model.UrgencyUrgent {
		for _, a := range allocations {
			out[a.Channel] = "Deploy immediately"
		}
		return out
	}
	for i, a := range allocations {
		switch i {
		case 0:
			out[a.Channel] = "Deploy first (T+0)"
		case 1:
			out[a.Channel] = "Deploy after 2 hours (T+2h)"
		default:
			out[a.Channel] = "Deploy after 4 hours (T+4h)"
		}
	}
	return out
}

func risks(allocations []model.Allocation, analysis *model.Analysis) []string {
	var out []string
	var total float64
	for _, a := range allocations {
		total += a.Budget
	}
	if len(allocations) == 1 {
		out = append(out, "Single channel dependency - no redundancy")
	}
	if total > 2000 {
		out = append(out, "High budget allocation - ensure content quality justifies spend")
	}
	if analysis.Newsworthiness < 0.5 {
		for _, a := range allocations {
			if a.Budget > 500 {
				out = append(out, "Low newsworthiness score with premium channels - may underperform")
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, "No significant risks identified")
	}
	return out
}

func confidence(allocations []model.Allocation, analysis *model.Analysis) float64 {
	c := 0.7
	if len(allocations) >= 3 {
		c += 0.1
	}
	if analysis.Newsworthiness > 0.7 {
		c += 0.1
	}
	if analysis.Newsworthiness < 0.4 {
		c -= 0.2
	}
	if c > 1.0 {
		c = 1.0
	}
	if c < 0.3 {
		c = 0.3
	}
	return c
}

func strategy(mix *model.ChannelMix, input *model.RoutingInput) string {
	var parts []string
	for _, a := range mix.Allocations {
		parts = append(parts, fmt.Sprintf("%s ($%.0f)", a.Channel, a.Budget))
	}
	return fmt.Sprintf("Multi-channel distribution across %d channels: %s. Optimized for %s industry with %s urgency. Expected reach %d with %d media pickups.",
		len(mix.Allocations), strings.Join(parts, ", "),
		input.Analysis.PrimaryIndustry, input.Urgency,
		mix.ExpectedReach, mix.ExpectedPickups)
}

func containsChannel(channels []model.Channel, channel model.Channel) bool {
	for _, c := range channels {
		if c == channel {
			return true
		}
	}
	return false
}

func containsIndustry(industries []model.Industry, industry model.Industry) bool {
	for _, i := range industries {
		if i == industry {
			return true
		}
	}
	return false
}
