package routing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/universalpress/cascade/model"
)

func techAnalysis() *model.Analysis {
	return &model.Analysis{
		PrimaryIndustry: model.IndustryTechnology,
		Newsworthiness:  0.8,
		ViralPotential:  0.6,
	}
}

func TestService_RouteAllocatesWithinBudget(t *testing.T) {
	svc := New()
	output := &model.ChannelMix{}
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   2000,
		Urgency:  model.UrgencyStandard,
	}, output)
	assert.NoError(t, err)

	assert.NotEmpty(t, output.Allocations)
	assert.LessOrEqual(t, len(output.Allocations), 3)
	assert.LessOrEqual(t, output.TotalBudget, 2000.0)
	assert.Greater(t, output.ExpectedReach, 0)
	assert.NotEmpty(t, output.Strategy)
	assert.NotEmpty(t, output.RiskFactors)
	assert.Len(t, output.Timing, len(output.Allocations))
	assert.GreaterOrEqual(t, output.Confidence, 0.3)
	assert.LessOrEqual(t, output.Confidence, 1.0)
	assert.Equal(t, output.ExpectedPickups*8, output.ExpectedBacklinks)
}

func TestService_RouteMissingAnalysis(t *testing.T) {
	svc := New()
	err := svc.Route(context.Background(), &model.RoutingInput{Budget: 1000}, &model.ChannelMix{})
	assert.Error(t, err)
}

func TestService_RouteHonoursForcedChannels(t *testing.T) {
	svc := New()
	output := &model.ChannelMix{}
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   1000,
		Forced:   []model.Channel{model.ChannelOwnedMedia, model.ChannelSEO},
	}, output)
	assert.NoError(t, err)
	assert.Len(t, output.Allocations, 2)
	for _, a := range output.Allocations {
		assert.Contains(t, []model.Channel{model.ChannelOwnedMedia, model.ChannelSEO}, a.Channel)
	}
}

func TestService_RouteExcludesForbiddenChannels(t *testing.T) {
	svc := New()
	output := &model.ChannelMix{}
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   2000,
		Compliance: &model.ComplianceReport{
			ForbiddenChannels: []model.Channel{model.ChannelSocialMedia, model.ChannelCommunity},
		},
	}, output)
	assert.NoError(t, err)
	for _, a := range output.Allocations {
		assert.NotEqual(t, model.ChannelSocialMedia, a.Channel)
		assert.NotEqual(t, model.ChannelCommunity, a.Channel)
	}
}

func TestService_RouteAppendsRequiredChannel(t *testing.T) {
	svc := New()
	output := &model.ChannelMix{}
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   2000,
		Forced:   []model.Channel{model.ChannelSocialMedia},
		Compliance: &model.ComplianceReport{
			RequiredChannels: []model.Channel{model.ChannelNewswire},
		},
	}, output)
	assert.NoError(t, err)
	assert.True(t, output.Has(model.ChannelNewswire))
	assert.True(t, output.Has(model.ChannelSocialMedia))
}

func TestService_RouteAllForbiddenFails(t *testing.T) {
	svc := New()
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   1000,
		Forced:   []model.Channel{model.ChannelSocialMedia},
		Compliance: &model.ComplianceReport{
			ForbiddenChannels: []model.Channel{model.ChannelSocialMedia},
		},
	}, &model.ChannelMix{})
	assert.Error(t, err)
}

func TestService_RouteZeroBudgetUsesFreeChannels(t *testing.T) {
	svc := New()
	output := &model.ChannelMix{}
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   0,
		Urgency:  model.UrgencyStandard,
	}, output)
	assert.NoError(t, err)
	assert.NotEmpty(t, output.Allocations)
	for _, a := range output.Allocations {
		assert.Equal(t, 0.0, a.Budget)
		assert.Greater(t, a.ExpectedReach, 0)
	}
	assert.Equal(t, 0.0, output.TotalBudget)
	assert.Equal(t, 0.0, output.ExpectedROI)
}

func TestService_RouteImmediateUrgencyTiming(t *testing.T) {
	svc := New()
	output := &model.ChannelMix{}
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   2000,
		Urgency:  model.UrgencyImmediate,
	}, output)
	assert.NoError(t, err)
	for _, schedule := range output.Timing {
		assert.Equal(t, "Deploy immediately", schedule)
	}
}

func TestService_RouteStaggeredTiming(t *testing.T) {
	svc := New()
	output := &model.ChannelMix{}
	err := svc.Route(context.Background(), &model.RoutingInput{
		Analysis: techAnalysis(),
		Budget:   2000,
		Urgency:  model.UrgencyStandard,
	}, output)
	assert.NoError(t, err)
	assert.Equal(t, "Deploy first (T+0)", output.Timing[output.Allocations[0].Channel])
}
