package reporting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/universalpress/cascade/model"
)

func successOutcome() *model.DeploymentOutcome {
	outcome := &model.DeploymentOutcome{Channels: []model.ChannelOutcome{
		{Channel: model.ChannelNewswire, Status: model.OutcomeSuccess, Reach: 50000},
		{Channel: model.ChannelSocialMedia, Status: model.OutcomeSuccess, Reach: 10000},
		{Channel: model.ChannelOwnedMedia, Status: model.OutcomeSuccess, Reach: 5000},
		{Channel: model.ChannelCommunity, Status: model.OutcomeFailed, Error: "rejected"},
	}}
	outcome.Aggregate()
	return outcome
}

func TestService_ReportDerivesROI(t *testing.T) {
	svc := New()
	output := &model.Report{}
	err := svc.Report(context.Background(), &model.ReportingInput{
		Mix:     &model.ChannelMix{ExpectedPickups: 3},
		Outcome: successOutcome(),
		Spend:   1500,
	}, output)
	assert.NoError(t, err)

	assert.Equal(t, 3, output.TotalPickups)
	assert.Len(t, output.Pickups, 3)
	assert.Equal(t, 24, output.TotalBacklinks)
	// 3 pickups * 1500 + 24 backlinks * 50
	assert.Equal(t, 5700.0, output.EstimatedValue)
	assert.InDelta(t, 280.0, output.ROIPercent, 0.001)
	assert.Equal(t, 500.0, output.CostPerPickup)
	// pickup outlet reach plus the deployment's initial reach
	assert.Equal(t, 500000+400000+1000000+65000, output.TotalReach)
	assert.Equal(t, output.TotalReach/100, output.SocialShares)
	assert.NotEmpty(t, output.Insights)
	assert.NotEmpty(t, output.Recommendations)
}

func TestService_ReportTopChannelsByReach(t *testing.T) {
	svc := New()
	output := &model.Report{}
	err := svc.Report(context.Background(), &model.ReportingInput{
		Mix:     &model.ChannelMix{ExpectedPickups: 1},
		Outcome: successOutcome(),
		Spend:   1000,
	}, output)
	assert.NoError(t, err)

	assert.Equal(t, []model.Channel{
		model.ChannelNewswire,
		model.ChannelSocialMedia,
		model.ChannelOwnedMedia,
	}, output.TopChannels)
}

func TestService_ReportPickupCapAndFallback(t *testing.T) {
	svc := New()

	capped := &model.Report{}
	err := svc.Report(context.Background(), &model.ReportingInput{
		Mix:     &model.ChannelMix{ExpectedPickups: 40},
		Outcome: successOutcome(),
		Spend:   1000,
	}, capped)
	assert.NoError(t, err)
	assert.Equal(t, 10, capped.TotalPickups)

	fallback := &model.Report{}
	err = svc.Report(context.Background(), &model.ReportingInput{
		Outcome: successOutcome(),
		Spend:   1000,
	}, fallback)
	assert.NoError(t, err)
	assert.Equal(t, 3, fallback.TotalPickups)
}

func TestService_ReportZeroSpend(t *testing.T) {
	svc := New()
	output := &model.Report{}
	err := svc.Report(context.Background(), &model.ReportingInput{
		Mix:     &model.ChannelMix{ExpectedPickups: 2},
		Outcome: successOutcome(),
	}, output)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, output.ROIPercent)
	assert.Equal(t, 0.0, output.Spend)
}

func TestService_ReportMissingOutcome(t *testing.T) {
	svc := New()
	err := svc.Report(context.Background(), &model.ReportingInput{}, &model.Report{})
	assert.Error(t, err)
}
