package targeting

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/universalpress/cascade/model"
)

func techAnalysis() *model.Analysis {
	return &model.Analysis{
		PrimaryIndustry: model.IndustryTechnology,
		Topics:          []string{"artificial intelligence", "cloud"},
		Summary:         "Acme Corp launches an AI platform.",
	}
}

func TestService_TargetSelectsRelevantJournalists(t *testing.T) {
	svc := New()
	output := &model.TargetList{}
	err := svc.Target(context.Background(), &model.TargetingInput{
		Analysis:   techAnalysis(),
		Budget:     300,
		MaxTargets: 5,
	}, output)
	assert.NoError(t, err)

	assert.Len(t, output.Targets, 5)
	assert.Greater(t, output.AverageRelevance, 0.0)
	assert.NotEmpty(t, output.Strategy)

	// sorted by relevance, best first
	for i := 1; i < len(output.Targets); i++ {
		assert.GreaterOrEqual(t, output.Targets[i-1].Relevance, output.Targets[i].Relevance)
	}
	for _, target := range output.Targets {
		assert.NotEmpty(t, target.Email)
		assert.Contains(t, target.Subject, "technology")
		assert.Contains(t, target.Pitch, target.Name)
	}
}

func TestService_TargetBudgetCapsSelection(t *testing.T) {
	svc := New()
	output := &model.TargetList{}
	err := svc.Target(context.Background(), &model.TargetingInput{
		Analysis:   techAnalysis(),
		Budget:     14, // affords 2 at $6 per journalist
		MaxTargets: 10,
	}, output)
	assert.NoError(t, err)
	assert.Len(t, output.Targets, 2)
}

func TestService_TargetFiltersByIndustry(t *testing.T) {
	svc := New()
	output := &model.TargetList{}
	err := svc.Target(context.Background(), &model.TargetingInput{
		Analysis: &model.Analysis{PrimaryIndustry: model.IndustryFinance},
		Budget:   600,
	}, output)
	assert.NoError(t, err)
	assert.NotEmpty(t, output.Targets)
	for _, target := range output.Targets {
		assert.NotEqual(t, "TechCrunch", target.Outlet)
	}
}

func TestService_TargetNoMatchingJournalists(t *testing.T) {
	svc := New()
	output := &model.TargetList{}
	err := svc.Target(context.Background(), &model.TargetingInput{
		Analysis: &model.Analysis{PrimaryIndustry: model.IndustryEnergy},
		Budget:   600,
	}, output)
	assert.NoError(t, err)
	assert.Empty(t, output.Targets)
	assert.Equal(t, "No journalists targeted", output.Strategy)
}

func TestService_TargetMissingAnalysis(t *testing.T) {
	svc := New()
	err := svc.Target(context.Background(), &model.TargetingInput{Budget: 100}, &model.TargetList{})
	assert.Error(t, err)
}

func TestService_TargetBeatOverlapRaisesRelevance(t *testing.T) {
	svc := New()
	withTopics := &model.TargetList{}
	err := svc.Target(context.Background(), &model.TargetingInput{
		Analysis:   techAnalysis(),
		MaxTargets: 10,
	}, withTopics)
	assert.NoError(t, err)

	withoutTopics := &model.TargetList{}
	analysis := techAnalysis()
	analysis.Topics = nil
	err = svc.Target(context.Background(), &model.TargetingInput{
		Analysis:   analysis,
		MaxTargets: 10,
	}, withoutTopics)
	assert.NoError(t, err)

	assert.Greater(t, withTopics.AverageRelevance, withoutTopics.AverageRelevance)

	// Sarah Chen covers artificial intelligence, so she outranks peers with
	// equal engagement but no beat overlap
	best := withTopics.Targets[0]
	assert.True(t, strings.Contains(strings.ToLower(strings.Join(best.Beats, " ")), "artificial intelligence") ||
		best.Relevance >= withTopics.Targets[1].Relevance)
}
