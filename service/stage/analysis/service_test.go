package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/universalpress/cascade/model"
)

func TestService_AnalyzeClassifiesByKeywords(t *testing.T) {
	svc := New()
	input := &model.AnalysisInput{
		Headline: "Acme Corp Launches AI Platform for Cloud Automation",
		Content: "Acme Corp today announced a new software platform that uses " +
			"artificial intelligence and machine learning to automate cloud workloads. " +
			"The platform exposes a developer api and ships with data tooling.",
	}
	output := &model.Analysis{}
	assert.NoError(t, svc.Analyze(context.Background(), input, output))

	assert.Equal(t, model.IndustryTechnology, output.PrimaryIndustry)
	assert.Equal(t, "neutral", output.Sentiment)
	assert.NotEmpty(t, output.Topics)
	assert.NotEmpty(t, output.Keywords)
	assert.NotEmpty(t, output.Outlets)
	assert.LessOrEqual(t, len(output.Outlets), 10)
	assert.NotEmpty(t, output.Summary)
	assert.Equal(t, 0.6, output.ViralPotential)
}

func TestService_AnalyzeHonoursProvidedClassification(t *testing.T) {
	svc := New()
	input := &model.AnalysisInput{
		Headline:   "Quarterly Results Announcement for Investors",
		Content:    "The company reported quarterly results to its shareholders today.",
		Industries: []model.Industry{model.IndustryFinance, model.IndustryRetail},
		Audiences:  []string{"institutional investors"},
		Summary:    "Pre-written summary.",
	}
	output := &model.Analysis{}
	assert.NoError(t, svc.Analyze(context.Background(), input, output))

	assert.Equal(t, model.IndustryFinance, output.PrimaryIndustry)
	assert.Equal(t, []model.Industry{model.IndustryRetail}, output.SecondaryIndustries)
	assert.Len(t, output.Audiences, 1)
	assert.Equal(t, "institutional investors", output.Audiences[0].Name)
	assert.Equal(t, "Pre-written summary.", output.Summary)
}

func TestService_AnalyzeUnclassifiableContent(t *testing.T) {
	svc := New()
	input := &model.AnalysisInput{
		Headline: "Village Picnic Returns This Weekend",
		Content:  "The village held its yearly picnic. Families met in the meadow and enjoyed music through the evening.",
	}
	output := &model.Analysis{}
	assert.NoError(t, svc.Analyze(context.Background(), input, output))

	assert.Equal(t, model.IndustryOther, output.PrimaryIndustry)
	assert.Empty(t, output.SecondaryIndustries)
	assert.Len(t, output.Audiences, 1)
	assert.Equal(t, "general public", output.Audiences[0].Name)
}

func TestService_AnalyzeExtractsEntities(t *testing.T) {
	svc := New()
	input := &model.AnalysisInput{
		Headline: "Partnership Announcement",
		Content: "Acme Corp and Globex Industries announced a partnership. " +
			"Acme Corp will supply components to Globex Industries next year.",
	}
	output := &model.Analysis{}
	assert.NoError(t, svc.Analyze(context.Background(), input, output))

	var names []string
	for _, e := range output.Entities {
		assert.Equal(t, "ORG", e.Type)
		names = append(names, e.Text)
	}
	assert.Contains(t, names, "Acme Corp")
	assert.Contains(t, names, "Globex Industries")
	// duplicates collapse
	count := 0
	for _, n := range names {
		if n == "Acme Corp" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestService_ProcessRejectsWrongTypes(t *testing.T) {
	svc := New()
	err := svc.Process(context.Background(), "not an input", &model.Analysis{})
	assert.Error(t, err)
	err = svc.Process(context.Background(), &model.AnalysisInput{}, "not an output")
	assert.Error(t, err)
}
