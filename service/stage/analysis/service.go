// Package analysis implements the built-in content-analysis stage: keyword
// based industry classification, topic and keyword extraction, audience
// segmentation, outlet matching and newsworthiness scoring. When a reasoning
// session is present in the context it is used to refine the sentiment and
// summary; its absence degrades to the heuristic result.
package analysis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/reasoning"
	"github.com/universalpress/cascade/stage"
)

// industryKeywords assists classification when the request names no industry.
var industryKeywords = map[model.Industry][]string{
	model.IndustryTechnology: {
		"ai", "artificial intelligence", "software", "app", "platform",
		"cloud", "saas", "tech", "digital", "algorithm", "data",
		"machine learning", "automation", "api", "developer",
	},
	model.IndustryFinance: {
		"investment", "funding", "revenue", "profit", "bank",
		"financial", "capital", "investor", "stock", "market",
		"fintech", "payment", "loan", "credit", "trading",
	},
	model.IndustryHealthcare: {
		"health", "medical", "patient", "hospital", "clinic",
		"pharmaceutical", "drug", "biotech", "therapy", "diagnosis",
		"healthcare", "medicine", "disease", "treatment",
	},
	model.IndustryEnergy: {
		"energy", "power", "electricity", "solar", "renewable",
		"oil", "gas", "battery", "grid", "utilities", "fuel",
	},
	model.IndustryRetail: {
		"retail", "store", "shopping", "consumer", "ecommerce",
		"merchandise", "brand", "product", "sales", "customer",
	},
}

var outletsByCategory = map[string][]string{
	"technology": {
		"TechCrunch", "The Verge", "Ars Technica", "Wired", "VentureBeat",
		"TechRadar", "Engadget", "ZDNet", "CNET", "Gizmodo",
	},
	"business": {
		"Wall Street Journal", "Bloomberg", "Forbes", "Fortune", "Reuters",
		"Financial Times", "Business Insider", "CNBC", "MarketWatch",
	},
	"general": {
		"Associated Press", "Reuters", "CNN", "BBC", "The New York Times",
		"Washington Post", "USA Today", "The Guardian",
	},
}

var audiencesByIndustry = map[model.Industry][]string{
	model.IndustryTechnology: {"developers", "tech executives", "investors"},
	model.IndustryFinance:    {"investors", "financial analysts", "traders"},
	model.IndustryHealthcare: {"healthcare professionals", "patients", "administrators"},
}

var capitalizedPhrase = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
var lowercaseWord = regexp.MustCompile(`\b[a-z]+\b`)

// Service is the built-in analysis stage.
type Service struct{}

// New creates the analysis stage.
func New() *Service { return &Service{} }

var _ stage.Stage = (*Service)(nil)

// Process implements stage.Stage.
func (s *Service) Process(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*model.AnalysisInput)
	if !ok {
		return stage.NewInvalidInputError(in)
	}
	output, ok := out.(*model.Analysis)
	if !ok {
		return stage.NewInvalidOutputError(out)
	}
	return s.Analyze(ctx, input, output)
}

// Analyze classifies the content and populates the analysis output.
func (s *Service) Analyze(ctx context.Context, input *model.AnalysisInput, output *model.Analysis) error {
	primary, secondary := classifyIndustries(input)
	output.PrimaryIndustry = primary
	output.SecondaryIndustries = secondary

	output.Topics = extractTopics(input.Headline, input.Content)
	output.Entities = extractEntities(input.Content)
	output.Keywords = extractKeywords(input.Headline, input.Content, output.Topics)
	output.Audiences = identifyAudiences(primary, input.Audiences)
	output.Outlets = matchOutlets(primary)

	output.Sentiment = s.sentiment(ctx, input)
	output.Newsworthiness, output.ViralPotential = score(primary, output.Entities)
	output.Angles = []string{
		"Industry impact angle",
		"Business strategy angle",
		"Consumer benefit angle",
	}
	output.Summary = s.summary(ctx, input, output)
	return nil
}

// classifyIndustries prefers industries named on the request; otherwise it
// falls back to keyword scoring.
func classifyIndustries(input *model.AnalysisInput) (model.Industry, []model.Industry) {
	if len(input.Industries) > 0 {
		return input.Industries[0], input.Industries[1:]
	}

	text := strings.ToLower(input.Headline + " " + input.Content)
	type scored struct {
		industry model.Industry
		hits     int
	}
	var scores []scored
	for industry, keywords := range industryKeywords {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > 0 {
			scores = append(scores, scored{industry: industry, hits: hits})
		}
	}
	if len(scores) == 0 {
		return model.IndustryOther, nil
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].hits != scores[j].hits {
			return scores[i].hits > scores[j].hits
		}
		return scores[i].industry < scores[j].industry
	})
	var secondary []model.Industry
	for _, sc := range scores[1:] {
		secondary = append(secondary, sc.industry)
		if len(secondary) == 2 {
			break
		}
	}
	return scores[0].industry, secondary
}

// extractTopics pulls capitalized phrases as topic candidates.
func extractTopics(headline, content string) []string {
	phrases := capitalizedPhrase.FindAllString(headline+" "+content, -1)
	seen := map[string]bool{}
	var topics []string
	for _, p := range phrases {
		if len(strings.Fields(p)) > 3 {
			continue
		}
		topic := strings.ToLower(p)
		if seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
		if len(topics) == 5 {
			break
		}
	}
	return topics
}

// extractEntities treats multi-word capitalized phrases as organisations.
func extractEntities(content string) []model.Entity {
	phrases := capitalizedPhrase.FindAllString(content, -1)
	seen := map[string]bool{}
	var entities []model.Entity
	for _, p := range phrases {
		if len(strings.Fields(p)) < 2 || seen[p] {
			continue
		}
		seen[p] = true
		entities = append(entities, model.Entity{Text: p, Type: "ORG", Relevance: 0.7})
		if len(entities) == 20 {
			break
		}
	}
	return entities
}

// extractKeywords combines topics with the most frequent long words.
func extractKeywords(headline, content string, topics []string) []string {
	keywords := append([]string(nil), topics...)
	seen := map[string]bool{}
	for _, t := range topics {
		seen[t] = true
	}

	freq := map[string]int{}
	for _, word := range lowercaseWord.FindAllString(strings.ToLower(headline+" "+content), -1) {
		if len(word) > 4 {
			freq[word]++
		}
	}
	type wc struct {
		word  string
		count int
	}
	var counts []wc
	for word, count := range freq {
		counts = append(counts, wc{word, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})
	for _, c := range counts {
		if seen[c.word] {
			continue
		}
		keywords = append(keywords, c.word)
		if len(keywords) == 15 {
			break
		}
	}
	return keywords
}

func identifyAudiences(primary model.Industry, provided []string) []model.Audience {
	if len(provided) > 0 {
		out := make([]model.Audience, 0, len(provided))
		for _, name := range provided {
			out = append(out, model.Audience{Name: name, Relevance: 0.9, Traits: []string{"provided by user"}})
		}
		return out
	}
	names, ok := audiencesByIndustry[primary]
	if !ok {
		names = []string{"general public"}
	}
	out := make([]model.Audience, 0, len(names))
	for _, name := range names {
		out = append(out, model.Audience{Name: name, Relevance: 0.7})
	}
	return out
}

func matchOutlets(primary model.Industry) []model.Outlet {
	var names []string
	switch primary {
	case model.IndustryTechnology:
		names = append(outletsByCategory["technology"], outletsByCategory["business"]...)
	case model.IndustryFinance:
		names = outletsByCategory["business"]
	default:
		names = append(outletsByCategory["general"], outletsByCategory["business"]...)
	}

	var matches []model.Outlet
	for _, name := range names {
		if len(matches) == 10 {
			break
		}
		relevance := 0.9 - float64(len(matches))*0.05
		if relevance < 0.6 {
			relevance = 0.6
		}
		matches = append(matches, model.Outlet{
			Name:            name,
			Type:            "publication",
			Relevance:       relevance,
			AudienceOverlap: 0.8,
		})
	}
	return matches
}

// score derives newsworthiness and viral potential from entity density and
// industry.
func score(primary model.Industry, entities []model.Entity) (newsworthiness, viral float64) {
	newsworthiness = 0.5
	if len(entities) > 5 {
		newsworthiness = 0.7
	}
	viral = 0.4
	if primary == model.IndustryTechnology {
		viral = 0.6
	}
	return newsworthiness, viral
}

// sentiment consults the reasoning session when present; heuristic default is
// neutral.
func (s *Service) sentiment(ctx context.Context, input *model.AnalysisInput) string {
	session := reasoning.FromContext(ctx)
	if session == nil {
		return "neutral"
	}
	prompt := fmt.Sprintf("Analyze the sentiment of this news.\n\nHeadline: %s\nContent: %s\n\nRespond with one word: positive, neutral, or negative",
		input.Headline, excerpt(input.Content, 1000))
	text, err := session.Invoke(ctx, prompt)
	if err != nil {
		return "neutral"
	}
	switch sentiment := strings.ToLower(strings.TrimSpace(text)); sentiment {
	case "positive", "neutral", "negative":
		return sentiment
	}
	return "neutral"
}

func (s *Service) summary(ctx context.Context, input *model.AnalysisInput, output *model.Analysis) string {
	if input.Summary != "" {
		return input.Summary
	}
	summary := fmt.Sprintf("Content classified as %s", output.PrimaryIndustry)
	if len(output.SecondaryIndustries) > 0 {
		var names []string
		for _, ind := range output.SecondaryIndustries {
			names = append(names, string(ind))
		}
		summary += fmt.Sprintf(" with relevance to %s", strings.Join(names, ", "))
	}
	if len(output.Topics) > 0 {
		summary += fmt.Sprintf(". Key topics include %s", strings.Join(head(output.Topics, 3), ", "))
	}
	summary += fmt.Sprintf(". Newsworthiness: %.2f, Viral potential: %.2f.", output.Newsworthiness, output.ViralPotential)
	return summary
}

func excerpt(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
