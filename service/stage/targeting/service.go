// Package targeting implements the built-in journalist-targeting stage: a
// static journalist pool scored by industry fit, beat overlap with the
// analysed topics and historical engagement, with templated subject and pitch
// per selected journalist.
package targeting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/stage"
)

// journalist is one entry of the static pool. Production deployments replace
// this stage with one backed by a media-contacts provider.
type journalist struct {
	id         string
	name       string
	email      string
	outlet     string
	beats      []string
	industries []model.Industry
	engagement float64
}

var pool = []journalist{
	{"j001", "Sarah Chen", "schen@techcrunch.com", "TechCrunch",
		[]string{"artificial intelligence", "machine learning", "startups", "enterprise software"},
		[]model.Industry{model.IndustryTechnology}, 0.35},
	{"j002", "Michael Rodriguez", "mrodriguez@bloomberg.com", "Bloomberg",
		[]string{"finance", "venture capital", "ipos", "markets"},
		[]model.Industry{model.IndustryFinance, model.IndustryTechnology}, 0.28},
	{"j003", "Emily Watson", "ewatson@theverge.com", "The Verge",
		[]string{"consumer tech", "ai", "product launches", "reviews"},
		[]model.Industry{model.IndustryTechnology}, 0.42},
	{"j004", "David Kim", "dkim@wsj.com", "Wall Street Journal",
		[]string{"enterprise", "cloud computing", "cybersecurity", "business technology"},
		[]model.Industry{model.IndustryTechnology, model.IndustryFinance}, 0.31},
	{"j005", "Jessica Martinez", "jmartinez@forbes.com", "Forbes",
		[]string{"startups", "entrepreneurship", "funding", "innovation"},
		[]model.Industry{model.IndustryTechnology, model.IndustryFinance}, 0.38},
	{"j006", "Robert Thompson", "rthompson@reuters.com", "Reuters",
		[]string{"breaking news", "technology", "corporate", "announcements"},
		[]model.Industry{model.IndustryTechnology}, 0.25},
	{"j007", "Amanda Foster", "afoster@wired.com", "Wired",
		[]string{"emerging tech", "ai ethics", "future of work", "digital transformation"},
		[]model.Industry{model.IndustryTechnology}, 0.33},
	{"j008", "James Wilson", "jwilson@ft.com", "Financial Times",
		[]string{"fintech", "banking", "payments", "financial services"},
		[]model.Industry{model.IndustryFinance}, 0.29},
	{"j009", "Lisa Anderson", "landerson@businessinsider.com", "Business Insider",
		[]string{"tech industry", "startups", "leadership", "strategy"},
		[]model.Industry{model.IndustryTechnology, model.IndustryFinance}, 0.36},
	{"j010", "Christopher Lee", "clee@zdnet.com", "ZDNet",
		[]string{"enterprise tech", "cloud", "saas", "it infrastructure"},
		[]model.Industry{model.IndustryTechnology}, 0.27},
}

// costPerJournalist covers email infrastructure and tracking per outreach.
const costPerJournalist = 6.0

// Service is the built-in targeting stage.
type Service struct{}

// New creates the targeting stage.
func New() *Service { return &Service{} }

var _ stage.Stage = (*Service)(nil)

// Process implements stage.Stage.
func (s *Service) Process(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*model.TargetingInput)
	if !ok {
		return stage.NewInvalidInputError(in)
	}
	output, ok := out.(*model.TargetList)
	if !ok {
		return stage.NewInvalidOutputError(out)
	}
	return s.Target(ctx, input, output)
}

// Target selects and pitches the most relevant journalists within budget.
func (s *Service) Target(_ context.Context, input *model.TargetingInput, output *model.TargetList) error {
	if input.Analysis == nil {
		return stage.Fatalf(stage.KindTargeting, "missing content analysis")
	}

	type scored struct {
		j     journalist
		score float64
	}
	var candidates []scored
	for _, j := range pool {
		if !containsIndustry(j.industries, input.Analysis.PrimaryIndustry) {
			continue
		}
		candidates = append(candidates, scored{j: j, score: relevance(j, input.Analysis)})
	}
	sort.Slice(candidates, func(i, k int) bool {
		if candidates[i].score != candidates[k].score {
			return candidates[i].score > candidates[k].score
		}
		return candidates[i].j.id < candidates[k].j.id
	})

	maxTargets := input.MaxTargets
	if maxTargets <= 0 {
		maxTargets = 10
	}
	if input.Budget > 0 {
		if affordable := int(input.Budget / costPerJournalist); affordable < maxTargets {
			maxTargets = affordable
		}
	}
	if maxTargets > len(candidates) {
		maxTargets = len(candidates)
	}

	var total float64
	for _, c := range candidates[:maxTargets] {
		output.Targets = append(output.Targets, pitch(c.j, c.score, input.Analysis))
		total += c.score
	}
	if len(output.Targets) > 0 {
		output.AverageRelevance = total / float64(len(output.Targets))
	}
	output.Strategy = strategyNotes(output.Targets, input.Analysis)
	return nil
}

// relevance combines industry match, beat/topic overlap and engagement.
func relevance(j journalist, analysis *model.Analysis) float64 {
	score := 0.5
	if containsIndustry(j.industries, analysis.PrimaryIndustry) {
		score += 0.2
	}
	beatText := strings.ToLower(strings.Join(j.beats, " "))
	matches := 0
	for _, topic := range analysis.Topics {
		if strings.Contains(beatText, strings.ToLower(topic)) {
			matches++
		}
	}
	overlap := float64(matches) * 0.1
	if overlap > 0.3 {
		overlap = 0.3
	}
	score += overlap
	score += j.engagement * 0.2
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func pitch(j journalist, score float64, analysis *model.Analysis) model.JournalistTarget {
	topic := "Update"
	if len(analysis.Topics) > 0 {
		topic = analysis.Topics[0]
	}
	subject := fmt.Sprintf("Story Opportunity: %s - %s", analysis.PrimaryIndustry, topic)
	body := fmt.Sprintf(
		"Hi %s,\n\nI wanted to share a story that aligns with your coverage of %s.\n\n%s\n\nI think this would resonate with %s's audience. Would you be interested in learning more?\n\nBest regards",
		j.name, strings.Join(headStrings(j.beats, 2), ", "), analysis.Summary, j.outlet)

	return model.JournalistTarget{
		ID:        j.id,
		Name:      j.name,
		Email:     j.email,
		Outlet:    j.outlet,
		Beats:     j.beats,
		Relevance: score,
		Subject:   subject,
		Pitch:     body,
		Why:       fmt.Sprintf("Matches %s's beat: %s", j.name, strings.Join(headStrings(j.beats, 2), ", ")),
	}
}

func strategyNotes(targets []model.JournalistTarget, analysis *model.Analysis) string {
	if len(targets) == 0 {
		return "No journalists targeted"
	}
	outlets := map[string]bool{}
	var names []string
	for _, t := range targets {
		if !outlets[t.Outlet] {
			outlets[t.Outlet] = true
			names = append(names, t.Outlet)
		}
	}
	return fmt.Sprintf("Targeting %d journalists across %d outlets including %s. Strategy: personalized outreach emphasizing %s relevance.",
		len(targets), len(outlets), strings.Join(headStrings(names, 5), ", "), analysis.PrimaryIndustry)
}

func containsIndustry(industries []model.Industry, industry model.Industry) bool {
	for _, i := range industries {
		if i == industry {
			return true
		}
	}
	return false
}

func headStrings(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
