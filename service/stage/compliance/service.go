// Package compliance implements the built-in regulatory-compliance stage: a
// rule table keyed by requirement producing issues, required and forbidden
// channels, disclaimers and a human-approval flag. Critical issues block the
// run; the orchestrator fails fast on CanProceed=false.
package compliance

import (
	"context"
	"fmt"
	"sort"

	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/stage"
)

// rule is the obligation set attached to one regulatory requirement.
type rule struct {
	name              string
	requiredChannels  []model.Channel
	forbiddenChannels []model.Channel
	disclaimers       []string
	approvalRequired  bool
	timing            string
	// industries the rule applies to; empty means all
	industries []model.Industry
}

var rules = map[model.Requirement]rule{
	model.RequirementSECMaterial: {
		name:             "SEC Material Disclosure",
		requiredChannels: []model.Channel{model.ChannelNewswire},
		disclaimers: []string{
			"Forward-looking statements disclaimer",
			"SEC filing reference",
		},
		approvalRequired: true,
		timing:           "Must be immediate (Regulation FD)",
		industries:       []model.Industry{model.IndustryFinance},
	},
	model.RequirementFINRA: {
		name: "FINRA Financial Industry",
		disclaimers: []string{
			"Investment disclaimer",
			"Risk disclosure",
			"FINRA member notice",
		},
		approvalRequired: true,
		timing:           "Pre-approval required",
		industries:       []model.Industry{model.IndustryFinance},
	},
	model.RequirementGDPR: {
		name: "GDPR Data Protection",
		disclaimers: []string{
			"Privacy policy link",
			"Data processing notice",
		},
	},
	model.RequirementHIPAA: {
		name:              "HIPAA Healthcare Privacy",
		forbiddenChannels: []model.Channel{model.ChannelSocialMedia},
		disclaimers: []string{
			"Patient privacy notice",
			"HIPAA compliance statement",
		},
		approvalRequired: true,
		timing:           "Legal review required",
		industries:       []model.Industry{model.IndustryHealthcare},
	},
	model.RequirementSOX: {
		name:             "Sarbanes-Oxley Act",
		requiredChannels: []model.Channel{model.ChannelNewswire},
		disclaimers: []string{
			"Financial accuracy certification",
			"Management responsibility statement",
		},
		approvalRequired: true,
		timing:           "CFO approval required",
		industries:       []model.Industry{model.IndustryFinance},
	},
}

// Service is the built-in compliance stage.
type Service struct{}

// New creates the compliance stage.
func New() *Service { return &Service{} }

var _ stage.Stage = (*Service)(nil)

// Process implements stage.Stage.
func (s *Service) Process(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*model.ComplianceInput)
	if !ok {
		return stage.NewInvalidInputError(in)
	}
	output, ok := out.(*model.ComplianceReport)
	if !ok {
		return stage.NewInvalidOutputError(out)
	}
	return s.Check(ctx, input, output)
}

// Check evaluates the requirement rule set against the analysed content and
// the requested channels.
func (s *Service) Check(_ context.Context, input *model.ComplianceInput, output *model.ComplianceReport) error {
	if input.Analysis == nil {
		return stage.Fatalf(stage.KindCompliance, "missing content analysis")
	}

	if hasNone(input.Requirements) || len(input.Requirements) == 0 {
		output.Compliant = true
		output.CanProceed = true
		return nil
	}

	var (
		issues           []model.Issue
		required         []model.Channel
		forbidden        []model.Channel
		disclaimers      []string
		requiresApproval bool
	)

	for _, requirement := range input.Requirements {
		if requirement == model.RequirementNone {
			continue
		}
		r, ok := rules[requirement]
		if !ok {
			issues = append(issues, model.Issue{
				Severity:       model.SeverityWarning,
				Requirement:    requirement,
				Detail:         fmt.Sprintf("Unknown compliance requirement: %s", requirement),
				Recommendation: "Contact legal team for guidance",
			})
			continue
		}

		if len(r.industries) > 0 && !containsIndustry(r.industries, input.Analysis.PrimaryIndustry) {
			issues = append(issues, model.Issue{
				Severity:       model.SeverityWarning,
				Requirement:    requirement,
				Detail:         fmt.Sprintf("%s may not apply to %s industry", r.name, input.Analysis.PrimaryIndustry),
				Recommendation: "Verify applicability with legal team",
			})
		}

		required = append(required, r.requiredChannels...)
		forbidden = append(forbidden, r.forbiddenChannels...)
		disclaimers = append(disclaimers, r.disclaimers...)
		if r.approvalRequired {
			requiresApproval = true
		}
		if r.timing != "" {
			issues = append(issues, model.Issue{
				Severity:       model.SeverityInfo,
				Requirement:    requirement,
				Detail:         fmt.Sprintf("Timing requirement: %s", r.timing),
				Recommendation: "Ensure the distribution schedule honours this constraint",
			})
		}
	}

	// When the request pins channels, validate them against the collected
	// obligations; an unconstrained request defers to the routing stage.
	if len(input.Channels) > 0 {
		issues = append(issues, validateChannels(input.Channels, required, forbidden)...)
	}

	output.Issues = issues
	output.RequiredChannels = dedupeChannels(required)
	output.ForbiddenChannels = dedupeChannels(forbidden)
	output.Disclaimers = dedupeStrings(disclaimers)
	output.RequiresApproval = requiresApproval

	critical := output.CriticalIssues()
	output.Compliant = len(critical) == 0
	output.CanProceed = output.Compliant
	return nil
}

func validateChannels(selected, required, forbidden []model.Channel) []model.Issue {
	var issues []model.Issue
	for _, req := range required {
		if !containsChannel(selected, req) {
			issues = append(issues, model.Issue{
				Severity:       model.SeverityCritical,
				Detail:         fmt.Sprintf("Required channel missing: %s", req),
				Recommendation: fmt.Sprintf("Add %s to distribution channels", req),
			})
		}
	}
	for _, forb := range forbidden {
		if containsChannel(selected, forb) {
			issues = append(issues, model.Issue{
				Severity:       model.SeverityCritical,
				Detail:         fmt.Sprintf("Forbidden channel selected: %s", forb),
				Recommendation: fmt.Sprintf("Remove %s from distribution due to compliance restrictions", forb),
			})
		}
	}
	return issues
}

func hasNone(requirements []model.Requirement) bool {
	for _, r := range requirements {
		if r == model.RequirementNone {
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

func containsChannel(channels []model.Channel, channel model.Channel) bool {
	for _, c := range channels {
		if c == channel {
			return true
		}
	}
	return false
}

func dedupeChannels(channels []model.Channel) []model.Channel {
	seen := map[model.Channel]bool{}
	var out []model.Channel
	for _, c := range channels {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func dedupeStrings(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
