package model

// ComplianceInput is the compliance stage contract input.
type ComplianceInput struct {
	Analysis     *Analysis     `json:"analysis"`
	Requirements []Requirement `json:"requirements,omitempty"`
	Channels     []Channel     `json:"channels,omitempty"`
}

// Severity grades a compliance issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is an individual compliance concern.
type Issue struct {
	Severity       Severity    `json:"severity"`
	Requirement    Requirement `json:"requirement"`
	Detail         string      `json:"detail"`
	Recommendation string      `json:"recommendation,omitempty"`
}

// ComplianceReport is the compliance stage output. CanProceed=false is a
// business-policy outcome, not a stage defect; the orchestrator fails fast
// without running any later stage.
type ComplianceReport struct {
	Compliant  bool `json:"compliant"`
	CanProceed bool `json:"canProceed"`

	Issues []Issue `json:"issues,omitempty"`

	RequiredChannels  []Channel `json:"requiredChannels,omitempty"`
	ForbiddenChannels []Channel `json:"forbiddenChannels,omitempty"`
	Disclaimers       []string  `json:"disclaimers,omitempty"`

	RequiresApproval bool `json:"requiresApproval,omitempty"`
}

// CriticalIssues returns the subset of issues with critical severity.
func (r *ComplianceReport) CriticalIssues() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			out = append(out, issue)
		}
	}
	return out
}
