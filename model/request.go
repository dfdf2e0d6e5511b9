package model

import (
	"fmt"
	"strings"
	"time"
)

// Urgency classifies how quickly content needs to go out.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyStandard  Urgency = "standard"
	UrgencyScheduled Urgency = "scheduled"
)

// Channel identifies a distribution channel.
type Channel string

const (
	ChannelNewswire           Channel = "newswire"
	ChannelJournalistOutreach Channel = "journalist_outreach"
	ChannelSocialMedia        Channel = "social_media"
	ChannelOwnedMedia         Channel = "owned_media"
	ChannelPaidMedia          Channel = "paid_media"
	ChannelSEO                Channel = "seo_optimization"
	ChannelCommunity          Channel = "community"
)

// Industry is the primary content classification axis.
type Industry string

const (
	IndustryTechnology    Industry = "technology"
	IndustryFinance       Industry = "finance"
	IndustryHealthcare    Industry = "healthcare"
	IndustryEnergy        Industry = "energy"
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryGovernment    Industry = "government"
	IndustryEducation     Industry = "education"
	IndustryOther         Industry = "other"
)

// Requirement names a regulatory obligation attached to a request.
type Requirement string

const (
	RequirementSECMaterial Requirement = "sec_material"
	RequirementGDPR        Requirement = "gdpr"
	RequirementFINRA       Requirement = "finra"
	RequirementHIPAA       Requirement = "hipaa"
	RequirementSOX         Requirement = "sox"
	RequirementNone        Requirement = "none"
)

// Request is the immutable input to a distribution run. It carries no
// identity; the orchestrator assigns the run identifier.
type Request struct {
	Organization string `json:"organization" yaml:"organization"`
	User         string `json:"user" yaml:"user"`

	Headline string   `json:"headline" yaml:"headline"`
	Content  string   `json:"content" yaml:"content"`
	Summary  string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	MediaURL []string `json:"mediaURL,omitempty" yaml:"mediaURL,omitempty"`

	Budget      float64    `json:"budget" yaml:"budget"`
	Urgency     Urgency    `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty" yaml:"scheduledAt,omitempty"`

	Industries []Industry `json:"industries,omitempty" yaml:"industries,omitempty"`
	Audiences  []string   `json:"audiences,omitempty" yaml:"audiences,omitempty"`
	// Channels forces specific channels into the mix when set.
	Channels []Channel `json:"channels,omitempty" yaml:"channels,omitempty"`

	Requirements []Requirement `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

const (
	minHeadlineLen = 10
	maxHeadlineLen = 200
	minContentLen  = 100
)

// ValidationError describes a malformed request. It is always fatal and is
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// Validate checks the structural request constraints before any stage runs.
func (r *Request) Validate() error {
	if r.Organization == "" {
		return &ValidationError{Field: "organization", Reason: "is required"}
	}
	if r.User == "" {
		return &ValidationError{Field: "user", Reason: "is required"}
	}
	if n := len(strings.TrimSpace(r.Headline)); n < minHeadlineLen || n > maxHeadlineLen {
		return &ValidationError{Field: "headline", Reason: fmt.Sprintf("must be %d-%d characters", minHeadlineLen, maxHeadlineLen)}
	}
	if len(strings.TrimSpace(r.Content)) < minContentLen {
		return &ValidationError{Field: "content", Reason: fmt.Sprintf("must be at least %d characters", minContentLen)}
	}
	if r.Budget < 0 {
		return &ValidationError{Field: "budget", Reason: "must not be negative"}
	}
	if r.Urgency == UrgencyScheduled && r.ScheduledAt == nil {
		return &ValidationError{Field: "scheduledAt", Reason: "is required for scheduled urgency"}
	}
	return nil
}

// EffectiveUrgency returns the requested urgency, defaulting to standard.
func (r *Request) EffectiveUrgency() Urgency {
	if r.Urgency == "" {
		return UrgencyStandard
	}
	return r.Urgency
}
