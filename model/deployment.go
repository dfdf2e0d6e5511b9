package model

import (
	"strings"
	"time"
)

// DeploymentInput is the deployment stage contract input; Targets is nil when
// targeting was skipped or failed non-fatally.
type DeploymentInput struct {
	Headline    string      `json:"headline"`
	Content     string      `json:"content"`
	MediaURL    []string    `json:"mediaURL,omitempty"`
	Mix         *ChannelMix `json:"mix"`
	Targets     *TargetList `json:"targets,omitempty"`
	Disclaimers []string    `json:"disclaimers,omitempty"`
}

// OutcomeStatus aggregates per-channel deployment results.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomePartial OutcomeStatus = "partial"
	OutcomeFailed  OutcomeStatus = "failed"
)

// ChannelOutcome is the result of deploying to a single channel.
type ChannelOutcome struct {
	Channel      Channel       `json:"channel"`
	Status       OutcomeStatus `json:"status"`
	SubmissionID string        `json:"submissionID,omitempty"`
	URL          string        `json:"url,omitempty"`
	Reach        int           `json:"reach,omitempty"`
	Error        string        `json:"error,omitempty"`
	DeployedAt   time.Time     `json:"deployedAt"`
}

// DeploymentOutcome is the deployment stage output.
type DeploymentOutcome struct {
	Channels []ChannelOutcome `json:"channels"`

	Deployed  int `json:"deployed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`

	InitialReach int      `json:"initialReach"`
	PublicURL    []string `json:"publicURL,omitempty"`

	Overall      OutcomeStatus `json:"overall"`
	ErrorSummary string        `json:"errorSummary,omitempty"`

	DeployedAt time.Time `json:"deployedAt"`
}

// Aggregate recomputes the summary fields from the per-channel outcomes:
// all channels succeeded => success, some => partial, none => failed.
func (o *DeploymentOutcome) Aggregate() {
	o.Deployed = len(o.Channels)
	o.Succeeded, o.Failed, o.InitialReach = 0, 0, 0
	o.PublicURL = nil
	var failures []string
	for _, ch := range o.Channels {
		if ch.Status == OutcomeSuccess {
			o.Succeeded++
			o.InitialReach += ch.Reach
			if ch.URL != "" {
				o.PublicURL = append(o.PublicURL, ch.URL)
			}
			continue
		}
		o.Failed++
		if ch.Error != "" {
			failures = append(failures, string(ch.Channel)+": "+ch.Error)
		}
	}
	switch {
	case o.Deployed > 0 && o.Succeeded == o.Deployed:
		o.Overall = OutcomeSuccess
	case o.Succeeded > 0:
		o.Overall = OutcomePartial
	default:
		o.Overall = OutcomeFailed
	}
	if len(failures) > 0 {
		o.ErrorSummary = strings.Join(failures, "; ")
	}
}
