package model

// TargetingInput is the targeting stage contract input.
type TargetingInput struct {
	Analysis   *Analysis `json:"analysis"`
	Budget     float64   `json:"budget"`
	MaxTargets int       `json:"maxTargets,omitempty"`
}

// JournalistTarget is one matched journalist with a personalised pitch.
type JournalistTarget struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Outlet string   `json:"outlet"`
	Beats  []string `json:"beats,omitempty"`

	Relevance float64 `json:"relevance"`
	Subject   string  `json:"subject,omitempty"`
	Pitch     string  `json:"pitch,omitempty"`
	Why       string  `json:"why,omitempty"`
}

// TargetList is the targeting stage output.
type TargetList struct {
	Targets          []JournalistTarget `json:"targets"`
	AverageRelevance float64            `json:"averageRelevance"`
	Strategy         string             `json:"strategy,omitempty"`
}
