package execution

import (
	"time"

	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/reasoning"
	"github.com/universalpress/cascade/stage"
)

// EntrySnapshot is an immutable copy of one execution-log entry.
type EntrySnapshot struct {
	Stage       stage.Kind      `json:"stage"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Success     bool            `json:"success"`
	Attempts    int             `json:"attempts"`
	Error       string          `json:"error,omitempty"`
	Notes       []string        `json:"notes,omitempty"`
	Usage       reasoning.Usage `json:"usage"`
}

// Snapshot is an immutable point-in-time copy of a run's observable state,
// published to the status registry on every transition.
type Snapshot struct {
	RunID      string        `json:"runID"`
	State      State         `json:"state"`
	CreatedAt  time.Time     `json:"createdAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`

	Analysis   *model.Analysis          `json:"analysis,omitempty"`
	Compliance *model.ComplianceReport  `json:"compliance,omitempty"`
	Mix        *model.ChannelMix        `json:"mix,omitempty"`
	Targets    *model.TargetList        `json:"targets,omitempty"`
	Outcome    *model.DeploymentOutcome `json:"outcome,omitempty"`
	Report     *model.Report            `json:"report,omitempty"`

	Entries  []EntrySnapshot `json:"entries,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`

	FailureReason string `json:"failureReason,omitempty"`
}

// Terminal reports whether the snapshot captures a finished run.
func (s *Snapshot) Terminal() bool { return s.State.Terminal() }

// EntryFor returns the most recent entry snapshot for the given stage kind.
func (s *Snapshot) EntryFor(kind stage.Kind) *EntrySnapshot {
	for i := len(s.Entries) - 1; i >= 0; i-- {
		if s.Entries[i].Stage == kind {
			return &s.Entries[i]
		}
	}
	return nil
}
