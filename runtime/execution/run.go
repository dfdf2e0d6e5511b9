package execution

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/universalpress/cascade/internal/clock"
	"github.com/universalpress/cascade/internal/idgen"
	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/stage"
)

// Run is the mutable aggregate owned exclusively by the orchestrator for the
// lifetime of one request. Stage implementations never touch it; they receive
// inputs and return outputs, and the orchestrator records those outputs here.
// Once a terminal state is reached the run no longer mutates.
type Run struct {
	ID      string         `json:"id"`
	Request *model.Request `json:"request"`

	State      State      `json:"state"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	// Stage output slots, populated in dependency order.
	Analysis   *model.Analysis          `json:"analysis,omitempty"`
	Compliance *model.ComplianceReport  `json:"compliance,omitempty"`
	Mix        *model.ChannelMix        `json:"mix,omitempty"`
	Targets    *model.TargetList        `json:"targets,omitempty"`
	Outcome    *model.DeploymentOutcome `json:"outcome,omitempty"`
	Report     *model.Report            `json:"report,omitempty"`

	Entries  []*Entry `json:"entries,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	// FailureReason is one of the Reason* codes for FAILED/CANCELLED runs.
	FailureReason string `json:"failureReason,omitempty"`

	cancelRequested atomic.Bool
	mu              sync.RWMutex
}

// NewRun creates a run for the request, assigning its unique identifier
// before any stage executes.
func NewRun(req *model.Request) *Run {
	return &Run{
		ID:        idgen.New(),
		Request:   req,
		State:     StateCreated,
		CreatedAt: clock.Now(),
	}
}

// SetState moves the run to the given state; entering a terminal state stamps
// the finish time. Transitions out of a terminal state are ignored.
func (r *Run) SetState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.State.Terminal() {
		return
	}
	r.State = s
	if s.Terminal() {
		now := clock.Now()
		if now.Before(r.CreatedAt) {
			now = r.CreatedAt
		}
		r.FinishedAt = &now
	}
}

// CurrentState returns the run state.
func (r *Run) CurrentState() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// AddEntry appends a stage execution-log entry.
func (r *Run) AddEntry(e *Entry) {
	if e == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, e)
}

// EntryFor returns the most recent log entry for the given stage kind, nil
// when the stage never ran.
func (r *Run) EntryFor(kind stage.Kind) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Stage == kind {
			return r.Entries[i]
		}
	}
	return nil
}

// AddError records a run-level error detail.
func (r *Run) AddError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}

// AddWarning records a non-fatal degradation.
func (r *Run) AddWarning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, msg)
}

// SetFailureReason records the terminal reason code for FAILED/CANCELLED runs.
func (r *Run) SetFailureReason(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailureReason == "" {
		r.FailureReason = code
	}
}

// RequestCancel flags the run for cooperative cancellation; the orchestrator
// honours it at the next stage boundary.
func (r *Run) RequestCancel() {
	r.cancelRequested.Store(true)
}

// CancelRequested reports whether cancellation has been requested.
func (r *Run) CancelRequested() bool {
	return r.cancelRequested.Load()
}

// Snapshot produces an immutable copy of the run's observable fields. Stage
// outputs are shared by pointer: they are never mutated after the producing
// stage returns.
func (r *Run) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &Snapshot{
		RunID:         r.ID,
		State:         r.State,
		CreatedAt:     r.CreatedAt,
		Analysis:      r.Analysis,
		Compliance:    r.Compliance,
		Mix:           r.Mix,
		Targets:       r.Targets,
		Outcome:       r.Outcome,
		Report:        r.Report,
		Errors:        append([]string(nil), r.Errors...),
		Warnings:      append([]string(nil), r.Warnings...),
		FailureReason: r.FailureReason,
	}
	if r.FinishedAt != nil {
		finished := *r.FinishedAt
		s.FinishedAt = &finished
		s.Duration = finished.Sub(r.CreatedAt)
	}
	for _, e := range r.Entries {
		s.Entries = append(s.Entries, e.snapshot())
	}
	return s
}
