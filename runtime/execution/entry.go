package execution

import (
	"sync"
	"time"

	"github.com/universalpress/cascade/internal/clock"
	"github.com/universalpress/cascade/reasoning"
	"github.com/universalpress/cascade/stage"
)

// Entry is the execution-log record of one stage invocation: timing, outcome,
// the append-only reasoning trail and resource-usage counters. The resilient
// runtime opens an entry before the first attempt and guarantees Close runs
// on every exit path.
type Entry struct {
	Stage       stage.Kind      `json:"stage"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Success     bool            `json:"success"`
	Attempts    int             `json:"attempts"`
	Error       string          `json:"error,omitempty"`
	Notes       []string        `json:"notes,omitempty"`
	Usage       reasoning.Usage `json:"usage"`

	mu sync.Mutex
}

var _ reasoning.Recorder = (*Entry)(nil)

// NewEntry opens a log entry, recording the start timestamp.
func NewEntry(kind stage.Kind) *Entry {
	return &Entry{Stage: kind, StartedAt: clock.Now()}
}

// AddNote appends a human-readable reasoning note; notes are ordered and
// never removed.
func (e *Entry) AddNote(note string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Notes = append(e.Notes, note)
}

// RecordUsage accumulates reasoning-capability usage into the entry.
func (e *Entry) RecordUsage(u reasoning.Usage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Usage.Add(u)
}

// SetAttempts records how many invocation attempts have been made so far.
func (e *Entry) SetAttempts(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Attempts = n
}

// Close finalises the entry exactly once; later calls are no-ops so the
// deferred close-out cannot clobber an already-recorded outcome.
func (e *Entry) Close(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.CompletedAt != nil {
		return
	}
	now := clock.Now()
	if now.Before(e.StartedAt) {
		now = e.StartedAt
	}
	e.CompletedAt = &now
	if err != nil {
		e.Error = err.Error()
		return
	}
	e.Success = true
}

// Closed reports whether the entry has been finalised.
func (e *Entry) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.CompletedAt != nil
}

// snapshot returns an immutable value copy of the entry.
func (e *Entry) snapshot() EntrySnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := EntrySnapshot{
		Stage:     e.Stage,
		StartedAt: e.StartedAt,
		Success:   e.Success,
		Attempts:  e.Attempts,
		Error:     e.Error,
		Notes:     append([]string(nil), e.Notes...),
		Usage:     e.Usage,
	}
	if e.CompletedAt != nil {
		completed := *e.CompletedAt
		out.CompletedAt = &completed
	}
	return out
}
