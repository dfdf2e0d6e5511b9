package execution

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/stage"
)

func testRequest() *model.Request {
	return &model.Request{
		Organization: "org-1",
		User:         "user-1",
		Headline:     "Acme Corp Launches AI Platform",
		Content:      strings.Repeat("Acme Corp today announced a new platform. ", 5),
		Budget:       1500,
	}
}

func TestRun_Lifecycle(t *testing.T) {
	run := NewRun(testRequest())
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StateCreated, run.CurrentState())
	assert.Nil(t, run.FinishedAt)

	run.SetState(StateAnalyzing)
	run.SetState(StateCompleted)
	assert.Equal(t, StateCompleted, run.CurrentState())
	assert.NotNil(t, run.FinishedAt)
	assert.False(t, run.FinishedAt.Before(run.CreatedAt))

	// terminal states are sticky
	run.SetState(StateAnalyzing)
	assert.Equal(t, StateCompleted, run.CurrentState())
}

func TestRun_EntryFor(t *testing.T) {
	run := NewRun(testRequest())
	first := NewEntry(stage.KindAnalysis)
	second := NewEntry(stage.KindAnalysis)
	run.AddEntry(first)
	run.AddEntry(NewEntry(stage.KindRouting))
	run.AddEntry(second)

	assert.Same(t, second, run.EntryFor(stage.KindAnalysis))
	assert.Nil(t, run.EntryFor(stage.KindReporting))
}

func TestRun_FailureReasonFirstWins(t *testing.T) {
	run := NewRun(testRequest())
	run.SetFailureReason(ReasonComplianceBlocked)
	run.SetFailureReason(ReasonStageFailed)
	assert.Equal(t, ReasonComplianceBlocked, run.FailureReason)
}

func TestRun_Snapshot(t *testing.T) {
	run := NewRun(testRequest())
	entry := NewEntry(stage.KindAnalysis)
	entry.SetAttempts(2)
	entry.AddNote("classified as technology")
	entry.Close(nil)
	run.AddEntry(entry)
	run.AddWarning("targeting degraded")
	run.SetState(StateCompleted)

	snap := run.Snapshot()
	assert.Equal(t, run.ID, snap.RunID)
	assert.Equal(t, StateCompleted, snap.State)
	assert.True(t, snap.Terminal())
	assert.NotNil(t, snap.FinishedAt)
	assert.Equal(t, []string{"targeting degraded"}, snap.Warnings)

	logged := snap.EntryFor(stage.KindAnalysis)
	assert.NotNil(t, logged)
	assert.Equal(t, 2, logged.Attempts)
	assert.True(t, logged.Success)

	// the snapshot owns its slices
	snap.Warnings[0] = "mutated"
	assert.Equal(t, []string{"targeting degraded"}, run.Snapshot().Warnings)
}

func TestRun_CancelFlag(t *testing.T) {
	run := NewRun(testRequest())
	assert.False(t, run.CancelRequested())
	run.RequestCancel()
	assert.True(t, run.CancelRequested())
}

func TestEntry_CloseIdempotent(t *testing.T) {
	entry := NewEntry(stage.KindDeployment)
	assert.False(t, entry.Closed())
	entry.Close(errors.New("gateway unavailable"))
	assert.True(t, entry.Closed())
	assert.False(t, entry.Success)
	assert.Equal(t, "gateway unavailable", entry.Error)

	// the deferred close-out must not clobber the recorded outcome
	entry.Close(nil)
	assert.False(t, entry.Success)
	assert.Equal(t, "gateway unavailable", entry.Error)
}

func TestState_Order(t *testing.T) {
	assert.Equal(t, StateTargeting.Order(), StatePreparingDeployment.Order())
	assert.Less(t, StateRouting.Order(), StateTargeting.Order())
	assert.Less(t, StateReporting.Order(), StateCompleted.Order())
	assert.Equal(t, StateFailed.Order(), StateCancelled.Order())
	assert.Equal(t, -1, State("bogus").Order())
}
