package cascade

import (
	"context"

	"github.com/universalpress/cascade/model"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/runtime/orchestrator"
	"github.com/universalpress/cascade/service/status"
)

// Runtime is the execution surface of the engine: submit requests, query
// status, request cancellation.
type Runtime struct {
	orchestrator *orchestrator.Service
	status       *status.Registry
}

// Execute drives the request through the pipeline until a terminal state and
// returns the final snapshot. The error is nil only for COMPLETED runs;
// compliance blocks and cancellations surface as
// orchestrator.ErrComplianceBlocked and orchestrator.ErrCancelled.
func (r *Runtime) Execute(ctx context.Context, req *model.Request) (*execution.Snapshot, error) {
	return r.orchestrator.Execute(ctx, req)
}

// Status returns the latest published snapshot for the run.
func (r *Runtime) Status(ctx context.Context, runID string) (*execution.Snapshot, error) {
	return r.status.Get(ctx, runID)
}

// List returns published snapshots, optionally filtered to the given states.
func (r *Runtime) List(ctx context.Context, states ...execution.State) ([]*execution.Snapshot, error) {
	return r.status.List(ctx, states...)
}

// Cancel requests cooperative cancellation of an active run; the run stops at
// the next stage boundary with state CANCELLED.
func (r *Runtime) Cancel(runID string) error {
	return r.orchestrator.Cancel(runID)
}
