// Package status maintains the queryable run-status registry. The
// orchestrator publishes an immutable snapshot after every state transition;
// readers observe a consistent snapshot that only moves forward.
package status

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/universalpress/cascade/internal/logging"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/service/dao"
)

// Registry publishes run snapshots to a pluggable store with monotonicity
// guarantees: a snapshot never regresses the published state and nothing
// overwrites a terminal snapshot.
type Registry struct {
	store  dao.Service[string, execution.Snapshot]
	logger *slog.Logger
	mux    sync.Mutex
}

// New creates a registry over the supplied snapshot store.
func New(store dao.Service[string, execution.Snapshot], logger *slog.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{store: store, logger: logger}
}

// Publish stores the snapshot unless it would move the published state
// backwards or overwrite a terminal snapshot. Stale publishes are dropped
// silently; publishing is ordered and atomic with respect to Get.
func (r *Registry) Publish(ctx context.Context, snap *execution.Snapshot) error {
	if snap == nil {
		return dao.ErrNilEntity
	}

	r.mux.Lock()
	defer r.mux.Unlock()

	existing, err := r.store.Load(ctx, snap.RunID)
	if err != nil && !errors.Is(err, dao.ErrNotFound) {
		return err
	}
	if existing != nil {
		if existing.Terminal() {
			r.logger.Debug("dropping post-terminal publish",
				slog.String("runID", snap.RunID),
				slog.String("state", string(snap.State)))
			return nil
		}
		if snap.State.Order() < existing.State.Order() {
			r.logger.Debug("dropping regressing publish",
				slog.String("runID", snap.RunID),
				slog.String("have", string(existing.State)),
				slog.String("got", string(snap.State)))
			return nil
		}
	}
	return r.store.Save(ctx, snap)
}

// Get returns the latest published snapshot for the run.
func (r *Registry) Get(ctx context.Context, runID string) (*execution.Snapshot, error) {
	return r.store.Load(ctx, runID)
}

// List returns published snapshots, optionally filtered to the given states.
func (r *Registry) List(ctx context.Context, states ...execution.State) ([]*execution.Snapshot, error) {
	if len(states) == 0 {
		return r.store.List(ctx)
	}
	values := make([]string, 0, len(states))
	for _, s := range states {
		values = append(values, string(s))
	}
	return r.store.List(ctx, dao.NewParameter("State", values...))
}
