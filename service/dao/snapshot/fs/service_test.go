package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/service/dao"
)

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := New("mem://localhost/cascade/snapshots")
	assert.NoError(t, err)

	finished := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := &execution.Snapshot{
		RunID:      "run-1",
		State:      execution.StateCompleted,
		CreatedAt:  finished.Add(-time.Minute),
		FinishedAt: &finished,
		Warnings:   []string{"targeting degraded"},
	}
	assert.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, "run-1")
	assert.NoError(t, err)
	assert.Equal(t, snap.RunID, loaded.RunID)
	assert.Equal(t, snap.State, loaded.State)
	assert.Equal(t, snap.Warnings, loaded.Warnings)
	assert.NotNil(t, loaded.FinishedAt)
	assert.True(t, loaded.FinishedAt.Equal(finished))
}

func TestService_Validation(t *testing.T) {
	ctx := context.Background()
	store, err := New("mem://localhost/cascade/validation")
	assert.NoError(t, err)

	assert.ErrorIs(t, store.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, store.Save(ctx, &execution.Snapshot{}), dao.ErrInvalidID)
	_, err = store.Load(ctx, "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	_, err = New("")
	assert.Error(t, err)
}

func TestService_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	store, err := New("mem://localhost/cascade/listing")
	assert.NoError(t, err)

	_ = store.Save(ctx, &execution.Snapshot{RunID: "a", State: execution.StateAnalyzing})
	_ = store.Save(ctx, &execution.Snapshot{RunID: "b", State: execution.StateCompleted})

	all, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	completed, err := store.List(ctx, dao.NewParameter("State", string(execution.StateCompleted)))
	assert.NoError(t, err)
	assert.Len(t, completed, 1)
	assert.Equal(t, "b", completed[0].RunID)

	assert.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), dao.ErrNotFound)
}
