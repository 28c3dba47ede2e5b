package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, store.Open(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBeginRunAssignsUniqueIDs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a, err := store.BeginRun(ctx, "config-a")
	require.NoError(t, err)
	b, err := store.BeginRun(ctx, "config-b")
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRecordAndReadEpochs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "{}")
	require.NoError(t, err)

	for epoch := 1; epoch <= 3; epoch++ {
		err := store.RecordEpoch(ctx, run.ID, EpochRecord{
			Epoch:         epoch,
			TrainLoss:     float32(epoch) * 0.1,
			TrainAccuracy: 0.5,
			ValidLoss:     float32(epoch) * 0.2,
			ValidAccuracy: 0.6,
		})
		require.NoError(t, err)
	}

	records, err := store.Epochs(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Epoch)
	assert.Equal(t, 3, records[2].Epoch)
	assert.InDelta(t, 0.3, float64(records[2].TrainLoss), 1e-6)
}

func TestRecordEpochReplacesDuplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "{}")
	require.NoError(t, err)

	require.NoError(t, store.RecordEpoch(ctx, run.ID, EpochRecord{Epoch: 1, TrainAccuracy: 0.5}))
	require.NoError(t, store.RecordEpoch(ctx, run.ID, EpochRecord{Epoch: 1, TrainAccuracy: 0.9}))

	records, err := store.Epochs(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.InDelta(t, 0.9, float64(records[0].TrainAccuracy), 1e-6)
}

func TestStoreRequiresOpen(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "runs.db"))

	_, err := store.BeginRun(context.Background(), "{}")
	assert.Error(t, err)
}

func TestOpenRequiresPath(t *testing.T) {
	store := NewStore("")
	assert.Error(t, store.Open(context.Background()))
}
