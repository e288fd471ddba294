package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	snap := Capture("run-1", time.Unix(42, 0), buildExecCtx())
	require.NoError(t, store.Save("run-1", snap))

	loaded, err := store.Load("run-1")
	require.NoError(t, err)
	require.Equal(t, snap.RunID, loaded.RunID)
	require.Equal(t, snap.IterationCount, loaded.IterationCount)
	require.Equal(t, snap.Observations, loaded.Observations)
	require.Equal(t, snap.Variables, loaded.Variables)
	require.Equal(t, snap.Goal.ID, loaded.Goal.ID)

	require.FileExists(t, filepath.Join(dir, "run-1.json"))
}

func TestLocalStore_SaveOverwritesPriorSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	execCtx := buildExecCtx()
	require.NoError(t, store.Save("run-1", Capture("run-1", time.Unix(1, 0), execCtx)))
	execCtx.IncrementIteration()
	require.NoError(t, store.Save("run-1", Capture("run-1", time.Unix(2, 0), execCtx)))

	loaded, err := store.Load("run-1")
	require.NoError(t, err)
	require.Equal(t, 3, loaded.IterationCount)
}

func TestLocalStore_LoadMissingRunFails(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("does-not-exist")
	require.Error(t, err)
}

func TestLocalStore_DeleteMissingRunIsNotError(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Delete("does-not-exist"))
}

func TestLocalStore_RejectsPathSeparatorsInRunID(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save("../escape", Snapshot{})
	require.Error(t, err)
}

func TestNewLocalStore_RequiresDir(t *testing.T) {
	t.Parallel()

	_, err := NewLocalStore("")
	require.Error(t, err)
}
