package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/autobuilder/internal/build"
)

var _ build.OutcomeSink = (*SQLiteStore)(nil)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func outcome(id, label string, result build.Result, started time.Time) build.Outcome {
	return build.Outcome{
		DispatchID:     id,
		Succeeded:      result == build.ResultSucceeded,
		Platform:       label,
		PlatformLabel:  label,
		Target:         build.Target(label),
		Result:         result,
		TotalSizeBytes: 2048,
		OutputPath:     filepath.Join("Builds", "1_0", label),
		Scenes:         2,
		Version:        "1.0",
		Commit:         "abc123",
		StartedAt:      started,
		Duration:       90 * time.Second,
	}
}

func TestSQLiteStore_RecordAndList(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.HandleOutcome(ctx, outcome("d1", "Windows", build.ResultSucceeded, base)))
	require.NoError(t, store.HandleOutcome(ctx, outcome("d2", "WebGL", build.ResultFailed, base.Add(time.Minute))))

	all, err := store.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Newest first.
	assert.Equal(t, "d2", all[0].DispatchID)
	assert.Equal(t, build.ResultFailed, all[0].Result)
	assert.False(t, all[0].Succeeded)

	first := all[1]
	assert.Equal(t, "d1", first.DispatchID)
	assert.True(t, first.Succeeded)
	assert.Equal(t, build.Target("Windows"), first.Target)
	assert.Equal(t, int64(2048), first.TotalSizeBytes)
	assert.Equal(t, "abc123", first.Commit)
	assert.Equal(t, 90*time.Second, first.Duration)
	assert.True(t, base.Equal(first.StartedAt))
}

func TestSQLiteStore_ListFilter(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	base := time.Now()

	for i, label := range []string{"Windows", "Android", "Android", "WebGL"} {
		id := label + string(rune('a'+i))
		require.NoError(t, store.HandleOutcome(ctx, outcome(id, label, build.ResultSucceeded, base.Add(time.Duration(i)*time.Second))))
	}

	android, err := store.List(ctx, Filter{PlatformLabel: "android"})
	require.NoError(t, err)
	assert.Len(t, android, 2)

	limited, err := store.List(ctx, Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "WebGL", limited[0].PlatformLabel)
}

func TestSQLiteStore_DuplicateDispatchID(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()
	o := outcome("dup", "Windows", build.ResultSucceeded, time.Now())

	require.NoError(t, store.HandleOutcome(ctx, o))
	assert.Error(t, store.HandleOutcome(ctx, o))
}

func TestSQLiteStore_FileBackedCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.HandleOutcome(context.Background(), outcome("d1", "Android", build.ResultSucceeded, time.Now())))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
