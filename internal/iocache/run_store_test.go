package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/devtrail/schema"
)

func newTestRunStore(t *testing.T) *RunStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*RunStoreImpl)
}

func TestRunStoreLifecycle(t *testing.T) {
	store := newTestRunStore(t)

	started := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun("fp123", "/repo", schema.OpenAIProvider, started)
	require.NoError(t, err)
	require.Positive(t, runID)

	bucket := schema.MonthlyBucket{
		Month:        "2024-03",
		StartDate:    "2024-03-01",
		EndDate:      "2024-03-31",
		CommitCount:  12,
		Technologies: schema.WeightMap{"Go": 80, "SQL": 20},
		Description:  "built the pipeline",
	}
	require.NoError(t, store.RecordMonthlyBucket(runID, bucket))
	require.NoError(t, store.FinishRun(runID, started.Add(time.Minute), 12, 1))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.Equal(t, "fp123", runs[0].Fingerprint)
	assert.Equal(t, "/repo", runs[0].RepoPath)
	assert.Equal(t, string(schema.OpenAIProvider), runs[0].Provider)
	assert.Equal(t, started, runs[0].StartedAt)
	assert.Equal(t, 12, runs[0].CommitCount)
	assert.Equal(t, 1, runs[0].MonthCount)

	buckets, err := store.ListMonthlyBuckets(runID)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, bucket, buckets[0])
}

func TestRunStoreListOrder(t *testing.T) {
	store := newTestRunStore(t)

	first, err := store.BeginRun("fp1", "/repo", schema.OpenAIProvider, time.Now())
	require.NoError(t, err)
	second, err := store.BeginRun("fp2", "/repo", schema.GeminiProvider, time.Now())
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Newest first.
	assert.Equal(t, second, runs[0].RunID)
	assert.Equal(t, first, runs[1].RunID)

	limited, err := store.ListRuns(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRunStoreUnfinishedRun(t *testing.T) {
	store := newTestRunStore(t)

	_, err := store.BeginRun("fp1", "/repo", schema.OpenAIProvider, time.Now())
	require.NoError(t, err)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].FinishedAt.IsZero())
	assert.Zero(t, runs[0].CommitCount)
}

func TestRunStoreNoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun("fp", "/repo", schema.OpenAIProvider, time.Now())
	require.NoError(t, err)
	assert.Zero(t, runID)
	assert.NoError(t, store.RecordMonthlyBucket(0, schema.MonthlyBucket{}))
	assert.NoError(t, store.FinishRun(0, time.Now(), 0, 0))

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	assert.Nil(t, runs)
	assert.NoError(t, store.Close())
}

func TestRunStoreStatus(t *testing.T) {
	store := newTestRunStore(t)
	_, err := store.BeginRun("fp", "/repo", schema.OpenAIProvider, time.Now())
	require.NoError(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.Entries)
	assert.NotEmpty(t, status.Location)
}
