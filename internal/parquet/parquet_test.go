package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/devtrail/schema"
)

func TestMonthlyBucketRowStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(MonthlyBucketRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"month",
		"start_date",
		"end_date",
		"commit_count",
		"technologies",
		"descriptions",
	}
	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRunRowStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(RunRow))
	require.NotNil(t, sch)

	expectedColumns := []string{
		"run_id",
		"fingerprint",
		"repo_path",
		"provider",
		"started_at",
		"finished_at",
		"commit_count",
		"month_count",
	}
	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestConvertMonthlyBuckets(t *testing.T) {
	buckets := []schema.MonthlyBucket{
		{
			Month:        "2024-03",
			StartDate:    "2024-03-01",
			EndDate:      "2024-03-31",
			CommitCount:  12,
			Technologies: schema.WeightMap{"Go": 75.0, "SQL": 25.0},
			Description:  "March work",
		},
	}

	rows := ConvertMonthlyBuckets(buckets)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03", rows[0].Month)
	assert.Equal(t, int32(12), rows[0].CommitCount)
	assert.JSONEq(t, `{"Go":75,"SQL":25}`, rows[0].Technologies)
	assert.Equal(t, "March work", rows[0].Description)
}

func TestConvertRunRecords(t *testing.T) {
	started := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	finished := started.Add(90 * time.Second)

	rows := ConvertRunRecords([]schema.RunRecord{
		{RunID: 1, Fingerprint: "fp1", RepoPath: "/repo", Provider: "openai",
			StartedAt: started, FinishedAt: finished, CommitCount: 42, MonthCount: 3},
		{RunID: 2, Fingerprint: "fp2", RepoPath: "/repo", Provider: "gemini",
			StartedAt: started},
	})

	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].FinishedAt)
	assert.Equal(t, finished, *rows[0].FinishedAt)
	assert.Equal(t, int32(42), rows[0].CommitCount)

	// An unfinished run has a zero FinishedAt, which maps to null.
	assert.Nil(t, rows[1].FinishedAt)
}

func TestWriteMonthlyBucketsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "monthly.parquet")

	data := ConvertMonthlyBuckets([]schema.MonthlyBucket{
		{Month: "2024-02", StartDate: "2024-02-01", EndDate: "2024-02-29", CommitCount: 5,
			Technologies: schema.WeightMap{"Go": 100.0}, Description: "February"},
		{Month: "2024-03", StartDate: "2024-03-01", EndDate: "2024-03-31", CommitCount: 9,
			Technologies: schema.WeightMap{"Go": 60.0, "Python": 40.0}, Description: "March"},
	})

	err := WriteMonthlyBucketsParquet(data, outputPath)
	require.NoError(t, err)

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[MonthlyBucketRow](file)
	defer reader.Close()

	readData := make([]MonthlyBucketRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	assert.Equal(t, data, readData)
}

func TestWriteRunsParquetRoundtrip(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")

	started := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	data := ConvertRunRecords([]schema.RunRecord{
		{RunID: 7, Fingerprint: "fp", RepoPath: ".", Provider: "openai",
			StartedAt: started, FinishedAt: started.Add(time.Minute), CommitCount: 10, MonthCount: 2},
	})

	require.NoError(t, WriteRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[RunRow](file)
	defer reader.Close()

	readData := make([]RunRow, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, data[0].RunID, readData[0].RunID)
	assert.WithinDuration(t, data[0].StartedAt, readData[0].StartedAt, time.Nanosecond)
	require.NotNil(t, readData[0].FinishedAt)
	assert.WithinDuration(t, *data[0].FinishedAt, *readData[0].FinishedAt, time.Nanosecond)
}

func TestWriteBucketsParquetEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	err := WriteDailyBucketsParquet([]DailyBucketRow{}, outputPath)
	require.NoError(t, err)

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "file should contain schema even if empty")
}

func TestWriteBucketsParquetInvalidPath(t *testing.T) {
	err := WriteWeeklyBucketsParquet([]WeeklyBucketRow{}, "/nonexistent/directory/out.parquet")
	require.Error(t, err)
}
