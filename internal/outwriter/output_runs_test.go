package outwriter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/devtrail/schema"
)

func sampleRuns() []schema.RunRecord {
	started := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	return []schema.RunRecord{
		{RunID: 2, Fingerprint: "fp2", RepoPath: "/repo", Provider: "openai",
			StartedAt: started, FinishedAt: started.Add(95 * time.Second), CommitCount: 42, MonthCount: 3},
		{RunID: 1, Fingerprint: "fp1", RepoPath: "/repo", Provider: "gemini",
			StartedAt: started.Add(-time.Hour)},
	}
}

func TestRunRows(t *testing.T) {
	rows := runRows(sampleRuns())
	require.Len(t, rows, 2)

	assert.Equal(t, "2", rows[0][0])
	assert.Equal(t, "openai", rows[0][2])
	assert.Equal(t, "1m35s", rows[0][4])
	assert.Equal(t, "42", rows[0][5])

	// Unfinished runs get a duration placeholder
	assert.Equal(t, "-", rows[1][4])
}

func TestWriteRunCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeRunCSV(&buf, sampleRuns())
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "run_id", records[0][0])
	assert.Equal(t, "fp2", records[1][1])
	assert.Equal(t, "2024-03-20T09:01:35Z", records[1][5])
	assert.Empty(t, records[2][5], "unfinished run has no finished_at")
}

func TestFormatRunDuration(t *testing.T) {
	started := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "-", formatRunDuration(schema.RunRecord{StartedAt: started}))
	assert.Equal(t, "-", formatRunDuration(schema.RunRecord{
		StartedAt: started, FinishedAt: started.Add(-time.Minute)}))
	assert.Equal(t, "2m0s", formatRunDuration(schema.RunRecord{
		StartedAt: started, FinishedAt: started.Add(2 * time.Minute)}))
}

func TestWriteRunsMarkdown(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.md")
	cfg := textConfig()
	cfg.Output = schema.MarkdownOut
	cfg.OutputFile = outputPath

	require.NoError(t, WriteRuns(sampleRuns(), cfg))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "| ID | Repository | Provider |")
	assert.Contains(t, out, "| 2 | /repo | openai |")
}

func TestWriteRunBucketsMarkdown(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "buckets.md")
	cfg := textConfig()
	cfg.Output = schema.MarkdownOut
	cfg.OutputFile = outputPath

	buckets := []schema.MonthlyBucket{
		{Month: "2024-03", StartDate: "2024-03-01", EndDate: "2024-03-31", CommitCount: 4,
			Technologies: schema.WeightMap{"Go": 100.0}, Description: "March work"},
	}
	require.NoError(t, WriteRunBuckets(7, buckets, cfg))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| 2024-03 | 4 | Go 100.00% | March work |")
}
