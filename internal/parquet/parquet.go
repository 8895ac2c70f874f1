// Package parquet provides data structures and functions for exporting
// devtrail activity buckets and run history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/devtrail/devtrail/schema"
)

// DailyBucketRow represents one daily activity bucket in Parquet format.
type DailyBucketRow struct {
	// Date is the bucket's calendar day (YYYY-MM-DD).
	Date string `parquet:"date,snappy"`

	// CommitCount is the number of qualifying commits on that day.
	CommitCount int32 `parquet:"commit_count,snappy"`

	// Technologies is the normalized weight map as a JSON object string.
	Technologies string `parquet:"technologies,snappy"`

	// Description is the generated summary of the day's work.
	Description string `parquet:"descriptions,snappy"`
}

// WeeklyBucketRow represents one weekly activity bucket in Parquet format.
type WeeklyBucketRow struct {
	// StartDate is the Monday that opens the week (YYYY-MM-DD).
	StartDate string `parquet:"start_date,snappy"`

	// EndDate is the Sunday that closes the week (YYYY-MM-DD).
	EndDate string `parquet:"end_date,snappy"`

	// CommitCount is the number of qualifying commits in that week.
	CommitCount int32 `parquet:"commit_count,snappy"`

	// Technologies is the normalized weight map as a JSON object string.
	Technologies string `parquet:"technologies,snappy"`

	// Description is the generated summary of the week's work.
	Description string `parquet:"descriptions,snappy"`
}

// MonthlyBucketRow represents one monthly activity bucket in Parquet format.
type MonthlyBucketRow struct {
	// Month is the bucket's label (YYYY-MM).
	Month string `parquet:"month,snappy"`

	// StartDate is the first day of the month (YYYY-MM-DD).
	StartDate string `parquet:"start_date,snappy"`

	// EndDate is the last day of the month (YYYY-MM-DD).
	EndDate string `parquet:"end_date,snappy"`

	// CommitCount is the number of qualifying commits in that month.
	CommitCount int32 `parquet:"commit_count,snappy"`

	// Technologies is the normalized weight map as a JSON object string.
	Technologies string `parquet:"technologies,snappy"`

	// Description is the generated summary of the month's work.
	Description string `parquet:"descriptions,snappy"`
}

// RunMonthlyRow represents one stored monthly bucket of a recorded run in
// Parquet format. Unlike MonthlyBucketRow it carries the owning run's ID so
// rows from many runs can share a file.
type RunMonthlyRow struct {
	// RunID is the run the bucket belongs to.
	RunID int64 `parquet:"run_id,snappy"`

	// Month is the bucket's label (YYYY-MM).
	Month string `parquet:"month,snappy"`

	// StartDate is the first day of the month (YYYY-MM-DD).
	StartDate string `parquet:"start_date,snappy"`

	// EndDate is the last day of the month (YYYY-MM-DD).
	EndDate string `parquet:"end_date,snappy"`

	// CommitCount is the number of qualifying commits in that month.
	CommitCount int32 `parquet:"commit_count,snappy"`

	// Technologies is the normalized weight map as a JSON object string.
	Technologies string `parquet:"technologies,snappy"`

	// Description is the generated summary of the month's work.
	Description string `parquet:"descriptions,snappy"`
}

// RunRow represents one pipeline run record in Parquet format.
type RunRow struct {
	// RunID is the run's unique identifier from the run store.
	RunID int64 `parquet:"run_id,snappy"`

	// Fingerprint is the cache key the run's stages were stored under.
	Fingerprint string `parquet:"fingerprint,snappy"`

	// RepoPath is the repository location the run analyzed.
	RepoPath string `parquet:"repo_path,snappy"`

	// Provider is the LLM provider used for summarization.
	Provider string `parquet:"provider,snappy"`

	// StartedAt is when the run began.
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the run completed. Nil for unfinished runs.
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// CommitCount is the total number of qualifying commits in the run.
	CommitCount int32 `parquet:"commit_count,snappy"`

	// MonthCount is the number of monthly buckets the run produced.
	MonthCount int32 `parquet:"month_count,snappy"`
}

// weightsJSON renders a weight map as a compact JSON object. Go's JSON
// encoder emits map keys in sorted order, so the output is deterministic.
func weightsJSON(w schema.WeightMap) string {
	data, err := json.Marshal(w)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ConvertDailyBuckets converts daily buckets to their Parquet representation.
func ConvertDailyBuckets(buckets []schema.DailyBucket) []DailyBucketRow {
	rows := make([]DailyBucketRow, len(buckets))
	for i, b := range buckets {
		rows[i] = DailyBucketRow{
			Date:         b.Date,
			CommitCount:  int32(b.CommitCount),
			Technologies: weightsJSON(b.Technologies),
			Description:  b.Description,
		}
	}
	return rows
}

// ConvertWeeklyBuckets converts weekly buckets to their Parquet representation.
func ConvertWeeklyBuckets(buckets []schema.WeeklyBucket) []WeeklyBucketRow {
	rows := make([]WeeklyBucketRow, len(buckets))
	for i, b := range buckets {
		rows[i] = WeeklyBucketRow{
			StartDate:    b.StartDate,
			EndDate:      b.EndDate,
			CommitCount:  int32(b.CommitCount),
			Technologies: weightsJSON(b.Technologies),
			Description:  b.Description,
		}
	}
	return rows
}

// ConvertMonthlyBuckets converts monthly buckets to their Parquet representation.
func ConvertMonthlyBuckets(buckets []schema.MonthlyBucket) []MonthlyBucketRow {
	rows := make([]MonthlyBucketRow, len(buckets))
	for i, b := range buckets {
		rows[i] = MonthlyBucketRow{
			Month:        b.Month,
			StartDate:    b.StartDate,
			EndDate:      b.EndDate,
			CommitCount:  int32(b.CommitCount),
			Technologies: weightsJSON(b.Technologies),
			Description:  b.Description,
		}
	}
	return rows
}

// ConvertRunMonthlyBuckets converts one run's stored monthly buckets to
// their run-scoped Parquet representation.
func ConvertRunMonthlyBuckets(runID int64, buckets []schema.MonthlyBucket) []RunMonthlyRow {
	rows := make([]RunMonthlyRow, len(buckets))
	for i, b := range buckets {
		rows[i] = RunMonthlyRow{
			RunID:        runID,
			Month:        b.Month,
			StartDate:    b.StartDate,
			EndDate:      b.EndDate,
			CommitCount:  int32(b.CommitCount),
			Technologies: weightsJSON(b.Technologies),
			Description:  b.Description,
		}
	}
	return rows
}

// ConvertRunRecords converts run-history records to their Parquet representation.
func ConvertRunRecords(records []schema.RunRecord) []RunRow {
	rows := make([]RunRow, len(records))
	for i, r := range records {
		row := RunRow{
			RunID:       r.RunID,
			Fingerprint: r.Fingerprint,
			RepoPath:    r.RepoPath,
			Provider:    r.Provider,
			StartedAt:   r.StartedAt,
			CommitCount: int32(r.CommitCount),
			MonthCount:  int32(r.MonthCount),
		}
		if !r.FinishedAt.IsZero() {
			finished := r.FinishedAt
			row.FinishedAt = &finished
		}
		rows[i] = row
	}
	return rows
}

// writeRows writes a slice of row structs to a Parquet file. The schema is
// derived from the row type's struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// WriteDailyBucketsParquet writes daily bucket rows to a Parquet file.
func WriteDailyBucketsParquet(data []DailyBucketRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteWeeklyBucketsParquet writes weekly bucket rows to a Parquet file.
func WriteWeeklyBucketsParquet(data []WeeklyBucketRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteMonthlyBucketsParquet writes monthly bucket rows to a Parquet file.
func WriteMonthlyBucketsParquet(data []MonthlyBucketRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRunMonthlyBucketsParquet writes run-scoped monthly bucket rows to a
// Parquet file.
func WriteRunMonthlyBucketsParquet(data []RunMonthlyRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRunsParquet writes run rows to a Parquet file.
func WriteRunsParquet(data []RunRow, outputPath string) error {
	return writeRows(data, outputPath)
}
