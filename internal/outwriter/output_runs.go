package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// WriteRuns outputs run-history records, dispatching based on the output
// format configured. Parquet export of run history goes through the export
// command instead.
func WriteRuns(records []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunCSV(w, records)
		}, "CSV")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMarkdownTable(w, runHeader(), runRows(records))
		}, "Markdown")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			printHeader(w, cfg, "Run history")
			if len(records) == 0 {
				_, err := fmt.Fprintln(w, "No recorded runs")
				return err
			}
			if err := renderBucketTable(w, runHeader(), runRows(records)); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing %d most recent runs\n", len(records))
			return err
		}, "table")
	}
}

// WriteRunBuckets outputs the stored monthly buckets of one run.
func WriteRunBuckets(runID int64, buckets []schema.MonthlyBucket, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, buckets)
		}, "JSON")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			rows := make([][]string, len(buckets))
			for i, b := range buckets {
				rows[i] = []string{
					b.Month,
					strconv.Itoa(b.CommitCount),
					markdownCell(schema.FormatWeightMap(b.Technologies)),
					markdownCell(b.Description),
				}
			}
			return writeMarkdownTable(w, []string{"Month", "Commits", "Technologies", "Description"}, rows)
		}, "Markdown")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			printHeader(w, cfg, fmt.Sprintf("Monthly buckets of run %d", runID))
			if len(buckets) == 0 {
				_, err := fmt.Fprintln(w, "No buckets recorded for this run")
				return err
			}
			return renderBucketTable(w, monthlyHeader(), monthlyRows(buckets, getMaxDescriptionWidth(cfg)))
		}, "table")
	}
}

func runHeader() []string {
	return []string{"ID", "Repository", "Provider", "Started", "Duration", "Commits", "Months"}
}

func runRows(records []schema.RunRecord) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			strconv.FormatInt(r.RunID, 10),
			contract.TruncateText(r.RepoPath, 40),
			r.Provider,
			r.StartedAt.Format(time.DateTime),
			formatRunDuration(r),
			strconv.Itoa(r.CommitCount),
			strconv.Itoa(r.MonthCount),
		}
	}
	return rows
}

// formatRunDuration renders the run's wall time, or a placeholder for runs
// that never finished.
func formatRunDuration(r schema.RunRecord) string {
	if r.FinishedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
}

func writeRunCSV(w io.Writer, records []schema.RunRecord) error {
	header := []string{
		"run_id",
		"fingerprint",
		"repo_path",
		"provider",
		"started_at",
		"finished_at",
		"commit_count",
		"month_count",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range records {
			finished := ""
			if !r.FinishedAt.IsZero() {
				finished = r.FinishedAt.Format(time.RFC3339)
			}
			rec := []string{
				strconv.FormatInt(r.RunID, 10),
				r.Fingerprint,
				r.RepoPath,
				r.Provider,
				r.StartedAt.Format(time.RFC3339),
				finished,
				strconv.Itoa(r.CommitCount),
				strconv.Itoa(r.MonthCount),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
