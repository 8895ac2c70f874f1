package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/devtrail/devtrail/core"
	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/internal/parquet"
	"github.com/devtrail/devtrail/schema"
)

// maxTechColumnWidth bounds the technology column in table output.
const maxTechColumnWidth = 44

// WriteResult outputs a pipeline result, dispatching based on the output
// format configured.
func WriteResult(result *core.Result, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketCSV(w, result)
		}, "CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.MarkdownOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketMarkdown(w, result)
		}, "Markdown"); err != nil {
			return fmt.Errorf("error writing Markdown output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeBucketParquet(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketTables(w, result, cfg, duration)
		}, "table")
	}
	return nil
}

// writeBucketTables renders the three granularities as consecutive tables
// with a shared summary footer.
func writeBucketTables(w io.Writer, result *core.Result, cfg *contract.Config, duration time.Duration) error {
	descWidth := getMaxDescriptionWidth(cfg)

	if len(result.Daily) > 0 {
		printHeader(w, cfg, "Daily activity")
		if err := renderBucketTable(w, dailyHeader(), dailyRows(result.Daily, descWidth)); err != nil {
			return err
		}
	}
	if len(result.Weekly) > 0 {
		printHeader(w, cfg, "Weekly activity")
		if err := renderBucketTable(w, rangeHeader(), weeklyRows(result.Weekly, descWidth)); err != nil {
			return err
		}
	}
	if len(result.Monthly) > 0 {
		printHeader(w, cfg, "Monthly activity")
		if err := renderBucketTable(w, monthlyHeader(), monthlyRows(result.Monthly, descWidth)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Summarized %d commits into %d daily, %d weekly, %d monthly buckets\n",
		result.CommitCount, len(result.Daily), len(result.Weekly), len(result.Monthly)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Pipeline completed in %v. Provider: %s. Cache backend: %s\n",
		duration.Round(time.Millisecond), cfg.Provider, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// renderBucketTable renders one table with the shared column configuration.
func renderBucketTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func dailyHeader() []string {
	return []string{"Date", "Commits", "Technologies", "Description"}
}

func rangeHeader() []string {
	return []string{"Start", "End", "Commits", "Technologies", "Description"}
}

func monthlyHeader() []string {
	return []string{"Month", "Start", "End", "Commits", "Technologies", "Description"}
}

func dailyRows(buckets []schema.DailyBucket, descWidth int) [][]string {
	rows := make([][]string, len(buckets))
	for i, b := range buckets {
		rows[i] = []string{
			b.Date,
			strconv.Itoa(b.CommitCount),
			contract.TruncateText(schema.FormatWeightMap(b.Technologies), maxTechColumnWidth),
			contract.TruncateText(b.Description, descWidth),
		}
	}
	return rows
}

func weeklyRows(buckets []schema.WeeklyBucket, descWidth int) [][]string {
	rows := make([][]string, len(buckets))
	for i, b := range buckets {
		rows[i] = []string{
			b.StartDate,
			b.EndDate,
			strconv.Itoa(b.CommitCount),
			contract.TruncateText(schema.FormatWeightMap(b.Technologies), maxTechColumnWidth),
			contract.TruncateText(b.Description, descWidth),
		}
	}
	return rows
}

func monthlyRows(buckets []schema.MonthlyBucket, descWidth int) [][]string {
	rows := make([][]string, len(buckets))
	for i, b := range buckets {
		rows[i] = []string{
			b.Month,
			b.StartDate,
			b.EndDate,
			strconv.Itoa(b.CommitCount),
			contract.TruncateText(schema.FormatWeightMap(b.Technologies), maxTechColumnWidth),
			contract.TruncateText(b.Description, descWidth),
		}
	}
	return rows
}

// writeBucketCSV writes all three granularities into one flat CSV, with a
// granularity column discriminating the row type.
func writeBucketCSV(w io.Writer, result *core.Result) error {
	header := []string{
		"granularity",
		"start_date",
		"end_date",
		"commit_count",
		"technologies",
		"descriptions",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range result.Daily {
			if err := writeBucketCSVRow(cw, schema.DailyGranularity, b.Date, b.Date, b.CommitCount, b.Technologies, b.Description); err != nil {
				return err
			}
		}
		for _, b := range result.Weekly {
			if err := writeBucketCSVRow(cw, schema.WeeklyGranularity, b.StartDate, b.EndDate, b.CommitCount, b.Technologies, b.Description); err != nil {
				return err
			}
		}
		for _, b := range result.Monthly {
			if err := writeBucketCSVRow(cw, schema.MonthlyGranularity, b.StartDate, b.EndDate, b.CommitCount, b.Technologies, b.Description); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeBucketCSVRow(cw *csv.Writer, g schema.Granularity, start, end string,
	count int, weights schema.WeightMap, description string) error {

	encoded, err := json.Marshal(weights)
	if err != nil {
		return err
	}
	return cw.Write([]string{
		string(g),
		start,
		end,
		strconv.Itoa(count),
		string(encoded),
		description,
	})
}

// writeBucketMarkdown renders the result as a Markdown document with one
// section per granularity.
func writeBucketMarkdown(w io.Writer, result *core.Result) error {
	if _, err := fmt.Fprintf(w, "# Activity summary for %s\n\n", result.RepoPath); err != nil {
		return err
	}

	if len(result.Monthly) > 0 {
		if _, err := fmt.Fprintln(w, "## Monthly"); err != nil {
			return err
		}
		rows := make([][]string, len(result.Monthly))
		for i, b := range result.Monthly {
			rows[i] = []string{
				b.Month,
				strconv.Itoa(b.CommitCount),
				markdownCell(schema.FormatWeightMap(b.Technologies)),
				markdownCell(b.Description),
			}
		}
		if err := writeMarkdownTable(w, []string{"Month", "Commits", "Technologies", "Description"}, rows); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if len(result.Weekly) > 0 {
		if _, err := fmt.Fprintln(w, "## Weekly"); err != nil {
			return err
		}
		rows := make([][]string, len(result.Weekly))
		for i, b := range result.Weekly {
			rows[i] = []string{
				fmt.Sprintf("%s to %s", b.StartDate, b.EndDate),
				strconv.Itoa(b.CommitCount),
				markdownCell(schema.FormatWeightMap(b.Technologies)),
				markdownCell(b.Description),
			}
		}
		if err := writeMarkdownTable(w, []string{"Week", "Commits", "Technologies", "Description"}, rows); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if len(result.Daily) > 0 {
		if _, err := fmt.Fprintln(w, "## Daily"); err != nil {
			return err
		}
		rows := make([][]string, len(result.Daily))
		for i, b := range result.Daily {
			rows[i] = []string{
				b.Date,
				strconv.Itoa(b.CommitCount),
				markdownCell(schema.FormatWeightMap(b.Technologies)),
				markdownCell(b.Description),
			}
		}
		if err := writeMarkdownTable(w, []string{"Date", "Commits", "Technologies", "Description"}, rows); err != nil {
			return err
		}
	}
	return nil
}

// writeBucketParquet exports the result as one Parquet file per granularity,
// derived from the configured output file base path.
func writeBucketParquet(result *core.Result, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	dailyFile := outputFile + ".daily.parquet"
	if err := parquet.WriteDailyBucketsParquet(parquet.ConvertDailyBuckets(result.Daily), dailyFile); err != nil {
		return fmt.Errorf("failed to write daily buckets: %w", err)
	}

	weeklyFile := outputFile + ".weekly.parquet"
	if err := parquet.WriteWeeklyBucketsParquet(parquet.ConvertWeeklyBuckets(result.Weekly), weeklyFile); err != nil {
		return fmt.Errorf("failed to write weekly buckets: %w", err)
	}

	monthlyFile := outputFile + ".monthly.parquet"
	if err := parquet.WriteMonthlyBucketsParquet(parquet.ConvertMonthlyBuckets(result.Monthly), monthlyFile); err != nil {
		return fmt.Errorf("failed to write monthly buckets: %w", err)
	}

	fmt.Printf("Exported %d daily, %d weekly, %d monthly buckets to %s.{daily,weekly,monthly}.parquet\n",
		len(result.Daily), len(result.Weekly), len(result.Monthly), outputFile)
	return nil
}
