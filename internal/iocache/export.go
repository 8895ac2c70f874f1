package iocache

import (
	"errors"
	"fmt"

	"github.com/devtrail/devtrail/internal/parquet"
)

// ExecuteRunExport performs the actual export of run history to Parquet files.
func ExecuteRunExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run history is disabled (run backend is none)")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}
	if status.Entries == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total recorded runs: %d\n", status.Entries)

	// Retrieve every recorded run, then each run's stored buckets.
	records, err := store.ListRuns(int(status.Entries))
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	var bucketRows []parquet.RunMonthlyRow
	for _, record := range records {
		buckets, err := store.ListMonthlyBuckets(record.RunID)
		if err != nil {
			return fmt.Errorf("failed to retrieve buckets for run %d: %w", record.RunID, err)
		}
		bucketRows = append(bucketRows, parquet.ConvertRunMonthlyBuckets(record.RunID, buckets)...)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(records), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(records), runsFile)

	bucketsFile := outputFile + ".monthly_buckets.parquet"
	if err := parquet.WriteRunMonthlyBucketsParquet(bucketRows, bucketsFile); err != nil {
		return fmt.Errorf("failed to write monthly buckets: %w", err)
	}
	fmt.Printf("Exported %d monthly bucket records to: %s\n", len(bucketRows), bucketsFile)

	return nil
}
