package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/internal/iocache"
	"github.com/devtrail/devtrail/internal/outwriter"
	"github.com/devtrail/devtrail/schema"
)

// runsSetup loads minimal configuration needed for run-history operations.
// This is used by commands that need run access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get run-related config values
	backendStr := viper.GetString("run-backend")
	connStr := viper.GetString("run-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.CacheBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.CacheBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by list/show/parquet commands)
	output := schema.OutputMode(viper.GetString("output"))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode: %s", output)
	}

	// Initialize stores with the loaded config (no stage caching for export commands)
	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.Output = output
	cfg.OutputFile = viper.GetString("output-file")
	cfg.RunLimit = viper.GetInt("limit")
	cfg.Width = viper.GetInt("width")
	useColors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}
	cfg.UseColors = useColors

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for export commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get run-related config values
	backendStr := viper.GetString("run-backend")
	connStr := viper.GetString("run-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.CacheBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.CacheBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iocache.GetRunDBFilePath()
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runStoreOrDie returns the run store or exits when run history is disabled.
func runStoreOrDie() contract.RunStore {
	store := iocache.Manager.GetRunStore()
	if store == nil {
		contract.LogFatal("Run history is disabled", fmt.Errorf("run backend is %s", schema.NoneBackend))
	}
	return store
}

// exportCmd focused on run-history data management.
//
// Note: Export subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by generation commands. This avoids Git repo
// validation and LLM config processing for simple history operations.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Manage recorded runs and export them for analytics",
	Long: `Manage the run history recorded by the generate command.

When enabled, Devtrail records every successful pipeline run, storing:
- Run metadata (repository, provider, timestamps, commit count)
- The monthly buckets produced by that run

This enables longitudinal review of your activity and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - List recorded runs
  show    - Show the monthly buckets of one run
  parquet - Export history to Parquet for analytics
  status  - Show run-history statistics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # List the most recent runs
  devtrail export list

  # Export for analysis in pandas/DuckDB
  devtrail export parquet --output-file devtrail-data`,
}

// exportListCmd lists recorded runs.
var exportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded pipeline runs",
	Long: `List the most recent recorded pipeline runs.

Each row shows the run ID, repository, provider, start time, duration and
the number of commits and monthly buckets it produced. Use --limit to
control how many runs are shown, and the run ID with "export show" to
inspect a run's buckets.

Examples:
  # List the 25 most recent runs (default)
  devtrail export list

  # List the last 5 runs as JSON
  devtrail export list --limit 5 --output json`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := runStoreOrDie().ListRuns(cfg.RunLimit)
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.NewOutWriter().WriteRuns(records, cfg); err != nil {
			contract.LogFatal("Failed to write runs", err)
		}
	},
}

// exportShowCmd shows the monthly buckets of one recorded run.
var exportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the monthly buckets stored for one run",
	Long: `Show the monthly activity buckets that a recorded run produced.

Requires: --run-id parameter (see "export list" for IDs)

Examples:
  # Show the buckets of run 3
  devtrail export show --run-id 3

  # Same, as markdown
  devtrail export show --run-id 3 --output markdown`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runID := viper.GetInt64("run-id")
		if runID <= 0 {
			contract.LogFatal("Cannot show run", fmt.Errorf("--run-id must be a positive integer"))
		}
		buckets, err := runStoreOrDie().ListMonthlyBuckets(runID)
		if err != nil {
			contract.LogFatal("Failed to list run buckets", err)
		}
		if err := outwriter.NewOutWriter().WriteRunBuckets(runID, buckets, cfg); err != nil {
			contract.LogFatal("Failed to write run buckets", err)
		}
	},
}

// exportParquetCmd exports run history to Parquet files.
var exportParquetCmd = &cobra.Command{
	Use:   "parquet",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all recorded runs to Parquet format for use with analytics tools.

Exports two datasets:
- Runs - metadata about each pipeline execution
- Monthly buckets - the per-run monthly summaries

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter (used as the base name for both files)

Examples:
  # Export all data
  devtrail export parquet --output-file devtrail-data

  # Use with DuckDB for analysis
  devtrail export parquet --output-file data
  duckdb -c "SELECT * FROM read_parquet('data.runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// exportStatusCmd shows run-history status.
var exportStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run-history statistics and connection details",
	Long: `Show detailed information about recorded run history.

Displays:
- Backend type and connection status
- Total number of recorded runs
- Database size and location

Examples:
  # Check run-history status
  devtrail export status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := runStoreOrDie().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run-history status", err)
		}
		iocache.PrintRunStatus(status)
	},
}

// exportClearCmd clears the run history.
var exportClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs and their buckets",
	Long: `Delete all recorded runs and their monthly buckets.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  devtrail export parquet --output-file backup
  devtrail export clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunBackend, iocache.GetRunDBFilePath(), cfg.RunDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// exportMigrateCmd runs database migrations for the run store.
var exportMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run-history store.

Migrations allow:
- Upgrading to new schema versions when Devtrail is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  devtrail export migrate

  # Migrate to specific version
  devtrail export migrate --target-version 1

  # Rollback to initial state
  devtrail export migrate --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
