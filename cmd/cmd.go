// Package cmd defines the command-line interface for devtrail.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the export subcommands to the parent export command
	exportCmd.AddCommand(exportListCmd)
	exportCmd.AddCommand(exportShowCmd)
	exportCmd.AddCommand(exportParquetCmd)
	exportCmd.AddCommand(exportStatusCmd)
	exportCmd.AddCommand(exportClearCmd)
	exportCmd.AddCommand(exportMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("emails", "e", "", "Comma-separated author emails to include")
	rootCmd.PersistentFlags().String("branches", "", "Comma-separated branch names to traverse (default: all local branches)")
	rootCmd.PersistentFlags().String("start", "", "Inclusive start day (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("end", "", "Inclusive end day (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("ignore-keywords", "", "Comma-separated keywords that mark a commit message as noise")
	rootCmd.PersistentFlags().Int("page-size", contract.DefaultPageSize, "Number of commits per extraction batch")
	rootCmd.PersistentFlags().String("provider", string(schema.OpenAIProvider), "LLM provider: openai or gemini")
	rootCmd.PersistentFlags().String("model", "", "Provider-specific model override")
	rootCmd.PersistentFlags().Int("token-budget", 0, "Token ceiling per summarization prompt (0 = no ceiling)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text, json, csv, markdown or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultRunLimit, "Number of runs to display")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored headers in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Stage cache backend: sqlite, mysql, postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql stage caching")
	rootCmd.PersistentFlags().String("run-backend", string(schema.SQLiteBackend), "Run history backend: sqlite, mysql, postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of exportMigrateCmd to Viper
	exportMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(exportMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export migrate flags", err)
	}

	// Bind all flags of exportShowCmd to Viper
	exportShowCmd.Flags().Int64("run-id", 0, "ID of the recorded run to show")
	if err := viper.BindPFlags(exportShowCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export show flags", err)
	}
}
