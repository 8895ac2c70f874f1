package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/internal/iocache"
	"github.com/devtrail/devtrail/schema"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.CacheBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no run history for cache commands)
	if err := iocache.InitCaching(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on stage cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by generation commands. This avoids Git repo
// validation and LLM config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the pipeline stage cache (avoids repeated LLM calls)",
	Long: `Manage the stage cache that speeds up repeated summarizations.

Devtrail caches the result of each pipeline stage (context, daily, weekly,
monthly) keyed by the repository state and configuration. Re-running generate
against an unchanged repository reuses those results instead of calling the
LLM again.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached stage data

Examples:
  # Check cache status
  devtrail cache status

  # Clear cache after rewriting repository history
  devtrail cache clear`,
}

// cacheClearCmd clears the stage cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached stage results",
	Long: `Delete all cached stage results from the configured backend.

Use this when:
- Repository history was rewritten (rebase, force push)
- Cache may be stale or corrupted
- You want fresh LLM descriptions for unchanged history

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  devtrail cache clear

  # Clear MySQL cache (set connection string via env variable)
  DEVTRAIL_CACHE_BACKEND=mysql DEVTRAIL_CACHE_DB_CONNECT="..." devtrail cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, iocache.GetStageDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows stage cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the stage cache.

Displays:
- Backend type and connection status
- Total number of cached stage entries
- Cache database size and location

Use this to:
- Verify the cache is working and connected
- Monitor cache growth over time
- Debug cache-related issues

Examples:
  # Check cache status
  devtrail cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetStageStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
