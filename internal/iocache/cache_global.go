package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// stageTable holds cached per-stage pipeline results.
const stageTable = "devtrail_stage_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetStageDBFilePath returns the path to the SQLite DB file for stage caching.
func GetStageDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetRunDBFilePath returns the path to the SQLite DB file for run history.
func GetRunDBFilePath() string {
	return contract.GetRunDBFilePath()
}

// InitCaching initializes the global cache manager with separate stage and
// run-history stores. Either backend can be empty to skip that store.
func InitCaching(stageBackend schema.CacheBackend, stageConnStr string, runBackend schema.CacheBackend, runConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var err error

		var stageStore contract.CacheStore
		if stageBackend != "" {
			stageStore, err = NewCacheStore(stageTable, stageBackend, stageConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize stage caching: %w", err)
				return
			}
		}

		var runStore contract.RunStore
		if runBackend != "" {
			runStore, err = NewRunStore(runBackend, runConnStr)
			if err != nil {
				if stageStore != nil {
					_ = stageStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize run history: %w", err)
				return
			}
		}

		Manager.stage = stageStore
		Manager.runs = runStore
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.stage != nil {
			_ = Manager.stage.Close()
		}
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearCache clears the stage cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.CacheBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeDBFile(dbFilePath)

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, stageTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, stageTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearRuns clears the run-history data for the specified backend.
func ClearRuns(backend schema.CacheBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeDBFile(dbFilePath)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName := "mysql"
		if backend == schema.PostgreSQLBackend {
			driverName = "pgx"
		}
		for _, table := range []string{monthlyBucketsTable, runsTable} {
			if err := clearSQLTable(driverName, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported run backend for clearing: %s", backend)
	}
}

// removeDBFile deletes a SQLite database file, tolerating a missing file.
func removeDBFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
