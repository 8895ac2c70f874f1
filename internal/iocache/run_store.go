package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// Table names for run-history tracking.
const (
	runsTable           = "devtrail_runs"
	monthlyBucketsTable = "devtrail_monthly_buckets"
)

// RunStoreImpl implements the RunStore interface. Times are stored as unix
// seconds so all backends share one representation.
type RunStoreImpl struct {
	db         *sql.DB
	backend    schema.CacheBackend
	driverName string
	connStr    string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.CacheBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, driverName, err := openBackendDB(backend, connStr, GetRunDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// createRunTables creates the run-history tables.
func createRunTables(db *sql.DB, backend schema.CacheBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{monthlyBucketsTable, getCreateMonthlyBucketsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for devtrail_runs.
func getCreateRunsQuery(backend schema.CacheBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				fingerprint VARCHAR(64) NOT NULL,
				repo_path VARCHAR(512) NOT NULL,
				provider VARCHAR(32) NOT NULL,
				started_at BIGINT NOT NULL,
				finished_at BIGINT,
				commit_count INT,
				month_count INT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				fingerprint TEXT NOT NULL,
				repo_path TEXT NOT NULL,
				provider TEXT NOT NULL,
				started_at BIGINT NOT NULL,
				finished_at BIGINT,
				commit_count INT,
				month_count INT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				fingerprint TEXT NOT NULL,
				repo_path TEXT NOT NULL,
				provider TEXT NOT NULL,
				started_at INTEGER NOT NULL,
				finished_at INTEGER,
				commit_count INTEGER,
				month_count INTEGER
			);
		`, quotedTableName)
	}
}

// getCreateMonthlyBucketsQuery returns the CREATE TABLE query for
// devtrail_monthly_buckets.
func getCreateMonthlyBucketsQuery(backend schema.CacheBackend) string {
	quotedTableName := quoteTableName(monthlyBucketsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				month VARCHAR(7) NOT NULL,
				start_date VARCHAR(10) NOT NULL,
				end_date VARCHAR(10) NOT NULL,
				commit_count INT NOT NULL,
				technologies TEXT NOT NULL,
				descriptions TEXT,
				PRIMARY KEY (run_id, month)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				month TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				commit_count INT NOT NULL,
				technologies TEXT NOT NULL,
				descriptions TEXT,
				PRIMARY KEY (run_id, month)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				month TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				commit_count INTEGER NOT NULL,
				technologies TEXT NOT NULL,
				descriptions TEXT,
				PRIMARY KEY (run_id, month)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run row and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(fingerprint, repoPath string, provider schema.LLMProvider, startedAt time.Time) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (fingerprint, repo_path, provider, started_at) VALUES ($1, $2, $3, $4) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, fingerprint, repoPath, string(provider), startedAt.Unix()).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (fingerprint, repo_path, provider, started_at) VALUES (?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, fingerprint, repoPath, string(provider), startedAt.Unix())
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// FinishRun marks the run complete with final counts.
func (rs *RunStoreImpl) FinishRun(runID int64, finishedAt time.Time, commitCount, monthCount int) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`UPDATE %s SET finished_at = $1, commit_count = $2, month_count = $3 WHERE run_id = $4`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`UPDATE %s SET finished_at = ?, commit_count = ?, month_count = ? WHERE run_id = ?`, quotedTableName)
	}

	if _, err := rs.db.Exec(query, finishedAt.Unix(), commitCount, monthCount, runID); err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}
	return nil
}

// RecordMonthlyBucket stores one monthly bucket for a run. The weight map is
// serialized as JSON.
func (rs *RunStoreImpl) RecordMonthlyBucket(runID int64, bucket schema.MonthlyBucket) error {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	techJSON, err := json.Marshal(bucket.Technologies)
	if err != nil {
		return fmt.Errorf("failed to marshal technologies: %w", err)
	}

	quotedTableName := quoteTableName(monthlyBucketsTable, rs.backend)

	var query string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (run_id, month, start_date, end_date, commit_count, technologies, descriptions)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (run_id, month, start_date, end_date, commit_count, technologies, descriptions)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
	}

	_, err = rs.db.Exec(query, runID, bucket.Month, bucket.StartDate, bucket.EndDate,
		bucket.CommitCount, string(techJSON), bucket.Description)
	if err != nil {
		return fmt.Errorf("failed to insert monthly bucket %s: %w", bucket.Month, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (rs *RunStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = contract.DefaultRunLimit
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	placeholder := "?"
	if rs.backend == schema.PostgreSQLBackend {
		placeholder = "$1"
	}
	query := fmt.Sprintf(`SELECT run_id, fingerprint, repo_path, provider, started_at,
		COALESCE(finished_at, 0), COALESCE(commit_count, 0), COALESCE(month_count, 0)
		FROM %s ORDER BY run_id DESC LIMIT %s`, quotedTableName, placeholder)

	rows, err := rs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var startedAt, finishedAt int64
		if err := rows.Scan(&record.RunID, &record.Fingerprint, &record.RepoPath, &record.Provider,
			&startedAt, &finishedAt, &record.CommitCount, &record.MonthCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartedAt = time.Unix(startedAt, 0).UTC()
		if finishedAt > 0 {
			record.FinishedAt = time.Unix(finishedAt, 0).UTC()
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// ListMonthlyBuckets returns the monthly buckets of a run, oldest first.
func (rs *RunStoreImpl) ListMonthlyBuckets(runID int64) ([]schema.MonthlyBucket, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(monthlyBucketsTable, rs.backend)
	placeholder := "?"
	if rs.backend == schema.PostgreSQLBackend {
		placeholder = "$1"
	}
	query := fmt.Sprintf(`SELECT month, start_date, end_date, commit_count, technologies, COALESCE(descriptions, '')
		FROM %s WHERE run_id = %s ORDER BY start_date`, quotedTableName, placeholder)

	rows, err := rs.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly buckets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.MonthlyBucket
	for rows.Next() {
		var bucket schema.MonthlyBucket
		var techJSON string
		if err := rows.Scan(&bucket.Month, &bucket.StartDate, &bucket.EndDate,
			&bucket.CommitCount, &techJSON, &bucket.Description); err != nil {
			return nil, fmt.Errorf("failed to scan monthly bucket: %w", err)
		}
		if err := json.Unmarshal([]byte(techJSON), &bucket.Technologies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal technologies for %s: %w", bucket.Month, err)
		}
		results = append(results, bucket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly buckets: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}
	if rs.backend == schema.SQLiteBackend {
		status.Location = rs.connStr
		if status.Location == "" {
			status.Location = GetRunDBFilePath()
		}
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	if err := rs.db.QueryRow(countQuery).Scan(&status.Entries); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	return status, nil
}
