// Package schema has the shared data model for all parts of devtrail.
package schema

import "time"

// DayFormat is the canonical calendar-day representation used in bucket
// records and cache payloads.
const DayFormat = "2006-01-02"

// MonthFormat is the label format carried by monthly buckets.
const MonthFormat = "2006-01"

// WeightMap maps a technology name to its percentage share. A non-empty
// consolidated map sums to exactly 100.00 (two-decimal rounding with the
// residual assigned deterministically).
type WeightMap map[string]float64

// Sum returns the total of all weights in the map.
func (w WeightMap) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Clone returns a shallow copy of the weight map.
func (w WeightMap) Clone() WeightMap {
	out := make(WeightMap, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Commit is an immutable record of one non-merge commit that survived all
// extraction filters. Date carries calendar-day precision only.
type Commit struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
	Files   []string  `json:"files"`
}

// Day returns the commit's calendar day in DayFormat.
func (c Commit) Day() string {
	return c.Date.Format(DayFormat)
}

// DailyBucket aggregates all qualifying commits of one calendar day.
// Field names are part of the stage contract.
type DailyBucket struct {
	Date         string    `json:"date"`
	CommitCount  int       `json:"commit_count"`
	Technologies WeightMap `json:"technologies"`
	Description  string    `json:"descriptions"`
}

// WeeklyBucket aggregates daily buckets over a Monday..Sunday window.
type WeeklyBucket struct {
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CommitCount  int       `json:"commit_count"`
	Technologies WeightMap `json:"technologies"`
	Description  string    `json:"descriptions"`
}

// MonthlyBucket aggregates weekly buckets over a full calendar month.
type MonthlyBucket struct {
	Month        string    `json:"month"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	CommitCount  int       `json:"commit_count"`
	Technologies WeightMap `json:"technologies"`
	Description  string    `json:"descriptions"`
}

// ProjectContext holds the repository-level hints fed into technology
// detection: root README/CHANGELOG contents, the first-level structure
// listing, and the technology list inferred from them.
type ProjectContext struct {
	ReadmeFiles    map[string]string `json:"readme_files"`
	Structure      string            `json:"structure"`
	Technologies   []string          `json:"technologies"`
	LastCommitDate time.Time         `json:"last_commit_date"`
}

// RunRecord describes one completed pipeline run as persisted by the
// run-history store.
type RunRecord struct {
	RunID       int64     `json:"run_id"`
	Fingerprint string    `json:"fingerprint"`
	RepoPath    string    `json:"repo_path"`
	Provider    string    `json:"provider"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	CommitCount int       `json:"commit_count"`
	MonthCount  int       `json:"month_count"`
}

// CacheStatus reports connection and row-count information for a cache store.
type CacheStatus struct {
	Backend   string `json:"backend"`
	Connected bool   `json:"connected"`
	Entries   int64  `json:"entries"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	Location  string `json:"location,omitempty"`
}
