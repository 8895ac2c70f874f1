// Package contract provides interfaces and shared utilities for devtrail's
// internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/devtrail/devtrail/schema"
)

// GitClient defines the git operations commit extraction needs.
// This allows the extraction logic to be tested without a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command in repoPath and returns stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Repository Resolution ---

	// Clone clones the remote repository at url into dir.
	Clone(ctx context.Context, url, dir string) error

	// HasCommits reports whether the repository has at least one commit.
	HasCommits(ctx context.Context, repoPath string) bool

	// ListBranches returns every local branch name in the repository.
	ListBranches(ctx context.Context, repoPath string) ([]string, error)

	// --- Commit Logs ---

	// GetBranchLog returns the raw commit log of one branch, oldest first,
	// in the record format expected by the extraction parser.
	GetBranchLog(ctx context.Context, repoPath, branch string) ([]byte, error)

	// GetLastCommitTime returns the committer time of the most recent commit
	// reachable from HEAD.
	GetLastCommitTime(ctx context.Context, repoPath string) (time.Time, error)

	// --- Tree Reads ---

	// ListTree returns the first-level entries of the HEAD tree as
	// (name, isDir) pairs.
	ListTree(ctx context.Context, repoPath string) ([]TreeEntry, error)

	// ReadBlob returns the contents of a first-level file at HEAD.
	ReadBlob(ctx context.Context, repoPath, name string) ([]byte, error)
}

// TreeEntry is one first-level entry of a repository tree.
type TreeEntry struct {
	Name  string
	IsDir bool
}

// Model is the minimal text-generation contract each LLM provider implements.
// Generation may fail after the provider's internal retries; that failure
// propagates unchanged to the caller.
type Model interface {
	// Name returns the provider identifier (e.g. "openai").
	Name() schema.LLMProvider

	// Generate produces text for the prompt with the given sampling options.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// EstimateTokens approximates the token count of the given text.
	EstimateTokens(text string) int
}

// GenerateOptions carries per-call sampling parameters.
type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
}

// TechnologyDetector converts modified file paths into a technology weight
// distribution, optionally guided by project-level context hints.
type TechnologyDetector interface {
	// Detect returns a weight map for the given file paths. Values are
	// expected, not guaranteed, to sum near 100; consolidation re-normalizes.
	Detect(ctx context.Context, files []string, projectContext []string) (schema.WeightMap, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetStageStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for versioned key/value cache storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore tracks completed pipeline runs and their monthly buckets.
type RunStore interface {
	// BeginRun creates a new run row and returns its unique ID.
	BeginRun(fingerprint, repoPath string, provider schema.LLMProvider, startedAt time.Time) (int64, error)

	// FinishRun marks the run complete with final counts.
	FinishRun(runID int64, finishedAt time.Time, commitCount, monthCount int) error

	// RecordMonthlyBucket stores one monthly bucket for a run.
	RecordMonthlyBucket(runID int64, bucket schema.MonthlyBucket) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListMonthlyBuckets returns the monthly buckets of a run, oldest first.
	ListMonthlyBuckets(runID int64) ([]schema.MonthlyBucket, error)

	// GetStatus returns status information about the run store.
	GetStatus() (schema.CacheStatus, error)

	// Close closes the underlying connection.
	Close() error
}
