// Package extract walks a repository's branches and turns its commit history
// into bounded batches of filtered, day-normalized commit records.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// minMessageLength is the relevance-filter floor: commits with shorter
// trimmed messages are excluded.
const minMessageLength = 10

// Extractor walks repository branches and emits commit batches.
type Extractor struct {
	client contract.GitClient
}

// NewExtractor creates an Extractor backed by the given git client.
func NewExtractor(client contract.GitClient) *Extractor {
	return &Extractor{client: client}
}

// ResolveRepo resolves a repository location to a local path. URL-like
// locations are cloned into a fresh temporary directory; the directory is
// not cleaned up here, callers own its lifetime. Local locations must be an
// existing directory, else the resolution fails with ErrInvalidRepository.
func (e *Extractor) ResolveRepo(ctx context.Context, location string) (string, error) {
	if contract.IsRemoteURL(location) {
		dir, err := os.MkdirTemp("", "devtrail-clone-*")
		if err != nil {
			return "", fmt.Errorf("failed to create clone directory: %w", err)
		}
		if err := e.client.Clone(ctx, location, dir); err != nil {
			return "", fmt.Errorf("%w: %v", contract.ErrInvalidRepository, err)
		}
		return dir, nil
	}
	info, err := os.Stat(location)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not an existing directory", contract.ErrInvalidRepository, location)
	}
	return location, nil
}

// Extract validates the repository and returns a single-pass batch iterator.
// Branch logs are read lazily, one branch at a time, as batches are pulled.
func (e *Extractor) Extract(ctx context.Context, cfg *contract.Config) (*BatchIterator, error) {
	repoPath, err := e.ResolveRepo(ctx, cfg.RepoPath)
	if err != nil {
		return nil, err
	}

	if !e.client.HasCommits(ctx, repoPath) {
		return nil, fmt.Errorf("%w: %s", contract.ErrEmptyRepository, repoPath)
	}

	available, err := e.client.ListBranches(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrEmptyRepository, err)
	}
	if len(available) == 0 {
		return nil, fmt.Errorf("%w in %s", contract.ErrNoBranchesFound, repoPath)
	}

	branches := cfg.Branches
	if len(branches) == 0 {
		branches = available
	}

	availableSet := make(map[string]struct{}, len(available))
	for _, b := range available {
		availableSet[b] = struct{}{}
	}

	return &BatchIterator{
		client:    e.client,
		cfg:       cfg,
		repoPath:  repoPath,
		branches:  branches,
		available: availableSet,
	}, nil
}

// BatchIterator is a single-pass, non-restartable sequence of commit batches.
// Consuming it exhausts the underlying branch traversal.
type BatchIterator struct {
	client    contract.GitClient
	cfg       *contract.Config
	repoPath  string
	branches  []string
	available map[string]struct{}

	branchIdx int
	pending   []schema.Commit
	done      bool
}

// RepoPath returns the resolved local repository path, which may be a
// temporary clone directory for remote locations.
func (it *BatchIterator) RepoPath() string {
	return it.repoPath
}

// Next returns the next batch of at most PageSize commits in traversal
// order. The final batch may be shorter. Exhaustion is signaled with io.EOF.
func (it *BatchIterator) Next(ctx context.Context) ([]schema.Commit, error) {
	if it.done {
		return nil, io.EOF
	}

	for len(it.pending) < it.cfg.PageSize && it.branchIdx < len(it.branches) {
		branch := it.branches[it.branchIdx]
		it.branchIdx++

		if _, ok := it.available[branch]; !ok {
			contract.LogWarn(fmt.Sprintf("branch %q not found in repository, skipping", branch), contract.ErrBranchNotFound)
			continue
		}

		out, err := it.client.GetBranchLog(ctx, it.repoPath, branch)
		if err != nil {
			it.done = true
			return nil, fmt.Errorf("failed to read log of branch %s: %w", branch, err)
		}
		it.pending = append(it.pending, filterCommits(parseBranchLog(out), it.cfg)...)
	}

	if len(it.pending) == 0 {
		it.done = true
		return nil, io.EOF
	}

	n := min(it.cfg.PageSize, len(it.pending))
	batch := it.pending[:n:n]
	it.pending = it.pending[n:]
	return batch, nil
}

// rawCommit is one parsed log record before filtering.
type rawCommit struct {
	hash       string
	author     string
	email      string
	commitTime int64
	parents    []string
	message    string
	files      []string
}

// parseBranchLog splits the delimited git log output produced by
// GetBranchLog into raw commit records. Malformed records are dropped.
func parseBranchLog(out []byte) []rawCommit {
	var commits []rawCommit
	for _, record := range strings.Split(string(out), contract.LogRecordSep) {
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.Split(record, contract.LogFieldSep)
		if len(fields) < 7 {
			continue
		}
		ts, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			continue
		}
		var parents []string
		if p := strings.TrimSpace(fields[4]); p != "" {
			parents = strings.Fields(p)
		}
		commits = append(commits, rawCommit{
			hash:       fields[0],
			author:     fields[1],
			email:      fields[2],
			commitTime: ts,
			parents:    parents,
			message:    strings.TrimSpace(fields[5]),
			files:      parseFileList(fields[6]),
		})
	}
	return commits
}

// parseFileList reads the --name-only trailer that follows each log record.
func parseFileList(trailer string) []string {
	var files []string
	for _, line := range strings.Split(trailer, "\n") {
		if f := strings.TrimSpace(line); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// filterCommits applies the merge, date-range, author and relevance filters
// and converts survivors into day-normalized Commit records.
func filterCommits(raw []rawCommit, cfg *contract.Config) []schema.Commit {
	emailSet := make(map[string]struct{}, len(cfg.AuthorEmails))
	for _, e := range cfg.AuthorEmails {
		emailSet[e] = struct{}{}
	}

	var commits []schema.Commit
	for _, rc := range raw {
		// Merges have more than one parent and are always excluded.
		if len(rc.parents) > 1 {
			continue
		}

		day := normalizeDay(rc.commitTime)
		if !cfg.StartDate.IsZero() && day.Before(cfg.StartDate) {
			continue
		}
		if !cfg.EndDate.IsZero() && day.After(cfg.EndDate) {
			continue
		}

		if _, ok := emailSet[rc.email]; !ok {
			continue
		}

		if !isRelevantMessage(rc.message, cfg.IgnoreWords) {
			continue
		}

		commits = append(commits, schema.Commit{
			Hash:    rc.hash,
			Author:  rc.author,
			Email:   rc.email,
			Date:    day,
			Message: rc.message,
			Files:   rc.files,
		})
	}
	return commits
}

// normalizeDay truncates a unix commit timestamp to its UTC calendar day,
// discarding time-of-day and timezone offset.
func normalizeDay(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isRelevantMessage applies the relevance filter: messages under the length
// floor or containing an ignore keyword (case-insensitive substring) are
// excluded.
func isRelevantMessage(message string, ignoreWords []string) bool {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)
	for _, kw := range ignoreWords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return utf8.RuneCountInString(trimmed) >= minMessageLength
}
