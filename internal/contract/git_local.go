package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Log record delimiters used by GetBranchLog. Unit/record separator control
// characters never occur in commit metadata, unlike newlines.
const (
	LogRecordSep = "\x1e"
	LogFieldSep  = "\x1f"
)

// branchLogFormat captures hash, author name, author email, committer
// timestamp, parent hashes and the full message body for each commit,
// followed by the modified file names emitted by --name-only. Committer time
// matches the timestamp GetLastCommitTime reports.
const branchLogFormat = "format:" + LogRecordSep + "%H" + LogFieldSep + "%an" + LogFieldSep + "%ae" + LogFieldSep + "%ct" + LogFieldSep + "%P" + LogFieldSep + "%B" + LogFieldSep

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, fmt.Errorf("git '%v' exit: %s", strings.Join(fullArgs, " "), strings.TrimSpace(string(exitErr.Stderr)))
	} else if err != nil {
		return nil, fmt.Errorf("could not execute git (is git installed and in PATH?): %w", err)
	}
	return out, nil
}

// Clone implements the GitClient interface.
func (c *LocalGitClient) Clone(ctx context.Context, url, dir string) error {
	cmd := exec.CommandContext(ctx, "git", "clone", "--quiet", url, dir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone %s failed: %s", url, strings.TrimSpace(string(out)))
	}
	return nil
}

// HasCommits implements the GitClient interface.
func (c *LocalGitClient) HasCommits(ctx context.Context, repoPath string) bool {
	_, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "HEAD")
	return err == nil
}

// ListBranches implements the GitClient interface.
func (c *LocalGitClient) ListBranches(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	var branches []string
	for _, line := range strings.Split(string(out), "\n") {
		if b := strings.TrimSpace(line); b != "" {
			branches = append(branches, b)
		}
	}
	return branches, nil
}

// GetBranchLog implements the GitClient interface. Commits are emitted
// oldest first so pagination preserves traversal order.
func (c *LocalGitClient) GetBranchLog(ctx context.Context, repoPath, branch string) ([]byte, error) {
	args := []string{
		"log", branch,
		"--reverse",
		"--pretty=" + branchLogFormat,
		"--name-only",
	}
	return c.Run(ctx, repoPath, args...)
}

// GetLastCommitTime implements the GitClient interface.
func (c *LocalGitClient) GetLastCommitTime(ctx context.Context, repoPath string) (time.Time, error) {
	out, err := c.Run(ctx, repoPath, "log", "-n", "1", "--pretty=format:%ct", "HEAD")
	if err != nil {
		return time.Time{}, err
	}
	timestampStr := strings.TrimSpace(string(out))
	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit time '%s': %w", timestampStr, err)
	}
	return time.Unix(timestamp, 0), nil
}

// ListTree implements the GitClient interface.
func (c *LocalGitClient) ListTree(ctx context.Context, repoPath string) ([]TreeEntry, error) {
	out, err := c.Run(ctx, repoPath, "ls-tree", "HEAD")
	if err != nil {
		return nil, err
	}
	var entries []TreeEntry
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		// Each line is "<mode> <type> <hash>\t<name>".
		meta, name, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) < 2 {
			continue
		}
		entries = append(entries, TreeEntry{Name: name, IsDir: fields[1] == "tree"})
	}
	return entries, nil
}

// ReadBlob implements the GitClient interface.
func (c *LocalGitClient) ReadBlob(ctx context.Context, repoPath, name string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", "HEAD:"+name)
}
