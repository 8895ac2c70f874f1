package extract

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// logRecord renders one commit in the delimited format GetBranchLog emits.
func logRecord(hash, author, email string, ts int64, parents, message string, files ...string) string {
	var sb strings.Builder
	sb.WriteString(contract.LogRecordSep)
	sb.WriteString(strings.Join([]string{hash, author, email, fmt.Sprintf("%d", ts), parents, message}, contract.LogFieldSep))
	sb.WriteString(contract.LogFieldSep)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(files, "\n"))
	sb.WriteString("\n")
	return sb.String()
}

func testConfig() *contract.Config {
	return &contract.Config{
		RepoPath:     "/repo",
		AuthorEmails: []string{"dev@example.com"},
		PageSize:     100,
	}
}

// unixDay returns a unix timestamp within the given UTC day.
func unixDay(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 15, 4, 5, 0, time.UTC).Unix()
}

func drain(t *testing.T, it *BatchIterator) []schema.Commit {
	t.Helper()
	var all []schema.Commit
	for {
		batch, err := it.Next(context.Background())
		if err == io.EOF {
			return all
		}
		require.NoError(t, err)
		all = append(all, batch...)
	}
}

func TestParseBranchLog(t *testing.T) {
	out := logRecord("abc123", "Dev", "dev@example.com", unixDay(2024, 3, 5), "parent1", "Add parser for log records", "main.go", "parser.go")
	commits := parseBranchLog([]byte(out))

	require.Len(t, commits, 1)
	assert.Equal(t, "abc123", commits[0].hash)
	assert.Equal(t, "Dev", commits[0].author)
	assert.Equal(t, "dev@example.com", commits[0].email)
	assert.Equal(t, []string{"parent1"}, commits[0].parents)
	assert.Equal(t, "Add parser for log records", commits[0].message)
	assert.Equal(t, []string{"main.go", "parser.go"}, commits[0].files)
}

func TestParseBranchLogMalformed(t *testing.T) {
	out := contract.LogRecordSep + "only" + contract.LogFieldSep + "three" + contract.LogFieldSep + "fields"
	assert.Empty(t, parseBranchLog([]byte(out)))
	assert.Empty(t, parseBranchLog(nil))
}

func TestFilterCommits(t *testing.T) {
	ts := unixDay(2024, 3, 5)
	for _, tc := range []struct {
		name string
		raw  rawCommit
		want bool
	}{
		{
			name: "kept",
			raw:  rawCommit{email: "dev@example.com", commitTime: ts, parents: []string{"p1"}, message: "Implement weekly rollup"},
			want: true,
		},
		{
			name: "root commit kept",
			raw:  rawCommit{email: "dev@example.com", commitTime: ts, message: "Initial project scaffolding"},
			want: true,
		},
		{
			name: "merge excluded",
			raw:  rawCommit{email: "dev@example.com", commitTime: ts, parents: []string{"p1", "p2"}, message: "Merge branch feature into main"},
			want: false,
		},
		{
			name: "other author excluded",
			raw:  rawCommit{email: "someone@else.com", commitTime: ts, parents: []string{"p1"}, message: "Implement weekly rollup"},
			want: false,
		},
		{
			name: "short message excluded",
			raw:  rawCommit{email: "dev@example.com", commitTime: ts, parents: []string{"p1"}, message: "  wip     "},
			want: false,
		},
		{
			// 9 runes but 10 bytes: the length floor counts characters.
			name: "short multibyte message excluded",
			raw:  rawCommit{email: "dev@example.com", commitTime: ts, parents: []string{"p1"}, message: "améliorer"},
			want: false,
		},
		{
			name: "ignore keyword excluded",
			raw:  rawCommit{email: "dev@example.com", commitTime: ts, parents: []string{"p1"}, message: "Automatic FORMATTING sweep"},
			want: false,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.IgnoreWords = []string{"formatting"}
			got := filterCommits([]rawCommit{tc.raw}, cfg)
			if tc.want {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterCommitsDateRange(t *testing.T) {
	cfg := testConfig()
	cfg.StartDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg.EndDate = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	raw := []rawCommit{
		{email: "dev@example.com", commitTime: unixDay(2024, 2, 29), message: "Before the configured window"},
		{email: "dev@example.com", commitTime: unixDay(2024, 3, 1), message: "First day of the window"},
		// End of the day on the last in-range date still lands inside.
		{email: "dev@example.com", commitTime: time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC).Unix(), message: "Last day of the window"},
		{email: "dev@example.com", commitTime: unixDay(2024, 4, 1), message: "After the configured window"},
	}

	got := filterCommits(raw, cfg)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), got[1].Date)
}

func TestNormalizeDay(t *testing.T) {
	ts := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC).Unix()
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), normalizeDay(ts))
}

func TestExtractBatching(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 250; i++ {
		sb.WriteString(logRecord(
			fmt.Sprintf("hash%03d", i), "Dev", "dev@example.com",
			unixDay(2024, 3, 5), "p1",
			fmt.Sprintf("Change number %03d with details", i), "main.go",
		))
	}

	client := &contract.MockGitClient{}
	client.On("HasCommits", mock.Anything, mock.Anything).Return(true)
	client.On("ListBranches", mock.Anything, mock.Anything).Return([]string{"main"}, nil)
	client.On("GetBranchLog", mock.Anything, mock.Anything, "main").Return([]byte(sb.String()), nil)

	cfg := testConfig()
	cfg.RepoPath = "."

	it, err := NewExtractor(client).Extract(context.Background(), cfg)
	require.NoError(t, err)

	var sizes []int
	total := 0
	for {
		batch, err := it.Next(context.Background())
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, len(batch))
		total += len(batch)
	}
	assert.Equal(t, []int{100, 100, 50}, sizes)
	assert.Equal(t, 250, total)

	// A drained iterator stays exhausted.
	_, err = it.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestExtractMissingBranchSkipped(t *testing.T) {
	out := logRecord("abc", "Dev", "dev@example.com", unixDay(2024, 3, 5), "p1", "Survives the branch filter", "a.go")

	client := &contract.MockGitClient{}
	client.On("HasCommits", mock.Anything, mock.Anything).Return(true)
	client.On("ListBranches", mock.Anything, mock.Anything).Return([]string{"main"}, nil)
	client.On("GetBranchLog", mock.Anything, mock.Anything, "main").Return([]byte(out), nil)

	cfg := testConfig()
	cfg.RepoPath = "."
	cfg.Branches = []string{"ghost", "main"}

	it, err := NewExtractor(client).Extract(context.Background(), cfg)
	require.NoError(t, err)

	commits := drain(t, it)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc", commits[0].Hash)
	client.AssertNotCalled(t, "GetBranchLog", mock.Anything, mock.Anything, "ghost")
}

func TestExtractEmptyRepository(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("HasCommits", mock.Anything, mock.Anything).Return(false)

	cfg := testConfig()
	cfg.RepoPath = "."

	_, err := NewExtractor(client).Extract(context.Background(), cfg)
	assert.ErrorIs(t, err, contract.ErrEmptyRepository)
}

func TestExtractInvalidRepository(t *testing.T) {
	cfg := testConfig()
	cfg.RepoPath = "/definitely/not/a/repo"

	_, err := NewExtractor(&contract.MockGitClient{}).Extract(context.Background(), cfg)
	assert.ErrorIs(t, err, contract.ErrInvalidRepository)
}

func TestGatherContext(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("ListTree", mock.Anything, "/repo").Return([]contract.TreeEntry{
		{Name: "cmd", IsDir: true},
		{Name: "README.md"},
		{Name: "CHANGELOG"},
		{Name: "notes.md"},
		{Name: "main.go"},
	}, nil)
	client.On("ReadBlob", mock.Anything, "/repo", "README.md").Return([]byte("# DevTrail"), nil)
	client.On("ReadBlob", mock.Anything, "/repo", "CHANGELOG").Return([]byte("v1: initial"), nil)
	last := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	client.On("GetLastCommitTime", mock.Anything, "/repo").Return(last, nil)

	pc, err := NewExtractor(client).GatherContext(context.Background(), "/repo")
	require.NoError(t, err)

	assert.Equal(t, "# DevTrail", pc.ReadmeFiles["README.md"])
	assert.Equal(t, "v1: initial", pc.ReadmeFiles["CHANGELOG"])
	assert.NotContains(t, pc.ReadmeFiles, "notes.md")
	assert.Equal(t, strings.Join([]string{
		"[DIR] cmd",
		"[FILE] CHANGELOG",
		"[FILE] README.md",
		"[FILE] main.go",
		"[FILE] notes.md",
	}, "\n"), pc.Structure)
	assert.Equal(t, last, pc.LastCommitDate)
}

func TestIsDocFile(t *testing.T) {
	for name, want := range map[string]bool{
		"README.md":       true,
		"readme.rst":      true,
		"README":          true,
		"CHANGELOG.txt":   true,
		"ReadMe.markdown": true,
		"README.html":     false,
		"main.go":         false,
		"docs.md":         false,
	} {
		assert.Equal(t, want, isDocFile(name), name)
	}
}
