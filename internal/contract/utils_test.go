package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{
			name:     "shorter than limit",
			input:    "short",
			maxWidth: 10,
			expected: "short",
		},
		{
			name:     "exactly at limit",
			input:    "exactly10!",
			maxWidth: 10,
			expected: "exactly10!",
		},
		{
			name:     "longer than limit",
			input:    "this is a long description",
			maxWidth: 10,
			expected: "this is...",
		},
		{
			name:     "limit too small for ellipsis",
			input:    "abcdef",
			maxWidth: 3,
			expected: "abcdef",
		},
		{
			name:     "multibyte runes",
			input:    "héllo wörld, this is long",
			maxWidth: 10,
			expected: "héllo w...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.input, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsRemoteURL(t *testing.T) {
	assert.True(t, IsRemoteURL("https://github.com/golang/go"))
	assert.True(t, IsRemoteURL("http://example.com/repo.git"))
	assert.True(t, IsRemoteURL("git@github.com:golang/go.git"))
	assert.False(t, IsRemoteURL("/home/dev/repo"))
	assert.False(t, IsRemoteURL("./relative/path"))
	assert.False(t, IsRemoteURL("repo"))
}

func TestSelectOutputFile(t *testing.T) {
	// Empty path means stdout, which must not be closed by callers.
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.json")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestDBFilePaths(t *testing.T) {
	cachePath := GetCacheDBFilePath()
	runPath := GetRunDBFilePath()

	assert.Contains(t, cachePath, ".devtrail_cache.db")
	assert.Contains(t, runPath, ".devtrail_runs.db")
	assert.NotEqual(t, cachePath, runPath)
}
