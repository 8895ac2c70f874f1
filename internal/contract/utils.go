package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HeaderColor = color.New(color.FgCyan, color.Bold) // section headers
	StageColor  = color.New(color.FgGreen)            // stage progress lines
	WarnColor   = color.New(color.FgYellow)           // recoverable issues
)

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = WarnColor.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
		return
	}
	_, _ = WarnColor.Fprintf(os.Stderr, "Warn %s\n", msg)
}

// LogStage logs pipeline stage progress to stderr.
func LogStage(msg string) {
	_, _ = StageColor.Fprintf(os.Stderr, "%s\n", msg)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for stage caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devtrail_cache.db"
	}
	return filepath.Join(homeDir, ".devtrail_cache.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run history.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devtrail_runs.db"
	}
	return filepath.Join(homeDir, ".devtrail_runs.db")
}

// SelectOutputFile returns the appropriate file handle for output based on
// the provided file path. An empty path selects stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// IsRemoteURL reports whether a repository location refers to a remote
// resource that must be cloned before reading.
func IsRemoteURL(location string) bool {
	return strings.HasPrefix(location, "http://") ||
		strings.HasPrefix(location, "https://") ||
		strings.HasPrefix(location, "git@")
}

// TruncateText truncates a string to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
