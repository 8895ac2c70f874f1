package contract

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/devtrail/devtrail/schema"
)

// Default values for configuration.
const (
	DefaultPageSize  = 100
	MaxPageSize      = 10000
	DefaultRunLimit  = 25
	DefaultTableWide = 0 // 0 = auto-detect terminal width
)

// DateFormat is the accepted format for --start/--end flags.
const DateFormat = "2006-01-02"

// Config holds the runtime configuration for a pipeline run.
// This struct is the final, validated config; it is passed explicitly into
// every component rather than read from ambient global state.
type Config struct {
	RepoPath     string
	AuthorEmails []string
	Branches     []string
	StartDate    time.Time // zero = no lower bound
	EndDate      time.Time // zero = no upper bound
	IgnoreWords  []string  // lowercased relevance-filter keywords
	PageSize     int

	Provider    schema.LLMProvider
	ModelName   string // provider-specific model override, empty = provider default
	TokenBudget int    // 0 = no ceiling

	Output     schema.OutputMode
	OutputFile string
	RunLimit   int
	Width      int // terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.CacheBackend
	CacheDBConnect string // please use env var as this is plaintext

	RunBackend   schema.CacheBackend
	RunDBConnect string // please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	Emails         string `mapstructure:"emails"`
	Branches       string `mapstructure:"branches"`
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	IgnoreKeywords string `mapstructure:"ignore-keywords"`
	PageSize       int    `mapstructure:"page-size"`

	Provider    string `mapstructure:"provider"`
	Model       string `mapstructure:"model"`
	TokenBudget int    `mapstructure:"token-budget"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Limit      int    `mapstructure:"limit"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunBackend     string `mapstructure:"run-backend"`
	RunDBConnect   string `mapstructure:"run-db-connect"`
}

// ProcessAndValidate converts raw input into the validated Config.
// It parses list and date fields, applies defaults, and rejects values
// outside the closed enumerations.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.RepoPath = strings.TrimSpace(input.RepoPathStr)
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}

	cfg.AuthorEmails = splitList(input.Emails)
	cfg.Branches = splitList(input.Branches)

	cfg.IgnoreWords = nil
	for _, kw := range splitList(input.IgnoreKeywords) {
		cfg.IgnoreWords = append(cfg.IgnoreWords, strings.ToLower(kw))
	}

	if input.PageSize <= 0 || input.PageSize > MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d, got %d", MaxPageSize, input.PageSize)
	}
	cfg.PageSize = input.PageSize

	var err error
	if cfg.StartDate, err = parseDay(input.Start); err != nil {
		return fmt.Errorf("invalid start date %q: %w", input.Start, err)
	}
	if cfg.EndDate, err = parseDay(input.End); err != nil {
		return fmt.Errorf("invalid end date %q: %w", input.End, err)
	}
	if !cfg.StartDate.IsZero() && !cfg.EndDate.IsZero() && cfg.EndDate.Before(cfg.StartDate) {
		return fmt.Errorf("end date %s precedes start date %s", input.End, input.Start)
	}

	cfg.Provider = schema.LLMProvider(input.Provider)
	if _, ok := schema.ValidLLMProviders[cfg.Provider]; !ok {
		return fmt.Errorf("unsupported provider %q. Must be openai or gemini", input.Provider)
	}
	cfg.ModelName = strings.TrimSpace(input.Model)
	if input.TokenBudget < 0 {
		return fmt.Errorf("token budget cannot be negative, got %d", input.TokenBudget)
	}
	cfg.TokenBudget = input.TokenBudget

	cfg.Output = schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("unsupported output mode %q", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	cfg.RunLimit = input.Limit
	if cfg.RunLimit <= 0 {
		cfg.RunLimit = DefaultRunLimit
	}
	cfg.Width = input.Width
	if input.Color == "" {
		cfg.UseColors = true
	} else if cfg.UseColors, err = ParseBoolString(input.Color); err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}

	cfg.CacheBackend = schema.CacheBackend(input.CacheBackend)
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("unsupported cache backend %q. Must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	if input.RunBackend != "" {
		cfg.RunBackend = schema.CacheBackend(input.RunBackend)
		if _, ok := schema.ValidCacheBackends[cfg.RunBackend]; !ok {
			return fmt.Errorf("unsupported run backend %q. Must be sqlite, mysql, postgresql, or none", input.RunBackend)
		}
		cfg.RunDBConnect = input.RunDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
			return err
		}
	}

	return nil
}

// RequireAuthorEmails rejects configurations without an author filter.
// Extraction is author-scoped; generate-style commands call this up front.
func (c *Config) RequireAuthorEmails() error {
	if len(c.AuthorEmails) == 0 {
		return fmt.Errorf("at least one author email is required (use --emails)")
	}
	return nil
}

// Fingerprint derives the stable run key that namespaces cached stage
// outputs. Identical configuration yields an identical fingerprint. The
// repository's most recent commit time participates so the key reflects the
// repository state, not just the request.
func (c *Config) Fingerprint(lastCommit time.Time) string {
	parts := []string{
		c.RepoPath,
		strings.Join(c.AuthorEmails, ","),
		string(c.Provider),
	}
	if !c.StartDate.IsZero() {
		parts = append(parts, c.StartDate.Format(DateFormat))
	}
	if !c.EndDate.IsZero() {
		parts = append(parts, c.EndDate.Format(DateFormat))
	}
	if !lastCommit.IsZero() {
		parts = append(parts, lastCommit.UTC().Format(time.RFC3339))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.AuthorEmails != nil {
		clone.AuthorEmails = make([]string, len(c.AuthorEmails))
		copy(clone.AuthorEmails, c.AuthorEmails)
	}
	if c.Branches != nil {
		clone.Branches = make([]string, len(c.Branches))
		copy(clone.Branches, c.Branches)
	}
	if c.IgnoreWords != nil {
		clone.IgnoreWords = make([]string, len(c.IgnoreWords))
		copy(clone.IgnoreWords, c.IgnoreWords)
	}
	return &clone
}

// ValidateDatabaseConnectionString checks that SQL server backends carry a
// connection string. SQLite falls back to a default file path and none needs
// nothing.
func ValidateDatabaseConnectionString(backend schema.CacheBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("mysql backend requires a connection string (user:password@tcp(host:port)/dbname)")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("postgresql backend requires a connection string (host=... port=... user=... dbname=...)")
		}
	}
	return nil
}

// splitList splits a comma-separated flag value, dropping empty parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseDay parses an optional YYYY-MM-DD value. Empty input yields the zero
// time, meaning no bound on that side.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateFormat, s)
}
