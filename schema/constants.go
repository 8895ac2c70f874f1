package schema

// Custom string types for type safety.
type (
	// Granularity represents a time-bucket aggregation level.
	Granularity string

	// LLMProvider identifies a supported text-generation backend.
	LLMProvider string

	// CacheBackend represents the database backend for stage caching.
	CacheBackend string

	// OutputMode represents the format of rendered output.
	OutputMode string
)

// All aggregation granularities.
const (
	DailyGranularity   Granularity = "daily"
	WeeklyGranularity  Granularity = "weekly"
	MonthlyGranularity Granularity = "monthly"
)

// All LLM providers supported. The set is closed: providers are resolved
// through a static registry, never by arbitrary runtime lookup.
const (
	OpenAIProvider LLMProvider = "openai" // default
	GeminiProvider LLMProvider = "gemini"
)

// All cache backends supported.
const (
	SQLiteBackend     CacheBackend = "sqlite" // default
	MySQLBackend      CacheBackend = "mysql"
	PostgreSQLBackend CacheBackend = "postgresql"
	NoneBackend       CacheBackend = "none"
)

// All output modes supported.
const (
	TextOut     OutputMode = "text" // default
	JSONOut     OutputMode = "json"
	CSVOut      OutputMode = "csv"
	MarkdownOut OutputMode = "markdown"
	ParquetOut  OutputMode = "parquet"
)

// ValidLLMProviders lists all valid providers.
var ValidLLMProviders = map[LLMProvider]struct{}{
	OpenAIProvider: {},
	GeminiProvider: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[CacheBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:     {},
	JSONOut:     {},
	CSVOut:      {},
	MarkdownOut: {},
	ParquetOut:  {},
}

// Stage names used to namespace cached pipeline results.
const (
	StageDaily   = "daily"
	StageWeekly  = "weekly"
	StageMonthly = "monthly"
	StageContext = "context"
)
