// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/devtrail/devtrail/core"
	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResult prints a full pipeline result using the configured output format.
func (ow *OutWriter) WriteResult(result *core.Result, cfg *contract.Config, duration time.Duration) error {
	return WriteResult(result, cfg, duration)
}

// WriteRuns prints run-history records using the configured output format.
func (ow *OutWriter) WriteRuns(records []schema.RunRecord, cfg *contract.Config) error {
	return WriteRuns(records, cfg)
}

// WriteRunBuckets prints the stored monthly buckets of one run using the
// configured output format.
func (ow *OutWriter) WriteRunBuckets(runID int64, buckets []schema.MonthlyBucket, cfg *contract.Config) error {
	return WriteRunBuckets(runID, buckets, cfg)
}

// WriteContext prints a project context profile using the configured output format.
func (ow *OutWriter) WriteContext(pc *schema.ProjectContext, cfg *contract.Config) error {
	return WriteContext(pc, cfg)
}
