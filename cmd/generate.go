package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/devtrail/devtrail/core"
	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/internal/llm"
	"github.com/devtrail/devtrail/internal/outwriter"
)

// generateCmd runs the full summarization pipeline.
var generateCmd = &cobra.Command{
	Use:   "generate [repo-path]",
	Short: "Summarize your git activity into time buckets.",
	Long: `Extract your commits and summarize them into daily, weekly and monthly
activity buckets, each with a commit count, a technology weight distribution
and a generated description.

The repository can be a local path or a remote URL (cloned to a temporary
directory). Only commits by the given author emails are considered, merge
commits are excluded, and trivial messages are filtered out.

Stage results are cached per repository state, so re-running with the same
configuration reuses earlier work instead of calling the LLM again.

Examples:
  # Summarize your work in the current repository
  devtrail generate --emails you@example.com

  # Restrict to a date range and specific branches
  devtrail generate --emails you@example.com --start 2024-01-01 --end 2024-06-30 --branches main,develop

  # Use Gemini instead of OpenAI
  devtrail generate --emails you@example.com --provider gemini

  # Export the buckets for later analysis
  devtrail generate --emails you@example.com --output parquet --output-file activity`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cfg.RequireAuthorEmails(); err != nil {
			contract.LogFatal("Cannot run generation", err)
		}

		model, err := llm.NewModel(rootCtx, cfg.Provider, cfg.ModelName)
		if err != nil {
			contract.LogFatal("Cannot initialize LLM provider", err)
		}
		detector := llm.NewDetector(model, cacheManager.GetStageStore())

		started := time.Now()
		result, err := core.Run(rootCtx, cfg, contract.NewLocalGitClient(), model, detector, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot run pipeline", err)
		}

		if err := outwriter.NewOutWriter().WriteResult(result, cfg, time.Since(started)); err != nil {
			contract.LogFatal("Cannot write results", err)
		}
	},
}
