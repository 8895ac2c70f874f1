package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devtrail/devtrail/core/extract"
	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/internal/llm"
	"github.com/devtrail/devtrail/internal/outwriter"
)

// contextCmd inspects a repository's project context.
var contextCmd = &cobra.Command{
	Use:   "context [repo-path]",
	Short: "Show the project context used to ground descriptions.",
	Long: `Inspect the context profile gathered from a repository: its top-level
structure, documentation files and detected technologies. This is the same
profile the generate command feeds to the LLM so descriptions mention the
project's actual stack.

Examples:
  # Profile the current repository
  devtrail context

  # Profile another repository as JSON
  devtrail context ~/src/backend --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		model, err := llm.NewModel(rootCtx, cfg.Provider, cfg.ModelName)
		if err != nil {
			contract.LogFatal("Cannot initialize LLM provider", err)
		}
		detector := llm.NewDetector(model, cacheManager.GetStageStore())

		extractor := extract.NewExtractor(contract.NewLocalGitClient())
		repoPath, err := extractor.ResolveRepo(rootCtx, cfg.RepoPath)
		if err != nil {
			contract.LogFatal("Cannot resolve repository", err)
		}
		pc, err := extractor.GatherContext(rootCtx, repoPath)
		if err != nil {
			contract.LogFatal("Cannot gather project context", err)
		}
		if techs, err := detector.ProjectTechnologies(rootCtx, pc); err == nil {
			pc.Technologies = techs
		}

		if err := outwriter.NewOutWriter().WriteContext(pc, cfg); err != nil {
			contract.LogFatal("Cannot write project context", err)
		}
	},
}
