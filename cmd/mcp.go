package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/internal/mcp"
)

// mcpCmd starts the MCP server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing devtrail to AI assistants",
	Long: `Start a Model Context Protocol (MCP) server on stdin/stdout.

The server exposes devtrail's capabilities as tools that AI assistants
can call directly:
  generate_activity_summary - run the full summarization pipeline
  get_project_context       - profile a repository's stack and structure
  get_run_history           - list recorded pipeline runs
  get_run_buckets           - fetch the monthly buckets of one run

Configuration (provider keys, cache backends) is read the same way as for
the CLI commands, so set DEVTRAIL_* environment variables in the MCP client
definition.

Examples:
  # Claude Desktop / IDE client configuration
  { "command": "devtrail", "args": ["mcp"] }`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := mcp.StartMCPServer(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("MCP server terminated", err)
		}
	},
}
