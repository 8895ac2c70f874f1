// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devtrail/devtrail/internal/contract"
)

// NewMCPServer initializes and configures the devtrail MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Devtrail Activity Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: generate_activity_summary ---
	s.AddTool(mcp.NewTool("generate_activity_summary",
		mcp.WithDescription("Summarize a developer's git history into daily, weekly and monthly activity buckets with technology weights."),
		mcp.WithString("emails", mcp.Description("Comma-separated author emails to include."), mcp.Required()),
		mcp.WithString("repo_path", mcp.Description("Path or URL of the Git repository (defaults to the configured repository).")),
		mcp.WithString("provider", mcp.Description("LLM provider for summarization."), mcp.Enum("openai", "gemini")),
		mcp.WithString("start", mcp.Description("Inclusive start day (YYYY-MM-DD).")),
		mcp.WithString("end", mcp.Description("Inclusive end day (YYYY-MM-DD).")),
		mcp.WithString("branches", mcp.Description("Comma-separated branch names to traverse (defaults to all local branches).")),
	), h.handleGenerateActivitySummary)

	// --- 2. Tool: get_project_context ---
	s.AddTool(mcp.NewTool("get_project_context",
		mcp.WithDescription("Read a repository's documentation and structure and infer its technology profile."),
		mcp.WithString("repo_path", mcp.Description("Path or URL of the Git repository.")),
	), h.handleGetProjectContext)

	// --- 3. Tool: get_run_history ---
	s.AddTool(mcp.NewTool("get_run_history",
		mcp.WithDescription("List recently recorded pipeline runs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return.")),
	), h.handleGetRunHistory)

	// --- 4. Tool: get_run_buckets ---
	s.AddTool(mcp.NewTool("get_run_buckets",
		mcp.WithDescription("Return the stored monthly buckets of one recorded run."),
		mcp.WithNumber("run_id", mcp.Description("ID of the recorded run."), mcp.Required()),
	), h.handleGetRunBuckets)

	return s
}

// StartMCPServer starts the devtrail MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
