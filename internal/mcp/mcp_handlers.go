package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/devtrail/devtrail/core"
	"github.com/devtrail/devtrail/core/extract"
	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/internal/llm"
	"github.com/devtrail/devtrail/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleGenerateActivitySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()

	if emails := request.GetString("emails", ""); emails != "" {
		cfg.AuthorEmails = splitCommaList(emails)
	}
	if err := cfg.RequireAuthorEmails(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if provider := request.GetString("provider", ""); provider != "" {
		cfg.Provider = schema.LLMProvider(provider)
		if _, ok := schema.ValidLLMProviders[cfg.Provider]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported provider %q", provider)), nil
		}
	}
	if branches := request.GetString("branches", ""); branches != "" {
		cfg.Branches = splitCommaList(branches)
	}
	if err := applyDateBounds(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	model, detector, err := h.buildProvider(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("provider setup failed: %v", err)), nil
	}

	result, err := core.Run(ctx, cfg, contract.NewLocalGitClient(), model, detector, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pipeline failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetProjectContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}

	_, detector, err := h.buildProvider(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("provider setup failed: %v", err)), nil
	}

	client := contract.NewLocalGitClient()
	extractor := extract.NewExtractor(client)
	repoPath, err := extractor.ResolveRepo(ctx, cfg.RepoPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("repository resolution failed: %v", err)), nil
	}

	pc, err := extractor.GatherContext(ctx, repoPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context gathering failed: %v", err)), nil
	}
	if techs, err := detector.ProjectTechnologies(ctx, pc); err == nil {
		pc.Technologies = techs
	}

	jsonData, _ := json.MarshalIndent(pc, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRunHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.runStore()
	if store == nil {
		return mcp.NewToolResultError("run history is disabled"), nil
	}

	limit := request.GetInt("limit", contract.DefaultRunLimit)
	records, err := store.ListRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRunBuckets(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.runStore()
	if store == nil {
		return mcp.NewToolResultError("run history is disabled"), nil
	}

	runID := request.GetInt("run_id", 0)
	if runID <= 0 {
		return mcp.NewToolResultError("run_id must be a positive integer"), nil
	}

	buckets, err := store.ListMonthlyBuckets(int64(runID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bucket lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(buckets, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// buildProvider constructs the configured model and its detector, wiring the
// stage cache in as the LLM response cache when caching is enabled.
func (h *toolHandler) buildProvider(ctx context.Context, cfg *contract.Config) (contract.Model, *llm.Detector, error) {
	model, err := llm.NewModel(ctx, cfg.Provider, cfg.ModelName)
	if err != nil {
		return nil, nil, err
	}
	var cache contract.CacheStore
	if h.mgr != nil {
		cache = h.mgr.GetStageStore()
	}
	return model, llm.NewDetector(model, cache), nil
}

func (h *toolHandler) runStore() contract.RunStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetRunStore()
}

// applyDateBounds parses the optional start/end arguments into the config.
func applyDateBounds(cfg *contract.Config, request mcp.CallToolRequest) error {
	if start := request.GetString("start", ""); start != "" {
		t, err := time.Parse(contract.DateFormat, start)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", start, err)
		}
		cfg.StartDate = t
	}
	if end := request.GetString("end", ""); end != "" {
		t, err := time.Parse(contract.DateFormat, end)
		if err != nil {
			return fmt.Errorf("invalid end date %q: %w", end, err)
		}
		cfg.EndDate = t
	}
	if !cfg.StartDate.IsZero() && !cfg.EndDate.IsZero() && cfg.EndDate.Before(cfg.StartDate) {
		return fmt.Errorf("end date precedes start date")
	}
	return nil
}

func splitCommaList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
