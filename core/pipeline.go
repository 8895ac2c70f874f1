package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/devtrail/devtrail/core/extract"
	"github.com/devtrail/devtrail/core/summarize"
	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// contextProfiler is the optional detector capability of inferring the
// project's technology list from its documentation.
type contextProfiler interface {
	ProjectTechnologies(ctx context.Context, pc *schema.ProjectContext) ([]string, error)
}

// Result is the full output of one pipeline run.
type Result struct {
	Fingerprint string                 `json:"fingerprint"`
	RepoPath    string                 `json:"repo_path"`
	CommitCount int                    `json:"commit_count"`
	Context     *schema.ProjectContext `json:"context,omitempty"`
	Daily       []schema.DailyBucket   `json:"daily"`
	Weekly      []schema.WeeklyBucket  `json:"weekly"`
	Monthly     []schema.MonthlyBucket `json:"monthly"`
}

// Run executes the full pipeline: extraction, then daily, weekly and monthly
// aggregation, each stage behind a fingerprint-keyed cache lookup. Strictly
// sequential; a stage failure aborts the run with nothing partial persisted.
func Run(ctx context.Context, cfg *contract.Config, client contract.GitClient,
	model contract.Model, detector contract.TechnologyDetector, mgr contract.CacheManager) (*Result, error) {

	started := time.Now()

	extractor := extract.NewExtractor(client)
	it, err := extractor.Extract(ctx, cfg)
	if err != nil {
		return nil, err
	}
	repoPath := it.RepoPath()

	lastCommit, err := client.GetLastCommitTime(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read last commit time: %w", err)
	}
	fingerprint := cfg.Fingerprint(lastCommit)

	var store contract.CacheStore
	var runs contract.RunStore
	if mgr != nil {
		store = mgr.GetStageStore()
		runs = mgr.GetRunStore()
	}

	// Project context feeds detection hints, so it runs before the daily
	// stage even though it is not part of the bucket chain.
	pc, err := runStage(store, fingerprint, schema.StageContext, func() (*schema.ProjectContext, error) {
		return gatherContext(ctx, extractor, detector, repoPath)
	})
	if err != nil {
		return nil, err
	}

	summarizer := summarize.NewSummarizer(detector, model, summarize.Options{
		Hints:       pc.Technologies,
		TokenBudget: cfg.TokenBudget,
	})

	daily, err := runStage(store, fingerprint, schema.StageDaily, func() ([]schema.DailyBucket, error) {
		commits, err := drainBatches(ctx, it)
		if err != nil {
			return nil, err
		}
		return summarizer.Daily(ctx, commits)
	})
	if err != nil {
		return nil, err
	}

	weekly, err := runStage(store, fingerprint, schema.StageWeekly, func() ([]schema.WeeklyBucket, error) {
		return summarizer.Weekly(ctx, daily)
	})
	if err != nil {
		return nil, err
	}

	monthly, err := runStage(store, fingerprint, schema.StageMonthly, func() ([]schema.MonthlyBucket, error) {
		return summarizer.Monthly(ctx, weekly)
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Fingerprint: fingerprint,
		RepoPath:    repoPath,
		CommitCount: schema.TotalDailyCommits(daily),
		Context:     pc,
		Daily:       daily,
		Weekly:      weekly,
		Monthly:     monthly,
	}

	if runs != nil {
		recordRun(cfg, runs, result, started)
	}
	return result, nil
}

// drainBatches consumes the extraction iterator in page-size batches.
func drainBatches(ctx context.Context, it *extract.BatchIterator) ([]schema.Commit, error) {
	var commits []schema.Commit
	for {
		batch, err := it.Next(ctx)
		if err == io.EOF {
			return commits, nil
		}
		if err != nil {
			return nil, err
		}
		commits = append(commits, batch...)
	}
}

// gatherContext reads the repository-level context and, when the detector
// supports it, profiles the project's technology list as detection hints.
func gatherContext(ctx context.Context, extractor *extract.Extractor,
	detector contract.TechnologyDetector, repoPath string) (*schema.ProjectContext, error) {

	pc, err := extractor.GatherContext(ctx, repoPath)
	if err != nil {
		return nil, err
	}

	if profiler, ok := detector.(contextProfiler); ok {
		techs, err := profiler.ProjectTechnologies(ctx, pc)
		if err != nil {
			return nil, err
		}
		pc.Technologies = techs
	}
	return pc, nil
}

// recordRun persists the run and its monthly buckets. Run history is best
// effort: failures log without failing the pipeline.
func recordRun(cfg *contract.Config, runs contract.RunStore, result *Result, started time.Time) {
	runID, err := runs.BeginRun(result.Fingerprint, cfg.RepoPath, cfg.Provider, started)
	if err != nil {
		contract.LogWarn("failed to record run", err)
		return
	}
	for _, bucket := range result.Monthly {
		if err := runs.RecordMonthlyBucket(runID, bucket); err != nil {
			contract.LogWarn(fmt.Sprintf("failed to record monthly bucket %s", bucket.Month), err)
		}
	}
	if err := runs.FinishRun(runID, time.Now(), result.CommitCount, len(result.Monthly)); err != nil {
		contract.LogWarn("failed to finalize run record", err)
	}
}
