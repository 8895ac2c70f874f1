package summarize

import (
	"context"
	"fmt"
	"time"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// Summarizer builds bucketed activity summaries out of extracted commits.
// Technology weights come from the detector, bucket descriptions from the
// model. Buckets are emitted in first-seen group order, not chronological.
type Summarizer struct {
	detector    contract.TechnologyDetector
	model       contract.Model
	hints       []string
	tokenBudget int
}

// Options tunes summarization beyond the required collaborators.
type Options struct {
	// Hints are project-level technology names passed through to detection.
	Hints []string

	// TokenBudget caps the estimated token size of any single summarization
	// prompt. Zero disables the ceiling.
	TokenBudget int
}

// NewSummarizer creates a Summarizer over the given collaborators.
func NewSummarizer(detector contract.TechnologyDetector, model contract.Model, opts Options) *Summarizer {
	return &Summarizer{
		detector:    detector,
		model:       model,
		hints:       opts.Hints,
		tokenBudget: opts.TokenBudget,
	}
}

// group is one aggregation bucket keyed by its grouping date string.
type group[T any] struct {
	key   string
	items []T
}

// groupBy partitions items by key, preserving first-seen key order.
func groupBy[T any](items []T, keyOf func(T) string) []group[T] {
	index := make(map[string]int)
	var groups []group[T]
	for _, item := range items {
		key := keyOf(item)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group[T]{key: key})
		}
		groups[i].items = append(groups[i].items, item)
	}
	return groups
}

// Daily groups commits by calendar day. Each bucket's weight map is detected
// from the union of the day's modified file paths, and its description is a
// model summary of the day's commit messages.
func (s *Summarizer) Daily(ctx context.Context, commits []schema.Commit) ([]schema.DailyBucket, error) {
	var buckets []schema.DailyBucket
	for _, g := range groupBy(commits, schema.Commit.Day) {
		seen := make(map[string]struct{})
		var files []string
		var messages []string
		for _, c := range g.items {
			messages = append(messages, c.Message)
			for _, f := range c.Files {
				if _, ok := seen[f]; ok {
					continue
				}
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}

		weights, err := s.detector.Detect(ctx, files, s.hints)
		if err != nil {
			return nil, fmt.Errorf("technology detection failed for %s: %w", g.key, err)
		}

		description, err := s.describe(ctx, messages, dailyPromptTemplate)
		if err != nil {
			return nil, err
		}

		buckets = append(buckets, schema.DailyBucket{
			Date:         g.key,
			CommitCount:  len(g.items),
			Technologies: Consolidate(weights),
			Description:  description,
		})
	}
	return buckets, nil
}

// Weekly groups daily buckets by the Monday on or before their date. Weight
// maps of the member days are consolidated into one distribution.
func (s *Summarizer) Weekly(ctx context.Context, daily []schema.DailyBucket) ([]schema.WeeklyBucket, error) {
	var buckets []schema.WeeklyBucket
	for _, g := range groupBy(daily, func(b schema.DailyBucket) string {
		return weekStart(b.Date)
	}) {
		count := 0
		maps := make([]schema.WeightMap, 0, len(g.items))
		descriptions := make([]string, 0, len(g.items))
		for _, d := range g.items {
			count += d.CommitCount
			maps = append(maps, d.Technologies)
			descriptions = append(descriptions, d.Description)
		}

		description, err := s.describe(ctx, descriptions, weeklyPromptTemplate)
		if err != nil {
			return nil, err
		}

		start, _ := time.Parse(schema.DayFormat, g.key)
		buckets = append(buckets, schema.WeeklyBucket{
			StartDate:    g.key,
			EndDate:      start.AddDate(0, 0, 6).Format(schema.DayFormat),
			CommitCount:  count,
			Technologies: Consolidate(maps...),
			Description:  description,
		})
	}
	return buckets, nil
}

// Monthly groups weekly buckets by the first day of the month containing
// their start date. The month's end date comes from lastDayOfMonth, so weeks
// straddling two months are attributed whole to the month they start in.
func (s *Summarizer) Monthly(ctx context.Context, weekly []schema.WeeklyBucket) ([]schema.MonthlyBucket, error) {
	var buckets []schema.MonthlyBucket
	for _, g := range groupBy(weekly, func(b schema.WeeklyBucket) string {
		return monthStart(b.StartDate)
	}) {
		count := 0
		maps := make([]schema.WeightMap, 0, len(g.items))
		descriptions := make([]string, 0, len(g.items))
		for _, w := range g.items {
			count += w.CommitCount
			maps = append(maps, w.Technologies)
			descriptions = append(descriptions, w.Description)
		}

		description, err := s.describe(ctx, descriptions, monthlyPromptTemplate)
		if err != nil {
			return nil, err
		}

		start, _ := time.Parse(schema.DayFormat, g.key)
		buckets = append(buckets, schema.MonthlyBucket{
			Month:        start.Format(schema.MonthFormat),
			StartDate:    g.key,
			EndDate:      lastDayOfMonth(start).Format(schema.DayFormat),
			CommitCount:  count,
			Technologies: Consolidate(maps...),
			Description:  description,
		})
	}
	return buckets, nil
}

// weekStart returns the Monday on or before the given calendar day.
func weekStart(day string) string {
	t, err := time.Parse(schema.DayFormat, day)
	if err != nil {
		return day
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(schema.DayFormat)
}

// monthStart returns the first day of the month containing the given day.
func monthStart(day string) string {
	t, err := time.Parse(schema.DayFormat, day)
	if err != nil {
		return day
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(schema.DayFormat)
}

// lastDayOfMonth computes the month's final day with a day-28 plus four days
// rollover, which lands in the following month for every month length.
func lastDayOfMonth(t time.Time) time.Time {
	next := time.Date(t.Year(), t.Month(), 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 4)
	return next.AddDate(0, 0, -next.Day())
}
