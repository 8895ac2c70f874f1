package summarize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// stubModel returns a model whose Generate always answers with summary.
func stubModel(summary string) *contract.MockModel {
	model := &contract.MockModel{}
	model.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(summary, nil)
	return model
}

// stubDetector returns a detector that answers every Detect with weights.
func stubDetector(weights schema.WeightMap) *contract.MockDetector {
	detector := &contract.MockDetector{}
	detector.On("Detect", mock.Anything, mock.Anything, mock.Anything).Return(weights, nil)
	return detector
}

func TestDailyGrouping(t *testing.T) {
	commits := []schema.Commit{
		{Hash: "a", Date: day(2024, 3, 6), Message: "Add weekly rollup", Files: []string{"week.go"}},
		{Hash: "b", Date: day(2024, 3, 4), Message: "Start the aggregator", Files: []string{"agg.go", "agg_test.go"}},
		{Hash: "c", Date: day(2024, 3, 6), Message: "Fix rollup boundary", Files: []string{"week.go", "week_test.go"}},
	}

	detector := stubDetector(schema.WeightMap{"Go": 100})
	s := NewSummarizer(detector, stubModel("did things"), Options{})

	buckets, err := s.Daily(context.Background(), commits)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	// First-seen key order, not chronological.
	assert.Equal(t, "2024-03-06", buckets[0].Date)
	assert.Equal(t, 2, buckets[0].CommitCount)
	assert.Equal(t, "2024-03-04", buckets[1].Date)
	assert.Equal(t, 1, buckets[1].CommitCount)

	assert.Equal(t, schema.WeightMap{"Go": 100.0}, buckets[0].Technologies)
	assert.Equal(t, "did things", buckets[0].Description)

	// Both commits of 2024-03-06 feed one detection call with the deduped
	// union of their files.
	detector.AssertCalled(t, "Detect", mock.Anything, []string{"week.go", "week_test.go"}, mock.Anything)
	detector.AssertNumberOfCalls(t, "Detect", 2)
}

func TestDailyDetectorErrorPropagates(t *testing.T) {
	detector := &contract.MockDetector{}
	detector.On("Detect", mock.Anything, mock.Anything, mock.Anything).
		Return(schema.WeightMap(nil), assert.AnError)

	s := NewSummarizer(detector, stubModel(""), Options{})
	_, err := s.Daily(context.Background(), []schema.Commit{
		{Hash: "a", Date: day(2024, 3, 6), Message: "Anything at all", Files: []string{"a.go"}},
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWeeklyGrouping(t *testing.T) {
	daily := []schema.DailyBucket{
		{Date: "2024-03-04", CommitCount: 2, Technologies: schema.WeightMap{"Go": 100}, Description: "wrote Go"},
		{Date: "2024-03-06", CommitCount: 1, Technologies: schema.WeightMap{"SQL": 100}, Description: "wrote SQL"},
		{Date: "2024-03-11", CommitCount: 4, Technologies: schema.WeightMap{"Go": 100}, Description: "more Go"},
	}

	s := NewSummarizer(stubDetector(nil), stubModel("weekly summary"), Options{})
	buckets, err := s.Weekly(context.Background(), daily)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	first := buckets[0]
	assert.Equal(t, "2024-03-04", first.StartDate)
	assert.Equal(t, "2024-03-10", first.EndDate)
	assert.Equal(t, 3, first.CommitCount)
	assert.Equal(t, schema.WeightMap{"Go": 50.0, "SQL": 50.0}, first.Technologies)
	assert.Equal(t, "weekly summary", first.Description)

	assert.Equal(t, "2024-03-11", buckets[1].StartDate)
	assert.Equal(t, "2024-03-17", buckets[1].EndDate)
}

func TestMonthlyGrouping(t *testing.T) {
	weekly := []schema.WeeklyBucket{
		// Starts in January, ends in February: attributed whole to January.
		{StartDate: "2024-01-29", EndDate: "2024-02-04", CommitCount: 3, Technologies: schema.WeightMap{"Go": 100}},
		{StartDate: "2024-02-05", EndDate: "2024-02-11", CommitCount: 2, Technologies: schema.WeightMap{"Go": 100}},
		{StartDate: "2024-02-19", EndDate: "2024-02-25", CommitCount: 1, Technologies: schema.WeightMap{"SQL": 100}},
	}

	s := NewSummarizer(stubDetector(nil), stubModel("monthly summary"), Options{})
	buckets, err := s.Monthly(context.Background(), weekly)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	jan := buckets[0]
	assert.Equal(t, "2024-01", jan.Month)
	assert.Equal(t, "2024-01-01", jan.StartDate)
	assert.Equal(t, "2024-01-31", jan.EndDate)
	assert.Equal(t, 3, jan.CommitCount)

	feb := buckets[1]
	assert.Equal(t, "2024-02", feb.Month)
	assert.Equal(t, "2024-02-01", feb.StartDate)
	// 2024 is a leap year.
	assert.Equal(t, "2024-02-29", feb.EndDate)
	assert.Equal(t, 3, feb.CommitCount)
	assert.Equal(t, schema.WeightMap{"Go": 50.0, "SQL": 50.0}, feb.Technologies)
}

func TestCountConservation(t *testing.T) {
	commits := []schema.Commit{
		{Hash: "a", Date: day(2024, 2, 28), Message: "End of February work", Files: []string{"a.go"}},
		{Hash: "b", Date: day(2024, 2, 29), Message: "Leap day adjustments", Files: []string{"b.go"}},
		{Hash: "c", Date: day(2024, 3, 1), Message: "Into March already", Files: []string{"c.go"}},
		{Hash: "d", Date: day(2024, 3, 1), Message: "More March changes", Files: []string{"c.go"}},
		{Hash: "e", Date: day(2024, 3, 11), Message: "Second week of March", Files: []string{"d.go"}},
	}

	s := NewSummarizer(stubDetector(schema.WeightMap{"Go": 100}), stubModel("s"), Options{})
	ctx := context.Background()

	daily, err := s.Daily(ctx, commits)
	require.NoError(t, err)
	weekly, err := s.Weekly(ctx, daily)
	require.NoError(t, err)
	monthly, err := s.Monthly(ctx, weekly)
	require.NoError(t, err)

	assert.Equal(t, len(commits), schema.TotalDailyCommits(daily))
	assert.Equal(t, len(commits), schema.TotalWeeklyCommits(weekly))
	assert.Equal(t, len(commits), schema.TotalMonthlyCommits(monthly))
}

func TestWeekStart(t *testing.T) {
	for in, want := range map[string]string{
		"2024-03-04": "2024-03-04", // Monday maps to itself
		"2024-03-06": "2024-03-04", // Wednesday
		"2024-03-10": "2024-03-04", // Sunday belongs to the preceding Monday
		"2024-01-01": "2024-01-01", // year boundary, a Monday
		"2023-12-31": "2023-12-25", // Sunday before that
	} {
		assert.Equal(t, want, weekStart(in), in)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	for in, want := range map[string]string{
		"2024-02-01": "2024-02-29",
		"2023-02-15": "2023-02-28",
		"2024-04-10": "2024-04-30",
		"2024-12-31": "2024-12-31",
		"2024-01-05": "2024-01-31",
	} {
		start, err := time.Parse(schema.DayFormat, in)
		require.NoError(t, err)
		assert.Equal(t, want, lastDayOfMonth(start).Format(schema.DayFormat), in)
	}
}

func TestDescribeTokenBudget(t *testing.T) {
	model := &contract.MockModel{}
	model.On("EstimateTokens", mock.Anything).Return(5000)

	s := NewSummarizer(stubDetector(nil), model, Options{TokenBudget: 100})
	_, err := s.describe(context.Background(), []string{"a very long day"}, dailyPromptTemplate)

	assert.ErrorIs(t, err, contract.ErrTokenBudgetExceeded)
	model.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinTexts(t *testing.T) {
	got := joinTexts([]string{"Add parser\n\nfor logs", "  ", "Fix boundary"})
	assert.Equal(t, "```\nAdd parser. for logs. Fix boundary\n```", got)
}
