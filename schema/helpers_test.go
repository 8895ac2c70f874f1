package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortedTechnologies(t *testing.T) {
	w := WeightMap{"Python": 20, "Go": 60, "SQL": 20}
	assert.Equal(t, []string{"Go", "Python", "SQL"}, SortedTechnologies(w))
	assert.Empty(t, SortedTechnologies(WeightMap{}))
}

func TestFormatWeightMap(t *testing.T) {
	tests := []struct {
		name     string
		input    WeightMap
		expected string
	}{
		{
			name:     "multiple technologies sorted by name",
			input:    WeightMap{"Python": 40, "Go": 60},
			expected: "Go 60.00%, Python 40.00%",
		},
		{
			name:     "single technology",
			input:    WeightMap{"Go": 100},
			expected: "Go 100.00%",
		},
		{
			name:     "fractional weights keep two decimals",
			input:    WeightMap{"Go": 33.33, "Rust": 66.67},
			expected: "Go 33.33%, Rust 66.67%",
		},
		{
			name:     "empty map",
			input:    WeightMap{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatWeightMap(tt.input))
		})
	}
}

func TestTopTechnology(t *testing.T) {
	assert.Equal(t, "Go", TopTechnology(WeightMap{"Go": 60, "Python": 40}))
	assert.Equal(t, "Go", TopTechnology(WeightMap{"Python": 50, "Go": 50}), "ties break lexicographically")
	assert.Equal(t, "", TopTechnology(WeightMap{}))
}

func TestTotalCommits(t *testing.T) {
	daily := []DailyBucket{{CommitCount: 2}, {CommitCount: 3}}
	weekly := []WeeklyBucket{{CommitCount: 5}}
	monthly := []MonthlyBucket{{CommitCount: 1}, {CommitCount: 4}}

	assert.Equal(t, 5, TotalDailyCommits(daily))
	assert.Equal(t, 5, TotalWeeklyCommits(weekly))
	assert.Equal(t, 5, TotalMonthlyCommits(monthly))
	assert.Zero(t, TotalDailyCommits(nil))
}

func TestSortBuckets(t *testing.T) {
	daily := []DailyBucket{{Date: "2024-03-05"}, {Date: "2024-02-28"}}
	SortDailyBuckets(daily)
	assert.Equal(t, "2024-02-28", daily[0].Date)

	weekly := []WeeklyBucket{{StartDate: "2024-03-04"}, {StartDate: "2024-02-26"}}
	SortWeeklyBuckets(weekly)
	assert.Equal(t, "2024-02-26", weekly[0].StartDate)

	monthly := []MonthlyBucket{{StartDate: "2024-03-01"}, {StartDate: "2024-02-01"}}
	SortMonthlyBuckets(monthly)
	assert.Equal(t, "2024-02-01", monthly[0].StartDate)
}

func TestWeightMapSumAndClone(t *testing.T) {
	w := WeightMap{"Go": 60, "Python": 40}
	assert.InDelta(t, 100.0, w.Sum(), 1e-9)

	clone := w.Clone()
	clone["Go"] = 10
	assert.InDelta(t, 60.0, w["Go"], 1e-9)
}

func TestCommitDay(t *testing.T) {
	c := Commit{Date: time.Date(2024, 3, 5, 15, 4, 5, 0, time.UTC)}
	assert.Equal(t, "2024-03-05", c.Day())
}

func TestBucketJSONKeys(t *testing.T) {
	for name, v := range map[string]any{
		"daily":   DailyBucket{Description: "work"},
		"weekly":  WeeklyBucket{Description: "work"},
		"monthly": MonthlyBucket{Description: "work"},
	} {
		raw, err := json.Marshal(v)
		assert.NoError(t, err)

		var keys map[string]any
		assert.NoError(t, json.Unmarshal(raw, &keys))
		assert.Contains(t, keys, "descriptions", name)
		assert.NotContains(t, keys, "description", name)
	}
}
