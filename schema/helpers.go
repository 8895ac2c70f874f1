package schema

import (
	"fmt"
	"sort"
	"strings"
)

// SortedTechnologies returns the technology names of a weight map in
// lexicographic order. Presentation helpers iterate maps through this to keep
// rendered output stable.
func SortedTechnologies(w WeightMap) []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatWeightMap renders a weight map as "Go 60.00%, Python 40.00%" with
// names in lexicographic order.
func FormatWeightMap(w WeightMap) string {
	parts := make([]string, 0, len(w))
	for _, name := range SortedTechnologies(w) {
		parts = append(parts, fmt.Sprintf("%s %.2f%%", name, w[name]))
	}
	return strings.Join(parts, ", ")
}

// TopTechnology returns the highest-weighted technology name, breaking
// weight ties lexicographically. Empty maps yield "".
func TopTechnology(w WeightMap) string {
	var best string
	var bestWeight float64
	for _, name := range SortedTechnologies(w) {
		if best == "" || w[name] > bestWeight {
			best = name
			bestWeight = w[name]
		}
	}
	return best
}

// TotalDailyCommits sums commit counts across daily buckets.
func TotalDailyCommits(buckets []DailyBucket) int {
	var total int
	for _, b := range buckets {
		total += b.CommitCount
	}
	return total
}

// TotalWeeklyCommits sums commit counts across weekly buckets.
func TotalWeeklyCommits(buckets []WeeklyBucket) int {
	var total int
	for _, b := range buckets {
		total += b.CommitCount
	}
	return total
}

// TotalMonthlyCommits sums commit counts across monthly buckets.
func TotalMonthlyCommits(buckets []MonthlyBucket) int {
	var total int
	for _, b := range buckets {
		total += b.CommitCount
	}
	return total
}

// SortDailyBuckets orders daily buckets chronologically. Aggregation emits
// buckets in first-seen order; rendering sorts explicitly.
func SortDailyBuckets(buckets []DailyBucket) {
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })
}

// SortWeeklyBuckets orders weekly buckets chronologically by start date.
func SortWeeklyBuckets(buckets []WeeklyBucket) {
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].StartDate < buckets[j].StartDate })
}

// SortMonthlyBuckets orders monthly buckets chronologically by start date.
func SortMonthlyBuckets(buckets []MonthlyBucket) {
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].StartDate < buckets[j].StartDate })
}
