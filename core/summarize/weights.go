// Package summarize turns filtered commits into daily, weekly and monthly
// activity buckets with normalized technology weight distributions.
package summarize

import (
	"math"
	"sort"

	"github.com/devtrail/devtrail/schema"
)

// Consolidate merges any number of weight maps into a single distribution
// summing to exactly 100.00. Per-technology weights are summed across the
// inputs, converted to percentages, rounded to two decimals, and the rounding
// drift is assigned whole to the entry with the largest fractional remainder.
// A zero or negative total yields an empty map.
func Consolidate(maps ...schema.WeightMap) schema.WeightMap {
	totals := make(map[string]float64)
	for _, m := range maps {
		for tech, weight := range m {
			totals[tech] += weight
		}
	}

	var total float64
	for _, v := range totals {
		total += v
	}
	if total <= 0 {
		return schema.WeightMap{}
	}

	// Sorted key order makes the residual assignment deterministic when
	// fractional remainders tie.
	techs := make([]string, 0, len(totals))
	for tech := range totals {
		techs = append(techs, tech)
	}
	sort.Strings(techs)

	out := make(schema.WeightMap, len(techs))
	var roundedSum float64
	remainders := make(map[string]float64, len(techs))
	for _, tech := range techs {
		raw := totals[tech] / total * 100
		rounded := math.Round(raw*100) / 100
		out[tech] = rounded
		roundedSum += rounded
		remainders[tech] = raw - math.Floor(raw*100)/100
	}

	diff := math.Round((100-roundedSum)*100) / 100
	if diff != 0 {
		target := techs[0]
		for _, tech := range techs[1:] {
			if remainders[tech] > remainders[target] {
				target = tech
			}
		}
		out[target] = math.Round((out[target]+diff)*100) / 100
	}
	return out
}
