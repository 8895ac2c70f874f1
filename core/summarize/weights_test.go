package summarize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/devtrail/schema"
)

func assertSums100(t *testing.T, w schema.WeightMap) {
	t.Helper()
	assert.InDelta(t, 100.0, w.Sum(), 1e-9)
}

func TestConsolidateSingleMap(t *testing.T) {
	out := Consolidate(schema.WeightMap{"Go": 60, "SQL": 40})
	assert.Equal(t, schema.WeightMap{"Go": 60.0, "SQL": 40.0}, out)
	assertSums100(t, out)
}

func TestConsolidateMergesMaps(t *testing.T) {
	out := Consolidate(
		schema.WeightMap{"Go": 50, "SQL": 50},
		schema.WeightMap{"Go": 100},
	)
	assert.Equal(t, schema.WeightMap{"Go": 75.0, "SQL": 25.0}, out)
	assertSums100(t, out)
}

func TestConsolidateResidualAbsorption(t *testing.T) {
	// Three equal shares round to 33.33 each; one entry absorbs the 0.01
	// drift. Ties on fractional remainder go to the first key in sorted
	// order.
	out := Consolidate(schema.WeightMap{"Go": 1, "Python": 1, "SQL": 1})

	require.Len(t, out, 3)
	assertSums100(t, out)
	assert.Equal(t, 33.34, out["Go"])
	assert.Equal(t, 33.33, out["Python"])
	assert.Equal(t, 33.33, out["SQL"])
}

func TestConsolidateSkewedInput(t *testing.T) {
	out := Consolidate(schema.WeightMap{"Go": 99999.9, "SQL": 0.1})
	assertSums100(t, out)
	assert.Equal(t, 100.0, out["Go"])
	assert.Equal(t, 0.0, out["SQL"])
}

func TestConsolidateZeroTotal(t *testing.T) {
	assert.Empty(t, Consolidate())
	assert.Empty(t, Consolidate(schema.WeightMap{}))
	assert.Empty(t, Consolidate(schema.WeightMap{"Go": 0, "SQL": 0}))
}

func TestConsolidateRoundsToTwoDecimals(t *testing.T) {
	out := Consolidate(schema.WeightMap{"Go": 1, "SQL": 2, "Docker": 4})
	assertSums100(t, out)
	for tech, v := range out {
		assert.Equal(t, math.Round(v*100)/100, v, tech)
	}
}
