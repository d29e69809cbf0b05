package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedRow(curie string, p, q float64, rank int) Ranked {
	return Ranked{
		Contingency: Contingency{CURIE: curie, P: p, Rank: rank},
		Q:           q,
	}
}

func TestRankAttachesAdjustedValues(t *testing.T) {
	rows := []Contingency{
		{CURIE: "a", P: 0.01},
		{CURIE: "b", P: 0.04},
	}
	ranked, err := Rank(rows, Bonferroni, 0.05)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.InDelta(t, 0.02, ranked[0].Q, 1e-12)
	assert.InDelta(t, 0.08, ranked[1].Q, 1e-12)
	assert.InDelta(t, 2.0, ranked[0].MLP, 1e-9)
	assert.Greater(t, ranked[0].MLQ, 0.0)
}

func TestRankCapsLogTransform(t *testing.T) {
	ranked, err := Rank([]Contingency{{CURIE: "a", P: 0}}, Bonferroni, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 320.0, ranked[0].MLP)
	assert.Equal(t, 320.0, ranked[0].MLQ)
}

func TestFormatFiltersAndSorts(t *testing.T) {
	rows := []Ranked{
		rankedRow("c", 0.02, 0.06, 2),
		rankedRow("a", 0.01, 0.03, 0),
		rankedRow("b", 0.005, 0.03, 1),
	}

	out := Format(rows, 0.05, false)
	require.Len(t, out, 2)
	// Equal q ties break on p.
	assert.Equal(t, "b", out[0].CURIE)
	assert.Equal(t, "a", out[1].CURIE)

	kept := Format(rows, 0.05, true)
	assert.Len(t, kept, 3)
	assert.Equal(t, "c", kept[2].CURIE)
}

func TestFormatRoundTrip(t *testing.T) {
	rows := []Ranked{
		rankedRow("b", 0.02, 0.04, 1),
		rankedRow("a", 0.01, 0.02, 0),
		rankedRow("c", 0.03, 0.05, 2),
	}

	once := Format(rows, 0.05, true)
	twice := Format(once, 0.05, true)
	assert.Equal(t, once, twice)
}

func TestFormatTieDeterminism(t *testing.T) {
	// Identical statistics fall back to first-seen term order.
	rows := []Ranked{
		rankedRow("y", 0.01, 0.02, 1),
		rankedRow("x", 0.01, 0.02, 0),
		rankedRow("z", 0.01, 0.02, 2),
	}

	out := Format(rows, 0.05, false)
	require.Len(t, out, 3)
	assert.Equal(t, "x", out[0].CURIE)
	assert.Equal(t, "y", out[1].CURIE)
	assert.Equal(t, "z", out[2].CURIE)
}
