package enrichment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFisherExactSmallOverlapLargeUniverse(t *testing.T) {
	// Two query genes both landing in a three-member term against a
	// 20000-gene universe is extremely unlikely by chance:
	// P(X >= 2) = C(3,2)*C(19997,0)/C(20000,2) = 3/199990000.
	p := FisherExact(2, 2, 3, 20000, Greater)
	require.False(t, math.IsNaN(p))
	assert.Less(t, p, 0.01)
	assert.InEpsilon(t, 3.0/199990000.0, p, 1e-9)

	pTwo := FisherExact(2, 2, 3, 20000, TwoSided)
	assert.Less(t, pTwo, 0.01)
}

func TestFisherExactZeroOverlapUpperTail(t *testing.T) {
	// The upper tail from zero covers the whole support.
	p := FisherExact(0, 10, 50, 20000, Greater)
	assert.InDelta(t, 1.0, p, 1e-9)
}

func TestFisherExactFullContainment(t *testing.T) {
	// Query identical to the term: the observed table is the most
	// extreme one, still a valid probability.
	p := FisherExact(5, 5, 5, 100, Greater)
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestFisherExactSupportViolation(t *testing.T) {
	// Overlap cannot exceed the query size.
	assert.True(t, math.IsNaN(FisherExact(5, 2, 3, 20000, Greater)))
	// Term larger than the universe.
	assert.True(t, math.IsNaN(FisherExact(1, 2, 30, 20, Greater)))
}

func TestFisherExactDeterministic(t *testing.T) {
	a := FisherExact(7, 40, 200, 20000, TwoSided)
	b := FisherExact(7, 40, 200, 20000, TwoSided)
	assert.Equal(t, a, b)
}

func TestFisherExactNeverExceedsOne(t *testing.T) {
	cases := []struct{ k, n, K, N int }{
		{1, 10, 10, 100},
		{3, 5, 50, 60},
		{10, 10, 10, 10},
		{0, 1, 1, 2},
	}
	for _, c := range cases {
		for _, alt := range []Alternative{Greater, TwoSided} {
			p := FisherExact(c.k, c.n, c.K, c.N, alt)
			require.False(t, math.IsNaN(p), "case %+v", c)
			assert.LessOrEqual(t, p, 1.0, "case %+v alt %v", c, alt)
			assert.GreaterOrEqual(t, p, 0.0, "case %+v alt %v", c, alt)
		}
	}
}
