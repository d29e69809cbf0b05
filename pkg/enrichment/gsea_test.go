package enrichment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedGenes(n int) []ScoredGene {
	genes := make([]ScoredGene, n)
	for i := 0; i < n; i++ {
		genes[i] = ScoredGene{
			ID:    fmt.Sprintf("hgnc:%d", i+1),
			Score: float64(n - i),
		}
	}
	return genes
}

func TestPrerankedGSEAEmptyInput(t *testing.T) {
	_, err := PrerankedGSEA(nil, []TermSet{{CURIE: "a"}}, GSEAOptions{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = PrerankedGSEA(rankedGenes(10), nil, GSEAOptions{})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestPrerankedGSEANoOverlap(t *testing.T) {
	terms := []TermSet{{CURIE: "go:GO:1", Members: set("hgnc:999", "hgnc:998")}}
	_, err := PrerankedGSEA(rankedGenes(10), terms, GSEAOptions{})
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestPrerankedGSEATopLoadedTerm(t *testing.T) {
	genes := rankedGenes(50)
	terms := []TermSet{
		{CURIE: "go:GO:top", Members: set("hgnc:1", "hgnc:2", "hgnc:3", "hgnc:4", "hgnc:5")},
		{CURIE: "go:GO:bottom", Members: set("hgnc:46", "hgnc:47", "hgnc:48", "hgnc:49", "hgnc:50")},
	}

	results, err := PrerankedGSEA(genes, terms, GSEAOptions{Permutations: 200, Seed: 42})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byCURIE := make(map[string]GSEAResult, len(results))
	for _, r := range results {
		byCURIE[r.CURIE] = r
	}

	top := byCURIE["go:GO:top"]
	assert.Greater(t, top.ES, 0.0)
	assert.Equal(t, 5, top.MatchedSize)
	assert.Less(t, top.P, 0.05)

	bottom := byCURIE["go:GO:bottom"]
	assert.Less(t, bottom.ES, 0.0)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Q, 0.0)
		assert.LessOrEqual(t, r.Q, 1.0)
		assert.Greater(t, r.P, 0.0)
	}
}

func TestPrerankedGSEASeededDeterminism(t *testing.T) {
	genes := rankedGenes(30)
	terms := []TermSet{
		{CURIE: "go:GO:a", Members: set("hgnc:1", "hgnc:3", "hgnc:5", "hgnc:7")},
		{CURIE: "go:GO:b", Members: set("hgnc:10", "hgnc:20", "hgnc:30")},
	}
	opts := GSEAOptions{Permutations: 100, Seed: 7}

	first, err := PrerankedGSEA(genes, terms, opts)
	require.NoError(t, err)
	second, err := PrerankedGSEA(genes, terms, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrerankedGSEAMinHits(t *testing.T) {
	genes := rankedGenes(20)
	terms := []TermSet{
		{CURIE: "go:GO:tiny", Members: set("hgnc:1", "hgnc:2")},
		{CURIE: "go:GO:ok", Members: set("hgnc:1", "hgnc:2", "hgnc:3")},
	}

	results, err := PrerankedGSEA(genes, terms, GSEAOptions{Permutations: 50, Seed: 1})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "go:GO:ok", results[0].CURIE)
}

func TestPrerankedGSEADuplicateKeepsLargerMagnitude(t *testing.T) {
	genes := []ScoredGene{
		{ID: "hgnc:1", Score: 1},
		{ID: "hgnc:1", Score: -5},
		{ID: "hgnc:2", Score: 3},
		{ID: "hgnc:3", Score: 2},
		{ID: "hgnc:4", Score: 1.5},
	}
	terms := []TermSet{{CURIE: "go:GO:a", Members: set("hgnc:1", "hgnc:2", "hgnc:3")}}

	results, err := PrerankedGSEA(genes, terms, GSEAOptions{Permutations: 50, Seed: 3})
	require.NoError(t, err)
	require.Len(t, results, 1)
	// hgnc:1 deduplicates to its -5 score, so four genes are ranked
	// and the term still matches three of them.
	assert.Equal(t, 3, results[0].MatchedSize)
}
