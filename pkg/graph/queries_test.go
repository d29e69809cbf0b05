package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedAnnotations loads a small but representative slice of a CoGEx
// dump.
func seedAnnotations(t *testing.T, s *Store) {
	t.Helper()

	entities := []Entity{
		{CURIE: "hgnc:11998", Name: "TP53"},
		{CURIE: "hgnc:1100", Name: "BRCA1"},
		{CURIE: "hgnc:6407", Name: "KRAS"},
		{CURIE: "go:GO:0006915", Name: "apoptotic process"},
		{CURIE: "wikipathways:WP179", Name: "Cell cycle"},
		{CURIE: "reactome:R-HSA-69278", Name: "Cell Cycle, Mitotic"},
		{CURIE: "hp:HP:0002664", Name: "Neoplasm"},
		{CURIE: "fplx:RAS", Name: "RAS"},
		{CURIE: "ec-code:2.7.11.1", Name: "non-specific serine/threonine protein kinase"},
		{CURIE: "chebi:15422", Name: "ATP"},
		{CURIE: "chebi:16761", Name: "ADP"},
	}
	for _, e := range entities {
		require.NoError(t, s.PutEntity(e))
	}

	strong := &EdgeProps{StmtType: StmtIncreaseAmount, EvidenceCount: 5, Belief: 0.95}
	weak := &EdgeProps{StmtType: StmtIncreaseAmount, EvidenceCount: 1, Belief: 0.3}
	decrease := &EdgeProps{StmtType: StmtDecreaseAmount, EvidenceCount: 4, Belief: 0.9}
	complexStmt := &EdgeProps{StmtType: StmtComplex, EvidenceCount: 9, Belief: 0.99}

	edges := []Edge{
		{Subject: "hgnc:11998", Predicate: RelAssociatedWith, Object: "go:GO:0006915"},
		{Subject: "hgnc:1100", Predicate: RelAssociatedWith, Object: "go:GO:0006915"},
		{Subject: "wikipathways:WP179", Predicate: RelHasPart, Object: "hgnc:11998"},
		{Subject: "wikipathways:WP179", Predicate: RelHasPart, Object: "hgnc:6407"},
		{Subject: "reactome:R-HSA-69278", Predicate: RelHasPart, Object: "hgnc:11998"},
		{Subject: "hgnc:11998", Predicate: RelHasPhenotype, Object: "hp:HP:0002664"},

		{Subject: "fplx:RAS", Predicate: RelIndra, Object: "hgnc:11998", Props: strong},
		{Subject: "fplx:RAS", Predicate: RelIndra, Object: "hgnc:1100", Props: weak},
		{Subject: "fplx:RAS", Predicate: RelIndra, Object: "hgnc:6407", Props: decrease},
		{Subject: "hgnc:11998", Predicate: RelIndra, Object: "hgnc:1100", Props: complexStmt},
		{Subject: "uniprot:P01116", Predicate: RelIndra, Object: "hgnc:11998", Props: strong},

		{Subject: "fplx:RAS", Predicate: RelXref, Object: "ec-code:2.7.11.1"},
		{Subject: "fplx:RAS", Predicate: RelIndra, Object: "chebi:15422", Props: strong},
		{Subject: "ec-code:2.7.11.1", Predicate: RelIndra, Object: "chebi:16761", Props: strong},
	}
	for _, e := range edges {
		require.NoError(t, s.PutEdge(e))
	}
}

func TestGOSets(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)

	sets, err := s.GOSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "go:GO:0006915", sets[0].CURIE)
	assert.Equal(t, "apoptotic process", sets[0].Name)
	assert.True(t, sets[0].Members["hgnc:11998"])
	assert.True(t, sets[0].Members["hgnc:1100"])
}

func TestPathwaySets(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)
	ctx := context.Background()

	wp, err := s.PathwaySets(ctx, NSWikiPathways)
	require.NoError(t, err)
	require.Len(t, wp, 1)
	assert.Equal(t, 2, wp[0].Size())

	re, err := s.PathwaySets(ctx, NSReactome)
	require.NoError(t, err)
	require.Len(t, re, 1)
	assert.Equal(t, "reactome:R-HSA-69278", re[0].CURIE)
}

func TestPhenotypeSets(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)

	sets, err := s.PhenotypeSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "hp:HP:0002664", sets[0].CURIE)
	assert.True(t, sets[0].Members["hgnc:11998"])
}

func TestUpstreamSetsFiltering(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)
	ctx := context.Background()

	sets, err := s.UpstreamSets(ctx, RegulonFilter{})
	require.NoError(t, err)
	// Complex statements and UniProt regulators are excluded, leaving
	// only the fplx:RAS regulon over genes.
	require.Len(t, sets, 1)
	assert.Equal(t, "fplx:RAS", sets[0].CURIE)
	assert.Equal(t, 3, sets[0].Size())

	strict, err := s.UpstreamSets(ctx, RegulonFilter{MinEvidence: 2, MinBelief: 0.5})
	require.NoError(t, err)
	require.Len(t, strict, 1)
	// The weak BRCA1 edge drops out.
	assert.Equal(t, 2, strict[0].Size())
	assert.False(t, strict[0].Members["hgnc:1100"])
}

func TestDownstreamSets(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)

	sets, err := s.DownstreamSets(context.Background(), RegulonFilter{})
	require.NoError(t, err)
	// Only HGNC regulators count, and fplx:RAS is not an HGNC gene;
	// the Complex edge is excluded too, so nothing qualifies.
	assert.Empty(t, sets)
}

func TestSignedSets(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)

	up, down, err := s.SignedSets(context.Background(), RegulonFilter{})
	require.NoError(t, err)

	require.Len(t, up, 1)
	assert.Equal(t, "fplx:RAS", up[0].CURIE)
	assert.True(t, up[0].Members["hgnc:11998"])
	assert.False(t, up[0].Members["hgnc:6407"])

	require.Len(t, down, 1)
	assert.True(t, down[0].Members["hgnc:6407"])
}

func TestMetaboliteSetsFoldFamilies(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)

	sets, err := s.MetaboliteSets(context.Background(), RegulonFilter{})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	// The FamPlex edge folds into the EC class via xref.
	assert.Equal(t, "ec-code:2.7.11.1", sets[0].CURIE)
	assert.True(t, sets[0].Members["chebi:15422"])
	assert.True(t, sets[0].Members["chebi:16761"])
}

func TestTermSetsStableOrder(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.PutEdge(Edge{Subject: "hgnc:1", Predicate: RelAssociatedWith, Object: "go:GO:0000002"}))
	require.NoError(t, s.PutEdge(Edge{Subject: "hgnc:1", Predicate: RelAssociatedWith, Object: "go:GO:0000001"}))

	sets, err := s.GOSets(context.Background())
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "go:GO:0000001", sets[0].CURIE)
	assert.Equal(t, "go:GO:0000002", sets[1].CURIE)
}

func TestIterateSymbols(t *testing.T) {
	s := testStore(t)
	seedAnnotations(t, s)

	var names []string
	for sym, err := range s.IterateSymbols(context.Background(), NSHGNC) {
		require.NoError(t, err)
		names = append(names, sym.Name)
	}
	assert.ElementsMatch(t, []string{"TP53", "BRCA1", "KRAS"}, names)
}
