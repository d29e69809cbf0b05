package enrichment

import "math"

// Options configures the discrete set-enrichment engine.
type Options struct {
	// Alternative selects the test tail. The web application follows the
	// over-representation convention (Greater); TwoSided is available
	// for symmetric questions.
	Alternative Alternative
}

// Enrich builds a 2x2 contingency table for every term against the
// query set and the universe size, and computes the Fisher exact
// p-value for each. Every term in the collection is tested, including
// terms sharing no member with the query: their p-values (1 under the
// one-sided test) belong to the corrected hypothesis family, so the
// multiple-testing burden reflects the whole collection. Filtering
// insignificant rows is Format's job, after correction. Terms are
// processed and ranked in input order, so identical inputs always
// produce identical output.
//
// ErrEmptyInput is returned when the query set or the universe is
// empty; the caller is expected to surface it as "no results" rather
// than a failure.
func Enrich(query map[string]bool, universe int, terms []TermSet, opts Options) ([]Contingency, error) {
	if len(query) == 0 || universe <= 0 {
		return nil, ErrEmptyInput
	}

	results := make([]Contingency, 0, len(terms))
	for rank, term := range terms {
		overlap := 0
		for id := range term.Members {
			if query[id] {
				overlap++
			}
		}

		p := FisherExact(overlap, len(query), term.Size(), universe, opts.Alternative)
		if math.IsNaN(p) {
			// Term larger than the universe: the annotation source and
			// the universe counter disagree. Skip rather than emit junk.
			continue
		}
		results = append(results, Contingency{
			CURIE:     term.CURIE,
			Name:      term.Name,
			Overlap:   overlap,
			QuerySize: len(query),
			TermSize:  term.Size(),
			Universe:  universe,
			P:         p,
			Rank:      rank,
		})
	}
	return results, nil
}
