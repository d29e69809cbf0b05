package enrichment

import (
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// RegulonResult is one entity's reverse-causal-reasoning score: how
// well its known up- and down-regulated targets explain a signed query.
// PBinom and PAmbig are nil when the entity explains no queried gene in
// either direction.
type RegulonResult struct {
	CURIE     string   `json:"curie"`
	Name      string   `json:"name"`
	Correct   int      `json:"correct"`
	Incorrect int      `json:"incorrect"`
	Ambiguous int      `json:"ambiguous"`
	PBinom    *float64 `json:"binom_pvalue"`
	PAmbig    *float64 `json:"binom_ambig_pvalue"`
}

// DefaultMinimumRegulonSize is the smallest combined regulon usable as
// a hypothesis, following Catlett et al. (2013).
const DefaultMinimumRegulonSize = 4

// ReverseCausal scores each candidate regulator against signed query
// sets: a positively queried gene in the up-regulon counts as correct,
// in the down-regulon as incorrect, and vice versa for negative query
// genes; genes in both regulons are ambiguous and genes in neither are
// left unexplained. Significance
// is a one-sided binomial test of correct against correct+incorrect at
// even odds, with a second test that also charges the ambiguous calls.
//
// up and down map entity CURIEs to their regulon TermSets. Entities
// whose combined regulon is smaller than minSize are skipped. Results
// sort ascending by PBinom with undefined p-values last, ties by CURIE.
func ReverseCausal(positive, negative map[string]bool, up, down []TermSet, minSize int) []RegulonResult {
	if minSize <= 0 {
		minSize = DefaultMinimumRegulonSize
	}

	upByCURIE := make(map[string]TermSet, len(up))
	for _, t := range up {
		upByCURIE[t.CURIE] = t
	}
	seen := make(map[string]bool, len(up)+len(down))
	entities := make([]TermSet, 0, len(up)+len(down))
	for _, t := range up {
		if !seen[t.CURIE] {
			seen[t.CURIE] = true
			entities = append(entities, t)
		}
	}
	for _, t := range down {
		if !seen[t.CURIE] {
			seen[t.CURIE] = true
			entities = append(entities, t)
		}
	}
	downByCURIE := make(map[string]TermSet, len(down))
	for _, t := range down {
		downByCURIE[t.CURIE] = t
	}

	var results []RegulonResult
	for _, entity := range entities {
		entityUp := upByCURIE[entity.CURIE].Members
		entityDown := downByCURIE[entity.CURIE].Members
		if len(entityUp)+len(entityDown) < minSize {
			continue
		}

		var correct, incorrect, ambiguous int
		// Query genes outside both regulons are unexplained and do not
		// count against the hypothesis.
		score := func(queried map[string]bool, agree, disagree map[string]bool) {
			for id := range queried {
				inAgree := agree[id]
				inDisagree := disagree[id]
				switch {
				case inAgree && inDisagree:
					ambiguous++
				case inAgree:
					correct++
				case inDisagree:
					incorrect++
				}
			}
		}
		score(positive, entityUp, entityDown)
		score(negative, entityDown, entityUp)

		res := RegulonResult{
			CURIE:     entity.CURIE,
			Name:      entity.Name,
			Correct:   correct,
			Incorrect: incorrect,
			Ambiguous: ambiguous,
		}
		if correct+incorrect > 0 {
			p := binomGreater(correct, correct+incorrect)
			pa := binomGreater(correct, correct+incorrect+ambiguous)
			res.PBinom, res.PAmbig = &p, &pa
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		pi, pj := results[i].PBinom, results[j].PBinom
		switch {
		case pi == nil && pj == nil:
			return results[i].CURIE < results[j].CURIE
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi < *pj
		}
		return results[i].CURIE < results[j].CURIE
	})
	return results
}

// binomGreater is P(X >= k) for X ~ Binomial(n, 1/2).
func binomGreater(k, n int) float64 {
	if k <= 0 {
		return 1
	}
	b := distuv.Binomial{N: float64(n), P: 0.5}
	p := 1 - b.CDF(float64(k-1))
	return clip01(p)
}
