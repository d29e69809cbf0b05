package enrichment

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// Alternative selects the tail of Fisher's exact test.
type Alternative int

const (
	// Greater sums the upper tail only (over-representation).
	Greater Alternative = iota
	// TwoSided sums the probability of every table no more likely than
	// the observed one.
	TwoSided
)

// relEps is the relative tolerance used when comparing table
// probabilities for the two-sided sum, matching the slack scipy uses.
const relEps = 1e-7

// hypergeomLogProb returns log P(X = k) for k marked items in a draw of
// n from a universe of size total containing marked marked items.
func hypergeomLogProb(k, n, marked, total int) float64 {
	return combin.LogGeneralizedBinomial(float64(marked), float64(k)) +
		combin.LogGeneralizedBinomial(float64(total-marked), float64(n-k)) -
		combin.LogGeneralizedBinomial(float64(total), float64(n))
}

// FisherExact computes the exact p-value for the 2x2 contingency table
// implied by drawing querySize identifiers from a universe in which
// termSize identifiers carry the annotation, observing overlap hits.
//
// The support of the overlap count is [max(0, querySize+termSize-universe),
// min(querySize, termSize)]; callers violating the bound get p = NaN.
func FisherExact(overlap, querySize, termSize, universe int, alt Alternative) float64 {
	lo := querySize + termSize - universe
	if lo < 0 {
		lo = 0
	}
	hi := querySize
	if termSize < hi {
		hi = termSize
	}
	if overlap < lo || overlap > hi || universe <= 0 {
		return math.NaN()
	}

	observed := math.Exp(hypergeomLogProb(overlap, querySize, termSize, universe))

	var p float64
	switch alt {
	case Greater:
		for k := overlap; k <= hi; k++ {
			p += math.Exp(hypergeomLogProb(k, querySize, termSize, universe))
		}
	default: // TwoSided
		bound := observed * (1 + relEps)
		for k := lo; k <= hi; k++ {
			if pk := math.Exp(hypergeomLogProb(k, querySize, termSize, universe)); pk <= bound {
				p += pk
			}
		}
	}

	if p > 1 {
		p = 1
	}
	return p
}
