package enrichment

import (
	"math"
	"sort"
)

// Rank attaches corrected q-values to contingency rows and produces the
// final presentation ordering. The input p-values are corrected with
// the given method; -log10 transforms are included for plotting, capped
// like the source data frames at 320 to stay finite.
func Rank(rows []Contingency, method Method, alpha float64) ([]Ranked, error) {
	pvals := make([]float64, len(rows))
	for i, r := range rows {
		pvals[i] = r.P
	}
	qvals, err := Correct(pvals, method, alpha)
	if err != nil {
		return nil, err
	}

	ranked := make([]Ranked, len(rows))
	for i, r := range rows {
		ranked[i] = Ranked{
			Contingency: r,
			Q:           qvals[i],
			MLP:         negLog10(r.P),
			MLQ:         negLog10(qvals[i]),
		}
	}
	return ranked, nil
}

// Format filters and orders ranked rows for presentation: rows with
// q > alpha are dropped unless keepInsignificant is set, and the
// remainder sorts ascending by q, then p, then first-seen term order.
// Applying Format twice with the same arguments is a no-op.
func Format(rows []Ranked, alpha float64, keepInsignificant bool) []Ranked {
	out := make([]Ranked, 0, len(rows))
	for _, r := range rows {
		if !keepInsignificant && r.Q > alpha {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Q != out[j].Q {
			return out[i].Q < out[j].Q
		}
		if out[i].P != out[j].P {
			return out[i].P < out[j].P
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}

// negLog10 is -log10(p) with the overflow cap used for display.
func negLog10(p float64) float64 {
	if p <= 0 {
		return 320
	}
	v := -math.Log10(p)
	if v > 320 {
		v = 320
	}
	return v
}
