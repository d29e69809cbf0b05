package enrichment

import (
	"fmt"
	"math"
	"sort"
)

// Method names one of the supported multiple-hypothesis corrections.
// The names match the statsmodels identifiers the web form exposes.
type Method string

const (
	Bonferroni        Method = "bonferroni"
	Sidak             Method = "sidak"
	Holm              Method = "holm"
	HolmSidak         Method = "holm-sidak"
	BenjaminiHochberg Method = "fdr_bh"
	TwoStageBH        Method = "fdr_tsbh"
	TwoStageBKY       Method = "fdr_tsbky"
)

// Methods lists the supported corrections in the order the UI offers
// them.
var Methods = []Method{
	BenjaminiHochberg, Bonferroni, Sidak, HolmSidak, Holm, TwoStageBH, TwoStageBKY,
}

// ParseMethod validates a correction method name.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Correct adjusts raw p-values for multiple testing, returning q-values
// in the same order and length as the input. An empty input yields an
// empty slice. alpha is only consulted by the two-stage FDR methods'
// stage-one pass. All q-values are clipped into [0, 1].
func Correct(pvals []float64, method Method, alpha float64) ([]float64, error) {
	m := len(pvals)
	if m == 0 {
		return []float64{}, nil
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}

	switch method {
	case Bonferroni:
		q := make([]float64, m)
		for i, p := range pvals {
			q[i] = clip01(p * float64(m))
		}
		return q, nil

	case Sidak:
		q := make([]float64, m)
		for i, p := range pvals {
			q[i] = clip01(sidakAdjust(p, m))
		}
		return q, nil

	case Holm, HolmSidak:
		order := ascendingOrder(pvals)
		q := make([]float64, m)
		running := 0.0
		for rank, idx := range order {
			var adj float64
			if method == Holm {
				adj = pvals[idx] * float64(m-rank)
			} else {
				adj = sidakAdjust(pvals[idx], m-rank)
			}
			if adj > running {
				running = adj
			}
			q[idx] = clip01(running)
		}
		return q, nil

	case BenjaminiHochberg:
		return benjaminiHochberg(pvals), nil

	case TwoStageBH:
		return twoStageFDR(pvals, alpha, 1.0), nil

	case TwoStageBKY:
		// The BKY (2006) two-stage procedure runs stage one at
		// alpha/(1+alpha) and scales the result back up.
		return twoStageFDR(pvals, alpha/(1+alpha), 1+alpha), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}

// sidakAdjust is 1-(1-p)^n, computed via expm1/log1p so that tiny
// p-values do not lose precision.
func sidakAdjust(p float64, n int) float64 {
	return -math.Expm1(float64(n) * math.Log1p(-p))
}

// benjaminiHochberg performs the standard step-up procedure: a sorted
// descending pass taking the running minimum of p*m/rank.
func benjaminiHochberg(pvals []float64) []float64 {
	m := len(pvals)
	order := ascendingOrder(pvals)
	q := make([]float64, m)
	running := math.Inf(1)
	for rank := m - 1; rank >= 0; rank-- {
		idx := order[rank]
		adj := pvals[idx] * float64(m) / float64(rank+1)
		if adj < running {
			running = adj
		}
		q[idx] = clip01(running)
	}
	return q
}

// twoStageFDR implements the non-iterating two-stage procedure used by
// statsmodels fdrcorrection_twostage: a stage-one BH pass at alphaPrime
// estimates the number of true nulls m0, and the BH q-values are
// rescaled by m0/m (and the BKY factor where applicable).
func twoStageFDR(pvals []float64, alphaPrime, factor float64) []float64 {
	m := len(pvals)
	q := benjaminiHochberg(pvals)

	// Stage-one rejection count at alphaPrime on the raw sorted p-values.
	order := ascendingOrder(pvals)
	rejected := 0
	for rank := m - 1; rank >= 0; rank-- {
		if pvals[order[rank]] <= alphaPrime*float64(rank+1)/float64(m) {
			rejected = rank + 1
			break
		}
	}

	scale := factor
	if rejected > 0 && rejected < m {
		scale *= float64(m-rejected) / float64(m)
	}
	for i := range q {
		q[i] = clip01(q[i] * scale)
	}
	return q
}

// ascendingOrder returns index order sorting pvals ascending. The sort
// is stable so equal p-values keep their input order.
func ascendingOrder(pvals []float64) []int {
	order := make([]int, len(pvals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pvals[order[i]] < pvals[order[j]]
	})
	return order
}

func clip01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
