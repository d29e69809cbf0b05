package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBonferroniScalesByCount(t *testing.T) {
	pvals := []float64{0.01, 0.02, 0.03, 0.04, 0.05}
	q, err := Correct(pvals, Bonferroni, 0.05)
	require.NoError(t, err)

	expected := []float64{0.05, 0.10, 0.15, 0.20, 0.25}
	require.Len(t, q, len(expected))
	for i := range expected {
		assert.InDelta(t, expected[i], q[i], 1e-12)
	}
}

func TestBenjaminiHochbergUniformGrid(t *testing.T) {
	// p_i = i*c with m terms gives q_i = p_i*m/i = m*c for every row.
	pvals := []float64{0.01, 0.02, 0.03, 0.04, 0.05}
	q, err := Correct(pvals, BenjaminiHochberg, 0.05)
	require.NoError(t, err)

	for i := range q {
		assert.InDelta(t, 0.05, q[i], 1e-9, "q[%d]", i)
	}
}

func TestBenjaminiHochbergMonotone(t *testing.T) {
	pvals := []float64{0.2, 0.001, 0.8, 0.04, 0.5, 0.015}
	q, err := Correct(pvals, BenjaminiHochberg, 0.05)
	require.NoError(t, err)

	// The q ordering must follow the p ordering.
	order := ascendingOrder(pvals)
	for i := 1; i < len(order); i++ {
		assert.LessOrEqual(t, q[order[i-1]], q[order[i]])
	}
}

func TestHolmRunningMaximum(t *testing.T) {
	pvals := []float64{0.01, 0.02, 0.03, 0.04, 0.05}
	q, err := Correct(pvals, Holm, 0.05)
	require.NoError(t, err)

	expected := []float64{0.05, 0.08, 0.09, 0.09, 0.09}
	for i := range expected {
		assert.InDelta(t, expected[i], q[i], 1e-12)
	}
}

func TestSidakSingleValue(t *testing.T) {
	q, err := Correct([]float64{0.01, 0.5, 0.9}, Sidak, 0.05)
	require.NoError(t, err)
	// 1-(1-0.01)^3
	assert.InDelta(t, 0.029701, q[0], 1e-9)
	assert.InDelta(t, 0.875, q[1], 1e-9)
	assert.InDelta(t, 0.999, q[2], 1e-9)
}

func TestTwoStageBHRescalesByNullEstimate(t *testing.T) {
	pvals := []float64{0.001, 0.002, 0.8, 0.9}
	q, err := Correct(pvals, TwoStageBH, 0.05)
	require.NoError(t, err)

	// Stage one rejects two hypotheses, so m0/m = 1/2 rescales the
	// plain BH values [0.004, 0.004, 0.9, 0.9].
	expected := []float64{0.002, 0.002, 0.45, 0.45}
	for i := range expected {
		assert.InDelta(t, expected[i], q[i], 1e-12)
	}
}

func TestTwoStageBKYCarriesFactor(t *testing.T) {
	pvals := []float64{0.001, 0.002, 0.8, 0.9}
	q, err := Correct(pvals, TwoStageBKY, 0.05)
	require.NoError(t, err)

	// Same stage-one outcome as fdr_tsbh, scaled by (1+alpha).
	expected := []float64{0.0021, 0.0021, 0.4725, 0.4725}
	for i := range expected {
		assert.InDelta(t, expected[i], q[i], 1e-12)
	}
}

func TestAllOnesStayOnes(t *testing.T) {
	pvals := []float64{1, 1, 1, 1}
	for _, method := range Methods {
		q, err := Correct(pvals, method, 0.05)
		require.NoError(t, err, "method %s", method)
		for i := range q {
			assert.Equal(t, 1.0, q[i], "method %s q[%d]", method, i)
		}
	}
}

func TestQValuesStayInUnitInterval(t *testing.T) {
	pvals := []float64{0, 1e-300, 0.003, 0.4, 0.97, 1}
	for _, method := range Methods {
		q, err := Correct(pvals, method, 0.05)
		require.NoError(t, err, "method %s", method)
		require.Len(t, q, len(pvals))
		for i := range q {
			assert.GreaterOrEqual(t, q[i], 0.0, "method %s q[%d]", method, i)
			assert.LessOrEqual(t, q[i], 1.0, "method %s q[%d]", method, i)
		}
	}
}

func TestCorrectEmptyInput(t *testing.T) {
	q, err := Correct(nil, BenjaminiHochberg, 0.05)
	require.NoError(t, err)
	assert.Empty(t, q)
}

func TestCorrectUnknownMethod(t *testing.T) {
	_, err := Correct([]float64{0.5}, Method("bogus"), 0.05)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("fdr_bh")
	require.NoError(t, err)
	assert.Equal(t, BenjaminiHochberg, m)

	_, err = ParseMethod("fdr_by")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
