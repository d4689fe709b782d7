package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairedTTest_KnownValues(t *testing.T) {
	// d = [-1, -1, -2, -1, -2], mean = -1.4, sd = 0.5477, t = -5.7155, df = 4
	pre := []float64{3.0, 3.5, 4.0, 2.5, 3.0}
	post := []float64{2.0, 2.5, 2.0, 1.5, 1.0}

	res, err := PairedTTest(pre, post)

	require.NoError(t, err)
	assert.Equal(t, 5, res.N)
	assert.Equal(t, 4, res.DF)
	assert.InDelta(t, 3.2, res.MeanPre, 1e-9)
	assert.InDelta(t, 1.8, res.MeanPost, 1e-9)
	assert.InDelta(t, -1.4, res.MeanDiff, 1e-9)
	assert.InDelta(t, -5.7155, res.T, 1e-4)
	assert.InDelta(t, 0.004636, res.PValue, 1e-5)
}

func TestPairedTTest_Errors(t *testing.T) {
	_, err := PairedTTest([]float64{1}, []float64{2})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PairedTTest(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PairedTTest([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	res, err := PairedTTest([]float64{5, 6, 7}, []float64{7, 8, 9})
	assert.ErrorIs(t, err, ErrZeroVariance)
	assert.InDelta(t, 2.0, res.MeanDiff, 1e-9, "Средние считаются и при нулевой дисперсии")
}

func TestStudentTwoSidedP(t *testing.T) {
	tests := []struct {
		t, df, want float64
	}{
		{0, 10, 1},
		{2.228, 10, 0.05},
		{-2.228, 10, 0.05},
		{12.706, 1, 0.05},
		{2.0, 30, 0.0546},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, StudentTwoSidedP(tt.t, tt.df), 1e-3, "t=%v df=%v", tt.t, tt.df)
	}
	assert.Equal(t, 0.0, StudentTwoSidedP(math.Inf(1), 5))
	assert.True(t, math.IsNaN(StudentTwoSidedP(1, 0)))
}
