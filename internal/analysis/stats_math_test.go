package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "simple values", values: []float64{1, 2, 3, 4, 5}, expected: 3},
		{name: "single value", values: []float64{42}, expected: 42},
		{name: "empty slice", values: nil, expected: 0},
		{name: "negative values", values: []float64{-2, 2}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, calculateMean(tt.values), 1e-9)
		})
	}
}

func TestCalculateStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "known sample", values: []float64{2, 4, 4, 4, 5, 5, 7, 9}, expected: 2.13809},
		{name: "constant values", values: []float64{5, 5, 5}, expected: 0},
		{name: "single value", values: []float64{1}, expected: 0},
		{name: "empty slice", values: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, calculateStdDev(tt.values), 1e-4)
		})
	}
}

func TestPopulationVsSampleStdDev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	// Population uses n in the denominator, sample n-1.
	assert.InDelta(t, 2.0, calculatePopStdDev(values), 1e-9)
	assert.Greater(t, calculateStdDev(values), calculatePopStdDev(values))
}

func TestCalculateMedian(t *testing.T) {
	assert.InDelta(t, 3.0, calculateMedian([]float64{5, 1, 3, 2, 4}), 1e-9)
	assert.InDelta(t, 2.5, calculateMedian([]float64{1, 2, 3, 4}), 1e-9)
	assert.InDelta(t, 0.0, calculateMedian(nil), 1e-9)
}

func TestRollingMean(t *testing.T) {
	result := rollingMean([]float64{1, 2, 3, 4, 5}, 3)
	assert.Len(t, result, 3)
	assert.InDelta(t, 2.0, result[0], 1e-9)
	assert.InDelta(t, 3.0, result[1], 1e-9)
	assert.InDelta(t, 4.0, result[2], 1e-9)

	assert.Nil(t, rollingMean([]float64{1, 2}, 3))
	assert.Nil(t, rollingMean([]float64{1, 2, 3}, 0))
}

func TestRollingStdDev(t *testing.T) {
	result := rollingStdDev([]float64{1, 2, 3, 5}, 2)
	assert.Len(t, result, 3)
	assert.InDelta(t, math.Sqrt2/2, result[0], 1e-9)
	assert.InDelta(t, math.Sqrt2/2, result[1], 1e-9)
	assert.InDelta(t, math.Sqrt2, result[2], 1e-9)

	assert.Nil(t, rollingStdDev([]float64{1, 2, 3}, 1))
}

func TestAutocorrelation(t *testing.T) {
	// Alternating series has strong negative lag-1 autocorrelation.
	alternating := make([]float64, 10)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 1
		} else {
			alternating[i] = -1
		}
	}
	acf := autocorrelation(alternating, 2)
	assert.Len(t, acf, 2)
	assert.InDelta(t, -0.9, acf[0], 1e-9)
	assert.InDelta(t, 0.8, acf[1], 1e-9)
}

func TestAutocorrelation_Degenerate(t *testing.T) {
	assert.Nil(t, autocorrelation([]float64{1}, 3))

	// Constant series has zero variance; ACF defined as zero.
	acf := autocorrelation([]float64{4, 4, 4, 4, 4}, 2)
	assert.Equal(t, []float64{0, 0}, acf)

	// maxLag is clamped to n-1.
	acf = autocorrelation([]float64{1, 2, 3}, 10)
	assert.Len(t, acf, 2)
}

func TestLinearFit(t *testing.T) {
	t.Run("perfect line", func(t *testing.T) {
		slope, intercept, r2, pValue := linearFit([]float64{1, 3, 5, 7, 9})
		assert.InDelta(t, 2.0, slope, 1e-9)
		assert.InDelta(t, 1.0, intercept, 1e-9)
		assert.InDelta(t, 1.0, r2, 1e-9)
		assert.InDelta(t, 0.0, pValue, 1e-6)
	})

	t.Run("constant values", func(t *testing.T) {
		slope, intercept, r2, pValue := linearFit([]float64{5, 5, 5, 5})
		assert.InDelta(t, 0.0, slope, 1e-9)
		assert.InDelta(t, 5.0, intercept, 1e-9)
		assert.InDelta(t, 0.0, r2, 1e-9)
		assert.InDelta(t, 1.0, pValue, 1e-9)
	})

	t.Run("too few points", func(t *testing.T) {
		slope, _, _, pValue := linearFit([]float64{1, 2})
		assert.Zero(t, slope)
		assert.InDelta(t, 1.0, pValue, 1e-9)
	})

	t.Run("noisy slope has p value between 0 and 1", func(t *testing.T) {
		_, _, r2, pValue := linearFit([]float64{1, 3, 2, 5, 4, 6, 5, 8})
		assert.Greater(t, r2, 0.0)
		assert.Less(t, r2, 1.0)
		assert.Greater(t, pValue, 0.0)
		assert.Less(t, pValue, 1.0)
	})
}

func TestOneSampleTTest(t *testing.T) {
	t.Run("zero mean sample", func(t *testing.T) {
		stat, p, ok := oneSampleTTest([]float64{-2, -1, 1, 2})
		assert.True(t, ok)
		assert.InDelta(t, 0.0, stat, 1e-9)
		assert.InDelta(t, 1.0, p, 1e-9)
	})

	t.Run("clearly nonzero mean", func(t *testing.T) {
		stat, p, ok := oneSampleTTest([]float64{9.8, 10.1, 10.0, 9.9, 10.2, 10.0})
		assert.True(t, ok)
		assert.Greater(t, stat, 10.0)
		assert.Less(t, p, 0.001)
	})

	t.Run("degenerate samples", func(t *testing.T) {
		_, _, ok := oneSampleTTest([]float64{1})
		assert.False(t, ok)
		_, _, ok = oneSampleTTest([]float64{3, 3, 3})
		assert.False(t, ok)
	})
}

func TestClip01(t *testing.T) {
	assert.Equal(t, 0.0, clip01(-0.5))
	assert.Equal(t, 0.3, clip01(0.3))
	assert.Equal(t, 1.0, clip01(1.5))
}
