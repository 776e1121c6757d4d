package analysis

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// dailySeries builds one observation per day starting at start.
func dailySeries(start time.Time, prices []float64) models.Series {
	series := make(models.Series, len(prices))
	for i, p := range prices {
		series[i] = models.Observation{Date: start.AddDate(0, 0, i), Price: p}
	}
	return series
}

// levelShiftPrices builds consecutive constant-level blocks.
func levelShiftPrices(blocks ...struct {
	level  float64
	length int
}) []float64 {
	var prices []float64
	for _, b := range blocks {
		for i := 0; i < b.length; i++ {
			prices = append(prices, b.level)
		}
	}
	return prices
}

func TestNewDetector(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		wantErr bool
	}{
		{name: "exact method", method: MethodExact},
		{name: "peaks method", method: MethodPeaks},
		{name: "unknown method", method: "binseg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.AnalysisConfig{
				Method: tt.method, NBkps: 3, RollingWindow: 5, LongWindow: 10, PeakProminence: 0.5,
			}
			d, err := NewDetector(cfg, testLogger())
			if tt.wantErr {
				require.Error(t, err)
				var cfgErr *utils.ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, d)
		})
	}
}

func TestNewDetector_DefaultSpacing(t *testing.T) {
	cfg := &config.AnalysisConfig{Method: MethodPeaks, RollingWindow: 5, LongWindow: 30, PeakProminence: 0.5}
	d, err := NewDetector(cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 30, d.(*PeakHeuristic).Spacing)
}

func TestExactPartitioning_FindsLevelShifts(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := levelShiftPrices(
		struct {
			level  float64
			length int
		}{10, 20},
		struct {
			level  float64
			length int
		}{50, 20},
		struct {
			level  float64
			length int
		}{100, 20},
	)
	series := dailySeries(start, prices)

	d := &ExactPartitioning{NBkps: 2, logger: testLogger()}
	points, err := d.Detect(series)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// The only zero-cost partition splits exactly at the level boundaries.
	assert.True(t, points[0].Date.Equal(start.AddDate(0, 0, 20)))
	assert.True(t, points[1].Date.Equal(start.AddDate(0, 0, 40)))

	assert.InDelta(t, 10, points[0].MeanBefore, 1e-9)
	assert.InDelta(t, 50, points[0].MeanAfter, 1e-9)
	assert.Equal(t, models.ChangeTypeIncrease, points[0].ChangeType)
	assert.InDelta(t, 50, points[1].MeanBefore, 1e-9)
	assert.InDelta(t, 100, points[1].MeanAfter, 1e-9)
}

func TestExactPartitioning_DetectsDecrease(t *testing.T) {
	series := dailySeries(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), levelShiftPrices(
		struct {
			level  float64
			length int
		}{80, 10},
		struct {
			level  float64
			length int
		}{20, 10},
	))

	d := &ExactPartitioning{NBkps: 1, logger: testLogger()}
	points, err := d.Detect(series)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, models.ChangeTypeDecrease, points[0].ChangeType)
	assert.InDelta(t, 0.6, points[0].Confidence, 1e-9)
}

func TestExactPartitioning_PointsLieStrictlyInside(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 50 + float64(i%7)*3
	}
	series := dailySeries(time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC), prices)

	d := &ExactPartitioning{NBkps: 4, logger: testLogger()}
	points, err := d.Detect(series)
	require.NoError(t, err)
	require.Len(t, points, 4)

	for i, cp := range points {
		assert.True(t, cp.Date.After(series.StartDate()))
		assert.True(t, cp.Date.Before(series.EndDate()))
		assert.GreaterOrEqual(t, cp.Confidence, 0.0)
		assert.LessOrEqual(t, cp.Confidence, 1.0)
		if i > 0 {
			assert.True(t, points[i-1].Date.Before(cp.Date), "dates must ascend")
		}
	}
}

func TestExactPartitioning_ParameterValidation(t *testing.T) {
	series := dailySeries(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	tests := []struct {
		name  string
		nBkps int
	}{
		{name: "zero breakpoints", nBkps: 0},
		{name: "negative breakpoints", nBkps: -1},
		{name: "too many breakpoints", nBkps: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &ExactPartitioning{NBkps: tt.nBkps, logger: testLogger()}
			_, err := d.Detect(series)
			require.Error(t, err)
			var cfgErr *utils.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestExactPartitioning_MinimalSeriesLength(t *testing.T) {
	// n_bkps=4 on 9 observations is the tightest admissible ratio; the
	// partition succeeds with single-observation interior segments.
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	d := &ExactPartitioning{NBkps: 4, logger: testLogger()}
	points, err := d.Detect(series)
	require.NoError(t, err)
	require.Len(t, points, 4)

	// Earliest-split tie breaking puts the short segment first, so the
	// minimal-cost sizes are 1,2,2,2,2.
	wantDays := []int{1, 3, 5, 7}
	for i, cp := range points {
		assert.Equal(t, start.AddDate(0, 0, wantDays[i]), cp.Date)
		assert.True(t, cp.Date.After(series[0].Date))
		assert.True(t, cp.Date.Before(series[len(series)-1].Date))
	}
}

func TestPeakHeuristic_FindsJump(t *testing.T) {
	prices := make([]float64, 80)
	for i := range prices {
		if i < 40 {
			prices[i] = 20
		} else {
			prices[i] = 60
		}
	}
	series := dailySeries(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), prices)

	d := &PeakHeuristic{ShortWindow: 3, LongWindow: 10, Prominence: 0.5, Spacing: 10, logger: testLogger()}
	points, err := d.Detect(series)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	// The strongest deviation peak lands near the level shift at index 40.
	jump := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 40)
	closest := points[0]
	for _, cp := range points {
		if dayDistance(cp.Date, jump) < dayDistance(closest.Date, jump) {
			closest = cp
		}
	}
	assert.LessOrEqual(t, dayDistance(closest.Date, jump), 10)
}

func TestPeakHeuristic_FlatSeriesYieldsNoPoints(t *testing.T) {
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 42
	}
	series := dailySeries(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), prices)

	d := &PeakHeuristic{ShortWindow: 5, LongWindow: 15, Prominence: 0.5, Spacing: 15, logger: testLogger()}
	points, err := d.Detect(series)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestPeakHeuristic_InsufficientData(t *testing.T) {
	series := dailySeries(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), []float64{1, 2, 3})
	d := &PeakHeuristic{ShortWindow: 2, LongWindow: 10, Prominence: 0.5, Spacing: 10, logger: testLogger()}
	_, err := d.Detect(series)
	require.Error(t, err)
	var insufficientErr *utils.InsufficientDataError
	assert.ErrorAs(t, err, &insufficientErr)
}

func TestEnforceSpacing(t *testing.T) {
	candidates := []int{10, 12, 30}
	magnitude := map[int]float64{10: 5, 12: 9, 30: 3}

	accepted := enforceSpacing(candidates, magnitude, 5)
	// 12 is strongest and suppresses 10; 30 is far enough away.
	assert.Equal(t, []int{12, 30}, accepted)
}

func TestEnforceSpacing_EqualMagnitudeKeepsEarlier(t *testing.T) {
	candidates := []int{20, 22}
	magnitude := map[int]float64{20: 4, 22: 4}

	accepted := enforceSpacing(candidates, magnitude, 5)
	assert.Equal(t, []int{20}, accepted)
}

func TestLocalPeakIndices(t *testing.T) {
	values := []float64{0, 1, 3, 1, 0, -4, 0, 2, 2, 1}
	peaks := localPeakIndices(values, 2)
	// |3| at index 2, |-4| at index 5, and the plateau of 2s resolves to its
	// first index.
	assert.Equal(t, []int{2, 5, 7}, peaks)
}
