package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolens/petrolens/internal/models"
)

func TestAnnualizedRollingVolatility(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 40 + 2*math.Sin(float64(i))
	}
	series := dailySeries(start, prices)

	points := AnnualizedRollingVolatility(series, 5)
	// 29 returns produce 25 windows of width 5.
	require.Len(t, points, 25)

	// Each point is stamped with the date its window ends on.
	assert.True(t, points[0].Date.Equal(start.AddDate(0, 0, 5)))
	assert.True(t, points[len(points)-1].Date.Equal(series.EndDate()))
	for _, p := range points {
		assert.Greater(t, p.Volatility, 0.0)
	}
}

func TestAnnualizedRollingVolatility_ConstantPrices(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, []float64{10, 10, 10, 10, 10, 10, 10, 10})

	points := AnnualizedRollingVolatility(series, 3)
	require.Len(t, points, 5)
	for _, p := range points {
		assert.Zero(t, p.Volatility)
	}
}

func TestAnnualizedRollingVolatility_TooShort(t *testing.T) {
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, AnnualizedRollingVolatility(dailySeries(start, []float64{10, 11, 12}), 5))
	assert.Nil(t, AnnualizedRollingVolatility(dailySeries(start, []float64{10, 11, 12}), 1))
}

func TestEventWindowVolatility(t *testing.T) {
	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	prices := make([]float64, 30)
	for i := range prices {
		if i < 15 {
			prices[i] = 50 + 0.1*float64(i%2)
		} else {
			prices[i] = 50 + 5*float64(i%2)
		}
	}
	series := dailySeries(start, prices)

	events := models.EventCatalog{
		{Date: start.AddDate(0, 0, 15), Type: "Shock", Description: "volatility jump"},
	}
	out := EventWindowVolatility(series, events, 10)
	require.Len(t, out, 1)

	ev := out[0]
	require.NotNil(t, ev.PreVolatility)
	require.NotNil(t, ev.PostVolatility)
	require.NotNil(t, ev.VolatilityChange)
	assert.Greater(t, *ev.PostVolatility, *ev.PreVolatility)
	assert.InDelta(t, *ev.PostVolatility-*ev.PreVolatility, *ev.VolatilityChange, 1e-9)
}

func TestEventWindowVolatility_SparseWindows(t *testing.T) {
	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, []float64{50, 51, 52, 53, 54, 55, 56, 57})

	events := models.EventCatalog{
		// Only one observation before the event.
		{Date: start.AddDate(0, 0, 1), Type: "Early", Description: "thin pre window"},
	}
	out := EventWindowVolatility(series, events, 10)
	require.Len(t, out, 1)
	assert.Nil(t, out[0].PreVolatility)
	assert.NotNil(t, out[0].PostVolatility)
	assert.Nil(t, out[0].VolatilityChange)
}
