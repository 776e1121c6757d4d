package analysis

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

// Profiler computes descriptive statistics, stationarity, trend fits,
// seasonal aggregates and volatility-clustering metrics for a price series.
// Profile is a pure function of (series, config).
type Profiler struct {
	cfg    *config.AnalysisConfig
	logger *logrus.Logger
}

// NewProfiler creates a new time series profiler.
func NewProfiler(cfg *config.AnalysisConfig, logger *logrus.Logger) *Profiler {
	return &Profiler{cfg: cfg, logger: logger}
}

// Profile characterizes the series. It fails with InsufficientDataError when
// the series is shorter than the configured minimum and with DataError on
// malformed input.
func (p *Profiler) Profile(series models.Series) (*models.ProfileResult, error) {
	minLen := p.cfg.MinSeriesLength
	if minLen <= 0 {
		minLen = 30
	}
	if len(series) < minLen {
		return nil, utils.NewInsufficientDataError(minLen, len(series))
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	prices := series.Prices()

	stationarity, err := adfTest(prices, p.cfg.ADFMaxLag, p.cfg.SignificanceAlpha)
	if err != nil {
		return nil, err
	}

	result := &models.ProfileResult{
		BasicStats:          basicStats(series, prices),
		Stationarity:        *stationarity,
		TrendAnalysis:       trendAnalysis(prices),
		SeasonalityAnalysis: seasonalityAnalysis(series),
		VolatilityAnalysis:  p.volatilityAnalysis(series),
	}

	p.logger.WithFields(logrus.Fields{
		"observations":  result.BasicStats.TotalObservations,
		"span_years":    result.BasicStats.DateRangeYears,
		"is_stationary": result.Stationarity.IsStationary,
	}).Debug("profiled price series")

	return result, nil
}

func basicStats(series models.Series, prices []float64) models.BasicStats {
	minPrice, _ := stats.Min(prices)
	maxPrice, _ := stats.Max(prices)
	return models.BasicStats{
		MeanPrice:         calculateMean(prices),
		StdPrice:          calculateStdDev(prices),
		MinPrice:          minPrice,
		MaxPrice:          maxPrice,
		TotalObservations: len(series),
		DateRangeYears:    series.SpanYears(),
	}
}

func trendAnalysis(prices []float64) models.TrendAnalysis {
	slope, intercept, r2, pValue := linearFit(prices)

	logPrices := make([]float64, len(prices))
	for i, v := range prices {
		logPrices[i] = math.Log(v)
	}
	growth, logIntercept, expR2, expPValue := linearFit(logPrices)

	return models.TrendAnalysis{
		Linear: models.LinearTrend{
			Slope:     slope,
			Intercept: intercept,
			RSquared:  r2,
			PValue:    pValue,
		},
		Exponential: models.ExponentialTrend{
			GrowthRate: growth,
			Intercept:  logIntercept,
			RSquared:   expR2,
			PValue:     expPValue,
		},
	}
}

func seasonalityAnalysis(series models.Series) models.SeasonalityAnalysis {
	byMonth := make(map[int][]float64, 12)
	byWeekday := make(map[int][]float64, 5)
	for _, obs := range series {
		byMonth[int(obs.Date.Month())] = append(byMonth[int(obs.Date.Month())], obs.Price)
		if wd, ok := businessWeekday(obs.Date); ok {
			byWeekday[wd] = append(byWeekday[wd], obs.Price)
		}
	}
	return models.SeasonalityAnalysis{
		MonthlyPatterns:   groupPattern(byMonth),
		DayOfWeekPatterns: groupPattern(byWeekday),
	}
}

// businessWeekday maps Monday..Friday to 0..4; weekend dates are excluded
// from the weekday grouping of a daily benchmark series.
func businessWeekday(d time.Time) (int, bool) {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return 0, false
	default:
		return int(d.Weekday()) - 1, true
	}
}

func groupPattern(groups map[int][]float64) models.SeasonalPattern {
	pattern := models.SeasonalPattern{
		Means: make(map[int]float64, len(groups)),
		Std:   make(map[int]float64, len(groups)),
	}
	for key, values := range groups {
		pattern.Means[key] = calculateMean(values)
		pattern.Std[key] = calculateStdDev(values)
	}
	return pattern
}

func (p *Profiler) volatilityAnalysis(series models.Series) models.VolatilityAnalysis {
	returns := series.DailyReturns()

	squared := make([]float64, len(returns))
	for i, r := range returns {
		squared[i] = r * r
	}
	acf := autocorrelation(squared, p.cfg.ACFLagCount)

	rollingVol := rollingStdDev(returns, p.cfg.RollingWindow)
	median := calculateMedian(rollingVol)

	var high, low int
	for _, v := range rollingVol {
		if v > median {
			high++
		} else {
			low++
		}
	}
	var ratio float64
	if low > 0 {
		ratio = float64(high) / float64(low)
	}

	return models.VolatilityAnalysis{
		VolatilityClustering: models.VolatilityClustering{
			ACFSquaredReturns:     acf,
			HighVolatilityPeriods: high,
			LowVolatilityPeriods:  low,
			VolatilityRatio:       ratio,
		},
	}
}
