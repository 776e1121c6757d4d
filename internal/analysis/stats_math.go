package analysis

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

func calculateMean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

// calculateStdDev is the sample standard deviation (n-1 denominator).
func calculateStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil {
		return 0
	}
	return sd
}

// calculatePopStdDev is the population standard deviation (n denominator).
func calculatePopStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return 0
	}
	return sd
}

func calculateMedian(values []float64) float64 {
	m, err := stats.Median(values)
	if err != nil {
		return 0
	}
	return m
}

// rollingMean computes a simple moving average with the given period. The
// result has len(values)-period+1 elements; result[i] is the mean of the
// window ending at values[i+period-1].
func rollingMean(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	return helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
}

// rollingStdDev computes the sample standard deviation over a sliding window.
// Alignment matches rollingMean.
func rollingStdDev(values []float64, period int) []float64 {
	if period < 2 || len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	for i := period; i <= len(values); i++ {
		out = append(out, calculateStdDev(values[i-period:i]))
	}
	return out
}

// autocorrelation computes the sample autocorrelation function at lags
// 1..maxLag, using the full-sample variance in the denominator.
func autocorrelation(values []float64, maxLag int) []float64 {
	n := len(values)
	if n < 2 || maxLag <= 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}
	mean := calculateMean(values)
	var denom float64
	for _, v := range values {
		d := v - mean
		denom += d * d
	}

	acf := make([]float64, maxLag)
	if denom == 0 {
		return acf
	}
	for lag := 1; lag <= maxLag; lag++ {
		var num float64
		for t := lag; t < n; t++ {
			num += (values[t] - mean) * (values[t-lag] - mean)
		}
		acf[lag-1] = num / denom
	}
	return acf
}

// linearFit regresses y against a zero-based index 0..n-1 and reports the
// two-tailed p-value of the slope via the t-distribution.
func linearFit(y []float64) (slope, intercept, rSquared, pValue float64) {
	n := len(y)
	if n < 3 {
		return 0, calculateMean(y), 0, 1
	}

	var sumX, sumY, sumXX, sumXY, sumYY float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXX += x * x
		sumXY += x * v
		sumYY += v * v
	}

	fn := float64(n)
	denomX := fn*sumXX - sumX*sumX
	if denomX == 0 {
		return 0, calculateMean(y), 0, 1
	}
	slope = (fn*sumXY - sumX*sumY) / denomX
	intercept = (sumY - slope*sumX) / fn

	denomY := fn*sumYY - sumY*sumY
	if denomY <= 0 {
		// Constant y fits perfectly with zero slope.
		return slope, intercept, 0, 1
	}
	r := (fn*sumXY - sumX*sumY) / math.Sqrt(denomX*denomY)
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	rSquared = r * r

	df := fn - 2
	if rSquared >= 1 {
		return slope, intercept, 1, 0
	}
	t := r * math.Sqrt(df/(1-rSquared))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	pValue = 2 * (1 - tDist.CDF(math.Abs(t)))
	return slope, intercept, rSquared, pValue
}

// oneSampleTTest tests whether the sample mean differs from zero.
func oneSampleTTest(values []float64) (statistic, pValue float64, ok bool) {
	n := len(values)
	if n < 2 {
		return 0, 1, false
	}
	sd := calculateStdDev(values)
	if sd == 0 {
		return 0, 1, false
	}
	statistic = calculateMean(values) / (sd / math.Sqrt(float64(n)))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	pValue = 2 * (1 - tDist.CDF(math.Abs(statistic)))
	return statistic, pValue, true
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
