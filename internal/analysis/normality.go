package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// minNormalitySample is the smallest sample for which the omnibus test's
// skewness component is defined.
const minNormalitySample = 8

// dagostinoK2 runs the D'Agostino-Pearson omnibus normality test. It combines
// z-scores for skewness and kurtosis into a chi-squared statistic with two
// degrees of freedom. ok is false when the sample is too small.
func dagostinoK2(values []float64) (statistic, pValue float64, ok bool) {
	n := len(values)
	if n < minNormalitySample {
		return 0, 1, false
	}

	zs := skewnessZ(values)
	zk := kurtosisZ(values)
	statistic = zs*zs + zk*zk
	chi2 := distuv.ChiSquared{K: 2}
	pValue = 1 - chi2.CDF(statistic)
	return statistic, pValue, true
}

// centralMoments returns the second, third and fourth central moments.
func centralMoments(values []float64) (m2, m3, m4 float64) {
	n := float64(len(values))
	mean := calculateMean(values)
	for _, v := range values {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	return m2 / n, m3 / n, m4 / n
}

// skewnessZ transforms sample skewness to an approximately standard normal
// variate (D'Agostino 1970).
func skewnessZ(values []float64) float64 {
	n := float64(len(values))
	m2, m3, _ := centralMoments(values)
	if m2 == 0 {
		return 0
	}
	b1 := m3 / math.Pow(m2, 1.5)

	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) /
		((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	if y == 0 {
		return 0
	}
	return delta * math.Log(y/alpha+math.Sqrt(math.Pow(y/alpha, 2)+1))
}

// kurtosisZ transforms sample kurtosis to an approximately standard normal
// variate (Anscombe and Glynn 1983).
func kurtosisZ(values []float64) float64 {
	n := float64(len(values))
	m2, _, m4 := centralMoments(values)
	if m2 == 0 {
		return 0
	}
	b2 := m4 / (m2 * m2)

	e := 3 * (n - 1) / (n + 1)
	variance := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(variance)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term := (1 - 2/a) / (1 + x*math.Sqrt(2/(a-4)))
	return ((1 - 2/(9*a)) - math.Cbrt(term)) / math.Sqrt(2/(9*a))
}
