package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

// MacKinnon (1994) approximate p-value surface and (2010) critical value
// response surface for the constant-only Dickey-Fuller regression.
var (
	adfTauStar   = -1.61
	adfTauMin    = -18.83
	adfTauMax    = 2.74
	adfSmallP    = []float64{2.1659, 1.4412, 0.038269}
	adfLargeP    = []float64{1.7339, 0.93202, -0.12745, -0.010368}
	adfCritCoefs = map[string][]float64{
		"1%":  {-3.43035, -6.5393, -16.786, -79.433},
		"5%":  {-2.86154, -2.8903, -4.234, -40.040},
		"10%": {-2.56677, -1.5384, -2.809, 0},
	}
)

// adfTest runs an augmented Dickey-Fuller unit-root test with a constant term.
// maxLag <= 0 selects the lag order by the Schwert rule. The null hypothesis is
// that the series has a unit root; small p-values mean stationarity.
func adfTest(prices []float64, maxLag int, alpha float64) (*models.StationarityResult, error) {
	n := len(prices)
	if maxLag <= 0 {
		maxLag = int(math.Floor(12 * math.Pow(float64(n)/100, 0.25)))
	}
	if minLen := maxLag + 10; n < minLen {
		return nil, utils.NewInsufficientDataError(minLen, n)
	}

	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = prices[i] - prices[i-1]
	}

	// Regress dy_t on [const, y_{t-1}, dy_{t-1} .. dy_{t-p}].
	p := maxLag
	nobs := len(diffs) - p
	k := p + 2
	xData := make([]float64, 0, nobs*k)
	yData := make([]float64, 0, nobs)
	for t := p; t < len(diffs); t++ {
		xData = append(xData, 1, prices[t])
		for j := 1; j <= p; j++ {
			xData = append(xData, diffs[t-j])
		}
		yData = append(yData, diffs[t])
	}

	coefs, stderrs, err := olsFit(mat.NewDense(nobs, k, xData), yData)
	if err != nil {
		return nil, err
	}
	if stderrs[1] == 0 {
		return nil, utils.NewDataError("degenerate regressor matrix in unit-root regression")
	}
	tau := coefs[1] / stderrs[1]

	result := &models.StationarityResult{
		ADFStatistic:   tau,
		PValue:         mackinnonPValue(tau),
		CriticalValues: adfCriticalValues(nobs),
		UsedLag:        p,
	}
	result.IsStationary = result.PValue < alpha
	return result, nil
}

// olsFit solves y = X*beta by least squares and returns the coefficient
// estimates with their standard errors.
func olsFit(x *mat.Dense, y []float64) (coefs, stderrs []float64, err error) {
	nobs, k := x.Dims()
	yVec := mat.NewVecDense(nobs, y)

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, nil, utils.NewDataErrorf("least squares solve failed: %v", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	var rss float64
	for i := 0; i < nobs; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
	}
	sigma2 := rss / float64(nobs-k)

	var xtx, xtxInv mat.Dense
	xtx.Mul(x.T(), x)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, utils.NewDataErrorf("singular regressor matrix: %v", err)
	}

	coefs = make([]float64, k)
	stderrs = make([]float64, k)
	for i := 0; i < k; i++ {
		coefs[i] = beta.AtVec(i)
		stderrs[i] = math.Sqrt(sigma2 * xtxInv.At(i, i))
	}
	return coefs, stderrs, nil
}

func mackinnonPValue(tau float64) float64 {
	if tau > adfTauMax {
		return 1
	}
	if tau < adfTauMin {
		return 0
	}
	coefs := adfLargeP
	if tau <= adfTauStar {
		coefs = adfSmallP
	}
	var poly float64
	for i := len(coefs) - 1; i >= 0; i-- {
		poly = poly*tau + coefs[i]
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1}
	return norm.CDF(poly)
}

func adfCriticalValues(nobs int) map[string]float64 {
	t := float64(nobs)
	out := make(map[string]float64, len(adfCritCoefs))
	for level, b := range adfCritCoefs {
		out[level] = b[0] + b[1]/t + b[2]/(t*t) + b[3]/(t*t*t)
	}
	return out
}
