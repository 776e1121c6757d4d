package analysis

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

// Detection method names accepted in configuration.
const (
	MethodExact = "exact"
	MethodPeaks = "peaks"
)

// minFinalSegment keeps the last segment of an exact partition at two
// observations so the last breakpoint date stays strictly inside the series.
const minFinalSegment = 2

// Detector is the change point detection strategy. Implementations must
// return points with strictly ascending dates lying strictly inside the
// series' date range.
type Detector interface {
	Detect(series models.Series) ([]models.ChangePoint, error)
}

// NewDetector selects the detection strategy from configuration.
func NewDetector(cfg *config.AnalysisConfig, logger *logrus.Logger) (Detector, error) {
	switch cfg.Method {
	case MethodExact:
		return &ExactPartitioning{NBkps: cfg.NBkps, logger: logger}, nil
	case MethodPeaks:
		spacing := cfg.PeakSpacing
		if spacing <= 0 {
			spacing = cfg.LongWindow
		}
		return &PeakHeuristic{
			ShortWindow: cfg.RollingWindow,
			LongWindow:  cfg.LongWindow,
			Prominence:  cfg.PeakProminence,
			Spacing:     spacing,
			logger:      logger,
		}, nil
	default:
		return nil, utils.NewConfigurationErrorf("unknown change point method %q", cfg.Method)
	}
}

// ExactPartitioning finds the segmentation with exactly NBkps breakpoints
// minimizing the total within-segment sum of squared deviations, by dynamic
// programming over prefix costs. Runtime is O(n^2 * NBkps); callers with very
// long series should bound NBkps or switch to the peak heuristic.
type ExactPartitioning struct {
	NBkps  int
	logger *logrus.Logger
}

// Detect returns exactly NBkps change points. When two partitions tie on
// total cost the one whose breakpoints come earliest wins.
func (d *ExactPartitioning) Detect(series models.Series) ([]models.ChangePoint, error) {
	n := len(series)
	if d.NBkps <= 0 || d.NBkps >= (n+1)/2 {
		return nil, utils.NewConfigurationErrorf(
			"n_bkps must satisfy 0 < n_bkps < series_length/2, got n_bkps=%d for %d observations", d.NBkps, n)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	prices := series.Prices()
	breakpoints := optimalBreakpoints(prices, d.NBkps)

	points := buildChangePoints(series, prices, breakpoints)
	if d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"method":        MethodExact,
			"change_points": len(points),
		}).Debug("change point detection completed")
	}
	return points, nil
}

// optimalBreakpoints computes the DP table of minimal partition costs and
// backtracks the breakpoint indices. Segment cost uses prefix sums:
// cost(a,b) = sum(x^2) - sum(x)^2/len over x in [a,b).
func optimalBreakpoints(prices []float64, nBkps int) []int {
	n := len(prices)
	prefix := make([]float64, n+1)
	prefixSq := make([]float64, n+1)
	for i, v := range prices {
		prefix[i+1] = prefix[i] + v
		prefixSq[i+1] = prefixSq[i] + v*v
	}
	cost := func(a, b int) float64 {
		s := prefix[b] - prefix[a]
		return prefixSq[b] - prefixSq[a] - s*s/float64(b-a)
	}

	segments := nBkps + 1
	// dp[j][i]: minimal cost of splitting the first i observations into j
	// segments. Segments may hold a single observation except the last,
	// which keeps minFinalSegment.
	dp := make([][]float64, segments+1)
	arg := make([][]int, segments+1)
	for j := range dp {
		dp[j] = make([]float64, n+1)
		arg[j] = make([]int, n+1)
		for i := range dp[j] {
			dp[j][i] = math.Inf(1)
			arg[j][i] = -1
		}
	}
	for i := 1; i <= n; i++ {
		dp[1][i] = cost(0, i)
	}
	for j := 2; j <= segments; j++ {
		minLast := 1
		if j == segments {
			minLast = minFinalSegment
		}
		for i := j - 1 + minLast; i <= n; i++ {
			// Strict less-than keeps the earliest split on equal cost.
			for t := j - 1; t <= i-minLast; t++ {
				if c := dp[j-1][t] + cost(t, i); c < dp[j][i] {
					dp[j][i] = c
					arg[j][i] = t
				}
			}
		}
	}

	breakpoints := make([]int, nBkps)
	i := n
	for j := segments; j > 1; j-- {
		i = arg[j][i]
		breakpoints[j-2] = i
	}
	return breakpoints
}

// PeakHeuristic locates change points as local maxima of the absolute
// difference between a short and a long rolling mean. It carries no
// optimality guarantee and may legitimately return zero points.
type PeakHeuristic struct {
	ShortWindow int
	LongWindow  int
	// Prominence scales the series' standard deviation into the minimum
	// deviation magnitude a peak must reach.
	Prominence float64
	// Spacing is the minimum distance between accepted peaks, in observations.
	Spacing int
	logger  *logrus.Logger
}

// Detect returns the qualifying peaks in chronological order.
func (d *PeakHeuristic) Detect(series models.Series) ([]models.ChangePoint, error) {
	n := len(series)
	if n < d.LongWindow+2 {
		return nil, utils.NewInsufficientDataError(d.LongWindow+2, n)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	prices := series.Prices()
	shortMA := rollingMean(prices, d.ShortWindow)
	longMA := rollingMean(prices, d.LongWindow)

	// deviation[i] pairs the two windows ending at original index
	// i+LongWindow-1.
	deviation := make([]float64, len(longMA))
	offset := d.LongWindow - d.ShortWindow
	for i := range longMA {
		deviation[i] = shortMA[i+offset] - longMA[i]
	}

	threshold := d.Prominence * calculateStdDev(prices)
	candidates := localPeakIndices(deviation, threshold)
	for i, c := range candidates {
		candidates[i] = c + d.LongWindow - 1
	}
	accepted := enforceSpacing(candidates, deviationMagnitudes(deviation, d.LongWindow-1, candidates), d.Spacing)

	// Peaks at the series edges cannot split the series.
	indices := accepted[:0]
	for _, idx := range accepted {
		if idx >= 1 && idx <= n-2 {
			indices = append(indices, idx)
		}
	}

	points := buildChangePoints(series, prices, indices)
	if d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"method":        MethodPeaks,
			"threshold":     threshold,
			"change_points": len(points),
		}).Debug("change point detection completed")
	}
	return points, nil
}

// localPeakIndices finds interior local maxima of |values| at or above
// threshold. Plateaus resolve to their first index.
func localPeakIndices(values []float64, threshold float64) []int {
	var peaks []int
	for i := 1; i < len(values)-1; i++ {
		v := math.Abs(values[i])
		if v >= threshold && v > math.Abs(values[i-1]) && v >= math.Abs(values[i+1]) {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

func deviationMagnitudes(deviation []float64, shift int, indices []int) map[int]float64 {
	mags := make(map[int]float64, len(indices))
	for _, idx := range indices {
		mags[idx] = math.Abs(deviation[idx-shift])
	}
	return mags
}

// enforceSpacing keeps the strongest peaks first, discarding any candidate
// closer than spacing to an already accepted one. Equal magnitudes resolve to
// the earlier index. The result is sorted chronologically.
func enforceSpacing(candidates []int, magnitude map[int]float64, spacing int) []int {
	ordered := append([]int(nil), candidates...)
	sort.SliceStable(ordered, func(a, b int) bool {
		ma, mb := magnitude[ordered[a]], magnitude[ordered[b]]
		if ma != mb {
			return ma > mb
		}
		return ordered[a] < ordered[b]
	})

	var accepted []int
	for _, idx := range ordered {
		ok := true
		for _, kept := range accepted {
			if abs(idx-kept) < spacing {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, idx)
		}
	}
	sort.Ints(accepted)
	return accepted
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// buildChangePoints derives per-point statistics from the segments adjacent
// to each breakpoint, bounded by neighboring breakpoints or series edges.
func buildChangePoints(series models.Series, prices []float64, indices []int) []models.ChangePoint {
	points := make([]models.ChangePoint, 0, len(indices))
	for k, idx := range indices {
		lo := 0
		if k > 0 {
			lo = indices[k-1]
		}
		hi := len(prices)
		if k+1 < len(indices) {
			hi = indices[k+1]
		}
		meanBefore := calculateMean(prices[lo:idx])
		meanAfter := calculateMean(prices[idx:hi])

		changeType := models.ChangeTypeIncrease
		if meanAfter < meanBefore {
			changeType = models.ChangeTypeDecrease
		}
		var confidence float64
		if meanBefore+meanAfter != 0 {
			confidence = clip01(math.Abs(meanAfter-meanBefore) / (meanBefore + meanAfter))
		}

		points = append(points, models.ChangePoint{
			Date:       series[idx].Date,
			Confidence: confidence,
			MeanBefore: meanBefore,
			MeanAfter:  meanAfter,
			ChangeType: changeType,
		})
	}
	return points
}
