package analysis

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

// skipReasonWindow is recorded for events whose pre or post window holds
// fewer than two observations.
const skipReasonWindow = "insufficient window data"

// Correlator quantifies how catalog events relate to price movement and to
// detected change points. A single bad event never aborts the pass; it is
// recorded in SkippedEvents instead.
type Correlator struct {
	cfg    *config.AnalysisConfig
	logger *logrus.Logger
}

// NewCorrelator creates a new event correlator.
func NewCorrelator(cfg *config.AnalysisConfig, logger *logrus.Logger) *Correlator {
	return &Correlator{cfg: cfg, logger: logger}
}

// Correlate computes per-event impacts, matches change points to nearby
// events, and runs significance tests across all impacts. An empty catalog
// yields an empty but valid report.
func (c *Correlator) Correlate(series models.Series, events models.EventCatalog, changePoints []models.ChangePoint) (*models.CorrelationReport, error) {
	if c.cfg.WindowDays <= 0 {
		return nil, utils.NewConfigurationErrorf("window_days must be positive, got %d", c.cfg.WindowDays)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	report := &models.CorrelationReport{
		EventImpacts:  []models.EventImpact{},
		Matches:       []models.MatchResult{},
		SkippedEvents: []models.SkippedEvent{},
	}

	for _, event := range events {
		impact, ok := c.eventImpact(series, event)
		if !ok {
			report.SkippedEvents = append(report.SkippedEvents, models.SkippedEvent{
				Date:   event.Date,
				Reason: skipReasonWindow,
			})
			continue
		}
		report.EventImpacts = append(report.EventImpacts, impact)
	}

	report.Matches = matchChangePoints(changePoints, events, c.cfg.EffectiveToleranceDays())
	report.StatisticalTests = significanceTests(report.EventImpacts, c.cfg.SignificanceAlpha)

	c.logger.WithFields(logrus.Fields{
		"events":  len(events),
		"impacts": len(report.EventImpacts),
		"skipped": len(report.SkippedEvents),
		"matches": len(report.Matches),
	}).Debug("event correlation completed")

	return report, nil
}

// eventImpact computes pre/post window statistics around one event. The pre
// window is [date-window, date) and the post window [date, date+window].
func (c *Correlator) eventImpact(series models.Series, event models.Event) (models.EventImpact, bool) {
	w := c.cfg.WindowDays
	pre := series.Between(event.Date.AddDate(0, 0, -w), event.Date.AddDate(0, 0, -1))
	post := series.Between(event.Date, event.Date.AddDate(0, 0, w))
	if len(pre) < 2 || len(post) < 2 {
		return models.EventImpact{}, false
	}

	preMean := calculateMean(pre.Prices())
	postMean := calculateMean(post.Prices())
	preVol := calculateStdDev(pre.DailyReturns())
	postVol := calculateStdDev(post.DailyReturns())

	priceChangePct := (postMean - preMean) / preMean * 100

	impact := models.EventImpact{
		Event:           event,
		PreMean:         preMean,
		PostMean:        postMean,
		PreVolatility:   preVol,
		PostVolatility:  postVol,
		PriceChangePct:  priceChangePct,
		ImpactMagnitude: math.Abs(priceChangePct),
	}
	// Zero pre-event volatility leaves the relative change undefined; the
	// field stays nil rather than reporting a misleading zero.
	if preVol > 0 {
		v := (postVol - preVol) / preVol * 100
		impact.VolatilityChangePct = &v
	}
	return impact, true
}

// matchChangePoints assigns each change point, in chronological order, its
// nearest unclaimed event within toleranceDays. Assignment is greedy and
// irrevocable: the earlier-processed change point wins ties, and an event is
// claimed by at most one change point. Two events equidistant from one change
// point resolve to the earlier event.
func matchChangePoints(changePoints []models.ChangePoint, events models.EventCatalog, toleranceDays int) []models.MatchResult {
	matches := make([]models.MatchResult, 0, len(changePoints))
	claimed := make([]bool, len(events))

	for _, cp := range changePoints {
		best := -1
		bestDist := 0
		for i, event := range events {
			if claimed[i] {
				continue
			}
			dist := dayDistance(cp.Date, event.Date)
			if dist > toleranceDays {
				continue
			}
			if best == -1 || dist < bestDist {
				best = i
				bestDist = dist
			}
		}

		match := models.MatchResult{ChangePoint: cp}
		if best >= 0 {
			claimed[best] = true
			event := events[best]
			match.MatchedEvent = &event
			match.DistanceDays = bestDist
		}
		matches = append(matches, match)
	}
	return matches
}

// dayDistance is the absolute distance between two dates in whole days.
func dayDistance(a, b time.Time) int {
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

// significanceTests runs a one-sample t-test against a zero mean and a
// normality test across all price change percentages, judged at alpha. The
// t-test is reported regardless of the normality outcome; callers should
// treat it as provisional when normality fails.
func significanceTests(impacts []models.EventImpact, alpha float64) models.StatisticalTests {
	if len(impacts) == 0 {
		return models.StatisticalTests{}
	}

	changes := make([]float64, len(impacts))
	for i, impact := range impacts {
		changes[i] = impact.PriceChangePct
	}

	tests := models.StatisticalTests{
		MeanImpact: calculateMean(changes),
		StdImpact:  calculatePopStdDev(changes),
	}

	if stat, p, ok := oneSampleTTest(changes); ok {
		tests.TTest = &models.TTestResult{
			Statistic:   stat,
			PValue:      p,
			Significant: p < alpha,
		}
	}

	stat, p, ok := dagostinoK2(changes)
	tests.NormalityTest = &models.NormalityTestResult{
		Statistic: stat,
		PValue:    p,
		Normal:    ok && p > alpha,
		Computed:  ok,
	}

	return tests
}
