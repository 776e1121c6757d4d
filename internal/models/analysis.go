package models

import (
	"time"

	"github.com/google/uuid"
)

// Change type labels reported on ChangePoint.
const (
	ChangeTypeIncrease = "increase"
	ChangeTypeDecrease = "decrease"
)

// Trend labels reported on Segment.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendFlat       = "flat"
)

// ChangePoint is a detected structural break in the series. Its date always
// lies strictly inside the series' date range.
type ChangePoint struct {
	Date       time.Time `json:"date"`
	Confidence float64   `json:"confidence"`
	MeanBefore float64   `json:"mean_before"`
	MeanAfter  float64   `json:"mean_after"`
	ChangeType string    `json:"change_type"`
}

// Segment is a maximal run of observations between two change points (or a
// series edge and an adjacent change point). The ordered segment list exactly
// tiles the series.
type Segment struct {
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	MeanPrice  float64   `json:"mean_price"`
	Volatility float64   `json:"volatility"`
	Trend      string    `json:"trend"`
}

// EventImpact quantifies price and volatility movement around one event.
// VolatilityChangePct is nil when pre-event volatility is exactly zero, the
// documented "undefined" sentinel.
type EventImpact struct {
	Event               Event    `json:"event"`
	PreMean             float64  `json:"pre_mean"`
	PostMean            float64  `json:"post_mean"`
	PreVolatility       float64  `json:"pre_volatility"`
	PostVolatility      float64  `json:"post_volatility"`
	PriceChangePct      float64  `json:"price_change_pct"`
	VolatilityChangePct *float64 `json:"volatility_change_pct"`
	ImpactMagnitude     float64  `json:"impact_magnitude"`
}

// MatchResult pairs one change point with its nearest unclaimed event, if any
// lies within the tolerance window.
type MatchResult struct {
	ChangePoint  ChangePoint `json:"change_point"`
	MatchedEvent *Event      `json:"matched_event"`
	DistanceDays int         `json:"distance_days"`
}

// SkippedEvent records an event excluded from impact analysis and why.
type SkippedEvent struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

// TTestResult is a one-sample t-test against a zero mean.
type TTestResult struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// NormalityTestResult is a D'Agostino-Pearson omnibus normality test.
// Computed is false when the sample is too small for the test to be valid;
// callers should then treat the t-test as provisional.
type NormalityTestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Normal    bool    `json:"normal"`
	Computed  bool    `json:"computed"`
}

// StatisticalTests aggregates significance testing over all event impacts.
type StatisticalTests struct {
	TTest         *TTestResult         `json:"t_test,omitempty"`
	NormalityTest *NormalityTestResult `json:"normality_test,omitempty"`
	MeanImpact    float64              `json:"mean_impact"`
	StdImpact     float64              `json:"std_impact"`
}

// CorrelationReport is the full output of the event correlation stage.
type CorrelationReport struct {
	EventImpacts     []EventImpact    `json:"event_impact_analysis"`
	Matches          []MatchResult    `json:"change_point_event_matches"`
	StatisticalTests StatisticalTests `json:"statistical_tests"`
	SkippedEvents    []SkippedEvent   `json:"skipped_events"`
}

// BasicStats summarizes the raw price column.
type BasicStats struct {
	MeanPrice         float64 `json:"mean_price"`
	StdPrice          float64 `json:"std_price"`
	MinPrice          float64 `json:"min_price"`
	MaxPrice          float64 `json:"max_price"`
	TotalObservations int     `json:"total_observations"`
	DateRangeYears    float64 `json:"date_range_years"`
}

// StationarityResult is an augmented Dickey-Fuller unit-root test.
type StationarityResult struct {
	ADFStatistic   float64            `json:"adf_statistic"`
	PValue         float64            `json:"p_value"`
	CriticalValues map[string]float64 `json:"critical_values"`
	UsedLag        int                `json:"used_lag"`
	IsStationary   bool               `json:"is_stationary"`
}

// LinearTrend is an ordinary least squares fit of price against a zero-based
// time index.
type LinearTrend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	PValue    float64 `json:"p_value"`
}

// ExponentialTrend is a linear fit of log price against the time index.
type ExponentialTrend struct {
	GrowthRate float64 `json:"growth_rate"`
	Intercept  float64 `json:"intercept"`
	RSquared   float64 `json:"r_squared"`
	PValue     float64 `json:"p_value"`
}

// TrendAnalysis combines both trend fits.
type TrendAnalysis struct {
	Linear      LinearTrend      `json:"linear_trend"`
	Exponential ExponentialTrend `json:"exponential_trend"`
}

// SeasonalPattern holds per-group mean and standard deviation, keyed by
// calendar month (1-12) or business weekday (0-4, Monday first).
type SeasonalPattern struct {
	Means map[int]float64 `json:"means"`
	Std   map[int]float64 `json:"std"`
}

// SeasonalityAnalysis groups observations by calendar month and weekday.
type SeasonalityAnalysis struct {
	MonthlyPatterns   SeasonalPattern `json:"monthly_patterns"`
	DayOfWeekPatterns SeasonalPattern `json:"day_of_week_patterns"`
}

// VolatilityClustering captures autocorrelation of squared returns and a
// median split of rolling volatility into high and low regimes.
type VolatilityClustering struct {
	ACFSquaredReturns     []float64 `json:"acf_squared_returns"`
	HighVolatilityPeriods int       `json:"high_volatility_periods"`
	LowVolatilityPeriods  int       `json:"low_volatility_periods"`
	VolatilityRatio       float64   `json:"volatility_ratio"`
}

// VolatilityAnalysis is the volatility section of the profile.
type VolatilityAnalysis struct {
	VolatilityClustering VolatilityClustering `json:"volatility_clustering"`
}

// ProfileResult is the full output of the time-series profiling stage.
type ProfileResult struct {
	BasicStats          BasicStats          `json:"basic_stats"`
	Stationarity        StationarityResult  `json:"stationarity"`
	TrendAnalysis       TrendAnalysis       `json:"trend_analysis"`
	SeasonalityAnalysis SeasonalityAnalysis `json:"seasonality_analysis"`
	VolatilityAnalysis  VolatilityAnalysis  `json:"volatility_analysis"`
}

// InsightsReport is a structured narrative assembled from the other stage
// outputs. Recommendations are static template text keyed by audience.
type InsightsReport struct {
	ExecutiveSummary string              `json:"executive_summary"`
	KeyFindings      []string            `json:"key_findings"`
	Recommendations  map[string][]string `json:"recommendations"`
	RiskAssessment   map[string]string   `json:"risk_assessment"`
	Limitations      []string            `json:"limitations"`
}

// AnalysisResult accumulates the outputs of every pipeline stage for one run.
// It is owned by a single caller and never shared across concurrent runs.
type AnalysisResult struct {
	RunID        uuid.UUID          `json:"run_id"`
	GeneratedAt  time.Time          `json:"generated_at"`
	Profile      *ProfileResult     `json:"time_series_properties"`
	ChangePoints []ChangePoint      `json:"change_points"`
	Segments     []Segment          `json:"segments"`
	Correlation  *CorrelationReport `json:"event_correlation"`
	Insights     *InsightsReport    `json:"insights_report,omitempty"`
}
