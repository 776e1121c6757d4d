package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
)

// Runner threads a series and an event catalog through the full pipeline:
// profile, detect, summarize, correlate, compose. It owns the single mutable
// accumulator (the AnalysisResult under construction); the stages themselves
// are pure, so multiple runs may execute concurrently on separate goroutines
// against the same inputs.
type Runner struct {
	cfg        *config.AnalysisConfig
	logger     *logrus.Logger
	profiler   *Profiler
	correlator *Correlator
}

// NewRunner creates a pipeline runner for the given configuration.
func NewRunner(cfg *config.AnalysisConfig, logger *logrus.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		logger:     logger,
		profiler:   NewProfiler(cfg, logger),
		correlator: NewCorrelator(cfg, logger),
	}
}

// Run executes every stage in order and accumulates the outputs. Structural
// and configuration errors abort the run; per-event data-quality problems are
// absorbed into the correlation report.
func (r *Runner) Run(series models.Series, events models.EventCatalog) (*models.AnalysisResult, error) {
	started := time.Now()

	result := &models.AnalysisResult{
		RunID:       uuid.New(),
		GeneratedAt: started.UTC(),
	}

	profile, err := r.profiler.Profile(series)
	if err != nil {
		return nil, err
	}
	result.Profile = profile

	detector, err := NewDetector(r.cfg, r.logger)
	if err != nil {
		return nil, err
	}
	changePoints, err := detector.Detect(series)
	if err != nil {
		return nil, err
	}
	result.ChangePoints = changePoints

	segments, err := SummarizeSegments(series, changePoints, r.cfg.TrendEpsilon)
	if err != nil {
		return nil, err
	}
	result.Segments = segments

	correlation, err := r.correlator.Correlate(series, events, changePoints)
	if err != nil {
		return nil, err
	}
	result.Correlation = correlation

	result.Insights = ComposeInsights(profile, changePoints, segments, correlation)

	r.logger.WithFields(logrus.Fields{
		"run_id":        result.RunID,
		"change_points": len(changePoints),
		"segments":      len(segments),
		"duration":      time.Since(started),
	}).Info("analysis run completed")

	return result, nil
}
