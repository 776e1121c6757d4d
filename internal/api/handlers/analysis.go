package handlers

import (
	"math"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/google/uuid"

	"github.com/petrolens/petrolens/internal/analysis"
	"github.com/petrolens/petrolens/internal/cache"
	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/utils"
)

// GetProfile returns the statistical profile of the loaded series.
func (h *Handler) GetProfile(c *gin.Context) {
	result, err := h.runAnalysis(c.Request.Context())
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Profile)
}

// GetChangePoints returns the detected change points and the segment
// summaries they induce.
func (h *Handler) GetChangePoints(c *gin.Context) {
	result, err := h.runAnalysis(c.Request.Context())
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"change_points": result.ChangePoints,
		"segments":      result.Segments,
		"method":        h.cfg.Analysis.Method,
	})
}

// GetVolatilityAnalysis returns the rolling volatility trend and per-event
// volatility windows.
func (h *Handler) GetVolatilityAnalysis(c *gin.Context) {
	window := h.cfg.Analysis.RollingWindow
	trend := analysis.AnnualizedRollingVolatility(h.series, window)
	if trend == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "series too short for the configured rolling window"})
		return
	}
	eventVol := analysis.EventWindowVolatility(h.series, h.events, h.cfg.Analysis.WindowDays)

	var sum, peak float64
	for _, p := range trend {
		sum += p.Volatility
		if p.Volatility > peak {
			peak = p.Volatility
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"volatility_trend": trend,
		"event_volatility": eventVol,
		"summary": gin.H{
			"window_days":        window,
			"average_volatility": sum / float64(len(trend)),
			"peak_volatility":    peak,
			"current_volatility": trend[len(trend)-1].Volatility,
		},
	})
}

// GetCorrelationAnalysis returns event impacts ordered by magnitude along
// with change-point matches and significance tests.
func (h *Handler) GetCorrelationAnalysis(c *gin.Context) {
	result, err := h.runAnalysis(c.Request.Context())
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	impacts := make([]models.EventImpact, len(result.Correlation.EventImpacts))
	copy(impacts, result.Correlation.EventImpacts)
	sort.SliceStable(impacts, func(i, j int) bool {
		return math.Abs(impacts[i].PriceChangePct) > math.Abs(impacts[j].PriceChangePct)
	})

	matched := 0
	for _, m := range result.Correlation.Matches {
		if m.MatchedEvent != nil {
			matched++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"event_impact_analysis":      impacts,
		"change_point_event_matches": result.Correlation.Matches,
		"statistical_tests":          result.Correlation.StatisticalTests,
		"skipped_events":             result.Correlation.SkippedEvents,
		"summary": gin.H{
			"events_analyzed":      len(impacts),
			"events_skipped":       len(result.Correlation.SkippedEvents),
			"change_points_matched": matched,
			"window_days":          h.cfg.Analysis.WindowDays,
		},
	})
}

// GetInsights returns the composed narrative report.
func (h *Handler) GetInsights(c *gin.Context) {
	result, err := h.runAnalysis(c.Request.Context())
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Insights)
}

// RunAnalysis forces a fresh pipeline run, bypassing and repopulating the
// cache, and returns the complete result.
func (h *Handler) RunAnalysis(c *gin.Context) {
	ctx := c.Request.Context()
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, cache.Key(&h.cfg.Analysis)); err != nil {
			h.logger.WithError(err).Warn("failed to invalidate cached analysis")
		}
	}
	result, err := h.runAnalysis(ctx)
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResult returns a previously persisted analysis run by id.
func (h *Handler) GetResult(c *gin.Context) {
	if h.results == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "result storage is not configured"})
		return
	}
	runID, err := uuid.Parse(c.Param("run_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run_id must be a UUID"})
		return
	}
	result, err := h.results.LoadResult(c.Request.Context(), runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis run not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) respondAnalysisError(c *gin.Context, err error) {
	h.logger.WithError(err).Error("analysis pipeline failed")
	switch err.(type) {
	case *utils.InsufficientDataError, *utils.DataError:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case *utils.ConfigurationError:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
	}
}
