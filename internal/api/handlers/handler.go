package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/petrolens/petrolens/internal/analysis"
	"github.com/petrolens/petrolens/internal/cache"
	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/repository"
)

// Handler serves the analysis API over an in-memory series and event catalog
// loaded at startup. Cache and result repository are optional; a nil value
// disables that side effect.
type Handler struct {
	cfg     *config.Config
	logger  *logrus.Logger
	series  models.Series
	events  models.EventCatalog
	runner  *analysis.Runner
	cache   *cache.AnalysisCache
	results *repository.ResultRepository
}

// New creates the API handler set.
func New(cfg *config.Config, logger *logrus.Logger, series models.Series, events models.EventCatalog,
	analysisCache *cache.AnalysisCache, results *repository.ResultRepository) *Handler {
	return &Handler{
		cfg:     cfg,
		logger:  logger,
		series:  series,
		events:  events,
		runner:  analysis.NewRunner(&cfg.Analysis, logger),
		cache:   analysisCache,
		results: results,
	}
}

// runAnalysis returns the pipeline output for the configured parameters,
// consulting the cache first and persisting fresh runs best-effort.
func (h *Handler) runAnalysis(ctx context.Context) (*models.AnalysisResult, error) {
	key := cache.Key(&h.cfg.Analysis)
	if h.cache != nil {
		if result, ok := h.cache.Get(ctx, key); ok {
			return result, nil
		}
	}

	result, err := h.runner.Run(h.series, h.events)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.Set(ctx, key, result)
	}
	if h.results != nil {
		if err := h.results.SaveResult(ctx, result); err != nil {
			h.logger.WithError(err).Warn("failed to persist analysis result")
		}
	}
	return result, nil
}

// parseDateParam reads an optional ISO date query parameter.
func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an ISO date (YYYY-MM-DD)"})
		return nil, false
	}
	return &d, true
}
