package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
)

// AnalysisCache stores completed analysis runs in Redis keyed by their
// configuration so repeated requests with the same parameters skip the
// pipeline entirely.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewAnalysisCache creates a cache with the given TTL. A zero TTL disables
// expiry.
func NewAnalysisCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl, logger: logger}
}

// Key derives the cache key from the analysis parameters that affect output.
func Key(cfg *config.AnalysisConfig) string {
	return fmt.Sprintf("analysis:%s:%d:%d:%d:%d:%d",
		cfg.Method, cfg.NBkps, cfg.WindowDays, cfg.EffectiveToleranceDays(),
		cfg.RollingWindow, cfg.LongWindow)
}

// Get returns the cached result for key, or (nil, false) on miss.
func (c *AnalysisCache) Get(ctx context.Context, key string) (*models.AnalysisResult, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).Warn("analysis cache read failed")
		}
		return nil, false
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.WithError(err).Warn("corrupt analysis cache entry, dropping")
		_ = c.client.Del(ctx, key).Err()
		return nil, false
	}
	return &result, true
}

// Set stores a result under key. Failures are logged, not surfaced: caching
// is best-effort.
func (c *AnalysisCache) Set(ctx context.Context, key string, result *models.AnalysisResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.WithError(err).Warn("failed to marshal analysis result for cache")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("analysis cache write failed")
	}
}

// Invalidate removes the given keys.
func (c *AnalysisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
