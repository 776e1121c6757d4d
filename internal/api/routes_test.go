package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrolens/petrolens/internal/api/handlers"
	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/models"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		Analysis: config.AnalysisConfig{
			Method:            "exact",
			NBkps:             2,
			WindowDays:        10,
			ACFLagCount:       10,
			SignificanceAlpha: 0.05,
			RollingWindow:     10,
			LongWindow:        20,
			PeakProminence:    0.5,
			TrendEpsilon:      0.01,
			MinSeriesLength:   30,
			ADFMaxLag:         2,
		},
	}

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	levels := []float64{30, 70, 45}
	series := make(models.Series, 90)
	for i := range series {
		series[i] = models.Observation{
			Date:  start.AddDate(0, 0, i),
			Price: levels[i/30] + 0.5*float64(i%3),
		}
	}
	events := models.EventCatalog{
		{Date: start.AddDate(0, 0, 30), Type: "conflict", Description: "supply disruption"},
	}

	router := gin.New()
	h := handlers.New(cfg, logger, series, events, nil, nil)
	SetupRoutes(router, h, nil, nil)
	return router
}

func TestHealthCheck_WithoutBackingServices(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "disabled", response.Services.Database)
	assert.Equal(t, "disabled", response.Services.Redis)
	assert.False(t, response.Timestamp.IsZero())
}

func TestRouteRegistration(t *testing.T) {
	router := setupRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/market/historical-data"},
		{http.MethodGet, "/api/v1/market/events"},
		{http.MethodGet, "/api/v1/market/dashboard-summary"},
		{http.MethodGet, "/api/v1/analysis/profile"},
		{http.MethodGet, "/api/v1/analysis/change-points"},
		{http.MethodGet, "/api/v1/analysis/volatility"},
		{http.MethodGet, "/api/v1/analysis/correlation"},
		{http.MethodGet, "/api/v1/analysis/insights"},
		{http.MethodPost, "/api/v1/analysis/run"},
	}

	for _, p := range paths {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		assert.NotEqual(t, http.StatusNotFound, w.Code, "%s %s must be routed", p.method, p.path)
	}
}
