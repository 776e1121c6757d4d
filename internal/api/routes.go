package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petrolens/petrolens/internal/api/handlers"
	"github.com/petrolens/petrolens/internal/database"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// SetupRoutes wires the analysis API. Database and Redis handles may be nil
// when the server runs purely from CSV input.
func SetupRoutes(router *gin.Engine, h *handlers.Handler, db *database.PostgresDB, redis *database.RedisClient) {
	// Health check endpoint
	router.GET("/health", healthCheck(db, redis))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		market := v1.Group("/market")
		{
			market.GET("/historical-data", h.GetHistoricalData)
			market.GET("/events", h.GetEvents)
			market.GET("/dashboard-summary", h.GetDashboardSummary)
		}

		analysis := v1.Group("/analysis")
		{
			analysis.GET("/profile", h.GetProfile)
			analysis.GET("/change-points", h.GetChangePoints)
			analysis.GET("/volatility", h.GetVolatilityAnalysis)
			analysis.GET("/correlation", h.GetCorrelationAnalysis)
			analysis.GET("/insights", h.GetInsights)
			analysis.GET("/results/:run_id", h.GetResult)
			analysis.POST("/run", h.RunAnalysis)
		}
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services: Services{
				Database: "disabled",
				Redis:    "disabled",
			},
		}

		if db != nil {
			response.Services.Database = "ok"
			if err := db.HealthCheck(c.Request.Context()); err != nil {
				response.Services.Database = "error"
				response.Status = "degraded"
			}
		}

		if redis != nil {
			response.Services.Redis = "ok"
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				response.Services.Redis = "error"
				response.Status = "degraded"
			}
		}

		statusCode := http.StatusOK
		if response.Status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}
