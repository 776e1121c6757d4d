package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/petrolens/petrolens/internal/api"
	"github.com/petrolens/petrolens/internal/api/handlers"
	"github.com/petrolens/petrolens/internal/cache"
	"github.com/petrolens/petrolens/internal/config"
	"github.com/petrolens/petrolens/internal/database"
	"github.com/petrolens/petrolens/internal/dataio"
	"github.com/petrolens/petrolens/internal/middleware"
	"github.com/petrolens/petrolens/internal/models"
	"github.com/petrolens/petrolens/internal/repository"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	series, err := dataio.LoadPricesCSV(cfg.Data.PricesCSV)
	if err != nil {
		logger.Fatalf("Failed to load price data from %s: %v", cfg.Data.PricesCSV, err)
	}

	var events models.EventCatalog
	if cfg.Data.EventsCSV != "" {
		events, err = dataio.LoadEventsCSV(cfg.Data.EventsCSV)
		if err != nil {
			logger.Fatalf("Failed to load events from %s: %v", cfg.Data.EventsCSV, err)
		}
	} else {
		events = dataio.DefaultEventCatalog()
	}
	logger.WithFields(logrus.Fields{
		"observations": len(series),
		"events":       len(events),
	}).Info("Data loaded")

	// Database and Redis are optional. The pipeline runs entirely in memory;
	// they only add result persistence and caching.
	var db *database.PostgresDB
	var results *repository.ResultRepository
	if pg, err := database.NewPostgresConnection(cfg.Database, logger); err != nil {
		logger.WithError(err).Warn("Database unavailable, result persistence disabled")
	} else {
		db = pg
		defer db.Close()
		results = repository.NewResultRepository(db.Pool)

		prices := repository.NewPriceRepository(db.Pool)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := prices.SaveSeries(ctx, series); err != nil {
			logger.WithError(err).Warn("Failed to seed price history")
		}
		if err := prices.SaveEvents(ctx, events); err != nil {
			logger.WithError(err).Warn("Failed to seed event catalog")
		}
		cancel()
	}

	var redis *database.RedisClient
	var analysisCache *cache.AnalysisCache
	if rc, err := database.NewRedisConnection(cfg.Redis, logger); err != nil {
		logger.WithError(err).Warn("Redis unavailable, analysis caching disabled")
	} else {
		redis = rc
		defer redis.Close()
		ttl := time.Hour
		if d, err := time.ParseDuration(cfg.Redis.CacheTTL); err == nil {
			ttl = d
		}
		analysisCache = cache.NewAnalysisCache(redis.Client, ttl, logger)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	h := handlers.New(cfg, logger, series, events, analysisCache, results)
	api.SetupRoutes(router, h, db, redis)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
