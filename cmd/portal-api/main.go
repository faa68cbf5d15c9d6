package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/config"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/portal"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Load factor tables (defaults unless a file is configured)
	tables := factors.Defaults()
	if cfg.Factors.Path != "" {
		tables, err = factors.Load(cfg.Factors.Path)
		if err != nil {
			logger.Fatal("Failed to load factor tables",
				zap.String("path", cfg.Factors.Path),
				zap.Error(err))
		}
		logger.Info("Loaded factor tables", zap.String("path", cfg.Factors.Path))
	}
	if err := tables.Validate(); err != nil {
		logger.Fatal("Factor tables invalid", zap.Error(err))
	}

	// Result store with cron-driven eviction
	store := analysis.NewStore(cfg.Store.TTL(), logger)
	if err := store.StartSweeper(cfg.Store.SweepSchedule); err != nil {
		logger.Fatal("Failed to start store sweeper",
			zap.String("schedule", cfg.Store.SweepSchedule),
			zap.Error(err))
	}
	defer store.Stop()

	// Initialize Analysis Module
	opts := analysis.Options{
		Aggregation:   analysis.AggregationMode(cfg.Engine.AggregationMode),
		KeepRawValues: cfg.Engine.KeepRawValues,
	}
	service := analysis.NewService(tables, opts, store, logger)
	handler := portal.NewHandler(service, logger)

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	{
		handler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"analyses":  store.Len(),
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("addr", cfg.Server.GetServerAddr()),
		zap.String("aggregation_mode", cfg.Engine.AggregationMode))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
