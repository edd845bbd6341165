package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-service/internal/auth"
	"inventory-service/internal/cache"
	"inventory-service/internal/config"
	"inventory-service/internal/database"
	"inventory-service/internal/events"
	"inventory-service/internal/handlers"
	"inventory-service/internal/inventory"
	"inventory-service/pkg/logger"
	"inventory-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Hospital Inventory Service API
// @version         1.0
// @description     Stock tracking and low-stock alerting for hospital medicines and equipment

// @host      localhost:8080
// @BasePath  /api/v1

// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting Inventory Service",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	appLogger.Info("📡 Kafka Configuration",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic_stock", cfg.KafkaTopicStock),
		zap.String("topic_alerts", cfg.KafkaTopicAlerts),
		zap.String("topic_orders", cfg.KafkaTopicOrders),
		zap.String("client_id", cfg.KafkaClientID),
	)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize SQLite store (single writer)
	appLogger.Info("🔧 Initializing SQLite store...")
	store, err := database.NewSingleWriterStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize SQLite store", zap.Error(err))
	}
	defer store.Close()
	appLogger.Info("✅ SQLite store initialized successfully")

	// Initialize cache (Redis with in-memory fallback)
	appLogger.Info("🔧 Initializing cache...")
	cacheClient := cache.NewCache(cfg, appLogger)
	appLogger.Info("✅ Cache initialized successfully")

	// Initialize event publisher (Kafka with in-memory fallback)
	appLogger.Info("🔧 Initializing event publisher...")
	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Failed to initialize Kafka publisher, using in-memory fallback", zap.Error(err))
		publisher = events.NewEventPublisher()
	} else {
		publisher = kafkaPublisher
		defer kafkaPublisher.Close()
	}
	appLogger.Info("✅ Event publisher initialized successfully")

	// Core components
	registry := inventory.NewAlertRegistry(store, publisher, appLogger)
	ledger := inventory.NewStockLedger(store, registry, publisher, appLogger, cfg.LowStockThreshold)
	receiver := inventory.NewPurchaseOrderReceiver(store, ledger, publisher, appLogger)
	sweep := inventory.NewReconciliationSweep(store, registry, appLogger)
	monitor := inventory.NewStockMonitor(sweep, publisher, appLogger, cfg.StockScanInterval, cfg.LowStockThreshold)

	// Start periodic stock scans
	if err := monitor.Start(); err != nil {
		appLogger.Fatal("Failed to start stock monitor", zap.Error(err))
	}

	// Initialize JWT manager and auth handler
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, appLogger)
	authHandler := auth.NewAuthHandler(jwtManager, appLogger)

	// Initialize handlers
	inventoryHandler := handlers.NewInventoryHandler(store, ledger, publisher, cacheClient, cfg.CacheTTL, appLogger)
	alertHandler := handlers.NewAlertHandler(store, registry, appLogger)
	orderHandler := handlers.NewPurchaseOrderHandler(store, receiver, cacheClient, appLogger)
	monitorHandler := handlers.NewMonitorHandler(monitor, appLogger)
	monitoringHandler := handlers.NewMonitoringHandler(store, monitor, appLogger)

	// Initialize router
	router := gin.New()

	// CORS middleware (must be first to handle preflight requests)
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Public endpoints
		v1.GET("/health", monitoringHandler.HealthCheck)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}

		// Protected endpoints (require JWT authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, appLogger))
		{
			inv := protected.Group("/inventory/:type")
			{
				inv.POST("/items", inventoryHandler.CreateItem)
				inv.GET("/items", inventoryHandler.ListItems)
				inv.GET("/items/:id", inventoryHandler.GetItem)
				inv.POST("/items/:id/restock", inventoryHandler.Restock)
				inv.POST("/items/:id/consume", inventoryHandler.Consume)
			}

			alerts := protected.Group("/alerts")
			{
				alerts.GET("", alertHandler.ListAlerts)
				alerts.GET("/:id", alertHandler.GetAlert)
				alerts.POST("/:id/acknowledge", alertHandler.AcknowledgeAlert)
				alerts.POST("/:id/resolve", alertHandler.ResolveAlert)
			}

			orders := protected.Group("/orders")
			{
				orders.POST("", orderHandler.CreateOrder)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.POST("/:id/receive", orderHandler.ReceiveOrder)
			}

			mon := protected.Group("/monitor")
			{
				mon.GET("", monitorHandler.Status)
				mon.POST("/start", monitorHandler.Start)
				mon.POST("/stop", monitorHandler.Stop)
				mon.POST("/shutdown", monitorHandler.Shutdown)
				mon.POST("/scan", monitorHandler.Scan)
				mon.PUT("/interval", monitorHandler.SetInterval)
				mon.PUT("/threshold", monitorHandler.SetThreshold)
			}

			monitoring := protected.Group("/monitoring")
			{
				monitoring.GET("/stats", monitoringHandler.GetStats)
				monitoring.GET("/database/status", monitoringHandler.GetDatabaseStatus)
			}
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Starting inventory service",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Retire the monitor first so no cycle writes during teardown
	if err := monitor.Shutdown(); err != nil {
		appLogger.Warn("Stock monitor shutdown failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}
