package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/cache"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/config"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/database"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/handlers"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/middleware"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/internal/services"
	"github.com/ramadandelights-sys/OfficeXpress-v2-sub001/pkg/payments"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting OfficeXpress Carpool Subscription Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize the optional catalog cache
	catalogCache, err := cache.New(cfg.Redis)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	if catalogCache != nil {
		defer catalogCache.Close()
		logger.Info("Catalog cache enabled")
	} else {
		logger.Info("Catalog cache disabled, reading straight from the database")
	}

	// Initialize repositories
	routeRepository := database.NewRouteRepository(db)
	pointRepository := database.NewPickupPointRepository(db)
	slotRepository := database.NewTimeSlotRepository(db)
	blackoutRepository := database.NewBlackoutRepository(db)
	subscriptionRepository := database.NewSubscriptionRepository(db)
	walletRepository := database.NewWalletRepository(db)
	intentRepository := database.NewPurchaseIntentRepository(db)
	auditRepository := database.NewAuditRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	auditService := services.NewAuditService(auditRepository, logger)
	eligibilityService := services.NewEligibilityService(routeRepository, subscriptionRepository)
	pricingService := services.NewPricingService(routeRepository, blackoutRepository, logger)
	purchaseService := services.NewPurchaseService(
		routeRepository,
		slotRepository,
		pointRepository,
		subscriptionRepository,
		walletRepository,
		intentRepository,
		pricingService,
		auditService,
		logger,
	)
	lifecycleService := services.NewLifecycleService(subscriptionRepository, auditService, logger)
	intentService := services.NewIntentService(
		intentRepository,
		routeRepository,
		slotRepository,
		pointRepository,
		subscriptionRepository,
		pricingService,
		logger,
		cfg.Billing.IntentTTL,
	)

	// Initialize payment gateway
	var gateway payments.Gateway
	if cfg.Payment.Mode == "production" {
		logger.Info("Initializing payment gateway in production mode...")
		gateway = payments.NewHTTPGateway(payments.HTTPConfig{
			APIURL:  cfg.Payment.APIURL,
			APIKey:  cfg.Payment.APIKey,
			Timeout: cfg.Payment.Timeout,
		})
	} else {
		logger.Info("Payment gateway in development mode (top-ups credit instantly)")
		gateway = payments.NewMockGateway()
	}

	// Initialize and start cron service
	cronService := services.NewCronService(lifecycleService, intentService, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	logger.Info("Services initialized")

	// Initialize handlers
	routeHandler := handlers.NewRouteHandler(
		routeRepository,
		pointRepository,
		slotRepository,
		blackoutRepository,
		eligibilityService,
		catalogCache,
		logger,
	)
	subscriptionHandler := handlers.NewSubscriptionHandler(
		subscriptionRepository,
		pricingService,
		purchaseService,
		lifecycleService,
		logger,
	)
	walletHandler := handlers.NewWalletHandler(walletRepository, gateway, auditService, logger)
	intentHandler := handlers.NewIntentHandler(intentService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, catalogCache))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Catalog routes (public)
		routes := v1.Group("/routes")
		{
			routes.GET("", routeHandler.ListRoutes)
			routes.GET("/:id", routeHandler.GetRoute)
			routes.GET("/:id/pickup-points", routeHandler.GetPickupPoints)
			routes.GET("/:id/time-slots", routeHandler.GetTimeSlots)
			routes.GET("/:id/blackout-dates", routeHandler.GetBlackoutDates)
		}

		// Customer routes (require the gateway's customer header)
		customer := v1.Group("")
		customer.Use(middleware.CustomerMiddleware())
		{
			customer.GET("/routes/:id/weekday-availability", routeHandler.GetWeekdayAvailability)
			customer.POST("/quotes", subscriptionHandler.Quote)

			// Purchase wizard
			intents := customer.Group("/purchase-intents")
			{
				intents.POST("", intentHandler.Start)
				intents.GET("/:id", intentHandler.Get)
				intents.POST("/:id/advance", intentHandler.Advance)
				intents.POST("/:id/back", intentHandler.Back)
				intents.POST("/:id/abandon", intentHandler.Abandon)
			}

			// Subscriptions
			subscriptions := customer.Group("/subscriptions")
			{
				subscriptions.GET("", subscriptionHandler.ListSubscriptions)
				subscriptions.POST("", subscriptionHandler.Purchase)
				subscriptions.POST("/:id/cancel", subscriptionHandler.Cancel)
			}

			// Wallet
			wallet := customer.Group("/wallet")
			{
				wallet.GET("", walletHandler.GetWallet)
				wallet.POST("/top-up", walletHandler.TopUp)
				wallet.GET("/transactions", walletHandler.GetTransactions)
			}
		}

		// Admin cron management routes (optional - for testing)
		admin := v1.Group("/admin")
		// TODO: Add admin auth middleware
		{
			admin.POST("/cron/lifecycle-sweep", func(c *gin.Context) {
				cronService.RunLifecycleSweepNow()
				c.JSON(200, gin.H{"message": "Lifecycle sweep triggered"})
			})

			admin.POST("/cron/intent-sweep", func(c *gin.Context) {
				cronService.RunIntentSweepNow()
				c.JSON(200, gin.H{"message": "Intent expiry sweep triggered"})
			})

			admin.GET("/cron/status", func(c *gin.Context) {
				c.JSON(200, cronService.JobStatus())
			})
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop cron service
	logger.Info("Stopping cron service...")
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if customerID := c.GetHeader(middleware.CustomerIDHeader); customerID != "" {
			fields["customer_id"] = customerID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint covering the database
// and, when configured, the catalog cache
func healthCheckHandler(db database.DB, catalogCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		body := gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		}
		if catalogCache != nil {
			if err := catalogCache.Ping(c.Request.Context()); err != nil {
				body["status"] = "degraded"
				body["cache"] = "unhealthy"
				body["error"] = err.Error()
			} else {
				body["cache"] = "healthy"
			}
		}

		c.JSON(http.StatusOK, body)
	}
}
