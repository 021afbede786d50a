package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/ecomops/backend/internal/application/inventory"
	"github.com/ecomops/backend/internal/infrastructure/cache"
	"github.com/ecomops/backend/internal/infrastructure/config"
	"github.com/ecomops/backend/internal/infrastructure/event"
	"github.com/ecomops/backend/internal/infrastructure/logger"
	"github.com/ecomops/backend/internal/infrastructure/persistence"
	"github.com/ecomops/backend/internal/interfaces/http/handler"
	"github.com/ecomops/backend/internal/interfaces/http/middleware"
	"github.com/ecomops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting inventory engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories outside a transaction serve the read-only query paths.
	// Mutating operations go through the transaction scope instead.
	itemRepo := persistence.NewGormItemRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	reservationService := inventoryapp.NewReservationService(scope)
	adjustmentService := inventoryapp.NewAdjustmentService(scope)
	queryService := inventoryapp.NewQueryService(itemRepo, reservationRepo, adjustmentRepo)

	eventBus := event.NewInMemoryEventBus(log)
	reservationService.SetEventPublisher(eventBus)
	adjustmentService.SetEventPublisher(eventBus)

	lowStockHandler := inventoryapp.NewLowStockHandler(log).
		WithNotifier(inventoryapp.NewLoggingLowStockNotifier(log))

	if cfg.Cache.Enabled {
		summaryCache, err := cache.NewRedisSummaryCache(&cfg.Redis, cfg.Cache.SummaryTTL, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := summaryCache.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		queryService.SetSummaryCache(summaryCache)
		lowStockHandler.WithSummaryCache(summaryCache)
		log.Info("Summary cache enabled", zap.Duration("ttl", cfg.Cache.SummaryTTL))
	}

	eventBus.Subscribe(lowStockHandler)
	log.Info("Event handlers registered",
		zap.Strings("low_stock_events", lowStockHandler.EventTypes()),
	)

	inventoryHandler := handler.NewInventoryHandler(reservationService, adjustmentService, queryService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(inventoryHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
