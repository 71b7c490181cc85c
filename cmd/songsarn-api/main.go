package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Unchana19/songsarn-api/internal/config"
	"github.com/Unchana19/songsarn-api/internal/middleware"
	"github.com/Unchana19/songsarn-api/internal/oms/entity"
	omsHandler "github.com/Unchana19/songsarn-api/internal/oms/handler"
	omsRepo "github.com/Unchana19/songsarn-api/internal/oms/repository"
	omsService "github.com/Unchana19/songsarn-api/internal/oms/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting songsarn-api service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	rdb := initRedis(cfg.Redis, zapLogger)

	repos := omsRepo.NewRepositories(db)
	services := omsService.NewServices(repos, rdb, db, cfg.Sweep.OrderTTL)
	handlers := omsHandler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "songsarn-api"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "songsarn-api"})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "songsarn-api",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// customer orders
		orders := v1.Group("/orders")
		{
			orders.GET("", handlers.Order.ListMine)
			orders.POST("", handlers.Order.Checkout)
			orders.GET("/:id", handlers.Order.Get)
			orders.GET("/:id/history", handlers.Order.History)
			orders.POST("/:id/pay", handlers.Order.MarkPaid)
		}

		// manager surface
		manager := v1.Group("/manager")
		manager.Use(middleware.RequireRole("manager"))
		{
			manager.GET("/orders", handlers.Order.ListAll)
			manager.POST("/orders/sweep", handlers.Order.RunSweep)
			manager.POST("/orders/:id/process", handlers.Order.StartProcessing)
			manager.POST("/orders/:id/finish-process", handlers.Order.FinishProcessing)
			manager.POST("/orders/:id/deliver", handlers.Order.StartDelivery)
			manager.POST("/orders/:id/complete", handlers.Order.Complete)

			manager.GET("/dashboard", handlers.Dashboard.Summary)
			manager.GET("/dashboard/activity", handlers.Dashboard.Activity)

			materials := manager.Group("/materials")
			{
				materials.GET("", handlers.Material.List)
				materials.POST("", handlers.Material.Create)
				materials.GET("/low-stock", handlers.Material.ListLowStock)
				materials.GET("/:id", handlers.Material.Get)
				materials.PUT("/:id", handlers.Material.Update)
				materials.DELETE("/:id", handlers.Material.Delete)
			}

			requisitions := manager.Group("/requisitions")
			{
				requisitions.GET("", handlers.Requisition.List)
				requisitions.POST("", handlers.Requisition.Create)
				requisitions.GET("/export", handlers.Requisition.Export)
			}

			mpos := manager.Group("/mpos")
			{
				mpos.GET("", handlers.MPO.List)
				mpos.POST("", handlers.MPO.Create)
				mpos.GET("/:id", handlers.MPO.Get)
				mpos.GET("/:id/export", handlers.MPO.Export)
				mpos.POST("/:id/receive", handlers.MPO.Receive)
				mpos.POST("/:id/cancel", handlers.MPO.Cancel)
				mpos.PATCH("/lines/:lineId/price", handlers.MPO.SetLinePrice)
			}
		}
	}

	// background expiry sweep for unpaid orders
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runSweepLoop(sweepCtx, services.Order, cfg.Sweep.Interval, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func runSweepLoop(ctx context.Context, orders *omsService.OrderService, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := orders.RunExpirySweep(ctx)
			if err != nil {
				logger.Error("Expiry sweep failed", zap.Error(err))
				continue
			}
			if result.CancelledCount > 0 {
				logger.Info("Expiry sweep cancelled orders",
					zap.Int("count", result.CancelledCount),
					zap.Strings("ids", result.CancelledIDs),
				)
			}
		}
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

// initRedis returns nil when no redis host is configured; the dashboard
// cache then degrades to direct queries.
func initRedis(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	if cfg.Host == "" {
		logger.Warn("Redis not configured, dashboard cache disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable, dashboard cache disabled", zap.Error(err))
		return nil
	}
	return rdb
}
