// Package main is the entry point for the API server. It initializes
// the databases, wires the service layer, starts the background
// maturation sweep and the metrics listener, and serves HTTP until
// interrupted.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gallahphu-bit/atlasyield/internal/config"
	"github.com/gallahphu-bit/atlasyield/internal/observability"
	"github.com/gallahphu-bit/atlasyield/internal/repositories"
	"github.com/gallahphu-bit/atlasyield/internal/routes"
	"github.com/gallahphu-bit/atlasyield/internal/services/investment"
	"github.com/gallahphu-bit/atlasyield/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()

	logger := observability.NewLogger(config.GetEnv("LOG_LEVEL", "info"))
	defer logger.Sync()

	if err := repositories.InitDB(); err != nil {
		logger.Fatal("database initialization failed", zap.Error(err))
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		logger.Fatal("failed to get database instance", zap.Error(err))
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("database ping failed", zap.Error(err))
	}
	logger.Info("connected to database")

	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				logger.Warn("failed to close redis connection", zap.Error(err))
			}
		}
	}()

	// Periodic connection pool stats
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			logger.Debug("db pool stats",
				zap.Int("open", stats.OpenConnections),
				zap.Int("idle", stats.Idle),
				zap.Int("in_use", stats.InUse),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration))
		}
	}()

	metrics := observability.NewMetrics()
	pool := worker.NewPool(config.GetIntEnv("WORKER_POOL_SIZE", 4))
	defer pool.Stop()

	app := fiber.New(fiber.Config{
		AppName: "atlasyield-api",
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	services := routes.SetupRoutes(app, metrics, pool, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background maturation sweep for fixed-term investments.
	sweepInterval := config.GetDurationEnv("MATURATION_INTERVAL", time.Hour)
	go investment.Sweeper(ctx, services.Investment, sweepInterval, 100, logger)

	// Prometheus metrics on a separate listener, kept off the public API.
	metricsAddr := ":" + config.GetEnv("METRICS_PORT", "9091")
	metricsSrv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})}
	go func() {
		logger.Info("metrics listener started", zap.String("addr", metricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics listener failed", zap.Error(err))
		}
	}()

	go func() {
		addr := ":" + config.GetEnv("PORT", "3000")
		logger.Info("server started", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics listener shutdown failed", zap.Error(err))
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("server shutdown failed", zap.Error(err))
	}
}
