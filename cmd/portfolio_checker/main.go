package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio_checker/api"
	"portfolio_checker/internal/client"
	"portfolio_checker/internal/config"
	"portfolio_checker/internal/repository"
	"portfolio_checker/internal/scheduler"
	"portfolio_checker/internal/service"
	"portfolio_checker/internal/utils"
	"portfolio_checker/internal/walletloader"
	"portfolio_checker/pkg/blockchain"
	"portfolio_checker/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func main() {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() // flushes buffer, if any

	// Route the standard slog through zap for any library that uses it.
	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))

	// Monetary fields go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	// Load configuration
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.String("path", cfgPath), zap.Error(err))
	}
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	// Wallet slots come from the environment; .env is optional.
	if err := godotenv.Load(); err != nil {
		zapLogger.Info("No .env file found, using process environment")
	}

	wallets := walletloader.NewEnvWalletLoader(zapLogger).LoadWallets()
	if len(wallets) == 0 {
		zapLogger.Warn("No wallets configured; refresh will produce empty results")
	}

	// Initialize Prometheus metrics
	metrics.MustRegisterMetrics()

	// Upstream sources
	usdcClient, err := blockchain.NewUSDCClient(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize chain client", zap.Error(err))
	}
	defer usdcClient.Close()

	dataAPIClient := client.NewDataAPIClient(
		cfg.DataAPI.BaseURL,
		time.Duration(cfg.DataAPI.RequestTimeoutMillis)*time.Millisecond,
		cfg.DataAPI.UserAgent,
		zapLogger,
	)
	zapLogger.Info("Upstream clients initialized")

	// Durable snapshot store
	db, err := repository.NewDB(cfg.Store.Path)
	if err != nil {
		zapLogger.Fatal("Failed to open snapshot database", zap.String("path", cfg.Store.Path), zap.Error(err))
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		zapLogger.Fatal("Failed to migrate snapshot database", zap.Error(err))
	}
	snapshotRepo := repository.NewSnapshotRepository(db, zapLogger)
	portfolioCache := repository.NewPortfolioCache()

	portfolioSvc := service.NewPortfolioService(wallets, usdcClient, dataAPIClient, portfolioCache, snapshotRepo, cfg, zapLogger)
	zapLogger.Info("PortfolioService initialized")

	// Recurring refresh
	sched := scheduler.New(zapLogger)
	if cfg.Scheduler.Enabled {
		if err := sched.AddJob(cfg.Scheduler.RefreshSpec, scheduler.NewRefreshJob(portfolioSvc, zapLogger)); err != nil {
			zapLogger.Fatal("Failed to register refresh job", zap.String("spec", cfg.Scheduler.RefreshSpec), zap.Error(err))
		}
		sched.Start()
	}

	// Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Setup CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.Use(utils.ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	// Setup routes
	api.RegisterPortfolioRoutes(router, api.NewPortfolioHandler(portfolioSvc, zapLogger))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	if cfg.Scheduler.Enabled {
		sched.Stop()
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
