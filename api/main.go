package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/agent"
	"github.com/texfolio/stockroom/internal/agent/imagecache"
	"github.com/texfolio/stockroom/internal/agent/ops"
	"github.com/texfolio/stockroom/internal/alerts"
	"github.com/texfolio/stockroom/internal/assets"
	"github.com/texfolio/stockroom/internal/auth"
	"github.com/texfolio/stockroom/internal/config"
	"github.com/texfolio/stockroom/internal/database"
	"github.com/texfolio/stockroom/internal/db"
	httprouter "github.com/texfolio/stockroom/internal/http"
	"github.com/texfolio/stockroom/internal/http/handlers"
	"github.com/texfolio/stockroom/internal/http/rate_limiter"
	"github.com/texfolio/stockroom/internal/llm"
	"github.com/texfolio/stockroom/internal/logger"
	"github.com/texfolio/stockroom/internal/repo"
)

// @title Stockroom API
// @version 1.0
// @description Textile inventory and sales API with a conversational assistant.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		stdlog.Fatalf("could not build logger: %v", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	pool, err := db.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatal("could not connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.RunMigrations(pool, log); err != nil {
		log.Fatal("could not migrate database", zap.Error(err))
	}

	auth.Configure(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessExpiry)*time.Minute)

	productRepo := repo.NewPostgresProductRepository(pool)
	movementRepo := repo.NewPostgresMovementRepository(pool)
	saleRepo := repo.NewPostgresSaleRepository(pool)
	analyticsRepo := repo.NewPostgresAnalyticsRepository(pool)
	operatorRepo := repo.NewPostgresOperatorRepository(pool)

	imageCache := imagecache.New(rdb, cfg.Assistant.ImageTTL)
	assetStore, err := assets.NewDiskStore(cfg.Assets.Dir, cfg.Assets.BaseURL)
	if err != nil {
		log.Fatal("could not prepare asset store", zap.Error(err))
	}

	executor := ops.NewExecutor(ops.Config{
		Products:          productRepo,
		Sales:             saleRepo,
		Analytics:         analyticsRepo,
		Movements:         movementRepo,
		Images:            imageCache,
		Logger:            log.Named("ops"),
		LowStockThreshold: cfg.Assistant.LowStockThreshold,
	})
	registry, err := executor.Catalog()
	if err != nil {
		log.Fatal("could not build operation catalog", zap.Error(err))
	}

	reasoning := llm.NewOpenAIClient(
		cfg.Assistant.APIKey,
		cfg.Assistant.BaseURL,
		cfg.Assistant.Model,
		cfg.Assistant.RequestTimeout,
	)
	assistant := agent.New(reasoning, registry, imageCache, log.Named("assistant"))

	handlers.SetProductRepo(productRepo)
	handlers.SetSaleRepo(saleRepo)
	handlers.SetMovementRepo(movementRepo)
	handlers.SetAnalyticsRepo(analyticsRepo)
	handlers.SetAuthService(auth.NewService(operatorRepo))
	handlers.SetAssistant(assistant)
	handlers.SetImageCache(imageCache)
	handlers.SetAssetStore(assetStore)
	handlers.SetLogger(log.Named("http"))
	handlers.SetLowStockThreshold(cfg.Assistant.LowStockThreshold)

	notifier := alerts.NewNotifier(alerts.Config{
		Products:  productRepo,
		Redis:     rdb,
		Logger:    log.Named("alerts"),
		Threshold: cfg.Assistant.LowStockThreshold,
		SMTPHost:  cfg.Alerts.SMTPHost,
		SMTPPort:  cfg.Alerts.SMTPPort,
		From:      cfg.Alerts.From,
		Recipient: cfg.Alerts.Recipient,
	})
	go notifier.StartDigestLoop(ctx, cfg.Alerts.Interval)

	assistantLimiter := rate_limiter.New(1, 3) // 1 request/sec, burst of 3
	go assistantLimiter.StartCleanupLoop(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: httprouter.NewRouter(cfg.Assets.Dir, assistantLimiter),
	}

	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
