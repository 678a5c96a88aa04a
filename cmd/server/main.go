package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"portfolio/internal/config"
	cronrunner "portfolio/internal/cron"
	"portfolio/internal/db"
	"portfolio/internal/handler"
	"portfolio/internal/logger"
	"portfolio/internal/quote"
	gormrepository "portfolio/internal/repository/gorm"
	"portfolio/internal/service"

	_ "portfolio/docs"
)

func main() {
	cfgPath := os.Getenv("PF_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PF_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	quoteHTTP := &http.Client{Timeout: cfg.Quote.Timeout}
	quoteClient := quote.NewClient(quoteHTTP, cfg.Quote.BaseURL, cfg.Quote.APIKey)
	var quotes quote.Source = quoteClient
	if cfg.Quote.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Quote.Cache.Addr,
			Password: cfg.Quote.Cache.Password,
			DB:       cfg.Quote.Cache.DB,
		})
		defer rdb.Close()
		quotes = quote.NewCachedSource(quoteClient, rdb, cfg.Quote.Cache.TTL, logger)
	}

	store := gormrepository.New(dbConn.Gorm)
	userService := &service.UserService{Repo: store, Auth: cfg.Auth}
	assetService := &service.AssetService{Repo: store}
	executor := &service.TradeExecutor{Repo: store, Quotes: quotes, Logger: logger}
	queryService := &service.PortfolioQueryService{Repo: store, Quotes: quotes, Logger: logger}
	snapshotService := &service.SnapshotService{
		Repo:   store,
		Query:  queryService,
		Logger: logger,
		Keep:   cfg.Snapshot.Keep,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORS())

	healthHandler := &handler.HealthHandler{DB: dbConn}
	healthHandler.Register(engine)
	authHandler := &handler.AuthHandler{Users: userService}
	authHandler.Register(engine)
	marketHandler := &handler.MarketHandler{Client: quoteClient}
	marketHandler.Register(engine)
	assetHandler := &handler.AssetHandler{Assets: assetService, Query: queryService, Auth: cfg.Auth}
	assetHandler.Register(engine)
	tradeHandler := &handler.TradeHandler{Executor: executor, Query: queryService, Auth: cfg.Auth}
	tradeHandler.Register(engine)
	txHandler := &handler.TransactionHandler{Query: queryService, Auth: cfg.Auth}
	txHandler.Register(engine)
	snapshotHandler := &handler.SnapshotHandler{Repo: store, Auth: cfg.Auth}
	snapshotHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled && cfg.Snapshot.Enabled {
		_, err := cronRunner.Add(cfg.Cron.Snapshot, func(ctx context.Context) {
			if err := snapshotService.SnapshotAll(ctx); err != nil {
				logger.Warn("portfolio snapshot sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register snapshot failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
