package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/fieldhouse-sports/scheduler-core/config"
	"github.com/fieldhouse-sports/scheduler-core/db"
	"github.com/fieldhouse-sports/scheduler-core/handlers"
	"github.com/fieldhouse-sports/scheduler-core/notify"
	api "github.com/fieldhouse-sports/scheduler-core/routes"
	"github.com/fieldhouse-sports/scheduler-core/repositories"
	"github.com/fieldhouse-sports/scheduler-core/services"
	"github.com/fieldhouse-sports/scheduler-core/storage"
	"github.com/fieldhouse-sports/scheduler-core/workerpool"
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("configuration loaded", zap.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, cfg.DBConnectTimeout)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", zap.Error(err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn, "db/migrations"); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("invalid REDIS_URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis client", zap.Error(err))
		}
	}()

	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize Cloudflare R2 uploader", zap.Error(err))
	}

	store := repositories.NewPostgresStore(dbConn)
	previews := services.NewPreviewStore(redisClient, cfg.PreviewTTL)
	orchestrator := services.NewOrchestrator(dbConn, store, previews, logger)

	hub := notify.NewHub(logger)
	go hub.Run()
	hostNotifier := notify.NewHostNotifier(hub, logger)

	matchService := services.NewMatchService(dbConn, store, hostNotifier, logger)

	pool, err := workerpool.New(cfg.WorkerPoolCapacity, logger)
	if err != nil {
		logger.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	scheduleHandler := handlers.NewScheduleHandler(orchestrator, matchService, pool, logger)
	logoHandler := handlers.NewLogoHandler(cloudflareUploader, store, logger)
	notifyHandler := handlers.NewNotifyHandler(hub, logger)
	devTokenHandler := handlers.NewDevTokenHandler(logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, scheduleHandler, logoHandler, notifyHandler, devTokenHandler, cfg.Debug)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", zap.Error(closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("server exited")
}
