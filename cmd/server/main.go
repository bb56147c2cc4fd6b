package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/username/estatechat/internal/adapters/api/http"
	"github.com/username/estatechat/internal/adapters/assistant"
	"github.com/username/estatechat/internal/adapters/search/google"
	"github.com/username/estatechat/internal/adapters/storage/memory"
	"github.com/username/estatechat/internal/adapters/storage/sqlite"
	"github.com/username/estatechat/internal/domain/ports"
	"github.com/username/estatechat/internal/domain/services"
	"github.com/username/estatechat/internal/pkg/constants"
	"github.com/username/estatechat/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting estatechat server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver))

	// Initialize storage adapter
	var storage ports.StoragePort
	switch cfg.Storage.Driver {
	case "memory":
		storage = memory.NewAdapter()
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
			logger.Fatal("failed to create database directory", zap.Error(err))
		}
		sqliteStorage, err := sqlite.NewAdapter(cfg.Storage.Path, cfg.Storage.MigrationsPath)
		if err != nil {
			logger.Fatal("failed to initialize storage", zap.Error(err))
		}
		defer sqliteStorage.Close()
		storage = sqliteStorage
	}

	// Run database migrations
	ctx := context.Background()
	if err := storage.Migrate(ctx); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	// Initialize domain services
	registry, err := services.NewRegistry(ctx, storage, logger)
	if err != nil {
		logger.Fatal("failed to initialize conversation registry", zap.Error(err))
	}

	profiler := services.NewProfiler(cfg.Dispatch.DedupFollowUps)
	assistantClient := assistant.NewClient(cfg.Assistant.BaseURL, cfg.Assistant.Timeout)
	searchClient := google.NewClient(cfg.Search.APIKey, cfg.Search.CX, cfg.Search.BaseURL, cfg.Search.Timeout, cfg.Search.MaxResults)
	if !cfg.SearchEnabled() {
		logger.Warn("search credentials not configured, property queries go straight to the chat endpoint")
	}

	dispatcher := services.NewDispatcher(registry, profiler, assistantClient, searchClient, logger)

	// Initialize HTTP server
	if cfg.Logging.Level == constants.LogLevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	apiHandlers := httpapi.NewAPIHandlers(registry, dispatcher, profiler, storage, logger, cfg.Server.CORSEnabled)
	apiHandlers.SetupRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.GracefulShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
