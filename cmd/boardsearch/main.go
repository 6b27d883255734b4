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

	"go.uber.org/zap"

	"github.com/kailas-cloud/boardsearch/internal/config"
	dbRedis "github.com/kailas-cloud/boardsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/boardsearch/internal/logger"
	"github.com/kailas-cloud/boardsearch/internal/metrics"
	corpusrepo "github.com/kailas-cloud/boardsearch/internal/repository/corpus"
	historyrepo "github.com/kailas-cloud/boardsearch/internal/repository/history"
	chiTransport "github.com/kailas-cloud/boardsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/boardsearch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/boardsearch/internal/usecase/history"
	searchuc "github.com/kailas-cloud/boardsearch/internal/usecase/search"
	"github.com/kailas-cloud/boardsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting boardsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("token_auth", len(cfg.Auth.Tokens) > 0),
	)

	// Redis and Valkey speak the same protocol; the driver only names the server.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		ClientName: "boardsearch",
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	corpusRepo := corpusrepo.New(store, cfg.Storage.KeyPrefix).WithCaps(corpusrepo.Caps{
		Cards:  cfg.Search.MaxCards,
		Lists:  cfg.Search.MaxLists,
		Boards: cfg.Search.MaxBoards,
	})
	historyRepo := historyrepo.New(store, cfg.Storage.KeyPrefix)

	historySvc := historyuc.New(historyRepo, corpusRepo)
	searchSvc := searchuc.New(corpusRepo, historySvc)
	healthSvc := healthuc.New(store)

	server := chiTransport.NewServer(searchSvc, historySvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.Tokens),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
