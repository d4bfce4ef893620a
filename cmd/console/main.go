package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"weather-console/internal/config"
	"weather-console/internal/observability"
	"weather-console/internal/session"
	"weather-console/internal/theme"
	"weather-console/internal/upstream"
	"weather-console/internal/web"
)

func main() {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	var store session.Store
	switch cfg.SessionBackend {
	case "sqlite":
		s, err := session.NewSQLiteStore(cfg.SessionDBPath)
		if err != nil {
			logger.Fatal("session store", zap.Error(err))
		}
		store = s
		logger.Info("session backend: sqlite", zap.String("path", cfg.SessionDBPath))
	default:
		store = session.NewMemoryStore()
		logger.Info("session backend: in_memory")
	}

	api, err := upstream.New(cfg.ServiceBaseURL, cfg.ServiceTimeout)
	if err != nil {
		logger.Fatal("upstream client", zap.Error(err))
	}

	themes := theme.NewBroadcaster()
	updates, unsubscribe := themes.Subscribe()
	go func() {
		for u := range updates {
			logger.Info("theme update", zap.String("description", u.Description))
		}
	}()

	if err := web.LoadTemplates(); err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	var limiter *rate.Limiter
	if cfg.AuthRateRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.AuthRateRPS), cfg.AuthRateBurst)
	}

	handler := web.NewHandler(store, api, themes, logger, cfg.HistoryPageSize)
	router := handler.Routes(limiter, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.ServerPort),
			zap.String("service", cfg.ServiceBaseURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	unsubscribe()

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		logger.Error("session store close", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
