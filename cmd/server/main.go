package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shruggr/go-txpreview/internal/api"
	"github.com/shruggr/go-txpreview/internal/cache"
	"github.com/shruggr/go-txpreview/internal/config"
	"github.com/shruggr/go-txpreview/internal/logging"
	"github.com/shruggr/go-txpreview/internal/telemetry"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel))
	if envErr != nil {
		slog.Info("No .env file found")
	}

	if cfg.NovesAPIKey == "" {
		slog.Warn("NOVES_API_KEY is not set; previews will use default text")
	}

	shutdownTracer, err := telemetry.InitTracer(context.Background(), "go-txpreview", cfg.OtelEndpoint)
	if err != nil {
		slog.Warn("Tracing disabled", "error", err)
	}

	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		slog.Error("Failed to initialize Redis", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	server, err := api.NewServer(cfg, redisCache)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(ctx); err != nil {
		slog.Warn("Failed to flush traces", "error", err)
	}

	slog.Info("Server exited")
}
