package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/api"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/config"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/drafts"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/ebay"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/fx"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var store *drafts.Store
	if cfg.Database.Enabled {
		store, err = drafts.New(ctx, drafts.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.DBName,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	fxOpts := []fx.Option{
		fx.WithEndpoint(cfg.Currency.Endpoint),
		fx.WithTTL(cfg.Currency.CacheTTL),
	}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		fxOpts = append(fxOpts, fx.WithRedis(redisClient))
	}
	converter := fx.NewConverter(logger, fxOpts...)

	apiClient := ebay.NewAPIClient(ebay.APIConfig{
		Endpoint: cfg.EBay.Endpoint,
		AppID:    cfg.EBay.AppID,
		Token:    cfg.EBay.Token,
		Timeout:  cfg.EBay.Timeout,
	}, logger)

	scraper := ebay.NewScraper(ebay.ScraperConfig{
		BaseURL:    cfg.Scraper.BaseURL,
		UserAgents: cfg.Scraper.UserAgents,
		MinDelay:   cfg.Scraper.MinDelay,
		MaxDelay:   cfg.Scraper.MaxDelay,
		Timeout:    cfg.Scraper.Timeout,
	}, logger)

	resolver := ebay.NewResolver(apiClient, scraper, logger)
	handlers := api.NewHandlers(resolver, converter, store, logger)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handlers),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
