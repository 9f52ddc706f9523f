package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/relojeriasur/storefront/internal/api"
	"github.com/relojeriasur/storefront/internal/backend"
	"github.com/relojeriasur/storefront/internal/config"
	"github.com/relojeriasur/storefront/internal/localstore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Session storage: Redis when configured, in-memory otherwise
	var sessions localstore.Provider
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sessions = localstore.NewRedisProvider(client)
		logger.Info("using redis session storage", zap.String("addr", cfg.Redis.Addr))
	} else {
		sessions = localstore.NewMemoryProvider()
		logger.Warn("REDIS_ADDR not set, sessions are in-memory and lost on restart")
	}

	client := backend.NewClient(cfg.Backend, logger)
	router := api.NewRouter(cfg, client, sessions, logger)

	logger.Info("starting storefront",
		zap.String("port", cfg.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
