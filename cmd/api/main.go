package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/kurihiro0119/github-profile-api/internal/api"
	"github.com/kurihiro0119/github-profile-api/internal/app"
	"github.com/kurihiro0119/github-profile-api/internal/config"
	"github.com/kurihiro0119/github-profile-api/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	// Initialize services
	svc, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize services", "err", err)
	}

	// Initialize handler
	handler := api.NewHandler(svc.Aggregator)

	// Setup routes
	router := api.SetupRoutes(handler, api.RouterConfig{
		ProxySecret: cfg.ProxySecret,
		Logger:      logger,
	})

	// Start server
	addr := cfg.Addr()
	logger.Info("Starting API server", "addr", addr, "cache_ttl", cfg.CacheTTLDuration(), "authenticated", cfg.GitHubToken != "", "rate_limit", cfg.RateLimit)
	if cfg.ProxySecret == "" {
		logger.Warn("RAPIDAPI_PROXY_SECRET is not set; proxy secret check disabled")
	}

	if err := router.Run(addr); err != nil {
		logger.Error("Failed to start server", "err", err)
		os.Exit(1)
	}
}
