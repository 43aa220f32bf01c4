// Package app wires the configured services shared by the API server and the CLI.
package app

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/kurihiro0119/github-profile-api/internal/aggregator"
	"github.com/kurihiro0119/github-profile-api/internal/cache"
	"github.com/kurihiro0119/github-profile-api/internal/config"
	"github.com/kurihiro0119/github-profile-api/internal/githubapi"
	"github.com/kurihiro0119/github-profile-api/internal/scraper"
)

// Services holds the in-process components built from a Config
type Services struct {
	GitHub     githubapi.Client
	Scraper    scraper.Scraper
	Cache      *cache.Cache
	Aggregator aggregator.Aggregator
}

// New builds the services. Both upstream clients share one HTTP timeout.
func New(cfg *config.Config, logger *log.Logger) (*Services, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeoutDuration()}

	gh, err := githubapi.NewGitHubClient(githubapi.Config{
		Token:      cfg.GitHubToken,
		BaseURL:    cfg.GitHubAPIURL,
		HTTPClient: httpClient,
		Logger:     logger.WithPrefix("github"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	s := scraper.New(scraper.Config{
		BaseURL:    cfg.GitHubWebURL,
		HTTPClient: httpClient,
		Logger:     logger.WithPrefix("scraper"),
	})

	c := cache.New(cfg.CacheTTLDuration())

	return &Services{
		GitHub:     gh,
		Scraper:    s,
		Cache:      c,
		Aggregator: aggregator.NewAggregator(gh, s, c, logger),
	}, nil
}
