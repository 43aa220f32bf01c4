package aggregator

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/kurihiro0119/github-profile-api/internal/cache"
	"github.com/kurihiro0119/github-profile-api/internal/domain"
	"github.com/kurihiro0119/github-profile-api/internal/githubapi"
	"github.com/kurihiro0119/github-profile-api/internal/logging"
	"github.com/kurihiro0119/github-profile-api/internal/scraper"
)

// Aggregator serves profiles and repository pages, combining the GitHub API
// with the scraped profile page and caching the results
type Aggregator interface {
	// GetProfile returns the merged profile of username. It fails only when
	// the GitHub API user lookup fails.
	GetProfile(ctx context.Context, username string) (*domain.Profile, error)

	// GetRepositories returns one page of username's repositories. The query
	// must already be validated.
	GetRepositories(ctx context.Context, username string, query domain.RepositoryQuery) (*domain.RepositoryPage, error)

	// UpstreamRate returns the last GitHub API rate limit seen
	UpstreamRate() githubapi.RateSnapshot
}

// aggregator implements the Aggregator interface
type aggregator struct {
	api     githubapi.Client
	scraper scraper.Scraper
	cache   *cache.Cache
	logger  *log.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(api githubapi.Client, s scraper.Scraper, c *cache.Cache, logger *log.Logger) Aggregator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &aggregator{
		api:     api,
		scraper: s,
		cache:   c,
		logger:  logger,
	}
}

// UpstreamRate returns the last GitHub API rate limit seen
func (a *aggregator) UpstreamRate() githubapi.RateSnapshot {
	return a.api.Rate()
}

func (a *aggregator) log(ctx context.Context) *log.Logger {
	return logging.FromContext(ctx, a.logger)
}
