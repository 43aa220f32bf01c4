// Package scraper extracts supplementary profile data from the public GitHub
// profile page.
//
// The page markup is not a stable contract. Every extraction is optional and
// every failure is swallowed: a markup change makes results poorer but never
// turns into an error for the caller.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
	"github.com/kurihiro0119/github-profile-api/internal/logging"
)

// Defaults for Config
const (
	DefaultBaseURL   = "https://github.com/"
	DefaultUserAgent = "Mozilla/5.0 (compatible; GitHubParser/1.0)"
	DefaultMaxBytes  = 5 * 1024 * 1024
	maxRedirects     = 10
)

// Scraper fetches a user's profile page and extracts what it can
type Scraper interface {
	// Scrape never fails; on any problem it returns the empty ScrapedProfile
	Scrape(ctx context.Context, username string) domain.ScrapedProfile
}

// Config configures the profile page scraper
type Config struct {
	// BaseURL of the GitHub website. Default: DefaultBaseURL.
	BaseURL string
	// UserAgent identifies the scraper. Default: DefaultUserAgent.
	UserAgent string
	// MaxBytes caps the page size read. Default: 5MB.
	MaxBytes int64
	// HTTPClient supplies the transport and timeout. Default: 30s timeout.
	HTTPClient *http.Client
	Logger     *log.Logger
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
}

// profileScraper implements Scraper over HTTP
type profileScraper struct {
	client *http.Client
	config Config
}

// New creates a profile page scraper
func New(cfg Config) Scraper {
	cfg.defaults()
	return &profileScraper{
		client: &http.Client{
			Transport: cfg.HTTPClient.Transport,
			Timeout:   cfg.HTTPClient.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Scrape fetches and parses the profile page of username
func (s *profileScraper) Scrape(ctx context.Context, username string) (result domain.ScrapedProfile) {
	logger := logging.FromContext(ctx, s.config.Logger).With("user", username)

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("profile scrape panicked", "panic", r)
			result = domain.ScrapedProfile{}
		}
	}()

	body, err := s.fetch(ctx, username)
	if err != nil {
		logger.Debug("profile scrape skipped", "err", err)
		return domain.ScrapedProfile{}
	}
	defer body.Close()

	profile, err := Parse(io.LimitReader(body, s.config.MaxBytes))
	if err != nil {
		logger.Debug("profile page not parseable", "err", err)
		return domain.ScrapedProfile{}
	}

	logger.Debug("profile scraped",
		"pinned", len(profile.PinnedItems),
		"contributions", profile.ContributionStats != nil,
		"achievements", len(profile.Achievements),
	)
	return profile
}

// fetch returns the body of a 200 response; the caller closes it
func (s *profileScraper) fetch(ctx context.Context, username string) (io.ReadCloser, error) {
	if !domain.IsValidUsername(username) {
		return nil, fmt.Errorf("invalid username %q", username)
	}
	pageURL := s.config.BaseURL + url.PathEscape(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
