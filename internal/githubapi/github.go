package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
	apperrors "github.com/kurihiro0119/github-profile-api/internal/errors"
	"github.com/kurihiro0119/github-profile-api/internal/logging"
)

// DefaultBaseURL is the public GitHub REST API
const DefaultBaseURL = "https://api.github.com/"

// Config configures the GitHub API client
type Config struct {
	// Token is optional; without it calls are unauthenticated and subject to
	// the lower anonymous rate limit.
	Token string
	// BaseURL of the REST API. Default: DefaultBaseURL.
	BaseURL string
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
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
}

// githubClient implements Client using go-github
type githubClient struct {
	client *github.Client
	rate   *RateTracker
	logger *log.Logger
}

// NewGitHubClient creates a new GitHub API client
func NewGitHubClient(cfg Config) (Client, error) {
	cfg.defaults()

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.BaseURL, err)
	}

	transport := &headerTransport{base: cfg.HTTPClient.Transport}

	var httpClient *http.Client
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: transport})
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{Transport: transport}
	}
	httpClient.Timeout = cfg.HTTPClient.Timeout

	client := github.NewClient(httpClient)
	client.BaseURL = baseURL

	return &githubClient{
		client: client,
		rate:   NewRateTracker(),
		logger: cfg.Logger,
	}, nil
}

// GetUser retrieves the public user record for username
func (c *githubClient) GetUser(ctx context.Context, username string) (*github.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	user, resp, err := c.client.Users.Get(ctx, username)
	c.observe(resp, "users.get", username)
	if err != nil {
		return nil, translateError(username, resp, err)
	}
	// A body without a login is not a user record.
	if user.GetLogin() == "" {
		return nil, apperrors.NewNotFoundError(username)
	}
	return user, nil
}

// ListRepositories retrieves one page of the user's public repositories
func (c *githubClient) ListRepositories(ctx context.Context, username string, page, perPage int, sort string) ([]*github.Repository, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}

	opts := &github.RepositoryListOptions{
		Sort:        sort,
		Direction:   "desc",
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}

	repos, resp, err := c.client.Repositories.List(ctx, username, opts)
	c.observe(resp, "repos.list", username)
	if err != nil {
		return nil, translateError(username, resp, err)
	}
	if repos == nil {
		repos = []*github.Repository{}
	}
	return repos, nil
}

// Rate returns the last rate limit reported by the API
func (c *githubClient) Rate() RateSnapshot {
	return c.rate.Snapshot()
}

// observe updates the rate tracker from a response and logs the call
func (c *githubClient) observe(resp *github.Response, op, username string) {
	c.rate.Update(resp)
	if resp == nil || resp.Response == nil {
		return
	}
	c.logger.Debug("github api call",
		"op", op,
		"user", username,
		"status", resp.StatusCode,
		"remaining", resp.Rate.Remaining,
	)
}

// translateError maps an upstream failure onto the domain error taxonomy.
// A missing response means the request never got an HTTP answer.
func translateError(username string, resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return apperrors.NewUpstreamUnavailableError(err)
	}

	status := resp.StatusCode
	switch {
	case status == http.StatusNotFound:
		return apperrors.NewNotFoundError(username)
	case status == http.StatusForbidden:
		return apperrors.NewRateLimitedError(resp.Rate.Reset.Time)
	case status >= http.StatusInternalServerError:
		return apperrors.NewUpstreamUnavailableError(err)
	default:
		return apperrors.NewUpstreamError(status, err)
	}
}
