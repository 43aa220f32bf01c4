package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

// Client is the API client for github-profile-api
type Client struct {
	baseURL     string
	proxySecret string
	httpClient  *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithProxySecret sends the proxy secret header on every request
func WithProxySecret(secret string) Option {
	return func(c *Client) {
		c.proxySecret = secret
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-200 response decoded from the error envelope
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Health is the body of the health endpoint
type Health struct {
	Status       string `json:"status"`
	UpstreamRate struct {
		Limit     int       `json:"limit"`
		Remaining int       `json:"remaining"`
		Reset     time.Time `json:"reset"`
		Known     bool      `json:"known"`
	} `json:"upstream_rate"`
}

// GetProfile retrieves the merged profile of a user
func (c *Client) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	path := "/profile/" + url.PathEscape(username)

	var response struct {
		Data *domain.Profile `json:"data"`
	}
	if err := c.get(ctx, path, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// GetRepositories retrieves one page of a user's repositories
func (c *Client) GetRepositories(ctx context.Context, username string, query domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	path := "/repos/" + url.PathEscape(username)
	params := url.Values{}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(query.PerPage))
	}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}

	var response struct {
		Data *domain.RepositoryPage `json:"data"`
	}
	if err := c.get(ctx, path, params, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck(ctx context.Context) (*Health, error) {
	var response Health
	if err := c.get(ctx, "/health", nil, &response); err != nil {
		return nil, err
	}
	if response.Status != "ok" {
		return &response, fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return &response, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.proxySecret != "" {
		req.Header.Set("X-RapidAPI-Proxy-Secret", c.proxySecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	apiErr.Message = string(body)
	return apiErr
}
