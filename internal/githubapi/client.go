package githubapi

import (
	"context"
	"net/http"

	"github.com/google/go-github/v55/github"
)

// Client fetches user and repository data from the GitHub REST API.
// Each call is attempted exactly once; failures are returned as
// *errors.AppError values.
type Client interface {
	// GetUser retrieves the public user record for username
	GetUser(ctx context.Context, username string) (*github.User, error)

	// ListRepositories retrieves one page of the user's public repositories.
	// page, perPage and sort are validated by the caller.
	ListRepositories(ctx context.Context, username string, page, perPage int, sort string) ([]*github.Repository, error)

	// Rate returns the last rate limit reported by the API
	Rate() RateSnapshot
}

// apiVersion is sent as X-GitHub-Api-Version on every request
const apiVersion = "2022-11-28"

// headerTransport adds the GitHub media type and API version headers
type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
