package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/kurihiro0119/github-profile-api/internal/errors"
)

// Repository represents a normalized GitHub repository
type Repository struct {
	Name        string     `json:"name"`
	FullName    string     `json:"full_name"`
	Description *string    `json:"description"`
	HTMLURL     string     `json:"html_url"`
	Language    *string    `json:"language"`
	Topics      []string   `json:"topics"`
	Stars       int        `json:"stars"`
	Forks       int        `json:"forks"`
	Watchers    int        `json:"watchers"`
	OpenIssues  int        `json:"open_issues"`
	IsFork      bool       `json:"is_fork"`
	IsArchived  bool       `json:"is_archived"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	PushedAt    *time.Time `json:"pushed_at"`
}

// RepositoryPage is one page of a user's repositories.
// TotalCount is the number of repositories in this page, not the account total.
type RepositoryPage struct {
	Username     string        `json:"username"`
	TotalCount   int           `json:"total_count"`
	Page         int           `json:"page"`
	PerPage      int           `json:"per_page"`
	Repositories []*Repository `json:"repositories"`
}

// Sort orders accepted by the repository listing
const (
	SortCreated  = "created"
	SortUpdated  = "updated"
	SortPushed   = "pushed"
	SortFullName = "full_name"
	SortStars    = "stars"
)

// Query defaults and bounds
const (
	DefaultPage    = 1
	DefaultPerPage = 30
	MaxPerPage     = 100
	DefaultSort    = SortUpdated
)

// SortOrders lists the valid sort values in display order
var SortOrders = []string{SortCreated, SortUpdated, SortPushed, SortFullName, SortStars}

// RepositoryQuery selects a page of repositories
type RepositoryQuery struct {
	Page    int
	PerPage int
	Sort    string
}

// DefaultRepositoryQuery returns the query used when no parameters are given
func DefaultRepositoryQuery() RepositoryQuery {
	return RepositoryQuery{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		Sort:    DefaultSort,
	}
}

// Validate checks the query bounds before any upstream call is made
func (q RepositoryQuery) Validate() error {
	if q.Page < 1 {
		return apperrors.NewBadRequestError("page must be greater than or equal to 1")
	}
	if q.PerPage < 1 || q.PerPage > MaxPerPage {
		return apperrors.NewBadRequestError(fmt.Sprintf("per_page must be between 1 and %d", MaxPerPage))
	}
	for _, s := range SortOrders {
		if q.Sort == s {
			return nil
		}
	}
	return apperrors.NewBadRequestError("sort must be one of: " + strings.Join(SortOrders, ", "))
}

// CacheKey returns the cache key for this query. Every parameter
// combination gets its own entry.
func (q RepositoryQuery) CacheKey(username string) string {
	return fmt.Sprintf("repos:%s:%d:%d:%s", username, q.Page, q.PerPage, q.Sort)
}
