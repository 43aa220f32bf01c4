package aggregator

import (
	"context"
	"time"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

// GetRepositories returns one page of username's repositories
func (a *aggregator) GetRepositories(ctx context.Context, username string, query domain.RepositoryQuery) (*domain.RepositoryPage, error) {
	key := query.CacheKey(username)
	if cached, ok := a.cache.Get(key); ok {
		if page, ok := cached.(*domain.RepositoryPage); ok {
			a.log(ctx).Debug("cache hit", "key", key)
			return page, nil
		}
	}
	a.log(ctx).Debug("cache miss", "key", key)

	raw, err := a.api.ListRepositories(ctx, username, query.Page, query.PerPage, query.Sort)
	if err != nil {
		return nil, err
	}

	repos := make([]*domain.Repository, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, normalizeRepository(r))
	}

	page := &domain.RepositoryPage{
		Username:     username,
		TotalCount:   len(repos),
		Page:         query.Page,
		PerPage:      query.PerPage,
		Repositories: repos,
	}
	a.cache.Set(key, page)
	return page, nil
}

// normalizeRepository maps a raw API repository onto the public shape
func normalizeRepository(r *github.Repository) *domain.Repository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return &domain.Repository{
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.Description,
		HTMLURL:     r.GetHTMLURL(),
		Language:    r.Language,
		Topics:      topics,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Watchers:    r.GetWatchersCount(),
		OpenIssues:  r.GetOpenIssuesCount(),
		IsFork:      r.GetFork(),
		IsArchived:  r.GetArchived(),
		CreatedAt:   timestamp(r.CreatedAt),
		UpdatedAt:   timestamp(r.UpdatedAt),
		PushedAt:    timestamp(r.PushedAt),
	}
}

func timestamp(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
