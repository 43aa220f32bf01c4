package aggregator

import (
	"context"

	"github.com/google/go-github/v55/github"
	"golang.org/x/sync/errgroup"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

// GetProfile returns the merged profile of username
func (a *aggregator) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	key := domain.ProfileCacheKey(username)
	if cached, ok := a.cache.Get(key); ok {
		if profile, ok := cached.(*domain.Profile); ok {
			a.log(ctx).Debug("cache hit", "key", key)
			return profile, nil
		}
	}
	a.log(ctx).Debug("cache miss", "key", key)

	var (
		user    *github.User
		scraped domain.ScrapedProfile
	)

	// Both branches always run to completion; the scrape cannot fail.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		user, err = a.api.GetUser(ctx, username)
		return err
	})
	g.Go(func() error {
		scraped = a.scraper.Scrape(ctx, username)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := mergeProfile(user, scraped)
	a.cache.Set(key, profile)
	return profile, nil
}

// mergeProfile combines the API user record with the scraped page data
func mergeProfile(user *github.User, scraped domain.ScrapedProfile) *domain.Profile {
	profile := &domain.Profile{
		Username:        user.GetLogin(),
		Name:            user.Name,
		Bio:             user.Bio,
		AvatarURL:       user.AvatarURL,
		Location:        user.Location,
		Company:         user.Company,
		Blog:            nonEmpty(user.Blog),
		TwitterUsername: user.TwitterUsername,
		Email:           user.Email,
		PublicRepos:     user.GetPublicRepos(),
		PublicGists:     user.GetPublicGists(),
		Followers:       user.GetFollowers(),
		Following:       user.GetFollowing(),
		CreatedAt:       timestamp(user.CreatedAt),
		UpdatedAt:       timestamp(user.UpdatedAt),

		PinnedRepos:       scraped.PinnedItems,
		ContributionStats: scraped.ContributionStats,
		Achievements:      scraped.Achievements,
	}

	if profile.PinnedRepos == nil {
		profile.PinnedRepos = []domain.PinnedItem{}
	}
	if profile.Achievements == nil {
		profile.Achievements = []string{}
	}
	return profile
}
