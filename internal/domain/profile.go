package domain

import "time"

// PinnedItem is a repository featured on a user's profile page
type PinnedItem struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Stars       int     `json:"stars"`
}

// ContributionStats holds the contribution count shown on the profile page.
// A nil TotalContributionsLastYear means the count was not found, which is
// different from zero contributions.
type ContributionStats struct {
	TotalContributionsLastYear *int `json:"total_contributions_last_year"`
}

// ScrapedProfile is the best-effort data extracted from the HTML profile page.
// The zero value is the empty form returned whenever scraping fails.
type ScrapedProfile struct {
	PinnedItems       []PinnedItem
	ContributionStats *ContributionStats
	Achievements      []string
}

// IsEmpty reports whether nothing was extracted
func (s ScrapedProfile) IsEmpty() bool {
	return len(s.PinnedItems) == 0 && s.ContributionStats == nil && len(s.Achievements) == 0
}

// Profile merges the GitHub API user record with the scraped profile page
type Profile struct {
	Username        string     `json:"username"`
	Name            *string    `json:"name"`
	Bio             *string    `json:"bio"`
	AvatarURL       *string    `json:"avatar_url"`
	Location        *string    `json:"location"`
	Company         *string    `json:"company"`
	Blog            *string    `json:"blog"`
	TwitterUsername *string    `json:"twitter_username"`
	Email           *string    `json:"email"`
	PublicRepos     int        `json:"public_repos"`
	PublicGists     int        `json:"public_gists"`
	Followers       int        `json:"followers"`
	Following       int        `json:"following"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`

	PinnedRepos       []PinnedItem       `json:"pinned_repos"`
	ContributionStats *ContributionStats `json:"contribution_stats"`
	Achievements      []string           `json:"achievements"`
}

// ProfileCacheKey returns the cache key for a user's profile
func ProfileCacheKey(username string) string {
	return "profile:" + username
}
