package aggregator

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v55/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-profile-api/internal/cache"
	"github.com/kurihiro0119/github-profile-api/internal/domain"
	apperrors "github.com/kurihiro0119/github-profile-api/internal/errors"
	"github.com/kurihiro0119/github-profile-api/internal/githubapi"
)

// fakeAPI is an in-memory githubapi.Client that counts calls
type fakeAPI struct {
	users     map[string]*github.User
	repos     map[string][]*github.Repository
	err       error
	userCalls atomic.Int32
	repoCalls atomic.Int32
	// beforeUser runs inside GetUser before it returns
	beforeUser func()
}

func (f *fakeAPI) GetUser(_ context.Context, username string) (*github.User, error) {
	f.userCalls.Add(1)
	if f.beforeUser != nil {
		f.beforeUser()
	}
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, apperrors.NewNotFoundError(username)
	}
	return u, nil
}

func (f *fakeAPI) ListRepositories(_ context.Context, username string, _, _ int, _ string) ([]*github.Repository, error) {
	f.repoCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.repos[username], nil
}

func (f *fakeAPI) Rate() githubapi.RateSnapshot {
	return githubapi.RateSnapshot{Limit: 60, Remaining: 59, Known: true}
}

// fakeScraper returns a fixed result and counts calls
type fakeScraper struct {
	result  domain.ScrapedProfile
	calls   atomic.Int32
	started chan struct{}
	delay   time.Duration
	done    atomic.Bool
}

func (f *fakeScraper) Scrape(_ context.Context, _ string) domain.ScrapedProfile {
	f.calls.Add(1)
	if f.started != nil {
		close(f.started)
	}
	time.Sleep(f.delay)
	f.done.Store(true)
	return f.result
}

func torvalds() *github.User {
	return &github.User{
		Login:     github.String("torvalds"),
		Name:      github.String("Linus Torvalds"),
		Blog:      github.String(""),
		Followers: github.Int(228000),
		Following: github.Int(0),
		CreatedAt: &github.Timestamp{Time: time.Date(2011, 9, 3, 15, 26, 22, 0, time.UTC)},
	}
}

func newTestAggregator(api *fakeAPI, s *fakeScraper) (Aggregator, *cache.Cache) {
	c := cache.New(time.Minute)
	return NewAggregator(api, s, c, nil), c
}

func TestGetProfile_MergesAndCaches(t *testing.T) {
	api := &fakeAPI{users: map[string]*github.User{"torvalds": torvalds()}}
	s := &fakeScraper{result: domain.ScrapedProfile{
		PinnedItems: []domain.PinnedItem{{Name: "linux", Stars: 185000}},
	}}
	agg, c := newTestAggregator(api, s)

	profile, err := agg.GetProfile(context.Background(), "torvalds")
	require.NoError(t, err)

	assert.Equal(t, "torvalds", profile.Username)
	assert.Equal(t, 228000, profile.Followers)
	require.Len(t, profile.PinnedRepos, 1)
	assert.Equal(t, "linux", profile.PinnedRepos[0].Name)
	assert.Equal(t, 185000, profile.PinnedRepos[0].Stars)
	assert.Nil(t, profile.Blog, "empty blog is reported as absent")
	assert.Nil(t, profile.ContributionStats)
	assert.NotNil(t, profile.Achievements)
	assert.True(t, c.Has("profile:torvalds"))

	first, err := json.Marshal(profile)
	require.NoError(t, err)

	again, err := agg.GetProfile(context.Background(), "torvalds")
	require.NoError(t, err)
	second, err := json.Marshal(again)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, int32(1), api.userCalls.Load())
	assert.Equal(t, int32(1), s.calls.Load())
}

func TestGetProfile_EmptyScrapeStillSucceeds(t *testing.T) {
	api := &fakeAPI{users: map[string]*github.User{"torvalds": torvalds()}}
	agg, _ := newTestAggregator(api, &fakeScraper{})

	profile, err := agg.GetProfile(context.Background(), "torvalds")
	require.NoError(t, err)

	assert.Equal(t, []domain.PinnedItem{}, profile.PinnedRepos)
	assert.Equal(t, []string{}, profile.Achievements)
	assert.Nil(t, profile.ContributionStats)

	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"pinned_repos":[]`)
	assert.Contains(t, string(raw), `"contribution_stats":null`)
}

func TestGetProfile_NotFoundPropagatesAndSkipsCache(t *testing.T) {
	api := &fakeAPI{users: map[string]*github.User{}}
	s := &fakeScraper{delay: 20 * time.Millisecond}
	agg, c := newTestAggregator(api, s)

	profile, err := agg.GetProfile(context.Background(), "doesnotexist123")

	assert.Nil(t, profile)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 0, c.Len())
	assert.True(t, s.done.Load(), "scrape is awaited even when the API lookup fails")
}

func TestGetProfile_FetchesConcurrently(t *testing.T) {
	s := &fakeScraper{started: make(chan struct{})}
	api := &fakeAPI{
		users: map[string]*github.User{"torvalds": torvalds()},
		beforeUser: func() {
			select {
			case <-s.started:
			case <-time.After(2 * time.Second):
			}
		},
	}
	agg, _ := newTestAggregator(api, s)

	start := time.Now()
	_, err := agg.GetProfile(context.Background(), "torvalds")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "user lookup waited for a scrape that never started")
}

func TestGetProfile_UpstreamErrorsPropagate(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"rate limited", apperrors.NewRateLimitedError(time.Time{}), apperrors.IsRateLimited},
		{"unavailable", apperrors.NewUpstreamUnavailableError(nil), apperrors.IsUpstreamUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, c := newTestAggregator(&fakeAPI{err: tt.err}, &fakeScraper{})
			_, err := agg.GetProfile(context.Background(), "torvalds")
			assert.True(t, tt.check(err))
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestGetProfile_ConcurrentCallers(t *testing.T) {
	api := &fakeAPI{users: map[string]*github.User{"torvalds": torvalds()}}
	agg, _ := newTestAggregator(api, &fakeScraper{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := agg.GetProfile(context.Background(), "torvalds")
			assert.NoError(t, err)
			assert.Equal(t, "torvalds", p.Username)
		}()
	}
	wg.Wait()
}

func TestUpstreamRate(t *testing.T) {
	agg, _ := newTestAggregator(&fakeAPI{}, &fakeScraper{})
	assert.Equal(t, 59, agg.UpstreamRate().Remaining)
}
