package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

const fullProfilePage = `
<html><body>
<div class="js-pinned-items-reorder-container">
  <div class="pinned-item-list-item-content">
    <a class="text-bold" href="/torvalds/linux"><span class="repo">linux</span></a>
    <p class="pinned-item-desc">Linux kernel source tree</p>
    <span itemprop="programmingLanguage">C</span>
    <a href="/torvalds/linux/stargazers"><svg></svg>
      185,000
    </a>
  </div>
  <div class="pinned-item-list-item-content">
    <a class="text-bold" href="/torvalds/subsurface"><span class="repo">subsurface-for-dirk</span></a>
    <a href="/torvalds/subsurface/stargazers">n/a</a>
  </div>
  <div class="pinned-item-list-item-content">
    <p class="pinned-item-desc">No name here, dropped</p>
  </div>
</div>
<h2 class="f4 text-normal mb-2">
  2,345 contributions
  in the last year
</h2>
<img class="achievement-badge-sidebar" alt="Achievement: Pull Shark">
<img class="achievement-badge-sidebar" alt="Achievement: Pull Shark">
<img class="achievement-badge-sidebar" alt="Achievement">
<img class="achievement-badge-sidebar" alt="">
<img class="achievement-badge-sidebar" alt="Achievement: Arctic Code Vault Contributor">
</body></html>`

func mustParse(t *testing.T, page string) domain.ScrapedProfile {
	t.Helper()
	p, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	return p
}

func TestParse_FullPage(t *testing.T) {
	p, err := Parse(strings.NewReader(fullProfilePage))
	require.NoError(t, err)

	require.Len(t, p.PinnedItems, 2)

	linux := p.PinnedItems[0]
	assert.Equal(t, "linux", linux.Name)
	require.NotNil(t, linux.Description)
	assert.Equal(t, "Linux kernel source tree", *linux.Description)
	require.NotNil(t, linux.Language)
	assert.Equal(t, "C", *linux.Language)
	assert.Equal(t, 185000, linux.Stars)

	second := p.PinnedItems[1]
	assert.Equal(t, "subsurface-for-dirk", second.Name)
	assert.Nil(t, second.Description)
	assert.Nil(t, second.Language)
	assert.Equal(t, 0, second.Stars)

	require.NotNil(t, p.ContributionStats)
	require.NotNil(t, p.ContributionStats.TotalContributionsLastYear)
	assert.Equal(t, 2345, *p.ContributionStats.TotalContributionsLastYear)

	assert.Equal(t, []string{"Pull Shark", "Arctic Code Vault Contributor"}, p.Achievements)
}

func TestParse_NoMarkers(t *testing.T) {
	p, err := Parse(strings.NewReader(`<html><body><h1>Nothing to see</h1></body></html>`))
	require.NoError(t, err)

	assert.Empty(t, p.PinnedItems)
	assert.Nil(t, p.ContributionStats)
	assert.Empty(t, p.Achievements)
	assert.True(t, p.IsEmpty())
}

func TestParse_OnlyContributions(t *testing.T) {
	p := mustParse(t, `<h2 class="f4 text-normal mb-2">1 contribution in the last year</h2>`)

	assert.Empty(t, p.PinnedItems)
	require.NotNil(t, p.ContributionStats)
	assert.Equal(t, 1, *p.ContributionStats.TotalContributionsLastYear)
	assert.Empty(t, p.Achievements)
}

func TestParse_ZeroContributionsIsNotAbsent(t *testing.T) {
	p := mustParse(t, `<h2 class="f4 text-normal mb-2">0 contributions in the last year</h2>`)

	require.NotNil(t, p.ContributionStats)
	assert.Equal(t, 0, *p.ContributionStats.TotalContributionsLastYear)
}

func TestParse_HeadingWithoutCount(t *testing.T) {
	p := mustParse(t, `<h2 class="f4 text-normal mb-2">Contribution activity</h2>`)
	assert.Nil(t, p.ContributionStats)
}

func TestParse_ContributionsFallbackHeading(t *testing.T) {
	p := mustParse(t, `
		<h2 class="f4 text-normal mb-2">Contribution activity</h2>
		<h2 class="h4">2,048 contributions in the last year</h2>`)

	require.NotNil(t, p.ContributionStats)
	assert.Equal(t, 2048, *p.ContributionStats.TotalContributionsLastYear)
}

func TestParse_AchievementDeduplication(t *testing.T) {
	p := mustParse(t, `
		<img class="achievement-badge-sidebar" alt="Achievement: Pull Shark">
		<img class="achievement-badge-sidebar" alt="Achievement: Pull Shark">
		<img class="achievement-badge-sidebar" alt="Achievement: Arctic Code Vault Contributor">
		<img class="achievement-badge-sidebar" alt="Achievement: ">
		<img class="achievement-badge-sidebar">`)

	assert.Equal(t, []string{"Pull Shark", "Arctic Code Vault Contributor"}, p.Achievements)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1,234", 1234},
		{"  42  ", 42},
		{"1,000,000", 1000000},
		{"", 0},
		{"1.2k", 0},
		{"n/a", 0},
		{"-5", 0},
		{"99999999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCount(tt.in))
		})
	}
}
