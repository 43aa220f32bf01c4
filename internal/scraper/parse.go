package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

// Selectors for the current profile page markup
const (
	pinnedItemSelector   = ".pinned-item-list-item-content"
	pinnedNameSelector   = "a.text-bold span"
	pinnedRepoSelector   = "span.repo"
	pinnedDescSelector   = "p.pinned-item-desc"
	pinnedLangSelector   = "[itemprop='programmingLanguage']"
	pinnedStarsSelector  = "a[href$='/stargazers']"
	contributionSelector = "h2.f4.text-normal.mb-2"
	achievementSelector  = "img.achievement-badge-sidebar"
)

const (
	achievementPrefix      = "Achievement: "
	achievementPlaceholder = "Achievement"
)

var contributionPattern = regexp.MustCompile(`([\d,]+)\s+contributions?\s+in\s+the\s+last\s+year`)

// Parse reads a profile page and runs every extractor on it. Extractors are
// independent; a missing section leaves only its own field empty. The error
// is only for an unreadable document.
func Parse(r io.Reader) (domain.ScrapedProfile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.ScrapedProfile{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return extract(doc), nil
}

func extract(doc *goquery.Document) domain.ScrapedProfile {
	return domain.ScrapedProfile{
		PinnedItems:       parsePinnedItems(doc),
		ContributionStats: parseContributions(doc),
		Achievements:      parseAchievements(doc),
	}
}

// parsePinnedItems returns one item per pinned block that has a name
func parsePinnedItems(doc *goquery.Document) []domain.PinnedItem {
	var pinned []domain.PinnedItem

	doc.Find(pinnedItemSelector).Each(func(_ int, s *goquery.Selection) {
		name := cleanText(s.Find(pinnedNameSelector).First())
		if name == "" {
			name = cleanText(s.Find(pinnedRepoSelector).First())
		}
		if name == "" {
			return
		}

		item := domain.PinnedItem{
			Name:        name,
			Description: optionalText(s.Find(pinnedDescSelector).First()),
			Language:    optionalText(s.Find(pinnedLangSelector).First()),
		}
		if stars := s.Find(pinnedStarsSelector).First(); stars.Length() > 0 {
			item.Stars = parseCount(stars.Text())
		}
		pinned = append(pinned, item)
	})

	return pinned
}

// parseContributions returns nil unless the yearly total is found. The
// styled heading is tried first, then any h2 on the page.
func parseContributions(doc *goquery.Document) *domain.ContributionStats {
	if stats := matchContributions(doc.Find(contributionSelector).First()); stats != nil {
		return stats
	}

	var stats *domain.ContributionStats
	doc.Find("h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		stats = matchContributions(s)
		return stats == nil
	})
	return stats
}

func matchContributions(heading *goquery.Selection) *domain.ContributionStats {
	if heading.Length() == 0 {
		return nil
	}
	match := contributionPattern.FindStringSubmatch(cleanText(heading))
	if match == nil {
		return nil
	}
	count, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return nil
	}
	return &domain.ContributionStats{TotalContributionsLastYear: &count}
}

// parseAchievements collects badge names in page order without duplicates
func parseAchievements(doc *goquery.Document) []string {
	var achievements []string
	seen := make(map[string]bool)

	doc.Find(achievementSelector).Each(func(_ int, s *goquery.Selection) {
		alt, _ := s.Attr("alt")
		if alt == "" || alt == achievementPlaceholder {
			return
		}
		name := strings.TrimSpace(strings.TrimPrefix(alt, achievementPrefix))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		achievements = append(achievements, name)
	})

	return achievements
}

// parseCount parses a digits-only count with optional thousands separators.
// Anything else, including empty text, counts as zero.
func parseCount(text string) int {
	digits := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if digits == "" {
		return 0
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// cleanText returns the selection's text with whitespace runs collapsed
func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func optionalText(s *goquery.Selection) *string {
	if s.Length() == 0 {
		return nil
	}
	text := cleanText(s)
	if text == "" {
		return nil
	}
	return &text
}
