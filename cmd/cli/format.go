package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kurihiro0119/github-profile-api/internal/config"
	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTPTimeoutDuration()}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatContributions(stats *domain.ContributionStats) string {
	if stats == nil || stats.TotalContributionsLastYear == nil {
		return "unknown"
	}
	return strconv.Itoa(*stats.TotalContributionsLastYear)
}

func repoFlags(r *domain.Repository) string {
	var flags []string
	if r.IsFork {
		flags = append(flags, "fork")
	}
	if r.IsArchived {
		flags = append(flags, "archived")
	}
	return strings.Join(flags, ",")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
