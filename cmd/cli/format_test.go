package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

func TestFormatContributions(t *testing.T) {
	zero, many := 0, 1234

	assert.Equal(t, "unknown", formatContributions(nil))
	assert.Equal(t, "unknown", formatContributions(&domain.ContributionStats{}))
	assert.Equal(t, "0", formatContributions(&domain.ContributionStats{TotalContributionsLastYear: &zero}))
	assert.Equal(t, "1234", formatContributions(&domain.ContributionStats{TotalContributionsLastYear: &many}))
}

func TestRepoFlags(t *testing.T) {
	assert.Equal(t, "", repoFlags(&domain.Repository{}))
	assert.Equal(t, "fork", repoFlags(&domain.Repository{IsFork: true}))
	assert.Equal(t, "fork,archived", repoFlags(&domain.Repository{IsFork: true, IsArchived: true}))
}

func TestDerefAndFormatTime(t *testing.T) {
	name := "Octo"
	ts := time.Date(2011, 1, 25, 18, 44, 36, 0, time.UTC)

	assert.Equal(t, "-", deref(nil))
	assert.Equal(t, "Octo", deref(&name))
	assert.Equal(t, "-", formatTime(nil))
	assert.Equal(t, "2011-01-25", formatTime(&ts))
}

func TestNonNil(t *testing.T) {
	assert.NotNil(t, nonNil[string](nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}
