package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/kurihiro0119/github-profile-api/internal/errors"
)

func TestRepositoryQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   RepositoryQuery
		wantErr bool
	}{
		{"defaults", DefaultRepositoryQuery(), false},
		{"max per page", RepositoryQuery{Page: 3, PerPage: 100, Sort: SortStars}, false},
		{"full name sort", RepositoryQuery{Page: 1, PerPage: 1, Sort: SortFullName}, false},
		{"zero page", RepositoryQuery{Page: 0, PerPage: 30, Sort: SortUpdated}, true},
		{"zero per page", RepositoryQuery{Page: 1, PerPage: 0, Sort: SortUpdated}, true},
		{"per page too large", RepositoryQuery{Page: 1, PerPage: 101, Sort: SortUpdated}, true},
		{"unknown sort", RepositoryQuery{Page: 1, PerPage: 30, Sort: "popularity"}, true},
		{"empty sort", RepositoryQuery{Page: 1, PerPage: 30}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.IsBadRequest(err), "got %v", err)
		})
	}
}

func TestCacheKeys(t *testing.T) {
	q1 := RepositoryQuery{Page: 1, PerPage: 30, Sort: SortUpdated}
	q2 := RepositoryQuery{Page: 2, PerPage: 30, Sort: SortUpdated}

	assert.Equal(t, "repos:alice:1:30:updated", q1.CacheKey("alice"))
	assert.NotEqual(t, q1.CacheKey("alice"), q2.CacheKey("alice"))
	assert.Equal(t, "profile:alice", ProfileCacheKey("alice"))
}
