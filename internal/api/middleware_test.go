package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kurihiro0119/github-profile-api/internal/domain"
)

func TestProxySecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		status int
	}{
		{"disabled", "", "", http.StatusOK},
		{"matching", "s3cret", "s3cret", http.StatusOK},
		{"missing", "s3cret", "", http.StatusForbidden},
		{"wrong", "s3cret", "guess", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &fakeAggregator{profile: &domain.Profile{Username: "alice"}}
			req := httptest.NewRequest(http.MethodGet, "/profile/alice", nil)
			if tt.header != "" {
				req.Header.Set(proxySecretHeader, tt.header)
			}

			w := serve(t, agg, tt.secret, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, 0, agg.calls)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	w := serve(t, &fakeAggregator{}, "", httptest.NewRequest(http.MethodOptions, "/profile/alice", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")

	w := serve(t, &fakeAggregator{}, "", req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
