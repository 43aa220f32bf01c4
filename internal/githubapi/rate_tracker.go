package githubapi

import (
	"sync"
	"time"

	"github.com/google/go-github/v55/github"
)

// RateSnapshot is the upstream quota as last reported by GitHub
type RateSnapshot struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
	// Known is false until a response carrying rate headers has been seen
	Known bool `json:"known"`
}

// RateTracker records the rate limit headers of GitHub responses.
// It only observes; calls are never delayed or retried.
type RateTracker struct {
	mu   sync.Mutex
	last RateSnapshot
}

// NewRateTracker creates an empty tracker
func NewRateTracker() *RateTracker {
	return &RateTracker{}
}

// Update records the rate from a response. Responses without rate headers
// are ignored.
func (r *RateTracker) Update(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = RateSnapshot{
		Limit:     resp.Rate.Limit,
		Remaining: resp.Rate.Remaining,
		Reset:     resp.Rate.Reset.Time,
		Known:     true,
	}
}

// Snapshot returns the last recorded rate
func (r *RateTracker) Snapshot() RateSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
