package ghclient

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spiffcs/gitsearch/internal/constants"
)

// headerRateResource names the quota bucket ("core", "search", ...) a
// response was counted against.
const headerRateResource = "X-RateLimit-Resource"

// RateLimitStatus is the last quota GitHub reported for one resource.
type RateLimitStatus struct {
	Resource  string
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Limited reports whether the quota is exhausted and has not reset yet.
func (s RateLimitStatus) Limited() bool {
	return s.Limit > 0 && s.Remaining == 0 && time.Now().Before(s.ResetAt)
}

// RateLimitState tracks the rate limit headers seen on responses, per
// resource. It only observes; it never blocks or rejects requests.
type RateLimitState struct {
	mu        sync.RWMutex
	resources map[string]RateLimitStatus
}

// NewRateLimitState creates an empty state.
func NewRateLimitState() *RateLimitState {
	return &RateLimitState{resources: make(map[string]RateLimitStatus)}
}

// Update records the quota for a resource.
func (s *RateLimitState) Update(status RateLimitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[status.Resource] = status
}

// Status returns the last known quota for a resource.
func (s *RateLimitState) Status(resource string) (RateLimitStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.resources[resource]
	return status, ok
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// Remaining and Limit are -1 when the headers are missing or malformed.
func parseRateLimitHeaders(resp *http.Response) RateLimitStatus {
	status := RateLimitStatus{
		Resource:  "core",
		Remaining: -1,
		Limit:     -1,
	}

	if resource := resp.Header.Get(headerRateResource); resource != "" {
		status.Resource = resource
	}

	if remainingStr := resp.Header.Get(constants.HeaderRateRemaining); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			status.Remaining = rem
		}
	}

	if limitStr := resp.Header.Get(constants.HeaderRateLimit); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			status.Limit = lim
		}
	}

	if resetStr := resp.Header.Get(constants.HeaderRateReset); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			status.ResetAt = time.Unix(resetTime, 0)
		}
	}

	return status
}
