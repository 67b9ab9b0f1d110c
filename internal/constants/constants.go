// Package constants provides a centralized location for the defaults and
// user-facing messages used throughout the gitsearch application.
package constants

import "time"

// Search pipeline constants
const (
	// DefaultDebounce is how long the query must stay unchanged before a
	// lookup is issued.
	DefaultDebounce = 300 * time.Millisecond

	// DefaultPerPage is the number of users requested per search.
	DefaultPerPage = 5

	// MaxPerPage is the largest page size the search API accepts.
	MaxPerPage = 100
)

// HTTP client constants
const (
	// DefaultAPIURL is the GitHub REST API root. It must end with a slash.
	DefaultAPIURL = "https://api.github.com/"

	// DefaultTimeout bounds every HTTP request so superseded or stuck
	// lookups cannot leak.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is sent on every request.
	DefaultUserAgent = "gitsearch"
)

// Rate limiting constants
const (
	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged. Unauthenticated search allows 10 requests a
	// minute, so this is deliberately small.
	RateLimitLowWatermark = 3

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateLimit is the quota header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"
)

// User-facing messages
const (
	MsgNoUsersFound   = "No users found"
	MsgUserNotFound   = "User not found"
	MsgRateLimited    = "GitHub API rate limit exceeded"
	MsgNetworkError   = "Network error"
	MsgUnexpected     = "An unexpected error occurred"
	MsgAPIErrorPrefix = "Error: "
)

// Output constants
const (
	// TruncationSuffixWidth is the width of the "..." suffix when truncating strings.
	TruncationSuffixWidth = 3
)
