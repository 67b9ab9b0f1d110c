// Package ghclient provides the GitHub REST API client used by gitsearch.
// It issues read-only requests and converts responses into model types;
// it never retries, caches, or classifies failures.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/time/rate"

	"github.com/spiffcs/gitsearch/internal/constants"
	"github.com/spiffcs/gitsearch/internal/log"
	"github.com/spiffcs/gitsearch/internal/model"
)

// rateLimitTransport wraps an http.RoundTripper to record GitHub rate
// limits and, optionally, throttle outgoing requests.
type rateLimitTransport struct {
	base    http.RoundTripper
	state   *RateLimitState
	limiter *rate.Limiter // nil disables throttling
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		// Wait returns as soon as the request context is cancelled, so a
		// superseded lookup never sits in the queue.
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	log.Debug("github request", "method", req.Method, "url", req.URL.String())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	status := parseRateLimitHeaders(resp)
	if status.Remaining >= 0 && status.Limit > 0 {
		t.state.Update(status)
		log.Trace("rate limit", "resource", status.Resource, "remaining", status.Remaining, "limit", status.Limit)
	}

	if status.Remaining >= 0 && status.Remaining <= constants.RateLimitLowWatermark {
		log.Debug("rate limit low", "resource", status.Resource, "remaining", status.Remaining,
			"resets_at", status.ResetAt.Format(time.RFC3339))
	}

	return resp, nil
}

// Client wraps the GitHub API client.
type Client struct {
	client    *gh.Client
	rateState *RateLimitState
	perPage   int
}

type clientConfig struct {
	baseURL    string
	userAgent  string
	timeout    time.Duration
	perPage    int
	rps        float64
	httpClient *http.Client
}

// Option is a functional option for configuring a Client.
type Option func(*clientConfig)

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(u string) Option {
	return func(c *clientConfig) {
		c.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithPerPage sets the search page size.
func WithPerPage(n int) Option {
	return func(c *clientConfig) {
		c.perPage = n
	}
}

// WithRequestsPerSecond enables proactive throttling. Zero disables it.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *clientConfig) {
		c.rps = rps
	}
}

// WithHTTPClient supplies the base HTTP client. Its transport is wrapped,
// and its timeout is overridden when WithTimeout is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// NewClient creates an unauthenticated GitHub client.
func NewClient(opts ...Option) (*Client, error) {
	cfg := clientConfig{
		baseURL:   constants.DefaultAPIURL,
		userAgent: constants.DefaultUserAgent,
		timeout:   constants.DefaultTimeout,
		perPage:   constants.DefaultPerPage,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.perPage <= 0 || cfg.perPage > constants.MaxPerPage {
		return nil, fmt.Errorf("per_page must be between 1 and %d, got %d", constants.MaxPerPage, cfg.perPage)
	}
	if cfg.rps < 0 {
		return nil, fmt.Errorf("requests_per_second must not be negative, got %v", cfg.rps)
	}

	baseURL := cfg.baseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: scheme and host are required", cfg.baseURL)
	}

	hc := &http.Client{}
	if cfg.httpClient != nil {
		copied := *cfg.httpClient
		hc = &copied
	}
	if cfg.timeout > 0 {
		hc.Timeout = cfg.timeout
	}

	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	state := NewRateLimitState()
	transport := &rateLimitTransport{base: base, state: state}
	if cfg.rps > 0 {
		transport.limiter = rate.NewLimiter(rate.Limit(cfg.rps), 1)
	}
	hc.Transport = transport

	client := gh.NewClient(hc)
	client.BaseURL = parsed
	client.UserAgent = cfg.userAgent

	return &Client{
		client:    client,
		rateState: state,
		perPage:   cfg.perPage,
	}, nil
}

// RateLimitState returns the quota observed on responses so far.
func (c *Client) RateLimitState() *RateLimitState {
	return c.rateState
}

// PerPage returns the configured search page size.
func (c *Client) PerPage() int {
	return c.perPage
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// SearchUsers runs a user search and returns the first page. The query
// must be non-empty. The response is returned alongside any error so the
// caller can inspect the status and headers.
func (c *Client) SearchUsers(ctx context.Context, query string) (*model.UserSearchResult, *gh.Response, error) {
	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{
			PerPage: c.perPage,
		},
	}

	result, resp, err := c.client.Search.Users(ctx, query, opts)
	if err != nil {
		return nil, resp, fmt.Errorf("failed to search users: %w", err)
	}

	users := make([]model.User, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, model.User{
			Login:     u.GetLogin(),
			AvatarURL: u.GetAvatarURL(),
		})
	}

	return &model.UserSearchResult{
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
		Users:             users,
	}, resp, nil
}

// ListRepositories fetches the public repositories of a user (first page
// only).
func (c *Client) ListRepositories(ctx context.Context, username string) ([]model.Repository, *gh.Response, error) {
	repos, resp, err := c.client.Repositories.List(ctx, username, nil)
	if err != nil {
		return nil, resp, fmt.Errorf("failed to list repositories for %s: %w", username, err)
	}

	out := make([]model.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, repositoryFromGitHub(r))
	}
	return out, resp, nil
}

func repositoryFromGitHub(r *gh.Repository) model.Repository {
	stars := r.GetStargazersCount()
	if stars < 0 {
		stars = 0
	}
	return model.Repository{
		Name:        r.GetName(),
		StarCount:   stars,
		Language:    r.Language,
		Description: r.Description,
		URL:         r.GetHTMLURL(),
	}
}
