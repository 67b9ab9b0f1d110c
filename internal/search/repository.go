package search

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v57/github"

	"github.com/spiffcs/gitsearch/internal/constants"
	"github.com/spiffcs/gitsearch/internal/log"
	"github.com/spiffcs/gitsearch/internal/model"
)

// API is the subset of the GitHub client the repository depends on.
type API interface {
	SearchUsers(ctx context.Context, query string) (*model.UserSearchResult, *gh.Response, error)
	ListRepositories(ctx context.Context, username string) ([]model.Repository, *gh.Response, error)
}

// Repository turns API responses into results or classified *Error
// values. It holds no state; every call is independent.
type Repository struct {
	api API
}

// NewRepository creates a repository backed by api.
func NewRepository(api API) *Repository {
	return &Repository{api: api}
}

// SearchUsers looks up users matching query. Failures are *Error, except
// context cancellation which is returned as is so callers can drop it.
func (r *Repository) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	result, resp, err := r.api.SearchUsers(ctx, query)
	log.Debug("search users response", "query", query,
		"status", statusCode(resp), "rate_limit_remaining", header(resp, constants.HeaderRateRemaining))

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		status, ok := failedStatus(resp)
		switch {
		case !ok:
			return nil, newError(NetworkError, 0, err, "%s: %v", constants.MsgNetworkError, rootCause(err))
		// Rate limiting is checked first: a 403 without an exhausted quota
		// falls through to the generic branch.
		case status == http.StatusForbidden && quotaExhausted(resp, err):
			return nil, newError(RateLimited, status, err, "%s", constants.MsgRateLimited)
		case status == http.StatusNotFound:
			return nil, newError(NotFound, status, err, "%s", constants.MsgNoUsersFound)
		default:
			return nil, newError(APIError, status, err, "%s%s", constants.MsgAPIErrorPrefix, statusMessage(resp))
		}
	}

	if result == nil {
		return nil, newError(UnexpectedError, statusCode(resp), nil, "%s", constants.MsgUnexpected)
	}
	if result.Users == nil {
		return []model.User{}, nil
	}
	return result.Users, nil
}

// ListRepositories lists a user's repositories. Unlike SearchUsers, an
// exhausted quota is reported as a plain APIError.
func (r *Repository) ListRepositories(ctx context.Context, username string) ([]model.Repository, error) {
	if strings.TrimSpace(username) == "" {
		return nil, newError(NotFound, 0, nil, "%s", constants.MsgUserNotFound)
	}

	repos, resp, err := r.api.ListRepositories(ctx, username)
	log.Debug("list repositories response", "username", username, "status", statusCode(resp))

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		status, ok := failedStatus(resp)
		switch {
		case !ok:
			return nil, newError(NetworkError, 0, err, "%s: %v", constants.MsgNetworkError, rootCause(err))
		case status == http.StatusNotFound:
			return nil, newError(NotFound, status, err, "%s", constants.MsgUserNotFound)
		default:
			return nil, newError(APIError, status, err, "%s%s", constants.MsgAPIErrorPrefix, statusMessage(resp))
		}
	}

	if repos == nil {
		return []model.Repository{}, nil
	}
	return repos, nil
}

// failedStatus returns the HTTP status of a non-2xx response. A missing
// response, or a 2xx one whose body could not be decoded, is a transport
// problem and reports false.
func failedStatus(resp *gh.Response) (int, bool) {
	if resp == nil || resp.Response == nil {
		return 0, false
	}
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return code, false
	}
	return code, true
}

// quotaExhausted reports whether a 403 was caused by the rate limit.
// go-github refuses requests locally once it has seen an exhausted quota,
// synthesizing a 403 RateLimitError without headers; that counts too.
func quotaExhausted(resp *gh.Response, err error) bool {
	if remaining, convErr := strconv.Atoi(header(resp, constants.HeaderRateRemaining)); convErr == nil && remaining == 0 {
		return true
	}
	var rateErr *gh.RateLimitError
	return errors.As(err, &rateErr)
}

// statusMessage returns the reason phrase of the status line ("Not Found"
// for "404 Not Found").
func statusMessage(resp *gh.Response) string {
	if resp == nil || resp.Response == nil {
		return ""
	}
	code := strconv.Itoa(resp.StatusCode)
	if msg := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode)
}

func statusCode(resp *gh.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func header(resp *gh.Response, name string) string {
	if resp == nil || resp.Response == nil || resp.Header == nil {
		return ""
	}
	return resp.Header.Get(name)
}

// rootCause strips the wrapping added by the client so messages read
// "Network error: connection refused" rather than repeating the call site.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
