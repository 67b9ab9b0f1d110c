package search

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed lookup.
type ErrorKind int

const (
	// UnexpectedError covers failures that fit no other kind.
	UnexpectedError ErrorKind = iota
	// NotFound means GitHub answered 404.
	NotFound
	// RateLimited means the search quota is exhausted (403 with no requests remaining).
	RateLimited
	// APIError is any other non-2xx answer.
	APIError
	// NetworkError means the request never produced a usable response:
	// transport failure, timeout or malformed JSON.
	NetworkError
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case RateLimited:
		return "rate_limited"
	case APIError:
		return "api_error"
	case NetworkError:
		return "network_error"
	default:
		return "unexpected_error"
	}
}

// Sentinel errors matched by errors.Is against an *Error of the same kind.
var (
	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
	ErrAPI         = errors.New("api error")
	ErrNetwork     = errors.New("network error")
	ErrUnexpected  = errors.New("unexpected error")
)

var kindSentinels = map[ErrorKind]error{
	NotFound:        ErrNotFound,
	RateLimited:     ErrRateLimited,
	APIError:        ErrAPI,
	NetworkError:    ErrNetwork,
	UnexpectedError: ErrUnexpected,
}

// Error is a classified lookup failure. Message is fit for display.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int   // HTTP status, zero when no response was received
	Err        error // underlying cause
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the kind of a classified error, or UnexpectedError for
// anything else.
func KindOf(err error) ErrorKind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return UnexpectedError
}

func newError(kind ErrorKind, status int, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: status,
		Err:        cause,
	}
}
