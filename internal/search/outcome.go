package search

import "github.com/spiffcs/gitsearch/internal/model"

// Status is the lifecycle position of a lookup.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "idle"
	}
}

// Outcome is the state of the user search: Idle, Loading, Success with
// Users, or Failure with Kind and Message.
type Outcome struct {
	Status  Status
	Users   []model.User
	Kind    ErrorKind
	Message string
}

// RepositoryState is the state of the repository listing for Username.
// Unlike the search, a failure replaces whatever was shown before.
type RepositoryState struct {
	Status       Status
	Username     string
	Repositories []model.Repository
	Kind         ErrorKind
	Message      string
}

// Snapshot is a copy of everything the controller publishes. Slices are
// shared with the controller and must be treated as read-only.
type Snapshot struct {
	// Query is the raw input, echoed as soon as it is set.
	Query string
	// Outcome is the state of the latest issued search.
	Outcome Outcome
	// Results is the last successful user list. A failed search leaves it
	// untouched; a blank query empties it.
	Results []model.User
	// ErrorMessage is the message of the last failed search, cleared by a
	// success or a blank query.
	ErrorMessage string
	Repositories RepositoryState
}
