// Package search implements incremental GitHub user search: a repository
// that classifies API failures, and a controller that turns fast-changing
// input into debounced, de-duplicated, cancelable lookups.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/spiffcs/gitsearch/internal/constants"
	"github.com/spiffcs/gitsearch/internal/log"
	"github.com/spiffcs/gitsearch/internal/model"
)

// Searcher is what the controller needs from a repository.
type Searcher interface {
	SearchUsers(ctx context.Context, query string) ([]model.User, error)
	ListRepositories(ctx context.Context, username string) ([]model.Repository, error)
}

// Controller owns the query and everything derived from it. All state is
// guarded by mu, which is held for state transitions only and never
// across a network call. Lookups run on their own goroutines and are
// stamped with a generation; a completion whose generation is no longer
// current is discarded, so results are published in query order no matter
// which request finishes first.
type Controller struct {
	searcher Searcher
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool

	query string

	// debounce bookkeeping; timerSeq invalidates callbacks of replaced timers
	timer    *time.Timer
	timerSeq uint64

	// distinct-until-changed
	lastSettled string
	settledOnce bool

	generation   uint64
	cancelLookup context.CancelFunc

	outcome    Outcome
	results    []model.User
	errMessage string

	repoGeneration uint64
	cancelRepos    context.CancelFunc
	repoState      RepositoryState

	subscribers map[int]chan Snapshot
	nextSubID   int
}

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*Controller)

// WithDebounce sets how long the query must stay unchanged before a
// lookup is issued. Non-positive values keep the default.
func WithDebounce(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// NewController creates a controller. Call Close to release its timer and
// cancel outstanding lookups.
func NewController(searcher Searcher, opts ...ControllerOption) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		searcher:    searcher,
		debounce:    constants.DefaultDebounce,
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQuery records text and restarts the debounce timer. It never blocks
// on I/O.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.query = text
	c.timerSeq++
	seq := c.timerSeq
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.settle(seq)
	})
	log.Trace("query updated", "query", text, "timer", seq)

	c.publishLocked()
}

// settle runs when the debounce timer for seq fires.
func (c *Controller) settle(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Stop cannot recall a callback that already started; seq catches it.
	if c.closed || seq != c.timerSeq {
		return
	}
	c.timer = nil

	value := c.query
	blank := strings.TrimSpace(value) == ""

	if c.settledOnce && value == c.lastSettled {
		log.Debug("query unchanged, skipping lookup", "query", value)
		if blank && c.errMessage != "" {
			c.errMessage = ""
			c.publishLocked()
		}
		return
	}
	c.lastSettled = value
	c.settledOnce = true

	// Any new settled value supersedes the lookup in flight, blank included.
	c.generation++
	if c.cancelLookup != nil {
		c.cancelLookup()
		c.cancelLookup = nil
	}

	if blank {
		c.results = nil
		c.errMessage = ""
		c.outcome = Outcome{Status: StatusIdle}
		c.publishLocked()
		return
	}

	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelLookup = cancel
	c.outcome = Outcome{Status: StatusLoading}
	c.publishLocked()

	go c.lookup(ctx, cancel, c.generation, value)
}

func (c *Controller) lookup(ctx context.Context, cancel context.CancelFunc, gen uint64, query string) {
	defer cancel()

	log.Info("searching users", "query", query, "generation", gen)
	users, err := c.searcher.SearchUsers(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation {
		log.Debug("discarding stale search result", "query", query, "generation", gen, "current", c.generation)
		return
	}
	c.cancelLookup = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		kind, msg := describe(err)
		log.Info("search failed", "query", query, "kind", kind, "error", msg)
		c.errMessage = msg
		c.outcome = Outcome{Status: StatusFailure, Kind: kind, Message: msg}
		c.publishLocked()
		return
	}

	log.Info("search succeeded", "query", query, "users", len(users))
	c.errMessage = ""
	c.results = users
	c.outcome = Outcome{Status: StatusSuccess, Users: users}
	c.publishLocked()
}

// FetchRepositories loads the repositories of username in the background,
// moving the repository state to Loading and then Success or Failure. A
// newer call supersedes an older one still in flight.
func (c *Controller) FetchRepositories(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.repoGeneration++
	if c.cancelRepos != nil {
		c.cancelRepos()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelRepos = cancel
	c.repoState = RepositoryState{Status: StatusLoading, Username: username}
	c.publishLocked()

	go c.loadRepositories(ctx, cancel, c.repoGeneration, username)
}

func (c *Controller) loadRepositories(ctx context.Context, cancel context.CancelFunc, gen uint64, username string) {
	defer cancel()

	log.Info("listing repositories", "username", username, "generation", gen)
	repos, err := c.searcher.ListRepositories(ctx, username)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.repoGeneration {
		log.Debug("discarding stale repository result", "username", username, "generation", gen)
		return
	}
	c.cancelRepos = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		kind, msg := describe(err)
		c.repoState = RepositoryState{Status: StatusFailure, Username: username, Kind: kind, Message: msg}
		c.publishLocked()
		return
	}

	c.repoState = RepositoryState{Status: StatusSuccess, Username: username, Repositories: repos}
	c.publishLocked()
}

// ResetRepositories returns the repository state to Idle, cancelling any
// fetch in flight.
func (c *Controller) ResetRepositories() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.repoGeneration++
	if c.cancelRepos != nil {
		c.cancelRepos()
		c.cancelRepos = nil
	}
	c.repoState = RepositoryState{}
	c.publishLocked()
}

func describe(err error) (ErrorKind, string) {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind, serr.Message
	}
	if msg := err.Error(); msg != "" {
		return UnexpectedError, msg
	}
	return UnexpectedError, constants.MsgUnexpected
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Query returns the latest raw input.
func (c *Controller) Query() string {
	return c.Snapshot().Query
}

// Outcome returns the state of the latest issued search.
func (c *Controller) Outcome() Outcome {
	return c.Snapshot().Outcome
}

// Results returns the last successful user list.
func (c *Controller) Results() []model.User {
	return c.Snapshot().Results
}

// ErrorMessage returns the message of the last failed search, or "".
func (c *Controller) ErrorMessage() string {
	return c.Snapshot().ErrorMessage
}

// RepositoryState returns the state of the repository listing.
func (c *Controller) RepositoryState() RepositoryState {
	return c.Snapshot().Repositories
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Query:        c.query,
		Outcome:      c.outcome,
		Results:      c.results,
		ErrorMessage: c.errMessage,
		Repositories: c.repoState,
	}
}

// Subscribe returns a channel that receives the current snapshot and then
// every change. The channel buffers one snapshot; an unread snapshot is
// replaced by a newer one, so a slow reader sees the latest state and
// never blocks the controller. The returned func unsubscribes and closes
// the channel.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.snapshotLocked()
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// publishLocked hands the current snapshot to every subscriber. Only the
// controller sends, and only under mu, so after draining a stale value
// the send cannot block.
func (c *Controller) publishLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close stops the debounce timer, cancels lookups in flight and closes
// subscriber channels. Further calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cancel()
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}
