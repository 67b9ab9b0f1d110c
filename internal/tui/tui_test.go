package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiffcs/gitsearch/internal/ghclient"
	"github.com/spiffcs/gitsearch/internal/model"
	"github.com/spiffcs/gitsearch/internal/search"
)

type fakeController struct {
	queries      []string
	fetched      []string
	resets       int
	updates      chan search.Snapshot
	unsubscribed bool
}

func newFakeController() *fakeController {
	return &fakeController{updates: make(chan search.Snapshot, 1)}
}

func (f *fakeController) SetQuery(text string)              { f.queries = append(f.queries, text) }
func (f *fakeController) FetchRepositories(username string) { f.fetched = append(f.fetched, username) }
func (f *fakeController) ResetRepositories()                { f.resets++ }

func (f *fakeController) Subscribe() (<-chan search.Snapshot, func()) {
	return f.updates, func() { f.unsubscribed = true }
}

type fakeRates map[string]ghclient.RateLimitStatus

func (f fakeRates) Status(resource string) (ghclient.RateLimitStatus, bool) {
	s, ok := f[resource]
	return s, ok
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return updated, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func successSnapshot(query string, logins ...string) search.Snapshot {
	users := make([]model.User, 0, len(logins))
	for _, l := range logins {
		users = append(users, model.User{Login: l})
	}
	return search.Snapshot{
		Query:   query,
		Outcome: search.Outcome{Status: search.StatusSuccess, Users: users},
		Results: users,
	}
}

func TestTypingForwardsQuery(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl)

	m, _ = update(t, m, runes("g"))
	m, _ = update(t, m, runes("o"))
	m, _ = update(t, m, key(tea.KeyBackspace))

	assert.Equal(t, []string{"g", "go", "g"}, ctrl.queries)
	assert.Equal(t, "g", m.input.Value())
}

func TestNavigationKeysDoNotChangeQuery(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl)

	m, _ = update(t, m, key(tea.KeyDown))
	_, _ = update(t, m, key(tea.KeyUp))

	assert.Empty(t, ctrl.queries)
}

func TestSnapshotRendersResults(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl)

	m, cmd := update(t, m, snapshotMsg{snapshot: successSnapshot("tor", "torvalds", "tor")})
	assert.NotNil(t, cmd, "model keeps listening for snapshots")

	view := m.View()
	assert.Contains(t, view, "torvalds")
	assert.Contains(t, view, "2 users")
}

func TestSearchStatusLine(t *testing.T) {
	tests := []struct {
		name string
		snap search.Snapshot
		want string
	}{
		{
			name: "idle",
			snap: search.Snapshot{},
			want: "Start typing to search GitHub users",
		},
		{
			name: "loading",
			snap: search.Snapshot{Query: "tor", Outcome: search.Outcome{Status: search.StatusLoading}},
			want: "Searching...",
		},
		{
			name: "no users",
			snap: successSnapshot("zzzz"),
			want: "No users found",
		},
		{
			name: "failure",
			snap: search.Snapshot{
				Query:        "tor",
				Outcome:      search.Outcome{Status: search.StatusFailure, Kind: search.RateLimited, Message: "GitHub API rate limit exceeded"},
				ErrorMessage: "GitHub API rate limit exceeded",
			},
			want: "GitHub API rate limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(newFakeController())
			m, _ = update(t, m, snapshotMsg{snapshot: tt.snap})
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestFailureKeepsPreviousResultsVisible(t *testing.T) {
	m := NewModel(newFakeController())
	snap := successSnapshot("tor", "torvalds")
	snap.Outcome = search.Outcome{Status: search.StatusFailure, Kind: search.NetworkError, Message: "Network error: timeout"}
	snap.ErrorMessage = "Network error: timeout"

	m, _ = update(t, m, snapshotMsg{snapshot: snap})
	view := m.View()
	assert.Contains(t, view, "torvalds")
	assert.Contains(t, view, "Network error: timeout")
}

func TestEnterOpensRepositories(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl)
	m, _ = update(t, m, snapshotMsg{snapshot: successSnapshot("tor", "torvalds", "tor", "tornado")})

	m, _ = update(t, m, key(tea.KeyDown))
	m, _ = update(t, m, key(tea.KeyDown))
	m, _ = update(t, m, key(tea.KeyDown))
	assert.Equal(t, 2, m.userCursor, "cursor stops at the last row")

	m, _ = update(t, m, key(tea.KeyUp))
	m, _ = update(t, m, key(tea.KeyEnter))

	assert.Equal(t, []string{"tor"}, ctrl.fetched)
	assert.Equal(t, screenRepositories, m.screen)
	assert.False(t, m.input.Focused())
}

func TestEnterWithoutResultsDoesNothing(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl)

	m, _ = update(t, m, key(tea.KeyEnter))
	assert.Empty(t, ctrl.fetched)
	assert.Equal(t, screenSearch, m.screen)
}

func TestCursorClampedWhenResultsShrink(t *testing.T) {
	m := NewModel(newFakeController())
	m, _ = update(t, m, snapshotMsg{snapshot: successSnapshot("t", "a", "b", "c")})
	m, _ = update(t, m, key(tea.KeyDown))
	m, _ = update(t, m, key(tea.KeyDown))
	require.Equal(t, 2, m.userCursor)

	m, _ = update(t, m, snapshotMsg{snapshot: successSnapshot("to", "a")})
	assert.Equal(t, 0, m.userCursor)
}

func repositorySnapshot(status search.Status, repos ...model.Repository) search.Snapshot {
	snap := successSnapshot("tor", "torvalds")
	snap.Repositories = search.RepositoryState{Status: status, Username: "torvalds", Repositories: repos}
	return snap
}

func TestRepositoryScreen(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl)
	m, _ = update(t, m, snapshotMsg{snapshot: successSnapshot("tor", "torvalds")})
	m, _ = update(t, m, key(tea.KeyEnter))

	m, _ = update(t, m, snapshotMsg{snapshot: repositorySnapshot(search.StatusLoading)})
	assert.Contains(t, m.View(), "Loading repositories...")

	lang := "C"
	m, _ = update(t, m, snapshotMsg{snapshot: repositorySnapshot(search.StatusSuccess,
		model.Repository{Name: "linux", StarCount: 170512, Language: &lang, URL: "https://github.com/torvalds/linux"},
		model.Repository{Name: "subsurface", StarCount: 2000},
	)})

	view := m.View()
	assert.Contains(t, view, "Repositories of torvalds")
	assert.Contains(t, view, "linux")
	assert.Contains(t, view, "170k")
	assert.Contains(t, view, "subsurface")

	m, _ = update(t, m, runes("j"))
	assert.Equal(t, 1, m.repoCursor)
	m, _ = update(t, m, runes("g"))
	assert.Equal(t, 0, m.repoCursor)

	_, cmd := update(t, m, key(tea.KeyEnter))
	assert.NotNil(t, cmd, "enter opens the repository in a browser")

	m, _ = update(t, m, runes("r"))
	assert.Equal(t, []string{"torvalds", "torvalds"}, ctrl.fetched)

	m, cmd = update(t, m, key(tea.KeyEsc))
	assert.Equal(t, screenSearch, m.screen)
	assert.Equal(t, 1, ctrl.resets)
	assert.True(t, m.input.Focused())
	_ = cmd
}

func TestRepositoryScreenStates(t *testing.T) {
	m := NewModel(newFakeController())
	m, _ = update(t, m, snapshotMsg{snapshot: successSnapshot("tor", "torvalds")})
	m, _ = update(t, m, key(tea.KeyEnter))

	failed := repositorySnapshot(search.StatusFailure)
	failed.Repositories.Kind = search.NotFound
	failed.Repositories.Message = "User not found"
	m, _ = update(t, m, snapshotMsg{snapshot: failed})
	assert.Contains(t, m.View(), "User not found")

	m, _ = update(t, m, snapshotMsg{snapshot: repositorySnapshot(search.StatusSuccess)})
	assert.Contains(t, m.View(), "No public repositories.")

	_, cmd := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd, "nothing to open")
}

func TestRepositoryWithoutURL(t *testing.T) {
	m := NewModel(newFakeController())
	m, _ = update(t, m, snapshotMsg{snapshot: successSnapshot("tor", "torvalds")})
	m, _ = update(t, m, key(tea.KeyEnter))
	m, _ = update(t, m, snapshotMsg{snapshot: repositorySnapshot(search.StatusSuccess, model.Repository{Name: "linux"})})

	m, cmd := update(t, m, runes("o"))
	assert.NotNil(t, cmd)
	assert.Equal(t, "No URL available", m.statusMsg)

	m, _ = update(t, m, clearStatusMsg{})
	assert.Empty(t, m.statusMsg)
}

func TestQuitKeys(t *testing.T) {
	t.Run("esc on search screen", func(t *testing.T) {
		m, cmd := update(t, NewModel(newFakeController()), key(tea.KeyEsc))
		assert.True(t, m.quitting)
		assert.NotNil(t, cmd)
		assert.Empty(t, m.View())
	})

	t.Run("ctrl+c anywhere", func(t *testing.T) {
		m, _ := update(t, NewModel(newFakeController()), key(tea.KeyCtrlC))
		assert.True(t, m.quitting)
	})

	t.Run("q is typed on the search screen", func(t *testing.T) {
		ctrl := newFakeController()
		m, _ := update(t, NewModel(ctrl), runes("q"))
		assert.False(t, m.quitting)
		assert.Equal(t, []string{"q"}, ctrl.queries)
	})

	t.Run("q quits on the repository screen", func(t *testing.T) {
		m := NewModel(newFakeController())
		m, _ = update(t, m, snapshotMsg{snapshot: successSnapshot("tor", "torvalds")})
		m, _ = update(t, m, key(tea.KeyEnter))
		m, _ = update(t, m, runes("q"))
		assert.True(t, m.quitting)
	})

	t.Run("controller closed", func(t *testing.T) {
		m, cmd := update(t, NewModel(newFakeController()), subscriptionClosedMsg{})
		assert.True(t, m.quitting)
		assert.NotNil(t, cmd)
	})
}

func TestRateWarning(t *testing.T) {
	tests := []struct {
		name   string
		status ghclient.RateLimitStatus
		want   string
	}{
		{
			name:   "exhausted",
			status: ghclient.RateLimitStatus{Resource: "search", Remaining: 0, Limit: 10, ResetAt: time.Now().Add(45 * time.Minute)},
			want:   "Search rate limit reached",
		},
		{
			name:   "running low",
			status: ghclient.RateLimitStatus{Resource: "search", Remaining: 2, Limit: 10, ResetAt: time.Now().Add(time.Minute)},
			want:   "2 of 10 searches left",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(newFakeController(), WithRateSource(fakeRates{"search": tt.status}))
			assert.Contains(t, m.View(), tt.want)
		})
	}

	t.Run("plenty left", func(t *testing.T) {
		status := ghclient.RateLimitStatus{Resource: "search", Remaining: 9, Limit: 10}
		m := NewModel(newFakeController(), WithRateSource(fakeRates{"search": status}))
		assert.NotContains(t, m.View(), "rate limit")
	})

	t.Run("stale quota after reset", func(t *testing.T) {
		status := ghclient.RateLimitStatus{Resource: "search", Remaining: 0, Limit: 30, ResetAt: time.Now().Add(-time.Second)}
		m := NewModel(newFakeController(), WithRateSource(fakeRates{"search": status}))
		view := m.View()
		assert.NotContains(t, view, "searches left")
		assert.NotContains(t, view, "rate limit")
	})
}

func TestWithInitialQuery(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl, WithInitialQuery("torvalds"))

	assert.Equal(t, []string{"torvalds"}, ctrl.queries)
	assert.Equal(t, "torvalds", m.input.Value())
}

func TestCloseUnsubscribes(t *testing.T) {
	ctrl := newFakeController()
	m := NewModel(ctrl)
	m.Close()
	assert.True(t, ctrl.unsubscribed)
}

func TestWaitForSnapshot(t *testing.T) {
	ch := make(chan search.Snapshot, 1)
	ch <- search.Snapshot{Query: "go"}

	msg := waitForSnapshot(ch)()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	assert.Equal(t, "go", snap.snapshot.Query)

	close(ch)
	_, ok = waitForSnapshot(ch)().(subscriptionClosedMsg)
	assert.True(t, ok)
}

func TestCalculateScrollWindow(t *testing.T) {
	tests := []struct {
		cursor, total, height int
		start, end            int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 10, 0, 10},
		{10, 20, 10, 5, 15},
		{19, 20, 10, 10, 20},
	}
	for _, tt := range tests {
		start, end := calculateScrollWindow(tt.cursor, tt.total, tt.height)
		assert.Equal(t, tt.start, start, "start for %+v", tt)
		assert.Equal(t, tt.end, end, "end for %+v", tt)
	}
}

func TestShouldUseTUIInCI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.False(t, ShouldUseTUI())
}
