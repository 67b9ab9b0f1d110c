package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/gitsearch/internal/model"
	"github.com/spiffcs/gitsearch/internal/output"
	"github.com/spiffcs/gitsearch/internal/search"
)

// screen is the view currently shown
type screen int

const (
	screenSearch screen = iota
	screenRepositories
)

const statusTimeout = 2 * time.Second

// Model is the Bubble Tea model for the search and repository screens.
// It keeps a copy of the latest controller snapshot and never mutates
// search state itself; keystrokes are forwarded to the controller.
type Model struct {
	ctrl        Controller
	rates       RateSource
	updates     <-chan search.Snapshot
	unsubscribe func()

	input   textinput.Model
	spinner spinner.Model
	screen  screen
	snap    search.Snapshot

	userCursor int
	repoCursor int

	windowWidth  int
	windowHeight int
	statusMsg    string
	quitting     bool
}

// ModelOption is a functional option for configuring a Model.
type ModelOption func(*Model)

// WithRateSource shows a warning when the observed search quota runs out.
func WithRateSource(r RateSource) ModelOption {
	return func(m *Model) {
		m.rates = r
	}
}

// WithInitialQuery pre-fills the search input and starts a lookup for it.
func WithInitialQuery(q string) ModelOption {
	return func(m *Model) {
		if q == "" {
			return
		}
		m.input.SetValue(q)
		m.ctrl.SetQuery(q)
	}
}

// NewModel creates a model subscribed to ctrl. Call Close when done.
func NewModel(ctrl Controller, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "Search GitHub users..."
	ti.Prompt = promptStyle.Render("> ")
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	updates, unsubscribe := ctrl.Subscribe()

	m := Model{
		ctrl:        ctrl,
		updates:     updates,
		unsubscribe: unsubscribe,
		input:       ti,
		spinner:     s,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return m
}

// Close releases the controller subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForSnapshot(m.updates),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.input.Width = max(20, msg.Width-10)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.snap = msg.snapshot
		m.clampCursors()
		return m, waitForSnapshot(m.updates)

	case subscriptionClosedMsg:
		m.quitting = true
		return m, tea.Quit

	case clearStatusMsg:
		m.statusMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.screen == screenRepositories {
		return m.handleRepositoryKey(msg)
	}
	return m.handleSearchKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	users := m.snap.Results

	switch msg.String() {
	case "esc":
		m.quitting = true
		return m, tea.Quit

	case "down", "ctrl+n":
		if m.userCursor < len(users)-1 {
			m.userCursor++
		}
		return m, nil

	case "up", "ctrl+p":
		if m.userCursor > 0 {
			m.userCursor--
		}
		return m, nil

	case "enter":
		if len(users) == 0 {
			return m, nil
		}
		login := users[m.userCursor].Login
		m.ctrl.FetchRepositories(login)
		m.screen = screenRepositories
		m.repoCursor = 0
		m.input.Blur()
		return m, nil

	case "ctrl+o":
		if len(users) == 0 {
			return m, nil
		}
		return m, openURL(output.ProfileURL(users[m.userCursor].Login))
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.SetQuery(after)
		m.userCursor = 0
	}
	return m, cmd
}

func (m Model) handleRepositoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	repos := m.repositories()

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "esc", "backspace", "left", "h":
		m.ctrl.ResetRepositories()
		m.screen = screenSearch
		return m, m.input.Focus()

	case "j", "down":
		if m.repoCursor < len(repos)-1 {
			m.repoCursor++
		}
		return m, nil

	case "k", "up":
		if m.repoCursor > 0 {
			m.repoCursor--
		}
		return m, nil

	case "g", "home":
		m.repoCursor = 0
		return m, nil

	case "G", "end":
		if len(repos) > 0 {
			m.repoCursor = len(repos) - 1
		}
		return m, nil

	case "r":
		if username := m.snap.Repositories.Username; username != "" {
			m.ctrl.FetchRepositories(username)
			m.repoCursor = 0
		}
		return m, nil

	case "enter", "o":
		if len(repos) == 0 {
			return m, nil
		}
		url := repos[m.repoCursor].URL
		if url == "" {
			m.statusMsg = "No URL available"
			return m, clearStatusAfter(statusTimeout)
		}
		return m, openURL(url)
	}

	return m, nil
}

func (m Model) repositories() []model.Repository {
	if m.snap.Repositories.Status != search.StatusSuccess {
		return nil
	}
	return m.snap.Repositories.Repositories
}

// clampCursors keeps the cursors inside lists that may have shrunk.
func (m *Model) clampCursors() {
	m.userCursor = clamp(m.userCursor, len(m.snap.Results))
	m.repoCursor = clamp(m.repoCursor, len(m.repositories()))
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen == screenRepositories {
		return renderRepositoryView(m)
	}
	return renderSearchView(m)
}
