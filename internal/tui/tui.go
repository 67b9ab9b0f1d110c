// Package tui implements the interactive search screens on Bubble Tea.
package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/spiffcs/gitsearch/internal/ghclient"
	"github.com/spiffcs/gitsearch/internal/search"
)

// Controller is the part of *search.Controller the screens drive.
type Controller interface {
	SetQuery(text string)
	FetchRepositories(username string)
	ResetRepositories()
	Subscribe() (<-chan search.Snapshot, func())
}

// RateSource reports the quota observed by the API client.
type RateSource interface {
	Status(resource string) (ghclient.RateLimitStatus, bool)
}

// Run starts the TUI and blocks until the user quits.
func Run(ctrl Controller, opts ...ModelOption) error {
	model := NewModel(ctrl, opts...)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// ShouldUseTUI returns true if the TUI should be used based on environment.
func ShouldUseTUI() bool {
	// Check if stdin and stdout are TTYs
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}

	// Check for CI environment variables
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"GITLAB_CI",
		"BUILDKITE",
	}

	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return false
		}
	}

	return true
}
