package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spiffcs/gitsearch/internal/search"
)

// snapshotMsg carries a controller snapshot into the update loop.
type snapshotMsg struct {
	snapshot search.Snapshot
}

// subscriptionClosedMsg signals that the controller stopped publishing.
type subscriptionClosedMsg struct{}

// clearStatusMsg is a message to clear the status
type clearStatusMsg struct{}

// waitForSnapshot creates a command that waits for the next snapshot.
func waitForSnapshot(updates <-chan search.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg{snapshot: snap}
	}
}

// clearStatusAfter returns a command that clears the status after a delay
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
