// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init loads the catalog, or opens the player directly when a title was given.
func (b *statefulBubble) Init() tea.Cmd {
	if b.state == playerState {
		return tea.Batch(b.spinnerC.Tick, b.startSession(b.selectedTitle))
	}

	return tea.Batch(b.spinnerC.Tick, b.loadCatalog())
}
