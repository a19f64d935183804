// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/player"
	"github.com/samber/mo"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Play opens the player screen for this title instead of the home screen.
	Play mo.Option[catalog.Title]

	// Engine creates the playback engine for each player session.
	Engine func() player.Engine
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)

	if title, ok := options.Play.Get(); ok {
		bubble.selectedTitle = title
		bubble.newState(playerState)
	} else {
		bubble.newState(loadingState)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	if teardown := bubble.closeSession(); teardown != nil {
		teardown()
	}
	return err
}
