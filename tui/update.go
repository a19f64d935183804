// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/config"
	"github.com/goflix/goflix/internal/ui"
	"github.com/goflix/goflix/session"
	"github.com/goflix/goflix/util"
	"github.com/samber/mo"
)

const volumeStep = 0.1

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case snapshotMsg:
		// a signal from a session that has been closed since
		if msg.done != b.closed || b.controller == nil {
			return b, tea.Batch(cmds...)
		}
		b.snapshot = b.controller.Snapshot()
		return b, tea.Batch(append(cmds, b.waitForSnapshot())...)
	case commandDoneMsg:
		return b, tea.Batch(append(cmds, b.handleCommandDone(msg))...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var (
		model tea.Model
		cmd   tea.Cmd
	)

	switch b.state {
	case loadingState:
		model, cmd = b.updateLoading(msg)
	case homeState:
		model, cmd = b.updateHome(msg)
	case titlesState:
		model, cmd = b.updateTitles(msg)
	case searchState:
		model, cmd = b.updateSearch(msg)
	case playerState:
		model, cmd = b.updatePlayer(msg)
	case errorState:
		model, cmd = b.updateError(msg)
	default:
		model = b
	}

	return model, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case *catalog.Catalog:
		cmd := b.setCatalog(msg)
		b.newState(homeState)
		return b, cmd
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.back) {
			return b, tea.Quit
		}
	}

	return b, nil
}

func (b *statefulBubble) openSearch() tea.Cmd {
	b.newState(searchState)
	b.searchC.Focus()
	return tea.Batch(textinput.Blink, b.refreshSearch())
}

func (b *statefulBubble) updateHome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.categoriesC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.search):
			return b, b.openSearch()
		case bubblesKey.Matches(msg, b.keymap.confirm):
			item, ok := b.categoriesC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			cmd = b.showCategory(item.internal.(*catalog.Category))
			b.newState(titlesState)
			return b, cmd
		}
	}

	b.categoriesC, cmd = b.categoriesC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) play(title catalog.Title) tea.Cmd {
	b.selectedTitle = title
	b.newState(playerState)
	return b.startSession(title)
}

func (b *statefulBubble) updateTitles(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.titlesC.FilterState() == list.Filtering {
			break
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.titlesC.FilterState() != list.Unfiltered {
				break
			}
			b.titlesC.ResetSelected()
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.search):
			return b, b.openSearch()
		case bubblesKey.Matches(msg, b.keymap.play):
			item, ok := b.titlesC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			return b, b.play(*item.internal.(*catalog.Title))
		}
	}

	b.titlesC, cmd = b.titlesC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.searchC.Reset()
			b.searchC.Blur()
			b.searchSuggestions = nil
			b.previousState()
			return b, b.resultsC.SetItems(nil)
		case bubblesKey.Matches(msg, b.keymap.play):
			item, ok := b.resultsC.SelectedItem().(*listItem)
			if !ok {
				return b, nil
			}
			b.searchC.Blur()
			return b, b.play(item.internal.(*catalog.Match).Title)
		case bubblesKey.Matches(msg, b.keymap.up, b.keymap.down):
			// letters stay in the input, only arrows move the selection
			if msg.Type == tea.KeyUp || msg.Type == tea.KeyDown {
				b.resultsC, cmd = b.resultsC.Update(msg)
				return b, cmd
			}
		}
	}

	before := b.searchC.Value()
	b.searchC, cmd = b.searchC.Update(msg)
	if b.searchC.Value() != before {
		cmd = tea.Batch(cmd, b.refreshSearch())
	}
	return b, cmd
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scrubCommitMsg:
		return b, b.commitScrub(msg.gen)
	case tea.KeyMsg:
		if b.commenting {
			return b.updateComment(msg)
		}
		if b.controller == nil {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			teardown := b.closeSession()
			if b.statesHistory.Len() == 0 {
				return b, tea.Sequence(teardown, tea.Quit)
			}
			b.previousState()
			return b, teardown
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.playPause):
			b.controller.ShowControlsTransient()
			return b, b.run(session.OpPlay, func(ctx context.Context, c *session.Controller) error {
				return c.TogglePlayPause(ctx)
			})
		case bubblesKey.Matches(msg, b.keymap.scrubBack):
			return b, b.scrubBy(-config.SeekStep().Milliseconds())
		case bubblesKey.Matches(msg, b.keymap.scrubForward):
			return b, b.scrubBy(config.SeekStep().Milliseconds())
		case bubblesKey.Matches(msg, b.keymap.mute):
			b.controller.ShowControlsTransient()
			return b, b.run(session.OpVolume, func(ctx context.Context, c *session.Controller) error {
				return c.ToggleMute(ctx)
			})
		case bubblesKey.Matches(msg, b.keymap.volumeUp, b.keymap.volumeDown):
			step := volumeStep
			if bubblesKey.Matches(msg, b.keymap.volumeDown) {
				step = -volumeStep
			}
			target := b.snapshot.Volume + step
			b.controller.ShowControlsTransient()
			return b, b.run(session.OpVolume, func(ctx context.Context, c *session.Controller) error {
				return c.SetVolume(ctx, target)
			})
		case bubblesKey.Matches(msg, b.keymap.fullscreen):
			return b, b.run("fullscreen", func(ctx context.Context, c *session.Controller) error {
				return c.ToggleFullscreen(ctx)
			})
		case bubblesKey.Matches(msg, b.keymap.toggleControls):
			b.controller.ToggleControls()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.retry):
			if b.snapshot.Phase != session.Error {
				return b, nil
			}
			return b, b.load(func(ctx context.Context, c *session.Controller) error {
				return c.RetryLoad(ctx)
			})
		case bubblesKey.Matches(msg, b.keymap.comment):
			b.commenting = true
			b.commentC.Focus()
			return b, textinput.Blink
		case bubblesKey.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
			return b, nil
		}
	}

	return b, nil
}

// scrubBy moves the pending scrub target and schedules its commit.
// Repeated presses accumulate into one seek.
func (b *statefulBubble) scrubBy(deltaMillis int64) tea.Cmd {
	if b.snapshot.Phase != session.Ready {
		return nil
	}

	b.controller.ShowControlsTransient()

	base := b.scrub.OrElse(b.snapshot.Playback.PositionMillis)
	target := util.Max(base+deltaMillis, 0)
	if duration := b.snapshot.Playback.DurationMillis; duration > 0 {
		target = util.Min(target, duration)
	}

	b.scrub = mo.Some(target)
	b.scrubGen++
	gen := b.scrubGen

	return tea.Tick(scrubSettle, func(time.Time) tea.Msg {
		return scrubCommitMsg{gen: gen}
	})
}

func (b *statefulBubble) commitScrub(gen int) tea.Cmd {
	target, ok := b.scrub.Get()
	if !ok || gen != b.scrubGen {
		return nil
	}
	b.scrub = mo.None[int64]()

	return b.run(session.OpSeek, func(ctx context.Context, c *session.Controller) error {
		return c.Seek(ctx, target)
	})
}

func (b *statefulBubble) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case bubblesKey.Matches(msg, b.keymap.back):
		b.commenting = false
		b.commentC.Blur()
		return b, nil
	case bubblesKey.Matches(msg, b.keymap.submitComment):
		if b.controller == nil {
			return b, nil
		}
		if _, ok := b.controller.AddComment(b.commentC.Value()); !ok {
			return b, nil
		}
		b.commentC.Reset()
		b.commenting = false
		b.commentC.Blur()
		b.snapshot = b.controller.Snapshot()
		return b, ui.Notify("Comment posted")
	}

	var cmd tea.Cmd
	b.commentC, cmd = b.commentC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() == 0 {
				return b, tea.Quit
			}
			b.previousState()
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	return b, nil
}
