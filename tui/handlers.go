// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/config"
	"github.com/goflix/goflix/internal/ui"
	"github.com/goflix/goflix/key"
	"github.com/goflix/goflix/log"
	"github.com/goflix/goflix/player"
	"github.com/goflix/goflix/session"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// snapshotMsg signals that the session behind done has a newer snapshot.
type snapshotMsg struct {
	done chan struct{}
}

// commandDoneMsg carries the result of a controller operation.
type commandDoneMsg struct {
	op  string
	err error
}

// scrubCommitMsg commits the pending scrub target once the keys settle.
type scrubCommitMsg struct {
	gen int
}

const scrubSettle = 600 * time.Millisecond

func (b *statefulBubble) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		c, err := catalog.Load()
		if err != nil {
			return err
		}
		return c
	}
}

func (b *statefulBubble) setCatalog(c *catalog.Catalog) tea.Cmd {
	b.catalog = c

	items := make([]list.Item, len(c.Categories))
	for i := range c.Categories {
		items[i] = &listItem{internal: &c.Categories[i]}
	}
	return b.categoriesC.SetItems(items)
}

func (b *statefulBubble) showCategory(category *catalog.Category) tea.Cmd {
	items := make([]list.Item, len(category.Titles))
	for i := range category.Titles {
		items[i] = &listItem{internal: &category.Titles[i]}
	}

	b.titlesC.Title = category.Name
	b.titlesC.ResetSelected()
	return b.titlesC.SetItems(items)
}

// refreshSearch recomputes the results for the current search input.
func (b *statefulBubble) refreshSearch() tea.Cmd {
	b.searchSuggestions = nil
	if b.catalog == nil {
		return nil
	}

	query := b.searchC.Value()
	matches := b.catalog.Search(query)

	items := make([]list.Item, len(matches))
	for i := range matches {
		items[i] = &listItem{internal: &matches[i]}
	}

	if len(matches) == 0 && viper.GetBool(key.SearchShowSuggestions) {
		b.searchSuggestions = b.catalog.Suggest(query, 3)
	}

	b.resultsC.ResetSelected()
	return b.resultsC.SetItems(items)
}

// startSession replaces the current player session with a new one playing title.
func (b *statefulBubble) startSession(title catalog.Title) tea.Cmd {
	teardown := b.closeSession()

	engine := b.newEngine()
	opts := session.FromConfig()
	if locker, ok := engine.(player.OrientationLocker); ok {
		opts = append(opts, session.WithOrientation(locker))
	}
	opts = append(opts, session.WithComments(lo.Map(title.Comments, func(c catalog.CommentSeed, _ int) session.Comment {
		return session.Comment{ID: c.ID, Author: c.Author, Text: c.Text}
	})...))

	controller := session.New(engine, opts...)
	signal := make(chan struct{}, 1)
	controller.Subscribe(func(session.Snapshot) {
		select {
		case signal <- struct{}{}:
		default:
		}
	})

	b.controller = controller
	b.signal = signal
	b.closed = make(chan struct{})
	b.sessionCtx, b.cancel = context.WithCancel(context.Background())
	b.snapshot = controller.Snapshot()
	b.scrub = mo.None[int64]()
	b.scrubGen++
	b.commenting = false
	b.commentC.Reset()
	b.commentC.Blur()

	log.WithField("title", title.ID).Debugf("starting player session for %s", title.VideoURL)

	url := title.VideoURL
	start := b.load(func(ctx context.Context, c *session.Controller) error {
		return c.StartSession(ctx, url)
	})

	return tea.Batch(teardown, b.waitForSnapshot(), start)
}

// closeSession detaches the current session from the bubble and returns the command tearing it down.
func (b *statefulBubble) closeSession() tea.Cmd {
	if b.controller == nil {
		return nil
	}

	controller, cancel := b.controller, b.cancel
	close(b.closed)
	b.controller = nil
	b.snapshot = session.Snapshot{}

	return func() tea.Msg {
		cancel()

		ctx, cancelTeardown := context.WithTimeout(context.Background(), commandTimeout())
		defer cancelTeardown()
		if err := controller.Teardown(ctx); err != nil {
			log.Warnf("player teardown: %s", err)
		}
		return nil
	}
}

func (b *statefulBubble) waitForSnapshot() tea.Cmd {
	signal, done := b.signal, b.closed
	return func() tea.Msg {
		select {
		case <-signal:
			return snapshotMsg{done: done}
		case <-done:
			return nil
		}
	}
}

// run executes op against the current controller, bounded by the command timeout.
func (b *statefulBubble) run(op string, fn func(ctx context.Context, c *session.Controller) error) tea.Cmd {
	if b.controller == nil {
		return nil
	}

	controller, parent := b.controller, b.sessionCtx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, commandTimeout())
		defer cancel()
		return commandDoneMsg{op: op, err: fn(ctx, controller)}
	}
}

// load is run without the command timeout: loading is bounded by the session itself.
func (b *statefulBubble) load(fn func(ctx context.Context, c *session.Controller) error) tea.Cmd {
	if b.controller == nil {
		return nil
	}

	controller, ctx := b.controller, b.sessionCtx
	return func() tea.Msg {
		return commandDoneMsg{op: "load", err: fn(ctx, controller)}
	}
}

func (b *statefulBubble) handleCommandDone(msg commandDoneMsg) tea.Cmd {
	if msg.err == nil {
		return nil
	}

	log.WithField("op", msg.op).Warnf("player command failed: %s", msg.err)

	// load failures are rendered from the snapshot
	if msg.op == "load" {
		return nil
	}
	return ui.NotifyFailure(session.Message(msg.err))
}

func commandTimeout() time.Duration {
	if t := config.CommandTimeout(); t > 0 {
		return t
	}
	return 10 * time.Second
}
