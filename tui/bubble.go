// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/internal/ui"
	"github.com/goflix/goflix/key"
	"github.com/goflix/goflix/player"
	"github.com/goflix/goflix/session"
	"github.com/goflix/goflix/style"
	"github.com/goflix/goflix/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// statefulBubble encapsulates the application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC    spinner.Model
	searchC     textinput.Model
	commentC    textinput.Model
	categoriesC list.Model
	titlesC     list.Model
	resultsC    list.Model
	progressC   progress.Model
	helpC       help.Model

	catalog           *catalog.Catalog
	selectedTitle     catalog.Title
	searchSuggestions []string

	// player session
	controller *session.Controller
	snapshot   session.Snapshot
	signal     chan struct{}
	sessionCtx context.Context
	cancel     context.CancelFunc
	closed     chan struct{}
	scrub      mo.Option[int64]
	scrubGen   int
	commenting bool

	lastError error

	width, height int
	notifier      *ui.Model

	options *Options
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState transitions to a target state, recording the previous one in the navigation history.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Transient states are never returned to.
	if !lo.Contains([]state{loadingState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	for _, l := range []*list.Model{&b.categoriesC, &b.titlesC} {
		l.SetSize(listWidth, listHeight)
		l.Help.Width = listWidth
	}

	// the search input and the hint take four lines above the results
	b.resultsC.SetSize(listWidth, util.Max(listHeight-4, 0))
	b.resultsC.Help.Width = listWidth

	b.progressC.Width = util.Min(listWidth, 80)
	b.searchC.Width = listWidth
	b.commentC.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

// newBubble performs a complete initialization of the application's primary UI model.
func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		notifier:      &ui.Model{},
		options:       options,
	}

	type listOptions struct {
		TitleStyle mo.Option[lipgloss.Style]
	}

	makeList := func(title string, description bool, options *listOptions) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.ShowDescription = description
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(style.Text)
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		if titleStyle, ok := options.TitleStyle.Get(); ok {
			listC.Styles.Title = titleStyle
		}
		listC.StatusMessageLifetime = time.Hour * 999
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.searchC = textinput.New()
	bubble.searchC.Placeholder = "Search movies, TV shows..."
	bubble.searchC.CharLimit = 60
	bubble.searchC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.commentC = textinput.New()
	bubble.commentC.Placeholder = "Add a comment..."
	bubble.commentC.CharLimit = 280
	bubble.commentC.Prompt = "> "

	bubble.progressC = progress.New(
		progress.WithSolidFill(string(style.Brand)),
		progress.WithoutPercentage(),
	)

	bubble.categoriesC = makeList("GoFlix", false, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Text).Background(style.Brand).Bold(true).Padding(0, 1),
		),
	})
	bubble.categoriesC.SetStatusBarItemName("category", "categories")

	bubble.titlesC = makeList("Titles", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Text).Padding(0, 1),
		),
	})
	bubble.titlesC.SetStatusBarItemName("title", "titles")

	bubble.resultsC = makeList("Results", true, &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Text).Background(style.Crimson).Padding(0, 1),
		),
	})
	bubble.resultsC.SetStatusBarItemName("result", "results")
	bubble.resultsC.SetShowHelp(false)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}

// newEngine builds the engine for a player session.
func (b *statefulBubble) newEngine() player.Engine {
	if b.options != nil && b.options.Engine != nil {
		return b.options.Engine()
	}
	return player.NewMPV(viper.GetString(key.PlayerMPVPath))
}
