// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goflix/goflix/color"
	"github.com/goflix/goflix/icon"
	"github.com/goflix/goflix/session"
	"github.com/goflix/goflix/style"
	"github.com/goflix/goflix/util"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case homeState:
		output = b.viewHome()
	case titlesState:
		output = b.viewTitles()
	case searchState:
		output = b.viewSearch()
	case playerState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Loading catalog...",
		},
	)
}

func (b *statefulBubble) viewHome() string {
	return listExtraPaddingStyle.Render(b.categoriesC.View())
}

func (b *statefulBubble) viewTitles() string {
	return listExtraPaddingStyle.Render(b.titlesC.View())
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search"),
		"",
		b.searchC.View(),
		"",
	}

	switch {
	case strings.TrimSpace(b.searchC.Value()) == "":
		lines = append(lines, style.Faint("Type a title to search the catalog"))
	case len(b.resultsC.Items()) == 0:
		hint := "No titles found"
		if len(b.searchSuggestions) > 0 {
			hint += ". Did you mean " + strings.Join(lo.Map(b.searchSuggestions, func(s string, _ int) string {
				return style.Fg(color.Orange)(s)
			}), ", ") + "?"
		}
		lines = append(lines, style.Faint(hint))
	default:
		lines = append(lines, b.resultsC.View())
	}

	return b.renderLines(true, lines)
}

// viewPlayer renders the player screen from the latest session snapshot.
func (b *statefulBubble) viewPlayer() string {
	s := b.snapshot
	width := util.Max(b.width, 20)

	lines := []string{
		style.Title(b.selectedTitle.Title),
		"",
		b.playerStatus(s),
		"",
	}

	if s.Phase == session.Ready {
		lines = append(lines, b.playerProgress(s))
	}

	if s.ControlsVisible && s.Phase == session.Ready {
		lines = append(lines, "", b.playerControls(s))
	}

	if reason, ok := s.LastError.Get(); ok && s.Phase == session.Error {
		lines = append(lines,
			wrap.String(style.Fg(style.ErrorColor)(reason), width),
			"",
			style.Faint(fmt.Sprintf("Press %s to retry", style.Fg(color.Orange)("r"))),
		)
	}

	// the comment list gives way to the video in fullscreen
	if !s.Fullscreen {
		lines = append(lines, "", style.Bold(fmt.Sprintf("%s Comments (%d)", icon.Get(icon.Comment), len(s.Comments))))
		lines = append(lines, b.playerComments(s, width)...)
	}

	if b.commenting {
		lines = append(lines, "", b.commentC.View())
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) playerStatus(s session.Snapshot) string {
	switch s.Phase {
	case session.Idle, session.Loading:
		return b.spinnerC.View() + " Loading video..."
	case session.Error:
		return style.Fg(style.ErrorColor)(icon.Get(icon.Fail) + " Error loading video")
	case session.Closed:
		return style.Faint(util.Capitalize(s.Phase.String()))
	}

	if s.Playing {
		return style.Fg(style.SuccessColor)(icon.Get(icon.Play) + " Playing")
	}
	return style.Fg(style.WarningColor)(icon.Get(icon.Pause) + " Paused")
}

func (b *statefulBubble) playerProgress(s session.Snapshot) string {
	position := b.scrub.OrElse(s.Playback.PositionMillis)
	duration := s.Playback.DurationMillis

	var ratio float64
	if duration > 0 {
		ratio = util.Clamp(float64(position)/float64(duration), 0, 1)
	}

	timing := fmt.Sprintf("%s / %s", util.FormatMillis(position), util.FormatMillis(duration))
	if b.scrub.IsPresent() || s.Seeking {
		timing = style.Fg(color.Orange)(timing)
	}

	return b.progressC.ViewAs(ratio) + " " + timing
}

func (b *statefulBubble) playerControls(s session.Snapshot) string {
	playback := lo.Ternary(s.Playing, icon.Get(icon.Pause)+" pause", icon.Get(icon.Play)+" play")

	volume := fmt.Sprintf("%s %d%%", icon.Get(icon.Volume), int(s.Volume*100+0.5))
	if s.Muted {
		volume = icon.Get(icon.Mute) + " muted"
	}

	screen := lo.Ternary(s.Fullscreen, icon.Get(icon.Windowed)+" exit fullscreen", icon.Get(icon.Fullscreen)+" fullscreen")

	return strings.Join([]string{
		style.Fg(style.AccentColor)(playback),
		volume,
		screen,
	}, style.Faint("  •  "))
}

func (b *statefulBubble) playerComments(s session.Snapshot, width int) []string {
	if len(s.Comments) == 0 {
		return []string{style.Italic(style.Faint("No comments yet."))}
	}

	lines := lo.FlatMap(s.Comments, func(c session.Comment, _ int) []string {
		author := lipgloss.NewStyle().Foreground(style.AccentColor).Bold(true).Render(c.Author)
		return strings.Split(wrap.String(author+" "+c.Text, width), "\n")
	})

	// newest comments stay visible on short terminals
	if room := b.height - 16; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	return lines
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := lipgloss.Height(l)
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
