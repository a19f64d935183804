// Package ui provides state management and rendering for ephemeral terminal notifications.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goflix/goflix/style"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

// Model encapsulates the state for displaying non-blocking terminal alerts.
type Model struct {
	notification string
	failure      bool
	generation   int
}

// NotificationMsg carries the text of a new notification.
type NotificationMsg struct {
	Text    string
	Failure bool
}

// ClearNotificationMsg resets the notification it was scheduled for.
type ClearNotificationMsg struct {
	generation int
}

// Notify returns a tea.Cmd that shows an informational notification.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: text}
	}
}

// NotifyFailure returns a tea.Cmd that shows a failure notification, e.g. a rejected player command.
func NotifyFailure(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: text, Failure: true}
	}
}

func clearAfter(generation int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{generation: generation}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		if msg.Text == "" {
			return nil
		}
		m.generation++
		m.notification = msg.Text
		m.failure = msg.Failure
		return clearAfter(m.generation)
	case ClearNotificationMsg:
		// a newer notification has its own timer
		if msg.generation == m.generation {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the text on screen, if any.
func (m *Model) Current() string {
	return m.notification
}

// View appends the current notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	color := style.FaintColor
	if m.failure {
		color = style.ErrorColor
	}
	notifier := lipgloss.NewStyle().Foreground(color).Render(m.notification)

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] = lines[len(lines)-1] + "  " + notifier
	return strings.Join(lines, "\n")
}
