// Package style provides a functional API for composing and applying lipgloss-based TUI styles.
package style

import "github.com/charmbracelet/lipgloss"

// Palette defines the application's color scheme.
var (
	// Base colors
	Base    = lipgloss.Color("#141414")
	Text    = lipgloss.Color("#e5e5e5")
	Subtext = lipgloss.Color("#b3b3b3")
	Overlay = lipgloss.Color("#808080")
	Surface = lipgloss.Color("#2f2f2f")

	// Accents
	Brand    = lipgloss.Color("#e50914")
	Crimson  = lipgloss.Color("#b20710")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Green    = lipgloss.Color("#a6e3a1")
	Sky      = lipgloss.Color("#1e90ff")
	Blue     = lipgloss.Color("#89b4fa")
	Lavender = lipgloss.Color("#b4befe")

	// Semantic mappings
	AccentColor    = Brand
	SecondaryColor = Sky
	SuccessColor   = Green
	WarningColor   = Yellow
	ErrorColor     = Red
	HiRed          = Brand
	FaintColor     = Overlay

	// UI Elements
	BorderColor       = Surface
	ActiveBorderColor = AccentColor
)
