// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/goflix/goflix/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Play
	Pause
	Fullscreen
	Windowed
	Volume
	Mute
	Comment
	Search
	Retry
	Category
)

var icons = map[Icon]*iconDef{
	Fail:       {emoji: "💀", nerd: "\uf00d", plain: "X", kaomoji: "(×_×)", squares: "🟥"},
	Success:    {emoji: "🎉", nerd: "\uf00c", plain: "✓", kaomoji: "(ᵔᴥᵔ)", squares: "🟩"},
	Progress:   {emoji: "⏳", nerd: "\uf110", plain: "~", kaomoji: "(・_・)ノ", squares: "🟦"},
	Play:       {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "(>‿<)", squares: "▶"},
	Pause:      {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(-_-)zzz", squares: "⏸"},
	Fullscreen: {emoji: "🔲", nerd: "\uf065", plain: "[ ]", kaomoji: "[◕‿◕]", squares: "⬛"},
	Windowed:   {emoji: "🔳", nerd: "\uf066", plain: "[-]", kaomoji: "[-‿-]", squares: "⬜"},
	Volume:     {emoji: "🔊", nerd: "\uf028", plain: "vol", kaomoji: "♪(´ε｀ )", squares: "🟨"},
	Mute:       {emoji: "🔇", nerd: "\uf026", plain: "mute", kaomoji: "(︶｡︶)", squares: "🟫"},
	Comment:    {emoji: "💬", nerd: "\uf075", plain: "#", kaomoji: "(￣▽￣)ノ", squares: "🟪"},
	Search:     {emoji: "🔍", nerd: "\uf002", plain: "?", kaomoji: "(¬_¬)", squares: "🟧"},
	Retry:      {emoji: "🔁", nerd: "\uf01e", plain: "r", kaomoji: "(↻_↻)", squares: "🔄"},
	Category:   {emoji: "🎬", nerd: "\uf008", plain: "*", kaomoji: "(⌐■_■)", squares: "🟥"},
}
