// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys configure the external engine and the player session controller.
const (
	PlayerEngine         = "player.engine"
	PlayerMPVPath        = "player.mpv_path"
	PlayerDefaultMedia   = "player.default_media"
	PlayerControlsDwell  = "player.controls_dwell"
	PlayerInitialVolume  = "player.initial_volume"
	PlayerAutoplay       = "player.autoplay"
	PlayerLoop           = "player.loop"
	PlayerCommandTimeout = "player.command_timeout"
	PlayerSeekStep       = "player.seek_step"
)

// Comments - these keys govern the in-session comment list.
const (
	CommentsAuthor = "comments.author"
)

// Catalog - these keys locate the static media catalog.
const (
	CatalogPath = "catalog.path"
)

// Search Interaction - these keys define the behavior of catalog search.
const (
	SearchShowSuggestions = "search.show_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's styling.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
