package constant

// Engine identifiers accepted by the player.engine configuration key.
const (
	EngineMPV = "mpv"
)

// DefaultAuthor is the display name attached to comments written in a player session.
const DefaultAuthor = "You"
