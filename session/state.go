package session

import (
	"github.com/goflix/goflix/player"
	"github.com/samber/mo"
)

// Phase is the playback lifecycle stage of a session.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Error
	Closed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Comment is a single entry of the session's comment list.
type Comment struct {
	ID     string
	Author string
	Text   string
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	MediaURL string
	Phase    Phase

	// Playing is meaningful in the Ready phase only.
	Playing bool

	// Seeking is set while a seek is outstanding.
	Seeking bool

	// Playback is the last reconciled engine status. Its position is the displayed one.
	Playback player.Status

	Volume          float64
	Muted           bool
	Fullscreen      bool
	ControlsVisible bool
	Loading         bool
	LastError       mo.Option[string]
	Comments        []Comment
}

// Paused reports whether the session is ready and not playing.
func (s Snapshot) Paused() bool {
	return s.Phase == Ready && !s.Playing
}

func (s Snapshot) clone() Snapshot {
	s.Comments = append([]Comment(nil), s.Comments...)
	return s
}
