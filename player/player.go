// Package player defines the contract between the player session and a media playback engine.
// The primary implementation drives 'mpv' through its JSON-IPC interface.
package player

import (
	"context"
	"errors"

	"github.com/samber/mo"
)

// ErrNotLoaded is returned by transport commands issued before any media was loaded.
var ErrNotLoaded = errors.New("no media loaded")

// Status is a snapshot of the engine's playback state.
type Status struct {
	Loaded         bool
	Playing        bool
	PositionMillis int64
	DurationMillis int64
	Error          mo.Option[string]

	// Seq orders pushed snapshots. Zero means the snapshot is not sequenced,
	// e.g. a status obtained by querying the engine directly.
	Seq uint64
}

// Clamped returns the status with its position bounded into [0, duration].
// The position is only bounded from above once the duration is known.
func (s Status) Clamped() Status {
	if s.PositionMillis < 0 {
		s.PositionMillis = 0
	}
	if s.DurationMillis > 0 && s.PositionMillis > s.DurationMillis {
		s.PositionMillis = s.DurationMillis
	}
	return s
}

// LoadOptions configures how a media source is opened.
type LoadOptions struct {
	Autoplay      bool
	Loop          bool
	InitialVolume float64
}

// Engine encapsulates the capabilities required from a media playback backend.
// Every command may block until the engine acknowledges it; callers bound the wait with ctx.
type Engine interface {
	// Load opens source, replacing whatever was loaded before, and returns the status once
	// the media metadata is known.
	Load(ctx context.Context, source string, opts LoadOptions) (Status, error)

	Play(ctx context.Context) error
	Pause(ctx context.Context) error

	// SetPosition moves playback to an absolute offset in milliseconds.
	SetPosition(ctx context.Context, ms int64) error

	// SetVolume sets the output volume in [0, 1].
	SetVolume(ctx context.Context, v float64) error

	// Status queries the engine for its current state.
	Status(ctx context.Context) (Status, error)

	// Unload releases the media and the engine's resources.
	// Calling it more than once is a no-op.
	Unload(ctx context.Context) error

	// Observe registers push callbacks for status snapshots and playback errors.
	// The returned function removes the registration.
	Observe(onStatus func(Status), onError func(error)) (cancel func())
}

// Orientation is the screen orientation requested alongside fullscreen changes.
type Orientation int

const (
	Portrait Orientation = iota
	Landscape
)

func (o Orientation) String() string {
	switch o {
	case Portrait:
		return "portrait"
	case Landscape:
		return "landscape"
	default:
		return "unknown"
	}
}

// OrientationLocker locks the presentation surface to an orientation.
//
//go:generate mockgen -destination=../session/mocks/orientation_mock.go -package=mocks github.com/goflix/goflix/player OrientationLocker
type OrientationLocker interface {
	Lock(ctx context.Context, o Orientation) error
}

// NopOrientation accepts every lock request without doing anything.
type NopOrientation struct{}

func (NopOrientation) Lock(context.Context, Orientation) error { return nil }
