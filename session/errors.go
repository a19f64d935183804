package session

import (
	"errors"
	"fmt"

	"github.com/goflix/goflix/player"
)

var (
	// ErrSessionClosed is returned by every operation issued after Teardown.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionStarted is returned when a started session is asked to play a different media reference.
	ErrSessionStarted = errors.New("session already started with another media reference")

	// ErrNoMedia reports that neither a media reference nor a default was available.
	ErrNoMedia = errors.New("no media reference")

	// ErrNotReady is returned by commands that need loaded media.
	ErrNotReady = errors.New("media not ready")
)

// LoadError reports that the engine failed to resolve or buffer a media reference.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// CommandError reports a failed transport command such as seek, volume, play or pause.
type CommandError struct {
	Op  string
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// OrientationError reports a failed orientation lock. It is only ever logged.
type OrientationError struct {
	Orientation player.Orientation
	Err         error
}

func (e *OrientationError) Error() string {
	return fmt.Sprintf("lock orientation %s: %v", e.Orientation, e.Err)
}

func (e *OrientationError) Unwrap() error {
	return e.Err
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Command operation names.
const (
	OpPlay   = "play"
	OpPause  = "pause"
	OpSeek   = "seek"
	OpVolume = "volume"
)

// Message converts err into the text shown to the user.
func Message(err error) string {
	var (
		loadErr    *LoadError
		commandErr *CommandError
		configErr  *ConfigError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &loadErr):
		return "Error loading video"
	case errors.As(err, &commandErr):
		switch commandErr.Op {
		case OpSeek:
			return "Error seeking video"
		case OpVolume:
			return "Error setting volume"
		case OpPlay:
			return "Error playing video"
		case OpPause:
			return "Error pausing video"
		}
		return "Error controlling video"
	case errors.As(err, &configErr):
		return "No video selected"
	case errors.Is(err, ErrSessionClosed):
		return "Player closed"
	default:
		return "Error playing video"
	}
}
