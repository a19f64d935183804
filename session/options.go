package session

import (
	"time"

	"github.com/goflix/goflix/config"
	"github.com/goflix/goflix/constant"
	"github.com/goflix/goflix/key"
	"github.com/goflix/goflix/player"
	"github.com/goflix/goflix/util"
	"github.com/spf13/viper"
)

// DefaultControlsDwell is how long transport controls stay visible after the last interaction.
const DefaultControlsDwell = 3000 * time.Millisecond

type settings struct {
	orientation  player.OrientationLocker
	clock        Clock
	dwell        time.Duration
	author       string
	defaultMedia string
	autoplay     bool
	loop         bool
	volume       float64
	seeds        []Comment
}

func defaultSettings() settings {
	return settings{
		orientation: player.NopOrientation{},
		clock:       RealClock{},
		dwell:       DefaultControlsDwell,
		author:      constant.DefaultAuthor,
		autoplay:    true,
		loop:        true,
		volume:      1,
	}
}

// Option configures a Controller.
type Option func(*settings)

// WithOrientation sets the service asked to lock orientation on fullscreen changes.
func WithOrientation(locker player.OrientationLocker) Option {
	return func(s *settings) {
		if locker != nil {
			s.orientation = locker
		}
	}
}

// WithClock replaces the clock driving the controls dwell timer.
func WithClock(clock Clock) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithControlsDwell(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.dwell = d
		}
	}
}

func WithAuthor(author string) Option {
	return func(s *settings) {
		if author != "" {
			s.author = author
		}
	}
}

// WithDefaultMedia sets the reference played when a session is started without one.
func WithDefaultMedia(url string) Option {
	return func(s *settings) {
		s.defaultMedia = url
	}
}

func WithAutoplay(autoplay bool) Option {
	return func(s *settings) {
		s.autoplay = autoplay
	}
}

func WithLoop(loop bool) Option {
	return func(s *settings) {
		s.loop = loop
	}
}

// WithInitialVolume sets the start volume in [0, 1].
func WithInitialVolume(v float64) Option {
	return func(s *settings) {
		s.volume = clampVolume(v)
	}
}

// WithComments seeds the comment list, e.g. from the catalog record being played.
func WithComments(comments ...Comment) Option {
	return func(s *settings) {
		s.seeds = append(s.seeds, comments...)
	}
}

// FromConfig translates the player and comments settings into options.
func FromConfig() []Option {
	return []Option{
		WithControlsDwell(config.ControlsDwell()),
		WithAuthor(viper.GetString(key.CommentsAuthor)),
		WithDefaultMedia(viper.GetString(key.PlayerDefaultMedia)),
		WithAutoplay(viper.GetBool(key.PlayerAutoplay)),
		WithLoop(viper.GetBool(key.PlayerLoop)),
		WithInitialVolume(config.InitialVolume()),
	}
}

func clampVolume(v float64) float64 {
	return util.Clamp(v, 0, 1)
}
