package session

import (
	"context"
	"sync"
	"time"

	"github.com/goflix/goflix/player"
)

// fakeEngine is an in-memory engine. Gates, when set, block the matching command until closed.
type fakeEngine struct {
	mu sync.Mutex

	status     player.Status
	loadStatus player.Status

	loadErr   error
	playErr   error
	pauseErr  error
	seekErr   error
	volumeErr error
	statusErr error

	loadGate   chan struct{}
	playGate   chan struct{}
	seekGate   chan struct{}
	volumeGate chan struct{}

	loadStarted   chan struct{}
	playStarted   chan struct{}
	seekStarted   chan struct{}
	volumeStarted chan struct{}

	loads    []player.LoadOptions
	sources  []string
	plays    int
	pauses   int
	seeks    []int64
	volumes  []float64
	unloads  int
	cancels  int
	onStatus func(player.Status)
	onError  func(error)
}

func newFakeEngine(duration int64) *fakeEngine {
	return &fakeEngine{
		loadStatus:    player.Status{Loaded: true, DurationMillis: duration},
		loadStarted:   make(chan struct{}, 8),
		playStarted:   make(chan struct{}, 8),
		seekStarted:   make(chan struct{}, 8),
		volumeStarted: make(chan struct{}, 8),
	}
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (f *fakeEngine) Load(ctx context.Context, source string, opts player.LoadOptions) (player.Status, error) {
	f.mu.Lock()
	f.loads = append(f.loads, opts)
	f.sources = append(f.sources, source)
	gate := f.loadGate
	f.mu.Unlock()

	signal(f.loadStarted)
	if err := wait(ctx, gate); err != nil {
		return player.Status{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return player.Status{}, f.loadErr
	}
	f.status = f.loadStatus
	f.status.Playing = opts.Autoplay
	return f.status, nil
}

func (f *fakeEngine) Play(ctx context.Context) error {
	f.mu.Lock()
	f.plays++
	gate := f.playGate
	f.mu.Unlock()

	signal(f.playStarted)
	if err := wait(ctx, gate); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.status.Playing = true
	return nil
}

func (f *fakeEngine) Pause(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pauses++
	if f.pauseErr != nil {
		return f.pauseErr
	}
	f.status.Playing = false
	return nil
}

func (f *fakeEngine) SetPosition(ctx context.Context, ms int64) error {
	f.mu.Lock()
	f.seeks = append(f.seeks, ms)
	gate := f.seekGate
	f.mu.Unlock()

	signal(f.seekStarted)
	if err := wait(ctx, gate); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seekErr != nil {
		return f.seekErr
	}
	f.status.PositionMillis = ms
	return nil
}

func (f *fakeEngine) SetVolume(ctx context.Context, v float64) error {
	f.mu.Lock()
	f.volumes = append(f.volumes, v)
	gate := f.volumeGate
	f.mu.Unlock()

	signal(f.volumeStarted)
	if err := wait(ctx, gate); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volumeErr
}

func (f *fakeEngine) Status(context.Context) (player.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.statusErr
}

func (f *fakeEngine) Unload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.unloads++
	f.status = player.Status{}
	return nil
}

func (f *fakeEngine) Observe(onStatus func(player.Status), onError func(error)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.onStatus, f.onError = onStatus, onError
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancels++
	}
}

func (f *fakeEngine) push(status player.Status) {
	f.mu.Lock()
	onStatus := f.onStatus
	f.mu.Unlock()
	onStatus(status)
}

func (f *fakeEngine) fail(err error) {
	f.mu.Lock()
	onError := f.onError
	f.mu.Unlock()
	onError(err)
}

func (f *fakeEngine) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loads)
}

func (f *fakeEngine) unloadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unloads
}

func (f *fakeEngine) set(fn func(f *fakeEngine)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// gatedLocker records completed orientation locks. Only the first Lock blocks on gate.
type gatedLocker struct {
	mu      sync.Mutex
	gate    chan struct{}
	started chan struct{}
	locked  []player.Orientation
}

func newGatedLocker() *gatedLocker {
	return &gatedLocker{gate: make(chan struct{}), started: make(chan struct{}, 8)}
}

func (l *gatedLocker) Lock(ctx context.Context, o player.Orientation) error {
	l.mu.Lock()
	gate := l.gate
	l.gate = nil
	l.mu.Unlock()

	signal(l.started)
	if err := wait(ctx, gate); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, o)
	return nil
}

func (l *gatedLocker) orientations() []player.Orientation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]player.Orientation(nil), l.locked...)
}

// mockClock runs scheduled functions only when time is advanced.
type mockClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*mockTimer
}

type mockTimer struct {
	clock   *mockClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *mockClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &mockTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *mockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// AdvanceTo moves the clock to the absolute offset at and runs every timer that became due.
func (c *mockClock) AdvanceTo(at time.Duration) {
	c.mu.Lock()
	c.now = at
	var due []*mockTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && t.at <= at {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *mockClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
