// Package session implements the player session controller.
//
// A Controller owns the state of one playback session: it turns user intents into engine
// commands, reconciles the statuses the engine pushes back, runs the auto-hide timer of the
// transport controls and keeps the session's comment list. Engine calls are made without
// holding the state lock and their results are dropped once the session has been torn down.
package session

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goflix/goflix/key"
	"github.com/goflix/goflix/log"
	"github.com/goflix/goflix/player"
	"github.com/goflix/goflix/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/sync/singleflight"
)

// deferredUnloadTimeout bounds the unload issued after a load that outlived its session.
const deferredUnloadTimeout = 5 * time.Second

// Controller coordinates a single playback session against an engine.
type Controller struct {
	engine player.Engine
	cfg    settings

	loads singleflight.Group

	toggleGate gate
	volumeGate gate
	retryGate  gate

	// orientMu orders orientation requests so the last one issued matches the final mode.
	orientMu sync.Mutex

	mu        sync.Mutex
	state     Snapshot
	started   bool
	closed    bool
	lastSeq   uint64
	loadGen   uint64
	loadDone  uint64
	loadErr   error
	pending   player.LoadOptions
	playAfter bool // a joined caller wants playback once the pending load is done
	inFlight  int  // engine loads not yet returned
	unloadDue bool // teardown happened while a load was in flight
	confirmed int64 // last position acknowledged by the engine
	seekBusy  bool
	nextSeek  mo.Option[int64]
	unmuted   float64
	dwell     Timer
	dwellGen  uint64
	unobserve func()
	subs      map[int]func(Snapshot)
	nextSub   int
}

// New creates an idle controller bound to engine and subscribes to its pushes.
func New(engine player.Engine, opts ...Option) *Controller {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Controller{
		engine:  engine,
		cfg:     cfg,
		unmuted: lo.Ternary(cfg.volume > 0, cfg.volume, 1),
		subs:    make(map[int]func(Snapshot)),
		state: Snapshot{
			Phase:    Idle,
			Volume:   cfg.volume,
			Muted:    cfg.volume == 0,
			Comments: append([]Comment(nil), cfg.seeds...),
		},
	}
	c.unobserve = engine.Observe(c.OnEngineStatus, c.OnEngineError)
	return c
}

// StartSession loads url, or the configured default media when url is empty.
// Concurrent calls for the same media join the outstanding load.
func (c *Controller) StartSession(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		url = c.cfg.defaultMedia
	}

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrSessionClosed
	case url == "":
		c.mu.Unlock()
		return &ConfigError{Key: key.PlayerDefaultMedia, Err: ErrNoMedia}
	case c.started && c.state.MediaURL != url:
		c.mu.Unlock()
		return ErrSessionStarted
	case c.started && c.state.Phase == Ready:
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.state.MediaURL = url
	req := c.beginLoad(c.cfg.autoplay)
	c.mu.Unlock()
	c.notify()

	return c.awaitLoad(ctx, req)
}

// RetryLoad reloads the session media. It does nothing unless the session is in the Error phase.
func (c *Controller) RetryLoad(ctx context.Context) error {
	if !c.retryGate.enter() {
		return nil
	}
	defer c.retryGate.leave()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if c.state.Phase != Error || c.state.MediaURL == "" {
		c.mu.Unlock()
		return nil
	}
	req := c.beginLoad(false)
	c.mu.Unlock()
	c.notify()

	return c.awaitLoad(ctx, req)
}

type loadRequest struct {
	gen  uint64
	url  string
	opts player.LoadOptions
}

func (r loadRequest) key() string {
	return r.url + "#" + strconv.FormatUint(r.gen, 10)
}

// beginLoad moves the session into Loading, or joins the load that is already outstanding.
// A joining caller asking for autoplay gets playback started once the load is done.
// Callers hold mu.
func (c *Controller) beginLoad(autoplay bool) loadRequest {
	if c.state.Phase == Loading {
		if autoplay && !c.pending.Autoplay {
			c.playAfter = true
		}
	} else {
		c.loadGen++
		c.playAfter = false
		c.pending = player.LoadOptions{
			Autoplay:      autoplay,
			Loop:          c.cfg.loop,
			InitialVolume: lo.Ternary(c.state.Muted, 0, c.state.Volume),
		}
		c.state.Phase = Loading
		c.state.Loading = true
		c.state.Playing = false
		c.state.LastError = mo.None[string]()
	}
	return loadRequest{gen: c.loadGen, url: c.state.MediaURL, opts: c.pending}
}

// awaitLoad runs the load for req at most once, however many callers wait for it.
func (c *Controller) awaitLoad(ctx context.Context, req loadRequest) error {
	_, err, _ := c.loads.Do(req.key(), func() (any, error) {
		return nil, c.runLoad(ctx, req)
	})
	return err
}

func (c *Controller) runLoad(ctx context.Context, req loadRequest) error {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrSessionClosed
	case c.loadDone >= req.gen:
		// Finished before this caller got to join it.
		err := c.loadErr
		c.mu.Unlock()
		return err
	}
	c.inFlight++
	c.mu.Unlock()

	log.WithFields(log.Fields{"url": req.url, "autoplay": req.opts.Autoplay}).Debugf("session loading")

	status, err := c.engine.Load(ctx, req.url, req.opts)
	if err == nil && !status.Loaded {
		err = player.ErrNotLoaded
	}

	var playErr error
	if err == nil && !status.Playing && c.takePlayIntent(req.gen) {
		if playErr = c.engine.Play(ctx); playErr == nil {
			status.Playing = true
		}
	}

	c.mu.Lock()
	c.inFlight--
	if c.closed {
		unload := c.unloadDue && c.inFlight == 0
		if unload {
			c.unloadDue = false
		}
		c.mu.Unlock()

		if unload {
			unloadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deferredUnloadTimeout)
			c.unloadEngine(unloadCtx)
			cancel()
		}
		log.Debugf("discarding load result of closed session %s", req.url)
		return ErrSessionClosed
	}
	c.loadDone = req.gen

	if err != nil {
		loadErr := &LoadError{URL: req.url, Err: err}
		c.loadErr = loadErr
		c.state.Phase = Error
		c.state.Loading = false
		c.state.Playing = false
		c.state.LastError = mo.Some(Message(loadErr))
		c.mu.Unlock()
		c.notify()

		log.WithField("url", req.url).Errorf("session load failed: %v", err)
		return loadErr
	}

	status = status.Clamped()
	c.loadErr = nil
	c.state.Phase = Ready
	c.state.Loading = false
	c.state.Playing = status.Playing
	c.state.Playback = status
	c.confirmed = status.PositionMillis

	var commandErr *CommandError
	if playErr != nil {
		commandErr = &CommandError{Op: OpPlay, Err: playErr}
		c.state.LastError = mo.Some(Message(commandErr))
	}
	c.mu.Unlock()
	c.notify()

	log.WithFields(log.Fields{"url": req.url, "duration": status.DurationMillis}).Debugf("session ready")
	if commandErr != nil {
		log.Warnf("%v", commandErr)
		return commandErr
	}
	return nil
}

// takePlayIntent reports and clears a pending request to play once load gen is done.
func (c *Controller) takePlayIntent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	want := c.playAfter && !c.closed && c.loadGen == gen
	c.playAfter = false
	return want
}

// TogglePlayPause plays or pauses according to the engine's current status.
// If the engine has nothing loaded the media is loaded and played instead.
// A call made while another toggle is unresolved is ignored.
func (c *Controller) TogglePlayPause(ctx context.Context) error {
	if !c.toggleGate.enter() {
		return nil
	}
	defer c.toggleGate.leave()

	c.mu.Lock()
	closed, started := c.closed, c.started
	c.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}
	if !started {
		return ErrNotReady
	}

	status, err := c.engine.Status(ctx)
	if err != nil {
		return c.commandFailed(OpPlay, err)
	}
	if !status.Loaded {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrSessionClosed
		}
		req := c.beginLoad(true)
		c.mu.Unlock()
		c.notify()

		return c.awaitLoad(ctx, req)
	}

	op, command := OpPlay, c.engine.Play
	if status.Playing {
		op, command = OpPause, c.engine.Pause
	}
	if err := command(ctx); err != nil {
		return c.commandFailed(op, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.state.Phase = Ready
	c.state.Loading = false
	c.state.LastError = mo.None[string]()
	c.state.Playing = !status.Playing
	c.state.Playback.Loaded = true
	c.state.Playback.Playing = !status.Playing
	c.mu.Unlock()
	c.notify()

	return nil
}

// Seek moves playback to ms, clamped into the media duration.
// The displayed position changes immediately and reverts if the engine rejects the seek.
// Seeks requested while one is outstanding are coalesced into the latest target.
func (c *Controller) Seek(ctx context.Context, ms int64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if c.state.Phase != Ready {
		c.mu.Unlock()
		return ErrNotReady
	}

	target := c.clampPosition(ms)
	c.state.Playback.PositionMillis = target
	c.state.Seeking = true

	if c.seekBusy {
		c.nextSeek = mo.Some(target)
		c.mu.Unlock()
		c.notify()
		return nil
	}
	c.seekBusy = true
	c.mu.Unlock()
	c.notify()

	for {
		err := c.engine.SetPosition(ctx, target)

		c.mu.Lock()
		if c.closed {
			c.seekBusy = false
			c.mu.Unlock()
			return ErrSessionClosed
		}

		if err != nil {
			commandErr := &CommandError{Op: OpSeek, Err: err}
			c.seekBusy = false
			c.nextSeek = mo.None[int64]()
			c.state.Seeking = false
			c.state.Playback.PositionMillis = c.confirmed
			c.state.LastError = mo.Some(Message(commandErr))
			c.mu.Unlock()
			c.notify()

			log.Warnf("seek to %d failed: %v", target, err)
			return commandErr
		}

		c.confirmed = target
		if next, ok := c.nextSeek.Get(); ok {
			c.nextSeek = mo.None[int64]()
			target = next
			c.mu.Unlock()
			continue
		}

		c.seekBusy = false
		c.state.Seeking = false
		c.state.Playback.PositionMillis = target
		c.clearCommandError()
		c.mu.Unlock()
		c.notify()
		return nil
	}
}

// clampPosition bounds ms into [0, duration]. Callers hold mu.
func (c *Controller) clampPosition(ms int64) int64 {
	if duration := c.state.Playback.DurationMillis; duration > 0 {
		return util.Clamp(ms, 0, duration)
	}
	return util.Max(ms, 0)
}

// SetVolume sets the output volume, clamped into [0, 1]. The state changes only once the engine accepts it.
func (c *Controller) SetVolume(ctx context.Context, v float64) error {
	if !c.volumeGate.enter() {
		return nil
	}
	defer c.volumeGate.leave()

	return c.setVolume(ctx, clampVolume(v))
}

func (c *Controller) setVolume(ctx context.Context, v float64) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}

	if err := c.engine.SetVolume(ctx, v); err != nil {
		return c.commandFailed(OpVolume, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.state.Volume = v
	c.state.Muted = v == 0
	if v > 0 {
		c.unmuted = v
	}
	c.clearCommandError()
	c.mu.Unlock()
	c.notify()

	return nil
}

// ToggleMute switches between silence and the last audible volume.
func (c *Controller) ToggleMute(ctx context.Context) error {
	if !c.volumeGate.enter() {
		return nil
	}
	defer c.volumeGate.leave()

	c.mu.Lock()
	muted, restore := c.state.Muted, c.unmuted
	c.mu.Unlock()

	if muted {
		return c.setVolume(ctx, restore)
	}
	return c.setVolume(ctx, 0)
}

// ToggleFullscreen flips fullscreen mode and asks for the matching orientation.
// A failed orientation lock is logged and never rolls the mode back.
func (c *Controller) ToggleFullscreen(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.state.Fullscreen = !c.state.Fullscreen
	entered := c.state.Fullscreen
	c.mu.Unlock()
	c.notify()

	if entered {
		c.ShowControlsTransient()
	}

	c.lockOrientation(ctx)
	return nil
}

// lockOrientation requests the orientation matching the current mode.
// Requests are issued one at a time and the mode is read just before each one.
func (c *Controller) lockOrientation(ctx context.Context) {
	c.orientMu.Lock()
	defer c.orientMu.Unlock()

	c.mu.Lock()
	closed, fullscreen := c.closed, c.state.Fullscreen
	c.mu.Unlock()
	if closed {
		return
	}

	orientation := lo.Ternary(fullscreen, player.Landscape, player.Portrait)
	if err := c.cfg.orientation.Lock(ctx, orientation); err != nil {
		log.Warnf("%v", &OrientationError{Orientation: orientation, Err: err})
	}
}

// OnEngineStatus reconciles a pushed engine status.
// Stale sequenced snapshots are dropped and the position is left alone while a seek is outstanding.
func (c *Controller) OnEngineStatus(status player.Status) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if status.Seq != 0 {
		if status.Seq <= c.lastSeq {
			c.mu.Unlock()
			log.Debugf("dropping stale status %d (last %d)", status.Seq, c.lastSeq)
			return
		}
		c.lastSeq = status.Seq
	}

	status = status.Clamped()
	playback := &c.state.Playback
	playback.Loaded = status.Loaded
	playback.Playing = status.Playing
	playback.DurationMillis = status.DurationMillis
	playback.Error = status.Error
	playback.Seq = lo.Ternary(status.Seq != 0, status.Seq, playback.Seq)

	if !c.state.Seeking {
		playback.PositionMillis = status.PositionMillis
		c.confirmed = status.PositionMillis
	}
	*playback = playback.Clamped()

	if c.state.Phase == Ready {
		c.state.Playing = status.Playing
	}

	if reason, ok := status.Error.Get(); ok && c.state.Phase != Error {
		c.state.Phase = Error
		c.state.Loading = false
		c.state.Playing = false
		c.state.LastError = mo.Some(lo.Ternary(reason != "", reason, "Error playing video"))
	}
	c.mu.Unlock()
	c.notify()
}

// OnEngineError moves the session into the Error phase.
func (c *Controller) OnEngineError(err error) {
	if err == nil {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Phase = Error
	c.state.Loading = false
	c.state.Playing = false
	c.state.LastError = mo.Some(Message(err))
	c.mu.Unlock()
	c.notify()

	log.Errorf("engine error: %v", err)
}

// AddComment appends a comment authored by the configured author.
// Text is trimmed; blank text adds nothing.
func (c *Controller) AddComment(text string) (Comment, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Comment{}, false
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Comment{}, false
	}

	taken := lo.SliceToMap(c.state.Comments, func(cm Comment) (string, bool) {
		return cm.ID, true
	})
	n := len(c.state.Comments) + 1
	for taken[strconv.Itoa(n)] {
		n++
	}

	comment := Comment{
		ID:     strconv.Itoa(n),
		Author: c.cfg.author,
		Text:   text,
	}
	c.state.Comments = append(c.state.Comments, comment)
	c.mu.Unlock()
	c.notify()

	return comment, true
}

// ShowControlsTransient shows the controls and restarts the auto-hide timer.
func (c *Controller) ShowControlsTransient() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.ControlsVisible = true
	c.armDwell()
	c.mu.Unlock()
	c.notify()
}

// ToggleControls hides visible controls at once, or shows hidden ones transiently.
func (c *Controller) ToggleControls() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if !c.state.ControlsVisible {
		c.mu.Unlock()
		c.ShowControlsTransient()
		return
	}
	c.cancelDwell()
	c.state.ControlsVisible = false
	c.mu.Unlock()
	c.notify()
}

// armDwell cancels any pending expiry and schedules a new one. Callers hold mu.
func (c *Controller) armDwell() {
	c.cancelDwell()
	gen := c.dwellGen
	c.dwell = c.cfg.clock.AfterFunc(c.cfg.dwell, func() {
		c.expireDwell(gen)
	})
}

// cancelDwell stops the pending expiry. Callers hold mu.
func (c *Controller) cancelDwell() {
	c.dwellGen++
	if c.dwell != nil {
		c.dwell.Stop()
		c.dwell = nil
	}
}

// expireDwell hides the controls unless the timer was re-armed or cancelled in the meantime.
func (c *Controller) expireDwell(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.dwellGen {
		c.mu.Unlock()
		return
	}
	c.dwell = nil
	c.state.ControlsVisible = false
	c.mu.Unlock()
	c.notify()
}

// Teardown ends the session: the timer is cancelled, pushes are unsubscribed and the engine is
// unloaded. Only the first call has an effect; results of outstanding operations are discarded.
// Teardown never waits for an outstanding load. The engine is unloaded once that load returns.
func (c *Controller) Teardown(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancelDwell()
	c.state.Phase = Closed
	c.state.Loading = false
	c.state.Seeking = false
	c.state.ControlsVisible = false
	unloadNow := c.inFlight == 0
	c.unloadDue = !unloadNow
	unobserve := c.unobserve
	c.unobserve = nil
	final := c.state.clone()
	subs := lo.Values(c.subs)
	c.subs = make(map[int]func(Snapshot))
	c.mu.Unlock()

	if unobserve != nil {
		unobserve()
	}

	if unloadNow {
		c.unloadEngine(ctx)
	} else {
		log.Debugf("unload of %s deferred until its load returns", final.MediaURL)
	}

	for _, fn := range subs {
		fn(final)
	}

	log.WithField("url", final.MediaURL).Debugf("session closed")
	return nil
}

// Snapshot returns a consistent copy of the session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to be called with a snapshot after every state change.
// fn runs on the goroutine that caused the change and must not block.
func (c *Controller) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Controller) unloadEngine(ctx context.Context) {
	if err := c.engine.Unload(ctx); err != nil {
		log.Warnf("unload engine: %v", err)
	}
}

// clearCommandError drops the message of an earlier failed command once a command succeeds.
// A load failure stays until the media is reloaded. Callers hold mu.
func (c *Controller) clearCommandError() {
	if c.state.Phase != Error {
		c.state.LastError = mo.None[string]()
	}
}

// commandFailed records a failed transport command without changing the phase.
func (c *Controller) commandFailed(op string, err error) error {
	commandErr := &CommandError{Op: op, Err: err}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.state.LastError = mo.Some(Message(commandErr))
	c.mu.Unlock()
	c.notify()

	log.Warnf("%v", commandErr)
	return commandErr
}

func (c *Controller) notify() {
	c.mu.Lock()
	if len(c.subs) == 0 {
		c.mu.Unlock()
		return
	}
	snapshot := c.state.clone()
	subs := lo.Values(c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
