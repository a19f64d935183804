package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goflix/goflix/constant"
	"github.com/goflix/goflix/log"
	"github.com/goflix/goflix/where"
	"github.com/samber/mo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

type observer struct {
	onStatus func(Status)
	onError  func(error)
}

// MPV implements Engine and OrientationLocker on top of mpv's JSON-IPC protocol.
// The process is spawned lazily on the first Load and kept idle between files.
type MPV struct {
	path       string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	mu         sync.Mutex    // serializes socket writes
	procMu     sync.Mutex    // guards the process lifecycle
	listener   *EventListener
	unloaded   bool

	stateMu  sync.Mutex
	state    Status
	loadWait chan error

	obsMu     sync.Mutex
	observers map[uint64]observer
	nextObs   uint64

	seq atomic.Uint64
}

// NewMPV creates an engine that runs the mpv binary found at path.
func NewMPV(path string) *MPV {
	if path == "" {
		path = constant.EngineMPV
	}
	return &MPV{
		path:      path,
		observers: make(map[uint64]observer),
	}
}

// attach points the engine at an already listening IPC socket instead of spawning mpv.
func (m *MPV) attach(socketPath string) {
	m.procMu.Lock()
	defer m.procMu.Unlock()

	m.socketPath = socketPath
	m.exited = make(chan struct{})
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// running reports whether an mpv instance is reachable. Callers hold procMu.
func (m *MPV) running() bool {
	if m.socketPath == "" || m.exited == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

// ensureRunning spawns mpv when needed and attaches the event listener.
func (m *MPV) ensureRunning(ctx context.Context) error {
	m.procMu.Lock()
	defer m.procMu.Unlock()

	if m.unloaded {
		return ErrNotLoaded
	}

	if !m.running() {
		if err := m.spawn(ctx); err != nil {
			return err
		}
	}

	if m.listener == nil {
		m.listener = NewEventListener(m.socketPath, m.handleEvent)
	}
	return m.listener.Start(ctx)
}

func (m *MPV) spawn(ctx context.Context) error {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))

	// Only the socket and window behaviour are forced; everything else follows the user's mpv.conf.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		fmt.Sprintf("--title=%s", constant.App),
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
	}

	m.cmd = exec.Command(m.path, args...)
	m.cmd.SysProcAttr = detachedAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killTree(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	log.WithFields(log.Fields{"pid": m.cmd.Process.Pid, "socket": m.socketPath}).Infof("mpv started")
	return nil
}

// waitForSocket polls until the IPC socket is accepting connections.
func (m *MPV) waitForSocket(ctx context.Context) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Load opens source and blocks until mpv reports the file as loaded or failed.
func (m *MPV) Load(ctx context.Context, source string, opts LoadOptions) (Status, error) {
	target, err := sanitizeMediaTarget(source)
	if err != nil {
		return Status{}, fmt.Errorf("invalid media target: %w", err)
	}

	if err := m.ensureRunning(ctx); err != nil {
		return Status{}, err
	}

	loop := "no"
	if opts.Loop {
		loop = "inf"
	}

	props := []struct {
		name  string
		value any
	}{
		{"pause", !opts.Autoplay},
		{"loop-file", loop},
		{"volume", opts.InitialVolume * 100},
	}
	for _, p := range props {
		if _, err := m.sendCommand(ctx, "set_property", p.name, p.value); err != nil {
			return Status{}, fmt.Errorf("set %s: %w", p.name, err)
		}
	}

	wait := make(chan error, 1)
	m.stateMu.Lock()
	m.loadWait = wait
	m.state = Status{}
	m.stateMu.Unlock()

	defer func() {
		m.stateMu.Lock()
		if m.loadWait == wait {
			m.loadWait = nil
		}
		m.stateMu.Unlock()
	}()

	if _, err := m.sendCommand(ctx, "loadfile", target, "replace"); err != nil {
		return Status{}, err
	}

	select {
	case <-ctx.Done():
		return Status{}, ctx.Err()
	case <-m.exited:
		return Status{}, errors.New("mpv exited while loading")
	case err := <-wait:
		if err != nil {
			return Status{}, err
		}
	}

	return m.Status(ctx)
}

// Play resumes playback.
func (m *MPV) Play(ctx context.Context) error {
	return m.setProperty(ctx, "pause", false)
}

// Pause halts playback.
func (m *MPV) Pause(ctx context.Context) error {
	return m.setProperty(ctx, "pause", true)
}

// SetPosition seeks to an absolute offset.
func (m *MPV) SetPosition(ctx context.Context, ms int64) error {
	if !m.isRunning() {
		return ErrNotLoaded
	}
	_, err := m.sendCommand(ctx, "seek", float64(ms)/1000, "absolute")
	return err
}

// SetVolume maps v in [0, 1] onto mpv's percent scale.
func (m *MPV) SetVolume(ctx context.Context, v float64) error {
	return m.setProperty(ctx, "volume", v*100)
}

// Lock maps orientation onto mpv's window: landscape is fullscreen, portrait is windowed.
func (m *MPV) Lock(ctx context.Context, o Orientation) error {
	return m.setProperty(ctx, "fullscreen", o == Landscape)
}

// Status queries mpv directly. An idle or stopped instance reports an unloaded status.
func (m *MPV) Status(ctx context.Context) (Status, error) {
	if !m.isRunning() {
		return Status{}, nil
	}

	idle, err := m.sendCommand(ctx, "get_property", "idle-active")
	if err != nil {
		return Status{}, err
	}
	if b, ok := idle.(bool); ok && b {
		return Status{}, nil
	}

	status := Status{Loaded: true}

	paused, err := m.sendCommand(ctx, "get_property", "pause")
	if err != nil {
		return Status{}, err
	}
	if b, ok := paused.(bool); ok {
		status.Playing = !b
	}

	// Both are unavailable until the demuxer knows them.
	if pos, err := m.getFloatProperty(ctx, "time-pos"); err == nil {
		status.PositionMillis = secondsToMillis(pos)
	}
	if dur, err := m.getFloatProperty(ctx, "duration"); err == nil {
		status.DurationMillis = secondsToMillis(dur)
	}

	return status.Clamped(), nil
}

// Unload stops playback and shuts the process down. Only the first call has an effect.
func (m *MPV) Unload(ctx context.Context) error {
	m.procMu.Lock()
	if m.unloaded {
		m.procMu.Unlock()
		return nil
	}
	m.unloaded = true
	listener := m.listener
	m.listener = nil
	wasRunning := m.running()
	m.procMu.Unlock()

	if listener != nil {
		listener.Stop()
	}

	if !wasRunning {
		return nil
	}

	_, _ = m.sendCommand(ctx, "stop")
	_, _ = m.sendCommand(ctx, "quit")

	if m.cmd != nil {
		select {
		case <-m.exited:
		case <-ctx.Done():
			_ = killTree(m.cmd)
		case <-time.After(quitTimeout):
			_ = killTree(m.cmd)
		}
		_ = os.Remove(m.socketPath)
	}

	log.Infof("mpv unloaded")
	return nil
}

// Observe registers callbacks for pushed status snapshots and playback errors.
func (m *MPV) Observe(onStatus func(Status), onError func(error)) func() {
	m.obsMu.Lock()
	id := m.nextObs
	m.nextObs++
	m.observers[id] = observer{onStatus: onStatus, onError: onError}
	m.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.obsMu.Lock()
			delete(m.observers, id)
			m.obsMu.Unlock()
		})
	}
}

func (m *MPV) isRunning() bool {
	m.procMu.Lock()
	defer m.procMu.Unlock()
	return !m.unloaded && m.running()
}

func (m *MPV) setProperty(ctx context.Context, name string, value any) error {
	if !m.isRunning() {
		return ErrNotLoaded
	}
	_, err := m.sendCommand(ctx, "set_property", name, value)
	return err
}

// getFloatProperty retrieves a float64 property via IPC.
func (m *MPV) getFloatProperty(ctx context.Context, name string) (float64, error) {
	data, err := m.sendCommand(ctx, "get_property", name)
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// handleEvent folds an mpv event into the tracked status and notifies observers.
func (m *MPV) handleEvent(e event) {
	var (
		push    bool
		failure error
	)

	m.stateMu.Lock()
	switch e.Event {
	case "file-loaded":
		m.state.Loaded = true
		m.state.Error = mo.None[string]()
		if m.loadWait != nil {
			m.loadWait <- nil
			m.loadWait = nil
		}
		push = true
	case "end-file":
		if e.Reason == "error" {
			reason := e.FileError
			if reason == "" {
				reason = "playback failed"
			}
			failure = &mpvError{command: "playback", reason: reason}
			m.state.Loaded = false
			m.state.Playing = false
			m.state.Error = mo.Some(reason)
			if m.loadWait != nil {
				m.loadWait <- failure
				m.loadWait = nil
			}
			push = true
		}
	case "property-change":
		push = m.applyProperty(e.Name, e.Data)
	}

	status := m.state.Clamped()
	m.stateMu.Unlock()

	if !push {
		return
	}
	status.Seq = m.seq.Add(1)

	m.obsMu.Lock()
	observers := make([]observer, 0, len(m.observers))
	for _, o := range m.observers {
		observers = append(observers, o)
	}
	m.obsMu.Unlock()

	for _, o := range observers {
		if failure != nil && o.onError != nil {
			o.onError(failure)
		}
		if o.onStatus != nil {
			o.onStatus(status)
		}
	}
}

// applyProperty updates the tracked status. Callers hold stateMu.
func (m *MPV) applyProperty(name string, data any) bool {
	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			m.state.PositionMillis = secondsToMillis(v)
			return true
		}
	case "duration":
		if v, ok := data.(float64); ok {
			m.state.DurationMillis = secondsToMillis(v)
			return true
		}
	case "pause":
		if v, ok := data.(bool); ok {
			m.state.Playing = !v
			return true
		}
	case "idle-active":
		if v, ok := data.(bool); ok && v {
			m.state.Loaded = false
			m.state.Playing = false
			return true
		}
	case "eof-reached":
		if v, ok := data.(bool); ok && v {
			m.state.Playing = false
			return true
		}
	}
	return false
}

func secondsToMillis(s float64) int64 {
	return int64(s * 1000)
}

// sanitizeMediaTarget validates that a source is safe to hand to mpv.
// Sources starting with '-' would be parsed as flags.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
