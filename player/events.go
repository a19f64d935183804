package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/goflix/goflix/log"
)

// event is a single asynchronous message pushed by mpv.
type event struct {
	Event     string `json:"event"`
	Name      string `json:"name"`
	Data      any    `json:"data"`
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
}

// observedProperties are registered with observe_property on the listener's connection.
// mpv only delivers property-change events to the client that registered them.
var observedProperties = []string{
	"time-pos",
	"duration",
	"pause",
	"idle-active",
	"eof-reached",
}

// EventListener keeps a persistent connection to mpv and forwards its events.
type EventListener struct {
	socketPath string
	handler    func(event)

	mu        sync.Mutex
	conn      net.Conn
	done      chan struct{}
	listening bool
}

// NewEventListener creates a listener for the given socket. handler runs on the read loop goroutine.
func NewEventListener(socketPath string, handler func(event)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		handler:    handler,
	}
}

// Start subscribes to property changes and starts the read loop.
func (el *EventListener) Start(ctx context.Context) error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observedProperties {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("marshal observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	// Wait for the acknowledgements so no change is missed once Start returns.
	reader := bufio.NewReader(conn)
	if err := el.awaitReplies(ctx, conn, reader, len(observedProperties)); err != nil {
		conn.Close()
		return err
	}

	el.conn = conn
	el.done = make(chan struct{})
	el.listening = true

	go el.readLoop(reader, el.done)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	conn, done := el.conn, el.done
	el.mu.Unlock()

	_ = conn.Close()
	<-done
}

// awaitReplies consumes n command replies, dispatching any event that arrives in between.
func (el *EventListener) awaitReplies(ctx context.Context, conn net.Conn, reader *bufio.Reader, n int) error {
	deadline := time.Now().Add(readDeadline)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	for n > 0 {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return fmt.Errorf("observe reply: %w", err)
		}

		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" {
			el.processEvent(line)
			continue
		}
		if resp.Error != "" && resp.Error != "success" {
			return &mpvError{command: "observe_property", reason: resp.Error}
		}
		n--
	}

	return conn.SetReadDeadline(time.Time{})
}

// readLoop reads newline-delimited JSON until the connection is closed.
func (el *EventListener) readLoop(reader *bufio.Reader, done chan struct{}) {
	defer close(done)

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			el.mu.Lock()
			stopped := !el.listening
			el.listening = false
			el.mu.Unlock()

			if !stopped {
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		el.processEvent(line)
	}
}

// processEvent parses a single line and dispatches it when it is an event.
// Command replies on the same connection carry no "event" field and are skipped.
func (el *EventListener) processEvent(line []byte) {
	var e event
	if err := json.Unmarshal(line, &e); err != nil {
		return
	}
	if e.Event == "" || el.handler == nil {
		return
	}
	el.handler(e)
}
