package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"vibe-dj/internal/queue"
	"vibe-dj/internal/youtube"
)

const (
	socketCheckRetries  = 50
	socketCheckInterval = 100 * time.Millisecond
	commandReadDeadline = 500 * time.Millisecond
	pauseObserveID      = 1
)

var mpvBinary = "mpv"

type EventKind int

const (
	EventReady EventKind = iota
	EventStateChange
	EventError
)

// Event is one player-side occurrence for a queue position. Ready events
// carry the handle so the receiving loop can record it with the controller.
type Event struct {
	Index  int
	Kind   EventKind
	State  queue.State
	Handle *Handle
}

type mpvCommand struct {
	Command []any `json:"command"`
}

type mpvMessage struct {
	Event  string `json:"event"`
	Name   string `json:"name"`
	Data   any    `json:"data"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// Handle is one mpv process bound to one queue position, mirroring the
// one-embedded-player-per-cell model. Commands go over short-lived IPC
// connections; a long-lived connection feeds the event stream.
type Handle struct {
	index      int
	socketPath string
	cmd        *exec.Cmd
	mu         sync.Mutex
	log        *slog.Logger
}

func (h *Handle) Play() error  { return h.setPause(false) }
func (h *Handle) Pause() error { return h.setPause(true) }

func (h *Handle) setPause(paused bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.send(mpvCommand{Command: []any{"set_property", "pause", paused}})
}

func (h *Handle) send(cmd mpvCommand) error {
	conn, err := net.Dial("unix", h.socketPath)
	if err != nil {
		return fmt.Errorf("could not connect to mpv socket: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(commandReadDeadline))
	return json.NewEncoder(conn).Encode(cmd)
}

func (h *Handle) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cmd != nil && h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
	}
	os.Remove(h.socketPath)
}

// Manager owns the mpv processes for one session and fans their events into
// a single channel for the host event loop.
type Manager struct {
	events  chan Event
	sockDir string
	log     *slog.Logger

	mu      sync.Mutex
	handles []*Handle
	closed  bool
}

func NewManager(log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.Default()
	}
	dir, err := os.MkdirTemp("", "vibe-dj-mpv-")
	if err != nil {
		return nil, err
	}
	return &Manager{
		events:  make(chan Event, 64),
		sockDir: dir,
		log:     log,
	}, nil
}

func (m *Manager) Events() <-chan Event { return m.events }

// Add spawns the player for a queue position. A song with no extractable
// video id gets no player and never reports ready.
func (m *Manager) Add(index int, videoID string) {
	if videoID == "" {
		m.log.Debug("no video id, slot stays unplayable", "index", index)
		return
	}
	h := &Handle{
		index:      index,
		socketPath: filepath.Join(m.sockDir, fmt.Sprintf("mpv-%d.sock", index)),
		log:        m.log,
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.handles = append(m.handles, h)
	m.mu.Unlock()

	go m.run(h, videoID)
}

func (m *Manager) run(h *Handle, videoID string) {
	args := []string{
		"--idle=no",
		"--pause",
		"--no-video",
		"--no-config",
		"--really-quiet",
		"--input-ipc-server=" + h.socketPath,
		youtube.WatchURL(videoID),
	}
	h.cmd = exec.Command(mpvBinary, args...)
	if err := h.cmd.Start(); err != nil {
		m.log.Debug("could not start mpv", "index", h.index, "error", err)
		return
	}

	conn, err := m.waitForSocket(h)
	if err != nil {
		m.log.Debug("mpv socket never appeared", "index", h.index, "error", err)
		h.stop()
		return
	}
	defer conn.Close()

	observe := mpvCommand{Command: []any{"observe_property", pauseObserveID, "pause"}}
	if err := json.NewEncoder(conn).Encode(observe); err != nil {
		m.log.Debug("could not observe pause property", "index", h.index, "error", err)
		h.stop()
		return
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg mpvMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		ev, ok := mapEvent(h.index, msg)
		if !ok {
			continue
		}
		if ev.Kind == EventReady {
			ev.Handle = h
		}
		m.emit(ev)
	}
}

func (m *Manager) waitForSocket(h *Handle) (net.Conn, error) {
	for i := 0; i < socketCheckRetries; i++ {
		if conn, err := net.Dial("unix", h.socketPath); err == nil {
			return conn, nil
		}
		time.Sleep(socketCheckInterval)
	}
	return nil, fmt.Errorf("socket %s not ready after %d attempts", h.socketPath, socketCheckRetries)
}

func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return
	}
	select {
	case m.events <- ev:
	default:
		m.log.Debug("player event dropped", "index", ev.Index)
	}
}

func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	handles := m.handles
	m.mu.Unlock()

	for _, h := range handles {
		h.stop()
	}
	os.RemoveAll(m.sockDir)
}

// mapEvent translates one mpv IPC message into a player event. The initial
// pause=true notification fired by observe_property maps to a paused state
// change, which the controller ignores.
func mapEvent(index int, msg mpvMessage) (Event, bool) {
	switch msg.Event {
	case "file-loaded":
		return Event{Index: index, Kind: EventReady}, true
	case "property-change":
		if msg.Name != "pause" {
			return Event{}, false
		}
		paused, ok := msg.Data.(bool)
		if !ok {
			return Event{}, false
		}
		state := queue.StatePlaying
		if paused {
			state = queue.StatePaused
		}
		return Event{Index: index, Kind: EventStateChange, State: state}, true
	case "end-file":
		if msg.Reason == "error" {
			return Event{Index: index, Kind: EventError}, true
		}
		if msg.Reason == "eof" {
			return Event{Index: index, Kind: EventStateChange, State: queue.StateEnded}, true
		}
		return Event{}, false
	default:
		return Event{}, false
	}
}
