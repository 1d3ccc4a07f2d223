package queue

import (
	"log/slog"

	"vibe-dj/internal/ai"
)

// Player is the capability the controller needs from a playback widget.
// Handles are exclusively owned by the controller once recorded; nothing
// else drives them.
type Player interface {
	Play() error
	Pause() error
}

type State int

const (
	StateUnstarted State = iota
	StatePlaying
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// None marks an unset cursor: no selection before the first append, no
// playing position while everything is paused.
const None = -1

// DefaultFloor is the queue length below which an extension is triggered
// without user action.
const DefaultFloor = 12

type slot struct {
	song   ai.Song
	ready  bool
	player Player
}

// Controller is the navigation/playback state machine for one session: a
// grid cursor over the queue plus the trailing "load more" sentinel cell, at
// most one playing position, auto-advance on end or error, and auto-extension
// while the queue is thin. All methods must be called from a single event
// loop; the controller does no locking of its own.
type Controller struct {
	slots     []slot
	selected  int
	playing   int
	columns   int
	floor     int
	extending bool
	onExtend  func()
	log       *slog.Logger
}

func NewController(columns, floor int, onExtend func(), log *slog.Logger) *Controller {
	if columns < 1 {
		columns = 1
	}
	if floor <= 0 {
		floor = DefaultFloor
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		selected: None,
		playing:  None,
		columns:  columns,
		floor:    floor,
		onExtend: onExtend,
		log:      log,
	}
}

func (c *Controller) Len() int           { return len(c.slots) }
func (c *Controller) Columns() int       { return c.columns }
func (c *Controller) Selected() int      { return c.selected }
func (c *Controller) Playing() int       { return c.playing }
func (c *Controller) Extending() bool    { return c.extending }
func (c *Controller) OnSentinel() bool   { return c.selected == len(c.slots) && c.selected != None }
func (c *Controller) Song(i int) ai.Song { return c.slots[i].song }
func (c *Controller) Ready(i int) bool   { return c.slots[i].ready }

// Append extends the queue. The selection cursor tracks the sentinel cell if
// it was sitting on it, so the "load more" affordance keeps focus across an
// extension; the first ever append selects position zero.
func (c *Controller) Append(songs []ai.Song) {
	oldLen := len(c.slots)
	wasOnSentinel := c.selected == oldLen && c.selected != None

	for _, song := range songs {
		c.slots = append(c.slots, slot{song: song})
	}

	switch {
	case c.selected == None && len(c.slots) > 0:
		c.selected = 0
	case wasOnSentinel:
		c.selected = len(c.slots)
	}

	c.maybeAutoExtend()
}

// OnPlayerReady records the handle for a position. A handle is set once and
// never reassigned; late duplicate ready events are dropped.
func (c *Controller) OnPlayerReady(index int, p Player) {
	if index < 0 || index >= len(c.slots) {
		return
	}
	if c.slots[index].player != nil {
		return
	}
	c.slots[index].player = p
	c.slots[index].ready = true
}

// OnStateChange applies a player-reported state transition. A position
// entering the playing state pauses every other recorded handle; a position
// ending while current advances playback to the next position.
func (c *Controller) OnStateChange(index int, state State) {
	if index < 0 || index >= len(c.slots) {
		return
	}
	switch state {
	case StatePlaying:
		c.playing = index
		c.pauseOthers(index)
	case StateEnded:
		if index == c.playing && index < len(c.slots)-1 {
			c.advance(index + 1)
		}
	}
}

// OnPlaybackError treats a player-reported error like a natural end of track.
func (c *Controller) OnPlaybackError(index int) {
	if index == c.playing && index >= 0 && index < len(c.slots)-1 {
		c.advance(index + 1)
	}
}

// Move shifts the selection cursor over the grid. The sentinel cell only
// connects upward; all other out-of-range targets clamp or stay put, since
// the grid has no wraparound.
func (c *Controller) Move(dir Direction) {
	if c.selected == None || len(c.slots) == 0 {
		return
	}
	p := c.selected
	sentinel := len(c.slots)

	if p == sentinel {
		if dir == Up {
			c.selected = sentinel - 1
		}
		return
	}

	switch dir {
	case Up:
		c.selected = max(0, p-c.columns)
	case Down:
		next := p + c.columns
		if next >= sentinel {
			next = sentinel
		}
		c.selected = next
	case Left:
		if p%c.columns > 0 {
			c.selected = p - 1
		}
	case Right:
		if p%c.columns < c.columns-1 && p+1 < sentinel {
			c.selected = p + 1
		}
	}
}

// Activate is the space/confirm action for the current cursor position: on
// the sentinel it requests an extension, on a ready cell it toggles
// play/pause. Playing state is only entered via the subsequent player
// callback; the play command is not assumed to succeed synchronously.
func (c *Controller) Activate() {
	if c.selected == None {
		return
	}
	if c.selected == len(c.slots) {
		c.RequestExtension()
		return
	}

	s := &c.slots[c.selected]
	if !s.ready || s.player == nil {
		c.log.Debug("player not ready", "index", c.selected)
		return
	}
	if c.playing == c.selected {
		if err := s.player.Pause(); err != nil {
			c.log.Debug("pause failed", "index", c.selected, "error", err)
		}
		c.playing = None
		return
	}
	if err := s.player.Play(); err != nil {
		c.log.Debug("play failed", "index", c.selected, "error", err)
	}
}

// RequestExtension starts an extension unless one is already in flight.
func (c *Controller) RequestExtension() {
	if c.extending {
		return
	}
	c.extending = true
	if c.onExtend != nil {
		c.onExtend()
	}
}

// ExtensionDone appends the newly resolved songs and clears the in-flight
// flag. Append runs after the flag is cleared so a still-thin queue can
// trigger the next top-up.
func (c *Controller) ExtensionDone(songs []ai.Song) {
	c.extending = false
	c.Append(songs)
}

// ExtensionFailed clears the in-flight flag without retrying; the sentinel
// cell remains available for a manual retry.
func (c *Controller) ExtensionFailed() {
	c.extending = false
}

func (c *Controller) advance(next int) {
	c.playing = next
	s := c.slots[next]
	if !s.ready || s.player == nil {
		return
	}
	if err := s.player.Play(); err != nil {
		c.log.Debug("auto-advance play failed", "index", next, "error", err)
	}
}

// pauseOthers sweeps every other recorded handle. Failures are swallowed per
// handle so one dying player cannot keep the rest running.
func (c *Controller) pauseOthers(index int) {
	for i := range c.slots {
		if i == index || c.slots[i].player == nil {
			continue
		}
		if err := c.slots[i].player.Pause(); err != nil {
			c.log.Debug("pause sweep failed", "index", i, "error", err)
		}
	}
}

func (c *Controller) maybeAutoExtend() {
	if n := len(c.slots); n > 0 && n < c.floor {
		c.RequestExtension()
	}
}
