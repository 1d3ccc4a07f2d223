package ui

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"vibe-dj/internal/ai"
	"vibe-dj/internal/player"
	"vibe-dj/internal/queue"
	"vibe-dj/internal/resolver"
	"vibe-dj/internal/youtube"
)

// playerEvent carries one mpv-side occurrence into the screen event queue so
// all controller access stays on the UI loop.
type playerEvent struct {
	tcell.EventTime
	inner player.Event
}

// extensionEvent is the result of a background "load more" resolution.
type extensionEvent struct {
	tcell.EventTime
	songs []ai.Song
	err   *resolver.Error
}

// App is the interactive grid front-end for one session.
type App struct {
	screen     tcell.Screen
	controller *queue.Controller
	manager    *player.Manager
	service    *resolver.Service
	theme      string
	errLine    string
	rowOffset  int
	log        *slog.Logger
}

func New(service *resolver.Service, manager *player.Manager, theme string, columns, floor int, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	a := &App{
		manager: manager,
		service: service,
		theme:   theme,
		log:     log,
	}
	a.controller = queue.NewController(columns, floor, a.requestMoreSongs, log)
	return a
}

// Run drives the session until the user quits. The initial songs are assumed
// already resolved; their players spawn immediately.
func (a *App) Run(ctx context.Context, initial []ai.Song) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	a.screen = screen
	defer screen.Fini()
	defer a.manager.Close()

	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	a.controller.Append(initial)
	a.addPlayers(0)

	go a.pumpPlayerEvents()

	a.draw()
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		case *playerEvent:
			a.handlePlayerEvent(ev.inner)
		case *extensionEvent:
			a.handleExtensionEvent(ev)
		}
		a.draw()
	}
}

func (a *App) pumpPlayerEvents() {
	for ev := range a.manager.Events() {
		wrapped := &playerEvent{inner: ev}
		wrapped.SetEventNow()
		if err := a.screen.PostEvent(wrapped); err != nil {
			a.log.Debug("screen event queue full, player event dropped", "index", ev.Index)
		}
	}
}

// requestMoreSongs is the controller's extension callback. Resolution runs off
// the UI loop and the outcome comes back as a screen event.
func (a *App) requestMoreSongs() {
	go func() {
		resp, rerr := a.service.Resolve(context.Background(), resolver.Request{Theme: a.theme})
		ev := &extensionEvent{err: rerr}
		if rerr == nil {
			ev.songs = resp.Songs
		}
		ev.SetEventNow()
		if err := a.screen.PostEvent(ev); err != nil {
			a.log.Debug("screen event queue full, extension result dropped")
		}
	}()
}

func (a *App) handleKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		a.controller.Move(queue.Up)
	case tcell.KeyDown:
		a.controller.Move(queue.Down)
	case tcell.KeyLeft:
		a.controller.Move(queue.Left)
	case tcell.KeyRight:
		a.controller.Move(queue.Right)
	case tcell.KeyEnter:
		a.controller.Activate()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'w', 'W':
			a.controller.Move(queue.Up)
		case 's', 'S':
			a.controller.Move(queue.Down)
		case 'a', 'A':
			a.controller.Move(queue.Left)
		case 'd', 'D':
			a.controller.Move(queue.Right)
		case ' ':
			a.controller.Activate()
		}
	}
	return false
}

func (a *App) handlePlayerEvent(ev player.Event) {
	switch ev.Kind {
	case player.EventReady:
		a.controller.OnPlayerReady(ev.Index, ev.Handle)
	case player.EventStateChange:
		a.controller.OnStateChange(ev.Index, ev.State)
	case player.EventError:
		a.controller.OnPlaybackError(ev.Index)
	}
}

func (a *App) handleExtensionEvent(ev *extensionEvent) {
	if ev.err != nil {
		a.errLine = ev.err.Message
		a.controller.ExtensionFailed()
		return
	}
	a.errLine = ""
	before := a.controller.Len()
	a.controller.ExtensionDone(ev.songs)
	a.addPlayers(before)
}

// addPlayers spawns players for every slot at or past from.
func (a *App) addPlayers(from int) {
	for i := from; i < a.controller.Len(); i++ {
		a.manager.Add(i, youtube.VideoID(a.controller.Song(i).URL))
	}
}
