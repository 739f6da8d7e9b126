package graphics

import (
	"github.com/blendwall/blendwall/pkg/thread"
	"github.com/veandco/go-sdl2/sdl"
)

type EventKind int

const (
	EventQuit EventKind = iota
	EventResize
	EventKey
)

// Event is a window event the host reacts to.
type Event struct {
	Kind EventKind
	W, H int
	Key  string
}

// Poll drains the SDL event queue on the main thread.
func (s *SDL) Poll() (events []Event) {
	thread.Call(func() {
		for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
			if ev, ok := translate(e); ok {
				events = append(events, ev)
			}
		}
	})
	return
}

func translate(e sdl.Event) (Event, bool) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		return Event{Kind: EventQuit}, true
	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Kind: EventResize, W: int(e.Data1), H: int(e.Data2)}, true
		}
	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{Kind: EventKey, Key: sdl.GetKeyName(e.Keysym.Sym)}, true
		}
	}
	return Event{}, false
}
