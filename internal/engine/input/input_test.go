package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

// queue feeds a fixed event list to Update.
func queue(events ...sdl.Event) func() sdl.Event {
	return func() sdl.Event {
		if len(events) == 0 {
			return nil
		}
		e := events[0]
		events = events[1:]
		return e
	}
}

func key(typ uint32, code sdl.Scancode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: typ, Repeat: repeat, Keysym: sdl.Keysym{Scancode: code}}
}

func TestUpdateKeys(t *testing.T) {
	in := New()
	in.poll = queue(
		key(sdl.KEYDOWN, sdl.SCANCODE_F12, 0),
		key(sdl.KEYDOWN, sdl.SCANCODE_F12, 1),
		key(sdl.KEYUP, sdl.SCANCODE_F12, 0),
	)

	if in.Update() {
		t.Fatal("Update reported quit")
	}
	if got := len(in.Events()); got != 2 {
		t.Fatalf("got %d events, want 2 (repeat dropped)", got)
	}
	if !in.IsKeyPressed(sdl.SCANCODE_F12) {
		t.Error("F12 should be pressed")
	}
	if in.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
		t.Error("Escape should not be pressed")
	}

	// Events are cleared each update.
	in.poll = queue()
	in.Update()
	if len(in.Events()) != 0 || in.IsKeyPressed(sdl.SCANCODE_F12) {
		t.Error("events should be cleared")
	}
}

func TestUpdateQuitDrainsQueue(t *testing.T) {
	in := New()
	in.poll = queue(
		&sdl.QuitEvent{Type: sdl.QUIT},
		key(sdl.KEYDOWN, sdl.SCANCODE_ESCAPE, 0),
	)

	if !in.Update() {
		t.Fatal("expected quit")
	}
	if len(in.Events()) != 2 {
		t.Errorf("got %d events, want 2", len(in.Events()))
	}
}

func TestResized(t *testing.T) {
	in := New()
	in.poll = queue(
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1024, Data2: 768},
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED},
	)
	in.Update()

	w, h, ok := in.Resized()
	if !ok || w != 1024 || h != 768 {
		t.Errorf("Resized() = %d, %d, %v; want 1024, 768, true", w, h, ok)
	}

	in.poll = queue()
	in.Update()
	if _, _, ok := in.Resized(); ok {
		t.Error("no resize expected")
	}
}
