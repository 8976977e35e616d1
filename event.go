package main

import (
	"github.com/BurntSushi/xgb/xproto"
)

// EventKind tags an inbound protocol event.
type EventKind int

const (
	EventOther EventKind = iota
	EventDestroyNotify
	EventMapNotify
	EventUnmapNotify
	EventKeyPress
	EventMappingNotify
)

var eventKindNames = map[EventKind]string{
	EventOther:         "Other",
	EventDestroyNotify: "DestroyNotify",
	EventMapNotify:     "MapNotify",
	EventUnmapNotify:   "UnmapNotify",
	EventKeyPress:      "KeyPress",
	EventMappingNotify: "MappingNotify",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// KeyEvent is a key press, already translated from a keycode to the
// name of the keysym in the first column of the keyboard mapping.
type KeyEvent struct {
	Keysym string
	State  uint16
}

// Event is what the run loop consumes. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind   EventKind
	Window xproto.Window
	Key    KeyEvent

	// OverrideRedirect is set on map notifications for windows that
	// asked not to be managed (menus, tooltips).
	OverrideRedirect bool
}

// Conn is the outbound side of the X connection: the commands the
// window manager issues.
type Conn interface {
	Raise(w xproto.Window) error
	Focus(w xproto.Window) error
	MoveResize(w xproto.Window, r Rect) error
	// CloseWindow asks w to close. With force set, the owning client
	// connection is killed instead.
	CloseWindow(w xproto.Window, force bool) error
	GrabKey(keysym string, mods uint16) error
	UngrabKeys() error
	// NumLockMask queries the modifier mapping for the bit NumLock is
	// bound to; zero if it is not bound.
	NumLockMask() (uint16, error)
	// RefreshKeymap reloads the keyboard and modifier mappings after
	// they changed on the server.
	RefreshKeymap() error
	Close()
}
