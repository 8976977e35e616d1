package main

import (
	"errors"
	"log/slog"
)

// handlers routes each event kind to its handler. Kinds missing here
// are ignored.
var handlers = map[EventKind]func(*WM, Event) error{
	EventDestroyNotify: (*WM).handleDestroyNotify,
	EventUnmapNotify:   (*WM).handleUnmapNotify,
	EventMapNotify:     (*WM).handleMapNotify,
	EventKeyPress:      (*WM).handleKeyPress,
	EventMappingNotify: (*WM).handleMappingNotify,
}

func (wm *WM) handleEvent(ev Event) (err error) {
	h, ok := handlers[ev.Kind]
	if !ok {
		return nil
	}
	err = h(wm, ev)
	wm.hub.Publish(wm.eventRecord(ev))
	return err
}

func (wm *WM) handleDestroyNotify(e Event) error {
	if !wm.destroy(e.Window) {
		slog.Debug("destroyed a window that was not being managed", "window", e.Window)
	}
	return wm.refocus()
}

func (wm *WM) handleUnmapNotify(e Event) error {
	if !wm.destroy(e.Window) {
		slog.Debug("unmapped a window that was not being managed", "window", e.Window)
		return nil
	}
	return wm.refocus()
}

func (wm *WM) handleMapNotify(e Event) error {
	if e.OverrideRedirect {
		return nil
	}
	if c := wm.findClient(e.Window); c != nil {
		slog.Debug("mapped a window that is already managed", "window", e.Window, "monitor", c.owner.ID)
		return nil
	}
	m := wm.ring.Selected()
	m.attach(e.Window)
	err := wm.conn.MoveResize(e.Window, m.Rect)
	return errors.Join(err, wm.refocus())
}

func (wm *WM) handleKeyPress(e Event) error {
	return wm.dispatch(e.Key)
}

// handleMappingNotify regrabs every binding against the new keyboard
// mapping; keycodes and the NumLock bit may both have moved.
func (wm *WM) handleMappingNotify(e Event) error {
	if err := wm.conn.RefreshKeymap(); err != nil {
		return err
	}
	return wm.grabKeys()
}
