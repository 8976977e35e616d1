package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
)

var (
	errorDisconnected = errors.New("X connection closed")
	errorNoMonitors   = errors.New("no monitors")
)

// WM holds the global window manager state. It is only ever touched
// from the goroutine running Run; everything else goes through Do.
type WM struct {
	conn Conn
	ring *Ring

	bindings    []Binding
	numlockMask uint16

	running  bool
	requests chan func()
	done     chan struct{}

	// hub, when set, receives a record of every handled event.
	hub *Hub
}

// NewWM sets up the state for one Monitor per rectangle, the first of
// them selected.
func NewWM(conn Conn, rects []Rect, bindings []Binding) (*WM, error) {
	ring := NewRing(rects)
	if ring == nil {
		return nil, errorNoMonitors
	}
	return &WM{
		conn:     conn,
		ring:     ring,
		bindings: bindings,
		requests: make(chan func()),
		done:     make(chan struct{}),
	}, nil
}

// SelectedMonitor returns the monitor keyboard actions apply to.
func (wm *WM) SelectedMonitor() *Monitor {
	return wm.ring.Selected()
}

// Monitors returns all monitors in ring order.
func (wm *WM) Monitors() []*Monitor {
	return wm.ring.Monitors()
}

// findClient looks w up across all monitors, returning nil if it is not
// managed.
func (wm *WM) findClient(w xproto.Window) *Client {
	for _, m := range wm.ring.monitors {
		if c := m.find(w); c != nil {
			return c
		}
	}
	return nil
}

// destroy forgets about w. Unknown windows are ignored, so late or
// duplicate notifications are harmless. It reports whether a client
// was removed.
func (wm *WM) destroy(w xproto.Window) bool {
	c := wm.findClient(w)
	if c == nil {
		return false
	}
	c.owner.detach(c)
	return true
}

// refocus raises and focuses the current client of the selected
// monitor, electing the head of the list if nothing is current.
func (wm *WM) refocus() error {
	m := wm.ring.Selected()
	if m.current == nil {
		m.current = m.First()
	}
	if m.current == nil {
		return nil
	}
	w := m.current.Window
	if err := wm.conn.Raise(w); err != nil {
		return err
	}
	return wm.conn.Focus(w)
}

// Run handles events until a quit action fires, the event channel is
// closed or ctx is done. Requests submitted with Do run between events.
func (wm *WM) Run(ctx context.Context, events <-chan Event) error {
	defer close(wm.done)
	wm.running = true
	for wm.running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return errorDisconnected
			}
			if err := wm.handleEvent(ev); err != nil {
				slog.Warn("handle event", "kind", ev.Kind, "window", ev.Window, "error", err)
			}
		case req := <-wm.requests:
			req()
		}
	}
	slog.Info("quit")
	return nil
}

// Do runs fn on the run loop and returns its error. It fails with
// errorDisconnected once the loop has stopped.
func (wm *WM) Do(ctx context.Context, fn func(wm *WM) error) error {
	errC := make(chan error, 1)
	req := func() { errC <- fn(wm) }
	select {
	case wm.requests <- req:
	case <-wm.done:
		return errorDisconnected
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-errC
}
