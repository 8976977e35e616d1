package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
)

// Arg is the argument bound to an Action alongside its key.
type Arg struct {
	// Int selects a direction (its sign) or a variant of the action.
	Int int
	// Cmd is the command line started by spawn.
	Cmd []string
}

// Direction maps a positive Int to Forward and anything else to
// Backward.
func (a Arg) Direction() Direction {
	if a.Int > 0 {
		return Forward
	}
	return Backward
}

// Action is a state-mutating operation bound to a key.
type Action func(wm *WM, arg Arg) error

// actions are the Actions available by name to the config file and the
// API.
var actions = map[string]Action{
	"cycle":    cycleAction,
	"kill":     killAction,
	"focusmon": focusMonitorAction,
	"movemon":  moveMonitorAction,
	"spawn":    spawnAction,
	"quit":     quitAction,
}

// ActionNames returns the names of all known actions, sorted.
func ActionNames() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupAction returns the Action called name.
func LookupAction(name string) (Action, error) {
	a, ok := actions[name]
	if !ok {
		return nil, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}

func cycleAction(wm *WM, arg Arg) error {
	return wm.cycle(arg.Direction())
}

func killAction(wm *WM, arg Arg) error {
	return wm.killClient(arg.Int != 0)
}

func focusMonitorAction(wm *WM, arg Arg) error {
	return wm.focusMonitor(arg.Direction())
}

func moveMonitorAction(wm *WM, arg Arg) error {
	return wm.moveClientToMonitor(arg.Direction())
}

func spawnAction(wm *WM, arg Arg) error {
	return spawn(arg.Cmd)
}

func quitAction(wm *WM, arg Arg) error {
	wm.running = false
	return nil
}

// cycle moves focus to the neighbour of the current client on the
// selected monitor, wrapping around at either end of the list.
func (wm *WM) cycle(d Direction) error {
	m := wm.ring.Selected()
	c := m.current
	if c == nil {
		return nil
	}
	var next *Client
	if d == Forward {
		if next = c.Next(); next == nil {
			next = m.First()
		}
	} else {
		if next = c.Prev(); next == nil {
			next = m.Last()
		}
	}
	m.current = next
	return wm.refocus()
}

// killClient asks the current client of the selected monitor to close.
// It is removed from its monitor once its window is destroyed.
func (wm *WM) killClient(force bool) error {
	c := wm.ring.Selected().current
	if c == nil {
		slog.Debug("kill: no current client")
		return nil
	}
	return wm.conn.CloseWindow(c.Window, force)
}

// focusMonitor selects the monitor next to the selected one. There is
// no wrap-around: at the end of the ring nothing happens.
func (wm *WM) focusMonitor(d Direction) error {
	m := wm.ring.Neighbor(wm.ring.Selected(), d)
	if m == nil {
		return nil
	}
	wm.ring.Select(m)
	slog.Debug("focus monitor", "monitor", m.ID)
	if m.current == nil {
		return nil
	}
	return wm.refocus()
}

// moveClientToMonitor sends the current client of the selected monitor
// to the adjacent monitor, resizes it to fill that monitor and follows
// it there.
func (wm *WM) moveClientToMonitor(d Direction) error {
	src := wm.ring.Selected()
	c := src.current
	if c == nil {
		return nil
	}
	dst := wm.ring.Neighbor(src, d)
	if dst == nil || dst == src {
		return nil
	}
	src.detach(c)
	dst.insert(c)
	wm.ring.Select(dst)
	slog.Debug("move client", "window", c.Window, "from", src.ID, "to", dst.ID)
	err := wm.conn.MoveResize(c.Window, dst.Rect)
	return errors.Join(err, wm.refocus())
}

func spawn(cmdline []string) error {
	if len(cmdline) == 0 {
		return fmt.Errorf("spawn: empty command")
	}
	cmd := exec.Command(cmdline[0], cmdline[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %s: %w", cmdline[0], err)
	}
	go cmd.Wait()
	return nil
}
