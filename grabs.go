package main

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
)

// Binding ties a modifier mask and keysym to an Action.
type Binding struct {
	Mod    uint16
	Keysym string
	Name   string
	Action Action
	Arg    Arg
}

// modMaskAll covers the eight core modifier bits; pointer button bits
// in an event's state are not modifiers.
const modMaskAll = xproto.ModMaskShift | xproto.ModMaskLock | xproto.ModMaskControl |
	xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5

// DefaultBindings is the binding table used when the config file does
// not provide one.
func DefaultBindings() []Binding {
	const (
		mod   = xproto.ModMask1
		shift = xproto.ModMaskShift
	)
	return []Binding{
		{Mod: mod, Keysym: "j", Name: "cycle", Action: cycleAction, Arg: Arg{Int: +1}},
		{Mod: mod, Keysym: "k", Name: "cycle", Action: cycleAction, Arg: Arg{Int: -1}},
		{Mod: mod, Keysym: "period", Name: "focusmon", Action: focusMonitorAction, Arg: Arg{Int: +1}},
		{Mod: mod, Keysym: "comma", Name: "focusmon", Action: focusMonitorAction, Arg: Arg{Int: -1}},
		{Mod: mod | shift, Keysym: "period", Name: "movemon", Action: moveMonitorAction, Arg: Arg{Int: +1}},
		{Mod: mod | shift, Keysym: "comma", Name: "movemon", Action: moveMonitorAction, Arg: Arg{Int: -1}},
		{Mod: mod | shift, Keysym: "c", Name: "kill", Action: killAction},
		{Mod: mod | shift, Keysym: "x", Name: "kill", Action: killAction, Arg: Arg{Int: 1}},
		{Mod: mod, Keysym: "Return", Name: "spawn", Action: spawnAction, Arg: Arg{Cmd: []string{"x-terminal-emulator"}}},
		{Mod: mod | shift, Keysym: "q", Name: "quit", Action: quitAction},
	}
}

// cleanMask drops NumLock, CapsLock and pointer button bits so that
// bindings match whatever the lock state is.
func (wm *WM) cleanMask(mask uint16) uint16 {
	return mask & modMaskAll &^ (wm.numlockMask | xproto.ModMaskLock)
}

// dispatch runs the first binding matching the key event. Unbound keys
// are ignored.
func (wm *WM) dispatch(ev KeyEvent) error {
	state := wm.cleanMask(ev.State)
	for _, b := range wm.bindings {
		if b.Action == nil || b.Keysym != ev.Keysym || wm.cleanMask(b.Mod) != state {
			continue
		}
		slog.Debug("key binding", "keysym", ev.Keysym, "action", b.Name, "arg", b.Arg.Int)
		return b.Action(wm, b.Arg)
	}
	return nil
}

// lockCombinations returns the lock modifier variants every binding is
// grabbed with, without duplicates.
func lockCombinations(numlock uint16) []uint16 {
	mods := []uint16{0, xproto.ModMaskLock}
	if numlock != 0 && numlock != xproto.ModMaskLock {
		mods = append(mods, numlock, numlock|xproto.ModMaskLock)
	}
	return mods
}

// grabKeys detects the NumLock modifier and grabs every binding under
// every lock combination on the root window. Grabs that fail are logged
// and skipped.
func (wm *WM) grabKeys() error {
	numlock, err := wm.conn.NumLockMask()
	if err != nil {
		slog.Warn("could not query modifier mapping", "error", err)
		numlock = 0
	}
	wm.numlockMask = numlock

	if err := wm.conn.UngrabKeys(); err != nil {
		return err
	}
	for _, b := range wm.bindings {
		for _, mods := range lockCombinations(numlock) {
			if err := wm.conn.GrabKey(b.Keysym, b.Mod|mods); err != nil {
				slog.Warn("grab key", "keysym", b.Keysym, "mods", b.Mod|mods, "error", err)
			}
		}
	}
	return nil
}
