package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// rootEventMask is what we listen to on the root window. We never ask
// for SubstructureRedirect: windows map themselves and we only follow.
const rootEventMask = xproto.EventMaskSubstructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// XConn is the X11 implementation of Conn. It also produces the inbound
// Event stream.
type XConn struct {
	xc    *xgb.Conn
	xroot xproto.ScreenInfo
	atoms atoms

	// keymapMu guards the keyboard mappings cached in xu, read by the
	// event pump and replaced by RefreshKeymap on the run loop.
	keymapMu sync.Mutex
	xu       *xgbutil.XUtil
}

// OpenX connects to the display named by $DISPLAY and starts listening
// for events on its root window.
func OpenX() (*XConn, error) {
	xc, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	x, err := setupX(xc)
	if err != nil {
		xc.Close()
		return nil, err
	}
	return x, nil
}

func setupX(xc *xgb.Conn) (*XConn, error) {
	setup := xproto.Setup(xc)
	if setup == nil || len(setup.Roots) < 1 {
		return nil, fmt.Errorf("could not parse SetupInfo")
	}
	xu, err := xgbutil.NewConnXgb(xc)
	if err != nil {
		return nil, err
	}
	keybind.Initialize(xu)

	x := &XConn{
		xc:    xc,
		xu:    xu,
		xroot: setup.Roots[0],
	}
	if x.atoms, err = internAtoms(xc); err != nil {
		return nil, err
	}

	mask := uint32(xproto.CwEventMask)
	values := []uint32{rootEventMask}
	if cursor, err := createLeftPtr(xc); err != nil {
		slog.Warn("could not create root cursor", "error", err)
	} else {
		mask |= xproto.CwCursor
		values = append(values, uint32(cursor))
	}
	if err := xproto.ChangeWindowAttributesChecked(
		xc,
		x.xroot.Root,
		mask,
		values,
	).Check(); err != nil {
		return nil, fmt.Errorf("select root events: %w", err)
	}
	return x, nil
}

// Raise puts w on top of the stacking order.
func (x *XConn) Raise(w xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		x.xc,
		w,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// Focus gives w the input focus.
func (x *XConn) Focus(w xproto.Window) error {
	return xproto.SetInputFocusChecked(
		x.xc,                         // conn
		xproto.InputFocusPointerRoot, // revert to
		w,                            // focus
		xproto.TimeCurrentTime,       // time
	).Check()
}

// MoveResize places w over r.
func (x *XConn) MoveResize(w xproto.Window, r Rect) error {
	return xproto.ConfigureWindowChecked(
		x.xc,
		w,
		xproto.ConfigWindowX|
			xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|
			xproto.ConfigWindowHeight,
		[]uint32{
			uint32(int32(r.X)),
			uint32(int32(r.Y)),
			uint32(r.W),
			uint32(r.H),
		},
	).Check()
}

// CloseWindow sends WM_DELETE_WINDOW if w takes part in that protocol
// and destroys it otherwise. With force, the client is killed.
func (x *XConn) CloseWindow(w xproto.Window, force bool) error {
	if force {
		return xproto.KillClientChecked(x.xc, uint32(w)).Check()
	}
	prop, err := xproto.GetProperty(
		x.xc,
		false,                     // delete
		w,                         // window
		x.atoms.WMProtocols,       // property
		xproto.GetPropertyTypeAny, // atom
		0,                         // offset
		64,                        // length
	).Reply()
	if err != nil {
		return err
	}
	if prop == nil || !hasAtom(prop.Value, x.atoms.WMDeleteWindow) {
		// The window doesn't follow ICCCM. Just destroy it.
		return xproto.DestroyWindowChecked(x.xc, w).Check()
	}
	// ICCCM 4.2.8 ClientMessage
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w,
		Type:   x.atoms.WMProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(x.atoms.WMDeleteWindow),
			uint32(xproto.TimeCurrentTime),
			0,
			0,
			0,
		}),
	}
	return xproto.SendEventChecked(
		x.xc,
		false,                   // propagate
		w,                       // destination
		xproto.EventMaskNoEvent, // eventmask
		string(ev.Bytes()),      // event
	).Check()
}

// GrabKey grabs every keycode producing keysym, under mods, on the root
// window.
func (x *XConn) GrabKey(keysym string, mods uint16) error {
	x.keymapMu.Lock()
	codes := keybind.StrToKeycodes(x.xu, keysym)
	x.keymapMu.Unlock()
	if len(codes) == 0 {
		return fmt.Errorf("no keycode for keysym %q", keysym)
	}
	for _, code := range codes {
		if err := xproto.GrabKeyChecked(
			x.xc,
			true,
			x.xroot.Root,
			mods,
			code,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Check(); err != nil {
			return err
		}
	}
	return nil
}

// UngrabKeys releases every key grab on the root window.
func (x *XConn) UngrabKeys() error {
	return xproto.UngrabKeyChecked(x.xc, xproto.GrabAny, x.xroot.Root, xproto.ModMaskAny).Check()
}

// NumLockMask returns the modifier bit NumLock is mapped to.
func (x *XConn) NumLockMask() (uint16, error) {
	modmap, err := xproto.GetModifierMapping(x.xc).Reply()
	if err != nil {
		return 0, err
	}
	x.keymapMu.Lock()
	numlock := keybind.StrToKeycodes(x.xu, "Num_Lock")
	x.keymapMu.Unlock()
	per := int(modmap.KeycodesPerModifier)
	var mask uint16
	for i := 0; i < 8; i++ {
		for j := 0; j < per; j++ {
			code := modmap.Keycodes[i*per+j]
			for _, nl := range numlock {
				if code != 0 && code == nl {
					mask = 1 << uint(i)
				}
			}
		}
	}
	return mask, nil
}

// RefreshKeymap fetches the current keyboard and modifier mappings.
func (x *XConn) RefreshKeymap() error {
	setup := xproto.Setup(x.xc)
	min, max := setup.MinKeycode, setup.MaxKeycode
	keymap, err := xproto.GetKeyboardMapping(x.xc, min, byte(max-min+1)).Reply()
	if err != nil {
		return fmt.Errorf("keyboard mapping: %w", err)
	}
	modmap, err := xproto.GetModifierMapping(x.xc).Reply()
	if err != nil {
		return fmt.Errorf("modifier mapping: %w", err)
	}
	x.keymapMu.Lock()
	keybind.KeyMapSet(x.xu, keymap)
	keybind.ModMapSet(x.xu, modmap)
	x.keymapMu.Unlock()
	slog.Debug("keyboard mapping changed")
	return nil
}

// Close disconnects from the X server.
func (x *XConn) Close() {
	x.xc.Close()
}

// ReceiveEvents forwards translated X events to eventC until the
// connection is closed or ctx is done, then closes eventC.
func (x *XConn) ReceiveEvents(ctx context.Context, eventC chan<- Event) {
	defer close(eventC)
	for {
		xev, err := x.xc.WaitForEvent()
		if xev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}
		if err != nil {
			// Errors from unchecked requests, mostly windows that went
			// away under us.
			slog.Debug("X error", "error", err)
			continue
		}
		select {
		case <-ctx.Done():
			return
		case eventC <- x.translate(xev):
		}
	}
}

func (x *XConn) translate(xev xgb.Event) Event {
	switch e := xev.(type) {
	case xproto.DestroyNotifyEvent:
		return Event{Kind: EventDestroyNotify, Window: e.Window}
	case xproto.MapNotifyEvent:
		return Event{Kind: EventMapNotify, Window: e.Window, OverrideRedirect: e.OverrideRedirect}
	case xproto.UnmapNotifyEvent:
		return Event{Kind: EventUnmapNotify, Window: e.Window}
	case xproto.MappingNotifyEvent:
		if e.Request == xproto.MappingPointer {
			break
		}
		return Event{Kind: EventMappingNotify}
	case xproto.KeyPressEvent:
		x.keymapMu.Lock()
		sym := keybind.KeysymGet(x.xu, e.Detail, 0)
		x.keymapMu.Unlock()
		return Event{
			Kind:   EventKeyPress,
			Window: e.Child,
			Key:    KeyEvent{Keysym: keybind.KeysymToStr(sym), State: e.State},
		}
	}
	return Event{Kind: EventOther}
}
