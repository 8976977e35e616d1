package main

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ICCCM related atoms
type atoms struct {
	WMProtocols    xproto.Atom
	WMDeleteWindow xproto.Atom
}

func internAtoms(xc *xgb.Conn) (a atoms, err error) {
	if a.WMProtocols, err = getAtom(xc, "WM_PROTOCOLS"); err != nil {
		return a, err
	}
	if a.WMDeleteWindow, err = getAtom(xc, "WM_DELETE_WINDOW"); err != nil {
		return a, err
	}
	return a, nil
}

func getAtom(xc *xgb.Conn, name string) (xproto.Atom, error) {
	rply, err := xproto.InternAtom(xc, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}
	if rply == nil {
		return 0, nil
	}
	return rply.Atom, nil
}

// decodeAtom decodes an xproto.Atom from a property value (expressed
// as bytes). Note that v has to be at least 4 bytes long.
func decodeAtom(v []byte) xproto.Atom {
	return xproto.Atom(uint32(v[0]) | uint32(v[1])<<8 |
		uint32(v[2])<<16 | uint32(v[3])<<24)
}

// hasAtom reports whether a 32-bit atom list property value contains a.
func hasAtom(v []byte, a xproto.Atom) bool {
	for ; len(v) >= 4; v = v[4:] {
		if decodeAtom(v) == a {
			return true
		}
	}
	return false
}
