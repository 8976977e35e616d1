package main

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// xcLeftPtr is XC_left_ptr from cursorfont.h.
const xcLeftPtr = 68

// createLeftPtr allocates the standard arrow cursor from the X cursor
// font.
func createLeftPtr(xc *xgb.Conn) (xproto.Cursor, error) {
	cFont, err := xproto.NewFontId(xc)
	if err != nil {
		return 0, err
	}
	cursor, err := xproto.NewCursorId(xc)
	if err != nil {
		return 0, err
	}
	err = xproto.OpenFontChecked(xc, cFont, uint16(len("cursor")), "cursor").Check()
	if err != nil {
		return 0, err
	}
	defer xproto.CloseFont(xc, cFont)

	err = xproto.CreateGlyphCursorChecked(
		xc,
		cursor,
		cFont,
		cFont,
		xcLeftPtr,
		xcLeftPtr+1,
		0, 0, 0, // foreground
		0xffff, 0xffff, 0xffff, // background
	).Check()
	if err != nil {
		return 0, err
	}
	return cursor, nil
}
