package main

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xinerama"
)

// Screens returns the rectangles of the attached physical screens, as
// reported by Xinerama. Without Xinerama, or when it reports nothing,
// the whole root window counts as a single screen.
func (x *XConn) Screens() []Rect {
	root := []Rect{{W: int(x.xroot.WidthInPixels), H: int(x.xroot.HeightInPixels)}}
	if err := xinerama.Init(x.xc); err != nil {
		slog.Warn("xinerama unavailable, using root window geometry", "error", err)
		return root
	}
	r, err := xinerama.QueryScreens(x.xc).Reply()
	if err != nil {
		slog.Warn("xinerama query failed, using root window geometry", "error", err)
		return root
	}
	if len(r.ScreenInfo) == 0 {
		return root
	}
	rects := make([]Rect, 0, len(r.ScreenInfo))
	for _, s := range r.ScreenInfo {
		rects = append(rects, Rect{
			X: int(s.XOrg),
			Y: int(s.YOrg),
			W: int(s.Width),
			H: int(s.Height),
		})
	}
	return rects
}
