package main

// Ring is the ordered set of Monitors, with exactly one of them
// selected. It does not wrap around: stepping past either end stays
// put.
type Ring struct {
	monitors []*Monitor
	selected int
}

// NewRing builds a Ring with one Monitor per rectangle, in order, and
// selects the first. It returns nil when rects is empty.
func NewRing(rects []Rect) *Ring {
	if len(rects) == 0 {
		return nil
	}
	r := &Ring{}
	for i, rect := range rects {
		r.monitors = append(r.monitors, NewMonitor(i, rect))
	}
	return r
}

// Monitors returns the monitors in ring order.
func (r *Ring) Monitors() []*Monitor {
	return append([]*Monitor{}, r.monitors...)
}

// Selected returns the monitor keyboard actions apply to.
func (r *Ring) Selected() *Monitor {
	return r.monitors[r.selected]
}

// Select makes m the selected monitor. Monitors foreign to the ring are
// ignored.
func (r *Ring) Select(m *Monitor) {
	if i := r.indexOf(m); i >= 0 {
		r.selected = i
	}
}

// Next returns the monitor after m, or nil if m is the last one.
func (r *Ring) Next(m *Monitor) *Monitor {
	return r.Neighbor(m, Forward)
}

// Prev returns the monitor before m, or nil if m is the first one.
func (r *Ring) Prev(m *Monitor) *Monitor {
	return r.Neighbor(m, Backward)
}

// Neighbor returns the monitor one step from m in direction d, or nil
// at either end of the ring.
func (r *Ring) Neighbor(m *Monitor, d Direction) *Monitor {
	i := r.indexOf(m)
	if i < 0 {
		return nil
	}
	i += int(d)
	if i < 0 || i >= len(r.monitors) {
		return nil
	}
	return r.monitors[i]
}

// Get returns the monitor with the given ID, or nil.
func (r *Ring) Get(id int) *Monitor {
	if id < 0 || id >= len(r.monitors) {
		return nil
	}
	return r.monitors[id]
}

func (r *Ring) indexOf(m *Monitor) int {
	for i, mm := range r.monitors {
		if mm == m {
			return i
		}
	}
	return -1
}
