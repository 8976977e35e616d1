package main

import (
	"math/rand"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestAttach(t *testing.T) {
	m := NewMonitor(0, rectM0)
	if m.First() != nil || m.Last() != nil || m.Current() != nil {
		t.Fatalf("new monitor is not empty")
	}

	a := m.attach(1)
	b := m.attach(2)
	c := m.attach(3)

	if got := windows(m); !equalWindows(got, []xproto.Window{1, 2, 3}) {
		t.Errorf("clients = %v, want [1 2 3]", got)
	}
	if m.First() != a || m.Last() != c {
		t.Errorf("first/last = %v/%v, want %v/%v", m.First(), m.Last(), a, c)
	}
	if m.Current() != c {
		t.Errorf("current = %v, want the last attached", m.Current())
	}
	if b.Prev() != a || b.Next() != c {
		t.Errorf("b links = %v/%v", b.Prev(), b.Next())
	}
	if a.Prev() != nil || c.Next() != nil {
		t.Errorf("list ends are linked")
	}
	if b.Monitor() != m {
		t.Errorf("owner = %v, want %v", b.Monitor(), m)
	}
}

func TestDetach(t *testing.T) {
	tests := []struct {
		name        string
		attach      []xproto.Window
		current     xproto.Window
		detach      xproto.Window
		wantList    []xproto.Window
		wantCurrent xproto.Window // 0 means none
	}{
		{"current last, predecessor wins", []xproto.Window{1, 2}, 2, 2, []xproto.Window{1}, 1},
		{"current middle, predecessor wins", []xproto.Window{1, 2, 3}, 2, 2, []xproto.Window{1, 3}, 1},
		{"current first, new head wins", []xproto.Window{1, 2, 3}, 1, 1, []xproto.Window{2, 3}, 2},
		{"only client", []xproto.Window{1}, 1, 1, nil, 0},
		{"not current, current kept", []xproto.Window{1, 2, 3}, 3, 1, []xproto.Window{2, 3}, 3},
		{"not current middle, current kept", []xproto.Window{1, 2, 3}, 1, 2, []xproto.Window{1, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(0, rectM0)
			for _, w := range tt.attach {
				m.attach(w)
			}
			m.current = m.find(tt.current)
			c := m.find(tt.detach)

			m.detach(c)

			if got := windows(m); !equalWindows(got, tt.wantList) {
				t.Errorf("clients = %v, want %v", got, tt.wantList)
			}
			if c.Monitor() != nil {
				t.Errorf("detached client still has an owner")
			}
			switch {
			case tt.wantCurrent == 0 && m.current != nil:
				t.Errorf("current = %d, want none", m.current.Window)
			case tt.wantCurrent != 0 && (m.current == nil || m.current.Window != tt.wantCurrent):
				t.Errorf("current = %v, want %d", m.current, tt.wantCurrent)
			}
			if len(tt.wantList) == 0 && (m.First() != nil || m.Last() != nil) {
				t.Errorf("empty list has ends")
			}
		})
	}
}

func TestDetachForeignClient(t *testing.T) {
	m0 := NewMonitor(0, rectM0)
	m1 := NewMonitor(1, rectM1)
	m0.attach(1)
	c := m1.attach(2)

	m0.detach(c)

	if got := windows(m1); !equalWindows(got, []xproto.Window{2}) {
		t.Errorf("m1 = %v, want [2]", got)
	}
	if c.Monitor() != m1 {
		t.Errorf("owner changed by a foreign detach")
	}
}

func TestInsertAttachedClientPanics(t *testing.T) {
	m0 := NewMonitor(0, rectM0)
	m1 := NewMonitor(1, rectM1)
	c := m0.attach(1)

	defer func() {
		if recover() == nil {
			t.Errorf("insert of an attached client did not panic")
		}
	}()
	m1.insert(c)
}

func TestListIntegrity(t *testing.T) {
	wm, _ := newTestWM(t, rectM0, rectM1, Rect{X: 3200, W: 800, H: 600})
	rng := rand.New(rand.NewSource(1))
	next := xproto.Window(1)

	for step := 0; step < 500; step++ {
		m := wm.ring.monitors[rng.Intn(len(wm.ring.monitors))]
		switch op := rng.Intn(4); {
		case op <= 1:
			m.attach(next)
			next++
		case op == 2:
			if m.Len() > 0 {
				m.detach(m.clients[rng.Intn(m.Len())])
			}
		default:
			wm.destroy(xproto.Window(rng.Intn(int(next) + 5)))
		}
		checkInvariants(t, wm)
		if t.Failed() {
			t.Fatalf("invariants broken at step %d", step)
		}
	}
}
