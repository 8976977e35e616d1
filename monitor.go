package main

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
)

// Rect is a screen rectangle in root window coordinates.
type Rect struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Monitor is a region of the screen holding an ordered list of Clients
// and the one of them that has focus.
//
// The list is owned by the Monitor: a Client is only ever reachable
// through the Monitor whose clients slice holds it, and current is
// either nil or one of those clients.
type Monitor struct {
	ID int
	Rect

	clients []*Client
	current *Client
}

// NewMonitor returns an empty Monitor covering r.
func NewMonitor(id int, r Rect) *Monitor {
	return &Monitor{ID: id, Rect: r}
}

// First returns the head of the client list, or nil.
func (m *Monitor) First() *Client {
	if len(m.clients) == 0 {
		return nil
	}
	return m.clients[0]
}

// Last returns the tail of the client list, or nil.
func (m *Monitor) Last() *Client {
	if len(m.clients) == 0 {
		return nil
	}
	return m.clients[len(m.clients)-1]
}

// Current returns the focused Client of this monitor, or nil.
func (m *Monitor) Current() *Client {
	return m.current
}

// Clients returns a copy of the client list in attach order.
func (m *Monitor) Clients() []*Client {
	return append([]*Client{}, m.clients...)
}

// Len reports the number of clients on this monitor.
func (m *Monitor) Len() int {
	return len(m.clients)
}

func (m *Monitor) indexOf(c *Client) int {
	for i, cc := range m.clients {
		if cc == c {
			return i
		}
	}
	return -1
}

// find returns the client holding window w, or nil.
func (m *Monitor) find(w xproto.Window) *Client {
	for _, c := range m.clients {
		if c.Window == w {
			return c
		}
	}
	return nil
}

// attach creates a Client for w at the tail of the list and makes it
// current.
func (m *Monitor) attach(w xproto.Window) *Client {
	c := &Client{Window: w}
	m.insert(c)
	return c
}

// insert appends an already allocated, detached Client to the list and
// makes it current.
func (m *Monitor) insert(c *Client) {
	if c.owner != nil {
		panic("insert of a client that is still attached")
	}
	c.owner = m
	m.clients = append(m.clients, c)
	m.current = c
	slog.Debug("attach", "window", c.Window, "monitor", m.ID)
}

// detach splices c out of the list. If c was current, its predecessor
// becomes current; failing that, the new head; failing that, nothing.
// Detaching a client that is not current leaves current untouched.
func (m *Monitor) detach(c *Client) {
	i := m.indexOf(c)
	if i < 0 {
		return
	}
	m.clients = append(m.clients[:i:i], m.clients[i+1:]...)
	c.owner = nil
	if m.current == c {
		switch {
		case i > 0:
			m.current = m.clients[i-1]
		case len(m.clients) > 0:
			m.current = m.clients[0]
		default:
			m.current = nil
		}
	}
	slog.Debug("detach", "window", c.Window, "monitor", m.ID)
}
