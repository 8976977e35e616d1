package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// EventRecord is what /events subscribers receive for every handled
// event.
type EventRecord struct {
	Type    string        `json:"type"`
	Window  xproto.Window `json:"window"`
	Monitor int           `json:"monitor"`
	Keysym  string        `json:"keysym,omitempty"`
}

// eventRecord describes ev after it was handled. Monitor is -1 when the
// window is not managed (any more).
func (wm *WM) eventRecord(ev Event) EventRecord {
	rec := EventRecord{
		Type:    ev.Kind.String(),
		Window:  ev.Window,
		Monitor: -1,
		Keysym:  ev.Key.Keysym,
	}
	if c := wm.findClient(ev.Window); c != nil {
		rec.Monitor = c.owner.ID
	}
	return rec
}

// Hub fans EventRecords out to subscribers. Slow subscribers miss
// records rather than stall the run loop.
type Hub struct {
	mu   sync.Mutex
	subs map[chan EventRecord]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan EventRecord]struct{})}
}

// Subscribe registers a new subscriber. The returned func unregisters
// it.
func (h *Hub) Subscribe() (<-chan EventRecord, func()) {
	ch := make(chan EventRecord, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Publish hands rec to every subscriber that has room for it. A nil Hub
// drops everything.
func (h *Hub) Publish(rec EventRecord) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

func (h *Hub) wsHandlerEvents(ctx context.Context, c *websocket.Conn) {
	records, cancel := h.Subscribe()
	defer cancel()
	// We never expect messages from the peer; this also notices when it
	// goes away.
	ctx = c.CloseRead(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-records:
			if err := wsjson.Write(ctx, c, rec); err != nil {
				slog.Debug("websocket write", "error", err)
				return
			}
		}
	}
}

func makeWSHandler(
	handler func(context.Context, *websocket.Conn),
) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			slog.Warn("websocket connect", "error", err)
			return
		}
		slog.Debug("websocket connect", "path", r.URL.Path, "remote", r.RemoteAddr)
		defer slog.Debug("websocket disconnect", "remote", r.RemoteAddr)
		defer c.Close(websocket.StatusInternalError, "")
		handler(r.Context(), c)
		c.Close(websocket.StatusNormalClosure, "")
	}
}
