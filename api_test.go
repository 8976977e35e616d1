package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type apiFixture struct {
	wm     *WM
	rc     *recordingConn
	events chan Event
	srv    *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	wm, rc := newTestWM(t)
	hub := NewHub()
	wm.hub = hub
	f := &apiFixture{
		wm:     wm,
		rc:     rc,
		events: make(chan Event),
		srv:    httptest.NewServer(NewAPIServer(wm, hub, "").Router()),
	}
	ctx, cancel := context.WithCancel(context.Background())
	errC := make(chan error, 1)
	go func() { errC <- wm.Run(ctx, f.events) }()
	t.Cleanup(func() {
		f.srv.Close()
		cancel()
		<-errC
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out map[string]json.RawMessage
	json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestAPIMonitors(t *testing.T) {
	f := newAPIFixture(t)
	f.events <- mapEvent(1)
	f.events <- mapEvent(2)

	status, out := f.do(t, "GET", "/monitors/", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var items []monitorView
	if err := json.Unmarshal(out["items"], &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	m0 := items[0]
	if !m0.Selected || m0.Rect != rectM0 || !equalWindows(m0.Clients, []xproto.Window{1, 2}) {
		t.Errorf("m0 = %+v", m0)
	}
	if m0.Current == nil || *m0.Current != 2 {
		t.Errorf("m0 current = %v, want 2", m0.Current)
	}
	if m1 := items[1]; m1.Selected || m1.Current != nil || len(m1.Clients) != 0 || m1.Rect != rectM1 {
		t.Errorf("m1 = %+v", m1)
	}
}

func TestAPIClients(t *testing.T) {
	f := newAPIFixture(t)
	f.events <- mapEvent(5)

	status, out := f.do(t, "GET", "/clients/", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var items []clientView
	if err := json.Unmarshal(out["items"], &items); err != nil {
		t.Fatal(err)
	}
	want := []clientView{{Window: 5, Monitor: 0, Current: true}}
	if len(items) != 1 || items[0] != want[0] {
		t.Errorf("items = %+v, want %+v", items, want)
	}

	if status, _ := f.do(t, "GET", "/clients/5", ""); status != http.StatusOK {
		t.Errorf("GET /clients/5 = %d", status)
	}
	if status, _ := f.do(t, "GET", "/clients/6", ""); status != http.StatusNotFound {
		t.Errorf("GET /clients/6 = %d, want 404", status)
	}
	if status, _ := f.do(t, "GET", "/clients/99999999999", ""); status != http.StatusNotFound {
		t.Errorf("GET of an out of range id = %d, want 404", status)
	}
}

func TestAPIDeleteClient(t *testing.T) {
	f := newAPIFixture(t)
	f.events <- mapEvent(5)

	if status, _ := f.do(t, "DELETE", "/clients/5", ""); status != http.StatusOK {
		t.Fatalf("DELETE /clients/5 = %d", status)
	}
	var cmds []string
	f.wm.Do(context.Background(), func(*WM) error {
		cmds = append(cmds, f.rc.cmds...)
		return nil
	})
	if last := cmds[len(cmds)-1]; last != "close 5" {
		t.Errorf("last command = %q, want close 5", last)
	}
}

func TestAPIActions(t *testing.T) {
	f := newAPIFixture(t)
	f.events <- mapEvent(1)
	f.events <- mapEvent(2)

	if status, _ := f.do(t, "POST", "/actions/movemon", `{"arg": 1}`); status != http.StatusOK {
		t.Fatalf("POST /actions/movemon = %d", status)
	}
	var selected int
	var m1 []xproto.Window
	f.wm.Do(context.Background(), func(wm *WM) error {
		selected = wm.SelectedMonitor().ID
		m1 = windows(wm.ring.monitors[1])
		return nil
	})
	if selected != 1 || !equalWindows(m1, []xproto.Window{2}) {
		t.Errorf("after movemon: selected %d, m1 %v", selected, m1)
	}

	if status, _ := f.do(t, "POST", "/actions/cycle", ""); status != http.StatusOK {
		t.Errorf("POST /actions/cycle without a body = %d", status)
	}
	if status, _ := f.do(t, "POST", "/actions/tile", ""); status != http.StatusNotFound {
		t.Errorf("POST /actions/tile = %d, want 404", status)
	}
	if status, _ := f.do(t, "POST", "/actions/cycle", "{"); status != http.StatusUnprocessableEntity {
		t.Errorf("POST with a bad body = %d, want 422", status)
	}
}

func TestAPIActionsRequireJSON(t *testing.T) {
	f := newAPIFixture(t)
	f.events <- mapEvent(1)

	for _, contentType := range []string{"text/plain", "application/x-www-form-urlencoded", ""} {
		req, err := http.NewRequest("POST", f.srv.URL+"/actions/kill", strings.NewReader(`{"arg": 1}`))
		if err != nil {
			t.Fatal(err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnsupportedMediaType {
			t.Errorf("POST with Content-Type %q = %d, want 415", contentType, resp.StatusCode)
		}
	}

	var cmds []string
	f.wm.Do(context.Background(), func(*WM) error {
		cmds = append(cmds, f.rc.cmds...)
		return nil
	})
	for _, cmd := range cmds {
		if cmd == "kill 1" {
			t.Errorf("kill ran for a request without a JSON body")
		}
	}

	req, err := http.NewRequest("OPTIONS", f.srv.URL+"/actions/kill", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("preflight allowed origin %q", got)
	}
}

func TestAPISpawnDenied(t *testing.T) {
	f := newAPIFixture(t)
	marker := filepath.Join(t.TempDir(), "spawned")

	for _, contentType := range []string{"application/json", "text/plain"} {
		resp, err := http.Post(f.srv.URL+"/actions/spawn", contentType,
			strings.NewReader(`{"cmd": ["touch", "`+marker+`"]}`))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("POST /actions/spawn (%s) = %d, want 403", contentType, resp.StatusCode)
		}
	}
	// Give a wrongly started process time to run.
	time.Sleep(100 * time.Millisecond)
	if _, err := os.Stat(marker); err == nil {
		t.Errorf("spawn ran a command from the request body")
	}
}

func TestAPIAfterQuit(t *testing.T) {
	f := newAPIFixture(t)
	if status, _ := f.do(t, "POST", "/actions/quit", ""); status != http.StatusOK {
		t.Fatalf("POST /actions/quit = %d", status)
	}
	if status, _ := f.do(t, "GET", "/monitors/", ""); status != http.StatusServiceUnavailable {
		t.Errorf("GET /monitors/ after quit = %d, want 503", status)
	}
}

func TestAPIUnknownPath(t *testing.T) {
	f := newAPIFixture(t)
	if status, _ := f.do(t, "GET", "/screens/", ""); status != http.StatusNotFound {
		t.Errorf("GET /screens/ = %d, want 404", status)
	}
}

func TestAPIEvents(t *testing.T) {
	f := newAPIFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(f.srv.URL, "http")+"/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	// The subscription is made once the handler runs; keep mapping new
	// windows until one of them is seen.
	go func() {
		for w := xproto.Window(1); ; w++ {
			select {
			case f.events <- mapEvent(w):
			case <-ctx.Done():
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	var rec EventRecord
	if err := wsjson.Read(ctx, c, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Type != "MapNotify" || rec.Monitor != 0 || rec.Window == 0 {
		t.Errorf("record = %+v", rec)
	}
	cancel()
}
