package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/gorilla/mux"
)

var errorNotFound = errors.New("not found")

// APIServer exposes the window manager state over HTTP. Every handler
// reads or changes state through WM.Do, on the run loop.
type APIServer struct {
	server *http.Server
	wm     *WM
	hub    *Hub
}

type clientView struct {
	Window  xproto.Window `json:"window"`
	Monitor int           `json:"monitor"`
	Current bool          `json:"current"`
}

type monitorView struct {
	ID int `json:"id"`
	Rect
	Selected bool            `json:"selected"`
	Current  *xproto.Window  `json:"current"`
	Clients  []xproto.Window `json:"clients"`
}

func viewClient(c *Client) clientView {
	return clientView{
		Window:  c.Window,
		Monitor: c.owner.ID,
		Current: c.owner.current == c,
	}
}

func viewMonitor(wm *WM, m *Monitor) monitorView {
	v := monitorView{
		ID:       m.ID,
		Rect:     m.Rect,
		Selected: wm.ring.Selected() == m,
		Clients:  []xproto.Window{},
	}
	if m.current != nil {
		w := m.current.Window
		v.Current = &w
	}
	for _, c := range m.Clients() {
		v.Clients = append(v.Clients, c.Window)
	}
	return v
}

// apiDeniedActions cannot be run over HTTP.
var apiDeniedActions = map[string]bool{
	"spawn": true,
}

// isJSONRequest reports whether r declares a JSON body. Cross-origin
// pages can only send one after a CORS preflight, and no route answers
// preflights.
func isJSONRequest(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func jsonResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	slog.Debug("api", "status", status, "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	e := json.NewEncoder(w)
	e.Encode(data)
}

func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errorDisconnected):
		status = http.StatusServiceUnavailable
	}
	jsonResponse(w, r, status, map[string]interface{}{"error": err.Error()})
}

// NewAPIServer builds the HTTP server for wm. Records published on hub
// are streamed on /events.
func NewAPIServer(wm *WM, hub *Hub, listenAddr string) *APIServer {
	as := &APIServer{wm: wm, hub: hub}
	as.server = &http.Server{
		Addr:              listenAddr,
		Handler:           as.Router(),
		ReadHeaderTimeout: 1 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return as
}

// Router returns the handler tree of the API.
func (as *APIServer) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/monitors/", func(w http.ResponseWriter, r *http.Request) {
		var items []monitorView
		err := as.wm.Do(r.Context(), func(wm *WM) error {
			for _, m := range wm.ring.monitors {
				items = append(items, viewMonitor(wm, m))
			}
			return nil
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusOK, map[string]interface{}{"items": items})
	}).Methods("GET")

	router.HandleFunc("/clients/", func(w http.ResponseWriter, r *http.Request) {
		items := []clientView{}
		err := as.wm.Do(r.Context(), func(wm *WM) error {
			for _, m := range wm.ring.monitors {
				for _, c := range m.clients {
					items = append(items, viewClient(c))
				}
			}
			return nil
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusOK, map[string]interface{}{"items": items})
	}).Methods("GET")

	getWindow := func(r *http.Request) (xproto.Window, error) {
		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
		if err != nil {
			return 0, errorNotFound
		}
		return xproto.Window(id), nil
	}

	router.HandleFunc("/clients/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		win, err := getWindow(r)
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		var item clientView
		err = as.wm.Do(r.Context(), func(wm *WM) error {
			c := wm.findClient(win)
			if c == nil {
				return errorNotFound
			}
			item = viewClient(c)
			if r.Method == "DELETE" {
				return wm.conn.CloseWindow(win, false)
			}
			return nil
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusOK, map[string]interface{}{"item": item})
	}).Methods("GET", "DELETE")

	router.HandleFunc("/actions/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		action, err := LookupAction(name)
		if err != nil {
			errorResponse(w, r, errorNotFound)
			return
		}
		if apiDeniedActions[name] {
			jsonResponse(w, r, http.StatusForbidden, map[string]interface{}{"error": "action not available over the API"})
			return
		}
		if !isJSONRequest(r) {
			jsonResponse(w, r, http.StatusUnsupportedMediaType, map[string]interface{}{"error": "Content-Type must be application/json"})
			return
		}
		var body struct {
			Arg int `json:"arg"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			jsonResponse(w, r, http.StatusUnprocessableEntity, map[string]interface{}{"error": err.Error()})
			return
		}
		err = as.wm.Do(r.Context(), func(wm *WM) error {
			return action(wm, Arg{Int: body.Arg})
		})
		if err != nil {
			errorResponse(w, r, err)
			return
		}
		jsonResponse(w, r, http.StatusOK, nil)
	}).Methods("POST")

	if as.hub != nil {
		router.HandleFunc("/events", makeWSHandler(as.hub.wsHandlerEvents)).Methods("GET")
	}

	router.PathPrefix("/").Handler(http.NotFoundHandler())
	return router
}

func (as *APIServer) String() string {
	return "api"
}

// Serve runs the HTTP server until ctx is done.
func (as *APIServer) Serve(ctx context.Context) error {
	errC := make(chan error, 1)
	go func() {
		slog.Info("listening", "url", "http://"+as.server.Addr)
		errC <- as.server.ListenAndServe()
	}()
	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		as.server.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}
