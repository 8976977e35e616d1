package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
)

var (
	version    string
	listenAddr string
	configPath string
	debug      bool
)

func initLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func main() {
	godotenv.Load()
	listenAddr = os.Getenv("EXN_LISTEN")
	configPath = os.Getenv("EXN_CONFIG")

	opts, _, err := getopt.Getopts(os.Args, "l:c:d")
	if err != nil {
		initLogger(slog.LevelInfo)
		die("bad usage", "error", err)
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'l':
			listenAddr = opt.Value
		case 'c':
			configPath = opt.Value
		case 'd':
			debug = true
		}
	}
	if debug {
		initLogger(slog.LevelDebug)
	} else {
		initLogger(slog.LevelInfo)
	}
	if version != "" {
		slog.Info("starting", "version", version)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		die("could not load config", "error", err)
	}
	bindings, err := cfg.KeyBindings()
	if err != nil {
		die("invalid key bindings", "error", err)
	}
	if listenAddr == "" {
		listenAddr = cfg.Listen
	}

	x, err := OpenX()
	if err != nil {
		die("could not open X display", "error", err)
	}
	defer x.Close()

	rects := cfg.Monitors
	if len(rects) == 0 {
		rects = x.Screens()
	}
	wm, err := NewWM(x, rects, bindings)
	if err != nil {
		die("could not set up monitors", "error", err)
	}
	for _, m := range wm.Monitors() {
		slog.Info("monitor", "id", m.ID, "x", m.X, "y", m.Y, "w", m.W, "h", m.H)
	}
	if err := wm.grabKeys(); err != nil {
		die("could not grab keys", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if listenAddr != "" {
		hub := NewHub()
		wm.hub = hub
		super := NewSupervisor("exn")
		AddService(super, NewAPIServer(wm, hub, listenAddr))
		super.ServeBackground(ctx)
	}

	eventC := make(chan Event)
	go x.ReceiveEvents(ctx, eventC)

	err = wm.Run(ctx, eventC)
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		x.Close()
		die("event loop stopped", "error", err)
	}
}
