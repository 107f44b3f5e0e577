package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/appengine-ltd/fungi/internal/audio"
	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/observer"
	"github.com/appengine-ltd/fungi/internal/session"
	"github.com/appengine-ltd/fungi/internal/settings"
	"github.com/appengine-ltd/fungi/internal/telemetry"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configPath    string
	seed          int64
	boardSize     int
	inventorySize int
	tui           bool
	sound         bool
	observe       string
	journal       string
	logPath       string
	showVersion   bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "settings YAML overlaid on the defaults")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one from the clock)")
	flag.IntVar(&opts.boardSize, "board", 9, "number of board slots")
	flag.IntVar(&opts.inventorySize, "inventory", 3, "number of inventory slots")
	flag.BoolVar(&opts.tui, "tui", false, "play in the terminal")
	flag.BoolVar(&opts.sound, "sound", false, "play sound cues")
	flag.StringVar(&opts.observe, "observe", "", "serve a websocket observer stream on this address")
	flag.StringVar(&opts.journal, "journal", "", "write a compressed event journal to this path")
	flag.StringVar(&opts.logPath, "log", "", "write debug logs to this file")
	flag.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flag.Parse()
	return opts
}

// app holds everything a client needs, plus the cleanup for the optional
// listeners.
type app struct {
	session *session.Session
	logger  *slog.Logger
	sound   *audio.Sound
	closers []func() error
}

func setup(ctx context.Context, opts options) (*app, error) {
	a := &app{}
	logger, closeLog, err := newLogger(opts.logPath)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	a.closers = append(a.closers, closeLog)

	tbl, err := settings.Load(opts.configPath)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g, err := game.New(opts.boardSize, opts.inventorySize, tbl, game.NewSource(seed))
	if err != nil {
		a.close()
		return nil, err
	}
	logger.Info("starting", "version", version, "seed", seed, "board", opts.boardSize, "inventory", opts.inventorySize)

	var listeners []session.Listener
	if opts.journal != "" {
		j, err := telemetry.NewJournal(opts.journal)
		if err != nil {
			a.close()
			return nil, err
		}
		listeners = append(listeners, j)
		a.closers = append(a.closers, j.Close)
	}
	if opts.observe != "" {
		hub := observer.NewHub(logger)
		listeners = append(listeners, hub)
		go func() {
			if err := hub.ListenAndServe(ctx, opts.observe); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("observer stopped", "err", err)
			}
		}()
	}
	if opts.sound {
		s, err := audio.NewSound()
		if err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			a.sound = s
			a.closers = append(a.closers, func() error { s.Close(); return nil })
		}
	}

	a.session = session.New(g, logger, listeners...)
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}

func newLogger(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f.Close, nil
}

func printVersion() {
	fmt.Printf("fungi %s (%s) %s\n", version, commit, date)
}
