package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/appengine-ltd/fungi/internal/autoplay"
	"github.com/appengine-ltd/fungi/internal/session"
	"github.com/appengine-ltd/fungi/internal/settings"
	"github.com/appengine-ltd/fungi/internal/telemetry"
)

func main() {
	var (
		configPath    string
		games         int
		seed          int64
		maxTurns      int
		boardSize     int
		inventorySize int
		outputDir     string
		verbose       bool
	)
	flag.StringVar(&configPath, "config", "", "settings YAML overlaid on the defaults")
	flag.IntVar(&games, "games", 100, "number of games to play")
	flag.Int64Var(&seed, "seed", 1, "seed of the first game; game i uses seed+i")
	flag.IntVar(&maxTurns, "max-turns", 1000, "moves per game before giving up")
	flag.IntVar(&boardSize, "board", 9, "number of board slots")
	flag.IntVar(&inventorySize, "inventory", 3, "number of inventory slots")
	flag.StringVar(&outputDir, "output", "", "directory for CSV output, settings and the event journal")
	flag.BoolVar(&verbose, "v", false, "log every game")
	flag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, configPath, outputDir, autoplay.Config{
		Games:         games,
		Seed:          seed,
		MaxTurns:      maxTurns,
		BoardSize:     boardSize,
		InventorySize: inventorySize,
		Logger:        logger,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, outputDir string, cfg autoplay.Config) error {
	tbl, err := settings.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	cfg.Settings = tbl

	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteSettings(tbl); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	listeners := []session.Listener{}
	if out != nil {
		listeners = append(listeners, out)
		journal, err := telemetry.NewJournal(filepath.Join(outputDir, "journal.jsonl.zst"))
		if err != nil {
			return err
		}
		defer journal.Close()
		listeners = append(listeners, journal)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records, runErr := autoplay.Run(ctx, cfg, listeners...)
	for _, rec := range records {
		if err := out.WriteGame(rec); err != nil {
			return err
		}
	}
	if runErr != nil {
		logger.Warn("run interrupted", "err", runErr, "games", len(records))
	}

	if err := telemetry.Summarize(records).Write(os.Stdout); err != nil {
		return err
	}
	if out != nil {
		logger.Info("output written", "dir", out.Dir())
	}
	return nil
}
