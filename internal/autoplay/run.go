package autoplay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/session"
	"github.com/appengine-ltd/fungi/internal/settings"
	"github.com/appengine-ltd/fungi/internal/telemetry"
)

type Config struct {
	Games         int
	Seed          int64
	MaxTurns      int
	BoardSize     int
	InventorySize int
	Settings      settings.Table
	Policy        Policy
	Logger        *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.Games <= 0 {
		c.Games = 1
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = 1000
	}
	if c.BoardSize <= 0 {
		c.BoardSize = 9
	}
	if c.InventorySize <= 0 {
		c.InventorySize = 3
	}
	if len(c.Settings.Mushrooms) == 0 {
		c.Settings = settings.Default()
	}
	if c.Policy == nil {
		c.Policy = Greedy{}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// reseedSource lets one game be replayed from a fresh seed per round.
type reseedSource struct {
	src game.Source
}

func (r *reseedSource) Float64() float64 {
	return r.src.Float64()
}

// Run plays cfg.Games games back to back, game i seeded with cfg.Seed+i. A
// game ends on NoLegalMoves or after cfg.MaxTurns moves. Cancelling ctx
// stops between moves and returns the records so far with ctx's error.
func Run(ctx context.Context, cfg Config, listeners ...session.Listener) ([]telemetry.GameRecord, error) {
	cfg.applyDefaults()

	rng := &reseedSource{src: game.NewSource(cfg.Seed)}
	g, err := game.New(cfg.BoardSize, cfg.InventorySize, cfg.Settings, rng)
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}

	tracker := &telemetry.Tracker{}
	s := session.New(g, cfg.Logger, append([]session.Listener{tracker}, listeners...)...)

	records := make([]telemetry.GameRecord, 0, cfg.Games)
	for i := 0; i < cfg.Games; i++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		seed := cfg.Seed + int64(i)
		rng.src = game.NewSource(seed)
		tracker.Reset(i+1, seed)

		res := s.Start()
		outcome := telemetry.OutcomeTurnLimit
		for turn := 0; turn < cfg.MaxTurns && !res.GameOver; turn++ {
			if err := ctx.Err(); err != nil {
				records = append(records, tracker.Finish(telemetry.OutcomeCancelled))
				return records, err
			}
			var move Move
			s.View(func(g *game.Game) { move = cfg.Policy.Next(g) })
			res = apply(s, move)
		}
		if res.GameOver {
			outcome = telemetry.OutcomeNoLegalMoves
		}
		rec := tracker.Finish(outcome)
		cfg.Logger.Info("game finished",
			"game", rec.Game,
			"seed", rec.Seed,
			"outcome", rec.Outcome,
			"gold", rec.FinalGold,
			"turns", rec.Turns,
		)
		records = append(records, rec)
	}
	return records, nil
}

func apply(s *session.Session, m Move) session.Result {
	switch m.Action {
	case session.ActionSell:
		return s.Sell()
	case session.ActionPickup:
		return s.Pickup(m.Slot)
	default:
		return s.Advance()
	}
}
