package telemetry

import (
	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/session"
)

// ActionRecord is one row of actions.csv.
type ActionRecord struct {
	Seq            int64   `csv:"seq"`
	Game           int     `csv:"game"`
	Turn           int     `csv:"turn"`
	Action         string  `csv:"action"`
	Slot           int     `csv:"slot"`
	Response       string  `csv:"response"`
	Gold           float64 `csv:"gold"`
	InventoryValue float64 `csv:"inventory_value"`
	InventoryFull  bool    `csv:"inventory_full"`
	BoardFilled    int     `csv:"board_filled"`
}

func NewActionRecord(e session.Event) ActionRecord {
	filled := 0
	for _, c := range e.Snapshot.Board {
		if !c.IsEmpty() {
			filled++
		}
	}
	return ActionRecord{
		Seq:            e.Seq,
		Game:           e.Game,
		Turn:           e.Snapshot.Time,
		Action:         e.Action.String(),
		Slot:           e.Slot,
		Response:       e.Response.String(),
		Gold:           e.Snapshot.Gold,
		InventoryValue: e.Snapshot.InventoryValue,
		InventoryFull:  e.Snapshot.InventoryFull,
		BoardFilled:    filled,
	}
}

const (
	OutcomeNoLegalMoves = "no_legal_moves"
	OutcomeTurnLimit    = "turn_limit"
	OutcomeCancelled    = "cancelled"
)

// GameRecord is one row of games.csv.
type GameRecord struct {
	Game      int     `csv:"game"`
	Seed      int64   `csv:"seed"`
	Turns     int     `csv:"turns"`
	Actions   int     `csv:"actions"`
	Pickups   int     `csv:"pickups"`
	Sales     int     `csv:"sales"`
	Rejected  int     `csv:"rejected"`
	Earned    float64 `csv:"earned"`
	FinalGold float64 `csv:"final_gold"`
	PeakGold  float64 `csv:"peak_gold"`
	Outcome   string  `csv:"outcome"`
}

// Tracker folds the events of one game into a GameRecord. Reset it between
// games.
type Tracker struct {
	rec      GameRecord
	lastGold float64
}

func (t *Tracker) Reset(game int, seed int64) {
	t.rec = GameRecord{Game: game, Seed: seed}
	t.lastGold = 0
}

func (t *Tracker) OnEvent(e session.Event) error {
	snap := e.Snapshot
	if e.Action == session.ActionStart {
		t.rec.PeakGold = snap.Gold
		t.lastGold = snap.Gold
	}
	t.rec.Actions++
	t.rec.Turns = snap.Time
	t.rec.FinalGold = snap.Gold
	t.rec.PeakGold = max(t.rec.PeakGold, snap.Gold)

	switch {
	case e.Response.Rejected():
		t.rec.Rejected++
	case e.Action == session.ActionPickup:
		t.rec.Pickups++
	case e.Action == session.ActionSell:
		t.rec.Sales++
		t.rec.Earned += snap.Gold - t.lastGold
	}
	t.lastGold = snap.Gold
	if e.Response == game.NoLegalMoves {
		t.rec.Outcome = OutcomeNoLegalMoves
	}
	return nil
}

// Finish returns the record, using outcome when the game did not end on its
// own.
func (t *Tracker) Finish(outcome string) GameRecord {
	rec := t.rec
	if rec.Outcome == "" {
		rec.Outcome = outcome
	}
	return rec
}
