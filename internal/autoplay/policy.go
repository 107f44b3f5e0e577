package autoplay

import (
	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/session"
)

// Move is one decision: ActionAdvance, ActionPickup (with Slot) or
// ActionSell.
type Move struct {
	Action session.Action
	Slot   int
}

type Policy interface {
	Next(g *game.Game) Move
}

// Greedy sells whenever a full inventory is worth something and picks grown
// mushrooms that pay for themselves. Otherwise it lets time pass until it
// can no longer afford to, then takes whatever it can.
type Greedy struct{}

type candidate struct {
	slot   int
	stage  int
	margin float64
}

func (Greedy) Next(g *game.Game) Move {
	t := g.Settings()
	inv := g.Inventory()
	if inv.IsFull() && inv.Value(t) > 0 {
		return Move{Action: session.ActionSell}
	}

	best, ok := bestPick(g)
	if ok && best.margin > 0 && (best.stage > game.MinStage || g.Gold() < 2*t.AdvanceCost) {
		return Move{Action: session.ActionPickup, Slot: best.slot}
	}
	if g.Gold() >= t.AdvanceCost {
		return Move{Action: session.ActionAdvance, Slot: -1}
	}
	if ok {
		return Move{Action: session.ActionPickup, Slot: best.slot}
	}
	if inv.IsFull() {
		return Move{Action: session.ActionSell}
	}
	return Move{Action: session.ActionAdvance, Slot: -1}
}

// bestPick scores every affordable pickable slot by how much it would add to
// the inventory's value, net of its pickup cost.
func bestPick(g *game.Game) (candidate, bool) {
	t := g.Settings()
	inv := g.Inventory()
	if inv.IsFull() {
		return candidate{}, false
	}
	current := inv.Value(t)

	var best candidate
	found := false
	board := g.Board()
	for i := 0; i < board.Len(); i++ {
		slot := board.Slot(i)
		if !slot.IsPickable(t) {
			continue
		}
		cost := g.PickupCost(i)
		if cost > g.Gold() {
			continue
		}
		c := slot.Contents()
		trial := cloneInventory(inv)
		trial.Add(c)
		cand := candidate{slot: i, stage: c.Stage, margin: trial.Value(t) - current - cost}
		if !found || cand.margin > best.margin {
			best, found = cand, true
		}
	}
	return best, found
}

func cloneInventory(inv *game.Inventory) *game.Inventory {
	out := game.NewInventory(inv.Len())
	for i, c := range inv.Contents() {
		out.Slot(i).Set(c.Species, c.Stage)
	}
	return out
}
