package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/appengine-ltd/fungi/internal/settings"
)

// Game owns the board, the inventory and the gold/time counters. It never
// records whether a game is won or lost: every action returns a Response and
// the controller decides what NoLegalMoves means.
//
// A Game is not safe for concurrent use.
type Game struct {
	settings  settings.Table
	rng       Source
	board     *Board
	inventory *Inventory
	gold      float64
	time      int
}

// New builds a game with an empty board. Call Start to seed it. A nil rng is
// replaced by a time-seeded source.
func New(boardSize, inventorySize int, t settings.Table, rng Source) (*Game, error) {
	if boardSize < 1 {
		return nil, fmt.Errorf("board size must be at least 1, got %d", boardSize)
	}
	if inventorySize < 1 {
		return nil, fmt.Errorf("inventory size must be at least 1, got %d", inventorySize)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource(time.Now().UnixNano())
	}
	t.Mushrooms = slices.Clone(t.Mushrooms)

	return &Game{
		settings:  t,
		rng:       rng,
		board:     NewBoard(boardSize),
		inventory: NewInventory(inventorySize),
		gold:      t.StartingGold,
	}, nil
}

func (g *Game) Settings() *settings.Table {
	return &g.settings
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) Inventory() *Inventory {
	return g.inventory
}

func (g *Game) Gold() float64 {
	return g.gold
}

func (g *Game) Time() int {
	return g.time
}

// Start resets the counters, empties the inventory and repopulates the board.
func (g *Game) Start() {
	g.gold = g.settings.StartingGold
	g.time = 0
	g.inventory.Empty()
	g.board.Repopulate(&g.settings, g.rng)
}

// Advance grows the board one step and charges the advance cost. Gold may go
// negative.
func (g *Game) Advance() Response {
	g.board.Advance(&g.settings, g.rng)
	g.time++
	g.gold -= g.settings.AdvanceCost
	return g.CheckLegalMoves()
}

// Pickup moves the contents of board slot i into the inventory, paying the
// stage-dependent pickup cost. i must be a valid board index.
func (g *Game) Pickup(i int) Response {
	slot := g.board.Slot(i)
	switch {
	case slot.IsPickable(&g.settings) && !g.inventory.IsFull():
		g.gold -= g.pickupCost(slot)
		g.inventory.Add(slot.PickUp())
		return g.CheckLegalMoves()
	case g.inventory.IsFull():
		return InventoryFull
	default:
		return SlotNotPickable
	}
}

// Sell converts a full inventory into gold. Gold never rises above the cap
// through a sale but is not clamped otherwise.
func (g *Game) Sell() Response {
	value, ok := g.inventory.Sell(&g.settings)
	if !ok {
		return InventoryNotSellable
	}
	g.gold = min(g.gold+value, g.settings.MaxGoldCap)
	return g.CheckLegalMoves()
}

// CheckLegalMoves reports whether any move can still gain the player
// something: a full inventory that sells to positive net worth, an affordable
// advance, or an affordable pickup.
func (g *Game) CheckLegalMoves() Response {
	if g.inventory.IsFull() && g.inventory.Value(&g.settings)+g.gold > 0 {
		return Continue
	}
	if g.gold >= g.settings.AdvanceCost {
		return Continue
	}
	for i := range g.board.slots {
		slot := &g.board.slots[i]
		if slot.IsPickable(&g.settings) && g.pickupCost(slot) <= g.gold {
			return Continue
		}
	}
	return NoLegalMoves
}

// PickupCost is the price of picking board slot i right now.
func (g *Game) PickupCost(i int) float64 {
	return g.pickupCost(g.board.Slot(i))
}

func (g *Game) pickupCost(s *Slot) float64 {
	return s.PickupCost(g.settings.PickupCost, g.settings.PickupPenalty, g.settings.PickupPenaltyExponent)
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Board          []Contents `json:"board"`
	Inventory      []Contents `json:"inventory"`
	Gold           float64    `json:"gold"`
	Time           int        `json:"time"`
	InventoryValue float64    `json:"inventory_value"`
	InventoryFull  bool       `json:"inventory_full"`
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Board:          g.board.Contents(),
		Inventory:      g.inventory.Contents(),
		Gold:           g.gold,
		Time:           g.time,
		InventoryValue: g.inventory.Value(&g.settings),
		InventoryFull:  g.inventory.IsFull(),
	}
}
