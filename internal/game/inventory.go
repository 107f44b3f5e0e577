package game

import (
	"fmt"
	"math"

	"github.com/appengine-ltd/fungi/internal/settings"
)

// Inventory is the player's small row of slots. It is the only place that
// knows how contents turn into gold.
type Inventory struct {
	slots []Slot
}

func NewInventory(size int) *Inventory {
	return &Inventory{slots: make([]Slot, size)}
}

func (inv *Inventory) Len() int {
	return len(inv.slots)
}

func (inv *Inventory) Slot(i int) *Slot {
	if i < 0 || i >= len(inv.slots) {
		panic(fmt.Sprintf("game: inventory index %d out of range [0,%d)", i, len(inv.slots)))
	}
	return &inv.slots[i]
}

func (inv *Inventory) Contents() []Contents {
	out := make([]Contents, len(inv.slots))
	for i := range inv.slots {
		out[i] = inv.slots[i].contents
	}
	return out
}

func (inv *Inventory) Empty() {
	for i := range inv.slots {
		inv.slots[i].Empty()
	}
}

func (inv *Inventory) IsFull() bool {
	for i := range inv.slots {
		if inv.slots[i].IsEmpty() {
			return false
		}
	}
	return true
}

// Add puts c into the first free slot and is a no-op when the inventory is
// full. Filling the inventory with identical contents below the last stage
// fuses them: the first slot grows one stage and the rest are emptied.
func (inv *Inventory) Add(c Contents) {
	for i := range inv.slots {
		if inv.slots[i].IsEmpty() {
			inv.slots[i].contents = c
			break
		}
	}
	if inv.IsFull() && inv.allIdentical() && inv.slots[0].contents.Stage < MaxStage {
		inv.collapse()
	}
}

func (inv *Inventory) collapse() {
	inv.slots[0].contents.Stage++
	for j := 1; j < len(inv.slots); j++ {
		inv.slots[j].Empty()
	}
}

// Value is the gold the current contents would sell for:
//
//	(sum(value*stage + (stage-1)^stageBonusExponent) + tricolor) * multiplier
//
// where the multiplier picks up the same-type and same-stage factors and the
// tricolor bonus only applies to a full inventory of distinct species.
func (inv *Inventory) Value(t *settings.Table) float64 {
	if len(inv.slots) == 0 {
		return 0
	}
	multiplier := 1.0
	if inv.allSameType() {
		multiplier *= t.SameTypeMultiplier
	}
	if inv.allSameStage() {
		multiplier *= t.SameStageMultiplier
	}
	bonus := 0.0
	if inv.IsFull() && inv.allDifferent() {
		bonus = t.TricolorBonus
	}
	sum := 0.0
	for i := range inv.slots {
		sum += slotValue(inv.slots[i].contents, t)
	}
	return (sum + bonus) * multiplier
}

func slotValue(c Contents, t *settings.Table) float64 {
	sp, ok := t.Lookup(c.Species)
	if c.IsEmpty() || !ok {
		return 0
	}
	stage := float64(c.Stage)
	return sp.Value*stage + math.Pow(stage-1, t.StageBonusExponent)
}

// Sell empties a full inventory and returns its value. A partial inventory
// cannot be sold and is left untouched.
func (inv *Inventory) Sell(t *settings.Table) (float64, bool) {
	if !inv.IsFull() {
		return 0, false
	}
	v := inv.Value(t)
	inv.Empty()
	return v, true
}

func (inv *Inventory) allIdentical() bool {
	return inv.allSameType() && inv.allSameStage()
}

func (inv *Inventory) allSameType() bool {
	for i := range inv.slots {
		if inv.slots[i].contents.Species != inv.slots[0].contents.Species {
			return false
		}
	}
	return true
}

func (inv *Inventory) allSameStage() bool {
	for i := range inv.slots {
		if inv.slots[i].contents.Stage != inv.slots[0].contents.Stage {
			return false
		}
	}
	return true
}

func (inv *Inventory) allDifferent() bool {
	seen := make(map[string]bool, len(inv.slots))
	for i := range inv.slots {
		seen[inv.slots[i].contents.Species] = true
	}
	return len(seen) == len(inv.slots)
}
