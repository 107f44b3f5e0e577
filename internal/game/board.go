package game

import (
	"fmt"

	"github.com/appengine-ltd/fungi/internal/settings"
)

// Board is a fixed-size row of slots addressed by index.
type Board struct {
	slots []Slot
}

func NewBoard(size int) *Board {
	return &Board{slots: make([]Slot, size)}
}

func (b *Board) Len() int {
	return len(b.slots)
}

// Slot returns the slot at i. It panics when i is out of range.
func (b *Board) Slot(i int) *Slot {
	if i < 0 || i >= len(b.slots) {
		panic(fmt.Sprintf("game: board index %d out of range [0,%d)", i, len(b.slots)))
	}
	return &b.slots[i]
}

// Contents copies every slot's contents in index order.
func (b *Board) Contents() []Contents {
	out := make([]Contents, len(b.slots))
	for i := range b.slots {
		out[i] = b.slots[i].contents
	}
	return out
}

// Advance steps every slot independently, in index order.
func (b *Board) Advance(t *settings.Table, rng Source) {
	for i := range b.slots {
		b.slots[i].Advance(t, rng)
	}
}

func (b *Board) Clear() {
	for i := range b.slots {
		b.slots[i].Empty()
	}
}

// Repopulate empties the board and advances it once, so the initial contents
// come from the regular repopulation roll.
func (b *Board) Repopulate(t *settings.Table, rng Source) {
	b.Clear()
	b.Advance(t, rng)
}
