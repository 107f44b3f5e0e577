package game

import "testing"

func fillInventory(inv *Inventory, contents ...Contents) {
	for i, c := range contents {
		inv.Slot(i).Set(c.Species, c.Stage)
	}
}

func TestInventoryAddUsesFirstFreeSlot(t *testing.T) {
	inv := NewInventory(3)
	inv.Add(Contents{Species: "amanita", Stage: 1})
	inv.Slot(0).Empty()
	inv.Add(Contents{Species: "cortinarius", Stage: 2})

	got := inv.Contents()
	if got[0] != (Contents{Species: "cortinarius", Stage: 2}) {
		t.Fatalf("expected first free slot to be reused, got %v", got)
	}
}

func TestInventoryAddWhenFullIsDropped(t *testing.T) {
	inv := NewInventory(2)
	fillInventory(inv,
		Contents{Species: "amanita", Stage: 3},
		Contents{Species: "indigo", Stage: 1},
	)
	inv.Add(Contents{Species: "chanterelle", Stage: 1})
	got := inv.Contents()
	if got[0].Species != "amanita" || got[1].Species != "indigo" {
		t.Fatalf("full inventory should drop additions, got %v", got)
	}
}

func TestInventoryCollapseLaw(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5} {
		inv := NewInventory(size)
		for i := 0; i < size; i++ {
			inv.Add(Contents{Species: "amanita", Stage: 2})
		}
		got := inv.Contents()
		if got[0] != (Contents{Species: "amanita", Stage: 3}) {
			t.Fatalf("size %d: expected amanita/3 in first slot, got %v", size, got)
		}
		for i := 1; i < size; i++ {
			if !got[i].IsEmpty() {
				t.Fatalf("size %d: slot %d should be empty after collapse, got %v", size, i, got[i])
			}
		}
	}
}

func TestInventoryNoCollapseAtLastStage(t *testing.T) {
	inv := NewInventory(3)
	for i := 0; i < 3; i++ {
		inv.Add(Contents{Species: "chanterelle", Stage: 3})
	}
	if !inv.IsFull() {
		t.Fatalf("stage 3 triple must not collapse")
	}
	for i, c := range inv.Contents() {
		if c != (Contents{Species: "chanterelle", Stage: 3}) {
			t.Fatalf("slot %d changed: %v", i, c)
		}
	}
}

func TestInventoryNoCollapseOnMixedContents(t *testing.T) {
	inv := NewInventory(3)
	inv.Add(Contents{Species: "amanita", Stage: 1})
	inv.Add(Contents{Species: "amanita", Stage: 1})
	inv.Add(Contents{Species: "amanita", Stage: 2})
	if !inv.IsFull() {
		t.Fatalf("mixed stages must not collapse, got %v", inv.Contents())
	}
}

func TestInventoryValueSameTypeSameStage(t *testing.T) {
	tbl := testTable()
	inv := NewInventory(3)
	fillInventory(inv,
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "amanita", Stage: 1},
	)
	// 3 * (10*1 + 0^2) = 30, times 3 (type) * 2 (stage).
	if got := inv.Value(&tbl); got != 180 {
		t.Fatalf("value = %v, want 180", got)
	}
}

func TestInventoryValueTricolor(t *testing.T) {
	tbl := testTable()
	inv := NewInventory(3)
	fillInventory(inv,
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "cortinarius", Stage: 1},
		Contents{Species: "chanterelle", Stage: 1},
	)
	// Sum 30 plus the tricolor bonus; all stages match so the stage
	// multiplier still applies.
	if got := inv.Value(&tbl); got != 100 {
		t.Fatalf("value = %v, want 100", got)
	}

	tbl.SameStageMultiplier = 1
	if got := inv.Value(&tbl); got != 50 {
		t.Fatalf("value without stage multiplier = %v, want 50", got)
	}
}

func TestInventoryValueStageBonus(t *testing.T) {
	tbl := testTable()
	inv := NewInventory(3)
	fillInventory(inv,
		Contents{Species: "indigo", Stage: 3},
		Contents{Species: "amanita", Stage: 2},
		Contents{Species: "indigo", Stage: 1},
	)
	// indigo/3: 75+4, amanita/2: 20+1, indigo/1: 25+0. Not all different.
	if got := inv.Value(&tbl); got != 125 {
		t.Fatalf("value = %v, want 125", got)
	}
}

func TestInventoryValuePartialIgnoresTricolor(t *testing.T) {
	tbl := testTable()
	inv := NewInventory(3)
	fillInventory(inv,
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "cortinarius", Stage: 2},
	)
	// 10 + (10+1); no bonus because the inventory is not full.
	if got := inv.Value(&tbl); got != 21 {
		t.Fatalf("value = %v, want 21", got)
	}
}

func TestInventorySell(t *testing.T) {
	tbl := testTable()
	inv := NewInventory(3)
	fillInventory(inv,
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "amanita", Stage: 1},
	)
	if v, ok := inv.Sell(&tbl); ok || v != 0 {
		t.Fatalf("partial inventory must not sell, got %v %v", v, ok)
	}
	if inv.Slot(0).IsEmpty() {
		t.Fatalf("failed sale must not touch contents")
	}

	inv.Slot(2).Set("chanterelle", 1)
	v, ok := inv.Sell(&tbl)
	if !ok {
		t.Fatalf("full inventory should sell")
	}
	// 10 + 10 + 15, same stage only.
	if v != 70 {
		t.Fatalf("sale value = %v, want 70", v)
	}
	for i, c := range inv.Contents() {
		if !c.IsEmpty() {
			t.Fatalf("slot %d not emptied after sale: %v", i, c)
		}
	}
}
