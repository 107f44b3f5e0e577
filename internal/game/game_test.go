package game

import "testing"

func newTestGame(t *testing.T, boardSize, inventorySize int, rng Source) *Game {
	t.Helper()
	g, err := New(boardSize, inventorySize, testTable(), rng)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(0, 3, testTable(), script()); err == nil {
		t.Fatalf("expected error for empty board")
	}
	if _, err := New(9, 0, testTable(), script()); err == nil {
		t.Fatalf("expected error for empty inventory")
	}
	bad := testTable()
	bad.Mushrooms = nil
	if _, err := New(9, 3, bad, script()); err == nil {
		t.Fatalf("expected error for invalid settings")
	}
}

func TestNewCopiesSpeciesList(t *testing.T) {
	tbl := testTable()
	g, err := New(3, 3, tbl, script())
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	tbl.Mushrooms[0].Value = 999
	if sp, _ := g.Settings().Lookup("amanita"); sp.Value != 10 {
		t.Fatalf("game settings should not alias the caller's slice")
	}
}

func TestStartResetsState(t *testing.T) {
	g := newTestGame(t, 9, 3, NewSource(1))
	g.gold = 3
	g.time = 12
	g.inventory.Slot(0).Set("amanita", 1)

	g.Start()

	if g.Gold() != 100 || g.Time() != 0 {
		t.Fatalf("expected gold 100 time 0, got %v %d", g.Gold(), g.Time())
	}
	if !g.Inventory().Slot(0).IsEmpty() {
		t.Fatalf("inventory should be emptied on start")
	}
}

func TestStartRepopulatesFromEmpty(t *testing.T) {
	g := newTestGame(t, 3, 3, script(0.1, 0.0))
	g.board.Slot(0).Set("chanterelle", 3)
	g.board.Slot(1).Set("rock", 2)

	g.Start()

	// Every slot starts empty, rolls 0.1 < 0.3 and draws amanita.
	for i, c := range g.Board().Contents() {
		if c != (Contents{Species: "amanita", Stage: 1}) {
			t.Fatalf("slot %d: expected fresh amanita/1, got %v", i, c)
		}
	}
}

func TestAdvanceChargesAndCounts(t *testing.T) {
	g := newTestGame(t, 3, 3, script(0.99))
	resp := g.Advance()
	if resp != Continue {
		t.Fatalf("expected Continue, got %v", resp)
	}
	if g.Time() != 1 || g.Gold() != 90 {
		t.Fatalf("expected time 1 gold 90, got %d %v", g.Time(), g.Gold())
	}
}

func TestAdvanceMayDriveGoldNegative(t *testing.T) {
	g := newTestGame(t, 1, 3, script(0.99))
	g.gold = 4
	resp := g.Advance()
	if g.Gold() != -6 {
		t.Fatalf("gold = %v, want -6", g.Gold())
	}
	if resp != NoLegalMoves {
		t.Fatalf("expected NoLegalMoves with empty board and negative gold, got %v", resp)
	}
}

func TestAdvanceClearsEroded(t *testing.T) {
	g := newTestGame(t, 4, 3, script(0.99))
	for i := 0; i < g.Board().Len(); i++ {
		g.board.Slot(i).Set("rock", 1)
	}
	g.Advance()
	for i, c := range g.Board().Contents() {
		if !c.IsEmpty() {
			t.Fatalf("slot %d: rock at stage 1 should be gone, got %v", i, c)
		}
	}
}

func TestPickupMovesContents(t *testing.T) {
	g := newTestGame(t, 3, 3, script())
	g.board.Slot(1).Set("chanterelle", 2)

	resp := g.Pickup(1)
	if resp != Continue {
		t.Fatalf("expected Continue, got %v", resp)
	}
	if !g.Board().Slot(1).IsEmpty() {
		t.Fatalf("board slot should be empty after pickup")
	}
	if got := g.Inventory().Slot(0).Contents(); got != (Contents{Species: "chanterelle", Stage: 2}) {
		t.Fatalf("inventory slot 0 = %v", got)
	}
	if g.Gold() != 80 {
		t.Fatalf("gold = %v, want 80 after stage 2 pickup", g.Gold())
	}
}

func TestPickupRejections(t *testing.T) {
	g := newTestGame(t, 3, 2, script())
	g.board.Slot(0).Set("rock", 3)
	g.board.Slot(2).Set("amanita", 1)

	if resp := g.Pickup(0); resp != SlotNotPickable {
		t.Fatalf("rock: expected SlotNotPickable, got %v", resp)
	}
	if resp := g.Pickup(1); resp != SlotNotPickable {
		t.Fatalf("empty slot: expected SlotNotPickable, got %v", resp)
	}

	g.inventory.Slot(0).Set("indigo", 3)
	g.inventory.Slot(1).Set("indigo", 2)
	before := g.Gold()

	if resp := g.Pickup(2); resp != InventoryFull {
		t.Fatalf("full inventory: expected InventoryFull, got %v", resp)
	}
	// Fullness is reported even when the slot itself is not pickable.
	if resp := g.Pickup(0); resp != InventoryFull {
		t.Fatalf("rock with full inventory: expected InventoryFull, got %v", resp)
	}
	if g.Gold() != before || g.Board().Slot(2).IsEmpty() {
		t.Fatalf("rejected pickup must not change state")
	}
}

func TestPickupOutOfRangePanics(t *testing.T) {
	g := newTestGame(t, 3, 3, script())
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range index")
		}
	}()
	g.Pickup(3)
}

func TestPickupRoundTripThroughCollapse(t *testing.T) {
	g := newTestGame(t, 3, 3, script())
	for i := 0; i < 3; i++ {
		g.board.Slot(i).Set("amanita", 1)
	}
	for i := 0; i < 3; i++ {
		g.Pickup(i)
	}
	inv := g.Inventory().Contents()
	if inv[0] != (Contents{Species: "amanita", Stage: 2}) || !inv[1].IsEmpty() || !inv[2].IsEmpty() {
		t.Fatalf("expected collapse to amanita/2, got %v", inv)
	}
	if g.Gold() != 85 {
		t.Fatalf("gold = %v, want 85", g.Gold())
	}
}

func TestSell(t *testing.T) {
	g := newTestGame(t, 3, 3, script())
	if resp := g.Sell(); resp != InventoryNotSellable {
		t.Fatalf("expected InventoryNotSellable, got %v", resp)
	}

	fillInventory(g.inventory,
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "amanita", Stage: 1},
	)
	if resp := g.Sell(); resp != Continue {
		t.Fatalf("expected Continue, got %v", resp)
	}
	if g.Gold() != 280 {
		t.Fatalf("gold = %v, want 280", g.Gold())
	}
	if g.Inventory().IsFull() || !g.Inventory().Slot(0).IsEmpty() {
		t.Fatalf("inventory should be empty after sale")
	}
}

func TestSellCapsGold(t *testing.T) {
	g := newTestGame(t, 3, 3, script())
	g.gold = 9950
	fillInventory(g.inventory,
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "amanita", Stage: 1},
	)
	g.Sell()
	if g.Gold() != 9999 {
		t.Fatalf("gold = %v, want cap 9999", g.Gold())
	}

	// Above the cap already: a sale pulls gold down to the cap.
	g.gold = 10050
	fillInventory(g.inventory,
		Contents{Species: "amanita", Stage: 1},
		Contents{Species: "cortinarius", Stage: 1},
		Contents{Species: "chanterelle", Stage: 1},
	)
	g.Sell()
	if g.Gold() != 9999 {
		t.Fatalf("gold = %v, want 9999", g.Gold())
	}
}

func TestCheckLegalMoves(t *testing.T) {
	tests := []struct {
		name  string
		setup func(g *Game)
		want  Response
	}{
		{
			name:  "advance affordable",
			setup: func(g *Game) { g.gold = 10 },
			want:  Continue,
		},
		{
			name: "nothing affordable",
			setup: func(g *Game) {
				g.gold = 9
				g.board.Slot(0).Set("rock", 3)
				g.board.Slot(1).Set("amanita", 2)
			},
			want: NoLegalMoves,
		},
		{
			name: "cheap pickup",
			setup: func(g *Game) {
				g.gold = 5
				g.board.Slot(2).Set("cortinarius", 1)
			},
			want: Continue,
		},
		{
			name: "sellable inventory with positive net worth",
			setup: func(g *Game) {
				g.gold = -20
				fillInventory(g.inventory,
					Contents{Species: "indigo", Stage: 1},
					Contents{Species: "indigo", Stage: 2},
					Contents{Species: "amanita", Stage: 1},
				)
			},
			want: Continue,
		},
		{
			name: "sellable inventory but net worth not positive",
			setup: func(g *Game) {
				g.gold = -1000
				fillInventory(g.inventory,
					Contents{Species: "indigo", Stage: 1},
					Contents{Species: "indigo", Stage: 2},
					Contents{Species: "amanita", Stage: 1},
				)
			},
			want: NoLegalMoves,
		},
		{
			name: "partial inventory does not count",
			setup: func(g *Game) {
				g.gold = 0
				g.inventory.Slot(0).Set("indigo", 3)
			},
			want: NoLegalMoves,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 3, 3, script())
			tt.setup(g)
			first := g.CheckLegalMoves()
			second := g.CheckLegalMoves()
			if first != second {
				t.Fatalf("check is not idempotent: %v then %v", first, second)
			}
			if first != tt.want {
				t.Fatalf("got %v, want %v", first, tt.want)
			}
		})
	}
}

func TestStagesStayInRange(t *testing.T) {
	g := newTestGame(t, 9, 3, NewSource(2024))
	g.Start()
	for step := 0; step < 500; step++ {
		g.gold = 1000
		g.Advance()
		for i, c := range g.Board().Contents() {
			if c.IsEmpty() {
				if c.Stage != 0 {
					t.Fatalf("step %d slot %d: empty slot with stage %d", step, i, c.Stage)
				}
				continue
			}
			if c.Stage < MinStage || c.Stage > MaxStage {
				t.Fatalf("step %d slot %d: stage out of range: %v", step, i, c)
			}
		}
	}
}

func TestSnapshot(t *testing.T) {
	g := newTestGame(t, 2, 3, script())
	g.board.Slot(1).Set("amanita", 2)
	g.inventory.Slot(0).Set("indigo", 1)

	snap := g.Snapshot()
	if len(snap.Board) != 2 || len(snap.Inventory) != 3 {
		t.Fatalf("unexpected snapshot shape: %+v", snap)
	}
	if !snap.Board[0].IsEmpty() || snap.Board[1].Species != "amanita" {
		t.Fatalf("unexpected board view: %+v", snap.Board)
	}
	if snap.InventoryValue != 25 || snap.InventoryFull {
		t.Fatalf("unexpected inventory view: %+v", snap)
	}

	// Mutating the snapshot leaves the game untouched.
	snap.Board[1] = Contents{}
	if g.Board().Slot(1).IsEmpty() {
		t.Fatalf("snapshot must be a copy")
	}
}

func TestResponseNames(t *testing.T) {
	want := map[Response]string{
		Continue:             "continue",
		SlotNotPickable:      "slot_not_pickable",
		InventoryNotSellable: "inventory_not_sellable",
		InventoryFull:        "inventory_full",
		NoLegalMoves:         "no_legal_moves",
	}
	for r, name := range want {
		if r.String() != name {
			t.Fatalf("%d.String() = %q, want %q", int(r), r.String(), name)
		}
		var back Response
		if err := back.UnmarshalText([]byte(name)); err != nil || back != r {
			t.Fatalf("UnmarshalText(%q) = %v, %v", name, back, err)
		}
	}
	if int(NoLegalMoves) != 4 || int(Continue) != 0 {
		t.Fatalf("ordinals must stay stable")
	}
}
