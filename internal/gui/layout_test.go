package gui

import "testing"

func TestLayoutBoardGrid(t *testing.T) {
	l := computeLayout(900, 900, 9, 3)
	if len(l.board) != 9 || len(l.inventory) != 3 {
		t.Fatalf("unexpected counts: %d board, %d inventory", len(l.board), len(l.inventory))
	}
	if l.board[0].Y != l.board[2].Y || l.board[3].Y <= l.board[0].Y {
		t.Fatalf("expected three tiles per row: %+v", l.board[:4])
	}
	for i := 1; i < len(l.board); i++ {
		if l.board[i].W != l.board[0].W || l.board[i].W != l.board[i].H {
			t.Fatalf("tiles should be equal squares: %+v", l.board[i])
		}
	}
	if l.inventory[0].Y <= l.board[8].Y+l.board[8].H {
		t.Fatalf("inventory should sit below the board")
	}
	if l.buttons[buttonAdvance].Y <= l.inventory[0].Y {
		t.Fatalf("buttons should sit below the inventory")
	}
	if l.message.Y+l.message.H > 900 {
		t.Fatalf("message line should fit the window: %+v", l.message)
	}
}

func TestLayoutIsCentred(t *testing.T) {
	l := computeLayout(1200, 800, 9, 3)
	left := l.board[0].X
	right := 1200 - (l.board[2].X + l.board[2].W)
	if d := left - right; d > 0.01 || d < -0.01 {
		t.Fatalf("board not centred: %v vs %v", left, right)
	}
}

func TestSlotAt(t *testing.T) {
	l := computeLayout(900, 900, 9, 3)
	for i, r := range l.board {
		x, y := r.center()
		if got := l.slotAt(x, y); got != i {
			t.Fatalf("centre of tile %d hit %d", i, got)
		}
	}
	if got := l.slotAt(1, 1); got != -1 {
		t.Fatalf("corner should miss every tile, got %d", got)
	}
}

func TestMushroomRadiusGrowsWithStage(t *testing.T) {
	tile := rect{W: 100, H: 100}
	prev := float32(0)
	for stage := 1; stage <= 3; stage++ {
		r := mushroomRadius(stage, tile)
		if r <= prev || r > tile.W/2 {
			t.Fatalf("stage %d radius %v out of order (prev %v)", stage, r, prev)
		}
		prev = r
	}
	if mushroomRadius(0, tile) != 0 {
		t.Fatalf("empty slot should have no mushroom")
	}
}
