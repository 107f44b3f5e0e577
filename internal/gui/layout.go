package gui

const (
	spaceS  = float32(12)
	spaceM  = float32(18)
	spaceL  = float32(24)
	columns = 3

	headerHeight = float32(56)
	buttonHeight = float32(44)
	buttonWidth  = float32(140)
	messageLines = float32(2)
	lineHeight   = float32(24)
)

type rect struct {
	X, Y, W, H float32
}

func (r rect) contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r rect) center() (float32, float32) {
	return r.X + r.W/2, r.Y + r.H/2
}

type button int

const (
	buttonAdvance button = iota
	buttonSell
	buttonRestart
	buttonCount
)

var buttonLabels = [buttonCount]string{
	buttonAdvance: "Advance",
	buttonSell:    "Sell",
	buttonRestart: "Restart",
}

// layout places every widget for one window size. Tiles are square and
// sized to the smaller of the two free dimensions.
type layout struct {
	header    rect
	board     []rect
	inventory []rect
	buttons   [buttonCount]rect
	message   rect
}

func computeLayout(width, height float32, boardSize, inventorySize int) layout {
	var l layout
	l.header = rect{X: spaceL, Y: spaceS, W: width - 2*spaceL, H: headerHeight}

	rows := (boardSize + columns - 1) / columns
	footer := spaceM + buttonHeight + spaceM + messageLines*lineHeight + spaceL
	availW := width - 2*spaceL
	// board rows plus one inventory row share the remaining height
	availH := height - l.header.Y - l.header.H - spaceM - footer - spaceL
	tile := min((availW-float32(columns-1)*spaceS)/columns, (availH-float32(rows)*spaceS)/float32(rows+1))
	tile = max(tile, 24)

	gridW := float32(columns)*tile + float32(columns-1)*spaceS
	left := (width - gridW) / 2
	top := l.header.Y + l.header.H + spaceM

	l.board = make([]rect, boardSize)
	for i := range l.board {
		col, row := i%columns, i/columns
		l.board[i] = rect{
			X: left + float32(col)*(tile+spaceS),
			Y: top + float32(row)*(tile+spaceS),
			W: tile,
			H: tile,
		}
	}

	invTop := top + float32(rows)*(tile+spaceS) + spaceM
	invTile := tile * 0.8
	invW := float32(inventorySize)*invTile + float32(inventorySize-1)*spaceS
	invLeft := (width - invW) / 2
	l.inventory = make([]rect, inventorySize)
	for i := range l.inventory {
		l.inventory[i] = rect{X: invLeft + float32(i)*(invTile+spaceS), Y: invTop, W: invTile, H: invTile}
	}

	btnTop := invTop + invTile + spaceM
	btnW := float32(buttonCount)*buttonWidth + float32(buttonCount-1)*spaceS
	btnLeft := (width - btnW) / 2
	for i := range l.buttons {
		l.buttons[i] = rect{X: btnLeft + float32(i)*(buttonWidth+spaceS), Y: btnTop, W: buttonWidth, H: buttonHeight}
	}

	l.message = rect{X: spaceL, Y: btnTop + buttonHeight + spaceM, W: width - 2*spaceL, H: messageLines * lineHeight}
	return l
}

// slotAt returns the board index under (x, y), or -1.
func (l layout) slotAt(x, y float32) int {
	for i, r := range l.board {
		if r.contains(x, y) {
			return i
		}
	}
	return -1
}

// mushroomRadius grows with the stage; stage 3 nearly fills the tile.
func mushroomRadius(stage int, tile rect) float32 {
	if stage <= 0 {
		return 0
	}
	return tile.W * (0.14 + 0.11*float32(stage))
}
