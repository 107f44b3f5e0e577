//go:build cgo

package gui

import rl "github.com/gen2brain/raylib-go/raylib"

type Theme struct {
	Background    rl.Color
	Panel         rl.Color
	PanelRaised   rl.Color
	Border        rl.Color
	TextPrimary   rl.Color
	TextSecondary rl.Color
	TextMuted     rl.Color
	Accent        rl.Color
	Warning       rl.Color
	Danger        rl.Color
	Obstacle      rl.Color
}

var AppTheme = Theme{
	Background:    rl.NewColor(0x14, 0x1A, 0x1F, 255),
	Panel:         rl.NewColor(0x1C, 0x23, 0x29, 255),
	PanelRaised:   rl.NewColor(0x21, 0x2A, 0x31, 255),
	Border:        rl.NewColor(0x2E, 0x3A, 0x40, 255),
	TextPrimary:   rl.NewColor(0xE8, 0xE2, 0xD8, 255),
	TextSecondary: rl.NewColor(0xA6, 0xAD, 0xB1, 255),
	TextMuted:     rl.NewColor(0x7D, 0x85, 0x8A, 255),
	Accent:        rl.NewColor(0xD4, 0x6A, 0x1E, 255),
	Warning:       rl.NewColor(0xC1, 0x8B, 0x2F, 255),
	Danger:        rl.NewColor(0xB8, 0x4A, 0x3A, 255),
	Obstacle:      rl.NewColor(0x6B, 0x6F, 0x72, 255),
}

// Species colours in table order.
var speciesColors = []rl.Color{
	rl.NewColor(0xC8, 0x3A, 0x2E, 255),
	rl.NewColor(0x8A, 0x5A, 0x2B, 255),
	rl.NewColor(0xE3, 0xA3, 0x2A, 255),
	rl.NewColor(0x3F, 0x51, 0xB5, 255),
	rl.NewColor(0x2F, 0x5D, 0x42, 255),
	rl.NewColor(0x8E, 0x44, 0xAD, 255),
}

const (
	cornerRadius   = float32(0.12)
	cornerSegments = int32(8)
	fontBody       = int32(22)
	fontSmall      = int32(16)
	fontTitle      = int32(30)
)

func toRec(r rect) rl.Rectangle {
	return rl.NewRectangle(r.X, r.Y, r.W, r.H)
}

func drawPanel(r rect, raised bool) {
	fill := AppTheme.Panel
	if raised {
		fill = AppTheme.PanelRaised
	}
	rl.DrawRectangleRounded(toRec(r), cornerRadius, cornerSegments, fill)
	rl.DrawRectangleRoundedLinesEx(toRec(r), cornerRadius, cornerSegments, 1.2, AppTheme.Border)
}

func drawCentredText(text string, r rect, size int32, color rl.Color) {
	w := float32(rl.MeasureText(text, size))
	cx, cy := r.center()
	rl.DrawText(text, int32(cx-w/2), int32(cy-float32(size)/2), size, color)
}
