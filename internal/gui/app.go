//go:build cgo

package gui

import (
	"fmt"
	"log/slog"
	"strconv"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/fungi/internal/audio"
	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/session"
)

type AppConfig struct {
	Title  string
	Width  int32
	Height int32
	Sound  *audio.Sound
	Logger *slog.Logger
}

// App is the desktop client. Like the terminal client it only reads the
// results the session hands back.
type App struct {
	cfg     AppConfig
	session *session.Session
	logger  *slog.Logger
	colors  map[string]rl.Color

	message string
	last    session.Result
	quit    bool
}

func NewApp(s *session.Session, cfg AppConfig) *App {
	if cfg.Title == "" {
		cfg.Title = "fungi"
	}
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 900
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	colors := make(map[string]rl.Color)
	for i, sp := range s.Settings().Mushrooms {
		colors[sp.Name] = speciesColors[i%len(speciesColors)]
	}
	return &App{cfg: cfg, session: s, logger: logger, colors: colors}
}

func (a *App) Run() error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(a.cfg.Width, a.cfg.Height, a.cfg.Title)
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)

	a.apply(a.session.Start())
	for !a.quit && !rl.WindowShouldClose() {
		w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
		snap := a.session.Snapshot()
		l := computeLayout(w, h, len(snap.Board), len(snap.Inventory))

		a.handleInput(l)

		rl.BeginDrawing()
		rl.ClearBackground(AppTheme.Background)
		a.draw(l, snap)
		a.drawButtons(l)
		if a.session.Over() {
			a.drawGameOver(w, h, snap)
		}
		rl.EndDrawing()
	}
	return nil
}

func (a *App) apply(res session.Result) {
	a.last = res
	a.message = res.Message
	if res.Quit {
		a.quit = true
	}
	a.logger.Debug("result", "action", res.Action.String(), "response", res.Response.String(), "handled", res.Handled)
	a.cfg.Sound.Cue(res)
}

func (a *App) handleInput(l layout) {
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !a.session.Over() {
		pos := rl.GetMousePosition()
		if i := l.slotAt(pos.X, pos.Y); i >= 0 {
			a.apply(a.session.Pickup(i))
		}
	}

	switch {
	case rl.IsKeyPressed(rl.KeyA), rl.IsKeyPressed(rl.KeySpace):
		a.apply(a.session.Advance())
	case rl.IsKeyPressed(rl.KeyS):
		a.apply(a.session.Sell())
	case rl.IsKeyPressed(rl.KeyR):
		a.apply(a.session.Start())
	case rl.IsKeyPressed(rl.KeyEscape), rl.IsKeyPressed(rl.KeyQ):
		a.quit = true
	}
	for k := int32(rl.KeyOne); k <= int32(rl.KeyNine); k++ {
		if rl.IsKeyPressed(k) {
			a.apply(a.session.Pickup(int(k - int32(rl.KeyOne))))
		}
	}
}

func (a *App) draw(l layout, snap game.Snapshot) {
	tbl := a.session.Settings()

	rl.DrawText("fungi", int32(l.header.X), int32(l.header.Y), fontTitle, AppTheme.Accent)
	status := fmt.Sprintf("gold %s    time %d    bag worth %s",
		formatGold(snap.Gold), snap.Time, formatGold(snap.InventoryValue))
	rl.DrawText(status, int32(l.header.X), int32(l.header.Y)+fontTitle+4, fontBody, AppTheme.TextPrimary)

	for i, c := range snap.Board {
		r := l.board[i]
		drawPanel(r, false)
		a.drawContents(c, r, tbl.IsObstacle(c.Species))
		rl.DrawText(strconv.Itoa(i+1), int32(r.X)+6, int32(r.Y)+4, fontSmall, AppTheme.TextMuted)
		if !c.IsEmpty() && !tbl.IsObstacle(c.Species) {
			cost := "-" + formatGold(a.pickupCost(i))
			rl.DrawText(cost, int32(r.X+r.W)-rl.MeasureText(cost, fontSmall)-6, int32(r.Y+r.H)-fontSmall-4, fontSmall, AppTheme.TextSecondary)
		}
	}
	for i, c := range snap.Inventory {
		r := l.inventory[i]
		drawPanel(r, true)
		a.drawContents(c, r, false)
	}

	color := AppTheme.TextSecondary
	if a.last.Response.Rejected() || !a.last.Handled {
		color = AppTheme.Warning
	}
	rl.DrawText(a.message, int32(l.message.X), int32(l.message.Y), fontBody, color)
}

func (a *App) pickupCost(i int) float64 {
	var cost float64
	a.session.View(func(g *game.Game) { cost = g.PickupCost(i) })
	return cost
}

func (a *App) drawContents(c game.Contents, r rect, obstacle bool) {
	if c.IsEmpty() {
		return
	}
	cx, cy := r.center()
	radius := mushroomRadius(c.Stage, r)
	if obstacle {
		side := radius * 1.6
		rl.DrawRectangleRounded(rl.NewRectangle(cx-side/2, cy-side/2, side, side), 0.2, cornerSegments, AppTheme.Obstacle)
	} else {
		color, ok := a.colors[c.Species]
		if !ok {
			color = AppTheme.Accent
		}
		rl.DrawCircleV(rl.NewVector2(cx, cy), radius, color)
	}
	label := c.Species
	rl.DrawText(label, int32(cx)-rl.MeasureText(label, fontSmall)/2, int32(r.Y+r.H)-fontSmall*2-6, fontSmall, AppTheme.TextPrimary)
}

func (a *App) drawButtons(l layout) {
	over := a.session.Over()
	for b := button(0); b < buttonCount; b++ {
		disabled := over && b != buttonRestart
		if disabled {
			gui.Disable()
		}
		if gui.Button(toRec(l.buttons[b]), buttonLabels[b]) && !disabled {
			switch b {
			case buttonAdvance:
				a.apply(a.session.Advance())
			case buttonSell:
				a.apply(a.session.Sell())
			case buttonRestart:
				a.apply(a.session.Start())
			}
		}
		if disabled {
			gui.Enable()
		}
	}
}

func (a *App) drawGameOver(w, h float32, snap game.Snapshot) {
	box := rect{X: w/2 - 220, Y: h/2 - 90, W: 440, H: 180}
	rl.DrawRectangle(0, 0, int32(w), int32(h), rl.Fade(AppTheme.Background, 0.6))
	drawPanel(box, true)
	drawCentredText("No legal moves", rect{X: box.X, Y: box.Y + 20, W: box.W, H: 40}, fontTitle, AppTheme.Danger)
	drawCentredText("Final gold: "+formatGold(snap.Gold), rect{X: box.X, Y: box.Y + 70, W: box.W, H: 30}, fontBody, AppTheme.TextPrimary)
	if gui.Button(rl.NewRectangle(box.X+box.W/2-70, box.Y+box.H-56, 140, 40), "Play again") {
		a.apply(a.session.Start())
	}
}

func formatGold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
