package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/appengine-ltd/fungi/internal/audio"
	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/parser"
	"github.com/appengine-ltd/fungi/internal/session"
)

const (
	boardColumns = 3
	cellWidth    = 18
)

type Options struct {
	Sound  *audio.Sound
	Logger *slog.Logger
}

type inputMode int

const (
	modeHotkey inputMode = iota
	modeCommand
)

// App is the terminal client. It only talks to the session and redraws from
// the snapshots it gets back.
type App struct {
	screen  tcell.Screen
	session *session.Session
	parser  *parser.Parser
	sound   *audio.Sound
	logger  *slog.Logger

	mode    inputMode
	input   []rune
	message string
	last    session.Result
	quit    bool
	palette map[string]tcell.Color
}

func New(s *session.Session, screen tcell.Screen, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		screen:  screen,
		session: s,
		parser:  parser.New(),
		sound:   opts.Sound,
		logger:  logger,
	}
	a.palette = speciesPalette(s)
	return a
}

// Run opens the terminal and plays until the player quits or ctx ends.
func Run(ctx context.Context, s *session.Session, opts Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}
	defer screen.Fini()

	a := New(s, screen, opts)
	a.apply(s.Start())

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for !a.quit {
		a.Draw()
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				a.HandleKey(ev)
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}
	return nil
}

func (a *App) HandleKey(ev *tcell.EventKey) {
	a.handle(ev.Key(), ev.Rune())
}

func (a *App) handle(key tcell.Key, r rune) {
	if key == tcell.KeyCtrlC {
		a.quit = true
		return
	}
	if a.mode == modeCommand {
		a.handleCommandKey(key, r)
		return
	}

	switch key {
	case tcell.KeyEscape:
		a.quit = true
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch {
	case r == 'a':
		a.apply(a.session.Advance())
	case r == 's':
		a.apply(a.session.Sell())
	case r == 'r':
		a.apply(a.session.Start())
	case r == 'v':
		a.apply(a.session.Execute(parser.Intent{Kind: parser.Query, Verb: "value"}))
	case r == 'q':
		a.quit = true
	case r == ':' || r == '/':
		a.mode = modeCommand
		a.input = a.input[:0]
	case r >= '1' && r <= '9':
		a.apply(a.session.Pickup(int(r - '1')))
	}
}

func (a *App) handleCommandKey(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape:
		a.mode = modeHotkey
		a.input = a.input[:0]
	case tcell.KeyEnter:
		raw := string(a.input)
		a.mode = modeHotkey
		a.input = a.input[:0]
		intent := a.parser.Parse(a.session.ParseContext(), raw)
		a.logger.Debug("command", "raw", raw, "verb", intent.Verb, "confidence", intent.Confidence)
		a.apply(a.session.Execute(intent))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyRune:
		a.input = append(a.input, r)
	}
}

func (a *App) apply(res session.Result) {
	a.last = res
	a.message = res.Message
	if res.Quit {
		a.quit = true
	}
	a.sound.Cue(res)
}

// Quit reports whether the player asked to leave.
func (a *App) Quit() bool {
	return a.quit
}

func (a *App) Draw() {
	a.screen.Clear()
	snap := a.session.Snapshot()
	tbl := a.session.Settings()
	plain := tcell.StyleDefault
	bold := plain.Bold(true)

	y := 0
	drawText(a.screen, 0, y, bold, "fungi")
	drawText(a.screen, 8, y, plain, fmt.Sprintf("gold %s   time %d   bag worth %s",
		formatGold(snap.Gold), snap.Time, formatGold(snap.InventoryValue)))
	y += 2

	for i, c := range snap.Board {
		col, row := i%boardColumns, i/boardColumns
		label := strconv.Itoa(i+1) + " "
		if i >= 9 {
			label = "  "
		}
		x := col * cellWidth
		drawText(a.screen, x, y+row, plain.Dim(true), label)
		drawText(a.screen, x+len(label), y+row, a.styleFor(c, tbl.IsObstacle(c.Species)), cellText(c))
	}
	y += (len(snap.Board)+boardColumns-1)/boardColumns + 1

	drawText(a.screen, 0, y, bold, "bag")
	for i, c := range snap.Inventory {
		drawText(a.screen, 5+i*cellWidth, y, a.styleFor(c, false), cellText(c))
	}
	y += 2

	msgStyle := plain
	if a.last.Response.Rejected() || !a.last.Handled {
		msgStyle = plain.Foreground(tcell.ColorYellow)
	}
	drawText(a.screen, 0, y, msgStyle, a.message)
	y++
	if a.session.Over() {
		drawText(a.screen, 0, y, bold.Foreground(tcell.ColorRed), "No legal moves left. Press r to restart or q to quit.")
	}
	y += 2

	if a.mode == modeCommand {
		drawText(a.screen, 0, y, bold, ":"+string(a.input))
		a.screen.ShowCursor(1+len(a.input), y)
	} else {
		a.screen.HideCursor()
		drawText(a.screen, 0, y, plain.Dim(true), "a advance  s sell  1-9 pick  v value  r restart  : command  q quit")
	}
	a.screen.Show()
}

func (a *App) styleFor(c game.Contents, obstacle bool) tcell.Style {
	style := tcell.StyleDefault
	switch {
	case c.IsEmpty():
		return style.Dim(true)
	case obstacle:
		return style.Foreground(tcell.ColorGray)
	}
	if color, ok := a.palette[c.Species]; ok {
		style = style.Foreground(color)
	}
	if c.Stage == game.MaxStage {
		style = style.Bold(true)
	}
	return style
}

var speciesColors = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorOlive,
	tcell.ColorOrange,
	tcell.ColorBlue,
	tcell.ColorGreen,
	tcell.ColorPurple,
	tcell.ColorTeal,
}

func speciesPalette(s *session.Session) map[string]tcell.Color {
	tbl := s.Settings()
	out := make(map[string]tcell.Color, len(tbl.Mushrooms))
	for i, sp := range tbl.Mushrooms {
		out[sp.Name] = speciesColors[i%len(speciesColors)]
	}
	return out
}

// cellText renders a slot as its species with one dot per stage.
func cellText(c game.Contents) string {
	if c.IsEmpty() {
		return "."
	}
	dots := []rune("···")
	return c.Species + " " + string(dots[:c.Stage])
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func formatGold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
