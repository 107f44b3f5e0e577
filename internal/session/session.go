package session

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/parser"
	"github.com/appengine-ltd/fungi/internal/settings"
)

// Result is what a client gets back from any session call. Handled is false
// when nothing reached the engine (bad slot number, game already over, a
// parse that needs clarification).
type Result struct {
	Handled  bool
	Action   Action
	Slot     int
	Response game.Response
	Message  string
	GameOver bool
	Quit     bool
	Snapshot game.Snapshot
}

// Session drives one Game on behalf of a client and fans out events. It is
// safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	game       *game.Game
	logger     *slog.Logger
	listeners  []Listener
	seq        int64
	games      int
	over       bool
	lastEntity string
	now        func() time.Time
}

func New(g *game.Game, logger *slog.Logger, listeners ...Listener) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		game:      g,
		logger:    logger,
		listeners: append([]Listener(nil), listeners...),
		now:       time.Now,
	}
}

func (s *Session) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Start begins a new game and clears any game-over lock.
func (s *Session) Start() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.Start()
	s.games++
	s.over = false
	s.lastEntity = ""
	resp := s.game.CheckLegalMoves()
	msg := fmt.Sprintf("New game. You have %s gold.", formatGold(s.game.Gold()))
	return s.finish(ActionStart, -1, resp, msg)
}

func (s *Session) Advance() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.lockedResult(ActionAdvance, -1)
	}
	resp := s.game.Advance()
	msg := fmt.Sprintf("Time passes (-%s gold).", formatGold(s.game.Settings().AdvanceCost))
	return s.finish(ActionAdvance, -1, resp, msg)
}

// Pickup picks board slot i (0-based). Indices off the board are reported
// back instead of reaching the engine.
func (s *Session) Pickup(i int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickupLocked(i)
}

func (s *Session) pickupLocked(i int) Result {
	if s.over {
		return s.lockedResult(ActionPickup, i)
	}
	if i < 0 || i >= s.game.Board().Len() {
		return Result{
			Action:   ActionPickup,
			Slot:     i,
			Response: game.SlotNotPickable,
			Message:  fmt.Sprintf("There is no slot %d. Pick 1 to %d.", i+1, s.game.Board().Len()),
			Snapshot: s.game.Snapshot(),
		}
	}

	before := s.game.Board().Slot(i).Contents()
	cost := s.game.PickupCost(i)
	resp := s.game.Pickup(i)

	var msg string
	switch resp {
	case game.SlotNotPickable:
		if before.IsEmpty() {
			msg = fmt.Sprintf("Slot %d is empty.", i+1)
		} else {
			msg = fmt.Sprintf("You cannot pick up the %s.", before.Species)
		}
	case game.InventoryFull:
		msg = "Your inventory is full. Sell first."
	default:
		s.lastEntity = before.Species
		msg = fmt.Sprintf("Picked %s (stage %d) for %s gold.", before.Species, before.Stage, formatGold(cost))
	}
	return s.finish(ActionPickup, i, resp, msg)
}

func (s *Session) Sell() Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return s.lockedResult(ActionSell, -1)
	}
	value := s.game.Inventory().Value(s.game.Settings())
	resp := s.game.Sell()

	msg := fmt.Sprintf("Sold your harvest for %s gold.", formatGold(value))
	if resp == game.InventoryNotSellable {
		msg = "Fill every inventory slot before selling."
	}
	return s.finish(ActionSell, -1, resp, msg)
}

// Execute runs a parsed intent. Queries and help never touch the engine.
func (s *Session) Execute(intent parser.Intent) Result {
	if intent.Clarify != nil {
		return Result{Message: clarifyMessage(intent.Clarify), Snapshot: s.Snapshot()}
	}

	switch intent.Verb {
	case "advance":
		return s.Advance()
	case "sell":
		return s.Sell()
	case "restart":
		return s.Start()
	case "pick":
		return s.executePick(intent)
	case "look":
		snap := s.Snapshot()
		return Result{Handled: true, Message: describe(snap), Snapshot: snap, GameOver: s.Over()}
	case "value":
		snap := s.Snapshot()
		msg := fmt.Sprintf("Your inventory is worth %s gold.", formatGold(snap.InventoryValue))
		if !snap.InventoryFull {
			msg += " Fill it to sell."
		}
		return Result{Handled: true, Message: msg, Snapshot: snap, GameOver: s.Over()}
	case "help":
		return Result{Handled: true, Message: helpText, Snapshot: s.Snapshot()}
	case "quit":
		return Result{Handled: true, Quit: true, Message: "Goodbye.", Snapshot: s.Snapshot()}
	default:
		return Result{Message: "Unknown command. Type help for a list.", Snapshot: s.Snapshot()}
	}
}

func (s *Session) executePick(intent parser.Intent) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if intent.Slot != nil {
		return s.pickupLocked(*intent.Slot)
	}
	if len(intent.Args) == 0 {
		return Result{Message: "Pick which slot?", Snapshot: s.game.Snapshot()}
	}
	i, ok := s.findSpecies(intent.Args[0])
	if !ok {
		return Result{
			Message:  fmt.Sprintf("There is no %s on the board.", intent.Args[0]),
			Snapshot: s.game.Snapshot(),
		}
	}
	return s.pickupLocked(i)
}

// findSpecies returns the most grown board slot holding the named species,
// lowest index first among equals.
func (s *Session) findSpecies(name string) (int, bool) {
	want := parser.Normalise(name)
	board := s.game.Board()
	best, bestStage := -1, 0
	for i := 0; i < board.Len(); i++ {
		c := board.Slot(i).Contents()
		if c.IsEmpty() || parser.Normalise(c.Species) != want {
			continue
		}
		if c.Stage > bestStage {
			best, bestStage = i, c.Stage
		}
	}
	return best, best >= 0
}

// ParseContext lists what the parser may resolve names against.
func (s *Session) ParseContext() parser.ParseContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := parser.ParseContext{LastEntity: s.lastEntity}
	for _, c := range s.game.Board().Contents() {
		ctx.Board = append(ctx.Board, c.Species)
	}
	for _, c := range s.game.Inventory().Contents() {
		ctx.Inventory = append(ctx.Inventory, c.Species)
	}
	return ctx
}

func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Over reports whether the current game ended with NoLegalMoves.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Games is the number of games started so far.
func (s *Session) Games() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.games
}

func (s *Session) Settings() settings.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.game.Settings()
}

// View runs fn with the game while holding the session lock. fn must not
// mutate the game.
func (s *Session) View(fn func(g *game.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

func (s *Session) lockedResult(action Action, slot int) Result {
	return Result{
		Action:   action,
		Slot:     slot,
		Response: game.NoLegalMoves,
		Message:  "The game is over. Restart to play again.",
		GameOver: true,
		Snapshot: s.game.Snapshot(),
	}
}

func (s *Session) finish(action Action, slot int, resp game.Response, msg string) Result {
	snap := s.game.Snapshot()
	if resp == game.NoLegalMoves {
		s.over = true
		msg += fmt.Sprintf(" No legal moves left. Final gold: %s.", formatGold(snap.Gold))
		s.logger.Info("game over", "game", s.games, "gold", snap.Gold, "time", snap.Time)
	}
	s.logger.Debug("action",
		"action", action.String(),
		"slot", slot,
		"response", resp.String(),
		"gold", snap.Gold,
		"time", snap.Time,
	)

	s.seq++
	s.emit(Event{
		Seq:      s.seq,
		At:       s.now(),
		Game:     s.games,
		Action:   action,
		Slot:     slot,
		Response: resp,
		Snapshot: snap,
	})

	return Result{
		Handled:  true,
		Action:   action,
		Slot:     slot,
		Response: resp,
		Message:  msg,
		GameOver: s.over,
		Snapshot: snap,
	}
}

func (s *Session) emit(e Event) {
	for _, l := range s.listeners {
		if err := l.OnEvent(e); err != nil {
			s.logger.Warn("listener failed", "seq", e.Seq, "action", e.Action.String(), "err", err)
		}
	}
}

const helpText = "Commands: advance (a), pick <slot|mushroom> (p), sell (s), value, look, restart, help, quit."

func clarifyMessage(q *parser.ClarifyQuestion) string {
	if len(q.Options) == 0 {
		return q.Prompt
	}
	opts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, parser.IntentToCommandString(o))
	}
	return q.Prompt + " " + strings.Join(opts, " / ")
}

func describe(snap game.Snapshot) string {
	var b strings.Builder
	b.WriteString("Board:")
	for i, c := range snap.Board {
		fmt.Fprintf(&b, " %d:%s", i+1, c)
	}
	b.WriteString(" | Inventory:")
	for _, c := range snap.Inventory {
		fmt.Fprintf(&b, " %s", c)
	}
	fmt.Fprintf(&b, " | Gold %s, time %d", formatGold(snap.Gold), snap.Time)
	return b.String()
}

func formatGold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
