package session

import (
	"fmt"
	"time"

	"github.com/appengine-ltd/fungi/internal/game"
)

// Action names the engine call behind a result or event.
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionAdvance
	ActionPickup
	ActionSell
)

var actionNames = [...]string{
	ActionNone:    "none",
	ActionStart:   "start",
	ActionAdvance: "advance",
	ActionPickup:  "pickup",
	ActionSell:    "sell",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("session: unknown action %d", int(a))
	}
	return []byte(actionNames[a]), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	for i, name := range actionNames {
		if name == string(b) {
			*a = Action(i)
			return nil
		}
	}
	return fmt.Errorf("session: unknown action %q", string(b))
}

// Event is emitted after every engine call the session makes. Slot is -1
// unless Action is ActionPickup.
type Event struct {
	Seq      int64         `json:"seq"`
	At       time.Time     `json:"at"`
	Game     int           `json:"game"`
	Action   Action        `json:"action"`
	Slot     int           `json:"slot"`
	Response game.Response `json:"response"`
	Snapshot game.Snapshot `json:"snapshot"`
}

// Listener receives session events in order. Errors are logged by the
// session and never undo the action.
type Listener interface {
	OnEvent(Event) error
}

type ListenerFunc func(Event) error

func (f ListenerFunc) OnEvent(e Event) error {
	return f(e)
}
