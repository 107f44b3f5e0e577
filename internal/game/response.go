package game

import "fmt"

// Response is the verdict an action hands back to its controller. The
// ordinals are stable and appear in logs and journals.
type Response int

const (
	Continue             Response = 0
	SlotNotPickable      Response = 1
	InventoryNotSellable Response = 2
	InventoryFull        Response = 3
	NoLegalMoves         Response = 4
)

var responseNames = [...]string{
	Continue:             "continue",
	SlotNotPickable:      "slot_not_pickable",
	InventoryNotSellable: "inventory_not_sellable",
	InventoryFull:        "inventory_full",
	NoLegalMoves:         "no_legal_moves",
}

func (r Response) String() string {
	if r < 0 || int(r) >= len(responseNames) {
		return fmt.Sprintf("response(%d)", int(r))
	}
	return responseNames[r]
}

// Rejected reports whether the action was refused without changing state.
func (r Response) Rejected() bool {
	return r == SlotNotPickable || r == InventoryNotSellable || r == InventoryFull
}

func (r Response) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(responseNames) {
		return nil, fmt.Errorf("game: unknown response %d", int(r))
	}
	return []byte(responseNames[r]), nil
}

func (r *Response) UnmarshalText(b []byte) error {
	for i, name := range responseNames {
		if name == string(b) {
			*r = Response(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown response %q", string(b))
}
