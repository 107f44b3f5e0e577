package audio

import (
	"testing"
	"time"

	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/session"
)

func TestCueFor(t *testing.T) {
	tests := []struct {
		name  string
		res   session.Result
		notes int
	}{
		{"unhandled", session.Result{}, 0},
		{"rejected", session.Result{Handled: true, Action: session.ActionSell, Response: game.InventoryNotSellable}, 1},
		{"sold", session.Result{Handled: true, Action: session.ActionSell}, 2},
		{"picked", session.Result{Handled: true, Action: session.ActionPickup}, 1},
		{"game over", session.Result{Handled: true, Action: session.ActionAdvance, Response: game.NoLegalMoves}, 3},
		{"query", session.Result{Handled: true}, 0},
	}
	for _, tc := range tests {
		if got := len(cueFor(tc.res)); got != tc.notes {
			t.Fatalf("%s: %d notes, want %d", tc.name, got, tc.notes)
		}
	}

	if cue := cueFor(tests[1].res); cue[0].wave != waveSaw {
		t.Fatalf("rejections should buzz")
	}
}

func TestToneLength(t *testing.T) {
	tn := newTone(note{freq: 440, duration: 10 * time.Millisecond, volume: 1}, sampleRate)
	buf := make([][2]float64, 256)
	total := 0
	for {
		n, ok := tn.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	if want := sampleRate.N(10 * time.Millisecond); total != want {
		t.Fatalf("streamed %d samples, want %d", total, want)
	}
	if buf[0][0] != buf[0][1] {
		t.Fatalf("tone should be mono on both channels")
	}
}

func TestNilSoundIsSilent(t *testing.T) {
	var s *Sound
	s.Cue(session.Result{Handled: true, Action: session.ActionSell})
	s.Close()
}
