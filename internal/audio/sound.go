package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/appengine-ltd/fungi/internal/game"
	"github.com/appengine-ltd/fungi/internal/session"
)

const sampleRate = beep.SampleRate(44100)

type wave int

const (
	waveSine wave = iota
	waveSaw
)

type note struct {
	freq     float64
	duration time.Duration
	wave     wave
	volume   float64
}

// cueFor picks the notes played after a result. Nil means silence.
func cueFor(res session.Result) []note {
	switch {
	case !res.Handled:
		return nil
	case res.Response == game.NoLegalMoves:
		return []note{
			{freq: 392, duration: 160 * time.Millisecond, volume: 0.4},
			{freq: 330, duration: 160 * time.Millisecond, volume: 0.4},
			{freq: 262, duration: 320 * time.Millisecond, volume: 0.4},
		}
	case res.Response.Rejected():
		return []note{{freq: 110, duration: 150 * time.Millisecond, wave: waveSaw, volume: 0.25}}
	case res.Action == session.ActionSell:
		return []note{
			{freq: 988, duration: 90 * time.Millisecond, volume: 0.35},
			{freq: 1319, duration: 220 * time.Millisecond, volume: 0.35},
		}
	case res.Action == session.ActionPickup:
		return []note{{freq: 660, duration: 80 * time.Millisecond, volume: 0.3}}
	case res.Action == session.ActionAdvance:
		return []note{{freq: 220, duration: 60 * time.Millisecond, volume: 0.15}}
	default:
		return nil
	}
}

// tone is a fixed-length oscillator with a short linear release so notes
// don't click.
type tone struct {
	note
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
	release  int
}

func newTone(n note, rate beep.SampleRate) *tone {
	total := rate.N(n.duration)
	return &tone{note: n, rate: rate, total: total, release: min(total, rate.N(20*time.Millisecond))}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		var val float64
		switch t.wave {
		case waveSaw:
			val = 2 * (t.phase - 0.5)
		default:
			val = math.Sin(2 * math.Pi * t.phase)
		}
		if remaining := t.total - t.position; remaining < t.release {
			val *= float64(remaining) / float64(t.release)
		}
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

func streamFor(notes []note, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, &effects.Volume{
			Streamer: newTone(n, rate),
			Base:     2,
			Volume:   math.Log2(n.volume),
		})
	}
	return beep.Seq(parts...)
}

// Sound plays short cues through the default audio device.
type Sound struct {
	mu    sync.Mutex
	mixer *beep.Mixer
	ready bool
}

func NewSound() (*Sound, error) {
	s := &Sound{mixer: &beep.Mixer{}}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	speaker.Play(s.mixer)
	s.ready = true
	return s, nil
}

// Cue plays the sound for res. A nil Sound is silent.
func (s *Sound) Cue(res session.Result) {
	if s == nil {
		return
	}
	notes := cueFor(res)
	if len(notes) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return
	}
	speaker.Lock()
	s.mixer.Add(streamFor(notes, sampleRate))
	speaker.Unlock()
}

func (s *Sound) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.ready = false
}
