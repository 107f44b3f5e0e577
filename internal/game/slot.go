package game

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/appengine-ltd/fungi/internal/settings"
)

const (
	MinStage = 1
	MaxStage = 3
)

// Contents is what a slot holds. The zero value is an empty slot.
type Contents struct {
	Species string
	Stage   int
}

func (c Contents) IsEmpty() bool {
	return c.Species == ""
}

type contentsJSON struct {
	Species *string `json:"species"`
	Stage   *int    `json:"stage"`
}

// MarshalJSON encodes an empty slot as {"species":null,"stage":null}.
func (c Contents) MarshalJSON() ([]byte, error) {
	if c.IsEmpty() {
		return json.Marshal(contentsJSON{})
	}
	species, stage := c.Species, c.Stage
	return json.Marshal(contentsJSON{Species: &species, Stage: &stage})
}

func (c *Contents) UnmarshalJSON(b []byte) error {
	var raw contentsJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = Contents{}
	if raw.Species != nil && *raw.Species != "" {
		c.Species = *raw.Species
		if raw.Stage != nil {
			c.Stage = *raw.Stage
		}
	}
	return nil
}

func (c Contents) String() string {
	if c.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%s/%d", c.Species, c.Stage)
}

// Slot is a single cell of the board or the inventory.
type Slot struct {
	contents Contents
}

func (s *Slot) Contents() Contents {
	return s.contents
}

func (s *Slot) IsEmpty() bool {
	return s.contents.IsEmpty()
}

// Set places species at stage directly, bypassing population.
func (s *Slot) Set(species string, stage int) {
	if species == "" {
		s.contents = Contents{}
		return
	}
	if stage < MinStage || stage > MaxStage {
		panic(fmt.Sprintf("game: stage %d out of range for %q", stage, species))
	}
	s.contents = Contents{Species: species, Stage: stage}
}

func (s *Slot) Empty() {
	s.contents = Contents{}
}

// PickUp hands over the contents and leaves the slot empty.
func (s *Slot) PickUp() Contents {
	c := s.contents
	s.contents = Contents{}
	return c
}

func (s *Slot) IsPickable(t *settings.Table) bool {
	return !s.contents.IsEmpty() && !t.IsObstacle(s.contents.Species)
}

// PickupCost grows with the stage: base + penalty*(stage-1)^exponent.
func (s *Slot) PickupCost(base, penalty, exponent float64) float64 {
	return base + penalty*math.Pow(float64(s.contents.Stage-1), exponent)
}

// Advance moves the slot one time step forward. Mushrooms grow until they
// over-ripen and vanish, the obstacle erodes until it is gone, and an empty
// slot may be repopulated.
func (s *Slot) Advance(t *settings.Table, rng Source) {
	switch {
	case s.contents.IsEmpty():
		if rng.Float64() < t.RepopulationFactor {
			s.PopulateRandom(t, rng)
		}
	case t.IsObstacle(s.contents.Species):
		if s.contents.Stage > MinStage {
			s.contents.Stage--
		} else {
			s.Empty()
		}
	default:
		if s.contents.Stage < MaxStage {
			s.contents.Stage++
		} else {
			s.Empty()
		}
	}
}

// PopulateRandom draws one species with probability proportional to its
// frequency. The trailing empty bucket (empty_slot_frequency) leaves the slot
// empty.
func (s *Slot) PopulateRandom(t *settings.Table, rng Source) {
	s.contents = Contents{}
	seed := rng.Float64() * t.FrequencySum()
	threshold := 0.0
	for _, sp := range t.Mushrooms {
		threshold += sp.Frequency
		if threshold > seed {
			stage := MinStage
			if t.IsObstacle(sp.Name) {
				stage = MaxStage
			}
			s.contents = Contents{Species: sp.Name, Stage: stage}
			return
		}
	}
}
