package game

import (
	"math"
	"testing"

	"github.com/appengine-ltd/fungi/internal/settings"
)

func testTable() settings.Table {
	return settings.Table{
		Mushrooms: []settings.Species{
			{Name: "amanita", Value: 10, Frequency: 4},
			{Name: "cortinarius", Value: 5, Frequency: 6},
			{Name: "chanterelle", Value: 15, Frequency: 2},
			{Name: "indigo", Value: 25, Frequency: 0.5},
			{Name: "rock", Value: 0, Frequency: 3},
		},
		Obstacle:              "rock",
		EmptySlotFrequency:    8,
		RepopulationFactor:    0.3,
		AdvanceCost:           10,
		PickupCost:            5,
		PickupPenalty:         15,
		PickupPenaltyExponent: 2,
		StageBonusExponent:    2,
		SameTypeMultiplier:    3,
		SameStageMultiplier:   2,
		TricolorBonus:         20,
		StartingGold:          100,
		MaxGoldCap:            9999,
	}
}

func TestSlotGrowsThenVanishes(t *testing.T) {
	tbl := testTable()
	var s Slot
	s.Set("amanita", 1)

	s.Advance(&tbl, script())
	if got := s.Contents(); got.Stage != 2 {
		t.Fatalf("expected stage 2, got %v", got)
	}
	s.Advance(&tbl, script())
	if got := s.Contents(); got.Stage != 3 {
		t.Fatalf("expected stage 3, got %v", got)
	}
	s.Advance(&tbl, script())
	if !s.IsEmpty() {
		t.Fatalf("expected over-ripe mushroom to vanish, got %v", s.Contents())
	}
}

func TestObstacleErodes(t *testing.T) {
	tbl := testTable()
	var s Slot
	s.Set("rock", 3)

	for _, want := range []int{2, 1} {
		s.Advance(&tbl, script())
		if got := s.Contents(); got.Species != "rock" || got.Stage != want {
			t.Fatalf("expected rock/%d, got %v", want, got)
		}
	}
	s.Advance(&tbl, script())
	if !s.IsEmpty() {
		t.Fatalf("expected rock at stage 1 to be destroyed, got %v", s.Contents())
	}
}

func TestEmptySlotRepopulationRoll(t *testing.T) {
	tbl := testTable()

	var stays Slot
	stays.Advance(&tbl, script(0.3, 0.0))
	if !stays.IsEmpty() {
		t.Fatalf("draw equal to repopulation factor should not repopulate, got %v", stays.Contents())
	}

	var grows Slot
	grows.Advance(&tbl, script(0.29, 0.0))
	if got := grows.Contents(); got.Species != "amanita" || got.Stage != 1 {
		t.Fatalf("expected amanita/1 after repopulation, got %v", got)
	}
}

func TestPopulateRandomThresholds(t *testing.T) {
	tbl := testTable()
	// Cumulative thresholds: 4, 10, 12, 12.5, 15.5 out of 23.5.
	tests := []struct {
		name string
		draw float64
		want Contents
	}{
		{"first bucket", 0.0, Contents{Species: "amanita", Stage: 1}},
		{"second bucket", 5.0 / 23.5, Contents{Species: "cortinarius", Stage: 1}},
		{"third bucket", 11.75 / 23.5, Contents{Species: "chanterelle", Stage: 1}},
		{"rare bucket", 12.2 / 23.5, Contents{Species: "indigo", Stage: 1}},
		{"obstacle enters at stage 3", 14.1 / 23.5, Contents{Species: "rock", Stage: 3}},
		{"empty bucket", 21.0 / 23.5, Contents{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Slot
			s.Set("chanterelle", 2)
			s.PopulateRandom(&tbl, script(tt.draw))
			if got := s.Contents(); got != tt.want {
				t.Fatalf("draw %.4f: got %v, want %v", tt.draw, got, tt.want)
			}
		})
	}
}

func TestPopulateRandomProportions(t *testing.T) {
	tbl := testTable()
	rng := NewSource(7)
	const n = 200000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		var s Slot
		s.PopulateRandom(&tbl, rng)
		counts[s.Contents().Species]++
	}

	sum := tbl.FrequencySum()
	expect := map[string]float64{"": tbl.EmptySlotFrequency / sum}
	for _, sp := range tbl.Mushrooms {
		expect[sp.Name] = sp.Frequency / sum
	}
	for name, p := range expect {
		got := float64(counts[name]) / n
		if math.Abs(got-p) > 0.01 {
			t.Errorf("species %q: frequency %.4f, want %.4f", name, got, p)
		}
	}
}

func TestPickabilityAndCost(t *testing.T) {
	tbl := testTable()
	var s Slot
	if s.IsPickable(&tbl) {
		t.Fatalf("empty slot must not be pickable")
	}
	s.Set("rock", 3)
	if s.IsPickable(&tbl) {
		t.Fatalf("obstacle must not be pickable")
	}

	tests := []struct {
		stage int
		want  float64
	}{
		{1, 5},
		{2, 20},
		{3, 65},
	}
	for _, tt := range tests {
		s.Set("amanita", tt.stage)
		if !s.IsPickable(&tbl) {
			t.Fatalf("amanita should be pickable")
		}
		if got := s.PickupCost(tbl.PickupCost, tbl.PickupPenalty, tbl.PickupPenaltyExponent); got != tt.want {
			t.Fatalf("stage %d cost = %v, want %v", tt.stage, got, tt.want)
		}
	}
}

func TestPickUpEmptiesSlot(t *testing.T) {
	var s Slot
	s.Set("indigo", 2)
	got := s.PickUp()
	if got != (Contents{Species: "indigo", Stage: 2}) {
		t.Fatalf("unexpected picked contents %v", got)
	}
	if !s.IsEmpty() {
		t.Fatalf("slot should be empty after pickup")
	}
}

func TestSetRejectsOutOfRangeStage(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for stage 4")
		}
	}()
	var s Slot
	s.Set("amanita", 4)
}

func TestContentsJSON(t *testing.T) {
	b, err := Contents{}.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"species":null,"stage":null}` {
		t.Fatalf("empty slot encodes as %s", b)
	}

	var c Contents
	if err := c.UnmarshalJSON([]byte(`{"species":"amanita","stage":2}`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != (Contents{Species: "amanita", Stage: 2}) {
		t.Fatalf("decoded %v", c)
	}
}
