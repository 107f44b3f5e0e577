// Package settings holds the immutable table that drives population, costs and
// scoring for a game.
package settings

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "settings.schema.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Species is one configured kind of board occupant.
type Species struct {
	Name      string  `yaml:"name" json:"name"`
	Value     float64 `yaml:"value" json:"value"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
}

// Table is the full game configuration. It is treated as read-only once a game
// has been built from it.
type Table struct {
	Mushrooms []Species `yaml:"mushrooms" json:"mushrooms"`
	// Obstacle names the species that decays instead of growing and can never
	// be picked up. Empty means the table has no obstacle.
	Obstacle string `yaml:"obstacle" json:"obstacle"`

	EmptySlotFrequency float64 `yaml:"empty_slot_frequency" json:"empty_slot_frequency"`
	RepopulationFactor float64 `yaml:"repopulation_factor" json:"repopulation_factor"`

	AdvanceCost           float64 `yaml:"advance_cost" json:"advance_cost"`
	PickupCost            float64 `yaml:"pickup_cost" json:"pickup_cost"`
	PickupPenalty         float64 `yaml:"pickup_penalty" json:"pickup_penalty"`
	PickupPenaltyExponent float64 `yaml:"pickup_penalty_exponent" json:"pickup_penalty_exponent"`

	StageBonusExponent  float64 `yaml:"stage_bonus_exponent" json:"stage_bonus_exponent"`
	SameTypeMultiplier  float64 `yaml:"same_type_multiplier" json:"same_type_multiplier"`
	SameStageMultiplier float64 `yaml:"same_stage_multiplier" json:"same_stage_multiplier"`
	TricolorBonus       float64 `yaml:"tricolor_bonus" json:"tricolor_bonus"`

	StartingGold float64 `yaml:"starting_gold" json:"starting_gold"`
	MaxGoldCap   float64 `yaml:"max_gold_cap" json:"max_gold_cap"`
}

// Default returns the built-in table.
func Default() Table {
	var t Table
	if err := yaml.Unmarshal(defaultsYAML, &t); err != nil {
		panic(fmt.Sprintf("settings: embedded defaults: %v", err))
	}
	return t
}

// Load reads a YAML table from path on top of the embedded defaults. Fields
// missing from the file keep their default value; a mushrooms list in the file
// replaces the default list entirely. An empty path yields the defaults.
func Load(path string) (Table, error) {
	t := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Table{}, fmt.Errorf("reading settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &t); err != nil {
			return Table{}, fmt.Errorf("parsing settings file: %w", err)
		}
	}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// WriteYAML writes the table to path.
func (t Table) WriteYAML(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Validate checks the table shape against the embedded schema and then the
// cross-field rules the schema cannot express.
func (t Table) Validate() error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling settings schema: %w", err)
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	seen := make(map[string]bool, len(t.Mushrooms))
	for _, s := range t.Mushrooms {
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate species %q", ErrInvalid, s.Name)
		}
		seen[s.Name] = true
	}
	if t.Obstacle != "" && !seen[t.Obstacle] {
		return fmt.Errorf("%w: obstacle %q is not a configured species", ErrInvalid, t.Obstacle)
	}
	if t.FrequencySum() <= 0 {
		return fmt.Errorf("%w: frequencies and empty_slot_frequency sum to zero", ErrInvalid)
	}
	return nil
}

// FrequencySum is the total weight of every species plus the empty bucket.
func (t Table) FrequencySum() float64 {
	sum := t.EmptySlotFrequency
	for _, s := range t.Mushrooms {
		sum += s.Frequency
	}
	return sum
}

// Lookup finds a species by name.
func (t Table) Lookup(name string) (Species, bool) {
	for _, s := range t.Mushrooms {
		if s.Name == name {
			return s, true
		}
	}
	return Species{}, false
}

func (t Table) IsObstacle(name string) bool {
	return t.Obstacle != "" && name == t.Obstacle
}

// Names lists species names in table order.
func (t Table) Names() []string {
	out := make([]string, 0, len(t.Mushrooms))
	for _, s := range t.Mushrooms {
		out = append(out, s.Name)
	}
	return out
}
