package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/appengine-ltd/fungi/internal/session"
	"github.com/appengine-ltd/fungi/internal/settings"
)

// OutputManager writes run output as CSV files in one directory. A nil
// manager discards everything.
type OutputManager struct {
	dir         string
	actionsFile *os.File
	gamesFile   *os.File

	actionsHeaderWritten bool
	gamesHeaderWritten   bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "actions.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating actions.csv: %w", err)
	}
	om.actionsFile = f

	f, err = os.Create(filepath.Join(dir, "games.csv"))
	if err != nil {
		om.actionsFile.Close()
		return nil, fmt.Errorf("creating games.csv: %w", err)
	}
	om.gamesFile = f

	return om, nil
}

// WriteSettings saves the table the run used as YAML.
func (om *OutputManager) WriteSettings(t settings.Table) error {
	if om == nil {
		return nil
	}
	return t.WriteYAML(filepath.Join(om.dir, "settings.yaml"))
}

func (om *OutputManager) WriteAction(rec ActionRecord) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.actionsFile, []ActionRecord{rec}, &om.actionsHeaderWritten); err != nil {
		return fmt.Errorf("writing action: %w", err)
	}
	return nil
}

func (om *OutputManager) WriteGame(rec GameRecord) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.gamesFile, []GameRecord{rec}, &om.gamesHeaderWritten); err != nil {
		return fmt.Errorf("writing game: %w", err)
	}
	return nil
}

// OnEvent records every session event as an action row.
func (om *OutputManager) OnEvent(e session.Event) error {
	return om.WriteAction(NewActionRecord(e))
}

func writeCSV(f *os.File, records any, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.actionsFile, om.gamesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
