// Package store persists the factory aggregate as JSON in a state directory
// (default ~/.tokenforge), alongside the SQLite event log. The snapshot file
// is the factory's durable state: logic versions come and go, the file stays.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Mohsinsiddi/tokenforge/internal/factory"
)

const (
	stateFile  = "state.json"
	eventsFile = "events.db"
)

// Dir resolves the state directory, creating it if needed. An empty override
// falls back to ~/.tokenforge.
func Dir(override string) (string, error) {
	dir := override
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".tokenforge")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("could not create state dir: %w", err)
	}
	return dir, nil
}

// EventLogPath returns the SQLite event log location inside dir.
func EventLogPath(dir string) string {
	return filepath.Join(dir, eventsFile)
}

// LoadState reads the persisted aggregate. ok is false when no state has
// been initialized yet.
func LoadState(dir string) (state *factory.State, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading state: %w", err)
	}

	var snap factory.StateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("parsing state: %w", err)
	}
	state, err = factory.RestoreState(snap)
	if err != nil {
		return nil, false, fmt.Errorf("restoring state: %w", err)
	}
	return state, true, nil
}

// SaveState writes the aggregate back to disk.
func SaveState(dir string, state *factory.State) error {
	data, err := json.MarshalIndent(state.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, stateFile), data, 0o600)
}
