// Package state persists the host-owned settings that survive between runs:
// the global enable flag and review UI preferences. The detection core never
// touches this package; the CLI reads it and passes values along.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// State is the persisted host state.
type State struct {
	// Enabled is the global on/off gate. Defaults to true.
	Enabled bool `json:"enabled"`
	// UseByteMarker remembers the marker mode last chosen in the review UI.
	UseByteMarker bool `json:"use_byte_marker"`
}

// Default returns the state used when nothing has been saved yet.
func Default() State {
	return State{Enabled: true}
}

// path returns the location of the state file.
func path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ghostmark", "state.json"), nil
}

// Load reads the persisted state, returning defaults if it is missing or
// unreadable.
func Load() State {
	st := Default()

	p, err := path()
	if err != nil {
		return st
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return st
	}
	_ = json.Unmarshal(data, &st) //nolint:errcheck // fall back to defaults
	return st
}

// Save persists st, creating the state directory if needed.
func Save(st State) error {
	p, err := path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

// SetEnabled loads, flips the enable flag to v and saves.
func SetEnabled(v bool) (State, error) {
	st := Load()
	st.Enabled = v
	return st, Save(st)
}
