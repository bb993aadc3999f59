package persistence

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/x32emu/x32emu/internal/state"
)

// DefaultSnapshotPath is a conventional snapshot file name (modeled on
// the X32's own ".X32res.rc" resident state file). The server does not
// read it: its snapshot path comes from config, whose default is
// "./data/x32emu.snapshot.json".
const DefaultSnapshotPath = ".x32emu.rc"

// LoadSnapshot reads the state tree from path. A missing file is not an
// error: LoadSnapshot then returns state.New(), per spec.md §4.5's
// documented startup behavior.
func LoadSnapshot(path string) (*state.State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return state.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	s := state.New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	normalizeLibrarySlots(s)
	return s, nil
}

// SaveSnapshot writes the state tree to path, replacing any prior
// contents. Called at graceful shutdown only; /-snap/save stores the
// scene in the preset store and does not write this file.
func SaveSnapshot(path string, s *state.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// normalizeLibrarySlots enforces the fixed 100-slot invariant on every
// preset library after a snapshot load, resizing with empty entries if
// the persisted file held fewer (spec.md §4.5).
func normalizeLibrarySlots(s *state.State) {
	for _, lib := range []*state.Library{
		&s.Libraries.Scenes,
		&s.Libraries.Snippets,
		&s.Libraries.ChannelPresets,
		&s.Libraries.FXPresets,
		&s.Libraries.RoutingPresets,
	} {
		if len(lib.Slots) == state.NumPresetSlots {
			continue
		}
		resized := make([]state.Preset, state.NumPresetSlots)
		copy(resized, lib.Slots)
		lib.Slots = resized
	}
}
