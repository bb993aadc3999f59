package command

import (
	"encoding/json"

	"github.com/x32emu/x32emu/internal/state"
)

// serializeSubtree encodes the state subtree a preset library slot holds
// for the given library name. The encoding is implementation-defined
// (spec.md §4.2) and only needs to round-trip through deserializeSubtree.
func serializeSubtree(lib string, s *state.State, idx int) ([]byte, bool) {
	switch lib {
	case state.LibChan:
		if idx < 0 || idx >= len(s.Channels) {
			return nil, false
		}
		b, err := json.Marshal(s.Channels[idx])
		return b, err == nil
	case state.LibFX:
		if idx < 0 || idx >= len(s.FX) {
			return nil, false
		}
		b, err := json.Marshal(s.FX[idx])
		return b, err == nil
	case state.LibRout:
		b, err := json.Marshal(s.Routing)
		return b, err == nil
	case state.LibScene, state.LibSnip:
		b, err := json.Marshal(s)
		return b, err == nil
	default:
		return nil, false
	}
}

// deserializeSubtree writes a previously serialized subtree back into
// state at idx, for the given library.
func deserializeSubtree(lib string, body []byte, s *state.State, idx int) bool {
	switch lib {
	case state.LibChan:
		if idx < 0 || idx >= len(s.Channels) {
			return false
		}
		var ch state.Channel
		if err := json.Unmarshal(body, &ch); err != nil {
			return false
		}
		s.Channels[idx] = ch
		return true
	case state.LibFX:
		if idx < 0 || idx >= len(s.FX) {
			return false
		}
		var fx state.FX
		if err := json.Unmarshal(body, &fx); err != nil {
			return false
		}
		s.FX[idx] = fx
		return true
	case state.LibRout:
		var r state.Routing
		if err := json.Unmarshal(body, &r); err != nil {
			return false
		}
		s.Routing = r
		return true
	case state.LibScene, state.LibSnip:
		var full state.State
		if err := json.Unmarshal(body, &full); err != nil {
			return false
		}
		*s = full
		return true
	default:
		return false
	}
}
