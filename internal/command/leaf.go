package command

import (
	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/state"
)

// intParam declares a raw-integer leaf (no boolean coercion).
func intParam(field func(s *state.State) *int32) ParamEntry {
	return ParamEntry{
		Tag: "i",
		Get: func(s *state.State) []osc.Arg { return []osc.Arg{osc.Int(*field(s))} },
		Set: func(s *state.State, args []osc.Arg) []osc.Message {
			*field(s) = args[0].I
			return nil
		},
	}
}

// boolParam declares an integer leaf whose wire values coerce via v != 0,
// per spec.md §3.3's documented boolean-coercion invariant.
func boolParam(field func(s *state.State) *int32) ParamEntry {
	return ParamEntry{
		Tag: "i",
		Get: func(s *state.State) []osc.Arg { return []osc.Arg{osc.Int(*field(s))} },
		Set: func(s *state.State, args []osc.Arg) []osc.Message {
			v := int32(0)
			if args[0].Bool() {
				v = 1
			}
			*field(s) = v
			return nil
		},
	}
}

// floatParam declares a float leaf clamped to [min, max] on SET.
func floatParam(field func(s *state.State) *float32, min, max float32) ParamEntry {
	return ParamEntry{
		Tag: "f",
		Get: func(s *state.State) []osc.Arg { return []osc.Arg{osc.Float(*field(s))} },
		Set: func(s *state.State, args []osc.Arg) []osc.Message {
			v := args[0].F
			if v < min {
				v = min
			} else if v > max {
				v = max
			}
			*field(s) = v
			return nil
		},
	}
}

// maxNameLen is the maximum length of a channel/strip/preset name per
// spec.md §3.2.
const maxNameLen = 13

// stringParam declares a string leaf truncated to maxLen on SET.
func stringParam(field func(s *state.State) *string, maxLen int) ParamEntry {
	return ParamEntry{
		Tag: "s",
		Get: func(s *state.State) []osc.Arg { return []osc.Arg{osc.Str(*field(s))} },
		Set: func(s *state.State, args []osc.Arg) []osc.Message {
			v := args[0].S
			if len(v) > maxLen {
				v = v[:maxLen]
			}
			*field(s) = v
			return nil
		},
	}
}
