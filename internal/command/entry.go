// Package command builds the OSC address-to-behavior table and dispatches
// incoming messages against it and the mixer state tree.
package command

import (
	"time"

	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/state"
)

// ParamEntry is a literal-address parameter command: a declared type tag
// plus a getter/setter pair closing over the state tree leaf it addresses.
type ParamEntry struct {
	Tag string
	Get func(s *state.State) []osc.Arg
	// Set applies args[0..] to state and returns a propagation override.
	// A nil return means "propagate the inbound message unchanged"; a
	// non-nil return replaces it with the given messages (spec.md §4.3).
	Set func(s *state.State, args []osc.Arg) []osc.Message
}

// Reply is one outbound OSC message, addressed to a remote identity. An
// empty To means "the origin of the inbound message".
type Reply struct {
	To      string
	Message osc.Message
}

// SpecialEntry is a non-parameter command: diagnostics, subscriptions,
// and library operations that don't map onto a single state leaf.
type SpecialEntry struct {
	Handle func(ctx *Context, m osc.Message, origin string, now time.Time) []Reply
}

// Entry is a table slot: exactly one of Param or Special is set.
type Entry struct {
	Param   *ParamEntry
	Special *SpecialEntry
}

// Table maps a literal OSC address to its command entry.
type Table map[string]Entry

func (t Table) addParam(address string, p ParamEntry) {
	t[address] = Entry{Param: &p}
}

func (t Table) addSpecial(address string, handle func(ctx *Context, m osc.Message, origin string, now time.Time) []Reply) {
	t[address] = Entry{Special: &SpecialEntry{Handle: handle}}
}
