package command

import (
	"time"

	"github.com/x32emu/x32emu/internal/state"
)

// DeviceInfo carries the static identity fields /info, /status, and
// /xinfo report.
type DeviceInfo struct {
	FirmwareVersion string
	DeviceIP        string
	ProtocolVersion string
}

// Subscribers is the subscription/propagation engine's view as needed by
// special command handlers (spec.md §4.4). Implemented by
// internal/subscribe.Registry.
type Subscribers interface {
	RegisterRemote(origin string, now time.Time)
	LiveRemotes(now time.Time) []string
	RegisterMeter(origin, streamPath string, channel, opts, rateDiv int32, now time.Time)
}

// PresetStore is the durability layer special library handlers write
// through to (spec.md §4.5). Implemented by internal/persistence.
// A nil Store is valid: library operations then mutate only the in-memory
// state tree, matching the "degrade gracefully" error policy of
// SPEC_FULL.md §7.
type PresetStore interface {
	PersistPreset(lib string, idx int, name string, body []byte) error
	DeletePreset(lib string, idx int) error
	PersistSnapshot(s *state.State) error
}

// Context bundles everything a special command handler needs: the live
// state tree, the subscription engine, the durable preset store, and the
// console's static identity.
type Context struct {
	State *state.State
	Subs  Subscribers
	Store PresetStore
	Info  DeviceInfo

	// tableHook lets /node enumerate parameter addresses without importing
	// the dispatcher. Set once by NewDispatcher.
	tableHook Table
}

// BindTable attaches the command table this context's /node handler
// enumerates over. Called once by NewDispatcher.
func (ctx *Context) BindTable(t Table) {
	ctx.tableHook = t
}
