// Package state owns the mixer's parameter tree: a single in-memory
// aggregate of typed channel, bus, FX, and global settings, the library
// slots for presets and scenes, and the defaults used to construct a
// fresh console.
package state

// State is the complete mixer parameter tree. It is a plain value-typed
// aggregate; the transport loop (internal/transport) is its sole owner for
// the lifetime of the process, per spec.md §5.
type State struct {
	Channels []Channel
	AuxIn    []AuxIn
	Bus      []Bus
	Mtx      []Mtx
	MainST   Main
	MainM    Main
	DCA      []DCA
	FX       []FX

	LinkConfig     LinkConfig
	MuteGroup      []MuteGroup
	SoloConfig     SoloConfig
	TalkbackConfig TalkbackConfig
	OSCConfig      OSCConfig
	UserRouting    UserRouting
	Routing        Routing
	UserCtrl       []UserCtrl
	TapeConfig     TapeConfig
	AutomixConfig  AutomixConfig
	DP48Config     DP48Config
	Preferences    Preferences

	Libraries Libraries
}

// New builds a console state tree at its documented defaults: all numerics
// zero, all strings empty, preset arrays sized exactly 100 with empty
// entries, and Preferences.Name set to the default device name
// (spec.md §3.4).
func New() *State {
	s := &State{
		Channels: make([]Channel, NumChannels),
		AuxIn:    make([]AuxIn, NumAuxIn),
		Bus:      make([]Bus, NumBus),
		Mtx:      make([]Mtx, NumMtx),
		MainST:   newMain(),
		MainM:    newMain(),
		DCA:      make([]DCA, NumDCA),
		FX:       make([]FX, NumFX),

		MuteGroup: make([]MuteGroup, NumMuteGroups),
		UserCtrl:  make([]UserCtrl, NumUserCtrl),

		UserRouting: newUserRouting(),
		Routing:     newRouting(),

		Libraries: newLibraries(),
	}

	for i := range s.Channels {
		s.Channels[i] = newChannel()
	}
	for i := range s.AuxIn {
		s.AuxIn[i] = newAuxIn()
	}
	for i := range s.Bus {
		s.Bus[i] = newBus()
	}
	for i := range s.Mtx {
		s.Mtx[i] = newMtx()
	}
	for i := range s.FX {
		s.FX[i] = newFX()
	}

	s.Preferences.Name = DefaultDeviceName

	return s
}
