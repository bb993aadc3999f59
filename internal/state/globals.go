package state

// NumMuteGroups is the number of global mute groups.
const NumMuteGroups = 6

// NumUserCtrl is the number of user-assignable control banks.
const NumUserCtrl = 3

// NumUserRoutingInputs/Outputs size the user routing tables.
const (
	NumUserRoutingInputs  = 32
	NumUserRoutingOutputs = 48
)

// LinkConfig holds stereo-link pairing bitmasks across the console's
// strip families.
type LinkConfig struct {
	ChannelPairs int32
	AuxPairs     int32
	BusPairs     int32
	MtxPairs     int32
	FXPairs      int32
}

// MuteGroup is a single global mute-group bitmask.
type MuteGroup struct {
	On int32
}

// SoloConfig holds the solo bus configuration.
type SoloConfig struct {
	Mode   int32
	Source int32
	Level  float32
}

// Talkback holds one talkback channel's configuration.
type Talkback struct {
	On     int32
	Source int32
	Level  float32
	Dim    float32
}

// TalkbackConfig holds both talkback channels (A and B).
type TalkbackConfig struct {
	A Talkback
	B Talkback
}

// OSCConfig holds the console's own OSC transport preferences.
type OSCConfig struct {
	RemoteEnabled int32
}

// UserRouting holds the input/output patch tables a user can remap.
type UserRouting struct {
	Input  []int32
	Output []int32
}

func newUserRouting() UserRouting {
	return UserRouting{
		Input:  make([]int32, NumUserRoutingInputs),
		Output: make([]int32, NumUserRoutingOutputs),
	}
}

// Routing holds the hardware input/output routing matrix.
type Routing struct {
	Input      []int32
	AES50A     []int32
	AES50B     []int32
	Card       []int32
	Output     []int32
	Play       []int32
	RoutSwitch int32
}

func newRouting() Routing {
	return Routing{
		Input:  make([]int32, 5),
		AES50A: make([]int32, 6),
		AES50B: make([]int32, 6),
		Card:   make([]int32, 4),
		Output: make([]int32, 4),
		Play:   make([]int32, 5),
	}
}

// UserCtrl holds one user-assignable control bank's page/encoder mapping.
type UserCtrl struct {
	Page int32
}

// TapeConfig holds the USB/SD tape-recorder transport state.
type TapeConfig struct {
	Source int32
	Gain   float32
}

// AutomixConfig holds global automixer configuration.
type AutomixConfig struct {
	Group int32
	Mode  int32
	Weight float32
}

// DP48Config holds the personal-monitor (DP48) bus send configuration.
type DP48Config struct {
	Source int32
	Level  float32
}

// Preferences holds console-wide naming/behavior preferences.
type Preferences struct {
	Name string
}

// DefaultDeviceName is the console identity reported by /info, /status,
// and a fresh Preferences.Name.
const DefaultDeviceName = "X32 Emulator"
