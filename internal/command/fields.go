package command

import "github.com/x32emu/x32emu/internal/state"

// Declared valid ranges for float parameters (spec.md §3.3: "Float
// parameters are clamped by the setter to their declared valid range").
// Most console knobs are transmitted as normalized floats in [0, 1]; a few
// domain-specific families use a wider range.
const (
	unitMin, unitMax   = 0.0, 1.0
	trimMin, trimMax   = -18.0, 18.0
	gainMin, gainMax   = -15.0, 15.0
	panMin, panMax     = 0.0, 1.0
)

// addConfigCommands registers the name/icon/color/source quartet shared by
// every strip family.
func addConfigCommands(t Table, prefix string, get func(s *state.State) *state.Config) {
	t.addParam(prefix+"/name", stringParam(func(s *state.State) *string { return &get(s).Name }, maxNameLen))
	t.addParam(prefix+"/icon", intParam(func(s *state.State) *int32 { return &get(s).Icon }))
	t.addParam(prefix+"/color", intParam(func(s *state.State) *int32 { return &get(s).Color }))
	t.addParam(prefix+"/source", intParam(func(s *state.State) *int32 { return &get(s).Source }))
}

// addGroupCommands registers a strip's DCA/mute-group assignment.
func addGroupCommands(t Table, prefix string, get func(s *state.State) *state.Group) {
	t.addParam(prefix+"/dca", intParam(func(s *state.State) *int32 { return &get(s).DCA }))
	t.addParam(prefix+"/mute", boolParam(func(s *state.State) *int32 { return &get(s).Mute }))
}

// addPreampCommands registers an input channel's analog front end.
func addPreampCommands(t Table, prefix string, get func(s *state.State) *state.Preamp) {
	t.addParam(prefix+"/trim", floatParam(func(s *state.State) *float32 { return &get(s).Trim }, trimMin, trimMax))
	t.addParam(prefix+"/invert", boolParam(func(s *state.State) *int32 { return &get(s).Invert }))
	t.addParam(prefix+"/hpon", boolParam(func(s *state.State) *int32 { return &get(s).HPOn }))
	t.addParam(prefix+"/hpslope", intParam(func(s *state.State) *int32 { return &get(s).HPSlope }))
	t.addParam(prefix+"/hpf", floatParam(func(s *state.State) *float32 { return &get(s).HPF }, unitMin, unitMax))
}

// addDelayCommands registers a channel's input delay line.
func addDelayCommands(t Table, prefix string, get func(s *state.State) *state.Delay) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	t.addParam(prefix+"/time", floatParam(func(s *state.State) *float32 { return &get(s).Time }, unitMin, unitMax))
}

// addInsertCommands registers an effects-insert patch point.
func addInsertCommands(t Table, prefix string, get func(s *state.State) *state.Insert) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	t.addParam(prefix+"/pos", intParam(func(s *state.State) *int32 { return &get(s).Pos }))
	t.addParam(prefix+"/sel", intParam(func(s *state.State) *int32 { return &get(s).Sel }))
}

// addFilterCommands registers a sidechain/key filter, nested under the
// gate or dynamics processor that owns it.
func addFilterCommands(t Table, prefix string, get func(s *state.State) *state.Filter) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	t.addParam(prefix+"/type", intParam(func(s *state.State) *int32 { return &get(s).Type }))
	t.addParam(prefix+"/f", floatParam(func(s *state.State) *float32 { return &get(s).F }, unitMin, unitMax))
}

// addGateCommands registers a channel's noise-gate processor.
func addGateCommands(t Table, prefix string, get func(s *state.State) *state.Gate) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	t.addParam(prefix+"/mode", intParam(func(s *state.State) *int32 { return &get(s).Mode }))
	t.addParam(prefix+"/thr", floatParam(func(s *state.State) *float32 { return &get(s).Thr }, unitMin, unitMax))
	t.addParam(prefix+"/range", floatParam(func(s *state.State) *float32 { return &get(s).Range }, unitMin, unitMax))
	t.addParam(prefix+"/attack", floatParam(func(s *state.State) *float32 { return &get(s).Attack }, unitMin, unitMax))
	t.addParam(prefix+"/hold", floatParam(func(s *state.State) *float32 { return &get(s).Hold }, unitMin, unitMax))
	t.addParam(prefix+"/release", floatParam(func(s *state.State) *float32 { return &get(s).Release }, unitMin, unitMax))
	t.addParam(prefix+"/keysrc", intParam(func(s *state.State) *int32 { return &get(s).KeySrc }))
	addFilterCommands(t, prefix+"/filter", func(s *state.State) *state.Filter { return &get(s).Filter })
}

// addDynCommands registers a channel's compressor/dynamics processor.
func addDynCommands(t Table, prefix string, get func(s *state.State) *state.Dyn) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	t.addParam(prefix+"/mode", intParam(func(s *state.State) *int32 { return &get(s).Mode }))
	t.addParam(prefix+"/det", intParam(func(s *state.State) *int32 { return &get(s).Det }))
	t.addParam(prefix+"/env", intParam(func(s *state.State) *int32 { return &get(s).Env }))
	t.addParam(prefix+"/thr", floatParam(func(s *state.State) *float32 { return &get(s).Thr }, unitMin, unitMax))
	t.addParam(prefix+"/ratio", intParam(func(s *state.State) *int32 { return &get(s).Ratio }))
	t.addParam(prefix+"/knee", floatParam(func(s *state.State) *float32 { return &get(s).Knee }, unitMin, unitMax))
	t.addParam(prefix+"/mgain", floatParam(func(s *state.State) *float32 { return &get(s).MGain }, unitMin, unitMax))
	t.addParam(prefix+"/attack", floatParam(func(s *state.State) *float32 { return &get(s).Attack }, unitMin, unitMax))
	t.addParam(prefix+"/hold", floatParam(func(s *state.State) *float32 { return &get(s).Hold }, unitMin, unitMax))
	t.addParam(prefix+"/release", floatParam(func(s *state.State) *float32 { return &get(s).Release }, unitMin, unitMax))
	t.addParam(prefix+"/pos", intParam(func(s *state.State) *int32 { return &get(s).Pos }))
	t.addParam(prefix+"/keysrc", intParam(func(s *state.State) *int32 { return &get(s).KeySrc }))
	t.addParam(prefix+"/mix", floatParam(func(s *state.State) *float32 { return &get(s).Mix }, unitMin, unitMax))
	t.addParam(prefix+"/auto", boolParam(func(s *state.State) *int32 { return &get(s).Auto }))
	addFilterCommands(t, prefix+"/filter", func(s *state.State) *state.Filter { return &get(s).Filter })
}

// addEQCommands registers a parametric EQ with the given band count.
func addEQCommands(t Table, prefix string, numBands int, get func(s *state.State) *state.EQ) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	for b := 0; b < numBands; b++ {
		bp := bandPrefix(prefix, b)
		band := func(s *state.State) *state.EQBand { return &get(s).Bands[b] }
		t.addParam(bp+"/type", intParam(func(s *state.State) *int32 { return &band(s).Type }))
		t.addParam(bp+"/f", floatParam(func(s *state.State) *float32 { return &band(s).F }, unitMin, unitMax))
		t.addParam(bp+"/g", floatParam(func(s *state.State) *float32 { return &band(s).G }, gainMin, gainMax))
		t.addParam(bp+"/q", floatParam(func(s *state.State) *float32 { return &band(s).Q }, unitMin, unitMax))
	}
}

// addMixCommands registers a strip's fader/pan stage plus its numSends
// bus sends (numSends may be 0 for strips with no further sends, e.g.
// matrices and masters).
func addMixCommands(t Table, prefix string, numSends int, get func(s *state.State) *state.Mix) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	t.addParam(prefix+"/fader", floatParam(func(s *state.State) *float32 { return &get(s).Fader }, unitMin, unitMax))
	t.addParam(prefix+"/st", boolParam(func(s *state.State) *int32 { return &get(s).ST }))
	t.addParam(prefix+"/pan", floatParam(func(s *state.State) *float32 { return &get(s).Pan }, panMin, panMax))
	t.addParam(prefix+"/mono", boolParam(func(s *state.State) *int32 { return &get(s).Mono }))
	t.addParam(prefix+"/mlevel", floatParam(func(s *state.State) *float32 { return &get(s).MLevel }, unitMin, unitMax))

	for b := 0; b < numSends; b++ {
		sp := sendPrefix(prefix, b)
		send := func(s *state.State) *state.Send { return &get(s).Sends[b] }
		t.addParam(sp+"/on", boolParam(func(s *state.State) *int32 { return &send(s).On }))
		t.addParam(sp+"/level", floatParam(func(s *state.State) *float32 { return &send(s).Level }, unitMin, unitMax))
		t.addParam(sp+"/pan", floatParam(func(s *state.State) *float32 { return &send(s).Pan }, panMin, panMax))
		t.addParam(sp+"/type", intParam(func(s *state.State) *int32 { return &send(s).Type }))
		t.addParam(sp+"/panfollow", boolParam(func(s *state.State) *int32 { return &send(s).PanFollow }))
	}
}

// addAutomixCommands registers a channel's automix group/weight.
func addAutomixCommands(t Table, prefix string, get func(s *state.State) *state.Automix) {
	t.addParam(prefix+"/group", intParam(func(s *state.State) *int32 { return &get(s).Group }))
	t.addParam(prefix+"/weight", floatParam(func(s *state.State) *float32 { return &get(s).Weight }, unitMin, unitMax))
}
