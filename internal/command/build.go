package command

import (
	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/state"
)

// BuildTable constructs the full address-to-command table by looping over
// every strip family in the mixer state tree (spec.md §4.3: "built
// programmatically at startup using integer loops"). Order of insertion
// does not matter; every address is unique.
func BuildTable() Table {
	t := make(Table, 8192)

	for k := 0; k < state.NumChannels; k++ {
		addChannelCommands(t, k)
	}
	for k := 0; k < state.NumAuxIn; k++ {
		addAuxCommands(t, k)
	}
	for k := 0; k < state.NumBus; k++ {
		addBusCommands(t, k)
	}
	for k := 0; k < state.NumMtx; k++ {
		addMtxCommands(t, k)
	}
	addMainCommands(t, "/main/st", func(s *state.State) *state.Main { return &s.MainST })
	addMainCommands(t, "/main/m", func(s *state.State) *state.Main { return &s.MainM })
	for k := 0; k < state.NumDCA; k++ {
		addDCACommands(t, k)
	}
	for k := 0; k < state.NumFX; k++ {
		addFXCommands(t, k)
	}

	addGlobalCommands(t)
	addSpecialCommands(t)

	return t
}

func addChannelCommands(t Table, k int) {
	prefix := "/ch/" + wire2(k)
	ch := func(s *state.State) *state.Channel { return &s.Channels[k] }

	addConfigCommands(t, prefix+"/config", func(s *state.State) *state.Config { return &ch(s).Config })
	addPreampCommands(t, prefix+"/preamp", func(s *state.State) *state.Preamp { return &ch(s).Preamp })
	addDelayCommands(t, prefix+"/delay", func(s *state.State) *state.Delay { return &ch(s).Delay })
	addInsertCommands(t, prefix+"/insert", func(s *state.State) *state.Insert { return &ch(s).Insert })
	addGateCommands(t, prefix+"/gate", func(s *state.State) *state.Gate { return &ch(s).Gate })
	addDynCommands(t, prefix+"/dyn", func(s *state.State) *state.Dyn { return &ch(s).Dyn })
	addEQCommands(t, prefix+"/eq", state.NumEQBandsChannel, func(s *state.State) *state.EQ { return &ch(s).EQ })
	addMixCommands(t, prefix+"/mix", state.NumSends, func(s *state.State) *state.Mix { return &ch(s).Mix })
	addAutomixCommands(t, prefix+"/automix", func(s *state.State) *state.Automix { return &ch(s).Automix })
	addGroupCommands(t, prefix+"/grp", func(s *state.State) *state.Group { return &ch(s).Grp })
}

func addAuxCommands(t Table, k int) {
	prefix := "/auxin/" + wire2(k)
	aux := func(s *state.State) *state.AuxIn { return &s.AuxIn[k] }

	addConfigCommands(t, prefix+"/config", func(s *state.State) *state.Config { return &aux(s).Config })
	addInsertCommands(t, prefix+"/insert", func(s *state.State) *state.Insert { return &aux(s).Insert })
	addEQCommands(t, prefix+"/eq", state.NumEQBandsChannel, func(s *state.State) *state.EQ { return &aux(s).EQ })
	addMixCommands(t, prefix+"/mix", state.NumSends, func(s *state.State) *state.Mix { return &aux(s).Mix })
	addGroupCommands(t, prefix+"/grp", func(s *state.State) *state.Group { return &aux(s).Grp })
}

func addBusCommands(t Table, k int) {
	prefix := "/bus/" + wire2(k)
	bus := func(s *state.State) *state.Bus { return &s.Bus[k] }

	addConfigCommands(t, prefix+"/config", func(s *state.State) *state.Config { return &bus(s).Config })
	addDynCommands(t, prefix+"/dyn", func(s *state.State) *state.Dyn { return &bus(s).Dyn })
	addInsertCommands(t, prefix+"/insert", func(s *state.State) *state.Insert { return &bus(s).Insert })
	addEQCommands(t, prefix+"/eq", state.NumEQBandsBus, func(s *state.State) *state.EQ { return &bus(s).EQ })
	addMixCommands(t, prefix+"/mix", state.NumMtx, func(s *state.State) *state.Mix { return &bus(s).Mix })
	addGroupCommands(t, prefix+"/grp", func(s *state.State) *state.Group { return &bus(s).Grp })
}

func addMtxCommands(t Table, k int) {
	prefix := "/mtx/" + wire2(k)
	mtx := func(s *state.State) *state.Mtx { return &s.Mtx[k] }

	addConfigCommands(t, prefix+"/config", func(s *state.State) *state.Config { return &mtx(s).Config })
	addDynCommands(t, prefix+"/dyn", func(s *state.State) *state.Dyn { return &mtx(s).Dyn })
	addInsertCommands(t, prefix+"/insert", func(s *state.State) *state.Insert { return &mtx(s).Insert })
	addEQCommands(t, prefix+"/eq", state.NumEQBandsBus, func(s *state.State) *state.EQ { return &mtx(s).EQ })
	addMixCommands(t, prefix+"/mix", 0, func(s *state.State) *state.Mix { return &mtx(s).Mix })
	addGroupCommands(t, prefix+"/grp", func(s *state.State) *state.Group { return &mtx(s).Grp })
}

func addMainCommands(t Table, prefix string, get func(s *state.State) *state.Main) {
	addConfigCommands(t, prefix+"/config", func(s *state.State) *state.Config { return &get(s).Config })
	addDynCommands(t, prefix+"/dyn", func(s *state.State) *state.Dyn { return &get(s).Dyn })
	addInsertCommands(t, prefix+"/insert", func(s *state.State) *state.Insert { return &get(s).Insert })
	addEQCommands(t, prefix+"/eq", state.NumEQBandsBus, func(s *state.State) *state.EQ { return &get(s).EQ })
	addMixCommands(t, prefix+"/mix", 0, func(s *state.State) *state.Mix { return &get(s).Mix })
	addGroupCommands(t, prefix+"/grp", func(s *state.State) *state.Group { return &get(s).Grp })
}

func addDCACommands(t Table, k int) {
	prefix := "/dca/" + wire1(k)
	dca := func(s *state.State) *state.DCA { return &s.DCA[k] }

	addConfigCommands(t, prefix+"/config", func(s *state.State) *state.Config { return &dca(s).Config })
	t.addParam(prefix+"/fader", floatParam(func(s *state.State) *float32 { return &dca(s).Fader }, unitMin, unitMax))
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &dca(s).On }))
}

func addFXCommands(t Table, k int) {
	prefix := "/fx/" + wire1(k)
	fx := func(s *state.State) *state.FX { return &s.FX[k] }

	t.addParam(prefix+"/type", intParam(func(s *state.State) *int32 { return &fx(s).Type }))
	t.addParam(prefix+"/source", intParam(func(s *state.State) *int32 { return &fx(s).Source }))

	for p := 0; p < state.NumFXParams; p++ {
		pp := prefix + "/par/" + wire2(p)
		param := func(s *state.State) *state.FXParam { return &fx(s).Par[p] }
		t.addParam(pp, fxParam(param))
	}
}

// fxParam declares an FX parameter word whose wire type (int or float)
// follows the slot's IsFloat flag rather than a fixed declared tag, since
// topology determines interpretation per spec.md §3.3.
func fxParam(get func(s *state.State) *state.FXParam) ParamEntry {
	return ParamEntry{
		Tag: "f",
		Get: func(s *state.State) []osc.Arg {
			p := get(s)
			if p.IsFloat {
				return []osc.Arg{osc.Float(p.F)}
			}
			return []osc.Arg{osc.Int(p.I)}
		},
		Set: func(s *state.State, args []osc.Arg) []osc.Message {
			p := get(s)
			switch args[0].Kind {
			case osc.ArgFloat:
				p.F = args[0].F
				p.IsFloat = true
			case osc.ArgInt:
				p.I = args[0].I
				p.IsFloat = false
			}
			return nil
		},
	}
}
