package command

import "github.com/x32emu/x32emu/internal/state"

// addGlobalCommands registers the console-wide parameters that aren't
// part of any per-strip family: link pairing, mute groups, solo/talkback,
// routing tables, and preferences.
func addGlobalCommands(t Table) {
	t.addParam("/config/link/ch", intParam(func(s *state.State) *int32 { return &s.LinkConfig.ChannelPairs }))
	t.addParam("/config/link/aux", intParam(func(s *state.State) *int32 { return &s.LinkConfig.AuxPairs }))
	t.addParam("/config/link/bus", intParam(func(s *state.State) *int32 { return &s.LinkConfig.BusPairs }))
	t.addParam("/config/link/mtx", intParam(func(s *state.State) *int32 { return &s.LinkConfig.MtxPairs }))
	t.addParam("/config/link/fx", intParam(func(s *state.State) *int32 { return &s.LinkConfig.FXPairs }))

	for k := 0; k < state.NumMuteGroups; k++ {
		prefix := "/config/mute/" + wire1(k)
		mg := func(s *state.State) *state.MuteGroup { return &s.MuteGroup[k] }
		t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &mg(s).On }))
	}

	t.addParam("/config/solo/mode", intParam(func(s *state.State) *int32 { return &s.SoloConfig.Mode }))
	t.addParam("/config/solo/source", intParam(func(s *state.State) *int32 { return &s.SoloConfig.Source }))
	t.addParam("/config/solo/level", floatParam(func(s *state.State) *float32 { return &s.SoloConfig.Level }, unitMin, unitMax))

	addTalkbackCommands(t, "/config/talk/a", func(s *state.State) *state.Talkback { return &s.TalkbackConfig.A })
	addTalkbackCommands(t, "/config/talk/b", func(s *state.State) *state.Talkback { return &s.TalkbackConfig.B })

	t.addParam("/config/osc/remote", boolParam(func(s *state.State) *int32 { return &s.OSCConfig.RemoteEnabled }))

	for i := 0; i < state.NumUserRoutingInputs; i++ {
		i := i
		t.addParam("/config/userrout/in/"+wire2(i), intParam(func(s *state.State) *int32 { return &s.UserRouting.Input[i] }))
	}
	for i := 0; i < state.NumUserRoutingOutputs; i++ {
		i := i
		t.addParam("/config/userrout/out/"+wire2(i), intParam(func(s *state.State) *int32 { return &s.UserRouting.Output[i] }))
	}

	addRoutingSlice(t, "/config/routing/in", 5, func(s *state.State) []int32 { return s.Routing.Input })
	addRoutingSlice(t, "/config/routing/aes50a", 6, func(s *state.State) []int32 { return s.Routing.AES50A })
	addRoutingSlice(t, "/config/routing/aes50b", 6, func(s *state.State) []int32 { return s.Routing.AES50B })
	addRoutingSlice(t, "/config/routing/card", 4, func(s *state.State) []int32 { return s.Routing.Card })
	addRoutingSlice(t, "/config/routing/out", 4, func(s *state.State) []int32 { return s.Routing.Output })
	addRoutingSlice(t, "/config/routing/play", 5, func(s *state.State) []int32 { return s.Routing.Play })
	t.addParam("/config/routing/routswitch", intParam(func(s *state.State) *int32 { return &s.Routing.RoutSwitch }))

	for k := 0; k < state.NumUserCtrl; k++ {
		k := k
		t.addParam("/config/userctrl/"+wire1(k)+"/page", intParam(func(s *state.State) *int32 { return &s.UserCtrl[k].Page }))
	}

	t.addParam("/config/tape/source", intParam(func(s *state.State) *int32 { return &s.TapeConfig.Source }))
	t.addParam("/config/tape/gain", floatParam(func(s *state.State) *float32 { return &s.TapeConfig.Gain }, unitMin, unitMax))

	t.addParam("/config/automix/group", intParam(func(s *state.State) *int32 { return &s.AutomixConfig.Group }))
	t.addParam("/config/automix/mode", intParam(func(s *state.State) *int32 { return &s.AutomixConfig.Mode }))
	t.addParam("/config/automix/weight", floatParam(func(s *state.State) *float32 { return &s.AutomixConfig.Weight }, unitMin, unitMax))

	t.addParam("/config/dp48/source", intParam(func(s *state.State) *int32 { return &s.DP48Config.Source }))
	t.addParam("/config/dp48/level", floatParam(func(s *state.State) *float32 { return &s.DP48Config.Level }, unitMin, unitMax))

	t.addParam("/config/name", stringParam(func(s *state.State) *string { return &s.Preferences.Name }, maxNameLen))
}

func addTalkbackCommands(t Table, prefix string, get func(s *state.State) *state.Talkback) {
	t.addParam(prefix+"/on", boolParam(func(s *state.State) *int32 { return &get(s).On }))
	t.addParam(prefix+"/source", intParam(func(s *state.State) *int32 { return &get(s).Source }))
	t.addParam(prefix+"/level", floatParam(func(s *state.State) *float32 { return &get(s).Level }, unitMin, unitMax))
	t.addParam(prefix+"/dim", floatParam(func(s *state.State) *float32 { return &get(s).Dim }, unitMin, unitMax))
}

func addRoutingSlice(t Table, prefix string, n int, get func(s *state.State) []int32) {
	for i := 0; i < n; i++ {
		i := i
		t.addParam(prefix+"/"+wire2(i), intParam(func(s *state.State) *int32 { return &get(s)[i] }))
	}
}
