package state

import "testing"

func TestNewDefaults(t *testing.T) {
	s := New()

	if len(s.Channels) != NumChannels {
		t.Fatalf("len(Channels) = %d, want %d", len(s.Channels), NumChannels)
	}
	if len(s.Channels[0].EQ.Bands) != NumEQBandsChannel {
		t.Fatalf("len(Channels[0].EQ.Bands) = %d, want %d", len(s.Channels[0].EQ.Bands), NumEQBandsChannel)
	}
	if len(s.Channels[0].Mix.Sends) != NumSends {
		t.Fatalf("len(Channels[0].Mix.Sends) = %d, want %d", len(s.Channels[0].Mix.Sends), NumSends)
	}
	if s.Preferences.Name != DefaultDeviceName {
		t.Fatalf("Preferences.Name = %q, want %q", s.Preferences.Name, DefaultDeviceName)
	}
	if len(s.FX[0].Par) != NumFXParams {
		t.Fatalf("len(FX[0].Par) = %d, want %d", len(s.FX[0].Par), NumFXParams)
	}
	if len(s.Libraries.ChannelPresets.Slots) != NumPresetSlots {
		t.Fatalf("len(Libraries.ChannelPresets.Slots) = %d, want %d", len(s.Libraries.ChannelPresets.Slots), NumPresetSlots)
	}
	for _, lib := range []Library{
		s.Libraries.Scenes, s.Libraries.Snippets, s.Libraries.ChannelPresets,
		s.Libraries.FXPresets, s.Libraries.RoutingPresets,
	} {
		for _, slot := range lib.Slots {
			if slot.Name != "" {
				t.Fatalf("fresh preset slot has non-empty name %q", slot.Name)
			}
		}
	}
}

func TestLibrariesByName(t *testing.T) {
	s := New()
	for _, name := range []string{LibChan, LibFX, LibRout, LibScene, LibSnip} {
		if s.Libraries.ByName(name) == nil {
			t.Fatalf("ByName(%q) = nil", name)
		}
	}
	if s.Libraries.ByName("nope") != nil {
		t.Fatalf("ByName(\"nope\") = non-nil, want nil")
	}
}
