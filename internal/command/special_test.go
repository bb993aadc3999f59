package command

import (
	"testing"
	"time"

	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/state"
)

func TestHandleCopyAcceptsLibraryName(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	d.ctx.State.Channels[0].Preamp.Trim = 3.5

	m := osc.New("/copy", osc.Str(state.LibChan), osc.Int(0), osc.Int(1), osc.Int(int32(MaskPreamp)))
	replies := d.Dispatch("A", m, time.Now())

	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	args := replies[0].Message.Args
	if len(args) != 2 || args[0].Kind != osc.ArgString || args[0].S != state.LibChan {
		t.Fatalf("unexpected reply args: %+v", args)
	}
	if args[1].Kind != osc.ArgInt || args[1].I != 1 {
		t.Fatalf("reply result = %+v, want success", args[1])
	}
	if d.ctx.State.Channels[1].Preamp.Trim != 3.5 {
		t.Fatalf("Channels[1].Preamp.Trim = %v, want 3.5 copied from Channels[0]", d.ctx.State.Channels[1].Preamp.Trim)
	}
}

func TestHandleCopyRejectsUnknownLibrary(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	m := osc.New("/copy", osc.Str("bogus"), osc.Int(0), osc.Int(1), osc.Int(int32(MaskPreamp)))
	replies := d.Dispatch("A", m, time.Now())

	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	args := replies[0].Message.Args
	if len(args) != 2 || args[1].Kind != osc.ArgInt || args[1].I != 0 {
		t.Fatalf("reply args = %+v, want failure result", args)
	}
}
