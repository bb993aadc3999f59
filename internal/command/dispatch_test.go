package command

import (
	"testing"
	"time"

	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/state"
)

// fakeSubs is a minimal Subscribers double: origins registered via
// RegisterRemote are live forever, for deterministic propagation tests.
type fakeSubs struct {
	remotes map[string]bool
	meters  []meterCall
}

type meterCall struct {
	origin, streamPath       string
	channel, opts, rateDiv   int32
}

func newFakeSubs() *fakeSubs {
	return &fakeSubs{remotes: make(map[string]bool)}
}

func (f *fakeSubs) RegisterRemote(origin string, now time.Time) {
	f.remotes[origin] = true
}

func (f *fakeSubs) LiveRemotes(now time.Time) []string {
	out := make([]string, 0, len(f.remotes))
	for r := range f.remotes {
		out = append(out, r)
	}
	return out
}

func (f *fakeSubs) RegisterMeter(origin, streamPath string, channel, opts, rateDiv int32, now time.Time) {
	f.meters = append(f.meters, meterCall{origin, streamPath, channel, opts, rateDiv})
}

func newTestDispatcher(subs *fakeSubs) *Dispatcher {
	ctx := &Context{State: state.New(), Subs: subs}
	return NewDispatcher(ctx)
}

func TestDispatchGetRepliesOnlyToOrigin(t *testing.T) {
	subs := newFakeSubs()
	subs.remotes["B"] = true
	d := newTestDispatcher(subs)

	replies := d.Dispatch("A", osc.New("/ch/01/mix/fader"), time.Now())

	if len(replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(replies))
	}
	if replies[0].To != "A" {
		t.Fatalf("reply.To = %q, want A", replies[0].To)
	}
	if len(replies[0].Message.Args) != 1 || replies[0].Message.Args[0].Kind != osc.ArgFloat {
		t.Fatalf("unexpected GET reply args: %+v", replies[0].Message.Args)
	}
}

func TestDispatchSetFansOutToLiveSubscribers(t *testing.T) {
	subs := newFakeSubs()
	subs.remotes["A"] = true
	subs.remotes["B"] = true
	d := newTestDispatcher(subs)

	replies := d.Dispatch("A", osc.New("/ch/01/mix/fader", osc.Float(0.5)), time.Now())

	if len(replies) != 2 {
		t.Fatalf("got %d replies, want 2 (fan-out to A and B)", len(replies))
	}
	seen := map[string]bool{}
	for _, r := range replies {
		seen[r.To] = true
		if !r.Message.Args[0].Equal(osc.Float(0.5)) {
			t.Fatalf("propagated value = %+v, want 0.5", r.Message.Args[0])
		}
	}
	if !seen["A"] || !seen["B"] {
		t.Fatalf("expected fan-out to both A and B, got %+v", seen)
	}
}

func TestDispatchSetWithNoSubscribersProducesNoReplies(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	replies := d.Dispatch("A", osc.New("/ch/01/mix/fader", osc.Float(0.5)), time.Now())

	if len(replies) != 0 {
		t.Fatalf("got %d replies, want 0 (no live subscribers)", len(replies))
	}
}

func TestDispatchSetMutatesState(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	d.Dispatch("A", osc.New("/ch/01/mix/fader", osc.Float(0.75)), time.Now())

	got := d.ctx.State.Channels[0].Mix.Fader
	if got != 0.75 {
		t.Fatalf("Channels[0].Mix.Fader = %v, want 0.75", got)
	}
}

func TestDispatchUnknownAddressReturnsNil(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	replies := d.Dispatch("A", osc.New("/nonexistent/address"), time.Now())

	if replies != nil {
		t.Fatalf("got %+v, want nil", replies)
	}
}

func TestDispatchBatchRedispatchesEachLine(t *testing.T) {
	subs := newFakeSubs()
	subs.remotes["A"] = true
	d := newTestDispatcher(subs)

	batch := "/ch/01/mix/fader ,f 0.25\n/ch/02/mix/fader ,f 0.6"
	d.Dispatch("A", osc.New("/", osc.Str(batch)), time.Now())

	if got := d.ctx.State.Channels[0].Mix.Fader; got != 0.25 {
		t.Fatalf("Channels[0].Mix.Fader = %v, want 0.25", got)
	}
	if got := d.ctx.State.Channels[1].Mix.Fader; got != 0.6 {
		t.Fatalf("Channels[1].Mix.Fader = %v, want 0.6", got)
	}
}

func TestDispatchBatchStopsAtMaxDepth(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	// Rather than nesting "/" batch payloads maxBatchDepth levels deep,
	// verify the depth guard directly: dispatching at the max depth
	// produces no further recursion.
	m := osc.New("/", osc.Str("/ch/01/mix/fader ,f 0.9"))
	replies := d.dispatch("A", m, time.Now(), maxBatchDepth)

	if replies != nil {
		t.Fatalf("got %+v at max depth, want nil", replies)
	}
	if got := d.ctx.State.Channels[0].Mix.Fader; got == 0.9 {
		t.Fatalf("batch line executed despite max depth guard")
	}
}

func TestDispatchBatchSkipsBlankLines(t *testing.T) {
	subs := newFakeSubs()
	subs.remotes["A"] = true
	d := newTestDispatcher(subs)

	batch := "\n\n/ch/03/mix/fader ,f 0.1\n\n"
	d.Dispatch("A", osc.New("/", osc.Str(batch)), time.Now())

	if got := d.ctx.State.Channels[2].Mix.Fader; got != 0.1 {
		t.Fatalf("Channels[2].Mix.Fader = %v, want 0.1", got)
	}
}

func TestDispatchXRemoteRegistersSubscriber(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	d.Dispatch("A", osc.New("/xremote"), time.Now())

	if !subs.remotes["A"] {
		t.Fatal("expected /xremote to register origin as a live subscriber")
	}
}

func TestDispatchMetersRegistersSubscription(t *testing.T) {
	subs := newFakeSubs()
	d := newTestDispatcher(subs)

	d.Dispatch("A", osc.New("/meters", osc.Str("/meters/1"), osc.Int(1)), time.Now())

	if len(subs.meters) != 1 {
		t.Fatalf("got %d meter registrations, want 1", len(subs.meters))
	}
	if subs.meters[0].streamPath != "/meters/1" || subs.meters[0].origin != "A" {
		t.Fatalf("unexpected meter registration: %+v", subs.meters[0])
	}
}
