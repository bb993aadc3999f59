package command

import (
	"strings"
	"time"

	"github.com/x32emu/x32emu/internal/osc"
)

// maxBatchDepth bounds "/" batch recursion: a batch line may itself be
// "/" again, but only finitely so (spec.md §4.3).
const maxBatchDepth = 8

// Dispatcher resolves inbound OSC messages against a command table and
// the mixer state tree, producing the reply/propagation set the
// transport loop sends out (spec.md §4.3, §4.4).
type Dispatcher struct {
	table Table
	ctx   *Context
}

// NewDispatcher builds a dispatcher over a freshly-built command table,
// wiring the table back into ctx for /node enumeration.
func NewDispatcher(ctx *Context) *Dispatcher {
	table := BuildTable()
	ctx.BindTable(table)
	return &Dispatcher{table: table, ctx: ctx}
}

// Dispatch resolves a single inbound message from origin and returns the
// replies to send. GET messages (no args) reply only to origin. SET
// messages (args present) mutate state and fan out to every live
// /xremote subscriber, including origin if and only if origin is itself
// subscribed.
func (d *Dispatcher) Dispatch(origin string, m osc.Message, now time.Time) []Reply {
	return d.dispatch(origin, m, now, 0)
}

func (d *Dispatcher) dispatch(origin string, m osc.Message, now time.Time, depth int) []Reply {
	if m.Address == "/" {
		return d.dispatchBatch(origin, m, now, depth)
	}

	entry, ok := d.table[m.Address]
	if !ok {
		return nil
	}

	if entry.Special != nil {
		return entry.Special.Handle(d.ctx, m, origin, now)
	}

	p := entry.Param
	if len(m.Args) == 0 {
		return []Reply{{To: origin, Message: osc.New(m.Address, p.Get(d.ctx.State)...)}}
	}

	out := p.Set(d.ctx.State, m.Args)
	if out == nil {
		out = []osc.Message{m}
	}
	return d.propagate(origin, out, now)
}

// propagate fans messages out to every live /xremote subscriber, and to
// origin iff origin itself holds a live subscription.
func (d *Dispatcher) propagate(origin string, msgs []osc.Message, now time.Time) []Reply {
	if d.ctx.Subs == nil {
		return nil
	}
	remotes := d.ctx.Subs.LiveRemotes(now)
	if len(remotes) == 0 {
		return nil
	}
	replies := make([]Reply, 0, len(remotes)*len(msgs))
	for _, r := range remotes {
		for _, msg := range msgs {
			replies = append(replies, Reply{To: r, Message: msg})
		}
	}
	return replies
}

// dispatchBatch re-dispatches each newline-separated line of a "/"
// command's single string argument, in order, concatenating replies.
func (d *Dispatcher) dispatchBatch(origin string, m osc.Message, now time.Time, depth int) []Reply {
	if depth >= maxBatchDepth {
		return nil
	}
	if len(m.Args) != 1 || m.Args[0].Kind != osc.ArgString {
		return nil
	}

	var replies []Reply
	for _, line := range strings.Split(m.Args[0].S, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sub, err := osc.FromText(line)
		if err != nil {
			continue
		}
		replies = append(replies, d.dispatch(origin, sub, now, depth+1)...)
	}
	return replies
}
