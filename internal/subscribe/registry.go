// Package subscribe implements the /xremote and /meters subscription
// registries: TTL-tracked remote client lists and periodic meter-stream
// fan-out, per spec.md §4.4.
package subscribe

import (
	"sync"
	"time"
)

// MeterSub is one registered /meters stream: a remote identity polling a
// named meter block at a fixed tick cadence.
type MeterSub struct {
	StreamPath string
	Remote     string
	Channel    int32
	Opts       int32
	RateDiv    int32
	NextDue    time.Time
	Expiry     time.Time
}

// Registry tracks the live /xremote subscriber set and the live /meters
// subscription set. It owns no state tree; the transport loop calls it
// with each message's observed wall-clock time.
//
// Registry is safe for concurrent use: the transport loop's receive path
// and its periodic tick pump both touch it.
type Registry struct {
	ttl time.Duration

	mu      sync.Mutex
	remotes map[string]time.Time // origin -> expiry
	meters  map[string]*MeterSub // origin+streamPath -> sub
}

// MeterTickBase is the fixed base period a /meters subscription's
// rate_div multiplies to get its emission interval (spec.md §4.3/§4.4):
// a subscription with rate_div r fires once every MeterTickBase*r,
// independent of the transport loop's scan cadence.
const MeterTickBase = 50 * time.Millisecond

// NewRegistry builds a registry using the documented 10-second TTL.
func NewRegistry() *Registry {
	return &Registry{
		ttl:     10 * time.Second,
		remotes: make(map[string]time.Time),
		meters:  make(map[string]*MeterSub),
	}
}

// RegisterRemote (re)subscribes origin to /xremote propagation, resetting
// its TTL to now+10s.
func (r *Registry) RegisterRemote(origin string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remotes[origin] = now.Add(r.ttl)
}

// LiveRemotes returns every /xremote subscriber whose TTL has not
// expired as of now, lazily reaping expired entries.
func (r *Registry) LiveRemotes(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make([]string, 0, len(r.remotes))
	for origin, expiry := range r.remotes {
		if now.After(expiry) {
			delete(r.remotes, origin)
			continue
		}
		live = append(live, origin)
	}
	return live
}

// SubscriberCount reports the raw size of the /xremote subscriber map,
// without reaping expired entries, so it may include expired entries not
// yet reaped.
func (r *Registry) SubscriberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.remotes)
}

// MeterSubscriptionCount reports the raw size of the /meters subscription
// map, without reaping expired entries.
func (r *Registry) MeterSubscriptionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.meters)
}

// RegisterMeter (re)subscribes origin to a /meters stream, resetting its
// TTL and computing the next tick due time from rateDiv.
func (r *Registry) RegisterMeter(origin, streamPath string, channel, opts, rateDiv int32, now time.Time) {
	if rateDiv <= 0 {
		rateDiv = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := meterKey(origin, streamPath)
	r.meters[key] = &MeterSub{
		StreamPath: streamPath,
		Remote:     origin,
		Channel:    channel,
		Opts:       opts,
		RateDiv:    rateDiv,
		NextDue:    now,
		Expiry:     now.Add(r.ttl),
	}
}

// ListMeters returns a snapshot of every live meter subscription without
// mutating NextDue, for operator introspection (adminapi's
// /debug/subscribers).
func (r *Registry) ListMeters(now time.Time) []MeterSub {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]MeterSub, 0, len(r.meters))
	for _, sub := range r.meters {
		if now.After(sub.Expiry) {
			continue
		}
		list = append(list, *sub)
	}
	return list
}

// DueMeters returns every live meter subscription whose NextDue has
// arrived as of now, advances each one's NextDue by MeterTickBase*RateDiv,
// and reaps expired subscriptions. now is sampled at the transport loop's
// scan cadence (independently configurable, typically <=10ms so a 50ms
// due time is never missed by more than one scan), but the emission
// interval itself is always a multiple of the fixed MeterTickBase.
func (r *Registry) DueMeters(now time.Time) []MeterSub {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []MeterSub
	for key, sub := range r.meters {
		if now.After(sub.Expiry) {
			delete(r.meters, key)
			continue
		}
		if now.Before(sub.NextDue) {
			continue
		}
		due = append(due, *sub)
		sub.NextDue = now.Add(MeterTickBase * time.Duration(sub.RateDiv))
	}
	return due
}

func meterKey(origin, streamPath string) string {
	return origin + "\x00" + streamPath
}
