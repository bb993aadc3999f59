package subscribe

import (
	"testing"
	"time"
)

func baseTime() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestRegisterRemoteAndLiveRemotes(t *testing.T) {
	r := NewRegistry()
	now := baseTime()

	r.RegisterRemote("10.0.0.1:10023", now)
	r.RegisterRemote("10.0.0.2:10023", now)

	live := r.LiveRemotes(now.Add(5 * time.Second))
	if len(live) != 2 {
		t.Fatalf("expected 2 live remotes, got %d", len(live))
	}
}

func TestRemoteExpiresAfterTTL(t *testing.T) {
	r := NewRegistry()
	now := baseTime()

	r.RegisterRemote("10.0.0.1:10023", now)

	live := r.LiveRemotes(now.Add(11 * time.Second))
	if len(live) != 0 {
		t.Fatalf("expected remote to have expired, got %d live", len(live))
	}

	r.mu.Lock()
	count := len(r.remotes)
	r.mu.Unlock()
	if count != 0 {
		t.Fatalf("expected expired remote to be reaped, found %d entries", count)
	}
}

func TestRegisterRemoteRefreshesTTL(t *testing.T) {
	r := NewRegistry()
	now := baseTime()

	r.RegisterRemote("10.0.0.1:10023", now)
	r.RegisterRemote("10.0.0.1:10023", now.Add(8*time.Second))

	live := r.LiveRemotes(now.Add(15 * time.Second))
	if len(live) != 1 {
		t.Fatalf("expected refreshed remote to still be live, got %d", len(live))
	}
}

func TestRegisterMeterAndDueMeters(t *testing.T) {
	r := NewRegistry()
	now := baseTime()

	r.RegisterMeter("10.0.0.1:10023", "/meters/1", 0, 0, 1, now)

	due := r.DueMeters(now)
	if len(due) != 1 {
		t.Fatalf("expected 1 due meter, got %d", len(due))
	}
	if due[0].StreamPath != "/meters/1" {
		t.Fatalf("unexpected stream path: %q", due[0].StreamPath)
	}

	// Immediately after firing, it should not be due again until the
	// next tick base elapses.
	due = r.DueMeters(now)
	if len(due) != 0 {
		t.Fatalf("expected meter not due immediately after firing, got %d", len(due))
	}

	due = r.DueMeters(now.Add(MeterTickBase))
	if len(due) != 1 {
		t.Fatalf("expected meter due after one tick base, got %d", len(due))
	}
}

func TestDueMetersRespectsRateDiv(t *testing.T) {
	r := NewRegistry()
	now := baseTime()
	tick := MeterTickBase

	r.RegisterMeter("10.0.0.1:10023", "/meters/1", 0, 0, 4, now)

	due := r.DueMeters(now)
	if len(due) != 1 {
		t.Fatalf("expected initial fire, got %d", len(due))
	}

	// Three ticks later it should not yet be due (rate div 4).
	due = r.DueMeters(now.Add(3 * tick))
	if len(due) != 0 {
		t.Fatalf("expected no fire before rate_div ticks elapsed, got %d", len(due))
	}

	due = r.DueMeters(now.Add(4 * tick))
	if len(due) != 1 {
		t.Fatalf("expected fire after rate_div ticks elapsed, got %d", len(due))
	}
}

func TestMeterExpiresAfterTTL(t *testing.T) {
	r := NewRegistry()
	now := baseTime()

	r.RegisterMeter("10.0.0.1:10023", "/meters/1", 0, 0, 1, now)

	due := r.DueMeters(now.Add(11 * time.Second))
	if len(due) != 0 {
		t.Fatalf("expected meter subscription to have expired, got %d", len(due))
	}

	r.mu.Lock()
	count := len(r.meters)
	r.mu.Unlock()
	if count != 0 {
		t.Fatalf("expected expired meter to be reaped, found %d entries", count)
	}
}
