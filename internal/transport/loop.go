// Package transport runs the UDP server loop: it owns the socket and
// the mixer state tree for the lifetime of the process, receiving OSC
// datagrams, dispatching them, sending replies, and driving the meter
// tick pump. Grounded on the teacher's media relay/proxy read loop and
// its SIP server Start/Stop lifecycle.
package transport

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/x32emu/x32emu/internal/command"
	"github.com/x32emu/x32emu/internal/metrics"
	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/status"
	"github.com/x32emu/x32emu/internal/subscribe"
)

// readTimeout bounds each ReadFromUDP call so the loop can periodically
// check for shutdown and service the meter tick pump without a second
// goroutine touching the socket or the state tree.
const readTimeout = 20 * time.Millisecond

// maxDatagramSize is larger than any OSC message this server round-trips;
// oversized reads are simply truncated by the kernel, which decode then
// rejects as malformed.
const maxDatagramSize = 65507

// MeterPump is implemented by the subscription registry: it reports which
// meter subscriptions are due to fire on this tick, and the live
// subscriber/subscription sets the loop publishes as a status snapshot
// after each dispatch batch and tick (SPEC_FULL.md §5).
type MeterPump interface {
	DueMeters(now time.Time) []subscribe.MeterSub
	LiveRemotes(now time.Time) []string
	ListMeters(now time.Time) []subscribe.MeterSub
}

// MeterRenderer builds the wire payload for a due meter subscription. Kept
// separate from MeterPump so the transport loop never needs to know how a
// meter block's bytes are laid out.
type MeterRenderer func(sub subscribe.MeterSub) osc.Message

// Loop owns the UDP socket, the dispatcher, and the meter tick cadence.
type Loop struct {
	conn       *net.UDPConn
	dispatcher *command.Dispatcher
	pump       MeterPump
	render     MeterRenderer
	tickPeriod time.Duration
	limiter    *rate.Limiter
	counters   *metrics.Counters
	status     *status.Publisher
	logger     *slog.Logger

	mu      sync.Mutex
	stopped bool
}

// Config configures a Loop.
type Config struct {
	ListenAddr            string
	Dispatcher            *command.Dispatcher
	Pump                  MeterPump
	Render                MeterRenderer
	MeterTickInterval     time.Duration
	MaxDatagramsPerSecond float64 // 0 = unlimited
	Counters              *metrics.Counters
	Status                *status.Publisher
}

// NewLoop binds the UDP socket and builds a Loop ready to Run.
func NewLoop(cfg Config) (*Loop, error) {
	addr, err := net.ResolveUDPAddr("udp", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}

	tickPeriod := cfg.MeterTickInterval
	if tickPeriod <= 0 {
		tickPeriod = 10 * time.Millisecond
	}

	var limiter *rate.Limiter
	if cfg.MaxDatagramsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxDatagramsPerSecond), int(cfg.MaxDatagramsPerSecond))
	}

	counters := cfg.Counters
	if counters == nil {
		counters = &metrics.Counters{}
	}

	statusPub := cfg.Status
	if statusPub == nil {
		statusPub = status.NewPublisher()
	}

	return &Loop{
		conn:       conn,
		dispatcher: cfg.Dispatcher,
		pump:       cfg.Pump,
		render:     cfg.Render,
		tickPeriod: tickPeriod,
		limiter:    limiter,
		counters:   counters,
		status:     statusPub,
		logger:     slog.Default().With("component", "transport"),
	}, nil
}

// Status returns the loop's status publisher, so callers that did not
// supply their own via Config.Status can still read it.
func (l *Loop) Status() *status.Publisher { return l.status }

// LocalAddr returns the socket's bound address.
func (l *Loop) LocalAddr() net.Addr { return l.conn.LocalAddr() }

// Run processes inbound datagrams and the meter tick pump until ctx is
// cancelled or Stop is called, then returns nil. Malformed client input
// and socket read errors are logged and the loop continues; Run does not
// return an error.
func (l *Loop) Run(ctx context.Context) error {
	buf := make([]byte, maxDatagramSize)
	lastTick := time.Now()

	for {
		if l.isStopped() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, remote, err := l.conn.ReadFromUDP(buf)
		now := time.Now()

		if err == nil {
			l.handleDatagram(buf[:n], remote.String(), now)
		} else if !errors.Is(err, os.ErrDeadlineExceeded) {
			if l.isStopped() {
				return nil
			}
			l.logger.Debug("udp read error", "error", err)
		}

		if now.Sub(lastTick) >= l.tickPeriod {
			l.runMeterPump(now)
			lastTick = now
		}

		l.publishStatus(now)
	}
}

// publishStatus refreshes the status snapshot from the subscription
// engine. Called after every dispatch batch and tick so /healthz,
// /metrics, and /debug/subscribers never need to touch the registry's
// own lock directly.
func (l *Loop) publishStatus(now time.Time) {
	if l.pump == nil {
		return
	}
	meters := l.pump.ListMeters(now)
	views := make([]status.MeterView, len(meters))
	for i, m := range meters {
		views[i] = status.MeterView{StreamPath: m.StreamPath, Remote: m.Remote, RateDiv: m.RateDiv}
	}
	l.status.Publish(status.Snapshot{
		UpdatedAt:   now,
		LiveRemotes: l.pump.LiveRemotes(now),
		Meters:      views,
	})
}

func (l *Loop) handleDatagram(data []byte, origin string, now time.Time) {
	if l.limiter != nil && !l.limiter.Allow() {
		return
	}

	l.counters.MessagesReceived++

	m, err := osc.Decode(data)
	if err != nil {
		l.logger.Debug("discarding malformed datagram", "origin", origin, "error", err)
		return
	}

	dispatchID := uuid.NewString()
	logger := l.logger.With("dispatch_id", dispatchID)

	replies := l.dispatcher.Dispatch(origin, m, now)
	l.counters.MessagesDispatched++
	if m.Address == "/" {
		l.counters.BatchCommands++
	}

	for _, reply := range replies {
		to := reply.To
		if to == "" {
			to = origin
		}
		l.sendTo(to, reply.Message, logger)
	}
}

func (l *Loop) runMeterPump(now time.Time) {
	if l.pump == nil || l.render == nil {
		return
	}
	for _, sub := range l.pump.DueMeters(now) {
		msg := l.render(sub)
		l.sendTo(sub.Remote, msg, l.logger)
		l.counters.MeterEmissions++
	}
}

func (l *Loop) sendTo(remote string, m osc.Message, logger *slog.Logger) {
	addr, err := net.ResolveUDPAddr("udp", remote)
	if err != nil {
		logger.Debug("resolving reply address", "remote", remote, "error", err)
		return
	}
	data, err := osc.Encode(m)
	if err != nil {
		logger.Debug("encoding reply", "address", m.Address, "error", err)
		return
	}
	if _, err := l.conn.WriteToUDP(data, addr); err != nil {
		logger.Debug("sending reply", "remote", remote, "error", err)
	}
}

// Stop closes the socket and ends Run's next loop iteration.
func (l *Loop) Stop() error {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	return l.conn.Close()
}

func (l *Loop) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}
