package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/x32emu/x32emu/internal/command"
	"github.com/x32emu/x32emu/internal/osc"
	"github.com/x32emu/x32emu/internal/state"
	"github.com/x32emu/x32emu/internal/subscribe"
)

func startTestLoop(t *testing.T, cfg Config) (*Loop, func()) {
	t.Helper()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = "127.0.0.1:0"
	}
	l, err := NewLoop(cfg)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	stop := func() {
		cancel()
		l.Stop()
		<-done
	}
	return l, stop
}

func dial(t *testing.T, remote net.Addr) *net.UDPConn {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, remote.(*net.UDPAddr))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestLoopRepliesToGet(t *testing.T) {
	reg := subscribe.NewRegistry()
	ctx := &command.Context{State: state.New(), Subs: reg}
	dispatcher := command.NewDispatcher(ctx)

	l, stop := startTestLoop(t, Config{Dispatcher: dispatcher})
	defer stop()

	client := dial(t, l.LocalAddr())
	defer client.Close()

	req, err := osc.Encode(osc.New("/ch/01/mix/fader"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := client.Write(req); err != nil {
		t.Fatalf("write: %v", err)
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 2048)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	reply, err := osc.Decode(buf[:n])
	if err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Address != "/ch/01/mix/fader" {
		t.Fatalf("reply address = %q", reply.Address)
	}
}

func TestLoopFansOutSetToSubscriber(t *testing.T) {
	reg := subscribe.NewRegistry()
	ctx := &command.Context{State: state.New(), Subs: reg}
	dispatcher := command.NewDispatcher(ctx)

	l, stop := startTestLoop(t, Config{Dispatcher: dispatcher})
	defer stop()

	client := dial(t, l.LocalAddr())
	defer client.Close()

	xremote, _ := osc.Encode(osc.New("/xremote"))
	client.Write(xremote) //nolint:errcheck
	time.Sleep(50 * time.Millisecond)

	set, _ := osc.Encode(osc.New("/ch/01/mix/fader", osc.Float(0.5)))
	client.Write(set) //nolint:errcheck

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 2048)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	reply, err := osc.Decode(buf[:n])
	if err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Address != "/ch/01/mix/fader" || !reply.Args[0].Equal(osc.Float(0.5)) {
		t.Fatalf("unexpected propagated reply: %+v", reply)
	}
}

func TestLoopEmitsDueMeterTick(t *testing.T) {
	reg := subscribe.NewRegistry()
	ctx := &command.Context{State: state.New(), Subs: reg}
	dispatcher := command.NewDispatcher(ctx)

	l, stop := startTestLoop(t, Config{
		Dispatcher:        dispatcher,
		Pump:              reg,
		Render:            RenderMeterBlob,
		MeterTickInterval: 5 * time.Millisecond,
	})
	defer stop()

	client := dial(t, l.LocalAddr())
	defer client.Close()

	sub, _ := osc.Encode(osc.New("/meters", osc.Str("/meters/1"), osc.Int(1)))
	client.Write(sub) //nolint:errcheck

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 2048)
	n, err := client.Read(buf)
	if err != nil {
		t.Fatalf("read meter tick: %v", err)
	}
	reply, err := osc.Decode(buf[:n])
	if err != nil {
		t.Fatalf("decode meter tick: %v", err)
	}
	if reply.Address != "/meters/1" || reply.Args[0].Kind != osc.ArgBlob {
		t.Fatalf("unexpected meter tick: %+v", reply)
	}
	if len(reply.Args[0].Blob) != defaultMeterBlobSize {
		t.Fatalf("blob size = %d, want %d", len(reply.Args[0].Blob), defaultMeterBlobSize)
	}
}

func TestLoopPublishesStatusSnapshot(t *testing.T) {
	reg := subscribe.NewRegistry()
	ctx := &command.Context{State: state.New(), Subs: reg}
	dispatcher := command.NewDispatcher(ctx)

	l, stop := startTestLoop(t, Config{Dispatcher: dispatcher, Pump: reg})
	defer stop()

	client := dial(t, l.LocalAddr())
	defer client.Close()

	xremote, _ := osc.Encode(osc.New("/xremote"))
	client.Write(xremote) //nolint:errcheck

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := l.Status().Load()
		if len(snap.LiveRemotes) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("status snapshot never reflected the /xremote subscriber")
}

func TestLoopStopClosesSocket(t *testing.T) {
	reg := subscribe.NewRegistry()
	ctx := &command.Context{State: state.New(), Subs: reg}
	dispatcher := command.NewDispatcher(ctx)

	l, err := NewLoop(Config{ListenAddr: "127.0.0.1:0", Dispatcher: dispatcher})
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(runCtx) }()

	time.Sleep(10 * time.Millisecond)
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
