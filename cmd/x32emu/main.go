// Command x32emu runs the OSC control-protocol mixer emulator: a UDP
// server that exposes the full X32/M32 parameter address space, a
// subscription/propagation engine, preset/scene persistence, and an
// admin HTTP surface for health checks and Prometheus scraping.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/x32emu/x32emu/internal/adminapi"
	"github.com/x32emu/x32emu/internal/command"
	"github.com/x32emu/x32emu/internal/config"
	"github.com/x32emu/x32emu/internal/metrics"
	"github.com/x32emu/x32emu/internal/persistence"
	"github.com/x32emu/x32emu/internal/state"
	"github.com/x32emu/x32emu/internal/status"
	"github.com/x32emu/x32emu/internal/subscribe"
	"github.com/x32emu/x32emu/internal/transport"
)

// presetStore is the union of command.PresetStore and the startup
// hydration method both sqlite and postgres backends implement.
type presetStore interface {
	command.PresetStore
	LoadPresets(st *state.State) error
	Close() error
}

func openStore(cfg *config.Config) (presetStore, error) {
	if cfg.UsesPostgres() {
		return persistence.OpenPostgres(cfg.PresetPostgresURL)
	}
	return persistence.OpenSQLite(cfg.PresetDBPath)
}

func closeStore(s presetStore) {
	if s == nil {
		return
	}
	if err := s.Close(); err != nil {
		slog.Error("closing preset store", "error", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(cfg.SlogHandler(os.Stdout))
	slog.SetDefault(logger)

	slog.Info("starting x32emu",
		"listen_addr", cfg.ListenAddr,
		"admin_http_addr", cfg.AdminHTTPAddr,
		"postgres", cfg.UsesPostgres(),
	)

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open preset store", "error", err)
		os.Exit(1)
	}
	defer closeStore(store)

	st, err := persistence.LoadSnapshot(cfg.SnapshotPath)
	if err != nil {
		slog.Error("failed to load snapshot, starting from defaults", "error", err)
		st = state.New()
	}
	if err := store.LoadPresets(st); err != nil {
		slog.Error("failed to load presets from store", "error", err)
		os.Exit(1)
	}

	registry := subscribe.NewRegistry()
	ctx := &command.Context{
		State: st,
		Subs:  registry,
		Store: store,
		Info: command.DeviceInfo{
			FirmwareVersion: cfg.FirmwareVersion,
			DeviceIP:        localIP(cfg.ListenAddr),
			ProtocolVersion: cfg.ProtocolVersion,
		},
	}
	dispatcher := command.NewDispatcher(ctx)

	counters := &metrics.Counters{}
	startTime := time.Now()
	statusPub := status.NewPublisher()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(metrics.NewCollector(statusPub, counters, startTime))

	admin := adminapi.NewServer(promReg, statusPub, startTime)
	adminSrv := &http.Server{
		Addr:         cfg.AdminHTTPAddr,
		Handler:      admin,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	loop, err := transport.NewLoop(transport.Config{
		ListenAddr:            cfg.ListenAddr,
		Dispatcher:            dispatcher,
		Pump:                  registry,
		Render:                transport.RenderMeterBlob,
		MeterTickInterval:     cfg.MeterTickInterval,
		MaxDatagramsPerSecond: cfg.MaxDatagramsPerSecond,
		Counters:              counters,
		Status:                statusPub,
	})
	if err != nil {
		slog.Error("failed to start transport loop", "error", err)
		os.Exit(1)
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	errCh := make(chan error, 2)
	go func() {
		if err := loop.Run(appCtx); err != nil {
			errCh <- fmt.Errorf("transport loop: %w", err)
		}
	}()
	if cfg.AdminHTTPAddr != "" {
		go func() {
			slog.Info("admin http server listening", "addr", cfg.AdminHTTPAddr)
			if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- fmt.Errorf("admin http server: %w", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		slog.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	slog.Info("shutting down")
	appCancel()
	if err := loop.Stop(); err != nil {
		slog.Error("stopping transport loop", "error", err)
	}
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("admin http server shutdown error", "error", err)
	}

	if err := persistence.SaveSnapshot(cfg.SnapshotPath, ctx.State); err != nil {
		slog.Error("failed to save snapshot on shutdown", "error", err)
	}
	if err := store.PersistSnapshot(ctx.State); err != nil {
		slog.Error("failed to persist snapshot to store on shutdown", "error", err)
	}

	slog.Info("x32emu stopped")
}

// localIP reports the IP portion of listenAddr for /info and /xinfo, or
// a loopback fallback for wildcard binds.
func localIP(listenAddr string) string {
	host, _, err := net.SplitHostPort(listenAddr)
	if err != nil || host == "" || host == "0.0.0.0" || host == "::" {
		return "127.0.0.1"
	}
	return host
}
