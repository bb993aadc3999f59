package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		"X32EMU_LISTEN_ADDR", "X32EMU_ADMIN_HTTP_ADDR", "X32EMU_SNAPSHOT_PATH",
		"X32EMU_PRESET_DB_PATH", "X32EMU_PRESET_POSTGRES_URL", "X32EMU_LOG_LEVEL",
		"X32EMU_LOG_FORMAT", "X32EMU_METER_TICK_INTERVAL",
		"X32EMU_MAX_DATAGRAMS_PER_SECOND", "X32EMU_FIRMWARE_VERSION",
		"X32EMU_PROTOCOL_VERSION",
	} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	os.Args = []string{"x32emu"}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != defaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, defaultListenAddr)
	}
	if cfg.AdminHTTPAddr != defaultAdminHTTPAddr {
		t.Errorf("AdminHTTPAddr = %q, want %q", cfg.AdminHTTPAddr, defaultAdminHTTPAddr)
	}
	if cfg.SnapshotPath != defaultSnapshotPath {
		t.Errorf("SnapshotPath = %q, want %q", cfg.SnapshotPath, defaultSnapshotPath)
	}
	if cfg.PresetDBPath != defaultPresetDBPath {
		t.Errorf("PresetDBPath = %q, want %q", cfg.PresetDBPath, defaultPresetDBPath)
	}
	if cfg.PresetPostgresURL != "" {
		t.Errorf("PresetPostgresURL = %q, want empty", cfg.PresetPostgresURL)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.MeterTickInterval != defaultMeterTickInterval {
		t.Errorf("MeterTickInterval = %v, want %v", cfg.MeterTickInterval, defaultMeterTickInterval)
	}
	if cfg.MaxDatagramsPerSecond != defaultMaxDatagramsPerSecond {
		t.Errorf("MaxDatagramsPerSecond = %v, want %v", cfg.MaxDatagramsPerSecond, defaultMaxDatagramsPerSecond)
	}
	if cfg.UsesPostgres() {
		t.Error("UsesPostgres() = true, want false with no URL configured")
	}
}

func TestEnvVarOverride(t *testing.T) {
	clearEnv(t)
	os.Args = []string{"x32emu"}
	t.Setenv("X32EMU_LISTEN_ADDR", "0.0.0.0:9999")
	t.Setenv("X32EMU_SNAPSHOT_PATH", "/tmp/x32emu-test.json")
	t.Setenv("X32EMU_LOG_LEVEL", "debug")
	t.Setenv("X32EMU_METER_TICK_INTERVAL", "25ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != "0.0.0.0:9999" {
		t.Errorf("ListenAddr = %q, want 0.0.0.0:9999", cfg.ListenAddr)
	}
	if cfg.SnapshotPath != "/tmp/x32emu-test.json" {
		t.Errorf("SnapshotPath = %q, want /tmp/x32emu-test.json", cfg.SnapshotPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.MeterTickInterval != 25*time.Millisecond {
		t.Errorf("MeterTickInterval = %v, want 25ms", cfg.MeterTickInterval)
	}
}

func TestCLIFlagsPrecedence(t *testing.T) {
	clearEnv(t)
	os.Args = []string{"x32emu", "--listen-addr", "127.0.0.1:7000", "--log-level", "warn"}
	t.Setenv("X32EMU_LISTEN_ADDR", "0.0.0.0:9999")
	t.Setenv("X32EMU_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ListenAddr != "127.0.0.1:7000" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:7000 (CLI should override env)", cfg.ListenAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn (CLI should override env)", cfg.LogLevel)
	}
}

func TestValidateInvalidLogLevel(t *testing.T) {
	clearEnv(t)
	os.Args = []string{"x32emu", "--log-level", "verbose"}
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
}

func TestValidateInvalidMeterTickInterval(t *testing.T) {
	clearEnv(t)
	os.Args = []string{"x32emu", "--meter-tick-interval", "0s"}
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for non-positive meter-tick-interval, got nil")
	}
}

func TestValidateNegativeRateLimit(t *testing.T) {
	clearEnv(t)
	os.Args = []string{"x32emu", "--max-datagrams-per-second", "-1"}
	_, err := Load()
	if err == nil {
		t.Fatal("expected error for negative max-datagrams-per-second, got nil")
	}
}

func TestUsesPostgresWhenURLConfigured(t *testing.T) {
	clearEnv(t)
	os.Args = []string{"x32emu", "--preset-postgres-url", "postgres://localhost/x32emu"}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.UsesPostgres() {
		t.Error("UsesPostgres() = false, want true with URL configured")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			if got := cfg.SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
