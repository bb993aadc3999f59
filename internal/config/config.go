// Package config loads runtime configuration for the emulator from CLI
// flags and environment variables, grounded on the teacher's config
// loader: a flag.FlagSet parsed first, then env vars backfilling any
// flag not explicitly set, so CLI > env > default.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the emulator server.
// Precedence: CLI flags > env vars > defaults.
type Config struct {
	ListenAddr            string
	AdminHTTPAddr         string
	SnapshotPath          string
	PresetDBPath          string
	PresetPostgresURL     string // optional; when set, overrides the sqlite store
	LogLevel              string
	LogFormat             string // "text" or "json"
	MeterTickInterval     time.Duration
	MaxDatagramsPerSecond float64 // 0 = unlimited
	FirmwareVersion       string
	ProtocolVersion       string
}

// defaults
const (
	defaultListenAddr            = "0.0.0.0:10023"
	defaultAdminHTTPAddr         = "127.0.0.1:10080"
	defaultSnapshotPath          = "./data/x32emu.snapshot.json"
	defaultPresetDBPath          = "./data/x32emu.presets.db"
	defaultLogLevel              = "info"
	defaultLogFormat             = "text"
	defaultMeterTickInterval     = 10 * time.Millisecond
	defaultMaxDatagramsPerSecond = 0
	defaultFirmwareVersion       = "4.0.0"
	defaultProtocolVersion       = "X32_2.12"
)

// envPrefix is the prefix for all emulator environment variables.
const envPrefix = "X32EMU_"

// Load parses configuration from CLI flags (os.Args[1:]) and environment
// variables. Precedence: CLI flags > env vars > defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("x32emu", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "listen-addr", defaultListenAddr, "UDP address the OSC control plane listens on")
	fs.StringVar(&cfg.AdminHTTPAddr, "admin-http-addr", defaultAdminHTTPAddr, "HTTP address for health checks, metrics, and debug endpoints")
	fs.StringVar(&cfg.SnapshotPath, "snapshot-path", defaultSnapshotPath, "path to the mixer state snapshot file")
	fs.StringVar(&cfg.PresetDBPath, "preset-db-path", defaultPresetDBPath, "path to the sqlite preset/scene library database")
	fs.StringVar(&cfg.PresetPostgresURL, "preset-postgres-url", "", "Postgres connection URL for the preset/scene library store (overrides sqlite when set)")
	fs.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", defaultLogFormat, "log output format (text, json)")
	fs.DurationVar(&cfg.MeterTickInterval, "meter-tick-interval", defaultMeterTickInterval, "cadence of the /meters subscription pump")
	fs.Float64Var(&cfg.MaxDatagramsPerSecond, "max-datagrams-per-second", defaultMaxDatagramsPerSecond, "inbound UDP rate limit (0 = unlimited)")
	fs.StringVar(&cfg.FirmwareVersion, "firmware-version", defaultFirmwareVersion, "firmware version string reported by /info and /xinfo")
	fs.StringVar(&cfg.ProtocolVersion, "protocol-version", defaultProtocolVersion, "protocol version string reported by /info and /xinfo")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	applyEnvOverrides(fs, cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides checks environment variables for any flag that was not
// explicitly provided on the command line. This preserves the precedence:
// CLI flags > env vars > defaults.
func applyEnvOverrides(fs *flag.FlagSet, cfg *Config) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	envMap := map[string]string{
		"listen-addr":              envPrefix + "LISTEN_ADDR",
		"admin-http-addr":          envPrefix + "ADMIN_HTTP_ADDR",
		"snapshot-path":            envPrefix + "SNAPSHOT_PATH",
		"preset-db-path":           envPrefix + "PRESET_DB_PATH",
		"preset-postgres-url":      envPrefix + "PRESET_POSTGRES_URL",
		"log-level":                envPrefix + "LOG_LEVEL",
		"log-format":               envPrefix + "LOG_FORMAT",
		"meter-tick-interval":      envPrefix + "METER_TICK_INTERVAL",
		"max-datagrams-per-second": envPrefix + "MAX_DATAGRAMS_PER_SECOND",
		"firmware-version":         envPrefix + "FIRMWARE_VERSION",
		"protocol-version":         envPrefix + "PROTOCOL_VERSION",
	}

	for flagName, envVar := range envMap {
		if set[flagName] {
			continue
		}
		val, ok := os.LookupEnv(envVar)
		if !ok || val == "" {
			continue
		}
		switch flagName {
		case "listen-addr":
			cfg.ListenAddr = val
		case "admin-http-addr":
			cfg.AdminHTTPAddr = val
		case "snapshot-path":
			cfg.SnapshotPath = val
		case "preset-db-path":
			cfg.PresetDBPath = val
		case "preset-postgres-url":
			cfg.PresetPostgresURL = val
		case "log-level":
			cfg.LogLevel = val
		case "log-format":
			cfg.LogFormat = val
		case "meter-tick-interval":
			if d, err := time.ParseDuration(val); err == nil {
				cfg.MeterTickInterval = d
			}
		case "max-datagrams-per-second":
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				cfg.MaxDatagramsPerSecond = v
			}
		case "firmware-version":
			cfg.FirmwareVersion = val
		case "protocol-version":
			cfg.ProtocolVersion = val
		}
	}
}

// validate checks that the config values are sane.
func (c *Config) validate() error {
	if c.MeterTickInterval <= 0 {
		return fmt.Errorf("meter-tick-interval must be positive, got %s", c.MeterTickInterval)
	}
	if c.MaxDatagramsPerSecond < 0 {
		return fmt.Errorf("max-datagrams-per-second must be >= 0, got %v", c.MaxDatagramsPerSecond)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log-level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("log-format must be one of text, json; got %q", c.LogFormat)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)

	return nil
}

// UsesPostgres reports whether the preset/scene library store should be
// backed by Postgres rather than the default embedded sqlite database.
func (c *Config) UsesPostgres() bool {
	return c.PresetPostgresURL != ""
}

// SlogHandler returns a slog.Handler configured with the appropriate
// format (text or json) and log level.
func (c *Config) SlogHandler(w *os.File) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SlogLevel returns the slog.Level corresponding to the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
