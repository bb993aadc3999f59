// Package persistence provides durable storage for preset/scene library
// slots and full-state snapshots, backed by either an embedded SQLite
// database (the default) or PostgreSQL (spec.md §4.5, SPEC_FULL.md §4.10).
package persistence

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/x32emu/x32emu/internal/state"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var sqliteMigrationsFS embed.FS

// SQLiteStore persists preset slots and snapshots to an embedded SQLite
// database in WAL mode. It implements command.PresetStore.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the emulator's SQLite database at dbPath,
// creating its parent directory if needed, and runs any pending
// migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	slog.Info("sqlite preset store opened", "path", dbPath)
	return s, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at DATETIME DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(sqliteMigrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version := strings.TrimSuffix(entry.Name(), ".sql")

		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if count > 0 {
			continue
		}

		content, err := sqliteMigrationsFS.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %s: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", version, err)
		}
		slog.Info("applied migration", "version", version)
	}
	return nil
}

// PersistPreset writes a preset slot's name and serialized body.
func (s *SQLiteStore) PersistPreset(lib string, idx int, name string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO presets (library, slot, name, body) VALUES (?, ?, ?, ?)
		 ON CONFLICT(library, slot) DO UPDATE SET name = excluded.name, body = excluded.body, saved_at = datetime('now')`,
		lib, idx, name, body,
	)
	if err != nil {
		return fmt.Errorf("persisting preset %s/%d: %w", lib, idx, err)
	}
	return nil
}

// DeletePreset removes a preset slot's durable row.
func (s *SQLiteStore) DeletePreset(lib string, idx int) error {
	_, err := s.db.Exec(`DELETE FROM presets WHERE library = ? AND slot = ?`, lib, idx)
	if err != nil {
		return fmt.Errorf("deleting preset %s/%d: %w", lib, idx, err)
	}
	return nil
}

// PersistSnapshot writes the full state tree as a new snapshot row.
func (s *SQLiteStore) PersistSnapshot(st *state.State) error {
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO snapshots (body) VALUES (?)`, body); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	return nil
}

// LoadPresets restores every persisted preset slot into a freshly
// constructed state tree's libraries, called once at startup.
func (s *SQLiteStore) LoadPresets(st *state.State) error {
	rows, err := s.db.Query(`SELECT library, slot, name, body FROM presets`)
	if err != nil {
		return fmt.Errorf("loading presets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lib, name string
		var slot int
		var body []byte
		if err := rows.Scan(&lib, &slot, &name, &body); err != nil {
			return fmt.Errorf("scanning preset row: %w", err)
		}
		library := st.Libraries.ByName(lib)
		if library == nil || slot < 0 || slot >= len(library.Slots) {
			continue
		}
		library.Slots[slot] = state.Preset{Name: name, Body: body}
	}
	return rows.Err()
}
