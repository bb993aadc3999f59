package persistence

import (
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/x32emu/x32emu/internal/state"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed pgmigrations/*.sql
var pgMigrationsFS embed.FS

// PostgresStore is the PostgreSQL-backed alternative to SQLiteStore,
// selected when --preset-postgres-url (X32EMU_PRESET_POSTGRES_URL) is set,
// for deployments that already run a shared PostgreSQL instance.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to dsn and runs pending migrations.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgresql: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgresql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	slog.Info("postgresql preset store opened")
	return s, nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(pgMigrationsFS, "pgmigrations")
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
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = $1", version).Scan(&count); err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if count > 0 {
			continue
		}

		content, err := pgMigrationsFS.ReadFile("pgmigrations/" + entry.Name())
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
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
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

func (s *PostgresStore) PersistPreset(lib string, idx int, name string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO presets (library, slot, name, body) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (library, slot) DO UPDATE SET name = $3, body = $4, saved_at = NOW()`,
		lib, idx, name, body,
	)
	if err != nil {
		return fmt.Errorf("persisting preset %s/%d: %w", lib, idx, err)
	}
	return nil
}

func (s *PostgresStore) DeletePreset(lib string, idx int) error {
	_, err := s.db.Exec(`DELETE FROM presets WHERE library = $1 AND slot = $2`, lib, idx)
	if err != nil {
		return fmt.Errorf("deleting preset %s/%d: %w", lib, idx, err)
	}
	return nil
}

func (s *PostgresStore) PersistSnapshot(st *state.State) error {
	body, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO snapshots (body) VALUES ($1)`, body); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	return nil
}

// LoadPresets restores every persisted preset slot into st's libraries.
func (s *PostgresStore) LoadPresets(st *state.State) error {
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
