package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/byterings/gprofile/internal/logging"
	"github.com/byterings/gprofile/internal/platform"
	"github.com/byterings/gprofile/internal/profile"
)

const metaActiveProfileID = "active_profile_id"

// SQLiteBackend keeps the registry state in a SQLite database.
type SQLiteBackend struct {
	db  *sql.DB
	log *logging.Logger
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
// Use ":memory:" for an in-memory database.
func OpenSQLite(ctx context.Context, path string, log *logging.Logger) (*SQLiteBackend, error) {
	if log == nil {
		log = logging.Nop()
	}
	if path != ":memory:" {
		if err := platform.MkdirSecure(parentDir(path)); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases alive across calls
	db.SetMaxOpenConns(1)

	b := &SQLiteBackend{db: db, log: log.Sub("store")}
	if err := b.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	b.log.Debug().Str("path", path).Msg("database opened")
	return b, nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) migrate(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			applied_at  TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking migration %d: %w", m.Version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := b.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		b.log.Debug().Int("version", m.Version).Str("name", m.Name).Msg("migration applied")
	}
	return nil
}

// Load reads all profiles in stored order and the active pointer.
func (b *SQLiteBackend) Load(ctx context.Context) (profile.State, error) {
	state := profile.NewState()

	rows, err := b.db.QueryContext(ctx,
		`SELECT id, name, git_name, git_email, ssh_key_path FROM profiles ORDER BY position`)
	if err != nil {
		return profile.State{}, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p profile.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.GitName, &p.GitEmail, &p.SSHKeyPath); err != nil {
			return profile.State{}, fmt.Errorf("scanning profile: %w", err)
		}
		state.Profiles = append(state.Profiles, p)
	}
	if err := rows.Err(); err != nil {
		return profile.State{}, err
	}

	var active sql.NullString
	err = b.db.QueryRowContext(ctx, "SELECT value FROM registry_meta WHERE key = ?", metaActiveProfileID).Scan(&active)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return profile.State{}, fmt.Errorf("reading active profile: %w", err)
	case active.Valid:
		id := active.String
		state.ActiveProfileID = &id
	}

	for i := range state.Profiles {
		state.Profiles[i].IsActive = state.ActiveProfileID != nil && state.Profiles[i].ID == *state.ActiveProfileID
	}
	return state, nil
}

// Save replaces every row in one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, state profile.State) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles"); err != nil {
		return fmt.Errorf("clearing profiles: %w", err)
	}
	for i, p := range state.Profiles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (id, position, name, git_name, git_email, ssh_key_path)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, i, p.Name, p.GitName, p.GitEmail, p.SSHKeyPath,
		); err != nil {
			return fmt.Errorf("inserting profile %s: %w", p.ID, err)
		}
	}

	var active sql.NullString
	if state.ActiveProfileID != nil {
		active = sql.NullString{String: *state.ActiveProfileID, Valid: true}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO registry_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaActiveProfileID, active,
	); err != nil {
		return fmt.Errorf("writing active profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing profiles: %w", err)
	}
	return nil
}
