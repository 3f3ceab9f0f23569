// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harmonia-home/harmonia/internal/logging"
)

// migration is a versioned schema change. Migrations are append-only;
// never modify or remove an entry once databases with data exist.
type migration struct {
	version int
	name    string
	sql     string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// migrations holds the full schema history in order.
var migrations = []migration{
	{
		version: 1,
		name:    "households",
		sql: `
CREATE TABLE IF NOT EXISTS households (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	owner_id TEXT NOT NULL,
	settings TEXT NOT NULL DEFAULT '{}',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS household_members (
	household_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	role TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	content_filter TEXT NOT NULL DEFAULT '',
	time_limits TEXT NOT NULL DEFAULT '{}',
	joined_at TIMESTAMP NOT NULL,
	PRIMARY KEY (household_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_members_user ON household_members(user_id);`,
	},
	{
		version: 2,
		name:    "music_preferences",
		sql: `
CREATE TABLE IF NOT EXISTS music_preferences (
	user_id TEXT PRIMARY KEY,
	default_provider TEXT NOT NULL,
	default_volume INTEGER NOT NULL,
	crossfade_enabled INTEGER NOT NULL,
	crossfade_seconds INTEGER NOT NULL,
	audio_quality TEXT NOT NULL,
	autoplay_enabled INTEGER NOT NULL,
	share_listening INTEGER NOT NULL,
	allow_explicit INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`,
	},
	{
		version: 3,
		name:    "devices_and_bindings",
		sql: `
CREATE TABLE IF NOT EXISTS devices (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	manufacturer TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	room TEXT NOT NULL DEFAULT '',
	capabilities TEXT NOT NULL DEFAULT '["audio"]',
	address TEXT NOT NULL DEFAULT '',
	online INTEGER NOT NULL DEFAULT 1,
	last_seen TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS device_bindings (
	device_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	binding_type TEXT NOT NULL,
	priority INTEGER NOT NULL,
	bound_at TIMESTAMP NOT NULL,
	expires_at TIMESTAMP,
	PRIMARY KEY (device_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_bindings_user ON device_bindings(user_id);`,
	},
	{
		version: 4,
		name:    "listening_signals",
		sql: `
CREATE TABLE IF NOT EXISTS listening_signals (
	user_id TEXT NOT NULL,
	track_id TEXT NOT NULL,
	provider TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	artist TEXT NOT NULL DEFAULT '',
	album TEXT NOT NULL DEFAULT '',
	art_url TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	play_count INTEGER NOT NULL DEFAULT 0,
	liked INTEGER NOT NULL DEFAULT 0,
	last_played TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, track_id, provider)
);`,
	},
	{
		version: 5,
		name:    "family_mix_state",
		sql: `
CREATE TABLE IF NOT EXISTS family_mix_state (
	household_id TEXT PRIMARY KEY,
	tracks TEXT NOT NULL,
	user_weights TEXT NOT NULL,
	generated_at TIMESTAMP NOT NULL,
	valid_until TIMESTAMP NOT NULL
);`,
	},
	{
		version: 6,
		name:    "shared_playlists",
		sql: `
CREATE TABLE IF NOT EXISTS shared_playlists (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	created_by TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_playlists_household ON shared_playlists(household_id);
CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	track_id TEXT NOT NULL,
	provider TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	artist TEXT NOT NULL DEFAULT '',
	album TEXT NOT NULL DEFAULT '',
	art_url TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	added_by TEXT NOT NULL,
	added_at TIMESTAMP NOT NULL,
	PRIMARY KEY (playlist_id, position)
);`,
	},
}

// migrate applies any pending migrations. Each migration runs in its
// own transaction alongside its schema_migrations row.
func (db *DB) migrate(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to iterate schema_migrations: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("failed to close schema_migrations rows: %w", err)
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		err := db.withTx(ctx, "migrate", func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`,
				m.version, m.name); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		logging.Debug().Int("version", m.version).Str("name", m.name).Msg("migration applied")
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to query schema version: %w", err)
	}
	return int(version.Int64), nil
}
