// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package database provides Harmonia's SQLite-backed data access layer.
//
// All access goes through the DB type, which wraps a database/sql
// connection to a SQLite file opened with WAL journaling. Methods take
// a context, use parameterized queries exclusively, and return the
// sentinel errors from errors.go for expected failure modes so callers
// can branch with errors.Is.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/harmonia-home/harmonia/internal/config"
	"github.com/harmonia-home/harmonia/internal/logging"
	"github.com/harmonia-home/harmonia/internal/metrics"
)

// DB wraps the SQLite connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database, applies pragmas, and runs migrations.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	conn, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite serializes writes per connection; a single
	// connection avoids SQLITE_BUSY between pooled connections while
	// WAL still allows concurrent readers within it.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, cfg: cfg}

	if err := db.applyPragmas(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := db.migrate(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().Str("path", cfg.Path).Msg("database opened")
	return db, nil
}

// applyPragmas configures the SQLite connection.
func (db *DB) applyPragmas() error {
	busyMS := int64(5000)
	if db.cfg.BusyTimeout > 0 {
		busyMS = db.cfg.BusyTimeout.Milliseconds()
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyMS),
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.conn.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Snapshot writes a consistent copy of the database to destPath using
// VACUUM INTO. Pending WAL contents are folded into the snapshot, so
// the result is a self-contained database file.
func (db *DB) Snapshot(ctx context.Context, destPath string) error {
	if _, err := db.conn.ExecContext(ctx, "VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("failed to snapshot database to %s: %w", destPath, err)
	}
	return nil
}

// Path returns the configured database file path.
func (db *DB) Path() string {
	return db.cfg.Path
}

// withTx runs fn inside a transaction named op for metrics, committing
// on nil error and rolling back otherwise.
func (db *DB) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(op, start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// nullTime converts a *time.Time to its sql.NullTime representation.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// timePtr converts a sql.NullTime back to *time.Time.
func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	out := t.Time
	return &out
}
