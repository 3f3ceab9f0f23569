// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package backup provides scheduled snapshots of the Harmonia SQLite
// database. Snapshots are taken with VACUUM INTO for a consistent,
// self-contained copy, optionally gzipped, and pruned by count.
package backup

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/harmonia-home/harmonia/internal/config"
	"github.com/harmonia-home/harmonia/internal/logging"
)

// snapshotPrefix and the timestamp layout together make snapshot
// filenames sort chronologically.
const (
	snapshotPrefix  = "harmonia-"
	snapshotLayout  = "20060102-150405"
	snapshotSuffix  = ".db"
	compressedExt   = ".gz"
	snapshotDirMode = 0o750
)

// Snapshotter is the database capability the manager needs.
type Snapshotter interface {
	Snapshot(ctx context.Context, destPath string) error
}

// Manager creates and prunes database snapshots. It implements
// suture.Service so the scheduler runs under the supervisor tree.
type Manager struct {
	cfg *config.BackupConfig
	db  Snapshotter

	// now is replaceable in tests.
	now func() time.Time
}

// NewManager builds a backup manager. The backup directory is created
// on first snapshot, not here.
func NewManager(cfg *config.BackupConfig, db Snapshotter) *Manager {
	return &Manager{
		cfg: cfg,
		db:  db,
		now: time.Now,
	}
}

// CreateBackup takes one snapshot, compresses it if configured, prunes
// old snapshots, and returns the path of the new backup file.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.cfg.Dir, snapshotDirMode); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", m.cfg.Dir, err)
	}

	name := snapshotPrefix + m.now().UTC().Format(snapshotLayout) + snapshotSuffix
	rawPath := filepath.Join(m.cfg.Dir, name)

	// VACUUM INTO refuses to overwrite; a same-second retry must not
	// collide with a leftover file.
	_ = os.Remove(rawPath)

	if err := m.db.Snapshot(ctx, rawPath); err != nil {
		return "", err
	}

	finalPath := rawPath
	if m.cfg.Compress {
		compressed, err := compressFile(rawPath)
		if err != nil {
			_ = os.Remove(rawPath)
			return "", err
		}
		_ = os.Remove(rawPath)
		finalPath = compressed
	}

	if err := m.prune(); err != nil {
		logging.Warn().Err(err).Msg("backup retention pruning failed")
	}

	logging.Info().Str("path", finalPath).Msg("database snapshot created")
	return finalPath, nil
}

// List returns the retained snapshot paths, oldest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, snapshotPrefix) &&
			(strings.HasSuffix(name, snapshotSuffix) || strings.HasSuffix(name, snapshotSuffix+compressedExt)) {
			paths = append(paths, filepath.Join(m.cfg.Dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// prune removes the oldest snapshots beyond the configured keep count.
func (m *Manager) prune() error {
	paths, err := m.List()
	if err != nil {
		return err
	}
	if m.cfg.Keep <= 0 || len(paths) <= m.cfg.Keep {
		return nil
	}
	for _, path := range paths[:len(paths)-m.cfg.Keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove old snapshot %s: %w", path, err)
		}
		logging.Debug().Str("path", path).Msg("old snapshot pruned")
	}
	return nil
}

// Serve implements suture.Service: snapshot on every interval tick
// until the context is canceled. A failed snapshot is logged and
// retried on the next tick rather than restarting the service.
func (m *Manager) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.CreateBackup(ctx); err != nil {
				logging.Error().Err(err).Msg("scheduled backup failed")
			}
		}
	}
}

// String names the service in supervision logs.
func (m *Manager) String() string {
	return "backup-scheduler"
}

// compressFile gzips src to src+".gz" and returns the new path.
func compressFile(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open snapshot for compression: %w", err)
	}
	defer func() { _ = in.Close() }()

	dst := src + compressedExt
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create compressed snapshot: %w", err)
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		_ = gz.Close()
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to finalize compressed snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to close compressed snapshot: %w", err)
	}
	return dst, nil
}
