// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harmonia-home/harmonia/internal/config"
	"github.com/harmonia-home/harmonia/internal/models"
)

// newTestDB opens a fresh SQLite database in a per-test temp dir.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "harmonia-test.db"),
		BusyTimeout: 5 * time.Second,
	}
	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() = %v", err)
		}
	})
	return db
}

// mustCreateHousehold inserts a household with the given owner.
func mustCreateHousehold(t *testing.T, db *DB, id, name, ownerID string) *models.Household {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	h := &models.Household{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.CreateHousehold(context.Background(), h); err != nil {
		t.Fatalf("CreateHousehold() = %v", err)
	}
	return h
}

// mustCreateDevice inserts a device row.
func mustCreateDevice(t *testing.T, db *DB, id, name string) *models.Device {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	d := &models.Device{
		ID:           id,
		Name:         name,
		Type:         models.DeviceSpeaker,
		Capabilities: models.DefaultCapabilities,
		Online:       true,
		LastSeen:     now,
		CreatedAt:    now,
	}
	if err := db.CreateDevice(context.Background(), d); err != nil {
		t.Fatalf("CreateDevice() = %v", err)
	}
	return d
}

// testTrack builds a track with distinct metadata per id.
func testTrack(id, artist string) models.Track {
	return models.Track{
		TrackID:    id,
		Provider:   "local",
		Title:      "title-" + id,
		Artist:     artist,
		Album:      "album-" + id,
		DurationMS: 180000,
	}
}
