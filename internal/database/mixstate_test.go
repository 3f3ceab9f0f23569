// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harmonia-home/harmonia/internal/models"
)

func TestMixStateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	mix := &models.FamilyMix{
		HouseholdID: "h1",
		Tracks: []models.MixTrack{
			{Track: testTrack("t1", "A"), Weight: 0.9, ContributedBy: "alice"},
			{Track: testTrack("t2", "B"), Weight: 0.4, ContributedBy: "bob"},
		},
		UserWeights: map[string]float64{"alice": 0.6, "bob": 0.4},
		GeneratedAt: now,
		ValidUntil:  now.Add(30 * time.Minute),
	}
	if err := db.SaveMixState(ctx, mix); err != nil {
		t.Fatalf("SaveMixState() = %v", err)
	}

	got, err := db.GetMixState(ctx, "h1")
	if err != nil {
		t.Fatalf("GetMixState() = %v", err)
	}
	if len(got.Tracks) != 2 {
		t.Fatalf("len(Tracks) = %d, want 2", len(got.Tracks))
	}
	if got.Tracks[0].Track.TrackID != "t1" || got.Tracks[0].ContributedBy != "alice" {
		t.Errorf("Tracks[0] = %+v, want t1 from alice", got.Tracks[0])
	}
	if got.UserWeights["bob"] != 0.4 {
		t.Errorf("UserWeights[bob] = %f, want 0.4", got.UserWeights["bob"])
	}
	if !got.ValidUntil.Equal(mix.ValidUntil) {
		t.Errorf("ValidUntil = %s, want %s", got.ValidUntil, mix.ValidUntil)
	}
}

func TestSaveMixStateOverwritesStale(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	stale := &models.FamilyMix{
		HouseholdID: "h1",
		Tracks:      []models.MixTrack{{Track: testTrack("old", "A"), Weight: 1}},
		UserWeights: map[string]float64{"alice": 1},
		GeneratedAt: now.Add(-2 * time.Hour),
		ValidUntil:  now.Add(-time.Hour),
	}
	if err := db.SaveMixState(ctx, stale); err != nil {
		t.Fatal(err)
	}

	fresh := &models.FamilyMix{
		HouseholdID: "h1",
		Tracks:      []models.MixTrack{{Track: testTrack("new", "B"), Weight: 1}},
		UserWeights: map[string]float64{"alice": 1},
		GeneratedAt: now,
		ValidUntil:  now.Add(time.Hour),
	}
	if err := db.SaveMixState(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetMixState(ctx, "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tracks) != 1 || got.Tracks[0].Track.TrackID != "new" {
		t.Errorf("Tracks = %+v, want single track new", got.Tracks)
	}
}

func TestGetMixStateNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetMixState(context.Background(), "h1")
	if !errors.Is(err, ErrMixStateNotFound) {
		t.Errorf("GetMixState() error = %v, want ErrMixStateNotFound", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	db := newTestDB(t)

	version, err := db.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion() = %v", err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Running migrations again applies nothing and fails nothing.
	if err := db.migrate(ctx); err != nil {
		t.Fatalf("second migrate() = %v", err)
	}
	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if version != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", version, len(migrations))
	}
}
