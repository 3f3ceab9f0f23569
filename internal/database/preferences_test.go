// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"testing"
	"time"

	"github.com/harmonia-home/harmonia/internal/models"
)

func TestGetMusicPreferencesMissingReturnsNil(t *testing.T) {
	db := newTestDB(t)

	p, err := db.GetMusicPreferences(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetMusicPreferences() = %v", err)
	}
	if p != nil {
		t.Errorf("preferences = %+v, want nil for missing row", p)
	}
}

func TestUpsertMusicPreferencesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	prefs := models.DefaultMusicPreferences("alice")
	prefs.DefaultVolume = 50
	prefs.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := db.UpsertMusicPreferences(ctx, &prefs); err != nil {
		t.Fatalf("UpsertMusicPreferences() = %v", err)
	}

	got, err := db.GetMusicPreferences(ctx, "alice")
	if err != nil {
		t.Fatalf("GetMusicPreferences() = %v", err)
	}
	if got == nil {
		t.Fatal("preferences = nil, want stored row")
	}
	if got.DefaultVolume != 50 {
		t.Errorf("DefaultVolume = %d, want 50", got.DefaultVolume)
	}
	if !got.AutoplayEnabled {
		t.Error("AutoplayEnabled = false, want true")
	}
}

func TestUpsertMusicPreferencesReplaces(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	prefs := models.DefaultMusicPreferences("alice")
	prefs.UpdatedAt = time.Now().UTC()
	if err := db.UpsertMusicPreferences(ctx, &prefs); err != nil {
		t.Fatal(err)
	}

	prefs.AudioQuality = "lossless"
	prefs.CrossfadeEnabled = true
	prefs.CrossfadeSeconds = 5
	if err := db.UpsertMusicPreferences(ctx, &prefs); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetMusicPreferences(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.AudioQuality != "lossless" {
		t.Errorf("AudioQuality = %q, want lossless", got.AudioQuality)
	}
	if !got.CrossfadeEnabled || got.CrossfadeSeconds != 5 {
		t.Errorf("crossfade = (%v, %d), want (true, 5)", got.CrossfadeEnabled, got.CrossfadeSeconds)
	}
}
