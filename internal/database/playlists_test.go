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

func mustCreatePlaylist(t *testing.T, db *DB, id, householdID string) *models.SharedPlaylist {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	p := &models.SharedPlaylist{
		ID:          id,
		HouseholdID: householdID,
		Name:        "Road Trip",
		Type:        models.PlaylistCollaborative,
		CreatedBy:   "alice",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.CreatePlaylist(context.Background(), p); err != nil {
		t.Fatalf("CreatePlaylist() = %v", err)
	}
	return p
}

func TestAppendPlaylistTrackAssignsPositions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreatePlaylist(t, db, "p1", "h1")
	now := time.Now().UTC()

	first, err := db.AppendPlaylistTrack(ctx, "p1", testTrack("t1", "A"), "alice", now)
	if err != nil {
		t.Fatalf("AppendPlaylistTrack() = %v", err)
	}
	second, err := db.AppendPlaylistTrack(ctx, "p1", testTrack("t2", "B"), "bob", now)
	if err != nil {
		t.Fatalf("AppendPlaylistTrack() = %v", err)
	}

	if first.Position != 1 || second.Position != 2 {
		t.Errorf("positions = %d, %d, want 1, 2", first.Position, second.Position)
	}
}

func TestPlaylistTracksDenormalizedSnapshot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreatePlaylist(t, db, "p1", "h1")

	track := testTrack("t1", "Four Tet")
	if _, err := db.AppendPlaylistTrack(ctx, "p1", track, "alice", time.Now().UTC()); err != nil {
		t.Fatal(err)
	}

	tracks, err := db.PlaylistTracks(ctx, "p1")
	if err != nil {
		t.Fatalf("PlaylistTracks() = %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("len(tracks) = %d, want 1", len(tracks))
	}
	got := tracks[0]
	if got.Track.Title != track.Title {
		t.Errorf("Title = %q, want denormalized %q", got.Track.Title, track.Title)
	}
	if got.Track.Artist != "Four Tet" {
		t.Errorf("Artist = %q, want Four Tet", got.Track.Artist)
	}
	if got.AddedBy != "alice" {
		t.Errorf("AddedBy = %q, want alice", got.AddedBy)
	}
}

func TestPlaylistTracksOrderedByPosition(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreatePlaylist(t, db, "p1", "h1")
	now := time.Now().UTC()

	for _, id := range []string{"t1", "t2", "t3"} {
		if _, err := db.AppendPlaylistTrack(ctx, "p1", testTrack(id, "X"), "alice", now); err != nil {
			t.Fatal(err)
		}
	}

	tracks, err := db.PlaylistTracks(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"t1", "t2", "t3"} {
		if tracks[i].Track.TrackID != want {
			t.Errorf("tracks[%d] = %q, want %q", i, tracks[i].Track.TrackID, want)
		}
	}
}

func TestRemovePlaylistTrackResequences(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreatePlaylist(t, db, "p1", "h1")
	now := time.Now().UTC()

	for _, id := range []string{"t1", "t2", "t3"} {
		if _, err := db.AppendPlaylistTrack(ctx, "p1", testTrack(id, "X"), "alice", now); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := db.RemovePlaylistTrack(ctx, "p1", 2, now)
	if err != nil {
		t.Fatalf("RemovePlaylistTrack() = %v", err)
	}
	if !removed {
		t.Fatal("removed = false, want true")
	}

	tracks, _ := db.PlaylistTracks(ctx, "p1")
	if len(tracks) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(tracks))
	}
	// Positions stay contiguous from 1.
	if tracks[0].Position != 1 || tracks[1].Position != 2 {
		t.Errorf("positions = %d, %d, want 1, 2", tracks[0].Position, tracks[1].Position)
	}
	if tracks[1].Track.TrackID != "t3" {
		t.Errorf("tracks[1] = %q, want t3 shifted down", tracks[1].Track.TrackID)
	}
}

func TestRemovePlaylistTrackMissingPosition(t *testing.T) {
	db := newTestDB(t)
	mustCreatePlaylist(t, db, "p1", "h1")

	removed, err := db.RemovePlaylistTrack(context.Background(), "p1", 7, time.Now().UTC())
	if err != nil {
		t.Fatalf("RemovePlaylistTrack() = %v", err)
	}
	if removed {
		t.Error("removed = true for missing position, want false")
	}
}

func TestPlaylistOperationsMissingPlaylist(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.AppendPlaylistTrack(ctx, "missing", testTrack("t1", "A"), "alice", time.Now().UTC()); !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("AppendPlaylistTrack() error = %v, want ErrPlaylistNotFound", err)
	}
	if _, err := db.PlaylistTracks(ctx, "missing"); !errors.Is(err, ErrPlaylistNotFound) {
		t.Errorf("PlaylistTracks() error = %v, want ErrPlaylistNotFound", err)
	}
}

func TestListPlaylistsOrderedByCreation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for i, id := range []string{"p1", "p2"} {
		p := &models.SharedPlaylist{
			ID:          id,
			HouseholdID: "h1",
			Name:        "List " + id,
			Type:        models.PlaylistCollaborative,
			CreatedBy:   "alice",
			CreatedAt:   now.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   now.Add(time.Duration(i) * time.Minute),
		}
		if err := db.CreatePlaylist(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	playlists, err := db.ListPlaylists(ctx, "h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(playlists) != 2 {
		t.Fatalf("len(playlists) = %d, want 2", len(playlists))
	}
	if playlists[0].ID != "p1" || playlists[1].ID != "p2" {
		t.Errorf("order = %q, %q, want p1, p2", playlists[0].ID, playlists[1].ID)
	}
}
