// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harmonia-home/harmonia/internal/models"
)

// CreatePlaylist inserts a shared playlist row. Names are not unique;
// households may hold several playlists with the same name.
func (db *DB) CreatePlaylist(ctx context.Context, p *models.SharedPlaylist) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO shared_playlists
		 (id, household_id, name, description, type, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.HouseholdID, p.Name, p.Description, p.Type, p.CreatedBy,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

// GetPlaylist fetches a playlist by ID. Returns ErrPlaylistNotFound if absent.
func (db *DB) GetPlaylist(ctx context.Context, id string) (*models.SharedPlaylist, error) {
	var p models.SharedPlaylist
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, household_id, name, description, type, created_by, created_at, updated_at
		 FROM shared_playlists WHERE id = ?`, id,
	).Scan(&p.ID, &p.HouseholdID, &p.Name, &p.Description, &p.Type,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}
	return &p, nil
}

// ListPlaylists returns a household's shared playlists ordered by
// creation time.
func (db *DB) ListPlaylists(ctx context.Context, householdID string) ([]models.SharedPlaylist, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, household_id, name, description, type, created_by, created_at, updated_at
		 FROM shared_playlists WHERE household_id = ?
		 ORDER BY created_at ASC`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.SharedPlaylist
	for rows.Next() {
		var p models.SharedPlaylist
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.Name, &p.Description,
			&p.Type, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlists: %w", err)
	}
	return playlists, nil
}

// AppendPlaylistTrack adds a track at the playlist's next free
// position. The position read and the insert share a transaction so
// concurrent appends cannot claim the same slot. Display metadata is
// snapshotted into the row at insert time.
func (db *DB) AppendPlaylistTrack(ctx context.Context, playlistID string, track models.Track, addedBy string, at time.Time) (*models.PlaylistTrack, error) {
	if _, err := db.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}

	var entry models.PlaylistTrack
	err := db.withTx(ctx, "append_playlist_track", func(tx *sql.Tx) error {
		var maxPos sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(position) FROM playlist_tracks WHERE playlist_id = ?`,
			playlistID).Scan(&maxPos); err != nil {
			return fmt.Errorf("failed to query max position: %w", err)
		}
		position := int(maxPos.Int64) + 1

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO playlist_tracks
			 (playlist_id, position, track_id, provider, title, artist, album,
			  art_url, duration_ms, added_by, added_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			playlistID, position, track.TrackID, track.Provider, track.Title,
			track.Artist, track.Album, track.ArtURL, track.DurationMS,
			addedBy, at); err != nil {
			return fmt.Errorf("failed to insert playlist track: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE shared_playlists SET updated_at = ? WHERE id = ?`,
			at, playlistID); err != nil {
			return fmt.Errorf("failed to touch playlist: %w", err)
		}

		entry = models.PlaylistTrack{
			PlaylistID: playlistID,
			Position:   position,
			Track:      track,
			AddedBy:    addedBy,
			AddedAt:    at,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// PlaylistTracks returns the playlist's tracks in playback order.
func (db *DB) PlaylistTracks(ctx context.Context, playlistID string) ([]models.PlaylistTrack, error) {
	if _, err := db.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT playlist_id, position, track_id, provider, title, artist,
		        album, art_url, duration_ms, added_by, added_at
		 FROM playlist_tracks WHERE playlist_id = ?
		 ORDER BY position ASC`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []models.PlaylistTrack
	for rows.Next() {
		var t models.PlaylistTrack
		if err := rows.Scan(&t.PlaylistID, &t.Position, &t.Track.TrackID,
			&t.Track.Provider, &t.Track.Title, &t.Track.Artist, &t.Track.Album,
			&t.Track.ArtURL, &t.Track.DurationMS, &t.AddedBy, &t.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist tracks: %w", err)
	}
	return tracks, nil
}

// RemovePlaylistTrack deletes the track at the given position and
// closes the gap so positions stay contiguous from 1. Reports whether
// a row was removed.
func (db *DB) RemovePlaylistTrack(ctx context.Context, playlistID string, position int, at time.Time) (bool, error) {
	if _, err := db.GetPlaylist(ctx, playlistID); err != nil {
		return false, err
	}

	removed := false
	err := db.withTx(ctx, "remove_playlist_track", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM playlist_tracks WHERE playlist_id = ? AND position = ?`,
			playlistID, position)
		if err != nil {
			return fmt.Errorf("failed to delete playlist track: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return nil
		}
		removed = true

		// Re-sequence: shift everything after the gap down by one.
		if _, err := tx.ExecContext(ctx,
			`UPDATE playlist_tracks SET position = position - 1
			 WHERE playlist_id = ? AND position > ?`,
			playlistID, position); err != nil {
			return fmt.Errorf("failed to re-sequence playlist: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE shared_playlists SET updated_at = ? WHERE id = ?`,
			at, playlistID); err != nil {
			return fmt.Errorf("failed to touch playlist: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
