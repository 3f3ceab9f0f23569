// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/harmonia-home/harmonia/internal/models"
)

// RecordPlay increments the user's play count for a track, refreshing
// the denormalized display metadata and last_played timestamp.
func (db *DB) RecordPlay(ctx context.Context, userID string, track models.Track, playedAt time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO listening_signals
		 (user_id, track_id, provider, title, artist, album, art_url,
		  duration_ms, play_count, liked, last_played)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, 0, ?)
		 ON CONFLICT(user_id, track_id, provider) DO UPDATE SET
		   title = excluded.title,
		   artist = excluded.artist,
		   album = excluded.album,
		   art_url = excluded.art_url,
		   duration_ms = excluded.duration_ms,
		   play_count = play_count + 1,
		   last_played = excluded.last_played`,
		userID, track.TrackID, track.Provider, track.Title, track.Artist,
		track.Album, track.ArtURL, track.DurationMS, playedAt)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// SetTrackLiked sets or clears the like flag for a user's track. The
// signal row is created if the user never played the track; liked
// tracks feed mix candidates even without play history.
func (db *DB) SetTrackLiked(ctx context.Context, userID string, track models.Track, liked bool, at time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO listening_signals
		 (user_id, track_id, provider, title, artist, album, art_url,
		  duration_ms, play_count, liked, last_played)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		 ON CONFLICT(user_id, track_id, provider) DO UPDATE SET
		   liked = excluded.liked`,
		userID, track.TrackID, track.Provider, track.Title, track.Artist,
		track.Album, track.ArtURL, track.DurationMS, liked, at)
	if err != nil {
		return fmt.Errorf("failed to set track liked: %w", err)
	}
	return nil
}

// ListeningSignals returns a user's strongest listening signals, most
// recently played first, bounded by limit.
func (db *DB) ListeningSignals(ctx context.Context, userID string, limit int) ([]models.ListeningSignal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT user_id, track_id, provider, title, artist, album, art_url,
		        duration_ms, play_count, liked, last_played
		 FROM listening_signals WHERE user_id = ?
		 ORDER BY last_played DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query listening signals: %w", err)
	}
	defer rows.Close()

	var signals []models.ListeningSignal
	for rows.Next() {
		var s models.ListeningSignal
		if err := rows.Scan(&s.UserID, &s.Track.TrackID, &s.Track.Provider,
			&s.Track.Title, &s.Track.Artist, &s.Track.Album, &s.Track.ArtURL,
			&s.Track.DurationMS, &s.PlayCount, &s.Liked, &s.LastPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan listening signal: %w", err)
		}
		signals = append(signals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listening signals: %w", err)
	}
	return signals, nil
}
