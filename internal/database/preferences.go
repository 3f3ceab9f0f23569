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

	"github.com/harmonia-home/harmonia/internal/models"
)

// GetMusicPreferences returns the stored preferences row for a user,
// or (nil, nil) when no row exists. Callers supply the transient
// defaults themselves; reads never create rows.
func (db *DB) GetMusicPreferences(ctx context.Context, userID string) (*models.MusicPreferences, error) {
	var p models.MusicPreferences
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, default_provider, default_volume, crossfade_enabled,
		        crossfade_seconds, audio_quality, autoplay_enabled,
		        share_listening, allow_explicit, updated_at
		 FROM music_preferences WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.DefaultProvider, &p.DefaultVolume, &p.CrossfadeEnabled,
		&p.CrossfadeSeconds, &p.AudioQuality, &p.AutoplayEnabled,
		&p.ShareListening, &p.AllowExplicit, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query music preferences: %w", err)
	}
	return &p, nil
}

// UpsertMusicPreferences writes the full preferences row, replacing any
// prior row for the user. The merge of partial updates onto prior
// values (or defaults) happens in the household manager.
func (db *DB) UpsertMusicPreferences(ctx context.Context, p *models.MusicPreferences) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO music_preferences
		 (user_id, default_provider, default_volume, crossfade_enabled,
		  crossfade_seconds, audio_quality, autoplay_enabled,
		  share_listening, allow_explicit, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   default_provider = excluded.default_provider,
		   default_volume = excluded.default_volume,
		   crossfade_enabled = excluded.crossfade_enabled,
		   crossfade_seconds = excluded.crossfade_seconds,
		   audio_quality = excluded.audio_quality,
		   autoplay_enabled = excluded.autoplay_enabled,
		   share_listening = excluded.share_listening,
		   allow_explicit = excluded.allow_explicit,
		   updated_at = excluded.updated_at`,
		p.UserID, p.DefaultProvider, p.DefaultVolume, p.CrossfadeEnabled,
		p.CrossfadeSeconds, p.AudioQuality, p.AutoplayEnabled,
		p.ShareListening, p.AllowExplicit, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert music preferences: %w", err)
	}
	return nil
}
