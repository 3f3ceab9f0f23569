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

	"github.com/goccy/go-json"

	"github.com/harmonia-home/harmonia/internal/models"
)

// SaveMixState overwrites the household's cached mix. Stale entries
// are replaced on regeneration; nothing prunes them in the background.
func (db *DB) SaveMixState(ctx context.Context, mix *models.FamilyMix) error {
	tracks, err := json.Marshal(mix.Tracks)
	if err != nil {
		return fmt.Errorf("failed to marshal mix tracks: %w", err)
	}
	weights, err := json.Marshal(mix.UserWeights)
	if err != nil {
		return fmt.Errorf("failed to marshal user weights: %w", err)
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO family_mix_state
		 (household_id, tracks, user_weights, generated_at, valid_until)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(household_id) DO UPDATE SET
		   tracks = excluded.tracks,
		   user_weights = excluded.user_weights,
		   generated_at = excluded.generated_at,
		   valid_until = excluded.valid_until`,
		mix.HouseholdID, string(tracks), string(weights),
		mix.GeneratedAt, mix.ValidUntil)
	if err != nil {
		return fmt.Errorf("failed to save mix state: %w", err)
	}
	return nil
}

// GetMixState returns the household's last generated mix, expired or
// not. Returns ErrMixStateNotFound when none was ever generated.
func (db *DB) GetMixState(ctx context.Context, householdID string) (*models.FamilyMix, error) {
	var (
		mix     models.FamilyMix
		tracks  string
		weights string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT household_id, tracks, user_weights, generated_at, valid_until
		 FROM family_mix_state WHERE household_id = ?`, householdID,
	).Scan(&mix.HouseholdID, &tracks, &weights, &mix.GeneratedAt, &mix.ValidUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMixStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mix state: %w", err)
	}

	if err := json.Unmarshal([]byte(tracks), &mix.Tracks); err != nil {
		return nil, fmt.Errorf("failed to parse mix tracks: %w", err)
	}
	if err := json.Unmarshal([]byte(weights), &mix.UserWeights); err != nil {
		return nil, fmt.Errorf("failed to parse user weights: %w", err)
	}
	return &mix, nil
}
