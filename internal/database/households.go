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
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/harmonia-home/harmonia/internal/models"
)

// CreateHousehold inserts the household row and the owner's membership
// row in a single transaction. Either both exist afterwards or neither.
func (db *DB) CreateHousehold(ctx context.Context, h *models.Household) error {
	settings, err := json.Marshal(h.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal household settings: %w", err)
	}

	owner := models.HouseholdMember{
		HouseholdID: h.ID,
		UserID:      h.OwnerID,
		Role:        models.RoleOwner,
		JoinedAt:    h.CreatedAt,
	}
	if len(h.Members) > 0 {
		// Caller may pre-populate the owner's display fields.
		owner.DisplayName = h.Members[0].DisplayName
		owner.AvatarURL = h.Members[0].AvatarURL
	}

	return db.withTx(ctx, "create_household", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO households (id, name, owner_id, settings, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.OwnerID, string(settings), h.CreatedAt, h.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert household: %w", err)
		}
		if err := insertMember(ctx, tx, &owner); err != nil {
			return err
		}
		return nil
	})
}

// GetHousehold fetches a household with all its members denormalized
// into a single value. Returns ErrHouseholdNotFound if absent.
func (db *DB) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	var (
		h        models.Household
		settings string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, owner_id, settings, created_at, updated_at
		 FROM households WHERE id = ?`, id,
	).Scan(&h.ID, &h.Name, &h.OwnerID, &settings, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHouseholdNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query household: %w", err)
	}

	if err := json.Unmarshal([]byte(settings), &h.Settings); err != nil {
		return nil, fmt.Errorf("failed to parse household settings: %w", err)
	}

	members, err := db.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Members = members
	return &h, nil
}

// ListMembers returns all members of a household ordered by join time,
// owner first on ties.
func (db *DB) ListMembers(ctx context.Context, householdID string) ([]models.HouseholdMember, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT household_id, user_id, role, display_name, avatar_url,
		        content_filter, time_limits, joined_at
		 FROM household_members WHERE household_id = ?
		 ORDER BY joined_at ASC, CASE role WHEN 'owner' THEN 0 ELSE 1 END ASC`,
		householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.HouseholdMember
	for rows.Next() {
		var (
			m          models.HouseholdMember
			timeLimits string
		)
		if err := rows.Scan(&m.HouseholdID, &m.UserID, &m.Role, &m.DisplayName,
			&m.AvatarURL, &m.ContentFilter, &timeLimits, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if err := json.Unmarshal([]byte(timeLimits), &m.TimeLimits); err != nil {
			return nil, fmt.Errorf("failed to parse time limits: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// AddMember inserts a membership row. Returns ErrHouseholdNotFound if
// the household is absent and ErrDuplicateMember if the pair exists.
func (db *DB) AddMember(ctx context.Context, m *models.HouseholdMember) error {
	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM households WHERE id = ?`, m.HouseholdID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHouseholdNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check household: %w", err)
	}

	return db.withTx(ctx, "add_member", func(tx *sql.Tx) error {
		return insertMember(ctx, tx, m)
	})
}

// insertMember performs the raw membership insert, mapping the unique
// constraint violation to ErrDuplicateMember.
func insertMember(ctx context.Context, tx *sql.Tx, m *models.HouseholdMember) error {
	timeLimits, err := json.Marshal(m.TimeLimits)
	if err != nil {
		return fmt.Errorf("failed to marshal time limits: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO household_members
		 (household_id, user_id, role, display_name, avatar_url, content_filter, time_limits, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.HouseholdID, m.UserID, m.Role, m.DisplayName, m.AvatarURL,
		m.ContentFilter, string(timeLimits), m.JoinedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateMember
		}
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row, reporting whether a row was
// actually removed. The owner is protected: attempting to remove the
// household's owner returns ErrOwnerProtected without deleting.
// Removing a non-member is a no-op returning (false, nil).
func (db *DB) RemoveMember(ctx context.Context, householdID, userID string) (bool, error) {
	var ownerID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT owner_id FROM households WHERE id = ?`, householdID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrHouseholdNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to query household owner: %w", err)
	}

	// Business rule, not a schema constraint: the owner row is created
	// with the household and can never be removed through this path.
	if userID == ownerID {
		return false, ErrOwnerProtected
	}

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM household_members WHERE household_id = ? AND user_id = ?`,
		householdID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// TouchHousehold bumps the household's updated_at timestamp.
func (db *DB) TouchHousehold(ctx context.Context, id string, at time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE households SET updated_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch household: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrHouseholdNotFound
	}
	return nil
}

// isUniqueConstraintError detects SQLite unique/primary key violations.
// modernc.org/sqlite wraps them in errors without an exported type, so
// string matching is the stable option here. Only uniqueness messages
// qualify; NOT NULL, CHECK, and foreign key violations must not be
// mistaken for duplicates.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
