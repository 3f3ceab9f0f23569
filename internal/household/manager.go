// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package household manages household lifecycle, membership, and
// per-user music preferences.
//
// The business rules live here rather than in the schema: the owner
// membership row is created atomically with the household, re-adding
// an existing member is an error, and the owner can never be removed.
package household

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harmonia-home/harmonia/internal/database"
	"github.com/harmonia-home/harmonia/internal/logging"
	"github.com/harmonia-home/harmonia/internal/models"
)

// Validation errors. Storage-level sentinels (not-found, duplicate
// member, owner protected) come from the database package.
var (
	ErrEmptyName   = errors.New("household name must not be empty")
	ErrEmptyUserID = errors.New("user id must not be empty")
	ErrInvalidRole = errors.New("role must be owner or member")
)

// Manager owns household, membership, and preference operations.
type Manager struct {
	db  *database.DB
	now func() time.Time
}

// NewManager creates a household manager.
func NewManager(db *database.DB) *Manager {
	return &Manager{db: db, now: time.Now}
}

// CreateHousehold creates a household and its owner membership row
// atomically. There is no partial state: either both rows exist
// afterwards or neither does.
func (m *Manager) CreateHousehold(ctx context.Context, name, ownerID, ownerDisplayName string) (*models.Household, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if ownerID == "" {
		return nil, ErrEmptyUserID
	}

	now := m.now().UTC()
	h := &models.Household{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	h.Members = []models.HouseholdMember{{
		HouseholdID: h.ID,
		UserID:      ownerID,
		Role:        models.RoleOwner,
		DisplayName: ownerDisplayName,
		JoinedAt:    now,
	}}

	if err := m.db.CreateHousehold(ctx, h); err != nil {
		return nil, fmt.Errorf("create household: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("household_id", h.ID).
		Str("owner_id", ownerID).
		Msg("household created")
	return h, nil
}

// GetHousehold returns the household with its full member list.
func (m *Manager) GetHousehold(ctx context.Context, id string) (*models.Household, error) {
	return m.db.GetHousehold(ctx, id)
}

// AddMember adds a user to a household. Re-adding an existing member
// fails with database.ErrDuplicateMember; it is not a no-op.
func (m *Manager) AddMember(ctx context.Context, householdID, userID string, role models.MemberRole, displayName string) (*models.HouseholdMember, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	member := &models.HouseholdMember{
		HouseholdID: householdID,
		UserID:      userID,
		Role:        role,
		DisplayName: displayName,
		JoinedAt:    m.now().UTC(),
	}
	if err := m.db.AddMember(ctx, member); err != nil {
		return nil, err
	}
	if err := m.db.TouchHousehold(ctx, householdID, member.JoinedAt); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to bump household updated_at")
	}

	logging.Ctx(ctx).Info().
		Str("household_id", householdID).
		Str("user_id", userID).
		Str("role", string(role)).
		Msg("member added")
	return member, nil
}

// RemoveMember removes a user from a household, reporting whether a
// membership row was actually deleted. Removing the owner is refused
// with database.ErrOwnerProtected; removing a non-member returns
// (false, nil).
func (m *Manager) RemoveMember(ctx context.Context, householdID, userID string) (bool, error) {
	removed, err := m.db.RemoveMember(ctx, householdID, userID)
	if err != nil {
		return false, err
	}
	if removed {
		if err := m.db.TouchHousehold(ctx, householdID, m.now().UTC()); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to bump household updated_at")
		}
		logging.Ctx(ctx).Info().
			Str("household_id", householdID).
			Str("user_id", userID).
			Msg("member removed")
	}
	return removed, nil
}

// MusicPreferences returns the user's stored preferences, or the
// documented defaults when no row exists. Reading never persists the
// defaults; the row is only created by UpdateMusicPreferences.
func (m *Manager) MusicPreferences(ctx context.Context, userID string) (models.MusicPreferences, error) {
	if userID == "" {
		return models.MusicPreferences{}, ErrEmptyUserID
	}
	stored, err := m.db.GetMusicPreferences(ctx, userID)
	if err != nil {
		return models.MusicPreferences{}, err
	}
	if stored == nil {
		return models.DefaultMusicPreferences(userID), nil
	}
	return *stored, nil
}

// UpdateMusicPreferences merges a partial update onto the user's
// current preferences (or the defaults when the row is being created)
// and persists the result. Only fields present in the patch change.
func (m *Manager) UpdateMusicPreferences(ctx context.Context, userID string, patch *models.PreferencesPatch) (models.MusicPreferences, error) {
	if userID == "" {
		return models.MusicPreferences{}, ErrEmptyUserID
	}

	current, err := m.MusicPreferences(ctx, userID)
	if err != nil {
		return models.MusicPreferences{}, err
	}

	merged := patch.Apply(current)
	merged.UserID = userID
	merged.UpdatedAt = m.now().UTC()

	if err := m.db.UpsertMusicPreferences(ctx, &merged); err != nil {
		return models.MusicPreferences{}, err
	}
	return merged, nil
}
