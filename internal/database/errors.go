// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import "errors"

// Sentinel errors for expected failure modes. Callers branch on these
// with errors.Is; anything else is an unexpected datastore error.
var (
	// ErrHouseholdNotFound indicates the household does not exist.
	ErrHouseholdNotFound = errors.New("household not found")

	// ErrDuplicateMember indicates the (household, user) membership
	// already exists. Re-adding a member is an error, not a no-op.
	ErrDuplicateMember = errors.New("user is already a member of this household")

	// ErrOwnerProtected indicates an attempt to remove the household
	// owner, which no code path is allowed to do.
	ErrOwnerProtected = errors.New("household owner cannot be removed")

	// ErrDeviceNotFound indicates the device does not exist. Operations
	// on missing devices fail; they never create rows implicitly.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrPlaylistNotFound indicates the shared playlist does not exist.
	ErrPlaylistNotFound = errors.New("shared playlist not found")

	// ErrMixStateNotFound indicates no cached mix exists for the household.
	ErrMixStateNotFound = errors.New("no cached mix for household")
)
