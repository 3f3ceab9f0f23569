// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"errors"
	"net/http"

	"github.com/harmonia-home/harmonia/internal/database"
	"github.com/harmonia-home/harmonia/internal/devices"
	"github.com/harmonia-home/harmonia/internal/familymix"
	"github.com/harmonia-home/harmonia/internal/household"
	"github.com/harmonia-home/harmonia/internal/logging"
)

// handleError maps manager and storage errors to HTTP responses.
// Sentinels get their specific status; anything unrecognized is a 500
// with the detail kept out of the response body.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrHouseholdNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "household not found")
	case errors.Is(err, database.ErrDeviceNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "device not found")
	case errors.Is(err, database.ErrPlaylistNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "playlist not found")
	case errors.Is(err, database.ErrDuplicateMember):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "user is already a member of this household")
	case errors.Is(err, database.ErrOwnerProtected):
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "the household owner cannot be removed")
	case errors.Is(err, familymix.ErrNotContributor):
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "curated playlists accept tracks from their creator only")
	case isValidationError(err):
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "an internal error occurred")
	}
}

// isValidationError reports whether err is one of the managers'
// input validation sentinels.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		household.ErrEmptyName,
		household.ErrEmptyUserID,
		household.ErrInvalidRole,
		devices.ErrEmptyName,
		devices.ErrEmptyUserID,
		devices.ErrInvalidType,
		devices.ErrInvalidBinding,
		devices.ErrInvalidDuration,
		familymix.ErrEmptyName,
		familymix.ErrInvalidType,
		familymix.ErrEmptyUserID,
		familymix.ErrEmptyTrack,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
