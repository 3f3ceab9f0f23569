// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harmonia-home/harmonia/internal/models"
	"github.com/harmonia-home/harmonia/internal/validation"
)

type createHouseholdRequest struct {
	Name             string `json:"name" validate:"required,max=128"`
	OwnerID          string `json:"owner_id" validate:"required,max=128"`
	OwnerDisplayName string `json:"owner_display_name" validate:"omitempty,max=128"`
}

// CreateHousehold handles POST /api/v1/households.
func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	hh, err := h.households.CreateHousehold(r.Context(), req.Name, req.OwnerID, req.OwnerDisplayName)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, hh)
}

// GetHousehold handles GET /api/v1/households/{householdID}.
func (h *Handlers) GetHousehold(w http.ResponseWriter, r *http.Request) {
	hh, err := h.households.GetHousehold(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, hh)
}

type addMemberRequest struct {
	UserID      string `json:"user_id" validate:"required,max=128"`
	Role        string `json:"role" validate:"omitempty,memberrole"`
	DisplayName string `json:"display_name" validate:"omitempty,max=128"`
}

// AddMember handles POST /api/v1/households/{householdID}/members.
func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	member, err := h.households.AddMember(r.Context(),
		chi.URLParam(r, "householdID"), req.UserID, models.MemberRole(req.Role), req.DisplayName)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, member)
}

// RemoveMember handles DELETE /api/v1/households/{householdID}/members/{userID}.
func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	removed, err := h.households.RemoveMember(r.Context(),
		chi.URLParam(r, "householdID"), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !removed {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "user is not a member of this household")
		return
	}
	respond(w, r, http.StatusOK, map[string]bool{"removed": true})
}

// GetPreferences handles GET /api/v1/users/{userID}/preferences.
// Users without a stored row get the defaults; nothing is persisted
// by this read.
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.households.MusicPreferences(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, prefs)
}

// UpdatePreferences handles PATCH /api/v1/users/{userID}/preferences.
// Only fields present in the body change; everything else keeps its
// current (or default) value.
func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch models.PreferencesPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&patch); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	prefs, err := h.households.UpdateMusicPreferences(r.Context(), chi.URLParam(r, "userID"), &patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, prefs)
}
