// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"net/http"

	"github.com/harmonia-home/harmonia/internal/metrics"
	"github.com/harmonia-home/harmonia/internal/validation"
)

type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=256"`
}

// Login handles POST /api/v1/auth/login, exchanging the admin
// credential for a bearer token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if h.jwt == nil || h.credentials == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "authentication is disabled")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	if err := h.credentials.Verify(req.Username, req.Password); err != nil {
		metrics.RecordLogin(false)
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(req.Username, "admin")
	if err != nil {
		handleError(w, r, err)
		return
	}

	metrics.RecordLogin(true)
	respond(w, r, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_in": int(h.jwt.TokenTimeout().Seconds()),
	})
}
