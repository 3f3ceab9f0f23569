// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harmonia-home/harmonia/internal/devices"
	"github.com/harmonia-home/harmonia/internal/metrics"
	"github.com/harmonia-home/harmonia/internal/models"
	"github.com/harmonia-home/harmonia/internal/validation"
)

// RegisterDevice handles POST /api/v1/devices.
func (h *Handlers) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req devices.RegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	device, err := h.devices.RegisterDevice(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, device)
}

// GetDevice handles GET /api/v1/devices/{deviceID}.
func (h *Handlers) GetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.devices.GetDevice(r.Context(), chi.URLParam(r, "deviceID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, device)
}

type bindDeviceRequest struct {
	UserID      string `json:"user_id" validate:"required,max=128"`
	BindingType string `json:"binding_type" validate:"omitempty,bindingtype"`
}

// BindDevice handles POST /api/v1/devices/{deviceID}/bindings.
func (h *Handlers) BindDevice(w http.ResponseWriter, r *http.Request) {
	var req bindDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	binding, err := h.devices.BindDevice(r.Context(),
		chi.URLParam(r, "deviceID"), req.UserID, models.BindingType(req.BindingType))
	if err != nil {
		handleError(w, r, err)
		return
	}
	metrics.DeviceBindings.WithLabelValues(string(binding.Type)).Inc()
	respond(w, r, http.StatusCreated, binding)
}

type voiceSessionRequest struct {
	UserID          string `json:"user_id" validate:"required,max=128"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
}

// StartVoiceSession handles POST /api/v1/devices/{deviceID}/voice-session.
func (h *Handlers) StartVoiceSession(w http.ResponseWriter, r *http.Request) {
	var req voiceSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	binding, err := h.devices.SetVoiceActiveUser(r.Context(),
		chi.URLParam(r, "deviceID"), req.UserID,
		time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		handleError(w, r, err)
		return
	}
	metrics.VoiceSessionsStarted.Inc()
	respond(w, r, http.StatusCreated, binding)
}

// ActiveUser handles GET /api/v1/devices/{deviceID}/active-user.
// An unbound device is a normal condition, reported in the payload
// rather than as an error status.
func (h *Handlers) ActiveUser(w http.ResponseWriter, r *http.Request) {
	userID, bound, err := h.devices.ActiveUserForDevice(r.Context(), chi.URLParam(r, "deviceID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"bound":   bound,
	})
}

// DeviceBindings handles GET /api/v1/devices/{deviceID}/bindings.
func (h *Handlers) DeviceBindings(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.devices.DeviceBindings(r.Context(), chi.URLParam(r, "deviceID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, bindings)
}

// UserDevices handles GET /api/v1/users/{userID}/devices.
func (h *Handlers) UserDevices(w http.ResponseWriter, r *http.Request) {
	devs, err := h.devices.UserDevices(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, devs)
}

type assignDeviceRequest struct {
	HouseholdID string `json:"household_id" validate:"required"`
}

// AssignDevice handles PUT /api/v1/devices/{deviceID}/household.
func (h *Handlers) AssignDevice(w http.ResponseWriter, r *http.Request) {
	var req assignDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	if err := h.devices.AssignToHousehold(r.Context(), chi.URLParam(r, "deviceID"), req.HouseholdID); err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, map[string]bool{"assigned": true})
}
