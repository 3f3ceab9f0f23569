// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package devices manages playback device registration and device-user
// bindings.
//
// Binding resolution is deterministic: the active user for a device is
// the non-expired binding with the lowest priority value, breaking ties
// by the most recent bound_at. Voice sessions are temporary bindings at
// priority 0, so they outrank every standing binding until they lapse.
// Expired bindings are excluded at query time; nothing sweeps them in
// the background.
package devices

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harmonia-home/harmonia/internal/config"
	"github.com/harmonia-home/harmonia/internal/database"
	"github.com/harmonia-home/harmonia/internal/logging"
	"github.com/harmonia-home/harmonia/internal/models"
)

// Validation errors. Storage-level sentinels come from the database
// package.
var (
	ErrEmptyName       = errors.New("device name must not be empty")
	ErrEmptyUserID     = errors.New("user id must not be empty")
	ErrInvalidType     = errors.New("unrecognized device type")
	ErrInvalidBinding  = errors.New("unrecognized binding type")
	ErrInvalidDuration = errors.New("voice session duration must be positive")
)

// Manager owns device registration and binding operations.
type Manager struct {
	db  *database.DB
	cfg *config.DevicesConfig
	now func() time.Time
}

// NewManager creates a device manager.
func NewManager(db *database.DB, cfg *config.DevicesConfig) *Manager {
	return &Manager{db: db, cfg: cfg, now: time.Now}
}

// RegistrationRequest describes a device to register.
type RegistrationRequest struct {
	Name         string            `json:"name" validate:"required"`
	Type         models.DeviceType `json:"type" validate:"required"`
	Manufacturer string            `json:"manufacturer,omitempty"`
	Model        string            `json:"model,omitempty"`
	Room         string            `json:"room,omitempty"`
	Capabilities []string          `json:"capabilities,omitempty"`
	Address      string            `json:"address,omitempty"`
	HouseholdID  string            `json:"household_id,omitempty"`
}

// RegisterDevice registers a playback device. New devices come up
// online with last_seen set to the registration time; an empty
// capability list gets the audio default.
func (m *Manager) RegisterDevice(ctx context.Context, req *RegistrationRequest) (*models.Device, error) {
	if req.Name == "" {
		return nil, ErrEmptyName
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	caps := req.Capabilities
	if len(caps) == 0 {
		caps = models.DefaultCapabilities
	}

	now := m.now().UTC()
	d := &models.Device{
		ID:           uuid.New().String(),
		HouseholdID:  req.HouseholdID,
		Name:         req.Name,
		Type:         req.Type,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Room:         req.Room,
		Capabilities: caps,
		Address:      req.Address,
		Online:       true,
		LastSeen:     now,
		CreatedAt:    now,
	}
	if err := m.db.CreateDevice(ctx, d); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("device_id", d.ID).
		Str("type", string(d.Type)).
		Str("name", d.Name).
		Msg("device registered")
	return d, nil
}

// GetDevice returns a device by ID.
func (m *Manager) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	return m.db.GetDevice(ctx, deviceID)
}

// AssignToHousehold attaches a device to a household.
func (m *Manager) AssignToHousehold(ctx context.Context, deviceID, householdID string) error {
	return m.db.AssignDeviceToHousehold(ctx, deviceID, householdID)
}

// BindDevice creates or replaces a standing binding between a device
// and a user. An empty binding type defaults to primary. Standing
// bindings never expire and sit at the standing priority, below any
// active voice session.
func (m *Manager) BindDevice(ctx context.Context, deviceID, userID string, bindingType models.BindingType) (*models.DeviceBinding, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if bindingType == "" {
		bindingType = models.BindingPrimary
	}
	if bindingType == models.BindingTemporary || !bindingType.Valid() {
		return nil, ErrInvalidBinding
	}

	b := &models.DeviceBinding{
		DeviceID: deviceID,
		UserID:   userID,
		Type:     bindingType,
		Priority: models.PriorityStanding,
		BoundAt:  m.now().UTC(),
	}
	if err := m.db.UpsertBinding(ctx, b); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("device_id", deviceID).
		Str("user_id", userID).
		Str("binding_type", string(bindingType)).
		Msg("device bound")
	return b, nil
}

// SetVoiceActiveUser records a voice-identified user on a device as a
// temporary binding. The binding outranks all standing bindings and
// lapses after the given duration; a non-positive duration falls back
// to the configured default session length.
func (m *Manager) SetVoiceActiveUser(ctx context.Context, deviceID, userID string, duration time.Duration) (*models.DeviceBinding, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if duration <= 0 {
		duration = time.Duration(m.cfg.DefaultVoiceSessionMinutes) * time.Minute
	}

	now := m.now().UTC()
	expires := now.Add(duration)
	b := &models.DeviceBinding{
		DeviceID:  deviceID,
		UserID:    userID,
		Type:      models.BindingTemporary,
		Priority:  models.PriorityTemporary,
		BoundAt:   now,
		ExpiresAt: &expires,
	}
	if err := m.db.UpsertBinding(ctx, b); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("device_id", deviceID).
		Str("user_id", userID).
		Time("expires_at", expires).
		Msg("voice session started")
	return b, nil
}

// ActiveUserForDevice resolves which user's preferences and history a
// device should play against right now. The second return reports
// whether any non-expired binding exists; (_, false, nil) means the
// device is registered but currently unbound.
func (m *Manager) ActiveUserForDevice(ctx context.Context, deviceID string) (string, bool, error) {
	userID, err := m.db.ActiveUserForDevice(ctx, deviceID, m.now().UTC())
	if err != nil {
		return "", false, err
	}
	return userID, userID != "", nil
}

// DeviceBindings lists all bindings on a device, including expired
// ones. Callers that need only live bindings should check Expired.
func (m *Manager) DeviceBindings(ctx context.Context, deviceID string) ([]models.DeviceBinding, error) {
	return m.db.BindingsForDevice(ctx, deviceID)
}

// UserDevices lists the devices a user holds any binding on,
// regardless of whether that binding currently wins resolution.
func (m *Manager) UserDevices(ctx context.Context, userID string) ([]models.Device, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return m.db.DevicesForUser(ctx, userID)
}
