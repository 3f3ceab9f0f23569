// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package models

import "time"

// DeviceType classifies a playback device.
type DeviceType string

const (
	DeviceSpeaker  DeviceType = "speaker"
	DeviceDisplay  DeviceType = "display"
	DeviceTV       DeviceType = "tv"
	DeviceMobile   DeviceType = "mobile"
	DeviceComputer DeviceType = "computer"
)

// Valid reports whether the device type is a recognized value.
func (t DeviceType) Valid() bool {
	switch t {
	case DeviceSpeaker, DeviceDisplay, DeviceTV, DeviceMobile, DeviceComputer:
		return true
	}
	return false
}

// BindingType classifies a device-user binding.
type BindingType string

const (
	// BindingPrimary is a standing binding for the device's main user.
	BindingPrimary BindingType = "primary"

	// BindingSecondary is a standing binding for additional users.
	BindingSecondary BindingType = "secondary"

	// BindingTemporary is a time-boxed binding created by voice
	// activation. It always outranks standing bindings until expiry.
	BindingTemporary BindingType = "temporary"
)

// Valid reports whether the binding type is a recognized value.
func (t BindingType) Valid() bool {
	return t == BindingPrimary || t == BindingSecondary || t == BindingTemporary
}

// Binding priorities. Lower value wins.
const (
	// PriorityTemporary makes voice sessions outrank standing bindings.
	PriorityTemporary = 0

	// PriorityStanding is the default for primary/secondary bindings.
	PriorityStanding = 1
)

// Device is a registered playback endpoint. HouseholdID is empty for
// devices not yet assigned to a household.
type Device struct {
	ID           string     `json:"id"`
	HouseholdID  string     `json:"household_id,omitempty"`
	Name         string     `json:"name"`
	Type         DeviceType `json:"type"`
	Manufacturer string     `json:"manufacturer,omitempty"`
	Model        string     `json:"model,omitempty"`
	Room         string     `json:"room,omitempty"`
	Capabilities []string   `json:"capabilities"`
	Address      string     `json:"address,omitempty"`
	Online       bool       `json:"online"`
	LastSeen     time.Time  `json:"last_seen"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DefaultCapabilities is applied to devices registered without an
// explicit capability list.
var DefaultCapabilities = []string{"audio"}

// DeviceBinding associates a device with a user. A device may carry
// several bindings; the active user is resolved at query time from the
// non-expired binding with the lowest priority value.
type DeviceBinding struct {
	DeviceID  string      `json:"device_id"`
	UserID    string      `json:"user_id"`
	Type      BindingType `json:"binding_type"`
	Priority  int         `json:"priority"`
	BoundAt   time.Time   `json:"bound_at"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
}

// Expired reports whether the binding has lapsed at the given instant.
// Bindings without an expiry never lapse.
func (b *DeviceBinding) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && !b.ExpiresAt.After(now)
}
