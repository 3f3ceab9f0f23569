// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package models defines the domain types shared across Harmonia's
// storage, manager, and API layers.
package models

import "time"

// MemberRole classifies a household member.
type MemberRole string

const (
	// RoleOwner is the household creator. Exactly one owner exists per
	// household and the owner row cannot be removed.
	RoleOwner MemberRole = "owner"

	// RoleMember is a regular household member.
	RoleMember MemberRole = "member"
)

// Valid reports whether the role is a recognized value.
func (r MemberRole) Valid() bool {
	return r == RoleOwner || r == RoleMember
}

// Household is a named group of users sharing music settings and devices.
type Household struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	OwnerID   string            `json:"owner_id"`
	Settings  HouseholdSettings `json:"settings"`
	Members   []HouseholdMember `json:"members,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// HouseholdSettings is the recognized household settings surface.
// Stored as a JSON column; unknown keys from older rows are dropped on
// the next write.
type HouseholdSettings struct {
	// QuietHoursStart/End bound automatic volume reduction, "HH:MM".
	// Empty disables quiet hours.
	QuietHoursStart string `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string `json:"quiet_hours_end,omitempty"`

	// ExplicitContentAllowed applies household-wide; per-member content
	// filters can only further restrict.
	ExplicitContentAllowed bool `json:"explicit_content_allowed"`
}

// HouseholdMember is a (household, user) membership row.
type HouseholdMember struct {
	HouseholdID   string     `json:"household_id"`
	UserID        string     `json:"user_id"`
	Role          MemberRole `json:"role"`
	DisplayName   string     `json:"display_name,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	ContentFilter string     `json:"content_filter,omitempty"`
	TimeLimits    TimeLimits `json:"time_limits"`
	JoinedAt      time.Time  `json:"joined_at"`
}

// TimeLimits bounds a member's daily listening, for parental controls.
// A zero value means unlimited.
type TimeLimits struct {
	WeekdayMinutes int `json:"weekday_minutes,omitempty"`
	WeekendMinutes int `json:"weekend_minutes,omitempty"`
}

// MusicPreferences is a user's global (not household-scoped) playback
// preference row. Lazily created: reads for users with no stored row
// return Defaults without persisting them.
type MusicPreferences struct {
	UserID           string    `json:"user_id"`
	DefaultProvider  string    `json:"default_provider"`
	DefaultVolume    int       `json:"default_volume"`
	CrossfadeEnabled bool      `json:"crossfade_enabled"`
	CrossfadeSeconds int       `json:"crossfade_seconds"`
	AudioQuality     string    `json:"audio_quality"`
	AutoplayEnabled  bool      `json:"autoplay_enabled"`
	ShareListening   bool      `json:"share_listening"`
	AllowExplicit    bool      `json:"allow_explicit"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultMusicPreferences returns the documented defaults served when
// no row exists for the user.
func DefaultMusicPreferences(userID string) MusicPreferences {
	return MusicPreferences{
		UserID:          userID,
		DefaultProvider: "local",
		DefaultVolume:   75,
		AudioQuality:    "auto",
		AutoplayEnabled: true,
		ShareListening:  true,
		AllowExplicit:   true,
	}
}

// PreferencesPatch carries a partial preferences update. Nil fields are
// left untouched; on first write the missing fields take their defaults.
type PreferencesPatch struct {
	DefaultProvider  *string `json:"default_provider,omitempty"`
	DefaultVolume    *int    `json:"default_volume,omitempty" validate:"omitempty,min=0,max=100"`
	CrossfadeEnabled *bool   `json:"crossfade_enabled,omitempty"`
	CrossfadeSeconds *int    `json:"crossfade_seconds,omitempty" validate:"omitempty,min=0,max=30"`
	AudioQuality     *string `json:"audio_quality,omitempty" validate:"omitempty,oneof=low normal high lossless auto"`
	AutoplayEnabled  *bool   `json:"autoplay_enabled,omitempty"`
	ShareListening   *bool   `json:"share_listening,omitempty"`
	AllowExplicit    *bool   `json:"allow_explicit,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p *PreferencesPatch) Empty() bool {
	return p.DefaultProvider == nil &&
		p.DefaultVolume == nil &&
		p.CrossfadeEnabled == nil &&
		p.CrossfadeSeconds == nil &&
		p.AudioQuality == nil &&
		p.AutoplayEnabled == nil &&
		p.ShareListening == nil &&
		p.AllowExplicit == nil
}

// Apply overlays the patch onto prefs and returns the result.
func (p *PreferencesPatch) Apply(prefs MusicPreferences) MusicPreferences {
	if p.DefaultProvider != nil {
		prefs.DefaultProvider = *p.DefaultProvider
	}
	if p.DefaultVolume != nil {
		prefs.DefaultVolume = *p.DefaultVolume
	}
	if p.CrossfadeEnabled != nil {
		prefs.CrossfadeEnabled = *p.CrossfadeEnabled
	}
	if p.CrossfadeSeconds != nil {
		prefs.CrossfadeSeconds = *p.CrossfadeSeconds
	}
	if p.AudioQuality != nil {
		prefs.AudioQuality = *p.AudioQuality
	}
	if p.AutoplayEnabled != nil {
		prefs.AutoplayEnabled = *p.AutoplayEnabled
	}
	if p.ShareListening != nil {
		prefs.ShareListening = *p.ShareListening
	}
	if p.AllowExplicit != nil {
		prefs.AllowExplicit = *p.AllowExplicit
	}
	return prefs
}
