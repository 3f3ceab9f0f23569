// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package models

import "time"

// Track identifies a piece of music with its display metadata. The
// same logical track may exist under several providers, so identity is
// the (TrackID, Provider) pair. Display fields are denormalized
// snapshots taken when the track entered Harmonia, not live catalog
// references.
type Track struct {
	TrackID    string `json:"track_id"`
	Provider   string `json:"provider"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	ArtURL     string `json:"art_url,omitempty"`
	DurationMS int    `json:"duration_ms,omitempty"`
}

// Key returns the provider-qualified identity of the track.
func (t Track) Key() string {
	return t.Provider + ":" + t.TrackID
}

// ListeningSignal is one user's accumulated signal for a track: play
// counts, like flag, and recency. It is the raw input to family mix
// candidate weighting.
type ListeningSignal struct {
	UserID     string    `json:"user_id"`
	Track      Track     `json:"track"`
	PlayCount  int       `json:"play_count"`
	Liked      bool      `json:"liked"`
	LastPlayed time.Time `json:"last_played"`
}

// MixTrack is a track selected into a family mix, annotated with the
// weight it carried and the member whose listening contributed it.
type MixTrack struct {
	Track         Track   `json:"track"`
	Weight        float64 `json:"weight"`
	ContributedBy string  `json:"contributed_by"`
}

// FamilyMix is a blended playback queue for a household.
type FamilyMix struct {
	HouseholdID string             `json:"household_id"`
	Tracks      []MixTrack         `json:"tracks"`
	UserWeights map[string]float64 `json:"user_weights"`
	GeneratedAt time.Time          `json:"generated_at"`
	ValidUntil  time.Time          `json:"valid_until"`
}

// Expired reports whether the mix has passed its validity window.
func (m *FamilyMix) Expired(now time.Time) bool {
	return !m.ValidUntil.After(now)
}

// PlaylistType classifies a shared playlist.
type PlaylistType string

const (
	// PlaylistCollaborative accepts tracks from any household member.
	PlaylistCollaborative PlaylistType = "collaborative"

	// PlaylistCurated is maintained by its creator only.
	PlaylistCurated PlaylistType = "curated"
)

// Valid reports whether the playlist type is a recognized value.
func (t PlaylistType) Valid() bool {
	return t == PlaylistCollaborative || t == PlaylistCurated
}

// SharedPlaylist is a household-scoped, multi-contributor track list,
// distinct from the generated family mix.
type SharedPlaylist struct {
	ID          string       `json:"id"`
	HouseholdID string       `json:"household_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Type        PlaylistType `json:"type"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PlaylistTrack is an ordered entry in a shared playlist. Position
// defines playback order, starting at 1 and re-sequenced on removal.
type PlaylistTrack struct {
	PlaylistID string    `json:"playlist_id"`
	Position   int       `json:"position"`
	Track      Track     `json:"track"`
	AddedBy    string    `json:"added_by"`
	AddedAt    time.Time `json:"added_at"`
}
