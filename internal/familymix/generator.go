// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package familymix generates blended playback queues for households
// and manages shared playlists.
//
// A family mix is built from every member's listening signals: each
// member's history and likes become a normalized candidate pool, the
// pools merge, and a diversity pass caps how often one artist appears.
// Generation is on demand and the result is cached per household until
// its validity window lapses; stale cache rows are overwritten in
// place, never swept.
package familymix

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
	ErrEmptyName      = errors.New("playlist name must not be empty")
	ErrInvalidType    = errors.New("unrecognized playlist type")
	ErrEmptyUserID    = errors.New("user id must not be empty")
	ErrEmptyTrack     = errors.New("track id and provider must not be empty")
	ErrNotContributor = errors.New("curated playlists accept tracks from their creator only")
)

// Generator builds family mixes and manages shared playlists.
type Generator struct {
	db  *database.DB
	cfg *config.MixConfig
	now func() time.Time
}

// NewGenerator creates a mix generator.
func NewGenerator(db *database.DB, cfg *config.MixConfig) *Generator {
	return &Generator{db: db, cfg: cfg, now: time.Now}
}

// GenerateMix builds a fresh family mix for the household and caches
// it, overwriting any prior mix state. A size of 0 or less uses the
// configured default. Households with no members or no listening
// history produce an empty mix, not an error.
func (g *Generator) GenerateMix(ctx context.Context, householdID string, size int) (*models.FamilyMix, error) {
	if size <= 0 {
		size = g.cfg.DefaultSize
	}

	household, err := g.db.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	mix := &models.FamilyMix{
		HouseholdID: householdID,
		Tracks:      []models.MixTrack{},
		UserWeights: make(map[string]float64),
		GeneratedAt: now,
		ValidUntil:  now.Add(g.cfg.CacheTTL),
	}

	pools := make([][]candidate, 0, len(household.Members))
	for _, member := range household.Members {
		signals, err := g.db.ListeningSignals(ctx, member.UserID, g.cfg.CandidatesPerUser)
		if err != nil {
			return nil, err
		}
		pool := userCandidates(member.UserID, signals, now, g.cfg.RecencyHalfLife)
		if len(pool) == 0 {
			continue
		}
		pools = append(pools, pool)
		mix.UserWeights[member.UserID] = poolMass(pool)
	}

	merged := mergePools(pools)
	for _, c := range selectDiverse(merged, size, g.cfg.MaxArtistTracks) {
		mix.Tracks = append(mix.Tracks, models.MixTrack{
			Track:         c.track,
			Weight:        c.weight,
			ContributedBy: c.userID,
		})
	}

	if err := g.db.SaveMixState(ctx, mix); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("household_id", householdID).
		Int("tracks", len(mix.Tracks)).
		Int("contributors", len(pools)).
		Msg("family mix generated")
	return mix, nil
}

// CurrentMix returns the household's cached mix, regenerating it when
// no cached mix exists or the cached one has lapsed.
func (g *Generator) CurrentMix(ctx context.Context, householdID string) (*models.FamilyMix, error) {
	mix, err := g.db.GetMixState(ctx, householdID)
	if err != nil && !errors.Is(err, database.ErrMixStateNotFound) {
		return nil, err
	}
	if mix != nil && !mix.Expired(g.now().UTC()) {
		return mix, nil
	}
	return g.GenerateMix(ctx, householdID, 0)
}

// poolMass sums a member's normalized candidate weights. After
// normalization this is 1 for any member with signals; it is recorded
// in the mix so the stored weight vector names who contributed.
func poolMass(pool []candidate) float64 {
	total := 0.0
	for _, c := range pool {
		total += c.weight
	}
	return total
}

// RecordPlay ingests a playback event into the user's listening
// signals.
func (g *Generator) RecordPlay(ctx context.Context, userID string, track models.Track) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if track.TrackID == "" || track.Provider == "" {
		return ErrEmptyTrack
	}
	return g.db.RecordPlay(ctx, userID, track, g.now().UTC())
}

// SetTrackLiked records or clears a like. Liking a track the user has
// never played still creates a signal row so the like can feed mixes.
func (g *Generator) SetTrackLiked(ctx context.Context, userID string, track models.Track, liked bool) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if track.TrackID == "" || track.Provider == "" {
		return ErrEmptyTrack
	}
	return g.db.SetTrackLiked(ctx, userID, track, liked, g.now().UTC())
}

// CreateSharedPlaylist creates a playlist in a household. An empty
// type defaults to collaborative.
func (g *Generator) CreateSharedPlaylist(ctx context.Context, householdID, name, description, createdBy string, playlistType models.PlaylistType) (*models.SharedPlaylist, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if createdBy == "" {
		return nil, ErrEmptyUserID
	}
	if playlistType == "" {
		playlistType = models.PlaylistCollaborative
	}
	if !playlistType.Valid() {
		return nil, ErrInvalidType
	}

	if _, err := g.db.GetHousehold(ctx, householdID); err != nil {
		return nil, err
	}

	now := g.now().UTC()
	p := &models.SharedPlaylist{
		ID:          uuid.New().String(),
		HouseholdID: householdID,
		Name:        name,
		Description: description,
		Type:        playlistType,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := g.db.CreatePlaylist(ctx, p); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("playlist_id", p.ID).
		Str("household_id", householdID).
		Str("type", string(playlistType)).
		Msg("shared playlist created")
	return p, nil
}

// AddToSharedPlaylist appends a track at the next position. Track
// metadata is snapshotted into the playlist row at add time. Curated
// playlists accept tracks from their creator only.
func (g *Generator) AddToSharedPlaylist(ctx context.Context, playlistID string, track models.Track, addedBy string) (*models.PlaylistTrack, error) {
	if addedBy == "" {
		return nil, ErrEmptyUserID
	}
	if track.TrackID == "" || track.Provider == "" {
		return nil, ErrEmptyTrack
	}

	p, err := g.db.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if p.Type == models.PlaylistCurated && p.CreatedBy != addedBy {
		return nil, ErrNotContributor
	}

	return g.db.AppendPlaylistTrack(ctx, playlistID, track, addedBy, g.now().UTC())
}

// RemoveFromSharedPlaylist removes the track at a position, closing
// the gap so positions stay contiguous from 1. Returns false when no
// track occupies the position.
func (g *Generator) RemoveFromSharedPlaylist(ctx context.Context, playlistID string, position int) (bool, error) {
	return g.db.RemovePlaylistTrack(ctx, playlistID, position, g.now().UTC())
}

// SharedPlaylists lists a household's playlists oldest first. A
// missing household is an error, not an empty list.
func (g *Generator) SharedPlaylists(ctx context.Context, householdID string) ([]models.SharedPlaylist, error) {
	if _, err := g.db.GetHousehold(ctx, householdID); err != nil {
		return nil, err
	}
	return g.db.ListPlaylists(ctx, householdID)
}

// SharedPlaylistTracks lists a playlist's tracks in playback order.
func (g *Generator) SharedPlaylistTracks(ctx context.Context, playlistID string) ([]models.PlaylistTrack, error) {
	if _, err := g.db.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}
	return g.db.PlaylistTracks(ctx, playlistID)
}
