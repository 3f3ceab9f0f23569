// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/harmonia-home/harmonia/internal/metrics"
	"github.com/harmonia-home/harmonia/internal/models"
	"github.com/harmonia-home/harmonia/internal/validation"
)

type trackPayload struct {
	TrackID    string `json:"track_id" validate:"required,max=256"`
	Provider   string `json:"provider" validate:"required,max=64"`
	Title      string `json:"title" validate:"omitempty,max=512"`
	Artist     string `json:"artist" validate:"omitempty,max=512"`
	Album      string `json:"album" validate:"omitempty,max=512"`
	ArtURL     string `json:"art_url" validate:"omitempty,url,max=2048"`
	DurationMS int    `json:"duration_ms" validate:"omitempty,min=0"`
}

func (p trackPayload) track() models.Track {
	return models.Track{
		TrackID:    p.TrackID,
		Provider:   p.Provider,
		Title:      p.Title,
		Artist:     p.Artist,
		Album:      p.Album,
		ArtURL:     p.ArtURL,
		DurationMS: p.DurationMS,
	}
}

// RecordPlay handles POST /api/v1/users/{userID}/plays.
func (h *Handlers) RecordPlay(w http.ResponseWriter, r *http.Request) {
	var req trackPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	if err := h.mixes.RecordPlay(r.Context(), chi.URLParam(r, "userID"), req.track()); err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, map[string]bool{"recorded": true})
}

type likeRequest struct {
	trackPayload
	Liked bool `json:"liked"`
}

// SetTrackLiked handles PUT /api/v1/users/{userID}/likes.
func (h *Handlers) SetTrackLiked(w http.ResponseWriter, r *http.Request) {
	var req likeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	if err := h.mixes.SetTrackLiked(r.Context(), chi.URLParam(r, "userID"), req.track(), req.Liked); err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, map[string]bool{"liked": req.Liked})
}

// GenerateMix handles POST /api/v1/households/{householdID}/mix.
// Always generates fresh, overwriting the cached mix. An optional
// ?size= query bounds the mix length.
func (h *Handlers) GenerateMix(w http.ResponseWriter, r *http.Request) {
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "size must be an integer between 1 and 100")
			return
		}
		size = parsed
	}

	start := time.Now()
	mix, err := h.mixes.GenerateMix(r.Context(), chi.URLParam(r, "householdID"), size)
	if err != nil {
		metrics.RecordMixGeneration("error", 0, 0)
		handleError(w, r, err)
		return
	}
	metrics.RecordMixGeneration("fresh", len(mix.Tracks), time.Since(start))
	respond(w, r, http.StatusOK, mix)
}

// GetMix handles GET /api/v1/households/{householdID}/mix, serving
// the cached mix when still valid and regenerating otherwise.
func (h *Handlers) GetMix(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	mix, err := h.mixes.CurrentMix(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		metrics.RecordMixGeneration("error", 0, 0)
		handleError(w, r, err)
		return
	}

	cached := mix.GeneratedAt.Before(start)
	if cached {
		metrics.RecordMixGeneration("cached", 0, 0)
	} else {
		metrics.RecordMixGeneration("fresh", len(mix.Tracks), time.Since(start))
	}
	respondCached(w, r, http.StatusOK, mix, cached)
}

type createPlaylistRequest struct {
	Name        string `json:"name" validate:"required,max=256"`
	Description string `json:"description" validate:"omitempty,max=1024"`
	CreatedBy   string `json:"created_by" validate:"required,max=128"`
	Type        string `json:"type" validate:"omitempty,playlisttype"`
}

// CreatePlaylist handles POST /api/v1/households/{householdID}/playlists.
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	playlist, err := h.mixes.CreateSharedPlaylist(r.Context(),
		chi.URLParam(r, "householdID"), req.Name, req.Description, req.CreatedBy,
		models.PlaylistType(req.Type))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, playlist)
}

// ListPlaylists handles GET /api/v1/households/{householdID}/playlists.
func (h *Handlers) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.mixes.SharedPlaylists(r.Context(), chi.URLParam(r, "householdID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, playlists)
}

type addPlaylistTrackRequest struct {
	trackPayload
	AddedBy string `json:"added_by" validate:"required,max=128"`
}

// AddPlaylistTrack handles POST /api/v1/playlists/{playlistID}/tracks.
func (h *Handlers) AddPlaylistTrack(w http.ResponseWriter, r *http.Request) {
	var req addPlaylistTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error())
		return
	}

	entry, err := h.mixes.AddToSharedPlaylist(r.Context(),
		chi.URLParam(r, "playlistID"), req.track(), req.AddedBy)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, entry)
}

// PlaylistTracks handles GET /api/v1/playlists/{playlistID}/tracks.
func (h *Handlers) PlaylistTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.mixes.SharedPlaylistTracks(r.Context(), chi.URLParam(r, "playlistID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, tracks)
}

// RemovePlaylistTrack handles DELETE /api/v1/playlists/{playlistID}/tracks/{position}.
func (h *Handlers) RemovePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil || position < 1 {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "position must be a positive integer")
		return
	}

	removed, err := h.mixes.RemoveFromSharedPlaylist(r.Context(), chi.URLParam(r, "playlistID"), position)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !removed {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "no track at that position")
		return
	}
	respond(w, r, http.StatusOK, map[string]bool{"removed": true})
}
