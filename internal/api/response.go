// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package api exposes Harmonia's HTTP interface: households and
// membership, per-user music preferences, device bindings, listening
// signals, family mixes, and shared playlists, all under /api/v1.
//
// Every endpoint responds with the models.APIResponse envelope.
// Storage sentinel errors are translated to HTTP status codes in one
// place (errors.go) so handlers stay thin.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/harmonia-home/harmonia/internal/logging"
	"github.com/harmonia-home/harmonia/internal/models"
)

// Error codes carried in the response envelope.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// respond writes a success envelope with the given status code.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondCached(w, r, status, data, false)
}

// respondCached is respond with the cached metadata flag, used by the
// mix endpoints to report cache hits.
func respondCached(w http.ResponseWriter, r *http.Request, status int, data interface{}, cached bool) {
	writeJSON(w, r, status, models.APIResponse{
		Status: "ok",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Cached:    cached,
		},
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondErrorDetails(w, r, status, code, message, nil)
}

func respondErrorDetails(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}) {
	writeJSON(w, r, status, models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// decodeJSON parses a request body into dst, limiting the body size.
func decodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
