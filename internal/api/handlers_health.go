// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// HealthLive handles GET /api/v1/health/live. Liveness means the
// process is up; it never touches the database.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(startTime).String(),
	})
}

// HealthReady handles GET /api/v1/health/ready. Readiness requires a
// reachable database.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternalError, "database unavailable")
		return
	}
	respond(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
