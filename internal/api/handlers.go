// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package api

import (
	"github.com/harmonia-home/harmonia/internal/auth"
	"github.com/harmonia-home/harmonia/internal/database"
	"github.com/harmonia-home/harmonia/internal/devices"
	"github.com/harmonia-home/harmonia/internal/familymix"
	"github.com/harmonia-home/harmonia/internal/household"
)

// Handlers carries the managers every endpoint dispatches to.
type Handlers struct {
	db          *database.DB
	households  *household.Manager
	devices     *devices.Manager
	mixes       *familymix.Generator
	jwt         *auth.JWTManager
	credentials *auth.CredentialChecker
}

// NewHandlers wires the handler set. jwt and credentials may be nil
// when auth is disabled.
func NewHandlers(
	db *database.DB,
	households *household.Manager,
	devs *devices.Manager,
	mixes *familymix.Generator,
	jwt *auth.JWTManager,
	credentials *auth.CredentialChecker,
) *Handlers {
	return &Handlers{
		db:          db,
		households:  households,
		devices:     devs,
		mixes:       mixes,
		jwt:         jwt,
		credentials: credentials,
	}
}
