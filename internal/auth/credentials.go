// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/harmonia-home/harmonia/internal/config"
)

// CredentialChecker verifies the admin login against the configured
// bcrypt hash.
type CredentialChecker struct {
	username     string
	passwordHash []byte
}

// NewCredentialChecker creates a checker from the security config.
func NewCredentialChecker(cfg *config.SecurityConfig) *CredentialChecker {
	return &CredentialChecker{
		username:     cfg.AdminUsername,
		passwordHash: []byte(cfg.AdminPasswordHash),
	}
}

// Verify checks a username/password pair, returning
// ErrInvalidCredentials on any mismatch. The username comparison is
// constant-time and the bcrypt comparison always runs, so timing does
// not reveal whether the username matched.
func (c *CredentialChecker) Verify(username, password string) error {
	if len(c.passwordHash) == 0 {
		return ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password))

	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword bcrypt-hashes a password for storage in configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
