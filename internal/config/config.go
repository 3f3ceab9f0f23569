// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package config loads and validates Harmonia configuration from
// layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Harmonia service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Mix      MixConfig      `koanf:"mix"`
	Devices  DevicesConfig  `koanf:"devices"`
	Backup   BackupConfig   `koanf:"backup"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	// Path is the SQLite database file. ":memory:" is accepted for tests.
	Path string `koanf:"path"`

	// BusyTimeout is the SQLite busy_timeout pragma value.
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// SecurityConfig holds API authentication settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required when auth is enabled.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout bounds issued token lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminUsername and AdminPasswordHash (bcrypt) gate the login endpoint.
	AdminUsername     string `koanf:"admin_username"`
	AdminPasswordHash string `koanf:"admin_password_hash"`

	// AuthDisabled turns off bearer auth entirely. Intended for
	// development and for single-user deployments behind a trusted proxy.
	AuthDisabled bool `koanf:"auth_disabled"`

	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// MixConfig tunes the family mix generator.
type MixConfig struct {
	// DefaultSize is the mix length when the caller does not specify one.
	DefaultSize int `koanf:"default_size"`

	// MaxArtistTracks caps any single artist's appearances in a mix.
	MaxArtistTracks int `koanf:"max_artist_tracks"`

	// CandidatesPerUser bounds how many history/like rows feed each
	// member's candidate list.
	CandidatesPerUser int `koanf:"candidates_per_user"`

	// CacheTTL is the validity window for a generated mix.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// RecencyHalfLife controls the exponential decay of play recency
	// in candidate weighting.
	RecencyHalfLife time.Duration `koanf:"recency_half_life"`
}

// DevicesConfig tunes device binding behavior.
type DevicesConfig struct {
	// DefaultVoiceSessionMinutes is used when a voice session request
	// does not carry an explicit duration.
	DefaultVoiceSessionMinutes int `koanf:"default_voice_session_minutes"`
}

// BackupConfig tunes scheduled database snapshots.
type BackupConfig struct {
	// Enabled turns the backup scheduler on.
	Enabled bool `koanf:"enabled"`

	// Dir is the directory snapshots are written to.
	Dir string `koanf:"dir"`

	// Interval is the time between scheduled snapshots.
	Interval time.Duration `koanf:"interval"`

	// Keep is how many snapshots are retained; older ones are pruned.
	Keep int `koanf:"keep"`

	// Compress gzips snapshots after creation.
	Compress bool `koanf:"compress"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config with all default values applied. Defaults
// are loaded first, then overridden by the config file and env vars.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8094,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:        "/data/harmonia.db",
			BusyTimeout: 5 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			AuthDisabled:    false,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Mix: MixConfig{
			DefaultSize:       20,
			MaxArtistTracks:   3,
			CandidatesPerUser: 50,
			CacheTTL:          30 * time.Minute,
			RecencyHalfLife:   7 * 24 * time.Hour,
		},
		Devices: DevicesConfig{
			DefaultVoiceSessionMinutes: 30,
		},
		Backup: BackupConfig{
			Enabled:  false,
			Dir:      "/data/backups",
			Interval: 24 * time.Hour,
			Keep:     7,
			Compress: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for inconsistencies. It is called
// by Load; direct construction in tests may call it explicitly.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if !c.Security.AuthDisabled {
		if c.Security.JWTSecret == "" {
			return fmt.Errorf("security.jwt_secret is required unless security.auth_disabled is set")
		}
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
		}
	}
	if c.Mix.DefaultSize <= 0 {
		return fmt.Errorf("mix.default_size must be positive, got %d", c.Mix.DefaultSize)
	}
	if c.Mix.MaxArtistTracks <= 0 {
		return fmt.Errorf("mix.max_artist_tracks must be positive, got %d", c.Mix.MaxArtistTracks)
	}
	if c.Mix.CandidatesPerUser <= 0 {
		return fmt.Errorf("mix.candidates_per_user must be positive, got %d", c.Mix.CandidatesPerUser)
	}
	if c.Mix.RecencyHalfLife <= 0 {
		return fmt.Errorf("mix.recency_half_life must be positive, got %s", c.Mix.RecencyHalfLife)
	}
	if c.Devices.DefaultVoiceSessionMinutes <= 0 {
		return fmt.Errorf("devices.default_voice_session_minutes must be positive, got %d", c.Devices.DefaultVoiceSessionMinutes)
	}
	if c.Backup.Enabled {
		if c.Backup.Dir == "" {
			return fmt.Errorf("backup.dir must not be empty when backups are enabled")
		}
		if c.Backup.Interval <= 0 {
			return fmt.Errorf("backup.interval must be positive, got %s", c.Backup.Interval)
		}
		if c.Backup.Keep <= 0 {
			return fmt.Errorf("backup.keep must be positive, got %d", c.Backup.Keep)
		}
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a recognized level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
