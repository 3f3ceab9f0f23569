// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValidWithAuthDisabled(t *testing.T) {
	cfg := Default()
	cfg.Security.AuthDisabled = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() on defaults = %v", err)
	}
}

func TestDefaultRequiresJWTSecret(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing jwt_secret with auth enabled")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("error %q does not mention jwt_secret", err)
	}
}

func TestValidate(t *testing.T) {
	secret := strings.Repeat("s", 32)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid with secret",
			mutate: func(c *Config) { c.Security.JWTSecret = secret },
		},
		{
			name: "short jwt secret",
			mutate: func(c *Config) {
				c.Security.JWTSecret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "bad port",
			mutate: func(c *Config) {
				c.Security.JWTSecret = secret
				c.Server.Port = 0
			},
			wantErr: "server.port",
		},
		{
			name: "empty database path",
			mutate: func(c *Config) {
				c.Security.JWTSecret = secret
				c.Database.Path = ""
			},
			wantErr: "database.path",
		},
		{
			name: "zero mix size",
			mutate: func(c *Config) {
				c.Security.JWTSecret = secret
				c.Mix.DefaultSize = 0
			},
			wantErr: "mix.default_size",
		},
		{
			name: "zero artist cap",
			mutate: func(c *Config) {
				c.Security.JWTSecret = secret
				c.Mix.MaxArtistTracks = 0
			},
			wantErr: "mix.max_artist_tracks",
		},
		{
			name: "backup enabled without interval",
			mutate: func(c *Config) {
				c.Security.JWTSecret = secret
				c.Backup.Enabled = true
				c.Backup.Interval = 0
			},
			wantErr: "backup.interval",
		},
		{
			name: "unknown log level",
			mutate: func(c *Config) {
				c.Security.JWTSecret = secret
				c.Logging.Level = "verbose"
			},
			wantErr: "logging.level",
		},
		{
			name: "unknown log format",
			mutate: func(c *Config) {
				c.Security.JWTSecret = secret
				c.Logging.Format = "xml"
			},
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HARMONIA_SERVER_PORT", "server.port"},
		{"HARMONIA_DATABASE_PATH", "database.path"},
		{"HARMONIA_SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"HARMONIA_MIX_MAX_ARTIST_TRACKS", "mix.max_artist_tracks"},
		{"HARMONIA_LOGGING_LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
security:
  auth_disabled: true
mix:
  default_size: 12
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HARMONIA_SERVER_PORT", "9001") // env beats file
	t.Setenv("HARMONIA_DATABASE_PATH", filepath.Join(dir, "test.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("Server.Port = %d, want env override 9001", cfg.Server.Port)
	}
	if cfg.Mix.DefaultSize != 12 {
		t.Errorf("Mix.DefaultSize = %d, want file value 12", cfg.Mix.DefaultSize)
	}
	// Untouched values keep defaults
	if cfg.Mix.MaxArtistTracks != 3 {
		t.Errorf("Mix.MaxArtistTracks = %d, want default 3", cfg.Mix.MaxArtistTracks)
	}
	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %s, want default 30s", cfg.Server.Timeout)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HARMONIA_SECURITY_AUTH_DISABLED", "true")
	t.Setenv("HARMONIA_SECURITY_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}
