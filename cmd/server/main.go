// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package main is the entry point for the Harmonia server.
//
// Harmonia coordinates music playback for a household: shared member
// profiles and preferences, speaker-to-user bindings (including
// short-lived voice sessions), blended family mixes, and shared
// playlists. State lives in a single SQLite database.
//
// # Startup order
//
//  1. Configuration: layered Koanf v2 sources (defaults, YAML file,
//     HARMONIA_* environment variables)
//  2. Logging: global zerolog logger
//  3. Database: SQLite via modernc.org/sqlite, schema migrated on open
//  4. Domain managers: households, devices, family mix generator
//  5. Authentication: JWT bearer auth, unless security.auth_disabled
//  6. HTTP server: chi REST API under suture supervision
//  7. Backup scheduler (optional): periodic SQLite snapshots
//
// # Signal handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the supervisor tree
// stops the HTTP server, in-flight requests get 10 seconds to drain,
// then the database is closed.
//
// # Example
//
//	export HARMONIA_DATABASE_PATH=/data/harmonia.db
//	export HARMONIA_SECURITY_AUTH_DISABLED=true  # development only
//	./harmonia
//
// Production with JWT:
//
//	export HARMONIA_SECURITY_JWT_SECRET=$(openssl rand -base64 32)
//	export HARMONIA_SECURITY_ADMIN_USERNAME=admin
//	export HARMONIA_SECURITY_ADMIN_PASSWORD_HASH='$2a$10$...'
//	./harmonia
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/harmonia-home/harmonia/internal/api"
	"github.com/harmonia-home/harmonia/internal/auth"
	"github.com/harmonia-home/harmonia/internal/backup"
	"github.com/harmonia-home/harmonia/internal/config"
	"github.com/harmonia-home/harmonia/internal/database"
	"github.com/harmonia-home/harmonia/internal/devices"
	"github.com/harmonia-home/harmonia/internal/familymix"
	"github.com/harmonia-home/harmonia/internal/household"
	"github.com/harmonia-home/harmonia/internal/logging"
	"github.com/harmonia-home/harmonia/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so the default logger reports this.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("auth_disabled", cfg.Security.AuthDisabled).
		Msg("Starting Harmonia")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	households := household.NewManager(db)
	devs := devices.NewManager(db, &cfg.Devices)
	mixes := familymix.NewGenerator(db, &cfg.Mix)

	var jwtManager *auth.JWTManager
	var credentials *auth.CredentialChecker
	if cfg.Security.AuthDisabled {
		logging.Warn().Msg("Authentication is DISABLED (security.auth_disabled=true)")
		logging.Warn().Msg("All endpoints are publicly accessible. Use only on trusted networks.")
	} else {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		credentials = auth.NewCredentialChecker(&cfg.Security)
		logging.Info().Msg("JWT authentication enabled")
	}

	handlers := api.NewHandlers(db, households, devs, mixes, jwtManager, credentials)
	router := api.NewRouter(cfg, handlers, jwtManager)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	httpService := supervisor.NewHTTPService(&cfg.Server, router)
	tree.AddAPIService(httpService)
	logging.Info().Str("service", httpService.String()).Msg("HTTP server added to supervisor tree")

	if cfg.Backup.Enabled {
		backupManager := backup.NewManager(&cfg.Backup, db)
		tree.AddMaintenanceService(backupManager)
		logging.Info().
			Str("dir", cfg.Backup.Dir).
			Dur("interval", cfg.Backup.Interval).
			Int("keep", cfg.Backup.Keep).
			Msg("Backup scheduler added to supervisor tree")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Harmonia stopped gracefully")
}
