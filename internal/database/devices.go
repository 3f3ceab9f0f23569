// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/harmonia-home/harmonia/internal/models"
)

// CreateDevice inserts a device row. Every call creates a new device;
// there is no deduplication by name or room.
func (db *DB) CreateDevice(ctx context.Context, d *models.Device) error {
	capabilities, err := json.Marshal(d.Capabilities)
	if err != nil {
		return fmt.Errorf("failed to marshal capabilities: %w", err)
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO devices
		 (id, household_id, name, type, manufacturer, model, room,
		  capabilities, address, online, last_seen, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.HouseholdID, d.Name, d.Type, d.Manufacturer, d.Model, d.Room,
		string(capabilities), d.Address, d.Online, d.LastSeen, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}
	return nil
}

// GetDevice fetches a device by ID. Returns ErrDeviceNotFound if absent.
func (db *DB) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, household_id, name, type, manufacturer, model, room,
		        capabilities, address, online, last_seen, created_at
		 FROM devices WHERE id = ?`, id)
	return scanDevice(row)
}

// scanDevice reads one device row.
func scanDevice(row *sql.Row) (*models.Device, error) {
	var (
		d            models.Device
		capabilities string
	)
	err := row.Scan(&d.ID, &d.HouseholdID, &d.Name, &d.Type, &d.Manufacturer,
		&d.Model, &d.Room, &capabilities, &d.Address, &d.Online,
		&d.LastSeen, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan device: %w", err)
	}
	if err := json.Unmarshal([]byte(capabilities), &d.Capabilities); err != nil {
		return nil, fmt.Errorf("failed to parse capabilities: %w", err)
	}
	return &d, nil
}

// deviceExists verifies the device row is present.
func (db *DB) deviceExists(ctx context.Context, deviceID string) error {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM devices WHERE id = ?`, deviceID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDeviceNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check device: %w", err)
	}
	return nil
}

// UpsertBinding creates or replaces the (device, user) binding row.
// Returns ErrDeviceNotFound for a missing device; bindings are never
// created for devices that do not exist.
func (db *DB) UpsertBinding(ctx context.Context, b *models.DeviceBinding) error {
	if err := db.deviceExists(ctx, b.DeviceID); err != nil {
		return err
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO device_bindings
		 (device_id, user_id, binding_type, priority, bound_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(device_id, user_id) DO UPDATE SET
		   binding_type = excluded.binding_type,
		   priority = excluded.priority,
		   bound_at = excluded.bound_at,
		   expires_at = excluded.expires_at`,
		b.DeviceID, b.UserID, b.Type, b.Priority, b.BoundAt, nullTime(b.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to upsert binding: %w", err)
	}
	return nil
}

// ActiveUserForDevice resolves the device's current user purely from
// persisted binding rows plus "now": expired temporary bindings are
// excluded in the query, the lowest priority value wins, and equal
// priorities fall to the most recently bound user. Returns ("", nil)
// when no live binding remains.
func (db *DB) ActiveUserForDevice(ctx context.Context, deviceID string, now time.Time) (string, error) {
	if err := db.deviceExists(ctx, deviceID); err != nil {
		return "", err
	}
	var userID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id FROM device_bindings
		 WHERE device_id = ? AND (expires_at IS NULL OR expires_at > ?)
		 ORDER BY priority ASC, bound_at DESC
		 LIMIT 1`, deviceID, now).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve active user: %w", err)
	}
	return userID, nil
}

// BindingsForDevice returns all binding rows for a device, including
// expired ones, ordered by precedence.
func (db *DB) BindingsForDevice(ctx context.Context, deviceID string) ([]models.DeviceBinding, error) {
	if err := db.deviceExists(ctx, deviceID); err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx,
		`SELECT device_id, user_id, binding_type, priority, bound_at, expires_at
		 FROM device_bindings WHERE device_id = ?
		 ORDER BY priority ASC, bound_at DESC`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bindings: %w", err)
	}
	defer rows.Close()

	var bindings []models.DeviceBinding
	for rows.Next() {
		var (
			b       models.DeviceBinding
			expires sql.NullTime
		)
		if err := rows.Scan(&b.DeviceID, &b.UserID, &b.Type, &b.Priority,
			&b.BoundAt, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan binding: %w", err)
		}
		b.ExpiresAt = timePtr(expires)
		bindings = append(bindings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bindings: %w", err)
	}
	return bindings, nil
}

// DevicesForUser returns every device holding any binding to the user.
// Binding existence gates inclusion, not binding precedence.
func (db *DB) DevicesForUser(ctx context.Context, userID string) ([]models.Device, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT d.id, d.household_id, d.name, d.type, d.manufacturer, d.model,
		        d.room, d.capabilities, d.address, d.online, d.last_seen, d.created_at
		 FROM devices d
		 JOIN device_bindings b ON b.device_id = d.id
		 WHERE b.user_id = ?
		 ORDER BY d.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user devices: %w", err)
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var (
			d            models.Device
			capabilities string
		)
		if err := rows.Scan(&d.ID, &d.HouseholdID, &d.Name, &d.Type,
			&d.Manufacturer, &d.Model, &d.Room, &capabilities, &d.Address,
			&d.Online, &d.LastSeen, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		if err := json.Unmarshal([]byte(capabilities), &d.Capabilities); err != nil {
			return nil, fmt.Errorf("failed to parse capabilities: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user devices: %w", err)
	}
	return devices, nil
}

// AssignDeviceToHousehold sets the device's household. Used when a
// registered device is claimed by a household.
func (db *DB) AssignDeviceToHousehold(ctx context.Context, deviceID, householdID string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE devices SET household_id = ? WHERE id = ?`, householdID, deviceID)
	if err != nil {
		return fmt.Errorf("failed to assign device: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
