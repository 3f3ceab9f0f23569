// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harmonia-home/harmonia/internal/models"
)

func TestCreateHouseholdInsertsOwnerMembership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustCreateHousehold(t, db, "h1", "The Does", "alice")

	h, err := db.GetHousehold(ctx, "h1")
	if err != nil {
		t.Fatalf("GetHousehold() = %v", err)
	}
	if h.OwnerID != "alice" {
		t.Errorf("OwnerID = %q, want alice", h.OwnerID)
	}
	if len(h.Members) != 1 {
		t.Fatalf("len(Members) = %d, want 1", len(h.Members))
	}
	owner := h.Members[0]
	if owner.UserID != "alice" || owner.Role != models.RoleOwner {
		t.Errorf("owner member = %+v, want alice with role owner", owner)
	}
}

func TestGetHouseholdNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetHousehold(context.Background(), "missing")
	if !errors.Is(err, ErrHouseholdNotFound) {
		t.Errorf("GetHousehold() error = %v, want ErrHouseholdNotFound", err)
	}
}

func TestAddMember(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreateHousehold(t, db, "h1", "The Does", "alice")

	member := &models.HouseholdMember{
		HouseholdID: "h1",
		UserID:      "bob",
		Role:        models.RoleMember,
		DisplayName: "Bob",
		JoinedAt:    time.Now().UTC(),
	}
	if err := db.AddMember(ctx, member); err != nil {
		t.Fatalf("AddMember() = %v", err)
	}

	h, err := db.GetHousehold(ctx, "h1")
	if err != nil {
		t.Fatalf("GetHousehold() = %v", err)
	}
	if len(h.Members) != 2 {
		t.Errorf("len(Members) = %d, want 2", len(h.Members))
	}
}

func TestAddMemberDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreateHousehold(t, db, "h1", "The Does", "alice")

	member := &models.HouseholdMember{
		HouseholdID: "h1",
		UserID:      "bob",
		Role:        models.RoleMember,
		JoinedAt:    time.Now().UTC(),
	}
	if err := db.AddMember(ctx, member); err != nil {
		t.Fatalf("first AddMember() = %v", err)
	}
	if err := db.AddMember(ctx, member); !errors.Is(err, ErrDuplicateMember) {
		t.Errorf("second AddMember() error = %v, want ErrDuplicateMember", err)
	}

	// Member count increased exactly once.
	members, err := db.ListMembers(ctx, "h1")
	if err != nil {
		t.Fatalf("ListMembers() = %v", err)
	}
	if len(members) != 2 {
		t.Errorf("len(members) = %d, want 2", len(members))
	}
}

func TestAddMemberHouseholdNotFound(t *testing.T) {
	db := newTestDB(t)

	member := &models.HouseholdMember{
		HouseholdID: "missing",
		UserID:      "bob",
		Role:        models.RoleMember,
		JoinedAt:    time.Now().UTC(),
	}
	if err := db.AddMember(context.Background(), member); !errors.Is(err, ErrHouseholdNotFound) {
		t.Errorf("AddMember() error = %v, want ErrHouseholdNotFound", err)
	}
}

func TestRemoveMemberOwnerProtected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreateHousehold(t, db, "h1", "The Does", "alice")

	removed, err := db.RemoveMember(ctx, "h1", "alice")
	if !errors.Is(err, ErrOwnerProtected) {
		t.Errorf("RemoveMember(owner) error = %v, want ErrOwnerProtected", err)
	}
	if removed {
		t.Error("RemoveMember(owner) removed = true, want false")
	}

	// Member list never shrinks through this path.
	members, err := db.ListMembers(ctx, "h1")
	if err != nil {
		t.Fatalf("ListMembers() = %v", err)
	}
	if len(members) != 1 {
		t.Errorf("len(members) = %d, want 1", len(members))
	}
}

func TestRemoveMemberRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreateHousehold(t, db, "h1", "The Does", "alice")

	before, _ := db.ListMembers(ctx, "h1")

	member := &models.HouseholdMember{
		HouseholdID: "h1",
		UserID:      "bob",
		Role:        models.RoleMember,
		JoinedAt:    time.Now().UTC(),
	}
	if err := db.AddMember(ctx, member); err != nil {
		t.Fatalf("AddMember() = %v", err)
	}

	removed, err := db.RemoveMember(ctx, "h1", "bob")
	if err != nil {
		t.Fatalf("RemoveMember() = %v", err)
	}
	if !removed {
		t.Error("RemoveMember() removed = false, want true")
	}

	after, err := db.ListMembers(ctx, "h1")
	if err != nil {
		t.Fatalf("ListMembers() = %v", err)
	}
	if len(after) != len(before) {
		t.Errorf("member list size = %d after add+remove, want %d", len(after), len(before))
	}
}

func TestRemoveNonMemberReturnsFalse(t *testing.T) {
	db := newTestDB(t)
	mustCreateHousehold(t, db, "h1", "The Does", "alice")

	removed, err := db.RemoveMember(context.Background(), "h1", "stranger")
	if err != nil {
		t.Fatalf("RemoveMember() = %v", err)
	}
	if removed {
		t.Error("RemoveMember(non-member) removed = true, want false")
	}
}

func TestRemoveMemberHouseholdNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.RemoveMember(context.Background(), "missing", "bob")
	if !errors.Is(err, ErrHouseholdNotFound) {
		t.Errorf("RemoveMember() error = %v, want ErrHouseholdNotFound", err)
	}
}

func TestHouseholdSettingsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	h := &models.Household{
		ID:      "h1",
		Name:    "The Does",
		OwnerID: "alice",
		Settings: models.HouseholdSettings{
			QuietHoursStart:        "22:00",
			QuietHoursEnd:          "07:00",
			ExplicitContentAllowed: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.CreateHousehold(ctx, h); err != nil {
		t.Fatalf("CreateHousehold() = %v", err)
	}

	got, err := db.GetHousehold(ctx, "h1")
	if err != nil {
		t.Fatalf("GetHousehold() = %v", err)
	}
	if got.Settings != h.Settings {
		t.Errorf("Settings = %+v, want %+v", got.Settings, h.Settings)
	}
}

func TestTouchHousehold(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	mustCreateHousehold(t, db, "h1", "The Does", "alice")

	later := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	if err := db.TouchHousehold(ctx, "h1", later); err != nil {
		t.Fatalf("TouchHousehold() = %v", err)
	}

	h, _ := db.GetHousehold(ctx, "h1")
	if !h.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %s, want %s", h.UpdatedAt, later)
	}

	if err := db.TouchHousehold(ctx, "missing", later); !errors.Is(err, ErrHouseholdNotFound) {
		t.Errorf("TouchHousehold(missing) error = %v, want ErrHouseholdNotFound", err)
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unique", errors.New("constraint failed: UNIQUE constraint failed: household_members.household_id, household_members.user_id (2067)"), true},
		{"primary key", errors.New("constraint failed: PRIMARY KEY constraint failed (1555)"), true},
		{"not null", errors.New("constraint failed: NOT NULL constraint failed: households.name (1299)"), false},
		{"check", errors.New("constraint failed: CHECK constraint failed: positive_position (275)"), false},
		{"foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), false},
		{"unrelated", errors.New("database is locked (5)"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueConstraintError(tt.err); got != tt.want {
				t.Errorf("isUniqueConstraintError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
