// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package familymix

import (
	"math"
	"testing"
	"time"

	"github.com/harmonia-home/harmonia/internal/models"
)

func signal(trackID, artist string, plays int, liked bool, lastPlayed time.Time) models.ListeningSignal {
	return models.ListeningSignal{
		Track: models.Track{
			TrackID:  trackID,
			Provider: "local",
			Title:    trackID,
			Artist:   artist,
		},
		PlayCount:  plays,
		Liked:      liked,
		LastPlayed: lastPlayed,
	}
}

func TestSignalWeight(t *testing.T) {
	now := time.Now().UTC()
	halfLife := 7 * 24 * time.Hour

	tests := []struct {
		name string
		sig  models.ListeningSignal
		want float64
	}{
		{
			name: "fresh plays undecayed",
			sig:  signal("t1", "a", 9, false, now),
			want: math.Log1p(9),
		},
		{
			name: "one half-life halves the play score",
			sig:  signal("t1", "a", 9, false, now.Add(-halfLife)),
			want: math.Log1p(9) / 2,
		},
		{
			name: "like alone",
			sig:  signal("t1", "a", 0, true, time.Time{}),
			want: likeBonus,
		},
		{
			name: "like bonus does not decay",
			sig:  signal("t1", "a", 9, true, now.Add(-halfLife)),
			want: math.Log1p(9)/2 + likeBonus,
		},
		{
			name: "no signal",
			sig:  signal("t1", "a", 0, false, time.Time{}),
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := signalWeight(tt.sig, now, halfLife)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("signalWeight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserCandidatesNormalized(t *testing.T) {
	now := time.Now().UTC()
	signals := []models.ListeningSignal{
		signal("t1", "a", 100, true, now),
		signal("t2", "b", 50, false, now),
		signal("t3", "c", 1, false, now),
	}

	cands := userCandidates("alice", signals, now, 7*24*time.Hour)
	if len(cands) != 3 {
		t.Fatalf("len(cands) = %d, want 3", len(cands))
	}

	total := 0.0
	for _, c := range cands {
		if c.userID != "alice" {
			t.Errorf("userID = %q, want alice", c.userID)
		}
		total += c.weight
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("normalized weights sum to %v, want 1", total)
	}
}

func TestUserCandidatesDropsZeroWeight(t *testing.T) {
	now := time.Now().UTC()
	signals := []models.ListeningSignal{
		signal("t1", "a", 5, false, now),
		signal("t2", "b", 0, false, time.Time{}),
	}

	cands := userCandidates("alice", signals, now, 7*24*time.Hour)
	if len(cands) != 1 {
		t.Fatalf("len(cands) = %d, want 1 (zero-weight signal dropped)", len(cands))
	}
	if cands[0].track.TrackID != "t1" {
		t.Errorf("kept track = %q, want t1", cands[0].track.TrackID)
	}
}

func TestMergePoolsSharedTaste(t *testing.T) {
	shared := models.Track{TrackID: "shared", Provider: "local", Artist: "a"}
	pools := [][]candidate{
		{
			{track: shared, userID: "alice", weight: 0.6},
			{track: models.Track{TrackID: "x", Provider: "local", Artist: "b"}, userID: "alice", weight: 0.4},
		},
		{
			{track: shared, userID: "bob", weight: 0.3},
			{track: models.Track{TrackID: "y", Provider: "local", Artist: "c"}, userID: "bob", weight: 0.7},
		},
	}

	merged := mergePools(pools)
	if len(merged) != 3 {
		t.Fatalf("len(merged) = %d, want 3", len(merged))
	}

	var sharedCand *candidate
	for i := range merged {
		if merged[i].track.TrackID == "shared" {
			sharedCand = &merged[i]
		}
	}
	if sharedCand == nil {
		t.Fatal("shared track missing from merged pool")
	}
	if math.Abs(sharedCand.weight-0.9) > 1e-9 {
		t.Errorf("shared weight = %v, want 0.9 (sum of contributions)", sharedCand.weight)
	}
	if sharedCand.userID != "alice" {
		t.Errorf("contributor = %q, want alice (largest single share)", sharedCand.userID)
	}
}
