// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package familymix

import (
	"math"
	"time"

	"github.com/harmonia-home/harmonia/internal/models"
)

// likeBonus is the flat weight a liked track carries on top of its
// play-derived score.
const likeBonus = 0.5

// candidate is a track proposed for the mix by one member's listening
// history, carrying its computed weight.
type candidate struct {
	track  models.Track
	userID string
	weight float64
}

// signalWeight scores one listening signal.
//
// Plays contribute logarithmically so a 200-play obsession does not
// bury every other track, decayed exponentially by time since last
// play with the configured half-life. A like adds a flat bonus that
// does not decay: an old favorite stays on the table even when the
// play recency has faded.
func signalWeight(sig models.ListeningSignal, now time.Time, halfLife time.Duration) float64 {
	w := 0.0
	if sig.PlayCount > 0 {
		decay := 1.0
		if halfLife > 0 && now.After(sig.LastPlayed) {
			age := now.Sub(sig.LastPlayed)
			decay = math.Exp2(-age.Hours() / halfLife.Hours())
		}
		w = math.Log1p(float64(sig.PlayCount)) * decay
	}
	if sig.Liked {
		w += likeBonus
	}
	return w
}

// userCandidates converts one member's signals into weighted
// candidates, normalized so the member's weights sum to 1. The
// normalization keeps one heavy listener from dominating the merged
// pool: each member contributes the same total mass regardless of
// listening volume.
func userCandidates(userID string, signals []models.ListeningSignal, now time.Time, halfLife time.Duration) []candidate {
	cands := make([]candidate, 0, len(signals))
	total := 0.0
	for _, sig := range signals {
		w := signalWeight(sig, now, halfLife)
		if w <= 0 {
			continue
		}
		cands = append(cands, candidate{track: sig.Track, userID: userID, weight: w})
		total += w
	}
	if total > 0 {
		for i := range cands {
			cands[i].weight /= total
		}
	}
	return cands
}

// mergePools combines per-member candidate lists into one pool. When
// several members propose the same track, their weights add and the
// highest single contributor is credited, so shared tastes rise to the
// top of the blend.
func mergePools(pools [][]candidate) []candidate {
	merged := make(map[string]candidate)
	topShare := make(map[string]float64)
	order := make([]string, 0)
	for _, pool := range pools {
		for _, c := range pool {
			key := c.track.Key()
			existing, ok := merged[key]
			if !ok {
				merged[key] = c
				topShare[key] = c.weight
				order = append(order, key)
				continue
			}
			existing.weight += c.weight
			if c.weight > topShare[key] {
				topShare[key] = c.weight
				existing.userID = c.userID
			}
			merged[key] = existing
		}
	}
	out := make([]candidate, 0, len(merged))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}
