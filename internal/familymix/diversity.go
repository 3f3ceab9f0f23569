// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

package familymix

import (
	"sort"
	"strings"
)

// selectDiverse picks up to size candidates by descending weight while
// capping any single artist at maxPerArtist tracks. Greedy selection:
// the pool is scanned strongest-first and a candidate is skipped once
// its artist hits the cap. The skipped weight is not redistributed;
// the next-strongest other-artist candidate simply takes the slot.
//
// The cap is hard. A pool dominated by one artist yields a short mix
// rather than a cap-violating one.
func selectDiverse(pool []candidate, size, maxPerArtist int) []candidate {
	if size <= 0 || len(pool) == 0 {
		return nil
	}

	sorted := make([]candidate, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].weight > sorted[j].weight
	})

	selected := make([]candidate, 0, size)
	perArtist := make(map[string]int)

	for _, c := range sorted {
		if len(selected) == size {
			break
		}
		artist := artistKey(c.track.Artist)
		if maxPerArtist > 0 && perArtist[artist] >= maxPerArtist {
			continue
		}
		perArtist[artist]++
		selected = append(selected, c)
	}
	return selected
}

// artistKey folds case so "brian eno" and "Brian Eno" count against
// the same cap.
func artistKey(artist string) string {
	return strings.ToLower(strings.TrimSpace(artist))
}
