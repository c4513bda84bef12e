package mixer

import (
	"github.com/desertthunder/mixt/internal/models"
)

// Select picks tracks from each source pool under its quota and a global
// per-artist cap.
//
// Sources are processed in the given order; within a source the pool is
// scanned in order and a track is accepted while the source is below quota
// and the track's artist is below the cap across everything accepted so
// far. Each acceptance bumps the artist's running tally; capped tracks are
// skipped permanently, never deferred. maxPerArtist 0 disables the cap.
//
// Returns the per-source selections and the final artist tally. Filling
// fewer tracks than the quotas asked for is a normal outcome.
func Select(order []string, pools map[string][]models.TrackKey, quotas map[string]int, maxPerArtist int) (map[string][]models.TrackKey, map[string]int) {
	selections := make(map[string][]models.TrackKey, len(order))
	artistTally := make(map[string]int)

	for _, name := range order {
		quota := quotas[name]
		picked := make([]models.TrackKey, 0, quota)

		for _, key := range pools[name] {
			if len(picked) == quota {
				break
			}
			if maxPerArtist > 0 && artistTally[key.Artist] >= maxPerArtist {
				continue
			}
			picked = append(picked, key)
			artistTally[key.Artist]++
		}

		selections[name] = picked
	}

	return selections, artistTally
}
