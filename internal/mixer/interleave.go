package mixer

import (
	"sort"

	"github.com/desertthunder/mixt/internal/models"
)

type placement struct {
	pos float64
	key models.TrackKey
}

// Interleave merges per-source selections into one ordered sequence by
// spreading each source's picks evenly across the output range.
//
// A source with k tracks places track i at position i × (total−1) / (k−1),
// so every source spans the full [0, total−1] range regardless of its
// quota; a lone track sits at total/2. All placements are then stably
// sorted by position, so ties keep source order and selection order.
func Interleave(order []string, selections map[string][]models.TrackKey, total int) models.MixedPlaylist {
	var placed []placement

	for _, name := range order {
		tracks := selections[name]
		k := len(tracks)
		if k == 0 {
			continue
		}

		if k == 1 {
			placed = append(placed, placement{pos: float64(total) / 2, key: tracks[0]})
			continue
		}

		step := float64(total-1) / float64(k-1)
		for i, key := range tracks {
			placed = append(placed, placement{pos: float64(i) * step, key: key})
		}
	}

	sort.SliceStable(placed, func(i, j int) bool {
		return placed[i].pos < placed[j].pos
	})

	mixed := make(models.MixedPlaylist, len(placed))
	for i, p := range placed {
		mixed[i] = p.key
	}
	return mixed
}
