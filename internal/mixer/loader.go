package mixer

import (
	"math/rand"

	"github.com/desertthunder/mixt/internal/models"
)

// Shuffler produces a permutation of [0, n). The pipeline applies it to
// each source pool after shared-track filtering, making shuffle order the
// single injectable source of randomness.
type Shuffler func(n int) []int

// RandomShuffler returns a Shuffler backed by the process-wide generator.
func RandomShuffler() Shuffler {
	return rand.Perm
}

// SeededShuffler returns a deterministic Shuffler for reproducible mixes.
func SeededShuffler(seed int64) Shuffler {
	r := rand.New(rand.NewSource(seed))
	return r.Perm
}

// IdentityShuffler preserves pool order. Used in tests.
func IdentityShuffler(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// SharedKeys returns the set of track keys appearing in more than one of
// the given sources.
func SharedKeys(sources []*models.SourcePlaylist) map[models.TrackKey]struct{} {
	counts := make(map[models.TrackKey]int)
	for _, src := range sources {
		for _, key := range src.Keys {
			counts[key]++
		}
	}

	shared := make(map[models.TrackKey]struct{})
	for key, n := range counts {
		if n > 1 {
			shared[key] = struct{}{}
		}
	}
	return shared
}

// BuildPools prepares the selection pool for each source: optionally drops
// keys in the shared set, then applies the shuffler's permutation. The
// returned pools are fresh slices; the normalized sources stay untouched
// for metadata lookups.
func BuildPools(sources []*models.SourcePlaylist, disallowShared bool, sharedSet map[models.TrackKey]struct{}, shuffle Shuffler) map[string][]models.TrackKey {
	if shuffle == nil {
		shuffle = RandomShuffler()
	}

	pools := make(map[string][]models.TrackKey, len(sources))
	for _, src := range sources {
		kept := make([]models.TrackKey, 0, len(src.Keys))
		for _, key := range src.Keys {
			if disallowShared {
				if _, isShared := sharedSet[key]; isShared {
					continue
				}
			}
			kept = append(kept, key)
		}

		pool := make([]models.TrackKey, len(kept))
		for i, j := range shuffle(len(kept)) {
			pool[i] = kept[j]
		}
		pools[src.Name] = pool
	}

	return pools
}
