package mixer

import (
	"fmt"
	"math"

	"github.com/desertthunder/mixt/internal/shared"
)

// Allocate computes an integer track quota per source such that quotas sum
// exactly to total.
//
// Weights are normalized to sum to 1; an all-zero weight map is treated as
// an equal split. Raw quotas come from rounding total × share, then the
// rounding drift is repaired one unit at a time walking sources in the
// given order (cycling until the drift is zero), clamping each quota at 0.
// order fixes the iteration sequence since map order is unspecified.
func Allocate(order []string, weights map[string]float64, total int) (map[string]int, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: total track count must be non-negative, got %d", shared.ErrInvalidConfig, total)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: no sources to allocate across", shared.ErrInvalidConfig)
	}

	var sum float64
	for _, name := range order {
		w := weights[name]
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v for source %q", shared.ErrInvalidConfig, w, name)
		}
		sum += w
	}

	quotas := make(map[string]int, len(order))
	for _, name := range order {
		share := 1 / float64(len(order))
		if sum > 0 {
			share = weights[name] / sum
		}
		quotas[name] = int(math.Round(float64(total) * share))
	}

	diff := total
	for _, q := range quotas {
		diff -= q
	}

	for diff != 0 {
		for _, name := range order {
			if diff == 0 {
				break
			}
			if diff > 0 {
				quotas[name]++
				diff--
			} else if quotas[name] > 0 {
				quotas[name]--
				diff++
			}
		}
	}

	return quotas, nil
}
