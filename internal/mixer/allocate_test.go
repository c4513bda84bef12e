package mixer

import (
	"errors"
	"math"
	"testing"

	"github.com/desertthunder/mixt/internal/shared"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name    string
		order   []string
		weights map[string]float64
		total   int
		want    map[string]int
	}{
		{
			name:    "even split",
			order:   []string{"a", "b"},
			weights: map[string]float64{"a": 0.5, "b": 0.5},
			total:   10,
			want:    map[string]int{"a": 5, "b": 5},
		},
		{
			name:    "weights get normalized",
			order:   []string{"a", "b"},
			weights: map[string]float64{"a": 75, "b": 25},
			total:   8,
			want:    map[string]int{"a": 6, "b": 2},
		},
		{
			name:    "all-zero weights fall back to equal split",
			order:   []string{"a", "b", "c", "d"},
			weights: map[string]float64{},
			total:   8,
			want:    map[string]int{"a": 2, "b": 2, "c": 2, "d": 2},
		},
		{
			name:    "rounding drift repaired in key order",
			order:   []string{"a", "b", "c"},
			weights: map[string]float64{"a": 1, "b": 1, "c": 1},
			total:   10,
			// raw rounds are 3,3,3; the leftover unit goes to "a"
			want: map[string]int{"a": 4, "b": 3, "c": 3},
		},
		{
			name:    "zero total",
			order:   []string{"a", "b"},
			weights: map[string]float64{"a": 0.9, "b": 0.1},
			total:   0,
			want:    map[string]int{"a": 0, "b": 0},
		},
		{
			name:    "single source takes everything",
			order:   []string{"a"},
			weights: map[string]float64{"a": 0.3},
			total:   7,
			want:    map[string]int{"a": 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocate(tt.order, tt.weights, tt.total)
			if err != nil {
				t.Fatalf("Allocate failed: %v", err)
			}
			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("quota[%s] = %d, want %d", name, got[name], want)
				}
			}
		})
	}
}

func TestAllocateErrors(t *testing.T) {
	t.Run("negative total", func(t *testing.T) {
		_, err := Allocate([]string{"a"}, map[string]float64{"a": 1}, -1)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("empty source set", func(t *testing.T) {
		_, err := Allocate(nil, nil, 10)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("negative weight", func(t *testing.T) {
		_, err := Allocate([]string{"a", "b"}, map[string]float64{"a": -0.5, "b": 1}, 10)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected config error, got %v", err)
		}
	})
}

// Quotas must always sum to the requested total, and every quota must sit
// within one unit of its ideal unrounded share.
func TestAllocateInvariants(t *testing.T) {
	cases := []struct {
		order   []string
		weights map[string]float64
		total   int
	}{
		{[]string{"a", "b", "c"}, map[string]float64{"a": 0.33, "b": 0.33, "c": 0.34}, 100},
		{[]string{"a", "b", "c"}, map[string]float64{"a": 1, "b": 2, "c": 4}, 97},
		{[]string{"a", "b", "c", "d", "e"}, map[string]float64{"a": 0.1}, 13},
		{[]string{"a", "b"}, map[string]float64{"a": 0.001, "b": 0.999}, 1},
		{[]string{"a", "b", "c", "d", "e", "f", "g"}, nil, 23},
		{[]string{"a"}, map[string]float64{"a": 5}, 1000},
	}

	for _, tc := range cases {
		quotas, err := Allocate(tc.order, tc.weights, tc.total)
		if err != nil {
			t.Fatalf("Allocate(%v, %d) failed: %v", tc.weights, tc.total, err)
		}

		sum := 0
		for _, q := range quotas {
			if q < 0 {
				t.Errorf("negative quota in %v", quotas)
			}
			sum += q
		}
		if sum != tc.total {
			t.Errorf("quotas %v sum to %d, want %d", quotas, sum, tc.total)
		}

		var weightSum float64
		for _, name := range tc.order {
			weightSum += tc.weights[name]
		}
		for _, name := range tc.order {
			share := 1 / float64(len(tc.order))
			if weightSum > 0 {
				share = tc.weights[name] / weightSum
			}
			ideal := float64(tc.total) * share
			if d := math.Abs(float64(quotas[name]) - ideal); d > 1 {
				t.Errorf("quota[%s] = %d deviates %.2f from ideal %.2f", name, quotas[name], d, ideal)
			}
		}
	}
}
