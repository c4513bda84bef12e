package mixer

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
)

func source(name string, keys ...models.TrackKey) *models.SourcePlaylist {
	records := make(map[models.TrackKey]models.TrackRecord, len(keys))
	for _, k := range keys {
		records[k] = models.TrackRecord{"Artist": k.Artist, "Name": k.Title, "Source": name}
	}
	return &models.SourcePlaylist{
		Name:    name,
		Keys:    keys,
		Records: records,
		Header:  []string{"Name", "Artist", "Source"},
	}
}

func TestSharedKeys(t *testing.T) {
	a := source("a", key("x", "1"), key("x", "2"), key("y", "3"))
	b := source("b", key("x", "1"), key("z", "4"))

	sharedSet := SharedKeys([]*models.SourcePlaylist{a, b})

	if len(sharedSet) != 1 {
		t.Fatalf("expected 1 shared key, got %d", len(sharedSet))
	}
	if _, ok := sharedSet[key("x", "1")]; !ok {
		t.Error("expected (x,1) in shared set")
	}
}

func TestBuildPools(t *testing.T) {
	t.Run("filters shared keys when disallowed", func(t *testing.T) {
		a := source("a", key("x", "1"), key("y", "2"))
		b := source("b", key("x", "1"), key("z", "3"))
		sharedSet := SharedKeys([]*models.SourcePlaylist{a, b})

		pools := BuildPools([]*models.SourcePlaylist{a, b}, true, sharedSet, IdentityShuffler)

		if len(pools["a"]) != 1 || pools["a"][0] != key("y", "2") {
			t.Errorf("pool a = %v, want [y/2]", pools["a"])
		}
		if len(pools["b"]) != 1 || pools["b"][0] != key("z", "3") {
			t.Errorf("pool b = %v, want [z/3]", pools["b"])
		}

		// sources themselves stay intact for metadata lookups
		if len(a.Keys) != 2 {
			t.Errorf("source a was mutated: %v", a.Keys)
		}
	})

	t.Run("keeps shared keys when allowed", func(t *testing.T) {
		a := source("a", key("x", "1"), key("y", "2"))
		b := source("b", key("x", "1"))
		sharedSet := SharedKeys([]*models.SourcePlaylist{a, b})

		pools := BuildPools([]*models.SourcePlaylist{a, b}, false, sharedSet, IdentityShuffler)

		if len(pools["a"]) != 2 || len(pools["b"]) != 1 {
			t.Errorf("pools should keep shared keys: %v", pools)
		}
	})

	t.Run("filtering is idempotent", func(t *testing.T) {
		a := source("a", key("x", "1"), key("y", "2"), key("z", "3"))
		b := source("b", key("x", "1"))
		sharedSet := SharedKeys([]*models.SourcePlaylist{a, b})
		sources := []*models.SourcePlaylist{a, b}

		first := BuildPools(sources, true, sharedSet, IdentityShuffler)
		second := BuildPools(sources, true, sharedSet, IdentityShuffler)

		for name := range first {
			if len(first[name]) != len(second[name]) {
				t.Fatalf("pool %s changed between runs", name)
			}
			for i := range first[name] {
				if first[name][i] != second[name][i] {
					t.Errorf("pool %s differs at %d", name, i)
				}
			}
		}
	})

	t.Run("seeded shuffle is reproducible", func(t *testing.T) {
		keys := []models.TrackKey{key("a", "1"), key("b", "2"), key("c", "3"), key("d", "4"), key("e", "5")}
		src := source("a", keys...)

		first := BuildPools([]*models.SourcePlaylist{src}, false, nil, SeededShuffler(42))
		second := BuildPools([]*models.SourcePlaylist{src}, false, nil, SeededShuffler(42))

		for i := range first["a"] {
			if first["a"][i] != second["a"][i] {
				t.Fatalf("seeded pools differ at %d", i)
			}
		}
	})
}

func TestMixEngineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("shared track capped across sources", func(t *testing.T) {
		// A=[(x,1),(x,2),(y,3)], B=[(x,1),(z,4)], 50/50, total 2, cap 1
		a := source("A", key("x", "1"), key("x", "2"), key("y", "3"))
		b := source("B", key("x", "1"), key("z", "4"))

		engine := NewMixEngine(IdentityShuffler)
		result, err := engine.Run(ctx, nil, []*models.SourcePlaylist{a, b}, models.MixOptions{
			Weights:      map[string]float64{"A": 0.5, "B": 0.5},
			Total:        2,
			MaxPerArtist: 1,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(result.Tracks) > 2 {
			t.Errorf("mix length %d exceeds requested total 2", len(result.Tracks))
		}

		xCount := 0
		for _, k := range result.Tracks {
			if k.Artist == "x" {
				xCount++
			}
		}
		if xCount > 1 {
			t.Errorf("artist x appears %d times, cap is 1", xCount)
		}
	})

	t.Run("zero total yields empty mix without error", func(t *testing.T) {
		a := source("A", key("x", "1"))

		engine := NewMixEngine(IdentityShuffler)
		result, err := engine.Run(ctx, nil, []*models.SourcePlaylist{a}, models.MixOptions{
			Weights: map[string]float64{"A": 1},
			Total:   0,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if len(result.Tracks) != 0 {
			t.Errorf("expected empty mix, got %d tracks", len(result.Tracks))
		}
	})

	t.Run("single source unlimited cap returns whole pool", func(t *testing.T) {
		keys := []models.TrackKey{key("a", "1"), key("b", "2"), key("c", "3"), key("d", "4"), key("e", "5")}
		a := source("A", keys...)

		engine := NewMixEngine(IdentityShuffler)
		result, err := engine.Run(ctx, nil, []*models.SourcePlaylist{a}, models.MixOptions{
			Weights:      map[string]float64{"A": 1.0},
			Total:        5,
			MaxPerArtist: 0,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(result.Tracks) != 5 {
			t.Fatalf("expected 5 tracks, got %d", len(result.Tracks))
		}
		for i, k := range keys {
			if result.Tracks[i] != k {
				t.Errorf("track %d = %v, want %v (identity shuffle order)", i, result.Tracks[i], k)
			}
		}
		if result.Short() {
			t.Error("full mix should not report short")
		}
	})

	t.Run("short result is surfaced not erased", func(t *testing.T) {
		a := source("A", key("x", "1"), key("x", "2"))

		engine := NewMixEngine(IdentityShuffler)
		result, err := engine.Run(ctx, nil, []*models.SourcePlaylist{a}, models.MixOptions{
			Weights:      map[string]float64{"A": 1},
			Total:        10,
			MaxPerArtist: 1,
		})
		if err != nil {
			t.Fatalf("underfill must not be an error: %v", err)
		}
		if len(result.Tracks) != 1 {
			t.Errorf("expected 1 track after capping, got %d", len(result.Tracks))
		}
		if !result.Short() {
			t.Error("expected Short() to report the underfill")
		}
	})

	t.Run("no sources is a config error", func(t *testing.T) {
		engine := NewMixEngine(IdentityShuffler)
		_, err := engine.Run(ctx, nil, nil, models.MixOptions{Total: 10})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("merged metadata is first-source-wins and total", func(t *testing.T) {
		dup := key("x", "1")
		a := source("A", dup)
		b := source("B", dup, key("z", "2"))

		engine := NewMixEngine(IdentityShuffler)
		result, err := engine.Run(ctx, nil, []*models.SourcePlaylist{a, b}, models.MixOptions{
			Weights: map[string]float64{"A": 0.5, "B": 0.5},
			Total:   2,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if rec := result.Lookup(dup); rec["Source"] != "A" {
			t.Errorf("expected first source's record for shared key, got %v", rec)
		}

		fallback := result.Lookup(key("nobody", "nothing"))
		if fallback[models.ColumnArtist] != "nobody" || fallback[models.ColumnName] != "nothing" {
			t.Errorf("lookup must synthesize a fallback record, got %v", fallback)
		}
	})

	t.Run("progress updates arrive in phase order", func(t *testing.T) {
		a := source("A", key("x", "1"))
		progress := make(chan ProgressUpdate, 16)

		engine := NewMixEngine(IdentityShuffler)
		_, err := engine.Run(ctx, progress, []*models.SourcePlaylist{a}, models.MixOptions{
			Weights: map[string]float64{"A": 1},
			Total:   1,
		})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}
		if len(phases) == 0 {
			t.Fatal("expected progress updates")
		}
		for i := 1; i < len(phases); i++ {
			if phases[i] < phases[i-1] {
				t.Errorf("phase %v arrived after %v", phases[i], phases[i-1])
			}
		}
		if phases[len(phases)-1] != DonePhase {
			t.Errorf("last phase = %v, want done", phases[len(phases)-1])
		}
	})
}
