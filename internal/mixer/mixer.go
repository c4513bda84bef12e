package mixer

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
)

// MixResult contains all data from a full mix run.
type MixResult struct {
	Tracks    models.MixedPlaylist                    // Final ordered sequence; len <= Requested
	Requested int                                     // Total that was asked for
	Quotas    map[string]int                          // Allocated quota per source
	Selected  map[string]int                          // Actually selected count per source
	Records   map[models.TrackKey]models.TrackRecord  // Merged metadata, first source wins
	Header    []string                                // Canonical column order for full-format export
}

// Short reports whether the mix came up shorter than requested. This is
// informational; a short result is still valid output.
func (r *MixResult) Short() bool {
	return len(r.Tracks) < r.Requested
}

// Lookup returns the merged metadata record for a key, synthesizing a
// minimal record when none was stored. Always returns a usable record.
func (r *MixResult) Lookup(key models.TrackKey) models.TrackRecord {
	if rec, ok := r.Records[key]; ok {
		return rec
	}
	return models.TrackRecord{models.ColumnArtist: key.Artist, models.ColumnName: key.Title}
}

// Engine defines the mixing operation for CLI/UI layers.
type Engine interface {
	// Run blends the given normalized sources into one mixed playlist.
	Run(ctx context.Context, progress chan<- ProgressUpdate, sources []*models.SourcePlaylist, opts models.MixOptions) (*MixResult, error)
}

// MixEngine implements Engine. The zero value uses the process-wide random
// shuffler; inject a seeded or identity [Shuffler] for reproducible runs.
type MixEngine struct {
	shuffle Shuffler
}

// NewMixEngine creates a MixEngine with the provided shuffler.
// A nil shuffler falls back to [RandomShuffler].
func NewMixEngine(shuffle Shuffler) *MixEngine {
	if shuffle == nil {
		shuffle = RandomShuffler()
	}
	return &MixEngine{shuffle: shuffle}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MixEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run executes the load → allocate → select → interleave pipeline.
//
// Configuration problems (no sources, negative total, negative weights)
// abort with an error and no partial output. Coming up short of the
// requested total is not an error; callers inspect [MixResult.Short].
func (e *MixEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, sources []*models.SourcePlaylist, opts models.MixOptions) (*MixResult, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: at least one source playlist is required", shared.ErrInvalidConfig)
	}

	order := make([]string, len(sources))
	for i, src := range sources {
		order[i] = src.Name
	}

	e.sendProgress(progress, buildPoolsUpdate(1, 4, len(sources)))
	sharedSet := SharedKeys(sources)
	pools := BuildPools(sources, opts.DisallowShared, sharedSet, e.shuffle)

	e.sendProgress(progress, allocateUpdate(2, 4, opts.Total))
	quotas, err := Allocate(order, opts.Weights, opts.Total)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, selectUpdate(3, 4, opts.MaxPerArtist))
	selections, _ := Select(order, pools, quotas, opts.MaxPerArtist)

	e.sendProgress(progress, interleaveUpdate(4, 4))
	mixed := Interleave(order, selections, opts.Total)

	result := &MixResult{
		Tracks:    mixed,
		Requested: opts.Total,
		Quotas:    quotas,
		Selected:  make(map[string]int, len(order)),
		Records:   make(map[models.TrackKey]models.TrackRecord),
	}

	for _, name := range order {
		result.Selected[name] = len(selections[name])
	}

	for _, src := range sources {
		if result.Header == nil && len(src.Header) > 0 {
			result.Header = src.Header
		}
		for key, rec := range src.Records {
			if _, ok := result.Records[key]; !ok {
				result.Records[key] = rec
			}
		}
	}

	e.sendProgress(progress, mixedUpdate(len(mixed), opts.Total))
	return result, nil
}
