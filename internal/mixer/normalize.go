package mixer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
)

// NormalizeOptions controls pre-deduplication trimming of a raw record list.
type NormalizeOptions struct {
	// Slice takes the first or last N records before the cap is applied.
	// Format: "T500" (top) or "B500" (bottom), letter case-insensitive.
	// Anything else, including an empty string, is a no-op.
	Slice string

	// MaxTracks keeps only the first N records after slicing.
	// 0 means no cap.
	MaxTracks int
}

// applySlice resolves a top/bottom slice spec against rows.
// Specs without a valid positive integer leave rows untouched.
func applySlice(rows []models.TrackRecord, spec string) []models.TrackRecord {
	if len(spec) < 2 {
		return rows
	}

	letter := strings.ToUpper(spec[:1])
	if letter != "T" && letter != "B" {
		return rows
	}

	n, err := strconv.Atoi(spec[1:])
	if err != nil || n <= 0 {
		return rows
	}

	if n >= len(rows) {
		return rows
	}
	if letter == "T" {
		return rows[:n]
	}
	return rows[len(rows)-n:]
}

// Normalize converts one raw source playlist into a deduplicated
// [models.SourcePlaylist].
//
// Records are sliced, capped, then deduplicated by (Artist, Name) with the
// first occurrence winning; surviving keys keep their first-seen order. A
// record missing either identity column fails the whole source with a
// format error.
func Normalize(name string, rows []models.TrackRecord, header []string, opts NormalizeOptions) (*models.SourcePlaylist, error) {
	rows = applySlice(rows, opts.Slice)

	if opts.MaxTracks > 0 && opts.MaxTracks < len(rows) {
		rows = rows[:opts.MaxTracks]
	}

	seen := make(map[models.TrackKey]struct{}, len(rows))
	playlist := &models.SourcePlaylist{
		Name:    name,
		Records: make(map[models.TrackKey]models.TrackRecord, len(rows)),
		Header:  header,
	}

	for i, row := range rows {
		if _, ok := row[models.ColumnArtist]; !ok {
			return nil, fmt.Errorf("%w: record %d in %q has no %s column", shared.ErrInvalidFormat, i, name, models.ColumnArtist)
		}
		if _, ok := row[models.ColumnName]; !ok {
			return nil, fmt.Errorf("%w: record %d in %q has no %s column", shared.ErrInvalidFormat, i, name, models.ColumnName)
		}

		key := row.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		playlist.Keys = append(playlist.Keys, key)
		playlist.Records[key] = row
	}

	return playlist, nil
}
