// package models defines the data model for the playlist mixing pipeline
package models

import "time"

// TrackKey identifies a track by its (artist, title) pair.
//
// Matching is case-sensitive and exact; the key is the uniqueness boundary
// for deduplication, shared-track detection, and the artist cap.
type TrackKey struct {
	Artist string
	Title  string
}

// TrackRecord holds the full metadata row for one track as exported by the
// source format. Column names map to string values; the schema is dynamic
// beyond the two required identity columns.
type TrackRecord map[string]string

// Required identity columns in an Apple Music playlist export.
const (
	ColumnArtist = "Artist"
	ColumnName   = "Name"
)

// Key extracts the identity TrackKey from a record.
// Callers must have validated that both identity columns are present.
func (r TrackRecord) Key() TrackKey {
	return TrackKey{Artist: r[ColumnArtist], Title: r[ColumnName]}
}

// SourcePlaylist is one normalized source: an ordered, deduplicated track
// key sequence plus the kept metadata rows and the original column order.
type SourcePlaylist struct {
	Name    string                   // Source name (export filename without extension)
	Keys    []TrackKey               // Deduplicated keys in first-seen order
	Records map[TrackKey]TrackRecord // First kept record per key
	Header  []string                 // Original column order for full-format re-export
}

// Lookup returns the stored record for a key, or a minimal synthesized
// record (artist and title only) when no metadata was kept for it.
// The lookup is total; callers never handle a missing-record case.
func (p *SourcePlaylist) Lookup(key TrackKey) TrackRecord {
	if rec, ok := p.Records[key]; ok {
		return rec
	}
	return TrackRecord{ColumnArtist: key.Artist, ColumnName: key.Title}
}

// MixOptions holds the tunable parameters for one mix run.
type MixOptions struct {
	Weights        map[string]float64 // Source name → desired weight (need not sum to 1)
	Total          int                // Requested mixed playlist length
	MaxPerArtist   int                // Global per-artist selection cap (0 = unlimited)
	DisallowShared bool               // Drop tracks appearing in more than one source
}

// MixedPlaylist is the final ordered track sequence. Its length may be
// shorter than the requested total when pools run out of eligible tracks;
// a short result is valid output, not an error.
type MixedPlaylist []TrackKey

// SourceInfo describes one cached source playlist without its tracks.
type SourceInfo struct {
	ID         string
	Name       string
	TrackCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
