// Package repositories implements SQLite persistence for normalized source
// playlists.
//
// The cache saves the normalization output so repeat mix runs skip decoding
// and deduplicating the raw exports. A source is keyed by name; saving a
// source again replaces the previous snapshot wholesale.
//
// Key Implementations:
//   - [SourceRepository] : Source playlist snapshots with per-track metadata rows
package repositories
