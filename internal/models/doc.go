// Package models defines domain entities shared across the mixt pipeline.
//
// The package contains lightweight value types only:
//   - [TrackKey] : (artist, title) identity pair used for deduplication and capping
//   - [TrackRecord] : dynamic column → value metadata row from an export file
//   - [SourcePlaylist] : one normalized source with keys, records, and header order
//   - [MixOptions] : parameters for a mix run
//   - [MixedPlaylist] : the final ordered sequence of keys
//
// All pipeline stages communicate through these types; nothing here touches
// the filesystem or the database.
package models
