package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Playlist format errors
	ErrInvalidFormat = fmt.Errorf("invalid playlist format")
	ErrMissingColumn = fmt.Errorf("missing required column")
	ErrEmptyPlaylist = fmt.Errorf("playlist has no tracks")

	// Library and cache errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrSourceNotFound   = fmt.Errorf("source not found in cache")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
