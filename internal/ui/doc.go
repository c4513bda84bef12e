// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for building a mixed playlist:
//  1. [SourcePickView] : Browse and toggle the playlist exports to blend
//  2. [OptionsView] : Edit mix parameters (total, artist cap, slice, weights)
//  3. [MixingView] : Monitor real-time progress updates
//  4. [ResultView] : Display per-source counts and the written output files
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the MixEngine, providing non-blocking
// status reporting while the pipeline runs.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
