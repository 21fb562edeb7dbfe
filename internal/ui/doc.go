// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for building a playlist from local
// concert listings:
//  1. [ScanView] : Monitor calendar scanning and artist resolution
//  2. [TrackListView] : Review the collected tracks before publishing
//  3. [ConfirmView] : Confirm playlist creation
//  4. [PublishView] : Monitor playlist creation and track appends
//  5. [ResultView] : Display the published playlist and unresolved names
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the BuildEngine, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
