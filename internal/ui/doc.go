// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the music catalogs:
//  1. [SearchView] : Enter a keyword and pick a source
//  2. [ResultListView] : Browse the normalized search results
//  3. [DetailView] : Resolve the playable link and lyrics for one track
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Catalog calls run as [tea.Cmd] functions so the interface stays responsive while
// a provider chain resolves.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, tab, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
