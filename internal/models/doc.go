// Package models defines domain entities shared by every stage of the aria
// curation pipeline.
//
// The package contains three categories of types:
//
// 1. Pipeline records exchanged between stages:
//   - [Candidate] : An analyst-approved release awaiting catalog action
//   - [MatchResult] : Fuzzy identity resolution against the Tidal catalog
//   - [ActionOutcome] : What happened to one candidate or staged command
//   - [SourceSuggestion] : A proposed harvest source from the discovery pass
//
// 2. Catalog DTOs returned by the Tidal client:
//   - [CatalogAlbum], [Playlist], [PlaylistItem]
//
// 3. Persistent records:
//   - [LedgerEntry] : One finalized (artist, title) pair in the processed
//     ledger; the dedup identity is [LedgerKey]
//   - [StagedCommand] : A remove/promote correction read from a queue playlist
//
// Statuses are string enums so they survive round-trips through the JSON
// ledger and the run-history database unchanged.
package models
